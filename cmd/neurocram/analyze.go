package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pavelanni/neurocram/internal/dates"
	appI18n "github.com/pavelanni/neurocram/internal/i18n"
	"github.com/pavelanni/neurocram/internal/model"
	"github.com/pavelanni/neurocram/internal/plan"
	"github.com/pavelanni/neurocram/internal/report"
	"github.com/pavelanni/neurocram/internal/service"
	"github.com/pavelanni/neurocram/internal/store"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Score one or more plan files (JSON or YAML)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAnalyze,
	}
	engineFlags(cmd)
	f := cmd.Flags()
	f.StringP("format", "f", "text", "Output format (text, json)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.IntP("jobs", "j", service.DefaultBatchLimit, "Plans analyzed concurrently")
	return cmd
}

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast FILE",
		Short: "Print the daily stress forecast for a plan file",
		Args:  cobra.ExactArgs(1),
		RunE:  runForecast,
	}
	engineFlags(cmd)
	f := cmd.Flags()
	f.StringP("format", "f", "text", "Output format (text, json)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export cached results as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "", "SQLite result cache path (required)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	logFlags(cmd)
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func purgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached results evaluated before a date",
		RunE:  runPurge,
	}
	f := cmd.Flags()
	f.String("db", "", "SQLite result cache path (required)")
	f.String("before", "", "Delete results evaluated before this date, YYYY-MM-DD (required)")
	logFlags(cmd)
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("before")
	return cmd
}

type analyzeOutput struct {
	File   string                    `json:"file"`
	Status string                    `json:"status"`
	Error  string                    `json:"error,omitempty"`
	Result *model.IntelligenceResult `json:"result,omitempty"`
}

func newService(cmd *cobra.Command) (*service.Intelligence, *store.Store, model.EngineConfig, dates.Day, error) {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	cfg, today, err := engineConfig(v)
	if err != nil {
		return nil, nil, cfg, today, err
	}
	if err := appI18n.Init(cfg.Lang); err != nil {
		return nil, nil, cfg, today, fmt.Errorf("init i18n: %w", err)
	}
	db, err := openCache(v.GetString("db"), cfg.Horizon)
	if err != nil {
		return nil, nil, cfg, today, err
	}
	return service.NewIntelligence(db, cfg.Horizon, slog.Default()), db, cfg, today, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	svc, db, cfg, today, err := newService(cmd)
	if err != nil {
		return err
	}
	defer db.Close()
	v := viperForCmd(cmd)
	svc.BatchLimit = v.GetInt("jobs")

	// Files that fail to load keep their slot and are reported with the rest.
	items := make([]service.BatchItem, len(args))
	var plans []model.Plan
	var loaded []int
	for i, path := range args {
		p, err := plan.Load(path)
		if err != nil {
			items[i].Err = err
			continue
		}
		plans = append(plans, p)
		loaded = append(loaded, i)
	}

	ctx := appI18n.WithLanguage(cmd.Context(), cfg.Lang)
	results, err := svc.AnalyzeBatch(ctx, plans, today)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	for j, i := range loaded {
		items[i] = results[j]
	}

	w, closeOut, err := openOutput(v.GetString("output"))
	if err != nil {
		return err
	}
	defer closeOut()

	var failed int
	outputs := make([]analyzeOutput, len(items))
	for i, it := range items {
		out := analyzeOutput{File: args[i], Status: "ok"}
		switch {
		case it.Err != nil:
			failed++
			out.Status, out.Error = "error", it.Err.Error()
			slog.Error("plan failed", "file", args[i], "error", it.Err)
		case !it.OK:
			out.Status = "no_data"
		default:
			out.Result = &it.Result
		}
		outputs[i] = out
	}

	switch strings.ToLower(v.GetString("format")) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outputs); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	default:
		for i, out := range outputs {
			if len(outputs) > 1 {
				fmt.Fprintf(w, "== %s ==\n", out.File)
			}
			var err error
			switch out.Status {
			case "ok":
				err = report.WriteText(ctx, w, report.Build(ctx, *out.Result))
			case "no_data":
				err = report.WriteText(ctx, w, report.NoData(ctx))
			default:
				_, err = fmt.Fprintf(w, "error: %s\n", out.Error)
			}
			if err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if i < len(outputs)-1 {
				fmt.Fprintln(w)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d plans failed", failed, len(items))
	}
	return nil
}

func runForecast(cmd *cobra.Command, args []string) error {
	svc, db, _, today, err := newService(cmd)
	if err != nil {
		return err
	}
	defer db.Close()
	v := viperForCmd(cmd)

	p, err := plan.Load(args[0])
	if err != nil {
		return err
	}
	res, ok, err := svc.Analyze(cmd.Context(), p, today)
	if err != nil {
		return err
	}

	w, closeOut, err := openOutput(v.GetString("output"))
	if err != nil {
		return err
	}
	defer closeOut()

	if strings.ToLower(v.GetString("format")) == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if !ok {
			return enc.Encode(map[string]string{"status": "no_data"})
		}
		return enc.Encode(res.StressForecast)
	}
	if !ok {
		ctx := appI18n.WithLanguage(cmd.Context(), v.GetString("lang"))
		return report.WriteText(ctx, w, report.NoData(ctx))
	}
	return writeForecastTable(w, res.StressForecast)
}

// writeForecastTable prints one row per day and marks the peak.
func writeForecastTable(w io.Writer, sf model.StressForecast) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSTRESS\t")
	for _, p := range sf.Forecast {
		mark := ""
		if p.Date.Equal(sf.PeakStressDay.Date) {
			mark = "peak"
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%s\n", p.Date, p.StressScore, mark)
	}
	return tw.Flush()
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportResults(time.Now())
	if err != nil {
		return fmt.Errorf("export results: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	w, closeOut, err := openOutput(v.GetString("output"))
	if err != nil {
		return err
	}
	defer closeOut()

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)
	slog.Info("exported cached results", "count", len(export.Results))
	return nil
}

func runPurge(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	before, err := dates.Parse(v.GetString("before"))
	if err != nil {
		return fmt.Errorf("before: %w", err)
	}
	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	n, err := db.Purge(before)
	if err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "purged %d cached results before %s\n", n, before)
	return nil
}
