package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/pavelanni/neurocram/internal/llm/prompts"
	"github.com/pavelanni/neurocram/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNoChoices is returned when the API answers without a completion.
var ErrNoChoices = errors.New("llm: no choices returned")

const maxTips = 5

// Advice is the study coach's answer.
type Advice struct {
	Summary      string   `json:"summary"`
	Tips         []string `json:"tips"`
	FocusSubject string   `json:"focus_subject"`
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
	tone  prompts.Tone
}

// New creates a new LLM client. An unknown tone falls back to the standard
// coach.
func New(baseURL, apiKey, modelName, tone string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	t := prompts.Tone(tone)
	if !prompts.IsValidTone(tone) {
		t = prompts.ToneStandard
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
		tone:  t,
	}
}

// Coach asks the model for study advice on a scored plan. lang is the BCP 47
// tag of the language to answer in; note is the student's own question.
func (c *Client) Coach(ctx context.Context, p model.Plan, res model.IntelligenceResult, lang, note string) (*Advice, error) {
	if err := prompts.Load(prompts.FS); err != nil {
		return nil, err
	}
	data := prompts.NewCoachData(p, res, lang, note)
	systemPrompt, err := prompts.BuildCoachPrompt(c.tone, data)
	if err != nil {
		return nil, fmt.Errorf("build coach prompt: %w", err)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: data.Note},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "raw", raw)

	var advice Advice
	if err := json.Unmarshal([]byte(raw), &advice); err != nil {
		return nil, fmt.Errorf("parse LLM response: %w (raw: %s)", err, raw)
	}
	return tidy(advice, res), nil
}

// tidy trims the answer and drops a focus subject that is not in the plan.
func tidy(a Advice, res model.IntelligenceResult) *Advice {
	a.Summary = strings.TrimSpace(a.Summary)
	tips := make([]string, 0, len(a.Tips))
	for _, t := range a.Tips {
		if t = strings.TrimSpace(t); t != "" {
			tips = append(tips, t)
		}
	}
	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}
	a.Tips = tips

	focus := strings.TrimSpace(a.FocusSubject)
	idx := slices.IndexFunc(res.Exams, func(e model.ScoredExam) bool {
		return strings.EqualFold(e.Subject, focus)
	})
	if idx < 0 {
		a.FocusSubject = ""
	} else {
		a.FocusSubject = res.Exams[idx].Subject
	}
	return &a
}
