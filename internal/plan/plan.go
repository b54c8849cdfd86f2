// Package plan decodes, validates and fingerprints study plans before they
// reach the engine.
package plan

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pavelanni/neurocram/internal/model"
)

var (
	// ErrNoExams is returned by Validate for a plan without exams.
	ErrNoExams = errors.New("plan: no exams")
	// ErrInvalid wraps every field-level validation failure.
	ErrInvalid = errors.New("plan: invalid")
)

// examNamespace scopes generated exam ids.
var examNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("neurocram:exam"))

// Format is a plan encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension; anything that is
// not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and decodes a plan file.
func Load(path string) (model.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Plan{}, fmt.Errorf("read %s: %w", path, err)
	}
	p, err := Decode(bytes.NewReader(data), FormatFromPath(path))
	if err != nil {
		return model.Plan{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return p, nil
}

// Decode reads a plan in the given format. Unknown fields are rejected and
// exams without an id get a generated one.
func Decode(r io.Reader, f Format) (model.Plan, error) {
	var p model.Plan
	switch f {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return model.Plan{}, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return model.Plan{}, fmt.Errorf("parse json: %w", err)
		}
	default:
		return model.Plan{}, fmt.Errorf("unsupported plan format %q", f)
	}
	AssignIDs(&p)
	return p, nil
}

// AssignIDs gives every exam without an id a name-based UUID derived from its
// position, subject and date, so the same plan always gets the same ids.
func AssignIDs(p *model.Plan) {
	for i := range p.Exams {
		e := &p.Exams[i]
		if strings.TrimSpace(e.ID) == "" {
			name := fmt.Sprintf("%d|%s|%s", i, e.Subject, e.ExamDate)
			e.ID = uuid.NewSHA1(examNamespace, []byte(name)).String()
		}
	}
}

// Hash fingerprints a plan. Equal plans hash equally, so the hash can key a
// result cache.
func Hash(p model.Plan) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal plan: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
