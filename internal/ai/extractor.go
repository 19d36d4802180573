package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"coldreach/internal/model"
)

// Extractor implements model.JobExtractor using an LLM.
type Extractor struct {
	provider Provider
	tmpl     *template.Template
	logger   *slog.Logger
}

// NewExtractor creates an extractor that turns page text into job records.
func NewExtractor(provider Provider, tmpl *template.Template, logger *slog.Logger) *Extractor {
	return &Extractor{
		provider: provider,
		tmpl:     tmpl,
		logger:   logger,
	}
}

// ExtractJobs prompts the model with pageText and parses the response into
// job records. A single JSON object becomes a one-element slice; an array is
// used in order. Any other response shape is an *model.ExtractionParseError.
// Provider failures propagate unchanged; nothing is retried here.
func (e *Extractor) ExtractJobs(ctx context.Context, pageText string) ([]model.JobRecord, error) {
	var promptBuf bytes.Buffer
	err := e.tmpl.Execute(&promptBuf, struct{ PageData string }{PageData: pageText})
	if err != nil {
		return nil, fmt.Errorf("render extraction prompt: %w", err)
	}

	raw, err := e.provider.Complete(ctx, promptBuf.String())
	if err != nil {
		return nil, fmt.Errorf("extract jobs: %w", err)
	}

	jobs, err := parseJobs(raw)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extracted jobs", "count", len(jobs))
	return jobs, nil
}

// parseJobs decodes the model's raw response into job records.
func parseJobs(raw string) ([]model.JobRecord, error) {
	cleaned := stripCodeFence(strings.TrimSpace(raw))

	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, &model.ExtractionParseError{Detail: err.Error()}
	}

	switch v := parsed.(type) {
	case map[string]any:
		return []model.JobRecord{recordFromObject(v)}, nil
	case []any:
		records := make([]model.JobRecord, 0, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, &model.ExtractionParseError{Detail: "array element is not a JSON object"}
			}
			records = append(records, recordFromObject(obj))
		}
		return records, nil
	default:
		return nil, &model.ExtractionParseError{Detail: "response is not a JSON object or array"}
	}
}

// recordFromObject coerces one decoded JSON object into a JobRecord.
// Absent or wrong-typed fields stay nil; no field is required.
func recordFromObject(obj map[string]any) model.JobRecord {
	var rec model.JobRecord
	if s, ok := obj["role"].(string); ok {
		rec.Role = &s
	}
	if s, ok := obj["experience"].(string); ok {
		rec.Experience = &s
	}
	if items, ok := obj["skills"].([]any); ok {
		for _, item := range items {
			if s, ok := item.(string); ok {
				rec.Skills = append(rec.Skills, s)
			}
		}
	}
	return rec
}

// stripCodeFence removes a surrounding markdown code fence, which some models
// add despite the no-preamble instruction.
func stripCodeFence(s string) string {
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
