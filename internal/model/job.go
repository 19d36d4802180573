package model

import (
	"context"
	"encoding/json"
)

// JobRecord is one job posting extracted from careers-page text by the LLM.
// The model's output shape is advisory only, so every field is optional:
// a nil field means the model omitted it or returned it with an unusable type.
type JobRecord struct {
	Role       *string  `json:"role,omitempty"`
	Experience *string  `json:"experience,omitempty"`
	Skills     []string `json:"skills,omitempty"`
}

// SkillList returns the skills, never nil.
func (j JobRecord) SkillList() []string {
	if j.Skills == nil {
		return []string{}
	}
	return j.Skills
}

// RoleOr returns the role, or fallback when the model did not provide one.
func (j JobRecord) RoleOr(fallback string) string {
	if j.Role == nil || *j.Role == "" {
		return fallback
	}
	return *j.Role
}

// Describe renders the record as compact JSON for embedding in a prompt.
func (j JobRecord) Describe() string {
	b, err := json.Marshal(j)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// LinkMatch is one portfolio link returned by a similarity query.
// Most-similar matches carry the highest scores.
type LinkMatch struct {
	Link  string
	Score float64
}

// PipelineResult pairs one extracted job with its generated email.
type PipelineResult struct {
	Job   JobRecord
	Email string
}

// PageFetcher retrieves the textual content of a careers page.
type PageFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// JobExtractor turns normalized page text into zero or more job records.
type JobExtractor interface {
	ExtractJobs(ctx context.Context, pageText string) ([]JobRecord, error)
}

// LinkQuerier resolves a skill list to the best-matching portfolio links.
type LinkQuerier interface {
	QueryLinks(skills []string) ([]LinkMatch, error)
}

// EmailWriter composes an email body from one job and its matched links.
type EmailWriter interface {
	WriteMail(ctx context.Context, job JobRecord, links []LinkMatch) (string, error)
}

// RunStore records generated emails so past runs can be reviewed.
type RunStore interface {
	SaveResult(url string, res PipelineResult) error
}
