package ai

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"coldreach/internal/model"
)

// Composer implements model.EmailWriter using an LLM.
type Composer struct {
	provider Provider
	tmpl     *template.Template
	logger   *slog.Logger
}

// NewComposer creates a composer that drafts cold emails for job records.
func NewComposer(provider Provider, tmpl *template.Template, logger *slog.Logger) *Composer {
	return &Composer{
		provider: provider,
		tmpl:     tmpl,
		logger:   logger,
	}
}

// WriteMail renders the persona prompt with the job record and matched links,
// invokes the model, and returns its response unmodified. The email body is
// free text; no structure is validated.
func (c *Composer) WriteMail(ctx context.Context, job model.JobRecord, links []model.LinkMatch) (string, error) {
	var promptBuf bytes.Buffer
	err := c.tmpl.Execute(&promptBuf, struct {
		JobDescription string
		LinkList       string
	}{
		JobDescription: job.Describe(),
		LinkList:       formatLinks(links),
	})
	if err != nil {
		return "", fmt.Errorf("render email prompt: %w", err)
	}

	email, err := c.provider.Complete(ctx, promptBuf.String())
	if err != nil {
		return "", fmt.Errorf("write mail: %w", err)
	}

	c.logger.Debug("composed email", "role", job.RoleOr("unknown"), "links", len(links))
	return email, nil
}

// formatLinks renders the link list for the prompt, most-similar first.
func formatLinks(links []model.LinkMatch) string {
	if len(links) == 0 {
		return "(no portfolio links available)"
	}
	var b strings.Builder
	for _, l := range links {
		b.WriteString("- ")
		b.WriteString(l.Link)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
