// Package pipeline sequences one end-to-end run:
// fetch → normalize → extract → match links → compose emails.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"coldreach/internal/cleaner"
	"coldreach/internal/model"
)

// Pipeline owns the lifetime of one run. It holds no state between runs.
type Pipeline struct {
	fetcher   model.PageFetcher
	extractor model.JobExtractor
	links     model.LinkQuerier
	writer    model.EmailWriter
	runs      model.RunStore
	logger    *slog.Logger
}

// New wires a pipeline with all its collaborators.
func New(
	fetcher model.PageFetcher,
	extractor model.JobExtractor,
	links model.LinkQuerier,
	writer model.EmailWriter,
	runs model.RunStore,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		extractor: extractor,
		links:     links,
		writer:    writer,
		runs:      runs,
		logger:    logger,
	}
}

// Run processes one URL start to finish and returns one result per extracted
// job, in extraction order. Any failure aborts the whole run: results already
// composed for the same run are discarded, never partially returned. Nothing
// is retried at this layer.
func (p *Pipeline) Run(ctx context.Context, url string) ([]model.PipelineResult, error) {
	rawText, err := p.fetcher.FetchText(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", url, err)
	}

	pageText := cleaner.Clean(rawText)

	jobs, err := p.extractor.ExtractJobs(ctx, pageText)
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", url, err)
	}

	results := make([]model.PipelineResult, 0, len(jobs))
	for _, job := range jobs {
		// A job with no usable skills field still gets an email, just
		// with zero matched links.
		links, err := p.links.QueryLinks(job.SkillList())
		if err != nil {
			return nil, fmt.Errorf("running %s: %w", url, err)
		}

		email, err := p.writer.WriteMail(ctx, job, links)
		if err != nil {
			return nil, fmt.Errorf("running %s: %w", url, err)
		}

		results = append(results, model.PipelineResult{Job: job, Email: email})
	}

	// History is best-effort; a recording failure must not fail the run.
	for _, res := range results {
		if err := p.runs.SaveResult(url, res); err != nil {
			p.logger.Warn("failed to record result", "url", url, "error", err)
		}
	}

	p.logger.Info("run complete",
		"url", url,
		"jobs", len(jobs),
		"emails", len(results),
	)
	return results, nil
}
