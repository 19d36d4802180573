package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/extract_jobs.md
var extractJobsPromptRaw string

//go:embed prompts/write_email.md
var writeEmailPromptRaw string

// ExtractJobsTemplate is the parsed prompt template for job extraction.
// Parsed once at package init; reused on every ExtractJobs call.
var ExtractJobsTemplate = template.Must(template.New("extract_jobs").Parse(extractJobsPromptRaw))

// WriteEmailTemplate is the parsed prompt template for email composition.
// The sender persona and selling points live in the template, not in config.
var WriteEmailTemplate = template.Must(template.New("write_email").Parse(writeEmailPromptRaw))
