package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"coldreach/internal/model"
)

type stubFetcher struct {
	text string
	err  error
}

func (s *stubFetcher) FetchText(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

type stubExtractor struct {
	jobs     []model.JobRecord
	err      error
	gotText  string
	numCalls int
}

func (s *stubExtractor) ExtractJobs(_ context.Context, pageText string) ([]model.JobRecord, error) {
	s.gotText = pageText
	s.numCalls++
	return s.jobs, s.err
}

type stubQuerier struct {
	byQuery    map[string][]model.LinkMatch
	err        error
	gotQueries [][]string
}

func (s *stubQuerier) QueryLinks(skills []string) ([]model.LinkMatch, error) {
	s.gotQueries = append(s.gotQueries, skills)
	if s.err != nil {
		return nil, s.err
	}
	if len(skills) == 0 {
		return nil, nil
	}
	return s.byQuery[strings.Join(skills, " ")], nil
}

type stubWriter struct {
	failOnCall int // 1-based; zero means never fail
	numCalls   int
	gotLinks   [][]model.LinkMatch
}

func (s *stubWriter) WriteMail(_ context.Context, job model.JobRecord, links []model.LinkMatch) (string, error) {
	s.numCalls++
	s.gotLinks = append(s.gotLinks, links)
	if s.failOnCall != 0 && s.numCalls == s.failOnCall {
		return "", &model.ModelInvocationError{Err: errors.New("compose failed")}
	}
	var linkText []string
	for _, l := range links {
		linkText = append(linkText, l.Link)
	}
	return "email for " + job.RoleOr("unknown") + " " + strings.Join(linkText, " "), nil
}

type memStore struct {
	saved []model.PipelineResult
	err   error
}

func (m *memStore) SaveResult(_ string, res model.PipelineResult) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, res)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func TestRun_EndToEnd(t *testing.T) {
	fetcher := &stubFetcher{text: "<p>Careers: Senior Backend Engineer, 5+ years, Python, AWS</p>"}
	extractor := &stubExtractor{jobs: []model.JobRecord{{
		Role:       strPtr("Senior Backend Engineer"),
		Experience: strPtr("5 years"),
		Skills:     []string{"Python", "AWS"},
	}}}
	querier := &stubQuerier{byQuery: map[string][]model.LinkMatch{
		"Python AWS": {{Link: "http://example.com/proj1", Score: 1.2}},
	}}
	writer := &stubWriter{}
	store := &memStore{}

	p := New(fetcher, extractor, querier, writer, store, testLogger())
	results, err := p.Run(context.Background(), "https://example.com/careers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if extractor.gotText != "Careers Senior Backend Engineer 5 years Python AWS" {
		t.Errorf("extractor received %q, want normalized text", extractor.gotText)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if !strings.Contains(results[0].Email, "Senior Backend Engineer") {
		t.Errorf("email %q should reference the job role", results[0].Email)
	}
	if !strings.Contains(results[0].Email, "http://example.com/proj1") {
		t.Errorf("email %q should reference the matched link", results[0].Email)
	}
	if len(store.saved) != 1 {
		t.Errorf("saved %d results to history, want 1", len(store.saved))
	}
}

func TestRun_MissingSkillsStillComposes(t *testing.T) {
	fetcher := &stubFetcher{text: "careers page"}
	extractor := &stubExtractor{jobs: []model.JobRecord{{Role: strPtr("Engineer")}}}
	querier := &stubQuerier{}
	writer := &stubWriter{}

	p := New(fetcher, extractor, querier, writer, &memStore{}, testLogger())
	results, err := p.Run(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(querier.gotQueries) != 1 || len(querier.gotQueries[0]) != 0 {
		t.Errorf("querier received %v, want one empty skill list", querier.gotQueries)
	}
	if writer.numCalls != 1 {
		t.Fatalf("writer called %d times, want 1 (not skipped)", writer.numCalls)
	}
	if len(writer.gotLinks[0]) != 0 {
		t.Errorf("writer received %v, want empty link list", writer.gotLinks[0])
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestRun_OrderMatchesExtraction(t *testing.T) {
	fetcher := &stubFetcher{text: "page"}
	extractor := &stubExtractor{jobs: []model.JobRecord{
		{Role: strPtr("First")},
		{Role: strPtr("Second")},
		{Role: strPtr("Third")},
	}}

	p := New(fetcher, extractor, &stubQuerier{}, &stubWriter{}, &memStore{}, testLogger())
	results, err := p.Run(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if results[i].Job.RoleOr("") != want {
			t.Errorf("results[%d].Role = %q, want %q", i, results[i].Job.RoleOr(""), want)
		}
	}
}

func TestRun_FetchFailureAborts(t *testing.T) {
	fetcher := &stubFetcher{err: &model.FetchError{URL: "https://example.com", StatusCode: 503}}
	extractor := &stubExtractor{}

	p := New(fetcher, extractor, &stubQuerier{}, &stubWriter{}, &memStore{}, testLogger())
	results, err := p.Run(context.Background(), "https://example.com")

	var fetchErr *model.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *model.FetchError, got %v", err)
	}
	if results != nil {
		t.Errorf("got results %v, want nil", results)
	}
	if extractor.numCalls != 0 {
		t.Errorf("extractor called %d times after fetch failure, want 0", extractor.numCalls)
	}
}

func TestRun_ExtractionFailureAborts(t *testing.T) {
	fetcher := &stubFetcher{text: "page"}
	extractor := &stubExtractor{err: &model.ExtractionParseError{Detail: "prose"}}
	writer := &stubWriter{}

	p := New(fetcher, extractor, &stubQuerier{}, writer, &memStore{}, testLogger())
	results, err := p.Run(context.Background(), "https://example.com")

	var parseErr *model.ExtractionParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *model.ExtractionParseError, got %v", err)
	}
	if results != nil || writer.numCalls != 0 {
		t.Error("no email should be composed when extraction fails")
	}
}

func TestRun_ComposeFailureDiscardsEarlierResults(t *testing.T) {
	fetcher := &stubFetcher{text: "page"}
	extractor := &stubExtractor{jobs: []model.JobRecord{
		{Role: strPtr("First")},
		{Role: strPtr("Second")},
	}}
	writer := &stubWriter{failOnCall: 2}
	store := &memStore{}

	p := New(fetcher, extractor, &stubQuerier{}, writer, store, testLogger())
	results, err := p.Run(context.Background(), "https://example.com")

	if err == nil {
		t.Fatal("expected error when composing the second email fails")
	}
	if results != nil {
		t.Errorf("got results %v, want nil (first email discarded)", results)
	}
	if len(store.saved) != 0 {
		t.Errorf("history has %d entries, want 0 for an aborted run", len(store.saved))
	}
}

func TestRun_HistoryFailureDoesNotAbort(t *testing.T) {
	fetcher := &stubFetcher{text: "page"}
	extractor := &stubExtractor{jobs: []model.JobRecord{{Role: strPtr("Engineer")}}}
	store := &memStore{err: errors.New("disk full")}

	p := New(fetcher, extractor, &stubQuerier{}, &stubWriter{}, store, testLogger())
	results, err := p.Run(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1 despite history failure", len(results))
	}
}
