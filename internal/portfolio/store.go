// Package portfolio maintains a similarity-searchable index mapping
// tech-stack descriptions to reference links.
package portfolio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/google/uuid"

	"coldreach/internal/model"
)

// collectionName is the on-disk name of the single index collection.
const collectionName = "portfolio"

// maxMatches is the fixed result cardinality of a link query.
const maxMatches = 2

// Entry is one row of the portfolio source.
type Entry struct {
	ID        string
	TechStack string
	Link      string
}

// Store implements model.LinkQuerier over a persistent bleve index.
// Entries are only ever added, never mutated, so concurrent readers during
// and after a load are safe.
type Store struct {
	index   bleve.Index
	entries []Entry
	logger  *slog.Logger
}

// New reads the tabular source at csvPath and opens (or creates) the
// persistent index under indexPath. The source must have Techstack and Links
// columns; a missing or unparsable file is a *model.SourceNotFoundError, an
// unusable index a *model.IndexOpenError.
func New(csvPath, indexPath string, logger *slog.Logger) (*Store, error) {
	entries, err := readSource(csvPath)
	if err != nil {
		return nil, &model.SourceNotFoundError{Path: csvPath, Err: err}
	}

	index, err := openIndex(filepath.Join(indexPath, collectionName))
	if err != nil {
		return nil, &model.IndexOpenError{Path: indexPath, Err: err}
	}

	return &Store{
		index:   index,
		entries: entries,
		logger:  logger,
	}, nil
}

// openIndex opens an existing bleve index at path or creates a new one with
// the portfolio mapping.
func openIndex(path string) (bleve.Index, error) {
	if _, err := os.Stat(path); err == nil {
		return bleve.Open(path)
	}

	im := bleve.NewIndexMapping()
	entryMapping := bleve.NewDocumentMapping()

	techMapping := bleve.NewTextFieldMapping()
	techMapping.Analyzer = standard.Name
	entryMapping.AddFieldMappingsAt("tech_stack", techMapping)

	// The link is payload, not match material.
	linkMapping := bleve.NewKeywordFieldMapping()
	entryMapping.AddFieldMappingsAt("link", linkMapping)

	im.AddDocumentMapping("entry", entryMapping)
	im.DefaultType = "entry"
	im.DefaultMapping = entryMapping

	return bleve.New(path, im)
}

// Load bulk-loads the source rows into the index, keyed by fresh UUIDs.
// Idempotent: a non-empty index means a previous load completed and the call
// is a no-op. All rows go in as one batch so an interrupted load never leaves
// a partially visible index behind.
func (s *Store) Load() error {
	count, err := s.index.DocCount()
	if err != nil {
		return fmt.Errorf("count portfolio entries: %w", err)
	}
	if count > 0 {
		s.logger.Debug("portfolio already loaded", "entries", count)
		return nil
	}

	batch := s.index.NewBatch()
	for i := range s.entries {
		s.entries[i].ID = uuid.New().String()
		err := batch.Index(s.entries[i].ID, map[string]any{
			"tech_stack": s.entries[i].TechStack,
			"link":       s.entries[i].Link,
		})
		if err != nil {
			return fmt.Errorf("index portfolio entry: %w", err)
		}
	}
	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("load portfolio: %w", err)
	}

	s.logger.Info("portfolio loaded", "entries", len(s.entries))
	return nil
}

// QueryLinks joins skills into one query string and returns the links of the
// two most similar entries, best first. An empty skill list returns no
// matches without touching the index.
func (s *Store) QueryLinks(skills []string) ([]model.LinkMatch, error) {
	if len(skills) == 0 {
		return nil, nil
	}

	query := bleve.NewMatchQuery(strings.Join(skills, " "))
	query.SetField("tech_stack")

	req := bleve.NewSearchRequest(query)
	req.Size = maxMatches
	req.Fields = []string{"link"}

	res, err := s.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("query portfolio links: %w", err)
	}

	matches := make([]model.LinkMatch, 0, len(res.Hits))
	for _, hit := range res.Hits {
		link, _ := hit.Fields["link"].(string)
		if link == "" {
			continue
		}
		matches = append(matches, model.LinkMatch{Link: link, Score: hit.Score})
	}
	return matches, nil
}

// Count returns the number of entries in the persistent index.
func (s *Store) Count() (uint64, error) {
	return s.index.DocCount()
}

// Close closes the underlying index.
func (s *Store) Close() error {
	return s.index.Close()
}
