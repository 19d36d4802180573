package store

import "coldreach/internal/model"

// NopStore discards results. Used when history recording is disabled.
type NopStore struct{}

// NewNopStore returns a store that records nothing.
func NewNopStore() *NopStore {
	return &NopStore{}
}

// SaveResult does nothing.
func (s *NopStore) SaveResult(string, model.PipelineResult) error {
	return nil
}
