package store

import (
	"slices"
	"sync"

	"github.com/i474232898/weather-monitor/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory holder of the retained sample
// collection. It keeps samples in the order they are handed over and never
// drops any on its own.
type MemoryStore struct {
	mu sync.RWMutex

	samples []weather.WeatherSample
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Samples returns a copy of the retained collection.
func (s *MemoryStore) Samples() []weather.WeatherSample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.samples)
}

// Replace swaps the retained collection for samples.
func (s *MemoryStore) Replace(samples []weather.WeatherSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = slices.Clone(samples)
}

// Len returns the number of retained samples.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.samples)
}

