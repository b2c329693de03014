package catalog

import "sync/atomic"

// Source hands out the current QueryService. Readers always see a complete
// catalog; a reload swaps the whole service at once.
type Source struct {
	current atomic.Pointer[QueryService]
}

// NewSource creates a Source serving qs.
func NewSource(qs *QueryService) *Source {
	s := &Source{}
	s.current.Store(qs)
	return s
}

// Current returns the QueryService in effect.
func (s *Source) Current() *QueryService {
	return s.current.Load()
}

// Swap publishes qs and returns the previous service.
func (s *Source) Swap(qs *QueryService) *QueryService {
	return s.current.Swap(qs)
}
