package sitemap

import (
	"sync"
)

// Holder publishes the most recent generation to the HTTP handlers while
// the scheduler replaces it in the background.
type Holder struct {
	mu        sync.RWMutex
	artifacts *Artifacts
}

func NewHolder() *Holder {
	return &Holder{}
}

func (h *Holder) Set(artifacts *Artifacts) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.artifacts = artifacts
}

// Get returns the current artifacts, or nil before the first successful
// generation.
func (h *Holder) Get() *Artifacts {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.artifacts
}
