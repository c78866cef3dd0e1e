package document

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Registry tracks open documents by ID for callers juggling several
// buffers. The registry itself is safe for concurrent use; the documents it
// hands out are not, per the Document contract.
type Registry struct {
	mu        sync.RWMutex
	maxLength int
	docs      map[uuid.UUID]*Document
}

// NewRegistry creates an empty registry. maxLength is applied to every
// document it opens; 0 means no per-line cap.
func NewRegistry(maxLength int) *Registry {
	return &Registry{
		maxLength: maxLength,
		docs:      make(map[uuid.UUID]*Document),
	}
}

// Open tokenizes text into a new document and registers it.
func (r *Registry) Open(text string) *Document {
	d := New(text, r.maxLength)
	r.mu.Lock()
	r.docs[d.ID()] = d
	r.mu.Unlock()
	return d
}

// Get looks up an open document.
func (r *Registry) Get(id uuid.UUID) (*Document, error) {
	r.mu.RLock()
	d, ok := r.docs[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no open document %s", id)
	}
	return d, nil
}

// Close forgets a document.
func (r *Registry) Close(id uuid.UUID) {
	r.mu.Lock()
	delete(r.docs, id)
	r.mu.Unlock()
}

// Len reports how many documents are open.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}
