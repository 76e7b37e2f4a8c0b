package memory

import (
	"context"
	"sync"

	"dog-registry/internal/ports/refresh"
)

// Recorder acumula las señales emitidas. Sirve como Signaler de dev y para
// asertar en tests qué vistas se invalidaron.
type Recorder struct {
	mu sync.Mutex

	searchChanged int
	dogIDs        []string
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

var _ refresh.Signaler = (*Recorder)(nil)

func (r *Recorder) SearchChanged(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searchChanged++
}

func (r *Recorder) DogChanged(ctx context.Context, dogID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dogIDs = append(r.dogIDs, dogID)
}

func (r *Recorder) SearchChangedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.searchChanged
}

func (r *Recorder) ChangedDogIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.dogIDs))
	copy(out, r.dogIDs)
	return out
}
