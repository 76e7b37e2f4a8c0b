package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"dog-registry/internal/domain/audit"
	"dog-registry/internal/domain/dogs"
	"dog-registry/internal/domain/owners"
)

type dogsRepo struct {
	st *State
}

func NewDogsRepo(st *State) dogs.Repository {
	return &dogsRepo{st: st}
}

func (r *dogsRepo) CreateWithOwner(ctx context.Context, d dogs.Dog, o owners.Owner) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if strings.TrimSpace(d.ID) == "" || strings.TrimSpace(o.ID) == "" {
		return errors.New("dog and owner id required")
	}
	if _, exists := r.st.chips[d.MicrochipNumber]; exists {
		// ningún write: owner y dog se revierten juntos
		return dogs.ErrDuplicateMicrochip
	}
	if _, exists := r.st.dogs[d.ID]; exists {
		return errors.New("dog already exists")
	}

	r.st.owners[o.ID] = o
	r.st.dogs[d.ID] = d
	r.st.chips[d.MicrochipNumber] = d.ID
	return nil
}

func (r *dogsRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	d, ok := r.st.dogs[id]
	if !ok {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	return d, nil
}

func (r *dogsRepo) GetByMicrochip(ctx context.Context, chip string) (dogs.Dog, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	id, ok := r.st.chips[chip]
	if !ok {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	return r.st.dogs[id], nil
}

func (r *dogsRepo) ListByVet(ctx context.Context, vetID string) ([]dogs.Dog, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	out := make([]dogs.Dog, 0)
	for _, d := range r.st.dogs {
		if d.PrimaryVetID == vetID {
			out = append(out, d)
		}
	}

	// Orden estable por created_at asc (consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *dogsRepo) SetStatus(ctx context.Context, dogID string, st dogs.Status, ev dogs.StatusEvent) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	d, ok := r.st.dogs[dogID]
	if !ok {
		return dogs.ErrNotFound
	}

	d.Status = st
	d.UpdatedAt = ev.CreatedAt
	r.st.dogs[dogID] = d
	r.st.events[dogID] = append(r.st.events[dogID], ev)
	return nil
}

func (r *dogsRepo) ListStatusEvents(ctx context.Context, dogID string) ([]dogs.StatusEvent, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	stored := r.st.events[dogID]

	// Más reciente primero; se recorre al revés porque el slice está en
	// orden de inserción.
	out := make([]dogs.StatusEvent, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	return out, nil
}

func (r *dogsRepo) Transfer(ctx context.Context, dogID string, newOwner owners.Owner, entry audit.Entry) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	d, ok := r.st.dogs[dogID]
	if !ok {
		return dogs.ErrNotFound
	}
	if strings.TrimSpace(newOwner.ID) == "" {
		return errors.New("owner id required")
	}

	r.st.owners[newOwner.ID] = newOwner
	d.OwnerID = newOwner.ID
	d.UpdatedAt = entry.CreatedAt
	r.st.dogs[dogID] = d
	r.st.entries = append(r.st.entries, entry)
	return nil
}
