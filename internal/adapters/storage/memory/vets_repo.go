package memory

import (
	"context"
	"errors"
	"strings"

	"dog-registry/internal/domain/vets"
)

type vetsRepo struct {
	st *State
}

func NewVetsRepo(st *State) vets.Repository {
	return &vetsRepo{st: st}
}

func (r *vetsRepo) Upsert(ctx context.Context, v vets.Vet) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("vet id required")
	}

	if existing, ok := r.st.vets[v.ID]; ok {
		// el upsert pisa los campos pero conserva created_at original
		v.CreatedAt = existing.CreatedAt
	}
	r.st.vets[v.ID] = v
	return nil
}

func (r *vetsRepo) GetByID(ctx context.Context, id string) (vets.Vet, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	v, ok := r.st.vets[id]
	if !ok {
		return vets.Vet{}, vets.ErrNotFound
	}
	return v, nil
}
