package memory

import (
	"context"

	"dog-registry/internal/domain/owners"
)

type ownersRepo struct {
	st *State
}

func NewOwnersRepo(st *State) owners.Repository {
	return &ownersRepo{st: st}
}

func (r *ownersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	o, ok := r.st.owners[id]
	if !ok {
		return owners.Owner{}, owners.ErrNotFound
	}
	return o, nil
}
