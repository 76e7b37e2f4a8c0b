package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"dog-registry/internal/domain/vaccines"
)

type vaccinesRepo struct {
	st *State
}

func NewVaccinesRepo(st *State) vaccines.Repository {
	return &vaccinesRepo{st: st}
}

func (r *vaccinesRepo) Create(ctx context.Context, v vaccines.Vaccine) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("vaccine id required")
	}
	r.st.shots[v.DogID] = append(r.st.shots[v.DogID], v)
	return nil
}

func (r *vaccinesRepo) ListByDog(ctx context.Context, dogID string) ([]vaccines.Vaccine, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	stored := r.st.shots[dogID]
	out := make([]vaccines.Vaccine, len(stored))
	copy(out, stored)

	// vaccine_date desc; a igual fecha, la cargada más recientemente primero
	sort.Slice(out, func(i, j int) bool {
		if !out[i].VaccineDate.Equal(out[j].VaccineDate) {
			return out[i].VaccineDate.After(out[j].VaccineDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}
