package memory

import (
	"context"

	"dog-registry/internal/domain/audit"
)

type auditRepo struct {
	st *State
}

func NewAuditRepo(st *State) audit.Store {
	return &auditRepo{st: st}
}

func (r *auditRepo) ListByEntity(ctx context.Context, entity, entityID string) ([]audit.Entry, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	// entries ya está en orden de creación (append-only)
	out := make([]audit.Entry, 0)
	for _, e := range r.st.entries {
		if e.Entity == entity && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}
