package postgres

import (
	"context"
	"database/sql"
	"strings"

	"dog-registry/internal/domain/audit"
)

type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// ListByEntity devuelve las entradas en orden de creación, suficiente para
// reconstruir el historial de custodia sin mirar las filas actuales.
func (r *AuditRepo) ListByEntity(ctx context.Context, entity, entityID string) ([]audit.Entry, error) {
	entity = strings.TrimSpace(entity)
	entityID = strings.TrimSpace(entityID)
	if entity == "" || entityID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, entity, entity_id, action,
			old_data, new_data,
			created_by_vet_id, created_at
		FROM audit_logs
		WHERE entity = $1 AND entity_id = $2
		ORDER BY created_at ASC
	`, entity, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]audit.Entry, 0)
	for rows.Next() {
		var e audit.Entry
		var oldData, newData []byte
		if err := rows.Scan(
			&e.ID,
			&e.Entity,
			&e.EntityID,
			&e.Action,
			&oldData,
			&newData,
			&e.CreatedByVetID,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.OldData = oldData
		e.NewData = newData
		out = append(out, e)
	}

	return out, rows.Err()
}
