package postgres

import (
	"context"
	"database/sql"
	"strings"

	"dog-registry/internal/domain/vets"
)

type VetsRepo struct {
	db *sql.DB
}

func NewVetsRepo(db *sql.DB) *VetsRepo {
	return &VetsRepo{db: db}
}

// Upsert keyed por id; conserva created_at de la fila original.
func (r *VetsRepo) Upsert(ctx context.Context, v vets.Vet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vets (id, clinic_name, phone, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET
			clinic_name = EXCLUDED.clinic_name,
			phone = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at
	`,
		v.ID,
		v.ClinicName,
		v.Phone,
		v.CreatedAt,
		v.UpdatedAt,
	)
	return err
}

func (r *VetsRepo) GetByID(ctx context.Context, id string) (vets.Vet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return vets.Vet{}, vets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, clinic_name, phone, created_at, updated_at
		FROM vets
		WHERE id = $1
	`, id)

	var v vets.Vet
	if err := row.Scan(
		&v.ID,
		&v.ClinicName,
		&v.Phone,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return vets.Vet{}, vets.ErrNotFound
		}
		return vets.Vet{}, err
	}

	return v, nil
}
