package postgres

import (
	"context"
	"database/sql"
	"strings"

	"dog-registry/internal/domain/vaccines"
)

type VaccinesRepo struct {
	db *sql.DB
}

func NewVaccinesRepo(db *sql.DB) *VaccinesRepo {
	return &VaccinesRepo{db: db}
}

func (r *VaccinesRepo) Create(ctx context.Context, v vaccines.Vaccine) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vaccines (
			id, dog_id,
			vaccine_name, vaccine_date, next_due_date,
			created_by_vet_id, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		v.ID,
		v.DogID,
		v.VaccineName,
		v.VaccineDate,
		toNullDate(v.NextDueDate),
		v.CreatedByVetID,
		v.CreatedAt,
	)
	return err
}

func (r *VaccinesRepo) ListByDog(ctx context.Context, dogID string) ([]vaccines.Vaccine, error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, dog_id,
			vaccine_name, vaccine_date, next_due_date,
			created_by_vet_id, created_at
		FROM vaccines
		WHERE dog_id = $1
		ORDER BY vaccine_date DESC, created_at DESC
	`, dogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vaccines.Vaccine, 0)
	for rows.Next() {
		var v vaccines.Vaccine
		var due sql.NullTime
		if err := rows.Scan(
			&v.ID,
			&v.DogID,
			&v.VaccineName,
			&v.VaccineDate,
			&due,
			&v.CreatedByVetID,
			&v.CreatedAt,
		); err != nil {
			return nil, err
		}
		if due.Valid {
			t := due.Time
			v.NextDueDate = &t
		}
		out = append(out, v)
	}

	return out, rows.Err()
}
