package postgres

import (
	"context"
	"database/sql"
	"strings"

	"dog-registry/internal/domain/audit"
	"dog-registry/internal/domain/dogs"
	"dog-registry/internal/domain/owners"
)

type DogsRepo struct {
	db *sql.DB
}

func NewDogsRepo(db *sql.DB) *DogsRepo {
	return &DogsRepo{db: db}
}

// CreateWithOwner inserta owner y dog en una sola transacción: un chip
// duplicado revierte también la fila de owner.
func (r *DogsRepo) CreateWithOwner(ctx context.Context, d dogs.Dog, o owners.Owner) error {
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO owners (
				id, full_name, phone, email, address, created_at
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			o.ID,
			o.FullName,
			o.Phone,
			o.Email,
			o.Address,
			o.CreatedAt,
		); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO dogs (
				id, microchip_number,
				name, breed, birthdate,
				owner_id, primary_vet_id, status,
				created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`,
			d.ID,
			d.MicrochipNumber,
			d.Name,
			d.Breed,
			toNullDate(d.Birthdate),
			d.OwnerID,
			d.PrimaryVetID,
			string(d.Status),
			d.CreatedAt,
			d.UpdatedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return dogs.ErrDuplicateMicrochip
			}
			return err
		}

		return nil
	})
}

func (r *DogsRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dogs.Dog{}, dogs.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, microchip_number,
			name, breed, birthdate,
			owner_id, primary_vet_id, status,
			created_at, updated_at
		FROM dogs
		WHERE id = $1
	`, id)

	return scanDog(row)
}

func (r *DogsRepo) GetByMicrochip(ctx context.Context, chip string) (dogs.Dog, error) {
	chip = strings.TrimSpace(chip)
	if chip == "" {
		return dogs.Dog{}, dogs.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, microchip_number,
			name, breed, birthdate,
			owner_id, primary_vet_id, status,
			created_at, updated_at
		FROM dogs
		WHERE microchip_number = $1
	`, chip)

	return scanDog(row)
}

func (r *DogsRepo) ListByVet(ctx context.Context, vetID string) ([]dogs.Dog, error) {
	vetID = strings.TrimSpace(vetID)
	if vetID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, microchip_number,
			name, breed, birthdate,
			owner_id, primary_vet_id, status,
			created_at, updated_at
		FROM dogs
		WHERE primary_vet_id = $1
		ORDER BY created_at ASC
	`, vetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dogs.Dog, 0)
	for rows.Next() {
		d, err := scanDog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}

	return out, rows.Err()
}

// SetStatus actualiza la proyección dogs.status e inserta el evento como una
// unidad: si cualquiera de los dos writes falla, no queda ninguno.
func (r *DogsRepo) SetStatus(ctx context.Context, dogID string, st dogs.Status, ev dogs.StatusEvent) error {
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE dogs
			SET status = $2, updated_at = $3
			WHERE id = $1
		`, dogID, string(st), ev.CreatedAt)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return dogs.ErrNotFound
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO status_events (
				id, dog_id, status, notes, created_by_vet_id, created_at
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			ev.ID,
			ev.DogID,
			string(ev.Status),
			ev.Notes,
			ev.CreatedByVetID,
			ev.CreatedAt,
		)
		return err
	})
}

func (r *DogsRepo) ListStatusEvents(ctx context.Context, dogID string) ([]dogs.StatusEvent, error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, dog_id, status, notes, created_by_vet_id, created_at
		FROM status_events
		WHERE dog_id = $1
		ORDER BY created_at DESC
	`, dogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dogs.StatusEvent, 0)
	for rows.Next() {
		var ev dogs.StatusEvent
		var status string
		if err := rows.Scan(
			&ev.ID,
			&ev.DogID,
			&status,
			&ev.Notes,
			&ev.CreatedByVetID,
			&ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		ev.Status = dogs.Status(status)
		out = append(out, ev)
	}

	return out, rows.Err()
}

// Transfer hace los tres writes de la transferencia (owner nuevo, update de
// owner_id, entrada de auditoría) en una transacción. Si la auditoría falla,
// la transferencia entera se revierte.
func (r *DogsRepo) Transfer(ctx context.Context, dogID string, newOwner owners.Owner, entry audit.Entry) error {
	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO owners (
				id, full_name, phone, email, address, created_at
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			newOwner.ID,
			newOwner.FullName,
			newOwner.Phone,
			newOwner.Email,
			newOwner.Address,
			newOwner.CreatedAt,
		); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE dogs
			SET owner_id = $2, updated_at = $3
			WHERE id = $1
		`, dogID, newOwner.ID, entry.CreatedAt)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return dogs.ErrNotFound
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO audit_logs (
				id, entity, entity_id, action,
				old_data, new_data,
				created_by_vet_id, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			entry.ID,
			entry.Entity,
			entry.EntityID,
			entry.Action,
			[]byte(entry.OldData),
			[]byte(entry.NewData),
			entry.CreatedByVetID,
			entry.CreatedAt,
		)
		return err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDog(row rowScanner) (dogs.Dog, error) {
	var d dogs.Dog
	var bd sql.NullTime
	var status string

	if err := row.Scan(
		&d.ID,
		&d.MicrochipNumber,
		&d.Name,
		&d.Breed,
		&bd,
		&d.OwnerID,
		&d.PrimaryVetID,
		&status,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return dogs.Dog{}, dogs.ErrNotFound
		}
		return dogs.Dog{}, err
	}

	if bd.Valid {
		t := bd.Time
		// birthdate es date; pgx lo mapea a time.Time midnight UTC
		d.Birthdate = &t
	}
	d.Status = dogs.Status(status)

	return d, nil
}
