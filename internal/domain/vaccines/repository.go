package vaccines

import "context"

type Repository interface {
	Create(ctx context.Context, v Vaccine) error

	// ListByDog devuelve las vacunas ordenadas por vaccine_date descendente
	// (la vista muestra la más reciente primero).
	ListByDog(ctx context.Context, dogID string) ([]Vaccine, error)
}
