package vets

import "context"

type Repository interface {
	// Upsert crea o pisa el perfil completo keyed por Vet.ID.
	Upsert(ctx context.Context, v Vet) error
	GetByID(ctx context.Context, id string) (Vet, error)
}
