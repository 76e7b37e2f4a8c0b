package dogs

import (
	"context"

	"dog-registry/internal/domain/audit"
	"dog-registry/internal/domain/owners"
)

// Repository persiste perros, su log de estados y los writes acoplados a
// ellos. Las operaciones multi-write son atómicas: o se persisten todas las
// filas o ninguna.
//
//   - CreateWithOwner: inserta owner + dog en una transacción. Un chip
//     duplicado revierte también la fila de owner (sin owners huérfanos).
//   - SetStatus: actualiza la proyección dogs.status e inserta el evento en
//     una transacción, para que proyección y log nunca diverjan.
//   - Transfer: inserta el owner nuevo, actualiza owner_id y agrega la
//     entrada de auditoría en una transacción. Si la auditoría no se puede
//     escribir, la transferencia entera falla.
type Repository interface {
	CreateWithOwner(ctx context.Context, d Dog, o owners.Owner) error
	GetByID(ctx context.Context, id string) (Dog, error)
	GetByMicrochip(ctx context.Context, chip string) (Dog, error)
	ListByVet(ctx context.Context, vetID string) ([]Dog, error)

	SetStatus(ctx context.Context, dogID string, st Status, ev StatusEvent) error
	ListStatusEvents(ctx context.Context, dogID string) ([]StatusEvent, error)

	Transfer(ctx context.Context, dogID string, newOwner owners.Owner, entry audit.Entry) error
}
