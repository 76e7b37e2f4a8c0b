package audit

import "context"

// Store lee el audit trail. Las escrituras ocurren dentro de la transacción
// del workflow que las origina (hoy: transferencia de dueño), nunca por fuera;
// por eso el store no expone un Append suelto.
type Store interface {
	ListByEntity(ctx context.Context, entity, entityID string) ([]Entry, error)
}
