package owners

import "context"

// Repository es solo lectura desde el punto de vista del dominio:
// las filas de owner se insertan únicamente dentro de los workflows de dogs
// (alta y transferencia), como parte de su misma transacción.
type Repository interface {
	GetByID(ctx context.Context, id string) (Owner, error)
}
