package owners

import "time"

// Owner representa a la persona responsable de un perro en el registro.
// Las filas de owner son inmutables: cada alta o transferencia crea una fila
// nueva, nunca se edita una existente. Así el historial de custodia conserva
// los datos del dueño anterior tal como eran.
type Owner struct {
	ID       string
	FullName string
	Phone    string
	Email    string
	Address  string

	CreatedAt time.Time
}
