package refresh

import "context"

// Signaler avisa qué vistas lógicas dependen de datos que acaban de cambiar,
// para que una capa de presentación las refresque. Es best-effort: el dominio
// no espera confirmación ni falla por una señal perdida.
type Signaler interface {
	// SearchChanged: cambió el conjunto de perros visibles en búsqueda.
	SearchChanged(ctx context.Context)

	// DogChanged: cambió el detalle de un perro puntual.
	DogChanged(ctx context.Context, dogID string)
}
