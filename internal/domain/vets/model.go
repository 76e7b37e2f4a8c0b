package vets

import "time"

// Vet es el perfil de un veterinario. El ID es la identidad del caller
// (viene del identity provider, no se genera acá); hay a lo sumo un perfil
// por identidad.
type Vet struct {
	ID         string
	ClinicName string
	Phone      string

	CreatedAt time.Time
	UpdatedAt time.Time
}
