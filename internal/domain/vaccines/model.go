package vaccines

import "time"

// Vaccine es una aplicación de vacuna registrada para un perro.
// Append-only: nunca se edita ni se borra.
type Vaccine struct {
	ID    string
	DogID string

	VaccineName string
	VaccineDate time.Time
	NextDueDate *time.Time

	CreatedByVetID string
	CreatedAt      time.Time
}
