package dogs

import "time"

// Dog es la ficha de un perro registrado por microchip.
// PrimaryVetID queda fijo en el alta y nunca se reasigna: es la única
// identidad autorizada a transferir la custodia del perro.
type Dog struct {
	ID              string
	MicrochipNumber string

	Name      string
	Breed     string
	Birthdate *time.Time

	OwnerID      string
	PrimaryVetID string

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusEvent es una entrada del log de estados. Append-only; el campo
// Dog.Status es una proyección desnormalizada del último evento y se
// actualiza en la misma transacción que inserta el evento.
type StatusEvent struct {
	ID    string
	DogID string

	Status Status
	Notes  string

	CreatedByVetID string
	CreatedAt      time.Time
}
