package audit

import (
	"encoding/json"
	"time"
)

const (
	EntityDogs = "dogs"

	ActionOwnerTransfer = "owner_transfer"
)

// Entry es una fila del audit trail. Cada entrada es autocontenida: lleva el
// estado anterior y el nuevo, de modo que el historial de custodia de un perro
// se reconstruye releyendo sus entradas en orden de creación, sin consultar
// las filas actuales de dogs/owners.
type Entry struct {
	ID       string
	Entity   string
	EntityID string
	Action   string

	OldData json.RawMessage
	NewData json.RawMessage

	CreatedByVetID string
	CreatedAt      time.Time
}
