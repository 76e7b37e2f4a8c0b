package memory

import (
	"errors"
	"sync"

	"dog-registry/internal/domain/audit"
	"dog-registry/internal/domain/dogs"
	"dog-registry/internal/domain/owners"
	"dog-registry/internal/domain/vaccines"
	"dog-registry/internal/domain/vets"
)

var (
	ErrNotFound = errors.New("not found")
)

// State es el almacenamiento in-memory compartido por todos los repos.
// Un solo mutex cubre todo, así los workflows multi-write (alta con owner,
// status + evento, transferencia + auditoría) son atómicos igual que en la
// transacción de Postgres.
type State struct {
	mu sync.RWMutex

	dogs    map[string]dogs.Dog
	chips   map[string]string // microchip normalizado -> dog id
	owners  map[string]owners.Owner
	events  map[string][]dogs.StatusEvent // por dog id, en orden de inserción
	shots   map[string][]vaccines.Vaccine // por dog id
	vets    map[string]vets.Vet
	entries []audit.Entry // append-only, orden de creación
}

func NewState() *State {
	return &State{
		dogs:   make(map[string]dogs.Dog),
		chips:  make(map[string]string),
		owners: make(map[string]owners.Owner),
		events: make(map[string][]dogs.StatusEvent),
		shots:  make(map[string][]vaccines.Vaccine),
		vets:   make(map[string]vets.Vet),
	}
}
