package audit

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input")

// Service expone el audit trail en modo lectura. Es append-only: ninguna
// operación actualiza ni borra entradas.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// History devuelve las entradas de una entidad en orden de creación.
func (s *Service) History(ctx context.Context, entity, entityID string) ([]Entry, error) {
	entity = strings.TrimSpace(entity)
	entityID = strings.TrimSpace(entityID)
	if entity == "" || entityID == "" {
		return nil, ErrInvalidInput
	}
	return s.store.ListByEntity(ctx, entity, entityID)
}
