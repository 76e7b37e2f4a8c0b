package dogs

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"dog-registry/internal/domain/audit"
	"dog-registry/internal/domain/owners"
	"dog-registry/internal/platform/metrics"
	"dog-registry/internal/ports/refresh"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateMicrochip = errors.New("microchip number already exists")
)

type Service struct {
	repo    Repository
	signal  refresh.Signaler
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewService arma el servicio. signal y m pueden ser nil (dev/tests).
func NewService(repo Repository, signal refresh.Signaler, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		signal:  signal,
		metrics: m,
		now:     time.Now,
	}
}

type OwnerInput struct {
	FullName string
	Phone    string
	Email    string
	Address  string
}

type CreateInput struct {
	MicrochipNumber string
	Name            string
	Breed           string
	Birthdate       *time.Time
	Owner           OwnerInput
}

// Create da de alta un perro junto con su owner inicial. El vet que registra
// queda como primary vet; el estado inicial es siempre normal.
func (s *Service) Create(ctx context.Context, vetID string, in CreateInput) (Dog, error) {
	vetID = strings.TrimSpace(vetID)
	if vetID == "" {
		return Dog{}, ErrInvalidInput
	}

	chip := NormalizeMicrochip(in.MicrochipNumber)
	name := strings.TrimSpace(in.Name)
	ownerName := strings.TrimSpace(in.Owner.FullName)
	if chip == "" || name == "" || ownerName == "" {
		return Dog{}, ErrInvalidInput
	}

	now := s.now()

	o := owners.Owner{
		ID:        uuid.NewString(),
		FullName:  ownerName,
		Phone:     strings.TrimSpace(in.Owner.Phone),
		Email:     strings.TrimSpace(in.Owner.Email),
		Address:   strings.TrimSpace(in.Owner.Address),
		CreatedAt: now,
	}

	d := Dog{
		ID:              uuid.NewString(),
		MicrochipNumber: chip,
		Name:            name,
		Breed:           strings.TrimSpace(in.Breed),
		Birthdate:       in.Birthdate,
		OwnerID:         o.ID,
		PrimaryVetID:    vetID,
		Status:          StatusNormal,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreateWithOwner(ctx, d, o); err != nil {
		if errors.Is(err, ErrDuplicateMicrochip) {
			s.metrics.IncDuplicateMicrochips()
		}
		return Dog{}, err
	}

	s.metrics.IncDogsCreated()
	if s.signal != nil {
		s.signal.SearchChanged(ctx)
	}
	return d, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Dog{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// GetByMicrochip busca por chip con la misma normalización del alta, así
// "MA 0001" resuelve al perro registrado como "MA0001".
func (s *Service) GetByMicrochip(ctx context.Context, chip string) (Dog, error) {
	chip = NormalizeMicrochip(chip)
	if chip == "" {
		return Dog{}, ErrInvalidInput
	}
	return s.repo.GetByMicrochip(ctx, chip)
}

func (s *Service) ListByVet(ctx context.Context, vetID string) ([]Dog, error) {
	vetID = strings.TrimSpace(vetID)
	if vetID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByVet(ctx, vetID)
}

// SetStatus registra un evento de estado y actualiza la proyección
// dogs.status. Un status fuera del enum falla antes de cualquier write.
func (s *Service) SetStatus(ctx context.Context, vetID, dogID, status, notes string) (StatusEvent, error) {
	vetID = strings.TrimSpace(vetID)
	dogID = strings.TrimSpace(dogID)
	if vetID == "" || dogID == "" {
		return StatusEvent{}, ErrInvalidInput
	}

	st, err := ParseStatus(status)
	if err != nil {
		return StatusEvent{}, err
	}

	if _, err := s.repo.GetByID(ctx, dogID); err != nil {
		return StatusEvent{}, err
	}

	ev := StatusEvent{
		ID:             uuid.NewString(),
		DogID:          dogID,
		Status:         st,
		Notes:          strings.TrimSpace(notes),
		CreatedByVetID: vetID,
		CreatedAt:      s.now(),
	}

	if err := s.repo.SetStatus(ctx, dogID, st, ev); err != nil {
		return StatusEvent{}, err
	}

	s.metrics.IncStatusEvents()
	if s.signal != nil {
		s.signal.DogChanged(ctx, dogID)
	}
	return ev, nil
}

func (s *Service) ListStatusEvents(ctx context.Context, dogID string) ([]StatusEvent, error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListStatusEvents(ctx, dogID)
}

type TransferInput struct {
	OldOwnerID string
	NewOwner   OwnerInput
}

// Transfer cambia la custodia del perro a un owner nuevo. Solo el primary vet
// puede hacerlo; cualquier otra identidad recibe ErrForbidden sin que se
// escriba nada. El owner nuevo es siempre una fila fresca y la entrada de
// auditoría viaja en la misma transacción que el update de owner_id.
func (s *Service) Transfer(ctx context.Context, vetID, dogID string, in TransferInput) (Dog, error) {
	vetID = strings.TrimSpace(vetID)
	dogID = strings.TrimSpace(dogID)
	oldOwnerID := strings.TrimSpace(in.OldOwnerID)
	ownerName := strings.TrimSpace(in.NewOwner.FullName)

	if vetID == "" || dogID == "" || oldOwnerID == "" || ownerName == "" {
		return Dog{}, ErrInvalidInput
	}

	d, err := s.repo.GetByID(ctx, dogID)
	if err != nil {
		return Dog{}, err
	}
	if d.PrimaryVetID != vetID {
		s.metrics.IncOwnerTransfersDenied()
		return Dog{}, ErrForbidden
	}

	now := s.now()

	o := owners.Owner{
		ID:        uuid.NewString(),
		FullName:  ownerName,
		Phone:     strings.TrimSpace(in.NewOwner.Phone),
		Email:     strings.TrimSpace(in.NewOwner.Email),
		Address:   strings.TrimSpace(in.NewOwner.Address),
		CreatedAt: now,
	}

	oldData, _ := json.Marshal(map[string]string{
		"owner_id": oldOwnerID,
	})
	newData, _ := json.Marshal(map[string]string{
		"owner_id":  o.ID,
		"full_name": o.FullName,
		"phone":     o.Phone,
		"email":     o.Email,
		"address":   o.Address,
	})

	entry := audit.Entry{
		ID:             uuid.NewString(),
		Entity:         audit.EntityDogs,
		EntityID:       dogID,
		Action:         audit.ActionOwnerTransfer,
		OldData:        oldData,
		NewData:        newData,
		CreatedByVetID: vetID,
		CreatedAt:      now,
	}

	if err := s.repo.Transfer(ctx, dogID, o, entry); err != nil {
		return Dog{}, err
	}

	s.metrics.IncOwnerTransfers()
	if s.signal != nil {
		s.signal.DogChanged(ctx, dogID)
	}

	d.OwnerID = o.ID
	d.UpdatedAt = now
	return d, nil
}
