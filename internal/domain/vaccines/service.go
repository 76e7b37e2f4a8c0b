package vaccines

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"dog-registry/internal/platform/metrics"
	"dog-registry/internal/ports/refresh"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo    Repository
	signal  refresh.Signaler
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(repo Repository, signal refresh.Signaler, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		signal:  signal,
		metrics: m,
		now:     time.Now,
	}
}

type AddInput struct {
	VaccineName string
	VaccineDate time.Time
	NextDueDate *time.Time
}

// Add registra una vacuna atribuida al vet que la carga.
// No toca la máquina de estados del perro.
func (s *Service) Add(ctx context.Context, vetID, dogID string, in AddInput) (Vaccine, error) {
	vetID = strings.TrimSpace(vetID)
	dogID = strings.TrimSpace(dogID)
	name := strings.TrimSpace(in.VaccineName)

	if vetID == "" || dogID == "" || name == "" || in.VaccineDate.IsZero() {
		return Vaccine{}, ErrInvalidInput
	}

	v := Vaccine{
		ID:             uuid.NewString(),
		DogID:          dogID,
		VaccineName:    name,
		VaccineDate:    in.VaccineDate,
		NextDueDate:    in.NextDueDate,
		CreatedByVetID: vetID,
		CreatedAt:      s.now(),
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return Vaccine{}, err
	}

	s.metrics.IncVaccinesRecorded()
	if s.signal != nil {
		s.signal.DogChanged(ctx, dogID)
	}
	return v, nil
}

func (s *Service) ListByDog(ctx context.Context, dogID string) ([]Vaccine, error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByDog(ctx, dogID)
}
