package vets

import (
	"context"
	"errors"
	"strings"
	"time"

	"dog-registry/internal/ports/refresh"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo   Repository
	signal refresh.Signaler
	now    func() time.Time
}

func NewService(repo Repository, signal refresh.Signaler) *Service {
	return &Service{
		repo:   repo,
		signal: signal,
		now:    time.Now,
	}
}

type ProfileInput struct {
	ClinicName string
	Phone      string
}

// SaveProfile es un upsert idempotente keyed por la identidad del caller.
// Ambos campos son opcionales; la última llamada gana.
func (s *Service) SaveProfile(ctx context.Context, vetID string, in ProfileInput) (Vet, error) {
	vetID = strings.TrimSpace(vetID)
	if vetID == "" {
		return Vet{}, ErrInvalidInput
	}

	now := s.now()

	v := Vet{
		ID:         vetID,
		ClinicName: strings.TrimSpace(in.ClinicName),
		Phone:      strings.TrimSpace(in.Phone),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Upsert(ctx, v); err != nil {
		return Vet{}, err
	}

	if s.signal != nil {
		s.signal.SearchChanged(ctx)
	}
	return v, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Vet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Vet{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}
