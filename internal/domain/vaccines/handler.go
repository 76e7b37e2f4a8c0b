package vaccines

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dog-registry/internal/domain/dogs"
	"dog-registry/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, dogsSvc *dogs.Service) {
	r.Route("/dogs/{dogID}/vaccines", func(vr chi.Router) {
		vr.Post("/", addVaccineHandler(svc, dogsSvc))
		vr.Get("/", listVaccinesHandler(svc, dogsSvc))
	})
}

type addVaccineRequest struct {
	VaccineName string `json:"vaccine_name"`
	VaccineDate string `json:"vaccine_date"`  // YYYY-MM-DD
	NextDueDate string `json:"next_due_date"` // YYYY-MM-DD opcional
}

type vaccineResponse struct {
	ID             string     `json:"id"`
	DogID          string     `json:"dog_id"`
	VaccineName    string     `json:"vaccine_name"`
	VaccineDate    time.Time  `json:"vaccine_date"`
	NextDueDate    *time.Time `json:"next_due_date,omitempty"`
	CreatedByVetID string     `json:"created_by_vet_id"`
	CreatedAt      time.Time  `json:"created_at"`
}

// addVaccineHandler godoc
// @Summary Registrar una vacuna
// @Description Agrega una vacuna al historial del perro, atribuida al vet autenticado. El historial es append-only.
// @Tags vaccines
// @Accept json
// @Produce json
// @Param dogID path string true "ID del perro"
// @Param payload body addVaccineRequest true "Nombre y fecha de la vacuna; fechas en formato YYYY-MM-DD"
// @Success 201 {object} vaccineResponse
// @Failure 400 {string} string "vaccine name and date are required"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "dog not found"
// @Router /dogs/{dogID}/vaccines [post]
func addVaccineHandler(svc *Service, dogsSvc *dogs.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dogID := chi.URLParam(r, "dogID")
		if _, err := dogsSvc.GetByID(r.Context(), dogID); err != nil {
			http.Error(w, "dog not found", http.StatusNotFound)
			return
		}

		var req addVaccineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var date time.Time
		if strings.TrimSpace(req.VaccineDate) != "" {
			t, err := time.Parse("2006-01-02", req.VaccineDate)
			if err != nil {
				http.Error(w, "vaccine_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = t
		}

		var due *time.Time
		if strings.TrimSpace(req.NextDueDate) != "" {
			t, err := time.Parse("2006-01-02", req.NextDueDate)
			if err != nil {
				http.Error(w, "next_due_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			due = &t
		}

		v, err := svc.Add(r.Context(), claims.UserID, dogID, AddInput{
			VaccineName: req.VaccineName,
			VaccineDate: date,
			NextDueDate: due,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "vaccine name and date are required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toVaccineResponse(v))
	}
}

func listVaccinesHandler(svc *Service, dogsSvc *dogs.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dogID := chi.URLParam(r, "dogID")
		if _, err := dogsSvc.GetByID(r.Context(), dogID); err != nil {
			http.Error(w, "dog not found", http.StatusNotFound)
			return
		}

		items, err := svc.ListByDog(r.Context(), dogID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]vaccineResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVaccineResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toVaccineResponse(v Vaccine) vaccineResponse {
	return vaccineResponse{
		ID:             v.ID,
		DogID:          v.DogID,
		VaccineName:    v.VaccineName,
		VaccineDate:    v.VaccineDate,
		NextDueDate:    v.NextDueDate,
		CreatedByVetID: v.CreatedByVetID,
		CreatedAt:      v.CreatedAt,
	}
}

// writeJSON duplicado a propósito (ver nota en dogs/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
