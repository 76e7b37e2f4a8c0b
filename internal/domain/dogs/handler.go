package dogs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"dog-registry/internal/domain/audit"
	"dog-registry/internal/domain/owners"
	"dog-registry/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, ownersSvc *owners.Service, auditSvc *audit.Service) {
	r.Route("/dogs", func(dr chi.Router) {
		dr.Post("/", createDogHandler(svc))

		// Sin query: lista los perros del vet autenticado.
		// Con ?microchip=: búsqueda whitespace-insensitive.
		dr.Get("/", searchDogsHandler(svc))

		dr.Get("/{dogID}", getDogHandler(svc, ownersSvc))

		dr.Post("/{dogID}/status", addStatusEventHandler(svc))
		dr.Get("/{dogID}/status", listStatusEventsHandler(svc))

		dr.Post("/{dogID}/transfer", transferOwnerHandler(svc))

		dr.Get("/{dogID}/audit", auditTrailHandler(svc, auditSvc))
	})
}

// createDogRequest replica los campos del formulario de alta.
type createDogRequest struct {
	MicrochipNumber string `json:"microchip_number"`
	Name            string `json:"name"`
	Breed           string `json:"breed"`
	Birthdate       string `json:"birthdate"` // YYYY-MM-DD opcional

	OwnerFullName string `json:"owner_full_name"`
	OwnerPhone    string `json:"owner_phone"`
	OwnerEmail    string `json:"owner_email"`
	OwnerAddress  string `json:"owner_address"`
}

type dogResponse struct {
	ID              string     `json:"id"`
	MicrochipNumber string     `json:"microchip_number"`
	Name            string     `json:"name"`
	Breed           string     `json:"breed"`
	Birthdate       *time.Time `json:"birthdate,omitempty"`
	OwnerID         string     `json:"owner_id"`
	PrimaryVetID    string     `json:"primary_vet_id"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ownerResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
}

type dogDetailResponse struct {
	Dog   dogResponse    `json:"dog"`
	Owner *ownerResponse `json:"owner,omitempty"`
}

type statusEventRequest struct {
	Status string `json:"status" enums:"normal,lost,stolen,found"`
	Notes  string `json:"notes"`
}

type statusEventResponse struct {
	ID             string    `json:"id"`
	DogID          string    `json:"dog_id"`
	Status         Status    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	CreatedByVetID string    `json:"created_by_vet_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type transferRequest struct {
	OldOwnerID string `json:"old_owner_id"`

	NewOwnerFullName string `json:"new_owner_full_name"`
	NewOwnerPhone    string `json:"new_owner_phone"`
	NewOwnerEmail    string `json:"new_owner_email"`
	NewOwnerAddress  string `json:"new_owner_address"`
}

type auditEntryResponse struct {
	ID             string          `json:"id"`
	Entity         string          `json:"entity"`
	EntityID       string          `json:"entity_id"`
	Action         string          `json:"action"`
	OldData        json.RawMessage `json:"old_data"`
	NewData        json.RawMessage `json:"new_data"`
	CreatedByVetID string          `json:"created_by_vet_id"`
	CreatedAt      time.Time       `json:"created_at"`
}

// createDogHandler godoc
// @Summary Registrar un perro
// @Description Da de alta un perro junto con su owner inicial. El vet autenticado queda como primary vet y el estado inicial es normal. El microchip se normaliza quitando todo el whitespace.
// @Tags dogs
// @Accept json
// @Produce json
// @Param payload body createDogRequest true "Datos del perro y del owner inicial; birthdate en formato YYYY-MM-DD"
// @Success 201 {object} dogResponse
// @Failure 400 {string} string "invalid json / campos requeridos faltantes"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "microchip number already exists"
// @Router /dogs [post]
func createDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createDogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.Birthdate) != "" {
			t, err := time.Parse("2006-01-02", req.Birthdate)
			if err != nil {
				http.Error(w, "birthdate must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		d, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			MicrochipNumber: req.MicrochipNumber,
			Name:            req.Name,
			Breed:           req.Breed,
			Birthdate:       bd,
			Owner: OwnerInput{
				FullName: req.OwnerFullName,
				Phone:    req.OwnerPhone,
				Email:    req.OwnerEmail,
				Address:  req.OwnerAddress,
			},
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrDuplicateMicrochip):
				http.Error(w, "microchip number already exists", http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "microchip number, dog name and owner full name are required", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toDogResponse(d))
	}
}

// searchDogsHandler godoc
// @Summary Buscar perros
// @Description Con ?microchip= resuelve un perro por chip (insensible a espacios: "MA 0001" encuentra "MA0001"). Sin query, lista los perros cuyo primary vet es el caller.
// @Tags dogs
// @Produce json
// @Param microchip query string false "Número de microchip"
// @Success 200 {array} dogResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "dog not found"
// @Router /dogs [get]
func searchDogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if chip := r.URL.Query().Get("microchip"); strings.TrimSpace(chip) != "" {
			d, err := svc.GetByMicrochip(r.Context(), chip)
			if err != nil {
				http.Error(w, "dog not found", http.StatusNotFound)
				return
			}
			writeJSON(w, http.StatusOK, []dogResponse{toDogResponse(d)})
			return
		}

		items, err := svc.ListByVet(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]dogResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDogResponse(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getDogHandler(svc *Service, ownersSvc *owners.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dogID := chi.URLParam(r, "dogID")
		d, err := svc.GetByID(r.Context(), dogID)
		if err != nil {
			http.Error(w, "dog not found", http.StatusNotFound)
			return
		}

		resp := dogDetailResponse{Dog: toDogResponse(d)}

		// El owner se muestra si existe; un owner ilegible no rompe el detalle.
		if o, err := ownersSvc.GetByID(r.Context(), d.OwnerID); err == nil {
			resp.Owner = &ownerResponse{
				ID:       o.ID,
				FullName: o.FullName,
				Phone:    o.Phone,
				Email:    o.Email,
				Address:  o.Address,
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func addStatusEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dogID := chi.URLParam(r, "dogID")

		var req statusEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ev, err := svc.SetStatus(r.Context(), claims.UserID, dogID, req.Status, req.Notes)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "dog not found", http.StatusNotFound)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "status must be one of normal, lost, stolen, found", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toStatusEventResponse(ev))
	}
}

func listStatusEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dogID := chi.URLParam(r, "dogID")
		if _, err := svc.GetByID(r.Context(), dogID); err != nil {
			http.Error(w, "dog not found", http.StatusNotFound)
			return
		}

		items, err := svc.ListStatusEvents(r.Context(), dogID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]statusEventResponse, 0, len(items))
		for _, ev := range items {
			out = append(out, toStatusEventResponse(ev))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// transferOwnerHandler godoc
// @Summary Transferir la custodia de un perro
// @Description Crea un owner nuevo con los datos recibidos, cambia owner_id y deja una entrada de auditoría, todo en una transacción. Solo el primary vet del perro puede transferir; cualquier otro vet autenticado recibe 403.
// @Tags dogs
// @Accept json
// @Produce json
// @Param dogID path string true "ID del perro"
// @Param payload body transferRequest true "old_owner_id y datos del owner nuevo"
// @Success 200 {object} dogResponse
// @Failure 400 {string} string "campos requeridos faltantes"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "only the primary vet can transfer owner identity"
// @Failure 404 {string} string "dog not found"
// @Router /dogs/{dogID}/transfer [post]
func transferOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dogID := chi.URLParam(r, "dogID")

		var req transferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		d, err := svc.Transfer(r.Context(), claims.UserID, dogID, TransferInput{
			OldOwnerID: req.OldOwnerID,
			NewOwner: OwnerInput{
				FullName: req.NewOwnerFullName,
				Phone:    req.NewOwnerPhone,
				Email:    req.NewOwnerEmail,
				Address:  req.NewOwnerAddress,
			},
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrForbidden):
				http.Error(w, "only the primary vet can transfer owner identity", http.StatusForbidden)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "dog not found", http.StatusNotFound)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "old_owner_id and new owner full name are required", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toDogResponse(d))
	}
}

func auditTrailHandler(svc *Service, auditSvc *audit.Service) http.HandlerFunc {
	// Historial de custodia: entradas en orden de creación, autocontenidas.
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dogID := chi.URLParam(r, "dogID")
		if _, err := svc.GetByID(r.Context(), dogID); err != nil {
			http.Error(w, "dog not found", http.StatusNotFound)
			return
		}

		items, err := auditSvc.History(r.Context(), audit.EntityDogs, dogID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]auditEntryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, auditEntryResponse{
				ID:             e.ID,
				Entity:         e.Entity,
				EntityID:       e.EntityID,
				Action:         e.Action,
				OldData:        e.OldData,
				NewData:        e.NewData,
				CreatedByVetID: e.CreatedByVetID,
				CreatedAt:      e.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toDogResponse(d Dog) dogResponse {
	return dogResponse{
		ID:              d.ID,
		MicrochipNumber: d.MicrochipNumber,
		Name:            d.Name,
		Breed:           d.Breed,
		Birthdate:       d.Birthdate,
		OwnerID:         d.OwnerID,
		PrimaryVetID:    d.PrimaryVetID,
		Status:          d.Status,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func toStatusEventResponse(ev StatusEvent) statusEventResponse {
	return statusEventResponse{
		ID:             ev.ID,
		DogID:          ev.DogID,
		Status:         ev.Status,
		Notes:          ev.Notes,
		CreatedByVetID: ev.CreatedByVetID,
		CreatedAt:      ev.CreatedAt,
	}
}

// writeJSON está duplicado en handlers de distintos módulos a propósito,
// para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
