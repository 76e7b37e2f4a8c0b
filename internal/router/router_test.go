package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"dog-registry/internal/router"
)

func TestHTTP_EndToEnd_Registry(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	vetA := "vet-a"
	vetB := "vet-b"

	// 1) vetA registra un perro con su owner inicial
	var dogID, ownerID string
	{
		st, body := doReq(t, ts.URL, "POST", "/dogs", vetA, map[string]any{
			"microchip_number": "MA000123",
			"name":             "Rex",
			"breed":            "mixed",
			"owner_full_name":  "Jane Doe",
			"owner_phone":      "555-0100",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create dog, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID           string `json:"id"`
			OwnerID      string `json:"owner_id"`
			PrimaryVetID string `json:"primary_vet_id"`
			Status       string `json:"status"`
		}
		mustDecode(t, body, &resp)
		if resp.Status != "normal" {
			t.Fatalf("expected initial status normal, got %s", resp.Status)
		}
		if resp.PrimaryVetID != vetA {
			t.Fatalf("expected primary vet %s, got %s", vetA, resp.PrimaryVetID)
		}
		dogID, ownerID = resp.ID, resp.OwnerID
	}

	// 2) la búsqueda por chip ignora espacios: "MA 000123" resuelve el mismo perro
	{
		st, body := doReq(t, ts.URL, "GET", "/dogs?microchip="+url.QueryEscape("MA 000123"), vetB, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 search, got %d body=%s", st, string(body))
		}
		var found []struct {
			ID string `json:"id"`
		}
		mustDecode(t, body, &found)
		if len(found) != 1 || found[0].ID != dogID {
			t.Fatalf("expected the registered dog, got %+v", found)
		}
	}

	// 3) segundo alta con el mismo chip (con espacios) -> 409
	{
		st, body := doReq(t, ts.URL, "POST", "/dogs", vetB, map[string]any{
			"microchip_number": "MA 000123",
			"name":             "Otro",
			"owner_full_name":  "John Doe",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate chip, got %d body=%s", st, string(body))
		}
	}

	// 4) vetB (no primary) intenta transferir -> 403
	{
		st, body := doReq(t, ts.URL, "POST", "/dogs/"+dogID+"/transfer", vetB, map[string]any{
			"old_owner_id":        ownerID,
			"new_owner_full_name": "Intruso",
		})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 transfer by non-primary vet, got %d body=%s", st, string(body))
		}
	}

	// 5) el intento denegado no dejó rastro: auditoría vacía y owner intacto
	{
		st, body := doReq(t, ts.URL, "GET", "/dogs/"+dogID+"/audit", vetA, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 audit, got %d body=%s", st, string(body))
		}
		var logs []json.RawMessage
		mustDecode(t, body, &logs)
		if len(logs) != 0 {
			t.Fatalf("expected empty audit trail after denied transfer, got %d entries", len(logs))
		}

		st, body = doReq(t, ts.URL, "GET", "/dogs/"+dogID, vetA, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get dog, got %d body=%s", st, string(body))
		}
		var detail struct {
			Dog struct {
				OwnerID string `json:"owner_id"`
			} `json:"dog"`
		}
		mustDecode(t, body, &detail)
		if detail.Dog.OwnerID != ownerID {
			t.Fatalf("expected owner unchanged after denied transfer")
		}
	}

	// 6) vetA transfiere: owner nuevo + entrada de auditoría
	var newOwnerID string
	{
		st, body := doReq(t, ts.URL, "POST", "/dogs/"+dogID+"/transfer", vetA, map[string]any{
			"old_owner_id":        ownerID,
			"new_owner_full_name": "New Person",
			"new_owner_phone":     "555-0200",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 transfer, got %d body=%s", st, string(body))
		}
		var resp struct {
			OwnerID string `json:"owner_id"`
		}
		mustDecode(t, body, &resp)
		if resp.OwnerID == "" || resp.OwnerID == ownerID {
			t.Fatalf("expected a fresh owner id, got %q", resp.OwnerID)
		}
		newOwnerID = resp.OwnerID
	}

	// 7) exactamente una entrada de auditoría con old/new owner_id
	{
		st, body := doReq(t, ts.URL, "GET", "/dogs/"+dogID+"/audit", vetA, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 audit, got %d body=%s", st, string(body))
		}
		var logs []struct {
			Action         string `json:"action"`
			CreatedByVetID string `json:"created_by_vet_id"`
			OldData        struct {
				OwnerID string `json:"owner_id"`
			} `json:"old_data"`
			NewData struct {
				OwnerID string `json:"owner_id"`
			} `json:"new_data"`
		}
		mustDecode(t, body, &logs)
		if len(logs) != 1 {
			t.Fatalf("expected exactly one audit entry, got %d", len(logs))
		}
		if logs[0].Action != "owner_transfer" || logs[0].CreatedByVetID != vetA {
			t.Fatalf("unexpected audit entry %+v", logs[0])
		}
		if logs[0].OldData.OwnerID != ownerID {
			t.Fatalf("expected old_data.owner_id %s, got %s", ownerID, logs[0].OldData.OwnerID)
		}
		if logs[0].NewData.OwnerID != newOwnerID {
			t.Fatalf("expected new_data.owner_id %s, got %s", newOwnerID, logs[0].NewData.OwnerID)
		}
	}

	// 8) evento de estado: lost
	{
		st, body := doReq(t, ts.URL, "POST", "/dogs/"+dogID+"/status", vetA, map[string]any{
			"status": "lost",
			"notes":  "se perdió en el parque",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 status event, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/dogs/"+dogID, vetA, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get dog, got %d body=%s", st, string(body))
		}
		var detail struct {
			Dog struct {
				Status string `json:"status"`
			} `json:"dog"`
		}
		mustDecode(t, body, &detail)
		if detail.Dog.Status != "lost" {
			t.Fatalf("expected projection lost, got %s", detail.Dog.Status)
		}

		st, body = doReq(t, ts.URL, "GET", "/dogs/"+dogID+"/status", vetA, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 status list, got %d body=%s", st, string(body))
		}
		var events []struct {
			Status string `json:"status"`
		}
		mustDecode(t, body, &events)
		if len(events) != 1 || events[0].Status != "lost" {
			t.Fatalf("expected one lost event, got %+v", events)
		}
	}

	// 9) status fuera del enum -> 400
	{
		st, body := doReq(t, ts.URL, "POST", "/dogs/"+dogID+"/status", vetA, map[string]any{
			"status": "eaten",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown status, got %d body=%s", st, string(body))
		}
	}

	// 10) vacunas: alta y listado
	{
		st, body := doReq(t, ts.URL, "POST", "/dogs/"+dogID+"/vaccines", vetA, map[string]any{
			"vaccine_name":  "Rabies",
			"vaccine_date":  "2026-01-10",
			"next_due_date": "2027-01-10",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 vaccine, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/dogs/"+dogID+"/vaccines", vetA, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 vaccine list, got %d body=%s", st, string(body))
		}
		var shots []struct {
			VaccineName    string `json:"vaccine_name"`
			CreatedByVetID string `json:"created_by_vet_id"`
		}
		mustDecode(t, body, &shots)
		if len(shots) != 1 || shots[0].VaccineName != "Rabies" || shots[0].CreatedByVetID != vetA {
			t.Fatalf("unexpected vaccine list %+v", shots)
		}
	}

	// 11) sin identidad no hay acceso
	{
		st, _ := doReq(t, ts.URL, "GET", "/dogs/"+dogID, "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without identity, got %d", st)
		}
	}
}

func TestHTTP_VetProfile_Upsert(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	vetID := "vet-profile"

	// Perfil inexistente -> 404
	{
		st, _ := doReq(t, ts.URL, "GET", "/me/vet", vetID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 before first save, got %d", st)
		}
	}

	// Dos PUT seguidos: la última llamada gana
	{
		st, body := doReq(t, ts.URL, "PUT", "/me/vet", vetID, map[string]any{
			"clinic_name": "Clínica Sur",
			"phone":       "555-0100",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 first save, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "PUT", "/me/vet", vetID, map[string]any{
			"clinic_name": "Clínica Norte",
			"phone":       "555-0200",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 second save, got %d body=%s", st, string(body))
		}
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/me/vet", vetID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get profile, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID         string `json:"id"`
			ClinicName string `json:"clinic_name"`
			Phone      string `json:"phone"`
		}
		mustDecode(t, body, &resp)
		if resp.ID != vetID {
			t.Fatalf("expected profile keyed by caller, got %q", resp.ID)
		}
		if resp.ClinicName != "Clínica Norte" || resp.Phone != "555-0200" {
			t.Fatalf("expected latest values, got %+v", resp)
		}
	}
}

func TestHTTP_Vaccines_UnknownDog(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "POST", "/dogs/nope/vaccines", "vet-a", map[string]any{
		"vaccine_name": "Rabies",
		"vaccine_date": "2026-01-10",
	})
	if st != http.StatusNotFound {
		t.Fatalf("expected 404 vaccine on unknown dog, got %d", st)
	}
}

func mustDecode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("json unmarshal: %v body=%s", err, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
