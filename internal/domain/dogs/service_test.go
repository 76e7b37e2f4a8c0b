package dogs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	memrefresh "dog-registry/internal/adapters/refresh/memory"
	"dog-registry/internal/domain/audit"
	"dog-registry/internal/domain/owners"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	dogs    map[string]Dog
	chips   map[string]string
	owners  map[string]owners.Owner
	events  map[string][]StatusEvent
	entries []audit.Entry

	failTransfer error
}

func newTestRepo() *testRepo {
	return &testRepo{
		dogs:   map[string]Dog{},
		chips:  map[string]string{},
		owners: map[string]owners.Owner{},
		events: map[string][]StatusEvent{},
	}
}

func (r *testRepo) CreateWithOwner(ctx context.Context, d Dog, o owners.Owner) error {
	if _, exists := r.chips[d.MicrochipNumber]; exists {
		return ErrDuplicateMicrochip
	}
	r.owners[o.ID] = o
	r.dogs[d.ID] = d
	r.chips[d.MicrochipNumber] = d.ID
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Dog, error) {
	d, ok := r.dogs[id]
	if !ok {
		return Dog{}, ErrNotFound
	}
	return d, nil
}

func (r *testRepo) GetByMicrochip(ctx context.Context, chip string) (Dog, error) {
	id, ok := r.chips[chip]
	if !ok {
		return Dog{}, ErrNotFound
	}
	return r.dogs[id], nil
}

func (r *testRepo) ListByVet(ctx context.Context, vetID string) ([]Dog, error) {
	out := make([]Dog, 0)
	for _, d := range r.dogs {
		if d.PrimaryVetID == vetID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *testRepo) SetStatus(ctx context.Context, dogID string, st Status, ev StatusEvent) error {
	d, ok := r.dogs[dogID]
	if !ok {
		return ErrNotFound
	}
	d.Status = st
	d.UpdatedAt = ev.CreatedAt
	r.dogs[dogID] = d
	r.events[dogID] = append(r.events[dogID], ev)
	return nil
}

func (r *testRepo) ListStatusEvents(ctx context.Context, dogID string) ([]StatusEvent, error) {
	stored := r.events[dogID]
	out := make([]StatusEvent, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	return out, nil
}

func (r *testRepo) Transfer(ctx context.Context, dogID string, newOwner owners.Owner, entry audit.Entry) error {
	if r.failTransfer != nil {
		// simula el rollback: no queda ningún write
		return r.failTransfer
	}
	d, ok := r.dogs[dogID]
	if !ok {
		return ErrNotFound
	}
	r.owners[newOwner.ID] = newOwner
	d.OwnerID = newOwner.ID
	d.UpdatedAt = entry.CreatedAt
	r.dogs[dogID] = d
	r.entries = append(r.entries, entry)
	return nil
}

func seedDog(t *testing.T, svc *Service, vetID, chip, name, ownerName string) Dog {
	t.Helper()
	d, err := svc.Create(context.Background(), vetID, CreateInput{
		MicrochipNumber: chip,
		Name:            name,
		Owner:           OwnerInput{FullName: ownerName},
	})
	if err != nil {
		t.Fatalf("seed create error: %v", err)
	}
	return d
}

// -------------------------
// Tests
// -------------------------

func TestNormalizeMicrochip(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"MA0001", "MA0001"},
		{"MA 0001", "MA0001"},
		{"  MA 00 01  ", "MA0001"},
		{"MA\t0001", "MA0001"},
		{"   ", ""},
	}

	for _, c := range cases {
		if got := NormalizeMicrochip(c.in); got != c.want {
			t.Fatalf("NormalizeMicrochip(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestService_Create_RequiredFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil)

	cases := []CreateInput{
		{Name: "Rex", Owner: OwnerInput{FullName: "Jane Doe"}},                 // sin chip
		{MicrochipNumber: "MA0001", Owner: OwnerInput{FullName: "Jane Doe"}},   // sin nombre
		{MicrochipNumber: "MA0001", Name: "Rex"},                               // sin owner
		{MicrochipNumber: "   ", Name: "Rex", Owner: OwnerInput{FullName: "J"}}, // chip solo espacios
	}

	for i, in := range cases {
		if _, err := svc.Create(context.Background(), "vet-1", in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}

	if len(repo.dogs) != 0 || len(repo.owners) != 0 {
		t.Fatalf("expected zero writes on validation failure")
	}
}

func TestService_Create_NormalizesChip_AndSetsDefaults(t *testing.T) {
	repo := newTestRepo()
	rec := memrefresh.NewRecorder()
	svc := NewService(repo, rec, nil)

	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	d, err := svc.Create(context.Background(), "vet-1", CreateInput{
		MicrochipNumber: "MA 0001",
		Name:            "  Rex ",
		Owner:           OwnerInput{FullName: " Jane Doe "},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if d.MicrochipNumber != "MA0001" {
		t.Fatalf("expected normalized chip MA0001, got %q", d.MicrochipNumber)
	}
	if d.Name != "Rex" {
		t.Fatalf("expected trimmed name, got %q", d.Name)
	}
	if d.Status != StatusNormal {
		t.Fatalf("expected initial status normal, got %s", d.Status)
	}
	if d.PrimaryVetID != "vet-1" {
		t.Fatalf("expected primary vet = caller, got %q", d.PrimaryVetID)
	}

	o, ok := repo.owners[d.OwnerID]
	if !ok {
		t.Fatalf("expected owner row created")
	}
	if o.FullName != "Jane Doe" {
		t.Fatalf("expected trimmed owner name, got %q", o.FullName)
	}
	if o.CreatedAt != now || d.CreatedAt != now {
		t.Fatalf("expected CreatedAt = now for both rows")
	}

	if rec.SearchChangedCount() != 1 {
		t.Fatalf("expected one search refresh signal, got %d", rec.SearchChangedCount())
	}
}

func TestService_Create_DuplicateChip_WhitespaceInsensitive(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil)

	seedDog(t, svc, "vet-1", "MA 0001", "Rex", "Jane Doe")

	_, err := svc.Create(context.Background(), "vet-2", CreateInput{
		MicrochipNumber: "MA0001",
		Name:            "Otro",
		Owner:           OwnerInput{FullName: "John Doe"},
	})
	if !errors.Is(err, ErrDuplicateMicrochip) {
		t.Fatalf("expected ErrDuplicateMicrochip, got %v", err)
	}
	if len(repo.dogs) != 1 {
		t.Fatalf("expected exactly one dog row, got %d", len(repo.dogs))
	}
}

func TestService_GetByMicrochip_NormalizesQuery(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil)

	d := seedDog(t, svc, "vet-1", "MA000123", "Rex", "Jane Doe")

	found, err := svc.GetByMicrochip(context.Background(), "MA 000123")
	if err != nil {
		t.Fatalf("GetByMicrochip error: %v", err)
	}
	if found.ID != d.ID {
		t.Fatalf("expected same dog, got %s vs %s", found.ID, d.ID)
	}
}

func TestService_SetStatus_RejectsUnknownStatus(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil)

	d := seedDog(t, svc, "vet-1", "MA0001", "Rex", "Jane Doe")

	if _, err := svc.SetStatus(context.Background(), "vet-1", d.ID, "eaten", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for out-of-enum status, got %v", err)
	}
	if len(repo.events[d.ID]) != 0 {
		t.Fatalf("expected zero events after rejected status")
	}
	if repo.dogs[d.ID].Status != StatusNormal {
		t.Fatalf("expected status untouched")
	}
}

func TestService_SetStatus_AllStatuses(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil)

	d := seedDog(t, svc, "vet-1", "MA0001", "Rex", "Jane Doe")

	all := []Status{StatusLost, StatusStolen, StatusFound, StatusNormal}
	for i, st := range all {
		ev, err := svc.SetStatus(context.Background(), "vet-1", d.ID, string(st), "nota")
		if err != nil {
			t.Fatalf("SetStatus(%s) error: %v", st, err)
		}
		if ev.Status != st || ev.CreatedByVetID != "vet-1" {
			t.Fatalf("unexpected event %+v", ev)
		}
		if repo.dogs[d.ID].Status != st {
			t.Fatalf("expected projection %s, got %s", st, repo.dogs[d.ID].Status)
		}
		if len(repo.events[d.ID]) != i+1 {
			t.Fatalf("expected %d events, got %d", i+1, len(repo.events[d.ID]))
		}
	}
}

func TestService_SetStatus_UnknownDog(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil)

	if _, err := svc.SetStatus(context.Background(), "vet-1", "nope", "lost", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Transfer_ForbiddenForNonPrimaryVet(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil)

	d := seedDog(t, svc, "vet-a", "MA0001", "Rex", "Jane Doe")
	oldOwnerID := d.OwnerID
	ownersBefore := len(repo.owners)

	_, err := svc.Transfer(context.Background(), "vet-b", d.ID, TransferInput{
		OldOwnerID: oldOwnerID,
		NewOwner:   OwnerInput{FullName: "New Person"},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// cero writes: ni owner nuevo, ni audit, ni cambio de owner_id
	if len(repo.owners) != ownersBefore {
		t.Fatalf("expected no new owner rows")
	}
	if len(repo.entries) != 0 {
		t.Fatalf("expected no audit entries")
	}
	if repo.dogs[d.ID].OwnerID != oldOwnerID {
		t.Fatalf("expected owner_id unchanged")
	}
}

func TestService_Transfer_CreatesFreshOwnerAndAudit(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil)

	d := seedDog(t, svc, "vet-a", "MA0001", "Rex", "Jane Doe")
	oldOwnerID := d.OwnerID

	updated, err := svc.Transfer(context.Background(), "vet-a", d.ID, TransferInput{
		OldOwnerID: oldOwnerID,
		NewOwner:   OwnerInput{FullName: "New Person", Phone: "555-0100"},
	})
	if err != nil {
		t.Fatalf("Transfer error: %v", err)
	}

	if updated.OwnerID == oldOwnerID {
		t.Fatalf("expected a fresh owner id")
	}
	if _, ok := repo.owners[oldOwnerID]; !ok {
		t.Fatalf("expected previous owner row preserved")
	}

	if len(repo.entries) != 1 {
		t.Fatalf("expected exactly one audit entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.Action != audit.ActionOwnerTransfer || entry.Entity != audit.EntityDogs || entry.EntityID != d.ID {
		t.Fatalf("unexpected audit entry %+v", entry)
	}
	if entry.CreatedByVetID != "vet-a" {
		t.Fatalf("expected entry attributed to caller")
	}

	var oldData, newData map[string]string
	if err := json.Unmarshal(entry.OldData, &oldData); err != nil {
		t.Fatalf("old_data invalid json: %v", err)
	}
	if err := json.Unmarshal(entry.NewData, &newData); err != nil {
		t.Fatalf("new_data invalid json: %v", err)
	}
	if oldData["owner_id"] != oldOwnerID {
		t.Fatalf("expected old_data.owner_id %q, got %q", oldOwnerID, oldData["owner_id"])
	}
	if newData["owner_id"] != updated.OwnerID {
		t.Fatalf("expected new_data.owner_id %q, got %q", updated.OwnerID, newData["owner_id"])
	}
	if newData["full_name"] != "New Person" {
		t.Fatalf("expected new owner data in entry, got %v", newData)
	}
}

func TestService_Transfer_StoreFailureVoidsTransfer(t *testing.T) {
	// Si el repo no puede completar la unidad (p.ej. falla el insert de
	// auditoría), la transferencia no puede reportarse exitosa.
	repo := newTestRepo()
	svc := NewService(repo, nil, nil)

	d := seedDog(t, svc, "vet-a", "MA0001", "Rex", "Jane Doe")
	oldOwnerID := d.OwnerID

	repo.failTransfer = errors.New("audit insert failed")

	_, err := svc.Transfer(context.Background(), "vet-a", d.ID, TransferInput{
		OldOwnerID: oldOwnerID,
		NewOwner:   OwnerInput{FullName: "New Person"},
	})
	if err == nil {
		t.Fatalf("expected error when store unit fails")
	}
	if repo.dogs[d.ID].OwnerID != oldOwnerID {
		t.Fatalf("expected owner_id unchanged after failed unit")
	}
	if len(repo.entries) != 0 {
		t.Fatalf("expected no audit entries after failed unit")
	}
}

func TestService_Transfer_RequiredFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil, nil)

	d := seedDog(t, svc, "vet-a", "MA0001", "Rex", "Jane Doe")

	// sin old_owner_id
	if _, err := svc.Transfer(context.Background(), "vet-a", d.ID, TransferInput{
		NewOwner: OwnerInput{FullName: "New Person"},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without old_owner_id, got %v", err)
	}

	// sin nombre del owner nuevo
	if _, err := svc.Transfer(context.Background(), "vet-a", d.ID, TransferInput{
		OldOwnerID: d.OwnerID,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without new owner name, got %v", err)
	}
}
