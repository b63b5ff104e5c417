package summary_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Suraj182004/saaraansh/internal/summary"
	"github.com/google/uuid"
)

// storeFactory returns an empty store in which the given owners exist.
type storeFactory func(t *testing.T, owners ...string) summary.Store

var storeContract = []struct {
	name string
	run  func(t *testing.T, newStore storeFactory)
}{
	{"GetByIDIsOwnerScoped", testGetByIDIsOwnerScoped},
	{"ListByOwnerCreationOrder", testListByOwnerCreationOrder},
	{"CreateKeepsFileName", testCreateKeepsFileName},
}

func TestMemoryStore(t *testing.T) {
	for _, tc := range storeContract {
		t.Run(tc.name, func(t *testing.T) {
			tc.run(t, func(*testing.T, ...string) summary.Store { return summary.NewMemoryStore() })
		})
	}
}

func testGetByIDIsOwnerScoped(t *testing.T, newStore storeFactory) {
	ctx := context.Background()
	store := newStore(t, "owner")

	id, err := store.Create(ctx, summary.NewSummary{
		OwnerID:     "owner",
		SourceRef:   "https://files.example.com/a.pdf",
		Text:        "summary body",
		DisplayName: "a",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.GetByID(ctx, id, "owner")
	if err != nil {
		t.Fatalf("GetByID(owner) error = %v", err)
	}
	if got.Text != "summary body" || got.SourceRef != "https://files.example.com/a.pdf" {
		t.Errorf("GetByID(owner) = %+v", got)
	}

	_, errOther := store.GetByID(ctx, id, "intruder")
	_, errMissing := store.GetByID(ctx, uuid.New(), "intruder")
	if !errors.Is(errOther, summary.ErrNotFound) || !errors.Is(errMissing, summary.ErrNotFound) {
		t.Fatalf("non-owner err = %v, missing err = %v; both want ErrNotFound", errOther, errMissing)
	}
	if errOther.Error() != errMissing.Error() {
		t.Errorf("non-owner and missing errors differ: %q vs %q", errOther, errMissing)
	}
}

func testListByOwnerCreationOrder(t *testing.T, newStore storeFactory) {
	ctx := context.Background()
	store := newStore(t, "owner", "someone-else")

	names := []string{"first", "second", "third"}
	for _, name := range names {
		if _, err := store.Create(ctx, summary.NewSummary{OwnerID: "owner", DisplayName: name, Text: name}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if _, err := store.Create(ctx, summary.NewSummary{OwnerID: "someone-else", DisplayName: "x", Text: "x"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.ListByOwner(ctx, "owner")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(got) != len(names) {
		t.Fatalf("ListByOwner() returned %d summaries, want %d", len(got), len(names))
	}
	for i, s := range got {
		if s.DisplayName != names[i] {
			t.Errorf("position %d = %s, want %s", i, s.DisplayName, names[i])
		}
	}

	empty, err := store.ListByOwner(ctx, "nobody")
	if err != nil || len(empty) != 0 {
		t.Errorf("ListByOwner(nobody) = %v, %v; want empty", empty, err)
	}
}

func testCreateKeepsFileName(t *testing.T, newStore storeFactory) {
	ctx := context.Background()
	store := newStore(t, "owner")

	id, err := store.Create(ctx, summary.NewSummary{
		OwnerID:     "owner",
		SourceRef:   "gs://bucket/report.pdf",
		Text:        "body",
		DisplayName: "report",
		FileName:    "report.pdf",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	got, err := store.GetByID(ctx, id, "owner")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.ID != id || got.FileName != "report.pdf" || got.OwnerID != "owner" {
		t.Errorf("GetByID() = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Errorf("CreatedAt not set")
	}
}
