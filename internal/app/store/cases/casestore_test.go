package cases_test

import (
	"errors"
	"testing"
	"time"

	casestore "github.com/dalemusser/clinichub/internal/app/store/cases"
	"github.com/dalemusser/clinichub/internal/domain/models"
	"github.com/dalemusser/clinichub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := casestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Case{
		CaseID:    "CASE-001",
		CreatedBy: "uid-1",
		Notes:     "first visit",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Status != models.CaseStatusNew {
		t.Errorf("default status: got %q, want new", created.Status)
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	// The creator is always part of the assigned set.
	if len(created.AssignedAdmins) != 1 || created.AssignedAdmins[0] != "uid-1" {
		t.Errorf("assigned admins: %v", created.AssignedAdmins)
	}

	got, err := store.GetByID(ctx, "CASE-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Notes != "first visit" {
		t.Errorf("notes: got %q", got.Notes)
	}
}

func TestStore_Create_DuplicateID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := casestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Case{CaseID: "CASE-001", CreatedBy: "uid-1"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Case{CaseID: "CASE-001", CreatedBy: "uid-2"})
	if !errors.Is(err, casestore.ErrDuplicateCaseID) {
		t.Errorf("error: got %v, want ErrDuplicateCaseID", err)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := casestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.Case{CaseID: "CASE-002"}); err == nil {
		t.Error("expected error for missing creator")
	}
	if _, err := store.Create(ctx, models.Case{CaseID: "CASE-003", CreatedBy: "uid-1", Status: "bogus"}); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := casestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, "CASE-404")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("error: got %v, want mongo.ErrNoDocuments", err)
	}
}

func TestStore_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := casestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateCase(ctx, "CASE-001", "uid-1")

	if err := store.UpdateStatus(ctx, "CASE-001", models.CaseStatusActive); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	got, err := store.GetByID(ctx, "CASE-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.CaseStatusActive {
		t.Errorf("status: got %q, want active", got.Status)
	}

	if err := store.UpdateStatus(ctx, "CASE-001", "bogus"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestStore_UpdateNotesAndAdmins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := casestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateCase(ctx, "CASE-001", "uid-1")

	if err := store.UpdateNotes(ctx, "CASE-001", "rescheduled twice"); err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}
	if err := store.UpdateAssignedAdmins(ctx, "CASE-001", []string{"uid-2", "uid-3"}); err != nil {
		t.Fatalf("UpdateAssignedAdmins failed: %v", err)
	}

	got, err := store.GetByID(ctx, "CASE-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Notes != "rescheduled twice" {
		t.Errorf("notes: got %q", got.Notes)
	}
	if len(got.AssignedAdmins) != 2 || got.AssignedAdmins[0] != "uid-2" {
		t.Errorf("assigned admins: %v", got.AssignedAdmins)
	}
}

func TestStore_List_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := casestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, id := range []string{"CASE-001", "CASE-002", "CASE-003"} {
		if _, err := store.Create(ctx, models.Case{CaseID: id, CreatedBy: "uid-1"}); err != nil {
			t.Fatalf("Create %s failed: %v", id, err)
		}
		time.Sleep(5 * time.Millisecond) // keep created_at ordering unambiguous
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d cases, want 3", len(got))
	}
	if got[0].CaseID != "CASE-003" {
		t.Errorf("newest case first: got %q", got[0].CaseID)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := casestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateCase(ctx, "CASE-001", "uid-1")

	n, err := store.Delete(ctx, "CASE-001")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d documents, want 1", n)
	}
	if _, err := store.GetByID(ctx, "CASE-001"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Error("case still present after delete")
	}
}
