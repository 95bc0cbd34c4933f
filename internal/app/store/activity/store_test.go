package activity_test

import (
	"testing"
	"time"

	activitystore "github.com/dalemusser/clinichub/internal/app/store/activity"
	"github.com/dalemusser/clinichub/internal/domain/models"
	"github.com/dalemusser/clinichub/internal/testutil"
)

func TestStore_Append(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Append(ctx, models.ActivityEntry{
		CaseID:    "CASE-001",
		Action:    models.ActionCaseCreated,
		Note:      "Case CASE-001 created",
		CreatedBy: "uid-1",
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("ID not assigned")
	}
	if created.Timestamp.IsZero() {
		t.Error("Timestamp not defaulted")
	}
	if created.CreatedByEmail != "unknown" {
		t.Errorf("blank email should default to unknown, got %q", created.CreatedByEmail)
	}
}

func TestStore_Query(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	entries := []models.ActivityEntry{
		{CaseID: "CASE-001", Action: models.ActionCaseCreated, CreatedBy: "uid-1", Timestamp: base},
		{CaseID: "CASE-001", Action: models.ActionMeeting, CreatedBy: "uid-2", Timestamp: base.Add(time.Hour)},
		{CaseID: "CASE-002", Action: models.ActionCaseCreated, CreatedBy: "uid-1", Timestamp: base.Add(2 * time.Hour)},
	}
	for _, e := range entries {
		if _, err := store.Append(ctx, e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	t.Run("by case", func(t *testing.T) {
		got, err := store.Query(ctx, activitystore.QueryFilter{CaseID: "CASE-001"})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d entries, want 2", len(got))
		}
		// Newest first.
		if got[0].Action != models.ActionMeeting {
			t.Errorf("order: got %q first", got[0].Action)
		}
	})

	t.Run("by action", func(t *testing.T) {
		got, err := store.Query(ctx, activitystore.QueryFilter{Action: models.ActionCaseCreated})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d entries, want 2", len(got))
		}
	})

	t.Run("by creator", func(t *testing.T) {
		got, err := store.Query(ctx, activitystore.QueryFilter{CreatedBy: "uid-2"})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("got %d entries, want 1", len(got))
		}
	})

	t.Run("time window", func(t *testing.T) {
		start := base.Add(30 * time.Minute)
		end := base.Add(90 * time.Minute)
		got, err := store.Query(ctx, activitystore.QueryFilter{StartTime: &start, EndTime: &end})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(got) != 1 || got[0].Action != models.ActionMeeting {
			t.Errorf("window contents: %+v", got)
		}
	})

	t.Run("limit and offset", func(t *testing.T) {
		got, err := store.Query(ctx, activitystore.QueryFilter{Limit: 2})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("limit: got %d entries", len(got))
		}

		got, err = store.Query(ctx, activitystore.QueryFilter{Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(got) != 1 {
			t.Errorf("offset: got %d entries", len(got))
		}
	})
}

func TestStore_GetByCaseAndRecent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateActivityEntry(ctx, models.ActionCaseCreated, "CASE-001", "uid-1")
	fx.CreateActivityEntry(ctx, models.ActionMeeting, "CASE-002", "uid-1")

	byCase, err := store.GetByCase(ctx, "CASE-001", 10)
	if err != nil {
		t.Fatalf("GetByCase failed: %v", err)
	}
	if len(byCase) != 1 {
		t.Errorf("got %d entries, want 1", len(byCase))
	}

	recent, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("got %d entries, want 2", len(recent))
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Append(ctx, models.ActivityEntry{
		Action:    models.ActionCaseDeleted,
		CreatedBy: "uid-1",
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	n, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}
}

func TestStore_EnsureIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := activitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	// Idempotent on a second run.
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("second EnsureIndexes failed: %v", err)
	}
}
