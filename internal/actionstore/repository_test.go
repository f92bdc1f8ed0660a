package actionstore

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"nathanbeddoewebdev/usersync/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func tempRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "usersync.db")
	r, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func testAction(id string, createdAt time.Time) domain.Action {
	return domain.Action{
		ID:                id,
		Type:              "track.liked",
		Payload:           json.RawMessage(`{"trackId":"t-` + id + `"}`),
		CreatedAt:         createdAt,
		ShouldSynchronize: true,
	}
}

func TestPut_ListAll(t *testing.T) {
	r := tempRepo(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	want := []domain.Action{
		testAction("a", base),
		testAction("b", base.Add(time.Second)),
	}
	for _, a := range want {
		if err := r.Put(a); err != nil {
			t.Fatalf("Put(%s) failed: %v", a.ID, err)
		}
	}

	got, err := r.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestListAll_SkipsUndecodableRecords(t *testing.T) {
	r := tempRepo(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	good := []domain.Action{testAction("a", base), testAction("c", base.Add(2*time.Second))}
	for _, a := range good {
		if err := r.Put(a); err != nil {
			t.Fatalf("Put(%s) failed: %v", a.ID, err)
		}
	}
	_, err := r.db.Exec(`INSERT INTO queued_actions (action_id, action_type, body, created_at, stored_at)
		VALUES ('b', 'track.liked', '{not json', ?, ?)`,
		base.Add(time.Second).Format(timeLayout), base.Format(timeLayout))
	if err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	got, err := r.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if diff := cmp.Diff(good, got); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestPut_OverwritesSameID(t *testing.T) {
	r := tempRepo(t)

	a := testAction("a", time.Now().UTC())
	if err := r.Put(a); err != nil {
		t.Fatalf("first Put failed: %v", err)
	}
	a.Payload = json.RawMessage(`{"trackId":"changed"}`)
	if err := r.Put(a); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, err := r.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 stored action, got %d", len(got))
	}
	if string(got[0].Payload) != `{"trackId":"changed"}` {
		t.Errorf("expected overwritten payload, got %s", got[0].Payload)
	}
}

func TestPut_RequiresID(t *testing.T) {
	r := tempRepo(t)

	if err := r.Put(domain.Action{Type: "x"}); err == nil {
		t.Fatal("expected error storing action without ID")
	}
}

func TestListAll_OrderedByCreation(t *testing.T) {
	r := tempRepo(t)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	// Sub-second offsets that would sort wrongly with a trimmed layout.
	r.Put(testAction("late", base.Add(120*time.Millisecond)))
	r.Put(testAction("early", base.Add(100*time.Millisecond)))
	r.Put(testAction("earliest", base))

	got, err := r.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if diff := cmp.Diff([]string{"earliest", "early", "late"}, domain.ActionIDs(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteMany(t *testing.T) {
	r := tempRepo(t)

	now := time.Now().UTC()
	for i, id := range []string{"a", "b", "c"} {
		r.Put(testAction(id, now.Add(time.Duration(i)*time.Second)))
	}

	if err := r.DeleteMany([]string{"a", "c", "missing"}); err != nil {
		t.Fatalf("DeleteMany failed: %v", err)
	}

	got, err := r.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if diff := cmp.Diff([]string{"b"}, domain.ActionIDs(got)); diff != "" {
		t.Errorf("remaining mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteMany_Empty(t *testing.T) {
	r := tempRepo(t)

	if err := r.DeleteMany(nil); err != nil {
		t.Fatalf("DeleteMany(nil) failed: %v", err)
	}
}

func TestClearAll(t *testing.T) {
	r := tempRepo(t)

	r.Put(testAction("a", time.Now().UTC()))
	r.Put(testAction("b", time.Now().UTC()))

	if err := r.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	// Clearing an empty log is not an error.
	if err := r.ClearAll(); err != nil {
		t.Fatalf("second ClearAll failed: %v", err)
	}

	got, err := r.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty log, got %d actions", len(got))
	}
}

func TestListRecords_StoredAtSet(t *testing.T) {
	r := tempRepo(t)

	r.Put(testAction("a", time.Now().UTC()))

	records, err := r.ListRecords()
	if err != nil {
		t.Fatalf("ListRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].StoredAt.IsZero() {
		t.Error("expected StoredAt to be set")
	}
	if records[0].ActionType != "track.liked" {
		t.Errorf("expected ActionType %q, got %q", "track.liked", records[0].ActionType)
	}
}

func TestSQLiteRepository_Persistence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "usersync.db")

	// Write with one repository instance.
	r1, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	if err := r1.Put(testAction("a", time.Now().UTC())); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	r1.Close()

	// Read with a new repository instance.
	r2, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	defer r2.Close()

	got, err := r2.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected action 'a' to be persisted, got %+v", got)
	}
}
