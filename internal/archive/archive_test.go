package archive

import (
	"testing"

	"github.com/openclaw/clawchat/pkg/models"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open("")
	if err != nil {
		t.Fatalf("failed to open in-memory archive: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestRecordAndTranscript(t *testing.T) {
	a := openTestArchive(t)

	msgs := []models.Message{
		{Role: models.RoleUser, Content: "Hello", CreatedAt: "2025-06-01T12:00:00Z"},
		{Role: models.RoleAssistant, Content: "Hi there!", CreatedAt: "2025-06-01T12:00:02Z"},
	}
	if err := a.Record("abc123", "Hello", msgs); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	got, err := a.Transcript("abc123")
	if err != nil {
		t.Fatalf("transcript failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Content != "Hello" || got[1].Content != "Hi there!" {
		t.Error("messages out of order or mangled")
	}
	if got[1].Role != models.RoleAssistant {
		t.Error("role not preserved")
	}
}

func TestRecordReplacesWholesale(t *testing.T) {
	a := openTestArchive(t)

	a.Record("s1", "chat", []models.Message{
		{Role: models.RoleUser, Content: "old"},
	})
	a.Record("s1", "chat", []models.Message{
		{Role: models.RoleUser, Content: "old"},
		{Role: models.RoleAssistant, Content: "new reply"},
	})

	got, err := a.Transcript("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected replacement, got %d messages", len(got))
	}
}

func TestForget(t *testing.T) {
	a := openTestArchive(t)

	a.Record("s1", "chat", []models.Message{{Role: models.RoleUser, Content: "x"}})
	if err := a.Forget("s1"); err != nil {
		t.Fatalf("forget failed: %v", err)
	}

	got, err := a.Transcript("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Error("forgotten session should have no transcript")
	}
}

func TestSessionsListsNewestFirst(t *testing.T) {
	a := openTestArchive(t)

	a.Record("older", "First chat", []models.Message{{Role: models.RoleUser, Content: "a"}})
	a.Record("newer", "Second chat", []models.Message{{Role: models.RoleUser, Content: "b"}})

	sessions, err := a.Sessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].SessionID != "newer" {
		t.Errorf("expected newest first, got %s", sessions[0].SessionID)
	}
	if sessions[0].Title != "Second chat" {
		t.Errorf("title not preserved: %s", sessions[0].Title)
	}
}

func TestSearch(t *testing.T) {
	a := openTestArchive(t)

	a.Record("s1", "deploy chat", []models.Message{
		{Role: models.RoleUser, Content: "How do I deploy the gateway?"},
		{Role: models.RoleAssistant, Content: "Run the installer."},
	})
	a.Record("s2", "other", []models.Message{
		{Role: models.RoleUser, Content: "Unrelated question"},
	})

	hits, err := a.Search("DEPLOY")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].SessionID != "s1" {
		t.Errorf("hit in wrong session: %s", hits[0].SessionID)
	}
	if hits[0].Role != models.RoleUser {
		t.Error("hit role not preserved")
	}

	none, err := a.Search("nonexistent phrase")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Error("expected no hits")
	}
}
