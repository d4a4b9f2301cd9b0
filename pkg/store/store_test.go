package store

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/netremedy/hierconf/pkg/hier"
)

func TestEditCommitRollback(t *testing.T) {
	s := New("", nil)

	s.EnterEdit()
	if !s.InEditMode() {
		t.Fatal("expected edit mode")
	}
	if err := s.LoadCandidateText("hostname rtr1\n"); err != nil {
		t.Fatalf("load candidate: %v", err)
	}
	if !s.IsDirty() {
		t.Error("candidate should be dirty after load")
	}
	if err := s.Commit("initial"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if s.IsDirty() {
		t.Error("commit should clear dirty")
	}
	if !strings.Contains(s.ShowActive(), "hostname rtr1") {
		t.Errorf("active = %q", s.ShowActive())
	}

	if err := s.LoadCandidateText("hostname rtr2\n"); err != nil {
		t.Fatalf("load candidate: %v", err)
	}
	if err := s.Commit("rename"); err != nil {
		t.Fatalf("commit: %v", err)
	}

	// Roll the candidate back to the previous commit.
	if err := s.Rollback(1); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	if !strings.Contains(s.ShowCandidate(), "hostname rtr1") {
		t.Errorf("candidate after rollback = %q", s.ShowCandidate())
	}
	// Active stays on the latest commit until the rollback is committed.
	if !strings.Contains(s.ShowActive(), "hostname rtr2") {
		t.Errorf("active after rollback = %q", s.ShowActive())
	}

	if err := s.Rollback(5); err == nil {
		t.Error("expected error rolling back past history")
	}
}

func TestRollbackZeroRevertsToActive(t *testing.T) {
	s := New("", nil)
	s.EnterEdit()
	if err := s.LoadCandidateText("hostname rtr1\n"); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(""); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadCandidateText("hostname scratch\n"); err != nil {
		t.Fatal(err)
	}
	if err := s.Rollback(0); err != nil {
		t.Fatalf("rollback 0: %v", err)
	}
	if s.IsDirty() {
		t.Error("rollback 0 should clear dirty")
	}
	if !strings.Contains(s.ShowCandidate(), "hostname rtr1") {
		t.Errorf("candidate = %q", s.ShowCandidate())
	}
}

func TestEditModeRequired(t *testing.T) {
	s := New("", nil)
	if err := s.LoadCandidateText("x\n"); err == nil {
		t.Error("LoadCandidateText outside edit mode must fail")
	}
	if err := s.Commit(""); err == nil {
		t.Error("Commit outside edit mode must fail")
	}
	if err := s.Rollback(0); err == nil {
		t.Error("Rollback outside edit mode must fail")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "active.json")

	s := New(path, nil)
	s.EnterEdit()
	text := "interface eth0\n shutdown\nhostname rtr1\n"
	if err := s.LoadCandidateText(text); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit("persisted by commit"); err != nil {
		t.Fatalf("commit: %v", err)
	}

	restored := New(path, nil)
	if err := restored.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !restored.Active().Equal(s.Active()) {
		t.Errorf("restored active differs:\n%s\nvs\n%s", restored.ShowActive(), s.ShowActive())
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.json"), nil)
	if err := s.Load(); err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
}

func TestMergeCandidateText(t *testing.T) {
	s := New("", nil)
	s.EnterEdit()
	if err := s.LoadCandidateText("interface eth0\n mtu 9000\n"); err != nil {
		t.Fatal(err)
	}
	if err := s.MergeCandidateText("interface eth0\n shutdown\ninterface eth1\n"); err != nil {
		t.Fatalf("merge: %v", err)
	}
	text := s.ShowCandidate()
	for _, want := range []string{"mtu 9000", "shutdown", "interface eth1"} {
		if !strings.Contains(text, want) {
			t.Errorf("candidate missing %q:\n%s", want, text)
		}
	}
	if strings.Count(text, "interface eth0") != 1 {
		t.Errorf("merge duplicated section:\n%s", text)
	}
}

func TestTransformCandidate(t *testing.T) {
	opts := &hier.Options{
		SectionalExiting: []hier.ExitRule{
			{
				Lineage:  hier.LineageRule{hier.MustMatchSpec(hier.MatchStartsWith, false, "router bgp")},
				ExitText: "exit",
			},
		},
	}
	s := New("", opts)
	s.EnterEdit()
	if err := s.LoadCandidateText("router bgp 65000\n neighbor 10.0.0.1\n"); err != nil {
		t.Fatal(err)
	}
	tagRules := []hier.TagRule{
		{
			Lineage: hier.LineageRule{hier.MustMatchSpec(hier.MatchStartsWith, false, "router bgp")},
			AddTags: []string{"routing"},
		},
	}
	if err := s.TransformCandidate(tagRules, false); err != nil {
		t.Fatalf("transform: %v", err)
	}
	if !strings.Contains(s.ShowCandidate(), "exit") {
		t.Errorf("candidate missing exit line:\n%s", s.ShowCandidate())
	}
}

func TestHistoryEviction(t *testing.T) {
	h := NewHistory(2)
	for i := 0; i < 3; i++ {
		h.Push(&HistoryEntry{Tree: hier.New(nil), Comment: string(rune('a' + i))})
	}
	if h.Len() != 2 {
		t.Fatalf("len = %d, want 2", h.Len())
	}
	latest, err := h.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if latest.Comment != "c" {
		t.Errorf("most recent = %q, want c", latest.Comment)
	}
	list := h.List()
	if list[0].Comment != "c" || list[1].Comment != "b" {
		t.Errorf("list order = %q, %q", list[0].Comment, list[1].Comment)
	}
}
