package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/modsmith/modsmith/pkg/mod"
	"github.com/modsmith/modsmith/pkg/review"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestPackListModelSelect(t *testing.T) {
	packs := []mod.Pack{
		{ID: "a", Name: "Alpha"},
		{ID: "b", Name: "Beta"},
		{ID: "c", Name: "Gamma"},
	}
	m := NewPackListModel("Results", packs)

	next, _ := m.Update(keyMsg("j"))
	next, _ = next.(PackListModel).Update(keyMsg("j"))
	next, _ = next.(PackListModel).Update(keyMsg("enter"))

	final := next.(PackListModel)
	if final.Selected == nil {
		t.Fatal("enter should select the pack under the cursor")
	}
	if final.Selected.ID != "c" {
		t.Errorf("selected %q, want %q", final.Selected.ID, "c")
	}
}

func TestPackListModelQuitWithoutSelection(t *testing.T) {
	m := NewPackListModel("Results", []mod.Pack{{ID: "a", Name: "Alpha"}})

	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
	if next.(PackListModel).Selected != nil {
		t.Error("quitting should leave nothing selected")
	}
}

func TestPackListModelCursorBounds(t *testing.T) {
	m := NewPackListModel("Results", []mod.Pack{{ID: "a"}, {ID: "b"}})

	next, _ := m.Update(keyMsg("k"))
	if next.(PackListModel).Cursor != 0 {
		t.Error("cursor should not move above the first row")
	}
	next, _ = next.(PackListModel).Update(keyMsg("j"))
	next, _ = next.(PackListModel).Update(keyMsg("j"))
	if next.(PackListModel).Cursor != 1 {
		t.Error("cursor should not move past the last row")
	}
}

func TestProgressModelSkipOnce(t *testing.T) {
	calls := 0
	m := NewProgressModel("Checking...", func() { calls++ })

	next, _ := m.Update(keyMsg("s"))
	next, _ = next.(ProgressModel).Update(keyMsg("s"))

	if calls != 1 {
		t.Errorf("skip callback called %d times, want 1", calls)
	}
	if !next.(ProgressModel).Skipping {
		t.Error("model should be in skipping state")
	}
	if !strings.Contains(next.(ProgressModel).View(), "Skipping") {
		t.Error("view should show the skipping state")
	}
}

func TestProgressModelDone(t *testing.T) {
	m := NewProgressModel("Checking...", nil)

	_, cmd := m.Update(progressDoneMsg{})
	if cmd == nil {
		t.Fatal("done message should quit the program")
	}
}

func TestReviewModelDecision(t *testing.T) {
	taskA := &mod.DownloadTask{ID: "a"}
	taskB := &mod.DownloadTask{ID: "b"}
	rows := []review.Row{
		{Task: taskA, Name: "Alpha", FileName: "alpha.jar"},
		{Task: taskB, Name: "Beta", FileName: "beta.jar"},
	}
	m := NewReviewModel(rows)

	// Toggle the second row off, then approve.
	next, _ := m.Update(keyMsg("j"))
	next, _ = next.(ReviewModel).Update(keyMsg(" "))
	next, _ = next.(ReviewModel).Update(keyMsg("enter"))

	d := next.(ReviewModel).Decision()
	if !d.Approved {
		t.Fatal("enter should approve")
	}
	if len(d.Deselected) != 1 || d.Deselected[0] != taskB {
		t.Errorf("deselected = %v, want exactly taskB", d.Deselected)
	}
}

func TestReviewModelDecline(t *testing.T) {
	rows := []review.Row{{Task: &mod.DownloadTask{ID: "a"}, Name: "Alpha"}}
	m := NewReviewModel(rows)

	next, _ := m.Update(keyMsg(" "))
	next, _ = next.(ReviewModel).Update(keyMsg("q"))

	d := next.(ReviewModel).Decision()
	if d.Approved {
		t.Error("q should decline")
	}
	if len(d.Deselected) != 0 {
		t.Error("a declined review carries no deselection")
	}
}

func TestReviewModelViewShowsBacklinks(t *testing.T) {
	rows := []review.Row{
		{Task: &mod.DownloadTask{ID: "a"}, Name: "Fabric API", FileName: "fabric-api.jar", RequiredBy: []string{"Sodium", "Lithium"}},
	}
	m := NewReviewModel(rows)

	view := m.View()
	if !strings.Contains(view, "required by Sodium, Lithium") {
		t.Errorf("view should list the packs that require the row:\n%s", view)
	}
}
