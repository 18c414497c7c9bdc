package selection

import (
	"slices"
	"testing"

	"github.com/modsmith/modsmith/pkg/mod"
)

type fakePage struct {
	cleared []string
}

func (p *fakePage) ClearSelection(name string) {
	p.cleared = append(p.cleared, name)
}

func pack(id, name string) mod.Pack {
	return mod.Pack{ID: id, Slug: id, Name: name, Kind: mod.KindMod, Provider: "modrinth"}
}

func TestAddInsertsTask(t *testing.T) {
	r := NewRegistry(nil)
	ver := &mod.Version{ID: "v1", FileName: "sodium.jar"}

	r.Add(pack("p1", "Sodium"), ver, false)

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
	if !ver.Selected {
		t.Error("Add should mark the version selected")
	}
	task, ok := r.Get("Sodium")
	if !ok {
		t.Fatal("task not found under pack name")
	}
	if task.Indexed {
		t.Error("directly added task should not be indexed")
	}
}

func TestAddReplacesExistingEntry(t *testing.T) {
	r := NewRegistry(nil)
	old := &mod.Version{ID: "v1"}
	newer := &mod.Version{ID: "v2"}

	r.Add(pack("p1", "Sodium"), old, false)
	r.Add(pack("p1", "Sodium"), newer, true)

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (one entry per pack name)", r.Len())
	}
	if old.Selected {
		t.Error("replaced version should lose its selected flag")
	}
	if !newer.Selected {
		t.Error("new version should be selected")
	}
	task, _ := r.Get("Sodium")
	if task.Version.ID != "v2" {
		t.Errorf("registry holds version %q, want v2", task.Version.ID)
	}
	if !task.Indexed {
		t.Error("replacement should carry the new indexed flag")
	}
}

func TestRemoveClearsAllPages(t *testing.T) {
	r := NewRegistry(nil)
	page1 := &fakePage{}
	page2 := &fakePage{}
	r.RegisterPage(page1)
	r.RegisterPage(page2)

	ver := &mod.Version{ID: "v1"}
	r.Add(pack("p1", "Sodium"), ver, false)
	r.Remove(pack("p1", "Sodium"), ver)

	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
	if ver.Selected {
		t.Error("Remove should clear the selected flag")
	}
	for i, p := range []*fakePage{page1, page2} {
		if !slices.Contains(p.cleared, "Sodium") {
			t.Errorf("page %d was not told to clear the selection marker", i+1)
		}
	}
}

func TestRemoveAbsentKeyIsNoop(t *testing.T) {
	r := NewRegistry(nil)
	page := &fakePage{}
	r.RegisterPage(page)

	keep := &mod.Version{ID: "v1"}
	r.Add(pack("p1", "Sodium"), keep, false)

	ghost := &mod.Version{ID: "v9"}
	r.Remove(pack("p9", "Lithium"), ghost)

	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if len(page.cleared) != 0 {
		t.Errorf("no page should be notified for an absent key, got %v", page.cleared)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	ver := &mod.Version{ID: "v1"}
	p := pack("p1", "Sodium")

	r.Add(p, ver, false)
	r.Remove(p, ver)
	r.Remove(p, ver)

	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after double remove", r.Len())
	}
}

func TestTasksPreserveInsertionOrder(t *testing.T) {
	r := NewRegistry(nil)
	r.Add(pack("p1", "Sodium"), &mod.Version{ID: "v1"}, false)
	r.Add(pack("p2", "Lithium"), &mod.Version{ID: "v2"}, false)
	r.Add(pack("p3", "Iris"), &mod.Version{ID: "v3"}, false)

	var names []string
	for _, task := range r.Tasks() {
		names = append(names, task.Pack.Name)
	}
	want := []string{"Sodium", "Lithium", "Iris"}
	if !slices.Equal(names, want) {
		t.Errorf("Tasks() order = %v, want %v", names, want)
	}
}

func TestSortedTasksCaseInsensitive(t *testing.T) {
	r := NewRegistry(nil)
	r.Add(pack("p1", "sodium"), &mod.Version{ID: "v1"}, false)
	r.Add(pack("p2", "Iris"), &mod.Version{ID: "v2"}, false)
	r.Add(pack("p3", "LambDynamicLights"), &mod.Version{ID: "v3"}, false)

	var names []string
	for _, task := range r.SortedTasks() {
		names = append(names, task.Pack.Name)
	}
	want := []string{"Iris", "LambDynamicLights", "sodium"}
	if !slices.Equal(names, want) {
		t.Errorf("SortedTasks() order = %v, want %v", names, want)
	}
}

func TestRequiredBy(t *testing.T) {
	r := NewRegistry(nil)
	r.Add(pack("p1", "Sodium"), &mod.Version{ID: "v1"}, false)
	r.Add(pack("p2", "Iris"), &mod.Version{ID: "v2"}, false)

	names := r.RequiredBy([]string{"p1"})
	if !slices.Equal(names, []string{"Sodium"}) {
		t.Errorf("RequiredBy([p1]) = %v, want [Sodium]", names)
	}

	names = r.RequiredBy([]string{"p2", "p1", "missing"})
	if !slices.Equal(names, []string{"Iris", "Sodium"}) {
		t.Errorf("RequiredBy = %v, want [Iris Sodium]", names)
	}
}

func TestSatisfies(t *testing.T) {
	r := NewRegistry(nil)
	r.Add(pack("p1", "Sodium"), &mod.Version{ID: "v1"}, false)

	if !r.Satisfies("p1") {
		t.Error("Satisfies(p1) should be true")
	}
	if r.Satisfies("p2") {
		t.Error("Satisfies(p2) should be false")
	}
}
