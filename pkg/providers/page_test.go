package providers

import (
	"context"
	"testing"

	"github.com/modsmith/modsmith/pkg/mod"
)

func TestPageSearch(t *testing.T) {
	backend := &fakeMetadata{}
	page := NewPage(Modrinth, mod.KindMod, backend)

	if !page.SetSearchTerm("sodium") {
		t.Error("SetSearchTerm() should report a change")
	}
	if page.SetSearchTerm("sodium") {
		t.Error("SetSearchTerm() with the same term should report no change")
	}

	if err := page.Search(context.Background()); err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(page.Packs()) != 1 {
		t.Fatalf("got %d packs, want 1", len(page.Packs()))
	}
	if page.Packs()[0].Name != "sodium" {
		t.Errorf("Packs()[0].Name = %q, want the search term echoed by the fake", page.Packs()[0].Name)
	}
}

func TestPageSelectionMarkers(t *testing.T) {
	page := NewPage(Modrinth, mod.KindMod, &fakeMetadata{})

	page.MarkSelected("Sodium")
	if !page.IsSelected("Sodium") {
		t.Error("marked pack should be selected")
	}

	page.ClearSelection("Sodium")
	if page.IsSelected("Sodium") {
		t.Error("cleared pack should not be selected")
	}

	// Clearing an unmarked name must not panic or error.
	page.ClearSelection("Absent")
}

func TestPageIdentity(t *testing.T) {
	page := NewPage(Flame, mod.KindResourcePack, &fakeMetadata{})
	if page.Provider() != Flame {
		t.Errorf("Provider() = %q, want flame", page.Provider())
	}
	if page.Kind() != mod.KindResourcePack {
		t.Errorf("Kind() = %q, want resourcepack", page.Kind())
	}
}
