package providers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/modsmith/modsmith/pkg/cache"
	"github.com/modsmith/modsmith/pkg/httputil"
	"github.com/modsmith/modsmith/pkg/mod"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	info, err := table.Get(Modrinth)
	if err != nil {
		t.Fatalf("Get(Modrinth) error: %v", err)
	}
	if info.DisplayName != "Modrinth" {
		t.Errorf("DisplayName = %q, want %q", info.DisplayName, "Modrinth")
	}

	if !table.Supports(Modrinth, mod.KindShaderPack) {
		t.Error("Modrinth should support shader packs")
	}
	if table.Supports(Flame, mod.KindShaderPack) {
		t.Error("Flame should not support shader packs")
	}
}

func TestTableGetUnknown(t *testing.T) {
	table := DefaultTable()
	if _, err := table.Get("unknown"); err == nil {
		t.Error("Get() should fail for an unknown provider")
	}
}

func TestTableDisplayNameFallback(t *testing.T) {
	table := DefaultTable()
	if got := table.DisplayName("mystery"); got != "mystery" {
		t.Errorf("DisplayName(unknown) = %q, want raw id", got)
	}
}

func TestTableIDsOrder(t *testing.T) {
	table := NewTable(
		Info{ID: Flame, DisplayName: "CurseForge"},
		Info{ID: Modrinth, DisplayName: "Modrinth"},
		Info{ID: Flame, DisplayName: "duplicate"}, // ignored
	)
	ids := table.IDs()
	if len(ids) != 2 || ids[0] != Flame || ids[1] != Modrinth {
		t.Errorf("IDs() = %v, want [flame modrinth]", ids)
	}
}

func TestCheckStatus(t *testing.T) {
	if err := checkStatus(http.StatusOK); err != nil {
		t.Errorf("checkStatus(200) = %v, want nil", err)
	}
	if err := checkStatus(http.StatusNotFound); !errors.Is(err, ErrNotFound) {
		t.Errorf("checkStatus(404) = %v, want ErrNotFound", err)
	}

	err := checkStatus(http.StatusBadGateway)
	var retryable *httputil.RetryableError
	if !errors.As(err, &retryable) {
		t.Errorf("checkStatus(502) = %v, want retryable", err)
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("checkStatus(502) should wrap ErrNetwork")
	}

	if err := checkStatus(http.StatusForbidden); errors.Is(err, ErrNotFound) {
		t.Error("checkStatus(403) should not map to ErrNotFound")
	}
}

// fakeMetadata counts backend calls so memoization can be asserted.
type fakeMetadata struct {
	projectCalls  int
	versionsCalls int
	searchCalls   int
}

func (f *fakeMetadata) Project(ctx context.Context, projectID string) (mod.Pack, error) {
	f.projectCalls++
	return mod.Pack{ID: projectID, Name: "Fake", Provider: Modrinth}, nil
}

func (f *fakeMetadata) Versions(ctx context.Context, projectID, gameVersion, loader string) ([]mod.Version, error) {
	f.versionsCalls++
	return []mod.Version{{ID: "v1", GameVersions: []string{gameVersion}, Loaders: []string{loader}}}, nil
}

func (f *fakeMetadata) Search(ctx context.Context, kind mod.Kind, query string) ([]mod.Pack, error) {
	f.searchCalls++
	return []mod.Pack{{ID: "p1", Name: query}}, nil
}

func TestMuxDispatch(t *testing.T) {
	backend := &fakeMetadata{}
	mux := NewMux(map[mod.Provider]Metadata{Modrinth: backend})

	ctx := context.Background()
	pack, err := mux.Project(ctx, Modrinth, "p1")
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	if pack.ID != "p1" {
		t.Errorf("Project().ID = %q, want %q", pack.ID, "p1")
	}

	if _, err := mux.Project(ctx, Flame, "p1"); err == nil {
		t.Error("Project() should fail for a provider without a backend")
	}
}

func TestMuxMemoizesProjects(t *testing.T) {
	backend := &fakeMetadata{}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	defer fc.Close()

	mux := NewMux(
		map[mod.Provider]Metadata{Modrinth: backend},
		WithCache(fc, cache.NewDefaultKeyer(), time.Hour),
	)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := mux.Project(ctx, Modrinth, "p1"); err != nil {
			t.Fatalf("Project() error: %v", err)
		}
	}
	if backend.projectCalls != 1 {
		t.Errorf("backend called %d times, want 1", backend.projectCalls)
	}
}

func TestMuxMemoizesVersionsPerFilter(t *testing.T) {
	backend := &fakeMetadata{}
	fc, _ := cache.NewFileCache(t.TempDir())
	defer fc.Close()

	mux := NewMux(
		map[mod.Provider]Metadata{Modrinth: backend},
		WithCache(fc, cache.NewDefaultKeyer(), time.Hour),
	)

	ctx := context.Background()
	_, _ = mux.Versions(ctx, Modrinth, "p1", "1.20.1", "fabric")
	_, _ = mux.Versions(ctx, Modrinth, "p1", "1.20.1", "fabric")
	_, _ = mux.Versions(ctx, Modrinth, "p1", "1.20.1", "forge")

	if backend.versionsCalls != 2 {
		t.Errorf("backend called %d times, want 2 (one per distinct filter)", backend.versionsCalls)
	}
}

func TestMuxSearchNotMemoized(t *testing.T) {
	backend := &fakeMetadata{}
	fc, _ := cache.NewFileCache(t.TempDir())
	defer fc.Close()

	mux := NewMux(
		map[mod.Provider]Metadata{Modrinth: backend},
		WithCache(fc, cache.NewDefaultKeyer(), time.Hour),
	)

	ctx := context.Background()
	_, _ = mux.Search(ctx, Modrinth, mod.KindMod, "sodium")
	_, _ = mux.Search(ctx, Modrinth, mod.KindMod, "sodium")

	if backend.searchCalls != 2 {
		t.Errorf("backend called %d times, want 2", backend.searchCalls)
	}
}
