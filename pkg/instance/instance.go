// Package instance models the game instance downloads are installed into:
// its folder layout per resource kind and the persistent index of what was
// installed.
package instance

import (
	"os"
	"path/filepath"

	"github.com/modsmith/modsmith/pkg/errors"
	"github.com/modsmith/modsmith/pkg/mod"
)

// Instance is one game installation.
type Instance struct {
	Dir         string // instance root directory
	GameVersion string // e.g. "1.20.1"
	Loader      string // e.g. "fabric"; empty for vanilla
}

// New validates and creates an instance handle. The directory must exist.
func New(dir, gameVersion, loader string) (*Instance, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInstance, err, "instance directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidInstance, "%s is not a directory", dir)
	}
	return &Instance{Dir: dir, GameVersion: gameVersion, Loader: loader}, nil
}

// subdirs maps resource kinds to their folder under the instance root.
var subdirs = map[mod.Kind]string{
	mod.KindMod:          "mods",
	mod.KindResourcePack: "resourcepacks",
	mod.KindTexturePack:  "texturepacks",
	mod.KindShaderPack:   "shaderpacks",
}

// Folder returns the install target for a resource kind.
func (i *Instance) Folder(kind mod.Kind) *Folder {
	return &Folder{kind: kind, dir: filepath.Join(i.Dir, subdirs[kind])}
}

// Folder is the install destination for one resource kind.
// It implements the download target handle selections carry around.
type Folder struct {
	kind mod.Kind
	dir  string
}

// Kind returns the resource kind this folder holds.
func (f *Folder) Kind() mod.Kind { return f.kind }

// Dir returns the absolute folder path.
func (f *Folder) Dir() string { return f.dir }

// SupportsDependencies reports whether resources installed here carry
// dependency metadata.
func (f *Folder) SupportsDependencies() bool { return f.kind.SupportsDependencies() }

// Ensure creates the folder if it does not exist yet.
func (f *Folder) Ensure() error {
	return os.MkdirAll(f.dir, 0o755)
}

var _ mod.Target = (*Folder)(nil)
