package mod

import "github.com/google/uuid"

// Target is the installation destination for a download task. It is
// implemented by instance folders; task code only needs the capability
// surface, never the concrete folder type.
type Target interface {
	// Kind returns the resource kind this target accepts.
	Kind() Kind
	// Dir returns the directory artifacts are installed into.
	Dir() string
	// SupportsDependencies reports whether resources installed here carry
	// dependency metadata worth resolving.
	SupportsDependencies() bool
}

// DownloadTask bundles a chosen pack version with its installation target.
// Tasks are created when a resource is added to the selection registry and
// discarded when it is removed or the session closes.
type DownloadTask struct {
	ID      string
	Pack    Pack
	Version *Version
	Target  Target

	// Indexed is true when the task was discovered by dependency
	// resolution rather than picked directly by the user.
	Indexed bool

	// CustomPath overrides the target directory for this task only.
	CustomPath string
}

// NewDownloadTask creates a task for the given pack version.
func NewDownloadTask(pack Pack, ver *Version, target Target, indexed bool) *DownloadTask {
	return &DownloadTask{
		ID:      uuid.NewString(),
		Pack:    pack,
		Version: ver,
		Target:  target,
		Indexed: indexed,
	}
}

// FileName returns the artifact file name of the chosen version.
func (t *DownloadTask) FileName() string { return t.Version.FileName }
