package attachment

import (
	"path/filepath"

	"github.com/google/uuid"
)

// TempAllocator hands out collision-free paths for freshly exported
// payloads inside a single scratch directory.
type TempAllocator struct {
	dir string
}

// NewTempAllocator returns an allocator rooted at dir. The directory must
// already exist and be writable.
func NewTempAllocator(dir string) *TempAllocator {
	return &TempAllocator{dir: dir}
}

// Dir returns the scratch directory.
func (t *TempAllocator) Dir() string { return t.dir }

// Path returns a new unique path with the given extension (".mp4" etc).
// The file is not created; the caller writes it.
func (t *TempAllocator) Path(ext string) string {
	return filepath.Join(t.dir, uuid.NewString()+ext)
}
