package build

import (
	"os"
	"path/filepath"
	"strings"

	pyerrors "github.com/zellyn/pylearn/internal/errors"
)

// Sink receives finished pages.
type Sink interface {
	// Write stores the page for lesson id and returns where it went.
	Write(id string, page []byte) (string, error)
}

// DirSink writes <dir>/<id>.html. Each file is written to a temporary name
// and renamed into place, so readers never observe a partial page.
type DirSink struct {
	dir string
}

// NewDirSink creates dir if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, pyerrors.NewIOError("mkdir", dir, err)
	}
	return &DirSink{dir: dir}, nil
}

// Dir is the output directory.
func (s *DirSink) Dir() string {
	return s.dir
}

// Write implements Sink.
func (s *DirSink) Write(id string, page []byte) (string, error) {
	if !validName(id) {
		return "", pyerrors.NewValidationError("id", id, "lesson id is not a plain file name")
	}
	path := filepath.Join(s.dir, id+".html")

	tmp, err := os.CreateTemp(s.dir, "."+id+"-*.tmp")
	if err != nil {
		return "", pyerrors.NewIOError("create", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(page); err != nil {
		tmp.Close()
		cleanup()
		return "", pyerrors.NewIOError("write", path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		cleanup()
		return "", pyerrors.NewIOError("chmod", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", pyerrors.NewIOError("close", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return "", pyerrors.NewIOError("rename", path, err)
	}
	return path, nil
}

func validName(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && filepath.Base(id) == id
}
