// Package resource resolves named input files the way a test classpath does:
// first through a logical root, then through a fixed path on disk.
package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"practice-api-tester/internal/errs"
)

// EnvResourceDir overrides the default logical resource root
const EnvResourceDir = "HARNESS_RESOURCE_DIR"

// DefaultResourceDir is the logical resource root when EnvResourceDir is unset
const DefaultResourceDir = "resources"

// Source describes where a named resource may be found
type Source struct {
	// Root is searched first using Name as a slash-separated path. May be nil.
	Root fs.FS
	// Name is the logical resource name, e.g. "config/config.properties"
	Name string
	// Fallback is a filesystem path tried when Root does not contain Name
	Fallback string
}

// DefaultRoot returns the logical resource root for this process
func DefaultRoot() fs.FS {
	dir := os.Getenv(EnvResourceDir)
	if dir == "" {
		dir = DefaultResourceDir
	}
	return os.DirFS(dir)
}

// NewSource creates a Source whose fallback lives under src/test/resources
func NewSource(root fs.FS, name string) Source {
	return Source{
		Root:     root,
		Name:     name,
		Fallback: filepath.Join(append([]string{"src", "test", "resources"}, splitName(name)...)...),
	}
}

// Read returns the resource contents and a description of where they came from.
// A resource missing from both locations yields an *errs.StartupError naming it.
func (s Source) Read() ([]byte, string, error) {
	if s.Root != nil {
		data, err := fs.ReadFile(s.Root, s.Name)
		if err == nil {
			return data, s.Name, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", errs.ResourceUnreadable(s.Name, err)
		}
	}

	if s.Fallback != "" {
		data, err := os.ReadFile(s.Fallback)
		if err == nil {
			return data, s.Fallback, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", errs.ResourceUnreadable(s.Fallback, err)
		}
	}

	return nil, "", errs.ResourceNotFound(s.Name)
}

func (s Source) String() string {
	return fmt.Sprintf("%s (fallback %s)", s.Name, s.Fallback)
}

func splitName(name string) []string {
	var parts []string
	for _, p := range strings.Split(name, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
