package modules

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/probexq/ASharpLang/internal/config"
)

//go:embed libs/*.ash
var bundled embed.FS

// EmbeddedPrefix marks module paths served from the bundled library.
const EmbeddedPrefix = "embedded:"

var ErrNotFound = errors.New("module not found")

// Location identifies a module source found by a Source. Reading is
// deferred so that a cached module is never read twice.
type Location struct {
	File     string // module file name, e.g. "consts.ash"
	Path     string
	Dir      string
	Embedded bool

	read func() ([]byte, error)
}

// Read returns the module source text.
func (l Location) Read() (string, error) {
	if l.read == nil {
		return "", fmt.Errorf("module %s has no source", l.Path)
	}
	data, err := l.read()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Source is one link of the lookup chain. file is the module file name
// (e.g. "consts.ash"); importerDir is the importing file's directory, or
// "" when the importer is not on disk.
type Source interface {
	Find(file, importerDir string) (Location, bool, error)
	String() string
}

// FSSource serves modules from the root of an fs.FS.
type FSSource struct {
	fsys  fs.FS
	label string
}

// NewFSSource serves modules from fsys; label prefixes the reported paths.
func NewFSSource(fsys fs.FS, label string) *FSSource {
	return &FSSource{fsys: fsys, label: label}
}

// Embedded returns the source for the library bundled into the executable.
func Embedded() *FSSource {
	sub, err := fs.Sub(bundled, config.LibsDirName)
	if err != nil {
		panic(err)
	}
	return NewFSSource(sub, EmbeddedPrefix)
}

func (s *FSSource) Find(file, _ string) (Location, bool, error) {
	if !fs.ValidPath(file) {
		return Location{}, false, nil
	}
	if _, err := fs.Stat(s.fsys, file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Location{}, false, nil
		}
		return Location{}, false, err
	}
	return Location{
		File:     file,
		Path:     s.label + file,
		Embedded: true,
		read:     func() ([]byte, error) { return fs.ReadFile(s.fsys, file) },
	}, true, nil
}

func (s *FSSource) String() string { return strings.TrimSuffix(s.label, ":") }

// RelativeSource looks next to the importing file.
type RelativeSource struct{}

func (RelativeSource) Find(file, importerDir string) (Location, bool, error) {
	if importerDir == "" {
		return Location{}, false, nil
	}
	return findOnDisk(file, filepath.Join(importerDir, file))
}

func (RelativeSource) String() string { return "relative" }

// DirSource looks in a fixed directory.
type DirSource struct {
	Dir string
}

func (s DirSource) Find(file, _ string) (Location, bool, error) {
	return findOnDisk(file, filepath.Join(s.Dir, file))
}

func (s DirSource) String() string { return s.Dir }

// InstallDir returns the libs directory next to the running executable.
func InstallDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(exe), config.LibsDirName), nil
}

func findOnDisk(file, p string) (Location, bool, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return Location{}, false, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Location{}, false, nil
		}
		return Location{}, false, err
	}
	if info.IsDir() {
		return Location{}, false, nil
	}
	return Location{
		File: file,
		Path: abs,
		Dir:  filepath.Dir(abs),
		read: func() ([]byte, error) { return os.ReadFile(abs) },
	}, true, nil
}

// Resolver walks its sources in order and returns the first match.
type Resolver struct {
	Sources []Source
}

func NewResolver(sources ...Source) *Resolver {
	return &Resolver{Sources: sources}
}

// DefaultResolver searches the bundled library, the importing file's
// directory, the install directory and then extraDirs.
func DefaultResolver(extraDirs ...string) *Resolver {
	sources := []Source{Embedded(), RelativeSource{}}
	if dir, err := InstallDir(); err == nil {
		sources = append(sources, DirSource{Dir: dir})
	}
	for _, dir := range extraDirs {
		sources = append(sources, DirSource{Dir: dir})
	}
	return NewResolver(sources...)
}

// Resolve finds the module file (e.g. "consts.ash") imported from a file
// in importerDir.
func (r *Resolver) Resolve(file, importerDir string) (Location, error) {
	if strings.ContainsAny(file, `/\`) || !config.HasSourceExt(file) {
		return Location{}, fmt.Errorf("%w: invalid module file %q", ErrNotFound, file)
	}
	for _, src := range r.Sources {
		loc, ok, err := src.Find(file, importerDir)
		if err != nil {
			return Location{}, fmt.Errorf("%s: %w", src, err)
		}
		if ok {
			return loc, nil
		}
	}
	searched := make([]string, 0, len(r.Sources))
	for _, src := range r.Sources {
		searched = append(searched, src.String())
	}
	return Location{}, fmt.Errorf("%w: %s (searched %s)", ErrNotFound, file, strings.Join(searched, ", "))
}
