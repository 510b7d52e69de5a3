// Package fs locates members through their statefiles on the local
// filesystem: the hinted directory is scanned first, then the configured
// search roots are walked.
package fs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"catalogcore/internal/locate"
	"catalogcore/pkg/domain"
)

// Locator implements domain.Resolver over the local filesystem.
type Locator struct {
	roots []string
}

// New constructs a locator whose fallback discovery walks the given roots
// in order. With no roots, only hinted locations are consulted.
func New(roots ...string) *Locator {
	return &Locator{roots: roots}
}

// Resolve implements domain.Resolver. The hinted directory is tried first
// for each pending id; ids still missing afterwards are searched for in a
// single walk over the roots.
func (l *Locator) Resolve(ctx context.Context, pending []string, hints map[string]string) (map[string]domain.Handle, error) {
	out := make(map[string]domain.Handle, len(pending))
	missing := make(map[string]struct{})
	for _, id := range pending {
		out[id] = nil
		if h := l.fromDir(hints[id], id); h != nil {
			out[id] = h
			continue
		}
		missing[id] = struct{}{}
	}
	if len(missing) == 0 {
		return out, nil
	}
	for _, root := range l.roots {
		if len(missing) == 0 {
			break
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// unreadable subtrees don't abort discovery
				return fs.SkipDir
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() || len(missing) == 0 {
				return nil
			}
			_, id, ok := locate.ParseStatefileName(d.Name())
			if !ok {
				return nil
			}
			if _, want := missing[id]; !want {
				return nil
			}
			if h := readStatefile(path); h != nil {
				out[id] = h
				delete(missing, id)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Expand implements domain.Resolver. A statefile path yields its one
// entity; a directory yields every entity whose statefile it contains; a
// location that does not exist yields nothing.
func (l *Locator) Expand(_ context.Context, location string) ([]domain.Handle, error) {
	st, err := os.Stat(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !st.IsDir() {
		if _, _, ok := locate.ParseStatefileName(filepath.Base(location)); !ok {
			return nil, nil
		}
		if h := readStatefile(location); h != nil {
			return []domain.Handle{h}, nil
		}
		return nil, nil
	}
	entries, err := os.ReadDir(location)
	if err != nil {
		return nil, err
	}
	var out []domain.Handle
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, _, ok := locate.ParseStatefileName(e.Name()); !ok {
			continue
		}
		if h := readStatefile(filepath.Join(location, e.Name())); h != nil {
			out = append(out, h)
		}
	}
	return out, nil
}

// fromDir scans one directory for the statefile of a specific id.
func (l *Locator) fromDir(dir, id string) domain.Handle {
	if dir == "" || strings.Contains(dir, "://") {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		_, fileID, ok := locate.ParseStatefileName(e.Name())
		if !ok || fileID != id {
			continue
		}
		if h := readStatefile(filepath.Join(dir, e.Name())); h != nil {
			return h
		}
	}
	return nil
}

// readStatefile decodes one statefile into a handle whose location is the
// containing directory. Unreadable or malformed files are treated as
// misses; discovery keeps going.
func readStatefile(path string) domain.Handle {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil
	}
	e, err := domain.DecodeEntity(data, dir)
	if err != nil || e.EntityID == "" {
		return nil
	}
	return e
}

// WriteStatefile renders the entity's statefile into dir and returns its
// path. Used by tooling and tests to lay down resolvable entities.
func WriteStatefile(dir string, e *domain.Entity) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	data, err := domain.EncodeEntity(e)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, locate.StatefileName(e.EntityKind, e.EntityID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
