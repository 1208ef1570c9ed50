// Package storage resolves document locators and reads lesson texts
// from a content root laid out as <container>/<path>.
package storage

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Locator addresses one stored document.
type Locator struct {
	Container string
	Path      string
}

func (l Locator) String() string {
	return l.Container + "/" + l.Path
}

// LocatorError reports a locator that follows neither accepted form.
type LocatorError struct {
	Value  string
	Reason string
}

func (e *LocatorError) Error() string {
	return fmt.Sprintf("invalid locator %q: %s", e.Value, e.Reason)
}

// ParseLocator accepts either a full URL whose path is
// /container/path/to/file, or a path relative to container. The
// container argument is only consulted in the second form.
func ParseLocator(container, raw string) (Locator, error) {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		u, err := url.Parse(raw)
		if err != nil {
			return Locator{}, &LocatorError{Value: raw, Reason: err.Error()}
		}
		parts := strings.SplitN(strings.TrimLeft(u.Path, "/"), "/", 2)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return Locator{}, &LocatorError{Value: raw, Reason: "expected a /container/path URL path"}
		}
		return Locator{Container: parts[0], Path: parts[1]}, nil
	}
	if container == "" {
		return Locator{}, &LocatorError{Value: raw, Reason: "container is required when the locator is not a full URL"}
	}
	return Locator{Container: container, Path: raw}, nil
}

// Info describes one stored document.
type Info struct {
	Name     string
	Size     int64
	Modified time.Time
}

// Store reads and writes lesson documents addressed by locators.
type Store interface {
	// ReadText returns the UTF-8 content of the document.
	ReadText(ctx context.Context, loc Locator) (string, error)
	// WriteText stores the document, replacing any previous content.
	WriteText(ctx context.Context, loc Locator, text string) error
	// Info returns the document's metadata.
	Info(ctx context.Context, loc Locator) (Info, error)
	// List returns the documents under a container, sorted by name.
	List(ctx context.Context, container string) ([]Info, error)
}

// FileStore serves documents from a local directory tree. The first
// path element below the root acts as the container.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// resolve maps a locator onto the filesystem and rejects paths that
// climb out of the content root.
func (s *FileStore) resolve(loc Locator) (string, error) {
	p := filepath.Join(s.root, filepath.FromSlash(loc.Container), filepath.FromSlash(loc.Path))
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &LocatorError{Value: loc.String(), Reason: "escapes the content root"}
	}
	return p, nil
}

func (s *FileStore) ReadText(ctx context.Context, loc Locator) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, err := s.resolve(loc)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", loc, err)
	}
	return string(data), nil
}

func (s *FileStore) WriteText(ctx context.Context, loc Locator, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.resolve(loc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", loc, err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", loc, err)
	}
	return nil
}

func (s *FileStore) Info(ctx context.Context, loc Locator) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	path, err := s.resolve(loc)
	if err != nil {
		return Info{}, err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("stat %s: %w", loc, err)
	}
	return Info{Name: loc.Path, Size: fi.Size(), Modified: fi.ModTime()}, nil
}

func (s *FileStore) List(ctx context.Context, container string) ([]Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := filepath.Join(s.root, filepath.FromSlash(container))
	var infos []Info
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		infos = append(infos, Info{Name: filepath.ToSlash(rel), Size: fi.Size(), Modified: fi.ModTime()})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("list %s: %w", container, walkErr)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}
