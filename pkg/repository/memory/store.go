package memory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/interfaces"
	"github.com/toolbridge/slack-mcp-server/pkg/domain/model"
)

const (
	// maxExcerpts caps how many matched lines a search hit reports per file
	maxExcerpts = 3
	// maxExcerptLen caps the length of a single excerpt
	maxExcerptLen = 200
)

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Store is a flat directory of Markdown notes. Note names are restricted to
// a safe character set so a name can never escape the directory.
type Store struct {
	dir string
}

var _ interfaces.MemoryStore = &Store{}

// New creates a Store over the given directory
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the backing directory
func (s *Store) Dir() string {
	return s.dir
}

// normalizeName validates a note name and appends the .md extension when
// missing.
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || !nameRe.MatchString(name) {
		return "", goerr.Wrap(ErrInvalidName, "memory names may contain only letters, digits, dot, dash and underscore",
			goerr.V("name", name))
	}
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}
	return name, nil
}

// List returns all notes, newest modification first
func (s *Store) List() ([]model.MemoryInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read memory directory", goerr.V("dir", s.dir))
	}

	infos := make([]model.MemoryInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, model.MemoryInfo{
			Name:       e.Name(),
			Size:       fi.Size(),
			ModifiedAt: fi.ModTime().UTC(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ModifiedAt.After(infos[j].ModifiedAt)
	})
	return infos, nil
}

// Read returns one note by name
func (s *Store) Read(name string) (*model.MemoryFile, error) {
	normalized, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, normalized))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrNotFound, "no such memory", goerr.V("name", normalized))
		}
		return nil, goerr.Wrap(err, "failed to read memory", goerr.V("name", normalized))
	}

	return &model.MemoryFile{Name: normalized, Content: string(data)}, nil
}

// Write creates or replaces a note. The write is atomic (temp file plus
// rename) so a concurrent reader never sees a partial note.
func (s *Store) Write(name, content string) (*model.MemoryInfo, error) {
	normalized, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, goerr.Wrap(err, "failed to create memory directory", goerr.V("dir", s.dir))
	}

	path := filepath.Join(s.dir, normalized)
	tmp := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmp, []byte(content), 0o600); err != nil {
		return nil, goerr.Wrap(err, "failed to write memory temp file", goerr.V("name", normalized))
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, goerr.Wrap(err, "failed to replace memory file", goerr.V("name", normalized))
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to stat memory file", goerr.V("name", normalized))
	}
	return &model.MemoryInfo{
		Name:       normalized,
		Size:       fi.Size(),
		ModifiedAt: fi.ModTime().UTC(),
	}, nil
}

// Search finds notes whose name or content contains the query,
// case-insensitively. Hits carry up to maxExcerpts matched lines.
func (s *Store) Search(query string, limit int) ([]model.MemoryMatch, error) {
	infos, err := s.List()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := make([]model.MemoryMatch, 0, limit)
	for _, info := range infos {
		if limit > 0 && len(matches) >= limit {
			break
		}

		data, err := os.ReadFile(filepath.Join(s.dir, info.Name))
		if err != nil {
			continue
		}

		var excerpts []string
		for _, line := range strings.Split(string(data), "\n") {
			if len(excerpts) >= maxExcerpts {
				break
			}
			if strings.Contains(strings.ToLower(line), needle) {
				excerpt := strings.TrimSpace(line)
				if len(excerpt) > maxExcerptLen {
					excerpt = excerpt[:maxExcerptLen]
				}
				excerpts = append(excerpts, excerpt)
			}
		}

		if len(excerpts) > 0 || strings.Contains(strings.ToLower(info.Name), needle) {
			matches = append(matches, model.MemoryMatch{Name: info.Name, Excerpts: excerpts})
		}
	}
	return matches, nil
}
