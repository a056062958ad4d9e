package json

import (
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// List returns the paths of all transcript files under dir, relative to
// dir, newest first by modification time. A missing directory is not an
// error; it just holds no transcripts yet.
func List(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, "**/*.json")
	if err != nil {
		return nil, fmt.Errorf("glob transcripts: %w", err)
	}

	type entry struct {
		path string
		mod  int64
	}
	entries := make([]entry, 0, len(matches))
	for _, m := range matches {
		info, err := fs.Stat(fsys, m)
		if err != nil {
			continue
		}
		entries = append(entries, entry{path: m, mod: info.ModTime().UnixNano()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].mod > entries[j].mod })

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.path
	}
	return paths, nil
}
