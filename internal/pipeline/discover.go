package pipeline

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	MinutePattern  = "**/min[0-9]*.json"
	KacoPattern    = "**/*.CSV"
	DayHistoryFile = "days_hist_all"
)

// DiscoverFiles expands pattern below dir and returns the matching regular files
// in walk order. A missing dir yields no files.
func DiscoverFiles(dir, pattern string) ([]string, error) {
	root := filepath.Clean(dir)
	matches, err := doublestar.Glob(os.DirFS(root), pattern)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		path := filepath.Join(root, filepath.FromSlash(m))
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			continue
		}
		out = append(out, path)
	}
	return out, nil
}
