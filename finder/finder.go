package finder

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// Kind selects which image formats to look for.
type Kind string

const (
	KindGIF Kind = "gif"
	KindJPG Kind = "jpg"
	KindPNG Kind = "png"
	KindAll Kind = "all"
)

var kindExts = map[Kind][]string{
	KindGIF: {".gif"},
	KindJPG: {".jpg", ".jpeg"},
	KindPNG: {".png"},
	KindAll: {".gif", ".jpg", ".jpeg", ".png"},
}

// ValidKind reports whether k is a known type selector.
func ValidKind(k Kind) bool {
	_, ok := kindExts[k]
	return ok
}

// Find returns the candidate files of the given kind under dir, sorted
// and deduplicated. Extension matching is case-insensitive, so .GIF and
// .gif both qualify. Without recursive only dir itself is listed.
func Find(dir string, kind Kind, recursive bool) ([]string, error) {
	exts, ok := kindExts[kind]
	if !ok {
		return nil, fmt.Errorf("unknown image type %q", kind)
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			if matchExt(d.Name(), exts) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if matchExt(e.Name(), exts) {
				add(filepath.Join(dir, e.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func matchExt(name string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(name)))
}
