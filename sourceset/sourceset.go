// Package sourceset turns a manifest namespace into the ordered list of C
// sources and headers handed to the preprocessor.
package sourceset

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/afero"

	"github.com/gapi-tools/gapi/manifest"
)

// Listing patterns, in the order they are applied to each directory.
var patterns = []string{"*.c", "*.h"}

// InvalidSourceNodeError reports a namespace child that is not a known
// source kind. It never stops a build.
type InvalidSourceNodeError struct {
	Namespace string
	Kind      string
}

func (e *InvalidSourceNodeError) Error() string {
	return fmt.Sprintf("invalid source: %s (namespace %s)", e.Kind, e.Namespace)
}

// Set is the resolved file list for one namespace.
type Set struct {
	Namespace string
	Files     []string
}

func (s Set) Empty() bool { return len(s.Files) == 0 }

// Build collects the namespace's files in document order. dir and directory
// elements contribute their *.c files followed by their *.h files; exclude
// elements remove exact (trimmed) paths from the final list, and a path listed
// twice is kept at its first position. The returned error, if any, only lists
// skipped unknown elements; the Set is valid regardless.
func Build(fsys afero.Fs, ns manifest.Namespace) (Set, error) {
	var files []string
	var invalid []error
	excludes := make(map[string]struct{})

	for _, src := range ns.Sources {
		switch src.Kind {
		case manifest.KindDir:
			slog.Debug("source", "namespace", ns.Name, "node", src)
			files = append(files, list(fsys, strings.TrimSpace(src.Text), nil)...)
		case manifest.KindFile:
			slog.Debug("source", "namespace", ns.Name, "node", src)
			files = append(files, src.Text)
		case manifest.KindExclude:
			slog.Debug("source", "namespace", ns.Name, "node", src)
			excludes[strings.TrimRightFunc(src.Text, unicode.IsSpace)] = struct{}{}
		case manifest.KindDirectory:
			slog.Debug("source", "namespace", ns.Name, "node", src)
			local := make(map[string]struct{}, len(src.Excludes))
			for _, name := range src.Excludes {
				local[name] = struct{}{}
			}
			files = append(files, list(fsys, src.Path, local)...)
		default:
			invalid = append(invalid, &InvalidSourceNodeError{Namespace: ns.Name, Kind: src.Kind})
		}
	}

	set := Set{Namespace: ns.Name}
	seen := make(map[string]struct{}, len(files))
	for _, file := range files {
		file = strings.TrimRightFunc(file, unicode.IsSpace)
		if _, ok := excludes[file]; ok {
			continue
		}
		if _, ok := seen[file]; ok {
			continue
		}
		seen[file] = struct{}{}
		set.Files = append(set.Files, file)
	}

	return set, errors.Join(invalid...)
}

// list returns dir's entries matching each pattern in turn, skipping names in
// skip. Entries are joined to dir exactly as written so that they compare
// equal to exclude paths spelled the same way.
func list(fsys afero.Fs, dir string, skip map[string]struct{}) []string {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		slog.Warn("unable to list source directory", "dir", dir, "error", err)
		return nil
	}

	var files []string
	for _, pattern := range patterns {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if ok, _ := filepath.Match(pattern, name); !ok {
				continue
			}
			if _, ok := skip[name]; ok {
				continue
			}
			files = append(files, dir+string(filepath.Separator)+name)
		}
	}
	return files
}
