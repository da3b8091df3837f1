package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const tempFilePrefix = "~$"

// FindSpecs lists the specification workbooks in dir: *.xlsx files that are
// neither spreadsheet lock files nor outputs carrying suffix.
func FindSpecs(dir, suffix string) ([]string, error) {
	return findWorkbooks(dir, func(stem string) bool {
		return suffix == "" || !strings.HasSuffix(stem, suffix)
	})
}

// FindProcessed lists the *<suffix>.xlsx workbooks in dir.
func FindProcessed(dir, suffix string) ([]string, error) {
	return findWorkbooks(dir, func(stem string) bool {
		return strings.HasSuffix(stem, suffix)
	})
}

func findWorkbooks(dir string, keep func(stem string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("directory not found: %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, tempFilePrefix) {
			continue
		}
		ext := filepath.Ext(name)
		if !strings.EqualFold(ext, ".xlsx") {
			continue
		}
		if keep(strings.TrimSuffix(name, ext)) {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
