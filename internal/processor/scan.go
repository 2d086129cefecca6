package processor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scan walks root and returns the absolute paths of every regular file whose
// extension is in rules.Extensions, skipping any directory named in
// rules.ExcludeDirs. Matching is case-insensitive. The result is sorted.
func Scan(root string, rules ScanRules) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &ScanError{Root: root, Err: fmt.Errorf("not a directory")}
	}

	exts := make(map[string]bool, len(rules.Extensions))
	for _, ext := range rules.Extensions {
		exts[normalizeExt(ext)] = true
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != absRoot && isExcluded(d.Name(), rules.ExcludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if exts[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &ScanError{Root: root, Err: err}
	}

	sort.Strings(files)
	return files, nil
}

func isExcluded(name string, excluded []string) bool {
	for _, ex := range excluded {
		if strings.EqualFold(name, ex) {
			return true
		}
	}
	return false
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
