package processor

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func touch(t *testing.T, root string, rel string) {
	t.Helper()
	writeFile(t, filepath.Join(root, filepath.FromSlash(rel)), []byte("x"))
}

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(absRoot, f)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScan_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png")
	touch(t, dir, "b.JPG")
	touch(t, dir, "c.jpeg")
	touch(t, dir, "d.WebP")
	touch(t, dir, "e.gif")
	touch(t, dir, "f.svg")
	touch(t, dir, "readme.txt")
	touch(t, dir, "noext")

	files, err := Scan(dir, DefaultScanRules())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	want := []string{"a.png", "b.JPG", "c.jpeg", "d.WebP"}
	if got := relPaths(t, dir, files); !equalStrings(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScan_PrunesExcludedDirsAtAnyDepth(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "hero.png")
	touch(t, dir, "fonts/glyphs.png")
	touch(t, dir, "assets/fonts/icons.png")
	touch(t, dir, "assets/deep/er/Fonts/x.jpg")
	touch(t, dir, "assets/fontsheet/keep.png")
	touch(t, dir, "assets/img/fonts.png")

	files, err := Scan(dir, DefaultScanRules())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	want := []string{"assets/fontsheet/keep.png", "assets/img/fonts.png", "hero.png"}
	if got := relPaths(t, dir, files); !equalStrings(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScan_RootNamedLikeExclusionIsWalked(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fonts")
	touch(t, dir, "a.png")

	files, err := Scan(dir, DefaultScanRules())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("got %d files, want 1", len(files))
	}
}

func TestScan_RecursiveSortedAbsolute(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "z/b.png")
	touch(t, dir, "z/a.png")
	touch(t, dir, "a/c.png")

	files, err := Scan(dir, DefaultScanRules())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !sort.StringsAreSorted(files) {
		t.Errorf("result not sorted: %v", files)
	}
	for _, f := range files {
		if !filepath.IsAbs(f) {
			t.Errorf("path %q is not absolute", f)
		}
	}

	again, err := Scan(dir, DefaultScanRules())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !equalStrings(files, again) {
		t.Errorf("scan not deterministic: %v vs %v", files, again)
	}
}

func TestScan_CustomRules(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png")
	touch(t, dir, "b.jpg")
	touch(t, dir, "vendor/c.png")

	files, err := Scan(dir, ScanRules{Extensions: []string{"PNG"}, ExcludeDirs: []string{"vendor"}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{"a.png"}
	if got := relPaths(t, dir, files); !equalStrings(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"), DefaultScanRules())
	var scanErr *ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("expected *ScanError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestScan_RootIsFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.png")

	_, err := Scan(filepath.Join(dir, "a.png"), DefaultScanRules())
	var scanErr *ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("expected *ScanError, got %v", err)
	}
}
