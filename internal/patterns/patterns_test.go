package patterns

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writePatternFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writePatternFile(t, dir, "names", "anna\nbernd\n")
	writePatternFile(t, dir, "wards", "  station 3  \n\nicu\n")

	set, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := set.Labels(), []string{"names", "wards"}; !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
	if got, want := set.Terms("names"), []string{"anna", "bernd"}; !reflect.DeepEqual(got, want) {
		t.Errorf("names terms = %v, want %v", got, want)
	}
	// Whitespace is trimmed and blank lines dropped.
	if got, want := set.Terms("wards"), []string{"station 3", "icu"}; !reflect.DeepEqual(got, want) {
		t.Errorf("wards terms = %v, want %v", got, want)
	}
	if set.TermCount() != 4 {
		t.Errorf("TermCount = %d, want 4", set.TermCount())
	}
	if set.Empty() {
		t.Error("Empty = true for non-empty set")
	}
}

func TestLoad_EmptyFileIsValidLabel(t *testing.T) {
	dir := t.TempDir()
	writePatternFile(t, dir, "nothing", "")

	set, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := set.Labels(), []string{"nothing"}; !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
	if len(set.Terms("nothing")) != 0 {
		t.Errorf("terms = %v, want none", set.Terms("nothing"))
	}
}

func TestLoad_EmptyDirectory(t *testing.T) {
	set, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(set.Labels()) != 0 {
		t.Errorf("labels = %v, want none", set.Labels())
	}
	if !set.Empty() {
		t.Error("Empty = false for empty directory")
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
}

func TestLoad_NonUTF8File(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "binary"), []byte{0xff, 0xfe, 0x00, 0x80}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := Load(dir)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError for non-UTF-8 file, got %v", err)
	}
}

func TestLoad_IgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writePatternFile(t, dir, "names", "anna\n")
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	set, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := set.Labels(), []string{"names"}; !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
}

func TestLoad_LabelsKeepLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writePatternFile(t, dir, "zulu", "z\n")
	writePatternFile(t, dir, "alpha", "a\n")
	writePatternFile(t, dir, "mike", "m\n")

	set, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, want := set.Labels(), []string{"alpha", "mike", "zulu"}; !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
}
