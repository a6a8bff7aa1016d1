package nativelib

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestOpen_NonexistentPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "libmissing.so"), Options{})
	if err == nil {
		t.Fatal("Open() succeeded for nonexistent path")
	}
}

func TestOpen_NotALibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libgarbage.so")
	if err := os.WriteFile(path, []byte("not an ELF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, Options{}); err == nil {
		t.Fatal("Open() succeeded for a non-library file")
	}
}

func TestLibrary_CloseUnopened(t *testing.T) {
	var lib Library
	if err := lib.Close(); err != nil {
		t.Errorf("Close() on unopened Library = %v, want nil", err)
	}
	// Repeated close must stay a no-op.
	if err := lib.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
}

func TestLibrary_ResolveUnopened(t *testing.T) {
	var lib Library
	var fn func()
	if err := lib.Resolve("anything", &fn); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Resolve() on unopened Library = %v, want ErrNotLoaded", err)
	}
}

func TestLibrary_MissingSymbol(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("requires a known system library")
	}

	lib, err := Open("/lib/x86_64-linux-gnu/libc.so.6", Options{})
	if err != nil {
		// Non-glibc or non-amd64 environment.
		t.Skipf("cannot open libc: %v", err)
	}
	defer lib.Close()

	var fn func()
	if err := lib.Resolve("definitely_not_a_libc_symbol", &fn); err == nil {
		t.Fatal("Resolve() succeeded for a missing symbol")
	}

	// The library stays usable after a failed resolution.
	var abort func()
	if err := lib.Resolve("abort", &abort); err != nil {
		t.Errorf("Resolve(abort) after failed lookup = %v", err)
	}
}

func TestRelocate_CopiesIntoCache(t *testing.T) {
	srcDir := t.TempDir()
	cacheDir := filepath.Join(t.TempDir(), "cache")

	src := filepath.Join(srcDir, "libdecoder.so")
	payload := []byte("payload-v1")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	dst, err := relocate(src, cacheDir)
	if err != nil {
		t.Fatalf("relocate() = %v", err)
	}
	if filepath.Dir(dst) != cacheDir {
		t.Errorf("relocated to %s, want inside %s", dst, cacheDir)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Errorf("cached copy = %q, want %q", got, payload)
	}
}

func TestRelocate_SkipsFreshCachedCopy(t *testing.T) {
	srcDir := t.TempDir()
	cacheDir := t.TempDir()

	src := filepath.Join(srcDir, "libdecoder.so")
	if err := os.WriteFile(src, []byte("same-size-1"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(src, old, old); err != nil {
		t.Fatal(err)
	}

	// Cached copy: same size, newer mod time, different content. If the
	// copy is correctly skipped, the content survives.
	cached := filepath.Join(cacheDir, "libdecoder.so")
	if err := os.WriteFile(cached, []byte("same-size-2"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst, err := relocate(src, cacheDir)
	if err != nil {
		t.Fatalf("relocate() = %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "same-size-2" {
		t.Error("relocate() overwrote a same-size, newer cached copy")
	}
}

func TestRelocate_ReplacesStaleCachedCopy(t *testing.T) {
	srcDir := t.TempDir()
	cacheDir := t.TempDir()

	src := filepath.Join(srcDir, "libdecoder.so")
	if err := os.WriteFile(src, []byte("fresh build"), 0o644); err != nil {
		t.Fatal(err)
	}

	cached := filepath.Join(cacheDir, "libdecoder.so")
	if err := os.WriteFile(cached, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(cached, old, old); err != nil {
		t.Fatal(err)
	}

	dst, err := relocate(src, cacheDir)
	if err != nil {
		t.Fatalf("relocate() = %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "fresh build" {
		t.Error("relocate() kept a stale cached copy")
	}
}
