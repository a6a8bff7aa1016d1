// Package nativelib loads native shared libraries at runtime and binds
// their exported symbols to Go function pointers.
//
// It is the loading layer under the video-codec instance: the support
// library ships next to the addon, is optionally relocated to a writable
// cache directory before loading (required on platforms where the addon
// install path is not mmap-able), and is opened once during addon init.
//
// A Library owns its handle exclusively and is not safe for concurrent
// use; all loading happens on the host's init thread.
package nativelib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// ErrNotLoaded is returned by Resolve when the library has not been
	// opened, or has already been closed.
	ErrNotLoaded = errors.New("nativelib: library not loaded")

	// ErrNotSupported is returned on platforms without dlopen support.
	ErrNotSupported = errors.New("nativelib: dynamic loading not supported on this platform")
)

// Options configures library loading.
type Options struct {
	// CacheDir, when set, relocates the library into this directory
	// before loading. The copy is skipped when the cached file already
	// has the same size and a newer mod time than the source.
	CacheDir string

	// Logger receives load and resolution failures. Nil disables logging.
	Logger *zerolog.Logger
}

// Library is a loaded shared library. The zero value is unloaded;
// Close on it is a no-op.
type Library struct {
	path   string
	handle uintptr
	log    zerolog.Logger
}

// Open loads the shared library at path.
//
// It fails when the file does not exist, when relocation to
// Options.CacheDir fails, or when the platform loader rejects the file;
// in the last case the error carries the loader's diagnostic string.
func Open(path string, opts Options) (*Library, error) {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	if _, err := os.Stat(path); err != nil {
		log.Error().Str("path", path).Err(err).Msg("native library not found")
		return nil, fmt.Errorf("nativelib: stat %s: %w", path, err)
	}

	if opts.CacheDir != "" && filepath.Dir(path) != filepath.Clean(opts.CacheDir) {
		relocated, err := relocate(path, opts.CacheDir)
		if err != nil {
			log.Error().Str("path", path).Str("cache", opts.CacheDir).Err(err).
				Msg("native library relocation failed")
			return nil, fmt.Errorf("nativelib: relocate %s: %w", path, err)
		}
		path = relocated
	}

	handle, err := dlopen(path)
	if err != nil {
		log.Error().Str("path", path).Err(err).Msg("dlopen failed")
		return nil, fmt.Errorf("nativelib: open %s: %w", path, err)
	}

	return &Library{path: path, handle: handle, log: log}, nil
}

// relocate copies the library into cacheDir and returns the new path.
// An existing cached copy with the same size and a newer mod time is
// reused without copying.
func relocate(path string, cacheDir string) (string, error) {
	src, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(cacheDir, filepath.Base(path))
	if cached, err := os.Stat(dst); err == nil {
		if cached.Size() == src.Size() && cached.ModTime().After(src.ModTime()) {
			return dst, nil
		}
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", err
	}

	in, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.CreateTemp(cacheDir, filepath.Base(path)+".*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	if err := os.Chmod(out.Name(), 0o755); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	if err := os.Rename(out.Name(), dst); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	return dst, nil
}

// Path returns the path the library was loaded from, after any
// relocation.
func (l *Library) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Loaded reports whether the library currently holds an open handle.
func (l *Library) Loaded() bool {
	return l != nil && l.handle != 0
}

// Resolve looks up an exported symbol by exact name and binds it to the
// function pointer fn points at. fn must be a pointer to a function
// variable with a signature matching the native function.
func (l *Library) Resolve(name string, fn any) error {
	if !l.Loaded() {
		return ErrNotLoaded
	}

	addr, err := dlsym(l.handle, name)
	if err != nil {
		l.log.Error().Str("path", l.path).Str("symbol", name).Err(err).
			Msg("symbol not found")
		return fmt.Errorf("nativelib: resolve %s in %s: %w", name, l.path, err)
	}

	registerFunc(fn, addr)
	return nil
}

// Close releases the library handle. Calling Close on an unopened or
// already-closed Library is a no-op.
func (l *Library) Close() error {
	if !l.Loaded() {
		return nil
	}
	err := dlclose(l.handle)
	l.handle = 0
	return err
}
