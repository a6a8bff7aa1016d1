package addonhost

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/rs/zerolog"

	"github.com/thesyncim/addonhost/pkg/nativelib"
)

// ErrCodecUnavailable is returned by Open when the native decode
// library cannot be found or loaded.
var ErrCodecUnavailable = errors.New("addonhost: codec library unavailable")

// codecLibEnv overrides the decode library search path.
const codecLibEnv = "ADDONHOST_CODEC_LIB"

// Codec identifiers of the native decode ABI.
const (
	addonCodecH264 = 1
	addonCodecH265 = 2
	addonCodecVP8  = 3
	addonCodecVP9  = 4
	addonCodecAV1  = 5
)

// VideoCodecConfig describes the decode session requested by the host.
type VideoCodecConfig struct {
	Codec  VideoCodec
	Width  int
	Height int

	// ExtraData is the codec-private initialization data (e.g. an
	// avcC record). May be empty.
	ExtraData []byte

	// LibraryPath, when set, is tried before all other candidate
	// locations of the decode library.
	LibraryPath string

	// CacheDir relocates the library before loading. Needed where the
	// addon install path is not mmap-able.
	CacheDir string
}

// codecSymbols is the function table of the native decode library.
type codecSymbols struct {
	create    func(codec, width, height int32, extraData uintptr, extraLen int32) uint64
	decode    func(session uint64, data uintptr, dataLen int32) int32
	reset     func(session uint64) int32
	destroy   func(session uint64)
	lastError func() uintptr
}

// VideoCodecInstance is the video-codec addon instance. It proxies
// decode calls into a native support library bound at Open time.
type VideoCodecInstance struct {
	host *Host
	log  zerolog.Logger

	lib     *nativelib.Library
	syms    codecSymbols
	session uint64
	cfg     VideoCodecConfig
}

func newVideoCodecInstance(host *Host) *VideoCodecInstance {
	return &VideoCodecInstance{
		host: host,
		log:  host.log.With().Str("instance", "videocodec").Logger(),
	}
}

// Type implements Instance.
func (c *VideoCodecInstance) Type() InstanceType { return InstanceVideoCodec }

// Destroy implements Instance.
func (c *VideoCodecInstance) Destroy() { c.Close() }

func codecID(codec VideoCodec) (int32, error) {
	switch codec {
	case VideoCodecH264:
		return addonCodecH264, nil
	case VideoCodecH265:
		return addonCodecH265, nil
	case VideoCodecVP8:
		return addonCodecVP8, nil
	case VideoCodecVP9:
		return addonCodecVP9, nil
	case VideoCodecAV1:
		return addonCodecAV1, nil
	default:
		return 0, fmt.Errorf("addonhost: unsupported codec: %s", codec)
	}
}

// Open loads the decode library and creates a native session for the
// configured codec. It must be called once before Decode or Reset.
func (c *VideoCodecInstance) Open(cfg VideoCodecConfig) error {
	if c.session != 0 {
		return errors.New("addonhost: codec already open")
	}

	codec, err := codecID(cfg.Codec)
	if err != nil {
		return err
	}

	if err := c.loadLibrary(cfg); err != nil {
		return err
	}

	var extraPtr uintptr
	if len(cfg.ExtraData) > 0 {
		extraPtr = uintptr(unsafe.Pointer(&cfg.ExtraData[0]))
	}

	session := c.syms.create(codec, int32(cfg.Width), int32(cfg.Height), extraPtr, int32(len(cfg.ExtraData)))
	runtime.KeepAlive(cfg.ExtraData)

	if session == 0 {
		msg := c.lastError()
		c.lib.Close()
		c.lib = nil
		return fmt.Errorf("addonhost: create %s session: %s", cfg.Codec, msg)
	}

	c.session = session
	c.cfg = cfg
	c.log.Info().Str("codec", cfg.Codec.String()).
		Int("width", cfg.Width).Int("height", cfg.Height).
		Str("library", c.lib.Path()).
		Msg("decode session opened")
	return nil
}

func (c *VideoCodecInstance) loadLibrary(cfg VideoCodecConfig) error {
	paths := codecLibraryPaths(cfg.LibraryPath)

	var lastErr error
	for _, path := range paths {
		lib, err := nativelib.Open(path, nativelib.Options{
			CacheDir: cfg.CacheDir,
			Logger:   &c.log,
		})
		if err != nil {
			lastErr = err
			continue
		}

		if err := resolveCodecSymbols(lib, &c.syms); err != nil {
			lib.Close()
			lastErr = err
			continue
		}

		c.lib = lib
		return nil
	}

	if lastErr == nil {
		lastErr = errors.New("no candidate paths")
	}
	return fmt.Errorf("%w: %v", ErrCodecUnavailable, lastErr)
}

// codecLibraryPaths returns the candidate locations of the decode
// library, most specific first.
func codecLibraryPaths(explicit string) []string {
	var paths []string

	libName := "libaddon_codec.so"
	if runtime.GOOS == "darwin" {
		libName = "libaddon_codec.dylib"
	}

	if explicit != "" {
		paths = append(paths, explicit)
	}
	if envPath := os.Getenv(codecLibEnv); envPath != "" {
		paths = append(paths, envPath)
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, libName),
			filepath.Join(exeDir, "..", "lib", libName),
		)
	}

	switch runtime.GOOS {
	case "darwin":
		paths = append(paths,
			libName,
			"/usr/local/lib/"+libName,
			"/opt/homebrew/lib/"+libName,
		)
	case "linux":
		paths = append(paths,
			libName,
			"/usr/local/lib/"+libName,
			"/usr/lib/"+libName,
		)
	}

	return paths
}

func resolveCodecSymbols(lib *nativelib.Library, syms *codecSymbols) error {
	for _, s := range []struct {
		name string
		fn   any
	}{
		{"addon_codec_create", &syms.create},
		{"addon_codec_decode", &syms.decode},
		{"addon_codec_reset", &syms.reset},
		{"addon_codec_destroy", &syms.destroy},
		{"addon_codec_last_error", &syms.lastError},
	} {
		if err := lib.Resolve(s.name, s.fn); err != nil {
			return err
		}
	}
	return nil
}

func (c *VideoCodecInstance) lastError() string {
	if c.syms.lastError == nil {
		return "unknown error"
	}
	ptr := c.syms.lastError()
	if ptr == 0 {
		return "unknown error"
	}
	return goStringFromPtr(ptr)
}

// Decode feeds one encoded access unit to the native session. It
// reports whether a picture is ready for pickup by the host.
func (c *VideoCodecInstance) Decode(data []byte) (bool, error) {
	if c.session == 0 {
		return false, ErrNotOpened
	}
	if len(data) == 0 {
		return false, errors.New("addonhost: empty access unit")
	}

	result := c.syms.decode(c.session, uintptr(unsafe.Pointer(&data[0])), int32(len(data)))
	runtime.KeepAlive(data)

	if result < 0 {
		return false, fmt.Errorf("addonhost: decode failed: %s", c.lastError())
	}
	return result > 0, nil
}

// Reset flushes the native session's reference state, e.g. after a
// seek.
func (c *VideoCodecInstance) Reset() error {
	if c.session == 0 {
		return ErrNotOpened
	}
	if c.syms.reset(c.session) != 0 {
		return fmt.Errorf("addonhost: reset failed: %s", c.lastError())
	}
	return nil
}

// Close destroys the native session and unloads the library. Safe to
// call multiple times.
func (c *VideoCodecInstance) Close() error {
	if c.session != 0 {
		c.syms.destroy(c.session)
		c.session = 0
	}
	if c.lib != nil {
		err := c.lib.Close()
		c.lib = nil
		return err
	}
	return nil
}
