package addonhost

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVideoCodecInstance_DecodeBeforeOpen(t *testing.T) {
	c := newVideoCodecInstance(NewHost(1, nil))
	defer c.Close()

	if _, err := c.Decode([]byte{0x00}); !errors.Is(err, ErrNotOpened) {
		t.Errorf("Decode() error = %v, want ErrNotOpened", err)
	}
	if err := c.Reset(); !errors.Is(err, ErrNotOpened) {
		t.Errorf("Reset() error = %v, want ErrNotOpened", err)
	}
}

func TestVideoCodecInstance_OpenUnsupportedCodec(t *testing.T) {
	c := newVideoCodecInstance(NewHost(1, nil))
	defer c.Close()

	err := c.Open(VideoCodecConfig{Codec: VideoCodecUnknown})
	if err == nil {
		t.Fatal("Open() expected error for unknown codec")
	}
	if !strings.Contains(err.Error(), "unsupported codec") {
		t.Errorf("Open() error = %v, want unsupported codec", err)
	}
}

func TestVideoCodecInstance_OpenLibraryMissing(t *testing.T) {
	c := newVideoCodecInstance(NewHost(1, nil))
	defer c.Close()

	err := c.Open(VideoCodecConfig{
		Codec:       VideoCodecH264,
		Width:       1280,
		Height:      720,
		LibraryPath: filepath.Join(t.TempDir(), "libaddon_codec.so"),
	})
	if !errors.Is(err, ErrCodecUnavailable) {
		t.Errorf("Open() error = %v, want ErrCodecUnavailable", err)
	}
}

func TestVideoCodecInstance_CloseIdempotent(t *testing.T) {
	c := newVideoCodecInstance(NewHost(1, nil))

	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestCodecLibraryPaths(t *testing.T) {
	explicit := "/opt/addon/libaddon_codec.so"
	envPath := "/tmp/override/libaddon_codec.so"
	os.Setenv(codecLibEnv, envPath)
	defer os.Unsetenv(codecLibEnv)

	paths := codecLibraryPaths(explicit)
	if len(paths) < 2 {
		t.Fatalf("codecLibraryPaths() returned %d paths", len(paths))
	}
	if paths[0] != explicit {
		t.Errorf("paths[0] = %q, want explicit path first", paths[0])
	}
	if paths[1] != envPath {
		t.Errorf("paths[1] = %q, want env override second", paths[1])
	}
}

func TestCodecID(t *testing.T) {
	tests := []struct {
		codec VideoCodec
		want  int32
	}{
		{VideoCodecH264, addonCodecH264},
		{VideoCodecH265, addonCodecH265},
		{VideoCodecVP8, addonCodecVP8},
		{VideoCodecVP9, addonCodecVP9},
		{VideoCodecAV1, addonCodecAV1},
	}

	for _, tt := range tests {
		got, err := codecID(tt.codec)
		if err != nil {
			t.Errorf("codecID(%s) error = %v", tt.codec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("codecID(%s) = %d, want %d", tt.codec, got, tt.want)
		}
	}

	if _, err := codecID(VideoCodecUnknown); err == nil {
		t.Error("codecID(unknown) expected error")
	}
}

func TestGoStringFromPtr_Nil(t *testing.T) {
	if got := goStringFromPtr(0); got != "" {
		t.Errorf("goStringFromPtr(0) = %q, want empty", got)
	}
}
