package addonhost

import (
	"net/url"
	"testing"
	"time"
)

const testMultivariant = `#EXTM3U
#EXT-X-MEDIA:TYPE=AUDIO,GROUP-ID="aac",NAME="English",LANGUAGE="en",CHANNELS="2",DEFAULT=YES,AUTOSELECT=YES,URI="audio/en/stream.m3u8"
#EXT-X-MEDIA:TYPE=SUBTITLES,GROUP-ID="subs",NAME="English",LANGUAGE="en",URI="subs/en/stream.m3u8"
#EXT-X-STREAM-INF:BANDWIDTH=1500000,CODECS="avc1.640028,mp4a.40.2",RESOLUTION=1280x720,FRAME-RATE=25.000,AUDIO="aac",SUBTITLES="subs"
video/720p.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=3000000,CODECS="avc1.640028,mp4a.40.2",RESOLUTION=1920x1080,AUDIO="aac"
video/1080p.m3u8
`

const testMediaPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:6
#EXT-X-MEDIA-SEQUENCE:0
#EXTINF:6,
seg0.ts
#EXTINF:6,
seg1.ts
#EXT-X-ENDLIST
`

const testLivePlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:6
#EXT-X-MEDIA-SEQUENCE:10
#EXTINF:6,
seg10.ts
#EXTINF:6,
seg11.ts
`

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) error = %v", raw, err)
	}
	return u
}

func TestParseManifest_Multivariant(t *testing.T) {
	base := mustParseURL(t, "https://cdn.example.com/hls/master.m3u8")

	info, err := parseManifest(base, []byte(testMultivariant))
	if err != nil {
		t.Fatalf("parseManifest() error = %v", err)
	}

	if len(info.streams) != 4 {
		t.Fatalf("got %d streams, want 4", len(info.streams))
	}
	if info.live {
		t.Error("multivariant manifest marked live")
	}

	v := info.streams[0]
	if v.Type != StreamTypeVideo {
		t.Errorf("stream 0 type = %v, want video", v.Type)
	}
	if v.VideoCodec != VideoCodecH264 {
		t.Errorf("stream 0 video codec = %v, want h264", v.VideoCodec)
	}
	if v.AudioCodec != AudioCodecAAC {
		t.Errorf("stream 0 audio codec = %v, want aac", v.AudioCodec)
	}
	if v.CodecTag != "avc1.640028" {
		t.Errorf("stream 0 codec tag = %q", v.CodecTag)
	}
	if v.Bandwidth != 1500000 {
		t.Errorf("stream 0 bandwidth = %d", v.Bandwidth)
	}
	if v.Width != 1280 || v.Height != 720 {
		t.Errorf("stream 0 resolution = %dx%d, want 1280x720", v.Width, v.Height)
	}
	if v.FrameRate != 25.0 {
		t.Errorf("stream 0 frame rate = %v, want 25", v.FrameRate)
	}
	if v.URI != "https://cdn.example.com/hls/video/720p.m3u8" {
		t.Errorf("stream 0 URI = %q", v.URI)
	}

	if info.streams[1].Width != 1920 || info.streams[1].Height != 1080 {
		t.Errorf("stream 1 resolution = %dx%d", info.streams[1].Width, info.streams[1].Height)
	}

	a := info.streams[2]
	if a.Type != StreamTypeAudio {
		t.Errorf("stream 2 type = %v, want audio", a.Type)
	}
	if a.Language != "en" || a.Name != "English" {
		t.Errorf("stream 2 language/name = %q/%q", a.Language, a.Name)
	}
	if a.Channels != 2 {
		t.Errorf("stream 2 channels = %d, want 2", a.Channels)
	}
	if a.URI != "https://cdn.example.com/hls/audio/en/stream.m3u8" {
		t.Errorf("stream 2 URI = %q", a.URI)
	}

	s := info.streams[3]
	if s.Type != StreamTypeSubtitle {
		t.Errorf("stream 3 type = %v, want subtitle", s.Type)
	}
}

func TestParseManifest_Media(t *testing.T) {
	base := mustParseURL(t, "https://cdn.example.com/hls/720p/stream.m3u8")

	info, err := parseManifest(base, []byte(testMediaPlaylist))
	if err != nil {
		t.Fatalf("parseManifest() error = %v", err)
	}

	if info.live {
		t.Error("playlist with ENDLIST marked live")
	}
	if info.targetDuration != 6*time.Second {
		t.Errorf("target duration = %v, want 6s", info.targetDuration)
	}
	if len(info.segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(info.segments))
	}
	if info.segments[0].URI != "https://cdn.example.com/hls/720p/seg0.ts" {
		t.Errorf("segment 0 URI = %q", info.segments[0].URI)
	}
	if info.segments[0].Duration != 6*time.Second {
		t.Errorf("segment 0 duration = %v", info.segments[0].Duration)
	}
}

func TestParseManifest_Live(t *testing.T) {
	base := mustParseURL(t, "https://cdn.example.com/live/stream.m3u8")

	info, err := parseManifest(base, []byte(testLivePlaylist))
	if err != nil {
		t.Fatalf("parseManifest() error = %v", err)
	}
	if !info.live {
		t.Error("playlist without ENDLIST not marked live")
	}
}

func TestParseManifest_Invalid(t *testing.T) {
	base := mustParseURL(t, "https://cdn.example.com/master.m3u8")

	if _, err := parseManifest(base, []byte("not a playlist")); err == nil {
		t.Error("parseManifest() expected error for invalid input")
	}
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in     string
		wantW  int
		wantH  int
	}{
		{"1920x1080", 1920, 1080},
		{"640x360", 640, 360},
		{"", 0, 0},
		{"1920", 0, 0},
		{"ax b", 0, 0},
	}

	for _, tt := range tests {
		w, h := parseResolution(tt.in)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("parseResolution(%q) = %d, %d, want %d, %d", tt.in, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestParseChannels(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2", 2},
		{"6/-/-", 6},
		{"", 0},
		{"x", 0},
	}

	for _, tt := range tests {
		if got := parseChannels(tt.in); got != tt.want {
			t.Errorf("parseChannels(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
