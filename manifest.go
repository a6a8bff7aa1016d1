package addonhost

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bluenviron/gohlslib/pkg/playlist"
)

// StreamType classifies a stream exposed to the host.
type StreamType int

const (
	StreamTypeNone StreamType = iota
	StreamTypeVideo
	StreamTypeAudio
	StreamTypeSubtitle
)

func (t StreamType) String() string {
	switch t {
	case StreamTypeVideo:
		return "video"
	case StreamTypeAudio:
		return "audio"
	case StreamTypeSubtitle:
		return "subtitle"
	default:
		return "none"
	}
}

// StreamInfo describes a single stream (variant or rendition) of an
// opened manifest.
type StreamInfo struct {
	ID   int
	Type StreamType

	VideoCodec VideoCodec
	AudioCodec AudioCodec
	CodecTag   string // raw RFC 6381 string from the manifest

	Bandwidth int
	Width     int
	Height    int
	FrameRate float64

	Language string
	Name     string
	Channels int

	// URI of the stream's media playlist, resolved against the
	// manifest URL. Empty for renditions muxed into their variant.
	URI string
}

// Segment is a single media segment of a stream.
type Segment struct {
	URI      string
	Duration time.Duration
}

// manifestInfo is the parsed form of a manifest, independent of whether
// it was a multivariant or a media playlist.
type manifestInfo struct {
	streams        []StreamInfo
	segments       []Segment // filled for media playlists only
	live           bool
	targetDuration time.Duration
}

func fetchURL(ctx context.Context, client *http.Client, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status code: %d", res.StatusCode)
	}

	return io.ReadAll(res.Body)
}

func parseManifest(base *url.URL, data []byte) (*manifestInfo, error) {
	pl, err := playlist.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	switch pl := pl.(type) {
	case *playlist.Multivariant:
		return parseMultivariant(base, pl), nil
	case *playlist.Media:
		return parseMedia(base, pl), nil
	default:
		return nil, fmt.Errorf("unsupported manifest type %T", pl)
	}
}

func parseMultivariant(base *url.URL, pl *playlist.Multivariant) *manifestInfo {
	info := &manifestInfo{}

	for _, v := range pl.Variants {
		s := StreamInfo{
			ID:        len(info.streams),
			Type:      StreamTypeVideo,
			Bandwidth: v.Bandwidth,
			URI:       resolveURL(base, v.URI),
		}

		for _, c := range v.Codecs {
			if vc := ParseVideoCodecString(c); vc != VideoCodecUnknown {
				s.VideoCodec = vc
				s.CodecTag = c
			} else if ac := ParseAudioCodecString(c); ac != AudioCodecUnknown {
				// Audio muxed into the variant.
				s.AudioCodec = ac
			}
		}

		s.Width, s.Height = parseResolution(v.Resolution)
		if v.FrameRate != nil {
			s.FrameRate = *v.FrameRate
		}

		info.streams = append(info.streams, s)
	}

	for _, r := range pl.Renditions {
		var typ StreamType
		switch r.Type {
		case playlist.MultivariantRenditionTypeAudio:
			typ = StreamTypeAudio
		case playlist.MultivariantRenditionTypeSubtitles:
			typ = StreamTypeSubtitle
		default:
			continue
		}

		if r.URI == "" {
			// Muxed into its variant; already represented there.
			continue
		}

		s := StreamInfo{
			ID:       len(info.streams),
			Type:     typ,
			Language: r.Language,
			Name:     r.Name,
			URI:      resolveURL(base, r.URI),
		}
		if typ == StreamTypeAudio {
			s.Channels = parseChannels(r.Channels)
		}

		info.streams = append(info.streams, s)
	}

	return info
}

func parseMedia(base *url.URL, pl *playlist.Media) *manifestInfo {
	info := &manifestInfo{
		live:           !pl.Endlist,
		targetDuration: time.Duration(pl.TargetDuration) * time.Second,
	}

	info.streams = []StreamInfo{{
		ID:   0,
		Type: StreamTypeVideo,
	}}

	for _, seg := range pl.Segments {
		info.segments = append(info.segments, Segment{
			URI:      resolveURL(base, seg.URI),
			Duration: seg.Duration,
		})
	}

	return info
}

func resolveURL(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// parseResolution parses a "WxH" attribute value. Returns zeros when
// the value is absent or malformed.
func parseResolution(s string) (int, int) {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return 0, 0
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0
	}
	return width, height
}

// parseChannels parses a CHANNELS attribute ("2", "6/-/-"). Returns 0
// when absent or malformed.
func parseChannels(s string) int {
	first, _, _ := strings.Cut(s, "/")
	n, err := strconv.Atoi(first)
	if err != nil {
		return 0
	}
	return n
}
