package addonhost

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Common errors returned by instances.
var (
	ErrNotOpened      = errors.New("addonhost: not opened")
	ErrStreamNotFound = errors.New("addonhost: stream not found")
)

// Properties are the stream-open parameters handed over by the host.
type Properties struct {
	// ManifestURL is the location of the stream manifest. Required.
	ManifestURL string

	// Headers are sent with every manifest and segment request.
	Headers map[string]string

	// OpenTimeout bounds the initial manifest fetch. Zero means the
	// default of 10 seconds.
	OpenTimeout time.Duration
}

// Caps are the capability flags reported to the host for an opened
// stream.
type Caps struct {
	SupportsSeek  bool
	SupportsPause bool
}

// InputStream is the input-stream addon instance: it opens a manifest
// on behalf of the host and exposes the contained streams.
//
// An InputStream is used by the host from a single thread.
type InputStream struct {
	host   *Host
	client *http.Client
	log    zerolog.Logger

	props    Properties
	manifest *manifestInfo
	baseURL  *url.URL
	selected int
	opened   bool
}

func newInputStream(host *Host) *InputStream {
	return &InputStream{
		host:     host,
		client:   &http.Client{},
		log:      host.log.With().Str("instance", "inputstream").Logger(),
		selected: -1,
	}
}

// Type implements Instance.
func (s *InputStream) Type() InstanceType { return InstanceInputStream }

// Destroy implements Instance.
func (s *InputStream) Destroy() { s.Close() }

// Open fetches and parses the manifest named by props. It must be
// called once before any other method.
func (s *InputStream) Open(ctx context.Context, props Properties) error {
	if props.ManifestURL == "" {
		return errors.New("addonhost: manifest URL is required")
	}

	base, err := url.Parse(props.ManifestURL)
	if err != nil {
		return fmt.Errorf("addonhost: invalid manifest URL: %w", err)
	}

	timeout := props.OpenTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := fetchURL(ctx, s.client, props.ManifestURL, props.Headers)
	if err != nil {
		s.log.Error().Str("url", props.ManifestURL).Err(err).Msg("manifest fetch failed")
		return fmt.Errorf("addonhost: fetch manifest: %w", err)
	}

	manifest, err := parseManifest(base, body)
	if err != nil {
		s.log.Error().Str("url", props.ManifestURL).Err(err).Msg("manifest parse failed")
		return fmt.Errorf("addonhost: parse manifest: %w", err)
	}

	s.props = props
	s.baseURL = base
	s.manifest = manifest
	s.opened = true

	s.log.Info().Str("url", props.ManifestURL).
		Int("streams", len(manifest.streams)).
		Bool("live", manifest.live).
		Msg("stream opened")
	return nil
}

// Streams returns the streams found in the manifest.
func (s *InputStream) Streams() []StreamInfo {
	if !s.opened {
		return nil
	}
	return s.manifest.streams
}

// SelectStream marks the stream the host wants delivered.
func (s *InputStream) SelectStream(id int) error {
	if !s.opened {
		return ErrNotOpened
	}
	for _, st := range s.manifest.streams {
		if st.ID == id {
			s.selected = id
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrStreamNotFound, id)
}

// SelectedStream returns the currently selected stream ID, or -1.
func (s *InputStream) SelectedStream() int { return s.selected }

// Caps reports the capability flags for the opened stream. Seeking and
// pausing are only offered for finished (VOD) streams.
func (s *InputStream) Caps() Caps {
	if !s.opened {
		return Caps{}
	}
	return Caps{
		SupportsSeek:  !s.manifest.live,
		SupportsPause: !s.manifest.live,
	}
}

// Live reports whether the opened stream is still being produced.
func (s *InputStream) Live() bool {
	return s.opened && s.manifest.live
}

// Segments returns the media segments of the given stream. For a
// manifest that was itself a media playlist, the segments come from the
// initial parse; for a multivariant manifest the stream's media
// playlist is fetched on demand.
func (s *InputStream) Segments(ctx context.Context, id int) ([]Segment, error) {
	if !s.opened {
		return nil, ErrNotOpened
	}

	var target *StreamInfo
	for i := range s.manifest.streams {
		if s.manifest.streams[i].ID == id {
			target = &s.manifest.streams[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %d", ErrStreamNotFound, id)
	}

	if target.URI == "" {
		// Media-playlist manifest: segments were parsed up front.
		if len(s.manifest.segments) > 0 {
			return s.manifest.segments, nil
		}
		return nil, fmt.Errorf("addonhost: stream %d has no media playlist", id)
	}

	body, err := fetchURL(ctx, s.client, target.URI, s.props.Headers)
	if err != nil {
		return nil, fmt.Errorf("addonhost: fetch media playlist: %w", err)
	}

	mediaBase, err := url.Parse(target.URI)
	if err != nil {
		return nil, err
	}

	info, err := parseManifest(mediaBase, body)
	if err != nil {
		return nil, err
	}
	if len(info.segments) == 0 {
		return nil, fmt.Errorf("addonhost: stream %d playlist has no segments", id)
	}

	// Live flag can change between refreshes of a media playlist.
	s.manifest.live = info.live

	// Segment URIs were already resolved against mediaBase during the
	// parse.
	return info.segments, nil
}

// Close releases the instance. Safe to call multiple times.
func (s *InputStream) Close() error {
	if !s.opened {
		return nil
	}
	s.opened = false
	s.manifest = nil
	s.selected = -1
	s.client.CloseIdleConnections()
	return nil
}
