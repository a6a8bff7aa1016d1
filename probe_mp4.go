package addonhost

import (
	"errors"
	"fmt"
	"io"

	gomp4 "github.com/abema/go-mp4"
)

// TrackInfo describes a single track found while probing a media
// segment.
type TrackInfo struct {
	ID   int
	Type StreamType

	VideoCodec VideoCodec
	AudioCodec AudioCodec

	Width        int
	Height       int
	ChannelCount int
	Timescale    int
}

var errNoTracks = errors.New("addonhost: no tracks found")

// ProbeInitSegment parses an fMP4 initialization segment and returns
// the tracks it declares. Manifests often leave codec parameters out;
// the init segment is authoritative.
func ProbeInitSegment(r io.ReadSeeker) ([]TrackInfo, error) {
	info, err := gomp4.Probe(r)
	if err != nil {
		return nil, fmt.Errorf("addonhost: probe init segment: %w", err)
	}
	if len(info.Tracks) == 0 {
		return nil, errNoTracks
	}

	tracks := make([]TrackInfo, 0, len(info.Tracks))
	for _, t := range info.Tracks {
		ti := TrackInfo{
			ID:        int(t.TrackID),
			Timescale: int(t.Timescale),
		}

		switch t.Codec {
		case gomp4.CodecAVC1:
			ti.Type = StreamTypeVideo
			ti.VideoCodec = VideoCodecH264
			if t.AVC != nil {
				ti.Width = int(t.AVC.Width)
				ti.Height = int(t.AVC.Height)
			}
		case gomp4.CodecMP4A:
			ti.Type = StreamTypeAudio
			ti.AudioCodec = AudioCodecAAC
			if t.MP4A != nil {
				ti.ChannelCount = int(t.MP4A.ChannelCount)
			}
		default:
			// Unrecognized sample entry; report the track without
			// codec details so the host can still count it.
			ti.Type = StreamTypeNone
		}

		tracks = append(tracks, ti)
	}

	return tracks, nil
}
