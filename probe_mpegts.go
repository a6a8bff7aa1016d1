package addonhost

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astits"
)

// ProbeMPEGTS scans an MPEG-TS segment for its program map table and
// returns the declared elementary streams. Only the table section of
// the stream is read.
func ProbeMPEGTS(ctx context.Context, r io.Reader) ([]TrackInfo, error) {
	dem := astits.NewDemuxer(ctx, r)

	for {
		data, err := dem.NextData()
		if err != nil {
			if errors.Is(err, astits.ErrNoMorePackets) {
				return nil, fmt.Errorf("addonhost: probe mpegts: %w", errNoTracks)
			}
			return nil, fmt.Errorf("addonhost: probe mpegts: %w", err)
		}

		if data.PMT == nil {
			continue
		}

		var tracks []TrackInfo
		for _, es := range data.PMT.ElementaryStreams {
			ti := TrackInfo{ID: int(es.ElementaryPID)}

			switch es.StreamType {
			case astits.StreamTypeH264Video:
				ti.Type = StreamTypeVideo
				ti.VideoCodec = VideoCodecH264

			case astits.StreamTypeH265Video:
				ti.Type = StreamTypeVideo
				ti.VideoCodec = VideoCodecH265

			case astits.StreamTypeAACAudio:
				ti.Type = StreamTypeAudio
				ti.AudioCodec = AudioCodecAAC

			default:
				continue
			}

			tracks = append(tracks, ti)
		}

		if tracks == nil {
			return nil, errNoTracks
		}
		return tracks, nil
	}
}
