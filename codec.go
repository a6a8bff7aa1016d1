package addonhost

import "strings"

// VideoCodec identifies the video codec type.
type VideoCodec int

const (
	VideoCodecUnknown VideoCodec = iota
	VideoCodecVP8
	VideoCodecVP9
	VideoCodecH264
	VideoCodecH265
	VideoCodecAV1
)

func (c VideoCodec) String() string {
	switch c {
	case VideoCodecVP8:
		return "VP8"
	case VideoCodecVP9:
		return "VP9"
	case VideoCodecH264:
		return "H264"
	case VideoCodecH265:
		return "H265"
	case VideoCodecAV1:
		return "AV1"
	default:
		return "Unknown"
	}
}

// MimeType returns the MIME type for this codec.
func (c VideoCodec) MimeType() string {
	switch c {
	case VideoCodecVP8:
		return "video/VP8"
	case VideoCodecVP9:
		return "video/VP9"
	case VideoCodecH264:
		return "video/H264"
	case VideoCodecH265:
		return "video/H265"
	case VideoCodecAV1:
		return "video/AV1"
	default:
		return ""
	}
}

// AudioCodec identifies the audio codec type.
type AudioCodec int

const (
	AudioCodecUnknown AudioCodec = iota
	AudioCodecOpus
	AudioCodecAAC
	AudioCodecAC3
	AudioCodecEAC3
)

func (c AudioCodec) String() string {
	switch c {
	case AudioCodecOpus:
		return "Opus"
	case AudioCodecAAC:
		return "AAC"
	case AudioCodecAC3:
		return "AC3"
	case AudioCodecEAC3:
		return "EAC3"
	default:
		return "Unknown"
	}
}

// MimeType returns the MIME type for this codec.
func (c AudioCodec) MimeType() string {
	switch c {
	case AudioCodecOpus:
		return "audio/opus"
	case AudioCodecAAC:
		return "audio/AAC"
	case AudioCodecAC3:
		return "audio/AC3"
	case AudioCodecEAC3:
		return "audio/EAC3"
	default:
		return ""
	}
}

// ParseVideoCodecString maps an RFC 6381 codec string (as found in a
// manifest CODECS attribute) to a VideoCodec.
func ParseVideoCodecString(s string) VideoCodec {
	switch {
	case strings.HasPrefix(s, "avc1") || strings.HasPrefix(s, "avc3"):
		return VideoCodecH264
	case strings.HasPrefix(s, "hvc1") || strings.HasPrefix(s, "hev1"):
		return VideoCodecH265
	case strings.HasPrefix(s, "vp08"):
		return VideoCodecVP8
	case strings.HasPrefix(s, "vp09"):
		return VideoCodecVP9
	case strings.HasPrefix(s, "av01"):
		return VideoCodecAV1
	default:
		return VideoCodecUnknown
	}
}

// ParseAudioCodecString maps an RFC 6381 codec string to an AudioCodec.
func ParseAudioCodecString(s string) AudioCodec {
	switch {
	case strings.HasPrefix(s, "mp4a"):
		return AudioCodecAAC
	case strings.HasPrefix(s, "opus") || strings.HasPrefix(s, "Opus"):
		return AudioCodecOpus
	case strings.HasPrefix(s, "ac-3"):
		return AudioCodecAC3
	case strings.HasPrefix(s, "ec-3"):
		return AudioCodecEAC3
	default:
		return AudioCodecUnknown
	}
}
