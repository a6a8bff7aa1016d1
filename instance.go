package addonhost

import "github.com/rs/zerolog"

// InstanceType selects which addon capability the host wants to
// instantiate. Values match the host's numeric instance-type codes.
type InstanceType int

const (
	InstanceUnknown     InstanceType = 0
	InstanceInputStream InstanceType = 4
	InstanceVideoCodec  InstanceType = 11
)

func (t InstanceType) String() string {
	switch t {
	case InstanceInputStream:
		return "inputstream"
	case InstanceVideoCodec:
		return "videocodec"
	default:
		return "unknown"
	}
}

// Host is the opaque handle the host application passes to instance
// creation. It is never dereferenced on the Go side; it only travels
// back across the boundary with callbacks.
type Host struct {
	handle uintptr
	log    zerolog.Logger
}

// NewHost wraps a raw host handle. Logger may be the zero value; it is
// replaced with a disabled logger.
func NewHost(handle uintptr, log *zerolog.Logger) *Host {
	l := zerolog.Nop()
	if log != nil {
		l = *log
	}
	return &Host{handle: handle, log: l}
}

// Handle returns the raw host handle.
func (h *Host) Handle() uintptr { return h.handle }

// Instance is an addon-side object constructed on behalf of the host.
type Instance interface {
	// Type reports which instance-type code created this instance.
	Type() InstanceType

	// Destroy releases all instance resources. It is called exactly once
	// by the host; further method calls are undefined.
	Destroy()
}

// CreateInstance constructs the addon object matching the given
// instance-type code.
//
// It returns StatusNotImplemented and a nil instance for unrecognized
// codes; the host treats that as "capability not provided" rather than
// an error.
func CreateInstance(t InstanceType, host *Host) (Instance, Status) {
	if host == nil {
		return nil, StatusPermanentFailure
	}

	switch t {
	case InstanceInputStream:
		return newInputStream(host), StatusOK
	case InstanceVideoCodec:
		return newVideoCodecInstance(host), StatusOK
	default:
		host.log.Warn().Stringer("type", t).Int("code", int(t)).
			Msg("instance type not implemented")
		return nil, StatusNotImplemented
	}
}

// CreateInstanceWithVersion is the version-aware creation entry point.
// Older hosts call CreateInstance directly; newer ones pass the API
// version string they were built against. The version is recorded on
// the instance's host handle for diagnostics but does not change
// dispatch: the addon supports a single ABI generation per build.
func CreateInstanceWithVersion(t InstanceType, apiVersion string, host *Host) (Instance, Status) {
	if host != nil && apiVersion != "" {
		host.log.Debug().Stringer("type", t).Str("api_version", apiVersion).
			Msg("versioned instance creation")
	}
	return CreateInstance(t, host)
}
