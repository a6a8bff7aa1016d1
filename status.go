package addonhost

// Status is the result code returned to the host for instance-creation
// and lifecycle calls. Values mirror the host ABI's status enumeration.
type Status int

const (
	StatusOK Status = iota
	StatusLostConnection
	StatusNeedRestart
	StatusNeedSettings
	StatusUnknown
	StatusNotImplemented
	StatusPermanentFailure
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusLostConnection:
		return "lost-connection"
	case StatusNeedRestart:
		return "need-restart"
	case StatusNeedSettings:
		return "need-settings"
	case StatusUnknown:
		return "unknown"
	case StatusNotImplemented:
		return "not-implemented"
	case StatusPermanentFailure:
		return "permanent-failure"
	default:
		return "unknown"
	}
}
