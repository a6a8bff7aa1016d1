package addonhost

import (
	"testing"
)

func TestCreateInstance_InputStream(t *testing.T) {
	host := NewHost(1, nil)

	inst, status := CreateInstance(InstanceInputStream, host)
	if status != StatusOK {
		t.Fatalf("CreateInstance() status = %v, want %v", status, StatusOK)
	}
	defer inst.Destroy()

	if _, ok := inst.(*InputStream); !ok {
		t.Fatalf("CreateInstance() returned %T, want *InputStream", inst)
	}
	if inst.Type() != InstanceInputStream {
		t.Errorf("Type() = %v, want %v", inst.Type(), InstanceInputStream)
	}
}

func TestCreateInstance_VideoCodec(t *testing.T) {
	host := NewHost(1, nil)

	inst, status := CreateInstance(InstanceVideoCodec, host)
	if status != StatusOK {
		t.Fatalf("CreateInstance() status = %v, want %v", status, StatusOK)
	}
	defer inst.Destroy()

	if _, ok := inst.(*VideoCodecInstance); !ok {
		t.Fatalf("CreateInstance() returned %T, want *VideoCodecInstance", inst)
	}
	if inst.Type() != InstanceVideoCodec {
		t.Errorf("Type() = %v, want %v", inst.Type(), InstanceVideoCodec)
	}
}

func TestCreateInstance_UnknownType(t *testing.T) {
	host := NewHost(1, nil)

	inst, status := CreateInstance(InstanceType(7), host)
	if status != StatusNotImplemented {
		t.Errorf("CreateInstance() status = %v, want %v", status, StatusNotImplemented)
	}
	if inst != nil {
		t.Errorf("CreateInstance() instance = %v, want nil", inst)
	}
}

func TestCreateInstance_NilHost(t *testing.T) {
	inst, status := CreateInstance(InstanceInputStream, nil)
	if status != StatusPermanentFailure {
		t.Errorf("CreateInstance() status = %v, want %v", status, StatusPermanentFailure)
	}
	if inst != nil {
		t.Errorf("CreateInstance() instance = %v, want nil", inst)
	}
}

func TestCreateInstanceWithVersion(t *testing.T) {
	host := NewHost(1, nil)

	// The version string must not change dispatch.
	for _, version := range []string{"", "3.0.1", "not-a-version"} {
		inst, status := CreateInstanceWithVersion(InstanceInputStream, version, host)
		if status != StatusOK {
			t.Errorf("CreateInstanceWithVersion(%q) status = %v, want %v", version, status, StatusOK)
			continue
		}
		if _, ok := inst.(*InputStream); !ok {
			t.Errorf("CreateInstanceWithVersion(%q) returned %T, want *InputStream", version, inst)
		}
		inst.Destroy()
	}

	inst, status := CreateInstanceWithVersion(InstanceType(7), "3.0.1", host)
	if status != StatusNotImplemented || inst != nil {
		t.Errorf("CreateInstanceWithVersion(unknown) = %v, %v", inst, status)
	}
}

func TestInstanceType_String(t *testing.T) {
	tests := []struct {
		typ  InstanceType
		want string
	}{
		{InstanceInputStream, "inputstream"},
		{InstanceVideoCodec, "videocodec"},
		{InstanceUnknown, "unknown"},
		{InstanceType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("InstanceType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusOK, "ok"},
		{StatusLostConnection, "lost-connection"},
		{StatusNeedRestart, "need-restart"},
		{StatusNeedSettings, "need-settings"},
		{StatusUnknown, "unknown"},
		{StatusNotImplemented, "not-implemented"},
		{StatusPermanentFailure, "permanent-failure"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}
