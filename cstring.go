package addonhost

import "unsafe"

// goStringFromPtr converts a NUL-terminated C string pointer to a Go
// string. Returns "" for a nil pointer. Reads at most 1024 bytes.
func goStringFromPtr(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	p := unsafe.Pointer(ptr)
	var length int
	for {
		if *(*byte)(unsafe.Pointer(uintptr(p) + uintptr(length))) == 0 {
			break
		}
		length++
		if length > 1024 {
			break
		}
	}
	if length == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(p), length))
}
