//go:build !(darwin || linux)

package nativelib

func dlopen(string) (uintptr, error) {
	return 0, ErrNotSupported
}

func dlsym(uintptr, string) (uintptr, error) {
	return 0, ErrNotSupported
}

func dlclose(uintptr) error {
	return ErrNotSupported
}

func registerFunc(any, uintptr) {}
