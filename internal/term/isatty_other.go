//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package term

func isatty(uintptr) bool { return false }
