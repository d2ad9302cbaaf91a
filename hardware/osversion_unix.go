//go:build linux || darwin || freebsd || netbsd || openbsd

package hardware

import "golang.org/x/sys/unix"

// Kernel release reported by uname.
func osVersion() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return ""
	}
	return unix.ByteSliceToString(uts.Release[:])
}
