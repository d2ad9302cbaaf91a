//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package hardware

func osVersion() string {
	return ""
}
