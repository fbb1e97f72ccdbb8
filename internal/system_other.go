//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)
// +build !aix,!darwin,!dragonfly,!freebsd,!linux,!netbsd,!openbsd,!solaris

package internal

import "runtime"

// PlatformVersion returns the operating system name.
func PlatformVersion() string {
	return runtime.GOOS
}
