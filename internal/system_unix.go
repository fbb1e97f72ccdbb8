//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package internal

import (
	"bytes"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

var (
	platformVersion string
	pvOnce          sync.Once
)

func initPV() {
	var uname unix.Utsname
	if unix.Uname(&uname) == nil {
		s, r := uname.Sysname[:], uname.Release[:]
		platformVersion = fmt.Sprintf("%s %s", bytes.Trim(s, "\x00"), bytes.Trim(r, "\x00"))
	}
	// If uname failed, we don't have anything else to try.
}

// PlatformVersion returns the operating system name and release, or the
// empty string if they cannot be determined.
func PlatformVersion() string {
	pvOnce.Do(initPV)
	return platformVersion
}
