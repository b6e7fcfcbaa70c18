//go:build linux

package render

import "golang.org/x/sys/unix"

// ioctlGetTermios reads terminal attributes; it fails on anything that is
// not a terminal.
const ioctlGetTermios = unix.TCGETS
