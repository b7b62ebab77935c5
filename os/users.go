//go:build !windows

package os

import (
	"os/user"
	"strconv"
	"syscall"
)

// CanRunAsUser reports whether the current process holds the privileges needed
// to change the identity of spawned child processes.
func CanRunAsUser() bool {
	return syscall.Geteuid() == 0
}

// UIDForName resolves a user name to its numeric uid. It reports false when no
// such user exists.
func UIDForName(name string) (uint32, bool) {
	u, err := user.Lookup(name)
	if err != nil {
		return 0, false
	}
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(uid), true
}

// GIDForName resolves a group name to its numeric gid. It reports false when
// no such group exists.
func GIDForName(name string) (uint32, bool) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, false
	}
	gid, err := strconv.ParseUint(g.Gid, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(gid), true
}
