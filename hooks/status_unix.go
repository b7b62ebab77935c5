//go:build !windows

package hooks

import (
	"os"
	"syscall"
)

func newExitStatus(state *os.ProcessState) ExitStatus {
	waitStatus := state.Sys().(syscall.WaitStatus)
	if waitStatus.Signaled() {
		return ExitStatus{signal: int(waitStatus.Signal())}
	}
	return ExitStatus{code: waitStatus.ExitStatus(), hasCode: true}
}
