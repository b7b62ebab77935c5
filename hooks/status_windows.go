//go:build windows

package hooks

import "os"

// Windows processes always terminate with an exit code, there is no signaled
// state to report.
func newExitStatus(state *os.ProcessState) ExitStatus {
	return ExitStatus{code: state.ExitCode(), hasCode: true}
}
