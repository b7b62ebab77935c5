package hooks

// ExitStatus describes how a hook process terminated. A process either exited
// with a code or, on POSIX systems, was terminated by a signal.
type ExitStatus struct {
	code    int
	hasCode bool
	signal  int
}

// Code returns the exit code of the process. It reports false when the
// process was terminated by a signal and no code is available.
func (s ExitStatus) Code() (int, bool) {
	return s.code, s.hasCode
}

// Signal returns the number of the signal that terminated the process. It is
// only meaningful when Code reports false.
func (s ExitStatus) Signal() int {
	return s.signal
}
