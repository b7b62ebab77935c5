package hooks

import (
	"io"
	"os/exec"
)

// child is a running hook process together with its captured output pipes.
type child struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
}

// wait blocks until the process exits and returns its termination status. An
// error is only returned when the status itself could not be retrieved - a
// non-zero exit is a valid status, not an error.
func (c *child) wait() (ExitStatus, error) {
	if err := c.cmd.Wait(); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return ExitStatus{}, err
		}
	}
	return newExitStatus(c.cmd.ProcessState), nil
}

func environment(env map[string]string) []string {
	variables := make([]string, 0, len(env))
	for name, value := range env {
		variables = append(variables, name+"="+value)
	}
	return variables
}
