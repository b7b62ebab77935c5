//go:build !windows

package executor

import (
	"os/exec"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/allegro/lifecycle-executor/hooks"
	osutil "github.com/allegro/lifecycle-executor/os"
	"github.com/allegro/lifecycle-executor/servicelog"
)

// ServiceExitState is a type describing reason of service process interruption.
type ServiceExitState struct {
	Code ServiceExitCode
	Err  error
}

// ServiceExitCode is an enum.
type ServiceExitCode int8

const (
	// SuccessCode means service process exited successfully.
	SuccessCode ServiceExitCode = iota
	// FailedCode means service process exited with error.
	FailedCode
	// KilledCode means service process was killed and its code was ignored.
	KilledCode
)

// Command is an interface to abstract a service main process running on a
// system.
type Command interface {
	Start() error
	Wait() <-chan ServiceExitState
	Stop(gracePeriod time.Duration)
}

type cancellableCommand struct {
	cmd      *exec.Cmd
	output   hooks.Output
	preamble string
	sink     servicelog.Sink
	doneChan chan error
	killing  bool
}

func (c *cancellableCommand) Start() error {
	if c.cmd == nil {
		return errors.New("missing command to run")
	}

	stdout, err := c.cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "unable to open stdout pipe")
	}
	stderr, err := c.cmd.StderrPipe()
	if err != nil {
		return errors.Wrap(err, "unable to open stderr pipe")
	}
	if err := c.cmd.Start(); err != nil {
		return err
	}

	streamed := make(chan struct{})
	go func() {
		defer close(streamed)
		if err := c.output.Stream(c.preamble, stdout, stderr, c.sink); err != nil {
			log.WithError(err).Warn("Failed to capture service process output")
		}
	}()

	c.doneChan = make(chan error)
	go c.waitForCommand(streamed)

	return nil
}

func (c *cancellableCommand) Wait() <-chan ServiceExitState {
	exitChan := make(chan ServiceExitState)

	go func() {
		err := <-c.doneChan

		log.Infof("Service process exited with state: %s", c.cmd.ProcessState.String())

		if err == nil && c.cmd.ProcessState.Success() {
			exitChan <- ServiceExitState{
				Code: SuccessCode,
			}
			return
		}
		if c.killing {
			exitChan <- ServiceExitState{
				Code: KilledCode,
			}
			return
		}

		exitChan <- ServiceExitState{
			Code: FailedCode,
			Err:  err,
		}
	}()

	return exitChan
}

func (c *cancellableCommand) waitForCommand(streamed <-chan struct{}) {
	// output pipes must be drained before the process is reaped
	<-streamed
	err := c.cmd.Wait()
	c.doneChan <- err
	close(c.doneChan)
}

func (c *cancellableCommand) Stop(gracePeriod time.Duration) {
	// Return if Stop was already called.
	if c.killing {
		return
	}
	c.killing = true
	err := osutil.KillTree(syscall.SIGTERM, int32(c.cmd.Process.Pid))
	if err != nil {
		log.WithError(err).Errorf("There was a problem with sending %s to %d children", syscall.SIGTERM, c.cmd.Process.Pid)
		return
	}

	<-time.After(gracePeriod)

	if err := osutil.KillTree(syscall.SIGKILL, int32(c.cmd.Process.Pid)); err != nil {
		log.WithError(err).Warnf("There was a problem with sending %s to %d tree", syscall.SIGKILL, c.cmd.Process.Pid)
		return
	}
}

// NewRunCommand returns a command supervising the compiled run hook of a
// service. The process is started in its own process group so the whole tree
// can be signalled on Stop and, when the supervisor holds the required
// privileges, under the identity of the package service user and group. Its
// output is teed to sink and the run hook log files exactly like one-shot
// hook output.
func NewRunCommand(run *hooks.RunHook, pkg hooks.Pkg, sink servicelog.Sink) (Command, error) {
	cmd := exec.Command(run.Path()) // #nosec
	cmd.Env = pkgEnvironment(pkg)
	cmd.Stdin = nil
	// Set new group for the command
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if osutil.CanRunAsUser() {
		uid, ok := osutil.UIDForName(pkg.SvcUser)
		if !ok {
			return nil, errors.Errorf("no uid for user '%s' could be found", pkg.SvcUser)
		}
		gid, ok := osutil.GIDForName(pkg.SvcGroup)
		if !ok {
			return nil, errors.Errorf("no gid for group '%s' could be found", pkg.SvcGroup)
		}
		cmd.SysProcAttr.Credential = &syscall.Credential{Uid: uid, Gid: gid}
	} else {
		log.Debugf("Current user lacks permissions to change identity, running %s as self", run.Path())
	}

	if sink == nil {
		sink = servicelog.LogrusSink{}
	}
	return &cancellableCommand{
		cmd:      cmd,
		output:   hooks.NewOutput(run.StdoutLogPath(), run.StderrLogPath()),
		preamble: pkg.Name + " hook[" + run.FileName() + "]:",
		sink:     sink,
	}, nil
}

func pkgEnvironment(pkg hooks.Pkg) []string {
	env := make([]string, 0, len(pkg.Env))
	for name, value := range pkg.Env {
		env = append(env, name+"="+value)
	}
	return env
}
