//go:build !windows

package hooks

import (
	"os/exec"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	osutil "github.com/allegro/lifecycle-executor/os"
)

// spawn starts the compiled hook script at path with the package environment.
// When the supervisor runs with enough privileges the child process assumes
// the identity of the package service user and group, otherwise it runs as
// the current user. The service password is only used on Windows and is
// ignored here.
func spawn(path string, pkg Pkg, _ string) (*child, error) {
	cmd := exec.Command(path)
	cmd.Stdin = nil
	cmd.Env = environment(pkg.Env)

	if osutil.CanRunAsUser() {
		uid, ok := osutil.UIDForName(pkg.SvcUser)
		if !ok {
			return nil, errors.Errorf("no uid for user '%s' could be found", pkg.SvcUser)
		}
		gid, ok := osutil.GIDForName(pkg.SvcGroup)
		if !ok {
			return nil, errors.Errorf("no gid for group '%s' could be found", pkg.SvcGroup)
		}
		cmd.SysProcAttr = &syscall.SysProcAttr{
			Credential: &syscall.Credential{Uid: uid, Gid: gid},
		}
	} else {
		log.Debugf("Current user lacks permissions to change identity, running %s as self", path)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open stdout pipe for %s", path)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open stderr pipe for %s", path)
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "unable to start %s", path)
	}
	return &child{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}
