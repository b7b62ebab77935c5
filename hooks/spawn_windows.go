//go:build windows

package hooks

import (
	"fmt"
	"os/exec"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

const (
	logon32LogonInteractive = 2
	logon32ProviderDefault  = 0
)

// spawn starts the compiled hook script at path through the PowerShell
// interpreter since hook scripts cannot be executed directly on Windows. When
// a service password is passed the child process runs under an identity token
// obtained for the package service user.
func spawn(path string, pkg Pkg, svcPassword string) (*child, error) {
	command := fmt.Sprintf("iex $(gc %s | out-string)", path)
	cmd := exec.Command("pwsh.exe", "-NonInteractive", "-command", command)
	cmd.Stdin = nil
	cmd.Env = environment(pkg.Env)

	if svcPassword != "" {
		token, err := logonUser(pkg.SvcUser, svcPassword)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to obtain token for user '%s'", pkg.SvcUser)
		}
		cmd.SysProcAttr = &syscall.SysProcAttr{Token: token}
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

func logonUser(username, password string) (syscall.Token, error) {
	user, err := windows.UTF16PtrFromString(username)
	if err != nil {
		return 0, err
	}
	domain, err := windows.UTF16PtrFromString(".")
	if err != nil {
		return 0, err
	}
	pass, err := windows.UTF16PtrFromString(password)
	if err != nil {
		return 0, err
	}

	logonUserW := windows.NewLazySystemDLL("advapi32.dll").NewProc("LogonUserW")
	var token windows.Token
	ret, _, err := logonUserW.Call(
		uintptr(unsafe.Pointer(user)),
		uintptr(unsafe.Pointer(domain)),
		uintptr(unsafe.Pointer(pass)),
		uintptr(logon32LogonInteractive),
		uintptr(logon32ProviderDefault),
		uintptr(unsafe.Pointer(&token)),
	)
	if ret == 0 {
		return 0, err
	}
	return syscall.Token(token), nil
}
