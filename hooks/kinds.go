package hooks

import (
	"strconv"
	"strings"
)

// Canonical hook file names. Names containing a hyphen may also be provided
// under a legacy underscore-separated alias.
const (
	FileUpdatedFileName = "file-updated"
	HealthCheckFileName = "health-check"
	InitFileName        = "init"
	InstallFileName     = "install"
	ReloadFileName      = "reload"
	ReconfigureFileName = "reconfigure"
	SuitabilityFileName = "suitability"
	RunFileName         = "run"
	PostRunFileName     = "post-run"
	SmokeTestFileName   = "smoke-test"
	PostStopFileName    = "post-stop"
)

// FileUpdatedHook runs when a watched file of the service changed. It reports
// whether the hook handled the change successfully.
type FileUpdatedHook struct {
	hook
}

// Run executes the hook and reports whether it exited cleanly.
func (h *FileUpdatedHook) Run(serviceGroup string, pkg Pkg, svcPassword string) bool {
	status := h.execute(serviceGroup, pkg, svcPassword)
	return h.exitToBool(serviceGroup, status, "File update failed!")
}

// HealthCheckHook reports the health of the running service.
type HealthCheckHook struct {
	hook
}

// Run executes the hook and maps its exit code to a health check result.
// Codes zero to three map to OK, WARNING, CRITICAL and UNKNOWN, any other
// code reports UNKNOWN with a warning.
func (h *HealthCheckHook) Run(serviceGroup string, pkg Pkg, svcPassword string) HealthCheck {
	status := h.execute(serviceGroup, pkg, svcPassword)
	if status == nil {
		return HealthUnknown
	}
	code, ok := status.Code()
	if !ok {
		h.signalNotice(serviceGroup, status)
		return HealthUnknown
	}
	switch code {
	case 0:
		return HealthOK
	case 1:
		return HealthWarning
	case 2:
		return HealthCritical
	case 3:
		return HealthUnknown
	}
	h.logger(serviceGroup).Warnf("Health check exited with an unknown status code, %d", code)
	return HealthUnknown
}

// InitHook runs once before the service main process is first started.
type InitHook struct {
	hook
}

// Run executes the hook and reports whether initialization succeeded.
func (h *InitHook) Run(serviceGroup string, pkg Pkg, svcPassword string) bool {
	status := h.execute(serviceGroup, pkg, svcPassword)
	return h.exitToBool(serviceGroup, status, "Initialization failed!")
}

// InstallHook runs when the service package is installed.
type InstallHook struct {
	hook
}

// Run executes the hook and reports whether installation succeeded.
func (h *InstallHook) Run(serviceGroup string, pkg Pkg, svcPassword string) bool {
	status := h.execute(serviceGroup, pkg, svcPassword)
	return h.exitToBool(serviceGroup, status, "Installation failed!")
}

// ReloadHook asks a running service to reload without restarting.
type ReloadHook struct {
	hook
}

// Run executes the hook and returns its raw exit code. A non-zero code is
// logged as a reload failure but still returned to the caller.
func (h *ReloadHook) Run(serviceGroup string, pkg Pkg, svcPassword string) ExitCode {
	status := h.execute(serviceGroup, pkg, svcPassword)
	if status == nil {
		return DefaultExitCode
	}
	code, ok := status.Code()
	if !ok {
		h.signalNotice(serviceGroup, status)
		return DefaultExitCode
	}
	if code != 0 {
		h.logger(serviceGroup).Errorf("Reload failed! '%s' exited with status code %d", h.fileName, code)
	}
	return ExitCode(code)
}

// ReconfigureHook runs after the service configuration changed.
type ReconfigureHook struct {
	hook
}

// Run executes the hook and returns its raw exit code.
func (h *ReconfigureHook) Run(serviceGroup string, pkg Pkg, svcPassword string) ExitCode {
	status := h.execute(serviceGroup, pkg, svcPassword)
	return h.rawExitCode(serviceGroup, status)
}

// SuitabilityHook lets a service report a numeric fitness score used for
// leader selection among its peers.
type SuitabilityHook struct {
	hook
}

// Run executes the hook and, on a clean exit, parses the last line the hook
// printed to stdout as an unsigned integer. It returns nil when the hook
// failed, printed nothing or printed something that is not a number.
func (h *SuitabilityHook) Run(serviceGroup string, pkg Pkg, svcPassword string) *uint64 {
	status := h.execute(serviceGroup, pkg, svcPassword)
	if status == nil {
		return nil
	}
	logger := h.logger(serviceGroup)
	code, ok := status.Code()
	if !ok {
		h.signalNotice(serviceGroup, status)
		return nil
	}
	if code != 0 {
		logger.Warnf("Suitability failed! '%s' exited with status code %d", h.fileName, code)
		return nil
	}
	line, err := lastLine(h.stdoutLogPath)
	if err != nil {
		logger.Warnf("Failed to read last line of stdout, %s", err)
		return nil
	}
	if line == "" {
		logger.Warnf("%s did not print anything to stdout", h.fileName)
		return nil
	}
	value, err := strconv.ParseUint(strings.TrimSpace(line), 10, 64)
	if err != nil {
		logger.Warnf("Parsing suitability failed: %s", err)
		return nil
	}
	logger.Infof("Reporting suitability of: %d", value)
	return &value
}

// RunHook is the main process of the service. It is compiled like any other
// hook but its execution is owned by the service runner which supervises the
// process for the whole service lifetime.
type RunHook struct {
	hook
}

// Run must never be called. The run hook is not a one-shot script and its
// process is managed by the service runner instead.
func (h *RunHook) Run(string, Pkg, string) ExitCode {
	panic("run hooks are managed by the service runner and cannot be invoked directly")
}

// PostRunHook runs once after the service main process started.
type PostRunHook struct {
	hook
}

// Run executes the hook and returns its raw exit code.
func (h *PostRunHook) Run(serviceGroup string, pkg Pkg, svcPassword string) ExitCode {
	status := h.execute(serviceGroup, pkg, svcPassword)
	return h.rawExitCode(serviceGroup, status)
}

// SmokeTestHook verifies a freshly installed service package.
type SmokeTestHook struct {
	hook
}

// Run executes the hook and returns SmokeOK on a clean exit or the failing
// exit code otherwise.
func (h *SmokeTestHook) Run(serviceGroup string, pkg Pkg, svcPassword string) SmokeCheck {
	status := h.execute(serviceGroup, pkg, svcPassword)
	if status == nil {
		return DefaultSmokeCheck
	}
	code, ok := status.Code()
	if !ok {
		h.signalNotice(serviceGroup, status)
		return DefaultSmokeCheck
	}
	if code != 0 {
		h.logger(serviceGroup).Errorf("Smoke test failed! '%s' exited with status code %d", h.fileName, code)
	}
	return SmokeCheck(code)
}

// PostStopHook runs after the service main process stopped.
type PostStopHook struct {
	hook
}

// Run executes the hook and reports whether it exited cleanly.
func (h *PostStopHook) Run(serviceGroup string, pkg Pkg, svcPassword string) bool {
	status := h.execute(serviceGroup, pkg, svcPassword)
	return h.exitToBool(serviceGroup, status, "Post stop failed!")
}

// rawExitCode wraps any reported exit code verbatim, falling back to the
// default code when the process never produced one.
func (h *hook) rawExitCode(serviceGroup string, status *ExitStatus) ExitCode {
	if status == nil {
		return DefaultExitCode
	}
	code, ok := status.Code()
	if !ok {
		h.signalNotice(serviceGroup, status)
		return DefaultExitCode
	}
	return ExitCode(code)
}
