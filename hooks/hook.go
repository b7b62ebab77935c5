package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"

	"github.com/allegro/lifecycle-executor/servicelog"
)

// DefaultHookPermissions is the file mode applied to compiled hook scripts
// when no explicit mode is configured.
const DefaultHookPermissions os.FileMode = 0o755

// hook is the kind-independent core shared by all hook types. It owns the
// render pair of the compiled script and the log file paths capturing the
// output of its runs.
type hook struct {
	fileName      string
	render        RenderPair
	stdoutLogPath string
	stderrLogPath string
	permissions   os.FileMode
	sink          servicelog.Sink
	runTimer      metrics.Timer
	failCounter   metrics.Counter
}

// loadHook looks for a template of the hook named fileName in the configured
// template directory. Hook file names containing a hyphen may also be
// provided under a legacy underscore-separated name - the canonical name wins
// when both are present. A hook whose template cannot be loaded is treated as
// absent.
func loadHook(fileName string, cfg TableConfig) (*hook, bool) {
	logger := log.WithFields(log.Fields{
		"service": cfg.ServiceGroup,
		"hook":    fileName,
	})

	templatePath := filepath.Join(cfg.TemplatesDir, fileName)
	if strings.Contains(fileName, "-") {
		legacyName := strings.ReplaceAll(fileName, "-", "_")
		legacyPath := filepath.Join(cfg.TemplatesDir, legacyName)
		switch {
		case fileExists(templatePath) && fileExists(legacyPath):
			logger.Warnf("Deprecated hook file %s ignored in favour of %s, please remove it", legacyName, fileName)
		case fileExists(legacyPath):
			logger.Warnf("Deprecated hook file name %s detected, please rename it to %s", legacyName, fileName)
			templatePath = legacyPath
		}
	}
	if !fileExists(templatePath) {
		logger.Debugf("No template found under %s", templatePath)
		return nil, false
	}

	render, err := NewRenderPair(filepath.Join(cfg.HooksDir, fileName), templatePath)
	if err != nil {
		logger.WithError(err).Warnf("Failed to load hook %s", fileName)
		return nil, false
	}

	permissions := cfg.HookPermissions
	if permissions == 0 {
		permissions = DefaultHookPermissions
	}
	sink := cfg.Sink
	if sink == nil {
		sink = servicelog.LogrusSink{}
	}
	return &hook{
		fileName:      fileName,
		render:        render,
		stdoutLogPath: filepath.Join(cfg.LogsDir, fileName+".stdout.log"),
		stderrLogPath: filepath.Join(cfg.LogsDir, fileName+".stderr.log"),
		permissions:   permissions,
		sink:          sink,
		runTimer:      metrics.GetOrRegisterTimer("hooks.run."+fileName, metrics.DefaultRegistry),
		failCounter:   metrics.GetOrRegisterCounter("hooks.failed."+fileName, metrics.DefaultRegistry),
	}, true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// FileName returns the canonical file name of the hook.
func (h *hook) FileName() string {
	return h.fileName
}

// Path returns the path of the compiled hook script.
func (h *hook) Path() string {
	return h.render.Path
}

// StdoutLogPath returns the path of the captured stdout log of the hook.
func (h *hook) StdoutLogPath() string {
	return h.stdoutLogPath
}

// StderrLogPath returns the path of the captured stderr log of the hook.
func (h *hook) StderrLogPath() string {
	return h.stderrLogPath
}

// Compile renders the hook template against ctx and writes the result to the
// compiled script path when the content changed. Permissions are re-hardened
// after every content change. A permission error is reported together with
// changed set to true since the content write already happened.
func (h *hook) Compile(serviceGroup string, ctx interface{}) (bool, error) {
	content, err := h.render.Renderer.Render(h.fileName, ctx)
	if err != nil {
		return false, err
	}
	changed, err := WriteHook(content, h.render.Path)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}
	h.logger(serviceGroup).Infof("Modified hook content in %s", h.render.Path)
	if err := setPermissions(h.render.Path, h.permissions); err != nil {
		return true, errors.Wrapf(err, "unable to set permissions on %s", h.render.Path)
	}
	return true, nil
}

// execute spawns the compiled hook script, streams its output until it exits
// and returns its termination status. Spawn and wait failures are logged and
// reported as a nil status so callers fall back to the kind default.
func (h *hook) execute(serviceGroup string, pkg Pkg, svcPassword string) *ExitStatus {
	var status *ExitStatus
	h.runTimer.Time(func() {
		child, err := spawn(h.render.Path, pkg, svcPassword)
		if err != nil {
			h.failCounter.Inc(1)
			h.logger(serviceGroup).Warnf("Hook failed to run, %s, %s", h.fileName, err)
			return
		}
		output := NewOutput(h.stdoutLogPath, h.stderrLogPath)
		if err := output.Stream(h.preamble(serviceGroup), child.stdout, child.stderr, h.sink); err != nil {
			h.logger(serviceGroup).WithError(err).Warnf("Failed to capture output of %s", h.fileName)
		}
		exitStatus, err := child.wait()
		if err != nil {
			h.failCounter.Inc(1)
			h.logger(serviceGroup).Warnf("Hook failed to run, %s, %s", h.fileName, err)
			return
		}
		status = &exitStatus
	})
	return status
}

func (h *hook) preamble(serviceGroup string) string {
	return fmt.Sprintf("%s hook[%s]:", serviceGroup, h.fileName)
}

func (h *hook) logger(serviceGroup string) *log.Entry {
	return log.WithFields(log.Fields{
		"service": serviceGroup,
		"hook":    h.fileName,
	})
}

// exitToBool maps an exit status to success or failure, logging failMessage
// with the failing code appended on a non-zero exit.
func (h *hook) exitToBool(serviceGroup string, status *ExitStatus, failMessage string) bool {
	if status == nil {
		return false
	}
	code, ok := status.Code()
	if !ok {
		h.signalNotice(serviceGroup, status)
		return false
	}
	if code == 0 {
		return true
	}
	h.failCounter.Inc(1)
	h.logger(serviceGroup).Errorf("%s '%s' exited with status code %d", failMessage, h.fileName, code)
	return false
}

func (h *hook) signalNotice(serviceGroup string, status *ExitStatus) {
	h.failCounter.Inc(1)
	h.logger(serviceGroup).Errorf("%s was terminated by signal %d", h.fileName, status.Signal())
}
