//go:build !windows

package executor

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allegro/lifecycle-executor/hooks"
	"github.com/allegro/lifecycle-executor/state"
)

type recordingListener struct {
	mutex    sync.Mutex
	statuses []state.Status
}

func (l *recordingListener) HandleUpdate(update state.Update) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.statuses = append(l.statuses, update.Status)
	return nil
}

func (l *recordingListener) recorded() []state.Status {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return append([]state.Status{}, l.statuses...)
}

func (l *recordingListener) waitFor(t *testing.T, status state.Status) {
	t.Helper()
	deadline := time.Now().Add(time.Second * 10)
	for time.Now().Before(deadline) {
		for _, recorded := range l.recorded() {
			if recorded == status {
				return
			}
		}
		time.Sleep(time.Millisecond * 10)
	}
	t.Fatalf("timed out waiting for status %s, recorded %v", status, l.recorded())
}

func testConfig() Config {
	return Config{
		KillPolicyGracePeriod:  time.Millisecond * 100,
		HealthCheckInterval:    time.Hour,
		MaxHealthCheckFailures: 3,
		StateUpdateBufferSize:  16,
		StateUpdateWaitTimeout: time.Second,
	}
}

func prepareService(t *testing.T, cfg Config, templates map[string]string) (*Service, *recordingListener) {
	t.Helper()
	dir := t.TempDir()
	templatesDir := filepath.Join(dir, "templates")
	require.NoError(t, os.MkdirAll(templatesDir, 0o755))
	for name, content := range templates {
		require.NoError(t, os.WriteFile(filepath.Join(templatesDir, name), []byte(content), 0o644))
	}

	pkg := testPkg()
	table := hooks.LoadTable(hooks.TableConfig{
		ServiceGroup: pkg.Name,
		TemplatesDir: templatesDir,
		HooksDir:     filepath.Join(dir, "hooks"),
		LogsDir:      filepath.Join(dir, "logs"),
	})

	listener := &recordingListener{}
	updater := state.BufferedUpdater(listener, cfg.StateUpdateBufferSize)
	service := NewService(cfg, ServiceOptions{Pkg: pkg, Table: table}, updater)
	return service, listener
}

func TestIfRunsServiceLifecycle(t *testing.T) {
	service, listener := prepareService(t, testConfig(), map[string]string{
		"init":      "#!/bin/sh\nexit 0\n",
		"run":       "#!/bin/sh\nsleep 60\n",
		"post-stop": "#!/bin/sh\nexit 0\n",
	})

	done := make(chan error, 1)
	go func() {
		done <- service.Start()
	}()

	listener.waitFor(t, state.Running)
	service.Stop()

	require.NoError(t, <-done)
	listener.waitFor(t, state.Stopped)
	assert.Contains(t, listener.recorded(), state.Starting)
}

func TestIfFailsStartupWhenInitHookFails(t *testing.T) {
	service, listener := prepareService(t, testConfig(), map[string]string{
		"init": "#!/bin/sh\nexit 1\n",
		"run":  "#!/bin/sh\nsleep 60\n",
	})

	err := service.Start()

	require.Error(t, err)
	assert.Equal(t, "Initialization failed!", err.Error())
	listener.waitFor(t, state.Failed)
}

func TestIfFailsStartupWithoutRunHook(t *testing.T) {
	service, _ := prepareService(t, testConfig(), map[string]string{
		"init": "#!/bin/sh\nexit 0\n",
	})

	err := service.Start()

	require.Error(t, err)
	assert.Equal(t, "Service has no run hook", err.Error())
}

func TestIfReportsFailureWhenServiceProcessExits(t *testing.T) {
	service, listener := prepareService(t, testConfig(), map[string]string{
		"run": "#!/bin/sh\nexit 1\n",
	})

	err := service.Start()

	require.Error(t, err)
	listener.waitFor(t, state.Failed)
}

func TestIfHealthCheckResultsUpdateServiceState(t *testing.T) {
	cfg := testConfig()
	cfg.HealthCheckInterval = time.Millisecond * 50
	service, listener := prepareService(t, cfg, map[string]string{
		"run":          "#!/bin/sh\nsleep 60\n",
		"health-check": "#!/bin/sh\nexit 0\n",
	})

	done := make(chan error, 1)
	go func() {
		done <- service.Start()
	}()

	listener.waitFor(t, state.Healthy)
	service.Stop()
	require.NoError(t, <-done)
}

func TestIfShutsDownServiceAfterRepeatedHealthCheckFailures(t *testing.T) {
	cfg := testConfig()
	cfg.HealthCheckInterval = time.Millisecond * 50
	cfg.MaxHealthCheckFailures = 2
	service, listener := prepareService(t, cfg, map[string]string{
		"run":          "#!/bin/sh\nsleep 60\n",
		"health-check": "#!/bin/sh\nexit 2\n",
	})

	err := service.Start()

	require.Error(t, err)
	listener.waitFor(t, state.Unhealthy)
	listener.waitFor(t, state.Failed)
}

func TestIfRunsAuxiliaryHooksOnRequest(t *testing.T) {
	service, _ := prepareService(t, testConfig(), map[string]string{
		"reload":      "#!/bin/sh\nexit 0\n",
		"suitability": "#!/bin/sh\necho 7\n",
		"smoke-test":  "#!/bin/sh\nexit 0\n",
	})
	require.True(t, service.table.Compile(service.pkg.Name, nil))

	assert.Equal(t, hooks.ExitCode(0), service.Reload())
	assert.Equal(t, hooks.SmokeOK, service.SmokeTest())
	suitability := service.Suitability()
	require.NotNil(t, suitability)
	assert.Equal(t, uint64(7), *suitability)
	assert.True(t, service.FileUpdated()) // absent hook reports success
}
