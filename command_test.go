//go:build !windows

package executor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allegro/lifecycle-executor/hooks"
)

func testPkg() hooks.Pkg {
	return hooks.Pkg{
		Name:     "redis.default",
		SvcUser:  "root",
		SvcGroup: "root",
		Env:      map[string]string{"PATH": "/bin:/usr/bin", "SVC_VAR": "value"},
	}
}

func compiledRunHook(t *testing.T, script string) *hooks.RunHook {
	t.Helper()
	dir := t.TempDir()
	templatesDir := filepath.Join(dir, "templates")
	require.NoError(t, os.MkdirAll(templatesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(templatesDir, "run"), []byte(script), 0o644))

	table := hooks.LoadTable(hooks.TableConfig{
		ServiceGroup: "redis.default",
		TemplatesDir: templatesDir,
		HooksDir:     filepath.Join(dir, "hooks"),
		LogsDir:      filepath.Join(dir, "logs"),
	})
	require.NotNil(t, table.Run)
	require.True(t, table.Compile("redis.default", nil))
	return table.Run
}

func TestIfNewRunCommandReturnsConfiguredCommand(t *testing.T) {
	run := compiledRunHook(t, "#!/bin/sh\nexec sleep 100\n")

	command, err := NewRunCommand(run, testPkg(), nil)
	require.NoError(t, err)
	cmd := command.(*cancellableCommand).cmd

	assert.Equal(t, run.Path(), cmd.Path)
	assert.Contains(t, cmd.Env, "SVC_VAR=value")
	assert.True(t, cmd.SysProcAttr.Setpgid, "should have pgid flag set to true")
}

func TestIfWaitReportsSuccessfulExit(t *testing.T) {
	run := compiledRunHook(t, "#!/bin/sh\nexit 0\n")
	command, err := NewRunCommand(run, testPkg(), nil)
	require.NoError(t, err)

	require.NoError(t, command.Start())
	exitState := <-command.Wait()

	assert.Equal(t, SuccessCode, exitState.Code)
}

func TestIfWaitReportsFailedExit(t *testing.T) {
	run := compiledRunHook(t, "#!/bin/sh\nexit 7\n")
	command, err := NewRunCommand(run, testPkg(), nil)
	require.NoError(t, err)

	require.NoError(t, command.Start())
	exitState := <-command.Wait()

	assert.Equal(t, FailedCode, exitState.Code)
	assert.Error(t, exitState.Err)
}

func TestIfStopKillsServiceProcess(t *testing.T) {
	run := compiledRunHook(t, "#!/bin/sh\nsleep 60\n")
	command, err := NewRunCommand(run, testPkg(), nil)
	require.NoError(t, err)

	require.NoError(t, command.Start())
	exitChan := command.Wait()
	command.Stop(time.Millisecond * 100)

	exitState := <-exitChan
	assert.Equal(t, KilledCode, exitState.Code)
}

func TestIfTeesServiceOutputToLogFile(t *testing.T) {
	run := compiledRunHook(t, "#!/bin/sh\necho started\n")
	command, err := NewRunCommand(run, testPkg(), nil)
	require.NoError(t, err)

	require.NoError(t, command.Start())
	<-command.Wait()

	stdout, err := os.ReadFile(run.StdoutLogPath())
	require.NoError(t, err)
	assert.Equal(t, "started\n", string(stdout))
}
