package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIfCompilesPresentHooksOnlyOnce(t *testing.T) {
	table, cfg := prepareTable(t, map[string]string{
		"init": "#!/bin/sh\nexit 0\n",
		"run":  "#!/bin/sh\nexec sleep 1\n",
	})

	assert.True(t, table.Compile(cfg.ServiceGroup, nil))
	assert.False(t, table.Compile(cfg.ServiceGroup, nil))

	assert.FileExists(t, filepath.Join(cfg.HooksDir, "init"))
	assert.FileExists(t, filepath.Join(cfg.HooksDir, "run"))

	entries, err := os.ReadDir(cfg.HooksDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestIfRendersHookTemplateAgainstContext(t *testing.T) {
	table, cfg := prepareTable(t, map[string]string{
		"init": "#!/bin/sh\necho {{.message}}\n",
	})

	assert.True(t, table.Compile(cfg.ServiceGroup, map[string]string{"message": "ready"}))

	content, err := os.ReadFile(table.Init.Path())
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho ready\n", string(content))
}

func TestIfDetectsChangedRenderingContext(t *testing.T) {
	table, cfg := prepareTable(t, map[string]string{
		"init": "#!/bin/sh\necho {{.message}}\n",
	})

	assert.True(t, table.Compile(cfg.ServiceGroup, map[string]string{"message": "a"}))
	assert.False(t, table.Compile(cfg.ServiceGroup, map[string]string{"message": "a"}))
	assert.True(t, table.Compile(cfg.ServiceGroup, map[string]string{"message": "b"}))
}

func TestIfRenderFailureDoesNotAbortOtherHooks(t *testing.T) {
	table, cfg := prepareTable(t, map[string]string{
		"init": "#!/bin/sh\necho {{.missing}}\n",
		"run":  "#!/bin/sh\nexec sleep 1\n",
	})

	changed := table.Compile(cfg.ServiceGroup, map[string]string{})

	assert.True(t, changed) // the run hook still compiled
	assert.FileExists(t, filepath.Join(cfg.HooksDir, "run"))
	assert.NoFileExists(t, filepath.Join(cfg.HooksDir, "init"))
}
