//go:build !windows

package os

import (
	"os/user"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIfResolvesCurrentUser(t *testing.T) {
	current, err := user.Current()
	require.NoError(t, err)
	expected, err := strconv.ParseUint(current.Uid, 10, 32)
	require.NoError(t, err)

	uid, ok := UIDForName(current.Username)

	assert.True(t, ok)
	assert.Equal(t, uint32(expected), uid)
}

func TestIfReportsMissingUser(t *testing.T) {
	_, ok := UIDForName("no-such-user-exists-here")

	assert.False(t, ok)
}

func TestIfReportsMissingGroup(t *testing.T) {
	_, ok := GIDForName("no-such-group-exists-here")

	assert.False(t, ok)
}
