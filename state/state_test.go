package state

import (
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	mutex   sync.Mutex
	updates []Update
	calls   chan Update
}

func newRecordingListener(size int) *recordingListener {
	return &recordingListener{calls: make(chan Update, size)}
}

func (l *recordingListener) HandleUpdate(update Update) error {
	l.mutex.Lock()
	l.updates = append(l.updates, update)
	l.mutex.Unlock()
	l.calls <- update
	return nil
}

func TestIfDeliversBufferedStatusUpdatesOnExit(t *testing.T) {
	const updatesCount = 5
	listener := newRecordingListener(updatesCount)
	updater := BufferedUpdater(listener, updatesCount) // ensure async Update call

	for i := 0; i < updatesCount; i++ {
		updater.Update("redis", Running)
	}

	for i := 0; i < updatesCount; i++ {
		update := <-listener.calls
		assert.Equal(t, "redis", update.Service)
		assert.Equal(t, Running, update.Status)
	}

	err := updater.Wait(time.Second)

	assert.NoError(t, err)
	assert.Empty(t, updater.GetUnacknowledged())
}

func TestIfDeliversUpdatesWithMessage(t *testing.T) {
	listener := newRecordingListener(1)
	updater := BufferedUpdater(listener, 0) // force sync Update call

	updater.UpdateWithMessage("redis", Failed, "Initialization failed!")

	update := <-listener.calls
	assert.Equal(t, Failed, update.Status)
	assert.Equal(t, "Initialization failed!", update.Message)
	assert.NotEmpty(t, update.ID)
	assert.False(t, update.Timestamp.IsZero())
}

func TestIfRequeuesUpdatesOnDeliveryError(t *testing.T) {
	var mutex sync.Mutex
	failures := 2
	delivered := make(chan Update, 1)
	listener := ListenerFunc(func(update Update) error {
		mutex.Lock()
		defer mutex.Unlock()
		if failures > 0 {
			failures--
			return errors.New("listener unavailable")
		}
		delivered <- update
		return nil
	})
	updater := BufferedUpdater(listener, 1)

	updater.Update("redis", Stopped)

	update := <-delivered
	assert.Equal(t, Stopped, update.Status)
	require.NoError(t, updater.Wait(time.Second*5))
}

func TestIfWaitTimesOutWhenUpdatesCannotBeDelivered(t *testing.T) {
	listener := ListenerFunc(func(Update) error {
		return errors.New("listener unavailable")
	})
	updater := BufferedUpdater(listener, 1)

	updater.Update("redis", Failed)

	err := updater.Wait(time.Millisecond * 300)

	assert.Error(t, err)
}
