package xnet

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []Address
}

func (s *recordingSender) Send(addr Address, payload net.Buffers) (int, error) {
	s.sent = append(s.sent, addr)
	total := 0
	for _, b := range payload {
		total += len(b)
	}
	return total, nil
}

func (s *recordingSender) Release() error { return nil }

func TestIfSpreadsWritesOverInstances(t *testing.T) {
	provider := make(chan []Address, 1)
	provider <- []Address{"a:1", "b:2"}
	sender := &recordingSender{}
	writer := RoundRobinWriter(provider, sender)

	for i := 0; i < 4; i++ {
		n, err := writer.Write([]byte("x"))
		require.NoError(t, err)
		require.Equal(t, 1, n)
	}

	assert.Equal(t, []Address{"a:1", "b:2", "a:1", "b:2"}, sender.sent)
}

func TestIfUsesUpdatedInstancesList(t *testing.T) {
	provider := make(chan []Address, 1)
	provider <- []Address{"a:1"}
	sender := &recordingSender{}
	writer := RoundRobinWriter(provider, sender)

	_, err := writer.Write([]byte("x"))
	require.NoError(t, err)

	provider <- []Address{"c:3"}
	_, err = writer.Write([]byte("x"))
	require.NoError(t, err)

	assert.Equal(t, []Address{"a:1", "c:3"}, sender.sent)
}
