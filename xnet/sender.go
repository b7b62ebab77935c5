// Package xnet provides network writers used to ship hook output entries to
// external log storage instances.
package xnet

import (
	"net"
	"strings"
)

// Address of a service in IP:PORT format
type Address string

// Sender sends payloads to the given network address.
type Sender interface {
	// Send sends given payload to passed address. It returns number of bytes
	// sent and error - if there was any.
	Send(addr Address, payload net.Buffers) (int, error)
	// Release frees system resources used by sender.
	Release() error
}

// MultiError aggregates multiple errors into one.
type MultiError []error

func (e MultiError) Error() string {
	messages := make([]string, len(e))
	for i, err := range e {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}
