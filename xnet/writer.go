package xnet

import (
	"io"
	"net"
)

// InstanceProvider is the channel where updated list of desired service
// instances are published
type InstanceProvider <-chan []Address

// RoundRobinWriter returns writer with round robin functionality. Every write
// could be sent to different backend.
func RoundRobinWriter(instanceProvider InstanceProvider, sender Sender) io.Writer {
	return &roundRobinWriter{provider: instanceProvider, sender: sender, instances: nil}
}

type roundRobinWriter struct {
	provider  InstanceProvider
	sender    Sender
	instances chan Address
}

func (r *roundRobinWriter) Write(payload []byte) (int, error) {
	if r.instances == nil {
		r.updateInstances(<-r.provider)
	}

	select {
	case newInstances := <-r.provider:
		r.updateInstances(newInstances)
		return r.write(payload)
	default:
		return r.write(payload)
	}
}

func (r *roundRobinWriter) updateInstances(newInstances []Address) {
	r.instances = make(chan Address, len(newInstances))
	for _, instance := range newInstances {
		r.instances <- instance
	}
}

func (r *roundRobinWriter) write(payload []byte) (int, error) {
	// Read next instance from queue
	instance := <-r.instances
	// Enqueue instance for round robin behaviour
	r.instances <- instance

	return r.sender.Send(instance, net.Buffers{payload})
}
