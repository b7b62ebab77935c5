// Package state tracks the lifecycle status of a supervised service and
// publishes status updates to interested listeners.
package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pborman/uuid"
	log "github.com/sirupsen/logrus"
)

// Status represents the lifecycle status of a supervised service.
type Status string

const (
	// Starting means service hooks are being compiled and the init hook runs.
	Starting Status = "STARTING"
	// Running means the service main process has been started.
	Running Status = "RUNNING"
	// Healthy means the last health check reported no problems.
	Healthy Status = "HEALTHY"
	// Unhealthy means the last health check reported a warning or critical state.
	Unhealthy Status = "UNHEALTHY"
	// Failed means the service main process or a mandatory hook failed.
	Failed Status = "FAILED"
	// Stopped means the service was shut down and its shutdown hooks finished.
	Stopped Status = "STOPPED"
)

// Update is a single service status change event.
type Update struct {
	// ID is a unique identifier of the update, used for acknowledgements.
	ID []byte
	// Service is the name of the service group the update concerns.
	Service string
	// Status is the new service status.
	Status Status
	// Message is an optional human readable description of the change.
	Message string
	// Timestamp is the update creation time.
	Timestamp time.Time
}

// Listener receives service status updates. Implementations should return an
// error when the update could not be delivered so it can be retried.
type Listener interface {
	HandleUpdate(Update) error
}

// ListenerFunc is an adapter allowing plain functions to act as Listeners.
type ListenerFunc func(Update) error

// HandleUpdate calls the wrapped function.
func (f ListenerFunc) HandleUpdate(update Update) error {
	return f(update)
}

// Updater is an interface for types responsible for publishing service status
// updates. Implementation should handle all the retry logic when a listener
// is temporarily unable to accept updates.
type Updater interface {
	// Update publishes a service status update. It should be a non-blocking
	// call.
	Update(service string, status Status)

	// UpdateWithMessage publishes a service status update with an additional
	// message. It should be a non-blocking call.
	UpdateWithMessage(service string, status Status, message string)

	// Acknowledge marks status update with matching id as delivered.
	Acknowledge(id []byte)

	// GetUnacknowledged returns slice of undelivered status updates.
	GetUnacknowledged() []Update

	// Wait continues publishing buffered status updates until all of them are
	// delivered or given duration is exceeded.
	Wait(timeout time.Duration) error
}

type bufferedUpdater struct {
	mutex        sync.RWMutex
	buffer       chan Update
	listener     Listener
	ctx          context.Context
	ctxCancel    context.CancelFunc
	unAckUpdates map[string]Update
}

func (u *bufferedUpdater) Update(service string, status Status) {
	u.update(service, status, "")
}

func (u *bufferedUpdater) UpdateWithMessage(service string, status Status, message string) {
	u.update(service, status, message)
}

func (u *bufferedUpdater) update(service string, status Status, message string) {
	u.buffer <- Update{
		ID:        []byte(uuid.NewRandom()),
		Service:   service,
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func (u *bufferedUpdater) Acknowledge(id []byte) {
	uuidString := uuid.UUID(id).String()
	log.WithField("UUID", uuidString).Info("Status update acknowledged")
	u.mutex.Lock()
	delete(u.unAckUpdates, uuidString)
	u.mutex.Unlock()
}

func (u *bufferedUpdater) GetUnacknowledged() []Update {
	u.mutex.RLock()
	unacknowledged := make([]Update, 0, len(u.unAckUpdates))
	for _, update := range u.unAckUpdates {
		unacknowledged = append(unacknowledged, update)
	}
	u.mutex.RUnlock()
	return unacknowledged
}

func (u *bufferedUpdater) Wait(timeout time.Duration) error {
	defer u.ctxCancel()

	ticker := time.NewTicker(time.Millisecond * 100)
	defer ticker.Stop()
	start := time.Now()

	for range ticker.C {
		if len(u.buffer) == 0 && len(u.GetUnacknowledged()) == 0 {
			return nil
		} else if time.Since(start) >= timeout {
			return fmt.Errorf("Timeout during status update buffer cleaning, %d events remained, %d events unacknowledged",
				len(u.buffer), len(u.GetUnacknowledged()))
		}
	}

	return nil
}

func (u *bufferedUpdater) loop() {
	go func() {
		for {
			select {
			case update := <-u.buffer:
				stringUUID := uuid.UUID(update.ID).String()
				log.WithFields(log.Fields{
					"Status": update.Status,
					"UUID":   stringUUID,
				}).Info("Publishing service status update")

				u.mutex.Lock()
				u.unAckUpdates[stringUUID] = update
				u.mutex.Unlock()

				if err := u.listener.HandleUpdate(update); err != nil {
					log.WithError(err).Warnf("Error publishing %s status update, requeuing", update.Status)
					u.buffer <- update
					continue
				}
				u.Acknowledge(update.ID)
			case <-u.ctx.Done():
				return
			}
		}
	}()
}

// BufferedUpdater returns an updater implementation that keeps status updates
// in a buffered channel (to allow non-blocking calls to the Update function).
// It will be trying to deliver buffered status updates in a background
// goroutine until Wait is called.
func BufferedUpdater(listener Listener, bufferSize int) Updater {
	ctx, ctxCancelFunc := context.WithCancel(context.Background())
	updater := &bufferedUpdater{
		buffer:       make(chan Update, bufferSize),
		listener:     listener,
		ctx:          ctx,
		ctxCancel:    ctxCancelFunc,
		unAckUpdates: make(map[string]Update),
	}
	updater.loop()
	return updater
}
