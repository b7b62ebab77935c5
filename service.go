//go:build !windows

package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/allegro/lifecycle-executor/hooks"
	"github.com/allegro/lifecycle-executor/servicelog"
	"github.com/allegro/lifecycle-executor/state"
)

// Service is responsible for launching and monitoring a single supervised
// service: compiling its lifecycle hooks, starting its main process through
// the run hook and driving the remaining hooks while the process runs.
type Service struct {
	config        Config
	context       context.Context
	contextCancel context.CancelFunc
	pkg           hooks.Pkg
	table         hooks.Table
	renderCtx     interface{}
	svcPassword   string
	sink          servicelog.Sink
	stateUpdater  state.Updater
	events        chan Event
	random        random
}

// ServiceOptions bundles the per-service inputs of a Service.
type ServiceOptions struct {
	// Pkg is the package the service runs from.
	Pkg hooks.Pkg
	// Table holds the loaded lifecycle hooks of the service.
	Table hooks.Table
	// RenderContext is passed to every hook template during compilation.
	RenderContext interface{}
	// SvcPassword is the optional service user password used to establish
	// the process identity on Windows. Ignored on POSIX systems.
	SvcPassword string
	// Sink receives service and hook output lines, the operational log when
	// nil.
	Sink servicelog.Sink
}

// Event is an internal service event that triggers specific actions driven
// by current state and Type.
type Event struct {
	Type EventType
	// Message store the human readable information about
	// current event. For example reason of the event or
	// additional debug message.
	Message string
}

// EventType defines type of the Event.
type EventType int

const (
	// Healthy means the service health check passed.
	Healthy EventType = iota
	// Unhealthy means the service health check failed. Fail reason should be
	// passed in Event Message field.
	Unhealthy
	// FailedDueToUnhealthy means the service health check failed repeatedly
	// and the service should be killed because it is unhealthy for a longer
	// period of time. Fail reason should be passed in Event Message field.
	FailedDueToUnhealthy
	// CommandExited means the service main process has exited. Message should
	// contain information about the exit code.
	CommandExited
	// Kill means the service should be stopped on request.
	Kill
)

// NewService creates a new service runner configured by cfg.
func NewService(cfg Config, opts ServiceOptions, updater state.Updater) *Service {
	log.Info("Initializing service with following configuration:")
	log.Infof("ServicesRoot           = %s", cfg.ServicesRoot)
	log.Infof("KillPolicyGracePeriod  = %s", cfg.KillPolicyGracePeriod)
	log.Infof("HealthCheckInterval    = %s", cfg.HealthCheckInterval)
	log.Infof("HealthCheckJitter      = %s", cfg.HealthCheckJitter)
	log.Infof("MaxHealthCheckFailures = %d", cfg.MaxHealthCheckFailures)

	sink := opts.Sink
	if sink == nil {
		sink = servicelog.LogrusSink{}
	}
	ctx, ctxCancel := context.WithCancel(context.Background())
	return &Service{
		config:        cfg,
		context:       ctx,
		contextCancel: ctxCancel,
		pkg:           opts.Pkg,
		table:         opts.Table,
		renderCtx:     opts.RenderContext,
		svcPassword:   opts.SvcPassword,
		sink:          sink,
		stateUpdater:  updater,
		events:        make(chan Event),
		random:        newRandom(),
	}
}

// Start compiles the service hooks, runs the startup hooks and launches the
// service main process. It blocks until the service stops, either on request,
// on repeated health check failures or because its process exited.
func (s *Service) Start() error {
	s.stateUpdater.Update(s.pkg.Name, state.Starting)

	if s.table.Compile(s.pkg.Name, s.renderCtx) {
		log.WithField("service", s.pkg.Name).Info("Hook content changed during compilation")
	}

	if s.table.Install != nil && !s.table.Install.Run(s.pkg.Name, s.pkg, s.svcPassword) {
		return s.failStartup("Installation failed!")
	}
	if s.table.Init != nil && !s.table.Init.Run(s.pkg.Name, s.pkg, s.svcPassword) {
		return s.failStartup("Initialization failed!")
	}
	if s.table.Run == nil {
		return s.failStartup("Service has no run hook")
	}

	cmd, err := NewRunCommand(s.table.Run, s.pkg, s.sink)
	if err != nil {
		return s.failStartup(fmt.Sprintf("Cannot create service command: %s", err))
	}
	if err := cmd.Start(); err != nil {
		return s.failStartup(fmt.Sprintf("Cannot start service command: %s", err))
	}
	s.stateUpdater.Update(s.pkg.Name, state.Running)

	go serviceExitToEvent(cmd.Wait(), s.events)

	if s.table.PostRun != nil {
		if code := s.table.PostRun.Run(s.pkg.Name, s.pkg, s.svcPassword); code != 0 {
			log.WithField("service", s.pkg.Name).Warnf("Post run hook exited with status code %d", code)
		}
	}
	if s.table.HealthCheck != nil {
		go s.healthCheckLoop()
	}

	return s.eventLoop(cmd)
}

// Stop requests a shutdown of the service. It returns immediately, Start
// returns once the shutdown finished.
func (s *Service) Stop() {
	s.events <- Event{Type: Kill}
}

// Reload runs the reload hook of the service and returns its exit code, or
// the default code when the service has no reload hook.
func (s *Service) Reload() hooks.ExitCode {
	if s.table.Reload == nil {
		return hooks.DefaultExitCode
	}
	return s.table.Reload.Run(s.pkg.Name, s.pkg, s.svcPassword)
}

// Reconfigure recompiles the hooks against ctx and runs the reconfigure hook.
// It reports whether any hook content changed together with the reconfigure
// hook exit code.
func (s *Service) Reconfigure(ctx interface{}) (bool, hooks.ExitCode) {
	s.renderCtx = ctx
	changed := s.table.Compile(s.pkg.Name, ctx)
	if s.table.Reconfigure == nil {
		return changed, hooks.DefaultExitCode
	}
	return changed, s.table.Reconfigure.Run(s.pkg.Name, s.pkg, s.svcPassword)
}

// FileUpdated runs the file-updated hook of the service. It reports true when
// the service has no such hook.
func (s *Service) FileUpdated() bool {
	if s.table.FileUpdated == nil {
		return true
	}
	return s.table.FileUpdated.Run(s.pkg.Name, s.pkg, s.svcPassword)
}

// Suitability runs the suitability hook and returns the reported fitness
// score, or nil when the service has no suitability hook or the hook failed.
func (s *Service) Suitability() *uint64 {
	if s.table.Suitability == nil {
		return nil
	}
	return s.table.Suitability.Run(s.pkg.Name, s.pkg, s.svcPassword)
}

// SmokeTest runs the smoke-test hook of the service. It reports SmokeOK when
// the service has no such hook.
func (s *Service) SmokeTest() hooks.SmokeCheck {
	if s.table.SmokeTest == nil {
		return hooks.SmokeOK
	}
	return s.table.SmokeTest.Run(s.pkg.Name, s.pkg, s.svcPassword)
}

func (s *Service) failStartup(message string) error {
	s.contextCancel()
	s.stateUpdater.UpdateWithMessage(s.pkg.Name, state.Failed, message)
	s.drainUpdates()
	return errors.New(message)
}

func (s *Service) healthCheckLoop() {
	failures := 0
	for {
		interval := s.config.HealthCheckInterval + s.random.Duration(s.config.HealthCheckJitter)
		select {
		case <-s.context.Done():
			return
		case <-time.After(interval):
		}

		result := s.table.HealthCheck.Run(s.pkg.Name, s.pkg, s.svcPassword)
		if result == hooks.HealthOK {
			failures = 0
			s.sendEvent(Event{Type: Healthy})
			continue
		}
		failures++
		message := fmt.Sprintf("Health check reported %s", result)
		if failures >= s.config.MaxHealthCheckFailures {
			s.sendEvent(Event{Type: FailedDueToUnhealthy, Message: message})
			return
		}
		s.sendEvent(Event{Type: Unhealthy, Message: message})
	}
}

func (s *Service) sendEvent(event Event) {
	select {
	case s.events <- event:
	case <-s.context.Done():
	}
}

// eventLoop is responsible for receiving updates about the service process
// and its health and handling them.
func (s *Service) eventLoop(cmd Command) error {
	defer s.contextCancel()

	for event := range s.events {
		switch event.Type {
		case Healthy:
			s.stateUpdater.Update(s.pkg.Name, state.Healthy)
		case Unhealthy:
			s.stateUpdater.UpdateWithMessage(s.pkg.Name, state.Unhealthy, event.Message)
		case FailedDueToUnhealthy:
			log.WithFields(log.Fields{"service": s.pkg.Name, "reason": event.Message}).Info("Killing service")
			s.shutDown(cmd)
			s.stateUpdater.UpdateWithMessage(s.pkg.Name, state.Failed, event.Message)
			s.drainUpdates()
			return errors.New(event.Message)
		case CommandExited:
			s.shutDown(cmd)
			s.stateUpdater.UpdateWithMessage(s.pkg.Name, state.Failed, event.Message)
			s.drainUpdates()
			return errors.New(event.Message)
		case Kill:
			s.shutDown(cmd)
			s.stateUpdater.UpdateWithMessage(s.pkg.Name, state.Stopped, "Service stopped on request")
			s.drainUpdates()
			return nil
		}
	}
	return nil
}

func (s *Service) shutDown(cmd Command) {
	cmd.Stop(s.config.KillPolicyGracePeriod) // blocking call
	if s.table.PostStop != nil && !s.table.PostStop.Run(s.pkg.Name, s.pkg, s.svcPassword) {
		log.WithField("service", s.pkg.Name).Warn("Post stop hook failed")
	}
}

func (s *Service) drainUpdates() {
	if err := s.stateUpdater.Wait(s.config.StateUpdateWaitTimeout); err != nil {
		log.WithError(err).Error("Unable to deliver remaining state updates")
	}
}

func serviceExitToEvent(exitStateChan <-chan ServiceExitState, events chan<- Event) {
	exitState := <-exitStateChan
	switch exitState.Code {
	case FailedCode:
		events <- Event{Type: CommandExited, Message: fmt.Sprintf("Service exited with an error: %s", exitState.Err.Error())}
	case SuccessCode:
		events <- Event{Type: CommandExited, Message: "Service exited with success (zero) exit code"}
	}
}
