package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/evalphobia/logrus_sentry"
	"github.com/getsentry/raven-go"
	"github.com/kelseyhightower/envconfig"
	"github.com/pborman/uuid"
	log "github.com/sirupsen/logrus"

	executor "github.com/allegro/lifecycle-executor"
	"github.com/allegro/lifecycle-executor/hooks"
	"github.com/allegro/lifecycle-executor/metrics"
	"github.com/allegro/lifecycle-executor/paths"
	"github.com/allegro/lifecycle-executor/runenv"
	"github.com/allegro/lifecycle-executor/servicelog"
	"github.com/allegro/lifecycle-executor/servicelog/appender"
	"github.com/allegro/lifecycle-executor/servicelog/scraper"
	"github.com/allegro/lifecycle-executor/state"
)

const environmentPrefix = "allegro_lifecycle"

// Version designates the version of application.
var Version string

// Config contains application configuration
var Config executor.Config

// ServiceConfig describes the single service this executor instance runs.
type ServiceConfig struct {
	// ServiceName is the name of the supervised service.
	ServiceName string `split_words:"true" required:"true"`
	// ServiceUser is the user name hook processes run as.
	ServiceUser string `split_words:"true" default:"root"`
	// ServiceGroup is the group name hook processes run as.
	ServiceGroup string `split_words:"true" default:"root"`
	// ServiceTemplates is the directory holding the hook templates installed
	// by the service package.
	ServiceTemplates string `split_words:"true" required:"true"`
	// ServicelogAppender enables forwarding of scraped hook output to
	// external log storage when set to `logstash`.
	ServicelogAppender string `split_words:"true"`
}

func init() {
	if err := envconfig.Process(environmentPrefix, &Config); err != nil {
		log.WithError(err).Fatal("Failed to load executor configuration")
	}

	if err := initSentry(Config); err != nil {
		log.WithError(err).Fatal("Failed to initialize Sentry")
	}

	if Config.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func initSentry(config executor.Config) error {
	if len(config.SentryDSN) == 0 {
		return nil
	}

	environment, err := runenv.Environment()
	if err != nil {
		return fmt.Errorf("Unable to determine runtime environment: %s", err)
	}

	if environment == runenv.LocalEnv {
		log.Infof("Disabling Sentry integration for the %s environment", environment)
		return nil
	}
	log.Infof("Enabling Sentry integration for the %s environment", environment)

	client, err := raven.New(config.SentryDSN)
	if err != nil {
		return fmt.Errorf("Unable to setup raven client: %s", err)
	}
	client.SetRelease(Version)
	client.SetEnvironment(string(environment))

	sentryHook, err := logrus_sentry.NewWithClientSentryHook(client, []log.Level{
		log.PanicLevel,
		log.FatalLevel,
		log.ErrorLevel,
	})
	if err != nil {
		return fmt.Errorf("Unable to setup sentry hook for logger: %s", err)
	}
	sentryHook.Timeout = time.Second
	log.AddHook(sentryHook)

	return nil
}

// createSink builds the sink hook output lines are teed to. With the logstash
// appender enabled lines are additionally scraped for structured data and
// shipped to external log storage.
func createSink(serviceConfig ServiceConfig) servicelog.Sink {
	if serviceConfig.ServicelogAppender != "logstash" {
		return servicelog.LogrusSink{}
	}

	logstash, err := appender.LogstashAppenderFromEnv()
	if err != nil {
		log.WithError(err).Fatal("Failed to create Logstash appender")
	}
	entries, writer := scraper.Pipe(&scraper.LogFmt{})
	extended := servicelog.Extend(entries,
		servicelog.SystemDataExtender{},
		servicelog.StaticDataExtender{Data: map[string]interface{}{"service": serviceConfig.ServiceName}},
	)
	go logstash.Append(extended)

	return servicelog.MultiSink(servicelog.LogrusSink{}, servicelog.WriterSink{Writer: writer})
}

// stateUpdater publishes service status updates to the operational log. There
// is no external supervisor agent to report to, the log is the system of
// record for status changes.
func stateUpdater(config executor.Config) state.Updater {
	listener := state.ListenerFunc(func(update state.Update) error {
		log.WithFields(log.Fields{
			"service": update.Service,
			"status":  update.Status,
		}).Info(update.Message)
		return nil
	})
	return state.BufferedUpdater(listener, config.StateUpdateBufferSize)
}

func processEnvironment() map[string]string {
	env := map[string]string{}
	for _, variable := range os.Environ() {
		if name, value, ok := strings.Cut(variable, "="); ok {
			env[name] = value
		}
	}
	return env
}

func main() {
	log.Infof("Allegro Lifecycle Executor (version: %s)", Version)
	metrics.Init(uuid.New())

	var serviceConfig ServiceConfig
	if err := envconfig.Process(environmentPrefix, &serviceConfig); err != nil {
		log.WithError(err).Fatal("Failed to load service configuration")
	}

	pkg := hooks.Pkg{
		Name:     serviceConfig.ServiceName,
		SvcUser:  serviceConfig.ServiceUser,
		SvcGroup: serviceConfig.ServiceGroup,
		Env:      processEnvironment(),
	}
	layout := paths.Layout{ServicesRoot: Config.ServicesRoot}
	sink := createSink(serviceConfig)
	table := hooks.NewTableFromPackage(layout, pkg, serviceConfig.ServiceTemplates, sink)

	service := executor.NewService(Config, executor.ServiceOptions{
		Pkg:   pkg,
		Table: table,
		Sink:  sink,
	}, stateUpdater(Config))
	if err := service.Start(); err != nil {
		log.WithError(err).Fatal("Service exited with error")
	}
	log.Info("Service exited successfully")
}
