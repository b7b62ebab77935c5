package servicelog

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// Sink receives output lines captured from hook processes together with a
// preamble identifying the service and hook they came from.
type Sink interface {
	Output(preamble, message string)
}

// LogrusSink forwards hook output lines to the operational log.
type LogrusSink struct {
}

// Output logs message with the preamble attached as a field.
func (LogrusSink) Output(preamble, message string) {
	log.WithField("preamble", preamble).Info(message)
}

// WriterSink writes hook output lines to the wrapped writer, one line per
// message. It can be used to feed a scraper pipe created with scraper.Pipe.
type WriterSink struct {
	Writer io.Writer
}

// Output writes message with a trailing newline, ignoring the preamble.
func (s WriterSink) Output(_, message string) {
	_, _ = fmt.Fprintln(s.Writer, message)
}

// MultiSink returns a sink that fans out every line to all passed sinks.
func MultiSink(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) Output(preamble, message string) {
	for _, sink := range m {
		sink.Output(preamble, message)
	}
}
