package hooks

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/allegro/lifecycle-executor/servicelog"
)

// Output captures the stdout and stderr of a single hook invocation. The log
// files are recreated on every invocation so they always contain the output
// of the most recent run only.
type Output struct {
	stdoutLogPath string
	stderrLogPath string
}

// NewOutput returns an Output writing captured process output to the passed
// log file paths.
func NewOutput(stdoutLogPath, stderrLogPath string) Output {
	return Output{stdoutLogPath: stdoutLogPath, stderrLogPath: stderrLogPath}
}

// StdoutLogPath returns the path of the captured stdout log.
func (o Output) StdoutLogPath() string {
	return o.stdoutLogPath
}

// StderrLogPath returns the path of the captured stderr log.
func (o Output) StderrLogPath() string {
	return o.stderrLogPath
}

// Stream drains stdout and stderr of a running hook process line by line,
// forwarding every line to sink under the passed preamble and appending it to
// the matching log file. Both streams are drained concurrently - a hook
// filling the stderr pipe buffer before closing stdout would deadlock a
// sequential drain. Stream blocks until both streams are exhausted.
func (o Output) Stream(preamble string, stdout, stderr io.Reader, sink servicelog.Sink) error {
	stdoutLog, err := createLogFile(o.stdoutLogPath)
	if err != nil {
		return err
	}
	defer stdoutLog.Close()
	stderrLog, err := createLogFile(o.stderrLogPath)
	if err != nil {
		return err
	}
	defer stderrLog.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		tee(stdout, stdoutLog, preamble, sink)
	}()
	go func() {
		defer wg.Done()
		tee(stderr, stderrLog, preamble, sink)
	}()
	wg.Wait()
	return nil
}

func createLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "unable to create log directory for %s", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create log file %s", path)
	}
	return file, nil
}

func tee(stream io.Reader, logFile io.Writer, preamble string, sink servicelog.Sink) {
	scanner := bufio.NewScanner(stream)
	for scanner.Scan() {
		line := scanner.Text()
		sink.Output(preamble, line)
		fmt.Fprintln(logFile, line)
	}
	// lines that cannot be read are dropped, the stream must not abort
}

// lastLine returns the last line of the file at path, or an empty string when
// the file holds no lines.
func lastLine(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "unable to open %s", path)
	}
	defer file.Close()

	var line string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line = scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Wrapf(err, "unable to read %s", path)
	}
	return line, nil
}
