package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/afero"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Status is the outcome of one scenario.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// ScenarioResult is one line of the results file.
type ScenarioResult struct {
	ID       string        `json:"id"`
	Feature  string        `json:"feature,omitempty"`
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// Reporter defines the interface for writing scenario results to an output.
type Reporter interface {
	// Write records a single finished scenario. It is safe for concurrent use.
	Write(result ScenarioResult) error
	// Close flushes the report and closes any underlying file.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a reporter for format ("json" or "text") writing to outputPath
// on fs. An empty path or "stdout" writes to standard output.
func New(fs afero.Fs, format, outputPath string) (Reporter, error) {
	var encode func(io.Writer, ScenarioResult) error
	switch format {
	case "json":
		encode = encodeJSON
	case "text":
		encode = encodeText
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	var writer io.WriteCloser
	if outputPath == "" || outputPath == "stdout" {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := fs.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}
	return &streamReporter{w: writer, encode: encode}, nil
}

type streamReporter struct {
	mu     sync.Mutex
	w      io.WriteCloser
	encode func(io.Writer, ScenarioResult) error
	closed bool
}

func (r *streamReporter) Write(result ScenarioResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("reporter is closed")
	}
	return r.encode(r.w, result)
}

func (r *streamReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.w.Close()
}

func encodeJSON(w io.Writer, result ScenarioResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result for %s: %w", result.Name, err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func encodeText(w io.Writer, result ScenarioResult) error {
	line := fmt.Sprintf("%-7s %s (%s)", result.Status, result.Name, result.Duration.Round(time.Millisecond))
	if result.Error != "" {
		line += ": " + result.Error
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
