package trace

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Trendyol/go-cdc-alert/logger"
)

// Sink forwards diagnostics to the host logger and echoes them locally.
// Failures of the sink itself are ignored.
type Sink interface {
	Write(message string)
	WriteAlways(message string)
	Enabled() bool
	Close()
}

type sink struct {
	host    logger.Logger
	echo    io.Writer
	mu      sync.Mutex
	enabled bool
}

func (s *sink) Write(message string) {
	if s.enabled {
		s.WriteAlways(message)
	}
}

func (s *sink) WriteAlways(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.echo != nil {
		_, _ = fmt.Fprintln(s.echo, message)
	}

	if s.host != nil {
		s.host.Info("%s", message)
	}
}

func (s *sink) Enabled() bool {
	return s.enabled
}

func (s *sink) Close() {
}

func NewSink(enabled bool, host logger.Logger) Sink {
	return NewSinkWithWriter(enabled, host, os.Stdout)
}

func NewSinkWithWriter(enabled bool, host logger.Logger, echo io.Writer) Sink {
	return &sink{
		enabled: enabled,
		host:    host,
		echo:    echo,
	}
}
