package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	Trace(message string, args ...interface{})
	Debug(message string, args ...interface{})
	Info(message string, args ...interface{})
	Warn(message string, args ...interface{})
	Error(message string, args ...interface{})
	Log(level string, message string, args ...interface{})
}

type Loggers struct {
	Logrus *logrus.Logger
}

var Log Logger

func init() {
	InitDefaultLogger("info")
}

func (loggers *Loggers) Trace(message string, args ...interface{}) {
	loggers.Logrus.Tracef(message, args...)
}

func (loggers *Loggers) Debug(message string, args ...interface{}) {
	loggers.Logrus.Debugf(message, args...)
}

func (loggers *Loggers) Info(message string, args ...interface{}) {
	loggers.Logrus.Infof(message, args...)
}

func (loggers *Loggers) Warn(message string, args ...interface{}) {
	loggers.Logrus.Warnf(message, args...)
}

func (loggers *Loggers) Error(message string, args ...interface{}) {
	loggers.Logrus.Errorf(message, args...)
}

func (loggers *Loggers) Log(level string, message string, args ...interface{}) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}

	loggers.Logrus.Logf(parsed, message, args...)
}

func NewLogrus(logLevel string) *Loggers {
	logrusLogger := logrus.New()
	logrusLogger.SetOutput(os.Stderr)
	logrusLogger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %q, using info\n", logLevel)
		level = logrus.InfoLevel
	}

	logrusLogger.SetLevel(level)

	return &Loggers{Logrus: logrusLogger}
}

func InitDefaultLogger(logLevel string) {
	Log = NewLogrus(logLevel)
}

func SetLogger(logger Logger) {
	Log = logger
}
