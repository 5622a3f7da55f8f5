package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFormat = "2006-01-02 15:04:05.000"

type CommonLogger struct {
	Info    zerolog.Logger
	Error   zerolog.Logger
	Trace   zerolog.Logger
	Warning zerolog.Logger
	Stream  zerolog.Logger
}

// AppLogger holds the rotating file loggers. Http.Stream is the access log,
// WS carries chat room connection events.
type AppLogger struct {
	Http CommonLogger
	WS   CommonLogger
}

func NewLogger(dir string) *AppLogger {
	if dir == "" {
		dir = "logs"
	}
	_ = os.MkdirAll(dir, 0755)

	zerolog.TimeFieldFormat = timeFormat
	console := consoleConfWriter()

	return &AppLogger{
		Http: newCommonLogger(console, dir, ""),
		WS:   newCommonLogger(console, dir, "ws."),
	}
}

// NewNopLogger discards everything. Used by tests.
func NewNopLogger() *AppLogger {
	nop := zerolog.Nop()
	common := CommonLogger{Info: nop, Error: nop, Trace: nop, Warning: nop, Stream: nop}
	return &AppLogger{Http: common, WS: common}
}

func newCommonLogger(console zerolog.ConsoleWriter, dir, prefix string) CommonLogger {
	file := func(name string) string {
		return filepath.Join(dir, prefix+name+".log")
	}
	return CommonLogger{
		Stream:  newMultiLogger(console, file("stream")),
		Info:    newMultiLogger(console, file("info")),
		Trace:   newMultiLogger(console, file("trace")),
		Warning: newMultiLogger(console, file("warning")),
		Error:   newMultiLogger(console, file("error")),
	}
}

func newMultiLogger(console zerolog.ConsoleWriter, path string) zerolog.Logger {
	multi := io.MultiWriter(console, fileConsoleWriter(path))
	return zerolog.New(multi).With().Timestamp().Logger()
}

func bracket(i interface{}) string {
	return fmt.Sprintf("[%s]", i)
}

func upperBracket(i interface{}) string {
	level, _ := i.(string)
	return fmt.Sprintf("[%s]", strings.ToUpper(level))
}

func consoleConfWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:             os.Stdout,
		TimeFormat:      timeFormat,
		FormatTimestamp: bracket,
		FormatLevel:     upperBracket,
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("%v", i)
		},
	}
}

func fileConsoleWriter(path string) io.Writer {
	return zerolog.ConsoleWriter{
		Out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    5,
			MaxAge:     20,
			MaxBackups: 5,
			Compress:   true,
		},
		NoColor:         true,
		TimeFormat:      timeFormat,
		FormatTimestamp: bracket,
		FormatLevel:     upperBracket,
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("%v", i)
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s=", i)
		},
		FormatFieldValue: func(i interface{}) string {
			return fmt.Sprintf("%v", i)
		},
	}
}
