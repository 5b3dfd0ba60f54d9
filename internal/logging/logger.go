package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Params struct {
	FileName string
	// ToStderr mirrors file output to stderr. The TUI leaves it off since it
	// owns the terminal.
	ToStderr bool
	Level    string
	JSON     bool
}

// Setup configures the package-level logrus logger. The returned closer
// flushes the rotating file; it is safe to call when no file was opened.
func Setup(params Params) io.Closer {
	if params.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}
	logrus.SetLevel(GetLevel(params.Level))

	if params.FileName == "" {
		if params.ToStderr {
			logrus.SetOutput(os.Stderr)
		} else {
			logrus.SetOutput(io.Discard)
		}
		return nopCloser{}
	}

	if !strings.HasSuffix(params.FileName, ".log") {
		params.FileName += ".log"
	}
	_ = os.MkdirAll(filepath.Dir(params.FileName), 0o755)

	file := &lumberjack.Logger{
		Filename:   params.FileName,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		LocalTime:  true,
		Compress:   true,
	}

	if params.ToStderr {
		logrus.SetOutput(NewCombinedWriter(os.Stderr, file))
	} else {
		logrus.SetOutput(file)
	}
	return file
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
