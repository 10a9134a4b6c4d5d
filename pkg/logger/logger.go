package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

type LogBuild struct {
	writer     io.Writer
	path       string
	level      string
	LogChannel chan string
}

type LogData struct {
	writer     io.Writer
	LogFile    *os.File
	Logger     zerolog.Logger
	LogChannel chan string
	Level      zerolog.Level
}

func New() *LogBuild {
	return &LogBuild{}
}

// FromPath appends log lines to the file at path, creating it if needed.
func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

func (build *LogBuild) FromBuffer(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// FromChannel sends every log line to chn as well. Lines are dropped while
// nobody is receiving.
func (build *LogBuild) FromChannel(chn chan string) *LogBuild {
	build.LogChannel = chn
	return build
}

// Level sets the minimum level by name (trace, debug, info, warn, error).
// The default is info.
func (build *LogBuild) Level(level string) *LogBuild {
	build.level = level
	return build
}

func (build *LogBuild) Make() (logData *LogData, err error) {
	logData = new(LogData)
	logData.writer = os.Stdout
	if build.writer != nil {
		logData.writer = build.writer
	}
	logData.LogChannel = build.LogChannel

	logData.Level = zerolog.InfoLevel
	if build.level != "" {
		logData.Level, err = zerolog.ParseLevel(strings.ToLower(build.level))
		if err != nil {
			return nil, err
		}
	}

	if build.path != "" {
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		logData.writer = zerolog.SyncWriter(logData.LogFile)
	}

	w := logData.writer
	if logData.LogChannel != nil {
		w = zerolog.MultiLevelWriter(w, channelWriter(logData.LogChannel))
	}

	logData.Logger = zerolog.New(w).Level(logData.Level).With().Timestamp().Logger()
	return
}

// WithContext returns a copy of ctx carrying the logger, where the runner
// and zerolog.Ctx find it.
func (l *LogData) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

func (l *LogData) Close() error {
	if l.LogFile == nil {
		return nil
	}
	return l.LogFile.Close()
}

type channelWriter chan string

func (c channelWriter) Write(p []byte) (int, error) {
	select {
	case c <- strings.TrimRight(string(p), "\n"):
	default:
	}
	return len(p), nil
}
