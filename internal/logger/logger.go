package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorWhite  = "\033[37m"
	colorGray   = "\033[90m"
)

// Options configures the process-wide log sinks. File output is rotated by
// lumberjack; an empty File keeps logging on the console only. The console
// defaults to stderr so stdout stays free for document output.
type Options struct {
	Debug      bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	NoColor    bool
	Console    io.Writer
}

type handlerBox struct{ h slog.Handler }

var (
	active     atomic.Pointer[handlerBox]
	fileWriter *lumberjack.Logger
	rootLogger = slog.New(&dynamicHandler{})
)

func init() {
	debugEnabled, _ := strconv.ParseBool(os.Getenv("LAYOUTFLOW_DEBUG"))
	active.Store(&handlerBox{h: buildHandler(Options{Debug: debugEnabled})})
}

// Init replaces the sinks of every logger handed out by GetLogger,
// including package-level loggers created before Init ran.
func Init(opts Options) error {
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	Close()
	active.Store(&handlerBox{h: buildHandler(opts)})
	return nil
}

// Close flushes and releases the rotating log file, if any.
func Close() {
	if fileWriter != nil {
		_ = fileWriter.Close()
		fileWriter = nil
	}
}

func buildHandler(opts Options) slog.Handler {
	consoleLevel := slog.LevelInfo
	if opts.Debug {
		consoleLevel = slog.LevelDebug
	}
	out := opts.Console
	if out == nil {
		out = os.Stderr
	}
	colorHandler := newCustomHandler(out, consoleLevel, !opts.NoColor)
	if opts.File == "" {
		return colorHandler
	}
	fileWriter = &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	// File handler with no colors
	fileHandler := newCustomHandler(fileWriter, slog.LevelDebug, false)
	return &multiHandler{
		file:    fileHandler,
		console: colorHandler,
	}
}

// GetLogger returns a logger with the given prefix for easier filtering
func GetLogger(prefix string) *slog.Logger {
	return rootLogger.With("module", prefix)
}

// dynamicHandler forwards to whichever handler Init installed last.
type dynamicHandler struct {
	attrs []slog.Attr
	group string
}

func (d *dynamicHandler) current() slog.Handler {
	h := active.Load().h
	if d.group != "" {
		h = h.WithGroup(d.group)
	}
	if len(d.attrs) > 0 {
		h = h.WithAttrs(d.attrs)
	}
	return h
}

func (d *dynamicHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return active.Load().h.Enabled(ctx, level)
}

func (d *dynamicHandler) Handle(ctx context.Context, record slog.Record) error {
	return d.current().Handle(ctx, record)
}

func (d *dynamicHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(d.attrs)+len(attrs))
	copy(newAttrs, d.attrs)
	copy(newAttrs[len(d.attrs):], attrs)
	return &dynamicHandler{attrs: newAttrs, group: d.group}
}

func (d *dynamicHandler) WithGroup(name string) slog.Handler {
	return &dynamicHandler{attrs: d.attrs, group: name}
}

type customHandler struct {
	w          io.Writer
	mu         *sync.Mutex
	level      slog.Level
	attrs      []slog.Attr
	group      string
	withColors bool
}

func newCustomHandler(w io.Writer, level slog.Level, withColors bool) *customHandler {
	return &customHandler{w: w, mu: &sync.Mutex{}, level: level, withColors: withColors}
}

func (h *customHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func levelStyle(level slog.Level) (color, label string) {
	switch level {
	case slog.LevelDebug:
		return colorWhite, "DEBUG"
	case slog.LevelInfo:
		return colorBlue, "INFO"
	case slog.LevelWarn:
		return colorYellow, "WARNING"
	case slog.LevelError:
		return colorRed, "ERROR"
	}
	return colorWhite, level.String()
}

func (h *customHandler) Handle(_ context.Context, record slog.Record) error {
	color, levelStr := levelStyle(record.Level)

	var module string
	var args []string
	collect := func(a slog.Attr) bool {
		if a.Key == "module" {
			module = a.Value.String()
			return true
		}
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		args = append(args, fmt.Sprintf("%s=%v", key, a.Value))
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	record.Attrs(collect)

	// Format: [module] <LEVEL>: <msg> (<args>) [HH:MM:SS]
	var b strings.Builder
	if module != "" {
		if h.withColors {
			fmt.Fprintf(&b, "%s[%s]%s ", colorGray, module, colorReset)
		} else {
			fmt.Fprintf(&b, "[%s] ", module)
		}
	}
	if h.withColors {
		fmt.Fprintf(&b, "%s%s%s", color, levelStr, colorReset)
	} else {
		b.WriteString(levelStr)
	}
	b.WriteString(": ")
	b.WriteString(record.Message)
	if len(args) > 0 {
		b.WriteString(" (" + strings.Join(args, ", ") + ")")
	}
	fmt.Fprintf(&b, " [%s]\n", record.Time.Format("15:04:05"))

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *customHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	clone := *h
	clone.attrs = newAttrs
	return &clone
}

func (h *customHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.group = name
	return &clone
}

type multiHandler struct {
	file    slog.Handler
	console slog.Handler
}

func (mh *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return mh.file.Enabled(ctx, level) || mh.console.Enabled(ctx, level)
}

func (mh *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	if mh.file.Enabled(ctx, record.Level) {
		if err := mh.file.Handle(ctx, record); err != nil {
			return err
		}
	}

	if mh.console.Enabled(ctx, record.Level) {
		if err := mh.console.Handle(ctx, record); err != nil {
			return err
		}
	}

	return nil
}

func (mh *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &multiHandler{
		file:    mh.file.WithAttrs(attrs),
		console: mh.console.WithAttrs(attrs),
	}
}

func (mh *multiHandler) WithGroup(name string) slog.Handler {
	return &multiHandler{
		file:    mh.file.WithGroup(name),
		console: mh.console.WithGroup(name),
	}
}
