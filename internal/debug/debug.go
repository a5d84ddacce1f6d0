package debug

import (
	"io"
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
)

// Debug levels
const (
	LevelOff     = 0 // No output
	LevelInfo    = 1 // Important info (brand, pin, carrier)
	LevelLive    = 2 // Live info (commands sent)
	LevelVerbose = 3 // Verbose (frames, repeats, timings)
	LevelTrace   = 4 // Trace (GPIO, very low level)
)

var (
	level  int
	logger *logrus.Logger
	file   *lumberjack.Logger
)

// Options configures optional log file output.
type Options struct {
	File       string // rotating log file, empty = stdout only
	MaxSizeMB  int
	MaxBackups int
}

// Init initializes the debug system with a level (0-4).
// 0 = no output
// 1 = important info (brand, pin, carrier)
// 2 = live info (commands sent)
// 3 = verbose (frame and repeat details)
// 4 = trace (GPIO, very low level)
func Init(debugLevel int, opts ...Options) {
	level = debugLevel
	logger = nil
	if file != nil {
		_ = file.Close()
		file = nil
	}
	if level <= LevelOff {
		return
	}

	logger = logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000000",
	})
	logger.SetLevel(logrusLevel(level))

	var out io.Writer = os.Stdout
	if len(opts) > 0 && opts[0].File != "" {
		file = &lumberjack.Logger{
			Filename:   opts[0].File,
			MaxSize:    opts[0].MaxSizeMB,
			MaxBackups: opts[0].MaxBackups,
		}
		out = io.MultiWriter(os.Stdout, file)
	}
	logger.SetOutput(out)
}

// SetOutput redirects debug output. It has no effect when debug is off.
func SetOutput(w io.Writer) {
	if logger != nil {
		logger.SetOutput(w)
	}
}

// Close flushes and closes the log file, if any.
func Close() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

func logrusLevel(l int) logrus.Level {
	switch {
	case l >= LevelTrace:
		return logrus.TraceLevel
	case l >= LevelVerbose:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// Level returns the current debug level.
func Level() int {
	return level
}

// IsEnabled returns true if debug level is >= the requested level.
func IsEnabled(minLevel int) bool {
	return level >= minLevel
}

// --- Level 1 functions (Info): important info ---

// Info prints a level 1 message (important info).
func Info(format string, args ...interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Infof(format, args...)
	}
}

// Value prints a named value in formatted form (level 1).
func Value(name string, value interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.WithField("value", value).Info(name)
	}
}

// --- Level 2 functions (Live): commands sent ---

// Command prints a transmitted command (level 2).
func Command(brand, command string, pin int) {
	if level >= LevelLive && logger != nil {
		logger.WithFields(logrus.Fields{
			"brand":   brand,
			"command": command,
			"pin":     pin,
		}).Info("IR command sent")
	}
}

// --- Level 3 functions (Verbose): everything ---

// Verbose prints a level 3 message (verbose).
func Verbose(format string, args ...interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Debugf(format, args...)
	}
}

// PrintStruct prints a struct in formatted form (level 3).
func PrintStruct(name string, v interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Debugf("%s: %+v", name, v)
	}
}

// Section prints a section separator (level 3).
func Section(name string) {
	if level >= LevelVerbose && logger != nil {
		logger.Debug("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		logger.Debugf("  %s", name)
		logger.Debug("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	}
}

// Step prints a numbered step (level 3).
func Step(num int, description string) {
	if level >= LevelVerbose && logger != nil {
		logger.Debugf("Step %d: %s", num, description)
	}
}

// --- Level 4 functions (Trace): very low level ---

// Trace prints a level 4 message (trace, GPIO).
func Trace(format string, args ...interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Tracef(format, args...)
	}
}

// GPIO prints a GPIO operation (level 4).
func GPIO(operation string, pin int, value interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.WithFields(logrus.Fields{
			"op":    operation,
			"pin":   pin,
			"value": value,
		}).Trace("gpio")
	}
}

// --- General functions ---

// Error prints a debug error (level 1+).
func Error(err error) {
	if level >= LevelInfo && logger != nil {
		logger.WithError(err).Error("error")
	}
}
