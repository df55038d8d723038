// Package simplelogger is richsync's debug log. Lines are appended to the file
// named by RICHSYNC_LOG_FILE, since a surface driving a session usually has no
// console to print to.
package simplelogger

import (
	"fmt"
	"os"
	"sync"
)

// EnvLogFile is the environment variable naming the log file.
const EnvLogFile = "RICHSYNC_LOG_FILE"

// mu keeps lines written from different goroutines whole.
var mu sync.Mutex

// Enabled reports whether RICHSYNC_LOG_FILE is set. Callers can check it before
// building costly log arguments.
func Enabled() bool {
	return logPath() != ""
}

// Log formats a line printf-style and appends it to the log file. A newline is
// added unless the formatted text already ends in one.
//
// Log does nothing when RICHSYNC_LOG_FILE is unset or empty, or when the file
// can't be opened. It never reports an error.
func Log(format string, args ...any) {
	path := logPath()
	if path == "" {
		return
	}
	appendLine(path, line(format, args))
}

func logPath() string {
	return os.Getenv(EnvLogFile)
}

// line renders format with args, ending in a newline.
func line(format string, args []any) []byte {
	b := fmt.Appendf(nil, format, args...)
	if len(b) == 0 || b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}
	return b
}

func appendLine(path string, b []byte) {
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.Write(b)
}
