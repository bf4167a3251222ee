// Package log writes levelled, coloured diagnostics to stderr.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

type LogLevel int

const (
	LevelNone LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var Level = LevelInfo

// Output receives every line. Listener callbacks log concurrently.
var Output io.Writer = os.Stderr

var (
	mu     sync.Mutex
	cyan   = color.New(color.FgCyan)
	yellow = color.New(color.FgYellow)
)

func Warnf(f string, args ...interface{}) {
	if LevelWarn <= Level {
		mu.Lock()
		defer mu.Unlock()
		yellow.Fprintf(Output, "[WARNING] "+f+"\n", args...)
	}
}

func Infof(f string, args ...interface{}) {
	if LevelInfo <= Level {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(Output, f+"\n", args...)
	}
}

func Debugf(f string, args ...interface{}) {
	if LevelDebug <= Level {
		mu.Lock()
		defer mu.Unlock()
		cyan.Fprintf(Output, f+"\n", args...)
	}
}

// SetFlags picks the level from the command line switches; quieter wins
func SetFlags(debug, quiet, silent bool) {
	switch {
	case silent:
		Level = LevelNone
	case quiet:
		Level = LevelWarn
	case debug:
		Level = LevelDebug
	default:
		Level = LevelInfo
	}
}
