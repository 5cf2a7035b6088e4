// Package logging sets up commonlog for the nodewalk binaries.
package logging

import (
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Root is the logger name every nodewalk package logs under
const Root = "nodewalk"

// Configure routes log output to path at the given verbosity. With no path
// messages go to stderr, unless the terminal is drawn on by a full screen
// UI, in which case logging is switched off.
func Configure(verbosity int, path string, fullscreen bool) error {
	switch {
	case path != "":
		// commonlog exits the process on a file it cannot open
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		f.Close()
		commonlog.Configure(verbosity, &path)
	case fullscreen:
		commonlog.Configure(-4, nil)
	default:
		commonlog.Configure(verbosity, nil)
	}
	return nil
}

// Enabled reports whether messages at level reach the log
func Enabled(level commonlog.Level) bool {
	return commonlog.AllowLevel(level, Root)
}
