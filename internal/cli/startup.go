package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/codalotl/richsync/internal/config"
	"github.com/codalotl/richsync/internal/document"
	"github.com/codalotl/richsync/internal/linediff"
	qcli "github.com/codalotl/richsync/internal/q/cli"
	"github.com/codalotl/richsync/internal/render"
	"github.com/codalotl/richsync/internal/selection"
	"github.com/codalotl/richsync/internal/simplelogger"
)

// env is what a command needs from configuration.
type env struct {
	cfg           *config.Config
	outIsTerminal bool
}

// loadEnv loads configuration and points simplelogger at the configured log file. An explicit RICHSYNC_LOG_FILE wins over the config file.
func loadEnv(outIsTerminal bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, qcli.ExitError{Code: 1, Err: err}
	}
	if cfg.LogFile != "" && !simplelogger.Enabled() {
		if err := os.Setenv(simplelogger.EnvLogFile, cfg.LogFile); err != nil {
			return nil, qcli.ExitError{Code: 1, Err: fmt.Errorf("set %s: %w", simplelogger.EnvLogFile, err)}
		}
	}
	return &env{cfg: cfg, outIsTerminal: outIsTerminal}, nil
}

func (e *env) documentOptions() []document.Option {
	return []document.Option{document.WithDiffer(e.differ())}
}

func (e *env) differ() linediff.Differ {
	return linediff.DiffMatchPatch{Timeout: e.cfg.DiffTimeout}
}

// renderOptions returns render options; width > 0 overrides the configured width.
func (e *env) renderOptions(width int) render.Options {
	if width <= 0 {
		width = e.cfg.Width
	}
	return render.Options{Width: width, Color: e.cfg.UseColor(e.outIsTerminal)}
}

// readInput reads path, or c.In when path is "-".
func readInput(c *qcli.Context, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(c.In)
	}
	return os.ReadFile(path)
}

// parseRange parses "a,b" (or "a" for a caret) into a selection.
func parseRange(flag, s string) (selection.Selection, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) > 2 {
		return selection.Selection{}, qcli.UsageError{Message: fmt.Sprintf("--%s: expected START,END, got %q", flag, s)}
	}
	bounds := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return selection.Selection{}, qcli.UsageError{Message: fmt.Sprintf("--%s: expected START,END, got %q", flag, s)}
		}
		bounds[i] = n
	}
	if len(bounds) == 1 {
		bounds = append(bounds, bounds[0])
	}
	sel, err := selection.FromBounds(bounds[0], bounds[1])
	if err != nil {
		return selection.Selection{}, qcli.UsageError{Message: fmt.Sprintf("--%s: %v", flag, err)}
	}
	return sel, nil
}
