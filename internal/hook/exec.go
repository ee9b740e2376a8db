package hook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rnwolfe/lifeos/internal/config"
	"github.com/rnwolfe/lifeos/internal/logger"
)

// ExecHandler runs a user script with the context JSON on stdin. The script
// also sees LIFEOS_COMMAND, LIFEOS_STAGE, LIFEOS_EVENTS (comma separated)
// and LIFEOS_DATA_DIR in its environment. Transform scripts may print a
// modified context on stdout; empty output keeps the context unchanged.
func ExecHandler(h UserHook, timeout time.Duration) Handler {
	mode := ModeFor(h.Stage)
	if timeout == 0 {
		timeout = DefaultTransformTimeout
		if mode == ModeNotify {
			timeout = DefaultNotifyTimeout
		}
	}

	return func(ctx *Context) (*Context, error) {
		input, err := ctx.JSON()
		if err != nil {
			return nil, fmt.Errorf("serializing context: %w", err)
		}

		execCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		cmd := exec.CommandContext(execCtx, h.Path)
		cmd.Stdin = bytes.NewReader(input)
		cmd.Env = append(os.Environ(), scriptEnv(ctx, h.Stage)...)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		start := time.Now()
		err = cmd.Run()
		logger.Debug("hook ran", "hook", h.Name, "stage", h.Stage, "command", ctx.Command, "took", time.Since(start))
		if err != nil {
			if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("timed out after %s", timeout)
			}
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, fmt.Errorf("%w: %s", err, msg)
			}
			return nil, err
		}

		if mode == ModeNotify || len(bytes.TrimSpace(stdout.Bytes())) == 0 {
			return ctx, nil
		}
		result, err := ParseContext(stdout.Bytes())
		if err != nil {
			return nil, fmt.Errorf("parsing hook output: %w", err)
		}
		return result, nil
	}
}

func scriptEnv(ctx *Context, stage Stage) []string {
	return []string{
		"LIFEOS_COMMAND=" + ctx.Command,
		"LIFEOS_STAGE=" + string(stage),
		"LIFEOS_EVENTS=" + strings.Join(ctx.EventNames(), ","),
		"LIFEOS_DATA_DIR=" + config.GetPaths().DataDir,
	}
}
