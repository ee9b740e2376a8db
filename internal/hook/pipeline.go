package hook

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rnwolfe/lifeos/internal/logger"
)

type ctxKey struct{}

// RunFunc is a cobra RunE function.
type RunFunc func(cmd *cobra.Command, args []string) error

// Wrap runs fn through the default registry's pipeline.
//
//	var logCmd = &cobra.Command{RunE: hook.Wrap("log", runLog)}
func Wrap(command string, fn RunFunc) RunFunc {
	return WrapWith(DefaultRegistry, command, fn)
}

// WrapWith runs fn through reg's pipeline.
func WrapWith(reg *Registry, command string, fn RunFunc) RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		if reg.Count() == 0 || !reg.Listens(command) {
			return fn(cmd, args)
		}

		hctx := NewContext(command, args, extractFlags(cmd))

		var err error
		for _, stage := range []Stage{StagePrevalidate, StagePreexec} {
			if hctx, err = runTransformStage(reg, command, stage, hctx); err != nil {
				return fmt.Errorf("hook %s failed: %w", stage, err)
			}
		}

		base := cmd.Context()
		if base == nil {
			base = context.Background()
		}
		cmd.SetContext(context.WithValue(base, ctxKey{}, hctx))
		if err := fn(cmd, hctx.Args); err != nil {
			return err
		}

		if hctx, err = runTransformStage(reg, command, StagePostexec, hctx); err != nil {
			return fmt.Errorf("hook postexec failed: %w", err)
		}
		runNotifyStage(reg, command, hctx)
		return nil
	}
}

// Emit attaches an event to the running command's hook context. It does
// nothing when the command has no hooks.
func Emit(cmd *cobra.Command, name string, payload any) {
	if cmd == nil || cmd.Context() == nil {
		return
	}
	if hctx, ok := cmd.Context().Value(ctxKey{}).(*Context); ok {
		hctx.Emit(name, payload)
	}
}

// runTransformStage chains transform hooks: each sees the previous result.
func runTransformStage(reg *Registry, command string, stage Stage, ctx *Context) (*Context, error) {
	for _, h := range reg.Resolve(command, stage) {
		if h.Mode == ModeNotify {
			continue
		}
		result, err := h.Handler(ctx)
		if err != nil {
			return ctx, fmt.Errorf("hook %q (%s): %w", h.Name, stage, err)
		}
		if result != nil {
			ctx = result
		}
	}
	return ctx, nil
}

// runNotifyStage runs the notify hooks for the command and its emitted
// events concurrently and waits for them. Failures go to the log file; the
// command already succeeded.
func runNotifyStage(reg *Registry, command string, ctx *Context) {
	hooks := reg.ResolveNotify(command, ctx.EventNames())
	var wg sync.WaitGroup
	for _, h := range hooks {
		wg.Add(1)
		go func(h Hook) {
			defer wg.Done()
			if _, err := h.Handler(ctx); err != nil {
				logger.Warn("notify hook failed", "hook", h.Name, "command", command, "err", err)
			}
		}(h)
	}
	wg.Wait()
}

func extractFlags(cmd *cobra.Command) map[string]string {
	flags := make(map[string]string)
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			flags[f.Name] = f.Value.String()
		}
	})
	return flags
}
