package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/deriamis/mongosh/internal/logging"
	"github.com/deriamis/mongosh/internal/npm"
	"github.com/deriamis/mongosh/internal/prompt"
	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// Shell evaluates input lines against plugins and a JavaScript runtime.
type Shell struct {
	vm  *goja.Runtime
	mu  sync.Mutex
	out io.Writer

	lines   *prompt.Lines
	plugins []Plugin
	logger  *zap.Logger
}

// New creates a shell reading from in and writing to out.
func New(in io.Reader, out io.Writer, logger *zap.Logger) (*Shell, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Shell{
		vm:     goja.New(),
		out:    out,
		lines:  prompt.NewLines(in, out),
		logger: logger,
	}
	if err := s.setupGlobals(); err != nil {
		return nil, err
	}
	return s, nil
}

// Register adds a plugin. Plugins are consulted in registration order.
func (s *Shell) Register(p Plugin) {
	s.plugins = append(s.plugins, p)
}

// Prompter returns the prompter sharing the shell's input.
func (s *Shell) Prompter() prompt.Prompter {
	return s.lines
}

// Eval handles one input line and returns the text to show.
func (s *Shell) Eval(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	for _, p := range s.plugins {
		if p.MatchesCommand(fields[0]) {
			out, err := p.RunCommand(ctx, fields[1:], s.lines)
			return out, s.transformError(err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	val, err := s.run(ctx, func() (goja.Value, error) {
		return s.vm.RunString(line)
	})
	if err != nil {
		return "", s.transformError(err)
	}
	if val == nil || goja.IsUndefined(val) {
		return "", nil
	}
	return val.String(), nil
}

// Load evaluates the script at path with __filename and __dirname set.
func (s *Shell) Load(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.run(ctx, func() (goja.Value, error) {
		return goja.Undefined(), s.loadFile(path)
	})
	return err
}

// LoadIfExists loads path, doing nothing when it does not exist.
func (s *Shell) LoadIfExists(ctx context.Context, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return s.Load(ctx, path)
}

// Run reads lines until the input ends, printing results and errors.
func (s *Shell) Run(ctx context.Context) error {
	for {
		line, ok, err := s.lines.ReadLine(ctx, "> ")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if strings.TrimSpace(line) == "exit" {
			return nil
		}

		out, err := s.Eval(ctx, line)
		if err != nil {
			fmt.Fprintln(s.out, err)
			continue
		}
		if out != "" {
			fmt.Fprintln(s.out, strings.TrimSuffix(out, "\n"))
		}
	}
}

// run executes fn, interrupting the VM when ctx ends. Callers hold s.mu.
func (s *Shell) run(ctx context.Context, fn func() (goja.Value, error)) (goja.Value, error) {
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			s.vm.Interrupt("context cancelled")
		case <-done:
		}
	}()

	val, err := fn()
	close(done)
	<-stopped
	s.vm.ClearInterrupt()
	return val, err
}

// loadFile runs a script file. It is also called from load() inside scripts,
// so it must not take s.mu.
func (s *Shell) loadFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	s.logger.Debug("loading script", zap.String("path", abs))

	wrapped := "(function (__filename, __dirname) {" + string(src) + "\n})"
	fnVal, err := s.vm.RunScript(abs, wrapped)
	if err != nil {
		return err
	}
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return fmt.Errorf("loading %s: wrapper is not a function", path)
	}
	_, err = fn(goja.Undefined(), s.vm.ToValue(abs), s.vm.ToValue(filepath.Dir(abs)))
	return err
}

func (s *Shell) transformError(err error) error {
	if err == nil {
		return nil
	}
	for _, p := range s.plugins {
		err = p.TransformError(err)
	}
	return err
}

func (s *Shell) setupGlobals() error {
	printFn := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		fmt.Fprintln(s.out, strings.Join(parts, " "))
		return goja.Undefined()
	}
	if err := s.vm.Set("print", printFn); err != nil {
		return err
	}
	console := s.vm.NewObject()
	if err := console.Set("log", printFn); err != nil {
		return err
	}
	if err := s.vm.Set("console", console); err != nil {
		return err
	}

	if err := s.vm.Set("load", func(call goja.FunctionCall) goja.Value {
		if err := s.loadFile(call.Argument(0).String()); err != nil {
			panic(s.vm.NewGoError(err))
		}
		return s.vm.ToValue(true)
	}); err != nil {
		return err
	}

	require := s.vm.NewObject()
	if err := require.Set("resolve", func(call goja.FunctionCall) goja.Value {
		resolved, err := npm.ResolvePath(call.Argument(0).String())
		if err != nil {
			panic(s.vm.NewGoError(err))
		}
		return s.vm.ToValue(resolved)
	}); err != nil {
		return err
	}
	return s.vm.Set("require", require)
}
