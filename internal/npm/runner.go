package npm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/deriamis/mongosh/internal/manifest"
	"go.uber.org/zap"
)

// RunNodeScriptEnv is set for every npm child process so that a shell
// binary acting as node runs scripts instead of starting a REPL.
const RunNodeScriptEnv = "MONGOSH_RUN_NODE_SCRIPT"

// ProcessError reports an npm run that failed.
type ProcessError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("Command failed: %s with exit code %d", strings.Join(e.Args, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	if s := strings.TrimSpace(e.Stdout); s != "" {
		msg += "\n" + s
	}
	return msg
}

// Runner executes npm commands in an install directory.
type Runner struct {
	*options
	installDir string
	editor     *manifest.Editor
}

// NewRunner creates a runner for installDir.
func NewRunner(installDir string, opts ...Option) *Runner {
	return &Runner{
		options:    newOptions(opts),
		installDir: installDir,
		editor:     manifest.NewEditor(installDir),
	}
}

// Run executes `<inv> --no-package-lock --ignore-scripts --registry=<url>
// <verb> <args...>` and returns its standard output.
//
// npm exits non-zero for informational results such as `npm outdated`
// listing packages. A failing exit with output on stdout and nothing on
// stderr is therefore reported as success.
func (r *Runner) Run(ctx context.Context, inv Invocation, verb string, args ...string) (string, error) {
	if err := r.editor.Touch(); err != nil {
		return "", err
	}

	argv := inv.Command("--no-package-lock", "--ignore-scripts", "--registry="+r.registryURL, verb)
	argv = append(argv, args...)

	cmd := exec.CommandContext(ctx, inv.Path, argv...)
	cmd.Dir = r.installDir
	cmd.Env = setEnv(os.Environ(), RunNodeScriptEnv, "1")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running npm", zap.String("path", inv.Path), zap.Strings("args", argv))
	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return "", fmt.Errorf("running npm %s: %w", verb, err)
	}
	if stderr.Len() == 0 && stdout.Len() > 0 {
		return stdout.String(), nil
	}
	return "", &ProcessError{
		Args:     append([]string{inv.Path}, argv...),
		ExitCode: exitErr.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
