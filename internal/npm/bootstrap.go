package npm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/deriamis/mongosh/internal/manifest"
	"github.com/deriamis/mongosh/internal/prompt"
	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// ErrUserDeclined is returned when the user refuses the npm download.
var ErrUserDeclined = errors.New("Stopped by user request")

// DownloadPrompt is the question asked before downloading npm.
const DownloadPrompt = "This operation requires downloading a recent release of npm. Do you want to proceed? [Y/n]"

const (
	packageName = "npm"
	lockFile    = ".npm-download.lock"
	lockRetry   = 200 * time.Millisecond
)

// Invocation is the command prefix that runs npm.
type Invocation struct {
	Path string
	Args []string
}

// Command returns the full argument vector with extra appended.
func (inv Invocation) Command(extra ...string) []string {
	argv := make([]string, 0, len(inv.Args)+len(extra))
	argv = append(argv, inv.Args...)
	return append(argv, extra...)
}

// Bootstrapper finds a usable npm for an install directory.
type Bootstrapper struct {
	*options
	installDir string
	editor     *manifest.Editor
}

// NewBootstrapper creates a bootstrapper for installDir.
func NewBootstrapper(installDir string, opts ...Option) *Bootstrapper {
	return &Bootstrapper{
		options:    newOptions(opts),
		installDir: installDir,
		editor:     manifest.NewEditor(installDir),
	}
}

// PrivateCLI returns the location of the private npm entry point.
func (b *Bootstrapper) PrivateCLI() string {
	return filepath.Join(b.installDir, "node_modules", packageName, "bin", "npm-cli.js")
}

// Ensure returns an npm invocation, downloading npm if nothing usable is
// installed and p does not refuse.
func (b *Bootstrapper) Ensure(ctx context.Context, p prompt.Prompter) (Invocation, error) {
	if inv, ok := b.Detect(ctx); ok {
		return inv, nil
	}

	answer, err := p.Prompt(ctx, DownloadPrompt, prompt.KindYesNo)
	if err != nil {
		return Invocation{}, fmt.Errorf("asking for npm download: %w", err)
	}
	if answer == prompt.AnswerNo {
		return Invocation{}, ErrUserDeclined
	}

	if err := b.download(ctx); err != nil {
		return Invocation{}, err
	}
	if err := b.editor.Edit(func(s *manifest.State) error {
		s.Set(packageName, manifest.LatestSpec)
		return nil
	}); err != nil {
		return Invocation{}, err
	}

	inv, ok := b.private()
	if !ok {
		return Invocation{}, fmt.Errorf("downloaded npm has no entry point at %s", b.PrivateCLI())
	}
	return inv, nil
}

// Detect returns an already usable npm without prompting or downloading.
func (b *Bootstrapper) Detect(ctx context.Context) (Invocation, bool) {
	if inv, ok := b.private(); ok {
		return inv, true
	}
	return b.system(ctx)
}

func (b *Bootstrapper) private() (Invocation, bool) {
	cli := b.PrivateCLI()
	if _, err := os.Stat(cli); err != nil {
		return Invocation{}, false
	}
	return Invocation{Path: b.nodePath, Args: []string{cli}}, true
}

func (b *Bootstrapper) system(ctx context.Context) (Invocation, bool) {
	npmPath, err := b.lookPath(packageName)
	if err != nil {
		b.logger.Debug("no npm on PATH", zap.Error(err))
		return Invocation{}, false
	}
	out, err := exec.CommandContext(ctx, npmPath, "--version").Output()
	if err != nil {
		b.logger.Debug("npm --version failed", zap.String("path", npmPath), zap.Error(err))
		return Invocation{}, false
	}
	if !IsSupported(string(out)) {
		b.logger.Debug("system npm too old", zap.String("version", string(out)))
		return Invocation{}, false
	}
	return Invocation{Path: npmPath}, true
}

// download installs the latest npm release under the install directory.
// Concurrent processes serialize on a lock file; a process that waited
// finds the finished copy and returns.
func (b *Bootstrapper) download(ctx context.Context) error {
	if err := os.MkdirAll(b.installDir, 0755); err != nil {
		return fmt.Errorf("creating install directory: %w", err)
	}

	lock := flock.New(filepath.Join(b.installDir, lockFile))
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("acquiring npm download lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another npm download is in progress (lock: %s)", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	if _, ok := b.private(); ok {
		return nil
	}

	pv, err := b.fetchLatest(ctx, packageName)
	if err != nil {
		return err
	}
	b.logger.Info("downloading npm", zap.String("version", pv.Version), zap.String("tarball", pv.Dist.Tarball))

	dest := filepath.Join(b.installDir, "node_modules", packageName)
	return b.downloadPackage(ctx, pv.Dist.Tarball, dest)
}
