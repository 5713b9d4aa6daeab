package npm

import (
	"archive/tar"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/deriamis/mongosh/internal/platform"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// packageVersion is the subset of a registry version document we read.
type packageVersion struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Dist    struct {
		Tarball string `json:"tarball"`
	} `json:"dist"`
}

// fetchLatest reads the registry metadata of the newest release of pkg.
func (o *options) fetchLatest(ctx context.Context, pkg string) (*packageVersion, error) {
	url := strings.TrimRight(o.registryURL, "/") + "/" + pkg + "/latest"
	resp, err := o.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s metadata: %w", pkg, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("registry returned status %d for %s", resp.StatusCode(), url)
	}

	var pv packageVersion
	if err := json.Unmarshal(resp.Body(), &pv); err != nil {
		return nil, fmt.Errorf("parsing %s metadata: %w", pkg, err)
	}
	if pv.Dist.Tarball == "" {
		return nil, fmt.Errorf("registry metadata for %s has no tarball", pkg)
	}
	return &pv, nil
}

// downloadPackage streams the tarball at url into destDir, dropping the
// leading "package/" directory. The result appears at destDir only once
// extraction has completed.
func (o *options) downloadPackage(ctx context.Context, url, destDir string) error {
	resp, err := o.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	body := resp.RawBody()
	defer body.Close()
	if resp.IsError() {
		return fmt.Errorf("download returned status %d", resp.StatusCode())
	}

	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", parent, err)
	}
	staging, err := os.MkdirTemp(parent, ".staging-"+filepath.Base(destDir)+"-")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := extractTarGz(body, staging, o.logger); err != nil {
		return err
	}

	if err := os.RemoveAll(destDir); err != nil {
		return fmt.Errorf("removing previous %s: %w", destDir, err)
	}
	if err := os.Rename(staging, destDir); err != nil {
		return fmt.Errorf("installing %s: %w", destDir, err)
	}
	return nil
}

// extractTarGz unpacks a gzip-compressed tar stream into destDir, stripping
// the first path component of every entry.
func extractTarGz(r io.Reader, destDir string, logger *zap.Logger) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("creating gzip reader: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		rel, ok := stripComponent(hdr.Name)
		if !ok {
			continue
		}
		target := filepath.Join(destDir, filepath.FromSlash(rel))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", rel, err)
			}
		case tar.TypeReg:
			if err := writeEntry(tr, target, hdr.FileInfo().Mode().Perm()); err != nil {
				return fmt.Errorf("extracting %s: %w", rel, err)
			}
		default:
			logger.Debug("skipping tar entry", zap.String("name", hdr.Name), zap.Uint8("type", hdr.Typeflag))
		}
	}
}

// stripComponent drops the first path element and rejects entries that
// would land outside the destination.
func stripComponent(name string) (string, bool) {
	name = path.Clean(strings.TrimPrefix(name, "./"))
	if path.IsAbs(name) {
		return "", false
	}
	top, rest, found := strings.Cut(name, "/")
	if !found || top == ".." || rest == "" || !filepath.IsLocal(rest) {
		return "", false
	}
	return rest, true
}

func writeEntry(r io.Reader, target string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return platform.Chmod(target, platform.ReadableMode(perm))
}
