// Package installer implements the parallel download+extract pipeline
// that materialises a resolved install plan on disk: open the archive
// stream, stream it to a content-addressed cache file, then hand the
// cache path to a worker-pool extractor that unpacks it into the
// destination module tree.
//
// The download half is grounded on invowk-invowk/pkg/pack.go's
// downloadFile (http GET -> io.Copy into a file). The extraction half is
// grounded on that same file's extractFile/zip.OpenReader walk,
// including its path-traversal guard, generalised from "extract one
// pack" into "extract many archives across a bounded worker pool" using
// golang.org/x/sync/errgroup for the open+download fan-out and join.
package installer

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"logger"

	"github.com/nulifyer/modget/internal/host"
	"github.com/nulifyer/modget/internal/modgeterr"
	"github.com/nulifyer/modget/internal/spec"
	"github.com/nulifyer/modget/internal/version"
)

// RegistryClient is the subset of *registry.Client the installer needs.
type RegistryClient interface {
	OpenArchiveStream(ctx context.Context, uri string) (io.ReadCloser, error)
}

// Options configures a single install run.
type Options struct {
	// Destination is the module tree root; archives are extracted to
	// {Destination}/{Name}/{Version}.
	Destination string
	// Cache is the content-addressed archive cache directory.
	Cache string
	// Workers bounds the CPU-bound extraction worker pool. Zero means
	// runtime.NumCPU().
	Workers int
	// Progress receives best-effort download/extract notifications. Nil
	// means no reporting.
	Progress host.ProgressSink
}

func (o Options) progress() host.ProgressSink {
	if o.Progress == nil {
		return host.NoopProgressSink{}
	}
	return o.Progress
}

type downloadedArchive struct {
	s         spec.Spec
	cachePath string
}

// Install downloads and extracts every member of plan. It returns the
// first error encountered; on any failure, all in-flight downloads and
// pending extractions are cancelled and no partial rollback is
// attempted (already-extracted modules remain on disk).
func Install(ctx context.Context, client RegistryClient, plan []spec.Spec, opts Options) error {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if err := os.MkdirAll(opts.Cache, 0o755); err != nil {
		return &modgeterr.InternalError{Reason: fmt.Sprintf("creating cache directory: %v", err)}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	downloaded := make(chan downloadedArchive)
	g, gctx := errgroup.WithContext(ctx)

	// Open + download stage: one goroutine per module, unbounded —
	// network I/O, not CPU-bound, so no worker-pool cap here.
	g.Go(func() error {
		inner, innerCtx := errgroup.WithContext(gctx)
		for _, r := range plan {
			r := r
			inner.Go(func() error {
				opts.progress().ModuleDownloading(r.Name, r.Min.String())
				d, err := downloadOne(innerCtx, client, r, opts.Cache)
				if err != nil {
					opts.progress().Failed(r.Name, err)
					return err
				}
				select {
				case downloaded <- d:
					return nil
				case <-innerCtx.Done():
					return innerCtx.Err()
				}
			})
		}
		err := inner.Wait()
		close(downloaded)
		return err
	})

	// Extract stage: bounded worker pool, CPU-bound.
	for i := 0; i < opts.Workers; i++ {
		g.Go(func() error {
			for {
				select {
				case d, ok := <-downloaded:
					if !ok {
						return nil
					}
					if err := extractOne(d, opts.Destination); err != nil {
						opts.progress().Failed(d.s.Name, err)
						return err
					}
					opts.progress().ModuleExtracted(d.s.Name, d.s.Min.String())
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		if err == context.Canceled || err == context.DeadlineExceeded {
			return &modgeterr.CancelledError{Err: err}
		}
		return err
	}
	return nil
}

// downloadOne opens the archive stream for r and copies it into the
// content-addressed cache path {cache}/{Name}.{Version}.nupkg, per §6's
// cache layout.
func downloadOne(ctx context.Context, client RegistryClient, r spec.Spec, cacheDir string) (downloadedArchive, error) {
	if r.DownloadUri == nil {
		return downloadedArchive{}, &modgeterr.InternalError{Reason: fmt.Sprintf("plan entry %s has no download URI", r.CanonicalString())}
	}

	body, err := client.OpenArchiveStream(ctx, r.DownloadUri.String())
	if err != nil {
		return downloadedArchive{}, err
	}
	defer body.Close()

	logger.Debug("downloading %s %s from %s", r.Name, r.Min.String(), r.DownloadUri)
	cachePath := filepath.Join(cacheDir, fmt.Sprintf("%s.%s.nupkg", r.Name, version.DisplayString(r.Min)))
	f, err := os.OpenFile(cachePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return downloadedArchive{}, &modgeterr.InternalError{Reason: fmt.Sprintf("creating cache file %s: %v", cachePath, err)}
	}
	_, copyErr := io.Copy(f, body)
	closeErr := f.Close()
	if copyErr != nil {
		return downloadedArchive{}, &modgeterr.TransportError{Name: r.Name, Err: copyErr}
	}
	if closeErr != nil {
		return downloadedArchive{}, &modgeterr.InternalError{Reason: fmt.Sprintf("closing cache file %s: %v", cachePath, closeErr)}
	}
	return downloadedArchive{s: r, cachePath: cachePath}, nil
}

// extractOne unpacks d's cached archive into
// {destination}/{Name}/{Version}, overwriting any existing contents.
func extractOne(d downloadedArchive, destRoot string) error {
	zr, err := zip.OpenReader(d.cachePath)
	if err != nil {
		return &modgeterr.InternalError{Reason: fmt.Sprintf("opening cached archive %s: %v", d.cachePath, err)}
	}
	defer zr.Close()

	moduleDir := filepath.Join(destRoot, d.s.Name, version.DisplayString(d.s.Min))
	if err := os.MkdirAll(moduleDir, 0o755); err != nil {
		return &modgeterr.InternalError{Reason: fmt.Sprintf("creating module directory %s: %v", moduleDir, err)}
	}
	logger.Debug("extracting %s %s into %s (%d entries)", d.s.Name, d.s.Min.String(), moduleDir, len(zr.File))

	for _, file := range zr.File {
		destPath := filepath.Join(moduleDir, filepath.FromSlash(file.Name))

		relPath, err := filepath.Rel(moduleDir, destPath)
		if err != nil || strings.HasPrefix(relPath, "..") {
			return &modgeterr.InternalError{Reason: fmt.Sprintf("invalid path in archive %s: %s", d.cachePath, file.Name)}
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, file.Mode()); err != nil {
				return &modgeterr.InternalError{Reason: err.Error()}
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return &modgeterr.InternalError{Reason: err.Error()}
		}
		if err := extractFile(file, destPath); err != nil {
			return &modgeterr.InternalError{Reason: fmt.Sprintf("extracting %s from %s: %v", file.Name, d.cachePath, err)}
		}
	}
	return nil
}

func extractFile(file *zip.File, destPath string) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, rc)
	return err
}
