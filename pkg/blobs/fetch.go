package blobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/comfforts/logger"
)

// NewReader picks a reader for source, either gs://bucket/prefix or an
// http(s) base URL.
func NewReader(source string) (BlobReader, error) {
	switch {
	case strings.HasPrefix(source, "gs://"):
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(source, "gs://"), "/")
		if bucket == "" {
			return nil, fmt.Errorf("artifact source %q has no bucket", source)
		}
		return &GCSBlobstore{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		u, err := url.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("parsing artifact source %q: %w", source, err)
		}
		return &ModelServer{BlobserverURL: u}, nil
	default:
		return nil, fmt.Errorf("artifact source %q must be a gs:// or http(s):// URL", source)
	}
}

// Fetcher downloads artifacts that are not yet present locally.
type Fetcher struct {
	// Reader is the interface to fetch blobs
	Reader BlobReader

	// MaxAttempts is the number of times to attempt a download before failing
	MaxAttempts int

	// RetryDelay is the pause between attempts
	RetryDelay time.Duration
}

// FetchMissing makes sure every name exists in dir, downloading the ones that
// don't. A missing remote artifact is not retried.
func (f *Fetcher) FetchMissing(ctx context.Context, dir string, names []string) error {
	l, err := logger.LoggerFromContext(ctx)
	if err != nil {
		l = logger.GetSlogLogger()
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating artifact directory %q: %w", dir, err)
	}

	for _, name := range names {
		destPath := filepath.Join(dir, name)
		if _, err := os.Stat(destPath); err == nil {
			l.Info("artifact present", "path", destPath)
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("checking artifact %q: %w", destPath, err)
		}

		if err := f.downloadToFile(ctx, BlobInfo{Name: name}, destPath); err != nil {
			return fmt.Errorf("fetching artifact %q: %w", name, err)
		}
	}
	return nil
}

func (f *Fetcher) downloadToFile(ctx context.Context, info BlobInfo, destPath string) error {
	l, err := logger.LoggerFromContext(ctx)
	if err != nil {
		l = logger.GetSlogLogger()
	}

	attempt := 0
	for {
		attempt++

		err := f.Reader.Download(ctx, info, destPath)
		if err == nil {
			return nil
		}

		if errors.Is(err, os.ErrNotExist) || attempt >= f.MaxAttempts {
			return err
		}

		l.Error("downloading blob, will retry", "name", info.Name, "attempt", attempt, "error", err.Error())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.RetryDelay):
		}
	}
}

// writeToFile copies src into a temp file next to destinationPath and renames
// it into place, so readers never see a partial artifact.
func writeToFile(ctx context.Context, src io.Reader, destinationPath string) (int64, error) {
	l, err := logger.LoggerFromContext(ctx)
	if err != nil {
		l = logger.GetSlogLogger()
	}

	dir := filepath.Dir(destinationPath)
	tempFile, err := os.CreateTemp(dir, "download")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}

	shouldDeleteTempFile := true
	defer func() {
		if shouldDeleteTempFile {
			if err := os.Remove(tempFile.Name()); err != nil {
				l.Error("removing temp file", "path", tempFile.Name(), "error", err.Error())
			}
		}
	}()

	shouldCloseTempFile := true
	defer func() {
		if shouldCloseTempFile {
			if err := tempFile.Close(); err != nil {
				l.Error("closing temp file", "path", tempFile.Name(), "error", err.Error())
			}
		}
	}()

	n, err := io.Copy(tempFile, src)
	if err != nil {
		return n, fmt.Errorf("downloading from upstream source: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return n, fmt.Errorf("closing temp file: %w", err)
	}
	shouldCloseTempFile = false

	if err := os.Rename(tempFile.Name(), destinationPath); err != nil {
		return n, fmt.Errorf("renaming temp file: %w", err)
	}
	shouldDeleteTempFile = false

	return n, nil
}
