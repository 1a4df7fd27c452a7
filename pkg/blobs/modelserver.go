package blobs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/comfforts/logger"
)

type ModelServer struct {
	// BlobserverURL is the base URL artifacts are served under, typically http://blobserver/weights
	BlobserverURL *url.URL
}

var _ BlobReader = &ModelServer{}

func (m *ModelServer) Download(ctx context.Context, info BlobInfo, destPath string) error {
	l, err := logger.LoggerFromContext(ctx)
	if err != nil {
		l = logger.GetSlogLogger()
	}

	u := m.BlobserverURL.JoinPath(info.Name).String()
	l.Info("downloading from url", "url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	startedAt := time.Now()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("blob %q not found: %w", u, os.ErrNotExist)
		}
		return fmt.Errorf("unexpected status downloading from %q: %v", u, resp.Status)
	}

	n, err := writeToFile(ctx, resp.Body, destPath)
	if err != nil {
		return fmt.Errorf("downloading from %q: %w", u, err)
	}

	l.Info("downloaded blob", "url", u, "bytes", n, "duration", time.Since(startedAt))

	return nil
}
