package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comfforts/logger"

	"github.com/hankgalt/translator"
	"github.com/hankgalt/translator/internal/server"
	"github.com/hankgalt/translator/pkg/blobs"
	"github.com/hankgalt/translator/pkg/domain"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func run(ctx context.Context) error {
	l := logger.GetSlogLogger()
	ctx = logger.WithLogger(ctx, l)

	listen := envOr("LISTEN", ":5000")
	weightDir := envOr("WEIGHT_DIR", "weights")
	t5ModelPath := os.Getenv("T5_MODEL_PATH")
	artifactSource := os.Getenv("ARTIFACT_SOURCE")
	flag.StringVar(&listen, "listen", listen, "listen address")
	flag.StringVar(&weightDir, "weight-dir", weightDir, "directory holding the Sin2Eng tokenizers and weights")
	flag.StringVar(&t5ModelPath, "t5-model-path", t5ModelPath, "directory holding the mT5 ONNX export; T5 is disabled when empty")
	flag.StringVar(&artifactSource, "artifact-source", artifactSource, "gs:// or http(s):// location to fetch missing Sin2Eng artifacts from")
	flag.Parse()

	if artifactSource != "" {
		reader, err := blobs.NewReader(artifactSource)
		if err != nil {
			return err
		}
		fetcher := &blobs.Fetcher{Reader: reader, MaxAttempts: 5, RetryDelay: 5 * time.Second}
		if err := fetcher.FetchMissing(ctx, weightDir, domain.Sin2EngArtifacts); err != nil {
			return fmt.Errorf("fetching artifacts: %w", err)
		}
	}

	sin2eng, err := translator.NewSin2EngTranslator(ctx, domain.Sin2EngConfig{WeightDir: weightDir})
	if err != nil {
		return fmt.Errorf("loading Sin2Eng translator: %w", err)
	}
	defer sin2eng.Close(ctx)

	models := map[string]server.Translator{
		domain.ModelSin2Eng: sin2eng,
		domain.ModelT5:      nil,
	}
	if t5ModelPath != "" {
		t5, err := translator.NewT5Translator(ctx, domain.T5Config{ModelPath: t5ModelPath})
		if err != nil {
			return fmt.Errorf("loading T5 translator: %w", err)
		}
		defer t5.Close(ctx)
		models[domain.ModelT5] = t5
	} else {
		l.Info("T5 model path not set, T5 requests will be rejected")
	}

	srv := &http.Server{
		Addr:        listen,
		Handler:     server.New(models, domain.ModelSin2Eng),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("serving", "listen", listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving on %q: %w", listen, err)
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
