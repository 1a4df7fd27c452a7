package translator

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/comfforts/logger"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/hankgalt/translator/internal/seq2seq"
	"github.com/hankgalt/translator/internal/transformer/onnx"
	"github.com/hankgalt/translator/pkg/domain"
)

type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
	Close(ctx context.Context) error
}

type sin2EngTranslator struct {
	model *seq2seq.Translator
}

// NewSin2EngTranslator loads the attention encoder/decoder from cfg.WeightDir.
func NewSin2EngTranslator(ctx context.Context, cfg domain.Sin2EngConfig) (*sin2EngTranslator, error) {
	l, err := logger.LoggerFromContext(ctx)
	if err != nil {
		l = logger.GetSlogLogger()
	}

	if cfg.WeightDir == "" {
		l.Error("NewSin2EngTranslator - missing weight dir")
		return nil, errors.New("missing weight dir")
	}

	model, err := seq2seq.NewTranslator(ctx, cfg)
	if err != nil {
		l.Error("NewSin2EngTranslator - error loading model", "error", err.Error())
		return nil, err
	}

	return &sin2EngTranslator{
		model: model,
	}, nil
}

func (s *sin2EngTranslator) Translate(ctx context.Context, text string) (string, error) {
	l, err := logger.LoggerFromContext(ctx)
	if err != nil {
		l = logger.GetSlogLogger()
	}

	if s.model == nil {
		l.Error("sin2EngTranslator:Translate - nil model")
		return "", errors.New("nil model")
	}

	return s.model.Translate(ctx, text)
}

func (s *sin2EngTranslator) Close(ctx context.Context) error {
	if s.model != nil {
		return s.model.Close()
	}
	return nil
}

type t5Translator struct {
	model *onnx.Seq2Seq
}

// NewT5Translator loads the pretrained mT5 ONNX export from cfg.ModelPath.
// ONNXRUNTIME_SHARED_LIBRARY_PATH must point at the onnxruntime library.
func NewT5Translator(ctx context.Context, cfg domain.T5Config) (*t5Translator, error) {
	l, err := logger.LoggerFromContext(ctx)
	if err != nil {
		l = logger.GetSlogLogger()
	}

	if p := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); p != "" {
		ort.SetSharedLibraryPath(p)
	} else {
		l.Error("NewT5Translator - missing path to onnxruntime")
		return nil, errors.New("missing path to onnxruntime")
	}

	model, err := onnx.NewSeq2Seq(ctx, cfg)
	if err != nil {
		l.Error("NewT5Translator - error loading model", "error", err.Error())
		return nil, fmt.Errorf("loading T5 model: %w", err)
	}

	return &t5Translator{
		model: model,
	}, nil
}

func (t *t5Translator) Translate(ctx context.Context, text string) (string, error) {
	l, err := logger.LoggerFromContext(ctx)
	if err != nil {
		l = logger.GetSlogLogger()
	}

	if t.model == nil {
		l.Error("t5Translator:Translate - nil model")
		return "", errors.New("nil model")
	}

	return t.model.Translate(ctx, text)
}

func (t *t5Translator) Close(ctx context.Context) error {
	if t.model != nil {
		return t.model.Close()
	}
	return nil
}
