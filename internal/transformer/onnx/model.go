package onnx

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/comfforts/logger"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/hankgalt/translator/pkg/domain"
)

// nextLogits is the part of Decoder the generation loop uses.
type nextLogits interface {
	NextLogits(states *ort.Tensor[float32], mask *ort.Tensor[int64], decoderIDs []int64) ([]float32, error)
	Close() error
}

// Seq2Seq greedily generates with an exported mT5 encoder/decoder pair.
type Seq2Seq struct {
	cfg     domain.T5Config
	model   *ModelConfig
	tok     *HFTokenizer
	encoder *Encoder
	decoder nextLogits
}

// NewSeq2Seq loads config, tokenizer and both ONNX graphs from cfg.ModelPath.
// The ONNX runtime shared library path must already be set.
func NewSeq2Seq(ctx context.Context, cfg domain.T5Config) (*Seq2Seq, error) {
	l, err := logger.LoggerFromContext(ctx)
	if err != nil {
		l = logger.GetSlogLogger()
	}
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("missing ModelPath")
	}
	cfg = cfg.Defaults()

	model, err := LoadModelConfig(cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	tok, err := NewHFTokenizerFromLocal(filepath.Join(cfg.ModelPath, "tokenizer.json"), int(model.EOSTokenID))
	if err != nil {
		return nil, err
	}

	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("init ORT env: %w", err)
		}
	}

	enc, err := NewEncoder(filepath.Join(cfg.ModelPath, "encoder_model.onnx"),
		cfg.InputNameIDs, cfg.InputNameMask, cfg.EncoderOutputName)
	if err != nil {
		return nil, err
	}
	dec, err := NewDecoder(filepath.Join(cfg.ModelPath, "decoder_model.onnx"),
		cfg.InputNameEncoderMask, cfg.InputNameIDs, cfg.InputNameEncoderStates, cfg.DecoderOutputName,
		model.VocabSize)
	if err != nil {
		enc.Close()
		return nil, err
	}

	l.Info("loaded ONNX seq2seq model",
		"model-path", cfg.ModelPath,
		"model-type", model.ModelType,
		"hidden-size", enc.hiddenSize,
		"vocab-size", dec.vocabSize)

	return &Seq2Seq{
		cfg:     cfg,
		model:   model,
		tok:     tok,
		encoder: enc,
		decoder: dec,
	}, nil
}

// Translate encodes text once and emits argmax tokens until EOS or
// cfg.MaxNewTokens.
func (s *Seq2Seq) Translate(ctx context.Context, text string) (string, error) {
	ids, mask, err := s.tok.Encode(text, s.cfg.MaxSeqLen)
	if err != nil {
		return "", err
	}

	states, err := s.encoder.Encode(ids, mask)
	if err != nil {
		return "", err
	}
	defer states.Destroy()

	maskTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(mask))), mask)
	if err != nil {
		return "", fmt.Errorf("encoder_attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	out, err := s.generate(states, maskTensor)
	if err != nil {
		return "", err
	}
	return s.tok.Decode(out)
}

// generate runs the greedy loop from the decoder start token and returns the
// emitted ids without the start token and the EOS.
func (s *Seq2Seq) generate(states *ort.Tensor[float32], mask *ort.Tensor[int64]) ([]int64, error) {
	decoderIDs := []int64{s.model.DecoderStartTokenID}
	for step := 0; step < s.cfg.MaxNewTokens; step++ {
		logits, err := s.decoder.NextLogits(states, mask, decoderIDs)
		if err != nil {
			return nil, fmt.Errorf("decoding step %d: %w", step, err)
		}
		next := int64(Argmax(logits))
		if next == s.model.EOSTokenID {
			break
		}
		decoderIDs = append(decoderIDs, next)
	}
	return decoderIDs[1:], nil
}

// Close destroys both sessions and, unless cfg.GlobalRuntime, the runtime.
func (s *Seq2Seq) Close() error {
	var errs []error
	if s.encoder != nil {
		errs = append(errs, s.encoder.Close())
	}
	if s.decoder != nil {
		errs = append(errs, s.decoder.Close())
	}
	if !s.cfg.GlobalRuntime && ort.IsInitialized() {
		errs = append(errs, ort.DestroyEnvironment())
	}
	return errors.Join(errs...)
}
