package seq2seq

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/comfforts/logger"

	"github.com/hankgalt/translator/pkg/domain"
)

// Translator runs greedy attention decoding over a loaded encoder/decoder pair.
// It is read-only after construction and safe for concurrent use.
type Translator struct {
	cfg     domain.Sin2EngConfig
	source  *Vocabulary
	target  *Vocabulary
	encoder *Encoder
	decoder *Decoder
}

// Result is a full decode: emitted ids and words, excluding the end sentinel,
// and the attention weights of every step that emitted a word.
type Result struct {
	IDs       []int
	Words     []string
	Attention [][]float64
}

// NewTranslator loads vocabularies and weights from cfg.WeightDir. Parameter
// shapes are derived from the vocabulary sizes and cfg, so a checkpoint that
// does not match fails here rather than at inference.
func NewTranslator(ctx context.Context, cfg domain.Sin2EngConfig) (*Translator, error) {
	l, err := logger.LoggerFromContext(ctx)
	if err != nil {
		l = logger.GetSlogLogger()
	}
	cfg = cfg.Defaults()
	startedAt := time.Now()

	source, err := LoadVocabulary(filepath.Join(cfg.WeightDir, domain.SourceTokenizerFile))
	if err != nil {
		return nil, err
	}
	target, err := LoadVocabulary(filepath.Join(cfg.WeightDir, domain.TargetTokenizerFile))
	if err != nil {
		return nil, err
	}

	encCkpt, err := ReadCheckpoint(filepath.Join(cfg.WeightDir, domain.EncoderWeightsFile))
	if err != nil {
		return nil, err
	}
	encoder, err := encCkpt.BuildEncoder(Shapes{Vocab: source.Size(), EmbeddingDim: cfg.EmbeddingDim, Units: cfg.Units})
	if err != nil {
		return nil, fmt.Errorf("loading encoder: %w", err)
	}

	decCkpt, err := ReadCheckpoint(filepath.Join(cfg.WeightDir, domain.DecoderWeightsFile))
	if err != nil {
		return nil, err
	}
	decoder, err := decCkpt.BuildDecoder(Shapes{Vocab: target.Size(), EmbeddingDim: cfg.EmbeddingDim, Units: cfg.Units})
	if err != nil {
		return nil, fmt.Errorf("loading decoder: %w", err)
	}

	l.Info("loaded seq2seq translator",
		"weight-dir", cfg.WeightDir,
		"source-vocab", source.Size(),
		"target-vocab", target.Size(),
		"units", cfg.Units,
		"duration", time.Since(startedAt))

	return &Translator{
		cfg:     cfg,
		source:  source,
		target:  target,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

// Translate returns the greedy translation of text.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	res, err := t.Decode(ctx, text)
	if err != nil {
		return "", err
	}
	return t.target.Decode(res.IDs)
}

// Decode preprocesses and encodes text, then emits the argmax token until the
// end sentinel or cfg.MaxOutputLen steps.
func (t *Translator) Decode(ctx context.Context, text string) (*Result, error) {
	ids := t.source.Encode(Preprocess(text), t.cfg.MaxInputLen)

	outputs, hidden, err := t.encoder.Encode(ids, nil)
	if err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}
	keys := t.decoder.Attention.Prepare(outputs)

	res := &Result{}
	token := t.target.StartID()
	endID := t.target.EndID()
	for step := 0; step < t.cfg.MaxOutputLen; step++ {
		out, err := t.decoder.Step(token, hidden, keys)
		if err != nil {
			return nil, fmt.Errorf("decoding step %d: %w", step, err)
		}
		predicted := argmax(out.Logits)
		if predicted == endID {
			break
		}
		word, ok := t.target.Word(predicted)
		if !ok {
			return nil, fmt.Errorf("decoding step %d: predicted id %d has no word", step, predicted)
		}
		res.IDs = append(res.IDs, predicted)
		res.Words = append(res.Words, word)
		res.Attention = append(res.Attention, out.Attention)

		token = predicted
		hidden = out.Hidden
	}
	return res, nil
}

// Close releases nothing; weights are plain memory.
func (t *Translator) Close() error {
	return nil
}
