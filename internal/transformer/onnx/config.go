package onnx

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ModelConfig holds the token ids and sizes the greedy decoder needs, read from
// config.json and, when present, generation_config.json.
type ModelConfig struct {
	ModelType           string
	VocabSize           int
	EOSTokenID          int64
	PadTokenID          int64
	DecoderStartTokenID int64
}

type rawConfig struct {
	ModelType           string `json:"model_type"`
	VocabSize           int    `json:"vocab_size"`
	EOSTokenID          any    `json:"eos_token_id"` // int or []int
	PadTokenID          any    `json:"pad_token_id"` // int or null
	DecoderStartTokenID *int64 `json:"decoder_start_token_id"`
}

// LoadModelConfig reads the model configuration from dir.
func LoadModelConfig(dir string) (*ModelConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		return nil, fmt.Errorf("reading config.json: %w", err)
	}
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config.json: %w", err)
	}

	cfg := &ModelConfig{
		ModelType: raw.ModelType,
		VocabSize: raw.VocabSize,
	}
	eos, ok := firstID(raw.EOSTokenID)
	if !ok {
		return nil, fmt.Errorf("config.json has no eos_token_id")
	}
	cfg.EOSTokenID = eos

	if pad, ok := firstID(raw.PadTokenID); ok {
		cfg.PadTokenID = pad
	} else {
		cfg.PadTokenID = eos
	}
	if raw.DecoderStartTokenID != nil {
		cfg.DecoderStartTokenID = *raw.DecoderStartTokenID
	} else {
		// T5 starts decoding from the pad token.
		cfg.DecoderStartTokenID = cfg.PadTokenID
	}

	// generation_config.json is optional and overrides config.json.
	if data, err := os.ReadFile(filepath.Join(dir, "generation_config.json")); err == nil {
		var gen rawConfig
		if err := json.Unmarshal(data, &gen); err != nil {
			return nil, fmt.Errorf("parsing generation_config.json: %w", err)
		}
		if eos, ok := firstID(gen.EOSTokenID); ok {
			cfg.EOSTokenID = eos
		}
		if pad, ok := firstID(gen.PadTokenID); ok {
			cfg.PadTokenID = pad
		}
		if gen.DecoderStartTokenID != nil {
			cfg.DecoderStartTokenID = *gen.DecoderStartTokenID
		}
	}
	return cfg, nil
}

// firstID accepts a JSON number or a list of numbers.
func firstID(v any) (int64, bool) {
	switch v := v.(type) {
	case float64:
		return int64(v), true
	case []any:
		if len(v) > 0 {
			if f, ok := v[0].(float64); ok {
				return int64(f), true
			}
		}
	}
	return 0, false
}
