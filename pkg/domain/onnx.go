package domain

// T5Config configures the pretrained mT5 model served through ONNX Runtime.
type T5Config struct {
	// directory containing encoder_model.onnx, decoder_model.onnx, tokenizer.json and config.json
	ModelPath string
	// e.g. "input_ids"
	InputNameIDs string
	// e.g. "attention_mask"
	InputNameMask string
	// e.g. "last_hidden_state"
	EncoderOutputName string
	// e.g. "encoder_hidden_states"
	InputNameEncoderStates string
	// e.g. "encoder_attention_mask"
	InputNameEncoderMask string
	// e.g. "logits"
	DecoderOutputName string
	// input tokens kept, 128 by default
	MaxSeqLen int
	// e.g. 20
	MaxNewTokens int
	// if true, this instance will skip shutting down the ONNX runtime on close.
	// Useful when several ONNX models share one process.
	GlobalRuntime bool
}

// Defaults fills unset fields with the names used by optimum's T5 exports.
func (c T5Config) Defaults() T5Config {
	if c.InputNameIDs == "" {
		c.InputNameIDs = "input_ids"
	}
	if c.InputNameMask == "" {
		c.InputNameMask = "attention_mask"
	}
	if c.EncoderOutputName == "" {
		c.EncoderOutputName = "last_hidden_state"
	}
	if c.InputNameEncoderStates == "" {
		c.InputNameEncoderStates = "encoder_hidden_states"
	}
	if c.InputNameEncoderMask == "" {
		c.InputNameEncoderMask = "encoder_attention_mask"
	}
	if c.DecoderOutputName == "" {
		c.DecoderOutputName = "logits"
	}
	if c.MaxSeqLen <= 0 {
		c.MaxSeqLen = 128
	}
	if c.MaxNewTokens <= 0 {
		c.MaxNewTokens = 20
	}
	return c
}
