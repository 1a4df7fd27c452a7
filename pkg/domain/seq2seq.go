package domain

// Model selectors accepted by the translate endpoint.
const (
	ModelSin2Eng = "Sin2Eng"
	ModelT5      = "T5"
)

// Hyperparameters the Sinhala to English checkpoints were trained with.
const (
	DefaultEmbeddingDim = 256
	DefaultUnits        = 1024
	DefaultMaxInputLen  = 50
	DefaultMaxOutputLen = 50
)

// Artifact file names expected inside Sin2EngConfig.WeightDir.
const (
	SourceTokenizerFile = "inp_lang_tokenizer.json"
	TargetTokenizerFile = "targ_lang_tokenizer.json"
	EncoderWeightsFile  = "encoder.weights.json"
	DecoderWeightsFile  = "decoder.weights.json"
)

// Sin2EngArtifacts lists every file NewSin2EngTranslator reads.
var Sin2EngArtifacts = []string{
	SourceTokenizerFile,
	TargetTokenizerFile,
	EncoderWeightsFile,
	DecoderWeightsFile,
}

// Sin2EngConfig configures the attention encoder/decoder translator.
type Sin2EngConfig struct {
	// directory holding the tokenizer and weight artifacts
	WeightDir string
	// width of the token embeddings, 256 for the shipped checkpoints
	EmbeddingDim int
	// GRU units shared by encoder, decoder and attention
	Units int
	// input ids are padded or truncated to this length
	MaxInputLen int
	// upper bound on decode steps
	MaxOutputLen int
}

// Defaults fills unset fields with the training configuration.
func (c Sin2EngConfig) Defaults() Sin2EngConfig {
	if c.EmbeddingDim <= 0 {
		c.EmbeddingDim = DefaultEmbeddingDim
	}
	if c.Units <= 0 {
		c.Units = DefaultUnits
	}
	if c.MaxInputLen <= 0 {
		c.MaxInputLen = DefaultMaxInputLen
	}
	if c.MaxOutputLen <= 0 {
		c.MaxOutputLen = DefaultMaxOutputLen
	}
	return c
}
