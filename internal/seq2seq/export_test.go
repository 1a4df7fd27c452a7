package seq2seq

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type param struct {
	name       string
	rows, cols int
}

func encoderParams(s Shapes) []param {
	return []param{
		{"embedding/embeddings", s.Vocab, s.EmbeddingDim},
		{"gru/kernel", s.EmbeddingDim, 3 * s.Units},
		{"gru/recurrent_kernel", s.Units, 3 * s.Units},
		{"gru/bias", 2, 3 * s.Units},
	}
}

func decoderParams(s Shapes) []param {
	return []param{
		{"embedding/embeddings", s.Vocab, s.EmbeddingDim},
		{"gru/kernel", s.Units + s.EmbeddingDim, 3 * s.Units},
		{"gru/recurrent_kernel", s.Units, 3 * s.Units},
		{"gru/bias", 2, 3 * s.Units},
		{"fc/kernel", s.Units, s.Vocab},
		{"fc/bias", 1, s.Vocab},
		{"attention/W1/kernel", s.Units, s.Units},
		{"attention/W1/bias", 1, s.Units},
		{"attention/W2/kernel", s.Units, s.Units},
		{"attention/W2/bias", 1, s.Units},
		{"attention/V/kernel", s.Units, 1},
		{"attention/V/bias", 1, 1},
	}
}

func checkpointFrom(params []param) *Checkpoint {
	ckpt := &Checkpoint{}
	for i, p := range params {
		ckpt.SetMatrix(p.name, patterned(p.rows, p.cols, float64(i)))
	}
	return ckpt
}

// The export script and the loaders must agree on every variable name.
func TestExportScriptNames(t *testing.T) {
	script, err := os.ReadFile(filepath.Join("..", "..", "scripts", "export_weights.py"))
	if err != nil {
		t.Fatalf("reading export script: %v", err)
	}
	s := Shapes{Vocab: 5, EmbeddingDim: 2, Units: 3}

	for _, p := range append(encoderParams(s), decoderParams(s)...) {
		if !strings.Contains(string(script), `"`+p.name+`"`) {
			t.Errorf("export script does not write %q", p.name)
		}
	}

	if _, err := checkpointFrom(encoderParams(s)).BuildEncoder(s); err != nil {
		t.Errorf("encoder layout rejected: %v", err)
	}
	if _, err := checkpointFrom(decoderParams(s)).BuildDecoder(s); err != nil {
		t.Errorf("decoder layout rejected: %v", err)
	}
}

// Variables saved under the h5 paths of a subclassed model are not accepted.
func TestKerasVariablePathsRejected(t *testing.T) {
	s := Shapes{Vocab: 5, EmbeddingDim: 2, Units: 3}
	ckpt := checkpointFrom([]param{
		{"embedding/embeddings:0", s.Vocab, s.EmbeddingDim},
		{"gru/gru_cell/kernel:0", s.EmbeddingDim, 3 * s.Units},
		{"gru/gru_cell/recurrent_kernel:0", s.Units, 3 * s.Units},
		{"gru/gru_cell/bias:0", 2, 3 * s.Units},
	})
	if _, err := ckpt.BuildEncoder(s); err == nil {
		t.Errorf("expected unexported checkpoint to be rejected")
	}
}
