package seq2seq

import (
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCheckpointShapeMismatch(t *testing.T) {
	ckpt := &Checkpoint{}
	ckpt.SetMatrix("embedding/embeddings", mat.NewDense(4, 2, nil))

	if _, err := ckpt.Matrix("embedding/embeddings", 4, 2); err != nil {
		t.Fatalf("expected matching shape to load: %v", err)
	}
	if _, err := ckpt.Matrix("embedding/embeddings", 5, 2); err == nil || !strings.Contains(err.Error(), "rows") {
		t.Errorf("expected row mismatch, got %v", err)
	}
	if _, err := ckpt.Matrix("embedding/embeddings", 4, 3); err == nil || !strings.Contains(err.Error(), "columns") {
		t.Errorf("expected column mismatch, got %v", err)
	}
	if _, err := ckpt.Matrix("gru/kernel", 2, 6); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected missing weight, got %v", err)
	}
}

func TestBuildEncoderFromFile(t *testing.T) {
	s := Shapes{Vocab: 5, EmbeddingDim: 2, Units: 3}
	path := filepath.Join(t.TempDir(), "encoder.weights.json")
	if err := WriteCheckpoint(path, encoderCheckpoint(s)); err != nil {
		t.Fatalf("failed to write checkpoint: %v", err)
	}

	ckpt, err := ReadCheckpoint(path)
	if err != nil {
		t.Fatalf("failed to read checkpoint: %v", err)
	}
	enc, err := ckpt.BuildEncoder(s)
	if err != nil {
		t.Fatalf("failed to build encoder: %v", err)
	}
	if enc.GRU.InputBias.Len() != 9 || enc.GRU.RecurrentBias.Len() != 9 {
		t.Errorf("unexpected bias sizes %d, %d", enc.GRU.InputBias.Len(), enc.GRU.RecurrentBias.Len())
	}
	if enc.GRU.InputBias.AtVec(0) == enc.GRU.RecurrentBias.AtVec(0) {
		t.Errorf("input and recurrent bias rows must come from different rows")
	}

	s.Vocab = 6
	if _, err := ckpt.BuildEncoder(s); err == nil {
		t.Errorf("expected vocabulary size mismatch to fail")
	}
}
