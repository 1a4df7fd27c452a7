package seq2seq

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestDecoderStepInputOrder(t *testing.T) {
	// Only the embedding row of the GRU kernel feeds the candidate gate, so
	// the state depends on the embedding (0.3) and not on the context (2).
	d := Decoder{
		Embedding: Embedding{Table: mat.NewDense(2, 1, []float64{0, 0.3})},
		GRU: GRU{
			Units: 1,
			Kernel: mat.NewDense(2, 3, []float64{
				0, 0, 0, // context
				0, 0, 1, // embedding
			}),
			RecurrentKernel: mat.NewDense(1, 3, nil),
			InputBias:       mat.NewVecDense(3, nil),
			RecurrentBias:   mat.NewVecDense(3, nil),
		},
		FC: Dense{
			Kernel: mat.NewDense(1, 2, []float64{1, -1}),
			Bias:   mat.NewVecDense(2, nil),
		},
		Attention: BahdanauAttention{W1: zeroDense(1, 1), W2: zeroDense(1, 1), V: zeroDense(1, 1)},
	}
	keys := d.Attention.Prepare(mat.NewDense(2, 1, []float64{2, 2}))

	// A non-zero hidden state must not leak into the GRU step.
	res, err := d.Step(1, mat.NewVecDense(1, []float64{5}), keys)
	if err != nil {
		t.Fatalf("decoder step failed: %v", err)
	}

	want := 0.5 * math.Tanh(0.3)
	if math.Abs(res.Hidden.AtVec(0)-want) > 1e-9 {
		t.Errorf("expected state %v, got %v", want, res.Hidden.AtVec(0))
	}
	if logits := res.Logits.RawVector().Data; !floatsEqual(logits, []float64{want, -want}) {
		t.Errorf("expected logits %v, got %v", []float64{want, -want}, logits)
	}
	if !floatsEqual(res.Attention, []float64{0.5, 0.5}) {
		t.Errorf("expected uniform attention, got %v", res.Attention)
	}
}
