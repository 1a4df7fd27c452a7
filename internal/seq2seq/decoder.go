package seq2seq

import (
	"gonum.org/v1/gonum/mat"
)

// Decoder produces target logits one token at a time, attending over the
// encoder outputs at every step.
type Decoder struct {
	Embedding Embedding
	GRU       GRU
	FC        Dense
	Attention BahdanauAttention
}

// StepResult is the output of a single decoder step.
type StepResult struct {
	Logits    *mat.VecDense
	Hidden    *mat.VecDense
	Attention []float64
}

// Step feeds the previous token. hidden is only used as the attention query:
// the checkpoints were trained with the decoder GRU starting from zeros on every
// call, so the returned state comes from a fresh cell.
func (d *Decoder) Step(token int, hidden mat.Vector, keys *Keys) (*StepResult, error) {
	context, weights := d.Attention.Attend(hidden, keys)

	embedded, err := d.Embedding.Lookup(token)
	if err != nil {
		return nil, err
	}

	x := mat.NewVecDense(context.Len()+embedded.Len(), nil)
	x.SliceVec(0, context.Len()).(*mat.VecDense).CopyVec(context)
	x.SliceVec(context.Len(), x.Len()).(*mat.VecDense).CopyVec(embedded)

	state := d.GRU.Step(x, mat.NewVecDense(d.GRU.Units, nil))
	return &StepResult{
		Logits:    d.FC.Apply(state),
		Hidden:    state,
		Attention: weights,
	}, nil
}
