package seq2seq

import (
	"gonum.org/v1/gonum/mat"
)

// Encoder embeds source ids and runs them through a GRU.
type Encoder struct {
	Embedding Embedding
	GRU       GRU
}

// Encode returns the GRU output for every input step, shaped [len(ids), units],
// and the final hidden state. hidden is the initial state; nil means zeros.
func (e *Encoder) Encode(ids []int, hidden *mat.VecDense) (*mat.Dense, *mat.VecDense, error) {
	units := e.GRU.Units
	if hidden == nil {
		hidden = mat.NewVecDense(units, nil)
	}

	outputs := mat.NewDense(len(ids), units, nil)
	for t, id := range ids {
		x, err := e.Embedding.Lookup(id)
		if err != nil {
			return nil, nil, err
		}
		hidden = e.GRU.Step(x, hidden)
		outputs.SetRow(t, hidden.RawVector().Data)
	}
	return outputs, hidden, nil
}
