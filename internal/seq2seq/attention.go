package seq2seq

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// BahdanauAttention scores every encoder step against the decoder state with
// an additive projection.
type BahdanauAttention struct {
	W1 Dense // applied to encoder outputs
	W2 Dense // applied to the decoder state
	V  Dense // reduces to one score per step
}

// Keys holds encoder outputs together with their W1 projection, which does
// not change across decode steps.
type Keys struct {
	values    *mat.Dense
	projected *mat.Dense
}

// Prepare projects the encoder outputs once per translation.
func (a *BahdanauAttention) Prepare(values *mat.Dense) *Keys {
	return &Keys{
		values:    values,
		projected: a.W1.ApplyRows(values),
	}
}

// Attend returns the context vector and the per-step attention weights for query.
func (a *BahdanauAttention) Attend(query mat.Vector, keys *Keys) (*mat.VecDense, []float64) {
	q := a.W2.Apply(query)
	steps, units := keys.projected.Dims()

	hidden := mat.NewVecDense(units, nil)
	weights := make([]float64, steps)
	for t := 0; t < steps; t++ {
		for j := 0; j < units; j++ {
			hidden.SetVec(j, math.Tanh(keys.projected.At(t, j)+q.AtVec(j)))
		}
		weights[t] = a.V.Apply(hidden).AtVec(0)
	}
	softmax(weights)

	_, width := keys.values.Dims()
	context := mat.NewVecDense(width, nil)
	context.MulVec(keys.values.T(), mat.NewVecDense(steps, weights))
	return context, weights
}
