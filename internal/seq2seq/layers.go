package seq2seq

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Embedding maps token ids to rows of a [vocab, dim] table.
type Embedding struct {
	Table *mat.Dense
}

// Lookup returns a copy of the row for id.
func (e *Embedding) Lookup(id int) (*mat.VecDense, error) {
	rows, cols := e.Table.Dims()
	if id < 0 || id >= rows {
		return nil, fmt.Errorf("token id %d outside embedding of %d rows", id, rows)
	}
	out := mat.NewVecDense(cols, nil)
	out.CopyVec(e.Table.RowView(id))
	return out, nil
}

// Dense is a fully connected layer y = x·Kernel + Bias with Kernel shaped [in, out].
type Dense struct {
	Kernel *mat.Dense
	Bias   *mat.VecDense
}

// Apply projects a single vector.
func (d *Dense) Apply(x mat.Vector) *mat.VecDense {
	_, out := d.Kernel.Dims()
	y := mat.NewVecDense(out, nil)
	y.MulVec(d.Kernel.T(), x)
	y.AddVec(y, d.Bias)
	return y
}

// ApplyRows projects every row of x, returning [rows(x), out].
func (d *Dense) ApplyRows(x mat.Matrix) *mat.Dense {
	rows, _ := x.Dims()
	_, out := d.Kernel.Dims()
	y := mat.NewDense(rows, out, nil)
	y.Mul(x, d.Kernel)
	for i := 0; i < rows; i++ {
		row := y.RowView(i).(*mat.VecDense)
		row.AddVec(row, d.Bias)
	}
	return y
}

// GRU is a keras-layout GRU cell with reset_after semantics. Kernel is
// [in, 3·units], RecurrentKernel is [units, 3·units], gate columns are ordered
// update, reset, candidate. InputBias and RecurrentBias are [3·units].
type GRU struct {
	Units           int
	Kernel          *mat.Dense
	RecurrentKernel *mat.Dense
	InputBias       *mat.VecDense
	RecurrentBias   *mat.VecDense
}

// Step advances the cell by one input and returns the new hidden state.
//
//	z  = σ(x·Wz + bz + h·Uz + rz)
//	r  = σ(x·Wr + br + h·Ur + rr)
//	h~ = tanh(x·Wh + bh + r ⊙ (h·Uh + rh))
//	h' = z ⊙ h + (1 − z) ⊙ h~
func (g *GRU) Step(x, h mat.Vector) *mat.VecDense {
	u := g.Units

	gx := mat.NewVecDense(3*u, nil)
	gx.MulVec(g.Kernel.T(), x)
	gx.AddVec(gx, g.InputBias)

	gh := mat.NewVecDense(3*u, nil)
	gh.MulVec(g.RecurrentKernel.T(), h)
	gh.AddVec(gh, g.RecurrentBias)

	out := mat.NewVecDense(u, nil)
	for i := 0; i < u; i++ {
		z := sigmoid(gx.AtVec(i) + gh.AtVec(i))
		r := sigmoid(gx.AtVec(u+i) + gh.AtVec(u+i))
		candidate := math.Tanh(gx.AtVec(2*u+i) + r*gh.AtVec(2*u+i))
		out.SetVec(i, z*h.AtVec(i)+(1-z)*candidate)
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// softmax normalizes scores in place so they sum to one.
func softmax(scores []float64) {
	if len(scores) == 0 {
		return
	}
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	var sum float64
	for i, s := range scores {
		scores[i] = math.Exp(s - maxScore)
		sum += scores[i]
	}
	for i := range scores {
		scores[i] /= sum
	}
}

// argmax returns the index of the largest element, the first one on ties.
func argmax(v mat.Vector) int {
	best := 0
	for i := 1; i < v.Len(); i++ {
		if v.AtVec(i) > v.AtVec(best) {
			best = i
		}
	}
	return best
}
