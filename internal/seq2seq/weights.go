package seq2seq

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Checkpoint is the on-disk weight format: every variable stored row-major
// under its layer path, vectors as a single row.
type Checkpoint struct {
	Weights map[string][][]float64 `json:"weights"`
}

// ReadCheckpoint loads a JSON checkpoint from path.
func ReadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening weights %q: %w", path, err)
	}
	defer f.Close()

	var ckpt Checkpoint
	if err := json.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, fmt.Errorf("parsing weights %q: %w", path, err)
	}
	return &ckpt, nil
}

// WriteCheckpoint stores ckpt at path.
func WriteCheckpoint(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating weights %q: %w", path, err)
	}
	if err := json.NewEncoder(f).Encode(ckpt); err != nil {
		f.Close()
		return fmt.Errorf("writing weights %q: %w", path, err)
	}
	return f.Close()
}

// Matrix returns the variable name, which must be shaped [rows, cols].
func (c *Checkpoint) Matrix(name string, rows, cols int) (*mat.Dense, error) {
	data, ok := c.Weights[name]
	if !ok {
		return nil, fmt.Errorf("weight %q not found", name)
	}
	if len(data) != rows {
		return nil, fmt.Errorf("weight %q has %d rows, want %d", name, len(data), rows)
	}
	m := mat.NewDense(rows, cols, nil)
	for i, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("weight %q row %d has %d columns, want %d", name, i, len(row), cols)
		}
		m.SetRow(i, row)
	}
	return m, nil
}

// Vector returns the variable name, which must be a single row of length n.
func (c *Checkpoint) Vector(name string, n int) (*mat.VecDense, error) {
	m, err := c.Matrix(name, 1, n)
	if err != nil {
		return nil, err
	}
	return mat.NewVecDense(n, m.RawRowView(0)), nil
}

// SetMatrix stores m under name.
func (c *Checkpoint) SetMatrix(name string, m mat.Matrix) {
	if c.Weights == nil {
		c.Weights = make(map[string][][]float64)
	}
	rows, cols := m.Dims()
	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, cols)
		mat.Row(data[i], i, m)
	}
	c.Weights[name] = data
}

// SetVector stores v under name as a single row.
func (c *Checkpoint) SetVector(name string, v mat.Vector) {
	c.SetMatrix(name, v.T())
}

// Shapes are the explicit parameter sizes of one model half.
type Shapes struct {
	Vocab        int
	EmbeddingDim int
	Units        int
}

func (c *Checkpoint) embedding(s Shapes) (Embedding, error) {
	table, err := c.Matrix("embedding/embeddings", s.Vocab, s.EmbeddingDim)
	if err != nil {
		return Embedding{}, err
	}
	return Embedding{Table: table}, nil
}

func (c *Checkpoint) dense(prefix string, in, out int) (Dense, error) {
	kernel, err := c.Matrix(prefix+"/kernel", in, out)
	if err != nil {
		return Dense{}, err
	}
	bias, err := c.Vector(prefix+"/bias", out)
	if err != nil {
		return Dense{}, err
	}
	return Dense{Kernel: kernel, Bias: bias}, nil
}

func (c *Checkpoint) gru(prefix string, in, units int) (GRU, error) {
	kernel, err := c.Matrix(prefix+"/kernel", in, 3*units)
	if err != nil {
		return GRU{}, err
	}
	recurrent, err := c.Matrix(prefix+"/recurrent_kernel", units, 3*units)
	if err != nil {
		return GRU{}, err
	}
	bias, err := c.Matrix(prefix+"/bias", 2, 3*units)
	if err != nil {
		return GRU{}, err
	}
	return GRU{
		Units:           units,
		Kernel:          kernel,
		RecurrentKernel: recurrent,
		InputBias:       mat.NewVecDense(3*units, bias.RawRowView(0)),
		RecurrentBias:   mat.NewVecDense(3*units, bias.RawRowView(1)),
	}, nil
}

// BuildEncoder shapes an encoder from s and fills it from the checkpoint.
func (c *Checkpoint) BuildEncoder(s Shapes) (*Encoder, error) {
	embedding, err := c.embedding(s)
	if err != nil {
		return nil, err
	}
	gru, err := c.gru("gru", s.EmbeddingDim, s.Units)
	if err != nil {
		return nil, err
	}
	return &Encoder{Embedding: embedding, GRU: gru}, nil
}

// BuildDecoder shapes a decoder from s and fills it from the checkpoint. The
// attention width equals the decoder units, which equal the encoder units.
func (c *Checkpoint) BuildDecoder(s Shapes) (*Decoder, error) {
	embedding, err := c.embedding(s)
	if err != nil {
		return nil, err
	}
	gru, err := c.gru("gru", s.Units+s.EmbeddingDim, s.Units)
	if err != nil {
		return nil, err
	}
	fc, err := c.dense("fc", s.Units, s.Vocab)
	if err != nil {
		return nil, err
	}
	w1, err := c.dense("attention/W1", s.Units, s.Units)
	if err != nil {
		return nil, err
	}
	w2, err := c.dense("attention/W2", s.Units, s.Units)
	if err != nil {
		return nil, err
	}
	v, err := c.dense("attention/V", s.Units, 1)
	if err != nil {
		return nil, err
	}
	return &Decoder{
		Embedding: embedding,
		GRU:       gru,
		FC:        fc,
		Attention: BahdanauAttention{W1: w1, W2: w2, V: v},
	}, nil
}
