package onnx

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// Encoder runs the mT5 encoder graph.
type Encoder struct {
	sess       *ort.DynamicAdvancedSession
	hiddenSize int // H dimension
}

// NewEncoder opens encoder_model.onnx and resolves the hidden size from the
// declared output shape [B, T, H].
func NewEncoder(modelPath, inputIDs, inputMask, output string) (*Encoder, error) {
	_, infosOut, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("GetInputOutputInfo: %w", err)
	}
	outDims, err := outputDims(infosOut, output, modelPath)
	if err != nil {
		return nil, err
	}
	if len(outDims) != 3 || outDims[2] <= 0 {
		return nil, fmt.Errorf("can't resolve H from dims %v, want [B, T, H]", outDims)
	}

	sess, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputIDs, inputMask},
		[]string{output},
		nil, // no special SessionOptions
	)
	if err != nil {
		return nil, fmt.Errorf("NewDynamicAdvancedSession: %w", err)
	}
	return &Encoder{sess: sess, hiddenSize: int(outDims[2])}, nil
}

// Encode returns the encoder hidden states [1, T, H]. The caller destroys the
// returned tensor.
func (e *Encoder) Encode(ids, mask []int64) (*ort.Tensor[float32], error) {
	if e.sess == nil {
		return nil, fmt.Errorf("encoder not initialized")
	}
	T := int64(len(ids))
	shape := ort.NewShape(1, T)

	idTensor, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("input_ids tensor: %w", err)
	}
	defer idTensor.Destroy()

	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, fmt.Errorf("attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, T, int64(e.hiddenSize)))
	if err != nil {
		return nil, fmt.Errorf("alloc out tensor: %w", err)
	}
	if err := e.sess.Run([]ort.Value{idTensor, maskTensor}, []ort.Value{out}); err != nil {
		out.Destroy()
		return nil, fmt.Errorf("ORT Run encoder: %w", err)
	}
	return out, nil
}

// Close destroys the session.
func (e *Encoder) Close() error {
	if e.sess == nil {
		return nil
	}
	err := e.sess.Destroy()
	e.sess = nil
	return err
}

func outputDims(infos []ort.InputOutputInfo, name, modelPath string) (ort.Shape, error) {
	for i := range infos {
		if infos[i].Name == name {
			return infos[i].Dimensions, nil
		}
	}
	return nil, fmt.Errorf("output %q not found in %s", name, modelPath)
}
