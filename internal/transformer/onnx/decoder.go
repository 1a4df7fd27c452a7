package onnx

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// Decoder runs the mT5 decoder graph without a KV cache: every call feeds
// the whole prefix generated so far.
type Decoder struct {
	sess      *ort.DynamicAdvancedSession
	vocabSize int
}

// NewDecoder opens decoder_model.onnx. Inputs are bound in the order
// encoder mask, decoder ids, encoder states. vocabSize is used when the
// logits output does not declare a static vocabulary dimension.
func NewDecoder(modelPath, inputMask, inputIDs, inputStates, output string, vocabSize int) (*Decoder, error) {
	_, infosOut, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("GetInputOutputInfo: %w", err)
	}
	outDims, err := outputDims(infosOut, output, modelPath)
	if err != nil {
		return nil, err
	}
	if len(outDims) == 3 && outDims[2] > 0 {
		vocabSize = int(outDims[2])
	}
	if vocabSize <= 0 {
		return nil, fmt.Errorf("can't resolve vocabulary size from dims %v", outDims)
	}

	sess, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputMask, inputIDs, inputStates},
		[]string{output},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("NewDynamicAdvancedSession: %w", err)
	}
	return &Decoder{sess: sess, vocabSize: vocabSize}, nil
}

// NextLogits returns the logits for the token following decoderIDs.
func (d *Decoder) NextLogits(states *ort.Tensor[float32], mask *ort.Tensor[int64], decoderIDs []int64) ([]float32, error) {
	if d.sess == nil {
		return nil, fmt.Errorf("decoder not initialized")
	}
	steps := len(decoderIDs)

	idTensor, err := ort.NewTensor(ort.NewShape(1, int64(steps)), decoderIDs)
	if err != nil {
		return nil, fmt.Errorf("decoder input_ids tensor: %w", err)
	}
	defer idTensor.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(steps), int64(d.vocabSize)))
	if err != nil {
		return nil, fmt.Errorf("alloc logits tensor: %w", err)
	}
	defer out.Destroy()

	if err := d.sess.Run([]ort.Value{mask, idTensor, states}, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("ORT Run decoder: %w", err)
	}

	last, err := LastPosition(out.GetData(), steps, d.vocabSize)
	if err != nil {
		return nil, err
	}
	// out is destroyed on return
	logits := make([]float32, len(last))
	copy(logits, last)
	return logits, nil
}

// Close destroys the session.
func (d *Decoder) Close() error {
	if d.sess == nil {
		return nil
	}
	err := d.sess.Destroy()
	d.sess = nil
	return err
}
