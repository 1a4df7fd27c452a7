package onnx

import "fmt"

// LastPosition returns the logits of the final decoder position.
// logits: [T*V] flattened row-major for a batch of one.
func LastPosition(logits []float32, steps, vocab int) ([]float32, error) {
	if steps <= 0 || vocab <= 0 || len(logits) != steps*vocab {
		return nil, fmt.Errorf("logits of length %d do not match %d steps x %d vocab", len(logits), steps, vocab)
	}
	return logits[(steps-1)*vocab:], nil
}

// Argmax returns the index of the highest logit, the first one on ties.
func Argmax(logits []float32) int {
	best := 0
	for i := 1; i < len(logits); i++ {
		if logits[i] > logits[best] {
			best = i
		}
	}
	return best
}
