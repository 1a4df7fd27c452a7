package onnx

import (
	"fmt"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// HFTokenizer wraps a HuggingFace tokenizer for the mT5 ONNX model.
type HFTokenizer struct {
	tok   *tk.Tokenizer
	eosID int
}

// NewHFTokenizerFromLocal loads a tokenizer from a local tokenizer.json file.
func NewHFTokenizerFromLocal(path string, eosID int) (*HFTokenizer, error) {
	tok, err := pretrained.FromFile(path) // loads tokenizer.json
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer %q: %w", path, err)
	}
	return &HFTokenizer{tok: tok, eosID: eosID}, nil
}

// Encode returns input_ids and attention_mask for a single text, truncated to
// maxLen while keeping the closing EOS.
func (h *HFTokenizer) Encode(text string, maxLen int) ([]int64, []int64, error) {
	if h.tok == nil {
		return nil, nil, fmt.Errorf("tokenizer nil")
	}
	if maxLen <= 0 {
		maxLen = 128
	}

	enc, err := h.tok.EncodeSingle(text, true)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding text: %w", err)
	}

	ids := truncateIDs(enc.Ids, maxLen, h.eosID)
	inputIDs := make([]int64, len(ids))
	mask := make([]int64, len(ids))
	for i, id := range ids {
		inputIDs[i] = int64(id)
		mask[i] = 1
	}
	return inputIDs, mask, nil
}

// Decode converts generated ids back to text, dropping special tokens.
func (h *HFTokenizer) Decode(ids []int64) (string, error) {
	if h.tok == nil {
		return "", fmt.Errorf("tokenizer nil")
	}
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return h.tok.Decode(out, true), nil
}

// truncateIDs cuts ids to maxLen; when the sequence ended in eosID the cut
// sequence ends in it too.
func truncateIDs(ids []int, maxLen, eosID int) []int {
	if len(ids) <= maxLen {
		return ids
	}
	out := make([]int, maxLen)
	copy(out, ids[:maxLen])
	if ids[len(ids)-1] == eosID {
		out[maxLen-1] = eosID
	}
	return out
}
