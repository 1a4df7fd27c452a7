package seq2seq

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeKerasTokenizer(t *testing.T, path string, wordIndex map[string]int) {
	t.Helper()
	wi, err := json.Marshal(wordIndex)
	if err != nil {
		t.Fatalf("marshalling word index: %v", err)
	}
	doc := map[string]any{
		"class_name": "Tokenizer",
		"config": map[string]any{
			"num_words":  nil,
			"lower":      true,
			"split":      " ",
			"word_index": string(wi),
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshalling tokenizer: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing tokenizer: %v", err)
	}
}

func TestLoadVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tok.json")
	writeKerasTokenizer(t, path, map[string]int{"<start>": 1, "<end>": 2, "කොහොමද": 3, "?": 4})

	v, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("failed to load vocabulary: %v", err)
	}
	if v.Size() != 5 {
		t.Errorf("expected size 5, got %d", v.Size())
	}
	if v.StartID() != 1 || v.EndID() != 2 {
		t.Errorf("unexpected sentinel ids %d, %d", v.StartID(), v.EndID())
	}

	got := v.Encode("<start> කොහොමද ? ඔබ <end>", 8)
	want := []int{1, 3, 4, UnknownID, 2, 0, 0, 0}
	if !slices.Equal(got, want) {
		t.Errorf("Encode = %v, want %v", got, want)
	}
}

func TestEncodeTruncates(t *testing.T) {
	v, err := NewVocabulary(map[string]int{"<start>": 1, "<end>": 2, "a": 3})
	if err != nil {
		t.Fatalf("failed to build vocabulary: %v", err)
	}
	sentence := "<start> " + strings.Repeat("a ", 60) + "<end>"
	ids := v.Encode(sentence, 50)
	if len(ids) != 50 {
		t.Fatalf("expected 50 ids, got %d", len(ids))
	}
	if ids[0] != 1 || ids[49] != 3 {
		t.Errorf("expected head kept after truncation, got %v", ids)
	}
}

func TestDecode(t *testing.T) {
	v, err := NewVocabulary(map[string]int{"<start>": 1, "<end>": 2, "how": 3, "are": 4, "you": 5})
	if err != nil {
		t.Fatalf("failed to build vocabulary: %v", err)
	}
	s, err := v.Decode([]int{3, 4, 5})
	if err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if s != "how are you" {
		t.Errorf("expected %q, got %q", "how are you", s)
	}
	if _, err := v.Decode([]int{3, 0}); err == nil {
		t.Errorf("expected error decoding reserved id")
	}
}

func TestNewVocabularyErrors(t *testing.T) {
	tests := map[string]map[string]int{
		"missing end":   {"<start>": 1, "a": 2},
		"reserved id":   {"<start>": 1, "<end>": 2, "pad": 0},
		"duplicate ids": {"<start>": 1, "<end>": 2, "a": 3, "b": 3},
	}
	for name, wordIndex := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewVocabulary(wordIndex); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestLoadVocabularyMissingWordIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tok.json")
	if err := os.WriteFile(path, []byte(`{"class_name":"Tokenizer","config":{}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadVocabulary(path); err == nil {
		t.Errorf("expected error for tokenizer without word_index")
	}
	if _, err := LoadVocabulary(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
