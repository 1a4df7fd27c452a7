package seq2seq

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// UnknownID is the reserved id for padding and out-of-vocabulary words.
const UnknownID = 0

// Vocabulary is an immutable word <-> id mapping for one language.
type Vocabulary struct {
	wordIndex map[string]int
	indexWord map[int]string
}

// kerasTokenizer mirrors the document written by keras Tokenizer.to_json().
// word_index is itself a JSON document embedded as a string.
type kerasTokenizer struct {
	ClassName string `json:"class_name"`
	Config    struct {
		WordIndex string `json:"word_index"`
	} `json:"config"`
}

// LoadVocabulary reads a keras tokenizer JSON artifact.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tokenizer %q: %w", path, err)
	}

	var kt kerasTokenizer
	if err := json.Unmarshal(data, &kt); err != nil {
		return nil, fmt.Errorf("parsing tokenizer %q: %w", path, err)
	}
	if kt.Config.WordIndex == "" {
		return nil, fmt.Errorf("tokenizer %q has no word_index", path)
	}

	wordIndex := make(map[string]int)
	if err := json.Unmarshal([]byte(kt.Config.WordIndex), &wordIndex); err != nil {
		return nil, fmt.Errorf("parsing word_index of %q: %w", path, err)
	}
	return NewVocabulary(wordIndex)
}

// NewVocabulary builds a vocabulary from a word index. Ids must be positive and
// unique, and both sentinel tokens must be present.
func NewVocabulary(wordIndex map[string]int) (*Vocabulary, error) {
	v := &Vocabulary{
		wordIndex: make(map[string]int, len(wordIndex)),
		indexWord: make(map[int]string, len(wordIndex)),
	}
	for word, id := range wordIndex {
		if id <= UnknownID {
			return nil, fmt.Errorf("word %q has reserved id %d", word, id)
		}
		if other, ok := v.indexWord[id]; ok {
			return nil, fmt.Errorf("words %q and %q share id %d", other, word, id)
		}
		v.wordIndex[word] = id
		v.indexWord[id] = word
	}
	for _, sentinel := range []string{StartToken, EndToken} {
		if _, ok := v.wordIndex[sentinel]; !ok {
			return nil, fmt.Errorf("vocabulary is missing sentinel %q", sentinel)
		}
	}
	return v, nil
}

// Size is the number of rows an embedding over this vocabulary needs:
// the largest id plus one, which is len(word_index)+1 for keras tokenizers.
func (v *Vocabulary) Size() int {
	size := len(v.wordIndex) + 1
	for id := range v.indexWord {
		if id+1 > size {
			size = id + 1
		}
	}
	return size
}

// ID returns the id of word, or UnknownID.
func (v *Vocabulary) ID(word string) int {
	if id, ok := v.wordIndex[word]; ok {
		return id
	}
	return UnknownID
}

// Word returns the word for id.
func (v *Vocabulary) Word(id int) (string, bool) {
	w, ok := v.indexWord[id]
	return w, ok
}

// StartID is the id of the start sentinel.
func (v *Vocabulary) StartID() int {
	return v.wordIndex[StartToken]
}

// EndID is the id of the end sentinel.
func (v *Vocabulary) EndID() int {
	return v.wordIndex[EndToken]
}

// Encode maps a preprocessed sentence to ids, right padded with UnknownID to
// maxLen and truncated past it.
func (v *Vocabulary) Encode(sentence string, maxLen int) []int {
	ids := make([]int, maxLen)
	for i, word := range strings.Fields(sentence) {
		if i >= maxLen {
			break
		}
		ids[i] = v.ID(word)
	}
	return ids
}

// Decode joins the words for ids with single spaces.
func (v *Vocabulary) Decode(ids []int) (string, error) {
	words := make([]string, len(ids))
	for i, id := range ids {
		w, ok := v.Word(id)
		if !ok {
			return "", fmt.Errorf("id %d is not in the vocabulary", id)
		}
		words[i] = w
	}
	return strings.Join(words, " "), nil
}
