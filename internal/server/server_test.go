package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hankgalt/translator/pkg/domain"
)

type fakeTranslator struct {
	out   string
	err   error
	calls []string
}

func (f *fakeTranslator) Translate(ctx context.Context, text string) (string, error) {
	f.calls = append(f.calls, text)
	return f.out, f.err
}

func do(t *testing.T, s *Server, method, path, body string) (int, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	got := map[string]string{}
	if ct := rec.Header().Get("Content-Type"); ct == "application/json" {
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
	return rec.Code, got
}

func TestTranslateSin2Eng(t *testing.T) {
	sin2eng := &fakeTranslator{out: "how are you"}
	s := New(map[string]Translator{domain.ModelSin2Eng: sin2eng}, domain.ModelSin2Eng)

	code, body := do(t, s, http.MethodPost, "/translate/Sin2Eng", `{"text": "කොහොමද"}`)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", code, body)
	}
	if body["sinhala"] != "කොහොමද" || body["english"] != "how are you" {
		t.Errorf("unexpected body %v", body)
	}
	if len(sin2eng.calls) != 1 || sin2eng.calls[0] != "කොහොමද" {
		t.Errorf("unexpected translator calls %v", sin2eng.calls)
	}
}

func TestTranslateDefaultModel(t *testing.T) {
	sin2eng := &fakeTranslator{out: "hello"}
	t5 := &fakeTranslator{out: "hi"}
	s := New(map[string]Translator{domain.ModelSin2Eng: sin2eng, domain.ModelT5: t5}, domain.ModelSin2Eng)

	code, body := do(t, s, http.MethodPost, "/translate", `{"text": "ආයුබෝවන්"}`)
	if code != http.StatusOK || body["english"] != "hello" {
		t.Errorf("expected default model, got %d %v", code, body)
	}

	code, body = do(t, s, http.MethodPost, "/translate/T5", `{"text": "ආයුබෝවන්"}`)
	if code != http.StatusOK || body["english"] != "hi" {
		t.Errorf("expected T5 model, got %d %v", code, body)
	}
	if len(t5.calls) != 1 {
		t.Errorf("expected T5 to be called once, got %d", len(t5.calls))
	}
}

func TestTranslateValidation(t *testing.T) {
	sin2eng := &fakeTranslator{out: "unused"}
	s := New(map[string]Translator{domain.ModelSin2Eng: sin2eng}, domain.ModelSin2Eng)

	tests := map[string]string{
		"blank text":   `{"text": "  "}`,
		"empty text":   `{"text": ""}`,
		"missing text": `{"other": "x"}`,
		"not json":     `text=hello`,
		"null text":    `{"text": null}`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			code, body := do(t, s, http.MethodPost, "/translate/Sin2Eng", payload)
			if code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", code)
			}
			if body["error"] != MissingTextMessage {
				t.Errorf("expected %q, got %q", MissingTextMessage, body["error"])
			}
		})
	}
	if len(sin2eng.calls) != 0 {
		t.Errorf("translator must not run for invalid input")
	}
}

func TestTranslateErrors(t *testing.T) {
	failing := &fakeTranslator{err: errors.New("predicted id 0 has no word")}
	s := New(map[string]Translator{
		domain.ModelSin2Eng: failing,
		domain.ModelT5:      nil,
	}, domain.ModelSin2Eng)

	code, body := do(t, s, http.MethodPost, "/translate/Sin2Eng", `{"text": "කොහොමද"}`)
	if code != http.StatusInternalServerError || body["error"] != "predicted id 0 has no word" {
		t.Errorf("expected 500 with raw message, got %d %v", code, body)
	}

	code, body = do(t, s, http.MethodPost, "/translate/T5", `{"text": "කොහොමද"}`)
	if code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 for unloaded model, got %d %v", code, body)
	}

	code, body = do(t, s, http.MethodPost, "/translate/Eng2Sin", `{"text": "කොහොමද"}`)
	if code != http.StatusNotFound || body["error"] != `unknown model "Eng2Sin"` {
		t.Errorf("expected 404 for unknown model, got %d %v", code, body)
	}
}

func TestHealthAndMethods(t *testing.T) {
	s := New(map[string]Translator{}, domain.ModelSin2Eng)

	code, body := do(t, s, http.MethodGet, "/healthz", "")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("expected healthy, got %d %v", code, body)
	}

	code, _ = do(t, s, http.MethodGet, "/translate/Sin2Eng", "")
	if code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", code)
	}
}

func TestTranslateBodyTooLarge(t *testing.T) {
	sin2eng := &fakeTranslator{out: "unused"}
	s := New(map[string]Translator{domain.ModelSin2Eng: sin2eng}, domain.ModelSin2Eng)

	body := `{"text": "` + strings.Repeat("අ", MaxBodyBytes/3+1) + `"}`
	code, got := do(t, s, http.MethodPost, "/translate/Sin2Eng", body)
	if code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d (%v)", code, got)
	}
	if len(sin2eng.calls) != 0 {
		t.Errorf("translator must not be called for an oversized body")
	}
}

func TestWriteJSONEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(context.Background(), rec, http.StatusOK, map[string]any{"bad": make(chan int)})
	if rec.Code != http.StatusOK {
		t.Errorf("expected status to be kept, got %d", rec.Code)
	}
}
