package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/visualdoc/ragservice/llm"
	"github.com/visualdoc/ragservice/vectorstore"
)

type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (*llm.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Message{Role: llm.AssistantRole, Content: f.reply}, nil
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	msg, err := f.Chat(ctx, []llm.Message{{Role: llm.UserRole, Content: prompt}}, opts...)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}

func someContexts() []vectorstore.Result {
	return []vectorstore.Result{
		{
			Text:     "Revenue grew 4.5 percent in the north region.",
			Metadata: map[string]interface{}{"page": 3, "modality": "table"},
			Score:    0.91,
		},
		{
			Text:     "The northern expansion started in January.",
			Metadata: map[string]interface{}{"page": 1, "modality": "text"},
			Score:    0.84,
		},
	}
}

func TestExtractive_NoContexts(t *testing.T) {
	got, err := NewExtractive().Answer(context.Background(), "anything", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != insufficientContextMessage {
		t.Errorf("got %q, want insufficient context message", got)
	}
}

func TestExtractive_QuotesWithProvenance(t *testing.T) {
	got, err := NewExtractive().Answer(context.Background(), "growth", someContexts())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "(p.3/table) Revenue grew") {
		t.Errorf("missing provenance prefix in %q", got)
	}
	if !strings.Contains(got, "(p.1/text) The northern expansion") {
		t.Errorf("missing second snippet in %q", got)
	}
}

func TestExtractive_TruncatesLongSnippets(t *testing.T) {
	long := strings.Repeat("x", snippetLimit+100)
	got, err := NewExtractive().Answer(context.Background(), "q", []vectorstore.Result{
		{Text: long, Metadata: map[string]interface{}{}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, long) {
		t.Error("snippet was not truncated")
	}
	if !strings.Contains(got, strings.Repeat("x", snippetLimit)) {
		t.Error("truncated snippet missing")
	}
}

func TestExtractive_MissingMetadata(t *testing.T) {
	got, _ := NewExtractive().Answer(context.Background(), "q", []vectorstore.Result{
		{Text: "no provenance here", Metadata: map[string]interface{}{}},
	})
	if !strings.Contains(got, "(p.?/?) no provenance here") {
		t.Errorf("missing placeholder provenance in %q", got)
	}
}

func TestProvenance_NumericTypesRenderAlike(t *testing.T) {
	// JSON-backed stores decode page as float64, in-memory stores
	// keep int. Citations must not expose the difference.
	tests := []struct {
		name string
		page interface{}
	}{
		{name: "int page", page: 2},
		{name: "float64 page", page: float64(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := vectorstore.Result{
				Text:     "anything",
				Metadata: map[string]interface{}{"page": tt.page, "modality": "text"},
			}
			if got := provenance(r); got != "p.2/text" {
				t.Errorf("provenance() = %q, want %q", got, "p.2/text")
			}
		})
	}
}

func TestLLMGenerator_EmptyContextSkipsModel(t *testing.T) {
	model := &fakeLLM{reply: "should not be used"}
	got, err := NewLLMGenerator(model).Answer(context.Background(), "q", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != insufficientContextMessage {
		t.Errorf("got %q, want insufficient context message", got)
	}
	if model.calls != 0 {
		t.Errorf("model was called %d times, want 0", model.calls)
	}
}

func TestLLMGenerator_ReturnsModelAnswer(t *testing.T) {
	model := &fakeLLM{reply: "  Growth was 4.5 percent (p.3/table).  "}
	got, err := NewLLMGenerator(model).Answer(context.Background(), "growth?", someContexts())
	if err != nil {
		t.Fatal(err)
	}
	if got != "Growth was 4.5 percent (p.3/table)." {
		t.Errorf("got %q", got)
	}
	if model.calls != 1 {
		t.Errorf("model was called %d times, want 1", model.calls)
	}
}

func TestLLMGenerator_FailureFallsBackInBand(t *testing.T) {
	model := &fakeLLM{err: errors.New("provider unreachable")}
	got, err := NewLLMGenerator(model).Answer(context.Background(), "growth?", someContexts())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "provider unreachable") {
		t.Errorf("failure reason missing from %q", got)
	}
	if !strings.Contains(got, "(p.3/table) Revenue grew") {
		t.Errorf("extractive fallback missing from %q", got)
	}
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := buildUserPrompt("what grew?", someContexts())
	for _, want := range []string{"Context:\n", "(p.3/table)", "User question: what grew?", "Answer:"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
