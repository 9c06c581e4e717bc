package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/visualdoc/ragservice/adapters/localembed"
	"github.com/visualdoc/ragservice/adapters/memstore"
	"github.com/visualdoc/ragservice/document"
	"github.com/visualdoc/ragservice/generator"
	"github.com/visualdoc/ragservice/loader"
	"github.com/visualdoc/ragservice/vectorstore"
)

// stubLoader returns canned elements for any path.
type stubLoader struct {
	elements []document.Element
	err      error
	calls    int
}

func (s *stubLoader) Load(_ context.Context, _ string) ([]document.Element, error) {
	s.calls++
	return s.elements, s.err
}

func newTestPipeline(t *testing.T, pdf, img loader.Loader) (*Pipeline, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	vs := vectorstore.New(store, localembed.New())
	p, err := New(vs, generator.NewExtractive(), pdf, img)
	if err != nil {
		t.Fatal(err)
	}
	return p, store
}

func TestIngestFile_UnsupportedExtension(t *testing.T) {
	pdf := &stubLoader{}
	p, store := newTestPipeline(t, pdf, &stubLoader{})

	res, err := p.IngestFile(context.Background(), "notes.docx")
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Error("expected OK false for unsupported extension")
	}
	if !strings.Contains(res.Message, ".docx") {
		t.Errorf("message should name the extension: %q", res.Message)
	}
	if pdf.calls != 0 {
		t.Error("loader should not run for unsupported files")
	}
	if count, _ := store.Count(context.Background()); count != 0 {
		t.Errorf("store mutated: count = %d", count)
	}
}

func TestIngestFile_EmptyDocument(t *testing.T) {
	p, store := newTestPipeline(t, &stubLoader{}, &stubLoader{})

	res, err := p.IngestFile(context.Background(), "empty.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Error("expected OK false for empty document")
	}
	if res.Message != "No content found" {
		t.Errorf("message = %q", res.Message)
	}
	if count, _ := store.Count(context.Background()); count != 0 {
		t.Errorf("store mutated: count = %d", count)
	}
}

func TestIngestFile_DispatchesByExtension(t *testing.T) {
	pdf := &stubLoader{elements: []document.Element{
		{Type: document.ElementText, Text: "pdf body text", Page: 1, Source: loader.SourcePDFText},
	}}
	img := &stubLoader{elements: []document.Element{
		{Type: document.ElementImageOCR, Text: "scanned label", Page: 1, Source: loader.SourceImageOCR},
	}}
	p, _ := newTestPipeline(t, pdf, img)
	ctx := context.Background()

	if _, err := p.IngestFile(ctx, "a.pdf"); err != nil {
		t.Fatal(err)
	}
	if pdf.calls != 1 || img.calls != 0 {
		t.Fatalf("pdf calls = %d, img calls = %d", pdf.calls, img.calls)
	}

	if _, err := p.IngestFile(ctx, "b.JPG"); err != nil {
		t.Fatal(err)
	}
	if img.calls != 1 {
		t.Fatalf("img calls = %d after jpg", img.calls)
	}
}

func TestPipeline_IngestThenQuery(t *testing.T) {
	pdf := &stubLoader{elements: []document.Element{
		{Type: document.ElementText, Text: "The annual maintenance window is the first Sunday of April.", Page: 2, Source: loader.SourcePDFText},
		{Type: document.ElementText, Text: "Backups replicate to the secondary site every six hours.", Page: 3, Source: loader.SourcePDFText},
	}}
	p, _ := newTestPipeline(t, pdf, &stubLoader{})
	ctx := context.Background()

	res, err := p.IngestFile(ctx, "handbook.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK || res.Chunks == 0 {
		t.Fatalf("ingest failed: %+v", res)
	}
	if count, _ := p.Count(ctx); count != res.Chunks {
		t.Errorf("count = %d, want %d", count, res.Chunks)
	}

	qr, err := p.Query(ctx, "when is the annual maintenance window?", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(qr.Contexts) == 0 {
		t.Fatal("no contexts retrieved")
	}
	if !strings.Contains(qr.Answer, "maintenance window") {
		t.Errorf("answer does not quote the relevant chunk: %q", qr.Answer)
	}
	if qr.Contexts[0].Metadata[document.MetaPage] != 2 {
		t.Errorf("top context page = %v, want 2", qr.Contexts[0].Metadata[document.MetaPage])
	}
}

func TestQuery_NoIndexedContent(t *testing.T) {
	p, _ := newTestPipeline(t, &stubLoader{}, &stubLoader{})

	qr, err := p.Query(context.Background(), "anything", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(qr.Contexts) != 0 {
		t.Errorf("got %d contexts from empty index", len(qr.Contexts))
	}
	if !strings.Contains(qr.Answer, "enough information") {
		t.Errorf("answer = %q", qr.Answer)
	}
}
