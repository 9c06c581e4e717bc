package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/visualdoc/ragservice/adapters/localembed"
	"github.com/visualdoc/ragservice/adapters/memhistory"
	"github.com/visualdoc/ragservice/adapters/memstore"
	"github.com/visualdoc/ragservice/document"
	"github.com/visualdoc/ragservice/generator"
	"github.com/visualdoc/ragservice/loader"
	"github.com/visualdoc/ragservice/rag"
	"github.com/visualdoc/ragservice/vectorstore"
)

type stubLoader struct {
	elements []document.Element
}

func (s *stubLoader) Load(_ context.Context, _ string) ([]document.Element, error) {
	return s.elements, nil
}

func newTestServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()
	vs := vectorstore.New(memstore.New(), localembed.New())
	pdf := &stubLoader{elements: []document.Element{
		{Type: document.ElementText, Text: "Invoices are due within thirty days of issue.", Page: 1, Source: loader.SourcePDFText},
	}}
	pipeline, err := rag.New(vs, generator.NewExtractive(), pdf, &stubLoader{})
	if err != nil {
		t.Fatal(err)
	}
	return NewServer(pipeline, opts...)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestIngest_Success(t *testing.T) {
	s := newTestServer(t)
	body, contentType := multipartBody(t, "file", "doc.pdf", []byte("fake pdf bytes"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", body)
	req.Header.Set("Content-Type", contentType)

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result rag.IngestResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if !result.OK || result.Chunks == 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestIngest_MissingFileField(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestIngest_UnsupportedType(t *testing.T) {
	s := newTestServer(t)
	body, contentType := multipartBody(t, "file", "notes.txt", []byte("plain text"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", body)
	req.Header.Set("Content-Type", contentType)

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestQuery_RoundTrip(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartBody(t, "file", "doc.pdf", []byte("fake pdf bytes"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", body)
	req.Header.Set("Content-Type", contentType)
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingest status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/query",
		strings.NewReader(`{"question": "when are invoices due?", "top_k": 3}`))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("query status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var result rag.QueryResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Contexts) == 0 {
		t.Error("no contexts in response")
	}
	if !strings.Contains(result.Answer, "thirty days") {
		t.Errorf("answer = %q", result.Answer)
	}
}

func TestQuery_MissingQuestion(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"top_k": 3}`))
	req.Header.Set("Content-Type", "application/json")

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHistory_RecordsExchanges(t *testing.T) {
	repo := memhistory.New(0)
	s := newTestServer(t, WithHistory(repo))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/query",
		strings.NewReader(`{"question": "when are invoices due?"}`))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("query status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/history", nil)
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}

	var body struct {
		Exchanges []struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
		} `json:"exchanges"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Exchanges) != 1 {
		t.Fatalf("exchanges = %d, want 1", len(body.Exchanges))
	}
	if body.Exchanges[0].Question != "when are invoices due?" {
		t.Errorf("question = %q", body.Exchanges[0].Question)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/history", nil)
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rec.Code)
	}
	if count, _ := repo.Count(context.Background()); count != 0 {
		t.Errorf("count after clear = %d", count)
	}
}

func TestHistory_RoutesAbsentWithoutRepository(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStats(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "chunks") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
