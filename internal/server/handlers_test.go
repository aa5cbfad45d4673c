package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/pergunta/internal/assistant"
	"github.com/hyperjump/pergunta/internal/config"
	"github.com/hyperjump/pergunta/internal/ingest"
	"github.com/hyperjump/pergunta/internal/llm"
	"github.com/hyperjump/pergunta/internal/session"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "dataset.csv")
	content := "N1;N2;N3;N4;Descrição;Match_Type\n" +
		"Serviços;Manutenção;Elétrica;Disjuntores;troca disjuntor;Único\n" +
		"Materiais;Fixação;Parafusos;Sextavados;parafuso sextavado;Ambíguo\n"
	if err := os.WriteFile(datasetPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	logger := zap.NewNop()
	holder := ingest.NewHolder(datasetPath, "", logger)
	if err := holder.Reload(); err != nil {
		t.Fatal(err)
	}

	store, err := session.NewSQLiteStore(filepath.Join(dir, "sessions.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	a := assistant.New(holder, store, &llm.MockClient{}, logger)
	srv := NewServer(a, holder, store, &config.ServerConfig{Host: "localhost", Port: 0}, logger)
	return srv, srv.Routes()
}

func TestHandleAsk(t *testing.T) {
	_, h := newTestServer(t)

	body, _ := json.Marshal(askRequest{Query: "quantos itens temos?"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var answer assistant.Answer
	if err := json.Unmarshal(rec.Body.Bytes(), &answer); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if answer.SessionID == "" {
		t.Error("answer missing session_id")
	}
	if answer.Text == "" {
		t.Error("answer missing text")
	}
}

func TestHandleAskEmptyQuery(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader([]byte(`{"query":"  "}`)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleAskInvalidBody(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader([]byte(`{`)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleAnalytics(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var report struct {
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Summary.Total != 2 {
		t.Errorf("total = %d, want 2", report.Summary.Total)
	}
}

func TestHandleSessionMessages(t *testing.T) {
	_, h := newTestServer(t)

	body, _ := json.Marshal(askRequest{Query: "quantos itens temos?"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ask", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var answer assistant.Answer
	if err := json.Unmarshal(rec.Body.Bytes(), &answer); err != nil {
		t.Fatal(err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+answer.SessionID+"/messages", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Messages []session.Message `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Messages) != 2 {
		t.Errorf("got %d messages, want 2", len(resp.Messages))
	}
}

func TestHandleSessionMessagesNotFound(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/nope/messages", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleDatasetReload(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dataset/reload", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Items int `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Items != 2 {
		t.Errorf("items = %d, want 2", resp.Items)
	}
}

func TestHandleStatus(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["items"].(float64) != 2 {
		t.Errorf("items = %v", resp["items"])
	}
}

func TestHandleHealth(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
