package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/pergunta/internal/assistant"
	"github.com/hyperjump/pergunta/internal/config"
	"github.com/hyperjump/pergunta/internal/ingest"
	"github.com/hyperjump/pergunta/internal/llm"
	"github.com/hyperjump/pergunta/internal/models"
	"github.com/hyperjump/pergunta/internal/server"
	"github.com/hyperjump/pergunta/internal/session"
)

type env struct {
	ts     *httptest.Server
	holder *ingest.Holder
	mock   *llm.MockClient
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dir := t.TempDir()
	datasetPath := filepath.Join(dir, "classificado.csv")
	if err := os.WriteFile(datasetPath, []byte(buildCSV()), 0600); err != nil {
		t.Fatal(err)
	}

	logger := zap.NewNop()
	holder := ingest.NewHolder(datasetPath, "Classificação", logger)
	if err := holder.Reload(); err != nil {
		t.Fatalf("load fixture dataset: %v", err)
	}

	store, err := session.NewSQLiteStore(filepath.Join(dir, "sessions.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	mock := &llm.MockClient{Reply: func(system, user string) (string, error) {
		return "resposta gerada", nil
	}}
	a := assistant.New(holder, store, mock, logger)
	srv := server.NewServer(a, holder, store, &config.ServerConfig{}, logger)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return &env{ts: ts, holder: holder, mock: mock}
}

func (e *env) ask(t *testing.T, sessionID, query string) assistant.Answer {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"query": query, "session_id": sessionID})
	resp, err := http.Post(e.ts.URL+"/api/v1/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("ask %q: %v", query, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ask %q: status %d", query, resp.StatusCode)
	}
	var answer assistant.Answer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		t.Fatalf("decode answer: %v", err)
	}
	return answer
}

func TestE2E_QuestionsAcrossIntents(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		query  string
		intent models.Intent
		direct bool
	}{
		{"quantos itens temos no total?", models.IntentCount, false},
		{"top 3 categorias nível 2", models.IntentTopRanking, false},
		{"análise de pareto por n4", models.IntentPareto, false},
		{"qual a distribuição por nível 1?", models.IntentDistribution, false},
		{"quantas descrições contêm o termo \"disjuntor\"?", models.IntentTermSearch, false},
		{"descrições com menos de 5 caracteres", models.IntentOutlierDetection, false},
		{"quais n2 estão sem subcategoria?", models.IntentGapAnalysis, false},
		{"em que categoria está o item \"tubo pvc soldável 25mm\"?", models.IntentHierarchy, false},
		{"fale sobre manutenção predial", models.IntentCategoryLookup, false},
		{"bom dia!", models.IntentUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			answer := e.ask(t, "", tt.query)
			if answer.Intent != tt.intent {
				t.Errorf("intent = %s, want %s", answer.Intent, tt.intent)
			}
			if answer.Direct != tt.direct {
				t.Errorf("direct = %t, want %t", answer.Direct, tt.direct)
			}
			if !tt.direct && answer.Payload == nil {
				t.Error("expected a payload for an enriched answer")
			}
			if answer.Text == "" {
				t.Error("expected AI reply text")
			}
		})
	}
}

func TestE2E_CountMatchesFixture(t *testing.T) {
	e := newEnv(t)
	answer := e.ask(t, "", "quantos itens temos?")

	raw, err := json.Marshal(answer.Payload.Data)
	if err != nil {
		t.Fatal(err)
	}
	var data struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatal(err)
	}
	if data.Total != totalRows() {
		t.Errorf("total = %d, want %d", data.Total, totalRows())
	}
}

func TestE2E_ConversationKeepsSession(t *testing.T) {
	e := newEnv(t)

	first := e.ask(t, "", "quantos itens temos?")
	if first.SessionID == "" {
		t.Fatal("first answer has no session")
	}
	second := e.ask(t, first.SessionID, "e quantos são ambíguos?")
	if second.SessionID != first.SessionID {
		t.Errorf("session changed across turns: %s != %s", second.SessionID, first.SessionID)
	}

	resp, err := http.Get(e.ts.URL + "/api/v1/sessions/" + first.SessionID + "/messages")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var transcript struct {
		Messages []session.Message `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&transcript); err != nil {
		t.Fatal(err)
	}
	if len(transcript.Messages) != 4 {
		t.Errorf("transcript has %d messages, want 4", len(transcript.Messages))
	}
}

func TestE2E_UnknownCategoryCountsWholeDataset(t *testing.T) {
	// a category absent from the vocabulary never resolves, so the count
	// falls back to the whole dataset instead of failing
	e := newEnv(t)
	answer := e.ask(t, "", "quantos itens de jardinagem temos?")

	raw, err := json.Marshal(answer.Payload.Data)
	if err != nil {
		t.Fatal(err)
	}
	var data struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatal(err)
	}
	if data.Total != totalRows() {
		t.Errorf("total = %d, want %d", data.Total, totalRows())
	}
}

func TestE2E_EnrichedMessageReachesAI(t *testing.T) {
	e := newEnv(t)
	e.ask(t, "", "top 2 n1")

	if len(e.mock.Calls) != 1 {
		t.Fatalf("AI called %d times, want 1", len(e.mock.Calls))
	}
	msg := e.mock.Calls[0]
	for _, fragment := range []string{"Serviços", "Pergunta original do usuário", "top 2 n1"} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("AI message missing %q", fragment)
		}
	}
}

func TestE2E_DatasetReloadPicksUpChanges(t *testing.T) {
	e := newEnv(t)

	extended := buildCSV() + "Materiais;Fixação;Parafusos;Philips;parafuso philips m4;Único\n"
	if err := os.WriteFile(e.holder.Path(), []byte(extended), 0600); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(e.ts.URL+"/api/v1/dataset/reload", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reload status = %d", resp.StatusCode)
	}

	answer := e.ask(t, "", "quantos itens temos?")
	raw, _ := json.Marshal(answer.Payload.Data)
	var data struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatal(err)
	}
	if data.Total != totalRows()+1 {
		t.Errorf("total after reload = %d, want %d", data.Total, totalRows()+1)
	}
}
