package entity

import (
	"testing"

	"github.com/hyperjump/pergunta/internal/models"
)

func sampleItems() []models.Item {
	return []models.Item{
		{N1: "Serviços", N2: "Manutenção Predial", N3: "Elétrica", N4: "Troca de Disjuntor", Description: "troca disjuntor 20A", MatchType: models.StatusUnique},
		{N1: "Software", N2: "Licenças", N3: "Escritório", N4: "Editor de Texto", Description: "licença editor anual", MatchType: models.StatusUnique},
		{N1: "Software Livre", N2: "Nenhum", N3: "", N4: "Ambíguo", Description: "distribuição linux", MatchType: models.StatusAmbiguous},
	}
}

func TestBuildVocabulary(t *testing.T) {
	vocab := BuildVocabulary(sampleItems())

	want := []string{
		"Serviços", "Manutenção Predial", "Elétrica", "Troca de Disjuntor",
		"Software", "Licenças", "Escritório", "Editor de Texto",
		"Software Livre",
	}
	if len(vocab) != len(want) {
		t.Fatalf("vocabulary size = %d, want %d (%v)", len(vocab), len(want), vocab)
	}
	for i, w := range want {
		if vocab[i] != w {
			t.Errorf("vocab[%d] = %q, want %q", i, vocab[i], w)
		}
	}
}

func TestBuildVocabularySkipsSentinels(t *testing.T) {
	vocab := BuildVocabulary(sampleItems())
	for _, v := range vocab {
		if models.IsSentinel(v) {
			t.Errorf("sentinel %q leaked into vocabulary", v)
		}
	}
}

func TestExtractNumber(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"top 7 itens de manutenção", 7},
		{"quais os 3 principais grupos", 3},
		{"mostre o top de categorias", 5},
		{"quantos itens temos", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			e := Extract(tt.query, nil)
			if e.Number != tt.want {
				t.Errorf("Number = %d, want %d", e.Number, tt.want)
			}
		})
	}
}

func TestExtractTerm(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{`itens com o termo "Parafuso Sextavado"`, "Parafuso Sextavado"},
		{"buscar pelo termo disjuntor", "disjuntor"},
		{"quantos itens temos", ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			e := Extract(tt.query, nil)
			if e.Term != tt.want {
				t.Errorf("Term = %q, want %q", e.Term, tt.want)
			}
		})
	}
}

func TestExtractTargetTypePriority(t *testing.T) {
	// item words outrank category words, which outrank word words
	tests := []struct {
		query string
		want  models.TargetType
	}{
		{"top 5 itens por categoria", models.TargetItem},
		{"top 5 categorias", models.TargetCategory},
		{"palavras mais comuns", models.TargetWord},
		{"distribuição geral", models.TargetType("")},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			e := Extract(tt.query, nil)
			if e.TargetType != tt.want {
				t.Errorf("TargetType = %q, want %q", e.TargetType, tt.want)
			}
		})
	}
}

func TestExtractStatus(t *testing.T) {
	tests := []struct {
		query string
		want  models.StatusFilter
	}{
		{"itens com match único", models.FilterUnique},
		{"quantos ficaram ambíguos", models.FilterAmbiguous},
		{"itens não classificados", models.FilterUnclassified},
		{"como está a qualidade da classificação", models.FilterAll},
		{"top 5 itens", models.StatusFilter("")},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			e := Extract(tt.query, nil)
			if e.Status != tt.want {
				t.Errorf("Status = %q, want %q", e.Status, tt.want)
			}
		})
	}
}

func TestExtractLevel(t *testing.T) {
	tests := []struct {
		query string
		want  models.Level
	}{
		{"distribuição por nível 3", models.LevelN3},
		{"agrupe por n2", models.LevelN2},
		{"quais subcategorias existem", models.LevelN2},
		{"top 5 itens", models.LevelNone},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			e := Extract(tt.query, nil)
			if e.Level != tt.want {
				t.Errorf("Level = %v, want %v", e.Level, tt.want)
			}
		})
	}
}

func TestExtractThreshold(t *testing.T) {
	e := Extract("descrições com menos de 4 caracteres", nil)
	if e.Threshold != 4 {
		t.Errorf("Threshold = %d, want 4", e.Threshold)
	}
}

func TestMatchCategoryLongestSubstringWins(t *testing.T) {
	vocab := []string{"Software", "Software Livre"}
	got := MatchCategory("gastos com software livre no ano", vocab)
	if got != "Software Livre" {
		t.Errorf("category = %q, want %q", got, "Software Livre")
	}
}

func TestMatchCategoryExactSubstring(t *testing.T) {
	vocab := BuildVocabulary(sampleItems())
	got := MatchCategory("quantos itens de manutencao predial", vocab)
	if got != "Manutenção Predial" {
		t.Errorf("category = %q, want %q", got, "Manutenção Predial")
	}
}

func TestMatchCategoryFuzzy(t *testing.T) {
	vocab := []string{"Manutenção Predial"}
	// one typo per token still resolves
	got := MatchCategory("itens de manutenco predial", vocab)
	if got != "Manutenção Predial" {
		t.Errorf("fuzzy category = %q, want %q", got, "Manutenção Predial")
	}
}

func TestMatchCategoryFuzzySingleLongToken(t *testing.T) {
	vocab := []string{"Ferramentas"}
	// two edits allowed for a long single-token candidate
	got := MatchCategory("gastos com feramenta", vocab)
	if got != "Ferramentas" {
		t.Errorf("fuzzy category = %q, want %q", got, "Ferramentas")
	}
}

func TestMatchCategoryNoMatch(t *testing.T) {
	vocab := []string{"Manutenção Predial"}
	if got := MatchCategory("quantos itens temos no total", vocab); got != "" {
		t.Errorf("category = %q, want empty", got)
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"café", "cafe", 1},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
