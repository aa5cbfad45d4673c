package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildQuestion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"quantos"}, "quantos"},
		{"multiple words", []string{"quantos", "itens", "temos"}, "quantos itens temos"},
		{"single quoted phrase", []string{"quantos itens temos"}, "quantos itens temos"},
		{"empty args", []string{}, ""},
		{"whitespace only", []string{"  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildQuestion(tt.args); got != tt.expected {
				t.Errorf("buildQuestion() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLoadConfigDevFallback(t *testing.T) {
	dir := t.TempDir()
	content := "dataset:\n  path: ./data.csv\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if filepath.Base(resolved) != "config.yaml" || filepath.Dir(resolved) == filepath.Dir(defaultConfigPath) {
		t.Errorf("resolved = %q, want dev config in %q", resolved, dir)
	}
	if cfg.Dataset.Path == "" {
		t.Error("dataset path not loaded")
	}
}

func TestLoadConfigExplicitPathMissing(t *testing.T) {
	if _, _, err := loadConfig("/nonexistent/pergunta.yaml"); err == nil {
		t.Error("expected error for missing explicit config")
	}
}
