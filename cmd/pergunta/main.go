// Package main is the Pergunta CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/pergunta/internal/analytics"
	"github.com/hyperjump/pergunta/internal/assistant"
	"github.com/hyperjump/pergunta/internal/config"
	"github.com/hyperjump/pergunta/internal/ingest"
	"github.com/hyperjump/pergunta/internal/llm"
	"github.com/hyperjump/pergunta/internal/models"
	"github.com/hyperjump/pergunta/internal/server"
	"github.com/hyperjump/pergunta/internal/session"
	"github.com/hyperjump/pergunta/internal/watcher"
	"github.com/hyperjump/pergunta/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/pergunta/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "pergunta server" from the project dir uses the project's config.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ask":
		runAsk()
	case "analytics":
		runAnalytics()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("pergunta version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// Components holds the initialized application components.
type Components struct {
	Holder    *ingest.Holder
	Store     session.Store
	Assistant *assistant.Assistant
}

// Close releases component resources.
func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	if cfg.Dataset.Path == "" {
		return nil, fmt.Errorf("dataset.path is not configured")
	}

	holder := ingest.NewHolder(cfg.Dataset.Path, cfg.Dataset.Sheet, logger)
	if err := holder.Reload(); err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	store, err := session.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	client := llm.NewOpenAIClient(cfg.AI.APIKey(), cfg.AI.BaseURL, cfg.AI.Model)
	a := assistant.New(holder, store, client, logger)

	return &Components{Holder: holder, Store: store, Assistant: a}, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (query classification, dataset reloads, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Dataset.WatchOrDefault() {
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		holder := components.Holder
		w, err := watcher.New(cfg.Dataset.Path, func() {
			if err := holder.Reload(); err != nil {
				logger.Warn("dataset reload after file change failed", zap.Error(err))
			}
		}, watchOpts...)
		if err != nil {
			logger.Fatal("Failed to create watcher", zap.Error(err))
		}
		if err := w.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer w.Stop()
	}

	srv := server.NewServer(
		components.Assistant,
		components.Holder,
		components.Store,
		&cfg.Server,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func printAskUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: pergunta ask [flags] <question>\n\n")
	fmt.Fprintf(fs.Output(), "The question is all remaining arguments joined by spaces, so quoting is optional.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  pergunta ask quantos itens de manutenção temos
  pergunta ask "top 5 categorias N2"
  pergunta ask --session 7f3c... "e quantos são ambíguos?"
  pergunta ask --output json "análise de pareto por N4"
`)
}

// buildQuestion joins all positional args with spaces so multi-word questions
// work the same with or without shell quoting.
func buildQuestion(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func runAsk() {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = answer directly without a running server)")
	sessionID := fs.String("session", "", "session ID to continue a conversation")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printAskUsage(fs) }
	_ = fs.Parse(os.Args[2:])

	question := buildQuestion(fs.Args())
	if question == "" {
		printAskUsage(fs)
		os.Exit(1)
	}

	var answer *assistant.Answer
	if *serverURL != "" {
		res, err := askViaHTTP(*serverURL, *sessionID, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
		answer = res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()

		components, err := initializeComponents(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()

		answer, err = components.Assistant.Ask(context.Background(), *sessionID, question)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Ask failed: %v\n", err)
			os.Exit(1)
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(answer); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Println(answer.Text)
		if answer.SessionID != "" {
			fmt.Printf("\n# session: %s\n", answer.SessionID)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func askViaHTTP(serverURL, sessionID, question string) (*assistant.Answer, error) {
	body, err := json.Marshal(map[string]string{
		"query":      question,
		"session_id": sessionID,
	})
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var answer assistant.Answer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &answer, nil
}

func runAnalytics() {
	fs := flag.NewFlagSet("analytics", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = read the dataset directly)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var report analytics.Report
	if *serverURL != "" {
		res, err := analyticsViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Analytics failed: %v\n", err)
			os.Exit(1)
		}
		report = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()

		holder := ingest.NewHolder(cfg.Dataset.Path, cfg.Dataset.Sheet, logger)
		if err := holder.Reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load dataset: %v\n", err)
			os.Exit(1)
		}
		report = analytics.Build(holder.Items())
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		s := report.Summary
		fmt.Printf("items:               %d\n", s.Total)
		fmt.Printf("unique:              %d\n", s.Unique)
		fmt.Printf("ambiguous:           %d\n", s.Ambiguous)
		fmt.Printf("unclassified:        %d\n", s.Unclassified)
		fmt.Printf("classified_percent:  %.1f\n", s.ClassifiedPercent)
		if len(report.Gaps) > 0 {
			fmt.Println("\n# most frequent words in unclassified descriptions")
			for _, g := range report.Gaps {
				fmt.Printf("%-24s %d\n", g.Word, g.Count)
			}
		}
		if len(report.Ambiguity) > 0 {
			fmt.Println("\n# categories with most ambiguous items")
			for _, a := range report.Ambiguity {
				fmt.Printf("%-24s %d\n", a.Name, a.Count)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func analyticsViaHTTP(serverURL string) (*analytics.Report, error) {
	resp, err := http.Get(serverURL + "/api/v1/analytics")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var report analytics.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &report, nil
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Items           int            `json:"items"`
	MatchTypes      map[string]int `json:"match_types"`
	DatasetPath     string         `json:"dataset_path"`
	DatasetLoadedAt time.Time      `json:"dataset_loaded_at"`
	Sessions        int64          `json:"sessions"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct access)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		logger, err := utils.NewLogger(cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		sessionCount, err := components.Store.CountSessions(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count sessions failed: %v\n", err)
			os.Exit(1)
		}
		items := components.Holder.Items()
		breakdown := map[string]int{}
		for _, it := range items {
			breakdown[it.MatchType]++
		}
		status = statusResponse{
			Items:           len(items),
			MatchTypes:      breakdown,
			DatasetPath:     components.Holder.Path(),
			DatasetLoadedAt: components.Holder.LoadedAt(),
			Sessions:        sessionCount,
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("items:              %d   # rows in the loaded dataset\n", status.Items)
		for _, mt := range []string{models.StatusUnique, models.StatusAmbiguous, models.StatusNone} {
			if n, ok := status.MatchTypes[mt]; ok {
				fmt.Printf("  %-17s %d\n", mt+":", n)
			}
		}
		fmt.Printf("dataset_path:       %s\n", status.DatasetPath)
		fmt.Printf("dataset_loaded_at:  %s\n", status.DatasetLoadedAt.Format(time.RFC3339))
		fmt.Printf("sessions:           %d   # conversations persisted\n", status.Sessions)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func printUsage() {
	fmt.Printf(`pergunta %s - assistente de análise do conjunto de dados classificado

Usage: pergunta <command> [flags]

Commands:
  server      start the HTTP API server
  ask         ask a question about the dataset
  analytics   print the dataset quality report
  status      show server/dataset status
  version     print version
  help        show this help

Run "pergunta <command> -h" for command flags.
`, version)
}
