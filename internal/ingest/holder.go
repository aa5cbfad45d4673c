package ingest

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/pergunta/internal/models"
)

// Holder keeps the loaded dataset in memory and swaps it atomically on
// reload, so request handlers never see a partially loaded dataset.
type Holder struct {
	mu       sync.RWMutex
	items    []models.Item
	path     string
	sheet    string
	loadedAt time.Time
	logger   *zap.Logger
}

// NewHolder creates a holder for the dataset at path. Call Reload to perform
// the initial load.
func NewHolder(path, sheet string, logger *zap.Logger) *Holder {
	return &Holder{path: path, sheet: sheet, logger: logger}
}

// Reload re-reads the dataset file and replaces the in-memory items. On
// failure the previous dataset stays in place.
func (h *Holder) Reload() error {
	items, err := LoadFile(h.path, h.sheet)
	if err != nil {
		h.logger.Error("dataset reload failed", zap.String("path", h.path), zap.Error(err))
		return err
	}

	h.mu.Lock()
	h.items = items
	h.loadedAt = time.Now()
	h.mu.Unlock()

	h.logger.Info("dataset loaded", zap.String("path", h.path), zap.Int("items", len(items)))
	return nil
}

// Items returns the current dataset. The returned slice is shared and must
// be treated as read-only.
func (h *Holder) Items() []models.Item {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.items
}

// LoadedAt returns when the dataset was last loaded successfully.
func (h *Holder) LoadedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loadedAt
}

// Path returns the dataset file path.
func (h *Holder) Path() string {
	return h.path
}
