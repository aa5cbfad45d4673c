package engine

import (
	"strings"

	"github.com/hyperjump/pergunta/internal/models"
	"github.com/hyperjump/pergunta/pkg/utils"
)

// scope is the row subset a query operates on, with the category label that
// selected it and the hierarchy level where the category matched.
type scope struct {
	items []models.Item
	label string
	level models.Level
	found bool
}

// resolveScope filters items by the extracted category. Exact normalized
// equality against N1-N4 is tried first; when it selects nothing, substring
// containment on the same four fields is the fallback. found is false only
// when a category was named and both passes selected zero rows.
func resolveScope(e models.Entities, items []models.Item) scope {
	if e.Category == "" {
		return scope{items: items, found: true}
	}

	normCat := utils.Normalize(e.Category)

	var matched []models.Item
	level := models.LevelNone
	for _, it := range items {
		for _, lvl := range models.Levels {
			if utils.Normalize(it.LevelValue(lvl)) == normCat {
				matched = append(matched, it)
				if level == models.LevelNone {
					level = lvl
				}
				break
			}
		}
	}

	if len(matched) == 0 {
		for _, it := range items {
			for _, lvl := range models.Levels {
				v := utils.Normalize(it.LevelValue(lvl))
				if v != "" && strings.Contains(v, normCat) {
					matched = append(matched, it)
					if level == models.LevelNone {
						level = lvl
					}
					break
				}
			}
		}
	}

	if len(matched) == 0 {
		return scope{label: e.Category, found: false}
	}
	return scope{items: matched, label: e.Category, level: level, found: true}
}
