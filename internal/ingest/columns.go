// Package ingest loads the classified dataset from spreadsheet or CSV files
// into memory and keeps it available for concurrent readers.
package ingest

import (
	"github.com/hyperjump/pergunta/pkg/utils"
)

// columnMap holds the resolved index of each dataset column in a header row.
// An index of -1 means the column is absent.
type columnMap struct {
	n1, n2, n3, n4 int
	description    int
	matchType      int
}

// Header spellings seen in the wild, compared after normalization.
var (
	descriptionNames = []string{"item_description", "descricao", "descricao do item", "item"}
	matchTypeNames   = []string{"match_type", "tipo de match", "status"}
	levelNames       = map[int][]string{
		1: {"n1", "nivel 1", "categoria n1"},
		2: {"n2", "nivel 2", "categoria n2"},
		3: {"n3", "nivel 3", "categoria n3"},
		4: {"n4", "nivel 4", "categoria n4"},
	}
)

func resolveColumns(header []string) columnMap {
	cm := columnMap{n1: -1, n2: -1, n3: -1, n4: -1, description: -1, matchType: -1}
	for i, raw := range header {
		name := utils.Normalize(raw)
		switch {
		case cm.description == -1 && contains(descriptionNames, name):
			cm.description = i
		case cm.matchType == -1 && contains(matchTypeNames, name):
			cm.matchType = i
		case cm.n1 == -1 && contains(levelNames[1], name):
			cm.n1 = i
		case cm.n2 == -1 && contains(levelNames[2], name):
			cm.n2 = i
		case cm.n3 == -1 && contains(levelNames[3], name):
			cm.n3 = i
		case cm.n4 == -1 && contains(levelNames[4], name):
			cm.n4 = i
		}
	}
	return cm
}

func (cm columnMap) valid() bool {
	return cm.description != -1 && cm.n1 != -1
}

func contains(candidates []string, name string) bool {
	for _, c := range candidates {
		if c == name {
			return true
		}
	}
	return false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
