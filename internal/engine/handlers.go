package engine

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/pergunta/internal/models"
	"github.com/hyperjump/pergunta/pkg/utils"
)

const (
	defaultRankingSize = 5
	defaultTermSize    = 10
	defaultThreshold   = 5
	paretoCutoff       = 80.0
	maxExamples        = 10
	maxGapParents      = 20
	maxRelevantItems   = 10
)

// CountResult is the payload data of a filtered count.
type CountResult struct {
	Scope string `json:"scope"`
	Total int    `json:"total"`
}

// TermExample is one matching row of a term search.
type TermExample struct {
	Description string `json:"description"`
	N4          string `json:"n4"`
}

// TermResult is the payload data of a term search over descriptions.
type TermResult struct {
	Term     string        `json:"term"`
	Total    int           `json:"total"`
	Examples []TermExample `json:"examples,omitempty"`
}

// OutlierResult is the payload data of a short-description scan.
type OutlierResult struct {
	Threshold int      `json:"threshold"`
	Total     int      `json:"total"`
	Examples  []string `json:"examples,omitempty"`
}

// CategoryResult is the payload data of a category summary, with the match
// status breakdown inside the scope.
type CategoryResult struct {
	Category     string `json:"category"`
	Total        int    `json:"total"`
	Unique       int    `json:"unique"`
	Ambiguous    int    `json:"ambiguous"`
	Unclassified int    `json:"unclassified"`
}

// GapResult is the payload data of a classification gap scan.
type GapResult struct {
	ParentLevel string   `json:"parent_level"`
	ChildLevel  string   `json:"child_level"`
	Total       int      `json:"total"`
	Parents     []string `json:"parents,omitempty"`
}

// HierarchyPath is the full taxonomy path of one item.
type HierarchyPath struct {
	N1 string `json:"n1"`
	N2 string `json:"n2"`
	N3 string `json:"n3"`
	N4 string `json:"n4"`
}

// HierarchyResult is the payload data of a description-to-path lookup.
type HierarchyResult struct {
	Found       bool           `json:"found"`
	MatchKind   string         `json:"match_kind,omitempty"`
	Description string         `json:"description,omitempty"`
	Hierarchy   *HierarchyPath `json:"hierarchy"`
}

func scopeName(sc scope) string {
	if sc.label == "" {
		return "todo o conjunto de dados"
	}
	return fmt.Sprintf("a categoria %q", sc.label)
}

func handleCount(e models.Entities, sc scope) *models.ContextPayload {
	total := len(sc.items)
	label := scopeName(sc)
	if sentinel := e.Status.Sentinel(); e.Status != "" && e.Status != models.FilterAll {
		total = 0
		for _, it := range sc.items {
			if matchesStatus(it.MatchType, sentinel) {
				total++
			}
		}
		label += fmt.Sprintf(" (status %s)", sentinel)
	}
	return &models.ContextPayload{
		Data:         CountResult{Scope: label, Total: total},
		Text:         fmt.Sprintf("Foram encontrados %d itens em %s.", total, label),
		Instructions: "Informe ao usuário o total de itens encontrados, citando o escopo pesquisado.",
	}
}

func matchesStatus(matchType, sentinel string) bool {
	if sentinel == models.StatusNone {
		return matchType == models.StatusNone || matchType == ""
	}
	return matchType == sentinel
}

func handleRanking(e models.Entities, sc scope, ascending bool) *models.ContextPayload {
	g := resolveGrouping(e, sc)
	rows := frequencyTable(sc.items, g, ascending)

	n := e.Number
	if n <= 0 {
		n = defaultRankingSize
	}
	if n < len(rows) {
		rows = rows[:n]
	}

	direction := "mais frequentes"
	if ascending {
		direction = "menos frequentes"
	}
	return &models.ContextPayload{
		Data: rows,
		Text: fmt.Sprintf("Os %d valores de %s %s em %s.",
			len(rows), g.label(), direction, scopeName(sc)),
		Instructions:  "Apresente o ranking como uma lista numerada, com o nome e a quantidade de cada grupo.",
		RelevantItems: sampleItems(sc.items, maxRelevantItems),
	}
}

func handlePareto(e models.Entities, sc scope) *models.ContextPayload {
	g := resolveGrouping(e, sc)
	rows := frequencyTable(sc.items, g, false)

	total := 0
	for _, r := range rows {
		total += r.Count
	}
	if total == 0 {
		return &models.ContextPayload{
			Data:         []models.ParetoGroup{},
			Text:         fmt.Sprintf("Nenhum valor de %s encontrado em %s.", g.label(), scopeName(sc)),
			Instructions: "Explique que não há dados suficientes para a análise de Pareto neste escopo.",
		}
	}

	var groups []models.ParetoGroup
	accumulated := 0.0
	for _, r := range rows {
		percent := float64(r.Count) / float64(total) * 100
		accumulated += percent
		groups = append(groups, models.ParetoGroup{
			Name:        r.Name,
			Count:       r.Count,
			Percent:     percent,
			Accumulated: accumulated,
		})
		if accumulated >= paretoCutoff {
			break
		}
	}

	return &models.ContextPayload{
		Data: groups,
		Text: fmt.Sprintf("Os %d grupos de %s que concentram %.0f%% dos itens em %s (curva A).",
			len(groups), g.label(), groups[len(groups)-1].Accumulated, scopeName(sc)),
		Instructions: "Apresente os grupos da curva A em ordem, com contagem e percentual acumulado, e destaque a concentração.",
	}
}

func handleDistribution(e models.Entities, sc scope) *models.ContextPayload {
	total := len(sc.items)
	var rows []models.GroupCount
	var dimension string

	switch {
	case e.Status != "":
		dimension = "status de classificação"
		counts := make(map[string]int)
		for _, it := range sc.items {
			s := it.MatchType
			if s == "" {
				s = models.StatusNone
			}
			counts[s]++
		}
		for name, count := range counts {
			rows = append(rows, models.GroupCount{Name: name, Count: count})
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Count != rows[j].Count {
				return rows[i].Count > rows[j].Count
			}
			return rows[i].Name < rows[j].Name
		})
	default:
		g := grouping{level: models.LevelN4}
		if e.Level != models.LevelNone {
			g.level = drillDown(e.Level, sc.level)
		} else if sc.level != models.LevelNone {
			g.level = sc.level.Next()
		}
		dimension = g.label()
		rows = frequencyTable(sc.items, g, false)
	}

	groups := make([]models.DistributionGroup, 0, len(rows))
	for _, r := range rows {
		percent := 0.0
		if total > 0 {
			percent = float64(r.Count) / float64(total) * 100
		}
		groups = append(groups, models.DistributionGroup{Name: r.Name, Count: r.Count, Percent: percent})
	}

	return &models.ContextPayload{
		Data: groups,
		Text: fmt.Sprintf("Distribuição dos %d itens de %s por %s.",
			total, scopeName(sc), dimension),
		Instructions: "Apresente a distribuição completa com contagem e percentual de cada grupo, do maior para o menor.",
	}
}

func handleTermSearch(e models.Entities, sc scope) *models.ContextPayload {
	if e.Term == "" {
		return nil
	}
	normTerm := utils.Normalize(e.Term)

	var matched []models.Item
	for _, it := range sc.items {
		if strings.Contains(utils.Normalize(it.Description), normTerm) {
			matched = append(matched, it)
		}
	}

	if e.TargetType == models.TargetCategory {
		level := models.LevelN4
		if e.Level != models.LevelNone {
			level = e.Level
		}
		rows := frequencyTable(matched, grouping{level: level}, false)
		n := e.Number
		if n <= 0 {
			n = defaultTermSize
		}
		if n < len(rows) {
			rows = rows[:n]
		}
		return &models.ContextPayload{
			Data: rows,
			Text: fmt.Sprintf("Categorias de %s com mais ocorrências do termo %q em %s.",
				level, e.Term, scopeName(sc)),
			Instructions:  "Liste as categorias e quantas descrições de cada uma contêm o termo pesquisado.",
			RelevantItems: sampleItems(matched, maxRelevantItems),
		}
	}

	examples := make([]TermExample, 0, maxExamples)
	for _, it := range matched {
		if len(examples) == maxExamples {
			break
		}
		examples = append(examples, TermExample{Description: it.Description, N4: it.N4})
	}
	return &models.ContextPayload{
		Data:          TermResult{Term: e.Term, Total: len(matched), Examples: examples},
		Text:          fmt.Sprintf("%d descrições em %s contêm o termo %q.", len(matched), scopeName(sc), e.Term),
		Instructions:  "Informe o total de descrições que contêm o termo e cite alguns exemplos com suas categorias N4.",
		RelevantItems: sampleItems(matched, maxRelevantItems),
	}
}

func handleOutliers(e models.Entities, sc scope) *models.ContextPayload {
	threshold := e.Threshold
	if threshold <= 0 {
		threshold = defaultThreshold
	}

	var matched []models.Item
	examples := make([]string, 0, maxExamples)
	for _, it := range sc.items {
		if it.Description == "" {
			continue
		}
		if utf8.RuneCountInString(it.Description) < threshold {
			matched = append(matched, it)
			if len(examples) < maxExamples {
				examples = append(examples, it.Description)
			}
		}
	}

	return &models.ContextPayload{
		Data:          OutlierResult{Threshold: threshold, Total: len(matched), Examples: examples},
		Text:          fmt.Sprintf("%d descrições em %s têm menos de %d caracteres.", len(matched), scopeName(sc), threshold),
		Instructions:  "Informe quantas descrições são curtas demais e sugira revisá-las, citando os exemplos.",
		RelevantItems: sampleItems(matched, maxRelevantItems),
	}
}

func handleCategoryLookup(e models.Entities, sc scope) *models.ContextPayload {
	if sc.label == "" {
		return nil
	}

	result := CategoryResult{Category: sc.label, Total: len(sc.items)}
	for _, it := range sc.items {
		switch it.MatchType {
		case models.StatusUnique:
			result.Unique++
		case models.StatusAmbiguous:
			result.Ambiguous++
		default:
			result.Unclassified++
		}
	}

	return &models.ContextPayload{
		Data: result,
		Text: fmt.Sprintf("A categoria %q tem %d itens: %d únicos, %d ambíguos e %d não classificados.",
			result.Category, result.Total, result.Unique, result.Ambiguous, result.Unclassified),
		Instructions:  "Resuma a categoria para o usuário: total de itens e a qualidade da classificação, com exemplos.",
		RelevantItems: sampleItems(sc.items, maxRelevantItems),
	}
}

func handleGapAnalysis(e models.Entities, sc scope) *models.ContextPayload {
	parent := models.LevelN2
	if e.Level != models.LevelNone {
		parent = e.Level
	}
	child := parent.Next()

	gaps := make(map[string]bool)
	var parents []string
	for _, it := range sc.items {
		p := it.LevelValue(parent)
		if p == "" || models.IsSentinel(p) {
			continue
		}
		c := utils.Normalize(it.LevelValue(child))
		if c != "" && c != "nenhum" && c != "ambiguo" {
			continue
		}
		if !gaps[p] {
			gaps[p] = true
			parents = append(parents, p)
		}
	}
	sort.Strings(parents)

	total := len(parents)
	if len(parents) > maxGapParents {
		parents = parents[:maxGapParents]
	}

	return &models.ContextPayload{
		Data: GapResult{
			ParentLevel: parent.String(),
			ChildLevel:  child.String(),
			Total:       total,
			Parents:     parents,
		},
		Text: fmt.Sprintf("%d valores de %s em %s possuem lacunas de classificação em %s.",
			total, parent, scopeName(sc), child),
		Instructions: "Liste os grupos com lacunas de classificação e explique que eles têm itens sem o nível seguinte preenchido.",
	}
}

func handleHierarchy(e models.Entities, sc scope) *models.ContextPayload {
	if e.Term == "" {
		return nil
	}
	normTerm := utils.Normalize(e.Term)

	var found *models.Item
	matchKind := "exact"
	for i := range sc.items {
		if utils.Normalize(sc.items[i].Description) == normTerm {
			found = &sc.items[i]
			break
		}
	}
	if found == nil {
		matchKind = "approximate"
		for i := range sc.items {
			if strings.Contains(utils.Normalize(sc.items[i].Description), normTerm) {
				found = &sc.items[i]
				break
			}
		}
	}

	if found == nil {
		return &models.ContextPayload{
			Data:         HierarchyResult{Found: false},
			Text:         fmt.Sprintf("Nenhum item com a descrição %q foi encontrado.", e.Term),
			Instructions: "Explique que o item não foi localizado no conjunto de dados e sugira verificar a grafia.",
		}
	}

	return &models.ContextPayload{
		Data: HierarchyResult{
			Found:       true,
			MatchKind:   matchKind,
			Description: found.Description,
			Hierarchy:   &HierarchyPath{N1: found.N1, N2: found.N2, N3: found.N3, N4: found.N4},
		},
		Text: fmt.Sprintf("O item %q está classificado como %s > %s > %s > %s.",
			found.Description, found.N1, found.N2, found.N3, found.N4),
		Instructions:  "Apresente o caminho completo da hierarquia do item, do nível mais geral ao mais específico.",
		RelevantItems: []models.Item{*found},
	}
}

func sampleItems(items []models.Item, n int) []models.Item {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
