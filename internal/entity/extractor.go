package entity

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/pergunta/internal/models"
	"github.com/hyperjump/pergunta/pkg/utils"
)

const (
	minTokenLen      = 3
	longCandidateLen = 6
	defaultTopNumber = 5
)

var (
	topNumberRe   = regexp.MustCompile(`\b(?:top|os|as|de)\s+(\d+)\b`)
	countNumberRe = regexp.MustCompile(`\b(\d+)\s+(?:exemplos?|itens?|principais|maiores|menores)\b`)
	bareTopRe     = regexp.MustCompile(`\btop\b`)

	quotedTermRe = regexp.MustCompile(`["'\x{201c}\x{2018}]([^"'\x{201d}\x{2019}]+)["'\x{201d}\x{2019}]`)
	keywordRe    = regexp.MustCompile(`(?i)\btermo\s+"?([\p{L}\p{N}_-]+)"?`)

	itemWordsRe     = regexp.MustCompile(`\b(?:itens?|produtos?|materia(?:l|is)|descricao|descricoes)\b`)
	categoryWordsRe = regexp.MustCompile(`\b(?:categorias?|subcategorias?|grupos?|familias?|nivel)\b`)
	wordWordsRe     = regexp.MustCompile(`\b(?:palavras?|termos?)\b`)

	uniqueStatusRe       = regexp.MustCompile(`\bunic[oa]s?\b|\bsucesso\b`)
	ambiguousStatusRe    = regexp.MustCompile(`\bambigu|\bduvidas?\b|\brevisao\b|\brevisar\b`)
	unclassifiedStatusRe = regexp.MustCompile(`nao\s+(?:foi\s+|foram\s+)?classificad|sem\s+classificacao|\bnenhum\b`)
	allStatusRe          = regexp.MustCompile(`\bstatus\b|\bqualidade\b|\bmetricas?\b`)

	explicitLevelRe = regexp.MustCompile(`\bn(?:ivel)?\s*([1-4])\b`)
	subcategoryRe   = regexp.MustCompile(`\bsubcategorias?\b`)

	thresholdRe = regexp.MustCompile(`menos\s+de\s+(\d+)\s+(?:caracteres?|letras?)`)
)

// Extract scans the raw query and the dataset's category vocabulary and
// returns every entity it can find. The extractions are independent; a query
// may populate all fields or none. Term capture preserves the original
// casing, everything else works on the normalized query.
func Extract(query string, vocab []string) models.Entities {
	var e models.Entities
	norm := utils.Normalize(query)

	e.Number = extractNumber(norm)
	e.Term = extractTerm(query)
	e.TargetType = extractTargetType(norm)
	e.Status = extractStatus(norm)
	e.Level = extractLevel(norm)
	e.Category = MatchCategory(norm, vocab)
	e.Threshold = extractThreshold(norm)

	return e
}

func extractNumber(norm string) int {
	if m := topNumberRe.FindStringSubmatch(norm); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if m := countNumberRe.FindStringSubmatch(norm); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if bareTopRe.MatchString(norm) {
		return defaultTopNumber
	}
	return 0
}

func extractTerm(query string) string {
	if m := quotedTermRe.FindStringSubmatch(query); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := keywordRe.FindStringSubmatch(query); m != nil {
		return m[1]
	}
	return ""
}

func extractTargetType(norm string) models.TargetType {
	switch {
	case itemWordsRe.MatchString(norm):
		return models.TargetItem
	case categoryWordsRe.MatchString(norm):
		return models.TargetCategory
	case wordWordsRe.MatchString(norm):
		return models.TargetWord
	default:
		return ""
	}
}

func extractStatus(norm string) models.StatusFilter {
	switch {
	case unclassifiedStatusRe.MatchString(norm):
		return models.FilterUnclassified
	case ambiguousStatusRe.MatchString(norm):
		return models.FilterAmbiguous
	case uniqueStatusRe.MatchString(norm):
		return models.FilterUnique
	case allStatusRe.MatchString(norm):
		return models.FilterAll
	default:
		return ""
	}
}

func extractLevel(norm string) models.Level {
	if m := explicitLevelRe.FindStringSubmatch(norm); m != nil {
		switch m[1] {
		case "1":
			return models.LevelN1
		case "2":
			return models.LevelN2
		case "3":
			return models.LevelN3
		case "4":
			return models.LevelN4
		}
	}
	if subcategoryRe.MatchString(norm) {
		return models.LevelN2
	}
	return models.LevelNone
}

func extractThreshold(norm string) int {
	if m := thresholdRe.FindStringSubmatch(norm); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// MatchCategory resolves the best category from the vocabulary against the
// normalized query. Literal substring containment wins over fuzzy matching,
// and among substring matches the longest candidate wins, so a multi-word
// category beats a shorter one it contains. Fuzzy matching is first-fit in
// vocabulary order. Returns the candidate with its original casing, or "".
func MatchCategory(normQuery string, vocab []string) string {
	type cand struct {
		original string
		norm     string
	}

	var best cand
	bestLen := 0
	for _, v := range vocab {
		nv := utils.Normalize(v)
		if utf8.RuneCountInString(nv) < minTokenLen {
			continue
		}
		if strings.Contains(normQuery, nv) {
			if l := utf8.RuneCountInString(nv); l > bestLen {
				best = cand{original: v, norm: nv}
				bestLen = l
			}
		}
	}
	if best.original != "" {
		return best.original
	}

	queryTokens := significantTokens(normQuery)
	if len(queryTokens) == 0 {
		return ""
	}
	for _, v := range vocab {
		nv := utils.Normalize(v)
		if utf8.RuneCountInString(nv) < minTokenLen {
			continue
		}
		if fuzzyMatch(nv, queryTokens) {
			return v
		}
	}
	return ""
}

// fuzzyMatch reports whether every significant token of the normalized
// candidate has a query token within edit distance 1. A single-token
// candidate longer than 6 characters also accepts distance 2, since longer
// words tolerate a second typo without false positives.
func fuzzyMatch(normCandidate string, queryTokens []string) bool {
	candTokens := significantTokens(normCandidate)
	if len(candTokens) == 0 {
		return false
	}

	if len(candTokens) == 1 {
		tok := candTokens[0]
		maxDist := 1
		if utf8.RuneCountInString(normCandidate) > longCandidateLen {
			maxDist = 2
		}
		for _, qt := range queryTokens {
			if LevenshteinDistance(tok, qt) <= maxDist {
				return true
			}
		}
		return false
	}

	for _, ct := range candTokens {
		found := false
		for _, qt := range queryTokens {
			if LevenshteinDistance(ct, qt) <= 1 {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func significantTokens(s string) []string {
	var out []string
	for _, t := range utils.Tokenize(s) {
		if utf8.RuneCountInString(t) >= minTokenLen {
			out = append(out, t)
		}
	}
	return out
}
