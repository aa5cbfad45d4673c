// Package intent classifies a free-text query into one discrete intent using
// an ordered list of pattern rules.
package intent

import (
	"regexp"

	"github.com/hyperjump/pergunta/internal/models"
	"github.com/hyperjump/pergunta/pkg/utils"
)

type rule struct {
	intent  models.Intent
	pattern *regexp.Regexp
}

// rules are evaluated top to bottom against the normalized query; the first
// match wins. Ordering is part of the contract: specific patterns must come
// before the general ones they would otherwise shadow (TERM_EXCEPTION before
// TERM_SEARCH, PARETO before TOP).
var rules = []rule{
	{models.IntentOutlierDetection, regexp.MustCompile(`descricoes?\s+(?:muito\s+)?curtas?|menos\s+de\s+\d+\s+(?:caracteres?|letras?)|fora\s+do\s+padrao|\boutliers?\b`)},
	{models.IntentPareto, regexp.MustCompile(`\bpareto\b|curva\s+a\b|\babc\b|concentra[mc]?|80\s*%|oitenta\s+por\s+cento`)},
	{models.IntentGapAnalysis, regexp.MustCompile(`\blacunas?\b|\bgaps?\b|sem\s+(?:subcategoria|classificacao\s+de)|incompletas?|faltando`)},
	{models.IntentTermException, regexp.MustCompile(`\btermo\b.*\b(?:mas\s+nao|exceto|sem\s+ser)\b`)},
	{models.IntentTermSearch, regexp.MustCompile(`\btermos?\b|\bcontem\b|\bcontendo\b|\bcontenham\b|\bbuscar\b|\bprocurar\b|\bpesquisar\b`)},
	{models.IntentTopRanking, regexp.MustCompile(`\btop\b|\bprincipais\b|\bmaiores\b|mais\s+(?:comuns|frequentes|comprad[oa]s)`)},
	{models.IntentBottomRanking, regexp.MustCompile(`\bmenores\b|menos\s+(?:comuns|frequentes|comprad[oa]s)|mais\s+rar[oa]s`)},
	{models.IntentHierarchy, regexp.MustCompile(`\bhierarquia\b|classificad[oa]\s+como|em\s+que\s+(?:categoria|grupo)|onde\s+se\s+encaixa|qual\s+o\s+caminho`)},
	{models.IntentDistribution, regexp.MustCompile(`\bdistribuicao\b|\bproporcao\b|\bpercentua(?:l|is)\b|como\s+se\s+divide[m]?|\bstatus\b|\bqualidade\b`)},
	{models.IntentCount, regexp.MustCompile(`\bquant[oa]s?\b|total\s+de|numero\s+de|\bcontagem\b`)},
	{models.IntentCategoryLookup, regexp.MustCompile(`fale\s+sobre|detalhes?\s+(?:de|da|do|sobre)|resumo\s+(?:de|da|do)|o\s+que\s+(?:ha|temos)\s+em`)},
}

// Classify returns the intent of the query, or IntentUnknown when no rule
// matches. The caller may upgrade IntentUnknown to IntentCategoryLookup when
// entity extraction resolved a category.
func Classify(query string) models.Intent {
	norm := utils.Normalize(query)
	for _, r := range rules {
		if r.pattern.MatchString(norm) {
			return r.intent
		}
	}
	return models.IntentUnknown
}
