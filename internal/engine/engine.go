// Package engine computes the context payload for a classified query: it
// scopes the dataset by the extracted category, dispatches to the algorithm
// matching the intent, and packages the result for the conversational AI.
package engine

import (
	"fmt"

	"github.com/hyperjump/pergunta/internal/models"
)

// Execute runs the algorithm for the classified intent over the dataset and
// returns the context payload. It returns nil when the query cannot be
// enriched (unknown intent, or a handler missing a required entity); the
// caller then falls back to a direct exchange with the conversational AI.
// Failures never escape: a named category that selects no rows and any
// runtime panic both come back as structured error payloads.
func Execute(it models.Intent, e models.Entities, items []models.Item) (payload *models.ContextPayload) {
	defer func() {
		if r := recover(); r != nil {
			payload = internalErrorPayload(r)
		}
	}()

	sc := resolveScope(e, items)
	if !sc.found {
		return scopeNotFoundPayload(e.Category)
	}

	switch it {
	case models.IntentCount:
		return handleCount(e, sc)
	case models.IntentTopRanking:
		return handleRanking(e, sc, false)
	case models.IntentBottomRanking:
		return handleRanking(e, sc, true)
	case models.IntentPareto:
		return handlePareto(e, sc)
	case models.IntentDistribution:
		return handleDistribution(e, sc)
	case models.IntentTermSearch, models.IntentTermException:
		return handleTermSearch(e, sc)
	case models.IntentOutlierDetection:
		return handleOutliers(e, sc)
	case models.IntentCategoryLookup:
		return handleCategoryLookup(e, sc)
	case models.IntentGapAnalysis:
		return handleGapAnalysis(e, sc)
	case models.IntentHierarchy:
		return handleHierarchy(e, sc)
	default:
		return nil
	}
}

func scopeNotFoundPayload(category string) *models.ContextPayload {
	return &models.ContextPayload{
		Data: models.ErrorData{
			Code:    models.ErrScopeNotFound,
			Message: fmt.Sprintf("a categoria %q não corresponde a nenhum item do conjunto de dados", category),
		},
		Text:         fmt.Sprintf("A categoria %q não foi encontrada no conjunto de dados.", category),
		Instructions: "Explique ao usuário que a categoria mencionada não existe no conjunto de dados e sugira conferir o nome.",
	}
}

func internalErrorPayload(r any) *models.ContextPayload {
	return &models.ContextPayload{
		Data: models.ErrorData{
			Code:    models.ErrInternal,
			Message: fmt.Sprintf("falha inesperada ao processar a consulta: %v", r),
		},
		Text:         "Ocorreu um erro técnico ao processar a consulta.",
		Instructions: "Peça desculpas ao usuário e informe que houve um erro técnico ao analisar os dados.",
	}
}
