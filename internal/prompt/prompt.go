// Package prompt renders the context payload into the message template sent
// to the external conversational AI.
package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/hyperjump/pergunta/internal/models"
)

// System is the standing instruction for every exchange with the
// conversational AI.
const System = "Você é um assistente de análise de gastos. Responda sempre em português, " +
	"de forma objetiva e amigável. Quando dados estruturados forem fornecidos, " +
	"baseie a resposta exclusivamente neles e nunca invente números."

const enrichedTemplate = `Dados calculados a partir do conjunto de dados classificado:

%s

Resumo: %s

Instrução: %s

Pergunta original do usuário: %s`

// Format renders the payload and the original query into the enriched
// message. The payload's data block is embedded as indented JSON so the AI
// can cite exact numbers.
func Format(p *models.ContextPayload, query string) (string, error) {
	data, err := json.MarshalIndent(p.Data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal payload data: %w", err)
	}
	return fmt.Sprintf(enrichedTemplate, data, p.Text, p.Instructions, query), nil
}

// Fallback returns the message for a direct, context-free exchange, used
// when the engine produced no payload.
func Fallback(query string) string {
	return fmt.Sprintf("O usuário fez uma pergunta que não corresponde a nenhuma análise do conjunto de dados. "+
		"Responda de forma educada e, se fizer sentido, explique que tipos de pergunta você consegue responder.\n\n"+
		"Pergunta do usuário: %s", query)
}
