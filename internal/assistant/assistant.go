// Package assistant orchestrates a full question round: entity extraction,
// intent classification, payload execution, prompt formatting, the exchange
// with the conversational AI, and transcript persistence.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/pergunta/internal/engine"
	"github.com/hyperjump/pergunta/internal/entity"
	"github.com/hyperjump/pergunta/internal/ingest"
	"github.com/hyperjump/pergunta/internal/intent"
	"github.com/hyperjump/pergunta/internal/llm"
	"github.com/hyperjump/pergunta/internal/models"
	"github.com/hyperjump/pergunta/internal/prompt"
	"github.com/hyperjump/pergunta/internal/session"
)

// Assistant answers questions about the loaded dataset. A nil session store
// disables transcript persistence (used by the one-shot CLI path).
type Assistant struct {
	holder *ingest.Holder
	store  session.Store
	client llm.Client
	logger *zap.Logger
}

// Answer is the result of one question round.
type Answer struct {
	SessionID string                 `json:"session_id,omitempty"`
	Text      string                 `json:"text"`
	Intent    models.Intent          `json:"intent"`
	Payload   *models.ContextPayload `json:"payload,omitempty"`

	// Direct is true when the engine produced no payload and the question
	// went to the AI without dataset context.
	Direct bool `json:"direct"`
}

// New creates an assistant over the dataset holder.
func New(holder *ingest.Holder, store session.Store, client llm.Client, logger *zap.Logger) *Assistant {
	return &Assistant{holder: holder, store: store, client: client, logger: logger}
}

// Ask runs one question round. An empty sessionID starts a new session.
func (a *Assistant) Ask(ctx context.Context, sessionID, query string) (*Answer, error) {
	sessionID, err := a.resolveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	items := a.holder.Items()
	vocab := entity.BuildVocabulary(items)
	entities := entity.Extract(query, vocab)

	classified := intent.Classify(query)
	if classified == models.IntentUnknown && entities.Category != "" {
		classified = models.IntentCategoryLookup
	}

	payload := engine.Execute(classified, entities, items)

	answer := &Answer{SessionID: sessionID, Intent: classified, Payload: payload}
	var message string
	if payload != nil {
		message, err = prompt.Format(payload, query)
		if err != nil {
			return nil, err
		}
	} else {
		message = prompt.Fallback(query)
		answer.Direct = true
	}

	a.logger.Debug("question processed",
		zap.String("session_id", sessionID),
		zap.String("intent", string(classified)),
		zap.String("category", entities.Category),
		zap.Bool("direct", answer.Direct),
	)

	reply, err := a.client.Chat(ctx, prompt.System, message)
	if err != nil {
		return nil, fmt.Errorf("conversational AI exchange: %w", err)
	}
	answer.Text = reply

	if err := a.persist(ctx, sessionID, query, answer); err != nil {
		a.logger.Warn("transcript persistence failed", zap.Error(err))
	}
	return answer, nil
}

func (a *Assistant) resolveSession(ctx context.Context, sessionID string) (string, error) {
	if a.store == nil {
		return sessionID, nil
	}
	if sessionID == "" {
		sess, err := a.store.CreateSession(ctx)
		if err != nil {
			return "", fmt.Errorf("create session: %w", err)
		}
		return sess.ID, nil
	}
	if _, err := a.store.GetSession(ctx, sessionID); err != nil {
		return "", fmt.Errorf("resolve session: %w", err)
	}
	return sessionID, nil
}

func (a *Assistant) persist(ctx context.Context, sessionID, query string, answer *Answer) error {
	if a.store == nil {
		return nil
	}

	if err := a.store.AppendMessage(ctx, &session.Message{
		SessionID: sessionID,
		Role:      session.RoleUser,
		Content:   query,
	}); err != nil {
		return err
	}

	var payloadJSON string
	if answer.Payload != nil {
		raw, err := json.Marshal(answer.Payload)
		if err != nil {
			return err
		}
		payloadJSON = string(raw)
	}
	return a.store.AppendMessage(ctx, &session.Message{
		SessionID: sessionID,
		Role:      session.RoleAssistant,
		Content:   answer.Text,
		Payload:   payloadJSON,
	})
}
