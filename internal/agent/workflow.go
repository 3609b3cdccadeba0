package agent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/homeledger/homeledger/internal/metrics"
	"github.com/homeledger/homeledger/internal/models"
)

// Engine runs the conversational workflow: classify the message, dispatch
// the intent's action handler, then render a reply. One turn per session
// runs at a time; turns on different sessions proceed concurrently.
type Engine struct {
	classifier *Classifier
	store      SessionStore
	data       DataService
	collector  *metrics.Collector
	logger     *slog.Logger

	actions map[models.Intent]actionFunc

	// turnLocks serializes turns within a session. Entries are never
	// removed; sessions are bounded by process lifetime.
	turnLocks sync.Map
}

// TurnResult is the caller-visible outcome of one processed message.
// Err carries the action failure for in-process callers; over the wire
// the failure is already rendered into Response.
type TurnResult struct {
	Response         string        `json:"response"`
	Intent           models.Intent `json:"intent"`
	ActionSuccessful bool          `json:"action_successful"`
	SessionID        string        `json:"session_id"`
	ConversationStep int           `json:"conversation_step"`
	Err              error         `json:"-"`
}

// NewEngine wires the workflow stages together. Intents without an entry
// in the action table skip straight to rendering.
func NewEngine(classifier *Classifier, store SessionStore, data DataService, collector *metrics.Collector, logger *slog.Logger) *Engine {
	return &Engine{
		classifier: classifier,
		store:      store,
		data:       data,
		collector:  collector,
		logger:     logger.With("component", "agent"),
		actions: map[models.Intent]actionFunc{
			models.IntentAddBill:       handleAddBill,
			models.IntentQueryExpenses: handleQueryExpenses,
			models.IntentGetSummary:    handleGetSummary,
			models.IntentListUpcoming:  handleListUpcoming,
			models.IntentGetStatistics: handleGetStatistics,
		},
	}
}

func (e *Engine) sessionLock(sessionID string) *sync.Mutex {
	lock, _ := e.turnLocks.LoadOrStore(sessionID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// ProcessMessage runs one full turn for a session, creating the session
// on first use. It never returns an error to the caller: every failure
// mode ends in a rendered reply.
func (e *Engine) ProcessMessage(ctx context.Context, sessionID, userID, message string) (result TurnResult) {
	start := time.Now()

	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	state, ok := e.store.Get(sessionID)
	if !ok {
		state = e.store.Create(sessionID, userID)
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("turn panicked", "session_id", sessionID, "panic", r)
			e.collector.RecordFailure(metrics.OpAgentTurn, time.Since(start))
			result = TurnResult{
				Response:         apologyText,
				Intent:           state.CurrentIntent,
				SessionID:        sessionID,
				ConversationStep: state.ConversationStep,
			}
		}
	}()

	e.runInput(ctx, state, message)
	actionErr := e.runAction(ctx, state)
	response := e.runRespond(state)

	e.store.Update(sessionID, state)

	if state.ActionSuccessful {
		e.collector.RecordTiming(metrics.OpAgentTurn, time.Since(start))
	} else {
		e.collector.RecordFailure(metrics.OpAgentTurn, time.Since(start))
	}

	e.logger.Info("turn completed",
		"session_id", sessionID,
		"intent", state.CurrentIntent,
		"step", state.ConversationStep,
		"success", state.ActionSuccessful,
		"duration", time.Since(start))

	return TurnResult{
		Response:         response,
		Intent:           state.CurrentIntent,
		ActionSuccessful: state.ActionSuccessful,
		SessionID:        sessionID,
		ConversationStep: state.ConversationStep,
		Err:              actionErr,
	}
}

// runInput appends the user message and classifies it. Per-turn fields
// from the previous turn are reset here.
func (e *Engine) runInput(ctx context.Context, state *models.ConversationState, message string) {
	state.Messages = append(state.Messages, models.ChatMessage{
		Role:      models.RoleHuman,
		Text:      message,
		Timestamp: time.Now(),
	})

	classification := e.classifier.Classify(ctx, message)
	state.CurrentIntent = classification.Intent
	state.ExtractedEntities = classification.Entities
	state.ConversationStep++

	state.ActionSuccessful = true
	state.ErrorMessage = ""
	state.NeedsClarification = false
	state.ClarificationQuestion = ""
	state.QueryResults = nil
	state.SummaryData = map[string]any{}
	state.LastAction = ""
}

// runAction dispatches to the intent's handler and folds the tagged
// result back into the state. It returns the action error, if any.
func (e *Engine) runAction(ctx context.Context, state *models.ConversationState) error {
	action, ok := e.actions[state.CurrentIntent]
	if !ok {
		return nil
	}

	res := action(ctx, e.data, state)
	state.LastAction = res.action

	switch res.outcome {
	case outcomeOK:
		if res.results != nil {
			state.QueryResults = res.results
		}
		if res.summary != nil {
			state.SummaryData = res.summary
		}
	case outcomeClarify:
		state.NeedsClarification = true
		state.ClarificationQuestion = res.question
	case outcomeFailed:
		state.ActionSuccessful = false
		state.ErrorMessage = res.err.Error()
		e.logger.Warn("action failed",
			"session_id", state.SessionID,
			"action", res.action,
			"error", res.err)
		return res.err
	}
	return nil
}

// runRespond renders the reply and appends it to the transcript.
func (e *Engine) runRespond(state *models.ConversationState) string {
	response := RenderTurn(state)
	if response == "" {
		response = apologyText
	}

	state.Messages = append(state.Messages, models.ChatMessage{
		Role:      models.RoleAssistant,
		Text:      response,
		Timestamp: time.Now(),
	})
	return response
}

// History returns a copy of the session transcript. Unknown or cleared
// sessions yield an empty slice. The copy is taken under the session's
// turn lock so a concurrent turn cannot mutate it mid-read.
func (e *Engine) History(sessionID string) []models.ChatMessage {
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	state, ok := e.store.Get(sessionID)
	if !ok {
		return []models.ChatMessage{}
	}

	messages := make([]models.ChatMessage, len(state.Messages))
	copy(messages, state.Messages)
	return messages
}

// ClearSession drops a session's state. Clearing an unknown session is
// a no-op.
func (e *Engine) ClearSession(sessionID string) {
	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	e.store.Clear(sessionID)
}
