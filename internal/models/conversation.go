package models

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry in a conversation transcript.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Intent is a closed-set label describing what action the user wants.
type Intent string

const (
	IntentAddBill         Intent = "add_bill"
	IntentQueryExpenses   Intent = "query_expenses"
	IntentGetSummary      Intent = "get_summary"
	IntentListUpcoming    Intent = "list_upcoming"
	IntentGetStatistics   Intent = "get_statistics"
	IntentGreeting        Intent = "greeting"
	IntentGeneralQuestion Intent = "general_question"
	IntentNone            Intent = ""
)

// SupportedIntents is the full closed set the classifier may emit.
// Adding an intent here requires a matching entry in the workflow
// engine's action table (or it falls through to the default response).
var SupportedIntents = []Intent{
	IntentAddBill,
	IntentQueryExpenses,
	IntentGetSummary,
	IntentListUpcoming,
	IntentGetStatistics,
	IntentGreeting,
	IntentGeneralQuestion,
}

// IntentClassification is the transient result of classifying one message.
type IntentClassification struct {
	Intent     Intent         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Entities   map[string]any `json:"entities"`
}

// ConversationState is the accumulated per-session agent state. One state
// exists per session ID; it is mutated in place during a single turn and
// persisted back to the session store before the reply is returned.
type ConversationState struct {
	Messages          []ChatMessage  `json:"messages"`
	CurrentIntent     Intent         `json:"current_intent"`
	ExtractedEntities map[string]any `json:"extracted_entities"`

	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id"`

	QueryResults []Bill         `json:"query_results,omitempty"`
	SummaryData  map[string]any `json:"summary_data,omitempty"`

	LastAction       string `json:"last_action,omitempty"`
	ActionSuccessful bool   `json:"action_successful"`
	ErrorMessage     string `json:"error_message,omitempty"`

	ConversationStep      int    `json:"conversation_step"`
	NeedsClarification    bool   `json:"needs_clarification"`
	ClarificationQuestion string `json:"clarification_question,omitempty"`
}

// NewConversationState returns the initial state for a session.
func NewConversationState(sessionID, userID string) *ConversationState {
	return &ConversationState{
		Messages:          []ChatMessage{},
		CurrentIntent:     IntentNone,
		ExtractedEntities: map[string]any{},
		UserID:            userID,
		SessionID:         sessionID,
		QueryResults:      []Bill{},
		SummaryData:       map[string]any{},
		ActionSuccessful:  true,
	}
}
