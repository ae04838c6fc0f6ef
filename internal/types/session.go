package types

import "time"

// SessionTTL is the lifetime applied to every session-scoped record
// (conversation_context, name_collection_state, lead_collection_state)
// resolving §3's Open Question on state TTL uniformly.
const SessionTTL = 600 * time.Second

// ConversationTurn is one exchange in a session's rolling history.
type ConversationTurn struct {
	Question  string
	Answer    string
	Timestamp time.Time
}

// ConversationContext is the session-scoped chat history and counters
// driving §4.E's state machine.
type ConversationContext struct {
	SessionID      string
	TenantID       string
	Turns          []ConversationTurn
	RequestCount   int
	PricingAsked   bool
	LastActivityAt time.Time
}

// NameCollectionState tracks progress through the name-gate of §4.E.
type NameCollectionState struct {
	SessionID  string
	Awaiting   bool
	Collected  bool
	Name       string
}

// LeadCollectionStage enumerates where a session sits in the
// phone-then-email lead flow.
type LeadCollectionStage string

const (
	LeadStageNone           LeadCollectionStage = ""
	LeadStageAwaitingPhone  LeadCollectionStage = "awaiting_phone"
	LeadStageAwaitingEmail  LeadCollectionStage = "awaiting_email"
	LeadStageDone           LeadCollectionStage = "done"
)

// LeadCollectionState tracks progress through the phone->email capture
// flow triggered by pricing intent, per §4.A/§4.E.
type LeadCollectionState struct {
	SessionID string
	Stage     LeadCollectionStage
	Phone     string
	Email     string
}
