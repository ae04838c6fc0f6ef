package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/aditeya/ragtenant/internal/contact"
	"github.com/aditeya/ragtenant/internal/types"
	"github.com/aditeya/ragtenant/internal/validators"
	"github.com/google/uuid"
)

var pricingKeywords = []string{"price", "cost", "pricing", "quote", "rates", "how much"}

func hasPricingIntent(question string) bool {
	lower := strings.ToLower(question)
	for _, kw := range pricingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// handleNameGate is §4.D.1 step 2: while a session is awaiting its name,
// every message is consumed as a name-answer, never falling through to
// retrieval, until a valid name is collected.
func (e *Engine) handleNameGate(ctx context.Context, question, sessionID string) (string, bool, error) {
	state, err := e.sessions.GetNameState(ctx, e.tenant.TenantID, sessionID)
	if err != nil {
		return "", false, err
	}
	if state == nil || !state.Awaiting || state.Collected {
		return "", false, nil
	}

	ok, reason := validators.ValidateName(question)
	if !ok {
		return fmt.Sprintf("%s Could you tell me your name again?", reason), true, nil
	}

	name := strings.TrimSpace(question)
	state.Collected = true
	state.Awaiting = false
	state.Name = name
	if err := e.sessions.SaveNameState(ctx, e.tenant.TenantID, *state); err != nil {
		return "", false, err
	}

	lead := types.Lead{
		ID:          uuid.NewString(),
		TenantID:    e.tenant.TenantID,
		SessionID:   sessionID,
		Name:        name,
		Status:      types.LeadStatusPartial,
		SourceQuery: question,
	}
	if existing, err := e.records.GetLeadBySession(ctx, sessionID); err == nil && existing != nil {
		lead.ID = existing.ID
		lead.Phone = existing.Phone
		lead.Email = existing.Email
		lead.Status = existing.Status
		lead.CreatedAt = existing.CreatedAt
	}
	if err := e.records.UpsertLead(ctx, lead); err != nil {
		return "", false, err
	}

	return fmt.Sprintf("Thanks, %s! What can I help you with today?", name), true, nil
}

// handleLeadProgress is §4.D.1 step 3: advances the phone->email lead
// capture flow armed by handlePricingIntent. A persistence failure on
// the final (email) step still marks the flow done so the conversation
// never loops back into asking for contact details again.
func (e *Engine) handleLeadProgress(ctx context.Context, question, sessionID string) (string, bool, error) {
	state, err := e.sessions.GetLeadState(ctx, e.tenant.TenantID, sessionID)
	if err != nil {
		return "", false, err
	}
	if state == nil || state.Stage == types.LeadStageNone || state.Stage == types.LeadStageDone {
		return "", false, nil
	}

	switch state.Stage {
	case types.LeadStageAwaitingPhone:
		ok, reason := validators.ValidatePhone(question)
		if !ok {
			return fmt.Sprintf("%s Could you share your phone number again?", reason), true, nil
		}
		state.Phone = strings.TrimSpace(question)
		state.Stage = types.LeadStageAwaitingEmail
		if err := e.sessions.SaveLeadState(ctx, e.tenant.TenantID, *state); err != nil {
			return "", false, err
		}
		if err := e.upsertLeadStatus(ctx, sessionID, question, types.LeadStatusPhoneCollected, state.Phone, ""); err != nil {
			return "", false, err
		}
		return "Got it. What's the best email to reach you at?", true, nil

	case types.LeadStageAwaitingEmail:
		ok, reason := validators.ValidateEmail(question)
		if !ok {
			return fmt.Sprintf("%s Could you share your email again?", reason), true, nil
		}
		state.Email = strings.TrimSpace(question)
		state.Stage = types.LeadStageDone
		_ = e.sessions.SaveLeadState(ctx, e.tenant.TenantID, *state)
		_ = e.upsertLeadStatus(ctx, sessionID, question, types.LeadStatusComplete, state.Phone, state.Email)
		return "Thanks! Someone from our team will follow up with pricing details shortly.", true, nil
	}

	return "", false, nil
}

func (e *Engine) upsertLeadStatus(ctx context.Context, sessionID, sourceQuery string, status types.LeadStatus, phone, email string) error {
	lead := types.Lead{
		ID:          uuid.NewString(),
		TenantID:    e.tenant.TenantID,
		SessionID:   sessionID,
		Status:      status,
		Phone:       phone,
		Email:       email,
		SourceQuery: sourceQuery,
	}
	if existing, err := e.records.GetLeadBySession(ctx, sessionID); err == nil && existing != nil {
		lead.ID = existing.ID
		lead.Name = existing.Name
		lead.CreatedAt = existing.CreatedAt
		if phone == "" {
			lead.Phone = existing.Phone
		}
		if email == "" {
			lead.Email = existing.Email
		}
	}
	return e.records.UpsertLead(ctx, lead)
}

// handleInlineContact is §4.D.1 step 4: a user may volunteer phone or
// email inline, outside the staged prompts, and it's captured directly
// against whatever lead-collection stage is active.
func (e *Engine) handleInlineContact(ctx context.Context, question, sessionID string) (string, bool, error) {
	info := contact.Extract(question)
	if !info.HasContact {
		return "", false, nil
	}

	state, err := e.sessions.GetLeadState(ctx, e.tenant.TenantID, sessionID)
	if err != nil {
		return "", false, err
	}
	if state == nil || state.Stage == types.LeadStageNone || state.Stage == types.LeadStageDone {
		return "", false, nil
	}

	switch {
	case state.Stage == types.LeadStageAwaitingPhone && len(info.Phones) > 0:
		state.Phone = info.Phones[0]
		state.Stage = types.LeadStageAwaitingEmail
		if err := e.sessions.SaveLeadState(ctx, e.tenant.TenantID, *state); err != nil {
			return "", false, err
		}
		if err := e.upsertLeadStatus(ctx, sessionID, question, types.LeadStatusPhoneCollected, state.Phone, ""); err != nil {
			return "", false, err
		}
		return "Thanks! And what's the best email to reach you at?", true, nil

	case state.Stage == types.LeadStageAwaitingEmail && len(info.Emails) > 0:
		state.Email = info.Emails[0]
		state.Stage = types.LeadStageDone
		_ = e.sessions.SaveLeadState(ctx, e.tenant.TenantID, *state)
		_ = e.upsertLeadStatus(ctx, sessionID, question, types.LeadStatusComplete, state.Phone, state.Email)
		return "Thanks! Someone from our team will follow up with pricing details shortly.", true, nil
	}

	return "", false, nil
}

// handleNamePrompt is §4.D.1 step 5: the first time a fresh session
// reaches this point, arm the name gate rather than answering directly.
func (e *Engine) handleNamePrompt(ctx context.Context, sessionID string) (string, bool, error) {
	state, err := e.sessions.GetNameState(ctx, e.tenant.TenantID, sessionID)
	if err != nil {
		return "", false, err
	}
	if state != nil {
		return "", false, nil
	}

	if err := e.sessions.SaveNameState(ctx, e.tenant.TenantID, types.NameCollectionState{
		SessionID: sessionID,
		Awaiting:  true,
	}); err != nil {
		return "", false, err
	}
	return "Before we get started, could I get your name?", true, nil
}

// handlePricingIntent is §4.D.1 step 6: arms the phone-then-email lead
// flow the first time a pricing-flavored question is asked.
func (e *Engine) handlePricingIntent(ctx context.Context, question, sessionID string, convo *types.ConversationContext) (string, bool, error) {
	if !hasPricingIntent(question) {
		return "", false, nil
	}
	if convo.PricingAsked {
		return "", false, nil
	}

	state, err := e.sessions.GetLeadState(ctx, e.tenant.TenantID, sessionID)
	if err != nil {
		return "", false, err
	}
	if state != nil && state.Stage != types.LeadStageNone {
		return "", false, nil
	}

	convo.PricingAsked = true
	if err := e.sessions.SaveLeadState(ctx, e.tenant.TenantID, types.LeadCollectionState{
		SessionID: sessionID,
		Stage:     types.LeadStageAwaitingPhone,
	}); err != nil {
		return "", false, err
	}
	return "I'd be happy to help with pricing. Could you share a phone number so our team can follow up?", true, nil
}
