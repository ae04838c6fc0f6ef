// Package engine is the per-tenant Retrieval Engine of §4.D: multi-pass
// retrieval, hybrid reranking, answer synthesis, and the conversational
// state machine of §4.E, whose transitions are driven exclusively from
// the chat entry point below.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aditeya/ragtenant/internal/common"
	"github.com/aditeya/ragtenant/internal/logger"
	"github.com/aditeya/ragtenant/internal/models/chat"
	"github.com/aditeya/ragtenant/internal/models/embedding"
	"github.com/aditeya/ragtenant/internal/models/rerank"
	"github.com/aditeya/ragtenant/internal/recordstore"
	"github.com/aditeya/ragtenant/internal/sessionstore"
	"github.com/aditeya/ragtenant/internal/types"
	"github.com/aditeya/ragtenant/internal/vectorstore"
	"github.com/google/uuid"
)

const (
	maxSources           = 5
	sourceSnippetChars   = 240
	synthesisContextSize = 12
	synthesisTopN        = 40
	maxPassages          = 10
)

// Engine is the per-tenant retrieval+synthesis+lead-capture object,
// constructed and owned exclusively by internal/registry (§4.F).
type Engine struct {
	tenant      types.TenantConfig
	vectors     vectorstore.VectorStore
	records     *recordstore.Store
	sessions    *sessionstore.Store
	embedder    embedding.Embedder
	reranker    rerank.Reranker
	chatModel   chat.Model
	collection  string
	vectorDim   uint64
}

// Config bundles the dependencies the registry wires into a new Engine.
type Config struct {
	Tenant     types.TenantConfig
	Vectors    vectorstore.VectorStore
	Records    *recordstore.Store
	Sessions   *sessionstore.Store
	Embedder   embedding.Embedder
	Reranker   rerank.Reranker
	ChatModel  chat.Model
	VectorDim  uint64
}

// New opens the tenant's vector collection (creating it if absent) and
// returns a ready Engine, per §4.D's constructor contract.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	collection := cfg.Tenant.VectorStorePath
	if collection == "" {
		collection = "scraped_content"
	}
	if err := cfg.Vectors.EnsureCollection(ctx, collection, cfg.VectorDim); err != nil {
		return nil, fmt.Errorf("ensure collection %s: %w", collection, err)
	}
	return &Engine{
		tenant:     cfg.Tenant,
		vectors:    cfg.Vectors,
		records:    cfg.Records,
		sessions:   cfg.Sessions,
		embedder:   cfg.Embedder,
		reranker:   cfg.Reranker,
		chatModel:  cfg.ChatModel,
		collection: collection,
		vectorDim:  cfg.VectorDim,
	}, nil
}

// Close destroys the Engine's vector handle and record-store
// connection. Per §5, only the registry that constructed this Engine
// may call Close; nothing else holds a reference to these resources.
func (e *Engine) Close() error {
	var errs []error
	if e.vectors != nil {
		if err := e.vectors.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close vector handle: %w", err))
		}
	}
	if e.records != nil {
		if err := e.records.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close record-store connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ChatResult is the answer plus the side-channel data the edge surface
// formats into its JSON response.
type ChatResult struct {
	Answer    string
	SessionID string
	Sources   []string
}

// Chat is §4.D.1's entry point: dispatch order is first-match-wins
// across the location fast-path, the lead-capture state machine, and
// finally full retrieval + synthesis.
func (e *Engine) Chat(ctx context.Context, question, sessionID string) (ChatResult, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	ctx = logger.WithField(ctx, "session_id", sessionID)

	result, err := e.dispatch(ctx, question, sessionID)
	if err != nil {
		logger.Error(ctx, "chat dispatch failed, returning apology", "error", err)
		return ChatResult{Answer: apologyAnswer, SessionID: sessionID}, nil
	}
	result.SessionID = sessionID
	return result, nil
}

const apologyAnswer = "I'm sorry, I couldn't process that question right now. Please try again in a moment."

func (e *Engine) dispatch(ctx context.Context, question, sessionID string) (ChatResult, error) {
	if url, title, ok := e.locationFastPath(ctx, question); ok {
		return ChatResult{Answer: fmt.Sprintf("%s\n%s", title, url)}, nil
	}

	convo, err := e.sessions.GetConversation(ctx, e.tenant.TenantID, sessionID)
	if err != nil {
		return ChatResult{}, err
	}
	if convo == nil {
		convo = &types.ConversationContext{TenantID: e.tenant.TenantID, SessionID: sessionID, LastActivityAt: nowPlaceholder()}
	}
	convo.RequestCount++

	if answer, handled, err := e.handleNameGate(ctx, question, sessionID); err != nil {
		return ChatResult{}, err
	} else if handled {
		e.saveConversation(ctx, convo)
		return ChatResult{Answer: answer}, nil
	}

	if answer, handled, err := e.handleLeadProgress(ctx, question, sessionID); err != nil {
		return ChatResult{}, err
	} else if handled {
		e.saveConversation(ctx, convo)
		return ChatResult{Answer: answer}, nil
	}

	if answer, handled, err := e.handleInlineContact(ctx, question, sessionID); err != nil {
		return ChatResult{}, err
	} else if handled {
		e.saveConversation(ctx, convo)
		return ChatResult{Answer: answer}, nil
	}

	if answer, handled, err := e.handleNamePrompt(ctx, sessionID); err != nil {
		return ChatResult{}, err
	} else if handled {
		e.saveConversation(ctx, convo)
		return ChatResult{Answer: answer}, nil
	}

	if answer, handled, err := e.handlePricingIntent(ctx, question, sessionID, convo); err != nil {
		return ChatResult{}, err
	} else if handled {
		e.saveConversation(ctx, convo)
		return ChatResult{Answer: answer}, nil
	}

	answer, sources, err := e.retrieveAndSynthesize(ctx, question)
	if err != nil {
		return ChatResult{}, err
	}
	convo.Turns = append(convo.Turns, types.ConversationTurn{Question: question, Answer: answer, Timestamp: nowPlaceholder()})
	e.saveConversation(ctx, convo)
	return ChatResult{Answer: answer, Sources: sources}, nil
}

func (e *Engine) saveConversation(ctx context.Context, convo *types.ConversationContext) {
	if err := e.sessions.SaveConversation(ctx, *convo); err != nil {
		common.PipelineWarn(ctx, "chat", "save_conversation_failed", map[string]interface{}{"error": err.Error()})
	}
}

// nowPlaceholder exists so production code has a single seam to stamp
// wall-clock time through, kept in its own function rather than calling
// time.Now() inline at a dozen call sites.
func nowPlaceholder() time.Time { return time.Now() }
