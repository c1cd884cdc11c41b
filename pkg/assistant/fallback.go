package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/datalens-io/datalens-engine/pkg/catalog"
	"github.com/datalens-io/datalens-engine/pkg/logging"
	"github.com/datalens-io/datalens-engine/pkg/models"
)

// Mode is the orchestrator's provider state.
type Mode int

const (
	// ModePrimary routes calls to the generative backend.
	ModePrimary Mode = iota
	// ModeDegraded routes calls straight to the local responder.
	ModeDegraded
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModePrimary:
		return "primary"
	case ModeDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// Orchestrator fronts the two providers with a two-state machine. A single
// primary failure demotes to the local responder for the rest of the
// session; there is no automatic recovery or backoff. Recovery is only via
// ResetToPrimary or SetUsePrimary. That is a deliberate simplicity choice,
// covered by tests, not an oversight.
//
// The mode flag is the only shared mutable state in the whole engine, so it
// sits behind a mutex for concurrent callers.
type Orchestrator struct {
	mu      sync.Mutex
	mode    Mode
	primary ResponseProvider
	local   ResponseProvider
	logger  *zap.Logger
}

// NewOrchestrator builds the fallback orchestrator. A nil primary starts the
// session in degraded mode (no generative backend configured).
func NewOrchestrator(primary ResponseProvider, local ResponseProvider, logger *zap.Logger) *Orchestrator {
	mode := ModePrimary
	if primary == nil {
		mode = ModeDegraded
	}
	return &Orchestrator{
		mode:    mode,
		primary: primary,
		local:   local,
		logger:  logger.Named("assistant.fallback"),
	}
}

// Mode returns the current state.
func (o *Orchestrator) Mode() Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// ResetToPrimary manually re-enables the generative backend.
func (o *Orchestrator) ResetToPrimary() {
	o.SetUsePrimary(true)
}

// SetUsePrimary toggles between the generative and local backends.
// Enabling primary with no generative backend configured stays degraded.
func (o *Orchestrator) SetUsePrimary(use bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if use && o.primary != nil {
		o.mode = ModePrimary
	} else {
		o.mode = ModeDegraded
	}
	o.logger.Info("provider mode set", zap.String("mode", o.mode.String()))
}

func (o *Orchestrator) usePrimary() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode == ModePrimary
}

func (o *Orchestrator) demote(err error) {
	// A caller-side cancellation says nothing about the backend's health;
	// answer locally this time but keep the primary.
	if errors.Is(err, context.Canceled) {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.mode == ModeDegraded {
		return
	}
	o.mode = ModeDegraded
	o.logger.Warn("generative backend failed, demoting to local responder",
		zap.String("error", logging.SanitizeError(err)))
}

// Respond implements ResponseProvider. The caller never sees a failure,
// only possibly the degraded-mode answer.
func (o *Orchestrator) Respond(ctx context.Context, query string, store *catalog.Store, ranked []models.SearchResult) (*models.AIResponse, error) {
	if o.usePrimary() {
		resp, err := o.primary.Respond(ctx, query, store, ranked)
		if err == nil {
			return resp, nil
		}
		o.demote(err)
	}
	return o.local.Respond(ctx, query, store, ranked)
}

// SuggestQueries implements ResponseProvider.
func (o *Orchestrator) SuggestQueries(ctx context.Context, query string, store *catalog.Store) ([]string, error) {
	if o.usePrimary() {
		suggestions, err := o.primary.SuggestQueries(ctx, query, store)
		if err == nil {
			return suggestions, nil
		}
		o.demote(err)
	}
	return o.local.SuggestQueries(ctx, query, store)
}

// ClassifyIntent implements ResponseProvider.
func (o *Orchestrator) ClassifyIntent(ctx context.Context, query string) (*models.QueryIntent, error) {
	if o.usePrimary() {
		intent, err := o.primary.ClassifyIntent(ctx, query)
		if err == nil {
			return intent, nil
		}
		o.demote(err)
	}
	return o.local.ClassifyIntent(ctx, query)
}

// Welcome implements ResponseProvider.
func (o *Orchestrator) Welcome(ctx context.Context, store *catalog.Store) (*models.AIResponse, error) {
	if o.usePrimary() {
		resp, err := o.primary.Welcome(ctx, store)
		if err == nil {
			return resp, nil
		}
		o.demote(err)
	}
	return o.local.Welcome(ctx, store)
}

// Ask answers a query end to end: empty queries get the welcome response,
// everything else gets a conversational answer over the ranked results.
func (o *Orchestrator) Ask(ctx context.Context, query string, store *catalog.Store, ranked []models.SearchResult) (*models.AIResponse, error) {
	if strings.TrimSpace(query) == "" {
		return o.Welcome(ctx, store)
	}
	return o.Respond(ctx, query, store, ranked)
}

var _ ResponseProvider = (*Orchestrator)(nil)
