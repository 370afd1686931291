// Package session keeps per-conversation state: the company profile and
// the question/answer history a session accumulates.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/thiiagovboas/eureca-assistant/types"
)

// ErrNotInitialized is the summary message shown before a company profile
// has been submitted.
const ErrNotInitialized = "Contexto da empresa não inicializado"

// Context is the state of one conversation. All methods are safe for
// concurrent use; returned slices and structs are copies, so callers can
// never mutate the internal state.
type Context struct {
	mu         sync.RWMutex
	profile    *types.CompanyProfile
	history    []types.ConversationEntry
	lastUpdate time.Time
}

func NewContext() *Context {
	return &Context{lastUpdate: time.Now().UTC()}
}

// SetProfile validates and stores the company profile, recomputing the
// derived size category and experience stage. All four required fields
// must be present and the employee count must not be negative.
func (c *Context) SetProfile(update types.CompanyProfileUpdate) (*types.CompanyProfile, error) {
	if missing := update.MissingFields(); len(missing) > 0 {
		return nil, &types.ValidationError{Fields: missing}
	}
	if *update.EmployeeCount < 0 {
		return nil, types.NewValidationError("número de funcionários não pode ser negativo")
	}

	var extra map[string]string
	if update.Extra != nil {
		extra = make(map[string]string, len(update.Extra))
		for k, v := range update.Extra {
			extra[k] = v
		}
	}

	now := time.Now().UTC()
	profile := &types.CompanyProfile{
		Name:          *update.Name,
		Sector:        *update.Sector,
		EmployeeCount: *update.EmployeeCount,
		HasProgram:    *update.HasProgram,
		Extra:         extra,
		SizeCategory:  types.SizeCategoryFor(*update.EmployeeCount),
		Stage:         types.StageFor(*update.HasProgram),
		LastUpdate:    now,
	}

	c.mu.Lock()
	c.profile = profile
	c.lastUpdate = now
	c.mu.Unlock()

	return cloneProfile(profile), nil
}

// Profile returns a copy of the stored profile, or nil before SetProfile.
func (c *Context) Profile() *types.CompanyProfile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneProfile(c.profile)
}

// AppendTurn records one completed question/answer exchange. Both sides
// are stored trimmed; blank entries are rejected.
func (c *Context) AppendTurn(question, answer string) error {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return types.NewValidationError("pergunta e resposta não podem ser vazias")
	}

	now := time.Now().UTC()
	c.mu.Lock()
	c.history = append(c.history, types.ConversationEntry{
		Question:  question,
		Answer:    answer,
		Timestamp: now,
	})
	c.lastUpdate = now
	c.mu.Unlock()
	return nil
}

// History returns a copy of the full exchange log.
func (c *Context) History() []types.ConversationEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]types.ConversationEntry(nil), c.history...)
}

// Messages renders the history as alternating user and assistant turns.
func (c *Context) Messages() []types.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return flattenLocked(c.history)
}

// Recent returns the last limit exchanges along with the matching chat
// turns. Each exchange yields two turns.
func (c *Context) Recent(limit int) ([]types.ConversationEntry, []types.Message, error) {
	if limit < 1 {
		return nil, nil, types.NewValidationError("limite deve ser um inteiro positivo")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	start := len(c.history) - limit
	if start < 0 {
		start = 0
	}
	entries := append([]types.ConversationEntry(nil), c.history[start:]...)
	return entries, flattenLocked(entries), nil
}

// Summary condenses the session state. Before a profile exists it is
// error-shaped with zeroed statistics.
func (c *Context) Summary() types.ContextSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.profile == nil {
		return types.ContextSummary{Error: ErrNotInitialized}
	}

	summary := types.ContextSummary{
		CompanyProfile:  cloneProfile(c.profile),
		NumInteractions: len(c.history),
		ContextAge:      int(time.Since(c.lastUpdate).Minutes()),
		SizeCategory:    c.profile.SizeCategory,
		Stage:           c.profile.Stage,
	}
	if len(c.history) > 0 {
		last := c.history[len(c.history)-1]
		summary.LastInteraction = &last
	}
	return summary
}

// ClearHistory drops the exchange log but keeps the company profile.
func (c *Context) ClearHistory() {
	c.mu.Lock()
	c.history = nil
	c.lastUpdate = time.Now().UTC()
	c.mu.Unlock()
}

// Export snapshots the whole session in a serializable form.
func (c *Context) Export() types.ContextExport {
	c.mu.RLock()
	defer c.mu.RUnlock()

	history := append([]types.ConversationEntry(nil), c.history...)
	return types.ContextExport{
		CompanyProfile: cloneProfile(c.profile),
		History:        history,
		Messages:       flattenLocked(history),
		LastUpdate:     c.lastUpdate,
		Metadata: types.ExportMetadata{
			ExportTime:      time.Now().UTC(),
			NumInteractions: len(history),
			ContextVersion:  types.ContextSchemaVersion,
		},
	}
}

func flattenLocked(entries []types.ConversationEntry) []types.Message {
	messages := make([]types.Message, 0, len(entries)*2)
	for _, entry := range entries {
		messages = append(messages, entry.Turns()...)
	}
	return messages
}

func cloneProfile(profile *types.CompanyProfile) *types.CompanyProfile {
	if profile == nil {
		return nil
	}
	clone := *profile
	if profile.Extra != nil {
		clone.Extra = make(map[string]string, len(profile.Extra))
		for k, v := range profile.Extra {
			clone.Extra[k] = v
		}
	}
	return &clone
}
