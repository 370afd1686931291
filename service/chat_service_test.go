package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiiagovboas/eureca-assistant/session"
	"github.com/thiiagovboas/eureca-assistant/types"
)

// mockAI implements AIService for testing.
type mockAI struct {
	received [][]types.Message
	answer   string
	err      error
}

func (m *mockAI) Chat(ctx context.Context, messages []types.Message) (*types.Message, error) {
	m.received = append(m.received, messages)
	if m.err != nil {
		return nil, m.err
	}
	return &types.Message{Role: types.RoleAssistant, Content: m.answer}, nil
}

func (m *mockAI) ChatStream(ctx context.Context, messages []types.Message, handler types.StreamHandler) (*types.Message, error) {
	m.received = append(m.received, messages)
	if m.err != nil {
		return nil, m.err
	}
	for _, fragment := range strings.SplitAfter(m.answer, " ") {
		if handler != nil && fragment != "" {
			handler(fragment)
		}
	}
	return &types.Message{Role: types.RoleAssistant, Content: m.answer}, nil
}

func (m *mockAI) lastPrompt() []types.Message {
	if len(m.received) == 0 {
		return nil
	}
	return m.received[len(m.received)-1]
}

// mockRetriever implements Retriever for testing.
type mockRetriever struct {
	context string
	err     error
	calls   int
}

func (m *mockRetriever) Retrieve(ctx context.Context, question string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.context, nil
}

func newChatFixture(ai *mockAI, primary, fallback Retriever) (*ChatService, *session.Manager) {
	sessions := session.NewManager()
	svc := NewChatService(
		NewAnalyzer(nil, nil),
		primary,
		fallback,
		NewComposer(3),
		ai,
		sessions,
	)
	return svc, sessions
}

func promptText(messages []types.Message) string {
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, msg.Content)
	}
	return strings.Join(parts, "\n---\n")
}

func TestChatAnswersQuestion(t *testing.T) {
	ai := &mockAI{answer: "A cota varia entre 5% e 15%."}
	retriever := &mockRetriever{context: "trecho sobre a cota de aprendizes"}
	svc, sessions := newChatFixture(ai, retriever, nil)

	resp, err := svc.Chat(context.Background(), "", "qual a cota de aprendizes?")
	require.NoError(t, err)
	require.NotNil(t, resp.Message)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, types.RoleAssistant, resp.Message.Role)
	assert.Equal(t, "A cota varia entre 5% e 15%.", resp.Message.Content)

	assert.Equal(t, 1, retriever.calls)
	prompt := promptText(ai.lastPrompt())
	assert.Contains(t, prompt, "trecho sobre a cota de aprendizes")
	assert.Contains(t, prompt, "qual a cota de aprendizes?")

	sctx, ok := sessions.Get(resp.SessionID)
	require.True(t, ok)
	require.Len(t, sctx.History(), 1)
	assert.Equal(t, "qual a cota de aprendizes?", sctx.History()[0].Question)
}

func TestChatGreetingSkipsRetrieval(t *testing.T) {
	ai := &mockAI{answer: "Olá! Como posso ajudar hoje?"}
	retriever := &mockRetriever{context: "não deveria aparecer"}
	svc, _ := newChatFixture(ai, retriever, nil)

	resp, err := svc.Chat(context.Background(), "", "Oi!")
	require.NoError(t, err)
	require.NotNil(t, resp.Message)

	assert.Equal(t, 0, retriever.calls, "greetings must not hit retrieval")
	prompt := promptText(ai.lastPrompt())
	assert.NotContains(t, prompt, "não deveria aparecer")
	assert.Contains(t, prompt, "Lei de Aprendizagem")
}

func TestChatGreetingUsesProfile(t *testing.T) {
	ai := &mockAI{answer: "Olá!"}
	svc, sessions := newChatFixture(ai, &mockRetriever{}, nil)

	id, sctx := sessions.GetOrCreate("")
	name, sector, count, has := "Padaria Central", "alimentação", 42, true
	_, err := sctx.SetProfile(types.CompanyProfileUpdate{
		Name: &name, Sector: &sector, EmployeeCount: &count, HasProgram: &has,
	})
	require.NoError(t, err)

	_, err = svc.Chat(context.Background(), id, "bom dia")
	require.NoError(t, err)

	prompt := promptText(ai.lastPrompt())
	assert.Contains(t, prompt, "Padaria Central")
	assert.Contains(t, prompt, "já possuem um programa de aprendizagem")
}

func TestChatEmptyMessage(t *testing.T) {
	svc, _ := newChatFixture(&mockAI{answer: "x"}, &mockRetriever{}, nil)

	_, err := svc.Chat(context.Background(), "", "   ")
	var validationErr *types.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestChatFallsBackOnRetrievalFailure(t *testing.T) {
	ai := &mockAI{answer: "resposta"}
	primary := &mockRetriever{err: errors.New("embedding service down")}
	fallback := &mockRetriever{context: "contexto por palavras-chave"}
	svc, _ := newChatFixture(ai, primary, fallback)

	_, err := svc.Chat(context.Background(), "", "qual a cota?")
	require.NoError(t, err)

	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
	assert.Contains(t, promptText(ai.lastPrompt()), "contexto por palavras-chave")
}

func TestChatDegradesToEmptyContext(t *testing.T) {
	ai := &mockAI{answer: "resposta sem contexto"}
	primary := &mockRetriever{err: errors.New("index down")}
	fallback := &mockRetriever{err: errors.New("documents unavailable")}
	svc, _ := newChatFixture(ai, primary, fallback)

	resp, err := svc.Chat(context.Background(), "", "qual a cota?")
	require.NoError(t, err, "retrieval failures must not fail the chat")
	assert.Equal(t, "resposta sem contexto", resp.Message.Content)
	assert.NotContains(t, promptText(ai.lastPrompt()), "Contexto relevante dos documentos:")
}

func TestChatSessionContinuity(t *testing.T) {
	ai := &mockAI{answer: "resposta"}
	svc, _ := newChatFixture(ai, &mockRetriever{}, nil)

	resp, err := svc.Chat(context.Background(), "", "qual a idade mínima?")
	require.NoError(t, err)

	resp2, err := svc.Chat(context.Background(), resp.SessionID, "e o salário?")
	require.NoError(t, err)
	assert.Equal(t, resp.SessionID, resp2.SessionID)

	prompt := promptText(ai.lastPrompt())
	assert.Contains(t, prompt, "CONTEXTO ATUAL:")
	assert.Contains(t, prompt, "Usuário: qual a idade mínima?")
}

func TestChatAIFailure(t *testing.T) {
	ai := &mockAI{err: errors.New("model unavailable")}
	svc, sessions := newChatFixture(ai, &mockRetriever{}, nil)

	id, _ := sessions.GetOrCreate("sessao-teste")
	_, err := svc.Chat(context.Background(), id, "qual a cota?")
	require.Error(t, err)

	sctx, _ := sessions.Get(id)
	assert.Empty(t, sctx.History(), "failed answers are not recorded")
}

func TestChatStream(t *testing.T) {
	ai := &mockAI{answer: "resposta em partes"}
	svc, sessions := newChatFixture(ai, &mockRetriever{}, nil)

	var fragments []string
	resp, err := svc.ChatStream(context.Background(), "", "qual a cota?", func(fragment string) {
		fragments = append(fragments, fragment)
	})
	require.NoError(t, err)

	assert.Equal(t, "resposta em partes", resp.Message.Content)
	assert.Equal(t, "resposta em partes", strings.Join(fragments, ""))
	assert.Greater(t, len(fragments), 1)

	sctx, ok := sessions.Get(resp.SessionID)
	require.True(t, ok)
	assert.Len(t, sctx.History(), 1)
}
