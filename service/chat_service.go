package service

import (
	"context"
	"log"
	"strings"

	"github.com/thiiagovboas/eureca-assistant/session"
	"github.com/thiiagovboas/eureca-assistant/types"
)

// ChatService answers user messages end to end: it classifies the message,
// gathers document context, composes the prompt and runs the model. Bare
// greetings skip retrieval entirely. Retrieval failures degrade to the
// fallback retriever and then to an empty context; they never fail the
// chat itself.
type ChatService struct {
	analyzer  *Analyzer
	retriever Retriever
	fallback  Retriever
	composer  *Composer
	ai        AIService
	sessions  *session.Manager
}

func NewChatService(
	analyzer *Analyzer,
	retriever Retriever,
	fallback Retriever,
	composer *Composer,
	ai AIService,
	sessions *session.Manager,
) *ChatService {
	return &ChatService{
		analyzer:  analyzer,
		retriever: retriever,
		fallback:  fallback,
		composer:  composer,
		ai:        ai,
		sessions:  sessions,
	}
}

func (s *ChatService) Chat(ctx context.Context, sessionID, message string) (*types.ChatResponse, error) {
	sessionID, sctx, messages, err := s.prepare(ctx, sessionID, message)
	if err != nil {
		return nil, err
	}

	answer, err := s.ai.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}

	s.recordTurn(sctx, message, answer)
	return &types.ChatResponse{SessionID: sessionID, Message: answer}, nil
}

// ChatStream behaves like Chat but delivers the answer incrementally
// through the handler before returning it whole.
func (s *ChatService) ChatStream(ctx context.Context, sessionID, message string, handler types.StreamHandler) (*types.ChatResponse, error) {
	sessionID, sctx, messages, err := s.prepare(ctx, sessionID, message)
	if err != nil {
		return nil, err
	}

	answer, err := s.ai.ChatStream(ctx, messages, handler)
	if err != nil {
		return nil, err
	}

	s.recordTurn(sctx, message, answer)
	return &types.ChatResponse{SessionID: sessionID, Message: answer}, nil
}

// prepare resolves the session and builds the prompt transcript.
func (s *ChatService) prepare(ctx context.Context, sessionID, message string) (string, *session.Context, []types.Message, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", nil, nil, types.NewValidationError("mensagem não pode ser vazia")
	}

	sessionID, sctx := s.sessions.GetOrCreate(sessionID)
	profile := sctx.Profile()

	if s.analyzer.IsGreeting(message) {
		return sessionID, sctx, s.composer.ComposeGreeting(profile), nil
	}

	messages := s.composer.Compose(PromptInput{
		Profile:  profile,
		Question: message,
		History:  sctx.History(),
		Context:  s.retrieveContext(ctx, message),
	})
	return sessionID, sctx, messages, nil
}

func (s *ChatService) retrieveContext(ctx context.Context, question string) string {
	documentContext, err := s.retriever.Retrieve(ctx, question)
	if err == nil {
		return documentContext
	}
	log.Printf("Warning: retrieval failed, trying fallback: %v", err)

	if s.fallback == nil {
		return ""
	}
	documentContext, err = s.fallback.Retrieve(ctx, question)
	if err != nil {
		log.Printf("Warning: fallback retrieval failed: %v", err)
		return ""
	}
	return documentContext
}

func (s *ChatService) recordTurn(sctx *session.Context, question string, answer *types.Message) {
	if err := sctx.AppendTurn(question, answer.Content); err != nil {
		log.Printf("Warning: could not record exchange: %v", err)
	}
}

// Analyze exposes the question profile of a message, mainly for the
// inspection endpoint.
func (s *ChatService) Analyze(message string) *types.QuestionProfile {
	return s.analyzer.Analyze(message)
}
