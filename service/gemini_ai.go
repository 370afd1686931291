package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/thiiagovboas/eureca-assistant/types"
)

// GeminiService answers through the Gemini API. Several API keys may be
// configured; on request failure the service rotates to the next key and
// retries once.
type GeminiService struct {
	apiKeys     []string
	currentKey  int
	client      *genai.Client
	modelName   string
	temperature float32
	mu          sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName string, temperature float32) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	service := &GeminiService{
		apiKeys:     apiKeys,
		currentKey:  0,
		modelName:   modelName,
		temperature: temperature,
	}
	if err := service.initClient(); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *GeminiService) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	return nil
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.initClient()
}

// generativeModel builds a model from the current client. Models are not
// reused across calls so a key rotation always takes effect.
func (s *GeminiService) generativeModel(system string) *genai.GenerativeModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(s.temperature)
	if system != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(system)},
		}
	}
	return model
}

func (s *GeminiService) Chat(ctx context.Context, messages []types.Message) (*types.Message, error) {
	system, history, prompt, err := splitTranscript(messages)
	if err != nil {
		return nil, err
	}

	chat := s.generativeModel(system).StartChat()
	chat.History = history

	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		if err := s.rotateAPIKey(); err != nil {
			return nil, err
		}
		chat = s.generativeModel(system).StartChat()
		chat.History = history
		resp, err = chat.SendMessage(ctx, genai.Text(prompt))
		if err != nil {
			return nil, err
		}
	}

	if len(resp.Candidates) == 0 {
		return nil, errors.New("no response generated")
	}

	var content strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content.WriteString(string(text))
			}
		}
	}

	return &types.Message{
		Role:    types.RoleAssistant,
		Content: content.String(),
	}, nil
}

func (s *GeminiService) ChatStream(ctx context.Context, messages []types.Message, handler types.StreamHandler) (*types.Message, error) {
	system, history, prompt, err := splitTranscript(messages)
	if err != nil {
		return nil, err
	}

	chat := s.generativeModel(system).StartChat()
	chat.History = history
	iter := chat.SendMessageStream(ctx, genai.Text(prompt))

	var full strings.Builder
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			// Retry on a fresh key only before anything was streamed;
			// restarting mid-answer would duplicate delivered fragments.
			if full.Len() > 0 {
				return nil, err
			}
			if err := s.rotateAPIKey(); err != nil {
				return nil, err
			}
			chat = s.generativeModel(system).StartChat()
			chat.History = history
			iter = chat.SendMessageStream(ctx, genai.Text(prompt))
			resp, err = iter.Next()
			if err != nil {
				return nil, err
			}
		}

		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					full.WriteString(string(text))
					if handler != nil {
						handler(string(text))
					}
				}
			}
		}
	}

	return &types.Message{
		Role:    types.RoleAssistant,
		Content: full.String(),
	}, nil
}

// splitTranscript maps a chat transcript onto the Gemini request shape:
// system messages become the system instruction, the final message is the
// prompt and everything between is history with roles user and model.
func splitTranscript(messages []types.Message) (string, []*genai.Content, string, error) {
	if len(messages) == 0 {
		return "", nil, "", errors.New("no messages provided")
	}

	var systemParts []string
	var conversation []types.Message
	for _, msg := range messages {
		if msg.Role == types.RoleSystem {
			systemParts = append(systemParts, msg.Content)
			continue
		}
		conversation = append(conversation, msg)
	}
	if len(conversation) == 0 {
		return "", nil, "", errors.New("no user message provided")
	}

	history := make([]*genai.Content, 0, len(conversation)-1)
	for _, msg := range conversation[:len(conversation)-1] {
		role := "user"
		if msg.Role == types.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Parts: []genai.Part{genai.Text(msg.Content)},
			Role:  role,
		})
	}

	prompt := conversation[len(conversation)-1].Content
	return strings.Join(systemParts, "\n\n"), history, prompt, nil
}
