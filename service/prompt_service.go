package service

import (
	"fmt"
	"strings"

	"github.com/thiiagovboas/eureca-assistant/types"
)

// DefaultHistoryWindow is how many past exchanges the prompt carries.
const DefaultHistoryWindow = 3

// Placeholder values used when the session has no company profile yet.
const (
	defaultCompanyName = "Empresa"
	defaultSector      = "não especificado"
)

const mainSystemPrompt = `Você é o assistente virtual da Eureca, especialista em Jovem Aprendiz.

REGRAS OBRIGATÓRIAS (SEMPRE SIGA ESTAS REGRAS):
1. NUNCA mencione leis, artigos ou base legal, a menos que EXPLICITAMENTE solicitado
2. NUNCA liste "próximos passos" ou qualquer tipo de lista numerada
3. NUNCA use formatos automáticos como "1.", "2.", etc.
4. NUNCA adicione informações não solicitadas
5. SEMPRE use o nome real da empresa: %[1]s
6. SEMPRE use o setor real da empresa: %[2]s
7. SEMPRE mantenha um tom amigável e consultivo
8. SEMPRE personalize as respostas para o contexto da empresa

SEU COMPORTAMENTO:
- Você é prestativo e focado em soluções
- Você entende profundamente sobre aprendizagem
- Você conhece as necessidades específicas de cada setor
- Você mantém o foco na pergunta atual
- Você evita termos técnicos desnecessários

ESTRUTURA DE RESPOSTA:
1. Comece reconhecendo o contexto da empresa
2. Responda à pergunta de forma direta
3. Personalize a informação para o setor
4. Termine com uma abertura para mais perguntas

O QUE EVITAR:
- NÃO use "Base legal:" ou similar
- NÃO use "Próximos passos:" ou similar
- NÃO cite artigos da CLT sem solicitação
- NÃO faça listas numeradas
- NÃO use linguagem muito formal`

const documentContextPrompt = `Use APENAS as informações do contexto fornecido para responder às perguntas.
Se a informação não estiver no contexto, diga que não tem essa informação específica.

Contexto relevante dos documentos:
%s`

const greetingPrompt = `Você é o assistente virtual da Eureca.

CONTEXTO ESPECÍFICO:
Empresa: %[1]s
Setor: %[2]s
Status: %[3]s

INSTRUÇÕES EXATAS:
Responda EXATAMENTE neste formato:
"Olá! Que bom ter você aqui! Sou o assistente da Eureca e estou aqui para ajudar a %[1]s com tudo relacionado à Lei de Aprendizagem. Vi que vocês são do setor de %[2]s e %[4]s. Como posso ajudar hoje?"

REGRAS CRÍTICAS:
- Use EXATAMENTE o formato acima
- NÃO adicione NADA além do texto especificado
- NÃO mencione leis ou artigos
- NÃO sugira próximos passos
- NÃO inclua informações adicionais`

const genericGreeting = "Olá! Que bom ter você aqui! Sou o assistente da Eureca e estou aqui para ajudar com tudo relacionado à Lei de Aprendizagem. Como posso ajudar hoje?"

// Composer assembles the message transcript sent to the model: system
// rules personalized with the company profile, the retrieved document
// context, a window of recent history and the question itself.
type Composer struct {
	historyWindow int
}

func NewComposer(historyWindow int) *Composer {
	if historyWindow < 1 {
		historyWindow = DefaultHistoryWindow
	}
	return &Composer{historyWindow: historyWindow}
}

// PromptInput is everything Compose needs for one answer.
type PromptInput struct {
	Profile  *types.CompanyProfile
	Question string
	History  []types.ConversationEntry
	Context  string
}

// Compose builds the transcript for a regular question.
func (c *Composer) Compose(input PromptInput) []types.Message {
	name, sector := profileIdentity(input.Profile)

	messages := []types.Message{
		{Role: types.RoleSystem, Content: fmt.Sprintf(mainSystemPrompt, name, sector)},
	}
	if input.Context != "" {
		messages = append(messages, types.Message{
			Role:    types.RoleSystem,
			Content: fmt.Sprintf(documentContextPrompt, input.Context),
		})
	}
	if historyText := c.formatHistory(input.History); historyText != "" {
		messages = append(messages, types.Message{
			Role:    types.RoleSystem,
			Content: "CONTEXTO ATUAL:\n" + historyText,
		})
	}
	return append(messages, types.Message{
		Role:    types.RoleUser,
		Content: input.Question,
	})
}

// ComposeGreeting builds the transcript for a bare greeting. With a full
// profile the model is instructed to greet the company by name and sector;
// otherwise it falls back to a generic greeting.
func (c *Composer) ComposeGreeting(profile *types.CompanyProfile) []types.Message {
	if profile == nil || profile.Name == "" || profile.Sector == "" {
		return []types.Message{
			{Role: types.RoleSystem, Content: genericGreeting},
		}
	}

	status := "Não"
	programPhrase := "ainda não possuem um programa de aprendizagem"
	if profile.HasProgram {
		status = "Sim"
		programPhrase = "já possuem um programa de aprendizagem"
	}

	return []types.Message{
		{
			Role:    types.RoleSystem,
			Content: fmt.Sprintf(greetingPrompt, profile.Name, profile.Sector, status, programPhrase),
		},
	}
}

// formatHistory renders the last historyWindow exchanges.
func (c *Composer) formatHistory(history []types.ConversationEntry) string {
	if len(history) == 0 {
		return ""
	}

	start := len(history) - c.historyWindow
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, (len(history)-start)*2)
	for _, entry := range history[start:] {
		lines = append(lines, "Usuário: "+entry.Question, "Assistente: "+entry.Answer)
	}
	return strings.Join(lines, "\n")
}

func profileIdentity(profile *types.CompanyProfile) (string, string) {
	name, sector := defaultCompanyName, defaultSector
	if profile != nil {
		if profile.Name != "" {
			name = profile.Name
		}
		if profile.Sector != "" {
			sector = profile.Sector
		}
	}
	return name, sector
}
