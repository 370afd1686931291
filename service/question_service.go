package service

import (
	"regexp"
	"strings"

	"github.com/thiiagovboas/eureca-assistant/types"
)

// DefaultGreetings are the messages treated as a greeting instead of a
// question. Matching ignores case and surrounding punctuation.
var DefaultGreetings = []string{
	"oi", "olá", "ola", "hi", "hello", "ei",
	"bom dia", "boa tarde", "boa noite", "hey",
}

// DefaultKeywords is the apprenticeship vocabulary scanned for in every
// question. The extraction preserves this order.
var DefaultKeywords = []string{
	"aprendiz", "contrato", "idade", "salário", "curso",
	"escola", "horário", "férias", "direitos", "deveres",
	"cota", "contratação", "rescisão", "benefícios",
}

// greetingCutset mirrors the punctuation stripped before greeting lookup.
const greetingCutset = "!., "

var (
	multiPartPattern   = regexp.MustCompile(`\?.*\?`)
	numberPattern      = regexp.MustCompile(`\d+`)
	comparisonPattern  = regexp.MustCompile(`diferença|versus|comparação|entre`)
	requirementPattern = regexp.MustCompile(`preciso|necessário|obrigatório`)
	legalPattern       = regexp.MustCompile(`(?i)lei|artigo|legislação|clt`)
	doubtPattern       = regexp.MustCompile(`(?i)como|qual|quando|onde|por que|porque|quem|quanto`)

	// An interrogative joined by e/ou starts a new sub-question. The matched
	// word is re-emitted after the separator, so "qual a idade e quanto
	// custa" splits at "quanto".
	subQuestionPattern = regexp.MustCompile(`(?i)\s+(?:e|ou)\s+(como|qual|quando|onde|por que|porque|quem|quanto)`)
)

// Analyzer classifies questions: greeting detection, structural flags,
// sub-question splitting, complexity and keyword extraction.
type Analyzer struct {
	greetings       map[string]struct{}
	keywords        []string
	keywordPatterns []*regexp.Regexp
}

func NewAnalyzer(greetings, keywords []string) *Analyzer {
	if len(greetings) == 0 {
		greetings = DefaultGreetings
	}
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	greetingSet := make(map[string]struct{}, len(greetings))
	for _, greeting := range greetings {
		greetingSet[strings.ToLower(greeting)] = struct{}{}
	}

	patterns := make([]*regexp.Regexp, len(keywords))
	for i, keyword := range keywords {
		patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
	}

	return &Analyzer{
		greetings:       greetingSet,
		keywords:        keywords,
		keywordPatterns: patterns,
	}
}

// IsGreeting reports whether the message is a bare greeting such as "Olá!"
// or "bom dia". Greetings bypass retrieval entirely.
func (a *Analyzer) IsGreeting(text string) bool {
	normalized := strings.Trim(strings.ToLower(text), greetingCutset)
	_, ok := a.greetings[normalized]
	return ok
}

// Analyze builds the full profile of a question.
func (a *Analyzer) Analyze(question string) *types.QuestionProfile {
	profile := &types.QuestionProfile{
		IsGreeting:        a.IsGreeting(question),
		HasMultipleParts:  multiPartPattern.MatchString(question),
		HasNumbers:        numberPattern.MatchString(question),
		IsComparison:      comparisonPattern.MatchString(question),
		IsRequirement:     requirementPattern.MatchString(question),
		HasLegalReference: legalPattern.MatchString(question),
		IsInterrogative:   doubtPattern.MatchString(question),
		SubQuestions:      a.SplitQuestions(question),
		Keywords:          a.ExtractKeywords(question),
	}
	profile.Complexity = a.evaluateComplexity(question, profile)
	return profile
}

// SplitQuestions divides a compound message into its individual questions.
func (a *Analyzer) SplitQuestions(text string) []string {
	rewritten := subQuestionPattern.ReplaceAllString(text, "? $1")

	var questions []string
	for _, part := range strings.Split(rewritten, "?") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		questions = append(questions, part+"?")
	}
	return questions
}

// ExtractKeywords returns the vocabulary terms present in the text, in
// vocabulary order.
func (a *Analyzer) ExtractKeywords(text string) []string {
	var found []string
	for i, pattern := range a.keywordPatterns {
		if pattern.MatchString(text) {
			found = append(found, a.keywords[i])
		}
	}
	return found
}

// evaluateComplexity scores the question on its structural features. Two
// points for multiple question marks, a comparison or several
// sub-questions, one point for length over twenty words or a legal
// reference.
func (a *Analyzer) evaluateComplexity(question string, profile *types.QuestionProfile) string {
	score := 0
	if profile.HasMultipleParts {
		score += 2
	}
	if profile.IsComparison {
		score += 2
	}
	if len(strings.Fields(question)) > 20 {
		score++
	}
	if profile.HasLegalReference {
		score++
	}
	if len(profile.SubQuestions) > 1 {
		score += 2
	}

	switch {
	case score <= 2:
		return types.ComplexitySimple
	case score <= 4:
		return types.ComplexityMedium
	default:
		return types.ComplexityComplex
	}
}

// AnalyzeMessages profiles a whole conversation. User turns get the full
// question analysis, assistant turns only a word count.
func (a *Analyzer) AnalyzeMessages(messages []types.Message) []types.MessageAnalysis {
	analyses := make([]types.MessageAnalysis, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case types.RoleUser:
			analyses = append(analyses, types.MessageAnalysis{
				Content:  msg.Content,
				Role:     msg.Role,
				Question: a.Analyze(msg.Content),
			})
		case types.RoleAssistant:
			analyses = append(analyses, types.MessageAnalysis{
				Content:   msg.Content,
				Role:      msg.Role,
				WordCount: len(strings.Fields(msg.Content)),
			})
		}
	}
	return analyses
}
