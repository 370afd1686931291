package types

// Question complexity levels.
const (
	ComplexitySimple  = "simples"
	ComplexityMedium  = "média"
	ComplexityComplex = "complexa"
)

// QuestionProfile is the classification of one incoming question. It routes
// formatting decisions and the greeting short-circuit.
type QuestionProfile struct {
	IsGreeting        bool     `json:"is_greeting"`
	HasMultipleParts  bool     `json:"has_multiple_questions"`
	HasNumbers        bool     `json:"contains_numbers"`
	IsComparison      bool     `json:"is_comparison"`
	IsRequirement     bool     `json:"is_requirement"`
	HasLegalReference bool     `json:"has_legal_reference"`
	IsInterrogative   bool     `json:"is_question"`
	SubQuestions      []string `json:"sub_questions"`
	Complexity        string   `json:"complexity"`
	Keywords          []string `json:"keywords"`
}

// MessageAnalysis is the per-turn analysis of a conversation. User turns
// carry a full question profile; assistant turns only their word count.
type MessageAnalysis struct {
	Content   string           `json:"content"`
	Role      string           `json:"role"`
	WordCount int              `json:"word_count,omitempty"`
	Question  *QuestionProfile `json:"analysis,omitempty"`
}
