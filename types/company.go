package types

import "time"

// Company size categories, keyed off the employee count.
const (
	SizeMicro  = "micro"
	SizeSmall  = "pequeno"
	SizeMedium = "médio"
	SizeLarge  = "grande"
)

// Program experience stages.
const (
	StageExperienced = "experiente"
	StageBeginner    = "iniciante"
)

// CompanyProfile holds the company data a session was opened for, plus the
// attributes derived from it. JSON tags follow the product's PT-BR wire
// format.
type CompanyProfile struct {
	Name          string            `json:"nome_empresa"`
	Sector        string            `json:"setor"`
	EmployeeCount int               `json:"num_funcionarios"`
	HasProgram    bool              `json:"possui_programa"`
	Extra         map[string]string `json:"dados_adicionais,omitempty"`

	// Derived attributes, recomputed on every profile write.
	SizeCategory string    `json:"porte"`
	Stage        string    `json:"stage"`
	LastUpdate   time.Time `json:"last_update"`
}

// SizeCategoryFor maps an employee count to its size category.
func SizeCategoryFor(employees int) string {
	switch {
	case employees < 20:
		return SizeMicro
	case employees < 100:
		return SizeSmall
	case employees < 500:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// StageFor maps program presence to the experience stage.
func StageFor(hasProgram bool) string {
	if hasProgram {
		return StageExperienced
	}
	return StageBeginner
}
