package types

// CompanyProfileUpdate is the wire form of a company-data submission.
// Required fields are pointers so that an absent key can be told apart
// from a zero value during validation.
type CompanyProfileUpdate struct {
	Name          *string           `json:"nome_empresa"`
	Sector        *string           `json:"setor"`
	EmployeeCount *int              `json:"num_funcionarios"`
	HasProgram    *bool             `json:"possui_programa"`
	Extra         map[string]string `json:"dados_adicionais,omitempty"`
}

// MissingFields lists the required profile fields absent from the update,
// in wire-format naming.
func (u CompanyProfileUpdate) MissingFields() []string {
	var missing []string
	if u.Name == nil {
		missing = append(missing, "nome_empresa")
	}
	if u.Sector == nil {
		missing = append(missing, "setor")
	}
	if u.EmployeeCount == nil {
		missing = append(missing, "num_funcionarios")
	}
	if u.HasProgram == nil {
		missing = append(missing, "possui_programa")
	}
	return missing
}

// ProfileRequest submits company data for a session. The company fields
// sit inline next to the session id, matching the product wire format.
type ProfileRequest struct {
	SessionID string `json:"session_id"`
	CompanyProfileUpdate
}

// ClearHistoryRequest empties the conversation log of a session.
type ClearHistoryRequest struct {
	SessionID string `json:"session_id"`
}

// QuestionAnalyzeRequest asks for the structural analysis of one message.
type QuestionAnalyzeRequest struct {
	Message string `json:"message"`
}

type SearchRequest struct {
	Question string `json:"question"`
	Limit    int    `json:"limit,omitempty"`
}
