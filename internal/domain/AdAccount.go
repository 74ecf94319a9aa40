package domain

type AdAccountStatus string

const (
	AdAccountStatusActive   AdAccountStatus = "ACTIVE"
	AdAccountStatusInactive AdAccountStatus = "INACTIVE"
)

type AdAccount struct {
	ID          string          `json:"id"`
	ExternalID  string          `json:"external_id"`
	Name        string          `json:"name"`
	Nickname    *string         `json:"nickname"`
	Platform    Platform        `json:"platform"`
	Timezone    string          `json:"timezone"`
	WorkspaceID *string         `json:"workspace_id"`
	Status      AdAccountStatus `json:"status"`
}

// Workspace agrupa contas de anúncio que são consultadas em conjunto pelo dashboard
type Workspace struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	AccountIDs []string `json:"account_ids"`
}

// Scope identifica o contexto da consulta: uma conta única ou um workspace.
// Exatamente um dos campos AccountID/Workspace é preenchido.
type Scope struct {
	AccountID  string   `json:"account_id,omitempty"`
	Workspace  string   `json:"workspace,omitempty"`
	AccountIDs []string `json:"account_ids,omitempty"`
}

// Accounts retorna os IDs de conta cobertos pelo escopo
func (s Scope) Accounts() []string {
	if s.AccountID != "" {
		return []string{s.AccountID}
	}
	return s.AccountIDs
}
