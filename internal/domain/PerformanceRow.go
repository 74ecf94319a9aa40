package domain

// Platform identifica a origem da plataforma de anúncios de uma linha de performance
type Platform string

const (
	PlatformMeta   Platform = "meta"
	PlatformGoogle Platform = "google"
)

// EntityStatus representa o status de veiculação de uma entidade (anúncio, conjunto ou campanha)
type EntityStatus string

const (
	EntityStatusActive EntityStatus = "ACTIVE"
	EntityStatusPaused EntityStatus = "PAUSED"
)

// PerformanceRow representa as métricas reportadas pela plataforma para um anúncio em um dia.
// A data é sempre o dia-calendário no fuso da conta (formato 2006-01-02), nunca deslocada
// para UTC, porque as plataformas reportam no fuso da conta.
type PerformanceRow struct {
	EntityID       string       `json:"entity_id"`
	AdSetID        string       `json:"adset_id"`
	CampaignID     string       `json:"campaign_id"`
	AccountID      string       `json:"account_id"`
	Date           string       `json:"date"`
	Platform       Platform     `json:"platform"`
	EntityName     string       `json:"entity_name"`
	AdSetName      string       `json:"adset_name"`
	CampaignName   string       `json:"campaign_name"`
	Impressions    int          `json:"impressions"`
	Clicks         int          `json:"clicks"`
	Spend          float64      `json:"spend"`
	Conversions    float64      `json:"platform_conversions"`
	Revenue        float64      `json:"platform_revenue"`
	EntityStatus   EntityStatus `json:"entity_status"`
	AdSetStatus    EntityStatus `json:"adset_status"`
	CampaignStatus EntityStatus `json:"campaign_status"`
	// Orçamentos diários opcionais. O padrão de presença define CBO vs ABO:
	// conjunto com orçamento próprio é ABO; senão a campanha com orçamento é CBO.
	CampaignBudget *float64 `json:"campaign_budget,omitempty"`
	AdSetBudget    *float64 `json:"adset_budget,omitempty"`
}

// IsABOAdSet informa se o conjunto de anúncios desta linha possui orçamento próprio.
// Campanhas do Google são sempre CBO, independente da presença do campo.
func (r *PerformanceRow) IsABOAdSet() bool {
	if r.Platform == PlatformGoogle {
		return false
	}
	return r.AdSetBudget != nil
}

// SelectionKey retorna a chave de seleção que governa esta linha: a chave composta
// `campanha::conjunto` quando o conjunto é ABO, senão a chave da campanha.
func (r *PerformanceRow) SelectionKey() string {
	if r.IsABOAdSet() {
		return CompositeKey(r.CampaignID, r.AdSetID)
	}
	return r.CampaignID
}
