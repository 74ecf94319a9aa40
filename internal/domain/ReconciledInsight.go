package domain

// ConversionBucket é uma das três fatias da deduplicação Priority Merge:
// verificadas (ambas as fontes concordam), só-feed e só-plataforma.
type ConversionBucket struct {
	Conversions float64 `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

// ReconciledEntity é a linha por entidade após a reconciliação. Mantém tanto os valores
// reconciliados quanto os originais da plataforma, para a UI poder exibir
// "a plataforma viu 12, nós contamos 15".
type ReconciledEntity struct {
	EntityID     string `json:"entity_id"`
	EntityName   string `json:"entity_name"`
	AdSetID      string `json:"adset_id"`
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`

	Spend       float64 `json:"spend"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`

	// Valores originais reportados pela plataforma, preservados separadamente
	PlatformConversions float64 `json:"platform_conversions"`
	PlatformRevenue     float64 `json:"platform_revenue"`

	Verified     ConversionBucket `json:"verified"`
	FeedOnly     ConversionBucket `json:"feed_only"`
	PlatformOnly ConversionBucket `json:"platform_only"`
	Manual       ConversionBucket `json:"manual"`

	// Totais reconciliados da entidade (soma das fatias + eventos manuais)
	Conversions float64 `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

// AggregateTotals é o objeto de totais do portfólio com as métricas base reconciliadas
// e as métricas derivadas. Toda razão com denominador zero resulta em 0, nunca NaN ou Inf.
type AggregateTotals struct {
	Spend       float64 `json:"spend"`
	Conversions float64 `json:"conversions"`
	Revenue     float64 `json:"revenue"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`

	ROAS           float64 `json:"roas"`
	CPM            float64 `json:"cpm"`
	CPC            float64 `json:"cpc"`
	CPA            float64 `json:"cpa"`
	CostPerResult  float64 `json:"cost_per_result"`
	AOV            float64 `json:"aov"`
	ConversionRate float64 `json:"conversion_rate"`
	CTR            float64 `json:"ctr"`
}

// InsightsResponse é a resposta completa consumida pelas telas do dashboard
type InsightsResponse struct {
	Entities     []*ReconciledEntity `json:"entities"`
	Totals       *AggregateTotals    `json:"totals"`
	BudgetTotals *BudgetTotals       `json:"budget_totals"`
	DateRange    DateRange           `json:"date_range"`
	FromCache    bool                `json:"from_cache"`
}
