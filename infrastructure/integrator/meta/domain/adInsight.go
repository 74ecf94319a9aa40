package metadomain

// AdInsight é o payload bruto de insights de anúncio da API do Meta. Métricas numéricas
// chegam como string e podem vir ausentes ou malformadas; a conversão tolerante acontece
// no integrador.
type AdInsight struct {
	AdID           string `json:"ad_id"`
	AdName         string `json:"ad_name"`
	AdSetID        string `json:"adset_id"`
	AdSetName      string `json:"adset_name"`
	CampaignID     string `json:"campaign_id"`
	CampaignName   string `json:"campaign_name"`
	DateStart      string `json:"date_start"`
	Impressions    string `json:"impressions"`
	Clicks         string `json:"clicks"`
	Spend          string `json:"spend"`
	Conversions    string `json:"conversions"`
	Revenue        string `json:"conversion_values"`
	AdStatus       string `json:"ad_status"`
	AdSetStatus    string `json:"adset_status"`
	CampaignStatus string `json:"campaign_status"`
	// Orçamentos diários em centavos, como string; vazio quando o nível não possui teto
	CampaignDailyBudget string `json:"campaign_daily_budget"`
	AdSetDailyBudget    string `json:"adset_daily_budget"`
}
