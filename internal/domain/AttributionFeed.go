package domain

// FeedRecord é a observação independente de um feed de atribuição para uma entidade:
// conversões (possivelmente fracionárias em modelos multi-touch) e receita.
// Nenhum feed contribui para spend; spend é sempre da plataforma.
type FeedRecord struct {
	Conversions float64 `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

// AttributionFeed mapeia entity_id -> observação do feed. Feeds distintos (pixel,
// plataforma de e-commerce, eventos manuais) compartilham este formato e são
// intercambiáveis para o reconciliador. Um feed ausente equivale a um mapa vazio.
type AttributionFeed map[string]FeedRecord

// Sanitize aplica os defaults definidos para registros malformados: valores negativos
// são coercidos para zero em vez de rejeitar o lote inteiro.
func (f AttributionFeed) Sanitize() AttributionFeed {
	if f == nil {
		return AttributionFeed{}
	}

	clean := make(AttributionFeed, len(f))
	for entityID, rec := range f {
		if rec.Conversions < 0 {
			rec.Conversions = 0
		}
		if rec.Revenue < 0 {
			rec.Revenue = 0
		}
		clean[entityID] = rec
	}
	return clean
}

// Totals soma conversões e receita de todos os registros do feed, inclusive de
// entidades fora da seleção atual de linhas.
func (f AttributionFeed) Totals() (conversions, revenue float64) {
	for _, rec := range f {
		conversions += rec.Conversions
		revenue += rec.Revenue
	}
	return conversions, revenue
}

// StorefrontFeed é o feed da plataforma de e-commerce. Além das observações por entidade,
// carrega os totais de portfólio já deduplicados upstream, que servem de verdade absoluta
// para conversões/receita quando a loja é a fonte designada de receita.
type StorefrontFeed struct {
	Records          AttributionFeed `json:"records"`
	TotalConversions float64         `json:"total_conversions"`
	TotalRevenue     float64         `json:"total_revenue"`
}
