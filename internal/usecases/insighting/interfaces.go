package insighting

import (
	"github.com/vfg2006/ad-attribution-api/internal/domain"
)

// PixelFeedSource define a interface para obter o feed de atribuição do pixel first-party
type PixelFeedSource interface {
	// FetchFeed obtém o mapa entity_id -> observação para a janela pedida
	FetchFeed(accountIDs []string, dateRange domain.DateRange) (domain.AttributionFeed, error)
}

// StorefrontFeedSource define a interface para obter o feed da plataforma de e-commerce
type StorefrontFeedSource interface {
	// FetchFeed obtém as observações por entidade e os totais de portfólio já deduplicados
	FetchFeed(accountIDs []string, dateRange domain.DateRange) (*domain.StorefrontFeed, error)
}

// ManualEventSource define a interface para obter os eventos offline registrados manualmente
type ManualEventSource interface {
	// FeedForRange agrega os eventos manuais da janela em um feed por entidade
	FeedForRange(accountIDs []string, since, until string) (domain.AttributionFeed, error)
}

// ScopeResolver resolve o escopo corrente (conta única ou workspace) para IDs de conta
type ScopeResolver interface {
	// ResolveScope preenche AccountIDs quando o escopo é um workspace
	ResolveScope(scope domain.Scope) (domain.Scope, error)
}

// Insighter é a interface completa do engine exposta às camadas de renderização e ação
type Insighter interface {
	// GetInsights executa o pipeline completo: cache, seleção, reconciliação e agregação
	GetInsights(scope domain.Scope, dateRange domain.DateRange) (*domain.InsightsResponse, error)
}
