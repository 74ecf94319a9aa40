// Package insighting orquestra o pipeline do dashboard: decide cache versus recomputação,
// filtra pela cascata de seleção, reconcilia os feeds de atribuição e agrega as métricas.
package insighting

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-attribution-api/internal/config"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
	"github.com/vfg2006/ad-attribution-api/internal/resultcache"
	"github.com/vfg2006/ad-attribution-api/internal/rowstore"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/reconciling"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/selecting"
)

// Service compõe o Row Store, o cache de resultados, a cascata de seleção e o
// reconciliador em um pipeline único, para que cada tela do produto exiba o mesmo número.
type Service struct {
	cfg        *config.Config
	store      *rowstore.Store
	cache      *resultcache.Cache
	selection  *selecting.Service
	reconciler *reconciling.Service
	resolver   ScopeResolver
	pixel      PixelFeedSource
	storefront StorefrontFeedSource
	manual     ManualEventSource
}

func NewService(
	cfg *config.Config,
	store *rowstore.Store,
	cache *resultcache.Cache,
	selection *selecting.Service,
	reconciler *reconciling.Service,
	resolver ScopeResolver,
	pixel PixelFeedSource,
	storefront StorefrontFeedSource,
	manual ManualEventSource,
) Insighter {
	return &Service{
		cfg:        cfg,
		store:      store,
		cache:      cache,
		selection:  selection,
		reconciler: reconciler,
		resolver:   resolver,
		pixel:      pixel,
		storefront: storefront,
		manual:     manual,
	}
}

// GetInsights executa o pipeline completo para o escopo e período pedidos
func (s *Service) GetInsights(scope domain.Scope, dateRange domain.DateRange) (*domain.InsightsResponse, error) {
	scope, err := s.resolver.ResolveScope(scope)
	if err != nil {
		return nil, err
	}

	accountIDs := scope.Accounts()
	if len(accountIDs) == 0 {
		return nil, fmt.Errorf("escopo sem contas: informe uma conta ou um workspace")
	}

	rows, fromCache := s.rowsFor(scope, accountIDs, dateRange)

	// A árvore de entidades vem do conjunto completo de linhas do período, antes do
	// filtro de seleção, para que campanhas desmarcadas continuem visíveis na UI.
	tree := domain.BuildCampaignTree(rows)
	s.selection.SyncEntities(tree)

	selectedRows := s.selection.FilterRows(rows)

	input := s.fetchFeeds(accountIDs, dateRange)
	result := s.reconciler.Reconcile(selectedRows, input)

	return &domain.InsightsResponse{
		Entities:     result.Entities,
		Totals:       result.Totals,
		BudgetTotals: s.selection.BudgetTotals(),
		DateRange:    dateRange,
		FromCache:    fromCache,
	}, nil
}

// rowsFor decide entre servir do cache (regra de contenção de período) ou recomputar
// do Row Store de forma síncrona. Uma consulta de cache nunca falha.
func (s *Service) rowsFor(scope domain.Scope, accountIDs []string, dateRange domain.DateRange) ([]domain.PerformanceRow, bool) {
	var key string
	if scope.AccountID != "" {
		key = resultcache.AccountKey(scope.AccountID)
	} else {
		key = resultcache.WorkspaceKey(accountIDs)
	}

	entry := s.cache.Get(key)
	if s.cache.IsValid(entry, dateRange) {
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"cached_range": entry.DateRange.Preset,
			"requested":    dateRange.Preset,
		}).Debug("insights: servindo do cache por contenção de período")

		// o período mais largo do cache é filtrado para o mais estreito solicitado
		return narrowRows(entry.Rows, dateRange), true
	}

	rows := s.store.RowsFor(accountIDs, dateRange)
	s.cache.Put(key, rows, dateRange)
	return rows, false
}

// narrowRows filtra um conjunto de linhas em cache para um período mais estreito
func narrowRows(rows []domain.PerformanceRow, dateRange domain.DateRange) []domain.PerformanceRow {
	narrowed := make([]domain.PerformanceRow, 0, len(rows))
	for _, row := range rows {
		if dateRange.ContainsDate(row.Date) {
			narrowed = append(narrowed, row)
		}
	}
	return narrowed
}

// fetchFeeds busca os feeds de atribuição em paralelo. Falha de colaborador é recuperada
// aqui como contribuição zero: o merge nunca recebe exceções de upstream.
func (s *Service) fetchFeeds(accountIDs []string, dateRange domain.DateRange) reconciling.Input {
	var (
		input reconciling.Input
		wg    sync.WaitGroup
	)

	wg.Add(3)

	go func() {
		defer wg.Done()

		feed, err := s.pixel.FetchFeed(accountIDs, dateRange)
		if err != nil {
			logrus.WithError(err).Warn("insights: falha ao obter feed do pixel, contribuição zero")
			return
		}
		input.PixelFeed = feed
	}()

	go func() {
		defer wg.Done()

		if s.cfg.Attribution.RevenueSource != config.RevenueSourceStorefront {
			return
		}

		feed, err := s.storefront.FetchFeed(accountIDs, dateRange)
		if err != nil {
			logrus.WithError(err).Warn("insights: falha ao obter feed da loja, contribuição zero")
			return
		}
		input.Storefront = feed
	}()

	go func() {
		defer wg.Done()

		feed, err := s.manual.FeedForRange(accountIDs, dateRange.Since, dateRange.Until)
		if err != nil {
			logrus.WithError(err).Warn("insights: falha ao obter eventos manuais, contribuição zero")
			return
		}
		input.ManualFeed = feed
	}()

	wg.Wait()

	return input
}
