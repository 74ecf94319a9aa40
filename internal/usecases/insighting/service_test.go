package insighting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ad-attribution-api/internal/config"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
	"github.com/vfg2006/ad-attribution-api/internal/resultcache"
	"github.com/vfg2006/ad-attribution-api/internal/rowstore"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/reconciling"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/selecting"
)

type fakeResolver struct{}

func (fakeResolver) ResolveScope(scope domain.Scope) (domain.Scope, error) {
	if scope.Workspace != "" {
		scope.AccountIDs = []string{"acc_1", "acc_2"}
	}
	return scope, nil
}

type fakePixel struct {
	feed  domain.AttributionFeed
	calls int
}

func (f *fakePixel) FetchFeed([]string, domain.DateRange) (domain.AttributionFeed, error) {
	f.calls++
	return f.feed, nil
}

type fakeStorefront struct {
	feed  *domain.StorefrontFeed
	calls int
}

func (f *fakeStorefront) FetchFeed([]string, domain.DateRange) (*domain.StorefrontFeed, error) {
	f.calls++
	return f.feed, nil
}

type fakeManual struct {
	feed domain.AttributionFeed
}

func (f *fakeManual) FeedForRange([]string, string, string) (domain.AttributionFeed, error) {
	return f.feed, nil
}

func mustDate(s string) time.Time {
	parsed, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return parsed
}

func testConfig(revenueSource string) *config.Config {
	return &config.Config{
		Attribution: config.Attribution{RevenueSource: revenueSource},
	}
}

func newPipeline(cfg *config.Config, pixel *fakePixel, storefront *fakeStorefront) (Insighter, *rowstore.Store, *resultcache.Cache) {
	store := rowstore.New()
	cache := resultcache.New()

	service := NewService(
		cfg,
		store,
		cache,
		selecting.NewService(),
		reconciling.NewService(),
		fakeResolver{},
		pixel,
		storefront,
		&fakeManual{},
	)

	return service, store, cache
}

func seedRows(store *rowstore.Store) {
	store.Replace("acc_1", []domain.PerformanceRow{
		{
			EntityID:   "ad_1",
			AdSetID:    "as_1",
			CampaignID: "camp_1",
			AccountID:  "acc_1",
			Date:       "2026-08-10",
			Platform:   domain.PlatformMeta,
			Spend:      100, Conversions: 10, Revenue: 1000,
			Impressions: 1000, Clicks: 100,
		},
	})
}

func TestGetInsights_FullPipeline(t *testing.T) {
	pixel := &fakePixel{feed: domain.AttributionFeed{
		"ad_1": {Conversions: 7, Revenue: 630},
	}}
	service, store, _ := newPipeline(testConfig(config.RevenueSourcePixel), pixel, &fakeStorefront{})
	seedRows(store)

	window := domain.DateRange{Since: "2026-08-01", Until: "2026-08-31"}
	response, err := service.GetInsights(domain.Scope{AccountID: "acc_1"}, window)

	assert.NoError(t, err)
	assert.False(t, response.FromCache)
	assert.Len(t, response.Entities, 1)
	assert.Equal(t, float64(10), response.Totals.Conversions)
	assert.Equal(t, 1, pixel.calls)
	assert.NotNil(t, response.BudgetTotals)
}

func TestGetInsights_ServesFromCacheByContainment(t *testing.T) {
	pixel := &fakePixel{}
	service, store, _ := newPipeline(testConfig(config.RevenueSourcePixel), pixel, &fakeStorefront{})
	seedRows(store)

	wide := domain.NewPresetRange(domain.PresetLast30d, mustDate("2026-08-31"))
	narrow := domain.NewPresetRange(domain.PresetLast7d, mustDate("2026-08-31"))

	first, err := service.GetInsights(domain.Scope{AccountID: "acc_1"}, wide)
	assert.NoError(t, err)
	assert.False(t, first.FromCache)

	// o período mais estreito é servido do cache do mais largo
	second, err := service.GetInsights(domain.Scope{AccountID: "acc_1"}, narrow)
	assert.NoError(t, err)
	assert.True(t, second.FromCache)
}

func TestGetInsights_NarrowerWindowFiltersCachedRows(t *testing.T) {
	pixel := &fakePixel{}
	service, store, _ := newPipeline(testConfig(config.RevenueSourcePixel), pixel, &fakeStorefront{})

	store.Replace("acc_1", []domain.PerformanceRow{
		{EntityID: "ad_velho", CampaignID: "camp_1", AccountID: "acc_1", Date: "2026-08-05", Platform: domain.PlatformMeta, Conversions: 3},
		{EntityID: "ad_novo", CampaignID: "camp_1", AccountID: "acc_1", Date: "2026-08-30", Platform: domain.PlatformMeta, Conversions: 4},
	})

	wide := domain.NewPresetRange(domain.PresetLast30d, mustDate("2026-08-31"))
	narrow := domain.NewPresetRange(domain.PresetLast7d, mustDate("2026-08-31"))

	first, err := service.GetInsights(domain.Scope{AccountID: "acc_1"}, wide)
	assert.NoError(t, err)
	assert.Len(t, first.Entities, 2)

	second, err := service.GetInsights(domain.Scope{AccountID: "acc_1"}, narrow)
	assert.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Len(t, second.Entities, 1)
	assert.Equal(t, "ad_novo", second.Entities[0].EntityID)
}

func TestGetInsights_WorkspaceScopeUsesOwnCacheKey(t *testing.T) {
	pixel := &fakePixel{}
	service, store, cache := newPipeline(testConfig(config.RevenueSourcePixel), pixel, &fakeStorefront{})
	seedRows(store)

	window := domain.NewPresetRange(domain.PresetLast30d, mustDate("2026-08-31"))

	_, err := service.GetInsights(domain.Scope{AccountID: "acc_1"}, window)
	assert.NoError(t, err)

	// a consulta de workspace não reutiliza a entrada da conta única
	response, err := service.GetInsights(domain.Scope{Workspace: "ws_1"}, window)
	assert.NoError(t, err)
	assert.False(t, response.FromCache)

	assert.NotNil(t, cache.Get(resultcache.AccountKey("acc_1")))
	assert.NotNil(t, cache.Get(resultcache.WorkspaceKey([]string{"acc_1", "acc_2"})))
}

func TestGetInsights_StorefrontOnlyFetchedWhenDesignated(t *testing.T) {
	storefront := &fakeStorefront{feed: &domain.StorefrontFeed{
		Records:          domain.AttributionFeed{},
		TotalConversions: 5,
		TotalRevenue:     500,
	}}

	pixelSvc, store, _ := newPipeline(testConfig(config.RevenueSourcePixel), &fakePixel{}, storefront)
	seedRows(store)

	window := domain.DateRange{Since: "2026-08-01", Until: "2026-08-31"}
	_, err := pixelSvc.GetInsights(domain.Scope{AccountID: "acc_1"}, window)
	assert.NoError(t, err)
	assert.Equal(t, 0, storefront.calls)

	storeSvc, store2, _ := newPipeline(testConfig(config.RevenueSourceStorefront), &fakePixel{}, storefront)
	seedRows(store2)

	response, err := storeSvc.GetInsights(domain.Scope{AccountID: "acc_1"}, window)
	assert.NoError(t, err)
	assert.Equal(t, 1, storefront.calls)
	assert.Equal(t, float64(5), response.Totals.Conversions)
}

func TestGetInsights_EmptyScopeFails(t *testing.T) {
	service, _, _ := newPipeline(testConfig(config.RevenueSourcePixel), &fakePixel{}, &fakeStorefront{})

	_, err := service.GetInsights(domain.Scope{}, domain.DateRange{Preset: domain.PresetLast7d})
	assert.Error(t, err)
}
