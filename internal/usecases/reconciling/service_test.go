package reconciling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
)

func row(entityID string, conversions, revenue, spend float64) domain.PerformanceRow {
	return domain.PerformanceRow{
		EntityID:    entityID,
		AdSetID:     "as_1",
		CampaignID:  "camp_1",
		AccountID:   "acc_1",
		Date:        "2026-08-20",
		Platform:    domain.PlatformMeta,
		Spend:       spend,
		Conversions: conversions,
		Revenue:     revenue,
		Impressions: 1000,
		Clicks:      100,
	}
}

func TestReconcile_PriorityMerge(t *testing.T) {
	service := NewService()

	tests := []struct {
		name             string
		platformConv     float64
		platformRev      float64
		feedConv         float64
		feedRev          float64
		wantVerified     float64
		wantFeedOnly     float64
		wantPlatformOnly float64
		wantConversions  float64
		wantRevenue      float64
	}{
		{
			name:         "Plataforma enxerga mais que o pixel",
			platformConv: 10, platformRev: 1000,
			feedConv: 7, feedRev: 630,
			wantVerified:     7,
			wantFeedOnly:     0,
			wantPlatformOnly: 3,
			wantConversions:  10,
			wantRevenue:      1000, // 700 verificadas + 300 só-plataforma
		},
		{
			name:         "Pixel enxerga mais que a plataforma",
			platformConv: 5, platformRev: 500,
			feedConv: 8, feedRev: 640,
			wantVerified:     5,
			wantFeedOnly:     3,
			wantPlatformOnly: 0,
			wantConversions:  8,
			wantRevenue:      740, // 500 da plataforma + 3/8 da receita do feed
		},
		{
			name:         "Plataforma zerada cai tudo em só-feed",
			platformConv: 0, platformRev: 0,
			feedConv: 6, feedRev: 300,
			wantVerified:     0,
			wantFeedOnly:     6,
			wantPlatformOnly: 0,
			wantConversions:  6,
			wantRevenue:      300,
		},
		{
			name:         "Feed zerado cai tudo em só-plataforma",
			platformConv: 4, platformRev: 400,
			feedConv: 0, feedRev: 0,
			wantVerified:     0,
			wantFeedOnly:     0,
			wantPlatformOnly: 4,
			wantConversions:  4,
			wantRevenue:      400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []domain.PerformanceRow{row("ad_1", tt.platformConv, tt.platformRev, 100)}
			input := Input{
				PixelFeed: domain.AttributionFeed{
					"ad_1": {Conversions: tt.feedConv, Revenue: tt.feedRev},
				},
			}

			result := service.Reconcile(rows, input)

			assert.Len(t, result.Entities, 1)
			entity := result.Entities[0]

			assert.Equal(t, tt.wantVerified, entity.Verified.Conversions)
			assert.Equal(t, tt.wantFeedOnly, entity.FeedOnly.Conversions)
			assert.Equal(t, tt.wantPlatformOnly, entity.PlatformOnly.Conversions)
			assert.Equal(t, tt.wantConversions, entity.Conversions)
			assert.InDelta(t, tt.wantRevenue, entity.Revenue, 0.001)

			// nunca conta em dobro, nunca conta menos que a maior observação isolada
			expectedMax := tt.platformConv
			if tt.feedConv > expectedMax {
				expectedMax = tt.feedConv
			}
			assert.Equal(t, expectedMax, entity.Conversions)

			// os valores originais da plataforma são preservados para a UI
			assert.Equal(t, tt.platformConv, entity.PlatformConversions)
			assert.Equal(t, tt.platformRev, entity.PlatformRevenue)
		})
	}
}

func TestReconcile_AggregateIsSumOfEntities(t *testing.T) {
	service := NewService()

	// ad_1: plataforma vê mais; ad_2: pixel vê mais. Re-aplicar min/max no agregado
	// daria 18 em vez de 10+8.
	rows := []domain.PerformanceRow{
		row("ad_1", 10, 1000, 100),
		row("ad_2", 5, 500, 50),
	}
	input := Input{
		PixelFeed: domain.AttributionFeed{
			"ad_1": {Conversions: 7, Revenue: 630},
			"ad_2": {Conversions: 8, Revenue: 640},
		},
	}

	result := service.Reconcile(rows, input)

	assert.Equal(t, float64(18), result.Totals.Conversions)
	assert.InDelta(t, 150.0, result.Totals.Spend, 0.001)

	var sum float64
	for _, entity := range result.Entities {
		sum += entity.Conversions
	}
	assert.Equal(t, sum, result.Totals.Conversions)
}

func TestReconcile_ManualEventsAreAdditive(t *testing.T) {
	service := NewService()

	rows := []domain.PerformanceRow{row("ad_1", 10, 1000, 100)}
	input := Input{
		PixelFeed: domain.AttributionFeed{
			"ad_1": {Conversions: 10, Revenue: 1000},
		},
		ManualFeed: domain.AttributionFeed{
			"ad_1": {Conversions: 2, Revenue: 150},
		},
	}

	result := service.Reconcile(rows, input)

	entity := result.Entities[0]
	// manuais ficam fora do split min/max e somam por cima
	assert.Equal(t, float64(12), entity.Conversions)
	assert.InDelta(t, 1150.0, entity.Revenue, 0.001)
	assert.Equal(t, float64(2), entity.Manual.Conversions)
	assert.Equal(t, float64(12), result.Totals.Conversions)
}

func TestReconcile_DailyRowsCollapsePerEntity(t *testing.T) {
	service := NewService()

	day1 := row("ad_1", 3, 300, 30)
	day2 := row("ad_1", 4, 400, 40)
	day2.Date = "2026-08-21"

	result := service.Reconcile([]domain.PerformanceRow{day1, day2}, Input{
		PixelFeed: domain.AttributionFeed{
			"ad_1": {Conversions: 7, Revenue: 700},
		},
	})

	assert.Len(t, result.Entities, 1)
	entity := result.Entities[0]
	assert.Equal(t, float64(7), entity.PlatformConversions)
	assert.Equal(t, float64(7), entity.Verified.Conversions)
	assert.InDelta(t, 70.0, entity.Spend, 0.001)
}

func TestReconcile_StorefrontAsRevenueSource(t *testing.T) {
	service := NewService()

	rows := []domain.PerformanceRow{
		row("ad_1", 10, 1000, 100),
	}
	input := Input{
		PixelFeed: domain.AttributionFeed{
			"ad_1": {Conversions: 7, Revenue: 630},
		},
		ManualFeed: domain.AttributionFeed{
			"ad_1": {Conversions: 1, Revenue: 50},
		},
		// os totais da loja incluem um anúncio pausado fora da seleção de linhas
		Storefront: &domain.StorefrontFeed{
			Records: domain.AttributionFeed{
				"ad_1":        {Conversions: 6, Revenue: 600},
				"ad_pausado":  {Conversions: 2, Revenue: 200},
			},
			TotalConversions: 8,
			TotalRevenue:     800,
		},
	}

	result := service.Reconcile(rows, input)

	// por entidade mantém os valores da plataforma, sem split min/max, mais manuais
	entity := result.Entities[0]
	assert.Equal(t, float64(11), entity.Conversions)
	assert.InDelta(t, 1050.0, entity.Revenue, 0.001)
	assert.Equal(t, float64(0), entity.Verified.Conversions)

	// portfólio usa os totais deduplicados da loja + manuais, spend segue das linhas
	assert.Equal(t, float64(9), result.Totals.Conversions)
	assert.InDelta(t, 850.0, result.Totals.Revenue, 0.001)
	assert.InDelta(t, 100.0, result.Totals.Spend, 0.001)
}

func TestReconcile_RatiosWithZeroDenominators(t *testing.T) {
	service := NewService()

	result := service.Reconcile(nil, Input{})

	assert.Equal(t, float64(0), result.Totals.ROAS)
	assert.Equal(t, float64(0), result.Totals.CPA)
	assert.Equal(t, float64(0), result.Totals.CPC)
	assert.Equal(t, float64(0), result.Totals.CPM)
	assert.Equal(t, float64(0), result.Totals.CTR)
	assert.Equal(t, float64(0), result.Totals.ConversionRate)
	assert.Equal(t, float64(0), result.Totals.AOV)
}

func TestReconcile_DerivedRatios(t *testing.T) {
	service := NewService()

	rows := []domain.PerformanceRow{row("ad_1", 10, 1000, 200)}
	result := service.Reconcile(rows, Input{})

	assert.InDelta(t, 5.0, result.Totals.ROAS, 0.001)   // 1000 / 200
	assert.InDelta(t, 20.0, result.Totals.CPA, 0.001)   // 200 / 10
	assert.Equal(t, result.Totals.CPA, result.Totals.CostPerResult)
	assert.InDelta(t, 100.0, result.Totals.AOV, 0.001)  // 1000 / 10
	assert.InDelta(t, 2.0, result.Totals.CPC, 0.001)    // 200 / 100
	assert.InDelta(t, 200.0, result.Totals.CPM, 0.001)  // 200*1000 / 1000
	assert.InDelta(t, 10.0, result.Totals.CTR, 0.001)   // 100*100 / 1000
	assert.InDelta(t, 10.0, result.Totals.ConversionRate, 0.001)
}

func TestReconcile_NegativeFeedValuesCoercedToZero(t *testing.T) {
	service := NewService()

	rows := []domain.PerformanceRow{row("ad_1", 5, 500, 50)}
	input := Input{
		PixelFeed: domain.AttributionFeed{
			"ad_1": {Conversions: -3, Revenue: -100},
		},
	}

	result := service.Reconcile(rows, input)

	entity := result.Entities[0]
	assert.Equal(t, float64(5), entity.Conversions)
	assert.Equal(t, float64(5), entity.PlatformOnly.Conversions)
	assert.Equal(t, float64(0), entity.FeedOnly.Conversions)
}
