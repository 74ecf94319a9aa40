package rowstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
)

func TestReplace_SwapsFullRowSet(t *testing.T) {
	store := New()

	store.Replace("acc_1", []domain.PerformanceRow{
		{EntityID: "ad_1", AccountID: "acc_1", Date: "2026-08-01"},
		{EntityID: "ad_2", AccountID: "acc_1", Date: "2026-08-02"},
	})

	// substituição completa: linhas anteriores não sobrevivem a um novo sync
	store.Replace("acc_1", []domain.PerformanceRow{
		{EntityID: "ad_3", AccountID: "acc_1", Date: "2026-08-03"},
	})

	rows := store.RowsFor([]string{"acc_1"}, domain.DateRange{Since: "2026-08-01", Until: "2026-08-31"})
	assert.Len(t, rows, 1)
	assert.Equal(t, "ad_3", rows[0].EntityID)
}

func TestReplace_CoercesNegativeMetrics(t *testing.T) {
	store := New()

	store.Replace("acc_1", []domain.PerformanceRow{
		{EntityID: "ad_1", Date: "2026-08-01", Spend: -10, Conversions: -2, Revenue: -5, Impressions: -1, Clicks: -1},
	})

	rows := store.RowsFor([]string{"acc_1"}, domain.DateRange{Since: "2026-08-01", Until: "2026-08-01"})
	assert.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Spend)
	assert.Equal(t, 0.0, rows[0].Conversions)
	assert.Equal(t, 0.0, rows[0].Revenue)
	assert.Equal(t, 0, rows[0].Impressions)
	assert.Equal(t, 0, rows[0].Clicks)
}

func TestRowsFor_InclusiveDateBounds(t *testing.T) {
	store := New()

	store.Replace("acc_1", []domain.PerformanceRow{
		{EntityID: "ad_before", Date: "2026-07-31"},
		{EntityID: "ad_start", Date: "2026-08-01"},
		{EntityID: "ad_mid", Date: "2026-08-10"},
		{EntityID: "ad_end", Date: "2026-08-20"},
		{EntityID: "ad_after", Date: "2026-08-21"},
	})

	rows := store.RowsFor([]string{"acc_1"}, domain.DateRange{Since: "2026-08-01", Until: "2026-08-20"})

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.EntityID)
	}
	assert.ElementsMatch(t, []string{"ad_start", "ad_mid", "ad_end"}, ids)
}

func TestRowsFor_MergesMultipleAccounts(t *testing.T) {
	store := New()
	window := domain.DateRange{Since: "2026-08-01", Until: "2026-08-31"}

	store.Replace("acc_1", []domain.PerformanceRow{{EntityID: "ad_1", Date: "2026-08-05"}})
	store.Replace("acc_2", []domain.PerformanceRow{{EntityID: "ad_2", Date: "2026-08-06"}})

	assert.Len(t, store.RowsFor([]string{"acc_1", "acc_2"}, window), 2)
	assert.Len(t, store.RowsFor([]string{"acc_1"}, window), 1)
	assert.Empty(t, store.RowsFor([]string{"acc_3"}, window))
}

func TestHasAccount(t *testing.T) {
	store := New()

	assert.False(t, store.HasAccount("acc_1"))

	// um sync vazio ainda conta como sync realizado
	store.Replace("acc_1", nil)
	assert.True(t, store.HasAccount("acc_1"))
}
