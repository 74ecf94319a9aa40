package resultcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
)

func TestIsValid_PresetContainment(t *testing.T) {
	cache := New()

	tests := []struct {
		name      string
		cached    domain.DateRange
		requested domain.DateRange
		want      bool
	}{
		{
			name:      "Preset idêntico é sempre válido",
			cached:    domain.DateRange{Preset: domain.PresetLast7d},
			requested: domain.DateRange{Preset: domain.PresetLast7d},
			want:      true,
		},
		{
			name:      "Preset mais largo cobre o mais estreito",
			cached:    domain.DateRange{Preset: domain.PresetLast30d},
			requested: domain.DateRange{Preset: domain.PresetLast7d},
			want:      true,
		},
		{
			name:      "Preset mais estreito não cobre o mais largo",
			cached:    domain.DateRange{Preset: domain.PresetLast30d},
			requested: domain.DateRange{Preset: domain.PresetLast90d},
			want:      false,
		},
		{
			name:      "Últimos 30 dias cobrem ontem",
			cached:    domain.DateRange{Preset: domain.PresetLast30d},
			requested: domain.DateRange{Preset: domain.PresetYesterday},
			want:      true,
		},
		{
			name:      "Limites customizados idênticos são válidos",
			cached:    domain.DateRange{Since: "2026-08-01", Until: "2026-08-15"},
			requested: domain.DateRange{Since: "2026-08-01", Until: "2026-08-15"},
			want:      true,
		},
		{
			name:      "Customizado contido em customizado exige refetch mesmo assim",
			cached:    domain.DateRange{Since: "2026-08-01", Until: "2026-08-31"},
			requested: domain.DateRange{Since: "2026-08-10", Until: "2026-08-15"},
			want:      false,
		},
		{
			name:      "Preset em cache não serve pedido customizado",
			cached:    domain.DateRange{Preset: domain.PresetLast90d},
			requested: domain.DateRange{Since: "2026-08-10", Until: "2026-08-15"},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{DateRange: tt.cached}
			assert.Equal(t, tt.want, cache.IsValid(entry, tt.requested))
		})
	}
}

func TestIsValid_NilEntry(t *testing.T) {
	cache := New()
	assert.False(t, cache.IsValid(nil, domain.DateRange{Preset: domain.PresetLast7d}))
}

func TestIsValid_NeverExpiresByTime(t *testing.T) {
	cache := New()
	// entrada buscada há um ano atrás continua válida: não existe TTL
	cache.now = func() time.Time { return time.Now().AddDate(-1, 0, 0) }
	cache.Put(AccountKey("acc_1"), nil, domain.DateRange{Preset: domain.PresetLast30d})

	entry := cache.Get(AccountKey("acc_1"))
	assert.True(t, cache.IsValid(entry, domain.DateRange{Preset: domain.PresetLast7d}))
}

func TestKeys_Namespacing(t *testing.T) {
	assert.Equal(t, "account:acc_1", AccountKey("acc_1"))
	assert.Equal(t, "workspace:acc_1,acc_2", WorkspaceKey([]string{"acc_2", "acc_1"}))

	// a mesma composição em qualquer ordem produz a mesma chave
	assert.Equal(t,
		WorkspaceKey([]string{"a", "b", "c"}),
		WorkspaceKey([]string{"c", "a", "b"}),
	)

	// conta única e workspace de uma conta nunca colidem
	assert.NotEqual(t, AccountKey("acc_1"), WorkspaceKey([]string{"acc_1"}))
}

func TestInvalidateAccount_EvictsContainingWorkspaces(t *testing.T) {
	cache := New()
	rangeWeek := domain.DateRange{Preset: domain.PresetLast7d}

	cache.Put(AccountKey("acc_1"), nil, rangeWeek)
	cache.Put(AccountKey("acc_2"), nil, rangeWeek)
	cache.Put(WorkspaceKey([]string{"acc_1", "acc_2"}), nil, rangeWeek)
	cache.Put(WorkspaceKey([]string{"acc_2", "acc_3"}), nil, rangeWeek)

	cache.InvalidateAccount("acc_1")

	assert.Nil(t, cache.Get(AccountKey("acc_1")))
	assert.Nil(t, cache.Get(WorkspaceKey([]string{"acc_1", "acc_2"})))

	// entradas que não contêm a conta permanecem intactas
	assert.NotNil(t, cache.Get(AccountKey("acc_2")))
	assert.NotNil(t, cache.Get(WorkspaceKey([]string{"acc_2", "acc_3"})))
}

func TestPut_OverwritesExistingEntry(t *testing.T) {
	cache := New()
	key := AccountKey("acc_1")

	rows := []domain.PerformanceRow{{EntityID: "ad_1"}}
	cache.Put(key, rows, domain.DateRange{Preset: domain.PresetLast7d})
	cache.Put(key, nil, domain.DateRange{Preset: domain.PresetLast30d})

	entry := cache.Get(key)
	assert.Empty(t, entry.Rows)
	assert.Equal(t, domain.PresetLast30d, entry.DateRange.Preset)
}
