package selecting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }

// aboTree monta uma campanha Meta com dois conjuntos ABO e uma campanha CBO
func aboTree() []*domain.CampaignNode {
	return []*domain.CampaignNode{
		{
			ID:       "camp_abo",
			Platform: domain.PlatformMeta,
			Status:   domain.EntityStatusActive,
			AdSets: []*domain.AdSetNode{
				{ID: "as_1", Status: domain.EntityStatusActive, Budget: floatPtr(100), ABO: true},
				{ID: "as_2", Status: domain.EntityStatusActive, Budget: floatPtr(50), ABO: true},
			},
		},
		{
			ID:       "camp_cbo",
			Platform: domain.PlatformMeta,
			Status:   domain.EntityStatusActive,
			Budget:   floatPtr(200),
			AdSets: []*domain.AdSetNode{
				{ID: "as_3", Status: domain.EntityStatusActive, ABO: false},
			},
		},
	}
}

func TestSyncEntities_AutoPopulatesWhenEmpty(t *testing.T) {
	service := NewService()
	service.SyncEntities(aboTree())

	assert.ElementsMatch(t, []string{
		"camp_abo",
		"camp_abo::as_1",
		"camp_abo::as_2",
		"camp_cbo",
	}, service.Keys())
}

func TestSyncEntities_NewCampaignsJoinWithoutDisturbingExisting(t *testing.T) {
	service := NewService()
	service.SyncEntities(aboTree())

	// o usuário desmarca a campanha CBO
	service.Toggle("camp_cbo")
	assert.False(t, service.IsSelected("camp_cbo"))

	// novo sync traz uma campanha nova; a desmarcada continua desmarcada
	tree := append(aboTree(), &domain.CampaignNode{
		ID:       "camp_nova",
		Platform: domain.PlatformMeta,
		Status:   domain.EntityStatusActive,
		Budget:   floatPtr(80),
	})
	service.SyncEntities(tree)

	assert.True(t, service.IsSelected("camp_nova"))
	assert.False(t, service.IsSelected("camp_cbo"))
}

func TestToggle_CampaignCascadesToABOComposites(t *testing.T) {
	service := NewService()
	service.SyncEntities(aboTree())

	service.Toggle("camp_abo")
	assert.False(t, service.IsSelected("camp_abo"))
	assert.False(t, service.IsSelected("camp_abo::as_1"))
	assert.False(t, service.IsSelected("camp_abo::as_2"))

	// alternar de novo restaura o estado original
	service.Toggle("camp_abo")
	assert.True(t, service.IsSelected("camp_abo"))
	assert.True(t, service.IsSelected("camp_abo::as_1"))
	assert.True(t, service.IsSelected("camp_abo::as_2"))
}

func TestToggle_CompositeRemovesParentUntilAllSiblingsPresent(t *testing.T) {
	service := NewService()
	service.SyncEntities(aboTree())

	// desmarcar um dos dois conjuntos ABO remove a chave da campanha pai
	service.Toggle("camp_abo::as_2")
	assert.False(t, service.IsSelected("camp_abo"))
	assert.True(t, service.IsSelected("camp_abo::as_1"))
	assert.Equal(t, StatusSome, service.CampaignStatus("camp_abo"))

	// remarcar o conjunto restaura a chave da campanha
	service.Toggle("camp_abo::as_2")
	assert.True(t, service.IsSelected("camp_abo"))
	assert.Equal(t, StatusAll, service.CampaignStatus("camp_abo"))
}

func TestCampaignStatus_TriState(t *testing.T) {
	service := NewService()
	service.SyncEntities(aboTree())

	assert.Equal(t, StatusAll, service.CampaignStatus("camp_abo"))

	service.Toggle("camp_abo::as_1")
	assert.Equal(t, StatusSome, service.CampaignStatus("camp_abo"))

	service.Toggle("camp_abo::as_2")
	assert.Equal(t, StatusNone, service.CampaignStatus("camp_abo"))

	// campanha inexistente nunca erra
	assert.Equal(t, StatusNone, service.CampaignStatus("camp_fantasma"))
}

func TestToggle_OrphanKeyIsIgnored(t *testing.T) {
	service := NewService()
	service.SyncEntities(aboTree())

	before := service.Keys()
	service.Toggle("camp_removida")
	service.Toggle("camp_abo::as_inexistente")
	assert.Equal(t, before, service.Keys())
}

func TestSelectAll_IsIdempotent(t *testing.T) {
	service := NewService()
	service.SyncEntities(aboTree())

	service.SelectAll()
	first := service.Keys()
	service.SelectAll()
	assert.Equal(t, first, service.Keys())
}

func TestDeselectAll_DisablesAutoPopulate(t *testing.T) {
	service := NewService()
	service.SyncEntities(aboTree())

	service.DeselectAll()
	assert.Empty(t, service.Keys())

	// novo sync com o conjunto vazio não re-seleciona silenciosamente
	service.SyncEntities(aboTree())
	assert.Empty(t, service.Keys())

	// uma seleção explícita reabilita o auto-povoamento
	service.Toggle("camp_cbo")
	assert.True(t, service.IsSelected("camp_cbo"))

	service.DeselectAll()
	service.Toggle("camp_abo")
	service.DeselectAll()
	assert.Empty(t, service.Keys())
}

func TestFilterRows_UsesCompositeKeysForABO(t *testing.T) {
	service := NewService()

	rows := []domain.PerformanceRow{
		{EntityID: "ad_1", AdSetID: "as_1", CampaignID: "camp_abo", Platform: domain.PlatformMeta, AdSetBudget: floatPtr(100)},
		{EntityID: "ad_2", AdSetID: "as_2", CampaignID: "camp_abo", Platform: domain.PlatformMeta, AdSetBudget: floatPtr(50)},
		{EntityID: "ad_3", AdSetID: "as_3", CampaignID: "camp_cbo", Platform: domain.PlatformMeta, CampaignBudget: floatPtr(200)},
	}

	service.SyncEntities(domain.BuildCampaignTree(rows))

	// tudo selecionado: todas as linhas passam
	assert.Len(t, service.FilterRows(rows), 3)

	// desmarcar um conjunto ABO exclui apenas as linhas dele
	service.Toggle("camp_abo::as_2")
	filtered := service.FilterRows(rows)
	assert.Len(t, filtered, 2)
	for _, row := range filtered {
		assert.NotEqual(t, "ad_2", row.EntityID)
	}
}

func TestBudgetTotals_MutualExclusivity(t *testing.T) {
	service := NewService()
	service.SyncEntities(aboTree())

	totals := service.BudgetTotals()

	// campanha ABO conta apenas os conjuntos (100+50); a CBO conta o nível de campanha (200)
	assert.InDelta(t, 350.0, totals.Total, 0.001)
	assert.InDelta(t, 150.0, totals.ByOwnershipType.ABO, 0.001)
	assert.InDelta(t, 200.0, totals.ByOwnershipType.CBO, 0.001)
	assert.InDelta(t, 350.0, totals.ByPlatform[domain.PlatformMeta], 0.001)
}

func TestBudgetTotals_SkipsPausedAndUnselected(t *testing.T) {
	service := NewService()

	tree := aboTree()
	tree[0].AdSets[1].Status = domain.EntityStatusPaused // as_2 pausado
	service.SyncEntities(tree)

	totals := service.BudgetTotals()
	assert.InDelta(t, 300.0, totals.Total, 0.001) // 100 (as_1) + 200 (camp_cbo)

	// desmarcar a campanha CBO remove a contribuição dela
	service.Toggle("camp_cbo")
	totals = service.BudgetTotals()
	assert.InDelta(t, 100.0, totals.Total, 0.001)
}

func TestBudgetTotals_GoogleIsAlwaysCBO(t *testing.T) {
	service := NewService()

	// linha do Google com orçamento de conjunto presente: o conjunto não vira ABO
	rows := []domain.PerformanceRow{
		{
			EntityID:       "ad_g",
			AdSetID:        "ag_1",
			CampaignID:     "camp_google",
			Platform:       domain.PlatformGoogle,
			CampaignBudget: floatPtr(300),
			AdSetBudget:    floatPtr(999),
			CampaignStatus: domain.EntityStatusActive,
			AdSetStatus:    domain.EntityStatusActive,
		},
	}

	service.SyncEntities(domain.BuildCampaignTree(rows))

	totals := service.BudgetTotals()
	assert.InDelta(t, 300.0, totals.Total, 0.001)
	assert.InDelta(t, 300.0, totals.ByOwnershipType.CBO, 0.001)
	assert.Equal(t, 0.0, totals.ByOwnershipType.ABO)

	// e a chave de seleção da linha é a da campanha, não composta
	assert.Equal(t, "camp_google", rows[0].SelectionKey())
}
