// Package reconciling implementa a deduplicação Priority Merge: combina as conversões
// reportadas pela plataforma com feeds de atribuição independentes (pixel, e-commerce,
// eventos manuais) em uma verdade única por entidade e por portfólio, sem dupla contagem.
package reconciling

import (
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
	"github.com/vfg2006/ad-attribution-api/pkg/utils"
)

// Input agrupa os feeds de atribuição de uma reconciliação. Qualquer feed pode ser nil,
// o que equivale a um mapa vazio — nunca a um erro.
type Input struct {
	// PixelFeed é o feed de atribuição first-party (pixel/CRM)
	PixelFeed domain.AttributionFeed
	// ManualFeed são os eventos offline registrados manualmente; sempre aditivos
	ManualFeed domain.AttributionFeed
	// Storefront, quando presente, é a fonte designada de receita: seus totais de
	// portfólio substituem a reconciliação min/max (já vêm deduplicados upstream)
	Storefront *domain.StorefrontFeed
}

// Result é a saída da reconciliação: linhas por entidade e totais de portfólio
type Result struct {
	Entities []*domain.ReconciledEntity
	Totals   *domain.AggregateTotals
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Reconcile aplica a política de merge sobre as linhas selecionadas.
// Spend vem exclusivamente das linhas da plataforma; nenhum feed contribui para spend.
// Os totais agregados são a soma dos valores reconciliados por entidade — o min/max
// nunca é reaplicado no nível agregado, o que reintroduziria dupla contagem entre
// entidades que individualmente não tinham sobreposição.
func (s *Service) Reconcile(rows []domain.PerformanceRow, input Input) *Result {
	pixel := input.PixelFeed.Sanitize()
	manual := input.ManualFeed.Sanitize()

	entities := collapseRows(rows)

	storefrontMode := input.Storefront != nil
	for _, entity := range entities {
		if storefrontMode {
			// A loja é a verdade absoluta no portfólio; por entidade a exibição
			// mantém os valores da plataforma, sem split min/max.
			entity.Conversions = entity.PlatformConversions
			entity.Revenue = entity.PlatformRevenue
		} else {
			mergeEntity(entity, pixel[entity.EntityID])
		}

		if rec, ok := manual[entity.EntityID]; ok {
			entity.Manual = domain.ConversionBucket{Conversions: rec.Conversions, Revenue: rec.Revenue}
			entity.Conversions += rec.Conversions
			entity.Revenue += rec.Revenue
		}
	}

	totals := sumEntities(entities)

	if storefrontMode {
		// Totais de portfólio direto do feed da loja, incluindo entidades ausentes da
		// seleção atual de linhas (anúncios pausados ou fora do filtro de datas ainda
		// representam receita que a loja atribui).
		conversions := input.Storefront.TotalConversions
		revenue := input.Storefront.TotalRevenue
		if conversions < 0 {
			conversions = 0
		}
		if revenue < 0 {
			revenue = 0
		}

		manualConversions, manualRevenue := manual.Totals()
		totals.Conversions = conversions + manualConversions
		totals.Revenue = revenue + manualRevenue

		logrus.WithFields(logrus.Fields{
			"storefront_conversions": conversions,
			"storefront_revenue":     revenue,
			"manual_conversions":     manualConversions,
		}).Debug("reconcile: totais do portfólio com a loja como fonte designada")
	}

	deriveRatios(totals)

	return &Result{
		Entities: entities,
		Totals:   totals,
	}
}

// collapseRows agrupa as linhas diárias por entidade, somando métricas base.
// A saída é ordenada por entity_id para ser estável entre chamadas.
func collapseRows(rows []domain.PerformanceRow) []*domain.ReconciledEntity {
	byEntity := make(map[string]*domain.ReconciledEntity)

	for i := range rows {
		row := &rows[i]

		entity, ok := byEntity[row.EntityID]
		if !ok {
			entity = &domain.ReconciledEntity{
				EntityID:     row.EntityID,
				EntityName:   row.EntityName,
				AdSetID:      row.AdSetID,
				CampaignID:   row.CampaignID,
				CampaignName: row.CampaignName,
			}
			byEntity[row.EntityID] = entity
		}

		spend := row.Spend
		if spend < 0 {
			spend = 0
		}
		conversions := row.Conversions
		if conversions < 0 {
			conversions = 0
		}
		revenue := row.Revenue
		if revenue < 0 {
			revenue = 0
		}

		entity.Spend += spend
		entity.Impressions += row.Impressions
		entity.Clicks += row.Clicks
		entity.PlatformConversions += conversions
		entity.PlatformRevenue += revenue
	}

	entities := make([]*domain.ReconciledEntity, 0, len(byEntity))
	for _, entity := range byEntity {
		entities = append(entities, entity)
	}
	sort.Slice(entities, func(i, j int) bool {
		return entities[i].EntityID < entities[j].EntityID
	})

	return entities
}

// mergeEntity aplica o split min/max de uma entidade contra o feed do pixel.
// Garante conversões reconciliadas == max(plataforma, feed): nunca conta em dobro,
// nunca conta menos que a maior observação isolada.
func mergeEntity(entity *domain.ReconciledEntity, feedRec domain.FeedRecord) {
	platformN := entity.PlatformConversions
	platformRev := entity.PlatformRevenue
	feedN := feedRec.Conversions
	feedRev := feedRec.Revenue

	verified := platformN
	if feedN < platformN {
		verified = feedN
	}

	feedOnly := feedN - platformN
	if feedOnly < 0 {
		feedOnly = 0
	}

	platformOnly := platformN - feedN
	if platformOnly < 0 {
		platformOnly = 0
	}

	// Receita das verificadas sai do lado da plataforma, proporcional à fração
	// verificada. Decisão de produto: quando as duas fontes concordam, o valor de
	// checkout da plataforma é tratado como autoritativo.
	var verifiedRev, platformOnlyRev float64
	if platformN > 0 {
		verifiedRev = (verified / platformN) * platformRev
		platformOnlyRev = (platformOnly / platformN) * platformRev
	}

	var feedOnlyRev float64
	if feedN > 0 {
		feedOnlyRev = (feedOnly / feedN) * feedRev
	}

	entity.Verified = domain.ConversionBucket{Conversions: verified, Revenue: verifiedRev}
	entity.FeedOnly = domain.ConversionBucket{Conversions: feedOnly, Revenue: feedOnlyRev}
	entity.PlatformOnly = domain.ConversionBucket{Conversions: platformOnly, Revenue: platformOnlyRev}

	entity.Conversions = verified + feedOnly + platformOnly
	entity.Revenue = verifiedRev + feedOnlyRev + platformOnlyRev
}

// sumEntities soma os valores reconciliados de todas as entidades selecionadas
func sumEntities(entities []*domain.ReconciledEntity) *domain.AggregateTotals {
	totals := &domain.AggregateTotals{}

	for _, entity := range entities {
		totals.Spend += entity.Spend
		totals.Conversions += entity.Conversions
		totals.Revenue += entity.Revenue
		totals.Impressions += entity.Impressions
		totals.Clicks += entity.Clicks
	}

	return totals
}

// deriveRatios calcula as métricas derivadas sobre as métricas base reconciliadas.
// Denominador zero sempre resulta em 0 — nunca NaN, infinito ou nulo.
func deriveRatios(totals *domain.AggregateTotals) {
	totals.ROAS = safeDiv(totals.Revenue, totals.Spend)
	totals.CPA = safeDiv(totals.Spend, totals.Conversions)
	totals.CostPerResult = totals.CPA
	totals.AOV = safeDiv(totals.Revenue, totals.Conversions)
	totals.CPC = safeDiv(totals.Spend, float64(totals.Clicks))
	totals.CPM = safeDiv(totals.Spend*1000, float64(totals.Impressions))
	totals.ConversionRate = safeDiv(totals.Conversions*100, float64(totals.Clicks))
	totals.CTR = safeDiv(float64(totals.Clicks)*100, float64(totals.Impressions))

	totals.Spend = utils.RoundWithTwoDecimalPlace(totals.Spend)
	totals.Revenue = utils.RoundWithTwoDecimalPlace(totals.Revenue)
}

func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return utils.RoundWithTwoDecimalPlace(numerator / denominator)
}
