package meta

import (
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-attribution-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ad-attribution-api/internal/config"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
)

// MetaIntegrator converte os insights brutos da API do Meta nas linhas de performance
// do engine. Implementa a fonte de linhas usada pelo sync.
type MetaIntegrator struct {
	cfg    *config.Config
	Client metaclient.Client
}

func New(cfg *config.Config, client metaclient.Client) *MetaIntegrator {
	return &MetaIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// FetchRows busca o conjunto completo de linhas da conta para a janela pedida.
// Campos numéricos malformados são coercidos para zero; um registro ruim nunca
// derruba o lote inteiro.
func (s *MetaIntegrator) FetchRows(accountID string, dateRange domain.DateRange) ([]domain.PerformanceRow, error) {
	insights, err := s.Client.GetAdInsights(accountID, dateRange)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": accountID,
			"error":      err.Error(),
		}).Error("meta: falha ao obter insights por anúncio")
		return nil, err
	}

	rows := make([]domain.PerformanceRow, 0, len(insights))
	for _, insight := range insights {
		rows = append(rows, domain.PerformanceRow{
			EntityID:       insight.AdID,
			AdSetID:        insight.AdSetID,
			CampaignID:     insight.CampaignID,
			AccountID:      accountID,
			Date:           insight.DateStart,
			Platform:       domain.PlatformMeta,
			EntityName:     insight.AdName,
			AdSetName:      insight.AdSetName,
			CampaignName:   insight.CampaignName,
			Impressions:    parseInt(insight.Impressions),
			Clicks:         parseInt(insight.Clicks),
			Spend:          parseFloat(insight.Spend),
			Conversions:    parseFloat(insight.Conversions),
			Revenue:        parseFloat(insight.Revenue),
			EntityStatus:   parseStatus(insight.AdStatus),
			AdSetStatus:    parseStatus(insight.AdSetStatus),
			CampaignStatus: parseStatus(insight.CampaignStatus),
			CampaignBudget: parseBudget(insight.CampaignDailyBudget),
			AdSetBudget:    parseBudget(insight.AdSetDailyBudget),
		})
	}

	return rows, nil
}

// parseFloat converte uma métrica em string para float64, com default 0 para malformados
func parseFloat(value string) float64 {
	if value == "" {
		return 0
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

func parseInt(value string) int {
	if value == "" {
		return 0
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

func parseStatus(value string) domain.EntityStatus {
	if value == string(domain.EntityStatusPaused) {
		return domain.EntityStatusPaused
	}
	return domain.EntityStatusActive
}

// parseBudget converte o orçamento diário reportado em centavos; ausência do campo
// significa que o nível não possui teto próprio (padrão de presença CBO/ABO)
func parseBudget(value string) *float64 {
	if value == "" {
		return nil
	}

	cents, err := strconv.ParseFloat(value, 64)
	if err != nil || cents < 0 {
		return nil
	}

	budget := cents / 100
	return &budget
}
