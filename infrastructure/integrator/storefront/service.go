// Package storefront integra o feed da plataforma de e-commerce. Diferente do pixel,
// a loja também expõe totais de portfólio já deduplicados upstream, usados como verdade
// absoluta quando ela é a fonte designada de receita.
package storefront

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-attribution-api/internal/config"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
	"github.com/vfg2006/ad-attribution-api/pkg/utils"
)

type StorefrontIntegrator struct {
	cfg *config.Config
}

func New(cfg *config.Config) *StorefrontIntegrator {
	return &StorefrontIntegrator{
		cfg: cfg,
	}
}

type responseOrders struct {
	Data []struct {
		EntityID    string  `json:"entity_id"`
		Conversions float64 `json:"conversions"`
		Revenue     float64 `json:"revenue"`
	} `json:"data"`
	Totals struct {
		Conversions float64 `json:"conversions"`
		Revenue     float64 `json:"revenue"`
	} `json:"totals"`
}

// FetchFeed busca as atribuições da loja por entidade e os totais de portfólio.
// Os totais incluem entidades fora da seleção atual de linhas: receita que a loja
// atribui conta no portfólio independente da visibilidade na plataforma de anúncios.
func (s *StorefrontIntegrator) FetchFeed(accountIDs []string, dateRange domain.DateRange) (*domain.StorefrontFeed, error) {
	feed := &domain.StorefrontFeed{
		Records: make(domain.AttributionFeed),
	}

	if s.cfg.Storefront.URL == "" {
		return feed, nil
	}

	for _, accountID := range accountIDs {
		params := url.Values{}
		params.Add("account_id", accountID)
		params.Add("since", dateRange.Since)
		params.Add("until", dateRange.Until)
		params.Add("access_token", s.cfg.Storefront.AccessToken)

		body, err := utils.MakeRequest(fmt.Sprintf("%s/orders/attribution?%s", s.cfg.Storefront.URL, params.Encode()))
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"account_id": accountID,
				"error":      err.Error(),
			}).Error("storefront: falha ao obter atribuições da loja")
			return nil, err
		}

		var response responseOrders
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithError(err).Error("storefront: falha ao decodificar atribuições da loja")
			return nil, err
		}

		for _, rec := range response.Data {
			existing := feed.Records[rec.EntityID]
			existing.Conversions += rec.Conversions
			existing.Revenue += rec.Revenue
			feed.Records[rec.EntityID] = existing
		}

		feed.TotalConversions += response.Totals.Conversions
		feed.TotalRevenue += response.Totals.Revenue
	}

	return feed, nil
}
