// Package pixel integra o feed de atribuição first-party (pixel/CRM). O feed é uma
// observação independente das mesmas conversões que a plataforma também reporta.
package pixel

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-attribution-api/internal/config"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
	"github.com/vfg2006/ad-attribution-api/pkg/utils"
)

type PixelIntegrator struct {
	cfg *config.Config
}

func New(cfg *config.Config) *PixelIntegrator {
	return &PixelIntegrator{
		cfg: cfg,
	}
}

type responseFeed struct {
	Data []struct {
		EntityID    string  `json:"entity_id"`
		Conversions float64 `json:"conversions"`
		Revenue     float64 `json:"revenue"`
	} `json:"data"`
}

// FetchFeed busca as observações do pixel por entidade para as contas e janela pedidas.
// Um feed não configurado ou sem conversões equivale a um mapa vazio, nunca a um erro.
func (s *PixelIntegrator) FetchFeed(accountIDs []string, dateRange domain.DateRange) (domain.AttributionFeed, error) {
	if s.cfg.Pixel.URL == "" {
		return domain.AttributionFeed{}, nil
	}

	feed := make(domain.AttributionFeed)

	for _, accountID := range accountIDs {
		params := url.Values{}
		params.Add("account_id", accountID)
		params.Add("since", dateRange.Since)
		params.Add("until", dateRange.Until)
		params.Add("access_token", s.cfg.Pixel.AccessToken)

		body, err := utils.MakeRequest(fmt.Sprintf("%s/attribution?%s", s.cfg.Pixel.URL, params.Encode()))
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"account_id": accountID,
				"error":      err.Error(),
			}).Error("pixel: falha ao obter feed de atribuição")
			return nil, err
		}

		var response responseFeed
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithError(err).Error("pixel: falha ao decodificar feed de atribuição")
			return nil, err
		}

		for _, rec := range response.Data {
			existing := feed[rec.EntityID]
			existing.Conversions += rec.Conversions
			existing.Revenue += rec.Revenue
			feed[rec.EntityID] = existing
		}
	}

	return feed, nil
}
