package metaclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ad-attribution-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ad-attribution-api/internal/config"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
)

type Client interface {
	GetAdInsights(accountExternalID string, dateRange domain.DateRange) ([]metadomain.AdInsight, error)
}

type MetaClient struct {
	Cfg *config.Config
}

func NewClient(cfg *config.Config) Client {
	return &MetaClient{
		Cfg: cfg,
	}
}

type responseAdInsights struct {
	Data   []metadomain.AdInsight `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// GetAdInsights busca os insights diários por anúncio de uma conta, seguindo a paginação
// da API até esgotar os resultados
func (c *MetaClient) GetAdInsights(accountExternalID string, dateRange domain.DateRange) ([]metadomain.AdInsight, error) {
	params := &url.Values{}
	params.Add("fields", "ad_id,ad_name,adset_id,adset_name,campaign_id,campaign_name,impressions,clicks,spend,conversions,conversion_values,ad_status,adset_status,campaign_status,campaign_daily_budget,adset_daily_budget")
	params.Add("level", "ad")
	params.Add("time_increment", "1")
	params.Add("time_range", fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}", dateRange.Since, dateRange.Until))
	params.Add("access_token", c.Cfg.Meta.AccessToken)

	requestURL := fmt.Sprintf("%s/act_%s/insights?%s", c.Cfg.Meta.URL, accountExternalID, params.Encode())

	insights := make([]metadomain.AdInsight, 0)

	for requestURL != "" {
		resp, err := http.Get(requestURL)
		if err != nil {
			logrus.WithError(err).Error("Erro ao fazer a requisição de insights do Meta")
			return nil, err
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("erro na API do Meta: status %s", resp.Status)
		}

		var page responseAdInsights
		if err := json.Unmarshal(body, &page); err != nil {
			logrus.WithError(err).Error("Erro ao decodificar JSON de insights do Meta")
			return nil, err
		}

		insights = append(insights, page.Data...)
		requestURL = page.Paging.Next
	}

	return insights, nil
}
