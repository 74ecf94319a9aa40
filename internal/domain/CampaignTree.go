package domain

import (
	"sort"
	"strings"
)

// CompositeKey monta a chave de seleção `campanha::conjunto` usada para conjuntos ABO
func CompositeKey(campaignID, adSetID string) string {
	return campaignID + "::" + adSetID
}

// SplitSelectionKey decompõe uma chave de seleção. Para chaves compostas retorna os dois
// IDs e composite=true; para chaves de campanha retorna o ID e composite=false.
func SplitSelectionKey(key string) (campaignID, adSetID string, composite bool) {
	if idx := strings.Index(key, "::"); idx >= 0 {
		return key[:idx], key[idx+2:], true
	}
	return key, "", false
}

// AdSetNode é um conjunto de anúncios dentro da árvore de entidades
type AdSetNode struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Status EntityStatus `json:"status"`
	Budget *float64     `json:"budget,omitempty"`
	ABO    bool         `json:"abo"`
}

// CampaignNode é uma campanha na árvore de entidades com seus conjuntos de anúncios
type CampaignNode struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Platform Platform     `json:"platform"`
	Status   EntityStatus `json:"status"`
	Budget   *float64     `json:"budget,omitempty"`
	AdSets   []*AdSetNode `json:"adsets"`
}

// ABOAdSets retorna apenas os conjuntos que possuem orçamento próprio
func (c *CampaignNode) ABOAdSets() []*AdSetNode {
	abo := make([]*AdSetNode, 0, len(c.AdSets))
	for _, as := range c.AdSets {
		if as.ABO {
			abo = append(abo, as)
		}
	}
	return abo
}

// IsCBO informa se o orçamento de nível de campanha participa do total.
// Campanhas do Google são sempre CBO, independente da presença do campo.
// Uma campanha com ao menos um conjunto ABO tem o teto nos conjuntos, nunca nos dois níveis.
func (c *CampaignNode) IsCBO() bool {
	if len(c.ABOAdSets()) > 0 {
		return false
	}
	return c.Platform == PlatformGoogle || c.Budget != nil
}

// BuildCampaignTree deriva a árvore campanha/conjunto a partir das linhas de performance.
// O resultado é ordenado por ID para ser estável entre chamadas.
func BuildCampaignTree(rows []PerformanceRow) []*CampaignNode {
	campaigns := make(map[string]*CampaignNode)
	adSets := make(map[string]map[string]*AdSetNode)

	for i := range rows {
		row := &rows[i]

		campaign, ok := campaigns[row.CampaignID]
		if !ok {
			campaign = &CampaignNode{
				ID:       row.CampaignID,
				Name:     row.CampaignName,
				Platform: row.Platform,
				Status:   row.CampaignStatus,
				Budget:   row.CampaignBudget,
			}
			campaigns[row.CampaignID] = campaign
			adSets[row.CampaignID] = make(map[string]*AdSetNode)
		}

		if _, seen := adSets[row.CampaignID][row.AdSetID]; !seen {
			adSets[row.CampaignID][row.AdSetID] = &AdSetNode{
				ID:     row.AdSetID,
				Name:   row.AdSetName,
				Status: row.AdSetStatus,
				Budget: row.AdSetBudget,
				ABO:    row.IsABOAdSet(),
			}
		}
	}

	tree := make([]*CampaignNode, 0, len(campaigns))
	for campaignID, campaign := range campaigns {
		for _, adSet := range adSets[campaignID] {
			campaign.AdSets = append(campaign.AdSets, adSet)
		}
		sort.Slice(campaign.AdSets, func(i, j int) bool {
			return campaign.AdSets[i].ID < campaign.AdSets[j].ID
		})
		tree = append(tree, campaign)
	}

	sort.Slice(tree, func(i, j int) bool {
		return tree[i].ID < tree[j].ID
	})

	return tree
}
