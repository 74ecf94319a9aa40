// Package selecting mantém o conjunto de entidades incluídas na agregação através das
// três camadas (campanha, conjunto, anúncio), com as regras de implicação pai/filho
// sensíveis a CBO/ABO e o indicador tri-state derivado para a UI.
package selecting

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
)

// CampaignSelectionStatus é o estado tri-state derivado de uma campanha
type CampaignSelectionStatus string

const (
	StatusAll  CampaignSelectionStatus = "all"
	StatusSome CampaignSelectionStatus = "some"
	StatusNone CampaignSelectionStatus = "none"
)

// Service implementa a cascata de seleção. O tri-state nunca é armazenado: é sempre
// derivado da presença das chaves, evitando bugs de divergência.
type Service struct {
	mu       sync.Mutex
	selected map[string]struct{}
	// known registra campanhas já vistas, para detectar recém-aparecidas em um novo sync
	known map[string]struct{}
	tree  []*domain.CampaignNode
	// autoSelect governa o auto-povoamento em novas cargas de dados; uma limpeza
	// deliberada do usuário o desliga até a próxima seleção explícita
	autoSelect bool
}

func NewService() *Service {
	return &Service{
		selected:   make(map[string]struct{}),
		known:      make(map[string]struct{}),
		autoSelect: true,
	}
}

// SyncEntities recebe a árvore derivada dos dados recém-chegados (sync concluído ou troca
// de conta). Se o conjunto está vazio e o usuário não acabou de limpá-lo, auto-povoa com
// todas as campanhas e conjuntos ABO. Caso contrário, campanhas recém-aparecidas entram
// sem perturbar as seleções existentes.
func (s *Service) SyncEntities(tree []*domain.CampaignNode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree = tree

	if len(s.selected) == 0 {
		if s.autoSelect {
			for _, campaign := range tree {
				s.selectCampaignLocked(campaign)
			}
		}
	} else {
		for _, campaign := range tree {
			if _, seen := s.known[campaign.ID]; !seen {
				s.selectCampaignLocked(campaign)
			}
		}
	}

	for _, campaign := range tree {
		s.known[campaign.ID] = struct{}{}
	}

	logrus.WithFields(logrus.Fields{
		"campaigns":   len(tree),
		"selected":    len(s.selected),
		"auto_select": s.autoSelect,
	}).Debug("selection: árvore de entidades sincronizada")
}

// Toggle alterna uma chave de seleção.
// Chave de campanha: adiciona/remove em cascata todas as chaves compostas ABO abaixo dela.
// Chave composta ABO: recalcula a presença da campanha pai — presente apenas quando todos
// os irmãos ABO estão presentes; o estado "alguns" sobe via união dos estados dos irmãos,
// não via presença da própria chave da campanha.
func (s *Service) Toggle(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaignID, adSetID, composite := domain.SplitSelectionKey(key)

	campaign := s.findCampaignLocked(campaignID)
	if campaign == nil {
		// referência a entidade que não existe mais nos dados atuais: ignorada
		logrus.WithField("key", key).Debug("selection: toggle de chave órfã ignorado")
		return
	}

	if !composite {
		if _, on := s.selected[key]; on {
			s.deselectCampaignLocked(campaign)
		} else {
			s.selectCampaignLocked(campaign)
		}
	} else {
		if !s.isABOAdSetLocked(campaign, adSetID) {
			logrus.WithField("key", key).Debug("selection: chave composta sem conjunto ABO correspondente")
			return
		}

		if _, on := s.selected[key]; on {
			delete(s.selected, key)
		} else {
			s.selected[key] = struct{}{}
		}

		s.recomputeParentLocked(campaign)
	}

	// qualquer toggle que deixe o conjunto não-vazio reabilita o auto-povoamento
	if len(s.selected) > 0 {
		s.autoSelect = true
	}
}

// SelectAll marca toda campanha visível e todo conjunto ABO abaixo dela
func (s *Service) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, campaign := range s.tree {
		s.selectCampaignLocked(campaign)
	}
	s.autoSelect = true
}

// DeselectAll esvazia o conjunto e registra a limpeza como ação deliberada do usuário,
// para que novas cargas de dados não re-selecionem silenciosamente.
func (s *Service) DeselectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = make(map[string]struct{})
	s.autoSelect = false
}

// Keys retorna uma cópia ordenada do conjunto de seleção
func (s *Service) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.selected))
	for key := range s.selected {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsSelected informa se uma chave está presente no conjunto
func (s *Service) IsSelected(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.selected[key]
	return ok
}

// CampaignStatus deriva o tri-state de uma campanha a partir das chaves presentes
func (s *Service) CampaignStatus(campaignID string) CampaignSelectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign := s.findCampaignLocked(campaignID)
	if campaign == nil {
		return StatusNone
	}

	abo := campaign.ABOAdSets()
	if len(abo) == 0 {
		if _, on := s.selected[campaign.ID]; on {
			return StatusAll
		}
		return StatusNone
	}

	present := 0
	for _, adSet := range abo {
		if _, on := s.selected[domain.CompositeKey(campaign.ID, adSet.ID)]; on {
			present++
		}
	}

	switch present {
	case 0:
		return StatusNone
	case len(abo):
		return StatusAll
	default:
		return StatusSome
	}
}

// CampaignStatuses deriva o tri-state de todas as campanhas da árvore corrente
func (s *Service) CampaignStatuses() map[string]CampaignSelectionStatus {
	s.mu.Lock()
	tree := s.tree
	s.mu.Unlock()

	statuses := make(map[string]CampaignSelectionStatus, len(tree))
	for _, campaign := range tree {
		statuses[campaign.ID] = s.CampaignStatus(campaign.ID)
	}
	return statuses
}

// FilterRows reduz as linhas ao subconjunto incluído: conjuntos ABO exigem a chave
// composta, o restante exige a chave da campanha. Chaves órfãs não contribuem nem erram.
func (s *Service) FilterRows(rows []domain.PerformanceRow) []domain.PerformanceRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	included := make([]domain.PerformanceRow, 0, len(rows))
	for _, row := range rows {
		if _, on := s.selected[row.SelectionKey()]; on {
			included = append(included, row)
		}
	}
	return included
}

// BudgetTotals calcula o total de orçamento diário do portfólio.
// Para cada campanha conta exatamente uma das fontes: o orçamento CBO de nível de
// campanha, ou os orçamentos dos conjuntos ABO — nunca ambos.
func (s *Service) BudgetTotals() *domain.BudgetTotals {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := &domain.BudgetTotals{
		ByPlatform: make(map[domain.Platform]float64),
	}

	for _, campaign := range s.tree {
		if campaign.Status == domain.EntityStatusPaused {
			continue
		}

		abo := campaign.ABOAdSets()
		if len(abo) > 0 {
			for _, adSet := range abo {
				if adSet.Status == domain.EntityStatusPaused || adSet.Budget == nil {
					continue
				}
				if _, on := s.selected[domain.CompositeKey(campaign.ID, adSet.ID)]; !on {
					continue
				}
				totals.Total += *adSet.Budget
				totals.ByOwnershipType.ABO += *adSet.Budget
				totals.ByPlatform[campaign.Platform] += *adSet.Budget
			}
			continue
		}

		if !campaign.IsCBO() || campaign.Budget == nil {
			// campanha só-ABO nunca contribui com seu campo (ausente) de campanha
			continue
		}
		if _, on := s.selected[campaign.ID]; !on {
			continue
		}
		totals.Total += *campaign.Budget
		totals.ByOwnershipType.CBO += *campaign.Budget
		totals.ByPlatform[campaign.Platform] += *campaign.Budget
	}

	return totals
}

func (s *Service) findCampaignLocked(campaignID string) *domain.CampaignNode {
	for _, campaign := range s.tree {
		if campaign.ID == campaignID {
			return campaign
		}
	}
	return nil
}

func (s *Service) isABOAdSetLocked(campaign *domain.CampaignNode, adSetID string) bool {
	for _, adSet := range campaign.ABOAdSets() {
		if adSet.ID == adSetID {
			return true
		}
	}
	return false
}

func (s *Service) selectCampaignLocked(campaign *domain.CampaignNode) {
	s.selected[campaign.ID] = struct{}{}
	for _, adSet := range campaign.ABOAdSets() {
		s.selected[domain.CompositeKey(campaign.ID, adSet.ID)] = struct{}{}
	}
}

func (s *Service) deselectCampaignLocked(campaign *domain.CampaignNode) {
	delete(s.selected, campaign.ID)
	for _, adSet := range campaign.ABOAdSets() {
		delete(s.selected, domain.CompositeKey(campaign.ID, adSet.ID))
	}
}

// recomputeParentLocked deriva a presença da chave da campanha após o toggle de um
// composto: presente somente quando todos os irmãos ABO estão presentes
func (s *Service) recomputeParentLocked(campaign *domain.CampaignNode) {
	abo := campaign.ABOAdSets()
	present := 0
	for _, adSet := range abo {
		if _, on := s.selected[domain.CompositeKey(campaign.ID, adSet.ID)]; on {
			present++
		}
	}

	if present == len(abo) && present > 0 {
		s.selected[campaign.ID] = struct{}{}
	} else {
		delete(s.selected, campaign.ID)
	}
}
