package handler

import (
	"net/http"

	"github.com/vfg2006/ad-attribution-api/internal/usecases/selecting"
	"github.com/vfg2006/ad-attribution-api/pkg/apiErrors"
	"github.com/vfg2006/ad-attribution-api/pkg/log"
)

type toggleRequest struct {
	Key string `json:"key"`
}

type selectionResponse struct {
	SelectedKeys     []string                                     `json:"selected_keys"`
	CampaignStatuses map[string]selecting.CampaignSelectionStatus `json:"campaign_statuses"`
}

// GetSelection retorna o conjunto de chaves selecionadas e o tri-state por campanha
func GetSelection(service *selecting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := selectionResponse{
			SelectedKeys:     service.Keys(),
			CampaignStatuses: service.CampaignStatuses(),
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("selection: falha ao serializar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// ToggleSelection alterna uma chave de seleção (campanha ou composta campanha::conjunto)
func ToggleSelection(service *selecting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var request toggleRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		if request.Key == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Chave de seleção não informada", nil)
			return
		}

		service.Toggle(request.Key)

		logger.WithField("key", request.Key).Info("selection: chave alternada")

		writeSelection(w, r, service)
	})
}

// SelectAllEntities marca todas as campanhas visíveis e seus conjuntos ABO
func SelectAllEntities(service *selecting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		service.SelectAll()
		log.ForContext(r.Context()).Info("selection: todas as entidades selecionadas")
		writeSelection(w, r, service)
	})
}

// DeselectAllEntities esvazia o conjunto de seleção como ação deliberada do usuário
func DeselectAllEntities(service *selecting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		service.DeselectAll()
		log.ForContext(r.Context()).Info("selection: seleção esvaziada pelo usuário")
		writeSelection(w, r, service)
	})
}

// GetBudgetTotals retorna o orçamento diário agregado do portfólio selecionado
func GetBudgetTotals(service *selecting.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		totals := service.BudgetTotals()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(totals); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("selection: falha ao serializar orçamentos")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func writeSelection(w http.ResponseWriter, r *http.Request, service *selecting.Service) {
	response := selectionResponse{
		SelectedKeys:     service.Keys(),
		CampaignStatuses: service.CampaignStatuses(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("selection: falha ao serializar resposta")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
