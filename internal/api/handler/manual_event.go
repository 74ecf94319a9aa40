package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/ad-attribution-api/infrastructure/repository"
	"github.com/vfg2006/ad-attribution-api/pkg/apiErrors"
	"github.com/vfg2006/ad-attribution-api/pkg/log"
)

// CreateManualEvent registra um evento de conversão offline lançado pelo operador
func CreateManualEvent(repo repository.ManualEventRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var event repository.ManualEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		if event.AccountID == "" || event.EntityID == "" || event.OccurredOn == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "account_id, entity_id e occurred_on são obrigatórios", nil)
			return
		}

		if _, err := time.Parse(time.DateOnly, event.OccurredOn); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, "occurred_on deve estar no formato YYYY-MM-DD", nil)
			return
		}

		if err := repo.Save(&event); err != nil {
			logger.WithFields(log.Fields{
				"account_id": event.AccountID,
				"entity_id":  event.EntityID,
				"error":      err.Error(),
			}).Error("manual_events: falha ao salvar evento")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Falha ao salvar evento manual", nil)
			return
		}

		logger.WithFields(log.Fields{
			"account_id": event.AccountID,
			"entity_id":  event.EntityID,
		}).Info("manual_events: evento registrado")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(event)
	})
}

// ListManualEvents lista os eventos manuais de uma conta na janela pedida
func ListManualEvents(repo repository.ManualEventRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		since := r.URL.Query().Get("start_date")
		until := r.URL.Query().Get("end_date")

		events, err := repo.ListByAccount(accountID, since, until)
		if err != nil {
			logger.WithFields(log.Fields{
				"account_id": accountID,
				"error":      err.Error(),
			}).Error("manual_events: falha ao listar eventos")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Falha ao listar eventos manuais", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(events); err != nil {
			logger.WithError(err).Error("manual_events: falha ao serializar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
