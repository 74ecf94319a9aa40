package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/ad-attribution-api/internal/config"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/syncing"
	"github.com/vfg2006/ad-attribution-api/pkg/apiErrors"
	"github.com/vfg2006/ad-attribution-api/pkg/log"
)

// TriggerAccountSync dispara a sincronização das linhas de performance de uma conta.
// Pedido para conta ocupada é descartado, nunca enfileirado: em andamento responde 409,
// em resfriamento responde 429.
func TriggerAccountSync(service *syncing.Service, cfg *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta não informado", nil)
			return
		}

		switch service.Phase(accountID) {
		case syncing.PhaseSyncing:
			apiErrors.WriteError(w, apiErrors.ErrSyncInFlight, "Sincronização já em andamento para a conta", nil)
			return
		case syncing.PhaseCoolingDown:
			apiErrors.WriteError(w, apiErrors.ErrSyncCoolingDown, "Conta em intervalo mínimo entre sincronizações", nil)
			return
		}

		now := time.Now()
		dateRange := domain.DateRange{
			Since: now.AddDate(0, 0, -cfg.RowSync.LookbackDays).Format(time.DateOnly),
			Until: now.Format(time.DateOnly),
		}

		logger.WithFields(log.Fields{
			"account_id": accountID,
			"since":      dateRange.Since,
			"until":      dateRange.Until,
		}).Info("sync: sincronização de conta disparada via API")

		go func() {
			if err := service.Sync(accountID, dateRange); err != nil {
				log.L.WithFields(log.Fields{
					"account_id": accountID,
					"error":      err.Error(),
				}).Warn("sync: sincronização disparada via API não aplicada")
			}
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{
			"account_id": accountID,
			"status":     string(syncing.PhaseSyncing),
		})
	})
}

// ActivateAccount registra o contexto de conta corrente da sessão. Um sync que termine
// depois da troca tem o resultado descartado.
func ActivateAccount(service *syncing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if accountID == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID da conta não informado", nil)
			return
		}

		service.SetCurrentAccount(accountID)

		log.ForContext(r.Context()).WithField("account_id", accountID).Info("sync: contexto de conta corrente atualizado")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"current_account": accountID,
		})
	})
}

// GetSyncStatus expõe o estado das máquinas de sincronização por conta
func GetSyncStatus(service *syncing.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(service.Status()); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("sync: falha ao serializar status")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
