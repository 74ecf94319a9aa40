package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/account"
	"github.com/vfg2006/ad-attribution-api/pkg/apiErrors"
	"github.com/vfg2006/ad-attribution-api/pkg/log"
)

// AdAccountList lista as contas de anúncio, opcionalmente filtradas por status
func AdAccountList(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		statuses := []domain.AdAccountStatus{}
		if statusParam := r.URL.Query().Get("status"); statusParam != "" {
			statuses = append(statuses, domain.AdAccountStatus(statusParam))
		}

		accounts, err := service.ListAdAccounts(statuses)
		if err != nil {
			logger.WithError(err).Error("accounts: falha ao listar contas")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Falha ao listar contas", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(accounts); err != nil {
			logger.WithError(err).Error("accounts: falha ao serializar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// GetWorkspace retorna um workspace e as contas que ele agrupa
func GetWorkspace(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		workspace, err := service.GetWorkspace(id)
		if err != nil {
			logger.WithFields(log.Fields{
				"workspace_id": id,
				"error":        err.Error(),
			}).Warn("accounts: workspace não encontrado")
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(workspace); err != nil {
			logger.WithError(err).Error("accounts: falha ao serializar workspace")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// writeServiceError traduz erros dos usecases para a resposta padronizada da API
func writeServiceError(w http.ResponseWriter, err error) {
	if accErr, ok := err.(*account.AccountError); ok {
		apiErrors.WriteError(w, accErr.Code, accErr.Error(), nil)
		return
	}
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
}
