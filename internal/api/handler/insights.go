package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/vfg2006/ad-attribution-api/internal/domain"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/insighting"
	"github.com/vfg2006/ad-attribution-api/pkg/apiErrors"
	"github.com/vfg2006/ad-attribution-api/pkg/log"
	"github.com/vfg2006/ad-attribution-api/pkg/utils"
)

// GetInsights executa o pipeline de reconciliação e agregação para o escopo e período
// pedidos. O escopo vem de account_id ou workspace_id; o período de preset ou de
// start_date/end_date explícitos.
func GetInsights(service insighting.Insighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		scope := domain.Scope{
			AccountID: r.URL.Query().Get("account_id"),
			Workspace: r.URL.Query().Get("workspace_id"),
		}
		if scope.AccountID == "" && scope.Workspace == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Informe account_id ou workspace_id", nil)
			return
		}

		dateRange, err := parseDateRange(r)
		if err != nil {
			logger.WithFields(log.Fields{
				"account_id":   scope.AccountID,
				"workspace_id": scope.Workspace,
				"error":        err.Error(),
			}).Warn("insights: período inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, err.Error(), nil)
			return
		}

		logger.WithFields(log.Fields{
			"account_id":   scope.AccountID,
			"workspace_id": scope.Workspace,
			"preset":       dateRange.Preset,
			"since":        dateRange.Since,
			"until":        dateRange.Until,
		}).Info("insights: consultando métricas reconciliadas")

		response, err := service.GetInsights(scope, dateRange)
		if err != nil {
			logger.WithFields(log.Fields{
				"account_id":   scope.AccountID,
				"workspace_id": scope.Workspace,
				"error":        err.Error(),
			}).Error("insights: falha ao executar pipeline")
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.WithError(err).Error("insights: falha ao serializar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// parseDateRange resolve o período pedido: preset nomeado ou limites explícitos.
// Sem parâmetro algum, cai no preset padrão de 7 dias.
func parseDateRange(r *http.Request) (domain.DateRange, error) {
	preset := r.URL.Query().Get("preset")
	startParam := r.URL.Query().Get("start_date")
	endParam := r.URL.Query().Get("end_date")

	if preset != "" {
		if (domain.DateRange{Preset: preset}).Days() == 0 {
			return domain.DateRange{}, fmt.Errorf("preset desconhecido: %s", preset)
		}
		return domain.NewPresetRange(preset, time.Now()), nil
	}

	if startParam == "" && endParam == "" {
		return domain.NewPresetRange(domain.PresetLast7d, time.Now()), nil
	}

	startDate, err := utils.ParseDate(startParam)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("start_date inválido: %s", startParam)
	}

	endDate, err := utils.ParseDate(endParam)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("end_date inválido: %s", endParam)
	}

	if startParam == "" || endParam == "" {
		return domain.DateRange{}, fmt.Errorf("período customizado exige start_date e end_date")
	}

	if endDate.Before(*startDate) {
		return domain.DateRange{}, fmt.Errorf("end_date anterior a start_date")
	}

	return domain.DateRange{
		Since: startDate.Format(time.DateOnly),
		Until: endDate.Format(time.DateOnly),
	}, nil
}
