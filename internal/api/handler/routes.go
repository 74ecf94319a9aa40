package handler

import (
	"net/http"

	"github.com/vfg2006/ad-attribution-api/infrastructure/repository"
	"github.com/vfg2006/ad-attribution-api/internal/api/handler/router"
	"github.com/vfg2006/ad-attribution-api/internal/config"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/account"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/insighting"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/selecting"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/syncing"
	"github.com/vfg2006/ad-attribution-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func AdAccounts(service account.AccountService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts",
			Method:      http.MethodGet,
			Handler:     AdAccountList(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/workspaces/:id",
			Method:      http.MethodGet,
			Handler:     GetWorkspace(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Insights(service insighting.Insighter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/insights",
			Method:      http.MethodGet,
			Handler:     GetInsights(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Selection(service *selecting.Service) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/selection",
			Method:      http.MethodGet,
			Handler:     GetSelection(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/selection/toggle",
			Method:      http.MethodPost,
			Handler:     ToggleSelection(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/selection/select-all",
			Method:      http.MethodPost,
			Handler:     SelectAllEntities(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/selection/deselect-all",
			Method:      http.MethodPost,
			Handler:     DeselectAllEntities(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/selection/budgets",
			Method:      http.MethodGet,
			Handler:     GetBudgetTotals(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func ManualEvents(repo repository.ManualEventRepository) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/manual-events",
			Method:      http.MethodPost,
			Handler:     CreateManualEvent(repo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/accounts/:id/manual-events",
			Method:      http.MethodGet,
			Handler:     ListManualEvents(repo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Sync(service *syncing.Service, cfg *config.Config) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts/:id/sync",
			Method:      http.MethodPost,
			Handler:     TriggerAccountSync(service, cfg),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/accounts/:id/activate",
			Method:      http.MethodPost,
			Handler:     ActivateAccount(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/sync/status",
			Method:      http.MethodGet,
			Handler:     GetSyncStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}
