package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-attribution-api/infrastructure/repository"
	"github.com/vfg2006/ad-attribution-api/internal/config"
	"github.com/vfg2006/ad-attribution-api/internal/domain"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/syncing"
	"github.com/vfg2006/ad-attribution-api/pkg/utils"
)

// RowSyncConfig representa a configuração do agendador de linhas de performance
type RowSyncConfig struct {
	CronSchedule        string
	LookbackDays        int
	RequestDelaySeconds int
	MaxConcurrentJobs   int
	SyncEnabled         bool
}

// RowSyncService gerencia o agendamento e execução da sincronização de linhas de
// performance de todas as contas ativas. A exclusão mútua por conta fica no usecase
// de syncing; aqui só evitamos duas varreduras completas simultâneas.
type RowSyncService struct {
	scheduler           *gocron.Scheduler
	config              RowSyncConfig
	accountRepo         repository.AccountRepository
	syncService         *syncing.Service
	syncRunning         bool
	syncMutex           sync.Mutex
	lastJobID           string
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// NewRowSyncService cria uma nova instância do serviço de sincronização de linhas
func NewRowSyncService(
	accountRepo repository.AccountRepository,
	syncService *syncing.Service,
	appConfig *config.Config,
) *RowSyncService {
	rowSyncConfig := RowSyncConfig{
		CronSchedule:        appConfig.RowSync.CronSchedule,
		LookbackDays:        appConfig.RowSync.LookbackDays,
		RequestDelaySeconds: appConfig.RowSync.RequestDelaySeconds,
		MaxConcurrentJobs:   appConfig.RowSync.MaxConcurrentJobs,
		SyncEnabled:         appConfig.RowSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":         rowSyncConfig.CronSchedule,
		"lookback_days":         rowSyncConfig.LookbackDays,
		"request_delay_seconds": rowSyncConfig.RequestDelaySeconds,
		"max_concurrent_jobs":   rowSyncConfig.MaxConcurrentJobs,
		"sync_enabled":          rowSyncConfig.SyncEnabled,
	}).Info("Configuração do agendador de sincronização de linhas carregada")

	return &RowSyncService{
		scheduler:   scheduler,
		config:      rowSyncConfig,
		accountRepo: accountRepo,
		syncService: syncService,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *RowSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização agendada de linhas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de linhas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllAccounts()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de linhas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de linhas")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllAccounts sincroniza as linhas de performance de todas as contas ativas
func (s *RowSyncService) syncAllAccounts() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de linhas já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando sincronização de linhas para todas as contas ativas")

	activeAccounts, err := s.getActiveAccounts()
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar lista de contas para sincronização de linhas")
		return
	}

	if len(activeAccounts) == 0 {
		logrus.Info("Nenhuma conta ativa encontrada para sincronização de linhas")
		return
	}

	dateRange := s.lookbackRange()
	logrus.WithFields(logrus.Fields{
		"days":       s.config.LookbackDays,
		"start_date": dateRange.Since,
		"end_date":   dateRange.Until,
	}).Info("Período para sincronização de linhas")

	s.processAccounts(activeAccounts, dateRange)

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration": duration.String(),
		"accounts": len(activeAccounts),
		"days":     s.config.LookbackDays,
	}).Info("Sincronização de linhas concluída")

	s.lastSyncCompletedAt = time.Now()
}

// getActiveAccounts busca e filtra contas ativas
func (s *RowSyncService) getActiveAccounts() ([]*domain.AdAccount, error) {
	activeAccounts, err := s.accountRepo.ListAccounts([]domain.AdAccountStatus{domain.AdAccountStatusActive})
	if err != nil {
		return nil, err
	}

	if len(activeAccounts) == 0 {
		logrus.Info("Nenhuma conta encontrada para sincronização de linhas")
		return []*domain.AdAccount{}, nil
	}

	logrus.WithFields(logrus.Fields{
		"active_accounts": len(activeAccounts),
	}).Info("Contas encontradas para sincronização de linhas")

	return activeAccounts, nil
}

// lookbackRange cria a janela retroativa coberta pela sincronização agendada
func (s *RowSyncService) lookbackRange() domain.DateRange {
	now := time.Now()
	return domain.DateRange{
		Since: now.AddDate(0, 0, -s.config.LookbackDays).Format(time.DateOnly),
		Until: now.Format(time.DateOnly),
	}
}

// processAccounts dispara o sync de cada conta respeitando o limite de concorrência
func (s *RowSyncService) processAccounts(accounts []*domain.AdAccount, dateRange domain.DateRange) {
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup

	for _, account := range accounts {
		if account.ExternalID == "" {
			logrus.WithField("account_id", account.ID).Warn("Conta sem external_id. Pulando.")
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{} // Adquirir semáforo

		go func(acc *domain.AdAccount) {
			defer func() {
				<-semaphore // Liberar semáforo
				wg.Done()
			}()

			logrus.WithFields(logrus.Fields{
				"account_id":   acc.ID,
				"external_id":  acc.ExternalID,
				"account_name": acc.Name,
			}).Info("Sincronizando linhas de performance da conta")

			if err := s.syncService.Sync(acc.ID, dateRange); err != nil {
				logrus.WithFields(logrus.Fields{
					"account_id": acc.ID,
					"error":      err.Error(),
				}).Warn("Sincronização da conta não aplicada")
			}

			// Aguardar antes da próxima requisição para evitar sobrecarga na API
			time.Sleep(time.Duration(s.config.RequestDelaySeconds) * time.Second)
		}(account)
	}

	wg.Wait()
}

// TriggerManualSync inicia manualmente uma varredura completa e retorna o ID do job
func (s *RowSyncService) TriggerManualSync() (string, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de linhas já em andamento, ignorando solicitação manual")
		return s.lastJobID, nil
	}

	jobID, err := utils.GenerateID()
	if err != nil {
		s.syncMutex.Unlock()
		return "", err
	}
	s.lastJobID = jobID
	s.syncMutex.Unlock()

	logrus.WithField("job_id", jobID).Info("Iniciando sincronização manual de linhas")
	go s.syncAllAccounts()

	return jobID, nil
}

// GetStatus retorna o status atual do agendador
func (s *RowSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_lookback_days":     s.config.LookbackDays,
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_request_delay_s":   s.config.RequestDelaySeconds,
		"sync_running":           s.syncRunning,
		"last_job_id":            s.lastJobID,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"account_states":         s.syncService.Status(),
	}
}
