package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-attribution-api/infrastructure/database/postgres"
	"github.com/vfg2006/ad-attribution-api/infrastructure/integrator/meta"
	"github.com/vfg2006/ad-attribution-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ad-attribution-api/infrastructure/integrator/pixel"
	"github.com/vfg2006/ad-attribution-api/infrastructure/integrator/storefront"
	"github.com/vfg2006/ad-attribution-api/infrastructure/repository"
	"github.com/vfg2006/ad-attribution-api/internal/api"
	"github.com/vfg2006/ad-attribution-api/internal/config"
	"github.com/vfg2006/ad-attribution-api/internal/resultcache"
	"github.com/vfg2006/ad-attribution-api/internal/rowstore"
	"github.com/vfg2006/ad-attribution-api/internal/scheduler"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/account"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/authenticating"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/insighting"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/reconciling"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/selecting"
	"github.com/vfg2006/ad-attribution-api/internal/usecases/syncing"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	accountRepo := repository.NewAccountRepository(pgConn)
	manualEventRepo := repository.NewManualEventRepository(pgConn)

	authenticator := authenticating.NewService(cfg)

	metaClient := metaclient.NewClient(cfg)
	metaIntegrator := meta.New(cfg, metaClient)
	rowSource := meta.NewAccountRowSource(metaIntegrator, accountRepo)

	pixelIntegrator := pixel.New(cfg)
	storefrontIntegrator := storefront.New(cfg)

	accountService := account.NewService(accountRepo)

	// Estado em memória do engine: linhas de performance e resultados por contenção
	rowStore := rowstore.New()
	resultCache := resultcache.New()

	selectionService := selecting.NewService()
	reconciler := reconciling.NewService()

	syncService := syncing.NewService(
		rowSource,
		rowStore,
		resultCache,
		time.Duration(cfg.RowSync.CooldownSeconds)*time.Second,
	)

	insightService := insighting.NewService(
		cfg,
		rowStore,
		resultCache,
		selectionService,
		reconciler,
		accountService,
		pixelIntegrator,
		storefrontIntegrator,
		manualEventRepo,
	)

	rowSyncService := scheduler.NewRowSyncService(accountRepo, syncService, cfg)

	if err := rowSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de linhas")
	} else {
		logrus.Info("Agendador de sincronização de linhas iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		insightService,
		accountService,
		selectionService,
		syncService,
		manualEventRepo,
		authenticator,
		rowSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
