package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// RevenueSource identifica qual feed é a fonte designada de receita do dashboard
const (
	RevenueSourcePixel      = "pixel"
	RevenueSourceStorefront = "storefront"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	Meta        Meta        `mapstructure:",squash"`
	Pixel       Pixel       `mapstructure:",squash"`
	Storefront  Storefront  `mapstructure:",squash"`
	Attribution Attribution `mapstructure:",squash"`
	RowSync     RowSync     `mapstructure:",squash"`
	Auth        Auth        `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Meta struct {
	BaseURL     string `mapstructure:"meta_base_url"`
	URL         string `mapstructure:"meta_url"`
	Version     string `mapstructure:"meta_version"`
	AccessToken string `mapstructure:"meta_access_token"`
}

type Pixel struct {
	URL         string `mapstructure:"pixel_url"`
	AccessToken string `mapstructure:"pixel_access_token"`
}

type Storefront struct {
	URL         string `mapstructure:"storefront_url"`
	AccessToken string `mapstructure:"storefront_access_token"`
}

type Attribution struct {
	// RevenueSource escolhe entre a reconciliação com o pixel (Priority Merge) e os
	// totais de portfólio da loja como verdade absoluta
	RevenueSource string `mapstructure:"attribution_revenue_source"`
}

type RowSync struct {
	CronSchedule        string `mapstructure:"row_sync_cron"`
	LookbackDays        int    `mapstructure:"row_sync_lookback_days"`
	CooldownSeconds     int    `mapstructure:"row_sync_cooldown_seconds"`
	RequestDelaySeconds int    `mapstructure:"row_sync_request_delay_seconds"`
	MaxConcurrentJobs   int    `mapstructure:"row_sync_max_concurrent_jobs"`
	Enabled             bool   `mapstructure:"row_sync_enabled"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/attribution")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_ACCESS_TOKEN", "your_access_token") // ONLY LOCAL

	viper.SetDefault("PIXEL_URL", "https://pixel.internal/api/v1")
	viper.SetDefault("PIXEL_ACCESS_TOKEN", "your_access_token")

	viper.SetDefault("STOREFRONT_URL", "https://storefront.internal/api/v1")
	viper.SetDefault("STOREFRONT_ACCESS_TOKEN", "your_access_token")

	viper.SetDefault("ATTRIBUTION_REVENUE_SOURCE", RevenueSourcePixel)

	// Defaults para sincronização de linhas de performance
	viper.SetDefault("ROW_SYNC_CRON", "0 3 * * *")        // Todos os dias às 3h da manhã
	viper.SetDefault("ROW_SYNC_LOOKBACK_DAYS", 30)        // 30 dias para buscar dados
	viper.SetDefault("ROW_SYNC_COOLDOWN_SECONDS", 60)     // Intervalo mínimo entre syncs da mesma conta
	viper.SetDefault("ROW_SYNC_REQUEST_DELAY_SECONDS", 2) // 2 segundos entre requisições
	viper.SetDefault("ROW_SYNC_MAX_CONCURRENT_JOBS", 3)   // 3 jobs concorrentes
	viper.SetDefault("ROW_SYNC_ENABLED", false)

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	if config.Attribution.RevenueSource != RevenueSourcePixel &&
		config.Attribution.RevenueSource != RevenueSourceStorefront {
		logrus.Warnf("Fonte de receita inválida: %s, usando '%s'", config.Attribution.RevenueSource, RevenueSourcePixel)
		config.Attribution.RevenueSource = RevenueSourcePixel
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
