package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	globalConfig "github.com/AzielCF/az-study/config"
	coreconfig "github.com/AzielCF/az-study/core/config"
	coreDB "github.com/AzielCF/az-study/core/database"
	domainHealth "github.com/AzielCF/az-study/domains/health"
	domainSession "github.com/AzielCF/az-study/domains/session"
	domainStudy "github.com/AzielCF/az-study/domains/study"
	"github.com/AzielCF/az-study/infrastructure/valkey"
	"github.com/AzielCF/az-study/pkg/ingestworker"
	"github.com/AzielCF/az-study/pkg/utils"
	"github.com/AzielCF/az-study/studyengine/application"
	engineDomain "github.com/AzielCF/az-study/studyengine/domain"
	"github.com/AzielCF/az-study/studyengine/providers"
	"github.com/AzielCF/az-study/studyengine/ratelimit"
	"github.com/AzielCF/az-study/studyengine/repository"
	"github.com/AzielCF/az-study/usecase"
)

var (
	// Usecase
	studyUsecase   domainStudy.IStudyUsecase
	sessionUsecase domainSession.ISessionUsecase
	healthUsecase  domainHealth.IHealthUsecase

	// Infrastructure
	contextStore engineDomain.ContextStore
	memoryStore  *repository.MemoryContextStore
	valkeyClient *valkey.Client
	ingestPool   *ingestworker.IngestWorkerPool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Short: "AI study assistant API",
	Long: `Study assistant backend: upload documents, chat over their content
and generate flashcards, quizzes and study notes through a completion provider.`,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig, initApp)
}

func initFlags() {
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.AppPort,
		"port", "p",
		globalConfig.AppPort,
		"change port number with --port <number> | example: --port=8080",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&globalConfig.AppDebug,
		"debug", "d",
		globalConfig.AppDebug,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringVarP(
		&globalConfig.AppBasePath,
		"base-path", "",
		globalConfig.AppBasePath,
		`base path for subpath deployment --base-path <string> | example: --base-path="/study"`,
	)
	rootCmd.PersistentFlags().StringSliceVarP(
		&globalConfig.AppTrustedProxies,
		"trusted-proxies", "",
		globalConfig.AppTrustedProxies,
		`trusted proxy IP ranges for reverse proxy deployments | example: --trusted-proxies="10.0.0.0/8,172.16.0.0/12"`,
	)

	viper.SetEnvPrefix("")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("app_port", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("app_debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// initEnvConfig syncs environment/flags into the legacy flat settings and
// loads the structured configuration.
func initEnvConfig() {
	if envPort := viper.GetString("app_port"); envPort != "" {
		globalConfig.AppPort = envPort
	}
	if viper.GetBool("app_debug") {
		globalConfig.AppDebug = true
	}

	// Flags override environment for port/debug.
	if globalConfig.AppPort != "" {
		os.Setenv("APP_PORT", globalConfig.AppPort)
	}
	if globalConfig.AppDebug {
		os.Setenv("APP_DEBUG", "true")
	}

	if _, err := coreconfig.LoadConfig(); err != nil {
		logrus.Fatalf("[APP] failed to load configuration: %v", err)
	}

	globalConfig.PathStorages = coreconfig.Global.Paths.Storages
	globalConfig.PathUploads = coreconfig.Global.Paths.Uploads
	coreconfig.Global.App.ServerID = utils.GetPersistentServerID(
		coreconfig.Global.App.ServerID, coreconfig.Global.Paths.Storages)
}

func initApp() {
	cfg := coreconfig.Global

	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := utils.EnsureStorageDirectories(); err != nil {
		logrus.Errorln(err)
	}

	// 1. Persistence
	db, err := coreDB.NewDatabase(cfg)
	if err != nil {
		logrus.Fatalf("[APP] failed to open database: %v", err)
	}

	var studyRepo repository.StudyContentRepository
	if gormRepo, err := repository.NewStudyGormRepository(db); err != nil {
		logrus.Warnf("[APP] study content persistence disabled: %v", err)
	} else {
		studyRepo = gormRepo
	}

	// 2. Session context store (Valkey when enabled, in-memory otherwise)
	strategy := engineDomain.TruncateFirstChunk
	if cfg.AI.TruncateStrategy == "rotate" {
		strategy = engineDomain.TruncateRotate
	}

	if cfg.Database.ValkeyEnabled {
		client, err := valkey.NewClient(valkey.Config{
			Address:   cfg.Database.ValkeyAddress,
			Password:  cfg.Database.ValkeyPassword,
			DB:        cfg.Database.ValkeyDB,
			KeyPrefix: cfg.Database.ValkeyKeyPrefix,
		})
		if err != nil {
			logrus.Warnf("[APP] valkey unavailable, falling back to in-memory context store: %v", err)
		} else {
			valkeyClient = client
			contextStore = repository.NewValkeyContextStore(client, cfg.AI.SessionTTL, strategy)
			logrus.Info("[APP] session context store: valkey")
		}
	}
	if contextStore == nil {
		memoryStore = repository.NewMemoryContextStore(
			repository.WithTTL(cfg.AI.SessionTTL),
			repository.WithTruncateStrategy(strategy),
		)
		contextStore = memoryStore
		logrus.Info("[APP] session context store: in-memory")
	}

	// 3. Completion provider
	var provider engineDomain.CompletionProvider
	switch cfg.AI.Provider {
	case "gemini":
		provider = providers.NewGeminiProvider(cfg.APIKeys.Gemini)
	default:
		provider = providers.NewOpenAIProvider(cfg.APIKeys.OpenAI)
	}

	limiter := ratelimit.New(cfg.AI.MinRequestDelay)
	engineService := application.NewStudyService(provider, contextStore, limiter, cfg.AI.Model)

	// 4. Background ingestion
	ingestPool = ingestworker.GetGlobalPool()

	// 5. Usecases
	studyUsecase = usecase.NewStudyService(engineService, studyRepo)
	sessionUsecase = usecase.NewSessionService(contextStore, engineService, ingestPool)
	healthUsecase = usecase.NewHealthService(valkeyClient, ingestPool)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// StopApp performs a clean shutdown of background workers and connections.
func StopApp() {
	logrus.Info("[APP] Stopping application...")

	ingestworker.StopGlobalPool()

	if memoryStore != nil {
		memoryStore.Close()
	}
	if valkeyClient != nil {
		valkeyClient.Close()
	}

	if sqlDB, err := coreDB.GetLegacyDB(); err == nil {
		_ = sqlDB.Close()
	}

	logrus.Info("[APP] Shutdown complete")
}
