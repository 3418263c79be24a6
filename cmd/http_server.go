package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gearkeep/maintenance-management/internal"
	"github.com/gearkeep/maintenance-management/internal/auth"
	authpg "github.com/gearkeep/maintenance-management/internal/auth/postgres"
	"github.com/gearkeep/maintenance-management/internal/category"
	categorypg "github.com/gearkeep/maintenance-management/internal/category/postgres"
	"github.com/gearkeep/maintenance-management/internal/company"
	companypg "github.com/gearkeep/maintenance-management/internal/company/postgres"
	"github.com/gearkeep/maintenance-management/internal/equipment"
	equipmentpg "github.com/gearkeep/maintenance-management/internal/equipment/postgres"
	"github.com/gearkeep/maintenance-management/internal/request"
	requestpg "github.com/gearkeep/maintenance-management/internal/request/postgres"
	"github.com/gearkeep/maintenance-management/internal/transport/rest"
	"github.com/gearkeep/maintenance-management/internal/user"
	userpg "github.com/gearkeep/maintenance-management/internal/user/postgres"
	"github.com/gearkeep/maintenance-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger

	AuthService *auth.Service
	Handlers    rest.Handlers
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rbac := auth.NewRBACAuthorization(deps.Logger)
	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, rbac, rest.RouterConfig{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		AuthRateLimit:  deps.Config.Server.AuthRateLimit,
		AuthRateBurst:  deps.Config.Server.AuthRateBurst,
	})

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over db connection: %w", err)
	}

	// Repositories
	authRepo := authpg.NewRepository(gormDB)
	userRepo := userpg.NewUserRepository(gormDB)
	companyRepo := companypg.NewCompanyRepository(gormDB)
	equipmentRepo := equipmentpg.NewEquipmentRepository(gormDB)
	categoryRepo := categorypg.NewCategoryRepository(gormDB)
	memberDir := categorypg.NewMemberDirectory(gormDB)
	requestRepo := requestpg.NewRequestRepository(gormDB)
	equipmentStore := requestpg.NewEquipmentStore(gormDB)
	requestDir := requestpg.NewDirectory(gormDB)

	// Services
	companyService := company.NewService(companyRepo, lg)
	tokens := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, companyService, tokens, config.Security.BCryptCost, lg)
	userService := user.NewService(userRepo, lg)
	equipmentService := equipment.NewService(equipmentRepo, requestRepo, lg)
	categoryService := category.NewService(categoryRepo, memberDir, lg)
	requestService := request.NewService(requestRepo, equipmentStore, requestDir, lg)

	handlers := rest.Handlers{
		Auth:      auth.NewHandler(authService),
		User:      user.NewHandler(userService),
		Company:   company.NewHandler(companyService),
		Equipment: equipment.NewHandler(equipmentService),
		Category:  category.NewHandler(categoryService),
		Request:   request.NewHandler(requestService),
	}

	return &Dependencies{
		Config:      config,
		Logger:      lg,
		DB:          db,
		Gorm:        gormDB,
		Router:      chi.NewRouter(),
		AuthService: authService,
		Handlers:    handlers,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
