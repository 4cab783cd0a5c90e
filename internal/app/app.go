package app

import (
	"net/http"

	"gorm.io/gorm"

	"family-hub-go/internal/config"
	"family-hub-go/internal/db"
	"family-hub-go/internal/domain/auth"
	"family-hub-go/internal/domain/dashboard"
	"family-hub-go/internal/domain/family"
	"family-hub-go/internal/domain/healthcare"
	"family-hub-go/internal/domain/maintenance"
	"family-hub-go/internal/domain/telegram"
	"family-hub-go/internal/domain/user"
	"family-hub-go/internal/metrics"
	dashboardrepo "family-hub-go/internal/repository/postgres/dashboard"
	familyrepo "family-hub-go/internal/repository/postgres/family"
	healthcarerepo "family-hub-go/internal/repository/postgres/healthcare"
	maintenancerepo "family-hub-go/internal/repository/postgres/maintenance"
	telegramrepo "family-hub-go/internal/repository/postgres/telegram"
	userrepo "family-hub-go/internal/repository/postgres/user"
	"family-hub-go/internal/transport/httpserver"
	"family-hub-go/internal/transport/httpserver/handler"
	authmw "family-hub-go/internal/transport/httpserver/middleware"
	"family-hub-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	familySvc := family.NewService(familyrepo.NewPostgres(dbConn))
	userSvc := user.NewService(userrepo.NewPostgres(dbConn))
	tokens := auth.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.TokenExpiry)
	authSvc := auth.NewService(userSvc, familySvc, tokens)
	healthcareSvc := healthcare.NewService(healthcarerepo.NewPostgres(dbConn))
	maintenanceSvc := maintenance.NewService(maintenancerepo.NewPostgres(dbConn))
	dashboardSvc := dashboard.NewService(dashboardrepo.NewPostgres(dbConn))

	assistant := telegram.NewAssistant(healthcareSvc, maintenanceSvc, dashboardSvc)
	telegramSvc := telegram.NewService(
		telegramrepo.NewPostgres(dbConn),
		userSvc,
		telegram.NewBotClient(),
		assistant,
		log,
		cfg.PublicURL,
		cfg.TelegramLinkCode.TTL,
	)

	handlers := handler.New(authSvc, userSvc, familySvc, healthcareSvc, maintenanceSvc, dashboardSvc, telegramSvc, log)
	authMiddleware := authmw.NewAuth(authSvc, log)
	tenancyMiddleware := authmw.NewTenancy(familySvc, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, authMiddleware, tenancyMiddleware, metrics.New())

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
