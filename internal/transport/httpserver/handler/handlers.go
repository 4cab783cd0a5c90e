package handler

import (
	"family-hub-go/internal/domain/auth"
	"family-hub-go/internal/domain/dashboard"
	"family-hub-go/internal/domain/family"
	"family-hub-go/internal/domain/healthcare"
	"family-hub-go/internal/domain/maintenance"
	"family-hub-go/internal/domain/telegram"
	"family-hub-go/internal/domain/user"
	"family-hub-go/pkg/logger"
)

// Handlers bundles the HTTP handlers around the domain services.
type Handlers struct {
	auth        *auth.Service
	users       *user.Service
	families    *family.Service
	healthcare  *healthcare.Service
	maintenance *maintenance.Service
	dashboard   *dashboard.Service
	telegram    *telegram.Service
	log         logger.Logger
}

func New(
	authSvc *auth.Service,
	users *user.Service,
	families *family.Service,
	healthcareSvc *healthcare.Service,
	maintenanceSvc *maintenance.Service,
	dashboardSvc *dashboard.Service,
	telegramSvc *telegram.Service,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		auth:        authSvc,
		users:       users,
		families:    families,
		healthcare:  healthcareSvc,
		maintenance: maintenanceSvc,
		dashboard:   dashboardSvc,
		telegram:    telegramSvc,
		log:         log,
	}
}
