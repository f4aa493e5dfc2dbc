package service

import (
	"fmt"

	"github.com/MKhiriev/go-link-keeper/internal/config"
	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/store"
)

type Services struct {
	AuthService    AuthService
	EntityService  EntityService
	EventBroker    EventBroker
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	authService, err := NewAuthService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("app info service: %w", err)
	}

	broker := NewEventBroker(logger)
	entityService := NewEntityValidationService().Wrap(
		NewEntityService(storages.EntityRepository, broker, logger),
	)

	return &Services{
		AuthService:    authService,
		EntityService:  entityService,
		EventBroker:    broker,
		AppInfoService: appInfoService,
	}, nil
}
