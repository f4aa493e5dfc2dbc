package http

import (
	"time"

	"github.com/MKhiriev/go-link-keeper/internal/logger"
	"github.com/MKhiriev/go-link-keeper/internal/service"
)

const (
	defaultRequestTimeout = 15 * time.Second
	eventsPingInterval    = 30 * time.Second
	eventsWriteTimeout    = 5 * time.Second
)

type Handler struct {
	services *service.Services

	requestTimeout time.Duration
	pingInterval   time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, requestTimeout time.Duration, logger *logger.Logger) *Handler {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		requestTimeout: requestTimeout,
		pingInterval:   eventsPingInterval,
		logger:         logger,
	}
}
