package router

import (
	"github.com/gatherly/gatherly/internal/application"
	"github.com/gatherly/gatherly/internal/container"
	pginfra "github.com/gatherly/gatherly/internal/infrastructure/postgres"
	handlers "github.com/gatherly/gatherly/internal/interface/http"
	"github.com/gatherly/gatherly/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers it. Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	events := pginfra.NewEventRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)

	authSvc := application.NewAuthService(users, container.GetSessions(), logger)
	authSvc.Mail = container.GetRabbitPub()
	eventSvc := application.NewEventService(events, users, container.GetRabbitPub(), container.GetES(), cfg.ESEventsIndex, logger)
	profileSvc := application.NewProfileService(profiles, users, container.GetGCS(), cfg.GCSBucket)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger, cfg)))
	r.Add(modules.NewEventModule(handlers.NewEventHandler(eventSvc, logger, cfg)))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(profileSvc, logger, cfg)))
}
