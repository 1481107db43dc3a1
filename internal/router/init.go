package router

import (
	"warbler/internal/application"
	"warbler/internal/container"
	"warbler/internal/infrastructure/gcs"
	"warbler/internal/infrastructure/mongodb"
	handlers "warbler/internal/interface/http"
	"warbler/internal/router/modules"
	"warbler/pkg/helpers"
)

// InitModules builds the repositories, services, and handlers from the
// container singletons and registers every feature module.
// Called once during application startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	userRepo := mongodb.NewUserRepository(container.GetMongo(), container.GetMongoDB())
	postRepo := mongodb.NewPostRepository(container.GetMongoDB())
	blobs := gcs.NewResolver(container.GetGCS(), cfg.GCSBucket)

	userSvc := application.NewUserService(userRepo, blobs, logger)
	postSvc := application.NewPostService(postRepo, userRepo, blobs, logger)
	timelineSvc := application.NewTimelineService(userRepo, postRepo, blobs, logger, cfg.TimelineWindow, cfg.TimelineFetchLimit)

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	authHandler := handlers.NewAuthHandler(container.GetVerifier(), cookies, logger)
	pageHandler := handlers.NewPageHandler(userSvc, postSvc, timelineSvc, logger)
	postHandler := handlers.NewPostHandler(userSvc, postSvc, logger)
	userHandler := handlers.NewUserHandler(userSvc, logger)

	r.Add(modules.NewAuthModule(authHandler, container.GetRedis()))
	r.Add(modules.NewPageModule(pageHandler))
	r.Add(modules.NewPostModule(postHandler, container.GetRedis()))
	r.Add(modules.NewUserModule(userHandler, container.GetRedis()))
}
