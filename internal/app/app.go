package app

import (
	"zimmet-backend/internal/assignments"
	"zimmet-backend/internal/auth"
	"zimmet-backend/internal/bulk"
	"zimmet-backend/internal/catalog"
	"zimmet-backend/internal/config"
	"zimmet-backend/internal/database"
	"zimmet-backend/internal/middleware"
	"zimmet-backend/internal/pkg/constants"
	"zimmet-backend/internal/transitions"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. Returns the DB and Redis handles so main can ping them on
// startup.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	// Session (Redis)
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)

	// Tracing + route logger
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	// Health probe
	app.Get("/health/json", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	// Auth (no auth middleware): POST login, GET me, DELETE logout
	var userFinder auth.UserFinder
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
	}
	authHandlers := &auth.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// --- Protected modules (auth required) ---
	if db != nil && rdb != nil {
		engine := &transitions.Service{DB: db}
		catalogService := &catalog.Service{DB: db}

		// Catalog: asset CRUD + reference data
		catalogHandlers := &catalog.Handlers{Service: catalogService}
		assetGroup := app.Group("/api/v1/assets", middleware.RequireAuth())
		assetGroup.Post("/", catalogHandlers.CreateAsset)
		assetGroup.Get("/", catalogHandlers.ListAssets)
		assetGroup.Get("/:id", catalogHandlers.GetAsset)
		assetGroup.Patch("/:id", catalogHandlers.UpdateAsset)
		assetGroup.Delete("/:id", middleware.RequireRole(constants.Admin), catalogHandlers.DeleteAsset)

		catGroup := app.Group("/api/v1/categories", middleware.RequireAuth())
		catGroup.Get("/", catalogHandlers.ListCategories)
		catGroup.Post("/", middleware.RequireRole(constants.Admin), catalogHandlers.CreateCategory)

		depGroup := app.Group("/api/v1/departments", middleware.RequireAuth())
		depGroup.Get("/", catalogHandlers.ListDepartments)
		depGroup.Post("/", middleware.RequireRole(constants.Admin), catalogHandlers.CreateDepartment)

		userGroup := app.Group("/api/v1/users", middleware.RequireAuth())
		userGroup.Get("/", catalogHandlers.ListUsers)
		userGroup.Post("/", middleware.RequireRole(constants.Admin), catalogHandlers.CreateUser)

		// Transitions: status changes + audit history
		transitionHandlers := &transitions.Handlers{Service: engine}
		assetGroup.Post("/:id/transition", transitionHandlers.Transition)
		assetGroup.Get("/:id/history", transitionHandlers.History)
		assetGroup.Get("/:id/allowed-transitions", transitionHandlers.AllowedTargets)

		// Assignments: holder bookkeeping
		assignmentService := &assignments.Service{DB: db, Engine: engine}
		assignmentHandlers := &assignments.Handlers{Service: assignmentService}
		assignGroup := app.Group("/api/v1/assignments", middleware.RequireAuth())
		assignGroup.Post("/assign", assignmentHandlers.Assign)
		assignGroup.Post("/unassign", assignmentHandlers.Unassign)
		assignGroup.Get("/current/:asset_id", assignmentHandlers.CurrentHolder)
		assignGroup.Get("/asset/:asset_id", assignmentHandlers.AssetHistory)
		assignGroup.Get("/user/:user_id", assignmentHandlers.UserAssignments)

		// Bulk operations
		bulkService := &bulk.Service{
			Engine:         engine,
			Catalog:        catalogService,
			MaxConcurrency: cfg.BulkMaxConcurrency,
			ItemTimeout:    cfg.BulkItemTimeout,
		}
		bulkHandlers := &bulk.Handlers{Service: bulkService}
		assetGroup.Post("/bulk", bulkHandlers.Apply)
	}

	return app, db, rdb, nil
}
