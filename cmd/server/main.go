// @title           Casedesk API
// @version         1.0
// @description     Legal-case management API: clients, cases, hearings, documents, with case/client associations managed through a join table.
// @BasePath        /api
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     Format: Bearer <token>
package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	_ "github.com/cembalci/casedesk/docs"
	"github.com/cembalci/casedesk/internal/auth"
	"github.com/cembalci/casedesk/internal/cases"
	"github.com/cembalci/casedesk/internal/clients"
	"github.com/cembalci/casedesk/internal/documents"
	"github.com/cembalci/casedesk/internal/hearings"
	"github.com/cembalci/casedesk/pkg/database"
	"github.com/cembalci/casedesk/pkg/logging"
	"github.com/cembalci/casedesk/pkg/models"
)

func main() {
	_ = godotenv.Load()

	log := logging.New()
	defer func() { _ = log.Sync() }()

	db := database.Init()
	if err := db.AutoMigrate(
		&models.User{}, &models.Client{}, &models.Case{}, &models.CaseClient{},
		&models.Hearing{}, &models.Document{}, &models.CaseHistory{},
	); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: auth.ErrorHandler,
	})

	app.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })
	app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	api := app.Group("/api")

	// Auth
	authSvc := auth.NewService(db, log)
	authH := auth.NewHandler(db, authSvc)
	api.Post("/signup", authH.Signup)
	api.Post("/login", authH.Login)
	api.Get("/me", auth.RequireAuth(), authH.Me)

	staff := []string{
		string(models.RoleAdmin), string(models.RoleLawyer), string(models.RoleAssistant),
	}

	// Clients
	clientSvc := clients.NewService(db, log)
	clientH := clients.NewHandler(clientSvc)
	api.Post("/clients", auth.RequireAuth(), auth.RequireRole(staff...), clientH.Create)
	api.Get("/clients", auth.RequireAuth(), clientH.List)
	api.Get("/clients/:id", auth.RequireAuth(), clientH.Get)
	api.Patch("/clients/:id", auth.RequireAuth(), auth.RequireRole(staff...), clientH.Update)
	api.Delete("/clients/:id", auth.RequireAuth(), auth.RequireRole(string(models.RoleAdmin)), clientH.Delete)

	// Cases
	caseSvc := cases.NewService(db, log)
	caseH := cases.NewHandler(caseSvc)
	api.Post("/cases", auth.RequireAuth(), auth.RequireRole(staff...), caseH.Create)
	api.Get("/cases", auth.RequireAuth(), caseH.List)
	api.Get("/cases/number/:number", auth.RequireAuth(), caseH.GetByNumber)
	api.Get("/cases/:id", auth.RequireAuth(), caseH.Get)
	api.Patch("/cases/:id", auth.RequireAuth(), auth.RequireRole(staff...), caseH.Update)
	api.Delete("/cases/:id", auth.RequireAuth(), auth.RequireRole(string(models.RoleAdmin)), caseH.Delete)

	// Case/client associations
	api.Get("/cases/:id/clients", auth.RequireAuth(), caseH.ClientsForCase)
	api.Post("/cases/:id/clients/:clientID", auth.RequireAuth(), auth.RequireRole(staff...), caseH.AddClient)
	api.Delete("/cases/:id/clients/:clientID", auth.RequireAuth(), auth.RequireRole(staff...), caseH.RemoveClient)
	api.Get("/clients/:id/cases", auth.RequireAuth(), caseH.CasesForClient)

	// Hearings
	hearingSvc := hearings.NewService(db, log)
	hearingH := hearings.NewHandler(hearingSvc)
	api.Post("/hearings", auth.RequireAuth(), auth.RequireRole(staff...), hearingH.Create)
	api.Get("/hearings", auth.RequireAuth(), hearingH.List)
	api.Get("/hearings/:id", auth.RequireAuth(), hearingH.Get)
	api.Patch("/hearings/:id", auth.RequireAuth(), auth.RequireRole(staff...), hearingH.Update)
	api.Delete("/hearings/:id", auth.RequireAuth(), auth.RequireRole(staff...), hearingH.Delete)

	// Documents
	docSvc := documents.NewService(db, log)
	docH := documents.NewHandler(docSvc)
	api.Post("/documents", auth.RequireAuth(), auth.RequireRole(staff...), docH.Create)
	api.Get("/documents", auth.RequireAuth(), docH.List)
	api.Get("/documents/:id", auth.RequireAuth(), docH.Get)
	api.Patch("/documents/:id", auth.RequireAuth(), auth.RequireRole(staff...), docH.Update)
	api.Delete("/documents/:id", auth.RequireAuth(), auth.RequireRole(staff...), docH.Delete)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	log.Info("server running", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
