package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"campushire/recruiting-api/internal/config"
	"campushire/recruiting-api/internal/handlers"
	"campushire/recruiting-api/internal/repositories"
	"campushire/recruiting-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	studentRepo := repositories.NewStudentRepository(db)
	recruiterRepo := repositories.NewRecruiterRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	cvRepo := repositories.NewCVRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	resultRepo := repositories.NewEvaluationResultRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize blob storage and PDF parsing
	storage := services.NewLocalBlobStorage(cfg.Storage.UploadPath)
	if err := storage.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}
	pdfParser := services.NewPDFParserService()
	chunker := services.NewTextChunker()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant
	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Domain services. The lock table is shared so decisions, withdrawals,
	// and evaluations on the same application serialize.
	locks := services.NewApplicationLocks()
	scoring := services.NewGeminiScoringService(geminiService, qdrantService, cfg.Evaluator.RetryMaxAttempts)

	cvService := services.NewCVService(cvRepo, storage, cfg.Storage.MaxFileSize)
	jobService := services.NewJobService(
		jobRepo,
		recruiterRepo,
		storage,
		pdfParser,
		chunker,
		geminiService,
		qdrantService,
		cfg.Storage.MaxFileSize,
	)
	appService := services.NewApplicationService(appRepo, jobRepo, cvRepo, locks)
	evaluatorService := services.NewEvaluatorService(
		appRepo,
		jobRepo,
		cvRepo,
		resultRepo,
		scoring,
		storage,
		pdfParser,
		locks,
		cfg.Evaluator,
	)
	dashboardService := services.NewDashboardService(appRepo, jobRepo)
	log.Println("✅ Domain services initialized")

	// Initialize handlers
	studentHandler := handlers.NewStudentHandler(studentRepo, cvService, appService, dashboardService)
	recruiterHandler := handlers.NewRecruiterHandler(recruiterRepo, appService, dashboardService)
	jobHandler := handlers.NewJobHandler(jobService, appService)
	appHandler := handlers.NewApplicationHandler(appService)
	evalHandler := handlers.NewEvaluationHandler(evaluatorService)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CampusHire Recruiting API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-Principal-ID, X-Principal-Role",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Public surface
	api.Post("/students", studentHandler.HandleRegister)
	api.Post("/recruiters", recruiterHandler.HandleRegister)
	api.Get("/jobs", jobHandler.HandleList)
	api.Get("/jobs/:id", jobHandler.HandleGet)

	// Everything below requires a verified principal.
	authed := api.Group("", handlers.RequirePrincipal())

	students := authed.Group("/students", handlers.RequireRole(handlers.RoleStudent))
	students.Get("/:id", studentHandler.HandleGetProfile)
	students.Post("/:id/cvs", studentHandler.HandleUploadCV)
	students.Get("/:id/cvs", studentHandler.HandleListCVs)
	students.Delete("/:id/cvs/:cvID", studentHandler.HandleRemoveCV)
	students.Get("/:id/applications", studentHandler.HandleListApplications)
	students.Get("/:id/dashboard", studentHandler.HandleDashboard)

	recruiters := authed.Group("/recruiters", handlers.RequireRole(handlers.RoleRecruiter))
	recruiters.Get("/:id", recruiterHandler.HandleGetProfile)
	recruiters.Get("/:id/jobs", jobHandler.HandleListByRecruiter)
	recruiters.Get("/:id/applications", recruiterHandler.HandleListApplications)
	recruiters.Get("/:id/dashboard", recruiterHandler.HandleDashboard)

	jobs := authed.Group("/jobs", handlers.RequireRole(handlers.RoleRecruiter))
	jobs.Post("", jobHandler.HandleCreate)
	jobs.Put("/:id/status", jobHandler.HandleSetStatus)
	jobs.Delete("/:id", jobHandler.HandleDelete)
	jobs.Get("/:id/applications", jobHandler.HandleListApplications)

	applications := authed.Group("/applications")
	applications.Post("", handlers.RequireRole(handlers.RoleStudent), appHandler.HandleApply)
	applications.Get("/:id", appHandler.HandleGet)
	applications.Put("/:id/decision", handlers.RequireRole(handlers.RoleRecruiter), appHandler.HandleDecision)
	applications.Delete("/:id", handlers.RequireRole(handlers.RoleStudent), appHandler.HandleWithdraw)
	applications.Post("/:id/evaluate", handlers.RequireRole(handlers.RoleRecruiter), evalHandler.HandleEvaluateOne)

	authed.Post("/evaluations", handlers.RequireRole(handlers.RoleRecruiter), evalHandler.HandleEvaluateAll)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CampusHire Recruiting API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/students",
				"POST /api/v1/students/:id/cvs",
				"POST /api/v1/recruiters",
				"POST /api/v1/jobs",
				"POST /api/v1/applications",
				"PUT  /api/v1/applications/:id/decision",
				"POST /api/v1/applications/:id/evaluate",
				"POST /api/v1/evaluations",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
