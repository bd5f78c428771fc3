package main

import (
	"context"
	"log"
	"os"

	"logistics/cmd"
	"logistics/internal/core/logger"
	"logistics/internal/database"
	"logistics/internal/exports"
	"logistics/internal/integrations/googlesheets"
	"logistics/internal/integrations/pdfservice"
	"logistics/internal/middleware"
	"logistics/internal/repository"
	"logistics/pkg/auditlog"
	"logistics/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	// Execute migration CMD
	cmd.Execute(ctx)
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	if err := database.RunMigrations("migrations", appLogger); err != nil {
		log.Fatalf("Error running migrations: %v", err)
	}

	repo := repository.NewRepository(db)
	auditLog := auditlog.NewAuditLog(repo)

	pdfServiceURL := os.Getenv("PDF_SERVICE_URL")
	if pdfServiceURL == "" {
		log.Fatal("PDF_SERVICE_URL environment variable is not set")
	}
	converter := pdfservice.NewClient(pdfServiceURL, 60)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware(appLogger))

	exportService := exports.RegisterRoutes(router, repo, converter, auditLog, appLogger)

	// The spreadsheet summary is optional: it only comes up when the Google
	// credentials are configured for the deployment.
	if sheetsHandler, err := googlesheets.NewGoogleSheetsHandler(exportService); err != nil {
		log.Printf("Warning: Google Sheets integration disabled: %v\n", err)
	} else {
		sheetsRoutes := router.Group("")
		sheetsRoutes.Use(security.JWTMiddleware())
		sheetsHandler.RegisterRoutes(sheetsRoutes)
	}

	router.GET("/health", middleware.HealthCheckMiddleware())

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
