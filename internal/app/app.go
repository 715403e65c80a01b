package app

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"expensetracker/internal/config"
	"expensetracker/internal/handlers"
	"expensetracker/internal/pdf"
	"expensetracker/internal/repositories"
	"expensetracker/internal/routes"
	"expensetracker/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "expensetracker/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	if err := os.MkdirAll(cfg.Files.UploadsDir, 0o755); err != nil {
		log.Fatal("Failed to create uploads dir: ", err)
	}

	// === Repos ===
	accountRepo := repositories.NewAccountRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)
	incomeRepo := repositories.NewIncomeRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	sessionService := services.NewSessionService(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		cfg.URLs,
	)

	accountService := services.NewAccountService(accountRepo, emailService, authService, sessionService, cfg.Auth)
	resetService := services.NewPasswordResetService(accountRepo, emailService, authService, cfg.Auth)
	expenseService := services.NewExpenseService(expenseRepo)
	incomeService := services.NewIncomeService(incomeRepo)
	reportService := services.NewReportService(expenseRepo, incomeRepo)

	statementGen := pdf.NewStatementGenerator("Expense Tracker")

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(accountService, resetService, cfg.Files.UploadsDir, cfg.URLs.BackendURL)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	incomeHandler := handlers.NewIncomeHandler(incomeService)
	reportHandler := handlers.NewReportHandler(reportService, accountService, statementGen)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.MaxMultipartMemory = 20 << 20

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		sessionService,
		authHandler,
		expenseHandler,
		incomeHandler,
		reportHandler,
		cfg.Files.UploadsDir,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
