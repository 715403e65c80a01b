package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/handlers"
	"expensetracker/internal/middleware"
	"expensetracker/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	sessions services.SessionService,
	authHandler *handlers.AuthHandler,
	expenseHandler *handlers.ExpenseHandler,
	incomeHandler *handlers.IncomeHandler,
	reportHandler *handlers.ReportHandler,
	uploadsDir string,
) *gin.Engine {

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// uploaded avatars
	r.Static("/uploads", uploadsDir)

	api := r.Group("/api")

	// ---- public auth
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.GET("/verify/:token", authHandler.VerifyEmail)
		auth.POST("/resend-verify", authHandler.ResendVerification)
		auth.POST("/login", authHandler.Login)
		auth.POST("/google", authHandler.GoogleLogin)
		auth.POST("/forgot", authHandler.ForgotPassword)
		auth.POST("/reset", authHandler.ResetPassword)
	}

	// ---- protected
	authed := api.Group("", middleware.AuthMiddleware(sessions))

	me := authed.Group("/auth")
	{
		me.GET("/me", authHandler.Me)
		me.PUT("/profile", authHandler.UpdateProfile)
	}

	expenses := authed.Group("/expenses")
	{
		expenses.POST("", expenseHandler.Create)
		expenses.GET("", expenseHandler.List)
		expenses.PUT("/:id", expenseHandler.Update)
		expenses.DELETE("/:id", expenseHandler.Delete)
		expenses.GET("/download/csv", expenseHandler.DownloadCSV)
	}

	incomes := authed.Group("/incomes")
	{
		incomes.POST("", incomeHandler.Create)
		incomes.GET("", incomeHandler.List)
		incomes.PUT("/:id", incomeHandler.Update)
		incomes.DELETE("/:id", incomeHandler.Delete)
		incomes.GET("/download/csv", incomeHandler.DownloadCSV)
	}

	reports := authed.Group("/reports")
	{
		reports.GET("/summary", reportHandler.GetSummary)
		reports.GET("/timeline", reportHandler.GetTimeline)
		reports.GET("/expenses-by-category", reportHandler.ExpensesByCategory)
		reports.GET("/incomes-by-category", reportHandler.IncomesByCategory)
		reports.GET("/statement/pdf", reportHandler.StatementPDF)
	}

	return r
}
