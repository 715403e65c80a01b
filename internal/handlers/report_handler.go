package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/pdf"
	"expensetracker/internal/services"
)

type ReportHandler struct {
	Service   *services.ReportService
	Accounts  services.AccountService
	Statement pdf.Generator
}

func NewReportHandler(service *services.ReportService, accounts services.AccountService, statement pdf.Generator) *ReportHandler {
	return &ReportHandler{Service: service, Accounts: accounts, Statement: statement}
}

// @Summary      Dashboard summary
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Summary
// @Router       /api/reports/summary [get]
func (h *ReportHandler) GetSummary(c *gin.Context) {
	data, err := h.Service.GetSummary(getUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// @Summary      Expense timeline for the current month
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.TimelinePoint
// @Router       /api/reports/timeline [get]
func (h *ReportHandler) GetTimeline(c *gin.Context) {
	data, err := h.Service.GetTimeline(getUserID(c), time.Now())
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// @Summary      Expense totals by category
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.CategoryTotal
// @Router       /api/reports/expenses-by-category [get]
func (h *ReportHandler) ExpensesByCategory(c *gin.Context) {
	data, err := h.Service.ExpensesByCategory(getUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// @Summary      Income totals by category
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.CategoryTotal
// @Router       /api/reports/incomes-by-category [get]
func (h *ReportHandler) IncomesByCategory(c *gin.Context) {
	data, err := h.Service.IncomesByCategory(getUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// @Summary      Monthly statement as PDF
// @Tags         Reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        month  query  string  false  "Month (YYYY-MM), defaults to current"
// @Success      200  {string}  string
// @Router       /api/reports/statement/pdf [get]
func (h *ReportHandler) StatementPDF(c *gin.Context) {
	accountID := getUserID(c)

	month := time.Now()
	if m := c.Query("month"); m != "" {
		parsed, err := time.Parse("2006-01", m)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month, expected YYYY-MM"})
			return
		}
		month = parsed
	}
	monthKey := month.Format("2006-01")

	account, err := h.Accounts.GetProfile(accountID)
	if err != nil || account == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	data, err := h.Service.BuildStatement(accountID, account.Name, account.Currency, month)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="statement_%s.pdf"`, monthKey))
	if err := h.Statement.GenerateStatement(c.Writer, *data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate statement"})
		return
	}
}
