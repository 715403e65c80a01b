package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"expensetracker/internal/models"
	"expensetracker/internal/services"
)

type ExpenseHandler struct {
	Service *services.ExpenseService
}

func NewExpenseHandler(service *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{Service: service}
}

// @Summary      Add an expense
// @Tags         Expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  models.Expense
// @Failure      400  {object}  map[string]string
// @Router       /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var expense models.Expense
	if err := c.ShouldBindJSON(&expense); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// owner always comes from the token, never the body
	expense.AccountID = getUserID(c)

	if err := h.Service.Create(&expense); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// @Summary      List expenses
// @Tags         Expenses
// @Produce      json
// @Security     BearerAuth
// @Param        month  query  string  false  "Filter by month (YYYY-MM)"
// @Success      200  {array}  models.Expense
// @Router       /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	month := c.Query("month")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "100"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 100
	}

	expenses, err := h.Service.List(getUserID(c), month, size, (page-1)*size)
	if err != nil {
		serviceError(c, err)
		return
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	c.JSON(http.StatusOK, expenses)
}

// @Summary      Update an expense
// @Tags         Expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Expense ID"
// @Success      200  {object}  models.Expense
// @Failure      400  {object}  map[string]string
// @Router       /api/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var expense models.Expense
	if err := c.ShouldBindJSON(&expense); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	expense.ID = id
	expense.AccountID = getUserID(c)

	if err := h.Service.Update(&expense); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// @Summary      Delete an expense
// @Tags         Expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Expense ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ok, err := h.Service.Delete(id, getUserID(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// @Summary      Download expenses as CSV
// @Tags         Expenses
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200  {string}  string
// @Router       /api/expenses/download/csv [get]
func (h *ExpenseHandler) DownloadCSV(c *gin.Context) {
	expenses, err := h.Service.List(getUserID(c), "", 10000, 0)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="expenses.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"Date", "Title", "Category", "Amount", "Note"})
	for _, e := range expenses {
		_ = w.Write([]string{
			e.Date.Format("2006-01-02"),
			e.Title,
			e.Category,
			fmt.Sprintf("%.2f", e.Amount),
			e.Note,
		})
	}
	w.Flush()
}
