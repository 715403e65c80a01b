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

type IncomeHandler struct {
	Service *services.IncomeService
}

func NewIncomeHandler(service *services.IncomeService) *IncomeHandler {
	return &IncomeHandler{Service: service}
}

// @Summary      Add an income
// @Tags         Incomes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  models.Income
// @Failure      400  {object}  map[string]string
// @Router       /api/incomes [post]
func (h *IncomeHandler) Create(c *gin.Context) {
	var income models.Income
	if err := c.ShouldBindJSON(&income); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	income.AccountID = getUserID(c)

	if err := h.Service.Create(&income); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, income)
}

// @Summary      List incomes
// @Tags         Incomes
// @Produce      json
// @Security     BearerAuth
// @Param        month  query  string  false  "Filter by month (YYYY-MM)"
// @Success      200  {array}  models.Income
// @Router       /api/incomes [get]
func (h *IncomeHandler) List(c *gin.Context) {
	month := c.Query("month")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "100"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 100
	}

	incomes, err := h.Service.List(getUserID(c), month, size, (page-1)*size)
	if err != nil {
		serviceError(c, err)
		return
	}
	if incomes == nil {
		incomes = []*models.Income{}
	}
	c.JSON(http.StatusOK, incomes)
}

// @Summary      Update an income
// @Tags         Incomes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Income ID"
// @Success      200  {object}  models.Income
// @Failure      400  {object}  map[string]string
// @Router       /api/incomes/{id} [put]
func (h *IncomeHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var income models.Income
	if err := c.ShouldBindJSON(&income); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	income.ID = id
	income.AccountID = getUserID(c)

	if err := h.Service.Update(&income); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, income)
}

// @Summary      Delete an income
// @Tags         Incomes
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Income ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/incomes/{id} [delete]
func (h *IncomeHandler) Delete(c *gin.Context) {
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
		c.JSON(http.StatusNotFound, gin.H{"error": "Income not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Income deleted"})
}

// @Summary      Download incomes as CSV
// @Tags         Incomes
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200  {string}  string
// @Router       /api/incomes/download/csv [get]
func (h *IncomeHandler) DownloadCSV(c *gin.Context) {
	incomes, err := h.Service.List(getUserID(c), "", 10000, 0)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="incomes.csv"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"Date", "Source", "Category", "Amount", "Note"})
	for _, i := range incomes {
		_ = w.Write([]string{
			i.Date.Format("2006-01-02"),
			i.Source,
			i.Category,
			fmt.Sprintf("%.2f", i.Amount),
			i.Note,
		})
	}
	w.Flush()
}
