package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/middleware"
	"expensetracker/internal/models"
	"expensetracker/internal/services"
)

type fakeExpenseRepo struct {
	nextID int
	items  []*models.Expense
}

func (r *fakeExpenseRepo) Create(e *models.Expense) error {
	r.nextID++
	e.ID = r.nextID
	e.CreatedAt = time.Now()
	cp := *e
	r.items = append(r.items, &cp)
	return nil
}

func (r *fakeExpenseRepo) GetByID(id int) (*models.Expense, error) {
	for _, e := range r.items {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeExpenseRepo) Update(e *models.Expense) error {
	for i, cur := range r.items {
		if cur.ID == e.ID && cur.AccountID == e.AccountID {
			cp := *e
			r.items[i] = &cp
		}
	}
	return nil
}

func (r *fakeExpenseRepo) Delete(id, accountID int) (bool, error) {
	for i, e := range r.items {
		if e.ID == id && e.AccountID == accountID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeExpenseRepo) ListByAccount(accountID int, month string, limit, offset int) ([]*models.Expense, error) {
	var res []*models.Expense
	for _, e := range r.items {
		if e.AccountID != accountID {
			continue
		}
		if month != "" && e.Date.Format("2006-01") != month {
			continue
		}
		cp := *e
		res = append(res, &cp)
	}
	return res, nil
}

func (r *fakeExpenseRepo) TotalByAccount(accountID int) (float64, error) { return 0, nil }

func (r *fakeExpenseRepo) TotalsByCategory(accountID int) ([]*models.CategoryTotal, error) {
	return nil, nil
}

func (r *fakeExpenseRepo) DailyTotals(accountID int, from, to time.Time) ([]*models.TimelinePoint, error) {
	return nil, nil
}

func newExpenseRouter(repo *fakeExpenseRepo, sessions services.SessionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewExpenseHandler(services.NewExpenseService(repo))

	r := gin.New()
	g := r.Group("/api/expenses")
	g.Use(middleware.AuthMiddleware(sessions))
	{
		g.POST("", h.Create)
		g.GET("", h.List)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.GET("/download/csv", h.DownloadCSV)
	}
	return r
}

func authedRequest(t *testing.T, sessions services.SessionService, accountID int, method, path, body string) *http.Request {
	t.Helper()
	token, err := sessions.Issue(accountID)
	require.NoError(t, err)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestExpenseHandlerCreate(t *testing.T) {
	sessions := testSessions()
	repo := &fakeExpenseRepo{}
	r := newExpenseRouter(repo, sessions)

	t.Run("owner comes from the token, not the body", func(t *testing.T) {
		req := authedRequest(t, sessions, 7, http.MethodPost, "/api/expenses",
			`{"title":"Coffee","amount":3.5,"account_id":999}`)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		require.Len(t, repo.items, 1)
		assert.Equal(t, 7, repo.items[0].AccountID)
	})

	t.Run("validation failure maps to 400", func(t *testing.T) {
		req := authedRequest(t, sessions, 7, http.MethodPost, "/api/expenses",
			`{"title":"","amount":-1}`)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejected without a token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/expenses",
			strings.NewReader(`{"title":"Coffee","amount":3.5}`))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestExpenseHandlerList(t *testing.T) {
	sessions := testSessions()
	repo := &fakeExpenseRepo{}
	r := newExpenseRouter(repo, sessions)

	t.Run("empty account gets an empty array, not null", func(t *testing.T) {
		req := authedRequest(t, sessions, 7, http.MethodGet, "/api/expenses", "")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})

	t.Run("sees only its own rows", func(t *testing.T) {
		require.NoError(t, repo.Create(&models.Expense{AccountID: 7, Title: "Mine", Amount: 5, Date: time.Now()}))
		require.NoError(t, repo.Create(&models.Expense{AccountID: 8, Title: "Not mine", Amount: 5, Date: time.Now()}))

		req := authedRequest(t, sessions, 7, http.MethodGet, "/api/expenses", "")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got []models.Expense
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "Mine", got[0].Title)
	})
}

func TestExpenseHandlerDelete(t *testing.T) {
	sessions := testSessions()
	repo := &fakeExpenseRepo{}
	r := newExpenseRouter(repo, sessions)
	require.NoError(t, repo.Create(&models.Expense{AccountID: 7, Title: "Mine", Amount: 5, Date: time.Now()}))

	t.Run("another account's row looks like 404", func(t *testing.T) {
		req := authedRequest(t, sessions, 8, http.MethodDelete, "/api/expenses/1", "")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("owner can delete", func(t *testing.T) {
		req := authedRequest(t, sessions, 7, http.MethodDelete, "/api/expenses/1", "")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, repo.items)
	})
}

func TestExpenseHandlerDownloadCSV(t *testing.T) {
	sessions := testSessions()
	repo := &fakeExpenseRepo{}
	r := newExpenseRouter(repo, sessions)
	require.NoError(t, repo.Create(&models.Expense{
		AccountID: 7, Title: "Groceries", Amount: 80.5, Category: "Food",
		Date: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), Note: "weekly",
	}))

	req := authedRequest(t, sessions, 7, http.MethodGet, "/api/expenses/download/csv", "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "expenses.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Title,Category,Amount,Note", lines[0])
	assert.Equal(t, "2026-08-03,Groceries,Food,80.50,weekly", lines[1])
}
