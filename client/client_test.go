package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expenses/models"
	"expenses/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(v float64) *float64 { return &v }

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_Login_SetsSession(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body validation.LoginPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jane@example.com", body.Email)

		writeJSON(w, 200, map[string]interface{}{
			"token": "tok-1",
			"user":  map[string]string{"id": "user-1", "name": "Jane", "email": "jane@example.com"},
		})
	})

	session := &Session{}
	c := New(srv.URL+"/api/", session)
	res, err := c.Login(context.Background(), validation.LoginPayload{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.True(t, session.Authenticated())
	assert.Equal(t, "tok-1", session.Token())
	assert.Equal(t, "Jane", session.User().Name)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/expenses", r.URL.Path)
		assert.Equal(t, "Food", r.URL.Query().Get("category"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Empty(t, r.URL.Query().Get("endDate"))

		writeJSON(w, 200, map[string]interface{}{
			"expenses": []map[string]interface{}{
				{"id": "e1", "title": "Lunch", "amount": 12.5, "category": "Food", "date": "2024-01-15T00:00:00Z"},
			},
			"totalPages":  3,
			"currentPage": 2,
			"total":       101,
		})
	})

	c := New(srv.URL+"/api", NewSession("tok-1", nil))
	list, err := c.ListExpenses(context.Background(), ListParams{Category: "Food", StartDate: "2024-01-01", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, list.TotalPages)
	assert.Equal(t, int64(101), list.Total)
	require.Len(t, list.Expenses, 1)
	assert.Equal(t, models.CategoryFood, list.Expenses[0].Category)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), list.Expenses[0].Date)
}

func TestClient_WithHeader(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "203.0.113.7", r.Header.Get("X-Forwarded-For"))
		assert.Equal(t, "203.0.113.7", r.Header.Get("X-Real-IP"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		writeJSON(w, 200, map[string]string{"message": "Expense deleted successfully"})
	})

	c := New(srv.URL+"/api", NewSession("tok-1", nil),
		WithHeader("X-Forwarded-For", "203.0.113.7"),
		WithHeader("x-real-ip", "203.0.113.7"),
	)
	require.NoError(t, c.DeleteExpense(context.Background(), "e1"))
}

func TestClient_Unauthorized_ClearsSession(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token is not valid"})
	})

	session := NewSession("expired", &models.User{Name: "Jane"})
	c := New(srv.URL+"/api", session)

	_, err := c.Stats(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "Token is not valid", err.Error())
	assert.False(t, session.Authenticated())
	assert.Nil(t, session.User())
}

func TestClient_APIError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Title must be at least 3 characters"})
		case http.MethodDelete:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Expense not found"})
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	})

	session := NewSession("tok-1", nil)
	c := New(srv.URL+"/api", session)

	_, err := c.CreateExpense(context.Background(), validation.ExpensePayload{Title: "ab", Amount: amount(1), Category: "Food", Date: "2024-01-15"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Title must be at least 3 characters", apiErr.Message)
	assert.False(t, errors.Is(err, ErrUnauthorized))

	err = c.DeleteExpense(context.Background(), "missing")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Expense not found", apiErr.Message)

	// 响应体不是 JSON 时使用状态文本
	_, err = c.Me(context.Background())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)

	// 非 401 错误不清空会话
	assert.True(t, session.Authenticated())
}

func TestClient_ExpenseCalls(t *testing.T) {
	expense := map[string]interface{}{"id": "e1", "title": "Dinner", "amount": 30, "category": "Food", "date": "2024-02-01T00:00:00Z"}
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/expenses/e1":
			writeJSON(w, 200, expense)
		case r.Method == http.MethodPatch && r.URL.Path == "/api/expenses/e1":
			var body validation.ExpensePayload
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, 30.0, *body.Amount)
			writeJSON(w, 200, expense)
		case r.Method == http.MethodDelete:
			writeJSON(w, 200, map[string]string{"message": "Expense deleted successfully"})
		case r.URL.Path == "/api/expenses/stats":
			writeJSON(w, 200, map[string]interface{}{
				"categoryStats": []map[string]interface{}{{"category": "Food", "total": 30, "count": 1}},
				"totalAmount":   30,
			})
		case r.URL.Path == "/api/health":
			writeJSON(w, 200, map[string]string{"status": "OK", "timestamp": "2024-01-01T00:00:00Z"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	c := New(srv.URL+"/api", NewSession("tok-1", nil), WithTimeout(time.Second))
	ctx := context.Background()

	got, err := c.GetExpense(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Dinner", got.Title)

	updated, err := c.UpdateExpense(ctx, "e1", validation.ExpensePayload{Title: "Dinner", Amount: amount(30), Category: "Food", Date: "2024-02-01"})
	require.NoError(t, err)
	assert.Equal(t, 30.0, updated.Amount)

	require.NoError(t, c.DeleteExpense(ctx, "e1"))

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30.0, stats.TotalAmount)
	require.Len(t, stats.CategoryStats, 1)

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "OK", health.Status)
}

func TestSession(t *testing.T) {
	s := &Session{}
	assert.False(t, s.Authenticated())

	s.Set("tok", &models.User{ID: "user-1"})
	assert.True(t, s.Authenticated())
	assert.Equal(t, "user-1", s.User().ID)

	s.Clear()
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.User())
}

func TestListParams_Values(t *testing.T) {
	assert.Empty(t, ListParams{}.Values())
	v := ListParams{Category: "Bills", EndDate: "2024-01-31", Limit: 20}.Values()
	assert.Equal(t, "category=Bills&endDate=2024-01-31&limit=20", v.Encode())
}
