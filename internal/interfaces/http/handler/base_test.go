package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/saebakery/backend/internal/domain/shared"
)

func TestBaseHandlerHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &BaseHandler{}

	run := func(err error) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		h.HandleError(c, err)
		return w
	}

	t.Run("insufficient stock keeps quantity detail", func(t *testing.T) {
		err := shared.NewInsufficientStockError(uuid.New(), decimal.NewFromInt(20), decimal.NewFromInt(5))
		w := run(err)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_INSUFFICIENT_STOCK")
		assert.Contains(t, w.Body.String(), "requested 20")
	})

	t.Run("not found sentinel maps to 404", func(t *testing.T) {
		w := run(shared.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid operation maps to 422", func(t *testing.T) {
		w := run(shared.ErrInvalidOperation)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unknown error maps to 500 without leaking detail", func(t *testing.T) {
		w := run(errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := run(nil)
		assert.Empty(t, w.Body.String())
	})
}
