package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnansweredHandler_List(t *testing.T) {
	mockSvc := new(MockUnansweredService)
	handler := NewUnansweredHandler(mockSvc)

	created := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	mockSvc.On("List", mock.Anything).Return([]*domain.UnansweredQuestion{
		{ID: "0190a1b2-0000-7000-8000-000000000001", Question: "vacation policy", CreatedAt: created},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/unanswered", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []UnansweredResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "vacation policy", resp[0].Question)
	assert.Equal(t, "2026-03-02T09:30:00Z", resp[0].CreatedAt)
}

func TestUnansweredHandler_Delete(t *testing.T) {
	t.Run("removed", func(t *testing.T) {
		mockSvc := new(MockUnansweredService)
		handler := NewUnansweredHandler(mockSvc)
		mockSvc.On("Remove", mock.Anything, "u1").Return(nil)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/unanswered/u1", nil), "id", "u1")
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"u1","deleted":true}`, w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc := new(MockUnansweredService)
		handler := NewUnansweredHandler(mockSvc)
		mockSvc.On("Remove", mock.Anything, "nope").Return(domain.ErrUnansweredNotFound)

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/unanswered/nope", nil), "id", "nope")
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
