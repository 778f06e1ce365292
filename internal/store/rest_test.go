package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/objective-board/internal/model"
)

func newRESTStore(t *testing.T, h http.HandlerFunc) (*RESTStore, *atomic.Int32) {
	t.Helper()

	calls := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		assert.Equal(t, "/rest/v1/tasks", r.URL.Path)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewRESTStore(srv.URL+"/rest/v1/", "secret", 5*time.Second), calls
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func TestRESTStore_Create(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	s, calls := newRESTStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var rows []map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&rows))
		if !assert.Len(t, rows, 1) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "Buy milk", rows[0]["title"])
		assert.Equal(t, false, rows[0]["completed"])
		assert.Equal(t, "daily", rows[0]["period"])

		writeJSON(w, http.StatusCreated, []model.Task{{
			ID: 7, Title: "Buy milk", Period: model.PeriodDaily, CreatedAt: createdAt,
		}})
	})

	task, err := s.Create(context.Background(), "Buy milk ", model.PeriodDaily)
	require.NoError(t, err)
	assert.Equal(t, int64(7), task.ID)
	assert.Equal(t, createdAt, task.CreatedAt.UTC())

	_, err = s.Create(context.Background(), "  ", model.PeriodDaily)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int32(1), calls.Load(), "blank title must not reach the backend")
}

func TestRESTStore_List(t *testing.T) {
	s, _ := newRESTStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "created_at.desc,id.desc", r.URL.Query().Get("order"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	})

	tasks, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestRESTStore_Update(t *testing.T) {
	tests := []struct {
		name     string
		respond  func(w http.ResponseWriter)
		wantErr  error
		wantTask model.Task
	}{
		{
			name: "patched row returned",
			respond: func(w http.ResponseWriter) {
				writeJSON(w, http.StatusOK, []model.Task{{ID: 3, Title: "t", Completed: true, Period: model.PeriodWeekly}})
			},
			wantTask: model.Task{ID: 3, Title: "t", Completed: true, Period: model.PeriodWeekly},
		},
		{
			name: "empty result is not found",
			respond: func(w http.ResponseWriter) {
				writeJSON(w, http.StatusOK, []model.Task{})
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newRESTStore(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPatch, r.Method)
				assert.Equal(t, "eq.3", r.URL.Query().Get("id"))

				var patch map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
				assert.Equal(t, map[string]any{"completed": true}, patch)

				tt.respond(w)
			})

			task, err := s.Update(context.Background(), 3, model.CompletedPatch(true))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsStoreError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTask, task)
		})
	}
}

func TestRESTStore_Delete(t *testing.T) {
	s, _ := newRESTStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "eq.5", r.URL.Query().Get("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, s.Delete(context.Background(), 5))
}

func TestRESTStore_APIError(t *testing.T) {
	s, _ := newRESTStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"code":    "PGRST301",
			"message": "JWT expired",
		})
	})

	_, err := s.List(context.Background())
	require.Error(t, err)

	var se *StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "list", se.Op)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "PGRST301", apiErr.Code)
	assert.Equal(t, "JWT expired", apiErr.Message)
}

func TestRESTStore_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	s := NewRESTStore(srv.URL, "secret", time.Second)
	err := s.Delete(context.Background(), 1)
	assert.True(t, IsStoreError(err))
}
