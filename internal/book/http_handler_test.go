package book

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("success with paging meta", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any()).Return(fixtureBooks, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books?genre=sci-fi&page=1&page_size=2", nil)

		handler.List(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data []Book        `json:"data"`
			Meta map[string]any `json:"meta"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, []int{2, 1}, ids(body.Data))
		assert.EqualValues(t, 3, body.Meta["total"])
		assert.EqualValues(t, 2, body.Meta["total_pages"])
	})

	t.Run("bad year", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books?year=abc", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("error", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any()).Return(nil, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), 1).Return(fixtureBooks[0], nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/1", nil)
		r.SetPathValue("id", "1")

		handler.GetByID(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Dune")
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), 7).Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/7", nil)
		r.SetPathValue("id", "7")

		handler.GetByID(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/abc", nil)
		r.SetPathValue("id", "abc")

		handler.GetByID(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	tests := []struct {
		name       string
		url        string
		expectList bool
		want       int
	}{
		{"matches", "/api/books/search?title=dune", true, http.StatusOK},
		{"no matches", "/api/books/search?title=zzz", true, http.StatusNotFound},
		{"missing title", "/api/books/search", false, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.expectList {
				mockRepo.EXPECT().List(gomock.Any()).Return(fixtureBooks, nil)
			}
			w := httptest.NewRecorder()
			handler.Search(w, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHTTPHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	t.Run("created", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b Book) (Book, error) {
			b.ID = 6
			return b, nil
		})

		body := `{"title":"Hyperion","author":"Dan Simmons","genre":"Sci-Fi","published_year":1989,"price":11.5}`
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/books/6", w.Header().Get("Location"))
	})

	t.Run("validation error", func(t *testing.T) {
		body := `{"title":"","author":"Dan Simmons","genre":"Sci-Fi","published_year":1200,"price":0}`
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader("{")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_UpdateDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	handler := NewHTTPHandler(NewService(mockRepo))

	body := `{"title":"Emma","author":"Jane Austen","genre":"Classic","published_year":1815,"price":7}`

	t.Run("update ok", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b Book) (Book, error) {
			return b, nil
		})
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/api/books/3", strings.NewReader(body))
		r.SetPathValue("id", "3")

		handler.Update(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("update missing", func(t *testing.T) {
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(Book{}, ErrNotFound)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/api/books/42", strings.NewReader(body))
		r.SetPathValue("id", "42")

		handler.Update(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete ok", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), 3).Return(nil)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/api/books/3", nil)
		r.SetPathValue("id", "3")

		handler.Delete(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("delete missing", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), 42).Return(ErrNotFound)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/api/books/42", nil)
		r.SetPathValue("id", "42")

		handler.Delete(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
