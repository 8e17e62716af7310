package book

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bookcatalog/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type bookReq struct {
	Title         string  `json:"title" validate:"notblank,max=200"`
	Author        string  `json:"author" validate:"notblank,max=100"`
	Genre         string  `json:"genre" validate:"notblank,max=50"`
	PublishedYear int     `json:"published_year" validate:"gte=1450,lte=2025"`
	Price         float64 `json:"price" validate:"gt=0"`
}

func (req bookReq) toBook() Book {
	return Book{
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		PublishedYear: req.PublishedYear,
		Price:         req.Price,
	}
}

// PathBookID parses the {id} path value. It writes a 400 and returns false on failure.
func PathBookID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid book id", nil)
		return 0, false
	}
	return id, true
}

// List handles GET /api/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := Query{
		Author: query.Get("author"),
		Genre:  query.Get("genre"),
	}
	if yearStr := query.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid year", nil)
			return
		}
		params.Year = &year
	}
	params.Page, _ = strconv.Atoi(query.Get("page"))
	params.PageSize, _ = strconv.Atoi(query.Get("page_size"))
	params = params.normalized()

	books, total, err := h.service.List(r.Context(), params)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]any{
		"page":        params.Page,
		"page_size":   params.PageSize,
		"total":       total,
		"total_pages": (total + params.PageSize - 1) / params.PageSize,
	})
}

// Search handles GET /api/books/search?title=
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.SearchByTitle(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if len(books) == 0 {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "No books found matching the title", nil)
		return
	}
	httpx.JSONSuccess(w, r, books, nil)
}

// GetByID handles GET /api/books/{id}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := PathBookID(w, r, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

func decodeBook(w http.ResponseWriter, r *http.Request) (Book, bool) {
	var req bookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return Book{}, false
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return Book{}, false
	}
	return req.toBook(), true
}

// Create handles POST /api/books (admin)
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeBook(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/books/"+strconv.Itoa(created.ID))
	httpx.JSONSuccessCreated(w, r, created)
}

// Update handles PUT /api/books/{id} (admin)
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := PathBookID(w, r, "id")
	if !ok {
		return
	}
	input, ok := decodeBook(w, r)
	if !ok {
		return
	}

	updated, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, updated, nil)
}

// Delete handles DELETE /api/books/{id} (admin)
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathBookID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
