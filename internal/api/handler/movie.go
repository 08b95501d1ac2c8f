package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/movielobby/catalog/internal/domain/model"
	"github.com/movielobby/catalog/internal/domain/repository"
	"github.com/movielobby/catalog/internal/usecase"
)

// Request/Response types

type CreateMovieRequest struct {
	Title         string  `json:"title"`
	Genre         string  `json:"genre"`
	Rating        float64 `json:"rating"`
	StreamingLink string  `json:"streamingLink"`
}

type UpdateMovieRequest struct {
	Title         *string  `json:"title"`
	Genre         *string  `json:"genre"`
	Rating        *float64 `json:"rating"`
	StreamingLink *string  `json:"streamingLink"`
}

type MovieResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Genre         string  `json:"genre"`
	Rating        float64 `json:"rating"`
	StreamingLink string  `json:"streamingLink"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// MovieHandler handles movie catalog HTTP requests.
type MovieHandler struct {
	svc usecase.MovieService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc usecase.MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// List handles GET /movies
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	movies, err := h.svc.ListMovies(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toMovieResponses(movies))
}

// Search handles GET /movies/search?q=
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		Error(w, http.StatusBadRequest, "invalid_query", "Query parameter 'q' is required")
		return
	}

	movies, err := h.svc.SearchMovies(r.Context(), query)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toMovieResponses(movies))
}

// Create handles POST /movies
func (h *MovieHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	fields := model.MovieFields{
		Title:         req.Title,
		Genre:         req.Genre,
		Rating:        req.Rating,
		StreamingLink: req.StreamingLink,
	}
	if err := fields.Validate(); err != nil {
		h.handleValidationError(w, err)
		return
	}

	movie, err := h.svc.CreateMovie(r.Context(), fields)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toMovieResponse(movie))
}

// Update handles PUT /movies/{id}
func (h *MovieHandler) Update(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_movie_id", "Movie ID must be a valid UUID")
		return
	}

	var req UpdateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	update := model.MovieUpdate{
		Title:         req.Title,
		Genre:         req.Genre,
		Rating:        req.Rating,
		StreamingLink: req.StreamingLink,
	}
	if update.IsEmpty() {
		Error(w, http.StatusBadRequest, "invalid_request", "At least one field must be supplied")
		return
	}
	if err := update.Validate(); err != nil {
		h.handleValidationError(w, err)
		return
	}

	movie, err := h.svc.UpdateMovie(r.Context(), movieID, update)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toMovieResponse(movie))
}

// Delete handles DELETE /movies/{id}
func (h *MovieHandler) Delete(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_movie_id", "Movie ID must be a valid UUID")
		return
	}

	movie, err := h.svc.RemoveMovie(r.Context(), movieID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, toMovieResponse(movie))
}

func (h *MovieHandler) handleValidationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrEmptyTitle):
		Error(w, http.StatusBadRequest, "invalid_title", "Title cannot be empty")
	case errors.Is(err, model.ErrTitleTooLong):
		Error(w, http.StatusBadRequest, "invalid_title", "Title exceeds maximum length")
	case errors.Is(err, model.ErrEmptyGenre):
		Error(w, http.StatusBadRequest, "invalid_genre", "Genre cannot be empty")
	case errors.Is(err, model.ErrInvalidStreaming):
		Error(w, http.StatusBadRequest, "invalid_streaming_link", "Streaming link must be a valid URL")
	default:
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid movie fields")
	}
}

func (h *MovieHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrMovieNotFound):
		Error(w, http.StatusNotFound, "movie_not_found", "Movie not found")
	default:
		// Store failures must not leak internal detail to the caller.
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

func toMovieResponse(m *model.Movie) MovieResponse {
	return MovieResponse{
		ID:            m.ID.String(),
		Title:         m.Title,
		Genre:         m.Genre,
		Rating:        m.Rating,
		StreamingLink: m.StreamingLink,
		CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     m.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toMovieResponses(movies []*model.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieResponse(m))
	}
	return out
}
