// Package update реализует HTTP-обработчик обновления геопозиции пользователя.
//
// Долгота и широта принимаются указателями: ноль — допустимая координата,
// отличать нужно только отсутствие поля.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/VidhitSikri/BUDDY-FI/internal/http/response"
	"github.com/VidhitSikri/BUDDY-FI/internal/lib/sl"
	"github.com/VidhitSikri/BUDDY-FI/internal/models"
	"github.com/VidhitSikri/BUDDY-FI/internal/storage/repository"
)

// Request — входные данные: email и пара координат.
type Request struct {
	Email     string   `json:"email" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required"`
}

// Service описывает интерфейс бизнес-логики обновления геопозиции.
type Service interface {
	UpdateLocation(ctx context.Context, email string, longitude, latitude float64) (*models.Location, error)
}

// Handler обрабатывает HTTP-запросы обновления геопозиции.
type Handler struct {
	log      *slog.Logger
	users    Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler с указанными логгером и сервисом пользователей.
func New(log *slog.Logger, users Service) *Handler {
	return &Handler{
		log:      log,
		users:    users,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновление геопозиции
// @Description Записывает долготу и широту пользователя одной парой.
// @Tags Location
// @Accept  json
// @Produce  json
// @Param request body Request true "Email и координаты"
// @Success 200 {object} response.Response "Сохранённая геопозиция"
// @Failure 400 {object} response.ErrorResponse "Отсутствующие поля"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /update-location [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.location.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	location, err := h.users.UpdateLocation(r.Context(), req.Email, *req.Longitude, *req.Latitude)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			log.Error("user not found", slog.String("email", req.Email))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to update location", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update location"))
		return
	}

	log.Info("location updated", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"location": location,
	}))
}
