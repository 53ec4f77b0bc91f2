// Package submit реализует HTTP-обработчик сохранения ответов анкеты.
package submit

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
	userservice "github.com/VidhitSikri/BUDDY-FI/internal/services/user"
)

// Request — входные данные: email пользователя и карта из семи ответов анкеты.
type Request struct {
	Email   string         `json:"email" validate:"required"`
	Hobbies models.Hobbies `json:"hobbies" validate:"required"`
}

// Service описывает интерфейс бизнес-логики сохранения ответов.
type Service interface {
	SubmitHobbies(ctx context.Context, email string, hobbies models.Hobbies) error
}

// Handler обрабатывает HTTP-запросы сохранения ответов анкеты.
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
// @Summary Сохранение ответов анкеты
// @Description Перезаписывает ответы пользователя. Карта обязана содержать все семь слотов hobby1..hobby7.
// @Tags Hobbies
// @Accept  json
// @Produce  json
// @Param request body Request true "Email и ответы анкеты"
// @Success 200 {object} response.Response "Подтверждение"
// @Failure 400 {object} response.ErrorResponse "Отсутствующие поля или неполная анкета"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /submit-answers [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.hobbies.submit"

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

	if err := h.users.SubmitHobbies(r.Context(), req.Email, req.Hobbies); err != nil {
		switch {
		case errors.Is(err, userservice.ErrIncompleteHobbies):
			log.Error("incomplete hobbies map", slog.Int("entries", len(req.Hobbies)))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("hobbies must contain answers for all seven questions"))
		case errors.Is(err, repository.ErrUserNotFound):
			log.Error("user not found", slog.String("email", req.Email))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to update hobbies", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update hobbies"))
		}
		return
	}

	log.Info("hobbies updated", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithMessage("hobbies updated successfully"))
}
