// Package find реализует HTTP-обработчик подбора бадди.
//
// Кандидаты фильтруются по полу, возрасту и радиусу одним запросом к базе,
// затем ранжируются по проценту совпавших ответов анкеты.
package find

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
	buddyservice "github.com/VidhitSikri/BUDDY-FI/internal/services/buddy"
)

// Request — входные данные: UID пользователя, для которого идёт подбор.
type Request struct {
	UserID string `json:"userId" validate:"required"`
}

// Service описывает интерфейс бизнес-логики подбора.
type Service interface {
	FindBuddies(ctx context.Context, userUID string) ([]models.Buddy, error)
}

// Handler обрабатывает HTTP-запросы подбора бадди.
type Handler struct {
	log      *slog.Logger
	buddies  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler с указанными логгером и сервисом подбора.
func New(log *slog.Logger, buddies Service) *Handler {
	return &Handler{
		log:      log,
		buddies:  buddies,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подбор бадди
// @Description Возвращает кандидатов в радиусе 10 км с тем же полом и возрастом в пределах 5 лет, отсортированных по убыванию совместимости.
// @Tags Buddies
// @Accept  json
// @Produce  json
// @Param request body Request true "UID пользователя"
// @Success 200 {object} response.Response "Ранжированный список кандидатов"
// @Failure 400 {object} response.ErrorResponse "Отсутствует userId или нет геопозиции"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /find-buddies [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.buddies.find"

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

	buddies, err := h.buddies.FindBuddies(r.Context(), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			log.Error("user not found", slog.String("userId", req.UserID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, buddyservice.ErrProfileIncomplete):
			log.Error("user has no location", slog.String("userId", req.UserID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("location must be set before finding buddies"))
		default:
			log.Error("failed to find buddies", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to find buddies"))
		}
		return
	}

	log.Info("buddies found", slog.String("userId", req.UserID), slog.Int("count", len(buddies)))
	render.JSON(w, r, response.OKWithData(buddies))
}
