// Package session реализует HTTP-обработчик выборки данных пользователя
// из транзитного хранилища в памяти процесса. Хранилище наполняется
// при входе и теряется при перезапуске.
package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/VidhitSikri/BUDDY-FI/internal/http/response"
)

// Service описывает доступ к транзитному хранилищу пользователей.
type Service interface {
	SessionUser(userID string) (any, bool)
}

// Handler обрабатывает HTTP-запросы выборки из транзитного хранилища.
type Handler struct {
	log   *slog.Logger
	users Service
}

// New создает новый экземпляр Handler с указанными логгером и сервисом пользователей.
func New(log *slog.Logger, users Service) *Handler {
	return &Handler{
		log:   log,
		users: users,
	}
}

// ServeHTTP godoc
// @Summary Пользователь из транзитного хранилища
// @Description Возвращает данные пользователя, сохранённые при входе. Данные живут только до перезапуска.
// @Tags Users
// @Produce  json
// @Param userId path string true "UID пользователя"
// @Success 200 {object} response.Response "Данные пользователя"
// @Failure 404 {object} response.ErrorResponse "Пользователь отсутствует в хранилище"
// @Router /user/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.session"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID := chi.URLParam(r, "userId")
	if userID == "" {
		log.Error("missing userId in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("userId is required"))
		return
	}

	data, ok := h.users.SessionUser(userID)
	if !ok {
		log.Error("user not found in store", slog.String("userId", userID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found in store"))
		return
	}

	log.Info("user fetched from store", slog.String("userId", userID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": data,
	}))
}
