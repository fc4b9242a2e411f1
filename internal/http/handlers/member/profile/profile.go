// Package profile возвращает профиль участника с актуальным статусом абонемента.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/services/member"
)

// Service определяет интерфейс сервиса профиля участника.
type Service interface {
	GetProfile(ctx context.Context, memberUID string) (*member.Profile, error)
}

// Handler обрабатывает запросы на получение профиля.
type Handler struct {
	log           *slog.Logger
	memberService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, memberService Service) *Handler {
	return &Handler{
		log:           log,
		memberService: memberService,
	}
}

// ServeHTTP godoc
// @Summary Профиль участника
// @Description Возвращает профиль с вычисленным статусом абонемента и датой окончания
// @Tags Member
// @Produce  json
// @Success 200 {object} response.Response "Профиль участника"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /profile [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.member.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	memberUID, ok := r.Context().Value(middlewarectx.MemberUID).(string)
	if !ok || memberUID == "" {
		log.Error("member UID not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	profile, err := h.memberService.GetProfile(r.Context(), memberUID)
	if err != nil {
		log.Error("failed to get profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get profile"))
		return
	}

	log.Info("profile returned", slog.String("member_uid", memberUID))
	render.JSON(w, r, response.StatusOKWithData(profile))
}
