// Package planlist возвращает справочник тарифных планов.
package planlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Service определяет интерфейс хранилища тарифных планов.
type Service interface {
	ListPlans(ctx context.Context) ([]*models.Plan, error)
}

// Item — один тарифный план в ответе.
type Item struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"duration_days"`
}

// Handler обрабатывает запросы на получение списка планов.
type Handler struct {
	log   *slog.Logger
	plans Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, plans Service) *Handler {
	return &Handler{
		log:   log,
		plans: plans,
	}
}

// ServeHTTP godoc
// @Summary Список тарифных планов
// @Description Возвращает все тарифные планы клуба
// @Tags Plans
// @Produce  json
// @Success 200 {object} response.Response "Список планов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans, err := h.plans.ListPlans(r.Context())
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list plans"))
		return
	}

	items := make([]Item, 0, len(plans))
	for _, plan := range plans {
		items = append(items, Item{
			ID:           plan.ID,
			Name:         plan.Name,
			Price:        plan.Price,
			DurationDays: plan.DurationDays,
		})
	}

	log.Info("plans listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.StatusOKWithData(items))
}
