// Package paymentlist возвращает историю платежей: участнику — свои,
// администратору — все.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-membership/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Service определяет интерфейс сервиса платежей.
type Service interface {
	List(ctx context.Context, memberUID, role string, limit, offset int) ([]models.Payment, error)
}

// Item — один платёж в ответе.
type Item struct {
	ID               int       `json:"id"`
	MemberID         int       `json:"member_id"`
	PlanID           *int      `json:"plan_id,omitempty"`
	Amount           float64   `json:"amount"`
	PaidAt           time.Time `json:"paid_at"`
	Status           string    `json:"status"`
	ReceiptReference string    `json:"receipt_reference,omitempty"`
}

// Handler обрабатывает запросы на получение списка платежей.
type Handler struct {
	log            *slog.Logger
	paymentService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, paymentService Service) *Handler {
	return &Handler{
		log:            log,
		paymentService: paymentService,
	}
}

// ServeHTTP godoc
// @Summary Список платежей
// @Description Возвращает платежи: участнику — собственные, администратору — все
// @Tags Payments
// @Produce  json
// @Param limit query int false "Максимум записей" default(10)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} response.Response "Список платежей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments/list [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"

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
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	limit, offset := pagination(r)
	payments, err := h.paymentService.List(r.Context(), memberUID, role, limit, offset)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list payments"))
		return
	}

	items := make([]Item, 0, len(payments))
	for _, payment := range payments {
		items = append(items, Item{
			ID:               payment.ID,
			MemberID:         payment.MemberID,
			PlanID:           payment.PlanID,
			Amount:           payment.Amount,
			PaidAt:           payment.PaidAt,
			Status:           payment.Status,
			ReceiptReference: payment.ReceiptReference,
		})
	}

	log.Info("payments listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.StatusOKWithData(items))
}

func pagination(r *http.Request) (limit, offset int) {
	limit = 10
	offset = 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
