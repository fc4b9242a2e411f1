// Package paymentcheckout обрабатывает создание заявки на оплату плана.
package paymentcheckout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-membership/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-membership/internal/http/response"
	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Service определяет интерфейс сервиса платежей.
type Service interface {
	Checkout(ctx context.Context, memberUID string, req models.DummyCheckout) (int, error)
}

// Handler обрабатывает запросы на оплату.
type Handler struct {
	log            *slog.Logger
	paymentService Service
	validate       *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, paymentService Service) *Handler {
	return &Handler{
		log:            log,
		paymentService: paymentService,
		validate:       validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оплатить план
// @Description Создает платёж со статусом pending, ожидающий подтверждения администратором
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyCheckout true "Данные платежа"
// @Success 200 {object} response.Response "Платёж создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.checkout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCheckout
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	memberUID, ok := r.Context().Value(middlewarectx.MemberUID).(string)
	if !ok || memberUID == "" {
		log.Error("member UID not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.paymentService.Checkout(r.Context(), memberUID, req)
	if err != nil {
		log.Error("failed to create payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create payment"))
		return
	}

	log.Info("payment created", slog.Int("payment_id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment_id": id,
		"status":     models.PaymentStatusPending,
	}))
}
