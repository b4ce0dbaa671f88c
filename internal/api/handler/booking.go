package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-ticket-booking/internal/application"
	"github.com/sanosuguru/go-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-ticket-booking/internal/domain/seat"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type CreateBookingRequest struct {
	EventID     string   `json:"event_id" validate:"required" example:"E001"`
	SeatNumbers []string `json:"seat_numbers" validate:"required,min=1" example:"V1,V2"`
	Buyer       string   `json:"buyer" validate:"required" example:"Alice"`
}

type BookingResponse struct {
	ID          string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	EventID     string    `json:"event_id" example:"E001"`
	Buyer       string    `json:"buyer" example:"Alice"`
	SeatNumbers []string  `json:"seat_numbers" example:"V1,V2"`
	Amount      float64   `json:"amount" example:"480"`
	Status      string    `json:"status" example:"confirmed"`
	CreatedAt   time.Time `json:"created_at"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	numbers := make([]string, len(b.Seats))
	for i, s := range b.Seats {
		numbers[i] = s.SeatNumber
	}
	return BookingResponse{
		ID:          b.ID,
		EventID:     b.EventID,
		Buyer:       b.Buyer,
		SeatNumbers: numbers,
		Amount:      b.Amount,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
	}
}

type ReceiptLineResponse struct {
	SeatNumber string  `json:"seat_number" example:"V1"`
	Section    string  `json:"section" example:"B"`
	Kind       string  `json:"kind" example:"VIP"`
	Charge     float64 `json:"charge" example:"240"`
}

type ReceiptResponse struct {
	BookingID   string                `json:"booking_id"`
	EventID     string                `json:"event_id"`
	Buyer       string                `json:"buyer"`
	Lines       []ReceiptLineResponse `json:"lines"`
	TotalAmount float64               `json:"total_amount" example:"480"`
	Status      string                `json:"status" example:"confirmed"`
	IssuedAt    time.Time             `json:"issued_at"`
}

func toReceiptResponse(r booking.Receipt) ReceiptResponse {
	lines := make([]ReceiptLineResponse, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = ReceiptLineResponse{
			SeatNumber: l.SeatNumber,
			Section:    l.Section,
			Kind:       l.Kind,
			Charge:     l.Charge,
		}
	}
	return ReceiptResponse{
		BookingID:   r.BookingID,
		EventID:     r.EventID,
		Buyer:       r.Buyer,
		Lines:       lines,
		TotalAmount: r.TotalAmount,
		Status:      r.Status,
		IssuedAt:    r.IssuedAt,
	}
}

// Create godoc
// @Summary 座席を予約
// @Description 指定座席をすべて確保するか、1席でも不可なら全体を失敗させます
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "イベントまたは座席が存在しない"
// @Failure 409 {object} map[string]string "座席が既に予約済み"
// @Router /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	b, err := h.service.BookSeats(c.Request().Context(), application.BookSeatsInput{
		EventID:     req.EventID,
		SeatNumbers: req.SeatNumbers,
		Buyer:       req.Buyer,
	})
	if err != nil {
		switch {
		case errors.Is(err, seat.ErrSeatNotAvailable):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, event.ErrEventNotFound), errors.Is(err, seat.ErrSeatNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// GetByID godoc
// @Summary 予約を取得
// @Description 指定IDの予約を取得します
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetByID(c echo.Context) error {
	b, err := h.service.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// GetReceipt godoc
// @Summary 領収書を取得
// @Description 予約の領収書を生成します（状態は変更しません）
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} ReceiptResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id}/receipt [get]
func (h *BookingHandler) GetReceipt(c echo.Context) error {
	b, err := h.service.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toReceiptResponse(b.Receipt()))
}

type CancelBookingResponse struct {
	Cancelled bool `json:"cancelled" example:"true"`
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約をキャンセルして座席を解放します。未知のIDやキャンセル済みの予約には何もしません
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} CancelBookingResponse
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c echo.Context) error {
	cancelled, err := h.service.CancelBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, CancelBookingResponse{Cancelled: cancelled})
}
