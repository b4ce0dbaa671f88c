package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-ticket-booking/internal/application"
	"github.com/sanosuguru/go-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-ticket-booking/internal/domain/seat"
)

type EventHandler struct {
	service EventServiceInterface
}

func NewEventHandler(s EventServiceInterface) *EventHandler {
	return &EventHandler{service: s}
}

type CreateEventRequest struct {
	ID    string `json:"id" example:"E001"`
	Name  string `json:"name" validate:"required" example:"ロックコンサート"`
	Date  string `json:"date" validate:"required" example:"2025-10-10T18:00:00+09:00"`
	Venue string `json:"venue" example:"スタジアム"`
}

type EventResponse struct {
	ID               string  `json:"id" example:"E001"`
	Name             string  `json:"name" example:"ロックコンサート"`
	Date             string  `json:"date" example:"2025-10-10T18:00:00+09:00"`
	Venue            string  `json:"venue" example:"スタジアム"`
	TotalSeats       int     `json:"total_seats" example:"8"`
	BookedSeats      int     `json:"booked_seats" example:"2"`
	OccupancyPercent float64 `json:"occupancy_percent" example:"25"`
}

func toEventResponse(e *event.Event) EventResponse {
	return EventResponse{
		ID:               e.ID,
		Name:             e.Name,
		Date:             e.Date.Format(time.RFC3339),
		Venue:            e.Venue,
		TotalSeats:       e.TotalSeats(),
		BookedSeats:      e.BookedSeatCount(),
		OccupancyPercent: e.OccupancyPercent(),
	}
}

type SeatResponse struct {
	SeatNumber string  `json:"seat_number" example:"V1"`
	Section    string  `json:"section" example:"B"`
	Kind       string  `json:"kind" example:"VIP"`
	Price      float64 `json:"price" example:"200"`
	Charge     float64 `json:"charge" example:"240"`
	Status     string  `json:"status" example:"available"`
}

func toSeatResponse(s *seat.Seat) SeatResponse {
	return SeatResponse{
		SeatNumber: s.SeatNumber,
		Section:    s.Section,
		Kind:       s.Kind.String(),
		Price:      s.Price,
		Charge:     s.CalculatePrice(),
		Status:     string(s.Status),
	}
}

func toSeatResponses(seats []*seat.Seat) []SeatResponse {
	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = toSeatResponse(s)
	}
	return resp
}

// Create godoc
// @Summary イベントを作成
// @Description イベントを登録します（ID未指定時は採番）
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "イベント情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "イベントIDが重複"
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "日付はRFC3339形式で指定してください")
	}

	e, err := h.service.CreateEvent(c.Request().Context(), application.CreateEventInput{
		ID: req.ID, Name: req.Name, Date: date, Venue: req.Venue,
	})
	if err != nil {
		if errors.Is(err, application.ErrDuplicateEventID) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// List godoc
// @Summary イベント一覧を取得
// @Description 登録済みの全イベントを登録順で返します
// @Tags events
// @Produce json
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	events := h.service.ListEvents(c.Request().Context())
	resp := make([]EventResponse, len(events))
	for i, e := range events {
		resp[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary イベントを取得
// @Description 指定IDのイベントを取得します
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	e, err := h.service.SearchEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// GetSeats godoc
// @Summary イベントの座席を検索
// @Description クエリなしで全座席、count指定で空席を件数まで、type指定で種別の空席を返します
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Param count query int false "空席の最大取得件数"
// @Param type query string false "座席種別（Regular/VIP、大文字小文字不問）"
// @Success 200 {array} SeatResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id}/seats [get]
func (h *EventHandler) GetSeats(c echo.Context) error {
	e, err := h.service.SearchEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if kind := c.QueryParam("type"); kind != "" {
		return c.JSON(http.StatusOK, toSeatResponses(e.FindAvailableByType(kind)))
	}
	if countParam := c.QueryParam("count"); countParam != "" {
		count, err := strconv.Atoi(countParam)
		if err != nil || count < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "countは0以上の整数で指定してください")
		}
		return c.JSON(http.StatusOK, toSeatResponses(e.FindAvailableByCount(count)))
	}
	return c.JSON(http.StatusOK, toSeatResponses(e.Seats()))
}

type AddSeatRequest struct {
	SeatNumber string  `json:"seat_number" validate:"required" example:"V1"`
	Section    string  `json:"section" example:"B"`
	Kind       string  `json:"kind" validate:"required" example:"VIP"`
	Price      float64 `json:"price" validate:"min=0" example:"200"`
}

// AddSeat godoc
// @Summary 座席を追加
// @Description イベントに座席を1件追加します（price省略時は種別既定の基本料金）
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "イベントID"
// @Param request body AddSeatRequest true "座席情報"
// @Success 201 {object} SeatResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "座席番号が重複"
// @Router /events/{id}/seats [post]
func (h *EventHandler) AddSeat(c echo.Context) error {
	var req AddSeatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s, err := h.service.AddSeat(c.Request().Context(), application.AddSeatInput{
		EventID:    c.Param("id"),
		SeatNumber: req.SeatNumber,
		Section:    req.Section,
		Kind:       req.Kind,
		Price:      req.Price,
	})
	if err != nil {
		switch {
		case errors.Is(err, event.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, event.ErrDuplicateSeatNumber):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, toSeatResponse(s))
}

type AddSeatBlockRequest struct {
	Prefix  string `json:"prefix" validate:"required" example:"R"`
	Section string `json:"section" example:"A"`
	Kind    string `json:"kind" validate:"required" example:"Regular"`
	Count   int    `json:"count" validate:"required,min=1,max=1000" example:"5"`
}

// AddSeatBlock godoc
// @Summary 座席をまとめて追加
// @Description イベントに連番の座席を一括追加します
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "イベントID"
// @Param request body AddSeatBlockRequest true "座席ブロック情報"
// @Success 201 {array} SeatResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/seats/block [post]
func (h *EventHandler) AddSeatBlock(c echo.Context) error {
	var req AddSeatBlockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	seats, err := h.service.AddSeatBlock(c.Request().Context(), application.AddSeatBlockInput{
		EventID: c.Param("id"),
		Prefix:  req.Prefix,
		Section: req.Section,
		Kind:    req.Kind,
		Count:   req.Count,
	})
	if err != nil {
		switch {
		case errors.Is(err, event.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, event.ErrDuplicateSeatNumber):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, toSeatResponses(seats))
}

// CountAvailable godoc
// @Summary 空席数を取得
// @Description イベントの空席数を返します（キャッシュ優先）
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} map[string]int
// @Failure 404 {object} map[string]string
// @Router /events/{id}/seats/available [get]
func (h *EventHandler) CountAvailable(c echo.Context) error {
	count, err := h.service.AvailableSeatCount(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}
