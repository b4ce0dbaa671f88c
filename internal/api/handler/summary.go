package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-ticket-booking/internal/application"
)

type SummaryHandler struct {
	service SummaryServiceInterface
}

func NewSummaryHandler(s SummaryServiceInterface) *SummaryHandler {
	return &SummaryHandler{service: s}
}

type EventSummaryResponse struct {
	EventID          string  `json:"event_id" example:"E001"`
	Name             string  `json:"name" example:"ロックコンサート"`
	Venue            string  `json:"venue" example:"スタジアム"`
	Date             string  `json:"date" example:"2025-10-10T18:00:00+09:00"`
	TotalSeats       int     `json:"total_seats" example:"8"`
	BookedSeats      int     `json:"booked_seats" example:"2"`
	OccupancyPercent float64 `json:"occupancy_percent" example:"25"`
}

// Get godoc
// @Summary 全イベントの稼働状況を取得
// @Description イベントごとの座席数・予約数・稼働率を登録順で返します
// @Tags summary
// @Produce json
// @Success 200 {array} EventSummaryResponse
// @Router /summary [get]
func (h *SummaryHandler) Get(c echo.Context) error {
	summaries := h.service.Summary(c.Request().Context())
	resp := make([]EventSummaryResponse, len(summaries))
	for i, s := range summaries {
		resp[i] = toEventSummaryResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

func toEventSummaryResponse(s application.EventSummary) EventSummaryResponse {
	return EventSummaryResponse{
		EventID:          s.EventID,
		Name:             s.Name,
		Venue:            s.Venue,
		Date:             s.Date.Format(time.RFC3339),
		TotalSeats:       s.TotalSeats,
		BookedSeats:      s.BookedSeats,
		OccupancyPercent: s.OccupancyPercent,
	}
}
