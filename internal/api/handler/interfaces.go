package handler

import (
	"context"

	"github.com/sanosuguru/go-ticket-booking/internal/application"
	"github.com/sanosuguru/go-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-ticket-booking/internal/domain/seat"
)

// EventServiceInterface はイベント関連操作のインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	ListEvents(ctx context.Context) []*event.Event
	SearchEvent(ctx context.Context, eventID string) (*event.Event, error)
	AddSeat(ctx context.Context, input application.AddSeatInput) (*seat.Seat, error)
	AddSeatBlock(ctx context.Context, input application.AddSeatBlockInput) ([]*seat.Seat, error)
	AvailableSeatCount(ctx context.Context, eventID string) (int, error)
}

// BookingServiceInterface は予約関連操作のインターフェース
type BookingServiceInterface interface {
	BookSeats(ctx context.Context, input application.BookSeatsInput) (*booking.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*booking.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) (bool, error)
}

// SummaryServiceInterface は稼働状況レポートのインターフェース
type SummaryServiceInterface interface {
	Summary(ctx context.Context) []application.EventSummary
}
