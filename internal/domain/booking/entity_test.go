package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-ticket-booking/internal/domain/seat"
)

func TestNewBooking(t *testing.T) {
	seats := []*seat.Seat{
		seat.NewVIPSeat("V1", "B"),
		seat.NewVIPSeat("V2", "B"),
	}

	b := NewBooking("booking-1", "E001", seats, "Alice")

	assert.Equal(t, "booking-1", b.ID)
	assert.Equal(t, "E001", b.EventID)
	assert.Equal(t, "Alice", b.Buyer)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.InDelta(t, 480.0, b.Amount, 1e-9)
	assert.Nil(t, b.CancelledAt)
}

func TestBooking_Amount_FixedAtCreation(t *testing.T) {
	s := seat.NewVIPSeat("V1", "B")
	b := NewBooking("booking-1", "E001", []*seat.Seat{s}, "Alice")
	require.InDelta(t, 240.0, b.Amount, 1e-9)

	// 後から基本料金を変更しても確定済みの金額は変わらない
	s.SetPrice(1000.0)

	assert.InDelta(t, 240.0, b.Amount, 1e-9)
}

func TestBooking_Cancel(t *testing.T) {
	t.Run("キャンセルで座席がすべて解放される", func(t *testing.T) {
		seats := []*seat.Seat{
			seat.NewRegularSeat("R1", "A"),
			seat.NewRegularSeat("R2", "A"),
		}
		for _, s := range seats {
			require.NoError(t, s.Book())
		}
		b := NewBooking("booking-1", "E001", seats, "Alice")

		err := b.Cancel()

		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, b.Status)
		assert.NotNil(t, b.CancelledAt)
		for _, s := range seats {
			assert.True(t, s.IsAvailable())
		}
	})

	t.Run("二重キャンセルはエラー", func(t *testing.T) {
		s := seat.NewRegularSeat("R1", "A")
		require.NoError(t, s.Book())
		b := NewBooking("booking-1", "E001", []*seat.Seat{s}, "Alice")
		require.NoError(t, b.Cancel())

		err := b.Cancel()

		assert.ErrorIs(t, err, ErrBookingAlreadyCancelled)
		assert.Equal(t, StatusCancelled, b.Status)
	})
}

func TestBooking_Receipt(t *testing.T) {
	seats := []*seat.Seat{
		seat.NewRegularSeat("R1", "A"),
		seat.NewVIPSeat("V1", "B"),
	}
	b := NewBooking("booking-1", "E001", seats, "Alice")

	r := b.Receipt()

	assert.Equal(t, "booking-1", r.BookingID)
	assert.Equal(t, "E001", r.EventID)
	assert.Equal(t, "Alice", r.Buyer)
	assert.Equal(t, string(StatusConfirmed), r.Status)
	assert.InDelta(t, 340.0, r.TotalAmount, 1e-9)
	require.Len(t, r.Lines, 2)
	assert.Equal(t, "R1", r.Lines[0].SeatNumber)
	assert.Equal(t, "Regular", r.Lines[0].Kind)
	assert.InDelta(t, 100.0, r.Lines[0].Charge, 1e-9)
	assert.Equal(t, "V1", r.Lines[1].SeatNumber)
	assert.Equal(t, "VIP", r.Lines[1].Kind)
	assert.InDelta(t, 240.0, r.Lines[1].Charge, 1e-9)

	// 領収書の生成は状態を変更しない
	assert.Equal(t, StatusConfirmed, b.Status)
}

func TestBooking_Validate(t *testing.T) {
	validSeats := []*seat.Seat{seat.NewRegularSeat("R1", "A")}

	tests := []struct {
		name        string
		booking     *Booking
		expectedErr error
	}{
		{"有効な予約", NewBooking("b-1", "E001", validSeats, "Alice"), nil},
		{"イベントIDが空", NewBooking("b-1", "", validSeats, "Alice"), ErrEventIDRequired},
		{"購入者名が空", NewBooking("b-1", "E001", validSeats, ""), ErrBuyerRequired},
		{"座席が空", NewBooking("b-1", "E001", nil, "Alice"), ErrSeatsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.booking.Validate()
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
