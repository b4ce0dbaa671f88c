package booking

import (
	"time"

	"github.com/sanosuguru/go-ticket-booking/internal/domain/seat"
)

// Status は予約の状態を表す
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking は予約エンティティを表す
// Amount は作成時点の座席料金の合計で固定され、以後変化しない
type Booking struct {
	ID          string
	EventID     string
	Seats       []*seat.Seat
	Buyer       string
	Amount      float64
	Status      Status
	CreatedAt   time.Time
	CancelledAt *time.Time
}

// NewBooking は新しい予約を作成する
// 合計金額はこの時点の各座席の請求額から算出して確定する
func NewBooking(id, eventID string, seats []*seat.Seat, buyer string) *Booking {
	var amount float64
	for _, s := range seats {
		amount += s.CalculatePrice()
	}
	return &Booking{
		ID:        id,
		EventID:   eventID,
		Seats:     seats,
		Buyer:     buyer,
		Amount:    amount,
		Status:    StatusConfirmed,
		CreatedAt: time.Now(),
	}
}

// IsCancelled は予約がキャンセル済みかを返す
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// Cancel は予約をキャンセルし、保持するすべての座席を解放する
// キャンセル済みの予約には何もせずエラーを返す
func (b *Booking) Cancel() error {
	if b.Status == StatusCancelled {
		return ErrBookingAlreadyCancelled
	}
	now := time.Now()
	b.Status = StatusCancelled
	b.CancelledAt = &now
	for _, s := range b.Seats {
		s.Release()
	}
	return nil
}

// ReceiptLine は領収書の座席1件分の明細を表す
type ReceiptLine struct {
	SeatNumber string
	Section    string
	Kind       string
	Charge     float64
}

// Receipt は領収書を表す
type Receipt struct {
	BookingID   string
	EventID     string
	Buyer       string
	Lines       []ReceiptLine
	TotalAmount float64
	Status      string
	IssuedAt    time.Time
}

// Receipt は予約内容から領収書を生成する（状態は変更しない）
// 明細の請求額は予約時に確定した金額ではなく座席の現在の料金ルールを映すが、
// TotalAmount は常に予約時点で確定した合計を返す
func (b *Booking) Receipt() Receipt {
	lines := make([]ReceiptLine, 0, len(b.Seats))
	for _, s := range b.Seats {
		lines = append(lines, ReceiptLine{
			SeatNumber: s.SeatNumber,
			Section:    s.Section,
			Kind:       s.Kind.String(),
			Charge:     s.CalculatePrice(),
		})
	}
	return Receipt{
		BookingID:   b.ID,
		EventID:     b.EventID,
		Buyer:       b.Buyer,
		Lines:       lines,
		TotalAmount: b.Amount,
		Status:      string(b.Status),
		IssuedAt:    time.Now(),
	}
}

// Validate は予約の検証を行う
func (b *Booking) Validate() error {
	if b.EventID == "" {
		return ErrEventIDRequired
	}
	if b.Buyer == "" {
		return ErrBuyerRequired
	}
	if len(b.Seats) == 0 {
		return ErrSeatsRequired
	}
	return nil
}
