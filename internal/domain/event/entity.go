package event

import (
	"fmt"
	"time"

	"github.com/sanosuguru/go-ticket-booking/internal/domain/seat"
)

// Event はイベントエンティティを表す
// 座席は追加順を保持し、検索もその順序で走査する
type Event struct {
	ID    string
	Name  string
	Date  time.Time
	Venue string

	seats []*seat.Seat
}

// NewEvent は新しいイベントを作成する
func NewEvent(id, name string, date time.Time, venue string) *Event {
	return &Event{
		ID:    id,
		Name:  name,
		Date:  date,
		Venue: venue,
		seats: make([]*seat.Seat, 0),
	}
}

// AddSeat は座席を末尾に追加する
// 同一イベント内の座席番号は一意でなければならない
func (e *Event) AddSeat(s *seat.Seat) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for _, existing := range e.seats {
		if existing.SeatNumber == s.SeatNumber {
			return fmt.Errorf("座席番号 %s: %w", s.SeatNumber, ErrDuplicateSeatNumber)
		}
	}
	e.seats = append(e.seats, s)
	return nil
}

// Seats は座席一覧を追加順で返す
func (e *Event) Seats() []*seat.Seat {
	return e.seats
}

// FindAvailableByCount は空席を追加順に最大count件まで収集する
// 空席が不足する場合は見つかった分だけを返す
func (e *Event) FindAvailableByCount(count int) []*seat.Seat {
	if count <= 0 {
		return []*seat.Seat{}
	}
	available := make([]*seat.Seat, 0, count)
	for _, s := range e.seats {
		if !s.IsAvailable() {
			continue
		}
		available = append(available, s)
		if len(available) == count {
			break
		}
	}
	return available
}

// FindAvailableByType は指定種別の空席をすべて追加順で収集する
// 種別の比較は大文字小文字を区別しない
func (e *Event) FindAvailableByType(kind string) []*seat.Seat {
	available := make([]*seat.Seat, 0)
	for _, s := range e.seats {
		if s.IsAvailable() && s.Kind.Matches(kind) {
			available = append(available, s)
		}
	}
	return available
}

// FindByNumbers は座席番号の一覧を座席参照に解決する
// 1件でも未知の番号があればエラーを返す
func (e *Event) FindByNumbers(seatNumbers []string) ([]*seat.Seat, error) {
	index := make(map[string]*seat.Seat, len(e.seats))
	for _, s := range e.seats {
		index[s.SeatNumber] = s
	}

	resolved := make([]*seat.Seat, 0, len(seatNumbers))
	for _, num := range seatNumbers {
		s, ok := index[num]
		if !ok {
			return nil, fmt.Errorf("座席番号 %s: %w", num, seat.ErrSeatNotFound)
		}
		resolved = append(resolved, s)
	}
	return resolved, nil
}

// TotalSeats は総座席数を返す
func (e *Event) TotalSeats() int {
	return len(e.seats)
}

// BookedSeatCount は予約済み座席数を返す
func (e *Event) BookedSeatCount() int {
	booked := 0
	for _, s := range e.seats {
		if !s.IsAvailable() {
			booked++
		}
	}
	return booked
}

// AvailableSeatCount は空席数を返す
func (e *Event) AvailableSeatCount() int {
	return e.TotalSeats() - e.BookedSeatCount()
}

// OccupancyPercent は予約済み座席の割合（%）を返す
// 座席が1つもない場合は0を返す
func (e *Event) OccupancyPercent() float64 {
	total := len(e.seats)
	if total == 0 {
		return 0
	}
	return float64(e.BookedSeatCount()) * 100.0 / float64(total)
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if e.ID == "" {
		return ErrEventIDRequired
	}
	if e.Name == "" {
		return ErrEventNameRequired
	}
	return nil
}
