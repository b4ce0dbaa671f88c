package seat

import (
	"fmt"
	"strings"
)

// Kind は座席の種別（料金ルールのファミリー）を表す
type Kind string

const (
	KindRegular Kind = "Regular"
	KindVIP     Kind = "VIP"
)

// 種別ごとの基本料金とVIP料金係数
const (
	RegularBasePrice = 100.0
	VIPBasePrice     = 200.0
	vipPriceRate     = 1.2
)

// ParseKind は文字列から座席種別を解決する（大文字小文字を区別しない）
func ParseKind(s string) (Kind, error) {
	switch {
	case strings.EqualFold(s, string(KindRegular)):
		return KindRegular, nil
	case strings.EqualFold(s, string(KindVIP)):
		return KindVIP, nil
	}
	return "", fmt.Errorf("%s: %w", s, ErrUnknownKind)
}

// Matches は種別が文字列と一致するかを返す（大文字小文字を区別しない）
func (k Kind) Matches(s string) bool {
	return strings.EqualFold(string(k), s)
}

func (k Kind) String() string {
	return string(k)
}

// Status は座席の状態を表す
type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
)

// Seat は座席エンティティを表す
// Price は基本料金であり、請求額は常に CalculatePrice が算出する
type Seat struct {
	SeatNumber string
	Section    string
	Kind       Kind
	Price      float64
	Status     Status
}

// NewSeat は種別と基本料金を指定して座席を作成する
func NewSeat(kind Kind, seatNumber, section string, price float64) *Seat {
	return &Seat{
		SeatNumber: seatNumber,
		Section:    section,
		Kind:       kind,
		Price:      price,
		Status:     StatusAvailable,
	}
}

// NewRegularSeat は通常席を既定の基本料金で作成する
func NewRegularSeat(seatNumber, section string) *Seat {
	return NewSeat(KindRegular, seatNumber, section, RegularBasePrice)
}

// NewVIPSeat はVIP席を既定の基本料金で作成する
func NewVIPSeat(seatNumber, section string) *Seat {
	return NewSeat(KindVIP, seatNumber, section, VIPBasePrice)
}

// CalculatePrice は種別ごとの料金ルールを適用した請求額を返す
// 副作用はなく、現在の基本料金と種別のみで決まる
func (s *Seat) CalculatePrice() float64 {
	switch s.Kind {
	case KindVIP:
		return s.Price * vipPriceRate
	default:
		return s.Price
	}
}

// IsAvailable は座席が予約可能かを返す
func (s *Seat) IsAvailable() bool {
	return s.Status == StatusAvailable
}

// Book は座席を予約済み状態にする
func (s *Seat) Book() error {
	if s.Status != StatusAvailable {
		return ErrSeatNotAvailable
	}
	s.Status = StatusBooked
	return nil
}

// Release は座席を解放する
// 既に空席の場合も安全に呼び出せる
func (s *Seat) Release() {
	s.Status = StatusAvailable
}

// SetPrice は基本料金を上書きする
// 既に確定した予約の金額には影響しない
func (s *Seat) SetPrice(price float64) {
	s.Price = price
}

// Label は表示用の座席情報を返す（取引には使用しない）
func (s *Seat) Label() string {
	return fmt.Sprintf("[%s] %s (%s) - %.1f - %s", s.Kind, s.SeatNumber, s.Section, s.CalculatePrice(), s.Status)
}

// Validate は座席の検証を行う
func (s *Seat) Validate() error {
	if s.SeatNumber == "" {
		return ErrSeatNumberRequired
	}
	if s.Price < 0 {
		return ErrInvalidPrice
	}
	if s.Kind != KindRegular && s.Kind != KindVIP {
		return ErrUnknownKind
	}
	return nil
}
