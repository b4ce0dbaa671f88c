package booking

import "errors"

// Booking ドメインのエラー定義
var (
	ErrBookingNotFound         = errors.New("予約が見つかりません")
	ErrBookingAlreadyCancelled = errors.New("予約は既にキャンセルされています")
	ErrEventIDRequired         = errors.New("イベントIDは必須です")
	ErrBuyerRequired           = errors.New("購入者名は必須です")
	ErrSeatsRequired           = errors.New("座席は必須です")
)
