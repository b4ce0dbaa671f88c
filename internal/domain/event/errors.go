package event

import "errors"

// Event ドメインのエラー定義
var (
	ErrEventNotFound       = errors.New("イベントが見つかりません")
	ErrEventIDRequired     = errors.New("イベントIDは必須です")
	ErrEventNameRequired   = errors.New("イベント名は必須です")
	ErrDuplicateSeatNumber = errors.New("座席番号が重複しています")
)
