package application

import "errors"

// アプリケーション層のエラー定義
var (
	ErrDuplicateEventID = errors.New("イベントIDが重複しています")
	ErrInvalidSeatCount = errors.New("座席数は1以上である必要があります")
)
