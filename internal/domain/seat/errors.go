package seat

import "errors"

// Seat ドメインのエラー定義
var (
	ErrSeatNotFound       = errors.New("座席が見つかりません")
	ErrSeatNotAvailable   = errors.New("座席は予約できません")
	ErrUnknownKind        = errors.New("不明な座席種別です")
	ErrSeatNumberRequired = errors.New("座席番号は必須です")
	ErrInvalidPrice       = errors.New("価格は0以上である必要があります")
)
