package application

import "github.com/google/uuid"

// IDGenerator は予約IDの供給元を表すインターフェース
// 衝突しないIDを返す実装であれば何でもよく、テストでは決定的な実装を注入する
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator はランダムUUIDによるIDGenerator実装
type UUIDGenerator struct{}

// NewUUIDGenerator は新しいUUIDGeneratorを作成する
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID はランダムUUID文字列を返す
func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}
