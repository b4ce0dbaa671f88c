package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-ticket-booking/internal/domain/booking"
	"github.com/sanosuguru/go-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-ticket-booking/internal/domain/seat"
	redisinfra "github.com/sanosuguru/go-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-ticket-booking/internal/pkg/metrics"
)

const availabilityCacheTTL = 30 * time.Second

// AvailabilityCache はイベントごとの空席数キャッシュのインターフェース
type AvailabilityCache interface {
	GetAvailableCount(ctx context.Context, eventID string) (int, error)
	SetAvailableCount(ctx context.Context, eventID string, count int, ttl time.Duration) error
	Invalidate(ctx context.Context, eventID string) error
}

// SeatUnavailableError は予約できなかった座席を特定するエラー
type SeatUnavailableError struct {
	SeatNumber string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("座席 %s は予約できません", e.SeatNumber)
}

func (e *SeatUnavailableError) Unwrap() error {
	return seat.ErrSeatNotAvailable
}

// TicketingService はイベント・座席・予約を統括するアプリケーションサービス
// 予約IDから予約への登録簿を唯一の永続的な予約記録として保持する
// 検証から確定までの一連の処理は単一のミューテックスで直列化される
type TicketingService struct {
	mu       sync.Mutex
	events   []*event.Event
	bookings map[string]*booking.Booking

	idGen   IDGenerator
	cache   AvailabilityCache
	metrics *metrics.Metrics
}

// NewTicketingService は新しいTicketingServiceを作成する
// cache と m は省略可能（nil許容）
func NewTicketingService(idGen IDGenerator, cache AvailabilityCache, m *metrics.Metrics) *TicketingService {
	return &TicketingService{
		events:   make([]*event.Event, 0),
		bookings: make(map[string]*booking.Booking),
		idGen:    idGen,
		cache:    cache,
		metrics:  m,
	}
}

// AddEvent はイベントを登録する
// イベントIDはサービス全体で一意でなければならない
func (s *TicketingService) AddEvent(ctx context.Context, e *event.Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("バリデーションエラー: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findEvent(e.ID) != nil {
		return fmt.Errorf("イベントID %s: %w", e.ID, ErrDuplicateEventID)
	}
	s.events = append(s.events, e)
	return nil
}

type CreateEventInput struct {
	ID    string
	Name  string
	Date  time.Time
	Venue string
}

// CreateEvent は入力からイベントを構築して登録する
// IDが未指定の場合はIDGeneratorで採番する
func (s *TicketingService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	id := input.ID
	if id == "" {
		id = s.idGen.NewID()
	}
	e := event.NewEvent(id, input.Name, input.Date, input.Venue)
	if err := s.AddEvent(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// SearchEvent はイベントIDからイベントを検索する
// 見つからない場合はErrEventNotFoundを返す（障害扱いはしない）
func (s *TicketingService) SearchEvent(ctx context.Context, eventID string) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findEvent(eventID)
	if e == nil {
		return nil, event.ErrEventNotFound
	}
	return e, nil
}

// ListEvents は全イベントを登録順で返す
func (s *TicketingService) ListEvents(ctx context.Context) []*event.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]*event.Event, len(s.events))
	copy(events, s.events)
	return events
}

// findEvent は登録順の線形走査でイベントを探す
// 呼び出し元がロックを保持していること
func (s *TicketingService) findEvent(eventID string) *event.Event {
	for _, e := range s.events {
		if e.ID == eventID {
			return e
		}
	}
	return nil
}

type AddSeatInput struct {
	EventID    string
	SeatNumber string
	Section    string
	Kind       string
	Price      float64 // 0以下の場合は種別既定の基本料金
}

// AddSeat はイベントに座席を1件追加する
func (s *TicketingService) AddSeat(ctx context.Context, input AddSeatInput) (*seat.Seat, error) {
	kind, err := seat.ParseKind(input.Kind)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findEvent(input.EventID)
	if e == nil {
		return nil, event.ErrEventNotFound
	}

	se := newSeatForKind(kind, input.SeatNumber, input.Section, input.Price)
	if err := e.AddSeat(se); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, e.ID)
	return se, nil
}

type AddSeatBlockInput struct {
	EventID string
	Prefix  string
	Section string
	Kind    string
	Count   int
}

// AddSeatBlock は連番の座席をまとめて追加する（番号は Prefix1 .. PrefixN）
// 1件でも追加に失敗した場合はその時点で中断しエラーを返す
func (s *TicketingService) AddSeatBlock(ctx context.Context, input AddSeatBlockInput) ([]*seat.Seat, error) {
	kind, err := seat.ParseKind(input.Kind)
	if err != nil {
		return nil, err
	}
	if input.Count <= 0 {
		return nil, ErrInvalidSeatCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findEvent(input.EventID)
	if e == nil {
		return nil, event.ErrEventNotFound
	}

	seats := make([]*seat.Seat, 0, input.Count)
	for i := 1; i <= input.Count; i++ {
		num := fmt.Sprintf("%s%d", input.Prefix, i)
		se := newSeatForKind(kind, num, input.Section, 0)
		if err := e.AddSeat(se); err != nil {
			return nil, err
		}
		seats = append(seats, se)
	}
	s.invalidateCache(ctx, e.ID)
	return seats, nil
}

func newSeatForKind(kind seat.Kind, number, section string, price float64) *seat.Seat {
	if price > 0 {
		return seat.NewSeat(kind, number, section, price)
	}
	switch kind {
	case seat.KindVIP:
		return seat.NewVIPSeat(number, section)
	default:
		return seat.NewRegularSeat(number, section)
	}
}

type BookSeatsInput struct {
	EventID     string
	SeatNumbers []string
	Buyer       string
}

// BookSeats は座席を予約する
// 指定座席のいずれかが予約できない場合は一切の状態を変更せずエラーを返す
// （全席確保か無変更かのどちらかしか起こらない）
func (s *TicketingService) BookSeats(ctx context.Context, input BookSeatsInput) (*booking.Booking, error) {
	if input.Buyer == "" {
		return nil, booking.ErrBuyerRequired
	}
	if len(input.SeatNumbers) == 0 {
		return nil, booking.ErrSeatsRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findEvent(input.EventID)
	if e == nil {
		s.countBooking("not_found")
		return nil, event.ErrEventNotFound
	}

	seats, err := e.FindByNumbers(input.SeatNumbers)
	if err != nil {
		s.countBooking("not_found")
		return nil, err
	}

	// 検証: すべての座席が空席であること
	for _, se := range seats {
		if !se.IsAvailable() {
			s.countBooking("seat_unavailable")
			return nil, &SeatUnavailableError{SeatNumber: se.SeatNumber}
		}
	}

	// 確定: すべての座席を予約済みにする
	for i, se := range seats {
		if err := se.Book(); err != nil {
			for _, committed := range seats[:i] {
				committed.Release()
			}
			s.countBooking("error")
			return nil, err
		}
	}

	// 記録: 採番した予約を登録簿に載せる
	b := booking.NewBooking(s.idGen.NewID(), e.ID, seats, input.Buyer)
	if err := b.Validate(); err != nil {
		for _, se := range seats {
			se.Release()
		}
		s.countBooking("error")
		return nil, err
	}
	s.bookings[b.ID] = b

	s.invalidateCache(ctx, e.ID)
	s.countBooking("success")
	if s.metrics != nil {
		s.metrics.ActiveBookings.Inc()
	}

	logger.Info("予約を作成",
		zap.String("booking_id", b.ID),
		zap.String("event_id", e.ID),
		zap.Int("seats", len(seats)),
		zap.Float64("amount", b.Amount),
	)
	return b, nil
}

// CancelBooking は予約をキャンセルして座席を解放する
// 未知のIDおよびキャンセル済みの予約には何もしない（払い戻しの二重計上を防ぐ）
// 戻り値は実際にキャンセルされたかどうか
func (s *TicketingService) CancelBooking(ctx context.Context, bookingID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		logger.Debug("未知の予約IDのキャンセル要求", zap.String("booking_id", bookingID))
		s.countCancellation("noop")
		return false, nil
	}
	if b.IsCancelled() {
		s.countCancellation("noop")
		return false, nil
	}

	if err := b.Cancel(); err != nil {
		return false, err
	}

	s.invalidateCache(ctx, b.EventID)
	s.countCancellation("cancelled")
	if s.metrics != nil {
		s.metrics.ActiveBookings.Dec()
	}

	logger.Info("予約をキャンセル",
		zap.String("booking_id", b.ID),
		zap.String("event_id", b.EventID),
	)
	return true, nil
}

// GetBooking は予約IDから予約を取得する
func (s *TicketingService) GetBooking(ctx context.Context, bookingID string) (*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	return b, nil
}

// EventSummary はイベント1件分の稼働状況を表す
type EventSummary struct {
	EventID          string
	Name             string
	Venue            string
	Date             time.Time
	TotalSeats       int
	BookedSeats      int
	OccupancyPercent float64
}

// Summary は全イベントの稼働状況を登録順で返す（読み取り専用）
func (s *TicketingService) Summary(ctx context.Context) []EventSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]EventSummary, 0, len(s.events))
	for _, e := range s.events {
		summaries = append(summaries, EventSummary{
			EventID:          e.ID,
			Name:             e.Name,
			Venue:            e.Venue,
			Date:             e.Date,
			TotalSeats:       e.TotalSeats(),
			BookedSeats:      e.BookedSeatCount(),
			OccupancyPercent: e.OccupancyPercent(),
		})
	}
	return summaries
}

// AvailableSeatCount はイベントの空席数を返す
// キャッシュがあればキャッシュ優先で取得し、ミス時に再計算して保存する
func (s *TicketingService) AvailableSeatCount(ctx context.Context, eventID string) (int, error) {
	if s.cache != nil {
		count, err := s.cache.GetAvailableCount(ctx, eventID)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.String("event_id", eventID), zap.Int("count", count))
			return count, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	s.mu.Lock()
	e := s.findEvent(eventID)
	if e == nil {
		s.mu.Unlock()
		return 0, event.ErrEventNotFound
	}
	count := e.AvailableSeatCount()
	s.mu.Unlock()

	if s.cache != nil {
		if cacheErr := s.cache.SetAvailableCount(ctx, eventID, count, availabilityCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}
	return count, nil
}

// RefreshAvailability は全イベントの空席数を再計算してキャッシュに書き込む
// 戻り値は更新したイベント数
func (s *TicketingService) RefreshAvailability(ctx context.Context) (int, error) {
	if s.cache == nil {
		return 0, nil
	}

	s.mu.Lock()
	counts := make(map[string]int, len(s.events))
	for _, e := range s.events {
		counts[e.ID] = e.AvailableSeatCount()
	}
	s.mu.Unlock()

	refreshed := 0
	for eventID, count := range counts {
		if err := s.cache.SetAvailableCount(ctx, eventID, count, availabilityCacheTTL); err != nil {
			return refreshed, fmt.Errorf("空席数キャッシュの更新に失敗: %w", err)
		}
		refreshed++
	}
	return refreshed, nil
}

// invalidateCache はイベントの空席数キャッシュを無効化する
// 呼び出し元がロックを保持していてもよい（キャッシュはロック外のリソース）
func (s *TicketingService) invalidateCache(ctx context.Context, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.String("event_id", eventID), zap.Error(err))
	}
}

func (s *TicketingService) countBooking(status string) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(status).Inc()
	}
}

func (s *TicketingService) countCancellation(status string) {
	if s.metrics != nil {
		s.metrics.CancellationsTotal.WithLabelValues(status).Inc()
	}
}
