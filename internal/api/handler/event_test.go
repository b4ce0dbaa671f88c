package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-ticket-booking/internal/application"
	"github.com/sanosuguru/go-ticket-booking/internal/domain/event"
	"github.com/sanosuguru/go-ticket-booking/internal/domain/seat"
)

// MockEventService はEventServiceInterfaceのモック
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) ListEvents(ctx context.Context) []*event.Event {
	args := m.Called(ctx)
	return args.Get(0).([]*event.Event)
}

func (m *MockEventService) SearchEvent(ctx context.Context, eventID string) (*event.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventService) AddSeat(ctx context.Context, input application.AddSeatInput) (*seat.Seat, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seat.Seat), args.Error(1)
}

func (m *MockEventService) AddSeatBlock(ctx context.Context, input application.AddSeatBlockInput) ([]*seat.Seat, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *MockEventService) AvailableSeatCount(ctx context.Context, eventID string) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func newTestConcert(t *testing.T) *event.Event {
	t.Helper()
	e := event.NewEvent("E001", "ロックコンサート", time.Date(2025, 10, 10, 18, 0, 0, 0, time.UTC), "スタジアム")
	require.NoError(t, e.AddSeat(seat.NewRegularSeat("R1", "A")))
	require.NoError(t, e.AddSeat(seat.NewVIPSeat("V1", "B")))
	return e
}

func TestEventHandler_Create(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常にイベントを作成できる", func(t *testing.T) {
		mockService := new(MockEventService)
		expected := event.NewEvent("E001", "ロックコンサート", time.Now(), "スタジアム")
		mockService.On("CreateEvent", mock.Anything, mock.AnythingOfType("application.CreateEventInput")).
			Return(expected, nil)

		handler := NewEventHandler(mockService)

		reqBody := `{"id": "E001", "name": "ロックコンサート", "date": "2025-10-10T18:00:00+09:00", "venue": "スタジアム"}`
		req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp EventResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "E001", resp.ID)
		assert.Equal(t, "ロックコンサート", resp.Name)

		mockService.AssertExpectations(t)
	})

	t.Run("名前なしはバリデーションエラー", func(t *testing.T) {
		mockService := new(MockEventService)
		handler := NewEventHandler(mockService)

		reqBody := `{"date": "2025-10-10T18:00:00+09:00"}`
		req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})

	t.Run("不正な日付形式はエラー", func(t *testing.T) {
		mockService := new(MockEventService)
		handler := NewEventHandler(mockService)

		reqBody := `{"name": "ライブ", "date": "2025-10-10"}`
		req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})

	t.Run("イベントIDの重複は409", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("CreateEvent", mock.Anything, mock.Anything).
			Return(nil, application.ErrDuplicateEventID)
		handler := NewEventHandler(mockService)

		reqBody := `{"id": "E001", "name": "ライブ", "date": "2025-10-10T18:00:00+09:00"}`
		req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.Create(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})
}

func TestEventHandler_List(t *testing.T) {
	e := NewTestEcho()

	t.Run("登録順にイベントを返す", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("ListEvents", mock.Anything).Return([]*event.Event{
			newTestConcert(t),
			event.NewEvent("E002", "ジャズライブ", time.Now(), "ホール"),
		})
		handler := NewEventHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.List(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []EventResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, "E001", resp[0].ID)
		assert.Equal(t, "E002", resp[1].ID)
	})

	t.Run("イベントがなければ空配列を返す", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("ListEvents", mock.Anything).Return([]*event.Event{})
		handler := NewEventHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.List(c)

		require.NoError(t, err)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestEventHandler_GetByID(t *testing.T) {
	e := NewTestEcho()

	t.Run("イベントを取得できる", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("SearchEvent", mock.Anything, "E001").Return(newTestConcert(t), nil)
		handler := NewEventHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/events/E001", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("E001")

		err := handler.GetByID(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp EventResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.TotalSeats)
		assert.Equal(t, 0, resp.BookedSeats)
	})

	t.Run("未知のイベントは404", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("SearchEvent", mock.Anything, "nope").Return(nil, event.ErrEventNotFound)
		handler := NewEventHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/events/nope", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("nope")

		err := handler.GetByID(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}

func TestEventHandler_GetSeats(t *testing.T) {
	e := NewTestEcho()

	t.Run("クエリなしで全席を返す", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("SearchEvent", mock.Anything, "E001").Return(newTestConcert(t), nil)
		handler := NewEventHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/events/E001/seats", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("E001")

		err := handler.GetSeats(c)

		require.NoError(t, err)
		var resp []SeatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
	})

	t.Run("type指定で種別の空席のみ返す", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("SearchEvent", mock.Anything, "E001").Return(newTestConcert(t), nil)
		handler := NewEventHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/events/E001/seats?type=vip", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("E001")

		err := handler.GetSeats(c)

		require.NoError(t, err)
		var resp []SeatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "V1", resp[0].SeatNumber)
		assert.InDelta(t, 240.0, resp[0].Charge, 1e-9)
	})

	t.Run("count指定で件数を制限して返す", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("SearchEvent", mock.Anything, "E001").Return(newTestConcert(t), nil)
		handler := NewEventHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/events/E001/seats?count=1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("E001")

		err := handler.GetSeats(c)

		require.NoError(t, err)
		var resp []SeatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "R1", resp[0].SeatNumber)
	})

	t.Run("不正なcountは400", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("SearchEvent", mock.Anything, "E001").Return(newTestConcert(t), nil)
		handler := NewEventHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/events/E001/seats?count=abc", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("E001")

		err := handler.GetSeats(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})
}

func TestEventHandler_AddSeat(t *testing.T) {
	e := NewTestEcho()

	t.Run("座席を追加できる", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("AddSeat", mock.Anything, mock.AnythingOfType("application.AddSeatInput")).
			Return(seat.NewVIPSeat("V1", "B"), nil)
		handler := NewEventHandler(mockService)

		reqBody := `{"seat_number": "V1", "section": "B", "kind": "VIP"}`
		req := httptest.NewRequest(http.MethodPost, "/events/E001/seats", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("E001")

		err := handler.AddSeat(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp SeatResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "VIP", resp.Kind)
	})

	t.Run("座席番号の重複は409", func(t *testing.T) {
		mockService := new(MockEventService)
		mockService.On("AddSeat", mock.Anything, mock.Anything).
			Return(nil, event.ErrDuplicateSeatNumber)
		handler := NewEventHandler(mockService)

		reqBody := `{"seat_number": "V1", "kind": "VIP"}`
		req := httptest.NewRequest(http.MethodPost, "/events/E001/seats", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("E001")

		err := handler.AddSeat(c)

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusConflict, he.Code)
	})
}

func TestEventHandler_AddSeatBlock(t *testing.T) {
	e := NewTestEcho()

	mockService := new(MockEventService)
	seats := []*seat.Seat{
		seat.NewRegularSeat("R1", "A"),
		seat.NewRegularSeat("R2", "A"),
	}
	mockService.On("AddSeatBlock", mock.Anything, mock.AnythingOfType("application.AddSeatBlockInput")).
		Return(seats, nil)
	handler := NewEventHandler(mockService)

	reqBody := `{"prefix": "R", "section": "A", "kind": "Regular", "count": 2}`
	req := httptest.NewRequest(http.MethodPost, "/events/E001/seats/block", strings.NewReader(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("E001")

	err := handler.AddSeatBlock(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp []SeatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestEventHandler_CountAvailable(t *testing.T) {
	e := NewTestEcho()

	mockService := new(MockEventService)
	mockService.On("AvailableSeatCount", mock.Anything, "E001").Return(6, nil)
	handler := NewEventHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/events/E001/seats/available", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("E001")

	err := handler.CountAvailable(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count": 6}`, rec.Body.String())
}
