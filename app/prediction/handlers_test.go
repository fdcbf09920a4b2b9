package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/settle/app/api"
	"github.com/joefazee/settle/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) PlaceBet(ctx context.Context, marketID uuid.UUID, bettor string, req *PlaceBetRequest) (*BetResponse, error) {
	args := m.Called(ctx, marketID, bettor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*BetResponse), args.Error(1)
}

func (m *MockService) GetPosition(ctx context.Context, marketID uuid.UUID, owner string) (*PositionResponse, error) {
	args := m.Called(ctx, marketID, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PositionResponse), args.Error(1)
}

func (m *MockService) ListPositions(ctx context.Context, marketID uuid.UUID) ([]PositionResponse, error) {
	args := m.Called(ctx, marketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PositionResponse), args.Error(1)
}

func setupRouter(srv Service, caller string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if caller != "" {
			c.Set("identity", caller)
		}
	})
	h := NewHandler(srv)
	r.POST("/markets/:id/bets", h.PlaceBet)
	r.GET("/markets/:id/position", h.GetMyPosition)
	r.GET("/markets/:id/positions", h.ListPositions)
	return r
}

func send(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp api.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestHandler_PlaceBet(t *testing.T) {
	id := uuid.New()
	path := "/markets/" + id.String() + "/bets"

	t.Run("Success", func(t *testing.T) {
		srv := new(MockService)
		srv.On("PlaceBet", mock.Anything, id, "alice", &PlaceBetRequest{Outcome: "A", Amount: 100}).
			Return(&BetResponse{MarketID: id, Bettor: "alice", Outcome: "A", Amount: 100, Position: 100}, nil)

		w := send(setupRouter(srv, "alice"), http.MethodPost, path, `{"outcome":"A","amount":100}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		srv.AssertExpectations(t)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		w := send(setupRouter(new(MockService), ""), http.MethodPost, path, `{"outcome":"A","amount":100}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("InvalidMarketID", func(t *testing.T) {
		w := send(setupRouter(new(MockService), "alice"), http.MethodPost, "/markets/nope/bets", `{"outcome":"A","amount":100}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		for _, body := range []string{`{"outcome":"C","amount":100}`, `{"outcome":"A","amount":0}`, `{"amount":5}`} {
			w := send(setupRouter(new(MockService), "alice"), http.MethodPost, path, body)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
			assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w), body)
		}
	})

	t.Run("NegativeAmountRejected", func(t *testing.T) {
		w := send(setupRouter(new(MockService), "alice"), http.MethodPost, path, `{"outcome":"A","amount":-5}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ServiceErrors", func(t *testing.T) {
		tests := []struct {
			err    error
			status int
			code   string
		}{
			{models.ErrMarketNotActive, http.StatusConflict, "MARKET_NOT_ACTIVE"},
			{models.ErrBetTooSmall, http.StatusBadRequest, "BET_TOO_SMALL"},
			{models.ErrMarketNotFound, http.StatusNotFound, "MARKET_NOT_FOUND"},
			{models.ErrPlatformPaused, http.StatusServiceUnavailable, "PLATFORM_PAUSED"},
		}
		for _, tt := range tests {
			srv := new(MockService)
			srv.On("PlaceBet", mock.Anything, id, "alice", mock.Anything).Return(nil, tt.err)

			w := send(setupRouter(srv, "alice"), http.MethodPost, path, `{"outcome":"b","amount":10}`)
			assert.Equal(t, tt.status, w.Code, tt.code)
			assert.Equal(t, tt.code, errorCode(t, w))
		}
	})
}

func TestHandler_GetMyPosition(t *testing.T) {
	id := uuid.New()
	path := "/markets/" + id.String() + "/position"

	t.Run("Success", func(t *testing.T) {
		payout := uint64(396)
		srv := new(MockService)
		srv.On("GetPosition", mock.Anything, id, "alice").
			Return(&PositionResponse{MarketID: id, Owner: "alice", Outcome: "A", Amount: 100, PotentialPayout: &payout}, nil)

		w := send(setupRouter(srv, "alice"), http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp api.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, float64(396), data["potential_payout"])
	})

	t.Run("NotFound", func(t *testing.T) {
		srv := new(MockService)
		srv.On("GetPosition", mock.Anything, id, "bob").Return(nil, models.ErrPositionNotFound)

		w := send(setupRouter(srv, "bob"), http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_ListPositions(t *testing.T) {
	id := uuid.New()
	srv := new(MockService)
	srv.On("ListPositions", mock.Anything, id).Return([]PositionResponse{{Owner: "alice"}, {Owner: "bob"}}, nil)

	w := send(setupRouter(srv, "alice"), http.MethodGet, "/markets/"+id.String()+"/positions", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp api.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}
