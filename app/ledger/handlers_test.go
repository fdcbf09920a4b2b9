package ledger

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

func (m *MockService) GetAccount(ctx context.Context, id string) (*AccountResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AccountResponse), args.Error(1)
}

func (m *MockService) Credit(ctx context.Context, req *CreditRequest) (*TransferResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TransferResponse), args.Error(1)
}

func (m *MockService) History(ctx context.Context, id string, limit, offset int) ([]TransferResponse, error) {
	args := m.Called(ctx, id, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TransferResponse), args.Error(1)
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
	r.GET("/accounts/me", h.GetMyAccount)
	r.GET("/accounts/me/transfers", h.GetMyTransfers)
	r.POST("/accounts/credit", h.Credit)
	return r
}

func TestHandler_GetMyAccount(t *testing.T) {
	srv := new(MockService)
	srv.On("GetAccount", mock.Anything, "alice").Return(&AccountResponse{ID: "alice", Balance: 42}, nil)

	w := httptest.NewRecorder()
	setupRouter(srv, "alice").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accounts/me", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp api.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(42), data["balance"])
	srv.AssertExpectations(t)

	w = httptest.NewRecorder()
	setupRouter(srv, "").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accounts/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_GetMyTransfers(t *testing.T) {
	srv := new(MockService)
	srv.On("History", mock.Anything, "alice", 5, 10).Return([]TransferResponse{{ID: uuid.New(), Amount: 1}}, nil)

	w := httptest.NewRecorder()
	setupRouter(srv, "alice").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/accounts/me/transfers?limit=5&offset=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	srv.AssertExpectations(t)
}

func TestHandler_Credit(t *testing.T) {
	post := func(srv Service, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/accounts/credit", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(srv, "root").ServeHTTP(w, req)
		return w
	}

	t.Run("Success", func(t *testing.T) {
		srv := new(MockService)
		srv.On("Credit", mock.Anything, &CreditRequest{AccountID: "alice", Amount: 100}).
			Return(&TransferResponse{ToAccount: "alice", Amount: 100, Reason: models.TransferReasonCredit}, nil)

		w := post(srv, `{"account_id":"alice","amount":100}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		srv.AssertExpectations(t)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		srv := new(MockService)
		w := post(srv, `{"account_id":"vault:abc","amount":0}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp api.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		srv.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		w := post(new(MockService), `{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ServiceError", func(t *testing.T) {
		srv := new(MockService)
		srv.On("Credit", mock.Anything, mock.Anything).Return(nil, models.ErrInvalidAmount)

		w := post(srv, `{"account_id":"alice","amount":5}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
