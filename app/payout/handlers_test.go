package payout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/joefazee/settle/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ClaimWinnings(ctx context.Context, marketID uuid.UUID, claimant string) (*ClaimResponse, error) {
	args := m.Called(ctx, marketID, claimant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ClaimResponse), args.Error(1)
}

func (m *MockService) ClaimRefund(ctx context.Context, marketID uuid.UUID, claimant string) (*ClaimResponse, error) {
	args := m.Called(ctx, marketID, claimant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ClaimResponse), args.Error(1)
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
	r.POST("/markets/:id/claim", h.ClaimWinnings)
	r.POST("/markets/:id/refund", h.ClaimRefund)
	return r
}

func post(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
	return w
}

func TestHandler_ClaimWinnings(t *testing.T) {
	id := uuid.New()
	path := "/markets/" + id.String() + "/claim"

	t.Run("Success", func(t *testing.T) {
		srv := new(MockService)
		srv.On("ClaimWinnings", mock.Anything, id, "alice").
			Return(&ClaimResponse{MarketID: id, Claimant: "alice", Kind: ClaimKindWinnings, Amount: 396}, nil)

		w := post(setupRouter(srv, "alice"), path)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"amount":396`)
		srv.AssertExpectations(t)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		w := post(setupRouter(new(MockService), ""), path)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		w := post(setupRouter(new(MockService), "alice"), "/markets/42/claim")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ServiceErrors", func(t *testing.T) {
		tests := []struct {
			err    error
			status int
		}{
			{models.ErrAlreadyClaimed, http.StatusUnprocessableEntity},
			{models.ErrNotAWinner, http.StatusUnprocessableEntity},
			{models.ErrMarketNotResolved, http.StatusConflict},
			{models.ErrPositionNotFound, http.StatusNotFound},
			{models.ErrInsufficientVaultFunds, http.StatusInternalServerError},
		}
		for _, tt := range tests {
			srv := new(MockService)
			srv.On("ClaimWinnings", mock.Anything, id, "alice").Return(nil, tt.err)

			w := post(setupRouter(srv, "alice"), path)
			assert.Equal(t, tt.status, w.Code, tt.err.Error())
		}
	})
}

func TestHandler_ClaimRefund(t *testing.T) {
	id := uuid.New()
	path := "/markets/" + id.String() + "/refund"

	srv := new(MockService)
	srv.On("ClaimRefund", mock.Anything, id, "bob").
		Return(&ClaimResponse{MarketID: id, Claimant: "bob", Kind: ClaimKindRefund, Amount: 300}, nil)

	w := post(setupRouter(srv, "bob"), path)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"refund"`)

	srv = new(MockService)
	srv.On("ClaimRefund", mock.Anything, id, "bob").Return(nil, models.ErrMarketNotCancelled)
	w = post(setupRouter(srv, "bob"), path)
	assert.Equal(t, http.StatusConflict, w.Code)
}
