package markets

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/settle/app/api"
	"github.com/joefazee/settle/internal/security"
	"github.com/joefazee/settle/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateMarket(ctx context.Context, caller string, req *CreateMarketRequest) (*MarketResponse, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MarketResponse), args.Error(1)
}

func (m *MockService) GetMarket(ctx context.Context, id uuid.UUID) (*MarketDetailResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MarketDetailResponse), args.Error(1)
}

func (m *MockService) CancelMarket(ctx context.Context, id uuid.UUID, caller string, admin bool, req *StatusChangeRequest) (*MarketResponse, error) {
	args := m.Called(ctx, id, caller, admin, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MarketResponse), args.Error(1)
}

func (m *MockService) DisputeMarket(ctx context.Context, id uuid.UUID, caller string, admin bool, req *StatusChangeRequest) (*MarketResponse, error) {
	args := m.Called(ctx, id, caller, admin, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MarketResponse), args.Error(1)
}

func setupRouter(srv Service, caller string, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if caller != "" {
			c.Set("identity", caller)
			c.Set("roles", roles)
		}
	})
	h := NewHandler(srv)
	r.POST("/markets", h.CreateMarket)
	r.GET("/markets/:id", h.GetMarket)
	r.POST("/markets/:id/cancel", h.CancelMarket)
	r.POST("/markets/:id/dispute", h.DisputeMarket)
	return r
}

func send(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *api.ErrorInfo {
	t.Helper()
	var resp api.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestHandler_CreateMarket(t *testing.T) {
	deadline := time.Date(2030, 2, 1, 0, 0, 0, 0, time.UTC)
	body := `{"title":"Rain?","outcome_a":"Yes","outcome_b":"No","oracle":"oracle","resolution_deadline":"2030-02-01T00:00:00Z"}`

	t.Run("Success", func(t *testing.T) {
		srv := new(MockService)
		srv.On("CreateMarket", mock.Anything, "creator", mock.MatchedBy(func(r *CreateMarketRequest) bool {
			return r.Title == "Rain?" && r.Oracle == "oracle" && r.ResolutionDeadline.Equal(deadline)
		})).Return(&MarketResponse{ID: uuid.New(), Status: models.MarketStatusActive}, nil)

		w := send(setupRouter(srv, "creator"), http.MethodPost, "/markets", body)
		assert.Equal(t, http.StatusCreated, w.Code)
		srv.AssertExpectations(t)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		w := send(setupRouter(new(MockService), ""), http.MethodPost, "/markets", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		w := send(setupRouter(new(MockService), "creator"), http.MethodPost, "/markets", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		w := send(setupRouter(new(MockService), "creator"), http.MethodPost, "/markets", `{"title":"Rain?","oracle":"vault:x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Code)
	})

	t.Run("SameOutcomeLabels", func(t *testing.T) {
		same := `{"title":"Rain?","outcome_a":"Yes","outcome_b":" yes","oracle":"oracle","resolution_deadline":"2030-02-01T00:00:00Z"}`
		w := send(setupRouter(new(MockService), "creator"), http.MethodPost, "/markets", same)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "must differ from outcome_a", decodeError(t, w).Details.(map[string]interface{})["outcome_b"])
	})

	t.Run("BlankTitle", func(t *testing.T) {
		blank := `{"title":"   ","outcome_a":"Yes","outcome_b":"No","oracle":"oracle","resolution_deadline":"2030-02-01T00:00:00Z"}`
		w := send(setupRouter(new(MockService), "creator"), http.MethodPost, "/markets", blank)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Details, "title")
	})

	t.Run("Conflict", func(t *testing.T) {
		srv := new(MockService)
		srv.On("CreateMarket", mock.Anything, "creator", mock.Anything).Return(nil, models.ErrMarketExists)

		w := send(setupRouter(srv, "creator"), http.MethodPost, "/markets", body)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "MARKET_EXISTS", decodeError(t, w).Code)
	})

	t.Run("Paused", func(t *testing.T) {
		srv := new(MockService)
		srv.On("CreateMarket", mock.Anything, "creator", mock.Anything).Return(nil, models.ErrPlatformPaused)

		w := send(setupRouter(srv, "creator"), http.MethodPost, "/markets", body)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHandler_GetMarket(t *testing.T) {
	id := uuid.New()

	t.Run("Success", func(t *testing.T) {
		srv := new(MockService)
		srv.On("GetMarket", mock.Anything, id).Return(&MarketDetailResponse{
			MarketResponse:    MarketResponse{ID: id},
			StakeVaultBalance: 400,
		}, nil)

		w := send(setupRouter(srv, "alice"), http.MethodGet, "/markets/"+id.String(), "")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp api.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, float64(400), data["stake_vault_balance"])
		assert.Equal(t, id.String(), data["id"])
	})

	t.Run("InvalidID", func(t *testing.T) {
		w := send(setupRouter(new(MockService), "alice"), http.MethodGet, "/markets/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		srv := new(MockService)
		srv.On("GetMarket", mock.Anything, id).Return(nil, models.ErrMarketNotFound)

		w := send(setupRouter(srv, "alice"), http.MethodGet, "/markets/"+id.String(), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandler_StatusChanges(t *testing.T) {
	id := uuid.New()
	reason := &StatusChangeRequest{Reason: "wrong source"}

	t.Run("CancelAsAdmin", func(t *testing.T) {
		srv := new(MockService)
		srv.On("CancelMarket", mock.Anything, id, "ops", true, reason).
			Return(&MarketResponse{ID: id, Status: models.MarketStatusCancelled}, nil)

		w := send(setupRouter(srv, "ops", security.RoleAdmin), http.MethodPost, "/markets/"+id.String()+"/cancel", `{"reason":"wrong source"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		srv.AssertExpectations(t)
	})

	t.Run("CancelForbidden", func(t *testing.T) {
		srv := new(MockService)
		srv.On("CancelMarket", mock.Anything, id, "mallory", false, reason).Return(nil, models.ErrNotAuthority)

		w := send(setupRouter(srv, "mallory"), http.MethodPost, "/markets/"+id.String()+"/cancel", `{"reason":"wrong source"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "NOT_MARKET_AUTHORITY", decodeError(t, w).Code)
	})

	t.Run("DisputeMissingReason", func(t *testing.T) {
		w := send(setupRouter(new(MockService), "oracle"), http.MethodPost, "/markets/"+id.String()+"/dispute", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DisputeInvalidTransition", func(t *testing.T) {
		srv := new(MockService)
		srv.On("DisputeMarket", mock.Anything, id, "oracle", false, reason).Return(nil, models.ErrInvalidTransition)

		w := send(setupRouter(srv, "oracle"), http.MethodPost, "/markets/"+id.String()+"/dispute", `{"reason":"wrong source"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
