package document

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rcastellanos/taller/internal/auth"
	"github.com/rcastellanos/taller/internal/document"
	"github.com/rcastellanos/taller/internal/http/middleware"
)

// newTestRouter mounts the work order routes behind real token
// authentication so the claims-dependent list scoping runs.
func newTestRouter(t *testing.T) (chi.Router, *document.MockRepository, string) {
	t.Helper()

	repo := document.NewMockRepository(gomock.NewController(t))
	svc := document.NewService(repo, decimal.RequireFromString("0.12"))

	authSvc := auth.NewService("test-secret", time.Hour)

	token, err := authSvc.GenerateToken(uuid.New(), "boss", "admin")
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.Authenticate(authSvc))
	r.Route("/work-orders", NewHandler(svc, nil).WorkOrderRoutes)

	return r, repo, token
}

func TestListWorkOrdersStatusFilter(t *testing.T) {
	r, repo, token := newTestRouter(t)

	t.Run("Filtered", func(t *testing.T) {
		repo.EXPECT().ListDocuments(gomock.Any(), document.KindWorkOrder, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ document.Kind, filter document.ListFilter) ([]*document.Document, error) {
				require.NotNil(t, filter.Status)
				assert.Equal(t, document.StatusPending, *filter.Status)
				assert.Nil(t, filter.ClientID)
				assert.Nil(t, filter.MechanicID)
				return nil, nil
			})

		req := httptest.NewRequest(http.MethodGet, "/work-orders?status=pending", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Unfiltered", func(t *testing.T) {
		repo.EXPECT().ListDocuments(gomock.Any(), document.KindWorkOrder, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ document.Kind, filter document.ListFilter) ([]*document.Document, error) {
				assert.Nil(t, filter.Status)
				return nil, nil
			})

		req := httptest.NewRequest(http.MethodGet, "/work-orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
