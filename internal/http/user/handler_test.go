package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rcastellanos/taller/internal/auth"
	"github.com/rcastellanos/taller/internal/user"
)

func newTestHandler(t *testing.T) (*Handler, *user.MockRepository) {
	t.Helper()

	repo := user.NewMockRepository(gomock.NewController(t))
	authSvc := auth.NewService("test-secret", time.Hour)

	return NewHandler(user.NewService(repo), authSvc), repo
}

func TestListQueryFilters(t *testing.T) {
	h, repo := newTestHandler(t)

	r := chi.NewRouter()
	h.Routes(r)

	t.Run("RoleAndActive", func(t *testing.T) {
		repo.EXPECT().ListUsers(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter user.ListFilter) ([]*user.User, error) {
				require.NotNil(t, filter.Role)
				assert.Equal(t, user.RoleMechanic, *filter.Role)
				require.NotNil(t, filter.Active)
				assert.True(t, *filter.Active)
				return nil, nil
			})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?role=mechanic&active=true", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Unfiltered", func(t *testing.T) {
		repo.EXPECT().ListUsers(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter user.ListFilter) ([]*user.User, error) {
				assert.Nil(t, filter.Role)
				assert.Nil(t, filter.Active)
				return nil, nil
			})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ActiveFalse", func(t *testing.T) {
		repo.EXPECT().ListUsers(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter user.ListFilter) ([]*user.User, error) {
				require.NotNil(t, filter.Active)
				assert.False(t, *filter.Active)
				return nil, nil
			})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?active=false", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
