package inventory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rcastellanos/taller/internal/inventory"
)

func newTestHandler(t *testing.T) (chi.Router, *inventory.MockRepository) {
	t.Helper()

	repo := inventory.NewMockRepository(gomock.NewController(t))
	h := NewHandler(inventory.NewService(repo))

	r := chi.NewRouter()
	h.Routes(r)

	return r, repo
}

func TestListItemsQueryFilters(t *testing.T) {
	r, repo := newTestHandler(t)

	repo.EXPECT().ListItems(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, filter inventory.ListFilter) ([]*inventory.Item, error) {
			require.NotNil(t, filter.Active)
			assert.False(t, *filter.Active)
			assert.True(t, filter.LowStock)
			return nil, nil
		})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?active=false&low_stock=true", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateLaborHours(t *testing.T) {
	r, repo := newTestHandler(t)

	repo.EXPECT().CreateLabor(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, l *inventory.Labor) error {
			require.NotNil(t, l.EstimatedHours)
			assert.Equal(t, int64(150), *l.EstimatedHours)

			l.ID = uuid.New()

			return nil
		})

	body := `{"code":"SVC-001","name":"Oil change","default_price":2000,"estimated_hours":1.5}`

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/services", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"estimated_hours":"1.5"`)
}

func TestListLaborActiveFilter(t *testing.T) {
	r, repo := newTestHandler(t)

	repo.EXPECT().ListLabor(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, active *bool) ([]*inventory.Labor, error) {
			require.NotNil(t, active)
			assert.True(t, *active)
			return nil, nil
		})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/services?active=true", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
