package vehicle

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCreate(t *testing.T) {
	params := CreateParams{
		PlateNumber: "ABC-1234",
		Brand:       "Toyota",
		Model:       "Corolla",
		Year:        2019,
	}

	t.Run("Success", func(t *testing.T) {
		repo := NewMockRepository(gomock.NewController(t))
		svc := NewService(repo)

		repo.EXPECT().PlateExists(gomock.Any(), "ABC-1234").Return(false, nil)
		repo.EXPECT().CreateVehicle(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, v *Vehicle) error {
				v.ID = uuid.New()
				return nil
			})

		v, err := svc.Create(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, "ABC-1234", v.PlateNumber)
		assert.NotEqual(t, uuid.Nil, v.ID)
	})

	t.Run("DuplicatePlate", func(t *testing.T) {
		repo := NewMockRepository(gomock.NewController(t))
		svc := NewService(repo)

		repo.EXPECT().PlateExists(gomock.Any(), "ABC-1234").Return(true, nil)

		_, err := svc.Create(context.Background(), params)
		assert.ErrorIs(t, err, ErrPlateTaken)
	})
}

func TestAssociate(t *testing.T) {
	repo := NewMockRepository(gomock.NewController(t))
	svc := NewService(repo)

	id := uuid.New()

	err := svc.Associate(context.Background(), id, uuid.Nil)
	assert.ErrorIs(t, err, ErrMissingClient)

	clientID := uuid.New()
	repo.EXPECT().SetClient(gomock.Any(), id, clientID).Return(nil)

	require.NoError(t, svc.Associate(context.Background(), id, clientID))
}
