package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rcastellanos/taller/internal/user"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    user.CreateParams
		setupMock func(m *user.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: user.CreateParams{
				Username:     "jperez",
				Email:        "jperez@example.com",
				PasswordHash: "$2a$10$hash",
				FirstName:    "Juan",
				LastName:     "Perez",
				Role:         user.RoleMechanic,
			},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					UsernameOrEmailTaken(gomock.Any(), "jperez", "jperez@example.com").
					Return(false, nil)
				m.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *user.User) error {
						u.ID = uuid.New()
						u.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "DuplicateUsername",
			params: user.CreateParams{
				Username: "jperez",
				Email:    "jperez@example.com",
			},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					UsernameOrEmailTaken(gomock.Any(), "jperez", "jperez@example.com").
					Return(true, nil)
			},
			wantErr: user.ErrAlreadyExists,
		},
		{
			name:   "RepoError",
			params: user.CreateParams{Username: "x", Email: "x@example.com"},
			setupMock: func(m *user.MockRepository) {
				m.EXPECT().
					UsernameOrEmailTaken(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(false, errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := user.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := user.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.True(t, got.Active)
		})
	}
}

func TestService_Deactivate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := user.NewMockRepository(ctrl)
	svc := user.NewService(repo)

	id := uuid.New()
	repo.EXPECT().SetActive(gomock.Any(), id, false).Return(nil)

	require.NoError(t, svc.Deactivate(context.Background(), id))
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, user.RoleAdmin.Valid())
	assert.True(t, user.RoleClient.Valid())
	assert.False(t, user.Role("superuser").Valid())
}
