package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/model"
)

// MockRoleRepository is a mock implementation of RoleRepository.
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) Create(ctx context.Context, role *model.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockRoleRepository) List(ctx context.Context) ([]model.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Role), args.Error(1)
}

func (m *MockRoleRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRoleRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func adminActor() *model.User {
	return &model.User{
		ID: uuid.New(),
		Role: model.Role{
			ID:          uuid.New(),
			Level:       1,
			HasPassword: true,
			UserView:    true,
			UserCreate:  true,
			UserEdit:    true,
			UserDelete:  true,
		},
	}
}

func strptr(s string) *string { return &s }

func TestUserService_Create(t *testing.T) {
	actor := adminActor()
	workerRole := &model.Role{ID: uuid.New(), Level: 100, HasPassword: false}
	managerRole := &model.Role{ID: uuid.New(), Level: 10, HasPassword: true}
	peerRole := &model.Role{ID: uuid.New(), Level: 1, HasPassword: true}

	tests := []struct {
		name          string
		actor         *model.User
		input         NewUserInput
		setupMock     func(*MockUserRepository, *MockRoleRepository)
		expectedError error
	}{
		{
			name:  "otp user without password",
			actor: actor,
			input: NewUserInput{
				FirstName: "Jo",
				LastName:  "Field",
				Email:     "Jo@Example.com",
				RoleID:    workerRole.ID,
			},
			setupMock: func(mUsers *MockUserRepository, mRoles *MockRoleRepository) {
				mUsers.On("ExistsByEmail", mock.Anything, "jo@example.com").Return(false, nil)
				mRoles.On("FindByID", mock.Anything, workerRole.ID).Return(workerRole, nil)
				mUsers.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
				mUsers.On("FindByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(&model.User{Email: "jo@example.com", Role: *workerRole}, nil)
			},
		},
		{
			name:  "password role requires a password",
			actor: actor,
			input: NewUserInput{
				FirstName: "Sam",
				LastName:  "Lead",
				Email:     "sam@example.com",
				RoleID:    managerRole.ID,
			},
			setupMock: func(mUsers *MockUserRepository, mRoles *MockRoleRepository) {
				mUsers.On("ExistsByEmail", mock.Anything, "sam@example.com").Return(false, nil)
				mRoles.On("FindByID", mock.Anything, managerRole.ID).Return(managerRole, nil)
			},
			expectedError: apperrors.ErrNoPasswordSupplied,
		},
		{
			name:  "email already taken",
			actor: actor,
			input: NewUserInput{Email: "taken@example.com", RoleID: workerRole.ID},
			setupMock: func(mUsers *MockUserRepository, mRoles *MockRoleRepository) {
				mUsers.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:  "cannot assign a role at own level",
			actor: actor,
			input: NewUserInput{Email: "peer@example.com", RoleID: peerRole.ID, Password: strptr("secret")},
			setupMock: func(mUsers *MockUserRepository, mRoles *MockRoleRepository) {
				mUsers.On("ExistsByEmail", mock.Anything, "peer@example.com").Return(false, nil)
				mRoles.On("FindByID", mock.Anything, peerRole.ID).Return(peerRole, nil)
			},
			expectedError: apperrors.ErrMissingPermission,
		},
		{
			name: "actor lacks the create capability",
			actor: &model.User{
				ID:   uuid.New(),
				Role: model.Role{Level: 50, UserView: true},
			},
			input:         NewUserInput{Email: "jo@example.com", RoleID: workerRole.ID},
			setupMock:     func(mUsers *MockUserRepository, mRoles *MockRoleRepository) {},
			expectedError: apperrors.ErrMissingPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			mockRoles := new(MockRoleRepository)
			tt.setupMock(mockUsers, mockRoles)

			service := NewUserService(mockUsers, mockRoles)
			user, err := service.Create(context.Background(), tt.actor, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
			}

			mockUsers.AssertExpectations(t)
			mockRoles.AssertExpectations(t)
		})
	}
}

func TestUserService_CreateStoresNoPasswordForOTPRole(t *testing.T) {
	actor := adminActor()
	workerRole := &model.Role{ID: uuid.New(), Level: 100, HasPassword: false}

	mockUsers := new(MockUserRepository)
	mockRoles := new(MockRoleRepository)
	mockUsers.On("ExistsByEmail", mock.Anything, "jo@example.com").Return(false, nil)
	mockRoles.On("FindByID", mock.Anything, workerRole.ID).Return(workerRole, nil)

	var created *model.User
	mockUsers.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*model.User) }).
		Return(nil)
	mockUsers.On("FindByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(&model.User{}, nil)

	service := NewUserService(mockUsers, mockRoles)
	// A supplied password is discarded when the role is passwordless.
	_, err := service.Create(context.Background(), actor, NewUserInput{
		Email:    "jo@example.com",
		RoleID:   workerRole.ID,
		Password: strptr("ignored"),
	})
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Nil(t, created.Password)
}

func TestUserService_Update(t *testing.T) {
	actor := adminActor()
	lowerRole := model.Role{ID: uuid.New(), Level: 100}
	assignable := &model.Role{ID: uuid.New(), Level: 50}

	subordinate := &model.User{ID: uuid.New(), Role: lowerRole}
	peer := &model.User{ID: uuid.New(), Role: model.Role{ID: uuid.New(), Level: 1}}

	tests := []struct {
		name          string
		actor         *model.User
		input         UpdateUserInput
		setupMock     func(*MockUserRepository, *MockRoleRepository)
		expectedError error
	}{
		{
			name:  "update subordinate fields",
			actor: actor,
			input: UpdateUserInput{ID: subordinate.ID, FirstName: strptr("New")},
			setupMock: func(mUsers *MockUserRepository, mRoles *MockRoleRepository) {
				mUsers.On("FindByID", mock.Anything, subordinate.ID).Return(subordinate, nil)
				mUsers.On("UpdateFields", mock.Anything, subordinate.ID, map[string]interface{}{"first_name": "New"}).Return(int64(1), nil)
			},
		},
		{
			name:  "reassign subordinate role",
			actor: actor,
			input: UpdateUserInput{ID: subordinate.ID, RoleID: &assignable.ID},
			setupMock: func(mUsers *MockUserRepository, mRoles *MockRoleRepository) {
				mUsers.On("FindByID", mock.Anything, subordinate.ID).Return(subordinate, nil)
				mRoles.On("FindByID", mock.Anything, assignable.ID).Return(assignable, nil)
				mUsers.On("UpdateFields", mock.Anything, subordinate.ID, map[string]interface{}{"role_id": assignable.ID}).Return(int64(1), nil)
			},
		},
		{
			name:  "self edit of profile fields needs no capability",
			actor: &model.User{ID: actor.ID, Role: model.Role{Level: 100}},
			input: UpdateUserInput{ID: actor.ID, Phone: strptr("555-0100")},
			setupMock: func(mUsers *MockUserRepository, mRoles *MockRoleRepository) {
				self := &model.User{ID: actor.ID, Role: model.Role{Level: 100}}
				mUsers.On("FindByID", mock.Anything, actor.ID).Return(self, nil)
				mUsers.On("UpdateFields", mock.Anything, actor.ID, map[string]interface{}{"phone": "555-0100"}).Return(int64(1), nil)
			},
		},
		{
			name:  "self role change always rejected",
			actor: actor,
			input: UpdateUserInput{ID: actor.ID, RoleID: &assignable.ID},
			setupMock: func(mUsers *MockUserRepository, mRoles *MockRoleRepository) {
				mUsers.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
			},
			expectedError: apperrors.ErrMissingPermission,
		},
		{
			name:  "peer target blocked by hierarchy",
			actor: actor,
			input: UpdateUserInput{ID: peer.ID, FirstName: strptr("New")},
			setupMock: func(mUsers *MockUserRepository, mRoles *MockRoleRepository) {
				mUsers.On("FindByID", mock.Anything, peer.ID).Return(peer, nil)
			},
			expectedError: apperrors.ErrMissingPermission,
		},
		{
			name:          "no fields to update",
			actor:         actor,
			input:         UpdateUserInput{ID: subordinate.ID},
			setupMock: func(mUsers *MockUserRepository, mRoles *MockRoleRepository) {
				mUsers.On("FindByID", mock.Anything, subordinate.ID).Return(subordinate, nil)
			},
			expectedError: apperrors.ErrNoFieldsToUpdate,
		},
		{
			name:  "target vanished between read and write",
			actor: actor,
			input: UpdateUserInput{ID: subordinate.ID, FirstName: strptr("New")},
			setupMock: func(mUsers *MockUserRepository, mRoles *MockRoleRepository) {
				mUsers.On("FindByID", mock.Anything, subordinate.ID).Return(subordinate, nil)
				mUsers.On("UpdateFields", mock.Anything, subordinate.ID, mock.Anything).Return(int64(0), nil)
			},
			expectedError: gorm.ErrRecordNotFound,
		},
		{
			name: "no edit capability and not self",
			actor: &model.User{
				ID:   uuid.New(),
				Role: model.Role{Level: 1, UserView: true},
			},
			input:         UpdateUserInput{ID: subordinate.ID, FirstName: strptr("New")},
			setupMock:     func(mUsers *MockUserRepository, mRoles *MockRoleRepository) {},
			expectedError: apperrors.ErrMissingPermission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			mockRoles := new(MockRoleRepository)
			tt.setupMock(mockUsers, mockRoles)

			service := NewUserService(mockUsers, mockRoles)
			err := service.Update(context.Background(), tt.actor, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			mockUsers.AssertExpectations(t)
			mockRoles.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdatePasswordTracksRole(t *testing.T) {
	actor := adminActor()
	otpRole := model.Role{ID: uuid.New(), Level: 100, HasPassword: false}
	passwordRole := &model.Role{ID: uuid.New(), Level: 50, HasPassword: true}

	t.Run("password rejected on an otp account", func(t *testing.T) {
		target := &model.User{ID: uuid.New(), Role: otpRole}
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, target.ID).Return(target, nil)

		service := NewUserService(mockUsers, new(MockRoleRepository))
		err := service.Update(context.Background(), actor, UpdateUserInput{
			ID:       target.ID,
			Password: strptr("secret"),
		})
		assert.ErrorIs(t, err, apperrors.ErrPasswordNotAllowed)
		mockUsers.AssertExpectations(t)
	})

	t.Run("move to password role requires a password", func(t *testing.T) {
		target := &model.User{ID: uuid.New(), Role: otpRole}
		mockUsers := new(MockUserRepository)
		mockRoles := new(MockRoleRepository)
		mockUsers.On("FindByID", mock.Anything, target.ID).Return(target, nil)
		mockRoles.On("FindByID", mock.Anything, passwordRole.ID).Return(passwordRole, nil)

		service := NewUserService(mockUsers, mockRoles)
		err := service.Update(context.Background(), actor, UpdateUserInput{
			ID:     target.ID,
			RoleID: &passwordRole.ID,
		})
		assert.ErrorIs(t, err, apperrors.ErrNoPasswordSupplied)
	})

	t.Run("move to password role with a password supplied", func(t *testing.T) {
		target := &model.User{ID: uuid.New(), Role: otpRole}
		mockUsers := new(MockUserRepository)
		mockRoles := new(MockRoleRepository)
		mockUsers.On("FindByID", mock.Anything, target.ID).Return(target, nil)
		mockRoles.On("FindByID", mock.Anything, passwordRole.ID).Return(passwordRole, nil)
		mockUsers.On("UpdateFields", mock.Anything, target.ID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			_, ok := fields["password"]
			return ok && fields["role_id"] == passwordRole.ID
		})).Return(int64(1), nil)

		service := NewUserService(mockUsers, mockRoles)
		err := service.Update(context.Background(), actor, UpdateUserInput{
			ID:       target.ID,
			RoleID:   &passwordRole.ID,
			Password: strptr("secret"),
		})
		assert.NoError(t, err)
		mockUsers.AssertExpectations(t)
	})

	t.Run("move to otp role clears the stored hash", func(t *testing.T) {
		hash := "$argon2id$stored"
		target := &model.User{ID: uuid.New(), Role: *passwordRole, Password: &hash}
		mockUsers := new(MockUserRepository)
		mockRoles := new(MockRoleRepository)
		mockUsers.On("FindByID", mock.Anything, target.ID).Return(target, nil)
		mockRoles.On("FindByID", mock.Anything, otpRole.ID).Return(&otpRole, nil)
		mockUsers.On("UpdateFields", mock.Anything, target.ID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			cleared, ok := fields["password"]
			return ok && cleared == nil && fields["role_id"] == otpRole.ID
		})).Return(int64(1), nil)

		service := NewUserService(mockUsers, mockRoles)
		err := service.Update(context.Background(), actor, UpdateUserInput{
			ID:     target.ID,
			RoleID: &otpRole.ID,
		})
		assert.NoError(t, err)
		mockUsers.AssertExpectations(t)
	})
}

func TestUserService_Delete(t *testing.T) {
	actor := adminActor()
	subordinate := &model.User{ID: uuid.New(), Role: model.Role{Level: 100}}
	peer := &model.User{ID: uuid.New(), Role: model.Role{Level: 1}}

	t.Run("delete subordinate", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, subordinate.ID).Return(subordinate, nil)
		mockUsers.On("Delete", mock.Anything, subordinate.ID).Return(int64(1), nil)

		service := NewUserService(mockUsers, new(MockRoleRepository))
		assert.NoError(t, service.Delete(context.Background(), actor, subordinate.ID))
		mockUsers.AssertExpectations(t)
	})

	t.Run("peer blocked by hierarchy", func(t *testing.T) {
		mockUsers := new(MockUserRepository)
		mockUsers.On("FindByID", mock.Anything, peer.ID).Return(peer, nil)

		service := NewUserService(mockUsers, new(MockRoleRepository))
		err := service.Delete(context.Background(), actor, peer.ID)
		assert.ErrorIs(t, err, apperrors.ErrMissingPermission)
	})

	t.Run("missing capability", func(t *testing.T) {
		viewer := &model.User{ID: uuid.New(), Role: model.Role{Level: 1, UserView: true}}
		service := NewUserService(new(MockUserRepository), new(MockRoleRepository))
		err := service.Delete(context.Background(), viewer, subordinate.ID)
		assert.ErrorIs(t, err, apperrors.ErrMissingPermission)
	})
}
