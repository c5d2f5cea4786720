package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/mocks"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
	"github.com/xiebiao/storefront/pkg/jwt"
)

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLoginUseCase_Execute(t *testing.T) {
	jwtManager := jwt.NewManager("test-secret", 2*time.Hour, 7*24*time.Hour)

	tests := []struct {
		name       string
		req        LoginRequest
		setupMocks func(t *testing.T, repo *mocks.MockUserRepository, sessions *mocks.MockSessionStore)
		wantErr    error
	}{
		{
			name: "登录成功，Token携带角色",
			req:  LoginRequest{Email: "admin@shop.kr", Password: "Passw0rd!", ClientIP: "10.0.0.1"},
			setupMocks: func(t *testing.T, repo *mocks.MockUserRepository, sessions *mocks.MockSessionStore) {
				repo.On("FindByEmail", mock.Anything, "admin@shop.kr").Return(&user.User{
					ID: 1, Email: "admin@shop.kr", Nickname: "관리자", Role: user.RoleAdmin, Password: hashed(t, "Passw0rd!"),
				}, nil)
				sessions.On("SaveSession", mock.Anything, uint(1), mock.MatchedBy(func(d map[string]interface{}) bool {
					return d["role"] == "admin" && d["ip"] == "10.0.0.1"
				}), 7*24*time.Hour).Return(nil)
			},
		},
		{
			name: "会话保存失败不影响登录",
			req:  LoginRequest{Email: "kim@shop.kr", Password: "Passw0rd!"},
			setupMocks: func(t *testing.T, repo *mocks.MockUserRepository, sessions *mocks.MockSessionStore) {
				repo.On("FindByEmail", mock.Anything, "kim@shop.kr").Return(&user.User{
					ID: 2, Email: "kim@shop.kr", Role: user.RoleCustomer, Password: hashed(t, "Passw0rd!"),
				}, nil)
				sessions.On("SaveSession", mock.Anything, uint(2), mock.Anything, mock.Anything).Return(apperrors.ErrRedisError)
			},
		},
		{
			name: "密码错误",
			req:  LoginRequest{Email: "kim@shop.kr", Password: "wrong"},
			setupMocks: func(t *testing.T, repo *mocks.MockUserRepository, _ *mocks.MockSessionStore) {
				repo.On("FindByEmail", mock.Anything, "kim@shop.kr").Return(&user.User{ID: 2, Password: hashed(t, "Passw0rd!")}, nil)
			},
			wantErr: apperrors.ErrInvalidPassword,
		},
		{
			name: "邮箱不存在与密码错误返回相同错误",
			req:  LoginRequest{Email: "none@shop.kr", Password: "Passw0rd!"},
			setupMocks: func(_ *testing.T, repo *mocks.MockUserRepository, _ *mocks.MockSessionStore) {
				repo.On("FindByEmail", mock.Anything, "none@shop.kr").Return(nil, apperrors.ErrUserNotFound)
			},
			wantErr: apperrors.ErrInvalidPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockUserRepository)
			sessions := new(mocks.MockSessionStore)
			tt.setupMocks(t, repo, sessions)

			uc := NewLoginUseCase(user.NewServiceWithCost(repo, bcrypt.MinCost), jwtManager, sessions)
			resp, err := uc.Execute(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			claims, err := jwtManager.ParseToken(resp.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, resp.User.ID, claims.UserID)
			assert.Equal(t, resp.User.Role, claims.Role)
			assert.Equal(t, int64(7200), resp.ExpiresIn)
			sessions.AssertExpectations(t)
		})
	}
}

func TestLogoutUseCase_Execute(t *testing.T) {
	sessions := new(mocks.MockSessionStore)
	sessions.On("DeleteSession", mock.Anything, uint(2)).Return(nil)
	sessions.On("AddToBlacklist", mock.Anything, "access-token", mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 50*time.Minute && ttl <= time.Hour
	})).Return(nil)

	err := NewLogoutUseCase(sessions).Execute(context.Background(), 2, "access-token", time.Now().Add(time.Hour))

	require.NoError(t, err)
	sessions.AssertExpectations(t)
}

func TestRegisterUseCase_Execute(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
		return u.Email == "new@shop.kr" && u.Role == user.RoleCustomer && u.Password != "Passw0rd1"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*user.User).ID = 10
	}).Return(nil)

	resp, err := NewRegisterUseCase(user.NewServiceWithCost(repo, bcrypt.MinCost)).Execute(context.Background(), RegisterRequest{
		Email: "new@shop.kr", Password: "Passw0rd1", Nickname: "새회원",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(10), resp.ID)
	repo.AssertExpectations(t)
}

func TestProfile(t *testing.T) {
	repo := new(mocks.MockUserRepository)
	repo.On("FindByID", mock.Anything, uint(2)).Return(&user.User{
		ID: 2, Email: "kim@shop.kr", Nickname: "철수", Role: user.RoleCustomer,
		DefaultAddress: &user.Address{RecipientName: "김철수", PostalCode: "06236", Address: "서울시 강남구"},
	}, nil)
	repo.On("UpdateDefaultAddress", mock.Anything, uint(2), user.Address{RecipientName: "김영희", Phone: "010-0000-0000", PostalCode: "04524", Address: "서울시 중구"}).Return(nil)

	profile, err := NewGetProfileUseCase(repo).Execute(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, profile.DefaultAddress)
	assert.Equal(t, "06236", profile.DefaultAddress.PostalCode)

	err = NewUpdateAddressUseCase(repo).Execute(context.Background(), 2, AddressDTO{
		RecipientName: "김영희", Phone: "010-0000-0000", PostalCode: "04524", Address: "서울시 중구",
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
