package services

import (
	"errors"
	"testing"

	"barberflow_backend/internal/models"
	"barberflow_backend/internal/repositories"
	"barberflow_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	usersByEmail map[string]*models.User
	usersByID    map[int64]*models.User
	duplicate    bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[int64]*models.User),
	}
}

func (f *fakeUserRepo) addUser(user *models.User) {
	f.usersByEmail[user.Email] = user
	f.usersByID[user.ID] = user
}

func (f *fakeUserRepo) CreateUser(_ repositories.SQLExecutor, user *models.User) (int64, error) {
	if f.duplicate {
		return 0, repositories.ErrDuplicateKey
	}
	user.ID = int64(len(f.usersByID) + 1)
	stored := *user
	f.addUser(&stored)
	return user.ID, nil
}

func (f *fakeUserRepo) FindUserByEmail(email string) (*models.User, error) {
	user, ok := f.usersByEmail[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) FindUserByID(userID int64) (*models.User, error) {
	user, ok := f.usersByID[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	copied.PasswordHash = ""
	return &copied, nil
}

func seedOwner(t *testing.T, repo *fakeUserRepo, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	shopID := int64(1)
	user := &models.User{
		ID: 42, BarbershopID: &shopID, FullName: "Shop Owner",
		Email: "owner@shop.test", PasswordHash: string(hash), Role: utils.RoleOwner,
	}
	repo.addUser(user)
	return user
}

func TestLoginUser(t *testing.T) {
	repo := newFakeUserRepo()
	seedOwner(t, repo, "correct-horse")
	svc := NewAuthService(repo, nil)

	resp, err := svc.LoginUser(LoginRequest{Email: "owner@shop.test", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("LoginUser: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("token pair missing")
	}
	if resp.User.PasswordHash != "" {
		t.Error("password hash leaked in response")
	}

	claims, err := utils.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.UserID != 42 || claims.Role != utils.RoleOwner {
		t.Errorf("claims = %+v", claims)
	}
	if claims.BarbershopID == nil || *claims.BarbershopID != 1 {
		t.Errorf("BarbershopID claim = %v, want 1", claims.BarbershopID)
	}
}

func TestLoginUserBadPassword(t *testing.T) {
	repo := newFakeUserRepo()
	seedOwner(t, repo, "correct-horse")
	svc := NewAuthService(repo, nil)

	if _, err := svc.LoginUser(LoginRequest{Email: "owner@shop.test", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestLoginUserUnknownEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil)

	// Unknown email and bad password look identical to the caller.
	if _, err := svc.LoginUser(LoginRequest{Email: "nobody@shop.test", Password: "whatever"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidCredentials)
	}
}

func TestRegisterUserRoleRules(t *testing.T) {
	shopID := int64(1)
	tests := []struct {
		name    string
		req     RegisterUserRequest
		wantErr error
	}{
		{
			name: "staff default role needs shop",
			req:  RegisterUserRequest{FullName: "New Staff", Email: "staff@shop.test", Password: "long-enough"},

			wantErr: ErrAuthValidation,
		},
		{
			name:    "owner with shop ok",
			req:     RegisterUserRequest{FullName: "New Owner", Email: "owner2@shop.test", Password: "long-enough", Role: utils.RoleOwner, BarbershopID: &shopID},
			wantErr: nil,
		},
		{
			name:    "super admin must not carry shop",
			req:     RegisterUserRequest{FullName: "Admin", Email: "admin@platform.test", Password: "long-enough", Role: utils.RoleSuperAdmin, BarbershopID: &shopID},
			wantErr: ErrAuthValidation,
		},
		{
			name:    "unknown role rejected",
			req:     RegisterUserRequest{FullName: "X", Email: "x@shop.test", Password: "long-enough", Role: "manager", BarbershopID: &shopID},
			wantErr: ErrAuthValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(newFakeUserRepo(), nil)
			user, err := svc.RegisterUser(tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("RegisterUser: %v", err)
			}
			if user.PasswordHash != "" {
				t.Error("password hash leaked in response")
			}
		})
	}
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	repo.duplicate = true
	svc := NewAuthService(repo, nil)

	shopID := int64(1)
	_, err := svc.RegisterUser(RegisterUserRequest{
		FullName: "New Staff", Email: "owner@shop.test", Password: "long-enough",
		Role: utils.RoleStaff, BarbershopID: &shopID,
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("error = %v, want %v", err, ErrEmailExists)
	}
}

func TestRefreshTokenRebuildsClaims(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedOwner(t, repo, "correct-horse")
	svc := NewAuthService(repo, nil)

	refresh, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	// Role changed since the refresh token was issued.
	user.Role = utils.RoleStaff

	resp, err := svc.RefreshToken(RefreshTokenRequest{RefreshToken: refresh})
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	claims, err := utils.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("new access token invalid: %v", err)
	}
	if claims.Role != utils.RoleStaff {
		t.Errorf("role = %q, want refreshed role %q", claims.Role, utils.RoleStaff)
	}
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil)
	if _, err := svc.RefreshToken(RefreshTokenRequest{RefreshToken: "nope"}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestGetUserProfile(t *testing.T) {
	repo := newFakeUserRepo()
	seedOwner(t, repo, "correct-horse")
	svc := NewAuthService(repo, nil)

	user, err := svc.GetUserProfile(42)
	if err != nil {
		t.Fatalf("GetUserProfile: %v", err)
	}
	if user.Email != "owner@shop.test" || user.PasswordHash != "" {
		t.Errorf("user = %+v", user)
	}

	if _, err := svc.GetUserProfile(999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, ErrUserNotFound)
	}
}
