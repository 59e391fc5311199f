package service

import (
	"context"
	"errors"

	authdomain "github.com/nmoiseev/org-admin-backend/internal/auth/domain"
	userdomain "github.com/nmoiseev/org-admin-backend/internal/user/domain"
	userrepo "github.com/nmoiseev/org-admin-backend/internal/user/repository"
)

type mockUserRepo struct {
	findByEmailFunc   func(ctx context.Context, email string) (userdomain.User, error)
	findByIDFunc      func(ctx context.Context, id userdomain.UserID) (userdomain.User, error)
	listByCompanyFunc func(ctx context.Context, companyID int64) ([]userdomain.User, error)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.UserID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) ListByCompany(ctx context.Context, companyID int64) ([]userdomain.User, error) {
	if m.listByCompanyFunc != nil {
		return m.listByCompanyFunc(ctx, companyID)
	}
	return nil, nil
}

type mockRefreshTokenRepo struct {
	saveFunc          func(ctx context.Context, token authdomain.RefreshToken) error
	findFunc          func(ctx context.Context, token string) (authdomain.RefreshToken, bool, error)
	deleteFunc        func(ctx context.Context, token string) error
	deleteExpiredFunc func(ctx context.Context) (int64, error)

	saved   []authdomain.RefreshToken
	deleted []string
}

func (m *mockRefreshTokenRepo) Save(ctx context.Context, token authdomain.RefreshToken) error {
	m.saved = append(m.saved, token)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, token)
	}
	return nil
}

func (m *mockRefreshTokenRepo) Find(ctx context.Context, token string) (authdomain.RefreshToken, bool, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, token)
	}
	return authdomain.RefreshToken{}, false, nil
}

func (m *mockRefreshTokenRepo) Delete(ctx context.Context, token string) error {
	m.deleted = append(m.deleted, token)
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, token)
	}
	return nil
}

func (m *mockRefreshTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	if m.deleteExpiredFunc != nil {
		return m.deleteExpiredFunc(ctx)
	}
	return 0, nil
}

type mockHasher struct {
	compareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash == "hashed:"+password {
		return nil
	}
	return errors.New("hash mismatch")
}
