package service

import (
	"context"
	"fmt"
	"strings"

	"mystock-backend/internal/auth"
	"mystock-backend/internal/domain"
)

func (s *Service) RegisterUser(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, fmt.Errorf("username is required")
	}
	if len(password) < 8 {
		return domain.User{}, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}
	return s.store.CreateUser(ctx, username, hash)
}

// AuthenticateUser checks credentials and returns the user on success.
// The same error covers unknown username and wrong password.
func (s *Service) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("invalid username or password")
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("invalid username or password")
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *Service) CompanySettings(ctx context.Context) (domain.CompanySettings, error) {
	return s.store.GetCompanySettings(ctx)
}

func (s *Service) UpdateCompanySettings(ctx context.Context, settings domain.CompanySettings) (domain.CompanySettings, error) {
	settings.CompanyName = strings.TrimSpace(settings.CompanyName)
	if settings.CompanyName == "" {
		return domain.CompanySettings{}, fmt.Errorf("company_name is required")
	}
	return s.store.UpdateCompanySettings(ctx, settings)
}
