package repository

import (
	"context"
	"errors"
	"fmt"

	"mystock-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash, created_at
	`, username, passwordHash).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("username %q already taken", username)
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return &u, nil
}

func (r *Repository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}

const settingsColumns = `
	company_name,
	seller_name,
	seller_phone,
	seller_email,
	gstin,
	address_line1,
	address_line2,
	address_line3,
	terms_and_conditions,
	updated_at
`

func (r *Repository) GetCompanySettings(ctx context.Context) (domain.CompanySettings, error) {
	var s domain.CompanySettings
	err := r.pool.QueryRow(ctx, `
		SELECT `+settingsColumns+`
		FROM company_settings
		WHERE id = 1
	`).Scan(
		&s.CompanyName,
		&s.SellerName,
		&s.SellerPhone,
		&s.SellerEmail,
		&s.GSTIN,
		&s.AddressLine1,
		&s.AddressLine2,
		&s.AddressLine3,
		&s.TermsAndConditions,
		&s.UpdatedAt,
	)
	if err != nil {
		return domain.CompanySettings{}, fmt.Errorf("get company settings: %w", err)
	}
	return s, nil
}

func (r *Repository) UpdateCompanySettings(ctx context.Context, s domain.CompanySettings) (domain.CompanySettings, error) {
	var updated domain.CompanySettings
	err := r.pool.QueryRow(ctx, `
		INSERT INTO company_settings (
			id, company_name, seller_name, seller_phone, seller_email,
			gstin, address_line1, address_line2, address_line3, terms_and_conditions, updated_at
		)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			seller_name = EXCLUDED.seller_name,
			seller_phone = EXCLUDED.seller_phone,
			seller_email = EXCLUDED.seller_email,
			gstin = EXCLUDED.gstin,
			address_line1 = EXCLUDED.address_line1,
			address_line2 = EXCLUDED.address_line2,
			address_line3 = EXCLUDED.address_line3,
			terms_and_conditions = EXCLUDED.terms_and_conditions,
			updated_at = NOW()
		RETURNING `+settingsColumns+`
	`,
		s.CompanyName,
		s.SellerName,
		s.SellerPhone,
		s.SellerEmail,
		s.GSTIN,
		s.AddressLine1,
		s.AddressLine2,
		s.AddressLine3,
		s.TermsAndConditions,
	).Scan(
		&updated.CompanyName,
		&updated.SellerName,
		&updated.SellerPhone,
		&updated.SellerEmail,
		&updated.GSTIN,
		&updated.AddressLine1,
		&updated.AddressLine2,
		&updated.AddressLine3,
		&updated.TermsAndConditions,
		&updated.UpdatedAt,
	)
	if err != nil {
		return domain.CompanySettings{}, fmt.Errorf("update company settings: %w", err)
	}
	return updated, nil
}
