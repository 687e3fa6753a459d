package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"mystock-backend/internal/domain"
	"mystock-backend/internal/repository"
)

// Store is the persistence surface the service orchestrates over. The
// Postgres repository implements it; tests substitute an in-memory fake.
type Store interface {
	ListProducts(ctx context.Context, filter repository.ProductListFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	CreateProduct(ctx context.Context, input repository.ProductCreateInput) (domain.Product, error)
	PatchProduct(ctx context.Context, id int64, input repository.ProductPatchInput) (*domain.Product, error)
	UpdateProductPricing(ctx context.Context, id int64, sale, purchase *decimal.Decimal) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListContainers(ctx context.Context, limit, offset int) ([]domain.Container, error)
	GetContainer(ctx context.Context, id int64) (*domain.Container, error)
	GetContainersByIDs(ctx context.Context, ids []int64) (map[int64]domain.Container, error)
	GetContainerContents(ctx context.Context, containerID int64) ([]domain.ContainerStock, error)
	StockLevel(ctx context.Context, containerID, productID int64) (int, error)
	CreateContainer(ctx context.Context, input repository.ContainerCreateInput) (domain.Container, error)
	PatchContainer(ctx context.Context, id int64, input repository.ContainerPatchInput) (*domain.Container, error)
	DeleteContainer(ctx context.Context, id int64) error

	ListContacts(ctx context.Context, filter repository.ContactListFilter) ([]domain.Contact, error)
	GetContact(ctx context.Context, id int64) (*domain.Contact, error)
	CreateContact(ctx context.Context, input repository.ContactCreateInput) (domain.Contact, error)
	PatchContact(ctx context.Context, id int64, input repository.ContactPatchInput) (*domain.Contact, error)
	DeleteContact(ctx context.Context, id int64) error

	CreateTransaction(ctx context.Context, draft domain.TransactionDraft) (*domain.TransactionDetail, error)
	GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error)
	GetTransactionDetail(ctx context.Context, id int64) (*domain.TransactionDetail, error)
	ListTransactions(ctx context.Context, filter repository.TransactionListFilter) ([]domain.TransactionRow, error)
	SoftDeleteTransaction(ctx context.Context, id int64) error
	AddPayment(ctx context.Context, transactionID int64, draft domain.PaymentDraft) (*domain.Transaction, error)
	ListPayments(ctx context.Context, transactionID int64) ([]domain.Payment, error)
	TransactionSummary(ctx context.Context, from, to *time.Time) (domain.TransactionSummary, error)
	ListOutstanding(ctx context.Context) ([]domain.OutstandingRow, error)
	ListInventoryLogs(ctx context.Context, filter repository.InventoryLogFilter) ([]domain.InventoryLog, error)
	DashboardSnapshot(ctx context.Context) (domain.DashboardSnapshot, error)

	CreateUser(ctx context.Context, username, passwordHash string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetCompanySettings(ctx context.Context) (domain.CompanySettings, error)
	UpdateCompanySettings(ctx context.Context, s domain.CompanySettings) (domain.CompanySettings, error)
}

type Service struct {
	store Store
	log   *logrus.Logger
}

func New(store Store, log *logrus.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) ListProducts(ctx context.Context, filter repository.ProductListFilter) ([]domain.Product, error) {
	return s.store.ListProducts(ctx, filter)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, input repository.ProductCreateInput) (domain.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return domain.Product{}, fmt.Errorf("name is required")
	}
	if err := validatePrice(input.DefaultSalePrice); err != nil {
		return domain.Product{}, fmt.Errorf("default_sale_price: %w", err)
	}
	if err := validatePrice(input.DefaultPurchasePrice); err != nil {
		return domain.Product{}, fmt.Errorf("default_purchase_price: %w", err)
	}
	return s.store.CreateProduct(ctx, input)
}

func (s *Service) PatchProduct(ctx context.Context, id int64, input repository.ProductPatchInput) (*domain.Product, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	if err := validatePrice(input.DefaultSalePrice); err != nil {
		return nil, fmt.Errorf("default_sale_price: %w", err)
	}
	if err := validatePrice(input.DefaultPurchasePrice); err != nil {
		return nil, fmt.Errorf("default_purchase_price: %w", err)
	}
	return s.store.PatchProduct(ctx, id, input)
}

// UpdateProductPricing replaces both default prices at once; omitted prices
// clear the stored default.
func (s *Service) UpdateProductPricing(ctx context.Context, id int64, sale, purchase *decimal.Decimal) (*domain.Product, error) {
	if err := validatePrice(sale); err != nil {
		return nil, fmt.Errorf("default_sale_price: %w", err)
	}
	if err := validatePrice(purchase); err != nil {
		return nil, fmt.Errorf("default_purchase_price: %w", err)
	}
	return s.store.UpdateProductPricing(ctx, id, sale, purchase)
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.store.DeleteProduct(ctx, id)
}

func (s *Service) ListContainers(ctx context.Context, limit, offset int) ([]domain.Container, error) {
	return s.store.ListContainers(ctx, limit, offset)
}

func (s *Service) GetContainer(ctx context.Context, id int64) (*domain.Container, error) {
	return s.store.GetContainer(ctx, id)
}

func (s *Service) GetContainerContents(ctx context.Context, id int64) ([]domain.ContainerStock, error) {
	if _, err := s.store.GetContainer(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetContainerContents(ctx, id)
}

func (s *Service) CreateContainer(ctx context.Context, input repository.ContainerCreateInput) (domain.Container, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return domain.Container{}, fmt.Errorf("name is required")
	}
	if input.Type == "" {
		input.Type = domain.ContainerMixed
	}
	if input.Type != domain.ContainerSingle && input.Type != domain.ContainerMixed {
		return domain.Container{}, fmt.Errorf("type must be single or mixed")
	}
	return s.store.CreateContainer(ctx, input)
}

func (s *Service) PatchContainer(ctx context.Context, id int64, input repository.ContainerPatchInput) (*domain.Container, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	if input.Type != nil && *input.Type != domain.ContainerSingle && *input.Type != domain.ContainerMixed {
		return nil, fmt.Errorf("type must be single or mixed")
	}
	return s.store.PatchContainer(ctx, id, input)
}

func (s *Service) DeleteContainer(ctx context.Context, id int64) error {
	return s.store.DeleteContainer(ctx, id)
}

func (s *Service) ListContacts(ctx context.Context, filter repository.ContactListFilter) ([]domain.Contact, error) {
	return s.store.ListContacts(ctx, filter)
}

func (s *Service) GetContact(ctx context.Context, id int64) (*domain.Contact, error) {
	return s.store.GetContact(ctx, id)
}

func (s *Service) CreateContact(ctx context.Context, input repository.ContactCreateInput) (domain.Contact, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return domain.Contact{}, fmt.Errorf("name is required")
	}
	if input.Type == "" {
		input.Type = domain.ContactCustomer
	}
	if !validContactType(input.Type) {
		return domain.Contact{}, fmt.Errorf("type must be customer, supplier or both")
	}
	return s.store.CreateContact(ctx, input)
}

func (s *Service) PatchContact(ctx context.Context, id int64, input repository.ContactPatchInput) (*domain.Contact, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	if input.Type != nil && !validContactType(*input.Type) {
		return nil, fmt.Errorf("type must be customer, supplier or both")
	}
	return s.store.PatchContact(ctx, id, input)
}

func (s *Service) DeleteContact(ctx context.Context, id int64) error {
	return s.store.DeleteContact(ctx, id)
}

func (s *Service) ListInventoryLogs(ctx context.Context, filter repository.InventoryLogFilter) ([]domain.InventoryLog, error) {
	return s.store.ListInventoryLogs(ctx, filter)
}

func (s *Service) Dashboard(ctx context.Context) (domain.DashboardSnapshot, error) {
	return s.store.DashboardSnapshot(ctx)
}

func validatePrice(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validContactType(t domain.ContactType) bool {
	switch t {
	case domain.ContactCustomer, domain.ContactSupplier, domain.ContactBoth:
		return true
	}
	return false
}
