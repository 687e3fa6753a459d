package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"mystock-backend/internal/domain"
	"mystock-backend/internal/repository"
)

type stockKey struct {
	containerID int64
	productID   int64
}

// fakeStore is an in-memory Store with the same posting semantics the
// Postgres repository guarantees: all-or-nothing postings, non-negative
// stock, one inventory log per movement, typed reversal on delete.
type fakeStore struct {
	products     map[int64]domain.Product
	containers   map[int64]domain.Container
	contacts     map[int64]domain.Contact
	stock        map[stockKey]int
	transactions map[int64]*domain.TransactionDetail
	logs         []domain.InventoryLog
	users        map[int64]domain.User
	settings     domain.CompanySettings
	lastNumber   map[domain.TransactionType]string
	nextID       int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:     map[int64]domain.Product{},
		containers:   map[int64]domain.Container{},
		contacts:     map[int64]domain.Contact{},
		stock:        map[stockKey]int{},
		transactions: map[int64]*domain.TransactionDetail{},
		users:        map[int64]domain.User{},
		lastNumber:   map[domain.TransactionType]string{},
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addProduct(name string) domain.Product {
	p := domain.Product{ID: f.id(), Name: name}
	f.products[p.ID] = p
	return p
}

func (f *fakeStore) addContainer(name string) domain.Container {
	c := domain.Container{ID: f.id(), Name: name, Type: domain.ContainerMixed}
	f.containers[c.ID] = c
	return c
}

func (f *fakeStore) addContact(name string, typ domain.ContactType) domain.Contact {
	c := domain.Contact{ID: f.id(), Name: name, Type: typ, Balance: decimal.Zero}
	f.contacts[c.ID] = c
	return c
}

func (f *fakeStore) setStock(containerID, productID int64, qty int) {
	f.stock[stockKey{containerID, productID}] = qty
}

func (f *fakeStore) CreateTransaction(_ context.Context, draft domain.TransactionDraft) (*domain.TransactionDetail, error) {
	deltas := domain.StockDeltas(draft.Type, draft.Items)
	for _, d := range deltas {
		if after := f.stock[stockKey{d.ContainerID, d.ProductID}] + d.Quantity; after < 0 {
			return nil, &domain.InsufficientStockError{
				ProductID:   d.ProductID,
				ContainerID: d.ContainerID,
				Requested:   -d.Quantity,
				Available:   f.stock[stockKey{d.ContainerID, d.ProductID}],
			}
		}
	}

	number, err := domain.NextTransactionNumber(draft.Type, f.lastNumber[draft.Type])
	if err != nil {
		return nil, err
	}
	f.lastNumber[draft.Type] = number

	for _, d := range deltas {
		f.stock[stockKey{d.ContainerID, d.ProductID}] += d.Quantity
		f.logs = append(f.logs, domain.InventoryLog{
			ID:          f.id(),
			ProductID:   d.ProductID,
			ContainerID: d.ContainerID,
			Quantity:    d.Quantity,
			Action:      domain.ActionFor(draft.Type),
		})
	}

	contact := f.contacts[draft.ContactID]
	contact.Balance = contact.Balance.Add(domain.PostingBalanceDelta(draft.Type, draft.TotalAmount, draft.PaidAmount))
	f.contacts[draft.ContactID] = contact

	detail := &domain.TransactionDetail{
		Transaction: domain.Transaction{
			ID:                f.id(),
			TransactionNumber: number,
			TransactionDate:   draft.TransactionDate,
			Type:              draft.Type,
			ContactID:         draft.ContactID,
			Subtotal:          draft.Subtotal,
			TaxAmount:         draft.TaxAmount,
			DiscountAmount:    draft.DiscountAmount,
			TotalAmount:       draft.TotalAmount,
			PaidAmount:        draft.PaidAmount,
			PaymentStatus:     draft.PaymentStatus,
			Notes:             draft.Notes,
		},
		ContactName: contact.Name,
	}
	for _, item := range draft.Items {
		detail.Items = append(detail.Items, domain.TransactionItemRow{
			TransactionItem: domain.TransactionItem{
				ID:            f.id(),
				TransactionID: detail.ID,
				ProductID:     item.ProductID,
				ContainerID:   item.ContainerID,
				Quantity:      item.Quantity,
				UnitPrice:     item.UnitPrice,
				LineTotal:     domain.LineTotal(item),
			},
			ProductName: f.products[item.ProductID].Name,
		})
	}
	if draft.InitialPayment != nil {
		detail.Payments = append(detail.Payments, domain.Payment{
			ID:            f.id(),
			TransactionID: detail.ID,
			PaymentDate:   draft.InitialPayment.PaymentDate,
			Amount:        draft.InitialPayment.Amount,
			Method:        draft.InitialPayment.Method,
		})
	}

	f.transactions[detail.ID] = detail
	return detail, nil
}

func (f *fakeStore) GetTransaction(_ context.Context, id int64) (*domain.Transaction, error) {
	detail, ok := f.transactions[id]
	if !ok || detail.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	txn := detail.Transaction
	return &txn, nil
}

func (f *fakeStore) GetTransactionDetail(_ context.Context, id int64) (*domain.TransactionDetail, error) {
	detail, ok := f.transactions[id]
	if !ok || detail.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	return detail, nil
}

func (f *fakeStore) AddPayment(_ context.Context, transactionID int64, draft domain.PaymentDraft) (*domain.Transaction, error) {
	detail, ok := f.transactions[transactionID]
	if !ok || detail.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}

	newPaid := detail.PaidAmount.Add(draft.Amount)
	if newPaid.GreaterThan(detail.TotalAmount) {
		return nil, &domain.OverpaymentError{Paid: detail.PaidAmount, Amount: draft.Amount, Total: detail.TotalAmount}
	}

	detail.Payments = append(detail.Payments, domain.Payment{
		ID:            f.id(),
		TransactionID: transactionID,
		PaymentDate:   draft.PaymentDate,
		Amount:        draft.Amount,
		Method:        draft.Method,
	})
	detail.PaidAmount = newPaid
	detail.PaymentStatus = domain.PaymentStatusFor(newPaid, detail.TotalAmount)

	contact := f.contacts[detail.ContactID]
	contact.Balance = contact.Balance.Add(domain.PaymentBalanceDelta(detail.Type, draft.Amount))
	f.contacts[detail.ContactID] = contact

	txn := detail.Transaction
	return &txn, nil
}

func (f *fakeStore) SoftDeleteTransaction(_ context.Context, id int64) error {
	detail, ok := f.transactions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if detail.DeletedAt != nil {
		return domain.ErrAlreadyDeleted
	}

	items := make([]domain.TransactionItem, 0, len(detail.Items))
	for _, item := range detail.Items {
		items = append(items, item.TransactionItem)
	}
	for _, d := range domain.ReversalDeltas(detail.Type, items) {
		if after := f.stock[stockKey{d.ContainerID, d.ProductID}] + d.Quantity; after < 0 {
			return &domain.InsufficientStockError{
				ProductID:   d.ProductID,
				ContainerID: d.ContainerID,
				Requested:   -d.Quantity,
				Available:   f.stock[stockKey{d.ContainerID, d.ProductID}],
			}
		}
	}
	for _, d := range domain.ReversalDeltas(detail.Type, items) {
		f.stock[stockKey{d.ContainerID, d.ProductID}] += d.Quantity
		f.logs = append(f.logs, domain.InventoryLog{
			ID:          f.id(),
			ProductID:   d.ProductID,
			ContainerID: d.ContainerID,
			Quantity:    d.Quantity,
			Action:      domain.ActionReversal,
		})
	}

	contact := f.contacts[detail.ContactID]
	contact.Balance = contact.Balance.Add(domain.ReversalBalanceDelta(detail.Type, detail.TotalAmount, detail.PaidAmount))
	f.contacts[detail.ContactID] = contact

	now := time.Now()
	detail.DeletedAt = &now
	return nil
}

func (f *fakeStore) ListPayments(_ context.Context, transactionID int64) ([]domain.Payment, error) {
	detail, ok := f.transactions[transactionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return detail.Payments, nil
}

func (f *fakeStore) ListTransactions(_ context.Context, filter repository.TransactionListFilter) ([]domain.TransactionRow, error) {
	rows := make([]domain.TransactionRow, 0)
	for _, detail := range f.transactions {
		if detail.DeletedAt != nil {
			continue
		}
		if filter.Type != "" && detail.Type != filter.Type {
			continue
		}
		if filter.Status != "" && detail.PaymentStatus != filter.Status {
			continue
		}
		rows = append(rows, domain.TransactionRow{Transaction: detail.Transaction, ContactName: detail.ContactName})
	}
	return rows, nil
}

func (f *fakeStore) TransactionSummary(_ context.Context, _, _ *time.Time) (domain.TransactionSummary, error) {
	summary := domain.TransactionSummary{
		TotalSales:      decimal.Zero,
		TotalPurchases:  decimal.Zero,
		TotalReceivable: decimal.Zero,
		TotalPayable:    decimal.Zero,
	}
	for _, detail := range f.transactions {
		if detail.DeletedAt != nil {
			continue
		}
		due := detail.TotalAmount.Sub(detail.PaidAmount)
		if detail.Type == domain.TransactionSale {
			summary.SaleCount++
			summary.TotalSales = summary.TotalSales.Add(detail.TotalAmount)
			summary.TotalReceivable = summary.TotalReceivable.Add(due)
		} else {
			summary.PurchaseCount++
			summary.TotalPurchases = summary.TotalPurchases.Add(detail.TotalAmount)
			summary.TotalPayable = summary.TotalPayable.Add(due)
		}
	}
	return summary, nil
}

func (f *fakeStore) ListOutstanding(_ context.Context) ([]domain.OutstandingRow, error) {
	rows := make([]domain.OutstandingRow, 0)
	for _, detail := range f.transactions {
		if detail.DeletedAt != nil || detail.PaymentStatus == domain.PaymentPaid {
			continue
		}
		rows = append(rows, domain.OutstandingRow{
			TransactionRow: domain.TransactionRow{Transaction: detail.Transaction, ContactName: detail.ContactName},
			BalanceDue:     detail.TotalAmount.Sub(detail.PaidAmount),
		})
	}
	return rows, nil
}

func (f *fakeStore) StockLevel(_ context.Context, containerID, productID int64) (int, error) {
	return f.stock[stockKey{containerID, productID}], nil
}

func (f *fakeStore) GetContact(_ context.Context, id int64) (*domain.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (f *fakeStore) GetProductsByIDs(_ context.Context, ids []int64) (map[int64]domain.Product, error) {
	out := map[int64]domain.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeStore) GetContainersByIDs(_ context.Context, ids []int64) (map[int64]domain.Container, error) {
	out := map[int64]domain.Container{}
	for _, id := range ids {
		if c, ok := f.containers[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (f *fakeStore) ListProducts(_ context.Context, _ repository.ProductListFilter) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) CreateProduct(_ context.Context, input repository.ProductCreateInput) (domain.Product, error) {
	p := domain.Product{
		ID:                   f.id(),
		Name:                 input.Name,
		Size:                 input.Size,
		Packing:              input.Packing,
		DefaultSalePrice:     input.DefaultSalePrice,
		DefaultPurchasePrice: input.DefaultPurchasePrice,
	}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeStore) PatchProduct(_ context.Context, id int64, input repository.ProductPatchInput) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if input.Name != nil {
		p.Name = *input.Name
	}
	f.products[id] = p
	return &p, nil
}

func (f *fakeStore) UpdateProductPricing(_ context.Context, id int64, sale, purchase *decimal.Decimal) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.DefaultSalePrice = sale
	p.DefaultPurchasePrice = purchase
	f.products[id] = p
	return &p, nil
}

func (f *fakeStore) DeleteProduct(_ context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeStore) ListContainers(_ context.Context, _, _ int) ([]domain.Container, error) {
	out := make([]domain.Container, 0, len(f.containers))
	for _, c := range f.containers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) GetContainer(_ context.Context, id int64) (*domain.Container, error) {
	c, ok := f.containers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (f *fakeStore) GetContainerContents(_ context.Context, containerID int64) ([]domain.ContainerStock, error) {
	out := make([]domain.ContainerStock, 0)
	for key, qty := range f.stock {
		if key.containerID == containerID {
			out = append(out, domain.ContainerStock{ContainerID: key.containerID, ProductID: key.productID, Quantity: qty})
		}
	}
	return out, nil
}

func (f *fakeStore) CreateContainer(_ context.Context, input repository.ContainerCreateInput) (domain.Container, error) {
	c := domain.Container{ID: f.id(), Name: input.Name, Type: input.Type}
	f.containers[c.ID] = c
	return c, nil
}

func (f *fakeStore) PatchContainer(_ context.Context, id int64, input repository.ContainerPatchInput) (*domain.Container, error) {
	c, ok := f.containers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if input.Name != nil {
		c.Name = *input.Name
	}
	if input.Type != nil {
		c.Type = *input.Type
	}
	f.containers[id] = c
	return &c, nil
}

func (f *fakeStore) DeleteContainer(_ context.Context, id int64) error {
	if _, ok := f.containers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.containers, id)
	return nil
}

func (f *fakeStore) ListContacts(_ context.Context, _ repository.ContactListFilter) ([]domain.Contact, error) {
	out := make([]domain.Contact, 0, len(f.contacts))
	for _, c := range f.contacts {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) CreateContact(_ context.Context, input repository.ContactCreateInput) (domain.Contact, error) {
	c := domain.Contact{ID: f.id(), Name: input.Name, Type: input.Type, Balance: decimal.Zero}
	f.contacts[c.ID] = c
	return c, nil
}

func (f *fakeStore) PatchContact(_ context.Context, id int64, input repository.ContactPatchInput) (*domain.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if input.Name != nil {
		c.Name = *input.Name
	}
	if input.Type != nil {
		c.Type = *input.Type
	}
	f.contacts[id] = c
	return &c, nil
}

func (f *fakeStore) DeleteContact(_ context.Context, id int64) error {
	if _, ok := f.contacts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.contacts, id)
	return nil
}

func (f *fakeStore) ListInventoryLogs(_ context.Context, filter repository.InventoryLogFilter) ([]domain.InventoryLog, error) {
	out := make([]domain.InventoryLog, 0, len(f.logs))
	for _, l := range f.logs {
		if filter.ProductID != nil && l.ProductID != *filter.ProductID {
			continue
		}
		if filter.ContainerID != nil && l.ContainerID != *filter.ContainerID {
			continue
		}
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeStore) DashboardSnapshot(_ context.Context) (domain.DashboardSnapshot, error) {
	return domain.DashboardSnapshot{}, nil
}

func (f *fakeStore) CreateUser(_ context.Context, username, passwordHash string) (domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return domain.User{}, fmt.Errorf("username %q already taken", username)
		}
	}
	u := domain.User{ID: f.id(), Username: username, PasswordHash: passwordHash}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeStore) GetCompanySettings(_ context.Context) (domain.CompanySettings, error) {
	return f.settings, nil
}

func (f *fakeStore) UpdateCompanySettings(_ context.Context, s domain.CompanySettings) (domain.CompanySettings, error) {
	f.settings = s
	return s, nil
}
