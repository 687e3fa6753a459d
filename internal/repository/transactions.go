package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"mystock-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

const transactionColumns = `
	t.id,
	t.transaction_number,
	t.transaction_date,
	t.type,
	t.contact_id,
	t.subtotal::text,
	t.tax_amount::text,
	t.discount_amount::text,
	t.total_amount::text,
	t.paid_amount::text,
	t.payment_status,
	t.notes,
	t.created_at,
	t.updated_at,
	t.deleted_at
`

// activeTransaction is the single filter every read path of live transactions
// goes through; soft-deleted rows are invisible outside explicit reversal.
const activeTransaction = "t.deleted_at IS NULL"

type TransactionListFilter struct {
	Type      domain.TransactionType
	Status    domain.PaymentStatus
	ContactID *int64
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// CreateTransaction posts a fully computed draft in one database transaction:
// number assignment, stock movement, audit rows, counterparty balance and the
// optional initial payment all commit or roll back together. A transaction
// number collision from a concurrent posting is retried once.
func (r *Repository) CreateTransaction(ctx context.Context, draft domain.TransactionDraft) (*domain.TransactionDetail, error) {
	id, err := r.createTransactionOnce(ctx, draft)
	if isUniqueViolation(err) {
		id, err = r.createTransactionOnce(ctx, draft)
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateTransactionNumber
		}
	}
	if err != nil {
		return nil, err
	}
	return r.GetTransactionDetail(ctx, id)
}

func (r *Repository) createTransactionOnce(ctx context.Context, draft domain.TransactionDraft) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin posting tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var last string
	err = tx.QueryRow(ctx, `
		SELECT transaction_number FROM transactions
		WHERE type = $1
		ORDER BY id DESC
		LIMIT 1
	`, draft.Type).Scan(&last)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("read last transaction number: %w", err)
	}

	number, err := domain.NextTransactionNumber(draft.Type, last)
	if err != nil {
		return 0, fmt.Errorf("generate transaction number: %w", err)
	}

	var transactionID int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO transactions (
			transaction_number, transaction_date, type, contact_id,
			subtotal, tax_amount, discount_amount, total_amount,
			paid_amount, payment_status, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`,
		number,
		draft.TransactionDate,
		draft.Type,
		draft.ContactID,
		draft.Subtotal.String(),
		draft.TaxAmount.String(),
		draft.DiscountAmount.String(),
		draft.TotalAmount.String(),
		draft.PaidAmount.String(),
		draft.PaymentStatus,
		draft.Notes,
	).Scan(&transactionID); err != nil {
		return 0, err
	}

	for _, item := range draft.Items {
		lineTotal := domain.LineTotal(item)
		if _, err := tx.Exec(ctx, `
			INSERT INTO transaction_items (transaction_id, product_id, container_id, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, transactionID, item.ProductID, item.ContainerID, item.Quantity, item.UnitPrice.String(), lineTotal.String()); err != nil {
			return 0, fmt.Errorf("insert transaction item: %w", err)
		}
	}

	note := fmt.Sprintf("transaction %s", number)
	deltas := domain.StockDeltas(draft.Type, draft.Items)
	if err := applyStockDeltas(ctx, tx, deltas, domain.ActionFor(draft.Type), note); err != nil {
		return 0, err
	}

	balanceDelta := domain.PostingBalanceDelta(draft.Type, draft.TotalAmount, draft.PaidAmount)
	if err := adjustContactBalance(ctx, tx, draft.ContactID, balanceDelta.String()); err != nil {
		return 0, err
	}

	if draft.InitialPayment != nil {
		p := draft.InitialPayment
		if _, err := tx.Exec(ctx, `
			INSERT INTO payments (transaction_id, payment_date, amount, payment_method, reference_number, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, transactionID, p.PaymentDate, p.Amount.String(), p.Method, p.ReferenceNumber, p.Notes); err != nil {
			return 0, fmt.Errorf("insert initial payment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit posting tx: %w", err)
	}
	return transactionID, nil
}

// applyStockDeltas locks and moves stock rows, writing one audit log row per
// movement. Rows are visited in (container, product) order so concurrent
// postings cannot deadlock on each other.
func applyStockDeltas(ctx context.Context, tx pgx.Tx, deltas []domain.StockDelta, action, note string) error {
	ordered := make([]domain.StockDelta, len(deltas))
	copy(ordered, deltas)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].ContainerID != ordered[j].ContainerID {
			return ordered[i].ContainerID < ordered[j].ContainerID
		}
		return ordered[i].ProductID < ordered[j].ProductID
	})

	for _, delta := range ordered {
		if delta.Quantity == 0 {
			continue
		}

		if delta.Quantity > 0 {
			if _, err := tx.Exec(ctx, `
				INSERT INTO container_products (container_id, product_id, quantity)
				VALUES ($1, $2, $3)
				ON CONFLICT (container_id, product_id)
				DO UPDATE SET quantity = container_products.quantity + EXCLUDED.quantity, updated_at = NOW()
			`, delta.ContainerID, delta.ProductID, delta.Quantity); err != nil {
				return fmt.Errorf("add stock container=%d product=%d: %w", delta.ContainerID, delta.ProductID, err)
			}
		} else {
			needed := -delta.Quantity

			var available int
			err := tx.QueryRow(ctx, `
				SELECT quantity FROM container_products
				WHERE container_id = $1 AND product_id = $2
				FOR UPDATE
			`, delta.ContainerID, delta.ProductID).Scan(&available)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("lock stock container=%d product=%d: %w", delta.ContainerID, delta.ProductID, err)
			}
			if available < needed {
				return &domain.InsufficientStockError{
					ProductID:   delta.ProductID,
					ContainerID: delta.ContainerID,
					Requested:   needed,
					Available:   available,
				}
			}

			if _, err := tx.Exec(ctx, `
				UPDATE container_products
				SET quantity = quantity - $3, updated_at = NOW()
				WHERE container_id = $1 AND product_id = $2
			`, delta.ContainerID, delta.ProductID, needed); err != nil {
				return fmt.Errorf("deduct stock container=%d product=%d: %w", delta.ContainerID, delta.ProductID, err)
			}
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO inventory_logs (product_id, container_id, quantity, action, note)
			VALUES ($1, $2, $3, $4, $5)
		`, delta.ProductID, delta.ContainerID, delta.Quantity, action, note); err != nil {
			return fmt.Errorf("insert inventory log: %w", err)
		}
	}
	return nil
}

func adjustContactBalance(ctx context.Context, tx pgx.Tx, contactID int64, delta string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE contacts
		SET balance = balance + $2::numeric, updated_at = NOW()
		WHERE id = $1
	`, contactID, delta)
	if err != nil {
		return fmt.Errorf("adjust contact %d balance: %w", contactID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		WHERE t.id = $1 AND `+activeTransaction+`
	`, id)
	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return &txn, nil
}

func (r *Repository) GetTransactionDetail(ctx context.Context, id int64) (*domain.TransactionDetail, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`, c.name
		FROM transactions t
		JOIN contacts c ON c.id = t.contact_id
		WHERE t.id = $1 AND `+activeTransaction+`
	`, id)

	var (
		detail      domain.TransactionDetail
		contactName string
	)
	txn, err := scanTransactionWith(row, &contactName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get transaction detail %d: %w", id, err)
	}
	detail.Transaction = txn
	detail.ContactName = contactName

	if detail.Items, err = r.listTransactionItems(ctx, id); err != nil {
		return nil, err
	}
	if detail.Payments, err = r.ListPayments(ctx, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *Repository) listTransactionItems(ctx context.Context, transactionID int64) ([]domain.TransactionItemRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			i.id, i.transaction_id, i.product_id, i.container_id,
			i.quantity, i.unit_price::text, i.line_total::text,
			p.name, ct.name
		FROM transaction_items i
		JOIN products p ON p.id = i.product_id
		LEFT JOIN containers ct ON ct.id = i.container_id
		WHERE i.transaction_id = $1 AND i.deleted_at IS NULL
		ORDER BY i.id ASC
	`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list transaction items %d: %w", transactionID, err)
	}
	defer rows.Close()

	items := make([]domain.TransactionItemRow, 0)
	for rows.Next() {
		var (
			item      domain.TransactionItemRow
			unitPrice string
			lineTotal string
		)
		if err := rows.Scan(
			&item.ID, &item.TransactionID, &item.ProductID, &item.ContainerID,
			&item.Quantity, &unitPrice, &lineTotal,
			&item.ProductName, &item.ContainerName,
		); err != nil {
			return nil, fmt.Errorf("scan transaction item: %w", err)
		}
		if item.UnitPrice, err = parseMoney(unitPrice); err != nil {
			return nil, err
		}
		if item.LineTotal, err = parseMoney(lineTotal); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction items: %w", err)
	}
	return items, nil
}

func (r *Repository) ListTransactions(ctx context.Context, filter TransactionListFilter) ([]domain.TransactionRow, error) {
	query := `
		SELECT ` + transactionColumns + `, c.name
		FROM transactions t
		JOIN contacts c ON c.id = t.contact_id
		WHERE ` + activeTransaction + `
	`
	args := []any{}
	next := 1

	addCond := func(cond string, value any) {
		query += fmt.Sprintf(" AND "+cond, next)
		args = append(args, value)
		next++
	}

	if filter.Type != "" {
		addCond("t.type = $%d", filter.Type)
	}
	if filter.Status != "" {
		addCond("t.payment_status = $%d", filter.Status)
	}
	if filter.ContactID != nil {
		addCond("t.contact_id = $%d", *filter.ContactID)
	}
	if filter.From != nil {
		addCond("t.transaction_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		addCond("t.transaction_date <= $%d", *filter.To)
	}

	query += fmt.Sprintf(" ORDER BY t.transaction_date DESC, t.id DESC LIMIT $%d OFFSET $%d", next, next+1)
	args = append(args, normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.TransactionRow, 0)
	for rows.Next() {
		var (
			row         domain.TransactionRow
			contactName string
		)
		txn, err := scanTransactionWith(rows, &contactName)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		row.Transaction = txn
		row.ContactName = contactName
		transactions = append(transactions, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return transactions, nil
}

// AddPayment records a payment against a live transaction. The transaction
// row is locked first so the paid_amount <= total_amount invariant holds even
// under concurrent payments.
func (r *Repository) AddPayment(ctx context.Context, transactionID int64, draft domain.PaymentDraft) (*domain.Transaction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin payment tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		WHERE t.id = $1 AND `+activeTransaction+`
		FOR UPDATE
	`, transactionID)
	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock transaction %d: %w", transactionID, err)
	}

	newPaid := txn.PaidAmount.Add(draft.Amount)
	if newPaid.GreaterThan(txn.TotalAmount) {
		return nil, &domain.OverpaymentError{
			Paid:   txn.PaidAmount,
			Amount: draft.Amount,
			Total:  txn.TotalAmount,
		}
	}
	newStatus := domain.PaymentStatusFor(newPaid, txn.TotalAmount)

	if _, err := tx.Exec(ctx, `
		INSERT INTO payments (transaction_id, payment_date, amount, payment_method, reference_number, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, transactionID, draft.PaymentDate, draft.Amount.String(), draft.Method, draft.ReferenceNumber, draft.Notes); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE transactions
		SET paid_amount = $2::numeric, payment_status = $3, updated_at = NOW()
		WHERE id = $1
	`, transactionID, newPaid.String(), newStatus); err != nil {
		return nil, fmt.Errorf("update transaction %d paid amount: %w", transactionID, err)
	}

	balanceDelta := domain.PaymentBalanceDelta(txn.Type, draft.Amount)
	if err := adjustContactBalance(ctx, tx, txn.ContactID, balanceDelta.String()); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit payment tx: %w", err)
	}

	txn.PaidAmount = newPaid
	txn.PaymentStatus = newStatus
	return &txn, nil
}

func (r *Repository) ListPayments(ctx context.Context, transactionID int64) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, transaction_id, payment_date, amount::text, payment_method, reference_number, notes, created_at
		FROM payments
		WHERE transaction_id = $1 AND deleted_at IS NULL
		ORDER BY payment_date ASC, id ASC
	`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list payments %d: %w", transactionID, err)
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		var (
			p      domain.Payment
			amount string
		)
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.PaymentDate, &amount, &p.Method, &p.ReferenceNumber, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if p.Amount, err = parseMoney(amount); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, nil
}

// SoftDeleteTransaction reverses a posting: stock goes back, the counterparty
// balance loses the still-outstanding remainder, and the transaction with its
// items and payments is marked deleted. Payment rows survive as history.
func (r *Repository) SoftDeleteTransaction(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions t
		WHERE t.id = $1
		FOR UPDATE
	`, id)
	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock transaction %d: %w", id, err)
	}
	if txn.DeletedAt != nil {
		return domain.ErrAlreadyDeleted
	}

	itemRows, err := tx.Query(ctx, `
		SELECT product_id, container_id, quantity
		FROM transaction_items
		WHERE transaction_id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("load items for delete %d: %w", id, err)
	}
	items := make([]domain.TransactionItem, 0)
	for itemRows.Next() {
		var item domain.TransactionItem
		if err := itemRows.Scan(&item.ProductID, &item.ContainerID, &item.Quantity); err != nil {
			itemRows.Close()
			return fmt.Errorf("scan item for delete: %w", err)
		}
		items = append(items, item)
	}
	itemRows.Close()
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("iterate items for delete: %w", err)
	}

	note := fmt.Sprintf("reversal of %s", txn.TransactionNumber)
	deltas := domain.ReversalDeltas(txn.Type, items)
	if err := applyStockDeltas(ctx, tx, deltas, domain.ActionReversal, note); err != nil {
		return err
	}

	balanceDelta := domain.ReversalBalanceDelta(txn.Type, txn.TotalAmount, txn.PaidAmount)
	if err := adjustContactBalance(ctx, tx, txn.ContactID, balanceDelta.String()); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE transactions SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1
	`, id); err != nil {
		return fmt.Errorf("mark transaction %d deleted: %w", id, err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE transaction_items SET deleted_at = NOW() WHERE transaction_id = $1 AND deleted_at IS NULL
	`, id); err != nil {
		return fmt.Errorf("mark items deleted %d: %w", id, err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE payments SET deleted_at = NOW() WHERE transaction_id = $1 AND deleted_at IS NULL
	`, id); err != nil {
		return fmt.Errorf("mark payments deleted %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete tx: %w", err)
	}
	return nil
}

func (r *Repository) TransactionSummary(ctx context.Context, from, to *time.Time) (domain.TransactionSummary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE t.type = 'sale'),
			COUNT(*) FILTER (WHERE t.type = 'purchase'),
			COALESCE(SUM(t.total_amount) FILTER (WHERE t.type = 'sale'), 0)::text,
			COALESCE(SUM(t.total_amount) FILTER (WHERE t.type = 'purchase'), 0)::text,
			COALESCE(SUM(t.total_amount - t.paid_amount) FILTER (WHERE t.type = 'sale'), 0)::text,
			COALESCE(SUM(t.total_amount - t.paid_amount) FILTER (WHERE t.type = 'purchase'), 0)::text
		FROM transactions t
		WHERE ` + activeTransaction + `
	`
	args := []any{}
	next := 1
	if from != nil {
		query += fmt.Sprintf(" AND t.transaction_date >= $%d", next)
		args = append(args, *from)
		next++
	}
	if to != nil {
		query += fmt.Sprintf(" AND t.transaction_date <= $%d", next)
		args = append(args, *to)
	}

	var (
		summary    domain.TransactionSummary
		sales      string
		purchases  string
		receivable string
		payable    string
	)
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&summary.SaleCount,
		&summary.PurchaseCount,
		&sales,
		&purchases,
		&receivable,
		&payable,
	); err != nil {
		return domain.TransactionSummary{}, fmt.Errorf("transaction summary: %w", err)
	}

	var err error
	if summary.TotalSales, err = parseMoney(sales); err != nil {
		return domain.TransactionSummary{}, err
	}
	if summary.TotalPurchases, err = parseMoney(purchases); err != nil {
		return domain.TransactionSummary{}, err
	}
	if summary.TotalReceivable, err = parseMoney(receivable); err != nil {
		return domain.TransactionSummary{}, err
	}
	if summary.TotalPayable, err = parseMoney(payable); err != nil {
		return domain.TransactionSummary{}, err
	}
	return summary, nil
}

func (r *Repository) ListOutstanding(ctx context.Context) ([]domain.OutstandingRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`, c.name, (t.total_amount - t.paid_amount)::text
		FROM transactions t
		JOIN contacts c ON c.id = t.contact_id
		WHERE `+activeTransaction+` AND t.payment_status <> 'paid'
		ORDER BY t.transaction_date ASC, t.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list outstanding: %w", err)
	}
	defer rows.Close()

	outstanding := make([]domain.OutstandingRow, 0)
	for rows.Next() {
		var (
			row         domain.OutstandingRow
			contactName string
			due         string
		)
		txn, err := scanTransactionWith(rows, &contactName, &due)
		if err != nil {
			return nil, fmt.Errorf("scan outstanding row: %w", err)
		}
		row.Transaction = txn
		row.ContactName = contactName
		if row.BalanceDue, err = parseMoney(due); err != nil {
			return nil, err
		}
		outstanding = append(outstanding, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outstanding: %w", err)
	}
	return outstanding, nil
}

type InventoryLogFilter struct {
	ProductID   *int64
	ContainerID *int64
	Action      string
	Limit       int
	Offset      int
}

func (r *Repository) ListInventoryLogs(ctx context.Context, filter InventoryLogFilter) ([]domain.InventoryLog, error) {
	query := `
		SELECT id, product_id, container_id, quantity, action, note, created_at
		FROM inventory_logs
		WHERE TRUE
	`
	args := []any{}
	next := 1

	if filter.ProductID != nil {
		query += fmt.Sprintf(" AND product_id = $%d", next)
		args = append(args, *filter.ProductID)
		next++
	}
	if filter.ContainerID != nil {
		query += fmt.Sprintf(" AND container_id = $%d", next)
		args = append(args, *filter.ContainerID)
		next++
	}
	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", next)
		args = append(args, filter.Action)
		next++
	}

	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", next, next+1)
	args = append(args, normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory logs: %w", err)
	}
	defer rows.Close()

	logs := make([]domain.InventoryLog, 0)
	for rows.Next() {
		var l domain.InventoryLog
		if err := rows.Scan(&l.ID, &l.ProductID, &l.ContainerID, &l.Quantity, &l.Action, &l.Note, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("scan inventory log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory logs: %w", err)
	}
	return logs, nil
}

func (r *Repository) DashboardSnapshot(ctx context.Context) (domain.DashboardSnapshot, error) {
	var (
		snapshot domain.DashboardSnapshot
		income   string
		expenses string
	)

	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM containers),
			(SELECT COUNT(*) FROM contacts),
			(SELECT COALESCE(SUM(quantity), 0) FROM container_products),
			(SELECT COALESCE(SUM(p.amount), 0)::text
			   FROM payments p JOIN transactions t ON t.id = p.transaction_id
			  WHERE p.deleted_at IS NULL AND t.deleted_at IS NULL AND t.type = 'sale'),
			(SELECT COALESCE(SUM(p.amount), 0)::text
			   FROM payments p JOIN transactions t ON t.id = p.transaction_id
			  WHERE p.deleted_at IS NULL AND t.deleted_at IS NULL AND t.type = 'purchase')
	`).Scan(
		&snapshot.ProductCount,
		&snapshot.ContainerCount,
		&snapshot.ContactCount,
		&snapshot.TotalStock,
		&income,
		&expenses,
	)
	if err != nil {
		return domain.DashboardSnapshot{}, fmt.Errorf("dashboard snapshot: %w", err)
	}

	if snapshot.TotalIncome, err = parseMoney(income); err != nil {
		return domain.DashboardSnapshot{}, err
	}
	if snapshot.TotalExpenses, err = parseMoney(expenses); err != nil {
		return domain.DashboardSnapshot{}, err
	}
	snapshot.NetCashflow = snapshot.TotalIncome.Sub(snapshot.TotalExpenses)

	if snapshot.RecentTransactions, err = r.ListTransactions(ctx, TransactionListFilter{Limit: 5}); err != nil {
		return domain.DashboardSnapshot{}, err
	}
	return snapshot, nil
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	return scanTransactionWith(row)
}

// scanTransactionWith scans the shared transaction column set plus any extra
// trailing destinations (joined columns).
func scanTransactionWith(row pgx.Row, extra ...any) (domain.Transaction, error) {
	var (
		txn      domain.Transaction
		subtotal string
		tax      string
		discount string
		total    string
		paid     string
	)
	dest := []any{
		&txn.ID,
		&txn.TransactionNumber,
		&txn.TransactionDate,
		&txn.Type,
		&txn.ContactID,
		&subtotal,
		&tax,
		&discount,
		&total,
		&paid,
		&txn.PaymentStatus,
		&txn.Notes,
		&txn.CreatedAt,
		&txn.UpdatedAt,
		&txn.DeletedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return domain.Transaction{}, err
	}

	var err error
	if txn.Subtotal, err = parseMoney(subtotal); err != nil {
		return domain.Transaction{}, err
	}
	if txn.TaxAmount, err = parseMoney(tax); err != nil {
		return domain.Transaction{}, err
	}
	if txn.DiscountAmount, err = parseMoney(discount); err != nil {
		return domain.Transaction{}, err
	}
	if txn.TotalAmount, err = parseMoney(total); err != nil {
		return domain.Transaction{}, err
	}
	if txn.PaidAmount, err = parseMoney(paid); err != nil {
		return domain.Transaction{}, err
	}
	return txn, nil
}
