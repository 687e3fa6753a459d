package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mystock-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `
	id,
	name,
	size,
	packing,
	default_sale_price::text,
	default_purchase_price::text,
	created_at,
	updated_at
`

type ProductListFilter struct {
	Search string
	Limit  int
	Offset int
}

type ProductCreateInput struct {
	Name                 string
	Size                 string
	Packing              string
	DefaultSalePrice     *decimal.Decimal
	DefaultPurchasePrice *decimal.Decimal
}

type ProductPatchInput struct {
	Name                 *string
	Size                 *string
	Packing              *string
	DefaultSalePrice     *decimal.Decimal
	DefaultPurchasePrice *decimal.Decimal
}

func (r *Repository) ListProducts(ctx context.Context, filter ProductListFilter) ([]domain.Product, error) {
	limit := normalizeLimit(filter.Limit)
	offset := normalizeOffset(filter.Offset)
	search := strings.TrimSpace(filter.Search)

	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY id ASC
		LIMIT $2 OFFSET $3
	`, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &product, nil
}

func (r *Repository) GetProductsByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	if len(ids) == 0 {
		return map[int64]domain.Product{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()

	products := make(map[int64]domain.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *Repository) CreateProduct(ctx context.Context, input ProductCreateInput) (domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, size, packing, default_sale_price, default_purchase_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns+`
	`, input.Name, input.Size, input.Packing, moneyArg(input.DefaultSalePrice), moneyArg(input.DefaultPurchasePrice))
	product, err := scanProduct(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Product{}, fmt.Errorf("product %q (%s, %s) already exists", input.Name, input.Size, input.Packing)
		}
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (r *Repository) PatchProduct(ctx context.Context, id int64, input ProductPatchInput) (*domain.Product, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	next := 2

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, next))
		args = append(args, value)
		next++
	}

	if input.Name != nil {
		addSet("name", *input.Name)
	}
	if input.Size != nil {
		addSet("size", *input.Size)
	}
	if input.Packing != nil {
		addSet("packing", *input.Packing)
	}
	if input.DefaultSalePrice != nil {
		addSet("default_sale_price", input.DefaultSalePrice.String())
	}
	if input.DefaultPurchasePrice != nil {
		addSet("default_purchase_price", input.DefaultPurchasePrice.String())
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE products SET `+strings.Join(sets, ", ")+`
		WHERE id = $1
		RETURNING `+productColumns+`
	`, args...)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("patch product %d: %w", id, err)
	}
	return &product, nil
}

func (r *Repository) UpdateProductPricing(ctx context.Context, id int64, sale, purchase *decimal.Decimal) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE products
		SET default_sale_price = $2,
		    default_purchase_price = $3,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns+`
	`, id, moneyArg(sale), moneyArg(purchase))
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update product pricing %d: %w", id, err)
	}
	return &product, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type ContainerCreateInput struct {
	Name string
	Type domain.ContainerType
}

type ContainerPatchInput struct {
	Name *string
	Type *domain.ContainerType
}

func (r *Repository) ListContainers(ctx context.Context, limit, offset int) ([]domain.Container, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, type, created_at, updated_at
		FROM containers
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}
	defer rows.Close()

	containers := make([]domain.Container, 0)
	for rows.Next() {
		var c domain.Container
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan container: %w", err)
		}
		containers = append(containers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate containers: %w", err)
	}
	return containers, nil
}

func (r *Repository) GetContainer(ctx context.Context, id int64) (*domain.Container, error) {
	var c domain.Container
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, type, created_at, updated_at
		FROM containers
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get container %d: %w", id, err)
	}
	return &c, nil
}

func (r *Repository) GetContainersByIDs(ctx context.Context, ids []int64) (map[int64]domain.Container, error) {
	if len(ids) == 0 {
		return map[int64]domain.Container{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, type, created_at, updated_at
		FROM containers
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("get containers by ids: %w", err)
	}
	defer rows.Close()

	containers := make(map[int64]domain.Container, len(ids))
	for rows.Next() {
		var c domain.Container
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan container: %w", err)
		}
		containers[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate containers: %w", err)
	}
	return containers, nil
}

// GetContainerContents lists the per-product quantities currently held in a
// container, joined with product names for display.
func (r *Repository) GetContainerContents(ctx context.Context, containerID int64) ([]domain.ContainerStock, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cp.container_id, cp.product_id, p.name, cp.quantity
		FROM container_products cp
		JOIN products p ON p.id = cp.product_id
		WHERE cp.container_id = $1
		ORDER BY p.name ASC
	`, containerID)
	if err != nil {
		return nil, fmt.Errorf("get container contents %d: %w", containerID, err)
	}
	defer rows.Close()

	contents := make([]domain.ContainerStock, 0)
	for rows.Next() {
		var s domain.ContainerStock
		if err := rows.Scan(&s.ContainerID, &s.ProductID, &s.ProductName, &s.Quantity); err != nil {
			return nil, fmt.Errorf("scan container stock: %w", err)
		}
		contents = append(contents, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate container contents: %w", err)
	}
	return contents, nil
}

// StockLevel reads the current quantity for one (container, product) pair.
// A missing row reads as zero.
func (r *Repository) StockLevel(ctx context.Context, containerID, productID int64) (int, error) {
	var quantity int
	err := r.pool.QueryRow(ctx, `
		SELECT quantity FROM container_products
		WHERE container_id = $1 AND product_id = $2
	`, containerID, productID).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("stock level container=%d product=%d: %w", containerID, productID, err)
	}
	return quantity, nil
}

func (r *Repository) CreateContainer(ctx context.Context, input ContainerCreateInput) (domain.Container, error) {
	var c domain.Container
	err := r.pool.QueryRow(ctx, `
		INSERT INTO containers (name, type)
		VALUES ($1, $2)
		RETURNING id, name, type, created_at, updated_at
	`, input.Name, input.Type).Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Container{}, fmt.Errorf("container %q already exists", input.Name)
		}
		return domain.Container{}, fmt.Errorf("create container: %w", err)
	}
	return c, nil
}

func (r *Repository) PatchContainer(ctx context.Context, id int64, input ContainerPatchInput) (*domain.Container, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	next := 2

	if input.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", next))
		args = append(args, *input.Name)
		next++
	}
	if input.Type != nil {
		sets = append(sets, fmt.Sprintf("type = $%d", next))
		args = append(args, *input.Type)
		next++
	}

	var c domain.Container
	err := r.pool.QueryRow(ctx, `
		UPDATE containers SET `+strings.Join(sets, ", ")+`
		WHERE id = $1
		RETURNING id, name, type, created_at, updated_at
	`, args...).Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("patch container %d: %w", id, err)
	}
	return &c, nil
}

func (r *Repository) DeleteContainer(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM containers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete container %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const contactColumns = `
	id,
	name,
	phone,
	address,
	gstin,
	type,
	balance::text,
	created_at,
	updated_at
`

type ContactListFilter struct {
	Search string
	Type   domain.ContactType
	Limit  int
	Offset int
}

type ContactCreateInput struct {
	Name    string
	Phone   *string
	Address *string
	GSTIN   *string
	Type    domain.ContactType
}

type ContactPatchInput struct {
	Name    *string
	Phone   *string
	Address *string
	GSTIN   *string
	Type    *domain.ContactType
}

func (r *Repository) ListContacts(ctx context.Context, filter ContactListFilter) ([]domain.Contact, error) {
	limit := normalizeLimit(filter.Limit)
	offset := normalizeOffset(filter.Offset)
	search := strings.TrimSpace(filter.Search)

	rows, err := r.pool.Query(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR type = $2)
		ORDER BY id ASC
		LIMIT $3 OFFSET $4
	`, search, string(filter.Type), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0, limit)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

func (r *Repository) GetContact(ctx context.Context, id int64) (*domain.Contact, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE id = $1
	`, id)
	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get contact %d: %w", id, err)
	}
	return &contact, nil
}

func (r *Repository) CreateContact(ctx context.Context, input ContactCreateInput) (domain.Contact, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO contacts (name, phone, address, gstin, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+contactColumns+`
	`, input.Name, input.Phone, input.Address, input.GSTIN, input.Type)
	contact, err := scanContact(row)
	if err != nil {
		return domain.Contact{}, fmt.Errorf("create contact: %w", err)
	}
	return contact, nil
}

func (r *Repository) PatchContact(ctx context.Context, id int64, input ContactPatchInput) (*domain.Contact, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	next := 2

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, next))
		args = append(args, value)
		next++
	}

	if input.Name != nil {
		addSet("name", *input.Name)
	}
	if input.Phone != nil {
		addSet("phone", *input.Phone)
	}
	if input.Address != nil {
		addSet("address", *input.Address)
	}
	if input.GSTIN != nil {
		addSet("gstin", *input.GSTIN)
	}
	if input.Type != nil {
		addSet("type", *input.Type)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE contacts SET `+strings.Join(sets, ", ")+`
		WHERE id = $1
		RETURNING `+contactColumns+`
	`, args...)
	contact, err := scanContact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("patch contact %d: %w", id, err)
	}
	return &contact, nil
}

func (r *Repository) DeleteContact(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM contacts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p             domain.Product
		salePrice     *string
		purchasePrice *string
	)
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Size,
		&p.Packing,
		&salePrice,
		&purchasePrice,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return domain.Product{}, err
	}

	var err error
	if p.DefaultSalePrice, err = parseOptionalMoney(salePrice); err != nil {
		return domain.Product{}, err
	}
	if p.DefaultPurchasePrice, err = parseOptionalMoney(purchasePrice); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func scanContact(row pgx.Row) (domain.Contact, error) {
	var (
		c       domain.Contact
		balance string
	)
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Phone,
		&c.Address,
		&c.GSTIN,
		&c.Type,
		&balance,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return domain.Contact{}, err
	}

	var err error
	if c.Balance, err = parseMoney(balance); err != nil {
		return domain.Contact{}, err
	}
	return c, nil
}

func parseMoney(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse money %q: %w", raw, err)
	}
	return value, nil
}

func parseOptionalMoney(raw *string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	value, err := parseMoney(*raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// moneyArg renders a nullable decimal as a SQL argument.
func moneyArg(value *decimal.Decimal) any {
	if value == nil {
		return nil
	}
	return value.String()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 200
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
