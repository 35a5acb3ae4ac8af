package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/AlanGiacomini/orders-api/internal/entity"
	"github.com/AlanGiacomini/orders-api/internal/usecase"
)

type MySQLCustomerRepo struct{ db *sql.DB }

func NewMySQLCustomerRepo(db *sql.DB) *MySQLCustomerRepo { return &MySQLCustomerRepo{db: db} }

func (r *MySQLCustomerRepo) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
SELECT id, name, document, COALESCE(email, ''), COALESCE(phone, ''), created_at
FROM customers WHERE id = ?`, id))
}

func (r *MySQLCustomerRepo) FindByDocument(ctx context.Context, document string) (*domain.Customer, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
SELECT id, name, document, COALESCE(email, ''), COALESCE(phone, ''), created_at
FROM customers WHERE document = ?`, document))
}

func (r *MySQLCustomerRepo) Create(ctx context.Context, c *domain.Customer) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO customers (name, document, email, phone, created_at)
VALUES (?, ?, ?, ?, NOW())`,
		c.Name, c.Document, c.Email, c.Phone,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *MySQLCustomerRepo) scanOne(row *sql.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Document, &c.Email, &c.Phone, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

var _ usecase.CustomerRepo = (*MySQLCustomerRepo)(nil)
