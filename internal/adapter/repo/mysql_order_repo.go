package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	domain "github.com/AlanGiacomini/orders-api/internal/entity"
	"github.com/AlanGiacomini/orders-api/internal/usecase"
)

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

func (r *MySQLOrderRepo) Create(ctx context.Context, o *domain.Order, items []domain.OrderItem) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
INSERT INTO orders (customer_id, order_number, total_value, status, created_at)
VALUES (?, ?, ?, ?, NOW())`,
		o.CustomerID, o.OrderNumber, o.TotalValue, o.Status.String(),
	)
	if err != nil {
		return 0, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, it := range items {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO order_items (order_id, product_name, quantity, unit_value)
VALUES (?, ?, ?, ?)`,
			orderID, it.ProductName, it.Quantity, it.UnitValue,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return orderID, nil
}

func (r *MySQLOrderRepo) FindByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, customer_id, order_number, status, total_value, created_at
FROM orders WHERE order_number = ?`, orderNumber)

	var (
		o      domain.Order
		status string
	)
	err := row.Scan(&o.ID, &o.CustomerID, &o.OrderNumber, &status, &o.TotalValue, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	o.Status = domain.Status(status)
	return &o, nil
}

func (r *MySQLOrderRepo) ItemsByOrderID(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, order_id, product_name, quantity, unit_value
FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductName, &it.Quantity, &it.UnitValue); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *MySQLOrderRepo) List(ctx context.Context, f usecase.OrderFilters) ([]domain.Order, error) {
	var (
		conds []string
		args  []any
	)
	if f.ID > 0 {
		conds = append(conds, "id = ?")
		args = append(args, f.ID)
	}
	if f.CustomerID > 0 {
		conds = append(conds, "customer_id = ?")
		args = append(args, f.CustomerID)
	}
	if f.OrderNumber != "" {
		conds = append(conds, "order_number = ?")
		args = append(args, f.OrderNumber)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status.String())
	}
	if !f.DateFrom.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, f.DateFrom)
	}
	if !f.DateTo.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, f.DateTo)
	}
	if f.HasMinValue {
		conds = append(conds, "total_value >= ?")
		args = append(args, f.MinValue)
	}
	if f.HasMaxValue {
		conds = append(conds, "total_value <= ?")
		args = append(args, f.MaxValue)
	}

	query := "SELECT id, customer_id, order_number, status, total_value, created_at FROM orders"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var (
			o      domain.Order
			status string
		)
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderNumber, &status, &o.TotalValue, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Status = domain.Status(status)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *MySQLOrderRepo) Summary(ctx context.Context) (*usecase.OrderSummary, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT COUNT(*), COALESCE(SUM(total_value), 0), COALESCE(AVG(total_value), 0)
FROM orders`)

	s := usecase.OrderSummary{StatusBreakdown: map[domain.Status]int64{}}
	if err := row.Scan(&s.TotalOrders, &s.TotalValue, &s.AverageOrderValue); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		s.StatusBreakdown[domain.Status(status)] = count
	}
	return &s, rows.Err()
}

// UpdateStatusIf is the compare-and-set guarding the transition invariant:
// the update only lands when the stored status still matches the expected
// prior state.
func (r *MySQLOrderRepo) UpdateStatusIf(ctx context.Context, orderNumber string, from, to domain.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE orders SET status = ?
WHERE order_number = ? AND status = ?`,
		to.String(), orderNumber, from.String(),
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	// rows == 0: not found or status mismatch, the caller treats both as a
	// benign race
	return rows > 0, nil
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
