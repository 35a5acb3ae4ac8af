package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AlanGiacomini/orders-api/internal/usecase"
)

// MySQLAuditRepo appends to the notification_logs table. Rows are write-once.
type MySQLAuditRepo struct{ db *sql.DB }

func NewMySQLAuditRepo(db *sql.DB) *MySQLAuditRepo { return &MySQLAuditRepo{db: db} }

func (r *MySQLAuditRepo) Append(ctx context.Context, e usecase.AuditEntry) (int64, error) {
	var contextJSON any
	if e.Context != nil {
		b, err := json.Marshal(e.Context)
		if err != nil {
			return 0, fmt.Errorf("marshal audit context: %w", err)
		}
		contextJSON = string(b)
	}

	level := e.Level
	if level == "" {
		level = "INFO"
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO notification_logs (order_id, old_status, new_status, message, level, context, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.OrderID, e.OldStatus.String(), e.NewStatus.String(), e.Message, level, contextJSON, createdAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

var _ usecase.AuditLog = (*MySQLAuditRepo)(nil)
