package store

import (
	"database/sql"
	"fmt"
	"time"
)

type Order struct {
	ID               int64      `json:"id"`
	UUID             string     `json:"uuid"`
	Status           string     `json:"status"`
	UserID           int64      `json:"user_id"`
	VendorID         int64      `json:"vendor_id"`
	DeliveryPersonID *int64     `json:"delivery_person_id,omitempty"`
	AssignedBy       string     `json:"assigned_by"`
	DeliveryNotes    string     `json:"delivery_notes"`
	Subtotal         float64    `json:"subtotal"`
	Tax              float64    `json:"tax"`
	DeliveryFee      float64    `json:"delivery_fee"`
	Discount         float64    `json:"discount"`
	Total            float64    `json:"total"`
	CancelReason     string     `json:"cancel_reason"`
	CancelledBy      string     `json:"cancelled_by"`
	VendorRating     int        `json:"vendor_rating"`
	DeliveryRating   int        `json:"delivery_rating"`
	FeedbackComment  string     `json:"feedback_comment"`
	FeedbackIssues   string     `json:"feedback_issues"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

type OrderHistory struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Detail    string    `json:"detail"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

const orderSelectCols = `id, uuid, status, user_id, vendor_id, delivery_person_id, assigned_by, delivery_notes, subtotal, tax, delivery_fee, discount, total, cancel_reason, cancelled_by, vendor_rating, delivery_rating, feedback_comment, feedback_issues, created_at, updated_at, completed_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	var deliveryPersonID sql.NullInt64
	var createdAt, updatedAt, completedAt any

	err := row.Scan(&o.ID, &o.UUID, &o.Status, &o.UserID, &o.VendorID,
		&deliveryPersonID, &o.AssignedBy, &o.DeliveryNotes,
		&o.Subtotal, &o.Tax, &o.DeliveryFee, &o.Discount, &o.Total,
		&o.CancelReason, &o.CancelledBy,
		&o.VendorRating, &o.DeliveryRating, &o.FeedbackComment, &o.FeedbackIssues,
		&createdAt, &updatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	if deliveryPersonID.Valid {
		o.DeliveryPersonID = &deliveryPersonID.Int64
	}
	o.CreatedAt = parseTime(createdAt)
	o.UpdatedAt = parseTime(updatedAt)
	o.CompletedAt = parseTimePtr(completedAt)
	return &o, nil
}

func scanOrders(rows *sql.Rows) ([]*Order, error) {
	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (db *DB) CreateOrder(o *Order) error {
	id, err := db.insertReturningID(
		`INSERT INTO orders (uuid, status, user_id, vendor_id, subtotal, tax, delivery_fee, discount, total) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.UUID, o.Status, o.UserID, o.VendorID,
		o.Subtotal, o.Tax, o.DeliveryFee, o.Discount, o.Total)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	o.ID = id
	return nil
}

func (db *DB) GetOrder(id int64) (*Order, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM orders WHERE id=?`, orderSelectCols)), id)
	return scanOrder(row)
}

func (db *DB) GetOrderByUUID(uuid string) (*Order, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM orders WHERE uuid=?`, orderSelectCols)), uuid)
	return scanOrder(row)
}

func (db *DB) ListOrders(status string, limit int) ([]*Order, error) {
	var rows *sql.Rows
	var err error
	if status != "" {
		rows, err = db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM orders WHERE status=? ORDER BY id DESC LIMIT ?`, orderSelectCols)), status, limit)
	} else {
		rows, err = db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM orders ORDER BY id DESC LIMIT ?`, orderSelectCols)), limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (db *DB) ListActiveOrders() ([]*Order, error) {
	rows, err := db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM orders WHERE status NOT IN ('COMPLETED', 'CANCELLED') ORDER BY id DESC`, orderSelectCols)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (db *DB) UpdateOrderStatus(id int64, status string) error {
	_, err := db.Exec(db.Q(`UPDATE orders SET status=?, updated_at=datetime('now','localtime') WHERE id=?`), status, id)
	return err
}

// MarkOrderCompleted stamps completed_at along with the status change.
func (db *DB) MarkOrderCompleted(id int64, status string) error {
	_, err := db.Exec(db.Q(`UPDATE orders SET status=?, completed_at=datetime('now','localtime'), updated_at=datetime('now','localtime') WHERE id=?`), status, id)
	return err
}

func (db *DB) UpdateOrderAssignment(id, deliveryPersonID int64, assignedBy, notes string) error {
	_, err := db.Exec(db.Q(`UPDATE orders SET delivery_person_id=?, assigned_by=?, delivery_notes=?, updated_at=datetime('now','localtime') WHERE id=?`),
		deliveryPersonID, assignedBy, notes, id)
	return err
}

func (db *DB) UpdateOrderCancellation(id int64, reason, cancelledBy string) error {
	_, err := db.Exec(db.Q(`UPDATE orders SET cancel_reason=?, cancelled_by=?, updated_at=datetime('now','localtime') WHERE id=?`),
		reason, cancelledBy, id)
	return err
}

func (db *DB) UpdateOrderFeedback(id int64, vendorRating, deliveryRating int, comment, issuesJSON string) error {
	_, err := db.Exec(db.Q(`UPDATE orders SET vendor_rating=?, delivery_rating=?, feedback_comment=?, feedback_issues=?, updated_at=datetime('now','localtime') WHERE id=?`),
		vendorRating, deliveryRating, comment, issuesJSON, id)
	return err
}

func (db *DB) InsertOrderHistory(orderID int64, oldStatus, newStatus, detail, actor string) error {
	_, err := db.Exec(db.Q(`INSERT INTO order_history (order_id, old_status, new_status, detail, actor) VALUES (?, ?, ?, ?, ?)`),
		orderID, oldStatus, newStatus, detail, actor)
	return err
}

func (db *DB) ListOrderHistory(orderID int64) ([]*OrderHistory, error) {
	rows, err := db.Query(db.Q(`SELECT id, order_id, old_status, new_status, detail, actor, created_at FROM order_history WHERE order_id=? ORDER BY id`), orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var history []*OrderHistory
	for rows.Next() {
		var h OrderHistory
		var createdAt any
		if err := rows.Scan(&h.ID, &h.OrderID, &h.OldStatus, &h.NewStatus, &h.Detail, &h.Actor, &createdAt); err != nil {
			return nil, err
		}
		h.CreatedAt = parseTime(createdAt)
		history = append(history, &h)
	}
	return history, rows.Err()
}
