package order

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/chanwit-mk/marketplace-backend/internal/item"
)

type PostgresRepository struct {
	db *sql.DB
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `id, user_id, total,
    shipping_first_name, shipping_last_name, shipping_address, shipping_property,
    shipping_country_id, shipping_state_id, shipping_city_id,
    shipping_zip_postal_code, shipping_phone, shipping_email,
    payment_method, payment_intent_id, payment_status, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var (
		o        Order
		property sql.NullString
		intentID sql.NullString
		payState sql.NullString
	)
	err := row.Scan(&o.ID, &o.UserID, &o.Total,
		&o.Shipping.FirstName, &o.Shipping.LastName, &o.Shipping.Address, &property,
		&o.Shipping.CountryID, &o.Shipping.StateID, &o.Shipping.CityID,
		&o.Shipping.ZipPostalCode, &o.Shipping.Phone, &o.Shipping.Email,
		&o.PaymentMethod, &intentID, &payState, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	if property.Valid {
		o.Shipping.Property = property.String
	}
	if intentID.Valid {
		o.PaymentIntentID = &intentID.String
	}
	if payState.Valid {
		o.PaymentStatus = &payState.String
	}
	o.Items = []Line{}
	return o, nil
}

// Create inserts the header and all lines in one transaction so a failing
// line leaves no partial order behind.
func (r *PostgresRepository) Create(o Order) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`INSERT INTO orders (user_id, total,
        shipping_first_name, shipping_last_name, shipping_address, shipping_property,
        shipping_country_id, shipping_state_id, shipping_city_id,
        shipping_zip_postal_code, shipping_phone, shipping_email,
        payment_method, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING id`,
		o.UserID, o.Total,
		o.Shipping.FirstName, o.Shipping.LastName, o.Shipping.Address, o.Shipping.Property,
		o.Shipping.CountryID, o.Shipping.StateID, o.Shipping.CityID,
		o.Shipping.ZipPostalCode, o.Shipping.Phone, o.Shipping.Email,
		o.PaymentMethod, o.Status, o.CreatedAt, o.UpdatedAt).Scan(&o.ID)
	if err != nil {
		return Order{}, err
	}

	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		err = tx.QueryRow(`INSERT INTO order_items (order_id, item_id, quantity, price)
            VALUES ($1,$2,$3,$4) RETURNING id`,
			o.ID, o.Items[i].ItemID, o.Items[i].Quantity, o.Items[i].Price).Scan(&o.Items[i].ID)
		if err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	o, err := scanOrder(r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	if err := r.attachLines([]*Order{&o}); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	return r.listWhere(`WHERE user_id = $1`, userID)
}

func (r *PostgresRepository) ListByMerchant(merchantID int) ([]Order, error) {
	return r.listWhere(`WHERE id IN (
        SELECT oi.order_id FROM order_items oi
        JOIN items i ON i.id = oi.item_id
        WHERE i.merchant_id = $1)`, merchantID)
}

func (r *PostgresRepository) listWhere(where string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders `+where+` ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachLines(orders); err != nil {
		return nil, err
	}

	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, *o)
	}
	return out, nil
}

// attachLines loads the lines for all orders in one query, each line joined
// with its item's current details.
func (r *PostgresRepository) attachLines(orders []*Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[int]*Order, len(orders))
	ids := make([]int, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := r.db.Query(`SELECT oi.id, oi.order_id, oi.item_id, oi.quantity, oi.price,
        i.id, i.name, i.description, i.price, i.stock, i.image_url, i.merchant_id, i.is_active
        FROM order_items oi
        JOIN items i ON i.id = oi.item_id
        WHERE oi.order_id = ANY($1::int[])
        ORDER BY oi.id`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			line     Line
			it       item.Item
			imageURL sql.NullString
		)
		err := rows.Scan(&line.ID, &line.OrderID, &line.ItemID, &line.Quantity, &line.Price,
			&it.ID, &it.Name, &it.Description, &it.Price, &it.Stock, &imageURL, &it.MerchantID, &it.IsActive)
		if err != nil {
			return err
		}
		if imageURL.Valid {
			it.ImageURL = &imageURL.String
		}
		line.Item = &it
		if o, ok := byID[line.OrderID]; ok {
			o.Items = append(o.Items, line)
		}
	}
	return rows.Err()
}

func (r *PostgresRepository) MerchantHasLines(orderID, merchantID int) (bool, error) {
	var ok bool
	err := r.db.QueryRow(`SELECT EXISTS (
        SELECT 1 FROM order_items oi
        JOIN items i ON i.id = oi.item_id
        WHERE oi.order_id = $1 AND i.merchant_id = $2)`, orderID, merchantID).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

type rowQuerier interface {
	QueryRow(query string, args ...any) *sql.Row
}

// statusConflict tells ErrNotFound apart from ErrBadTransition after a
// conditional status update matched no row.
func statusConflict(q rowQuerier, id int) error {
	var cur string
	err := q.QueryRow(`SELECT status FROM orders WHERE id = $1`, id).Scan(&cur)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrBadTransition
}

// UpdateStatus writes the new status only while the order still holds the
// expected current one. The check and the write are a single conditional
// update, so two racing transitions can never both apply.
func (r *PostgresRepository) UpdateStatus(id int, from, to string) error {
	res, err := r.db.Exec(`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		to, nowRFC3339(), id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return statusConflict(r.db, id)
	}
	return nil
}

// MarkProcessing bundles the status write with every line's stock decrement
// in one transaction. The status update runs first and is conditional on the
// order still being pending, so concurrent transitions decrement at most
// once; each decrement is likewise an atomically-checked conditional update,
// and the first line that lacks stock aborts the whole transition.
func (r *PostgresRepository) MarkProcessing(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := nowRFC3339()
	res, err := tx.Exec(`UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		StatusProcessing, now, id, StatusPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return statusConflict(tx, id)
	}

	rows, err := tx.Query(`SELECT item_id, quantity FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return err
	}
	type lineRef struct{ itemID, qty int }
	lines := make([]lineRef, 0)
	for rows.Next() {
		var l lineRef
		if err := rows.Scan(&l.itemID, &l.qty); err != nil {
			rows.Close()
			return err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, l := range lines {
		res, err := tx.Exec(`UPDATE items SET stock = stock - $1, updated_at = $2
            WHERE id = $3 AND stock >= $1`, l.qty, now, l.itemID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var name string
			if err := tx.QueryRow(`SELECT name FROM items WHERE id = $1`, l.itemID).Scan(&name); err != nil {
				return err
			}
			return &item.InsufficientStockError{ItemID: l.itemID, Name: name}
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) SetPaymentIntent(id int, intentID, status string) error {
	res, err := r.db.Exec(`UPDATE orders SET payment_intent_id = $1, payment_status = $2, updated_at = $3 WHERE id = $4`,
		intentID, status, nowRFC3339(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
