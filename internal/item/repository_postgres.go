package item

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/chanwit-mk/marketplace-backend/internal/category"
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

// itemQuery aggregates each item's categories as a JSON array so a single
// round trip returns the full shape.
const itemQuery = `
    SELECT i.id, i.name, i.description, i.price, i.stock, i.image_url, i.merchant_id, i.is_active,
           i.created_at, i.updated_at,
           COALESCE(json_agg(json_build_object('id', c.id, 'name', c.name)) FILTER (WHERE c.id IS NOT NULL), '[]')
    FROM items i
    LEFT JOIN category_item ci ON ci.item_id = i.id
    LEFT JOIN categories c ON c.id = ci.category_id
`

func scanItem(row interface{ Scan(...any) error }) (Item, error) {
	var (
		it       Item
		imageURL sql.NullString
		catsJSON []byte
	)
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &it.Stock, &imageURL,
		&it.MerchantID, &it.IsActive, &it.CreatedAt, &it.UpdatedAt, &catsJSON)
	if err != nil {
		return Item{}, err
	}
	if imageURL.Valid {
		it.ImageURL = &imageURL.String
	}
	var cats []category.Category
	if err := json.Unmarshal(catsJSON, &cats); err == nil {
		it.Categories = cats
	}
	return it, nil
}

func (r *PostgresRepository) queryItems(where string, args ...any) ([]Item, error) {
	rows, err := r.db.Query(itemQuery+where+` GROUP BY i.id ORDER BY i.created_at DESC, i.id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListActive() ([]Item, error) {
	return r.queryItems(`WHERE i.is_active`)
}

func (r *PostgresRepository) Search(query string, categoryIDs []int) ([]Item, error) {
	where := `WHERE i.is_active`
	args := make([]any, 0, 2)
	if query != "" {
		args = append(args, "%"+query+"%")
		where += fmt.Sprintf(` AND (i.name ILIKE $%d OR i.description ILIKE $%d)`, len(args), len(args))
	}
	if len(categoryIDs) > 0 {
		args = append(args, pq.Array(categoryIDs))
		where += fmt.Sprintf(` AND i.id IN (SELECT item_id FROM category_item WHERE category_id = ANY($%d::int[]))`, len(args))
	}
	return r.queryItems(where, args...)
}

func (r *PostgresRepository) ListByMerchant(merchantID int) ([]Item, error) {
	return r.queryItems(`WHERE i.merchant_id = $1`, merchantID)
}

func (r *PostgresRepository) GetByID(id int) (Item, error) {
	it, err := scanItem(r.db.QueryRow(itemQuery+`WHERE i.id = $1 GROUP BY i.id`, id))
	if err == sql.ErrNoRows {
		return Item{}, ErrNotFound
	}
	return it, err
}

// Create inserts the item row and its category links in one transaction.
func (r *PostgresRepository) Create(it Item, categoryIDs []int) (Item, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Item{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`INSERT INTO items (name, description, price, stock, image_url, merchant_id, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id`,
		it.Name, it.Description, it.Price, it.Stock, it.ImageURL, it.MerchantID, it.IsActive,
		it.CreatedAt, it.UpdatedAt).Scan(&it.ID)
	if err != nil {
		return Item{}, err
	}

	for _, cid := range categoryIDs {
		if _, err := tx.Exec(`INSERT INTO category_item (category_id, item_id) VALUES ($1, $2)`, cid, it.ID); err != nil {
			return Item{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Item{}, err
	}
	return r.GetByID(it.ID)
}

func (r *PostgresRepository) SetStock(id int, stock int) (Item, error) {
	res, err := r.db.Exec(`UPDATE items SET stock = $1, updated_at = $2 WHERE id = $3`, stock, nowRFC3339(), id)
	if err != nil {
		return Item{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Item{}, ErrNotFound
	}
	return r.GetByID(id)
}

// DecrementStock performs the stock check and the write as one conditional
// update, so two racing decrements can never drive stock negative.
func (r *PostgresRepository) DecrementStock(id int, qty int) (int, error) {
	var newStock int
	err := r.db.QueryRow(`UPDATE items SET stock = stock - $1, updated_at = $2
        WHERE id = $3 AND stock >= $1
        RETURNING stock`, qty, nowRFC3339(), id).Scan(&newStock)
	if err == sql.ErrNoRows {
		// either the item is missing or the precondition failed
		var name string
		var stock int
		lookupErr := r.db.QueryRow(`SELECT name, stock FROM items WHERE id = $1`, id).Scan(&name, &stock)
		if lookupErr == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		if lookupErr != nil {
			return 0, lookupErr
		}
		return stock, &InsufficientStockError{ItemID: id, Name: name}
	}
	if err != nil {
		return 0, err
	}
	return newStock, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
