package cart

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(userID, itemID int) (Entry, error) {
	var e Entry
	err := r.db.QueryRow(`INSERT INTO cart (user_id, item_id, quantity) VALUES ($1, $2, 1)
        ON CONFLICT (user_id, item_id) DO UPDATE SET quantity = cart.quantity + 1
        RETURNING user_id, item_id, quantity`,
		userID, itemID).Scan(&e.UserID, &e.ItemID, &e.Quantity)
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (r *PostgresRepository) SetQuantity(userID, itemID, qty int) (Entry, bool, error) {
	if qty == 0 {
		_, err := r.db.Exec(`DELETE FROM cart WHERE user_id = $1 AND item_id = $2`, userID, itemID)
		return Entry{}, false, err
	}

	var e Entry
	err := r.db.QueryRow(`INSERT INTO cart (user_id, item_id, quantity) VALUES ($1, $2, $3)
        ON CONFLICT (user_id, item_id) DO UPDATE SET quantity = EXCLUDED.quantity
        RETURNING user_id, item_id, quantity`,
		userID, itemID, qty).Scan(&e.UserID, &e.ItemID, &e.Quantity)
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (r *PostgresRepository) List(userID int) ([]Line, error) {
	rows, err := r.db.Query(`SELECT i.id, i.name, i.price, ct.quantity, i.image_url
        FROM cart ct
        JOIN items i ON i.id = ct.item_id
        WHERE ct.user_id = $1
        ORDER BY i.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Line, 0)
	for rows.Next() {
		var (
			line     Line
			imageURL sql.NullString
		)
		if err := rows.Scan(&line.ItemID, &line.Name, &line.Price, &line.Quantity, &imageURL); err != nil {
			return nil, err
		}
		if imageURL.Valid {
			line.ImageURL = &imageURL.String
		}
		out = append(out, line)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Clear(userID int) error {
	_, err := r.db.Exec(`DELETE FROM cart WHERE user_id = $1`, userID)
	return err
}
