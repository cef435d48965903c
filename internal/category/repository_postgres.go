package category

import (
	"database/sql"

	"github.com/lib/pq"
)

// Repository provides access to category rows.
type Repository interface {
	List() ([]Category, error)
	ExistAll(ids []int) (bool, error)
}

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Category, error) {
	rows, err := r.db.Query(`SELECT id, name FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, rows.Err()
}

// ExistAll reports whether every id refers to an existing category.
func (r *PostgresRepository) ExistAll(ids []int) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	var count int
	err := r.db.QueryRow(`SELECT COUNT(DISTINCT id) FROM categories WHERE id = ANY($1::int[])`, pq.Array(ids)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == len(uniqueInts(ids)), nil
}

func uniqueInts(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
