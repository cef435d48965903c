package geo

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListCountries() ([]Country, error) {
	rows, err := r.db.Query(`SELECT id, name FROM countries ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Country, 0)
	for rows.Next() {
		var c Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListStates(countryID int) ([]State, error) {
	rows, err := r.db.Query(`SELECT id, country_id, name FROM states WHERE country_id = $1 ORDER BY name`, countryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]State, 0)
	for rows.Next() {
		var s State
		if err := rows.Scan(&s.ID, &s.CountryID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListCities(stateID int) ([]City, error) {
	rows, err := r.db.Query(`SELECT id, state_id, name FROM cities WHERE state_id = $1 ORDER BY name`, stateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]City, 0)
	for rows.Next() {
		var c City
		if err := rows.Scan(&c.ID, &c.StateID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) RefsExist(countryID, stateID, cityID int) (bool, error) {
	var ok bool
	err := r.db.QueryRow(`SELECT
        EXISTS (SELECT 1 FROM countries WHERE id = $1)
        AND EXISTS (SELECT 1 FROM states WHERE id = $2)
        AND EXISTS (SELECT 1 FROM cities WHERE id = $3)`,
		countryID, stateID, cityID).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}
