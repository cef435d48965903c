package user

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const userColumns = `id, email, password, first_name, last_name, phone, role, country_id, state_id, city_id, created_at, updated_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var (
		u         User
		countryID sql.NullInt64
		stateID   sql.NullInt64
		cityID    sql.NullInt64
	)
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Phone, &u.Role,
		&countryID, &stateID, &cityID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	if countryID.Valid {
		v := int(countryID.Int64)
		u.CountryID = &v
	}
	if stateID.Valid {
		v := int(stateID.Int64)
		u.StateID = &v
	}
	if cityID.Valid {
		v := int(cityID.Int64)
		u.CityID = &v
	}
	return u, nil
}

func (r *PostgresRepository) List() []User {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY id`)
	if err != nil {
		return []User{}
	}
	defer rows.Close()

	out := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) Create(u User) (User, error) {
	err := r.db.QueryRow(`INSERT INTO users (email, password, first_name, last_name, phone, role, country_id, state_id, city_id, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id`,
		u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.Role,
		u.CountryID, u.StateID, u.CityID, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) SetRole(id int, role string) (User, error) {
	res, err := r.db.Exec(`UPDATE users SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		return User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return User{}, ErrNotFound
	}
	return r.GetByID(id)
}
