package merchantapp

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const appColumns = `id, user_id, reason, status, admin_notes, reviewed_at, created_at`

func scanApp(row interface{ Scan(...any) error }) (Application, error) {
	var (
		a          Application
		notes      sql.NullString
		reviewedAt sql.NullString
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.Reason, &a.Status, &notes, &reviewedAt, &a.CreatedAt); err != nil {
		return Application{}, err
	}
	if notes.Valid {
		a.AdminNotes = &notes.String
	}
	if reviewedAt.Valid {
		a.ReviewedAt = &reviewedAt.String
	}
	return a, nil
}

func (r *PostgresRepository) Create(a Application) (Application, error) {
	err := r.db.QueryRow(`INSERT INTO merchant_applications (user_id, reason, status, created_at)
        VALUES ($1,$2,$3,$4) RETURNING id`,
		a.UserID, a.Reason, a.Status, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		return Application{}, err
	}
	return a, nil
}

func (r *PostgresRepository) GetByID(id int) (Application, error) {
	a, err := scanApp(r.db.QueryRow(`SELECT `+appColumns+` FROM merchant_applications WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return Application{}, ErrNotFound
	}
	return a, err
}

func (r *PostgresRepository) HasPending(userID int) (bool, error) {
	var ok bool
	err := r.db.QueryRow(`SELECT EXISTS (
        SELECT 1 FROM merchant_applications WHERE user_id = $1 AND status = $2)`,
		userID, StatusPending).Scan(&ok)
	return ok, err
}

func (r *PostgresRepository) ListPending() ([]Application, error) {
	rows, err := r.db.Query(`SELECT `+appColumns+` FROM merchant_applications
        WHERE status = $1 ORDER BY created_at DESC, id DESC`, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Application, 0)
	for rows.Next() {
		a, err := scanApp(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Review(id int, status string, notes *string, reviewedAt string) (Application, error) {
	res, err := r.db.Exec(`UPDATE merchant_applications
        SET status = $1, admin_notes = $2, reviewed_at = $3 WHERE id = $4`,
		status, notes, reviewedAt, id)
	if err != nil {
		return Application{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Application{}, ErrNotFound
	}
	return r.GetByID(id)
}
