package main

import (
	"database/sql"

	log "github.com/sirupsen/logrus"
)

// migrate creates every table the application needs. Statements are
// idempotent so the binary can be restarted against an existing database.
func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS countries (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL UNIQUE
        )`,
		`CREATE TABLE IF NOT EXISTS states (
            id SERIAL PRIMARY KEY,
            country_id INT NOT NULL REFERENCES countries(id) ON DELETE CASCADE,
            name TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS cities (
            id SERIAL PRIMARY KEY,
            state_id INT NOT NULL REFERENCES states(id) ON DELETE CASCADE,
            name TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS users (
            id SERIAL PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            first_name TEXT NOT NULL DEFAULT '',
            last_name TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            role TEXT NOT NULL DEFAULT 'customer' CHECK (role IN ('customer','merchant','admin')),
            country_id INT REFERENCES countries(id) ON DELETE SET NULL,
            state_id INT REFERENCES states(id) ON DELETE SET NULL,
            city_id INT REFERENCES cities(id) ON DELETE SET NULL,
            created_at TEXT,
            updated_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS categories (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL UNIQUE
        )`,
		`CREATE TABLE IF NOT EXISTS items (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price NUMERIC(10,2) NOT NULL,
            stock INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
            image_url TEXT,
            merchant_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TEXT,
            updated_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS category_item (
            category_id INT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
            item_id INT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
            PRIMARY KEY (category_id, item_id)
        )`,
		`CREATE TABLE IF NOT EXISTS cart (
            id SERIAL PRIMARY KEY,
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            item_id INT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
            quantity INT NOT NULL CHECK (quantity > 0),
            UNIQUE (user_id, item_id)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id SERIAL PRIMARY KEY,
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            total NUMERIC(10,2) NOT NULL,
            shipping_first_name TEXT NOT NULL,
            shipping_last_name TEXT NOT NULL,
            shipping_address TEXT NOT NULL,
            shipping_property TEXT,
            shipping_country_id INT NOT NULL REFERENCES countries(id),
            shipping_state_id INT NOT NULL REFERENCES states(id),
            shipping_city_id INT NOT NULL REFERENCES cities(id),
            shipping_zip_postal_code TEXT NOT NULL,
            shipping_phone TEXT NOT NULL,
            shipping_email TEXT NOT NULL,
            payment_method TEXT NOT NULL CHECK (payment_method IN ('paypal','card','cash')),
            payment_intent_id TEXT,
            payment_status TEXT,
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','processing','completed','cancelled')),
            created_at TEXT,
            updated_at TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id SERIAL PRIMARY KEY,
            order_id INT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            item_id INT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
            quantity INT NOT NULL CHECK (quantity > 0),
            price NUMERIC(10,2) NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS merchant_applications (
            id SERIAL PRIMARY KEY,
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            reason TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','approved','rejected')),
            admin_notes TEXT,
            reviewed_at TEXT,
            created_at TEXT
        )`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// seed fills the lookup tables when they are empty so a fresh database is
// usable without manual inserts.
func seed(db *sql.DB) {
	var categoryCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&categoryCount); err == nil && categoryCount == 0 {
		for _, name := range []string{
			"Electronics",
			"Clothing",
			"Home & Garden",
			"Sports & Outdoors",
			"Books",
			"Toys & Games",
			"Health & Beauty",
		} {
			if _, err := db.Exec(`INSERT INTO categories (name) VALUES ($1)`, name); err != nil {
				log.WithError(err).WithField("category", name).Warn("category seed failed")
			}
		}
	}

	var countryCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM countries`).Scan(&countryCount); err != nil || countryCount > 0 {
		return
	}
	geo := []struct {
		country string
		states  map[string][]string
	}{
		{"United States", map[string][]string{
			"California": {"Los Angeles", "San Francisco", "San Diego"},
			"New York":   {"New York City", "Buffalo", "Albany"},
			"Texas":      {"Houston", "Austin", "Dallas"},
		}},
		{"United Kingdom", map[string][]string{
			"England":  {"London", "Manchester", "Birmingham"},
			"Scotland": {"Edinburgh", "Glasgow"},
		}},
		{"Thailand", map[string][]string{
			"Bangkok":    {"Phra Nakhon", "Chatuchak"},
			"Chiang Mai": {"Mueang Chiang Mai", "Hang Dong"},
		}},
	}
	for _, c := range geo {
		var countryID int
		if err := db.QueryRow(`INSERT INTO countries (name) VALUES ($1) RETURNING id`, c.country).Scan(&countryID); err != nil {
			log.WithError(err).WithField("country", c.country).Warn("country seed failed")
			continue
		}
		for state, cities := range c.states {
			var stateID int
			if err := db.QueryRow(`INSERT INTO states (country_id, name) VALUES ($1, $2) RETURNING id`, countryID, state).Scan(&stateID); err != nil {
				log.WithError(err).WithField("state", state).Warn("state seed failed")
				continue
			}
			for _, city := range cities {
				if _, err := db.Exec(`INSERT INTO cities (state_id, name) VALUES ($1, $2)`, stateID, city); err != nil {
					log.WithError(err).WithField("city", city).Warn("city seed failed")
				}
			}
		}
	}
}
