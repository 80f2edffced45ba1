package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user, a demo owner with an active subscription, and a small demo
// restaurant so the editor has something to show. No-op when users exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Default admin. 2FA is not enabled — they must set it up on first login.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@menupress.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Demo owner with a trial subscription and a tiny menu.
	var ownerID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, "demo@menupress.local", string(hash), "Demo Owner", "owner", false).Scan(&ownerID)
	if err != nil {
		return fmt.Errorf("seed insert owner: %w", err)
	}

	if _, err := db.Exec(`
		INSERT INTO subscriptions (user_id, plan, status, current_period_end)
		VALUES ($1, 'premium', 'trialing', NOW() + INTERVAL '14 days')
	`, ownerID); err != nil {
		return fmt.Errorf("seed subscription: %w", err)
	}

	var restaurantID string
	err = db.QueryRow(`
		INSERT INTO restaurants (owner_id, name, slug, description, published)
		VALUES ($1, 'Demo Bistro', 'demo-bistro', 'A seeded restaurant for development.', TRUE)
		RETURNING id
	`, ownerID).Scan(&restaurantID)
	if err != nil {
		return fmt.Errorf("seed restaurant: %w", err)
	}

	var categoryID string
	err = db.QueryRow(`
		INSERT INTO categories (restaurant_id, name, order_index)
		VALUES ($1, 'Drinks', 0)
		RETURNING id
	`, restaurantID).Scan(&categoryID)
	if err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	var subcategoryID string
	err = db.QueryRow(`
		INSERT INTO subcategories (category_id, name, order_index)
		VALUES ($1, 'Hot Drinks', 0)
		RETURNING id
	`, categoryID).Scan(&subcategoryID)
	if err != nil {
		return fmt.Errorf("seed subcategory: %w", err)
	}

	if _, err := db.Exec(`
		INSERT INTO dishes (subcategory_id, name, description, price, vegetarian, order_index)
		VALUES
			($1, 'Espresso', 'Double shot.', '3.00', TRUE, 0),
			($1, 'Cappuccino', 'With oat milk on request.', '4.50', TRUE, 1)
	`, subcategoryID); err != nil {
		return fmt.Errorf("seed dishes: %w", err)
	}

	slog.Info("database seeded with default users and demo restaurant",
		"admin", "admin@menupress.local",
		"owner", "demo@menupress.local",
		"password", "admin",
	)

	return nil
}
