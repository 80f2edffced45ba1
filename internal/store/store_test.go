// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"menupress/internal/database"
	"menupress/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "menupress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "menupress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email. Restaurants and the whole menu
// tree underneath cascade. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// testOwner creates a throwaway owner account and registers cleanup.
func testOwner(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()
	users := NewUserStore(db)
	t.Cleanup(func() { cleanUsers(t, db, email) })
	u, err := users.Create(email, "test-password-123", "Test Owner", models.RoleOwner)
	if err != nil {
		t.Fatalf("create test owner: %v", err)
	}
	return u
}

// testRestaurant creates a restaurant for the given owner. Deleting the
// owner in cleanup cascades it away.
func testRestaurant(t *testing.T, db *sql.DB, owner *models.User, slug string) *models.Restaurant {
	t.Helper()
	restaurants := NewRestaurantStore(db)
	r, err := restaurants.Create(&models.Restaurant{
		OwnerID: owner.ID,
		Name:    "Test Restaurant",
		Slug:    slug,
	})
	if err != nil {
		t.Fatalf("create test restaurant: %v", err)
	}
	return r
}
