// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// user_theme.go stores owner-saved custom themes. Built-in presets live
// in code (models.ThemePresets); only user creations hit this table.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"menupress/internal/models"
)

// UserThemeStore manages saved custom themes.
type UserThemeStore struct {
	db *sql.DB
}

// NewUserThemeStore returns a new UserThemeStore.
func NewUserThemeStore(db *sql.DB) *UserThemeStore {
	return &UserThemeStore{db: db}
}

const userThemeColumns = `id, user_id, name, theme, created_at, updated_at`

// scanUserTheme scans a row into a UserTheme struct.
func scanUserTheme(scanner interface{ Scan(...any) error }) (*models.UserTheme, error) {
	var t models.UserTheme
	err := scanner.Scan(&t.ID, &t.UserID, &t.Name, &t.Theme, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByUser returns a user's saved themes, newest first.
func (s *UserThemeStore) ListByUser(userID uuid.UUID) ([]models.UserTheme, error) {
	rows, err := s.db.Query(`
		SELECT `+userThemeColumns+` FROM user_themes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user themes: %w", err)
	}
	defer rows.Close()

	var themes []models.UserTheme
	for rows.Next() {
		t, err := scanUserTheme(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user theme: %w", err)
		}
		themes = append(themes, *t)
	}
	return themes, rows.Err()
}

// FindByID retrieves a saved theme by ID. Returns nil if not found.
func (s *UserThemeStore) FindByID(id uuid.UUID) (*models.UserTheme, error) {
	row := s.db.QueryRow(`SELECT `+userThemeColumns+` FROM user_themes WHERE id = $1`, id)
	t, err := scanUserTheme(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user theme by id: %w", err)
	}
	return t, nil
}

// Create saves a new custom theme for a user.
func (s *UserThemeStore) Create(userID uuid.UUID, name string, theme models.Theme) (*models.UserTheme, error) {
	row := s.db.QueryRow(`
		INSERT INTO user_themes (user_id, name, theme)
		VALUES ($1, $2, $3)
		RETURNING `+userThemeColumns,
		userID, name, theme)
	t, err := scanUserTheme(row)
	if err != nil {
		return nil, fmt.Errorf("create user theme: %w", err)
	}
	return t, nil
}

// Update overwrites a saved theme's name and definition.
func (s *UserThemeStore) Update(id uuid.UUID, name string, theme models.Theme) error {
	result, err := s.db.Exec(`
		UPDATE user_themes SET name = $1, theme = $2, updated_at = NOW() WHERE id = $3
	`, name, theme, id)
	if err != nil {
		return fmt.Errorf("update user theme: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user theme not found")
	}
	return nil
}

// Delete removes a saved theme by ID.
func (s *UserThemeStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM user_themes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user theme: %w", err)
	}
	return nil
}
