package dbhelper

import (
	"context"
	"database/sql"

	"backend/internal/models"
)

const userColumns = `user_id, name, phone_number, email, password, role, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		user     models.User
		phone    sql.NullString
		password sql.NullString
	)

	err := row.Scan(&user.UserID, &user.Name, &phone, &user.Email, &password, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		user.PhoneNumber = &phone.String
	}
	if password.Valid {
		user.Password = &password.String
	}

	return &user, nil
}

func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*models.User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE LOWER(email) = LOWER($1)`, email)
	return scanUser(row)
}

func GetUserByPhone(ctx context.Context, db *sql.DB, phone string) (*models.User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE phone_number = $1`, phone)
	return scanUser(row)
}

func GetUserByID(ctx context.Context, db *sql.DB, userID int) (*models.User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE user_id = $1`, userID)
	return scanUser(row)
}

func IsEmailTaken(ctx context.Context, db *sql.DB, email string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE LOWER(email) = LOWER($1)`, email).Scan(&count)
	return count > 0, err
}

// CreateUser inserts a signed-up user with a password hash and role.
func CreateUser(ctx context.Context, db *sql.DB, name string, phone *string, email, hashedPassword, role string) (*models.User, error) {
	row := db.QueryRowContext(ctx, `
		INSERT INTO users (name, phone_number, email, password, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns, name, phone, email, hashedPassword, role)
	return scanUser(row)
}
