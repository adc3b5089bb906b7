package database

import (
	"context"
	"database/sql"
	"fmt"
)

// User represents a user record, as far as notification dispatch needs it.
type User struct {
	UserID      string
	FactoryID   string
	Email       string
	PhoneNumber string
	Role        string
}

// FactoryAdmins returns the users who receive alert notifications for a
// factory: everyone with role admin or super_admin.
func (db *DB) FactoryAdmins(ctx context.Context, factoryID string) ([]*User, error) {
	query := `
		SELECT user_id, factory_id, email, phone_number, role
		FROM users
		WHERE factory_id = $1 AND role IN ('admin', 'super_admin')
		ORDER BY email ASC
	`
	rows, err := db.conn.QueryContext(ctx, query, factoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query factory admins: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var user User
		var phone sql.NullString
		if err := rows.Scan(&user.UserID, &user.FactoryID, &user.Email, &phone, &user.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.PhoneNumber = phone.String
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
