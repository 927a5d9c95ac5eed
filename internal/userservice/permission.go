package userservice

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

func (m *DBModel) addUserPermission(tx *sql.Tx, ctx context.Context, id uuid.UUID, permissions ...Permission) error {
	query := `
		INSERT INTO users_permissions (user_id, permission_id)
		VALUES ($1, (SELECT id FROM permissions WHERE name = $2))
		ON CONFLICT DO NOTHING`

	for _, p := range permissions {
		_, err := tx.ExecContext(ctx, query, id, string(p))
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *DBModel) getUserPermissions(ctx context.Context, id uuid.UUID) (Permissions, error) {
	query := `
		SELECT p.name
		FROM permissions p
		INNER JOIN users_permissions up ON p.id = up.permission_id
		WHERE up.user_id = $1`

	rows, err := m.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions Permissions
	for rows.Next() {
		var permission Permission

		err := rows.Scan(&permission)
		if err != nil {
			return nil, err
		}

		permissions = append(permissions, permission)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return permissions, nil
}
