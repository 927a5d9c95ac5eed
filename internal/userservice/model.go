package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hexforge/blogdeck/internal/common"
)

var (
	ErrDuplicateLogin = errors.New("duplicate login")
	ErrDuplicateEmail = errors.New("duplicate email")
	ErrNotFound       = errors.New("user not found")
)

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

// uniqueViolation reports whether err is a Postgres unique-constraint error on
// the named constraint.
func uniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == name
	}
	return false
}

func (m *DBModel) insertUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (login, email, password, activated)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, u.Login, u.Email, u.Password.hash, u.Activated).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		switch {
		case uniqueViolation(err, "users_login_key"):
			return ErrDuplicateLogin
		case uniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

func (m *DBModel) getByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error) {
	query := `
		SELECT id, login, email, password, activated, created_at, is_banned, ban_date, ban_reason
		FROM users
		WHERE login = $1 OR email = $1`

	var u User
	err := m.db.QueryRowContext(ctx, query, loginOrEmail).Scan(
		&u.ID,
		&u.Login,
		&u.Email,
		&u.Password.hash,
		&u.Activated,
		&u.CreatedAt,
		&u.Ban.IsBanned,
		&u.Ban.BanDate,
		&u.Ban.BanReason,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *DBModel) activateUser(tx *sql.Tx, ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET activated = true
		WHERE id = $1`

	res, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (m *DBModel) deleteUser(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM users
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// setBanStatus applies a ban or unban in a single statement. Re-banning an
// already banned user refreshes the date and reason; unbanning clears both.
func (m *DBModel) setBanStatus(ctx context.Context, id uuid.UUID, banned bool, reason string) error {
	var query string
	var args []any

	if banned {
		query = `
			UPDATE users
			SET is_banned = true, ban_date = now(), ban_reason = $2
			WHERE id = $1`
		args = []any{id, reason}
	} else {
		query = `
			UPDATE users
			SET is_banned = false, ban_date = NULL, ban_reason = NULL
			WHERE id = $1`
		args = []any{id}
	}

	res, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

var userSortColumns = map[string]string{
	"login":     "login",
	"email":     "email",
	"createdAt": "created_at",
}

var userSearchColumns = map[string]string{
	"searchLoginTerm": "login",
	"searchEmailTerm": "email",
}

func (m *DBModel) listUsers(ctx context.Context, q common.QueryParams) ([]User, int, error) {
	count := common.PSQL().Select("count(*)").From("users")
	count = q.ApplySearch(count, userSearchColumns)
	count = q.ApplyBanStatus(count, "is_banned")

	query, args, err := count.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sel := common.PSQL().
		Select("id", "login", "email", "activated", "created_at", "is_banned", "ban_date", "ban_reason").
		From("users")
	sel = q.ApplySearch(sel, userSearchColumns)
	sel = q.ApplyBanStatus(sel, "is_banned")
	sel = q.ApplyPaging(q.ApplyOrder(sel, "id"))

	query, args, err = sel.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		err := rows.Scan(
			&u.ID,
			&u.Login,
			&u.Email,
			&u.Activated,
			&u.CreatedAt,
			&u.Ban.IsBanned,
			&u.Ban.BanDate,
			&u.Ban.BanReason,
		)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
