package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hexforge/blogdeck/internal/common"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrNotOwner       = errors.New("blog belongs to another user")
	ErrOwnerNotFound  = errors.New("owner_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

// ForeignKeyError is a helper function to check if the error is a foreign key constraint error.
func ForeignKeyError(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "23503" && pqErr.Constraint == name {
			return true
		}
	}

	return false
}

var blogSortColumns = map[string]string{
	"name":        "name",
	"description": "description",
	"websiteUrl":  "website_url",
	"createdAt":   "created_at",
}

var blogSearchColumns = map[string]string{
	"searchNameTerm": "name",
}

// notBannedBlogs is the visibility predicate for every public blog path.
var notBannedBlogs = squirrel.Eq{"is_banned": false}

func (m *BlogModel) insertBlog(ctx context.Context, b *Blog) error {
	query := `
		INSERT INTO blogs (name, description, website_url, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, b.Name, b.Description, b.WebsiteURL, b.OwnerID).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		switch {
		case ForeignKeyError(err, "blogs_owner_id_fkey"):
			return ErrOwnerNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) getBlogByID(ctx context.Context, id uuid.UUID) (*Blog, error) {
	query := `
		SELECT id, name, description, website_url, owner_id, created_at, is_banned, ban_date
		FROM blogs
		WHERE id = $1`

	var b Blog
	err := m.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID,
		&b.Name,
		&b.Description,
		&b.WebsiteURL,
		&b.OwnerID,
		&b.CreatedAt,
		&b.IsBanned,
		&b.BanDate,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &b, nil
}

func (m *BlogModel) updateBlog(ctx context.Context, id uuid.UUID, name, description, websiteURL string) error {
	query := `
		UPDATE blogs
		SET name = $1, description = $2, website_url = $3
		WHERE id = $4`

	res, err := m.db.ExecContext(ctx, query, name, description, websiteURL, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// deleteBlog removes the blog; its posts go with it via the cascade.
func (m *BlogModel) deleteBlog(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM blogs
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
		return ErrRecordNotFound
	}

	return nil
}

// setBanStatus applies a ban or unban in a single statement. Re-banning
// refreshes the date; unbanning clears it.
func (m *BlogModel) setBanStatus(ctx context.Context, id uuid.UUID, banned bool) error {
	var query string
	if banned {
		query = `
			UPDATE blogs
			SET is_banned = true, ban_date = now()
			WHERE id = $1`
	} else {
		query = `
			UPDATE blogs
			SET is_banned = false, ban_date = NULL
			WHERE id = $1`
	}

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// listBlogs runs the count+fetch pair for a blog listing. conds narrows the
// base set (public visibility, ownership); the descriptor contributes search,
// ban-status, order and paging.
func (m *BlogModel) listBlogs(ctx context.Context, q common.QueryParams, conds ...squirrel.Sqlizer) ([]Blog, int, error) {
	count := common.PSQL().Select("count(*)").From("blogs")
	sel := common.PSQL().
		Select("id", "name", "description", "website_url", "owner_id", "created_at", "is_banned", "ban_date").
		From("blogs")

	for _, c := range conds {
		count = count.Where(c)
		sel = sel.Where(c)
	}

	count = q.ApplySearch(count, blogSearchColumns)
	count = q.ApplyBanStatus(count, "is_banned")
	sel = q.ApplySearch(sel, blogSearchColumns)
	sel = q.ApplyBanStatus(sel, "is_banned")

	query, args, err := count.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err = q.ApplyPaging(q.ApplyOrder(sel, "id")).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var blogs []Blog
	for rows.Next() {
		var b Blog
		err := rows.Scan(
			&b.ID,
			&b.Name,
			&b.Description,
			&b.WebsiteURL,
			&b.OwnerID,
			&b.CreatedAt,
			&b.IsBanned,
			&b.BanDate,
		)
		if err != nil {
			return nil, 0, err
		}
		blogs = append(blogs, b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return blogs, total, nil
}
