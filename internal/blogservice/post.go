package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/hexforge/blogdeck/internal/common"
)

var postSortColumns = map[string]string{
	"title":            "p.title",
	"shortDescription": "p.short_description",
	"content":          "p.content",
	"blogName":         "b.name",
	"createdAt":        "p.created_at",
}

func (m *BlogModel) insertPost(ctx context.Context, p *Post) error {
	query := `
		INSERT INTO posts (title, short_description, content, blog_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, p.Title, p.ShortDescription, p.Content, p.BlogID).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		switch {
		case ForeignKeyError(err, "posts_blog_id_fkey"):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

// getPostByID returns a post only when its blog is publicly visible.
func (m *BlogModel) getPostByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	query := `
		SELECT p.id, p.title, p.short_description, p.content, p.blog_id, b.name, p.created_at
		FROM posts p
		INNER JOIN blogs b ON b.id = p.blog_id
		WHERE p.id = $1 AND b.is_banned = false`

	var p Post
	err := m.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.ShortDescription,
		&p.Content,
		&p.BlogID,
		&p.BlogName,
		&p.CreatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &p, nil
}

// updatePost scopes the update to the blog so a post id from another blog
// cannot be reached through the wrong URL.
func (m *BlogModel) updatePost(ctx context.Context, postID, blogID uuid.UUID, title, shortDescription, content string) error {
	query := `
		UPDATE posts
		SET title = $1, short_description = $2, content = $3
		WHERE id = $4 AND blog_id = $5`

	res, err := m.db.ExecContext(ctx, query, title, shortDescription, content, postID, blogID)
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

func (m *BlogModel) deletePost(ctx context.Context, postID, blogID uuid.UUID) error {
	query := `
		DELETE FROM posts
		WHERE id = $1 AND blog_id = $2`

	res, err := m.db.ExecContext(ctx, query, postID, blogID)
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

// listPosts runs the count+fetch pair for a post listing. Posts of banned
// blogs never appear; conds adds the per-blog scope when set.
func (m *BlogModel) listPosts(ctx context.Context, q common.QueryParams, conds ...squirrel.Sqlizer) ([]Post, int, error) {
	count := common.PSQL().
		Select("count(*)").
		From("posts p").
		InnerJoin("blogs b ON b.id = p.blog_id").
		Where(squirrel.Eq{"b.is_banned": false})
	sel := common.PSQL().
		Select("p.id", "p.title", "p.short_description", "p.content", "p.blog_id", "b.name", "p.created_at").
		From("posts p").
		InnerJoin("blogs b ON b.id = p.blog_id").
		Where(squirrel.Eq{"b.is_banned": false})

	for _, c := range conds {
		count = count.Where(c)
		sel = sel.Where(c)
	}

	query, args, err := count.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err = q.ApplyPaging(q.ApplyOrder(sel, "p.id")).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.ShortDescription,
			&p.Content,
			&p.BlogID,
			&p.BlogName,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}
