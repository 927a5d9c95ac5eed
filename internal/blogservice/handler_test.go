package blogservice

import (
	"context"
	"database/sql"
	"net/url"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/hexforge/blogdeck/internal/common"
)

// setupTestUser creates an activated account to own blogs under test.
func setupTestUser(db *sql.DB, login string) (uuid.UUID, error) {
	query := `
		INSERT INTO users (login, email, password, activated)
		VALUES ($1, $2, $3, true)
		RETURNING id`

	var id uuid.UUID
	err := db.QueryRow(query, login, login+"@example.com", []byte(gofakeit.Password(true, true, true, false, false, 12))).Scan(&id)
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func setupTestEnvironment(t *testing.T) (*BlogService, *sql.DB, func() error, uuid.UUID, error) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	ownerID, err := setupTestUser(db, "testuser")
	if err != nil {
		return nil, nil, nil, uuid.Nil, err
	}

	cleanup := func() error {
		_, err := db.Exec("DELETE FROM blogs")
		if err != nil {
			return err
		}

		cache.Flush()

		return nil
	}

	return NewBlogService(db, cache), db, cleanup, ownerID, nil
}

func testBlogInput() BlogInput {
	return BlogInput{
		Name:        "Tech Notes",
		Description: "Notes on software and hardware.",
		WebsiteURL:  "https://technotes.example.com",
	}
}

func testPostInput() PostInput {
	return PostInput{
		Title:            "First Post",
		ShortDescription: "The very first post.",
		Content:          "Hello, world.",
	}
}

func TestCreateBlog(t *testing.T) {
	s, _, cleanup, ownerID, err := setupTestEnvironment(t)
	assert.NoError(t, err)

	testCases := []struct {
		name        string
		input       BlogInput
		expectedErr error
	}{
		{
			name:  "valid blog",
			input: testBlogInput(),
		},
		{
			name: "empty name",
			input: BlogInput{
				Description: "Notes on software and hardware.",
				WebsiteURL:  "https://technotes.example.com",
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"name": "must be provided"}},
		},
		{
			name: "name too long",
			input: BlogInput{
				Name:        "A Name That Is Far Too Long",
				Description: "Notes on software and hardware.",
				WebsiteURL:  "https://technotes.example.com",
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"name": "must not be longer than 15 characters"}},
		},
		{
			name: "bad website url",
			input: BlogInput{
				Name:        "Tech Notes",
				Description: "Notes on software and hardware.",
				WebsiteURL:  "ftp://technotes.example.com",
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"websiteUrl": "must be a valid URL"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()

			blog, err := s.CreateBlog(ctx, ownerID, tc.input)
			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr, err)
			} else {
				assert.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, blog.ID)
				assert.Equal(t, tc.input.Name, blog.Name)
				assert.False(t, blog.CreatedAt.IsZero())
			}

			t.Cleanup(func() {
				assert.NoError(t, cleanup())
			})
		})
	}
}

func TestGetBlogByID(t *testing.T) {
	s, db, cleanup, ownerID, err := setupTestEnvironment(t)
	assert.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx := context.Background()

	created, err := s.CreateBlog(ctx, ownerID, testBlogInput())
	assert.NoError(t, err)

	got, err := s.GetBlogByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// second read is served from the cache
	got, err = s.GetBlogByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	_, err = s.GetBlogByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrRecordNotFound)

	// a banned blog is indistinguishable from a missing one
	err = s.SetBanStatus(ctx, created.ID, true)
	assert.NoError(t, err)

	_, err = s.GetBlogByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	var isBanned bool
	var banDate sql.NullTime
	err = db.QueryRow("SELECT is_banned, ban_date FROM blogs WHERE id = $1", created.ID).Scan(&isBanned, &banDate)
	assert.NoError(t, err)
	assert.True(t, isBanned)
	assert.True(t, banDate.Valid)

	err = s.SetBanStatus(ctx, created.ID, false)
	assert.NoError(t, err)

	_, err = s.GetBlogByID(ctx, created.ID)
	assert.NoError(t, err)
}

func TestUpdateBlog(t *testing.T) {
	s, _, cleanup, ownerID, err := setupTestEnvironment(t)
	assert.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx := context.Background()

	created, err := s.CreateBlog(ctx, ownerID, testBlogInput())
	assert.NoError(t, err)

	update := testBlogInput()
	update.Name = "Renamed"

	err = s.UpdateBlog(ctx, created.ID, ownerID, update)
	assert.NoError(t, err)

	got, err := s.GetBlogByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	// a foreign blog cannot be touched
	otherID, err := setupTestUser(s.m.db, "otheruser")
	assert.NoError(t, err)

	err = s.UpdateBlog(ctx, created.ID, otherID, update)
	assert.ErrorIs(t, err, ErrNotOwner)

	err = s.UpdateBlog(ctx, uuid.New(), ownerID, update)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteBlog(t *testing.T) {
	s, db, cleanup, ownerID, err := setupTestEnvironment(t)
	assert.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx := context.Background()

	created, err := s.CreateBlog(ctx, ownerID, testBlogInput())
	assert.NoError(t, err)

	post, err := s.CreatePost(ctx, created.ID, ownerID, testPostInput())
	assert.NoError(t, err)

	err = s.DeleteBlog(ctx, created.ID, ownerID)
	assert.NoError(t, err)

	_, err = s.GetBlogByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	// the cascade removes the blog's posts
	var count int
	err = db.QueryRow("SELECT count(*) FROM posts WHERE id = $1", post.ID).Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	err = s.DeleteBlog(ctx, created.ID, ownerID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestCreatePostStripsScriptTags(t *testing.T) {
	s, _, cleanup, ownerID, err := setupTestEnvironment(t)
	assert.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx := context.Background()

	blog, err := s.CreateBlog(ctx, ownerID, testBlogInput())
	assert.NoError(t, err)

	input := testPostInput()
	input.Content = "Hello.<script>alert('pwned');</script> Bye."

	post, err := s.CreatePost(ctx, blog.ID, ownerID, input)
	assert.NoError(t, err)
	assert.Equal(t, "Hello. Bye.", post.Content)

	// content that is nothing but script fails the emptiness check
	input.Content = "<script src=\"evil.js\"></script>"
	_, err = s.CreatePost(ctx, blog.ID, ownerID, input)
	assert.ErrorContains(t, err, "content")
}

func TestPostLifecycle(t *testing.T) {
	s, _, cleanup, ownerID, err := setupTestEnvironment(t)
	assert.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx := context.Background()

	blog, err := s.CreateBlog(ctx, ownerID, testBlogInput())
	assert.NoError(t, err)

	post, err := s.CreatePost(ctx, blog.ID, ownerID, testPostInput())
	assert.NoError(t, err)
	assert.Equal(t, blog.ID, post.BlogID)
	assert.Equal(t, blog.Name, post.BlogName)

	got, err := s.GetPostByID(ctx, post.ID)
	assert.NoError(t, err)
	assert.Equal(t, post.Title, got.Title)

	otherID, err := setupTestUser(s.m.db, "otheruser")
	assert.NoError(t, err)

	update := testPostInput()
	update.Title = "Revised"

	err = s.UpdatePost(ctx, blog.ID, post.ID, otherID, update)
	assert.ErrorIs(t, err, ErrNotOwner)

	err = s.UpdatePost(ctx, blog.ID, post.ID, ownerID, update)
	assert.NoError(t, err)

	got, err = s.GetPostByID(ctx, post.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Revised", got.Title)

	// a post under a different blog id is not reachable
	err = s.UpdatePost(ctx, uuid.New(), post.ID, ownerID, update)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	err = s.DeletePost(ctx, blog.ID, post.ID, ownerID)
	assert.NoError(t, err)

	_, err = s.GetPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestListBlogs(t *testing.T) {
	s, _, cleanup, ownerID, err := setupTestEnvironment(t)
	assert.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx := context.Background()

	names := []string{"Alpha", "Beta", "Gamma", "Delta"}
	var bannedID uuid.UUID
	for _, name := range names {
		input := testBlogInput()
		input.Name = name
		blog, err := s.CreateBlog(ctx, ownerID, input)
		assert.NoError(t, err)
		if name == "Gamma" {
			bannedID = blog.ID
		}
	}

	err = s.SetBanStatus(ctx, bannedID, true)
	assert.NoError(t, err)

	listNames := func(page *common.Page[BlogView]) []string {
		out := make([]string, 0, len(page.Items))
		for _, item := range page.Items {
			out = append(out, item.Name)
		}
		return out
	}

	// the public listing hides the banned blog
	page, err := s.GetBlogs(ctx, url.Values{"sortBy": {"name"}, "sortDirection": {"asc"}})
	assert.NoError(t, err)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, []string{"Alpha", "Beta", "Delta"}, listNames(page))

	// paging
	page, err = s.GetBlogs(ctx, url.Values{"sortBy": {"name"}, "sortDirection": {"asc"}, "pageSize": {"2"}, "pageNumber": {"2"}})
	assert.NoError(t, err)
	assert.Equal(t, 2, page.PagesCount)
	assert.Equal(t, []string{"Delta"}, listNames(page))

	// partial, case-insensitive name search
	page, err = s.GetBlogs(ctx, url.Values{"searchNameTerm": {"elt"}})
	assert.NoError(t, err)
	assert.Equal(t, []string{"Delta"}, listNames(page))

	// the owner sees everything, banned included
	page, err = s.GetOwnBlogs(ctx, ownerID, url.Values{"sortBy": {"name"}, "sortDirection": {"asc"}})
	assert.NoError(t, err)
	assert.Equal(t, 4, page.TotalCount)

	// so does the admin listing, with ban details
	adminPage, err := s.GetBlogsAdmin(ctx, url.Values{"banStatus": {"banned"}})
	assert.NoError(t, err)
	assert.Equal(t, 1, adminPage.TotalCount)
	assert.Equal(t, bannedID, adminPage.Items[0].ID)
	assert.True(t, adminPage.Items[0].Ban.IsBanned)
	assert.Equal(t, ownerID, adminPage.Items[0].OwnerID)
}

func TestListPosts(t *testing.T) {
	s, _, cleanup, ownerID, err := setupTestEnvironment(t)
	assert.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, cleanup())
	})

	ctx := context.Background()

	visible, err := s.CreateBlog(ctx, ownerID, testBlogInput())
	assert.NoError(t, err)

	bannedInput := testBlogInput()
	bannedInput.Name = "Banned Blog"
	banned, err := s.CreateBlog(ctx, ownerID, bannedInput)
	assert.NoError(t, err)

	for _, blogID := range []uuid.UUID{visible.ID, banned.ID} {
		_, err := s.CreatePost(ctx, blogID, ownerID, testPostInput())
		assert.NoError(t, err)
	}

	err = s.SetBanStatus(ctx, banned.ID, true)
	assert.NoError(t, err)

	// the global feed only carries posts of visible blogs
	page, err := s.GetPosts(ctx, url.Values{})
	assert.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)
	assert.Equal(t, visible.ID, page.Items[0].BlogID)

	_, err = s.GetBlogPosts(ctx, banned.ID, url.Values{})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	blogPage, err := s.GetBlogPosts(ctx, visible.ID, url.Values{})
	assert.NoError(t, err)
	assert.Equal(t, 1, blogPage.TotalCount)
}
