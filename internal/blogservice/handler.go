package blogservice

import (
	"context"
	"database/sql"
	"net/url"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/hexforge/blogdeck/internal/common"
)

func NewBlogService(db *sql.DB, cache *common.Cache) *BlogService {
	return &BlogService{m: newBlogModel(db), c: cache}
}

// FlushCache drops every cached view. Callers that remove blogs or posts
// outside this package, such as deleting a user and their content, must
// invalidate through it.
func (s *BlogService) FlushCache() {
	s.c.Flush()
}

// GetBlogs is the public listing: banned blogs are invisible and the admin
// banStatus filter carries no meaning here.
func (s *BlogService) GetBlogs(ctx context.Context, rawQuery url.Values) (*common.Page[BlogView], error) {
	q := common.ParseQueryParams(rawQuery, "createdAt", blogSortColumns, "searchNameTerm")
	q.BanStatus = common.BanStatusAll

	blogs, total, err := s.m.listBlogs(ctx, q, notBannedBlogs)
	if err != nil {
		return nil, err
	}

	views := make([]BlogView, 0, len(blogs))
	for i := range blogs {
		views = append(views, *blogs[i].View())
	}

	return common.NewPage(views, total, q), nil
}

// GetBlogByID returns the public view of a blog. A banned blog is
// indistinguishable from a missing one.
func (s *BlogService) GetBlogByID(ctx context.Context, id uuid.UUID) (*BlogView, error) {
	key := common.CacheKeyBlog(id)
	if cached, ok := s.c.Get(key); ok {
		return cached.(*BlogView), nil
	}

	blog, err := s.m.getBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if blog.IsBanned {
		return nil, ErrRecordNotFound
	}

	view := blog.View()
	s.c.Set(key, view)

	return view, nil
}

// GetBlogPosts lists the posts of a publicly visible blog. A missing or
// banned blog yields ErrRecordNotFound rather than an empty page.
func (s *BlogService) GetBlogPosts(ctx context.Context, blogID uuid.UUID, rawQuery url.Values) (*common.Page[PostView], error) {
	blog, err := s.m.getBlogByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	if blog.IsBanned {
		return nil, ErrRecordNotFound
	}

	q := common.ParseQueryParams(rawQuery, "createdAt", postSortColumns)

	posts, total, err := s.m.listPosts(ctx, q, squirrel.Eq{"p.blog_id": blogID})
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, *posts[i].View())
	}

	return common.NewPage(views, total, q), nil
}

func (s *BlogService) GetPosts(ctx context.Context, rawQuery url.Values) (*common.Page[PostView], error) {
	q := common.ParseQueryParams(rawQuery, "createdAt", postSortColumns)

	posts, total, err := s.m.listPosts(ctx, q)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for i := range posts {
		views = append(views, *posts[i].View())
	}

	return common.NewPage(views, total, q), nil
}

func (s *BlogService) GetPostByID(ctx context.Context, id uuid.UUID) (*PostView, error) {
	key := common.CacheKeyPost(id)
	if cached, ok := s.c.Get(key); ok {
		return cached.(*PostView), nil
	}

	post, err := s.m.getPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := post.View()
	s.c.Set(key, view)

	return view, nil
}

type BlogInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WebsiteURL  string `json:"websiteUrl"`
}

func (s *BlogService) CreateBlog(ctx context.Context, ownerID uuid.UUID, input BlogInput) (*BlogView, error) {
	v := common.NewValidator()
	validateBlogName(v, input.Name)
	validateBlogDescription(v, input.Description)
	validateWebsiteURL(v, input.WebsiteURL)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := Blog{
		Name:        input.Name,
		Description: input.Description,
		WebsiteURL:  input.WebsiteURL,
		OwnerID:     ownerID,
	}

	if err := s.m.insertBlog(ctx, &blog); err != nil {
		return nil, err
	}

	return blog.View(), nil
}

// ownedBlog loads a blog and checks it belongs to the caller. Ownership is
// checked before any mutation so a foreign blog yields ErrNotOwner, not a
// silent no-op.
func (s *BlogService) ownedBlog(ctx context.Context, blogID, ownerID uuid.UUID) (*Blog, error) {
	blog, err := s.m.getBlogByID(ctx, blogID)
	if err != nil {
		return nil, err
	}

	if blog.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	return blog, nil
}

func (s *BlogService) UpdateBlog(ctx context.Context, blogID, ownerID uuid.UUID, input BlogInput) error {
	v := common.NewValidator()
	validateBlogName(v, input.Name)
	validateBlogDescription(v, input.Description)
	validateWebsiteURL(v, input.WebsiteURL)
	if !v.Valid() {
		return v.ValidationError()
	}

	if _, err := s.ownedBlog(ctx, blogID, ownerID); err != nil {
		return err
	}

	if err := s.m.updateBlog(ctx, blogID, input.Name, input.Description, input.WebsiteURL); err != nil {
		return err
	}

	// cached post views embed the blog name, so a rename invalidates them too
	s.c.Flush()

	return nil
}

func (s *BlogService) DeleteBlog(ctx context.Context, blogID, ownerID uuid.UUID) error {
	if _, err := s.ownedBlog(ctx, blogID, ownerID); err != nil {
		return err
	}

	if err := s.m.deleteBlog(ctx, blogID); err != nil {
		return err
	}

	// the cascade also removes the blog's posts, some of which may be cached
	s.c.Flush()

	return nil
}

// GetOwnBlogs lists the caller's blogs, banned ones included: a blogger can
// always see their own content.
func (s *BlogService) GetOwnBlogs(ctx context.Context, ownerID uuid.UUID, rawQuery url.Values) (*common.Page[BlogView], error) {
	q := common.ParseQueryParams(rawQuery, "createdAt", blogSortColumns, "searchNameTerm")
	q.BanStatus = common.BanStatusAll

	blogs, total, err := s.m.listBlogs(ctx, q, squirrel.Eq{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}

	views := make([]BlogView, 0, len(blogs))
	for i := range blogs {
		views = append(views, *blogs[i].View())
	}

	return common.NewPage(views, total, q), nil
}

type PostInput struct {
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	Content          string `json:"content"`
}

func (s *BlogService) CreatePost(ctx context.Context, blogID, ownerID uuid.UUID, input PostInput) (*PostView, error) {
	input.Content = sanitizeContent(input.Content)

	v := common.NewValidator()
	validatePostTitle(v, input.Title)
	validatePostShortDescription(v, input.ShortDescription)
	validatePostContent(v, input.Content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.ownedBlog(ctx, blogID, ownerID)
	if err != nil {
		return nil, err
	}

	post := Post{
		Title:            input.Title,
		ShortDescription: input.ShortDescription,
		Content:          input.Content,
		BlogID:           blogID,
		BlogName:         blog.Name,
	}

	if err := s.m.insertPost(ctx, &post); err != nil {
		return nil, err
	}

	return post.View(), nil
}

func (s *BlogService) UpdatePost(ctx context.Context, blogID, postID, ownerID uuid.UUID, input PostInput) error {
	input.Content = sanitizeContent(input.Content)

	v := common.NewValidator()
	validatePostTitle(v, input.Title)
	validatePostShortDescription(v, input.ShortDescription)
	validatePostContent(v, input.Content)
	if !v.Valid() {
		return v.ValidationError()
	}

	if _, err := s.ownedBlog(ctx, blogID, ownerID); err != nil {
		return err
	}

	if err := s.m.updatePost(ctx, postID, blogID, input.Title, input.ShortDescription, input.Content); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyPost(postID))

	return nil
}

func (s *BlogService) DeletePost(ctx context.Context, blogID, postID, ownerID uuid.UUID) error {
	if _, err := s.ownedBlog(ctx, blogID, ownerID); err != nil {
		return err
	}

	if err := s.m.deletePost(ctx, postID, blogID); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyPost(postID))

	return nil
}

// GetBlogsAdmin is the super-admin listing: banned blogs are never hidden and
// the banStatus filter narrows the view explicitly.
func (s *BlogService) GetBlogsAdmin(ctx context.Context, rawQuery url.Values) (*common.Page[BlogAdminView], error) {
	q := common.ParseQueryParams(rawQuery, "createdAt", blogSortColumns, "searchNameTerm")

	blogs, total, err := s.m.listBlogs(ctx, q)
	if err != nil {
		return nil, err
	}

	views := make([]BlogAdminView, 0, len(blogs))
	for i := range blogs {
		views = append(views, *blogs[i].AdminView())
	}

	return common.NewPage(views, total, q), nil
}

// SetBanStatus moves a blog between Active and Banned. Either transition is
// idempotent; the blog vanishes from or returns to the public surface at once.
func (s *BlogService) SetBanStatus(ctx context.Context, blogID uuid.UUID, isBanned bool) error {
	if err := s.m.setBanStatus(ctx, blogID, isBanned); err != nil {
		return err
	}

	// cached post views may belong to this blog, drop everything
	s.c.Flush()

	return nil
}
