package blogservice

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/hexforge/blogdeck/internal/common"
)

type Blog struct {
	ID          uuid.UUID
	Name        string
	Description string
	WebsiteURL  string
	OwnerID     uuid.UUID
	CreatedAt   time.Time
	IsBanned    bool
	BanDate     *time.Time
}

type Post struct {
	ID               uuid.UUID
	Title            string
	ShortDescription string
	Content          string
	BlogID           uuid.UUID
	BlogName         string
	CreatedAt        time.Time
}

// BlogView is the public projection: no owner, no moderation state.
type BlogView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	WebsiteURL  string    `json:"websiteUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

type BlogBanInfo struct {
	IsBanned bool       `json:"isBanned"`
	BanDate  *time.Time `json:"banDate"`
}

// BlogAdminView is the super-admin projection, exposing the owner and the
// moderation state.
type BlogAdminView struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	WebsiteURL  string      `json:"websiteUrl"`
	OwnerID     uuid.UUID   `json:"ownerId"`
	CreatedAt   time.Time   `json:"createdAt"`
	Ban         BlogBanInfo `json:"banInfo"`
}

type PostView struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"shortDescription"`
	Content          string    `json:"content"`
	BlogID           uuid.UUID `json:"blogId"`
	BlogName         string    `json:"blogName"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (b *Blog) View() *BlogView {
	return &BlogView{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		WebsiteURL:  b.WebsiteURL,
		CreatedAt:   b.CreatedAt,
	}
}

func (b *Blog) AdminView() *BlogAdminView {
	return &BlogAdminView{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		WebsiteURL:  b.WebsiteURL,
		OwnerID:     b.OwnerID,
		CreatedAt:   b.CreatedAt,
		Ban: BlogBanInfo{
			IsBanned: b.IsBanned,
			BanDate:  b.BanDate,
		},
	}
}

func (p *Post) View() *PostView {
	return &PostView{
		ID:               p.ID,
		Title:            p.Title,
		ShortDescription: p.ShortDescription,
		Content:          p.Content,
		BlogID:           p.BlogID,
		BlogName:         p.BlogName,
		CreatedAt:        p.CreatedAt,
	}
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m *BlogModel
	c *common.Cache
}
