package userservice

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/hexforge/blogdeck/internal/common"
)

type tokenScope string

type Permission string
type Permissions []Permission

const (
	TokenScopeActivate tokenScope = "token:activate"

	ActivationTokenTime time.Duration = 3 * 24 * time.Hour
	AccessTokenTime     time.Duration = 7 * 24 * time.Hour
	RefreshTokenTime    time.Duration = 30 * 24 * time.Hour

	PermissionWriteBlog Permission = "blog:write"
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m  *DBModel
	mb common.MessageProducer
}

type DBModel struct {
	db *sql.DB
}

// BanInfo carries the moderation state of a user. BanDate and BanReason are
// null exactly when IsBanned is false.
type BanInfo struct {
	IsBanned  bool       `json:"isBanned"`
	BanDate   *time.Time `json:"banDate"`
	BanReason *string    `json:"banReason"`
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	Activated bool      `json:"activated"`
	CreatedAt time.Time `json:"createdAt"`
	Ban       BanInfo   `json:"banInfo"`

	Permissions Permissions `json:"-"`
}

// UserView is the public projection returned by admin listing and creation
// endpoints. The password hash and permission set never leave the service.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	Ban       BanInfo   `json:"banInfo"`
}

func (u *User) View() *UserView {
	return &UserView{
		ID:        u.ID,
		Login:     u.Login,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Ban:       u.Ban,
	}
}

func (u *User) IsAnonymous() bool {
	return u.ID == uuid.Nil
}

func (u *User) IsActivated() bool {
	return u.Activated
}

func (u *User) HasPermission(p Permission) bool {
	for _, permission := range u.Permissions {
		if permission == p {
			return true
		}
	}
	return false
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

type Token struct {
	Plain  string     `json:"token"`
	Hash   []byte     `json:"-"`
	UserID uuid.UUID  `json:"-"`
	Expiry time.Time  `json:"expiry"`
	Scope  tokenScope `json:"-"`
}

// Authentication token pair handed out on login.
type AuthToken struct {
	AccessTokenPlain   string    `json:"accessToken"`
	AccessTokenHash    []byte    `json:"-"`
	RefreshTokenPlain  string    `json:"refreshToken"`
	RefreshTokenHash   []byte    `json:"-"`
	UserID             uuid.UUID `json:"-"`
	AccessTokenExpiry  time.Time `json:"accessTokenExpiry"`
	RefreshTokenExpiry time.Time `json:"refreshTokenExpiry"`
}
