package userservice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/google/uuid"

	"github.com/hexforge/blogdeck/internal/common"
)

var (
	ErrAuthenticationFailure = errors.New("unauthorized access")
	ErrUserBanned            = errors.New("user is banned")
)

func NewUserService(db *sql.DB, mb common.MessageProducer) *UserService {
	return &UserService{
		m:  newUserModel(db),
		mb: mb,
	}
}

// RegisterUser creates a self-registered account and publishes a
// user.registered event carrying the activation token.
func (s *UserService) RegisterUser(ctx context.Context, login, email, password string) (*string, error) {
	v := common.NewValidator()
	validateLogin(v, login)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Login: login,
		Email: email,
	}

	if err := u.Password.set(password); err != nil {
		return nil, err
	}

	if err := s.m.insertUser(ctx, &u); err != nil {
		return nil, err
	}

	token, err := s.m.createToken(ctx, u.ID, ActivationTokenTime, TokenScopeActivate)
	if err != nil {
		return nil, err
	}

	data := struct {
		Email string
		Token string
	}{
		Email: u.Email,
		Token: token.Plain,
	}

	emailData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	if err := s.mb.Publish(ctx, emailData, common.UserRegisteredKey, common.UserExchange); err != nil {
		return nil, err
	}

	return &token.Plain, nil
}

// ActivateUser consumes the activation token, marks the account activated and
// grants the blog:write permission.
func (s *UserService) ActivateUser(ctx context.Context, token string) error {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return v.ValidationError()
	}

	hash := hashToken(token)

	user, err := s.m.getUserByToken(ctx, TokenScopeActivate, hash)
	if err != nil {
		return err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := s.m.activateUser(tx, ctx, user.ID); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := s.m.deleteToken(tx, ctx, user.ID, TokenScopeActivate); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := s.m.addUserPermission(tx, ctx, user.ID, PermissionWriteBlog); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// LoginUser verifies the credentials and issues a fresh token pair. A banned
// user cannot log in.
func (s *UserService) LoginUser(ctx context.Context, loginOrEmail, password string) (*AuthToken, error) {
	v := common.NewValidator()
	v.Check(loginOrEmail != "", "loginOrEmail", "must be provided")
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getByLoginOrEmail(ctx, loginOrEmail)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthenticationFailure
	}

	if user.Ban.IsBanned {
		return nil, ErrUserBanned
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if err := s.m.deleteAuthToken(tx, ctx, user.ID); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	authToken, err := s.m.createAuthToken(tx, ctx, user.ID)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return authToken, nil
}

func (s *UserService) LogoutUser(ctx context.Context, userID uuid.UUID) error {
	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := s.m.deleteAuthToken(tx, ctx, userID); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashToken(token)

	return s.m.getUserByAccessToken(ctx, hash)
}

// CreateUser is the super-admin variant of registration: the account comes
// back pre-activated, with the blog:write permission and no activation email.
func (s *UserService) CreateUser(ctx context.Context, login, email, password string) (*UserView, error) {
	v := common.NewValidator()
	validateLogin(v, login)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Login:     login,
		Email:     email,
		Activated: true,
	}

	if err := u.Password.set(password); err != nil {
		return nil, err
	}

	if err := s.m.insertUser(ctx, &u); err != nil {
		return nil, err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if err := s.m.addUserPermission(tx, ctx, u.ID, PermissionWriteBlog); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return u.View(), nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.m.deleteUser(ctx, id)
}

// SetBanStatus moves a user between Active and Banned. Banning requires a
// reason and revokes any live session; unbanning clears the ban record.
// Both transitions are idempotent.
func (s *UserService) SetBanStatus(ctx context.Context, id uuid.UUID, isBanned bool, banReason string) error {
	v := common.NewValidator()
	validateBanInput(v, isBanned, banReason)
	if !v.Valid() {
		return v.ValidationError()
	}

	if err := s.m.setBanStatus(ctx, id, isBanned, banReason); err != nil {
		return err
	}

	if !isBanned {
		return nil
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := s.m.deleteAuthToken(tx, ctx, id); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// ListUsers returns the admin listing. Banned users are never hidden here;
// the banStatus filter narrows the view explicitly.
func (s *UserService) ListUsers(ctx context.Context, rawQuery url.Values) (*common.Page[UserView], error) {
	q := common.ParseQueryParams(rawQuery, "createdAt", userSortColumns, "searchLoginTerm", "searchEmailTerm")

	users, total, err := s.m.listUsers(ctx, q)
	if err != nil {
		return nil, err
	}

	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, *users[i].View())
	}

	return common.NewPage(views, total, q), nil
}
