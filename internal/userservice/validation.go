package userservice

import (
	"regexp"

	"github.com/hexforge/blogdeck/internal/common"
)

var (
	EmailRX = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	LoginRX = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

func validateLogin(v *common.Validator, login string) {
	v.Check(login != "", "login", "must be provided")
	v.Check(v.CheckStringLength(login, 3, 10), "login", "must be between 3 and 10 characters long")
	v.Check(v.Matches(login, LoginRX), "login", "must only contain letters, numbers, underscores and hyphens")
}

func validateEmail(v *common.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(v.Matches(email, EmailRX), "email", "must be a valid email address")
}

func validatePassword(v *common.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(v.CheckStringLength(password, 6, 20), "password", "must be between 6 and 20 characters long")
}

// validateBanInput checks the moderation request. The reason is mandatory
// only when banning; on unban it is accepted and ignored.
func validateBanInput(v *common.Validator, isBanned bool, banReason string) {
	if !isBanned {
		return
	}

	v.Check(banReason != "", "banReason", "must be provided")
	v.Check(v.CheckStringLength(banReason, 20, 1000), "banReason", "must be between 20 and 1000 characters long")
}

func ValidateToken(v *common.Validator, token string) {
	v.Check(token != "", "token", "must be provided")
	v.Check(len(token) == 26, "token", "invalid token")
}
