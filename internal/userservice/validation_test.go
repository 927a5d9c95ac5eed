package userservice

import (
	"strings"
	"testing"

	"github.com/hexforge/blogdeck/internal/common"
)

func TestValidateLogin(t *testing.T) {
	testCases := []struct {
		login string
		valid bool
	}{
		{login: "", valid: false},
		{login: "a", valid: false},
		{login: "ab", valid: false},
		{login: "abc", valid: true},
		{login: "valid123", valid: true},
		{login: "with_under", valid: true},
		{login: "with-dash", valid: true},
		{login: "invalid!", valid: false},
		{login: "has space", valid: false},
		{login: "has.dot", valid: false},
		{login: "elevenchars", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.login, func(t *testing.T) {
			v := common.NewValidator()
			validateLogin(v, tc.login)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
				for _, e := range v.Errors {
					t.Log(e)
				}
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	testCases := []struct {
		email string
		valid bool
	}{
		{email: "", valid: false},
		{email: "a", valid: false},
		{email: "a@", valid: false},
		{email: "a@b", valid: false},
		{email: "a@b.c", valid: false},
		{email: "a@b.com", valid: true},
		{email: "first.last@sub.example.com", valid: true},
	}

	for _, tc := range testCases {
		t.Run(tc.email, func(t *testing.T) {
			v := common.NewValidator()
			validateEmail(v, tc.email)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "empty", password: "", valid: false},
		{name: "too short", password: "abc12", valid: false},
		{name: "minimum length", password: "abc123", valid: true},
		{name: "maximum length", password: strings.Repeat("a", 20), valid: true},
		{name: "too long", password: strings.Repeat("a", 21), valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validatePassword(v, tc.password)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
			}
		})
	}
}

func TestValidateBanInput(t *testing.T) {
	testCases := []struct {
		name      string
		isBanned  bool
		banReason string
		valid     bool
	}{
		{name: "unban without reason", isBanned: false, banReason: "", valid: true},
		{name: "unban with reason", isBanned: false, banReason: "whatever", valid: true},
		{name: "ban without reason", isBanned: true, banReason: "", valid: false},
		{name: "ban with short reason", isBanned: true, banReason: "spam", valid: false},
		{name: "ban with valid reason", isBanned: true, banReason: "spamming the comment sections", valid: true},
		{name: "ban with overlong reason", isBanned: true, banReason: strings.Repeat("a", 1001), valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateBanInput(v, tc.isBanned, tc.banReason)
			if v.Valid() != tc.valid {
				t.Errorf("expected %v, got %v", tc.valid, v.Valid())
			}
		})
	}
}
