package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string {
	return &s
}

func TestContextGetUserDefaultsToAnonymous(t *testing.T) {
	app := &application{}

	r := httptest.NewRequest(http.MethodGet, "/", nil)

	user := app.contextGetUser(r)
	assert.NotNil(t, user)
	assert.True(t, user.IsAnonymous())
}

func TestRecoverPanic(t *testing.T) {
	app, _ := newTestApplication(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	middleware := app.recoverPanic(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "close", res.Header().Get("Connection"))
}

func TestAuthenticate(t *testing.T) {
	app, _ := newTestApplication(t)

	setup := func(db *sql.DB) (*string, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err := app.userService.CreateUser(ctx, "testuser", "testuser@example.com", "Test1234")
		if err != nil {
			return nil, err
		}

		token, err := app.userService.LoginUser(ctx, "testuser", "Test1234")
		if err != nil {
			return nil, err
		}

		return strptr(fmt.Sprintf("Bearer %s", token.AccessTokenPlain)), nil
	}

	tests := []struct {
		name           string
		authHeader     func(db *sql.DB) (*string, error)
		expectedStatus int
	}{
		{
			name:           "No Authentication Header",
			authHeader:     func(db *sql.DB) (*string, error) { return nil, nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Basic Header Passes Through As Anonymous",
			authHeader:     func(db *sql.DB) (*string, error) { return strptr("Basic YWRtaW46cXdlcnR5"), nil },
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid Bearer Token",
			authHeader:     func(db *sql.DB) (*string, error) { return strptr("Bearer invalid-token"), nil },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Valid Bearer Token",
			authHeader:     setup,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			middleware := app.authenticate(handler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			header, err := tt.authHeader(app.db)
			assert.NoError(t, err)
			if header != nil {
				req.Header.Set("Authorization", *header)
			}

			res := httptest.NewRecorder()

			middleware.ServeHTTP(res, req)

			assert.Equal(t, tt.expectedStatus, res.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	app := &application{
		config: &Config{
			AdminLogin:    "admin",
			AdminPassword: "qwerty",
		},
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}

	handler := app.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		login          *string
		password       string
		expectedStatus int
	}{
		{
			name:           "No Credentials",
			login:          nil,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Password",
			login:          strptr("admin"),
			password:       "hunter2",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Login",
			login:          strptr("root"),
			password:       "qwerty",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Valid Credentials",
			login:          strptr("admin"),
			password:       "qwerty",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.login != nil {
				req.SetBasicAuth(*tt.login, tt.password)
			}

			res := httptest.NewRecorder()

			handler.ServeHTTP(res, req)

			assert.Equal(t, tt.expectedStatus, res.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	app := &application{
		config: &Config{
			LimiterRPS:     2,
			LimiterBurst:   4,
			LimiterEnabled: true,
		},
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.rateLimit(handler)

	server := httptest.NewServer(middleware)
	defer server.Close()

	tests := []struct {
		name           string
		requests       int
		expectedStatus int
	}{
		{
			name:           "Within Limit",
			requests:       4,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Over Limit",
			requests:       6,
			expectedStatus: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lastStatusCode int

			for i := 0; i < tt.requests; i++ {
				res, err := http.Get(server.URL)
				assert.NoError(t, err)

				lastStatusCode = res.StatusCode
			}

			assert.Equal(t, tt.expectedStatus, lastStatusCode)
		})
	}
}
