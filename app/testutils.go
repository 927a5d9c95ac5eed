package main

import (
	"bytes"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hexforge/blogdeck/internal/blogservice"
	"github.com/hexforge/blogdeck/internal/common"
	"github.com/hexforge/blogdeck/internal/mailservice"
	"github.com/hexforge/blogdeck/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	rabbitURI := common.TestRabbitMQ(t)
	rabbitmq, err := common.NewMessageBroker(rabbitURI)
	assert.NoError(t, err)

	err = common.SetupUserExchange(rabbitmq)
	assert.NoError(t, err)

	cfg, err := loadConfig("../.test.env")
	assert.NoError(t, err)

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		userService: userservice.NewUserService(db, rabbitmq),
		blogService: blogservice.NewBlogService(db, cache),
		mailService: mailservice.NewMailService(rabbitmq, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, logger),
		broker:      rabbitmq,
	}

	return app, db
}

// bearerAuth and basicAuth build Authorization header values for the request
// helpers. A nil *string means no Authorization header at all.
func bearerAuth(token string) *string {
	v := fmt.Sprintf("Bearer %s", token)
	return &v
}

func (app *application) adminAuth() *string {
	creds := base64.StdEncoding.EncodeToString([]byte(app.config.AdminLogin + ":" + app.config.AdminPassword))
	v := "Basic " + creds
	return &v
}

func (ts *testServer) do(t *testing.T, method, path string, payload any, auth *string) (int, http.Header, []byte) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if auth != nil {
		req.Header.Set("Authorization", *auth)
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, responseBody
}

func (ts *testServer) get(t *testing.T, path string, auth *string) (int, http.Header, []byte) {
	return ts.do(t, http.MethodGet, path, nil, auth)
}

func (ts *testServer) post(t *testing.T, path string, payload any, auth *string) (int, http.Header, []byte) {
	return ts.do(t, http.MethodPost, path, payload, auth)
}

func (ts *testServer) put(t *testing.T, path string, payload any, auth *string) (int, http.Header, []byte) {
	return ts.do(t, http.MethodPut, path, payload, auth)
}

func (ts *testServer) delete(t *testing.T, path string, auth *string) (int, http.Header, []byte) {
	return ts.do(t, http.MethodDelete, path, nil, auth)
}

func decodeResponse(t *testing.T, body []byte, dst any) {
	err := json.Unmarshal(body, dst)
	if err != nil {
		t.Fatal(err)
	}
}
