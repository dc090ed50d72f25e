package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/listing-admin/internal/auth"
	"github.com/crucial707/listing-admin/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "username", "password_hash", "role", "created_at"}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	db, mock := newMock(t)
	return &AuthHandler{
		Users:  repo.NewUserRepo(db),
		Tokens: auth.NewTokenService([]byte("test-secret"), time.Hour),
		Log:    nopLog,
	}, mock
}

func postLogin(h *AuthHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Login(rr, req)
	return rr
}

func TestAuthHandler_Login(t *testing.T) {
	h, mock := newAuthHandler(t)
	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, username, password_hash, role, created_at FROM users WHERE username = \$1`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "admin", hash, "admin", time.Now()))

	rr := postLogin(h, `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var out struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "admin", out.User["username"])
	assert.Equal(t, "admin", out.User["role"])
	assert.NotContains(t, out.User, "password_hash")

	claims, err := h.Tokens.Verify(out.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)
	hash, err := auth.HashPassword("admin123")
	require.NoError(t, err)

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "admin", hash, "admin", time.Now()))

	rr := postLogin(h, `{"username":"admin","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid credentials", decodeError(t, rr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	h, mock := newAuthHandler(t)
	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(userColumns))

	rr := postLogin(h, `{"username":"nobody","password":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid credentials", decodeError(t, rr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h, mock := newAuthHandler(t)

	for _, body := range []string{`{}`, `{"username":"admin"}`, `{"password":"admin123"}`, `{"username":"","password":""}`} {
		rr := postLogin(h, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.Equal(t, "Username and password are required", decodeError(t, rr), body)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h, _ := newAuthHandler(t)
	rr := postLogin(h, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAuthHandler_Login_StoreFailure(t *testing.T) {
	h, mock := newAuthHandler(t)
	mock.ExpectQuery(`FROM users`).WillReturnError(errors.New("connection refused"))

	rr := postLogin(h, `{"username":"admin","password":"admin123"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, ErrMessageInternal, decodeError(t, rr))
}

func TestAuthHandler_Verify(t *testing.T) {
	h, _ := newAuthHandler(t)

	rr := httptest.NewRecorder()
	h.Verify(rr, asUser(httptest.NewRequest("GET", "/auth/verify", nil), admin))
	require.Equal(t, http.StatusOK, rr.Code)

	var out struct {
		User struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	assert.Equal(t, 1, out.User.ID)
	assert.Equal(t, "admin", out.User.Role)

	rr = httptest.NewRecorder()
	h.Verify(rr, httptest.NewRequest("GET", "/auth/verify", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
