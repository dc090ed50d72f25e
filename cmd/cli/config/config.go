package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAPIURL = "http://localhost:8080"
	tokenFileName = ".listingctl_token"
)

// ErrNotLoggedIn is returned by ReadToken when no token has been saved.
var ErrNotLoggedIn = errors.New("not logged in: run 'listingctl login' first")

// APIURL returns the base URL for the listing admin API.
// It can be overridden with the LISTING_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("LISTING_API_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultAPIURL
}

// TokenPath is ~/.listingctl_token unless LISTINGCTL_TOKEN_FILE is set.
func TokenPath() string {
	if v := os.Getenv("LISTINGCTL_TOKEN_FILE"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return tokenFileName
	}
	return filepath.Join(home, tokenFileName)
}

// SaveToken stores the session token readable by the current user only.
func SaveToken(token string) error {
	return os.WriteFile(TokenPath(), []byte(token), 0o600)
}

// ReadToken returns the saved session token.
func ReadToken() (string, error) {
	b, err := os.ReadFile(TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", err
	}
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", ErrNotLoggedIn
	}
	return tok, nil
}

// DeleteToken removes the saved token. A missing file is not an error.
func DeleteToken() error {
	err := os.Remove(TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
