package main

import (
	"XhsStudio/internal/model"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

var errNotLoggedIn = errors.New("未登录，请先执行 xhs login")

// savedLogin 本地保存的登录态
type savedLogin struct {
	BaseURL    string           `json:"base_url"`
	User       model.User       `json:"user"`
	Credential model.Credential `json:"credential"`
	SavedAt    time.Time        `json:"saved_at"`
}

func credentialDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "xhs-studio")
}

func credentialPath() string {
	return filepath.Join(credentialDir(), "credential.json")
}

func loadLogin() (*savedLogin, error) {
	raw, err := os.ReadFile(credentialPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var saved savedLogin
	if err := json.Unmarshal(raw, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func saveLogin(saved *savedLogin) error {
	if err := os.MkdirAll(credentialDir(), 0o700); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(credentialPath(), raw, 0o600)
}

func clearLogin() error {
	err := os.Remove(credentialPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
