package validator

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrWeakPassword       = errors.New("weak password")

	// refresh tokenが不正
	ErrInvalidRefresh = errors.New("invalid refresh")
)

// パスワードの最低文字数
const MinPasswordLength = 12

var emailLike = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// サインアップの入力を検証
func ValidateRegister(email string, password string) error {
	email = strings.TrimSpace(email)

	// email形式
	if !IsEmailLike(email) {
		return ErrInvalidEmailFormat
	}

	// パスワード最低文字数
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	// よくある弱いパスワードの拒否
	if isWeakPassword(password) {
		return ErrWeakPassword
	}
	return nil
}

// ログインの入力を検証
func ValidateLogin(email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return ErrInvalidInput
	}
	if !IsEmailLike(email) {
		return ErrInvalidInput
	}
	return nil
}

// refresh 入力を検証
func ValidateRefresh(refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return ErrInvalidRefresh
	}
	return nil
}

// 簡易メール形式をチェック
func IsEmailLike(s string) bool {
	if s == "" || !emailLike.MatchString(s) {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

// パスワードのよくある弱いパスワード
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":     {},
		"password1234": {},
		"123456789012": {},
		"qwertyuiop12": {},
		"letmeinletme": {},
		"admin1234567": {},
	}

	_, ok := weak[normalized]
	return ok
}
