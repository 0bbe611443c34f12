package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/repository"
	"restaurant/internal/usecase"
	"restaurant/internal/validator"

	"golang.org/x/crypto/bcrypt"
)

// 会員登録の入力
type RegisterUserInput struct {
	Email    string
	Name     string
	Password string
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.User `json:"user"`
}

var (
	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	idGen    IDGenerator
	clock    Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	idGen IDGenerator,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		idGen:    idGen,
		clock:    clock,
	}
}

var registerErrorCodes = map[error]string{
	validator.ErrInvalidEmailFormat: "auth.email_invalid",
	validator.ErrPasswordTooShort:   "auth.password_too_short",
	validator.ErrWeakPassword:       "auth.password_weak",
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput
	email := strings.ToLower(strings.TrimSpace(in.Email))

	// email形式・パスワードのチェック
	if err := validator.ValidateRegister(email, in.Password); err != nil {
		return out, usecase.WrapHTTPError(usecase.ErrInvalidInput, err, registerErrorCodes[err])
	}

	// email重複チェック
	_, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return out, usecase.WrapHTTPError(usecase.ErrConflict, ErrEmailAlreadyExists, "auth.email_taken")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return out, usecase.WrapHTTPError(usecase.ErrPersistence, err, "db.error")
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, usecase.WrapHTTPError(usecase.ErrPersistence, err, "error.default")
	}

	// Userを作って保存
	now := u.clock.Now()
	user := &model.User{
		ID:           u.idGen.NewID(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		Role:         model.RoleUser,
		TokenVersion: 0,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// DBへ保存
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return out, usecase.WrapHTTPError(usecase.ErrConflict, ErrEmailAlreadyExists, "auth.email_taken")
		}
		return out, usecase.WrapHTTPError(usecase.ErrPersistence, err, "db.error")
	}

	out.User = *user
	return out, nil
}

// EnsureAdmin は管理者ユーザーがなければ作る。作ったらtrue
func (u *RegisterUserUsecase) EnsureAdmin(ctx context.Context, email string, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validator.ValidateRegister(email, password); err != nil {
		return false, usecase.WrapHTTPError(usecase.ErrInvalidInput, err, registerErrorCodes[err])
	}

	_, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return false, err
	}
	now := u.clock.Now()
	admin := &model.User{
		ID:           u.idGen.NewID(),
		Email:        email,
		Name:         "admin",
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.Create(ctx, admin); err != nil {
		//同時に起動した別プロセスが作った
		if errors.Is(err, repository.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

// bcryptでハッシュ化
func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

// 平文(plain)をbcryptで比較
func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}
