package handler

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"restaurant/internal/usecase"
	auth "restaurant/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

const (
	refreshCookieName = "refresh"
	csrfCookieName    = "csrf_token"
)

type AuthHandler struct {
	registerUC   *auth.RegisterUserUsecase // 会員登録usecase
	loginUC      *auth.LoginUsecase        // ログインusecase
	refreshUC    *auth.RefreshUsecase
	logoutUC     *auth.LogoutUsecase
	refreshTTL   time.Duration // refresh/csrf cookie の有効期限
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	refreshUC *auth.RefreshUsecase,
	logoutUC *auth.LogoutUsecase,
	refreshTTL time.Duration,
	cookieSecure bool,
) *AuthHandler {
	return &AuthHandler{
		registerUC:   registerUC,
		loginUC:      loginUC,
		refreshUC:    refreshUC,
		logoutUC:     logoutUC,
		refreshTTL:   refreshTTL,
		cookieSecure: cookieSecure,
	}
}

func (h *AuthHandler) MountPath() string { return "/auth" }

func (h *AuthHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/refresh", h.refresh)
	g.POST("/logout", h.logout)
}

// /auth/register のリクエストボディ。
type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// /auth/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// cookieが使えないクライアント用
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	out, side, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		// User-Agentを取得（refreshtokenに紐付ける）
		UserAgent: c.Request().UserAgent(),
	})
	if err != nil {
		return err
	}

	if err := h.setSessionCookies(c, side.PlainRefreshToken); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) refresh(c echo.Context) error {
	token := ""
	if ck, err := c.Cookie(refreshCookieName); err == nil {
		token = ck.Value
	}
	if token == "" {
		var req refreshRequest
		if err := c.Bind(&req); err != nil {
			return invalidBody(err)
		}
		token = req.RefreshToken
	}

	out, side, err := h.refreshUC.Execute(c.Request().Context(), auth.RefreshInput{
		RefreshToken: token,
		UserAgent:    c.Request().UserAgent(),
	})
	if err != nil {
		h.clearSessionCookies(c)
		return err
	}

	if err := h.setSessionCookies(c, side.PlainRefreshToken); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	token := ""
	if ck, err := c.Cookie(refreshCookieName); err == nil {
		token = ck.Value
	}
	if err := h.logoutUC.Execute(c.Request().Context(), token); err != nil {
		return err
	}
	h.clearSessionCookies(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookies(c echo.Context, plainRefresh string) error {
	exp := time.Now().Add(h.refreshTTL)

	// refresh cookie
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    plainRefresh,
		Path:     "/auth",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})

	//csrf cookie
	csrfToken, err := generateSecureToken(32)
	if err != nil {
		return usecase.WrapHTTPError(usecase.ErrPersistence, err, "error.default")
	}
	c.SetCookie(&http.Cookie{
		Name:     csrfCookieName,
		Value:    csrfToken,
		Path:     "/",
		HttpOnly: false,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
	return nil
}

func (h *AuthHandler) clearSessionCookies(c echo.Context) {
	for _, ck := range []*http.Cookie{
		{Name: refreshCookieName, Path: "/auth", HttpOnly: true},
		{Name: csrfCookieName, Path: "/"},
	} {
		ck.MaxAge = -1
		ck.Secure = h.cookieSecure
		ck.SameSite = http.SameSiteLaxMode
		c.SetCookie(ck)
	}
}

// ランダム文字列を作る。
func generateSecureToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 32
	}

	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
