package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/middleware"
	"github.com/spendlog/spendlog/internal/service"
)

// User-facing auth messages.
const (
	msgEmailTaken         = "This email is already registered! Please log in or use another."
	msgRegistered         = "Registration successful! Please login."
	msgInvalidCredentials = "Invalid email or password."
	msgLoggedOut          = "You have been logged out."
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	svc          *service.AuthService
	views        *Views
	logger       *slog.Logger
	cookieName   string
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, views *Views, logger *slog.Logger, cookieName string, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		svc:          svc,
		views:        views,
		logger:       logger,
		cookieName:   cookieName,
		secureCookie: secureCookie,
	}
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, pageRegister, PageData{})
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	input := service.RegisterInput{
		Name:     formValue(r, "name"),
		Email:    formValue(r, "email"),
		Password: r.PostFormValue("password"),
	}
	form := FormValues{Name: input.Name, Email: input.Email}

	user, err := h.svc.Register(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			h.views.Render(w, r, http.StatusConflict, pageRegister, PageData{Error: msgEmailTaken, Form: form})
		case errors.Is(err, service.ErrInvalidInput):
			h.views.Render(w, r, http.StatusUnprocessableEntity, pageRegister, PageData{Error: err.Error(), Form: form})
		default:
			h.views.ServerError(w, r, err)
		}
		return
	}

	h.logger.Info("user_registered",
		slog.Int64("user_id", user.ID),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)

	redirectWithFlash(w, r, "/login", msgRegistered)
}

// CheckEmail handles GET /check-email?email=.
func (h *AuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	exists, err := h.svc.EmailExists(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		h.views.ServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, pageLogin, PageData{})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := formValue(r, "email")

	result, err := h.svc.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Warn("login_failed",
				slog.String("ip", r.RemoteAddr),
				slog.String("request_id", middleware.GetRequestID(r.Context())),
			)
			h.views.Render(w, r, http.StatusUnauthorized, pageLogin, PageData{
				Error: msgInvalidCredentials,
				Form:  FormValues{Email: email},
			})
			return
		}
		h.views.ServerError(w, r, err)
		return
	}

	middleware.SetSessionCookie(w, h.cookieName, result.Token, int(h.svc.SessionTTL().Seconds()), h.secureCookie)

	h.logger.Info("user_logged_in",
		slog.Int64("user_id", result.User.ID),
		slog.String("session_id", result.Session.ID),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		if err := h.svc.Logout(r.Context(), cookie.Value); err != nil {
			h.views.ServerError(w, r, err)
			return
		}
	}
	middleware.ClearSessionCookie(w, h.cookieName, h.secureCookie)

	if p := auth.PrincipalFromContext(r.Context()); p != nil {
		h.logger.Info("user_logged_out",
			slog.Int64("user_id", p.UserID),
			slog.String("session_id", p.SessionID),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
	}

	redirectWithFlash(w, r, "/login", msgLoggedOut)
}
