package handler

import (
	"net/http"

	"fitpharm-api/internal/auth"
	"fitpharm-api/internal/i18n"
	"fitpharm-api/internal/service"
)

type UserHandler struct {
	svc          *service.UserService
	auth         *auth.Issuer
	exposeTokens bool // reset tokens go back in the response body
	secureCookie bool
}

func NewUserHandler(svc *service.UserService, issuer *auth.Issuer, development bool) *UserHandler {
	return &UserHandler{svc: svc, auth: issuer, exposeTokens: development, secureCookie: !development}
}

func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := h.svc.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.auth.SetCookie(w, res.Token, h.secureCookie)
	writeJSON(w, http.StatusCreated, res)
}

func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if !decodeJSON(w, r, &in) {
		return
	}
	res, err := h.svc.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.auth.SetCookie(w, res.Token, h.secureCookie)
	writeJSON(w, http.StatusOK, res)
}

func (h *UserHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	writeMessage(w, r, http.StatusOK, "user.logged_out")
}

func (h *UserHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	u, err := h.svc.Get(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	var in service.ProfileInput
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), claims.Subject, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) HandleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.AdminUserInput
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := h.svc.AdminUpdate(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, r, http.StatusOK, "user.deleted")
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type forgotPasswordResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken,omitempty"`
}

// HandleForgotPassword answers the same way whether or not the email exists.
func (h *UserHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, err := h.svc.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := forgotPasswordResponse{Message: i18n.T(r.Context(), "user.reset_sent")}
	if h.exposeTokens {
		resp.ResetToken = token
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *UserHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var in service.ResetPasswordInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.svc.ResetPassword(r.Context(), r.PathValue("token"), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, r, http.StatusOK, "user.password_reset")
}

// RegisterRoutes registers account, profile and admin user routes on the given mux.
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux) {
	authed := func(f http.HandlerFunc) http.Handler { return h.auth.Require(failAuth, f) }
	admin := func(f http.HandlerFunc) http.Handler { return h.auth.RequireAdmin(failAuth, f) }

	mux.HandleFunc("POST /api/users/register", h.HandleRegister)
	mux.HandleFunc("POST /api/users/login", h.HandleLogin)
	mux.HandleFunc("POST /api/users/logout", h.HandleLogout)
	mux.HandleFunc("POST /api/users/forgot-password", h.HandleForgotPassword)
	mux.HandleFunc("POST /api/users/reset-password/{token}", h.HandleResetPassword)

	mux.Handle("GET /api/users/profile", authed(h.HandleGetProfile))
	mux.Handle("PUT /api/users/profile", authed(h.HandleUpdateProfile))

	mux.Handle("GET /api/users", admin(h.HandleList))
	mux.Handle("GET /api/users/{id}", admin(h.HandleGet))
	mux.Handle("PUT /api/users/{id}", admin(h.HandleAdminUpdate))
	mux.Handle("DELETE /api/users/{id}", admin(h.HandleDelete))
}
