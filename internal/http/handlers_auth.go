package httpx

import (
	"net/http"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/voltfleet/cpconsole/internal/csms"
	domainauth "github.com/voltfleet/cpconsole/internal/domain/auth"
	"github.com/voltfleet/cpconsole/internal/domain/guard"
)

type loginForm struct {
	Username string
	Password string
}

func (f loginForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Username, validation.Required),
		validation.Field(&f.Password, validation.Required),
	)
}

type signupForm struct {
	Username  string
	Email     string
	FullName  string
	Phone     string
	Password  string
	Password2 string
	Role      string
}

func (f signupForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Username, validation.Required, validation.Length(3, 64)),
		validation.Field(&f.Email, validation.Required, is.Email),
		validation.Field(&f.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&f.Password2, validation.Required, validation.In(f.Password).Error("passwords do not match")),
		validation.Field(&f.Role, validation.In("user", "super_admin")),
	)
}

// LoginPage renders the login form.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	p := h.page(r, "Sign in", "login")
	p.Flash = r.URL.Query().Get("msg")
	h.renderPage(w, "login.tmpl", p)
}

// LoginSubmit authenticates against the backend and establishes the
// browser session. Backend rejection messages are shown verbatim.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	form := loginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	p := h.page(r, "Sign in", "login")
	if err := form.Validate(); err != nil {
		p.Error = "Username and password are required."
		w.WriteHeader(http.StatusBadRequest)
		h.renderPage(w, "login.tmpl", p)
		return
	}

	sess, err := h.Auth.Login(r.Context(), domainauth.Credentials{
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		p.Error = backendError(err)
		w.WriteHeader(http.StatusUnauthorized)
		h.renderPage(w, "login.tmpl", p)
		return
	}

	h.setSessionCookie(w, sess)
	http.Redirect(w, r, guard.Landing(sess.Role), http.StatusFound)
}

// Logout tears down the session and returns the browser to the public
// landing page. Safe to call without a session.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.CookieName); err == nil && cookie.Value != "" {
		if err := h.Auth.Logout(r.Context(), cookie.Value); err != nil {
			h.Logger.Warn("logout cleanup failed", "error", err)
		}
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, guard.PublicLanding, http.StatusFound)
}

// SignupPage renders the registration form.
func (h *UIHandlers) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, "signup.tmpl", h.page(r, "Create account", "signup"))
}

// SignupSubmit registers a new account with the backend and sends the
// user to the login page with the backend's confirmation message.
func (h *UIHandlers) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	form := signupForm{
		Username:  r.PostFormValue("username"),
		Email:     r.PostFormValue("email"),
		FullName:  r.PostFormValue("full_name"),
		Phone:     r.PostFormValue("phone"),
		Password:  r.PostFormValue("password"),
		Password2: r.PostFormValue("password2"),
		Role:      r.PostFormValue("role"),
	}
	if form.Role == "" {
		form.Role = string(domainauth.RoleUser)
	}

	p := h.page(r, "Create account", "signup")
	p.Data = form
	if err := form.Validate(); err != nil {
		p.Error = err.Error()
		w.WriteHeader(http.StatusBadRequest)
		h.renderPage(w, "signup.tmpl", p)
		return
	}

	detail, err := h.Auth.Signup(r.Context(), csms.SignupRequest{
		Username:  form.Username,
		Email:     form.Email,
		FullName:  form.FullName,
		Phone:     form.Phone,
		Password:  form.Password,
		Password2: form.Password2,
		Role:      domainauth.Role(form.Role),
	})
	if err != nil {
		p.Error = backendError(err)
		w.WriteHeader(http.StatusBadGateway)
		h.renderPage(w, "signup.tmpl", p)
		return
	}
	if detail == "" {
		detail = "Account created. You can sign in now."
	}
	http.Redirect(w, r, "/login?msg="+url.QueryEscape(detail), http.StatusFound)
}

// ForgotPasswordPage renders the reset-request form.
func (h *UIHandlers) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, "forgot-password.tmpl", h.page(r, "Forgot password", "login"))
}

// ForgotPasswordSubmit asks the backend to send a reset email. The
// backend's detail message is echoed whether it accepted or declined, so
// the form does not leak which addresses exist.
func (h *UIHandlers) ForgotPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	p := h.page(r, "Forgot password", "login")

	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		p.Error = "Enter a valid email address."
		w.WriteHeader(http.StatusBadRequest)
		h.renderPage(w, "forgot-password.tmpl", p)
		return
	}

	detail, _, err := h.Auth.ForgotPassword(r.Context(), email)
	if err != nil {
		p.Error = backendError(err)
		w.WriteHeader(http.StatusBadGateway)
		h.renderPage(w, "forgot-password.tmpl", p)
		return
	}
	if detail == "" {
		detail = "If that address is registered, a reset link is on its way."
	}
	p.Flash = detail
	h.renderPage(w, "forgot-password.tmpl", p)
}

// ResetPasswordPage renders the new-password form for an emailed link,
// carrying uid and token through the form. Links arrive either as
// /reset-password/{uid}/{token} or with uid/token query params.
func (h *UIHandlers) ResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	token := r.PathValue("token")
	if uid == "" {
		uid = r.URL.Query().Get("uid")
		token = r.URL.Query().Get("token")
	}

	p := h.page(r, "Reset password", "login")
	p.Data = map[string]string{"UID": uid, "Token": token}
	h.renderPage(w, "reset-password.tmpl", p)
}

// ResetPasswordSubmit confirms the reset with the backend.
func (h *UIHandlers) ResetPasswordSubmit(w http.ResponseWriter, r *http.Request) {
	uid := r.PostFormValue("uid")
	token := r.PostFormValue("token")
	password := r.PostFormValue("new_password")

	p := h.page(r, "Reset password", "login")
	p.Data = map[string]string{"UID": uid, "Token": token}

	if err := validation.Validate(password, validation.Required, validation.Length(8, 128)); err != nil || uid == "" || token == "" {
		p.Error = "The reset link is incomplete or the password is too short."
		w.WriteHeader(http.StatusBadRequest)
		h.renderPage(w, "reset-password.tmpl", p)
		return
	}

	detail, ok, err := h.Auth.ResetPassword(r.Context(), uid, token, password)
	if err != nil {
		p.Error = backendError(err)
		w.WriteHeader(http.StatusBadGateway)
		h.renderPage(w, "reset-password.tmpl", p)
		return
	}
	if !ok {
		if detail == "" {
			detail = "The reset link is no longer valid."
		}
		p.Error = detail
		w.WriteHeader(http.StatusBadRequest)
		h.renderPage(w, "reset-password.tmpl", p)
		return
	}
	if detail == "" {
		detail = "Password updated. Sign in with your new password."
	}
	http.Redirect(w, r, "/login?msg="+url.QueryEscape(detail), http.StatusFound)
}
