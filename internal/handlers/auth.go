// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"eventcal/internal/middleware"
	"eventcal/internal/render"
	"eventcal/internal/session"
	"eventcal/internal/store"
)

// totpAccount names the single owner in the otpauth URL shown to
// authenticator apps.
const totpAccount = "owner"

// Auth groups the owner login handlers: first-run setup, password login,
// and the TOTP challenge.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	profiles store.ProfileStore
	issuer   string
}

// NewAuth creates a new Auth handler group. issuer is the calendar title
// shown in authenticator apps.
func NewAuth(renderer *render.Renderer, sessions *session.Store, profiles store.ProfileStore, issuer string) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		profiles: profiles,
		issuer:   issuer,
	}
}

// SetupPage renders the first-run password form. Once a profile exists
// setup is closed for good.
func (a *Auth) SetupPage(w http.ResponseWriter, r *http.Request) {
	profile, err := a.profiles.GetProfile(r.Context())
	if err != nil {
		slog.Error("load profile failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if profile != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "setup", &render.PageData{Title: "Setup"})
}

// SetupSubmit creates the owner profile: hashes the password, generates
// the TOTP secret, and sends the owner on to QR enrollment.
func (a *Auth) SetupSubmit(w http.ResponseWriter, r *http.Request) {
	profile, err := a.profiles.GetProfile(r.Context())
	if err != nil {
		slog.Error("load profile failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if profile != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	password := r.FormValue("password")
	confirm := r.FormValue("confirm")
	if len(password) < 8 {
		a.renderer.Page(w, r, "setup", &render.PageData{
			Title: "Setup",
			Data:  map[string]any{"Error": "Password must be at least 8 characters."},
		})
		return
	}
	if password != confirm {
		a.renderer.Page(w, r, "setup", &render.PageData{
			Title: "Setup",
			Data:  map[string]any{"Error": "Passwords do not match."},
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("hash password failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      a.issuer,
		AccountName: totpAccount,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	secret := key.Secret()
	if err := a.profiles.SaveProfile(r.Context(), &store.Profile{
		PasswordHash: string(hash),
		TOTPSecret:   &secret,
		TOTPEnabled:  false,
	}); err != nil {
		slog.Error("save profile failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Password is set; the TOTP challenge is still open.
	if _, err := a.sessions.Create(r.Context(), w, &session.Data{TwoFADone: false}); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("owner profile created")
	http.Redirect(w, r, "/2fa/verify", http.StatusSeeOther)
}

// LoginPage renders the password form, bouncing to setup on a fresh
// installation and to the calendar when already signed in.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	profile, err := a.profiles.GetProfile(r.Context())
	if err != nil {
		slog.Error("load profile failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		http.Redirect(w, r, "/setup", http.StatusSeeOther)
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.TwoFADone {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", &render.PageData{Title: "Sign In"})
}

// LoginSubmit checks the password and opens the TOTP challenge.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	profile, err := a.profiles.GetProfile(r.Context())
	if err != nil {
		slog.Error("load profile failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		http.Redirect(w, r, "/setup", http.StatusSeeOther)
		return
	}

	password := r.FormValue("password")
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		a.renderer.Page(w, r, "login", &render.PageData{
			Title: "Sign In",
			Data:  map[string]any{"Error": "Invalid password."},
		})
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{TwoFADone: false}); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/2fa/verify", http.StatusSeeOther)
}

// VerifyPage renders the TOTP code form. Until the first successful code
// the page also shows the enrollment QR built from the stored secret.
func (a *Auth) VerifyPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if sess.TwoFADone {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	profile, err := a.profiles.GetProfile(r.Context())
	if err != nil || profile == nil || profile.TOTPSecret == nil {
		slog.Error("load profile failed", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	a.renderVerify(w, r, profile, "")
}

// VerifySubmit validates the TOTP code, completing enrollment on the
// first success, and finishes the login.
func (a *Auth) VerifySubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	profile, err := a.profiles.GetProfile(r.Context())
	if err != nil || profile == nil || profile.TOTPSecret == nil {
		slog.Error("load profile failed", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	code := r.FormValue("code")
	if !totp.Validate(code, *profile.TOTPSecret) {
		a.renderVerify(w, r, profile, "Invalid code. Try again.")
		return
	}

	if !profile.TOTPEnabled {
		profile.TOTPEnabled = true
		if err := a.profiles.SaveProfile(r.Context(), profile); err != nil {
			slog.Error("save profile failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		slog.Info("totp enrollment completed")
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout destroys the session and returns to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// renderVerify renders the code form, attaching the enrollment QR while
// the profile's TOTP is not yet confirmed.
func (a *Auth) renderVerify(w http.ResponseWriter, r *http.Request, profile *store.Profile, errMsg string) {
	data := map[string]any{}
	if errMsg != "" {
		data["Error"] = errMsg
	}

	if !profile.TOTPEnabled {
		uri := otpauthURL(a.issuer, totpAccount, *profile.TOTPSecret)
		png, err := qrcode.Encode(uri, qrcode.Medium, 256)
		if err != nil {
			slog.Error("qr code generation failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data["QRCode"] = base64.StdEncoding.EncodeToString(png)
		data["Secret"] = *profile.TOTPSecret
	}

	a.renderer.Page(w, r, "2fa_verify", &render.PageData{
		Title: "Two-Factor Authentication",
		Data:  data,
	})
}

// otpauthURL reconstructs the provisioning URI for a stored secret, in
// the form authenticator apps expect.
func otpauthURL(issuer, account, secret string) string {
	return fmt.Sprintf(
		"otpauth://totp/%s:%s?secret=%s&issuer=%s",
		url.PathEscape(issuer), url.PathEscape(account),
		secret, url.QueryEscape(issuer),
	)
}
