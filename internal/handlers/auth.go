package handlers

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"restaubot/internal/middleware"
	"restaubot/internal/models"
	"restaubot/internal/session"
	"restaubot/internal/slug"
	"restaubot/internal/store"
)

// totpIssuer appears in authenticator apps next to the account name.
const totpIssuer = "RestauBot"

// Auth groups all authentication-related HTTP handlers: the signup
// wizard, login and the TOTP two-factor flow.
type Auth struct {
	sessions    *session.Store
	users       *store.UserStore
	tenants     *store.TenantStore
	profiles    *store.ProfileStore
	restaurants *store.RestaurantStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, users *store.UserStore, tenants *store.TenantStore, profiles *store.ProfileStore, restaurants *store.RestaurantStore) *Auth {
	return &Auth{
		sessions:    sessions,
		users:       users,
		tenants:     tenants,
		profiles:    profiles,
		restaurants: restaurants,
	}
}

type signupRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FullName       string `json:"full_name"`
	CompanyName    string `json:"company_name"`
	RestaurantName string `json:"restaurant_name"`
}

// Signup handles the onboarding wizard: it creates the owner account,
// its tenant, profile and first restaurant in one request, then opens a
// session. The new restaurant starts with an empty menu document.
func (a *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if msg := validateSignup(req.Email, req.Password, req.FullName, req.RestaurantName); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := a.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		slog.Error("signup lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "Un compte existe déjà avec cette adresse e-mail.")
		return
	}

	user, err := a.users.Create(r.Context(), req.Email, req.Password, req.FullName, models.RoleOwner)
	if err != nil {
		slog.Error("signup create user failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	// The wizard creates several rows in sequence. If a later step
	// fails, earlier ones are rolled back so the e-mail stays free for
	// a retry.
	undo := func() {
		if err := a.users.Delete(r.Context(), user.ID); err != nil {
			slog.Error("signup rollback user failed", "error", err)
		}
	}

	tenantName := req.CompanyName
	if tenantName == "" {
		tenantName = req.RestaurantName
	}
	tenant, err := a.tenants.Create(r.Context(), tenantName)
	if err != nil {
		slog.Error("signup create tenant failed", "error", err)
		undo()
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	userUndo := undo
	undo = func() {
		if err := a.tenants.Delete(r.Context(), tenant.ID); err != nil {
			slog.Error("signup rollback tenant failed", "error", err)
		}
		userUndo()
	}

	if err := a.tenants.LinkUser(r.Context(), user.ID, tenant.ID); err != nil {
		slog.Error("signup link tenant failed", "error", err)
		undo()
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	if _, err := a.profiles.Upsert(r.Context(), &models.Profile{
		ID:          user.ID,
		FullName:    req.FullName,
		CompanyName: req.CompanyName,
		Country:     "France",
		Timezone:    "Europe/Paris",
		Plan:        models.PlanDiscovery,
	}); err != nil {
		slog.Error("signup create profile failed", "error", err)
		undo()
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	restaurantSlug, err := a.uniqueSlug(r, req.RestaurantName)
	if err != nil {
		slog.Error("signup slug failed", "error", err)
		undo()
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	restaurant, err := a.restaurants.Create(r.Context(), tenant.ID, req.RestaurantName, restaurantSlug, nil)
	if err != nil {
		slog.Error("signup create restaurant failed", "error", err)
		undo()
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		TenantID:  tenant.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		TwoFADone: false,
	}); err != nil {
		slog.Error("signup session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user":            user,
		"restaurant":      restaurant,
		"needs_2fa_setup": true,
	})
}

// uniqueSlug derives a free slug from a restaurant name, suffixing a
// counter when the plain one is taken.
func (a *Auth) uniqueSlug(r *http.Request, name string) (string, error) {
	base := slug.Generate(name)
	if base == "" {
		base = "restaurant"
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := a.restaurants.SlugExists(r.Context(), candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login validates credentials and opens a session. Two-factor
// verification is still pending afterwards: the response tells the
// frontend whether to run setup or plain verification.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "E-mail ou mot de passe incorrect.")
		return
	}

	tenant, err := a.tenants.ForUser(r.Context(), user.ID)
	if err != nil || tenant == nil {
		slog.Error("login tenant lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	// TwoFADone starts false — the user must complete 2FA.
	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		TenantID:  tenant.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		TwoFADone: false,
	}); err != nil {
		slog.Error("login session failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"needs_2fa_setup": user.Needs2FASetup(),
	})
}

// TwoFASetup generates a fresh TOTP secret for the logged-in user and
// returns it with a QR code for authenticator apps.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Authentification requise.")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	if err := a.users.SetTOTPSecret(r.Context(), sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":      key.Secret(),
		"otpauth_url": key.URL(),
		"qr_png":      base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type twoFAVerifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify validates a TOTP code and completes authentication.
// On first-time setup, a valid code also enables 2FA on the account.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Authentification requise.")
		return
	}

	var req twoFAVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, http.StatusConflict, "La double authentification n'est pas configurée.")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		writeError(w, http.StatusUnauthorized, "Code invalide. Veuillez réessayer.")
		return
	}

	// First successful verification completes enrollment.
	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(r.Context(), user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Erreur interne.")
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

// TwoFAReset clears the current TOTP enrollment so a new authenticator
// can be registered. Only available inside a fully verified session, and
// the open session immediately loses its verified state.
func (a *Auth) TwoFAReset(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Authentification requise.")
		return
	}

	if err := a.users.ResetTOTP(r.Context(), sess.UserID); err != nil {
		slog.Error("reset totp failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	sess.TwoFADone = false
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Erreur interne.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	writeJSON(w, http.StatusOK, map[string]bool{"logged_out": true})
}

// Me returns the current session identity, used by the frontend to
// restore state after a reload.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Authentification requise.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":     sess.UserID,
		"tenant_id":   sess.TenantID,
		"email":       sess.Email,
		"full_name":   sess.FullName,
		"role":        sess.Role,
		"two_fa_done": sess.TwoFADone,
	})
}
