package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"neuronix/internal/domain"
	"neuronix/internal/middleware"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string     `json:"token"`
	User  accountDTO `json:"user"`
}

type accountDTO struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Plan            string    `json:"plan"`
	Credits         int       `json:"credits"`
	LastCreditReset time.Time `json:"last_credit_reset"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:              a.ID,
		Email:           a.Email,
		Plan:            string(a.Plan),
		Credits:         a.Credits,
		LastCreditReset: a.LastCreditReset,
	}
}

const minPasswordLength = 8

// AuthSignup registers a new account. The profile is created with the free
// plan and a full credit allotment, so the first session needs no reset.
func (a *App) AuthSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "valid email required")
		return
	}
	if len(req.Password) < minPasswordLength {
		a.error(w, http.StatusBadRequest, "bad_request", "password must be at least 8 characters")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.Logger.Error().Err(err).Msg("hash password failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create account")
		return
	}
	account, err := a.Accounts.Create(r.Context(), &domain.Account{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    string(hash),
		Plan:            domain.PlanFree,
		Credits:         domain.FreePlanCredits,
		LastCreditReset: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			a.error(w, http.StatusConflict, "email_taken", "email already registered")
			return
		}
		a.Logger.Error().Err(err).Msg("create account failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create account")
		return
	}
	a.respondWithToken(w, account)
}

// AuthLogin verifies credentials and issues a session token.
func (a *App) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	account, err := a.Accounts.GetByEmail(r.Context(), email)
	if err != nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}
	account, err = a.Engine.Refresh(r.Context(), account)
	if err != nil {
		a.Logger.Error().Err(err).Msg("refresh entitlement failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load profile")
		return
	}
	a.respondWithToken(w, account)
}

func (a *App) respondWithToken(w http.ResponseWriter, account *domain.Account) {
	token, err := middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:      account.ID,
		Plan:     string(account.Plan),
		Exp:      time.Now().Add(tokenTTL).Unix(),
		Issuer:   tokenIssuer,
		Audience: tokenAudience,
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusOK, authResponse{Token: token, User: toAccountDTO(account)})
}
