package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wajir-county/ict-helpdesk/internal/auth"
	"github.com/wajir-county/ict-helpdesk/internal/config"
	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/events"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
	"github.com/wajir-county/ict-helpdesk/pkg/errorutil"
)

// AuthService is the identity boundary: accounts, sessions and the profile
// attached to every session.
type AuthService struct {
	accounts repository.AccountRepository
	users    repository.UserRepository
	tokens   repository.AuthTokenRepository
	sessions repository.SessionRepository
	tokenMgr *auth.TokenManager
	cfg      config.AuthConfig
	events   publisher
	logger   *zap.Logger
	now      func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	AccountRepo   repository.AccountRepository
	UserRepo      repository.UserRepository
	AuthTokenRepo repository.AuthTokenRepository
	SessionRepo   repository.SessionRepository
	TokenManager  *auth.TokenManager
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Clock         func() time.Time
}

// SignUpInput describes a self-service registration.
type SignUpInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
	Department      string
	Title           *string
}

// SeedAccountInput describes a pre-verified account created by the seed command.
type SeedAccountInput struct {
	Email      string
	Password   string
	Name       string
	Department string
	Title      *string
	Role       domain.Role
}

// SessionResult is an issued bearer token and the state it restores.
type SessionResult struct {
	Token     string
	ExpiresAt time.Time
	Session   *domain.Session
	Profile   *domain.UserProfile
}

// SignUpResult reports a registration. Session is nil while the email awaits verification.
type SignUpResult struct {
	Profile             *domain.UserProfile
	Session             *SessionResult
	VerificationPending bool
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	tokenMgr := deps.TokenManager
	if tokenMgr == nil {
		tokenMgr = auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes)
	}
	return &AuthService{
		accounts: deps.AccountRepo,
		users:    deps.UserRepo,
		tokens:   deps.AuthTokenRepo,
		sessions: deps.SessionRepo,
		tokenMgr: tokenMgr,
		cfg:      cfg,
		events:   newPublisher(deps.Dispatcher, logger, now),
		logger:   logger,
		now:      now,
	}
}

// SignUp registers an account and its profile. New profiles are always
// regular users except the bootstrap superuser address.
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*SignUpResult, error) {
	email := domain.NormalizeEmail(input.Email)
	department := strings.TrimSpace(input.Department)
	if department == "" {
		department = domain.DefaultDepartment
	}

	details := map[string]any{}
	if !strings.Contains(email, "@") {
		details["email"] = "email must be a valid email"
	}
	if len(input.Password) < auth.MinPasswordLength {
		details["password"] = "password must be at least 6 characters"
	}
	if input.Password != input.ConfirmPassword {
		details["confirm_password"] = "passwords do not match"
	}
	if !domain.IsValidDepartment(department) {
		details["department"] = "unknown department"
	}
	if len(details) > 0 {
		return nil, errorutil.NewValidationError("invalid sign-up", details)
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, errorutil.NewConflict("an account with this email already exists", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err, "account")
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}

	account := &domain.Account{ID: uuid.NewString(), Email: email, PasswordHash: hash}
	if existing, err := s.users.GetByEmail(ctx, email); err == nil {
		account.ID = existing.ID
	}
	if !s.cfg.RequireEmailVerification {
		verifiedAt := s.now()
		account.EmailVerifiedAt = &verifiedAt
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, storeError(err, "account")
	}

	name := strings.TrimSpace(input.Name)
	profile, err := s.resolveProfile(ctx, account, profileDefaults{name: name, department: department, title: trimmed(input.Title)})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account registered", zap.String("user_id", profile.ID), zap.String("role", string(profile.Role)))
	s.events.publish(ctx, events.Event{
		Type:      events.EventUserSignedUp,
		SubjectID: account.ID,
		Actor:     events.Actor{UserID: profile.ID, Role: profile.Role},
		Payload:   events.SessionPayload{Email: email},
	})

	result := &SignUpResult{Profile: profile}
	if s.cfg.RequireEmailVerification {
		if err := s.issueToken(ctx, account, domain.TokenPurposeEmailVerification, s.cfg.EmailVerificationTTL(), events.EventEmailVerificationPending); err != nil {
			return nil, err
		}
		result.VerificationPending = true
		return result, nil
	}

	session, err := s.startSession(ctx, account, profile)
	if err != nil {
		return nil, err
	}
	result.Session = session
	return result, nil
}

// VerifyEmail redeems an email verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	record, err := s.redeem(ctx, domain.TokenPurposeEmailVerification, token)
	if err != nil {
		return err
	}
	if err := s.accounts.MarkEmailVerified(ctx, record.SubjectID, s.now()); err != nil {
		return storeError(err, "account")
	}
	s.events.publish(ctx, events.Event{
		Type:      events.EventEmailVerified,
		SubjectID: record.SubjectID,
	})
	return nil
}

// SignIn checks credentials and opens a session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SessionResult, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewUnauthorized("invalid email or password")
	}
	if err != nil {
		return nil, storeError(err, "account")
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, errorutil.NewUnauthorized("invalid email or password")
	}
	if s.cfg.RequireEmailVerification && !account.Verified() {
		return nil, errorutil.NewUnauthorized("email address has not been verified")
	}

	profile, err := s.resolveProfile(ctx, account, profileDefaults{})
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, account, profile)
}

// ResolveSession restores the caller from a bearer token. Revoked or expired
// sessions are rejected.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*auth.Principal, error) {
	claims, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, errorutil.NewUnauthorized("invalid or expired token")
	}
	session, err := s.sessions.Get(ctx, claims.SessionID())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewUnauthorized("session expired or signed out")
	}
	if err != nil {
		return nil, storeError(err, "session")
	}
	if session.Expired(s.now()) || session.UserID != claims.Subject {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			s.logger.Debug("expired session cleanup failed", zap.String("session_id", session.ID), zap.Error(err))
		}
		return nil, errorutil.NewUnauthorized("session expired or signed out")
	}

	account, err := s.accounts.GetByID(ctx, session.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errorutil.NewUnauthorized("account no longer exists")
	}
	if err != nil {
		return nil, storeError(err, "account")
	}
	profile, err := s.resolveProfile(ctx, account, profileDefaults{})
	if err != nil {
		return nil, err
	}
	return &auth.Principal{Session: session, Profile: profile}, nil
}

// SignOut tears the caller's session down.
func (s *AuthService) SignOut(ctx context.Context, caller *auth.Principal) error {
	if caller == nil || caller.Session == nil {
		return errorutil.NewUnauthorized("authentication required")
	}
	if err := s.sessions.Delete(ctx, caller.Session.ID); err != nil {
		return storeError(err, "session")
	}
	s.events.publish(ctx, events.Event{
		Type:      events.EventUserSignedOut,
		SubjectID: caller.Session.UserID,
		Actor:     actorOf(caller),
		Payload:   events.SessionPayload{SessionID: caller.Session.ID, Email: caller.Session.Email},
	})
	return nil
}

// RequestPasswordReset issues a reset token when the account exists. The
// outcome is the same either way so callers cannot probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Debug("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return storeError(err, "account")
	}
	return s.issueToken(ctx, account, domain.TokenPurposePasswordReset, s.cfg.PasswordResetTTL(), events.EventPasswordResetRequested)
}

// ConfirmPasswordReset redeems a reset token and sets the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < auth.MinPasswordLength {
		return errorutil.NewValidationError("invalid password", map[string]any{"password": "password must be at least 6 characters"})
	}
	record, err := s.redeem(ctx, domain.TokenPurposePasswordReset, token)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, record.SubjectID, newPassword)
}

// ChangePassword verifies the current password before replacing it.
func (s *AuthService) ChangePassword(ctx context.Context, caller *auth.Principal, currentPassword, newPassword string) error {
	if caller == nil || caller.Session == nil {
		return errorutil.NewUnauthorized("authentication required")
	}
	if len(newPassword) < auth.MinPasswordLength {
		return errorutil.NewValidationError("invalid password", map[string]any{"new_password": "new_password must be at least 6 characters"})
	}
	account, err := s.accounts.GetByID(ctx, caller.Session.UserID)
	if err != nil {
		return storeError(err, "account")
	}
	if err := auth.ComparePassword(account.PasswordHash, currentPassword); err != nil {
		return errorutil.NewUnauthorized("current password is incorrect")
	}
	return s.setPassword(ctx, account.ID, newPassword)
}

// SeedAccount creates or refreshes a verified account with a fixed role.
func (s *AuthService) SeedAccount(ctx context.Context, input SeedAccountInput) (*domain.UserProfile, error) {
	email := domain.NormalizeEmail(input.Email)
	if !input.Role.Valid() {
		return nil, errorutil.NewValidationError("invalid seed account", map[string]any{"role": "unknown role"})
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		hash, hashErr := auth.HashPassword(input.Password, s.cfg.BcryptCost)
		if hashErr != nil {
			return nil, errorutil.NewInternalError(hashErr)
		}
		verifiedAt := s.now()
		account = &domain.Account{Email: email, PasswordHash: hash, EmailVerifiedAt: &verifiedAt}
		if existing, lookupErr := s.users.GetByEmail(ctx, email); lookupErr == nil {
			account.ID = existing.ID
		}
		err = s.accounts.Create(ctx, account)
	}
	if err != nil {
		return nil, storeError(err, "account")
	}

	profile, err := s.resolveProfile(ctx, account, profileDefaults{
		name:       input.Name,
		department: input.Department,
		title:      input.Title,
		role:       input.Role,
	})
	if err != nil {
		return nil, err
	}
	if profile.Role != input.Role || profile.Name != input.Name || profile.Department != input.Department {
		profile.Role = input.Role
		profile.Name = input.Name
		profile.Department = input.Department
		profile.Title = input.Title
		if err := s.users.Update(ctx, profile); err != nil {
			return nil, storeError(err, "user")
		}
	}
	return profile, nil
}

// TokenManager exposes the underlying token manager.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

type profileDefaults struct {
	name       string
	department string
	title      *string
	role       domain.Role
}

// resolveProfile finds the profile for an account by email, creating a
// default one when none exists.
func (s *AuthService) resolveProfile(ctx context.Context, account *domain.Account, defaults profileDefaults) (*domain.UserProfile, error) {
	profile, err := s.users.GetByEmail(ctx, account.Email)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err, "user")
	}

	profile = &domain.UserProfile{
		ID:         account.ID,
		Email:      account.Email,
		Name:       defaults.name,
		Department: defaults.department,
		Title:      defaults.title,
		Role:       defaults.role,
	}
	if profile.Name == "" {
		profile.Name = domain.DisplayNameFromEmail(account.Email)
	}
	if profile.Department == "" {
		profile.Department = domain.DefaultDepartment
	}
	if profile.Role == "" {
		profile.Role = domain.RoleForNewProfile(account.Email)
	}

	if err := s.users.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			existing, lookupErr := s.users.GetByEmail(ctx, account.Email)
			if lookupErr == nil {
				return existing, nil
			}
		}
		return nil, storeError(err, "user")
	}
	s.logger.Info("profile created", zap.String("user_id", profile.ID), zap.String("role", string(profile.Role)))
	s.events.publish(ctx, events.Event{
		Type:      events.EventProfileCreated,
		SubjectID: profile.ID,
		Actor:     events.Actor{UserID: profile.ID, Role: profile.Role},
		Payload:   events.ProfileCreatedPayload{Email: profile.Email, Role: profile.Role},
	})
	return profile, nil
}

func (s *AuthService) startSession(ctx context.Context, account *domain.Account, profile *domain.UserProfile) (*SessionResult, error) {
	now := s.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    account.ID,
		Email:     account.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenMgr.TTL()),
	}
	token, err := s.tokenMgr.GenerateToken(session.ID, account.ID, account.Email, session.ExpiresAt)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, storeError(err, "session")
	}
	s.events.publish(ctx, events.Event{
		Type:      events.EventUserSignedIn,
		SubjectID: account.ID,
		Actor:     events.Actor{UserID: profile.ID, Role: profile.Role},
		Payload:   events.SessionPayload{SessionID: session.ID, Email: account.Email},
	})
	return &SessionResult{Token: token, ExpiresAt: session.ExpiresAt, Session: session, Profile: profile}, nil
}

// issueToken stores a single-use token and hands it to subscribers of eventType for delivery.
func (s *AuthService) issueToken(ctx context.Context, account *domain.Account, purpose domain.AuthTokenPurpose, ttl time.Duration, eventType events.EventType) error {
	token := &domain.AuthToken{
		Purpose:   purpose,
		SubjectID: account.ID,
		Token:     strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", ""),
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return storeError(err, "token")
	}
	s.events.publish(ctx, events.Event{
		Type:      eventType,
		SubjectID: account.ID,
		Payload:   events.TokenIssuedPayload{Email: account.Email, Token: token.Token, ExpiresAt: token.ExpiresAt},
	})
	return nil
}

// redeem marks a usable token as used. Unknown, expired and spent tokens are
// indistinguishable to the caller.
func (s *AuthService) redeem(ctx context.Context, purpose domain.AuthTokenPurpose, value string) (*domain.AuthToken, error) {
	invalid := errorutil.NewValidationError("invalid or expired token", map[string]any{"token": "token is invalid or expired"})
	if strings.TrimSpace(value) == "" {
		return nil, invalid
	}
	record, err := s.tokens.GetByToken(ctx, purpose, value)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, storeError(err, "token")
	}
	if !record.Usable(s.now()) {
		return nil, invalid
	}
	if err := s.tokens.MarkUsed(ctx, record.ID, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid
		}
		return nil, storeError(err, "token")
	}
	return record, nil
}

func (s *AuthService) setPassword(ctx context.Context, accountID, password string) error {
	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return errorutil.NewInternalError(err)
	}
	if err := s.accounts.UpdatePassword(ctx, accountID, hash); err != nil {
		return storeError(err, "account")
	}
	s.events.publish(ctx, events.Event{
		Type:      events.EventPasswordChanged,
		SubjectID: accountID,
	})
	return nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	out := strings.TrimSpace(*value)
	if out == "" {
		return nil
	}
	return &out
}
