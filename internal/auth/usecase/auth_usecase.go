package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"artdash/internal/auth/config"
	"artdash/internal/auth/domain/model"
	"artdash/internal/auth/domain/repository"
	apperrors "artdash/internal/shared/errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = apperrors.ErrUserNotFound
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials
	ErrSessionRevoked     = apperrors.ErrSessionRevoked

	ErrInvalidEmailFormat   = errors.New("invalid email format")
	ErrInvalidUsername      = errors.New("username must be alphanumeric")
	ErrWeakPassword         = errors.New("password must be at least 6 characters long")
	ErrTokenInvalid         = errors.New("token is invalid or expired")
	ErrSessionNotFound      = errors.New("session not found")
	ErrRevokeCurrentSession = errors.New("cannot revoke the current session via this endpoint")
	ErrNoUpdatableFields    = errors.New("no valid fields provided for update")
	ErrAdminUndeletable     = errors.New("admin users cannot be deleted")
)

const minPasswordLength = 6

// inactiveThreshold is how long after the last activity a user is still
// reported as Active in admin listings.
const inactiveThreshold = 10 * time.Minute

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// ClientInfo carries the request origin attached to every new session.
type ClientInfo struct {
	IP     string
	Device string
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries a profile update. Password is the current
// password and is always required; NewPassword is optional.
type UpdateProfileRequest struct {
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	NewPassword string `json:"newPassword"`
}

// SessionInfo is one entry of the session list as shown to the account owner.
type SessionInfo struct {
	ID         string    `json:"id"`
	LoginTime  time.Time `json:"loginTime"`
	DeviceName string    `json:"deviceName"`
	Location   string    `json:"location"`
	IsCurrent  bool      `json:"isCurrent"`
}

// UserOverview is one row of the admin user listing.
type UserOverview struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	ProfilePic    string    `json:"profilePic"`
	CurrentDevice string    `json:"currentDevice"`
	CreatedAt     time.Time `json:"createdAt"`
	LastActivity  time.Time `json:"lastActivity"`
	SessionStatus string    `json:"sessionStatus"`
}

// DataPurger removes a user's related records (orders, messages, activity)
// when the account is deleted.
type DataPurger interface {
	PurgeUserData(ctx context.Context, userID, email string) error
}

// ActivityRecorder persists a tracked user activity event.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, userID, activityType, pageRoute, description string, durationMs int64) error
}

// ActivityRequest is the body of a tracking call.
type ActivityRequest struct {
	Type       string `json:"type"`
	PageRoute  string `json:"pageRoute"`
	DurationMs int64  `json:"durationMs"`
}

// AuthUsecaseInterface defines the contract for the auth/session core.
type AuthUsecaseInterface interface {
	Register(ctx context.Context, req RegisterRequest, client ClientInfo) (*model.User, string, string, error)
	Login(ctx context.Context, req LoginRequest, client ClientInfo) (*model.User, string, string, error)
	Authenticate(ctx context.Context, tokenString string) (*model.User, string, error)
	Logout(ctx context.Context, userID, sessionID string) error
	ListSessions(user *model.User, currentSessionID string) []SessionInfo
	RevokeSession(ctx context.Context, userID, currentSessionID, targetSessionID string) error
	UpdateProfile(ctx context.Context, userID, currentSessionID string, req UpdateProfileRequest) (*model.User, error)
	DeleteAccount(ctx context.Context, userID, email string) error
	TrackActivity(ctx context.Context, userID string, req ActivityRequest, client ClientInfo) error
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	ListUsers(ctx context.Context) ([]UserOverview, error)
	DeleteUser(ctx context.Context, userID string) error
	MakeAdmin(ctx context.Context, email string) (*model.User, error)
}

// AuthUsecase implements the session issuer, validator and manager.
type AuthUsecase struct {
	repo     repository.UserRepository
	tokenSvc repository.TokenService
	config   *config.Config

	purger   DataPurger
	recorder ActivityRecorder

	now func() time.Time
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	repo repository.UserRepository,
	tokenSvc repository.TokenService,
	cfg *config.Config,
) *AuthUsecase {
	return &AuthUsecase{
		repo:     repo,
		tokenSvc: tokenSvc,
		config:   cfg,
		now:      time.Now,
	}
}

// SetCollaborators injects the optional cross-module collaborators. Both may
// be nil; the usecase degrades to auth-only behavior.
func (uc *AuthUsecase) SetCollaborators(purger DataPurger, recorder ActivityRecorder) {
	uc.purger = purger
	uc.recorder = recorder
}

func (uc *AuthUsecase) validateRegistration(req *RegisterRequest) error {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.FirstName == "" {
		return apperrors.NewValidationError("First name is required")
	}
	if req.Username == "" {
		return apperrors.NewValidationError("Username is required")
	}
	if !usernameRegex.MatchString(req.Username) {
		return ErrInvalidUsername
	}
	if req.Email == "" {
		return apperrors.NewValidationError("Email is required")
	}
	if !emailRegex.MatchString(req.Email) {
		return ErrInvalidEmailFormat
	}
	if len(req.Password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new user with its initial session and mints the session
// token. Duplicate username/email surfaces as *model.DuplicateKeyError.
func (uc *AuthUsecase) Register(ctx context.Context, req RegisterRequest, client ClientInfo) (*model.User, string, string, error) {
	if err := uc.validateRegistration(&req); err != nil {
		return nil, "", "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := uc.now()
	user := &model.User{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Username:      req.Username,
		Email:         req.Email,
		Phone:         strings.TrimSpace(req.Phone),
		PasswordHash:  string(hashed),
		Role:          model.RoleUser,
		ProfilePic:    model.DefaultProfilePic,
		LastActivity:  now,
		CurrentDevice: client.Device,
		CurrentIP:     client.IP,
		CreatedAt:     now,
	}

	if err := uc.repo.CreateUser(ctx, user); err != nil {
		var dup *model.DuplicateKeyError
		if errors.As(err, &dup) {
			return nil, "", "", err
		}
		return nil, "", "", fmt.Errorf("failed to create user: %w", err)
	}

	return uc.issueSession(ctx, user, client)
}

// Login authenticates credentials and issues a fresh session and token.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest, client ClientInfo) (*model.User, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, "", "", apperrors.NewValidationError("Please provide email and password.")
	}

	user, err := uc.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	return uc.issueSession(ctx, user, client)
}

// issueSession appends a bounded session entry, persists it, and mints the
// token binding {userID, sessionID}.
func (uc *AuthUsecase) issueSession(ctx context.Context, user *model.User, client ClientInfo) (*model.User, string, string, error) {
	device := client.Device
	if device == "" {
		device = "Unknown Device"
	}

	session := model.Session{
		SessionID: uuid.New().String(),
		LoginTime: uc.now(),
		Device:    device,
		IP:        client.IP,
	}

	if err := uc.repo.RecordLogin(ctx, user.ID, session, uc.config.MaxSessions); err != nil {
		return nil, "", "", fmt.Errorf("failed to record login: %w", err)
	}

	user.Sessions = model.AppendBounded(user.Sessions, session, uc.config.MaxSessions)
	user.LastActivity = session.LoginTime
	user.CurrentDevice = device
	user.CurrentIP = client.IP

	token, err := uc.tokenSvc.GenerateToken(ctx, user.ID, session.SessionID)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate token: %w", err)
	}

	user.Sanitize()
	return user, token, session.SessionID, nil
}

// Authenticate verifies the token signature and expiry, loads the user, and
// cross-checks the token's sessionId against the stored session list. This is
// what allows a still-unexpired token to be rejected after remote revocation.
func (uc *AuthUsecase) Authenticate(ctx context.Context, tokenString string) (*model.User, string, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, "", ErrTokenInvalid
	}

	user, err := uc.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, "", ErrUserNotFound
	}

	if !user.HasSession(claims.SessionID) {
		return nil, "", ErrSessionRevoked
	}

	user.Sanitize()
	return user, claims.SessionID, nil
}

// Logout removes exactly the current session entry. A session that is already
// gone is not an error.
func (uc *AuthUsecase) Logout(ctx context.Context, userID, sessionID string) error {
	if _, err := uc.repo.RemoveSession(ctx, userID, sessionID); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// ListSessions annotates the user's sessions with the current-session flag,
// newest first.
func (uc *AuthUsecase) ListSessions(user *model.User, currentSessionID string) []SessionInfo {
	ordered := model.NewestFirst(user.Sessions)
	out := make([]SessionInfo, 0, len(ordered))
	for _, s := range ordered {
		out = append(out, SessionInfo{
			ID:         s.SessionID,
			LoginTime:  s.LoginTime,
			DeviceName: s.Device,
			Location:   s.IP,
			IsCurrent:  s.SessionID == currentSessionID,
		})
	}
	return out
}

// RevokeSession removes one non-current session by id. Revoking the current
// session must go through Logout instead.
func (uc *AuthUsecase) RevokeSession(ctx context.Context, userID, currentSessionID, targetSessionID string) error {
	if targetSessionID == currentSessionID {
		return ErrRevokeCurrentSession
	}

	removed, err := uc.repo.RemoveSession(ctx, userID, targetSessionID)
	if err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	if !removed {
		return ErrSessionNotFound
	}
	return nil
}

// UpdateProfile verifies the current password, applies profile changes, and
// on a password change prunes every session other than the current one so all
// other devices are logged out immediately.
func (uc *AuthUsecase) UpdateProfile(ctx context.Context, userID, currentSessionID string, req UpdateProfileRequest) (*model.User, error) {
	if req.Password == "" {
		return nil, apperrors.NewValidationError("Current password and update fields are required.")
	}

	user, err := uc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	passwordChanged := false
	if req.NewPassword != "" {
		if len(req.NewPassword) < minPasswordLength {
			return nil, ErrWeakPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := uc.repo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
			return nil, fmt.Errorf("failed to update password: %w", err)
		}
		if err := uc.repo.PruneOtherSessions(ctx, userID, currentSessionID); err != nil {
			return nil, fmt.Errorf("failed to prune sessions: %w", err)
		}
		passwordChanged = true
	}

	update := repository.ProfileUpdate{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Username:  strings.ToLower(strings.TrimSpace(req.Username)),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
	}
	hasProfileChange := update.FirstName != "" || update.LastName != "" ||
		update.Username != "" || update.Email != "" || update.Phone != ""

	if !hasProfileChange && !passwordChanged {
		return nil, ErrNoUpdatableFields
	}

	if hasProfileChange {
		if update.Username != "" && !usernameRegex.MatchString(update.Username) {
			return nil, ErrInvalidUsername
		}
		if update.Email != "" && !emailRegex.MatchString(update.Email) {
			return nil, ErrInvalidEmailFormat
		}
		updated, err := uc.repo.UpdateProfile(ctx, userID, update)
		if err != nil {
			var dup *model.DuplicateKeyError
			if errors.As(err, &dup) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		updated.Sanitize()
		return updated, nil
	}

	user.Sanitize()
	return user, nil
}

// DeleteAccount removes the user and, when a purger is wired, all related
// records.
func (uc *AuthUsecase) DeleteAccount(ctx context.Context, userID, email string) error {
	if uc.purger != nil {
		if err := uc.purger.PurgeUserData(ctx, userID, email); err != nil {
			return fmt.Errorf("failed to purge user data: %w", err)
		}
	}
	if err := uc.repo.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// TrackActivity refreshes the user's activity tracking fields and forwards
// the event to the activity log when a recorder is wired.
func (uc *AuthUsecase) TrackActivity(ctx context.Context, userID string, req ActivityRequest, client ClientInfo) error {
	if err := uc.repo.TouchActivity(ctx, userID, client.IP, client.Device); err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}

	if uc.recorder != nil && (req.Type != "" || req.PageRoute != "") {
		activityType := req.Type
		if activityType == "" {
			activityType = "PAGE_VIEW"
		}
		description := fmt.Sprintf("Visited %s", req.PageRoute)
		if activityType == "LOGIN" {
			description = "User logged in"
		}
		if err := uc.recorder.RecordActivity(ctx, userID, activityType, req.PageRoute, description, req.DurationMs); err != nil {
			return fmt.Errorf("failed to record activity: %w", err)
		}
	}
	return nil
}

// GetUserByID retrieves a user by ID with the password hash cleared.
func (uc *AuthUsecase) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	user, err := uc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user.Sanitize()
	return user, nil
}

// ListUsers returns all non-admin accounts with a computed Active/Inactive
// status for the admin dashboard.
func (uc *AuthUsecase) ListUsers(ctx context.Context) ([]UserOverview, error) {
	users, err := uc.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	now := uc.now()
	out := make([]UserOverview, 0, len(users))
	for _, u := range users {
		out = append(out, UserOverview{
			ID:            u.ID,
			FirstName:     u.FirstName,
			LastName:      u.LastName,
			Email:         u.Email,
			ProfilePic:    u.ProfilePic,
			CurrentDevice: u.CurrentDevice,
			CreatedAt:     u.CreatedAt,
			LastActivity:  u.LastActivity,
			SessionStatus: sessionStatus(u, now),
		})
	}
	return out, nil
}

// DeleteUser removes a non-admin account and its related records.
func (uc *AuthUsecase) DeleteUser(ctx context.Context, userID string) error {
	user, err := uc.repo.GetUserByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}
	if user.IsAdmin() {
		return ErrAdminUndeletable
	}
	return uc.DeleteAccount(ctx, user.ID, user.Email)
}

// MakeAdmin promotes the account matching email to the admin role.
func (uc *AuthUsecase) MakeAdmin(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.NewValidationError("Email is required.")
	}
	user, err := uc.repo.PromoteToAdmin(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}
	user.Sanitize()
	return user, nil
}

// SessionStatus classifies a user by the inactivity threshold.
func SessionStatus(u *model.User, now time.Time) string {
	return sessionStatus(u, now)
}

func sessionStatus(u *model.User, now time.Time) string {
	last := u.LastActivity
	if last.IsZero() {
		last = u.CreatedAt
	}
	if now.Sub(last) < inactiveThreshold {
		return "Active"
	}
	return "Inactive"
}

// Ensure AuthUsecase implements AuthUsecaseInterface
var _ AuthUsecaseInterface = (*AuthUsecase)(nil)
