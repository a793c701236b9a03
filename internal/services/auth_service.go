package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/campsite/internal/models"
	"github.com/AnshRaj112/campsite/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResetTokenTTL is how long a password reset link stays valid.
const ResetTokenTTL = time.Hour

type AuthService struct {
	users     UserStore
	notifier  ResetNotifier
	validate  *validator.Validate
	adminCode string
	baseURL   string
	now       func() time.Time
	logger    zerolog.Logger
}

type AuthServiceConfig struct {
	Users     UserStore
	Notifier  ResetNotifier
	AdminCode string // Empty disables admin registration
	BaseURL   string
	Logger    zerolog.Logger
}

func NewAuthService(cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		users:     cfg.Users,
		notifier:  cfg.Notifier,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		adminCode: cfg.AdminCode,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		now:       time.Now,
		logger:    cfg.Logger.With().Str("service", "auth").Logger(),
	}
}

type RegisterInput struct {
	Username  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=6"`
	FirstName string `validate:"max=50"`
	LastName  string `validate:"max=50"`
	Avatar    string `validate:"omitempty,url"`
	AdminCode string
}

// Register creates a user. The password is stored only as a salted hash.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := utils.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Avatar:       in.Avatar,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		IsAdmin:      s.isAdminCode(in.AdminCode),
	}
	if user.Avatar == "" {
		user.Avatar = models.DefaultAvatar
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("username", in.Username).Msg("failed to create user")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID.Hex()).
		Str("username", user.Username).
		Bool("is_admin", user.IsAdmin).
		Msg("user registered")

	return user, nil
}

// Login verifies credentials. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, ErrNotFound) {
		s.logger.Debug().Str("username", username).Msg("user not found during authentication")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		s.logger.Debug().Str("username", username).Msg("invalid password during authentication")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().Str("user_id", user.ID.Hex()).Str("username", user.Username).Msg("user authenticated")
	return user, nil
}

// CurrentUser resolves the user id stored in a session. A stale id yields
// (nil, nil) so the request proceeds anonymously.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return user, err
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, oid)
}

// RequestPasswordReset issues a reset token for the account with email. An
// unknown email is not reported so accounts cannot be enumerated.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		s.logger.Debug().Msg("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	expires := s.now().Add(ResetTokenTTL)
	user.ResetPasswordToken = uuid.NewString()
	user.ResetPasswordExpires = &expires
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	link := s.baseURL + "/reset/" + user.ResetPasswordToken
	return s.notifier.SendPasswordReset(ctx, user.Email, link)
}

// CheckResetToken returns the user a valid, unexpired token belongs to.
func (s *AuthService) CheckResetToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrResetTokenInvalid
	}
	user, err := s.users.GetByResetToken(ctx, token, s.now())
	if errors.Is(err, ErrNotFound) {
		return nil, ErrResetTokenInvalid
	}
	return user, err
}

// ResetPassword replaces the password of the token holder and consumes the token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirm string) (*models.User, error) {
	user, err := s.CheckResetToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}
	if err := s.validate.Var(password, "required,min=6"); err != nil {
		return nil, &utils.ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID.Hex()).Msg("password reset")
	return user, nil
}

func (s *AuthService) isAdminCode(code string) bool {
	if s.adminCode == "" || code == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(s.adminCode)) == 1
}

// IsOwnerOrAdmin reports whether user may modify a resource authored by authorID.
func IsOwnerOrAdmin(user *models.User, authorID primitive.ObjectID) bool {
	if user == nil {
		return false
	}
	return user.IsAdmin || user.ID == authorID
}

// validationError turns the first validator failure into a user-facing message.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "email":
		msg = "Email address is not valid"
	case "min":
		msg = fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "url":
		msg = fmt.Sprintf("%s must be a valid URL", fe.Field())
	default:
		msg = fmt.Sprintf("%s is not valid", fe.Field())
	}
	return &utils.ValidationError{Field: field, Message: msg}
}
