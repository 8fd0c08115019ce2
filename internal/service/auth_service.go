package service

import (
	"context"
	"errors"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/sportmate/internal/model"
	appErr "github.com/xxxsen/sportmate/internal/pkg/errors"
	"github.com/xxxsen/sportmate/internal/pkg/jwt"
	"github.com/xxxsen/sportmate/internal/pkg/password"
)

type AuthService struct {
	users     UserStore
	codes     CodeIssuer
	jwtSecret []byte
	jwtTTL    time.Duration
	now       func() time.Time
}

func NewAuthService(users UserStore, codes CodeIssuer, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{users: users, codes: codes, jwtSecret: secret, jwtTTL: ttl, now: time.Now}
}

type SignupInput struct {
	Name      string
	Email     string
	Password  string
	Sport     string
	City      string
	Area      string
	Latitude  *float64
	Longitude *float64
}

// ProfileInput is a partial update. Nil fields keep their current value;
// ClearLocation drops both coordinates.
type ProfileInput struct {
	Name          *string
	Sport         *string
	City          *string
	Area          *string
	Latitude      *float64
	Longitude     *float64
	ClearLocation bool
}

// SendSignupCode stores the pending account and mails a signup code. An
// unverified account with the same email is overwritten.
func (s *AuthService) SendSignupCode(ctx context.Context, input SignupInput) error {
	user, plain, err := s.buildSignupUser(input)
	if err != nil {
		return err
	}
	hash, err := password.Hash(plain)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	existing, err := s.users.GetByEmail(ctx, user.Email)
	switch {
	case err == nil && existing.Verified:
		return appErr.ErrConflict
	case err == nil:
		if err := s.users.UpdatePendingSignup(ctx, user); err != nil {
			if appErr.IsNotFound(err) {
				// verified in between
				return appErr.ErrConflict
			}
			return err
		}
	case appErr.IsNotFound(err):
		user.ID = newID()
		user.Ctime = user.Mtime
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
	default:
		return err
	}
	return s.codes.Issue(ctx, user.Email, model.OTPPurposeSignup)
}

func (s *AuthService) buildSignupUser(input SignupInput) (*model.User, string, error) {
	email := normalizeEmail(input.Email)
	if !validEmail(email) {
		return nil, "", appErr.ErrInvalid
	}
	if len(input.Password) < password.MinLength {
		return nil, "", appErr.ErrInvalid
	}
	name, err := validateName(input.Name)
	if err != nil {
		return nil, "", err
	}
	sport, err := parseSport(input.Sport)
	if err != nil {
		return nil, "", err
	}
	city, err := requireText(input.City)
	if err != nil {
		return nil, "", err
	}
	area, err := requireText(input.Area)
	if err != nil {
		return nil, "", err
	}
	if err := validateLocation(input.Latitude, input.Longitude); err != nil {
		return nil, "", err
	}
	now := s.now().Unix()
	return &model.User{
		Name:      name,
		Email:     email,
		Sport:     sport,
		City:      city,
		Area:      area,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Mtime:     now,
	}, input.Password, nil
}

// VerifySignupCode consumes the signup code and activates the account.
func (s *AuthService) VerifySignupCode(ctx context.Context, email, code string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if err := s.codes.Verify(ctx, email, model.OTPPurposeSignup, code); err != nil {
		return nil, "", err
	}
	if err := s.users.MarkVerified(ctx, email, s.now().Unix()); err != nil {
		return nil, "", err
	}
	return s.issueFor(ctx, email)
}

func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || plainPassword == "" {
		return nil, "", appErr.ErrInvalid
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, "", appErr.ErrUnauthorized
		}
		return nil, "", err
	}
	if !user.Verified {
		return nil, "", appErr.ErrNotVerified
	}
	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		return nil, "", appErr.ErrUnauthorized
	}
	return s.touchAndSign(ctx, user)
}

// SendLoginCode mails a passwordless login code to a verified account.
func (s *AuthService) SendLoginCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return appErr.ErrInvalid
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.Verified {
		return appErr.ErrNotVerified
	}
	return s.codes.Issue(ctx, email, model.OTPPurposeLogin)
}

func (s *AuthService) VerifyLoginCode(ctx context.Context, email, code string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if err := s.codes.Verify(ctx, email, model.OTPPurposeLogin, code); err != nil {
		return nil, "", err
	}
	return s.issueFor(ctx, email)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if user.Name, err = validateName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Sport != nil {
		if user.Sport, err = parseSport(*input.Sport); err != nil {
			return nil, err
		}
	}
	if input.City != nil {
		if user.City, err = requireText(*input.City); err != nil {
			return nil, err
		}
	}
	if input.Area != nil {
		if user.Area, err = requireText(*input.Area); err != nil {
			return nil, err
		}
	}
	switch {
	case input.ClearLocation:
		user.Latitude, user.Longitude = nil, nil
	case input.Latitude != nil || input.Longitude != nil:
		if err := validateLocation(input.Latitude, input.Longitude); err != nil {
			return nil, err
		}
		user.Latitude, user.Longitude = input.Latitude, input.Longitude
	}
	now := s.now().Unix()
	user.LastActive = now
	user.Mtime = now
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout clears the active flag. The token itself stays valid until expiry.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.users.SetActive(ctx, userID, false)
}

func (s *AuthService) issueFor(ctx context.Context, email string) (*model.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, appErr.ErrNotFound) {
			return nil, "", appErr.ErrUnauthorized
		}
		return nil, "", err
	}
	return s.touchAndSign(ctx, user)
}

func (s *AuthService) touchAndSign(ctx context.Context, user *model.User) (*model.User, string, error) {
	now := s.now().Unix()
	if err := s.users.Touch(ctx, user.ID, now); err != nil {
		logutil.GetLogger(ctx).Warn("touch user on login failed", zap.String("user_id", user.ID), zap.Error(err))
	} else {
		user.LastActive = now
		user.Active = true
	}
	token, err := jwt.GenerateToken(user.ID, user.Email, jwt.RoleUser, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
