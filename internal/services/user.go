package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"

	"conduit/internal/apperr"
	"conduit/internal/logging"
	"conduit/internal/middleware"
	"conduit/internal/models"
	"conduit/internal/repository"
)

var (
	tracer              = otel.Tracer("conduit")
	meter               = otel.Meter("conduit")
	registrationCounter metric.Int64Counter
	loginCounter        metric.Int64Counter
)

// WelcomeNotifier enqueues the post-registration greeting. The asynq job
// client satisfies it; tests leave it nil.
type WelcomeNotifier interface {
	EnqueueWelcome(ctx context.Context, userID uint, email, username string) error
}

type UserService struct {
	repo      *repository.UserRepository
	notifier  WelcomeNotifier
	validate  *validator.Validate
	jwtSecret string
	tokenTTL  time.Duration
}

// NewUserService builds the account service. The signing secret and token
// lifetime are fixed at construction. notifier may be nil.
func NewUserService(repo *repository.UserRepository, notifier WelcomeNotifier, jwtSecret string, tokenTTL time.Duration) *UserService {
	var err error
	registrationCounter, err = meter.Int64Counter(
		"users.registration.total",
		metric.WithDescription("Total number of user registrations"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create registration counter")
	}

	loginCounter, err = meter.Int64Counter(
		"users.login.attempts",
		metric.WithDescription("Total number of login attempts"),
	)
	if err != nil {
		logging.Logger().Error().Err(err).Msg("failed to create login counter")
	}

	return &UserService{
		repo:      repo,
		notifier:  notifier,
		validate:  validator.New(),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

type CreateUserInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

// hashPassword is the opaque storage digest for passwords. It is
// deterministic on purpose: authentication is an equality lookup on the
// stored value, never a salted comparison.
func hashPassword(password string) string {
	mac := hmac.New(sha256.New, []byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

// Create registers a new account. Username and email must both be unused;
// the pre-insert count gives the field-level error, and the unique indexes
// close the check-then-insert race.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.UserEnvelope, error) {
	ctx, span := tracer.Start(ctx, "user.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.username", input.Username),
		attribute.String("user.email", input.Email),
	)

	count, err := s.repo.CountByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		span.SetAttributes(attribute.Bool("user.exists", true))
		return nil, apperr.NotUnique()
	}

	if err := s.validate.Struct(input); err != nil {
		return nil, apperr.InvalidInput("username", "user input is not valid")
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashPassword(input.Password),
	}

	if err := s.repo.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.NotUnique()
		}
		return nil, err
	}

	if registrationCounter != nil {
		registrationCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.Bool("success", true),
		))
	}

	span.SetAttributes(attribute.Int64("user.id", int64(user.ID)))

	logging.Info(ctx).
		Uint("user_id", user.ID).
		Str("username", user.Username).
		Msg("user registered")

	if s.notifier != nil {
		if err := s.notifier.EnqueueWelcome(ctx, user.ID, user.Email, user.Username); err != nil {
			// Registration already committed; the greeting is best effort.
			logging.Warn(ctx).Err(err).Uint("user_id", user.ID).Msg("failed to enqueue welcome notification")
		}
	}

	return s.BuildProfile(&user)
}

// Authenticate looks up the user whose stored digest equals the digest of
// the supplied password.
func (s *UserService) Authenticate(ctx context.Context, input LoginInput) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.authenticate")
	defer span.End()

	span.SetAttributes(attribute.String("user.email", input.Email))

	if loginCounter != nil {
		loginCounter.Add(ctx, 1)
	}

	user, err := s.repo.FindByCredentials(ctx, input.Email, hashPassword(input.Password))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetAttributes(attribute.Bool("login.success", false))
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("user.id", int64(user.ID)),
		attribute.Bool("login.success", true),
	)

	logging.Info(ctx).
		Uint("user_id", user.ID).
		Msg("user logged in")

	return user, nil
}

// FindByID resolves the token subject. A miss is an unauthorized-class
// failure, unlike FindByEmail; the asymmetry is part of the API contract.
func (s *UserService) FindByID(ctx context.Context, id uint) (*models.UserEnvelope, error) {
	ctx, span := tracer.Start(ctx, "user.find_by_id")
	defer span.End()

	span.SetAttributes(attribute.Int64("user.id", int64(id)))

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized()
		}
		return nil, err
	}

	return s.BuildProfile(user)
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.UserEnvelope, error) {
	ctx, span := tracer.Start(ctx, "user.find_by_email")
	defer span.End()

	span.SetAttributes(attribute.String("user.email", email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}

	return s.BuildProfile(user)
}

// Update merges the supplied fields onto the existing record and persists.
func (s *UserService) Update(ctx context.Context, id uint, input UpdateUserInput) (*models.UserEnvelope, error) {
	ctx, span := tracer.Start(ctx, "user.update")
	defer span.End()

	span.SetAttributes(attribute.Int64("user.id", int64(id)))

	if err := s.validate.Struct(input); err != nil {
		return nil, apperr.InvalidInput("user", "user input is not valid")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized()
		}
		return nil, err
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Image != nil {
		user.Image = *input.Image
	}
	if input.Password != nil {
		user.PasswordHash = hashPassword(*input.Password)
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.NotUnique()
		}
		return nil, err
	}

	logging.Info(ctx).
		Uint("user_id", user.ID).
		Msg("user updated")

	return s.BuildProfile(user)
}

// Delete removes the account matching the email. Deleting a missing account
// is indistinguishable from success.
func (s *UserService) Delete(ctx context.Context, email string) error {
	ctx, span := tracer.Start(ctx, "user.delete")
	defer span.End()

	span.SetAttributes(attribute.String("user.email", email))

	if err := s.repo.DeleteByEmail(ctx, email); err != nil {
		return err
	}

	logging.Info(ctx).
		Str("email", email).
		Msg("user deleted")

	return nil
}

// IssueToken signs a session token carrying email, id and username, expiring
// tokenTTL (60 days by default) after issue time.
func (s *UserService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// BuildProfile projects the user into the response envelope with a freshly
// issued token.
func (s *UserService) BuildProfile(user *models.User) (*models.UserEnvelope, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.UserEnvelope{User: user.ToProfile(token)}, nil
}

// Stats aggregates article counts, like totals and first-publication dates
// for every user, ordered by total likes descending. Ties keep the source
// order (primary key). One shot, no pagination; the roster is small.
func (s *UserService) Stats(ctx context.Context) ([]models.UserStat, error) {
	ctx, span := tracer.Start(ctx, "user.stats")
	defer span.End()

	users, err := s.repo.FindAllWithArticles(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]models.UserStat, 0, len(users))
	for _, user := range users {
		stat := models.UserStat{
			ID:            user.ID,
			Username:      user.Username,
			TotalArticles: len(user.Articles),
		}

		for _, article := range user.Articles {
			stat.TotalLikes += article.FavoritesCount
			if stat.FirstArticleDate == nil || article.CreatedAt.Before(*stat.FirstArticleDate) {
				created := article.CreatedAt
				stat.FirstArticleDate = &created
			}
		}

		stats = append(stats, stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalLikes > stats[j].TotalLikes
	})

	span.SetAttributes(attribute.Int("result.count", len(stats)))

	return stats, nil
}
