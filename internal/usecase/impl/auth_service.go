package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"shopcart/config"
	deliverycontext "shopcart/internal/delivery/context"
	"shopcart/internal/domain/entity"
	domainerrors "shopcart/internal/domain/errors"
	"shopcart/internal/domain/repository"
	"shopcart/internal/domain/service"
	"shopcart/internal/errors"
	"shopcart/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// bcrypt ignores everything past 72 bytes and x/crypto rejects longer input.
const maxPasswordBytes = 72

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	events       *eventEmitter
	timeout      time.Duration
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo       repository.UserRepository
	Hasher         service.PasswordHasher
	TokenService   service.TokenService
	EventPublisher service.EventPublisher `optional:"true"`
	Config         *config.Config
	Logger         *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		events:       newEventEmitter(params.EventPublisher, params.Config, params.Logger),
		timeout:      operationTimeout(params.Config),
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates an account. The pre-check gives quick feedback; the unique
// index on email settles concurrent registrations, and the loser gets the same
// ErrDuplicateEmail as a sequential duplicate would.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := withDeadline(ctx, srv.timeout)
	defer cancel()

	user, err := srv.register(ctx, input)
	if err != nil {
		return nil, translateDeadline(err)
	}

	srv.log(ctx).Info("User registered", slog.String("userID", user.ID.String()))
	srv.events.emit(ctx, entity.NewDomainEvent(entity.EventUserRegistered, user.ID))

	return &usecase.RegisterOutput{Msg: usecase.RegisteredMessage}, nil
}

func (srv *authService) register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	_, err := srv.userRepo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, errors.Wrap(domainerrors.ErrDuplicateEmail, "email already registered")
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, errors.Wrap(err, "failed to look up email")
	}

	hash, err := srv.hasher.Hash(ctx, input.Password)
	if err != nil {
		if isContextError(err) {
			return nil, err
		}
		srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	user := &entity.User{
		UserName:     input.UserName,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := srv.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			srv.log(ctx).Info("Concurrent registration lost the race", slog.String("email", input.Email))

			return nil, errors.Wrap(domainerrors.ErrDuplicateEmail, "email registered concurrently")
		}

		return nil, errors.Wrap(err, "failed to create user")
	}

	return user, nil
}

// Login verifies credentials and issues a token. An unknown email and a
// wrong password produce the same ErrInvalidCredentials.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if input == nil || input.Email == "" || input.Password == "" {
		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "missing email or password")
	}

	ctx, cancel := withDeadline(ctx, srv.timeout)
	defer cancel()

	out, err := srv.login(ctx, input)

	return out, translateDeadline(err)
}

func (srv *authService) login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Info("Login rejected", slog.String("reason", "unknown email"))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown email")
		}

		return nil, errors.Wrap(err, "failed to look up user")
	}

	ok, err := srv.hasher.Check(ctx, input.Password, user.PasswordHash)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check password")
	}
	if !ok {
		srv.log(ctx).Info("Login rejected", slog.String("reason", "password mismatch"), slog.String("userID", user.ID.String()))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}

	token, err := srv.tokenService.Issue(user.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.String("userID", user.ID.String()), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrTokenIssueFailed, err.Error())
	}

	return &usecase.LoginOutput{
		UserID:   user.ID,
		UserName: user.UserName,
		Token:    token,
	}, nil
}

// Authenticate verifies the token. Expired, forged and malformed tokens are
// logged with their kind and all reported as ErrUnauthorized.
func (srv *authService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	userID, err := srv.tokenService.Verify(token)
	if err != nil {
		srv.log(ctx).Info("Token rejected", slog.String("kind", tokenFailureKind(err)), slog.Any("error", err))

		return uuid.Nil, errors.Wrap(domainerrors.ErrUnauthorized, tokenFailureKind(err))
	}

	return userID, nil
}

func tokenFailureKind(err error) string {
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		return "expired"
	case errors.Is(err, service.ErrInvalidSignature):
		return "invalid_signature"
	default:
		return "malformed"
	}
}

func validateRegisterInput(input *usecase.RegisterInput) error {
	if input == nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, "missing registration input")
	}

	var problems []string
	if strings.TrimSpace(input.Email) == "" {
		problems = append(problems, "email is required")
	}
	if strings.TrimSpace(input.UserName) == "" {
		problems = append(problems, "userName is required")
	}
	if input.Password == "" {
		problems = append(problems, "password is required")
	}
	if len(input.Password) > maxPasswordBytes {
		problems = append(problems, "password must be at most 72 bytes")
	}

	if len(problems) > 0 {
		return domainerrors.ErrValidationFailed.WithDetails(problems)
	}

	return nil
}
