package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"spark/config"
	deliverycontext "spark/internal/delivery/context"
	"spark/internal/domain/entity"
	domainerrors "spark/internal/domain/errors"
	"spark/internal/domain/repository"
	"spark/internal/domain/service"
	"spark/internal/usecase"
	"spark/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager    repository.TransactionManager
	repos        repository.RepositoryFactory
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
	now          func() time.Time
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	Repositories repository.RepositoryFactory
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		txManager:    params.TxManager,
		repos:        params.Repositories,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
		now:          time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates account registration: account, profile and empty location.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domainerrors.ErrMissingField.WithDetails("email and password are required")
	}
	if !input.Gender.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("gender must be M or F")
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	// bcrypt is CPU-bound, keep it outside the transaction.
	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	now := srv.now()
	account := &entity.Account{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &entity.Profile{
		ID:        uuid.New(),
		AccountID: account.ID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Gender:    input.Gender,
		CreatedAt: now,
		UpdatedAt: now,
	}
	location := &entity.Location{
		ID:        uuid.New(),
		ProfileID: profile.ID,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewAccountRepository().Create(ctx, account); err != nil {
			if errors.Is(err, repository.ErrAccountConflict) {
				return errors.Wrap(domainerrors.ErrAccountAlreadyExists, "registration failed")
			}

			return errors.Wrap(err, "failed to create account")
		}

		if err := repoFactory.NewProfileRepository().Create(ctx, profile); err != nil {
			return errors.Wrap(err, "failed to create profile")
		}

		if err := repoFactory.NewLocationRepository().Create(ctx, location); err != nil {
			return errors.Wrap(err, "failed to create location")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	profile.Location = location
	srv.log(ctx).Debug("Registration completed", slog.Any("accountID", account.ID), slog.Any("profileID", profile.ID))

	return &usecase.RegisterOutput{Account: account, Profile: profile}, nil
}

// Login verifies the credentials and opens a new session.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.TokenOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting login", slog.String("email", email))

	account, err := srv.repos.NewAccountRepository().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "unknown email"))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find account")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.String("reason", "password mismatch"))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	tokens, err := srv.issueTokens(ctx, srv.repos.NewRefreshTokenRepository(), account.ID)
	if err != nil {
		return nil, err
	}
	srv.log(ctx).Debug("Account logged in", slog.Any("accountID", account.ID))

	return tokens, nil
}

// Refresh ends the presented session and opens a new one.
func (srv *accountService) Refresh(ctx context.Context, refreshToken string) (*usecase.TokenOutput, error) {
	claims, err := srv.tokenService.ValidateToken(refreshToken, service.TokenTypeRefresh)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid.WithDetails(err.Error()), "refresh failed")
	}

	tokenHash, err := hashToken(refreshToken)
	if err != nil {
		return nil, err
	}

	var tokens *usecase.TokenOutput
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.NewRefreshTokenRepository()

		stored, err := refreshRepo.FindByHash(ctx, tokenHash)
		if err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "session not found")
			}

			return errors.Wrap(err, "failed to find refresh token")
		}

		if stored.AccountID != claims.AccountID || stored.IsExpired(srv.now()) {
			return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "session expired")
		}

		if err := refreshRepo.DeleteByHash(ctx, tokenHash); err != nil {
			return errors.Wrap(err, "failed to end session")
		}

		tokens, err = srv.issueTokens(ctx, refreshRepo, stored.AccountID)

		return err
	})
	if err != nil {
		srv.log(ctx).Warn("Refresh failed", slog.Any("accountID", claims.AccountID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute refresh transaction")
	}

	return tokens, nil
}

// Logout ends the session of refreshToken. Unknown sessions are ignored.
func (srv *accountService) Logout(ctx context.Context, refreshToken string) error {
	if _, err := srv.tokenService.ValidateToken(refreshToken, service.TokenTypeRefresh); err != nil {
		return errors.Wrap(domainerrors.ErrRefreshTokenInvalid.WithDetails(err.Error()), "logout failed")
	}

	tokenHash, err := hashToken(refreshToken)
	if err != nil {
		return err
	}

	err = srv.repos.NewRefreshTokenRepository().DeleteByHash(ctx, tokenHash)
	if err != nil && !errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return errors.Wrap(err, "failed to end session")
	}

	return nil
}

// PurgeExpiredSessions deletes every refresh token that has expired.
func (srv *accountService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	removed, err := srv.repos.NewRefreshTokenRepository().DeleteExpired(ctx, srv.now())
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete expired sessions")
	}

	if removed > 0 {
		srv.log(ctx).Info("Expired sessions purged", slog.Int64("count", removed))
	}

	return removed, nil
}

func (srv *accountService) issueTokens(ctx context.Context, refreshRepo repository.RefreshTokenRepository, accountID uuid.UUID) (*usecase.TokenOutput, error) {
	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(accountID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	tokenHash, err := hashToken(refreshToken)
	if err != nil {
		return nil, err
	}

	now := srv.now()
	session := &entity.RefreshToken{
		ID:        uuid.New(),
		AccountID: accountID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(srv.tokenService.GetRefreshTokenDuration()),
		CreatedAt: now,
	}
	if err := refreshRepo.Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	return &usecase.TokenOutput{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func hashToken(token string) (string, error) {
	sum, err := util.Checksum(strings.NewReader(token))
	if err != nil {
		return "", errors.Wrap(err, "failed to hash token")
	}

	return sum, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
