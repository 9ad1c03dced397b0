package impl

import (
	"context"
	"testing"

	"spark/internal/domain/entity"
	domainerrors "spark/internal/domain/errors"
	"spark/internal/infra/auth"
	"spark/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountServiceFixtures struct {
	*storeFixture
	service usecase.AccountUsecase
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	t.Helper()

	f := newStoreFixture()
	f.cfg.SecretKey.Access = "access-secret"
	f.cfg.SecretKey.Refresh = "refresh-secret"

	tokens, err := auth.NewJWTService(f.cfg)
	require.NoError(t, err)

	svc := NewAccountService(AccountServiceParams{
		TxManager:    f.txManager,
		Repositories: f.repos,
		Hasher:       auth.NewBcryptHasher(f.cfg),
		TokenService: tokens,
		Config:       f.cfg,
		Logger:       f.logger,
	})
	svc.(*accountService).now = f.clock.Now

	return accountServiceFixtures{storeFixture: f, service: svc}
}

func (fx accountServiceFixtures) register(t *testing.T, email string) *usecase.RegisterOutput {
	t.Helper()

	out, err := fx.service.Register(context.Background(), &usecase.RegisterInput{
		Email:     email,
		Password:  "correct horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Gender:    entity.GenderFemale,
	})
	require.NoError(t, err)

	return out
}

func TestAccountService_Register(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	out := fx.register(t, " Ada@Example.com ")

	assert.Equal(t, "ada@example.com", out.Account.Email)
	assert.NotEqual(t, "correct horse", out.Account.PasswordHash)
	assert.Equal(t, out.Account.ID, out.Profile.AccountID)
	assert.Equal(t, "Ada", out.Profile.FirstName)
	assert.Equal(t, entity.GenderFemale, out.Profile.Gender)

	profile, err := fx.repos.NewProfileRepository().FindByAccountID(ctx, out.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Profile.ID, profile.ID)
	require.NotNil(t, profile.Location)
	assert.False(t, profile.Location.HasPlace())
	assert.Nil(t, profile.Location.Coordinates)

	females, err := fx.repos.NewProfileRepository().ListByGender(ctx, entity.GenderFemale)
	require.NoError(t, err)
	assert.Len(t, females, 1)
}

func TestAccountService_Register_Rejections(t *testing.T) {
	fx := createTestAccountService(t)
	fx.register(t, "ada@example.com")

	tests := []struct {
		name  string
		input *usecase.RegisterInput
		want  error
	}{
		{
			name:  "duplicate email",
			input: &usecase.RegisterInput{Email: "ADA@example.com", Password: "x", Gender: entity.GenderMale},
			want:  domainerrors.ErrAccountAlreadyExists,
		},
		{
			name:  "missing password",
			input: &usecase.RegisterInput{Email: "bob@example.com", Gender: entity.GenderMale},
			want:  domainerrors.ErrMissingField,
		},
		{
			name:  "invalid gender",
			input: &usecase.RegisterInput{Email: "bob@example.com", Password: "x", Gender: "X"},
			want:  domainerrors.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	males, err := fx.repos.NewProfileRepository().ListByGender(context.Background(), entity.GenderMale)
	require.NoError(t, err)
	assert.Empty(t, males)
}

func TestAccountService_Login(t *testing.T) {
	fx := createTestAccountService(t)
	fx.register(t, "ada@example.com")
	ctx := context.Background()

	tokens, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "Ada@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	_, err = fx.service.Login(ctx, &usecase.LoginInput{Email: "ada@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = fx.service.Login(ctx, &usecase.LoginInput{Email: "nobody@example.com", Password: "correct horse"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAccountService_RefreshRotatesSession(t *testing.T) {
	fx := createTestAccountService(t)
	fx.register(t, "ada@example.com")
	ctx := context.Background()

	first, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)

	second, err := fx.service.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = fx.service.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	_, err = fx.service.Refresh(ctx, first.AccessToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestAccountService_Logout(t *testing.T) {
	fx := createTestAccountService(t)
	fx.register(t, "ada@example.com")
	ctx := context.Background()

	tokens, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "ada@example.com", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, fx.service.Logout(ctx, tokens.RefreshToken))
	require.NoError(t, fx.service.Logout(ctx, tokens.RefreshToken))

	_, err = fx.service.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	assert.ErrorIs(t, fx.service.Logout(ctx, "garbage"), domainerrors.ErrRefreshTokenInvalid)
}

func TestAccountService_PurgeExpiredSessions(t *testing.T) {
	fx := createTestAccountService(t)
	fx.register(t, "ada@example.com")
	ctx := context.Background()

	for range 2 {
		_, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "ada@example.com", Password: "correct horse"})
		require.NoError(t, err)
	}

	removed, err := fx.service.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	fx.clock.Advance(fx.cfg.Auth.RefreshTokenTTL)

	removed, err = fx.service.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}
