package memory

import (
	"context"
	"strings"
	"time"

	"spark/internal/domain/entity"
	"spark/internal/domain/repository"

	"github.com/google/uuid"
)

type accountRepository struct {
	sess *session
}

func (repo *accountRepository) Create(_ context.Context, account *entity.Account) error {
	return repo.sess.run(func(d *dataset) error {
		email := strings.ToLower(account.Email)
		if _, taken := d.accountByEmail[email]; taken {
			return repository.ErrAccountConflict
		}

		ensureID(&account.ID)
		ensureTime(&account.CreatedAt)
		account.UpdatedAt = account.CreatedAt

		d.accounts[account.ID] = *account
		d.accountByEmail[email] = account.ID

		return nil
	})
}

func (repo *accountRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	var found entity.Account
	err := repo.sess.run(func(d *dataset) error {
		account, ok := d.accounts[id]
		if !ok {
			return repository.ErrAccountNotFound
		}
		found = account

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &found, nil
}

func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var id uuid.UUID
	err := repo.sess.run(func(d *dataset) error {
		accountID, ok := d.accountByEmail[strings.ToLower(email)]
		if !ok {
			return repository.ErrAccountNotFound
		}
		id = accountID

		return nil
	})
	if err != nil {
		return nil, err
	}

	return repo.FindByID(ctx, id)
}

type refreshTokenRepository struct {
	sess *session
}

func (repo *refreshTokenRepository) Create(_ context.Context, token *entity.RefreshToken) error {
	return repo.sess.run(func(d *dataset) error {
		ensureID(&token.ID)
		ensureTime(&token.CreatedAt)
		d.tokens[token.TokenHash] = *token

		return nil
	})
}

func (repo *refreshTokenRepository) FindByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	var found entity.RefreshToken
	err := repo.sess.run(func(d *dataset) error {
		token, ok := d.tokens[tokenHash]
		if !ok {
			return repository.ErrRefreshTokenNotFound
		}
		found = token

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &found, nil
}

func (repo *refreshTokenRepository) DeleteByHash(_ context.Context, tokenHash string) error {
	return repo.sess.run(func(d *dataset) error {
		if _, ok := d.tokens[tokenHash]; !ok {
			return repository.ErrRefreshTokenNotFound
		}
		delete(d.tokens, tokenHash)

		return nil
	})
}

func (repo *refreshTokenRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var removed int64
	err := repo.sess.run(func(d *dataset) error {
		for hash, token := range d.tokens {
			if token.IsExpired(now) {
				delete(d.tokens, hash)
				removed++
			}
		}

		return nil
	})

	return removed, err
}
