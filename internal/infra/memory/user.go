package memory

import (
	"context"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

type userRepo struct {
	exec execFn
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	u := *cloneUser(*user)
	return r.exec(ctx, func(st *state) error {
		if _, ok := st.users[u.ID]; ok {
			return repo.ErrConflict
		}
		for _, other := range st.users {
			if other.Email == u.Email {
				return repo.ErrConflict
			}
		}
		st.users[u.ID] = u
		return nil
	})
}

func (r *userRepo) FindByID(ctx context.Context, userID string) (*model.User, error) {
	var out *model.User
	err := r.exec(ctx, func(st *state) error {
		u, ok := st.users[userID]
		if !ok {
			return repo.ErrNotFound
		}
		out = cloneUser(u)
		return nil
	})
	return out, err
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var out *model.User
	err := r.exec(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				out = cloneUser(u)
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	u := *cloneUser(*user)
	u.UpdatedAt = time.Now()
	return r.exec(ctx, func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return repo.ErrNotFound
		}
		st.users[u.ID] = u
		return nil
	})
}

func (r *userRepo) IncrementTokenVersion(ctx context.Context, userID string) error {
	return r.exec(ctx, func(st *state) error {
		u, ok := st.users[userID]
		if !ok {
			return repo.ErrNotFound
		}
		u.TokenVersion++
		st.users[userID] = u
		return nil
	})
}

type refreshTokenRepo struct {
	exec execFn
}

func (r *refreshTokenRepo) Create(ctx context.Context, token *model.RefreshToken) error {
	t := *cloneToken(*token)
	return r.exec(ctx, func(st *state) error {
		for _, other := range st.tokens {
			if other.TokenHash == t.TokenHash {
				return repo.ErrConflict
			}
		}
		st.tokens[t.ID] = t
		return nil
	})
}

func (r *refreshTokenRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	var out *model.RefreshToken
	err := r.exec(ctx, func(st *state) error {
		for _, t := range st.tokens {
			if t.TokenHash == tokenHash {
				out = cloneToken(t)
				return nil
			}
		}
		return repo.ErrNotFound
	})
	return out, err
}

func (r *refreshTokenRepo) MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) (bool, error) {
	var ok bool
	err := r.exec(ctx, func(st *state) error {
		t, found := st.tokens[tokenID]
		if !found || t.UsedAt != nil || t.RevokedAt != nil {
			return nil
		}
		t.UsedAt = cloneTime(&usedAt)
		st.tokens[tokenID] = t
		ok = true
		return nil
	})
	return ok, err
}

func (r *refreshTokenRepo) Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error {
	return r.exec(ctx, func(st *state) error {
		t, found := st.tokens[tokenID]
		if !found || t.RevokedAt != nil {
			return nil
		}
		t.RevokedAt = cloneTime(&revokedAt)
		st.tokens[tokenID] = t
		return nil
	})
}

func (r *refreshTokenRepo) RevokeAllByUserID(ctx context.Context, userID string, revokedAt time.Time) error {
	return r.exec(ctx, func(st *state) error {
		for id, t := range st.tokens {
			if t.UserID == userID && t.RevokedAt == nil {
				t.RevokedAt = cloneTime(&revokedAt)
				st.tokens[id] = t
			}
		}
		return nil
	})
}

func (r *refreshTokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.exec(ctx, func(st *state) error {
		for id, t := range st.tokens {
			if t.ExpiresAt.Before(now) {
				delete(st.tokens, id)
				n++
			}
		}
		return nil
	})
	return n, err
}
