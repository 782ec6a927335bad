package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/msomdec/accountd/internal/domain"
)

// UserRepository implements domain.UserRepository on PostgreSQL.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query :=
		`INSERT INTO users (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return storeError("insert user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query :=
		`SELECT id, username, password_hash, created_at, updated_at FROM users
		 WHERE id = $1`

	return r.getOne(ctx, "query user by id", query, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query :=
		`SELECT id, username, password_hash, created_at, updated_at FROM users
		 WHERE username = $1`

	return r.getOne(ctx, "query user by username", query, username)
}

func (r *UserRepository) getOne(ctx context.Context, op, query string, arg any) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError(op, err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	query :=
		`SELECT id, username, password_hash, created_at, updated_at FROM users
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeError("list users", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, storeError("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	query :=
		`UPDATE users SET username = $1, password_hash = $2, updated_at = now()
		 WHERE id = $3
		 RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash, user.ID).Scan(&user.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return domain.ErrNotFound
		case isUniqueViolation(err):
			return domain.ErrUsernameTaken
		}
		return storeError("update user", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return storeError("delete user", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return storeError("rows affected", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
