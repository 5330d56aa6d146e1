package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

// UserRepository reads users and the symmetric friends relation.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `u.id, u.username, u.private,
	ARRAY(SELECT f.friend_id FROM user_friends f WHERE f.user_id = u.id ORDER BY f.friend_id)`

// GetByID returns a user with its friend ids or ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Private, &u.Friends)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Exists reports whether a user with id exists.
func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

// AreFriends reports whether a and b share a friend edge.
func (r *UserRepository) AreFriends(ctx context.Context, a, b int64) (bool, error) {
	var friends bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_friends WHERE user_id = $1 AND friend_id = $2)`,
		a, b,
	).Scan(&friends)
	if err != nil {
		return false, fmt.Errorf("check friendship: %w", err)
	}
	return friends, nil
}

// ListFriends returns the friends of userID ordered by username.
func (r *UserRepository) ListFriends(ctx context.Context, userID int64) ([]model.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+`
		 FROM user_friends uf
		 JOIN users u ON u.id = uf.friend_id
		 WHERE uf.user_id = $1
		 ORDER BY u.username`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Private, &u.Friends); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
