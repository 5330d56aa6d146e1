package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/letsgo/internal/model"
)

// FriendRequestRepository handles persistence for friend requests. Resolved
// requests are deleted, so every stored row is pending.
type FriendRequestRepository struct {
	db *pgxpool.Pool
}

// NewFriendRequestRepository constructs a FriendRequestRepository.
func NewFriendRequestRepository(db *pgxpool.Pool) *FriendRequestRepository {
	return &FriendRequestRepository{db: db}
}

// PendingBetween reports whether a pending request exists between a and b in
// either direction.
func (r *FriendRequestRepository) PendingBetween(ctx context.Context, a, b int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM friend_requests
			WHERE status = 'pending'
			  AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		)`,
		a, b,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check pending request: %w", err)
	}
	return exists, nil
}

// Create inserts a pending request. The partial unique index on the unordered
// pair turns a concurrent duplicate into ErrDuplicateFriendRequest, and no
// request is created between users who are already friends.
func (r *FriendRequestRepository) Create(ctx context.Context, senderID, receiverID int64) (*model.FriendRequest, error) {
	fr := &model.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     model.FriendRequestPending,
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO friend_requests (sender_id, receiver_id, status)
		 SELECT $1::bigint, $2::bigint, 'pending'
		 WHERE NOT EXISTS (
		     SELECT 1 FROM user_friends WHERE user_id = $1 AND friend_id = $2
		 )
		 RETURNING id, created_at`,
		senderID, receiverID,
	).Scan(&fr.ID, &fr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlreadyFriends
		}
		if isPgError(err, pgUniqueViolation) {
			return nil, ErrDuplicateFriendRequest
		}
		if isPgError(err, pgForeignKeyViolation) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("insert friend request: %w", err)
	}
	return fr, nil
}

// GetByID returns a request or ErrNotFound.
func (r *FriendRequestRepository) GetByID(ctx context.Context, id int64) (*model.FriendRequest, error) {
	var fr model.FriendRequest
	err := r.db.QueryRow(ctx,
		`SELECT id, sender_id, receiver_id, status, created_at
		 FROM friend_requests WHERE id = $1`,
		id,
	).Scan(&fr.ID, &fr.SenderID, &fr.ReceiverID, &fr.Status, &fr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get friend request: %w", err)
	}
	return &fr, nil
}

// List returns the requests userID sent or received, depending on section.
func (r *FriendRequestRepository) List(ctx context.Context, userID int64, section model.RequestSection) ([]model.FriendRequest, error) {
	column := "receiver_id"
	if section == model.SectionSender {
		column = "sender_id"
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, sender_id, receiver_id, status, created_at
		 FROM friend_requests
		 WHERE `+column+` = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	defer rows.Close()

	requests := []model.FriendRequest{}
	for rows.Next() {
		var fr model.FriendRequest
		if err := rows.Scan(&fr.ID, &fr.SenderID, &fr.ReceiverID, &fr.Status, &fr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan friend request: %w", err)
		}
		requests = append(requests, fr)
	}
	return requests, rows.Err()
}

// Resolve consumes a pending request. Accepting adds both friend edges before
// the request is deleted; declining only deletes it. Both happen in one
// transaction with the request row locked so it is resolved exactly once.
func (r *FriendRequestRepository) Resolve(ctx context.Context, id int64, decision model.FriendRequestStatus) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var senderID, receiverID int64
	err = tx.QueryRow(ctx,
		`SELECT sender_id, receiver_id FROM friend_requests
		 WHERE id = $1 AND status = 'pending'
		 FOR UPDATE`,
		id,
	).Scan(&senderID, &receiverID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock friend request: %w", err)
	}

	if decision == model.FriendRequestAccepted {
		// Edges that already exist are left alone.
		_, err = tx.Exec(ctx,
			`INSERT INTO user_friends (user_id, friend_id)
			 VALUES ($1, $2), ($2, $1)
			 ON CONFLICT DO NOTHING`,
			senderID, receiverID,
		)
		if err != nil {
			return fmt.Errorf("insert friend edges: %w", err)
		}
	}

	if _, err = tx.Exec(ctx, `DELETE FROM friend_requests WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
