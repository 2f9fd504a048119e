package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"quorum/internal/models"
	"quorum/internal/observability"
)

var (
	// ErrDuplicateVote is returned when a (user, target) pair already holds a vote.
	ErrDuplicateVote = errors.New("vote already exists for target")
	// ErrVoteNotFound is returned when no vote exists to change or retract.
	ErrVoteNotFound = errors.New("no vote exists for target")
)

// VoteRepository is the write and aggregate surface of the vote ledger.
type VoteRepository interface {
	Cast(ctx context.Context, userID uint, targetType string, targetID uint, value int) error
	Change(ctx context.Context, userID uint, targetType string, targetID uint, value int) error
	Retract(ctx context.Context, userID uint, targetType string, targetID uint) error
	CountsFor(ctx context.Context, targetType string, targetIDs []uint, currentUserID uint) (map[uint]models.VoteCounts, error)
	KarmaFor(ctx context.Context, userID uint) (int, error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Cast inserts a vote row, relying on the unique index over
// (user_id, target_type, target_id) to reject duplicates atomically.
// Concurrent casts for the same pair race at the index, not in Go.
func (r *voteRepository) Cast(ctx context.Context, userID uint, targetType string, targetID uint, value int) error {
	defer observability.TrackQuery("insert", "votes")()

	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO votes (user_id, target_type, target_id, value, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, target_type, target_id) DO NOTHING`,
		userID, targetType, targetID, value, time.Now().UTC(),
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDuplicateVote
	}
	return nil
}

// Change flips an existing vote to a new value. A missing row is reported
// as ErrVoteNotFound rather than silently inserting.
func (r *voteRepository) Change(ctx context.Context, userID uint, targetType string, targetID uint, value int) error {
	defer observability.TrackQuery("update", "votes")()

	result := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Update("value", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVoteNotFound
	}
	return nil
}

// Retract removes a user's vote on a target.
func (r *voteRepository) Retract(ctx context.Context, userID uint, targetType string, targetID uint) error {
	defer observability.TrackQuery("delete", "votes")()

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&models.Vote{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVoteNotFound
	}
	return nil
}

type voteAggregateRow struct {
	TargetID  uint
	Upvotes   int
	Downvotes int
}

type userVoteRow struct {
	TargetID uint
	Value    int
}

// CountsFor aggregates up/down tallies for a batch of targets in one
// grouped query, plus one more for the caller's own votes when
// currentUserID is non-zero. Targets with no votes get a zeroed entry.
func (r *voteRepository) CountsFor(ctx context.Context, targetType string, targetIDs []uint, currentUserID uint) (map[uint]models.VoteCounts, error) {
	counts := make(map[uint]models.VoteCounts, len(targetIDs))
	for _, id := range targetIDs {
		counts[id] = models.VoteCounts{TargetID: id}
	}
	if len(targetIDs) == 0 {
		return counts, nil
	}

	defer observability.TrackQuery("select", "votes")()

	var rows []voteAggregateRow
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Select(`target_id,
			COUNT(CASE WHEN value > 0 THEN 1 END) AS upvotes,
			COUNT(CASE WHEN value < 0 THEN 1 END) AS downvotes`).
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		entry := counts[row.TargetID]
		entry.Upvotes = row.Upvotes
		entry.Downvotes = row.Downvotes
		counts[row.TargetID] = entry
	}

	if currentUserID != 0 {
		var mine []userVoteRow
		err := r.db.WithContext(ctx).Model(&models.Vote{}).
			Select("target_id, value").
			Where("user_id = ? AND target_type = ? AND target_id IN ?", currentUserID, targetType, targetIDs).
			Scan(&mine).Error
		if err != nil {
			return nil, err
		}
		for _, row := range mine {
			entry := counts[row.TargetID]
			v := row.Value
			entry.UserVote = &v
			counts[row.TargetID] = entry
		}
	}

	return counts, nil
}

// KarmaFor sums the vote values received across everything the user authored.
func (r *voteRepository) KarmaFor(ctx context.Context, userID uint) (int, error) {
	defer observability.TrackQuery("select", "votes")()

	var karma int
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Select("COALESCE(SUM(value), 0)").
		Where(`(target_type = ? AND target_id IN (SELECT id FROM threads WHERE user_id = ? AND deleted_at IS NULL))
			OR (target_type = ? AND target_id IN (SELECT id FROM comments WHERE user_id = ? AND deleted_at IS NULL))`,
			models.TargetThread, userID, models.TargetComment, userID).
		Scan(&karma).Error
	return karma, err
}
