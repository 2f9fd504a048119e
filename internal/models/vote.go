package models

import "time"

// Vote target kinds. The ledger is parameterized over the entities that
// can receive votes rather than keeping one table per kind.
const (
	TargetThread  = "thread"
	TargetComment = "comment"
)

// Vote values.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote is one row of the vote ledger: the current vote of one user on
// one target. It is current state, not history — changing a vote
// rewrites the row and retracting it deletes the row outright, so there
// is deliberately no DeletedAt column.
//
// The composite unique index on (user_id, target_type, target_id) is
// the concurrency guard for the one-vote-per-user-per-target invariant;
// the repository relies on it via INSERT ... ON CONFLICT rather than
// checking first.
type Vote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_votes_user_target" json:"user_id"`
	TargetType string    `gorm:"not null;size:16;uniqueIndex:idx_votes_user_target" json:"target_type"`
	TargetID   uint      `gorm:"not null;index;uniqueIndex:idx_votes_user_target" json:"target_id"`
	Value      int       `gorm:"not null" json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidVoteValue reports whether v is an accepted vote magnitude.
func ValidVoteValue(v int) bool {
	return v == VoteUp || v == VoteDown
}

// ValidTargetType reports whether t names a votable entity kind.
func ValidTargetType(t string) bool {
	return t == TargetThread || t == TargetComment
}

// VoteCounts is the aggregate view of the ledger for a single target.
type VoteCounts struct {
	TargetID  uint `json:"target_id"`
	Upvotes   int  `json:"upvotes"`
	Downvotes int  `json:"downvotes"`
	// UserVote is the requesting user's current vote, nil when the
	// caller is anonymous or has not voted on this target.
	UserVote *int `json:"user_vote"`
}

// Score is the net vote value.
func (c VoteCounts) Score() int {
	return c.Upvotes - c.Downvotes
}
