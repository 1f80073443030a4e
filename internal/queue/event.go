// Package queue defines the follow.sync message payloads and the consumer
// that keeps the follower/following lists mutually consistent.
package queue

// Follow actions carried in FollowChangedEvent.
const (
	FollowActionFollow   = "follow"
	FollowActionUnfollow = "unfollow"
)

// FollowChangedEvent is published after a follow or unfollow request. The
// two relation writes in the request path are not atomic together; the
// consumer re-applies both sides idempotently so a half-applied pair heals.
type FollowChangedEvent struct {
	FollowerID string `json:"follower_id"`
	FolloweeID string `json:"followee_id"`
	Action     string `json:"action"` // "follow" or "unfollow"
	OccurredAt string `json:"occurred_at"`
}
