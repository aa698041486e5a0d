package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrReplyNotFound is returned when a reply id does not belong to a comment.
var ErrReplyNotFound = errors.New("reply not found")

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	return validate.Struct(c)
}

// BeforeCreate fills in the id and posting time when they are unset
func (c *Comment) BeforeCreate() {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.PostedAt == 0 {
		c.PostedAt = time.Now().UnixMilli()
	}
}

// PostedTime returns PostedAt as a time.Time.
func (c *Comment) PostedTime() time.Time {
	return time.UnixMilli(c.PostedAt)
}

// Validate checks if the reply meets all validation requirements
func (r *Reply) Validate() error {
	return validate.Struct(r)
}

// BeforeCreate fills in the id and posting time when they are unset
func (r *Reply) BeforeCreate() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.PostedAt == 0 {
		r.PostedAt = time.Now().UnixMilli()
	}
}

// PostedTime returns PostedAt as a time.Time.
func (r *Reply) PostedTime() time.Time {
	return time.UnixMilli(r.PostedAt)
}

// NewThread builds an empty thread around a comment.
func NewThread(c Comment) *CommentWithReplies {
	return &CommentWithReplies{
		Comment: c,
		Replies: []*Reply{},
	}
}

// Validate checks the comment and every reply it carries
func (c *CommentWithReplies) Validate() error {
	return validate.Struct(c)
}

// AddReply appends a reply and keeps RepliesCount in step
func (c *CommentWithReplies) AddReply(reply *Reply) error {
	if reply == nil {
		return errors.New("reply cannot be nil")
	}

	c.Replies = append(c.Replies, reply)
	c.SyncRepliesCount()
	return nil
}

// RemoveReply splices a reply out and returns it
func (c *CommentWithReplies) RemoveReply(replyID string) (*Reply, error) {
	for i, reply := range c.Replies {
		if reply.ID == replyID {
			c.Replies = append(c.Replies[:i], c.Replies[i+1:]...)
			c.SyncRepliesCount()
			return reply, nil
		}
	}
	return nil, ErrReplyNotFound
}

// SyncRepliesCount resets RepliesCount to the number of stored replies.
func (c *CommentWithReplies) SyncRepliesCount() {
	if c.Replies == nil {
		c.Replies = []*Reply{}
	}
	c.RepliesCount = len(c.Replies)
}

// WithFirstReply returns a copy that carries at most the first reply.
// RepliesCount is left untouched so callers can tell more exist.
func (c *CommentWithReplies) WithFirstReply() *CommentWithReplies {
	out := *c
	out.Replies = []*Reply{}
	if len(c.Replies) > 0 {
		out.Replies = append(out.Replies, c.Replies[0])
	}
	return &out
}

// RemainingReplies returns every reply after the first.
func (c *CommentWithReplies) RemainingReplies() []*Reply {
	if len(c.Replies) <= 1 {
		return []*Reply{}
	}
	rest := make([]*Reply, len(c.Replies)-1)
	copy(rest, c.Replies[1:])
	return rest
}

// HasMoreReplies reports whether replies exist beyond those carried.
func (c *CommentWithReplies) HasMoreReplies() bool {
	return c.RepliesCount > len(c.Replies)
}

// HiddenReplies is the number of replies not carried.
func (c *CommentWithReplies) HiddenReplies() int {
	if n := c.RepliesCount - len(c.Replies); n > 0 {
		return n
	}
	return 0
}

// Normalize trims surrounding whitespace from the inputs
func (n *NewComment) Normalize() {
	n.Author = strings.TrimSpace(n.Author)
	n.Body = strings.TrimSpace(n.Body)
}

// Validate checks if the input meets all validation requirements
func (n *NewComment) Validate() error {
	return validate.Struct(n)
}

// Normalize trims surrounding whitespace from the inputs
func (n *NewReply) Normalize() {
	n.CommentID = strings.TrimSpace(n.CommentID)
	n.Author = strings.TrimSpace(n.Author)
	n.Body = strings.TrimSpace(n.Body)
}

// Validate checks if the input meets all validation requirements
func (n *NewReply) Validate() error {
	return validate.Struct(n)
}
