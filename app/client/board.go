package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"commentboard/app/models"
)

// API is the part of Client the Board needs.
type API interface {
	GetComments(ctx context.Context) ([]*models.CommentWithReplies, error)
	GetMoreReplies(ctx context.Context, commentID string) ([]*models.Reply, error)
	CreateComment(ctx context.Context, input models.NewComment) (*models.CommentWithReplies, error)
	DeleteComment(ctx context.Context, id string) (*models.CommentWithReplies, error)
	DeleteReply(ctx context.Context, commentID, replyID string) (*models.Reply, error)
}

// Board holds the threads a client is showing. Threads start with their
// first reply only; MoreReplies discloses the rest. Local state changes only
// after the server confirms a mutation.
type Board struct {
	api    API
	logger *slog.Logger

	mu       sync.Mutex
	comments []*models.CommentWithReplies
}

// NewBoard creates an empty board backed by api.
func NewBoard(api API, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}
	return &Board{api: api, logger: logger}
}

// Load replaces the board's threads with a fresh listing.
func (b *Board) Load(ctx context.Context) error {
	comments, err := b.api.GetComments(ctx)
	if err != nil {
		b.logger.Error("failed to load comments", "error", err)
		return err
	}

	b.mu.Lock()
	b.comments = comments
	b.mu.Unlock()
	return nil
}

// Comments returns the current threads.
func (b *Board) Comments() []*models.CommentWithReplies {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]*models.CommentWithReplies, len(b.comments))
	copy(out, b.comments)
	return out
}

// HasMore reports whether a thread has replies that are not shown yet.
func (b *Board) HasMore(commentID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c := b.find(commentID); c != nil {
		return c.HasMoreReplies()
	}
	return false
}

// MoreReplies fetches the hidden replies of a thread and appends them.
// It is a no-op when every reply is already shown. When no reply is shown
// (the first one was deleted locally) the thread's new first reply is read
// from a fresh listing, since the server only returns replies after it.
func (b *Board) MoreReplies(ctx context.Context, commentID string) error {
	if !b.HasMore(commentID) {
		return nil
	}

	var first *models.Reply
	if b.shownReplies(commentID) == 0 {
		r, err := b.firstReply(ctx, commentID)
		if err != nil {
			return err
		}
		first = r
	}

	replies, err := b.api.GetMoreReplies(ctx, commentID)
	if err != nil {
		b.logger.Error("failed to load replies", "comment_id", commentID, "error", err)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.find(commentID)
	if c == nil {
		return nil
	}
	// Keep only the first reply, then the rest in server order.
	shown := c.Replies
	if len(shown) > 1 {
		shown = shown[:1]
	}
	if len(shown) == 0 && first != nil {
		shown = []*models.Reply{first}
	}
	updated := *c
	updated.Replies = mergeReplies(shown, replies)
	// Every reply the server holds is now shown.
	updated.RepliesCount = len(updated.Replies)
	b.replace(&updated)
	return nil
}

func (b *Board) shownReplies(commentID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c := b.find(commentID); c != nil {
		return len(c.Replies)
	}
	return 0
}

// firstReply reads the current first reply of a thread from the listing.
// It returns nil when the thread has no replies left.
func (b *Board) firstReply(ctx context.Context, commentID string) (*models.Reply, error) {
	comments, err := b.api.GetComments(ctx)
	if err != nil {
		b.logger.Error("failed to reload comments", "comment_id", commentID, "error", err)
		return nil, err
	}
	for _, c := range comments {
		if c.ID == commentID && len(c.Replies) > 0 {
			return c.Replies[0], nil
		}
	}
	return nil, nil
}

// mergeReplies concatenates the lists, dropping ids already seen.
func mergeReplies(lists ...[]*models.Reply) []*models.Reply {
	seen := make(map[string]bool)
	out := []*models.Reply{}
	for _, list := range lists {
		for _, r := range list {
			if r == nil || seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			out = append(out, r)
		}
	}
	return out
}

// Add creates a comment, appends it to the board and then calls reset, which
// is where a form clears its fields.
func (b *Board) Add(ctx context.Context, input models.NewComment, reset func()) error {
	comment, err := b.api.CreateComment(ctx, input)
	if err != nil {
		b.logger.Error("failed to create comment", "error", err)
		return err
	}

	b.mu.Lock()
	b.comments = append(b.comments, comment)
	b.mu.Unlock()

	if reset != nil {
		reset()
	}
	return nil
}

// Delete removes a comment when commentID is empty, otherwise the reply id
// of comment commentID.
func (b *Board) Delete(ctx context.Context, id, commentID string) error {
	if commentID == "" {
		return b.deleteComment(ctx, id)
	}
	return b.deleteReply(ctx, commentID, id)
}

func (b *Board) deleteComment(ctx context.Context, id string) error {
	if _, err := b.api.DeleteComment(ctx, id); err != nil {
		b.logger.Error("failed to delete comment", "comment_id", id, "error", err)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	kept := make([]*models.CommentWithReplies, 0, len(b.comments))
	for _, c := range b.comments {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	b.comments = kept
	return nil
}

func (b *Board) deleteReply(ctx context.Context, commentID, replyID string) error {
	if _, err := b.api.DeleteReply(ctx, commentID, replyID); err != nil {
		b.logger.Error("failed to delete reply", "comment_id", commentID, "reply_id", replyID, "error", err)
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.find(commentID)
	if c == nil {
		return fmt.Errorf("comment %s is not on the board", commentID)
	}
	updated := *c
	updated.Replies = make([]*models.Reply, 0, len(c.Replies))
	for _, r := range c.Replies {
		if r.ID != replyID {
			updated.Replies = append(updated.Replies, r)
		}
	}
	if updated.RepliesCount > 0 {
		updated.RepliesCount--
	}
	b.replace(&updated)
	return nil
}

func (b *Board) find(id string) *models.CommentWithReplies {
	for _, c := range b.comments {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (b *Board) replace(updated *models.CommentWithReplies) {
	for i, c := range b.comments {
		if c.ID == updated.ID {
			b.comments[i] = updated
			return
		}
	}
}
