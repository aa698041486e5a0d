package repositories

import "commentboard/app/models"

// CommentRepository defines the interface for comment data access.
// Replies live inside their parent comment, so reply mutations go through
// the comment that owns them.
type CommentRepository interface {
	List() ([]*models.CommentWithReplies, error)
	GetByID(id string) (*models.CommentWithReplies, error)
	Create(comment *models.CommentWithReplies) error
	Delete(id string) (*models.CommentWithReplies, error)
	AddReply(commentID string, reply *models.Reply) (*models.CommentWithReplies, error)
	DeleteReply(commentID, replyID string) (*models.Reply, error)
}
