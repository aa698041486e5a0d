package services

import (
	"errors"
	"fmt"
	"time"

	"commentboard/app/models"
	"commentboard/app/repositories"

	"github.com/google/uuid"
)

// ErrInvalidInput wraps every validation failure from the service.
var ErrInvalidInput = errors.New("invalid input")

// CommentService handles business logic for comments and replies
type CommentService struct {
	commentRepo repositories.CommentRepository
	now         func() time.Time
	newID       func() string
}

// Option customises a CommentService.
type Option func(*CommentService)

// WithClock overrides the time source used for postedAt.
func WithClock(now func() time.Time) Option {
	return func(s *CommentService) { s.now = now }
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *CommentService) { s.newID = newID }
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, opts ...Option) *CommentService {
	s := &CommentService{
		commentRepo: commentRepo,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListThreads returns every comment with only its first reply attached
func (s *CommentService) ListThreads() ([]*models.CommentWithReplies, error) {
	comments, err := s.commentRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	threads := make([]*models.CommentWithReplies, 0, len(comments))
	for _, c := range comments {
		threads = append(threads, c.WithFirstReply())
	}
	return threads, nil
}

// GetThread returns a comment with all of its replies
func (s *CommentService) GetThread(id string) (*models.CommentWithReplies, error) {
	return s.commentRepo.GetByID(id)
}

// ListMoreReplies returns the replies that ListThreads leaves out
func (s *CommentService) ListMoreReplies(commentID string) ([]*models.Reply, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	return comment.RemainingReplies(), nil
}

// CreateComment validates the input and stores a new comment
func (s *CommentService) CreateComment(input models.NewComment) (*models.CommentWithReplies, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	comment := models.NewThread(models.Comment{
		ID:       s.newID(),
		Author:   input.Author,
		Body:     input.Body,
		PostedAt: s.now().UnixMilli(),
	})
	comment.BeforeCreate()
	if err := comment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return comment, nil
}

// CreateReply validates the input and appends a reply to its comment
func (s *CommentService) CreateReply(input models.NewReply) (*models.Reply, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	reply := &models.Reply{
		ID:       s.newID(),
		Author:   input.Author,
		Body:     input.Body,
		PostedAt: s.now().UnixMilli(),
	}
	reply.BeforeCreate()
	if err := reply.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := s.commentRepo.AddReply(input.CommentID, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// DeleteComment removes a comment with its replies and returns it
func (s *CommentService) DeleteComment(id string) (*models.CommentWithReplies, error) {
	return s.commentRepo.Delete(id)
}

// DeleteReply removes one reply from a comment and returns it
func (s *CommentService) DeleteReply(commentID, replyID string) (*models.Reply, error) {
	return s.commentRepo.DeleteReply(commentID, replyID)
}
