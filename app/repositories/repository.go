package repositories

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"commentboard/app/models"
)

// JSONFileCommentRepository keeps every comment in a single JSON array file.
// Each call reloads the whole file and each mutation rewrites it.
type JSONFileCommentRepository struct {
	path  string
	mutex sync.RWMutex
}

// NewJSONFileCommentRepository creates a repository backed by the file at path.
// The file is created lazily on the first write.
func NewJSONFileCommentRepository(path string) *JSONFileCommentRepository {
	return &JSONFileCommentRepository{path: path}
}

// Path returns the backing file.
func (r *JSONFileCommentRepository) Path() string {
	return r.path
}

// Init writes an empty array if the file does not exist yet.
func (r *JSONFileCommentRepository) Init() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, err := os.Stat(r.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return r.save([]*models.CommentWithReplies{})
}

func (r *JSONFileCommentRepository) load() ([]*models.CommentWithReplies, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []*models.CommentWithReplies{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	if len(data) == 0 {
		return []*models.CommentWithReplies{}, nil
	}

	var comments []*models.CommentWithReplies
	if err := unmarshalEntity(data, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*models.CommentWithReplies{}
	}
	for i, c := range comments {
		if c == nil {
			return nil, fmt.Errorf("invalid store %s: null comment at index %d", r.path, i)
		}
		c.SyncRepliesCount()
	}
	return comments, nil
}

// save writes to a sibling temp file and renames it over the target
func (r *JSONFileCommentRepository) save(comments []*models.CommentWithReplies) error {
	data, err := marshalIndented(comments)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write comments: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}

func indexOf(comments []*models.CommentWithReplies, id string) int {
	for i, c := range comments {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// List returns every comment in insertion order
func (r *JSONFileCommentRepository) List() ([]*models.CommentWithReplies, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.load()
}

// GetByID retrieves a comment by ID
func (r *JSONFileCommentRepository) GetByID(id string) (*models.CommentWithReplies, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	comments, err := r.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(comments, id)
	if i == -1 {
		return nil, ErrNotFound
	}
	return comments[i], nil
}

// Create appends a new comment
func (r *JSONFileCommentRepository) Create(comment *models.CommentWithReplies) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	comments, err := r.load()
	if err != nil {
		return err
	}
	comment.SyncRepliesCount()
	return r.save(append(comments, comment))
}

// Delete removes a comment and returns it
func (r *JSONFileCommentRepository) Delete(id string) (*models.CommentWithReplies, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	comments, err := r.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(comments, id)
	if i == -1 {
		return nil, ErrNotFound
	}
	deleted := comments[i]
	comments = append(comments[:i], comments[i+1:]...)
	if err := r.save(comments); err != nil {
		return nil, err
	}
	return deleted, nil
}

// AddReply appends a reply to a comment and returns the updated comment
func (r *JSONFileCommentRepository) AddReply(commentID string, reply *models.Reply) (*models.CommentWithReplies, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	comments, err := r.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(comments, commentID)
	if i == -1 {
		return nil, ErrNotFound
	}
	if err := comments[i].AddReply(reply); err != nil {
		return nil, err
	}
	if err := r.save(comments); err != nil {
		return nil, err
	}
	return comments[i], nil
}

// DeleteReply removes a reply from a comment and returns it
func (r *JSONFileCommentRepository) DeleteReply(commentID, replyID string) (*models.Reply, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	comments, err := r.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(comments, commentID)
	if i == -1 {
		return nil, ErrNotFound
	}
	deleted, err := comments[i].RemoveReply(replyID)
	if errors.Is(err, models.ErrReplyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.save(comments); err != nil {
		return nil, err
	}
	return deleted, nil
}
