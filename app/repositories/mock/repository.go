package mock

import (
	"errors"
	"sync"

	"commentboard/app/models"
	"commentboard/app/repositories"
)

// CommentRepository is an in-memory CommentRepository for tests.
type CommentRepository struct {
	comments []*models.CommentWithReplies
	mutex    sync.RWMutex

	// Err, when set, is returned by every call.
	Err error
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: []*models.CommentWithReplies{},
	}
}

func (m *CommentRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.comments = []*models.CommentWithReplies{}
}

func (m *CommentRepository) indexOf(id string) int {
	for i, c := range m.comments {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// clone keeps callers from mutating stored records through returned pointers
func clone(c *models.CommentWithReplies) *models.CommentWithReplies {
	out := *c
	out.Replies = make([]*models.Reply, len(c.Replies))
	for i, r := range c.Replies {
		reply := *r
		out.Replies[i] = &reply
	}
	return &out
}

func (m *CommentRepository) List() ([]*models.CommentWithReplies, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := make([]*models.CommentWithReplies, 0, len(m.comments))
	for _, c := range m.comments {
		out = append(out, clone(c))
	}
	return out, nil
}

func (m *CommentRepository) GetByID(id string) (*models.CommentWithReplies, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	i := m.indexOf(id)
	if i == -1 {
		return nil, repositories.ErrNotFound
	}
	return clone(m.comments[i]), nil
}

func (m *CommentRepository) Create(comment *models.CommentWithReplies) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	comment.SyncRepliesCount()
	m.comments = append(m.comments, clone(comment))
	return nil
}

func (m *CommentRepository) Delete(id string) (*models.CommentWithReplies, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	i := m.indexOf(id)
	if i == -1 {
		return nil, repositories.ErrNotFound
	}
	deleted := m.comments[i]
	m.comments = append(m.comments[:i], m.comments[i+1:]...)
	return deleted, nil
}

func (m *CommentRepository) AddReply(commentID string, reply *models.Reply) (*models.CommentWithReplies, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	i := m.indexOf(commentID)
	if i == -1 {
		return nil, repositories.ErrNotFound
	}
	if reply == nil {
		return nil, errors.New("reply cannot be nil")
	}
	stored := *reply
	if err := m.comments[i].AddReply(&stored); err != nil {
		return nil, err
	}
	return clone(m.comments[i]), nil
}

func (m *CommentRepository) DeleteReply(commentID, replyID string) (*models.Reply, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	i := m.indexOf(commentID)
	if i == -1 {
		return nil, repositories.ErrNotFound
	}
	deleted, err := m.comments[i].RemoveReply(replyID)
	if errors.Is(err, models.ErrReplyNotFound) {
		return nil, repositories.ErrNotFound
	}
	return deleted, err
}
