package repositories

import (
	"errors"
	"fmt"

	"commentboard/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// findComment scans the comment prefix for id and returns its key and value
func findComment(txn *badger.Txn, id string) ([]byte, *models.CommentWithReplies, error) {
	opts := badger.DefaultIteratorOptions
	it := txn.NewIterator(opts)
	defer it.Close()

	prefix := []byte(CommentKeyPrefix)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		var comment models.CommentWithReplies
		err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &comment)
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal comment: %w", err)
		}
		if comment.ID == id {
			comment.SyncRepliesCount()
			return item.KeyCopy(nil), &comment, nil
		}
	}
	return nil, nil, ErrNotFound
}

func putComment(txn *badger.Txn, key []byte, comment *models.CommentWithReplies) error {
	data, err := marshalEntity(comment)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// List retrieves all comments in insertion order
func (r *BadgerCommentRepository) List() ([]*models.CommentWithReplies, error) {
	comments := []*models.CommentWithReplies{}
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(CommentKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var comment models.CommentWithReplies
			err := item.Value(func(val []byte) error {
				return unmarshalEntity(val, &comment)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal comment: %w", err)
			}
			comment.SyncRepliesCount()
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// GetByID retrieves a comment by ID
func (r *BadgerCommentRepository) GetByID(id string) (*models.CommentWithReplies, error) {
	var comment *models.CommentWithReplies
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		_, comment, err = findComment(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// Create creates a new comment
func (r *BadgerCommentRepository) Create(comment *models.CommentWithReplies) error {
	return r.db.Update(func(txn *badger.Txn) error {
		seq, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.SyncRepliesCount()
		return putComment(txn, commentKey(seq), comment)
	})
}

// Delete deletes a comment by ID and returns it
func (r *BadgerCommentRepository) Delete(id string) (*models.CommentWithReplies, error) {
	var deleted *models.CommentWithReplies
	err := r.db.Update(func(txn *badger.Txn) error {
		key, comment, err := findComment(txn, id)
		if err != nil {
			return err
		}
		deleted = comment
		return txn.Delete(key)
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// AddReply appends a reply to a comment and returns the updated comment
func (r *BadgerCommentRepository) AddReply(commentID string, reply *models.Reply) (*models.CommentWithReplies, error) {
	var updated *models.CommentWithReplies
	err := r.db.Update(func(txn *badger.Txn) error {
		key, comment, err := findComment(txn, commentID)
		if err != nil {
			return err
		}
		if err := comment.AddReply(reply); err != nil {
			return err
		}
		updated = comment
		return putComment(txn, key, comment)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteReply removes a reply from a comment and returns it
func (r *BadgerCommentRepository) DeleteReply(commentID, replyID string) (*models.Reply, error) {
	var deleted *models.Reply
	err := r.db.Update(func(txn *badger.Txn) error {
		key, comment, err := findComment(txn, commentID)
		if err != nil {
			return err
		}
		deleted, err = comment.RemoveReply(replyID)
		if errors.Is(err, models.ErrReplyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return putComment(txn, key, comment)
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
