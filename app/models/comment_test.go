package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommentValidation(t *testing.T) {
	tests := []struct {
		name    string
		comment *Comment
		wantErr bool
	}{
		{
			name: "valid comment",
			comment: &Comment{
				ID:       "c1",
				Author:   "John Doe",
				Body:     "This is a valid comment",
				PostedAt: time.Now().UnixMilli(),
			},
			wantErr: false,
		},
		{
			name: "author too long",
			comment: &Comment{
				ID:       "c1",
				Author:   strings.Repeat("a", 51),
				Body:     "This is a valid comment",
				PostedAt: time.Now().UnixMilli(),
			},
			wantErr: true,
		},
		{
			name: "empty body",
			comment: &Comment{
				ID:       "c1",
				Author:   "John Doe",
				Body:     "",
				PostedAt: time.Now().UnixMilli(),
			},
			wantErr: true,
		},
		{
			name: "zero posting time",
			comment: &Comment{
				ID:     "c1",
				Author: "John Doe",
				Body:   "Valid content",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.comment.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommentBeforeCreate(t *testing.T) {
	comment := &Comment{
		Author: "John Doe",
		Body:   "Test Comment",
	}

	assert.Empty(t, comment.ID)
	assert.Zero(t, comment.PostedAt)
	comment.BeforeCreate()
	assert.Len(t, comment.ID, 36)
	assert.NotZero(t, comment.PostedAt)

	t.Run("keeps preset values", func(t *testing.T) {
		preset := &Comment{ID: "fixed", PostedAt: 42}
		preset.BeforeCreate()
		assert.Equal(t, "fixed", preset.ID)
		assert.Equal(t, int64(42), preset.PostedAt)
	})
}

func TestThreadReplyManagement(t *testing.T) {
	thread := NewThread(Comment{ID: "c1", Author: "John Doe", Body: "Parent", PostedAt: 1})

	t.Run("add reply", func(t *testing.T) {
		err := thread.AddReply(&Reply{ID: "r1", Author: "Jane", Body: "First", PostedAt: 2})
		assert.NoError(t, err)
		err = thread.AddReply(&Reply{ID: "r2", Author: "Jane", Body: "Second", PostedAt: 3})
		assert.NoError(t, err)
		assert.Equal(t, 2, thread.RepliesCount)
	})

	t.Run("add nil reply", func(t *testing.T) {
		err := thread.AddReply(nil)
		assert.Error(t, err)
		assert.Equal(t, 2, thread.RepliesCount)
	})

	t.Run("first reply only", func(t *testing.T) {
		trimmed := thread.WithFirstReply()
		assert.Len(t, trimmed.Replies, 1)
		assert.Equal(t, "r1", trimmed.Replies[0].ID)
		assert.Equal(t, 2, trimmed.RepliesCount)
		assert.True(t, trimmed.HasMoreReplies())
		assert.Equal(t, 1, trimmed.HiddenReplies())
		assert.Len(t, thread.Replies, 2, "source thread must keep every reply")
	})

	t.Run("remaining replies", func(t *testing.T) {
		rest := thread.RemainingReplies()
		assert.Len(t, rest, 1)
		assert.Equal(t, "r2", rest[0].ID)
	})

	t.Run("remove existing reply", func(t *testing.T) {
		removed, err := thread.RemoveReply("r1")
		assert.NoError(t, err)
		assert.Equal(t, "r1", removed.ID)
		assert.Equal(t, 1, thread.RepliesCount)
		assert.Empty(t, thread.RemainingReplies())
	})

	t.Run("remove non-existent reply", func(t *testing.T) {
		_, err := thread.RemoveReply("missing")
		assert.ErrorIs(t, err, ErrReplyNotFound)
	})
}

func TestThreadValidation(t *testing.T) {
	valid := NewThread(Comment{ID: "c1", Author: "John", Body: "Hi", PostedAt: 1})
	assert.NoError(t, valid.Validate())

	nilReplies := &CommentWithReplies{Comment: valid.Comment}
	assert.Error(t, nilReplies.Validate(), "replies must be an array")

	badReply := NewThread(valid.Comment)
	badReply.Replies = append(badReply.Replies, &Reply{ID: "r1", Author: "", Body: "x", PostedAt: 1})
	assert.Error(t, badReply.Validate())
}

func TestNewCommentNormalize(t *testing.T) {
	in := &NewComment{Author: "  Ann ", Body: "\n"}
	in.Normalize()
	assert.Equal(t, "Ann", in.Author)
	assert.Error(t, in.Validate(), "blank body must be rejected")

	reply := &NewReply{CommentID: " c1 ", Author: "Bob", Body: " ok "}
	reply.Normalize()
	assert.Equal(t, "c1", reply.CommentID)
	assert.NoError(t, reply.Validate())
}
