package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"commentboard/app/models"
	"commentboard/app/repositories"
	"commentboard/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(repo repositories.CommentRepository) *CommentService {
	seq := 0
	clock := time.UnixMilli(1_700_000_000_000)
	return NewCommentService(repo,
		WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
}

func TestCommentService(t *testing.T) {
	repo := mock.NewCommentRepository()
	service := newTestService(repo)

	t.Run("create comment", func(t *testing.T) {
		comment, err := service.CreateComment(models.NewComment{
			Author: "Test Author",
			Body:   "Test Comment Content",
		})
		require.NoError(t, err)
		assert.Equal(t, "id-1", comment.ID)
		assert.Equal(t, int64(1_700_000_001_000), comment.PostedAt)
		assert.Equal(t, 0, comment.RepliesCount)
		assert.NotNil(t, comment.Replies)
		assert.Empty(t, comment.Replies)

		stored, err := repo.GetByID("id-1")
		require.NoError(t, err)
		assert.Equal(t, "Test Author", stored.Author)
	})

	t.Run("create replies", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			reply, err := service.CreateReply(models.NewReply{
				CommentID: "id-1",
				Author:    "Replier",
				Body:      fmt.Sprintf("Reply %d", i),
			})
			require.NoError(t, err)
			assert.NotEmpty(t, reply.ID)
			assert.NotZero(t, reply.PostedAt)
		}

		stored, err := repo.GetByID("id-1")
		require.NoError(t, err)
		assert.Equal(t, 3, stored.RepliesCount)
	})

	t.Run("list threads carries first reply only", func(t *testing.T) {
		_, err := service.CreateComment(models.NewComment{Author: "Other", Body: "No replies"})
		require.NoError(t, err)

		threads, err := service.ListThreads()
		require.NoError(t, err)
		require.Len(t, threads, 2)

		assert.Equal(t, 3, threads[0].RepliesCount)
		require.Len(t, threads[0].Replies, 1)
		assert.Equal(t, "Reply 0", threads[0].Replies[0].Body)

		assert.Equal(t, 0, threads[1].RepliesCount)
		assert.Empty(t, threads[1].Replies)
	})

	t.Run("more replies returns the rest", func(t *testing.T) {
		replies, err := service.ListMoreReplies("id-1")
		require.NoError(t, err)
		require.Len(t, replies, 2)
		assert.Equal(t, "Reply 1", replies[0].Body)
		assert.Equal(t, "Reply 2", replies[1].Body)

		_, err = service.ListMoreReplies("missing")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("get thread has all replies", func(t *testing.T) {
		thread, err := service.GetThread("id-1")
		require.NoError(t, err)
		assert.Len(t, thread.Replies, 3)
	})

	t.Run("delete reply", func(t *testing.T) {
		thread, err := service.GetThread("id-1")
		require.NoError(t, err)

		deleted, err := service.DeleteReply("id-1", thread.Replies[1].ID)
		require.NoError(t, err)
		assert.Equal(t, "Reply 1", deleted.Body)

		thread, err = service.GetThread("id-1")
		require.NoError(t, err)
		assert.Equal(t, 2, thread.RepliesCount)

		_, err = service.DeleteReply("id-1", "missing")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("delete comment", func(t *testing.T) {
		deleted, err := service.DeleteComment("id-1")
		require.NoError(t, err)
		assert.Equal(t, "Test Author", deleted.Author)

		_, err = service.GetThread("id-1")
		assert.Equal(t, repositories.ErrNotFound, err)

		_, err = service.DeleteComment("id-1")
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("validation errors", func(t *testing.T) {
		t.Run("empty author", func(t *testing.T) {
			_, err := service.CreateComment(models.NewComment{Author: "", Body: "Valid content"})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})

		t.Run("blank body", func(t *testing.T) {
			_, err := service.CreateComment(models.NewComment{Author: "Valid Author", Body: "   "})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})

		t.Run("author too long", func(t *testing.T) {
			_, err := service.CreateComment(models.NewComment{Author: strings.Repeat("a", 51), Body: "Valid content"})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})

		t.Run("body too long", func(t *testing.T) {
			_, err := service.CreateComment(models.NewComment{Author: "Valid Author", Body: strings.Repeat("a", 2001)})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})

		t.Run("reply without comment id", func(t *testing.T) {
			_, err := service.CreateReply(models.NewReply{Author: "Valid Author", Body: "Valid content"})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})

		t.Run("reply to missing comment", func(t *testing.T) {
			_, err := service.CreateReply(models.NewReply{CommentID: "missing", Author: "Valid Author", Body: "Valid content"})
			assert.ErrorIs(t, err, repositories.ErrNotFound)
		})
	})
}

func TestCommentServiceStorageErrors(t *testing.T) {
	repo := mock.NewCommentRepository()
	repo.Err = errors.New("disk full")
	service := newTestService(repo)

	_, err := service.ListThreads()
	assert.ErrorContains(t, err, "disk full")

	_, err = service.CreateComment(models.NewComment{Author: "Author", Body: "Body"})
	assert.ErrorContains(t, err, "disk full")
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestNewCommentServiceDefaults(t *testing.T) {
	service := NewCommentService(mock.NewCommentRepository())
	comment, err := service.CreateComment(models.NewComment{Author: "Author", Body: "Body"})
	require.NoError(t, err)
	assert.Len(t, comment.ID, 36)
	assert.InDelta(t, time.Now().UnixMilli(), comment.PostedAt, 5000)
}
