package repositories

import (
	"testing"

	"commentboard/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newThread(id, author, body string, postedAt int64) *models.CommentWithReplies {
	return models.NewThread(models.Comment{ID: id, Author: author, Body: body, PostedAt: postedAt})
}

// testCommentRepository exercises behaviour every backend must share
func testCommentRepository(t *testing.T, repo CommentRepository) {
	t.Run("empty list", func(t *testing.T) {
		comments, err := repo.List()
		require.NoError(t, err)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})

	t.Run("create and get comment", func(t *testing.T) {
		err := repo.Create(newThread("c1", "Test Author", "Test Comment Content", 1000))
		require.NoError(t, err)

		retrieved, err := repo.GetByID("c1")
		require.NoError(t, err)
		assert.Equal(t, "Test Author", retrieved.Author)
		assert.Equal(t, "Test Comment Content", retrieved.Body)
		assert.Equal(t, int64(1000), retrieved.PostedAt)
		assert.Equal(t, 0, retrieved.RepliesCount)
		assert.NotNil(t, retrieved.Replies)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		require.NoError(t, repo.Create(newThread("c2", "Second", "Body", 2000)))
		require.NoError(t, repo.Create(newThread("c3", "Third", "Body", 3000)))

		comments, err := repo.List()
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, "c1", comments[0].ID)
		assert.Equal(t, "c2", comments[1].ID)
		assert.Equal(t, "c3", comments[2].ID)
	})

	t.Run("get missing comment", func(t *testing.T) {
		_, err := repo.GetByID("missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("add replies keeps count in step", func(t *testing.T) {
		for i, id := range []string{"r1", "r2", "r3"} {
			updated, err := repo.AddReply("c1", &models.Reply{ID: id, Author: "Replier", Body: "Reply", PostedAt: int64(1100 + i)})
			require.NoError(t, err)
			assert.Equal(t, i+1, updated.RepliesCount)
		}

		comment, err := repo.GetByID("c1")
		require.NoError(t, err)
		assert.Equal(t, 3, comment.RepliesCount)
		require.Len(t, comment.Replies, 3)
		assert.Equal(t, "r1", comment.Replies[0].ID)
	})

	t.Run("add reply to missing comment", func(t *testing.T) {
		_, err := repo.AddReply("missing", &models.Reply{ID: "rx", Author: "A", Body: "B", PostedAt: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete reply", func(t *testing.T) {
		deleted, err := repo.DeleteReply("c1", "r2")
		require.NoError(t, err)
		assert.Equal(t, "r2", deleted.ID)

		comment, err := repo.GetByID("c1")
		require.NoError(t, err)
		assert.Equal(t, 2, comment.RepliesCount)
		assert.Equal(t, "r1", comment.Replies[0].ID)
		assert.Equal(t, "r3", comment.Replies[1].ID)
	})

	t.Run("delete missing reply", func(t *testing.T) {
		_, err := repo.DeleteReply("c1", "r2")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = repo.DeleteReply("missing", "r1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete comment", func(t *testing.T) {
		deleted, err := repo.Delete("c2")
		require.NoError(t, err)
		assert.Equal(t, "Second", deleted.Author)

		_, err = repo.GetByID("c2")
		assert.ErrorIs(t, err, ErrNotFound)

		comments, err := repo.List()
		require.NoError(t, err)
		assert.Len(t, comments, 2)
	})

	t.Run("delete missing comment", func(t *testing.T) {
		_, err := repo.Delete("c2")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
