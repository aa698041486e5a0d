package service

import (
	"net/http/httptest"
	"regexp"
	"testing"

	"commentboard/app/logging"
	"commentboard/app/repositories/mock"
	"commentboard/app/routes"
	"commentboard/app/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdID = regexp.MustCompile(`Created (?:comment|reply) (\S+)`)

func newBoardServer(t *testing.T) *httptest.Server {
	service := services.NewCommentService(mock.NewCommentRepository())
	srv := httptest.NewServer(routes.SetupRoutes(service, logging.Discard()))
	t.Cleanup(srv.Close)
	return srv
}

func runComments(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	return runCLI(t, "", append([]string{"comments", "--base-url", srv.URL}, args...)...)
}

func idFrom(t *testing.T, output string) string {
	t.Helper()
	m := createdID.FindStringSubmatch(output)
	require.Len(t, m, 2, "no id in %q", output)
	return m[1]
}

func TestCommentsCommands(t *testing.T) {
	srv := newBoardServer(t)

	output, err := runComments(t, srv, "list")
	require.NoError(t, err)
	assert.Contains(t, output, "Comments (0)")

	output, err = runComments(t, srv, "add", "--author", "Ann", "--body", "Hello board")
	require.NoError(t, err)
	commentID := idFrom(t, output)

	var replyIDs []string
	for _, body := range []string{"first", "second", "third"} {
		output, err = runComments(t, srv, "reply", commentID, "--author", "Bo", "--body", body)
		require.NoError(t, err)
		replyIDs = append(replyIDs, idFrom(t, output))
	}

	t.Run("list shows the first reply only", func(t *testing.T) {
		output, err := runComments(t, srv, "list")
		require.NoError(t, err)
		assert.Contains(t, output, "Comments (1)")
		assert.Contains(t, output, "Hello board")
		assert.Contains(t, output, "first")
		assert.NotContains(t, output, "second")
		assert.Contains(t, output, "Show More Replies (2)")
	})

	t.Run("list --expand shows every reply", func(t *testing.T) {
		output, err := runComments(t, srv, "list", "--expand")
		require.NoError(t, err)
		assert.Contains(t, output, "second")
		assert.Contains(t, output, "third")
		assert.NotContains(t, output, "Show More Replies")
	})

	t.Run("replies", func(t *testing.T) {
		output, err := runComments(t, srv, "replies", commentID)
		require.NoError(t, err)
		assert.NotContains(t, output, "first")
		assert.Contains(t, output, "second")
		assert.Contains(t, output, "third")
	})

	t.Run("delete-reply", func(t *testing.T) {
		output, err := runComments(t, srv, "delete-reply", commentID, replyIDs[1])
		require.NoError(t, err)
		assert.Contains(t, output, "Deleted reply "+replyIDs[1]+" by Bo")

		output, err = runComments(t, srv, "list")
		require.NoError(t, err)
		assert.Contains(t, output, "Show More Replies (1)")
	})

	t.Run("delete", func(t *testing.T) {
		output, err := runComments(t, srv, "delete", commentID)
		require.NoError(t, err)
		assert.Contains(t, output, "Deleted comment "+commentID+" by Ann")

		_, err = runComments(t, srv, "delete", commentID)
		assert.ErrorContains(t, err, "Comment not found")
	})
}

func TestCommentsCommandErrors(t *testing.T) {
	srv := newBoardServer(t)

	_, err := runComments(t, srv, "add", "--author", "", "--body", "")
	assert.ErrorContains(t, err, "Please check your inputs")

	_, err = runComments(t, srv, "reply", "missing", "--author", "Ann", "--body", "Hi")
	assert.ErrorContains(t, err, "Comment not found")

	_, err = runComments(t, srv, "replies", "missing")
	assert.ErrorContains(t, err, "Comment not found")

	_, err = runComments(t, srv, "delete-reply", "missing", "r1")
	assert.Error(t, err)
}
