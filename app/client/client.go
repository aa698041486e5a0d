// Package client talks to the board's JSON API and keeps client-side thread
// state in step with it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"commentboard/app/models"
)

// DefaultBaseURL is where a locally started server listens.
const DefaultBaseURL = "http://localhost:3001"

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// DeleteResult is the body of a successful delete.
type DeleteResult[T any] struct {
	Success bool `json:"success"`
	Deleted T    `json:"deleted"`
}

// Client is a thin wrapper around the board API. Every decoded response is
// validated before it is handed back.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A nil httpClient gets a default
// with a ten second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// GetComments fetches every comment with its first reply.
func (c *Client) GetComments(ctx context.Context) ([]*models.CommentWithReplies, error) {
	var comments []*models.CommentWithReplies
	if err := c.do(ctx, http.MethodGet, "/api/comments", nil, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		return nil, fmt.Errorf("invalid response: expected an array of comments")
	}
	for i, comment := range comments {
		if err := validateEntity(comment); err != nil {
			return nil, fmt.Errorf("invalid comment at index %d: %w", i, err)
		}
	}
	return comments, nil
}

// GetMoreReplies fetches the replies of a comment beyond the first.
func (c *Client) GetMoreReplies(ctx context.Context, commentID string) ([]*models.Reply, error) {
	path := "/api/comment_replies?" + url.Values{"comment_id": {commentID}}.Encode()

	var replies []*models.Reply
	if err := c.do(ctx, http.MethodGet, path, nil, &replies); err != nil {
		return nil, err
	}
	if replies == nil {
		return nil, fmt.Errorf("invalid response: expected an array of replies")
	}
	for i, reply := range replies {
		if err := validateEntity(reply); err != nil {
			return nil, fmt.Errorf("invalid reply at index %d: %w", i, err)
		}
	}
	return replies, nil
}

// CreateComment posts a new comment and returns it as stored.
func (c *Client) CreateComment(ctx context.Context, input models.NewComment) (*models.CommentWithReplies, error) {
	var comment models.CommentWithReplies
	if err := c.do(ctx, http.MethodPost, "/api/comments", input, &comment); err != nil {
		return nil, err
	}
	if err := validateEntity(&comment); err != nil {
		return nil, fmt.Errorf("invalid comment: %w", err)
	}
	return &comment, nil
}

// CreateReply posts a reply to an existing comment.
func (c *Client) CreateReply(ctx context.Context, input models.NewReply) (*models.Reply, error) {
	var reply models.Reply
	if err := c.do(ctx, http.MethodPost, "/api/comment_replies", input, &reply); err != nil {
		return nil, err
	}
	if err := validateEntity(&reply); err != nil {
		return nil, fmt.Errorf("invalid reply: %w", err)
	}
	return &reply, nil
}

// DeleteComment removes a comment and returns what was removed.
func (c *Client) DeleteComment(ctx context.Context, id string) (*models.CommentWithReplies, error) {
	var result DeleteResult[models.CommentWithReplies]
	if err := c.do(ctx, http.MethodDelete, "/api/comments/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("delete of comment %s was not confirmed", id)
	}
	return &result.Deleted, nil
}

// DeleteReply removes one reply and returns what was removed.
func (c *Client) DeleteReply(ctx context.Context, commentID, replyID string) (*models.Reply, error) {
	path := "/api/comments/" + url.PathEscape(commentID) + "/replies/" + url.PathEscape(replyID)

	var result DeleteResult[models.Reply]
	if err := c.do(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("delete of reply %s was not confirmed", replyID)
	}
	return &result.Deleted, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type validatable interface {
	Validate() error
}

func validateEntity(v validatable) error {
	if v == nil {
		return fmt.Errorf("missing entity")
	}
	return v.Validate()
}
