package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"commentboard/app/middleware"
	"commentboard/app/models"
	"commentboard/app/repositories"
	"commentboard/app/services"

	"github.com/gorilla/mux"
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	base
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(service *services.CommentService, logger *slog.Logger) *CommentController {
	return &CommentController{
		base: base{
			logger:    logger,
			templates: loadTemplates(),
		},
		commentService: service,
	}
}

// Index lists every comment with its first reply
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	threads, err := cc.commentService.ListThreads()
	if err != nil {
		cc.sendStorageError(w, r, "fetch comments", err)
		return
	}

	if middleware.IsAPIRequest(r) {
		cc.sendTaggedJSON(w, r, threads)
		return
	}
	cc.renderIndex(w, r, http.StatusOK, threads, formValues{}, "")
}

func (cc *CommentController) renderIndex(w http.ResponseWriter, r *http.Request, status int, threads []*models.CommentWithReplies, form formValues, formError string) {
	data := pageData{Form: form, FormError: formError}
	for _, t := range threads {
		data.Threads = append(data.Threads, newThreadView(t))
	}
	cc.render(w, r, "index", status, data)
}

// Show displays one thread with all of its replies
func (cc *CommentController) Show(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	thread, err := cc.commentService.GetThread(id)
	if errors.Is(err, repositories.ErrNotFound) {
		cc.sendError(w, r, "Comment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		cc.sendStorageError(w, r, "fetch comment", err)
		return
	}

	cc.render(w, r, "thread", http.StatusOK, pageData{Thread: newThreadView(thread)})
}

// Replies returns the replies of a comment beyond the first
func (cc *CommentController) Replies(w http.ResponseWriter, r *http.Request) {
	commentID := r.URL.Query().Get("comment_id")
	replies, err := cc.commentService.ListMoreReplies(commentID)
	if errors.Is(err, repositories.ErrNotFound) {
		cc.sendError(w, r, "Comment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		cc.sendStorageError(w, r, "fetch replies", err)
		return
	}

	cc.sendJSON(w, replies)
}

// Create handles creating a new comment from JSON or a form post
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	api := middleware.IsAPIPath(r)

	var input models.NewComment
	if err := decodeInput(r, &input); err != nil {
		cc.logger.Debug("rejected comment body", "error", err)
		cc.sendError(w, r, msgCheckInputs, http.StatusUnauthorized)
		return
	}

	comment, err := cc.commentService.CreateComment(input)
	if errors.Is(err, services.ErrInvalidInput) {
		cc.logger.Debug("rejected comment", "error", err)
		if api {
			cc.sendError(w, r, msgCheckInputs, http.StatusUnauthorized)
			return
		}
		threads, listErr := cc.commentService.ListThreads()
		if listErr != nil {
			cc.sendStorageError(w, r, "fetch comments", listErr)
			return
		}
		cc.renderIndex(w, r, http.StatusBadRequest, threads, formValues{Author: input.Author, Body: input.Body}, msgCheckInputs)
		return
	}
	if err != nil {
		cc.sendStorageError(w, r, "save comment", err)
		return
	}

	cc.logger.Info("comment created", "comment_id", comment.ID)
	if api {
		cc.sendJSON(w, comment)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Delete removes a comment with its replies
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	deleted, err := cc.commentService.DeleteComment(id)
	if errors.Is(err, repositories.ErrNotFound) {
		cc.sendError(w, r, "Comment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		cc.sendStorageError(w, r, "delete comment", err)
		return
	}

	cc.logger.Info("comment deleted", "comment_id", id)
	if middleware.IsAPIPath(r) {
		cc.sendJSON(w, deleteResponse{Success: true, Deleted: deleted})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type deleteResponse struct {
	Success bool        `json:"success"`
	Deleted interface{} `json:"deleted"`
}
