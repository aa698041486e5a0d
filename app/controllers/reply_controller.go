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

// ReplyController handles HTTP requests for replies
type ReplyController struct {
	base
	commentService *services.CommentService
}

// NewReplyController creates a new ReplyController
func NewReplyController(service *services.CommentService, logger *slog.Logger) *ReplyController {
	return &ReplyController{
		base: base{
			logger:    logger,
			templates: loadTemplates(),
		},
		commentService: service,
	}
}

// Create adds a reply. The API reads comment_id from the body; the page
// form takes it from the route.
func (rc *ReplyController) Create(w http.ResponseWriter, r *http.Request) {
	api := middleware.IsAPIPath(r)

	var input models.NewReply
	if err := decodeInput(r, &input); err != nil {
		rc.logger.Debug("rejected reply body", "error", err)
		rc.sendError(w, r, msgCheckInputs, http.StatusUnauthorized)
		return
	}
	if id, ok := mux.Vars(r)["id"]; ok {
		input.CommentID = id
	}

	reply, err := rc.commentService.CreateReply(input)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		rc.logger.Debug("rejected reply", "error", err)
		if api {
			rc.sendError(w, r, msgCheckInputs, http.StatusUnauthorized)
			return
		}
		rc.renderThread(w, r, input, msgCheckInputs)
		return
	case errors.Is(err, repositories.ErrNotFound):
		rc.sendError(w, r, "Comment not found", http.StatusNotFound)
		return
	case err != nil:
		rc.sendStorageError(w, r, "save reply", err)
		return
	}

	rc.logger.Info("reply created", "comment_id", input.CommentID, "reply_id", reply.ID)
	if api {
		rc.sendJSON(w, reply)
		return
	}
	http.Redirect(w, r, "/comments/"+input.CommentID, http.StatusSeeOther)
}

func (rc *ReplyController) renderThread(w http.ResponseWriter, r *http.Request, input models.NewReply, formError string) {
	thread, err := rc.commentService.GetThread(input.CommentID)
	if errors.Is(err, repositories.ErrNotFound) {
		rc.sendError(w, r, "Comment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		rc.sendStorageError(w, r, "fetch comment", err)
		return
	}
	rc.render(w, r, "thread", http.StatusBadRequest, pageData{
		Thread:    newThreadView(thread),
		Form:      formValues{Author: input.Author, Body: input.Body},
		FormError: formError,
	})
}

// Delete removes one reply from a comment
func (rc *ReplyController) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	commentID, replyID := vars["commentId"], vars["replyId"]

	deleted, err := rc.commentService.DeleteReply(commentID, replyID)
	if errors.Is(err, repositories.ErrNotFound) {
		rc.sendError(w, r, "Reply not found", http.StatusNotFound)
		return
	}
	if err != nil {
		rc.sendStorageError(w, r, "delete reply", err)
		return
	}

	rc.logger.Info("reply deleted", "comment_id", commentID, "reply_id", replyID)
	if middleware.IsAPIPath(r) {
		rc.sendJSON(w, deleteResponse{Success: true, Deleted: deleted})
		return
	}
	http.Redirect(w, r, "/comments/"+commentID, http.StatusSeeOther)
}
