package routes

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"commentboard/app/controllers"
	"commentboard/app/middleware"
	"commentboard/app/services"

	"github.com/gorilla/mux"
)

// SetupRoutes defines the board's API and page routes and returns a router.
func SetupRoutes(commentService *services.CommentService, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))

	commentController := controllers.NewCommentController(commentService, logger)
	replyController := controllers.NewReplyController(commentService, logger)

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)

	api.HandleFunc("/comments", commentController.Index).Methods("GET")
	api.HandleFunc("/comments", commentController.Create).Methods("POST")
	api.HandleFunc("/comments/{id}", commentController.Delete).Methods("DELETE")
	api.HandleFunc("/comment_replies", commentController.Replies).Methods("GET")
	api.HandleFunc("/comment_replies", replyController.Create).Methods("POST")
	api.HandleFunc("/comments/{commentId}/replies/{replyId}", replyController.Delete).Methods("DELETE")

	// Page routes
	router.HandleFunc("/", commentController.Index).Methods("GET")
	router.HandleFunc("/comments", commentController.Create).Methods("POST")
	router.HandleFunc("/comments/{id}", commentController.Show).Methods("GET")
	router.HandleFunc("/comments/{id}/delete", commentController.Delete).Methods("POST")
	router.HandleFunc("/comments/{id}/replies", replyController.Create).Methods("POST")
	router.HandleFunc("/comments/{commentId}/replies/{replyId}/delete", replyController.Delete).Methods("POST")

	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(notFound)

	return router
}

// notFound answers every unmatched request, page or API, with a JSON body
func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
}
