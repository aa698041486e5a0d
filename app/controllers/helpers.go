package controllers

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"commentboard/app/middleware"
	"commentboard/app/models"
	"commentboard/app/views"

	"github.com/dustin/go-humanize"
	"golang.org/x/crypto/blake2b"
)

const msgCheckInputs = "Please check your inputs"

// base carries what every controller needs to answer a request
type base struct {
	logger    *slog.Logger
	templates map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"ago": func(ms int64) string {
		return humanize.Time(time.UnixMilli(ms))
	},
}

// loadTemplates parses the page templates from the embedded views
func loadTemplates() map[string]*template.Template {
	templates := make(map[string]*template.Template)
	for _, page := range []string{"index", "thread"} {
		templates[page] = template.Must(template.New(page).Funcs(templateFuncs).ParseFS(
			views.FS, "layout.html", "shared.html", page+".html",
		))
	}
	return templates
}

// commentView is a comment or reply as the pages render it
type commentView struct {
	ID        string
	Author    string
	Body      string
	PostedAt  int64
	DeleteURL string
}

type threadView struct {
	Comment commentView
	Replies []commentView
	More    int
}

type formValues struct {
	Author string
	Body   string
}

type pageData struct {
	Threads   []threadView
	Thread    threadView
	Form      formValues
	FormError string
}

func newThreadView(c *models.CommentWithReplies) threadView {
	tv := threadView{
		Comment: commentView{
			ID:        c.ID,
			Author:    c.Author,
			Body:      c.Body,
			PostedAt:  c.PostedAt,
			DeleteURL: "/comments/" + c.ID + "/delete",
		},
		More: c.HiddenReplies(),
	}
	for _, r := range c.Replies {
		tv.Replies = append(tv.Replies, commentView{
			ID:        r.ID,
			Author:    r.Author,
			Body:      r.Body,
			PostedAt:  r.PostedAt,
			DeleteURL: "/comments/" + c.ID + "/replies/" + r.ID + "/delete",
		})
	}
	return tv
}

func (b *base) render(w http.ResponseWriter, r *http.Request, page string, status int, data pageData) {
	tmpl, ok := b.templates[page]
	if !ok {
		b.sendError(w, r, "Template not found: "+page, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		b.logger.Error("template error", "page", page, "error", err)
	}
}

func (b *base) sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.logger.Error("failed to encode response", "error", err)
	}
}

// etagMatches reports whether an If-None-Match header names etag. The header
// may be "*" or a comma separated list; weak tags compare by their opaque part.
func etagMatches(header, etag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == strings.TrimPrefix(etag, "W/") {
			return true
		}
	}
	return false
}

// sendTaggedJSON answers with an ETag over the encoded body and honours If-None-Match
func (b *base) sendTaggedJSON(w http.ResponseWriter, r *http.Request, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		b.sendError(w, r, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	body = append(body, '\n')

	sum := blake2b.Sum256(body)
	etag := fmt.Sprintf("%q", hex.EncodeToString(sum[:16]))
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (b *base) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if middleware.IsAPIRequest(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": message})
	} else {
		http.Error(w, message, status)
	}
}

// sendStorageError logs err and answers 500
func (b *base) sendStorageError(w http.ResponseWriter, r *http.Request, action string, err error) {
	b.logger.Error("storage failure", "action", action, "error", err)
	b.sendError(w, r, "Failed to "+action, http.StatusInternalServerError)
}

// decodeInput fills dst from a JSON body or from url-encoded form values
func decodeInput(r *http.Request, dst interface{}) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}
	switch v := dst.(type) {
	case *models.NewComment:
		v.Author = r.PostFormValue("author")
		v.Body = r.PostFormValue("body")
	case *models.NewReply:
		v.CommentID = r.PostFormValue("comment_id")
		v.Author = r.PostFormValue("author")
		v.Body = r.PostFormValue("body")
	default:
		return errors.New("unsupported form target")
	}
	return nil
}
