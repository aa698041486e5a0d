package models

// Comment is a top-level post on the board.
type Comment struct {
	ID       string `json:"id" validate:"required"`
	Author   string `json:"author" validate:"required,max=50"`
	Body     string `json:"body" validate:"required,max=2000"`
	PostedAt int64  `json:"postedAt" validate:"gt=0"`
}

// Reply is a response to a comment. It is stored nested under its parent.
type Reply struct {
	ID       string `json:"id" validate:"required"`
	Author   string `json:"author" validate:"required,max=50"`
	Body     string `json:"body" validate:"required,max=2000"`
	PostedAt int64  `json:"postedAt" validate:"gt=0"`
}

// CommentWithReplies is a comment together with its replies. Stored records
// carry every reply; listings carry only the first one.
type CommentWithReplies struct {
	Comment
	RepliesCount int      `json:"replies_count" validate:"gte=0"`
	Replies      []*Reply `json:"replies" validate:"required,dive,required"`
}

// NewComment is the input for creating a comment.
type NewComment struct {
	Author string `json:"author" validate:"required,max=50"`
	Body   string `json:"body" validate:"required,max=2000"`
}

// NewReply is the input for replying to a comment.
type NewReply struct {
	CommentID string `json:"comment_id" validate:"required"`
	Author    string `json:"author" validate:"required,max=50"`
	Body      string `json:"body" validate:"required,max=2000"`
}
