package models

import "time"

// User is the identity snapshot returned by the auth endpoints and cached
// client-side for the lifetime of a session.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// PostType distinguishes the three content variants served by the single
// posts resource. The tag is immutable after creation.
type PostType string

const (
	PostTypeBlog      PostType = "blog"
	PostTypeInterview PostType = "interview"
	PostTypeMeeting   PostType = "meeting"
)

// Author is the embedded authorship reference carried by posts and comments.
type Author struct {
	ID        string `json:"_id"`
	Username  string `json:"username"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type Comment struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is the polymorphic content item. The meeting variant carries
// MeetingDate/MeetingTime, the interview variant carries the question
// fields, and blog/interview posts may carry an image reference.
type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      PostType  `json:"type"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Comments  []Comment `json:"comments"`
	Likes     int       `json:"likes"`

	// MeetingDate is canonical YYYY-MM-DD, MeetingTime HH:MM.
	MeetingDate string `json:"meetingDate,omitempty"`
	MeetingTime string `json:"meetingTime,omitempty"`

	Question   string `json:"question,omitempty"`
	Answer     string `json:"answer,omitempty"`
	Topic      string `json:"topic,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`

	ImageURL string `json:"imageUrl,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries a partial update; nil fields are omitted from
// the payload and left untouched by the backend.
type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type CreatePostRequest struct {
	Title       string   `json:"title" binding:"required"`
	Content     string   `json:"content" binding:"required"`
	Type        PostType `json:"type" binding:"required"`
	MeetingDate string   `json:"meetingDate,omitempty"`
	MeetingTime string   `json:"meetingTime,omitempty"`
	Question    string   `json:"question,omitempty"`
	Answer      string   `json:"answer,omitempty"`
	Topic       string   `json:"topic,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

type UpdatePostRequest struct {
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	MeetingDate *string `json:"meetingDate,omitempty"`
	MeetingTime *string `json:"meetingTime,omitempty"`
	Question    *string `json:"question,omitempty"`
	Answer      *string `json:"answer,omitempty"`
	Topic       *string `json:"topic,omitempty"`
	Difficulty  *string `json:"difficulty,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// AuthData is the payload returned by login and register.
type AuthData struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type SuccessResponse struct {
	Status int         `json:"status"`
	Data   interface{} `json:"data"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
