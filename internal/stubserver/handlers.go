package stubserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/anushkaEsdev/alumni-client/internal/models"
)

func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to process password", err)
		return
	}

	acc, err := s.store.CreateAccount(req.Username, req.Email, hash)
	if err != nil {
		sendError(c, http.StatusConflict, "User with this email already exists", nil)
		return
	}

	token, err := s.issueToken(acc.User)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to generate authentication token", err)
		return
	}

	sendSuccess(c, http.StatusCreated, models.AuthData{Token: token, User: acc.User})
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	acc, ok := s.store.AccountByEmail(req.Email)
	if !ok {
		sendError(c, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(req.Password)); err != nil {
		sendError(c, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	token, err := s.issueToken(acc.User)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to generate authentication token", err)
		return
	}

	sendSuccess(c, http.StatusOK, models.AuthData{Token: token, User: acc.User})
}

// forgotPassword mints a reset token and logs it in place of sending mail;
// the stub has no mailer on purpose.
func (s *Server) forgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	token := uuid.NewString()
	if s.store.SetResetToken(req.Email, token) {
		s.log.WithField("email", req.Email).Infof("password reset token: %s", token)
	}
	// Same response whether or not the account exists.
	sendSuccess(c, http.StatusOK, gin.H{"message": "If the email exists, reset instructions have been sent"})
}

func (s *Server) resetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	acc, ok := s.store.AccountByResetToken(c.Param("token"))
	if !ok {
		sendError(c, http.StatusBadRequest, "Invalid or expired reset token", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to process password", err)
		return
	}
	if err := s.store.SetPassword(acc.ID, hash); err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to reset password", err)
		return
	}

	sendSuccess(c, http.StatusOK, gin.H{"message": "Password has been reset"})
}

func (s *Server) updateProfile(c *gin.Context) {
	acc, ok := s.currentAccount(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	user, err := s.store.UpdateAccount(acc.ID, req)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to update profile", err)
		return
	}

	sendSuccess(c, http.StatusOK, user)
}

func (s *Server) updatePassword(c *gin.Context) {
	acc, ok := s.currentAccount(c)
	if !ok {
		return
	}

	var req models.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(req.CurrentPassword)); err != nil {
		sendError(c, http.StatusBadRequest, "Current password is incorrect", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to process password", err)
		return
	}
	if err := s.store.SetPassword(acc.ID, hash); err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to update password", err)
		return
	}

	sendSuccess(c, http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (s *Server) listPosts(c *gin.Context) {
	postType := models.PostType(c.Query("type"))
	sendSuccess(c, http.StatusOK, s.store.ListPosts(postType))
}

func (s *Server) getPost(c *gin.Context) {
	post, ok := s.store.GetPost(c.Param("id"))
	if !ok {
		sendError(c, http.StatusNotFound, "Post not found", nil)
		return
	}
	sendSuccess(c, http.StatusOK, post)
}

func (s *Server) createPost(c *gin.Context) {
	acc, ok := s.currentAccount(c)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}
	switch req.Type {
	case models.PostTypeBlog, models.PostTypeInterview, models.PostTypeMeeting:
	default:
		sendError(c, http.StatusBadRequest, "Invalid post type", nil)
		return
	}

	post := s.store.CreatePost(acc.User, req)
	sendSuccess(c, http.StatusCreated, post)
}

func (s *Server) updatePost(c *gin.Context) {
	acc, ok := s.currentAccount(c)
	if !ok {
		return
	}

	var req models.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	post, err := s.store.UpdatePost(c.Param("id"), acc.ID, req)
	if err != nil {
		s.storeError(c, err, "update this post")
		return
	}
	sendSuccess(c, http.StatusOK, post)
}

func (s *Server) deletePost(c *gin.Context) {
	acc, ok := s.currentAccount(c)
	if !ok {
		return
	}

	if err := s.store.DeletePost(c.Param("id"), acc.ID); err != nil {
		s.storeError(c, err, "delete this post")
		return
	}
	sendSuccess(c, http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (s *Server) likePost(c *gin.Context) {
	if _, ok := s.currentAccount(c); !ok {
		return
	}
	post, err := s.store.SetLike(c.Param("id"), 1)
	if err != nil {
		sendError(c, http.StatusNotFound, "Post not found", nil)
		return
	}
	sendSuccess(c, http.StatusOK, post)
}

func (s *Server) unlikePost(c *gin.Context) {
	if _, ok := s.currentAccount(c); !ok {
		return
	}
	post, err := s.store.SetLike(c.Param("id"), -1)
	if err != nil {
		sendError(c, http.StatusNotFound, "Post not found", nil)
		return
	}
	sendSuccess(c, http.StatusOK, post)
}

func (s *Server) addComment(c *gin.Context) {
	acc, ok := s.currentAccount(c)
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	post, err := s.store.AddComment(c.Param("id"), acc.User, req.Content)
	if err != nil {
		sendError(c, http.StatusNotFound, "Post not found", nil)
		return
	}
	sendSuccess(c, http.StatusCreated, post)
}

func (s *Server) updateComment(c *gin.Context) {
	acc, ok := s.currentAccount(c)
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}

	post, err := s.store.UpdateComment(c.Param("id"), c.Param("commentId"), acc.ID, req.Content)
	if err != nil {
		s.storeError(c, err, "update this comment")
		return
	}
	sendSuccess(c, http.StatusOK, post)
}

func (s *Server) deleteComment(c *gin.Context) {
	acc, ok := s.currentAccount(c)
	if !ok {
		return
	}

	post, err := s.store.DeleteComment(c.Param("id"), c.Param("commentId"), acc.ID)
	if err != nil {
		s.storeError(c, err, "delete this comment")
		return
	}
	sendSuccess(c, http.StatusOK, post)
}

func (s *Server) storeError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, errNotAuthorized):
		sendError(c, http.StatusForbidden, "Not authorized to "+action, nil)
	case errors.Is(err, errNotFound):
		sendError(c, http.StatusNotFound, "Resource not found", nil)
	default:
		sendError(c, http.StatusInternalServerError, "Something went wrong", err)
	}
}
