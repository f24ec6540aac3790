package api

import (
	"net/http" // HTTP status codes

	"taskagotchi/internal/service" // Account service

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRequest is the signup payload
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"` // Username must be provided
	Email     string `json:"email" binding:"required"`    // Email must be provided
	FirstName string `json:"first_name"`                  // Optional first name
	LastName  string `json:"last_name"`                   // Optional last name
	Password  string `json:"password" binding:"required"` // Password must be provided
}

// LoginRequest accepts a username or an email
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username or email
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the issued token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// RegisterHandler creates an account with its wallet and avatar
func RegisterHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := users.Signup(c.Request.Context(), service.SignupInput{
			Username:  req.Username,
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Password:  req.Password,
		})
		if err != nil {
			writeError(c, err) // 400 invalid input, 409 duplicate
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		token, _, err := users.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			writeError(c, err) // 401 on bad credentials
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}

// DeleteAccountHandler deletes the caller and everything it owns
func DeleteAccountHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireCaller(c)
		if !ok {
			return
		}
		if err := users.Delete(c.Request.Context(), userID); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}
