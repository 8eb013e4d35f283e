package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"booksphere/models"
)

// AuthAPI is the slice of AuthService the controller uses.
type AuthAPI interface {
	Login(ctx context.Context, username, password, role string) (string, error)
	Register(ctx context.Context, username, password, role string) (*models.User, error)
}

// CartCleaner clears a user's cart on logout.
type CartCleaner interface {
	Delete(ctx context.Context, username string) error
}

type AuthController struct {
	auth  AuthAPI
	carts CartCleaner
}

func NewAuthController(auth AuthAPI, carts CartCleaner) *AuthController {
	return &AuthController{auth: auth, carts: carts}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, password and role are required"})
		return
	}

	token, err := ctrl.auth.Login(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully",
		"token":   token,
		"role":    req.Role,
	})
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (ctrl *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, password and role are required"})
		return
	}

	user, err := ctrl.auth.Register(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created", "user": user})
}

// Logout discards the user's cart. Tokens are stateless and simply expire.
func (ctrl *AuthController) Logout(c *gin.Context) {
	username := c.GetString("username")
	if username != "" {
		if err := ctrl.carts.Delete(c.Request.Context(), username); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
