package controllers

import (
	"net/http"

	"github.com/edgarhdzg/reservas-app/models"
	"github.com/edgarhdzg/reservas-app/services"
	"github.com/edgarhdzg/reservas-app/utils"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// Login -> password sign-in for the desk operator
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := ac.Auth.SignIn(c.Request.Context(), req.Email, req.Password); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Signed in successfully", ac.Auth.User())
}

// Register -> account creation plus profile upsert
func (ac *AuthController) Register(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=6"`
		FirstName string `json:"nombre" binding:"required"`
		LastName  string `json:"apellido"`
		Phone     string `json:"telefono"`
		Role      string `json:"rol"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	input := services.SignUpInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	if req.Role != "" {
		input.Role = models.ParseRole(req.Role)
	}

	if err := ac.Auth.SignUp(c.Request.Context(), req.Email, req.Password, input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Account created successfully", ac.Auth.User())
}

// Logout -> remote sign-out; local state is cleared regardless
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.Auth.SignOut(c.Request.Context()); err != nil {
		utils.InfoLogger.Printf("sign-out finished with remote error: %v", err)
	}
	utils.RespondJSON(c, http.StatusOK, "Signed out", nil)
}

// Me -> current session state for the frontend to hydrate from
func (ac *AuthController) Me(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Current session", gin.H{
		"user":    ac.Auth.User(),
		"loading": ac.Auth.Loading(),
	})
}
