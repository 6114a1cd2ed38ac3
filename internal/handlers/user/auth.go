package user

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"agroshop_back_end/internal/cache"
	"agroshop_back_end/internal/cart"
	"agroshop_back_end/internal/catalog"
	"agroshop_back_end/internal/database"
	"agroshop_back_end/internal/models"
	"agroshop_back_end/internal/utils"
)

// Handler porte l'état partagé de la session client : le panier persisté
// par utilisateur et le catalogue en mémoire. Les connexions bases
// restent dans le package database.
type Handler struct {
	Carts   *cart.Store
	Catalog *catalog.Store
}

func NewHandler(carts *cart.Store, cat *catalog.Store) *Handler {
	return &Handler{Carts: carts, Catalog: cat}
}

// ================== AUTH LOCALE ==================

// Register crée un compte client. Le rôle est toujours "customer" :
// un admin ne se crée jamais via l'API publique. L'inscription ne
// connecte pas — le client doit appeler /login ensuite.
func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username, email and password are required"})
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database connection failed"})
		return
	}

	// email déjà pris ?
	var existingID gocql.UUID
	if err := session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, input.Email).
		Scan(&existingID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "An account with this email already exists"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	userID := gocql.TimeUUID()
	now := time.Now()

	if err := session.Query(
		`INSERT INTO users (user_id, username, email, password, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, input.Username, input.Email, hashed, models.RoleCustomer, now,
	).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	// Table de correspondance pour le login par email
	if err := session.Query(
		`INSERT INTO users_by_email (email, user_id) VALUES (?, ?)`,
		input.Email, userID,
	).Exec(); err != nil {
		log.Printf("⚠️ Erreur indexation users_by_email pour %s: %v", input.Email, err)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

// Login vérifie email + mot de passe et délivre un token Bearer de 24h.
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database connection failed"})
		return
	}

	// Même réponse pour email inconnu et mot de passe faux :
	// on ne révèle pas quels comptes existent.
	var userID gocql.UUID
	if err := session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, input.Email).
		Scan(&userID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	var u models.User
	var uid gocql.UUID
	if err := session.Query(
		`SELECT user_id, username, email, password, role FROM users WHERE user_id = ?`, userID,
	).Scan(&uid, &u.Username, &u.Email, &u.Password, &u.Role); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	u.ID = uid.String()

	if !utils.VerifyPassword(input.Password, u.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateJWT(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       u.ID,
			"username": u.Username,
			"email":    u.Email,
			"role":     u.Role,
		},
	})
}

// Me renvoie le profil de l'utilisateur connecté.
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	if cached, ok := cache.GetUserProfile(c.Request.Context(), userID); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database connection failed"})
		return
	}

	uid, err := gocql.ParseUUID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Token is invalid"})
		return
	}

	var u models.User
	var id gocql.UUID
	if err := session.Query(
		`SELECT user_id, username, email, role FROM users WHERE user_id = ?`, uid,
	).Scan(&id, &u.Username, &u.Email, &u.Role); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	u.ID = id.String()

	cache.SetUserProfile(c.Request.Context(), &u)
	c.JSON(http.StatusOK, u)
}

// Logout vide le panier persisté : l'état d'un client ne doit jamais
// fuiter vers l'identité suivante. Le token lui-même expire tout seul.
func (h *Handler) Logout(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}

	if err := h.Carts.Clear(context.Background(), userID); err != nil {
		log.Printf("⚠️ Erreur vidage panier au logout pour %s: %v", userID, err)
	}
	cache.InvalidateUserProfile(context.Background(), userID)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
