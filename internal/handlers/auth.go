package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/dbhelper"
	"backend/internal/models"
)

type SignupRequest struct {
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func issueToken(userID int, role, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

/*
POST /api/auth/signup
*/
func Signup(db *sql.DB, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/signup"
		defer handlePanic(c, route)

		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		taken, err := dbhelper.IsEmailTaken(ctx, db, email)
		if err != nil {
			respondWithServerError(c, route, "Error registering user", err)
			return
		}
		if taken {
			logrus.Println("[AUTH] [ERROR] signup email exists:", email)
			respondWithMessage(c, http.StatusConflict, route, "User with this email already exists")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithServerError(c, route, "Error registering user", err)
			return
		}

		var phone *string
		if trimmed := strings.TrimSpace(req.PhoneNumber); trimmed != "" {
			phone = &trimmed
		}

		user, err := dbhelper.CreateUser(ctx, db, strings.TrimSpace(req.Name), phone, email, string(hash), models.RoleCustomer)
		if err != nil {
			respondWithServerError(c, route, "Error registering user", err)
			return
		}

		token, err := issueToken(user.UserID, user.Role, jwtSecret, tokenTTL)
		if err != nil {
			respondWithServerError(c, route, "Error registering user", err)
			return
		}

		logrus.Println("[AUTH] [INFO] user registered:", email)
		c.JSON(http.StatusCreated, gin.H{
			"message": "User registered successfully",
			"user":    user,
			"token":   token,
		})
	}
}

/*
POST /api/auth/login
*/
func Login(db *sql.DB, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := dbhelper.GetUserByEmail(ctx, db, email)
		if errors.Is(err, sql.ErrNoRows) {
			logrus.Println("[AUTH] [ERROR] login unknown email")
			respondWithMessage(c, http.StatusUnauthorized, route, "Invalid email or password")
			return
		}
		if err != nil {
			respondWithServerError(c, route, "Error logging in", err)
			return
		}

		if user.Password == nil {
			respondWithMessage(c, http.StatusUnauthorized, route, "Account does not have a password set")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password)); err != nil {
			logrus.Println("[AUTH] [ERROR] login invalid credentials")
			respondWithMessage(c, http.StatusUnauthorized, route, "Invalid email or password")
			return
		}

		token, err := issueToken(user.UserID, user.Role, jwtSecret, tokenTTL)
		if err != nil {
			respondWithServerError(c, route, "Error logging in", err)
			return
		}

		logrus.Println("[AUTH] [INFO] login succeeded:", email)
		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"user":    user,
			"token":   token,
		})
	}
}

/*
GET /api/auth/me
*/
func GetMe(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/auth/me"
		defer handlePanic(c, route)

		userID := c.GetInt("userID")
		if userID <= 0 {
			respondWithMessage(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		user, err := dbhelper.GetUserByID(ctx, db, userID)
		if errors.Is(err, sql.ErrNoRows) {
			respondWithMessage(c, http.StatusNotFound, route, "User not found")
			return
		}
		if err != nil {
			respondWithServerError(c, route, "Error fetching user", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
