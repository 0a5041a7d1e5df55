package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	intconfig "backend/internal/config"
	intdb "backend/internal/db"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	jwtMu     sync.RWMutex
	jwtSecret = []byte("super-secret-key-change-me")
)

// SetJWTSecret installs the configured signing key; called once at startup.
func SetJWTSecret(secret string) {
	jwtMu.Lock()
	defer jwtMu.Unlock()
	if strings.TrimSpace(secret) != "" {
		jwtSecret = []byte(secret)
	}
}

func signingKey() []byte {
	jwtMu.RLock()
	defer jwtMu.RUnlock()
	return jwtSecret
}

// AuthUser is the user payload returned by login and register.
type AuthUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var (
		user         AuthUser
		passwordHash string
	)
	err := intconfig.DB.QueryRow(`
		SELECT id, name, email, password_hash, role
		FROM users
		WHERE email = ?`, strings.ToLower(strings.TrimSpace(req.Email)),
	).Scan(&user.ID, &user.Name, &user.Email, &passwordHash, &user.Role)
	if errors.Is(err, sql.ErrNoRows) {
		RespondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to query user")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		RespondError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(signingKey())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to sign token")
		return
	}

	RespondData(c, http.StatusOK, gin.H{"token": signed, "user": user})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < 8 {
		RespondError(c, http.StatusBadRequest, "email and a password of at least 8 characters are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	res, err := intconfig.DB.Exec(`
		INSERT INTO users (name, username, email, password_hash, role)
		VALUES (?, ?, ?, ?, 'operator')`,
		strings.TrimSpace(req.Name), email, email, string(hash))
	if err != nil {
		if intdb.IsDuplicate(err) {
			RespondError(c, http.StatusConflict, "email is already registered")
			return
		}
		RespondError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	id, _ := res.LastInsertId()
	RespondData(c, http.StatusCreated, AuthUser{ID: id, Name: strings.TrimSpace(req.Name), Email: email, Role: "operator"})
}
