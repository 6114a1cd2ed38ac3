package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"agroshop_back_end/internal/database"
)

func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	database.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// loginRouter simule l'endpoint de login : seul good@example.com avec le
// bon mot de passe passe. Le handler relit le body, ce qui vérifie au
// passage que le middleware l'a bien rebufferisé.
func loginRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", LoginRateLimit(), func(c *gin.Context) {
		var input struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
			return
		}
		if input.Email == "good@example.com" && input.Password == "ok" {
			c.JSON(http.StatusOK, gin.H{"token": "t"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
	})
	return r
}

func TestLoginRateLimit(t *testing.T) {
	t.Run("locks the email after repeated failures", func(t *testing.T) {
		setupTestRedis(t)
		r := loginRouter()
		body := `{"email":"bad@example.com","password":"wrong"}`

		for i := 0; i < LoginMaxAttempts; i++ {
			w := postJSON(r, "/login", body)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i+1)
		}

		w := postJSON(r, "/login", body)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		// Et le cooldown tient sur la tentative suivante
		w = postJSON(r, "/login", body)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "retry_after")
	})

	t.Run("attempts are tracked per email", func(t *testing.T) {
		setupTestRedis(t)
		r := loginRouter()

		for i := 0; i < LoginMaxAttempts; i++ {
			postJSON(r, "/login", `{"email":"bad@example.com","password":"wrong"}`)
		}

		w := postJSON(r, "/login", `{"email":"other@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("successful login resets the counter", func(t *testing.T) {
		setupTestRedis(t)
		r := loginRouter()

		for i := 0; i < LoginMaxAttempts-1; i++ {
			postJSON(r, "/login", `{"email":"good@example.com","password":"wrong"}`)
		}

		w := postJSON(r, "/login", `{"email":"good@example.com","password":"ok"}`)
		assert.Equal(t, http.StatusOK, w.Code)

		// Le compteur est reparti de zéro : nouvel échec toléré
		w = postJSON(r, "/login", `{"email":"good@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("oversized body does not break the endpoint", func(t *testing.T) {
		setupTestRedis(t)
		r := loginRouter()

		huge := `{"email":"` + strings.Repeat("a", 2*maxLoginBodyBytes) + `"}`
		w := postJSON(r, "/login", huge)

		// Le body tronqué n'est plus du JSON valide : le handler répond 400,
		// sans que le serveur n'ait bufferisé les 2 Mo
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRegisterRateLimit(t *testing.T) {
	setupTestRedis(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/register", RegisterRateLimit(), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	})

	// Seules les inscriptions réussies comptent
	for i := 0; i < RegisterMaxAttempts; i++ {
		w := postJSON(r, "/register", `{}`)
		assert.Equal(t, http.StatusCreated, w.Code, "registration %d", i+1)
	}

	w := postJSON(r, "/register", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = postJSON(r, "/register", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "retry_after")
}

func TestAPIRateLimit(t *testing.T) {
	setupTestRedis(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/api/products", APIRateLimit(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	get := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "99", w.Header().Get("X-RateLimit-Remaining"))

	for i := 1; i < APIMaxRequests; i++ {
		assert.Equal(t, http.StatusOK, get().Code, "request %d", i+1)
	}

	w = get()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
