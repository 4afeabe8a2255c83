package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nutridiet/backend/config"
	"github.com/nutridiet/backend/internal/middleware"
	"github.com/nutridiet/backend/internal/models"
	"github.com/nutridiet/backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubCompletionAPI wraps an httptest server standing in for the completion
// API and counts how many requests reached it.
type stubCompletionAPI struct {
	Server *httptest.Server
	calls  atomic.Int64
}

func (s *stubCompletionAPI) Calls() int64 {
	return s.calls.Load()
}

func newStubCompletionAPI(t *testing.T, handler http.HandlerFunc) *stubCompletionAPI {
	stub := &stubCompletionAPI{}
	stub.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(stub.Server.Close)
	return stub
}

func newTestLLMService(t *testing.T, apiURL string) *service.LLMService {
	llm, err := service.NewLLMService(config.LLMConfig{APIKey: "test-key", APIURL: apiURL})
	if err != nil {
		t.Fatalf("failed to create llm service: %v", err)
	}
	return llm
}

// newTestRouter mirrors the production router settings so wrong-method
// requests exercise the same 405 path.
func newTestRouter(register func(v1 *gin.RouterGroup)) *gin.Engine {
	router := gin.New()
	router.Use(middleware.CORS())
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Only POST requests are allowed."})
	})
	v1 := router.Group("/api/v1")
	register(v1)
	return router
}

func setupPasswordDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Account{}, &models.PasswordReset{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// recordingEmailService captures sent OTP mails instead of dialing SMTP.
type recordingEmailService struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	To   string
	Code string
}

func (s *recordingEmailService) SendOTPEmail(to, code string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{To: to, Code: code})
	return nil
}

func performJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedAccount(t *testing.T, db *gorm.DB, email string) models.Account {
	account := models.Account{
		UserID: uuid.New(),
		Email:  email,
	}
	if err := db.Create(&account).Error; err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}
	return account
}

func seedResetRow(t *testing.T, db *gorm.DB, email, otp string, expiresAt time.Time) models.PasswordReset {
	row := models.PasswordReset{
		ID:        uuid.New(),
		Email:     email,
		OTP:       otp,
		ExpiresAt: expiresAt,
		Used:      false,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to seed reset row: %v", err)
	}
	return row
}
