package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"storage-reservation-backend/config"
	"storage-reservation-backend/internal/api"
	"storage-reservation-backend/internal/model"
	"storage-reservation-backend/internal/notification"
	"storage-reservation-backend/internal/store"
)

// capturingSender records outbound mail so the test can assert on the
// full notification flow without an SMTP server.
type capturingSender struct {
	mu   sync.Mutex
	sent []notification.Message
}

func (c *capturingSender) Send(msg notification.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *capturingSender) messages() []notification.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notification.Message(nil), c.sent...)
}

// TestForgotPasswordFlow resets a forgotten password through the public
// endpoint, logs in with the emailed temporary password and verifies
// the forced change is demanded and then cleared.
func TestForgotPasswordFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file:integration_forgot?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, testDB.AutoMigrate(
		&model.User{}, &model.Reservation{}, &model.ReservedItem{},
		&model.Shelf{}, &model.StorageItem{},
		&model.CatalogCategory{}, &model.CatalogItem{},
	))

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1
	cfg.Auth.JWTSecret = "integration-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Shelves.IDs = config.DefaultShelfIDs

	appStore := store.NewGormStore(testDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := &capturingSender{}
	pool := notification.NewWorkerPool(1, sender)
	pool.Start(ctx)

	router := api.NewRouter(appStore, pool, cfg)

	hash, err := bcrypt.GenerateFromPassword([]byte("pass-word-1"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, appStore.CreateUser(ctx, &model.User{
		Email: "alice@example.com", Username: "alice",
		FirstName: "Alice", LastName: "Anders",
		PasswordHash: string(hash), EmailsActivated: true,
	}))

	do := func(path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
		req := httptest.NewRequest(http.MethodPost, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// An unknown address is rejected.
	w := do("/api/account/forgotPassword", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, sender.messages())

	w = do("/api/account/forgotPassword", gin.H{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The temporary password travels only in the email.
	msgs := sender.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"alice@example.com"}, msgs[0].To)
	marker := "Temporary password: "
	idx := strings.Index(msgs[0].Body, marker)
	require.GreaterOrEqual(t, idx, 0, "body: %s", msgs[0].Body)
	rest := msgs[0].Body[idx+len(marker):]
	tempPassword := rest[:strings.IndexByte(rest, '\n')]
	require.NotEmpty(t, tempPassword)
	assert.NotContains(t, w.Body.String(), tempPassword)

	// The old password no longer works; the temporary one does and
	// demands a change.
	w = do("/api/account/login", gin.H{"email": "alice@example.com", "password": "pass-word-1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do("/api/account/login", gin.H{"email": "alice@example.com", "password": tempPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token              string `json:"token"`
		MustChangePassword bool   `json:"mustChangePassword"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.True(t, login.MustChangePassword)

	// Picking an own password clears the flag.
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(gin.H{
		"oldPassword": tempPassword,
		"newPassword": "my-own-password-1",
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/account/changePassword", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	w = do("/api/account/login", gin.H{"email": "alice@example.com", "password": "my-own-password-1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.False(t, login.MustChangePassword)
}

// TestReservationNotificationFlow walks the whole pipeline the way the
// daemon wires it: boot-time shelf sync, reservation creation fanning
// out to handlers, and fulfillment notifying the requester.
func TestReservationNotificationFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, testDB.AutoMigrate(
		&model.User{}, &model.Reservation{}, &model.ReservedItem{},
		&model.Shelf{}, &model.StorageItem{},
		&model.CatalogCategory{}, &model.CatalogItem{},
	))

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1
	cfg.Auth.JWTSecret = "integration-secret"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Shelves.IDs = config.DefaultShelfIDs

	appStore := store.NewGormStore(testDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Boot-time reconciliation, as the daemon does it.
	require.NoError(t, appStore.SyncShelves(ctx, cfg.Shelves.IDs))

	sender := &capturingSender{}
	pool := notification.NewWorkerPool(2, sender)
	pool.Start(ctx)

	router := api.NewRouter(appStore, pool, cfg)

	hash, err := bcrypt.GenerateFromPassword([]byte("pass-word-1"), bcrypt.MinCost)
	require.NoError(t, err)
	requester := &model.User{Email: "alice@example.com", Username: "alice", FirstName: "Alice", LastName: "Anders", PasswordHash: string(hash), EmailsActivated: true}
	handler := &model.User{Email: "harry@example.com", Username: "harry", FirstName: "Harry", LastName: "Handler", PasswordHash: string(hash), IsStorageHandler: true, EmailsActivated: true}
	require.NoError(t, appStore.CreateUser(ctx, requester))
	require.NoError(t, appStore.CreateUser(ctx, handler))

	do := func(method, path, token string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	login := func(email string) string {
		w := do(http.MethodPost, "/api/account/login", "", gin.H{"email": email, "password": "pass-word-1"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.Token
	}

	aliceToken := login("alice@example.com")
	harryToken := login("harry@example.com")

	w := do(http.MethodPost, "/api/storage/items", harryToken, gin.H{
		"itemType":     "Vibration sensor",
		"itemName":     "VS-100",
		"serialNumber": "SN-0099",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Creating a reservation fans a notice out to the handler.
	w = do(http.MethodPost, "/api/reservations", aliceToken, gin.H{
		"projectName": "Line3-Overhaul",
		"pickupDate":  time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"items":       []gin.H{{"itemType": "Vibration sensor", "itemName": "VS-100"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		Reservation model.Reservation `json:"reservation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	require.Eventually(t, func() bool {
		return len(sender.messages()) == 1
	}, time.Second, 10*time.Millisecond)
	notice := sender.messages()[0]
	assert.Equal(t, []string{"harry@example.com"}, notice.To)
	assert.Contains(t, notice.Subject, "New reservation from Alice Anders")
	assert.Contains(t, notice.Body, "Line3-Overhaul")

	// Fulfillment sends the pickup notice synchronously.
	w = do(http.MethodPost, "/api/storage/fulfill", harryToken, gin.H{
		"reservationId": created.Reservation.ID,
		"note":          "left of the door",
		"shelfIds":      []string{"A1"},
		"items":         []gin.H{{"itemType": "Vibration sensor", "itemName": "VS-100", "serialNumber": "SN-0099"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	msgs := sender.messages()
	require.Len(t, msgs, 2)
	ready := msgs[1]
	assert.Equal(t, []string{"alice@example.com"}, ready.To)
	assert.Contains(t, ready.Subject, "has been handled")
	assert.Contains(t, ready.Body, "SN: SN-0099")
	assert.Contains(t, ready.Body, "A1")
	assert.Contains(t, ready.Body, "left of the door")

	// The shelf board reflects the binding.
	w = do(http.MethodGet, "/api/shelves", harryToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var board []struct {
		ShelfID     string `json:"shelfId"`
		Available   bool   `json:"available"`
		ProjectName string `json:"projectName"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	require.Len(t, board, len(config.DefaultShelfIDs))
	assert.Equal(t, "A1", board[0].ShelfID)
	assert.False(t, board[0].Available)
	assert.Equal(t, "Line3-Overhaul", board[0].ProjectName)
}
