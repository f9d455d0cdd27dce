package integration

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"edu-chat-be/internal/bootstrap"
	"edu-chat-be/internal/config"
	"edu-chat-be/internal/dto"
	"edu-chat-be/internal/model"
	"edu-chat-be/internal/pkg/serverutils"
	"edu-chat-be/internal/server"
	"edu-chat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminQuotaFlow(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
		os.Setenv("JWT_SECRET", "default_secret")
	}
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	app := srv.GetApp()

	// Seed a module with an admin for auth
	moduleId := uuid.New()
	module := &model.Module{
		Id:          moduleId,
		Name:        "Quota Flow Module",
		ExternalRef: "quota-flow-" + uuid.New().String(),
		CreatedAt:   time.Now(),
	}
	db.Create(module)
	defer db.Unscoped().Delete(&model.Module{}, moduleId)

	adminPass := "admin123"
	adminHash, _ := bcrypt.GenerateFromPassword([]byte(adminPass), bcrypt.DefaultCost)

	adminId := uuid.New()
	adminEmail := "quota-admin-" + uuid.New().String() + "@example.com"
	admin := &model.User{
		Id:           adminId,
		ModuleId:     moduleId,
		ExternalRef:  "quota-admin-" + uuid.New().String(),
		Name:         "Quota Admin",
		Email:        adminEmail,
		PasswordHash: string(adminHash),
		MaxRequests:  50,
		IsAdmin:      true,
		CreatedAt:    time.Now(),
	}
	db.Create(admin)
	defer db.Unscoped().Delete(&model.User{}, adminId)

	// Login via API to get a token
	loginBody, _ := json.Marshal(dto.AdminLoginRequest{Email: adminEmail, Password: adminPass})
	req := httptest.NewRequest("POST", "/api/auth/v1/login", strings.NewReader(string(loginBody)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)

	var loginRes serverutils.Response[dto.AuthResponse]
	json.NewDecoder(resp.Body).Decode(&loginRes)
	token := loginRes.Data.Token
	assert.NotEmpty(t, token, "Admin token should not be empty")

	t.Run("Set User Quota", func(t *testing.T) {
		targetId := uuid.New()
		target := &model.User{
			Id:          targetId,
			ModuleId:    moduleId,
			ExternalRef: "quota-target-" + uuid.New().String(),
			Name:        "Quota Target",
			Email:       "quota-target-" + uuid.New().String() + "@example.com",
			MaxRequests: 50,
			CreatedAt:   time.Now(),
		}
		db.Create(target)
		defer db.Unscoped().Delete(&model.User{}, targetId)

		quotaBody, _ := json.Marshal(dto.SetUserQuotaRequest{MaxRequests: 10})
		req := httptest.NewRequest("PUT", "/api/admin/v1/users/"+targetId.String()+"/quota", strings.NewReader(string(quotaBody)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, _ := app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var dbUser model.User
		db.First(&dbUser, targetId)
		assert.Equal(t, 10, dbUser.MaxRequests)
	})

	t.Run("List Users Requires Admin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/admin/v1/users", nil)
		resp, _ := app.Test(req, -1)
		assert.Equal(t, 401, resp.StatusCode)

		req = httptest.NewRequest("GET", "/api/admin/v1/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ = app.Test(req, -1)
		assert.Equal(t, 200, resp.StatusCode)

		var listRes serverutils.Response[[]dto.UserResponse]
		json.NewDecoder(resp.Body).Decode(&listRes)

		found := false
		for _, u := range listRes.Data {
			if u.Id == adminId {
				found = true
			}
		}
		assert.True(t, found, "Admin should appear in the module user list")
	})
}
