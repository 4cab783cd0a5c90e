//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	"family-hub-go/internal/config"
	"family-hub-go/internal/db"
	authdomain "family-hub-go/internal/domain/auth"
	dashboarddomain "family-hub-go/internal/domain/dashboard"
	familydomain "family-hub-go/internal/domain/family"
	healthcaredomain "family-hub-go/internal/domain/healthcare"
	maintenancedomain "family-hub-go/internal/domain/maintenance"
	telegramdomain "family-hub-go/internal/domain/telegram"
	userdomain "family-hub-go/internal/domain/user"
	"family-hub-go/internal/metrics"
	dashboardrepo "family-hub-go/internal/repository/postgres/dashboard"
	familyrepo "family-hub-go/internal/repository/postgres/family"
	healthcarerepo "family-hub-go/internal/repository/postgres/healthcare"
	maintenancerepo "family-hub-go/internal/repository/postgres/maintenance"
	telegramrepo "family-hub-go/internal/repository/postgres/telegram"
	userrepo "family-hub-go/internal/repository/postgres/user"
	"family-hub-go/internal/transport/httpserver"
	"family-hub-go/internal/transport/httpserver/handler"
	authmw "family-hub-go/internal/transport/httpserver/middleware"
	"family-hub-go/pkg/logger"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.New(io.Discard, slog.LevelError, "text")
	cfg := config.Config{
		Env:            "test",
		AllowedOrigins: []string{"*"},
		DB:             config.DBConfig{DSN: dsn},
		Auth:           config.AuthConfig{SecretKey: "e2e-secret", TokenExpiry: time.Hour},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	familyService := familydomain.NewService(familyrepo.NewPostgres(dbConn))
	userService := userdomain.NewService(userrepo.NewPostgres(dbConn))
	tokens := authdomain.NewTokenManager(cfg.Auth.SecretKey, cfg.Auth.TokenExpiry)
	authService := authdomain.NewService(userService, familyService, tokens)
	healthcareService := healthcaredomain.NewService(healthcarerepo.NewPostgres(dbConn))
	maintenanceService := maintenancedomain.NewService(maintenancerepo.NewPostgres(dbConn))
	dashboardService := dashboarddomain.NewService(dashboardrepo.NewPostgres(dbConn))
	assistant := telegramdomain.NewAssistant(healthcareService, maintenanceService, dashboardService)
	telegramService := telegramdomain.NewService(telegramrepo.NewPostgres(dbConn), userService, telegramdomain.NewBotClient(), assistant, log, "", time.Minute)

	handlers := handler.New(authService, userService, familyService, healthcareService, maintenanceService, dashboardService, telegramService, log)
	router := httpserver.NewRouter(cfg, handlers, authmw.NewAuth(authService, log), authmw.NewTenancy(familyService, log), metrics.New())

	return &testEnv{server: httptest.NewServer(router), db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	tables := []string{
		"telegram_link_codes",
		"telegram_user_links",
		"telegram_ai_configs",
		"telegram_bot_configs",
		"dashboard_preferences",
		"maintenance_orders",
		"equipment",
		"medications",
		"medical_procedures",
		"medical_appointments",
		"family_members",
		"user_profiles",
		"user_families",
		"users",
		"families",
	}
	for _, table := range tables {
		if err := dbConn.Exec("delete from " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			// List endpoints return arrays; wrap them for uniform access.
			var list []any
			if err := json.Unmarshal(raw, &list); err != nil {
				t.Fatalf("decode body %q: %v", raw, err)
			}
			decoded = map[string]any{"items": list}
		}
	}
	return resp.StatusCode, decoded
}

func (e *testEnv) register(t *testing.T, username string, extra map[string]any) (string, map[string]any) {
	t.Helper()
	body := map[string]any{
		"username":   username,
		"password":   "secret123",
		"first_name": "Test",
	}
	for k, v := range extra {
		body[k] = v
	}
	status, resp := e.request(t, http.MethodPost, "/api/v1/auth/register", "", body)
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %v", username, status, resp)
	}
	token, _ := resp["token"].(string)
	account, _ := resp["user"].(map[string]any)
	if token == "" || account == nil {
		t.Fatalf("register %s: incomplete response %v", username, resp)
	}
	return token, account
}

func TestRegisterProvisionsFamilyAndLogin(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	token, account := env.register(t, "joao", nil)
	if account["family_id"] == nil || account["family_id"] == "" {
		t.Fatalf("expected auto-provisioned family, got %v", account["family_id"])
	}

	status, me := env.request(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("me: status %d", status)
	}
	if me["username"] != "joao" {
		t.Fatalf("me: unexpected username %v", me["username"])
	}

	status, login := env.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "joao",
		"password": "secret123",
	})
	if status != http.StatusOK {
		t.Fatalf("login: status %d, body %v", status, login)
	}

	status, _ = env.request(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"username": "joao",
		"password": "wrong",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d", status)
	}
}

func TestJoinFamilyByCode(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	tokenA, accountA := env.register(t, "ana", nil)

	status, families := env.request(t, http.MethodGet, "/api/v1/families/accessible", tokenA, nil)
	if status != http.StatusOK {
		t.Fatalf("accessible families: status %d", status)
	}
	items, _ := families["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one accessible family, got %v", families)
	}
	code, _ := items[0].(map[string]any)["code"].(string)
	if len(code) != 8 {
		t.Fatalf("expected 8-char join code, got %q", code)
	}

	status, lookup := env.request(t, http.MethodGet, "/api/v1/families/code/"+code, "", nil)
	if status != http.StatusOK {
		t.Fatalf("code lookup: status %d, body %v", status, lookup)
	}

	_, accountB := env.register(t, "bruno", map[string]any{"family_code": code})
	if accountB["family_id"] != accountA["family_id"] {
		t.Fatalf("expected shared family, got %v vs %v", accountB["family_id"], accountA["family_id"])
	}
}

func TestFamilyScopedResources(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	token, _ := env.register(t, "carla", nil)

	status, member := env.request(t, http.MethodPost, "/api/v1/members", token, map[string]any{
		"name":       "Pedro",
		"birth_date": "2015-03-10",
	})
	if status != http.StatusCreated {
		t.Fatalf("create member: status %d, body %v", status, member)
	}
	memberID, _ := member["id"].(string)

	status, appointment := env.request(t, http.MethodPost, "/api/v1/appointments", token, map[string]any{
		"family_member_id": memberID,
		"doctor_name":      "Dra. Lima",
		"specialty":        "Pediatria",
		"appointment_date": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"reason":           "rotina",
	})
	if status != http.StatusCreated {
		t.Fatalf("create appointment: status %d, body %v", status, appointment)
	}

	status, equipment := env.request(t, http.MethodPost, "/api/v1/equipment", token, map[string]any{
		"name": "Geladeira",
		"type": "eletrodomestico",
	})
	if status != http.StatusCreated {
		t.Fatalf("create equipment: status %d, body %v", status, equipment)
	}
	equipmentID, _ := equipment["id"].(string)

	status, order := env.request(t, http.MethodPost, "/api/v1/maintenance-orders", token, map[string]any{
		"equipment_id": equipmentID,
		"title":        "Troca da borracha",
		"description":  "porta não veda",
	})
	if status != http.StatusCreated {
		t.Fatalf("create order: status %d, body %v", status, order)
	}
	if order["status"] != "PENDENTE" {
		t.Fatalf("expected default order status PENDENTE, got %v", order["status"])
	}

	status, summary := env.request(t, http.MethodGet, "/api/v1/dashboard/summary", token, nil)
	if status != http.StatusOK {
		t.Fatalf("dashboard summary: status %d", status)
	}
	if fmt.Sprint(summary["total_members"]) != "1" {
		t.Fatalf("expected 1 member in summary, got %v", summary)
	}
	if fmt.Sprint(summary["upcoming_appointments"]) != "1" {
		t.Fatalf("expected 1 upcoming appointment, got %v", summary)
	}
}

func TestTenantIsolation(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	tokenA, _ := env.register(t, "diego", nil)
	tokenB, _ := env.register(t, "elisa", nil)

	status, member := env.request(t, http.MethodPost, "/api/v1/members", tokenA, map[string]any{
		"name":       "Lia",
		"birth_date": "2018-07-01",
	})
	if status != http.StatusCreated {
		t.Fatalf("create member: status %d", status)
	}
	memberID, _ := member["id"].(string)

	status, list := env.request(t, http.MethodGet, "/api/v1/members", tokenB, nil)
	if status != http.StatusOK {
		t.Fatalf("list members: status %d", status)
	}
	if items, _ := list["items"].([]any); len(items) != 0 {
		t.Fatalf("expected empty member list across tenants, got %v", items)
	}

	status, _ = env.request(t, http.MethodGet, "/api/v1/members/"+memberID, tokenB, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign member, got %d", status)
	}
}

func TestStaffOnlyAdministration(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	token, _ := env.register(t, "fabio", nil)

	status, _ := env.request(t, http.MethodGet, "/api/v1/users", token, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-staff user listing, got %d", status)
	}

	status, _ = env.request(t, http.MethodPost, "/api/v1/families", token, map[string]any{"name": "Nova"})
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-staff family create, got %d", status)
	}
}
