package user

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func makeUserApp(h *Handler) *fiber.App {
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				claims := jwt.MapClaims{"user_id": id}
				if role := c.Get("X-Role"); role != "" {
					claims["role"] = role
				}
				if mode := c.Get("X-Mode"); mode != "" {
					claims["mode"] = mode
				}
				c.Locals("user", &jwt.Token{Claims: claims})
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	h.RegisterAdminRoutes(app, RequireMode(RoleAdmin))
	return app
}

func do(app *fiber.App, method, target, body string, headers map[string]string) (int, string) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, _ := app.Test(req)
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestRegisterAndLogin(t *testing.T) {
	service := NewService(NewInMemoryRepository(nil))
	app := makeUserApp(NewHandler(service, testSecret))

	payload := `{"email":"ada@example.com","password":"s3cret","first_name":"Ada","last_name":"Lovelace"}`
	status, body := do(app, "POST", "/api/register", payload, nil)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201 for register, got %d: %s", status, body)
	}
	if strings.Contains(body, "s3cret") {
		t.Fatalf("password leaked in response: %s", body)
	}
	if !strings.Contains(body, `"role":"customer"`) {
		t.Fatalf("expected default customer role, got %s", body)
	}

	// duplicate email
	status, _ = do(app, "POST", "/api/register", payload, nil)
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", status)
	}

	status, _ = do(app, "POST", "/api/login", `{"email":"ada@example.com","password":"wrong"}`, nil)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", status)
	}

	status, body = do(app, "POST", "/api/login", `{"email":"ada@example.com","password":"s3cret"}`, nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 for login, got %d: %s", status, body)
	}

	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(body), &res); err != nil || res.Token == "" {
		t.Fatalf("expected a token in login response: %s", body)
	}

	// a fresh session always starts in customer mode
	claims := parseClaims(t, res.Token)
	if claims["mode"] != "customer" {
		t.Fatalf("expected customer mode claim, got %v", claims["mode"])
	}
}

func parseClaims(t *testing.T, raw string) jwt.MapClaims {
	t.Helper()
	tok, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return []byte(testSecret), nil })
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("unexpected claims type")
	}
	return claims
}

func TestSwitchMode(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)
	app := makeUserApp(NewHandler(service, testSecret))

	u, err := service.Register(User{Email: "m@example.com", Password: "pw", FirstName: "M", LastName: "N"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// a plain customer cannot enter merchant mode
	status, _ := do(app, "POST", "/api/mode", `{"mode":"merchant"}`,
		map[string]string{"X-User-ID": strconv.Itoa(u.ID), "X-Role": "customer", "X-Mode": "customer"})
	if status != fiber.StatusForbidden {
		t.Fatalf("expected 403 for customer requesting merchant mode, got %d", status)
	}

	if _, err := service.GrantRole(u.ID, RoleMerchant); err != nil {
		t.Fatalf("granting role failed: %v", err)
	}

	status, body := do(app, "POST", "/api/mode", `{"mode":"merchant"}`,
		map[string]string{"X-User-ID": strconv.Itoa(u.ID), "X-Role": "merchant", "X-Mode": "customer"})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 for merchant mode switch, got %d: %s", status, body)
	}

	var res struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(body), &res); err != nil || res.Token == "" {
		t.Fatalf("expected a token in switch response: %s", body)
	}
	claims := parseClaims(t, res.Token)
	if claims["mode"] != "merchant" {
		t.Fatalf("expected merchant mode claim, got %v", claims["mode"])
	}

	// an unknown mode is rejected regardless of role
	status, _ = do(app, "POST", "/api/mode", `{"mode":"superuser"}`,
		map[string]string{"X-User-ID": strconv.Itoa(u.ID), "X-Role": "merchant", "X-Mode": "customer"})
	if status != fiber.StatusForbidden {
		t.Fatalf("expected 403 for unknown mode, got %d", status)
	}
}

func TestRequireMode(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		claims := jwt.MapClaims{}
		if role := c.Get("X-Role"); role != "" {
			claims["role"] = role
		}
		if mode := c.Get("X-Mode"); mode != "" {
			claims["mode"] = mode
		}
		c.Locals("user", &jwt.Token{Claims: claims})
		return c.Next()
	})
	app.Get("/guarded", RequireMode(RoleMerchant), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	cases := []struct {
		role, mode string
		want       int
	}{
		{"", "", fiber.StatusUnauthorized},
		{"customer", "customer", fiber.StatusForbidden},
		{"merchant", "customer", fiber.StatusForbidden},
		{"merchant", "merchant", fiber.StatusOK},
		{"admin", "merchant", fiber.StatusOK},
	}
	for _, tc := range cases {
		headers := map[string]string{}
		if tc.role != "" {
			headers["X-Role"] = tc.role
		}
		if tc.mode != "" {
			headers["X-Mode"] = tc.mode
		}
		status, _ := do(app, "GET", "/guarded", "", headers)
		if status != tc.want {
			t.Errorf("role=%q mode=%q: expected %d, got %d", tc.role, tc.mode, tc.want, status)
		}
	}
}

func TestCanUseMode(t *testing.T) {
	cases := []struct {
		role, mode string
		want       bool
	}{
		{RoleCustomer, RoleCustomer, true},
		{RoleCustomer, RoleMerchant, false},
		{RoleCustomer, RoleAdmin, false},
		{RoleMerchant, RoleCustomer, true},
		{RoleMerchant, RoleMerchant, true},
		{RoleMerchant, RoleAdmin, false},
		{RoleAdmin, RoleCustomer, true},
		{RoleAdmin, RoleMerchant, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, "owner", false},
	}
	for _, tc := range cases {
		u := User{Role: tc.role}
		if got := u.CanUseMode(tc.mode); got != tc.want {
			t.Errorf("CanUseMode(%s -> %s) = %v, want %v", tc.role, tc.mode, got, tc.want)
		}
	}
}
