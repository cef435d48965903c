package item

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/chanwit-mk/marketplace-backend/internal/category"
)

func newCatalogApp() *fiber.App {
	repo := NewInMemoryRepository([]Item{
		{ID: 1, Name: "Desk Lamp", Description: "warm led light", Price: decimal.NewFromInt(25),
			Categories: []category.Category{{ID: 2, Name: "Home"}}, IsActive: true},
		{ID: 2, Name: "Mug", Description: "ceramic", Price: decimal.NewFromInt(8),
			Categories: []category.Category{{ID: 3, Name: "Kitchen"}}, IsActive: true},
	})
	app := fiber.New()
	NewHandler(NewService(repo, nil)).RegisterPublicRoutes(app)
	return app
}

func get(t *testing.T, app *fiber.App, target string) (int, string) {
	t.Helper()
	res, err := app.Test(httptest.NewRequest("GET", target, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestSearchRoute(t *testing.T) {
	app := newCatalogApp()

	status, body := get(t, app, "/api/search?query=lamp")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(body, "Desk Lamp") || strings.Contains(body, "Mug") {
		t.Fatalf("unexpected search result: %s", body)
	}

	// categories narrow the match, comma separated
	status, body = get(t, app, "/api/search?categories=3")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if strings.Contains(body, "Desk Lamp") || !strings.Contains(body, "Mug") {
		t.Fatalf("unexpected search result: %s", body)
	}

	status, body = get(t, app, "/api/search")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(body, "Desk Lamp") || !strings.Contains(body, "Mug") {
		t.Fatalf("empty query must return the whole catalog: %s", body)
	}

	status, body = get(t, app, "/api/search?categories=home")
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for a non-numeric category id, got %d: %s", status, body)
	}
}
