package helpers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/NathyVZM/hashtage-backend/src/core/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func TestStatusFor_MapsSentinels(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("post x: %w", helpers.ErrNotFound), fiber.StatusNotFound},
		{fmt.Errorf("bad text: %w", helpers.ErrValidation), fiber.StatusBadRequest},
		{fmt.Errorf("username: %w", helpers.ErrDuplicate), fiber.StatusConflict},
		{fmt.Errorf("storage: %w", helpers.ErrDependency), fiber.StatusBadGateway},
		{fmt.Errorf("something else"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := helpers.StatusFor(tc.err); got != tc.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestHandleSuccess_Envelope(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return helpers.HandleSuccess(c, fiber.StatusOK, "done", fiber.Map{"value": 42})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var envelope map[string]interface{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if envelope["status"] != "success" {
		t.Errorf("status field = %v", envelope["status"])
	}
	if envelope["error"] != nil {
		t.Errorf("error field = %v, want null", envelope["error"])
	}
}

func TestHandleAppError_UsesMappedStatus(t *testing.T) {
	app := fiber.New()
	app.Get("/missing", func(c *fiber.Ctx) error {
		return helpers.HandleAppError(c, "not here", fmt.Errorf("post: %w", helpers.ErrNotFound))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var envelope map[string]interface{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if envelope["status"] != "error" {
		t.Errorf("status field = %v", envelope["status"])
	}
	if envelope["data"] != nil {
		t.Errorf("data field = %v, want null", envelope["data"])
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := errors.New(`ERROR: duplicate key value violates unique constraint "idx_likes_user_post" (SQLSTATE 23505)`)
	if !helpers.IsUniqueViolation(dup) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", dup)
	}
	if !helpers.IsUniqueViolation(fmt.Errorf("creating row: %w", gorm.ErrDuplicatedKey)) {
		t.Error("IsUniqueViolation(wrapped ErrDuplicatedKey) = false, want true")
	}
	if helpers.IsUniqueViolation(nil) {
		t.Error("IsUniqueViolation(nil) = true, want false")
	}
	if helpers.IsUniqueViolation(errors.New("connection refused")) {
		t.Error("IsUniqueViolation(unrelated error) = true, want false")
	}
}
