package context

import (
	"context"
	"testing"

	"github.com/jdziat/apigen/pkg/core"
)

func TestWithRequestAndGetRequest(t *testing.T) {
	t.Run("stores and retrieves request", func(t *testing.T) {
		// Arrange
		baseCtx := context.Background()
		req := core.Request{Format: "json", Version: 1, Module: "users", Method: "list"}

		// Act
		ctx := WithRequest(baseCtx, req)
		retrieved, ok := GetRequest(ctx)

		// Assert
		if !ok {
			t.Fatal("expected request to be set")
		}
		if retrieved != req {
			t.Errorf("expected %v, got %v", req, retrieved)
		}
	})

	t.Run("reports absence when request not set", func(t *testing.T) {
		// Act
		_, ok := GetRequest(context.Background())

		// Assert
		if ok {
			t.Error("expected no request")
		}
	})

	t.Run("overwrites previous request", func(t *testing.T) {
		// Arrange
		ctx := WithRequest(context.Background(), core.Request{Module: "users"})

		// Act
		ctx = WithRequest(ctx, core.Request{Module: "orders"})
		retrieved, _ := GetRequest(ctx)

		// Assert
		if retrieved.Module != "orders" {
			t.Errorf("expected module %q, got %q", "orders", retrieved.Module)
		}
	})
}

func TestWithRequestIDAndGetRequestID(t *testing.T) {
	t.Run("stores and retrieves id", func(t *testing.T) {
		// Act
		ctx := WithRequestID(context.Background(), "req-1")

		// Assert
		if got := GetRequestID(ctx); got != "req-1" {
			t.Errorf("expected %q, got %q", "req-1", got)
		}
	})

	t.Run("returns empty string when not set", func(t *testing.T) {
		if got := GetRequestID(context.Background()); got != "" {
			t.Errorf("expected empty id, got %q", got)
		}
	})

	t.Run("id and request are independent", func(t *testing.T) {
		// Arrange
		ctx := WithRequestID(context.Background(), "req-2")

		// Act
		ctx = WithRequest(ctx, core.Request{Module: "users"})

		// Assert
		if got := GetRequestID(ctx); got != "req-2" {
			t.Errorf("expected %q, got %q", "req-2", got)
		}
	})
}
