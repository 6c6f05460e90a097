package ctxmeta_test

import (
	"context"
	"testing"

	"github.com/Gunvolt24/wb_tickets/pkg/ctxmeta"
)

func TestWithRequestID_PutAndGet(t *testing.T) {
	parent := context.Background()

	ctx := ctxmeta.WithRequestID(parent, "req-123")
	got, ok := ctxmeta.RequestIDFromContext(ctx)
	if !ok || got != "req-123" {
		t.Fatalf("want ok=true, id=req-123; got ok=%v id=%q", ok, got)
	}

	// Родитель не должен содержать request_id
	if _, parentOk := ctxmeta.RequestIDFromContext(parent); parentOk {
		t.Fatalf("parent context must not contain request_id")
	}
}

func TestWithRequestID_EmptyID_NoChange(t *testing.T) {
	parent := context.Background()
	ctx := ctxmeta.WithRequestID(parent, "")
	if ctx != parent {
		t.Fatalf("WithRequestID with empty id must return the same ctx")
	}
}

func TestWithRequestID_NilCtx(t *testing.T) {
	var nilCtx context.Context
	ctx := ctxmeta.WithRequestID(nilCtx, "req-1")
	if ctx != nil {
		t.Fatalf("WithRequestID(nil, ...) must return nil")
	}
	id, ok := ctxmeta.RequestIDFromContext(nilCtx)
	if ok || id != "" {
		t.Fatalf("RequestIDFromContext(nil) must be empty/false, got id=%q ok=%v", id, ok)
	}
}

func TestWithAccountID(t *testing.T) {
	ctx := ctxmeta.WithAccountID(context.Background(), 42)
	got, ok := ctxmeta.AccountIDFromContext(ctx)
	if !ok || got != 42 {
		t.Fatalf("want 42/true, got %d/%v", got, ok)
	}

	// неположительный id в контекст не попадает
	parent := context.Background()
	if ctxmeta.WithAccountID(parent, 0) != parent {
		t.Fatalf("WithAccountID(0) must return the same ctx")
	}
	if _, ok := ctxmeta.AccountIDFromContext(parent); ok {
		t.Fatalf("background must not contain account_id")
	}
}
