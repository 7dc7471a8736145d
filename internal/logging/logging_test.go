package logging

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := ContextWithLogger(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Fatalf("expected the attached logger back, got %v", got)
	}
}

func TestFromContextWithoutLoggerReturnsNil(t *testing.T) {
	t.Parallel()

	if got := FromContext(context.Background()); got != nil {
		t.Fatalf("expected nil for a bare context, got %v", got)
	}
}

func TestContextWithLoggerIgnoresNilLogger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if derived := ContextWithLogger(ctx, nil); derived != ctx {
		t.Fatal("nil logger should leave the context untouched")
	}
}
