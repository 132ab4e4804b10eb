package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/oremus/internal/auth"
	"github.com/mmynk/oremus/internal/storage/memory"
	"github.com/mmynk/oremus/pkg/api"
)

func TestSignIn(t *testing.T) {
	ts := newMemoryServer(t)

	resp, err := ts.auth.SignIn(context.Background(), connect.NewRequest(&api.SignInRequest{
		AccessToken: "alice-access-token",
	}))
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	if resp.Msg.User.ID != alice.ID || resp.Msg.User.Email != alice.Email {
		t.Errorf("user: got %+v", resp.Msg.User)
	}

	claims, err := ts.jwt.Validate(resp.Msg.Token)
	if err != nil {
		t.Fatalf("issued token is invalid: %v", err)
	}
	if claims.UserID != alice.ID || claims.Demo {
		t.Errorf("claims: got user %q demo %v", claims.UserID, claims.Demo)
	}
}

func TestSignIn_Errors(t *testing.T) {
	ts := newMemoryServer(t)

	_, err := ts.auth.SignIn(context.Background(), connect.NewRequest(&api.SignInRequest{}))
	expectCode(t, err, connect.CodeInvalidArgument)

	_, err = ts.auth.SignIn(context.Background(), connect.NewRequest(&api.SignInRequest{AccessToken: "forged"}))
	expectCode(t, err, connect.CodeUnauthenticated)
}

func TestDemo(t *testing.T) {
	ts := newMemoryServer(t)

	resp, err := ts.auth.Demo(context.Background(), connect.NewRequest(&api.DemoRequest{}))
	if err != nil {
		t.Fatalf("Demo failed: %v", err)
	}
	if resp.Msg.User.ID != auth.DemoUserID {
		t.Errorf("expected demo user, got %q", resp.Msg.User.ID)
	}

	claims, err := ts.jwt.Validate(resp.Msg.Token)
	if err != nil {
		t.Fatalf("issued token is invalid: %v", err)
	}
	if !claims.Demo {
		t.Error("expected demo claim")
	}
}

func TestDemo_Disabled(t *testing.T) {
	ts := setupTestServer(t, memory.New(memory.WithoutLatency()), false)

	_, err := ts.auth.Demo(context.Background(), connect.NewRequest(&api.DemoRequest{}))
	expectCode(t, err, connect.CodePermissionDenied)
}
