package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/accountd/internal/domain"
)

func identityOf(u *domain.User) domain.Identity {
	return domain.Identity{UserID: u.ID, Username: u.Username}
}

func TestUserService_List(t *testing.T) {
	env := newTestEnv(t)
	alice := mustRegister(t, env, "alice", "secret1")
	mustRegister(t, env, "bob", "secret2")

	users, err := env.users.List(context.Background(), identityOf(alice))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Username != "alice" || users[1].Username != "bob" {
		t.Fatalf("unexpected order: %s, %s", users[0].Username, users[1].Username)
	}
}

func TestUserService_Get(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := mustRegister(t, env, "alice", "secret1")
	bob := mustRegister(t, env, "bob", "secret2")

	got, err := env.users.Get(ctx, identityOf(alice), bob.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Username != "bob" {
		t.Fatalf("expected bob, got %s", got.Username)
	}

	_, err = env.users.Get(ctx, identityOf(alice), 9999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_Update_Self(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := mustRegister(t, env, "alice", "secret1")

	updated, err := env.users.Update(ctx, identityOf(alice), alice.ID, "alice2", "newsecret")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Username != "alice2" {
		t.Fatalf("expected username alice2, got %s", updated.Username)
	}

	if _, err := env.auth.Login(ctx, "alice2", "newsecret"); err != nil {
		t.Fatalf("Login with new credentials: %v", err)
	}
	if _, err := env.auth.Login(ctx, "alice", "secret1"); !errors.Is(err, domain.ErrNotRegistered) {
		t.Fatalf("expected old username to be gone, got %v", err)
	}
}

func TestUserService_Update_KeepUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := mustRegister(t, env, "alice", "secret1")

	if _, err := env.users.Update(ctx, identityOf(alice), alice.ID, "alice", "newsecret"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := env.auth.Login(ctx, "alice", "newsecret"); err != nil {
		t.Fatalf("Login with new password: %v", err)
	}
}

func TestUserService_Update_Forbidden(t *testing.T) {
	env := newTestEnv(t)
	alice := mustRegister(t, env, "alice", "secret1")
	bob := mustRegister(t, env, "bob", "secret2")

	_, err := env.users.Update(context.Background(), identityOf(alice), bob.ID, "bobby", "secret3")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Update_UsernameTaken(t *testing.T) {
	env := newTestEnv(t)
	alice := mustRegister(t, env, "alice", "secret1")
	mustRegister(t, env, "bob", "secret2")

	_, err := env.users.Update(context.Background(), identityOf(alice), alice.ID, "bob", "secret1")
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUserService_Update_InvalidInput(t *testing.T) {
	env := newTestEnv(t)
	alice := mustRegister(t, env, "alice", "secret1")

	_, err := env.users.Update(context.Background(), identityOf(alice), alice.ID, "alice", "123")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := mustRegister(t, env, "alice", "secret1")

	if err := env.users.Delete(ctx, identityOf(alice), alice.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := env.db.Users().GetByID(ctx, alice.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := env.users.Delete(ctx, identityOf(alice), alice.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestUserService_Delete_Forbidden(t *testing.T) {
	env := newTestEnv(t)
	alice := mustRegister(t, env, "alice", "secret1")
	bob := mustRegister(t, env, "bob", "secret2")

	err := env.users.Delete(context.Background(), identityOf(alice), bob.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
