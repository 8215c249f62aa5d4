package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/hqportal/gatehouse/internal/core/domain"
)

func TestUserServiceGetSanitizes(t *testing.T) {
	store := newFakeStore()
	store.users[0].PasswordHash = "encoded-hash"
	svc := NewUserService(store)

	user, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatal("expected the password hash to be stripped")
	}
	if user.Name != "Administrateur" {
		t.Fatalf("expected Administrateur, got %s", user.Name)
	}

	if _, err := svc.Get(context.Background(), 99); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserServiceListByRole(t *testing.T) {
	store := newFakeStore()
	store.users[1].PasswordHash = "encoded-hash"
	svc := NewUserService(store)

	users, err := svc.ListByRole(context.Background(), domain.RoleResidential)
	if err != nil {
		t.Fatalf("ListByRole: %v", err)
	}
	if len(users) != 1 || users[0].Name != "Utilisateur1" {
		t.Fatalf("expected only Utilisateur1, got %+v", users)
	}
	if users[0].PasswordHash != "" {
		t.Fatal("expected the password hash to be stripped")
	}

	if _, err := svc.ListByRole(context.Background(), domain.Role("guest")); !errors.Is(err, ErrRoleUnknown) {
		t.Fatalf("expected ErrRoleUnknown, got %v", err)
	}
}

func TestUserServiceListBlocked(t *testing.T) {
	store := newFakeStore()
	store.users[2].Blocked = true
	svc := NewUserService(store)

	users, err := svc.ListBlocked(context.Background())
	if err != nil {
		t.Fatalf("ListBlocked: %v", err)
	}
	if len(users) != 1 || users[0].Name != "Utilisateur2" {
		t.Fatalf("expected only Utilisateur2, got %+v", users)
	}
}

func TestUserServiceCreate(t *testing.T) {
	store := newFakeStore()
	svc := NewUserService(store)
	ctx := context.Background()

	user, err := svc.Create(ctx, "Utilisateur3", domain.RoleCommercial)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID != 4 {
		t.Fatalf("expected id 4, got %d", user.ID)
	}
	if user.PasswordHash != "" {
		t.Fatal("new accounts start without a password")
	}

	if _, err := svc.Create(ctx, "Utilisateur3", domain.RoleCommercial); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken, got %v", err)
	}
	if _, err := svc.Create(ctx, "Utilisateur4", domain.Role("guest")); !errors.Is(err, ErrRoleUnknown) {
		t.Fatalf("expected ErrRoleUnknown, got %v", err)
	}
	if _, err := svc.Create(ctx, "   ", domain.RoleCommercial); err == nil {
		t.Fatal("expected blank name to be rejected")
	}
}

func TestConfigServiceUpdateValidates(t *testing.T) {
	store := newFakeStore()
	svc := NewConfigService(store, zaptest.NewLogger(t))
	ctx := context.Background()

	bad := domain.ServerConfiguration{MaxAuthAttempts: 0, PasswordMinLength: 8}
	if err := svc.Update(ctx, bad); err == nil {
		t.Fatal("expected invalid configuration to be rejected")
	}

	good := domain.DefaultServerConfiguration()
	good.MaxAuthAttempts = 5
	if err := svc.Update(ctx, good); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.MaxAuthAttempts != 5 {
		t.Fatalf("expected MaxAuthAttempts 5, got %d", got.MaxAuthAttempts)
	}
}
