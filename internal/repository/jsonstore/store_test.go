package jsonstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/hqportal/gatehouse/internal/core/domain"
	"github.com/hqportal/gatehouse/internal/repository"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "database.json")
	store, err := Open(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store, path
}

func TestOpenSeedsInitialState(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected snapshot file to exist: %v", err)
	}

	cfg, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get config: %v", err)
	}
	if cfg != domain.DefaultServerConfiguration() {
		t.Fatalf("expected default config, got %+v", cfg)
	}

	seeds := []struct {
		id   int64
		name string
		role domain.Role
	}{
		{1, SeedAdminName, domain.RoleAdmin},
		{2, SeedResidentialName, domain.RoleResidential},
		{3, SeedCommercialName, domain.RoleCommercial},
	}
	for _, seed := range seeds {
		user, err := store.FindByName(ctx, seed.name)
		if err != nil {
			t.Fatalf("FindByName(%s): %v", seed.name, err)
		}
		if user.ID != seed.id || user.Role != seed.role {
			t.Fatalf("seed %s: expected id %d role %s, got id %d role %s",
				seed.name, seed.id, seed.role, user.ID, user.Role)
		}
		if user.PasswordHash != "" {
			t.Fatalf("seed %s: expected no password set", seed.name)
		}
		if user.Blocked || user.FailedAttempts != 0 {
			t.Fatalf("seed %s: expected clean lockout state", seed.name)
		}
	}
}

func TestStateSurvivesReopen(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()

	if err := store.SetPassword(ctx, 2, "encoded-hash"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if _, err := store.RecordFailedAttempt(ctx, 3); err != nil {
		t.Fatalf("RecordFailedAttempt: %v", err)
	}
	if _, err := store.Append(ctx, 2, domain.ActionLoginSuccess); err != nil {
		t.Fatalf("Append: %v", err)
	}
	cfg := domain.DefaultServerConfiguration()
	cfg.MaxAuthAttempts = 5
	if err := store.Update(ctx, cfg); err != nil {
		t.Fatalf("Update config: %v", err)
	}

	reopened, err := Open(path, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	user, err := reopened.FindByID(ctx, 2)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if user.PasswordHash != "encoded-hash" {
		t.Fatalf("expected password hash to survive, got %q", user.PasswordHash)
	}

	user, err = reopened.FindByID(ctx, 3)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if user.FailedAttempts != 1 {
		t.Fatalf("expected 1 failed attempt to survive, got %d", user.FailedAttempts)
	}

	entries, err := reopened.RecentForUser(ctx, 2, 0)
	if err != nil {
		t.Fatalf("RecentForUser: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != domain.ActionLoginSuccess {
		t.Fatalf("expected the audit entry to survive, got %+v", entries)
	}

	got, err := reopened.Get(ctx)
	if err != nil {
		t.Fatalf("Get config: %v", err)
	}
	if got.MaxAuthAttempts != 5 {
		t.Fatalf("expected MaxAuthAttempts 5 to survive, got %d", got.MaxAuthAttempts)
	}
}

func TestOpenRejectsMalformedSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	if _, err := Open(path, zaptest.NewLogger(t)); err == nil {
		t.Fatal("expected malformed snapshot to be rejected")
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	snapshot := `{"users":[],"logs":[],"config":{"max_auth_attempts":0,"wait_when_failed_ms":0,"password_min_length":8,"password_require_mixed_case":true,"password_require_special_and_digit":true}}`
	if err := os.WriteFile(path, []byte(snapshot), 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	if _, err := Open(path, zaptest.NewLogger(t)); err == nil {
		t.Fatal("expected invalid config to be rejected")
	}
}

func TestCreateAssignsNextID(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	user, err := store.Create(ctx, "Utilisateur3", domain.RoleResidential, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID != 4 {
		t.Fatalf("expected id 4 after the three seeds, got %d", user.ID)
	}

	if _, err := store.Create(ctx, SeedAdminName, domain.RoleAdmin, ""); !errors.Is(err, repository.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for duplicate name, got %v", err)
	}

	if _, err := store.Create(ctx, "Utilisateur4", domain.Role("guest"), ""); err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
}

func TestUnblockClearsCounter(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.RecordFailedAttempt(ctx, 2); err != nil {
			t.Fatalf("RecordFailedAttempt: %v", err)
		}
	}
	if err := store.SetBlocked(ctx, 2, true); err != nil {
		t.Fatalf("SetBlocked: %v", err)
	}

	blocked, err := store.ListBlocked(ctx)
	if err != nil {
		t.Fatalf("ListBlocked: %v", err)
	}
	if len(blocked) != 1 || blocked[0].ID != 2 {
		t.Fatalf("expected only user 2 blocked, got %+v", blocked)
	}

	if err := store.SetBlocked(ctx, 2, false); err != nil {
		t.Fatalf("SetBlocked: %v", err)
	}

	user, err := store.FindByID(ctx, 2)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if user.Blocked {
		t.Fatal("expected user to be unblocked")
	}
	if user.FailedAttempts != 0 {
		t.Fatalf("unblocking must clear the counter, got %d", user.FailedAttempts)
	}
}

func TestLookupsReturnErrNotFound(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	if _, err := store.FindByName(ctx, "nobody"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.FindByID(ctx, 99); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.RecordFailedAttempt(ctx, 99); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.SetBlocked(ctx, 99, true); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecentForUserOrdering(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	base := time.UnixMilli(1_700_000_000_000)
	clock := base
	store.WithClock(func() time.Time { return clock })

	actions := []domain.Action{
		domain.ActionLoginFail,
		domain.ActionAccountBlocked,
		domain.ActionAccountUnblocked,
		domain.ActionChangePassword,
		domain.ActionLoginSuccess,
	}
	for i, action := range actions {
		clock = base.Add(time.Duration(i) * time.Second)
		if _, err := store.Append(ctx, 1, action); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	// An entry for another user must never show up.
	if _, err := store.Append(ctx, 2, domain.ActionLoginFail); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := store.RecentForUser(ctx, 1, 3)
	if err != nil {
		t.Fatalf("RecentForUser: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	want := []domain.Action{
		domain.ActionLoginSuccess,
		domain.ActionChangePassword,
		domain.ActionAccountUnblocked,
	}
	for i, action := range want {
		if entries[i].Action != action {
			t.Fatalf("entry %d: expected %s, got %s", i, action, entries[i].Action)
		}
	}

	all, err := store.RecentForUser(ctx, 1, 0)
	if err != nil {
		t.Fatalf("RecentForUser: %v", err)
	}
	if len(all) != len(actions) {
		t.Fatalf("expected full history with n<=0, got %d entries", len(all))
	}
}

func TestRecentForUserSameMillisecond(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	frozen := time.UnixMilli(1_700_000_000_000)
	store.WithClock(func() time.Time { return frozen })

	actions := []domain.Action{
		domain.ActionAccountUnblocked,
		domain.ActionChangePassword,
		domain.ActionLoginSuccess,
	}
	for _, action := range actions {
		if _, err := store.Append(ctx, 1, action); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	entries, err := store.RecentForUser(ctx, 1, 3)
	if err != nil {
		t.Fatalf("RecentForUser: %v", err)
	}

	// Same timestamp: the later append must rank newer.
	want := []domain.Action{
		domain.ActionLoginSuccess,
		domain.ActionChangePassword,
		domain.ActionAccountUnblocked,
	}
	for i, action := range want {
		if entries[i].Action != action {
			t.Fatalf("entry %d: expected %s, got %s", i, action, entries[i].Action)
		}
	}
}

func TestConfigUpdateValidation(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	bad := domain.ServerConfiguration{
		MaxAuthAttempts:   0,
		WaitWhenFailedMs:  0,
		PasswordMinLength: 8,
	}
	if err := store.Update(ctx, bad); err == nil {
		t.Fatal("expected invalid config to be rejected")
	}

	cfg, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg != domain.DefaultServerConfiguration() {
		t.Fatalf("rejected update must not alter state, got %+v", cfg)
	}
}

func TestConcurrentFailedAttempts(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := store.RecordFailedAttempt(ctx, 1); err != nil {
				t.Errorf("RecordFailedAttempt: %v", err)
			}
		}()
	}
	wg.Wait()

	user, err := store.FindByID(ctx, 1)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if user.FailedAttempts != workers {
		t.Fatalf("expected %d attempts, got %d", workers, user.FailedAttempts)
	}
}
