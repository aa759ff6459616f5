package credstore

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sydlexius/discogs/internal/database"
	"github.com/sydlexius/discogs/internal/encryption"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenAndMigrate(context.Background(), filepath.Join(t.TempDir(), "credentials.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testSealer(t *testing.T) *encryption.Sealer {
	t.Helper()
	key, err := encryption.RandomKey()
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	sealer, err := encryption.NewSealer(key)
	if err != nil {
		t.Fatalf("creating sealer: %v", err)
	}
	return sealer
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	return New(setupTestDB(t), testSealer(t))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, Credentials{
		Username:    "rodneyfool",
		ConsumerKey: "ck",
		Token:       "tok",
		TokenSecret: "sec",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Profile != DefaultProfile {
		t.Errorf("profile = %q, want %q", saved.Profile, DefaultProfile)
	}
	if saved.ID == "" {
		t.Error("expected generated id")
	}
	if saved.CreatedAt.IsZero() {
		t.Error("expected created_at")
	}

	got, err := s.Load(ctx, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Token != "tok" || got.TokenSecret != "sec" || got.Username != "rodneyfool" {
		t.Errorf("loaded %+v", got)
	}
}

func TestSecretsEncryptedAtRest(t *testing.T) {
	db := setupTestDB(t)
	s := New(db, testSealer(t))
	ctx := context.Background()

	if _, err := s.Save(ctx, Credentials{Token: "plain-token", TokenSecret: "plain-secret"}); err != nil {
		t.Fatal(err)
	}
	var token, secret string
	if err := db.QueryRowContext(ctx, "SELECT token, token_secret FROM credentials").Scan(&token, &secret); err != nil {
		t.Fatal(err)
	}
	if token == "plain-token" || secret == "plain-secret" {
		t.Error("credentials stored in plaintext")
	}
}

func TestSwappedCiphertextRejected(t *testing.T) {
	db := setupTestDB(t)
	s := New(db, testSealer(t))
	ctx := context.Background()

	if _, err := s.Save(ctx, Credentials{Profile: "home", Token: "home-token", TokenSecret: "home-secret"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(ctx, Credentials{Profile: "shop", Token: "shop-token", TokenSecret: "shop-secret"}); err != nil {
		t.Fatal(err)
	}
	_, err := db.ExecContext(ctx, `
		UPDATE credentials SET token = (SELECT token FROM credentials WHERE profile = 'home')
		WHERE profile = 'shop'`)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Load(ctx, "shop"); !errors.Is(err, encryption.ErrDecrypt) {
		t.Errorf("err = %v, want ErrDecrypt", err)
	}
	if got, err := s.Load(ctx, "home"); err != nil || got.Token != "home-token" {
		t.Errorf("home = %+v, %v", got, err)
	}
}

func TestSaveReplacesKeepingID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, Credentials{Profile: "work", Token: "a", TokenSecret: "b"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Save(ctx, Credentials{Profile: "work", Token: "c", TokenSecret: "d"})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != second.ID {
		t.Errorf("id changed on update: %s -> %s", first.ID, second.ID)
	}
	if second.Token != "c" {
		t.Errorf("token = %q, want c", second.Token)
	}
}

func TestSaveRequiresToken(t *testing.T) {
	s := setupTestStore(t)
	if _, err := s.Save(context.Background(), Credentials{Token: "only"}); err == nil {
		t.Error("expected error without token secret")
	}
}

func TestLoadMissing(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.Load(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListAndDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"zeta", "alpha"} {
		if _, err := s.Save(ctx, Credentials{Profile: p, Token: "t", TokenSecret: "s"}); err != nil {
			t.Fatal(err)
		}
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Profile != "alpha" || list[1].Profile != "zeta" {
		t.Fatalf("List = %+v", list)
	}

	if err := s.Delete(ctx, "alpha"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "alpha"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
	list, _ = s.List(ctx)
	if len(list) != 1 {
		t.Errorf("len after delete = %d", len(list))
	}
}

func TestUnlock(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	s, err := Unlock(ctx, db, "hunter2")
	if err != nil {
		t.Fatalf("first Unlock: %v", err)
	}
	if _, err := s.Save(ctx, Credentials{Token: "t", TokenSecret: "s"}); err != nil {
		t.Fatal(err)
	}

	again, err := Unlock(ctx, db, "hunter2")
	if err != nil {
		t.Fatalf("second Unlock: %v", err)
	}
	got, err := again.Load(ctx, DefaultProfile)
	if err != nil || got.Token != "t" {
		t.Errorf("Load after unlock = %+v, %v", got, err)
	}

	if _, err := Unlock(ctx, db, "wrong"); !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("wrong passphrase err = %v", err)
	}
	if _, err := Unlock(ctx, db, ""); err == nil {
		t.Error("expected error for empty passphrase")
	}
}
