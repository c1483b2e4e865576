package session

import (
	"errors"
	"testing"
	"time"
)

func TestSession_New(t *testing.T) {
	expiresAt := time.Now().Add(24 * time.Hour)
	sess := New("test-id", "test-token", expiresAt)

	if sess.ID != "test-id" {
		t.Errorf("ID = %q, want %q", sess.ID, "test-id")
	}
	if sess.Token != "test-token" {
		t.Errorf("Token = %q, want %q", sess.Token, "test-token")
	}
	if !sess.IsNew() {
		t.Error("IsNew() = false, want true")
	}
	if !sess.IsDirty() {
		t.Error("IsDirty() = false, want true")
	}
	if sess.IsExpired() {
		t.Error("IsExpired() = true for fresh session")
	}
}

func TestSession_Values(t *testing.T) {
	sess := New("id", "token", time.Now().Add(time.Hour))
	sess.saved()

	sess.SetValue("key", "value")
	if !sess.IsDirty() {
		t.Error("SetValue should mark session as dirty")
	}

	sess.saved()
	sess.DeleteValue("missing")
	if sess.IsDirty() {
		t.Error("DeleteValue of a missing key should not mark session as dirty")
	}

	if got := ValueOr(sess, "key", "default"); got != "value" {
		t.Errorf("ValueOr = %q, want %q", got, "value")
	}
	if got := ValueOr(sess, "key", 42); got != 42 {
		t.Errorf("ValueOr with wrong type = %d, want 42", got)
	}
	if _, err := Value[int](sess, "key"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Value[int] error = %v, want ErrTypeMismatch", err)
	}
	if _, err := Value[string](nil, "key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Value on nil session error = %v, want ErrNotFound", err)
	}
}

func TestSession_Flash(t *testing.T) {
	sess := New("id", "token", time.Now().Add(time.Hour))

	sess.AddFlash("error", "first")
	sess.AddFlash("error", "second")
	sess.AddFlash("notice", "hello")

	if !sess.HasFlash("") || !sess.HasFlash("notice") || sess.HasFlash("warning") {
		t.Fatal("HasFlash reports wrong state")
	}

	peek := sess.Flashes("error", false)
	if len(peek["error"]) != 2 {
		t.Fatalf("peek error messages = %v", peek["error"])
	}
	if !sess.HasFlash("error") {
		t.Error("Flashes without remove must keep messages")
	}

	all := sess.Flashes("", true)
	if len(all) != 2 || all["notice"][0] != "hello" {
		t.Errorf("Flashes(\"\", true) = %v", all)
	}
	if sess.HasFlash("") {
		t.Error("Flashes with remove must drop messages")
	}
}

func TestSession_CloneIsolation(t *testing.T) {
	sess := New("id", "token", time.Now().Add(time.Hour))
	sess.SetValue("k", "v")
	sess.AddFlash("success", "saved")

	c := sess.clone()
	c.SetValue("k", "changed")
	c.Flash["success"][0] = "changed"

	if sess.Values["k"] != "v" || sess.Flash["success"][0] != "saved" {
		t.Error("clone shares state with the original")
	}
}
