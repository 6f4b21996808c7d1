package main

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/stockrakh/stockrakh/internal/config"
	"github.com/stockrakh/stockrakh/internal/imagestore"
)

func TestRun_HashPasswordArg(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"hash-password", "s3cret"}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}

func TestRun_HashPasswordStdin(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"hash-password"}, strings.NewReader("from-stdin\r\n"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("from-stdin")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}

func TestRun_HashPasswordEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"hash-password"}, strings.NewReader(""), &out); err == nil {
		t.Fatal("expected error for empty password")
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be printed, got %q", out.String())
	}
}

func TestRun_HelpAndUnknown(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"help"}, nil, &out); err != nil || !strings.Contains(out.String(), "hash-password") {
		t.Fatalf("help: %v %q", err, out.String())
	}
	if err := run([]string{"frobnicate"}, nil, &out); err == nil || !strings.Contains(err.Error(), "frobnicate") {
		t.Fatalf("unknown command error = %v", err)
	}
}

func TestNewImageStore_Local(t *testing.T) {
	dir := t.TempDir()
	s, err := newImageStore(config.ImageConfig{Store: "local", Dir: dir, BaseURL: "/media"})
	if err != nil {
		t.Fatalf("newImageStore: %v", err)
	}
	l, ok := s.(*imagestore.Local)
	if !ok || l.Dir != dir || l.BaseURL != "/media" {
		t.Fatalf("store = %#v", s)
	}
}
