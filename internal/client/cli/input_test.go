package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if !strings.HasPrefix(out.String(), "Name?") {
		t.Fatalf("prompt not written: %q", out.String())
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEmptyEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader(""))
	var out bytes.Buffer
	if _, err := GetSimpleText(in, "Name?", &out); err == nil {
		t.Fatal("expected EOF error")
	}
}

func TestGetSecret(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte("0xabc"), nil }

	var out bytes.Buffer
	got, err := GetSecret(&out, "Key")
	if err != nil || string(got) != "0xabc" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if out.String() != "Key: \n" {
		t.Fatalf("unexpected prompt %q", out.String())
	}
}

func TestGetSecret_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetSecret(&out, "Key")
	if err == nil {
		t.Fatal("expected error")
	}
}
