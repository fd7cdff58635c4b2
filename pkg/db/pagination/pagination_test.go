package pagination

import (
	"errors"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	token := EncodeToken(40)
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	offset, err := DecodeToken(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if offset != 40 {
		t.Fatalf("expected offset 40, got %d", offset)
	}
}

func TestDecodeEmptyToken(t *testing.T) {
	offset, err := DecodeToken("")
	if err != nil || offset != 0 {
		t.Fatalf("expected zero offset, got %d err %v", offset, err)
	}
}

func TestDecodeGarbageToken(t *testing.T) {
	if _, err := DecodeToken("!!not-base64!!"); !errors.Is(err, ErrInvalidPageToken) {
		t.Fatalf("expected ErrInvalidPageToken, got %v", err)
	}
}

func TestNextTokenExhausted(t *testing.T) {
	if got := NextToken(20, 5, 25); got != "" {
		t.Fatalf("expected empty next token, got %q", got)
	}
	if got := NextToken(0, 20, 45); got == "" {
		t.Fatalf("expected next token for remaining rows")
	}
}

func TestLimitClamps(t *testing.T) {
	if got := (Pagination{}).Limit(); got != DefaultPageSize {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := (Pagination{PageSize: 500}).Limit(); got != MaxPageSize {
		t.Fatalf("expected max limit, got %d", got)
	}
}
