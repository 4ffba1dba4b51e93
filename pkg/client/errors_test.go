package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseAPIErrorDetail(t *testing.T) {
	e := parseAPIError(401, []byte(`{"detail":"Invalid credentials"}`))
	if e.Detail != "Invalid credentials" {
		t.Errorf("Detail = %q", e.Detail)
	}
	if got := e.DisplayMessage(); got != "Invalid credentials" {
		t.Errorf("DisplayMessage = %q", got)
	}
}

func TestParseAPIErrorMessage(t *testing.T) {
	e := parseAPIError(400, []byte(`{"message":"raffle is closed"}`))
	if got := e.DisplayMessage(); got != "raffle is closed" {
		t.Errorf("DisplayMessage = %q", got)
	}

	e = parseAPIError(400, []byte(`{"error":"insufficient balance"}`))
	if got := e.DisplayMessage(); got != "insufficient balance" {
		t.Errorf("DisplayMessage = %q", got)
	}
}

func TestParseAPIErrorFieldErrors(t *testing.T) {
	body := `{"email":["already taken"],"password":["too short","too common"]}`
	e := parseAPIError(400, []byte(body))
	if len(e.FieldErrors) != 2 {
		t.Fatalf("FieldErrors = %+v", e.FieldErrors)
	}
	// First field in sorted order wins.
	if got := e.DisplayMessage(); got != "email: already taken" {
		t.Errorf("DisplayMessage = %q", got)
	}
}

func TestParseAPIErrorDetailWinsOverFields(t *testing.T) {
	body := `{"detail":"not allowed","email":["already taken"]}`
	e := parseAPIError(403, []byte(body))
	if got := e.DisplayMessage(); got != "not allowed" {
		t.Errorf("DisplayMessage = %q", got)
	}
}

func TestParseAPIErrorNonJSONBody(t *testing.T) {
	e := parseAPIError(502, []byte("  Bad Gateway\n"))
	if got := e.DisplayMessage(); got != "Bad Gateway" {
		t.Errorf("DisplayMessage = %q", got)
	}
	if e.StatusCode != 502 {
		t.Errorf("StatusCode = %d", e.StatusCode)
	}
}

func TestAPIErrorError(t *testing.T) {
	e := parseAPIError(404, []byte(`{"detail":"raffle not found"}`))
	want := "HTTP 404: raffle not found"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}

func TestMessageUnwrapsAPIError(t *testing.T) {
	inner := parseAPIError(400, []byte(`{"detail":"too late"}`))
	wrapped := fmt.Errorf("client.PurchaseTicket: %w", inner)
	if got := Message(wrapped, "fallback"); got != "too late" {
		t.Errorf("Message = %q", got)
	}
}

func TestMessageFallback(t *testing.T) {
	if got := Message(errors.New("dial tcp: refused"), "could not sign in"); got != "could not sign in" {
		t.Errorf("Message = %q", got)
	}
	empty := &APIError{StatusCode: 500}
	if got := Message(empty, "server error"); got != "server error" {
		t.Errorf("Message for empty APIError = %q", got)
	}
}

func TestIsStatus(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &APIError{StatusCode: 401})
	if !IsStatus(err, 401) {
		t.Error("IsStatus should see through wrapping")
	}
	if IsStatus(err, 404) {
		t.Error("IsStatus matched the wrong code")
	}
	if IsStatus(errors.New("plain"), 401) {
		t.Error("IsStatus matched a non-API error")
	}
}
