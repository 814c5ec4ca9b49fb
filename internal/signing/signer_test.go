package signing

import (
	"strings"
	"testing"
)

func TestSignAndVerify(t *testing.T) {
	s := NewSigner("test-secret")
	token := "0123456789abcdef"

	for _, action := range []string{ActionConfirm, ActionRefuse, ActionWaiting} {
		sig := s.Sign(token, action)
		if len(sig) != 64 {
			t.Errorf("Sign(%q) produced %d hex chars, want 64", action, len(sig))
		}
		if !s.Verify(token, action, sig) {
			t.Errorf("Verify rejected its own signature for %q", action)
		}
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	s := NewSigner("test-secret")
	token := "0123456789abcdef"
	sig := s.Sign(token, ActionConfirm)

	tests := []struct {
		name   string
		token  string
		action string
		sig    string
	}{
		{name: "wrongAction", token: token, action: ActionRefuse, sig: sig},
		{name: "wrongToken", token: "another-token", action: ActionConfirm, sig: sig},
		{name: "truncatedSig", token: token, action: ActionConfirm, sig: sig[:32]},
		{name: "emptySig", token: token, action: ActionConfirm, sig: ""},
		{name: "flippedByte", token: token, action: ActionConfirm, sig: "0" + sig[1:]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s.Verify(tt.token, tt.action, tt.sig) {
				t.Error("Verify accepted a tampered signature")
			}
		})
	}
}

func TestVerifyDependsOnSecret(t *testing.T) {
	a := NewSigner("secret-a")
	b := NewSigner("secret-b")
	sig := a.Sign("tok", ActionConfirm)
	if b.Verify("tok", ActionConfirm, sig) {
		t.Error("signature from one secret verified under another")
	}
}

func TestValidAction(t *testing.T) {
	for _, a := range []string{ActionConfirm, ActionRefuse, ActionWaiting} {
		if !ValidAction(a) {
			t.Errorf("ValidAction(%q) = false", a)
		}
	}
	for _, a := range []string{"", "cancel", "CONFIRM", "delete"} {
		if ValidAction(a) {
			t.Errorf("ValidAction(%q) = true", a)
		}
	}
}

func TestActionURL(t *testing.T) {
	s := NewSigner("test-secret")
	url := s.ActionURL("https://book.example.com", "tok123", ActionRefuse)

	wantPrefix := "https://book.example.com/api/bookings/action/tok123/refuse?sig="
	if !strings.HasPrefix(url, wantPrefix) {
		t.Fatalf("ActionURL = %q, want prefix %q", url, wantPrefix)
	}
	sig := strings.TrimPrefix(url, wantPrefix)
	if !s.Verify("tok123", ActionRefuse, sig) {
		t.Error("signature embedded in the URL does not verify")
	}
}

func TestCancelURL(t *testing.T) {
	got := CancelURL("https://book.example.com", "tok123")
	want := "https://book.example.com/api/bookings/cancel/tok123"
	if got != want {
		t.Errorf("CancelURL = %q, want %q", got, want)
	}
}
