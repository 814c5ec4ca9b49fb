package statemachine

import (
	"errors"
	"testing"

	"github.com/ematija/restaurant-reservation/internal/model"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		current string
		target  string
		want    Result
		wantErr bool
	}{
		{name: "pendingToConfirmed", current: model.StatusPending, target: model.StatusConfirmed, want: Applied},
		{name: "pendingToWaiting", current: model.StatusPending, target: model.StatusWaiting, want: Applied},
		{name: "pendingToRefused", current: model.StatusPending, target: model.StatusRefused, want: Applied},
		{name: "pendingToCancelled", current: model.StatusPending, target: model.StatusCancelled, want: Applied},
		{name: "waitingToConfirmed", current: model.StatusWaiting, target: model.StatusConfirmed, want: Applied},
		{name: "confirmedBackToWaiting", current: model.StatusConfirmed, target: model.StatusWaiting, want: Applied},
		{name: "confirmedToNoShow", current: model.StatusConfirmed, target: model.StatusNoShow, want: Applied},
		{name: "confirmedToCancelled", current: model.StatusConfirmed, target: model.StatusCancelled, want: Applied},

		// same-state requests are reported as already done, never as errors
		{name: "confirmTwice", current: model.StatusConfirmed, target: model.StatusConfirmed, want: AlreadyDone},
		{name: "cancelTwice", current: model.StatusCancelled, target: model.StatusCancelled, want: AlreadyDone},
		{name: "refuseTwice", current: model.StatusRefused, target: model.StatusRefused, want: AlreadyDone},

		// terminal states reject everything else
		{name: "confirmAfterCancel", current: model.StatusCancelled, target: model.StatusConfirmed, wantErr: true},
		{name: "confirmAfterRefuse", current: model.StatusRefused, target: model.StatusConfirmed, wantErr: true},
		{name: "cancelAfterNoShow", current: model.StatusNoShow, target: model.StatusCancelled, wantErr: true},

		// pending is an initial state and can never be re-entered
		{name: "backToPending", current: model.StatusConfirmed, target: model.StatusPending, wantErr: true},
		{name: "waitingToNoShow", current: model.StatusWaiting, target: model.StatusNoShow, wantErr: true},
		{name: "pendingToNoShow", current: model.StatusPending, target: model.StatusNoShow, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.current, tt.target)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Apply(%q, %q) expected error, got %v", tt.current, tt.target, got)
				}
				var te *TransitionError
				if !errors.As(err, &te) {
					t.Fatalf("Apply(%q, %q) error = %v, want *TransitionError", tt.current, tt.target, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply(%q, %q) unexpected error: %v", tt.current, tt.target, err)
			}
			if got != tt.want {
				t.Errorf("Apply(%q, %q) = %v, want %v", tt.current, tt.target, got, tt.want)
			}
		})
	}
}

func TestApplyUnknownStatus(t *testing.T) {
	if _, err := Apply("sitting", model.StatusConfirmed); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("unknown current status: err = %v, want ErrUnknownStatus", err)
	}
	if _, err := Apply(model.StatusPending, "archived"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("unknown target status: err = %v, want ErrUnknownStatus", err)
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []string{model.StatusRefused, model.StatusCancelled, model.StatusNoShow} {
		if !Terminal(s) {
			t.Errorf("Terminal(%q) = false, want true", s)
		}
	}
	for _, s := range []string{model.StatusPending, model.StatusWaiting, model.StatusConfirmed} {
		if Terminal(s) {
			t.Errorf("Terminal(%q) = true, want false", s)
		}
	}
	if Terminal("archived") {
		t.Error("Terminal of an unknown status must be false")
	}
}

func TestTransitionErrorMessage(t *testing.T) {
	_, err := Apply(model.StatusCancelled, model.StatusConfirmed)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "cannot change status: cancelled is a terminal state" {
		t.Errorf("unexpected terminal message: %q", got)
	}

	_, err = Apply(model.StatusWaiting, model.StatusNoShow)
	if err == nil {
		t.Fatal("expected error")
	}
	want := "cannot move booking from waiting to noshow; valid next states are: confirmed, refused, cancelled"
	if got := err.Error(); got != want {
		t.Errorf("unexpected message:\n got %q\nwant %q", got, want)
	}
}
