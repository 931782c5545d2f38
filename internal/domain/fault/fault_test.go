package fault_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/rollcallhq/rollcall/internal/domain/fault"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		kind fault.Kind
		want int
	}{
		{fault.Unauthenticated, http.StatusUnauthorized},
		{fault.NoActiveWorkspace, http.StatusBadRequest},
		{fault.Forbidden, http.StatusForbidden},
		{fault.NotFound, http.StatusNotFound},
		{fault.Conflict, http.StatusConflict},
		{fault.Expired, http.StatusGone},
		{fault.Invalid, http.StatusBadRequest},
		{fault.Internal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := fault.Status(c.kind); got != c.want {
			t.Errorf("Status(%d): got %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	if got := fault.KindOf(fault.New(fault.NotFound, "missing")); got != fault.NotFound {
		t.Errorf("KindOf fault error: got %d, want NotFound", got)
	}

	// Non-fault errors default to Internal.
	if got := fault.KindOf(errors.New("disk on fire")); got != fault.Internal {
		t.Errorf("KindOf plain error: got %d, want Internal", got)
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := fault.New(fault.Conflict, "duplicate code")
	outer := fmt.Errorf("redeem: %w", inner)

	if got := fault.KindOf(outer); got != fault.Conflict {
		t.Errorf("KindOf wrapped fault: got %d, want Conflict", got)
	}
}

func TestIs_MatchesByKind(t *testing.T) {
	a := fault.New(fault.Expired, "invitation has expired")
	b := fault.New(fault.Expired, "different message")

	if !errors.Is(a, b) {
		t.Error("two fault errors of the same kind should match with errors.Is")
	}
	if errors.Is(a, fault.New(fault.Conflict, "x")) {
		t.Error("fault errors of different kinds should not match")
	}
}

func TestWrap_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := fault.Wrap(fault.Internal, "membership lookup failed", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause should be reachable via errors.Is")
	}

	var fe *fault.Error
	if !errors.As(err, &fe) {
		t.Fatal("errors.As should extract *fault.Error")
	}
	if fe.Message != "membership lookup failed" {
		t.Errorf("Message: got %q", fe.Message)
	}
}
