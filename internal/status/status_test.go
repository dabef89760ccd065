package status

import "testing"

func TestCanTransition_AllowedTable(t *testing.T) {
	allowed := [][2]Kind{
		{Unknown, Idle}, {Unknown, Working}, {Unknown, Blocked}, {Unknown, Done}, {Unknown, Terminated},
		{Idle, Working}, {Idle, Blocked}, {Idle, Terminated},
		{Working, Idle}, {Working, Done}, {Working, Blocked}, {Working, Terminated},
		{Blocked, Idle}, {Blocked, Working}, {Blocked, Terminated},
		{Done, Idle}, {Done, Working},
		{Terminated, Idle}, {Terminated, Working},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Errorf("expected %v -> %v to be allowed", pair[0], pair[1])
		}
	}
}

func TestCanTransition_RejectsUnlistedPairs(t *testing.T) {
	rejected := [][2]Kind{
		{Idle, Idle}, {Idle, Done},
		{Done, Blocked}, {Done, Terminated}, {Done, Done},
		{Terminated, Blocked}, {Terminated, Done},
		{Blocked, Done}, {Blocked, Blocked},
		{Working, Working},
		{Unknown, Unknown},
	}
	for _, pair := range rejected {
		if CanTransition(pair[0], pair[1]) {
			t.Errorf("expected %v -> %v to be rejected", pair[0], pair[1])
		}
	}
}

func TestValidateTransition_ErrorShape(t *testing.T) {
	err := ValidateTransition(Idle, Done)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("WORKING")
	if !ok || k != Working {
		t.Errorf("expected Working, got %v ok=%v", k, ok)
	}
	if _, ok := ParseKind("nonsense"); ok {
		t.Error("expected ok=false for unrecognized keyword")
	}
}

func TestDetailPayloads(t *testing.T) {
	s := NewBlocked("waiting for review")
	if s.Kind() != Blocked || s.Detail() != "waiting for review" {
		t.Errorf("unexpected status: %+v", s)
	}
}
