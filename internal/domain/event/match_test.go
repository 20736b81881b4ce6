package event

import (
	"testing"

	"github.com/google/uuid"
)

func TestPairKeyCanonical(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	if PairKey(a, b) != PairKey(b, a) {
		t.Fatalf("pair key must not depend on argument order")
	}
	if PairKey(a, b) != a.String()+":"+b.String() {
		t.Fatalf("pair key should sort the smaller id first, got %s", PairKey(a, b))
	}

	x, y := OrderPair(b, a)
	if x != a || y != b {
		t.Fatalf("OrderPair(b, a) = (%s, %s), want (a, b)", x, y)
	}
}

func TestValidStatusTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{MatchStatusPending, MatchStatusSaved, true},
		{MatchStatusPending, MatchStatusDismissed, true},
		{MatchStatusPending, MatchStatusAccepted, true},
		{MatchStatusSaved, MatchStatusAccepted, true},
		{MatchStatusSaved, MatchStatusDismissed, false},
		{MatchStatusDismissed, MatchStatusSaved, false},
		{MatchStatusAccepted, MatchStatusPending, false},
		{MatchStatusStale, MatchStatusSaved, false},
	}
	for _, tc := range cases {
		if got := ValidStatusTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("ValidStatusTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIntentVectorDominant(t *testing.T) {
	v := IntentVector{IntentBuying: 0.3, IntentSelling: 0.5, IntentLearning: 0.2}
	got, ok := v.Dominant()
	if !ok || got != IntentSelling {
		t.Fatalf("Dominant = %v (%v), want selling", got, ok)
	}

	if _, ok := (IntentVector{}).Dominant(); ok {
		t.Fatalf("empty vector has no dominant intent")
	}
	if !(IntentVector{IntentBuying: 0}).Empty() {
		t.Fatalf("all-zero vector must read as empty")
	}

	// Equal weights resolve by enum order for stability.
	tie := IntentVector{IntentSelling: 0.5, IntentBuying: 0.5}
	got, _ = tie.Dominant()
	if got != IntentBuying {
		t.Fatalf("tie should resolve to enum order, got %v", got)
	}
}
