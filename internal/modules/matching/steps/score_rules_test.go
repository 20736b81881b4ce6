package steps

import (
	"math"
	"testing"

	domevent "github.com/forumhive/forumhive-backend/internal/domain/event"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestIntentScoreComplementaryPairs(t *testing.T) {
	cases := []struct {
		name string
		a, b domevent.IntentVector
		want float64
	}{
		{
			name: "buyer and seller score high",
			a:    domevent.IntentVector{domevent.IntentBuying: 1},
			b:    domevent.IntentVector{domevent.IntentSelling: 1},
			want: 95,
		},
		{
			name: "investor and partner score high",
			a:    domevent.IntentVector{domevent.IntentInvesting: 1},
			b:    domevent.IntentVector{domevent.IntentPartnering: 1},
			want: 85,
		},
		{
			name: "two sellers score low",
			a:    domevent.IntentVector{domevent.IntentSelling: 1},
			b:    domevent.IntentVector{domevent.IntentSelling: 1},
			want: 25,
		},
		{
			name: "two networkers score moderate",
			a:    domevent.IntentVector{domevent.IntentNetworking: 1},
			b:    domevent.IntentVector{domevent.IntentNetworking: 1},
			want: 60,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := IntentScore(tc.a, tc.b)
			if !got.Present {
				t.Fatalf("expected present score")
			}
			if !almostEqual(got.Value, tc.want) {
				t.Fatalf("IntentScore = %v, want %v", got.Value, tc.want)
			}
		})
	}
}

func TestIntentScoreEmptyVectorIsNeutral(t *testing.T) {
	got := IntentScore(domevent.IntentVector{}, domevent.IntentVector{domevent.IntentBuying: 1})
	if !got.Present {
		t.Fatalf("missing intent data must still produce a defined score")
	}
	if got.Value != NeutralScore {
		t.Fatalf("IntentScore = %v, want neutral %v", got.Value, NeutralScore)
	}
}

func TestIntentScoreMixedDistributions(t *testing.T) {
	a := domevent.IntentVector{domevent.IntentBuying: 0.5, domevent.IntentNetworking: 0.5}
	b := domevent.IntentVector{domevent.IntentSelling: 1}
	// 0.5*95 (buying/selling) + 0.5*45 (networking/selling), normalized.
	got := IntentScore(a, b)
	if !almostEqual(got.Value, 70) {
		t.Fatalf("IntentScore = %v, want 70", got.Value)
	}
}

func TestIndustryScore(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"exact match", "Fintech", "Fintech", 100},
		{"case and whitespace insensitive", " Fintech ", "fintech", 100},
		{"one side unknown is neutral", "Fintech", "", NeutralScore},
		{"both unknown is neutral", "", "", NeutralScore},
		{"adjacent industries", "Fintech", "Banking", 70},
		{"unrelated industries", "Fintech", "Agriculture", 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := IndustryScore(tc.a, tc.b)
			if got.Value != tc.want {
				t.Fatalf("IndustryScore(%q, %q) = %v, want %v", tc.a, tc.b, got.Value, tc.want)
			}
		})
	}
}

func TestInterestScoreNormalizesBySmallerSet(t *testing.T) {
	a := NormalizeTagSet([]string{"Sales"})
	b := NormalizeTagSet([]string{"Sales", "Marketing"})
	got := InterestScore(a, b)
	if got.Value != 100 {
		t.Fatalf("overlap 1 of min(1,2) should be 100, got %v", got.Value)
	}

	c := NormalizeTagSet([]string{"Sales", "Ops", "Hiring", "AI"})
	d := NormalizeTagSet([]string{"Sales", "AI"})
	got = InterestScore(c, d)
	if got.Value != 100 {
		t.Fatalf("full overlap of the smaller set should be 100, got %v", got.Value)
	}

	e := NormalizeTagSet([]string{"Sales", "Ops"})
	f := NormalizeTagSet([]string{"AI", "Ops"})
	got = InterestScore(e, f)
	if got.Value != 50 {
		t.Fatalf("overlap 1 of min(2,2) should be 50, got %v", got.Value)
	}
}

func TestInterestScoreEmptySetIsNeutral(t *testing.T) {
	got := InterestScore(NormalizeTagSet(nil), NormalizeTagSet([]string{"sales"}))
	if got.Value != NeutralScore {
		t.Fatalf("empty tag set should be neutral, got %v", got.Value)
	}
}

func TestComplementarityScore(t *testing.T) {
	a := &domevent.Participant{CompanySizeBucket: "1-10"}
	b := &domevent.Participant{CompanySizeBucket: "1000+"}
	va := domevent.IntentVector{domevent.IntentBuying: 1}
	vb := domevent.IntentVector{domevent.IntentSelling: 1}
	got := ComplementarityScore(a, b, va, vb)
	// Max size distance (100) and complementary asymmetry (100).
	if got.Value != 100 {
		t.Fatalf("ComplementarityScore = %v, want 100", got.Value)
	}

	identical := &domevent.Participant{CompanySizeBucket: "11-50"}
	got = ComplementarityScore(identical, identical, va, va)
	// Zero size distance and same-intent asymmetry 20.
	if got.Value != 10 {
		t.Fatalf("ComplementarityScore = %v, want 10", got.Value)
	}
}

func TestEmbeddingScore(t *testing.T) {
	if got := EmbeddingScore(nil, []float32{1, 0}); got.Present {
		t.Fatalf("missing vector must be absent, not scored")
	}
	got := EmbeddingScore([]float32{1, 0}, []float32{1, 0})
	if !got.Present || !almostEqual(got.Value, 100) {
		t.Fatalf("identical vectors should score 100, got %+v", got)
	}
	got = EmbeddingScore([]float32{1, 0}, []float32{-1, 0})
	if !almostEqual(got.Value, 0) {
		t.Fatalf("opposite vectors should score 0, got %v", got.Value)
	}
	got = EmbeddingScore([]float32{1, 0}, []float32{0, 1})
	if !almostEqual(got.Value, 50) {
		t.Fatalf("orthogonal vectors should score 50, got %v", got.Value)
	}
}

func defaultRules() *domevent.MatchingRules {
	return &domevent.MatchingRules{
		IntentWeight:          0.35,
		IndustryWeight:        0.25,
		InterestWeight:        0.25,
		ComplementarityWeight: 0.15,
		EmbeddingWeight:       0,
		MinimumScore:          50,
		MaxRecommendations:    10,
	}
}

func TestAggregateScoreDefaultScenario(t *testing.T) {
	// Seller in Fintech with {Sales} against buyer in Fintech with
	// {Sales, Marketing}, default weights, no embeddings.
	a := &domevent.Participant{Industry: "Fintech", CompanySizeBucket: "11-50"}
	b := &domevent.Participant{Industry: "Fintech", CompanySizeBucket: "201-1000"}
	va := domevent.IntentVector{domevent.IntentSelling: 1}
	vb := domevent.IntentVector{domevent.IntentBuying: 1}

	intent := IntentScore(va, vb)
	industry := IndustryScore(a.Industry, b.Industry)
	interest := InterestScore(NormalizeTagSet([]string{"Sales"}), NormalizeTagSet([]string{"Sales", "Marketing"}))
	comp := ComplementarityScore(a, b, va, vb)

	if intent.Value < 80 {
		t.Fatalf("buy/sell intent score should be high, got %v", intent.Value)
	}
	if industry.Value != 100 {
		t.Fatalf("industry score = %v, want 100", industry.Value)
	}
	if interest.Value != 100 {
		t.Fatalf("interest score = %v, want 100", interest.Value)
	}

	rules := defaultRules()
	got, ok := AggregateScore(rules, intent, industry, interest, comp, Absent())
	if !ok {
		t.Fatalf("expected aggregate for fully present rule factors")
	}
	want := roundScore(0.35*intent.Value + 0.25*100 + 0.25*100 + 0.15*comp.Value)
	if got != want {
		t.Fatalf("aggregate = %v, want %v", got, want)
	}
}

func TestAggregateScoreWeightRedistribution(t *testing.T) {
	intent := Present(80)
	industry := Present(100)
	interest := Present(60)
	comp := Present(40)

	// Missing embedding with a nonzero weight must equal an explicit zero
	// embedding weight with the other four renormalized.
	withWeight := defaultRules()
	withWeight.EmbeddingWeight = 0.2
	absentScore, ok := AggregateScore(withWeight, intent, industry, interest, comp, Absent())
	if !ok {
		t.Fatalf("expected aggregate")
	}

	zeroWeight := defaultRules()
	zeroWeight.EmbeddingWeight = 0
	zeroScore, ok := AggregateScore(zeroWeight, intent, industry, interest, comp, Present(90))
	if !ok {
		t.Fatalf("expected aggregate")
	}

	if absentScore != zeroScore {
		t.Fatalf("absent embedding (%v) and zero-weight embedding (%v) must score identically", absentScore, zeroScore)
	}
}

func TestAggregateScoreAllAbsent(t *testing.T) {
	rules := defaultRules()
	rules.IntentWeight = 0
	rules.IndustryWeight = 0
	rules.InterestWeight = 0
	rules.ComplementarityWeight = 0
	if _, ok := AggregateScore(rules, Present(50), Present(50), Present(50), Present(50), Absent()); ok {
		t.Fatalf("no present weight mass should yield no aggregate")
	}
}

func TestApplyPriorityBoostBounded(t *testing.T) {
	rules := defaultRules()
	rules.PrioritizeSponsors = true
	rules.PrioritizeVIP = true
	sponsor := &domevent.Participant{Sponsor: true, VIP: true}
	plain := &domevent.Participant{}

	if got := ApplyPriorityBoost(rules, sponsor, plain, 98); got != 100 {
		t.Fatalf("boost must be capped at 100, got %v", got)
	}
	if got := ApplyPriorityBoost(rules, sponsor, plain, 60); got != 70 {
		t.Fatalf("sponsor+vip boost = %v, want 70", got)
	}
	if got := ApplyPriorityBoost(rules, plain, plain, 60); got != 60 {
		t.Fatalf("no designation must not boost, got %v", got)
	}
	rules.PrioritizeSponsors = false
	rules.PrioritizeVIP = false
	if got := ApplyPriorityBoost(rules, sponsor, plain, 60); got != 60 {
		t.Fatalf("disabled prioritization must not boost, got %v", got)
	}
}

func TestBuildReasonsOrderedAndCapped(t *testing.T) {
	a := &domevent.Participant{Industry: "Fintech"}
	b := &domevent.Participant{Industry: "Fintech"}
	va := domevent.IntentVector{domevent.IntentBuying: 1}
	vb := domevent.IntentVector{domevent.IntentSelling: 1}

	reasons := BuildReasons(a, b, va, vb, []string{"sales"},
		Present(95), Present(100), Present(100), Present(90), Present(85))
	if len(reasons) != maxMatchReasons {
		t.Fatalf("reasons should cap at %d, got %d: %v", maxMatchReasons, len(reasons), reasons)
	}
	if reasons[0] != "Same industry: Fintech" {
		t.Fatalf("highest sub-score should lead the reasons, got %v", reasons)
	}

	// A weak pair earns no reasons rather than misleading ones.
	weak := BuildReasons(a, b, va, vb, nil,
		Present(30), Present(20), Present(NeutralScore), Present(10), Absent())
	if len(weak) != 0 {
		t.Fatalf("low sub-scores should produce no reasons, got %v", weak)
	}
}
