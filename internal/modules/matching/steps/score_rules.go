package steps

import (
	"fmt"
	"sort"
	"strings"

	domevent "github.com/forumhive/forumhive-backend/internal/domain/event"
)

// FactorScore is the result of one sub-scorer. Absent factors (Present ==
// false) are excluded from aggregation and their weight is redistributed
// across the factors that are present. Sentinel values are never used.
type FactorScore struct {
	Value   float64
	Present bool
}

func Present(v float64) FactorScore { return FactorScore{Value: v, Present: true} }
func Absent() FactorScore           { return FactorScore{} }

const (
	// Neutral is the sub-score used when a factor has no signal to judge:
	// missing data must not read as active incompatibility.
	NeutralScore = 50.0

	intentAffinityDefault = 30.0
)

type intentPair struct{ a, b domevent.Intent }

func orderedIntentPair(a, b domevent.Intent) intentPair {
	if a > b {
		a, b = b, a
	}
	return intentPair{a, b}
}

// intentAffinity is the fixed complementary-fit table over the intent enum.
// Complementary asymmetric pairs score high, same-same pairs moderate to low.
// Unlisted combinations fall back to intentAffinityDefault.
var intentAffinity = map[intentPair]float64{
	orderedIntentPair(domevent.IntentBuying, domevent.IntentSelling):        95,
	orderedIntentPair(domevent.IntentInvesting, domevent.IntentPartnering):  85,
	orderedIntentPair(domevent.IntentLearning, domevent.IntentNetworking):   65,
	orderedIntentPair(domevent.IntentBuying, domevent.IntentPartnering):     55,
	orderedIntentPair(domevent.IntentSelling, domevent.IntentNetworking):    45,
	orderedIntentPair(domevent.IntentPartnering, domevent.IntentPartnering): 75,
	orderedIntentPair(domevent.IntentNetworking, domevent.IntentNetworking): 60,
	orderedIntentPair(domevent.IntentLearning, domevent.IntentLearning):     45,
	orderedIntentPair(domevent.IntentInvesting, domevent.IntentInvesting):   30,
	orderedIntentPair(domevent.IntentBuying, domevent.IntentBuying):         25,
	orderedIntentPair(domevent.IntentSelling, domevent.IntentSelling):       25,
}

func intentPairAffinity(a, b domevent.Intent) float64 {
	if v, ok := intentAffinity[orderedIntentPair(a, b)]; ok {
		return v
	}
	return intentAffinityDefault
}

// IntentScore is the affinity-table expectation under the two intent
// distributions. Either side empty yields the fixed neutral value.
func IntentScore(a, b domevent.IntentVector) FactorScore {
	if a.Empty() || b.Empty() {
		return Present(NeutralScore)
	}
	var num, den float64
	for ia, wa := range a {
		if wa <= 0 {
			continue
		}
		for ib, wb := range b {
			if wb <= 0 {
				continue
			}
			num += wa * wb * intentPairAffinity(ia, ib)
			den += wa * wb
		}
	}
	if den == 0 {
		return Present(NeutralScore)
	}
	return Present(num / den)
}

type industryPair struct{ a, b string }

func orderedIndustryPair(a, b string) industryPair {
	if a > b {
		a, b = b, a
	}
	return industryPair{a, b}
}

// industryAdjacency marks industries that are different but close enough to
// score above the cross-industry baseline.
var industryAdjacency = map[industryPair]bool{}

func init() {
	adjacent := [][2]string{
		{"fintech", "banking"},
		{"fintech", "insurance"},
		{"healthcare", "biotech"},
		{"healthcare", "pharma"},
		{"retail", "ecommerce"},
		{"media", "advertising"},
		{"software", "cloud"},
		{"logistics", "manufacturing"},
		{"energy", "utilities"},
	}
	for _, p := range adjacent {
		industryAdjacency[orderedIndustryPair(p[0], p[1])] = true
	}
}

func normIndustry(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// IndustryScore: 100 on an exact match, neutral when either side is unknown,
// 70 for adjacent industries, 20 otherwise.
func IndustryScore(a, b string) FactorScore {
	na, nb := normIndustry(a), normIndustry(b)
	if na == "" || nb == "" {
		return Present(NeutralScore)
	}
	if na == nb {
		return Present(100)
	}
	if industryAdjacency[orderedIndustryPair(na, nb)] {
		return Present(70)
	}
	return Present(20)
}

// NormalizeTagSet lowercases, trims, and dedupes a tag list.
func NormalizeTagSet(tags ...[]string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, list := range tags {
		for _, t := range list {
			t = strings.ToLower(strings.TrimSpace(t))
			if t != "" {
				out[t] = struct{}{}
			}
		}
	}
	return out
}

// InterestScore compares each side's expertise-areas plus interests as one
// set: 100 * |intersection| / min(|A|, |B|). The min-size denominator keeps a
// heavily tagged profile from dominating. Either side empty is neutral.
func InterestScore(a, b map[string]struct{}) FactorScore {
	if len(a) == 0 || len(b) == 0 {
		return Present(NeutralScore)
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	overlap := 0
	for t := range small {
		if _, ok := large[t]; ok {
			overlap++
		}
	}
	return Present(100 * float64(overlap) / float64(len(small)))
}

// companySizeOrder positions the registration size buckets on a line so
// bucket distance is meaningful.
var companySizeOrder = map[string]int{
	"1-10":     0,
	"11-50":    1,
	"51-200":   2,
	"201-1000": 3,
	"1000+":    4,
}

// ComplementarityScore blends company-size distance with intent asymmetry:
// different sizes plus an asymmetric complementary intent pair (buyer and
// seller) read as a more useful meeting than two identical profiles.
func ComplementarityScore(a, b *domevent.Participant, va, vb domevent.IntentVector) FactorScore {
	size := NeutralScore
	ia, okA := companySizeOrder[strings.TrimSpace(a.CompanySizeBucket)]
	ib, okB := companySizeOrder[strings.TrimSpace(b.CompanySizeBucket)]
	if okA && okB {
		size = 100 * float64(abs(ia-ib)) / float64(len(companySizeOrder)-1)
	}

	asym := NeutralScore
	da, haveA := va.Dominant()
	db, haveB := vb.Dominant()
	if haveA && haveB {
		switch {
		case da != db && intentPairAffinity(da, db) >= 80:
			asym = 100
		case da != db:
			asym = 60
		default:
			asym = 20
		}
	}
	return Present(0.5*size + 0.5*asym)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// EmbeddingScore rescales cosine similarity from [-1,1] to [0,100]. Absent
// when either vector is missing or unusable.
func EmbeddingScore(a, b []float32) FactorScore {
	cos, ok := Cosine(a, b)
	if !ok {
		return Absent()
	}
	return Present((cos + 1) / 2 * 100)
}

const maxMatchReasons = 3

type scoredFactor struct {
	name   string
	score  FactorScore
	reason string
}

// BuildReasons selects short explanations from the strongest contributing
// factors, ordered by sub-score magnitude and capped. Only factors scoring
// well above neutral earn a reason line.
func BuildReasons(a, b *domevent.Participant, va, vb domevent.IntentVector, shared []string,
	intent, industry, interest, comp, embed FactorScore) []string {

	factors := []scoredFactor{
		{"intent", intent, intentReason(va, vb)},
		{"industry", industry, industryReason(a.Industry, b.Industry)},
		{"interest", interest, interestReason(shared)},
		{"complementarity", comp, "Complementary company profiles"},
		{"embedding", embed, "Strong profile similarity"},
	}
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].score.Value > factors[j].score.Value
	})

	reasons := make([]string, 0, maxMatchReasons)
	for _, f := range factors {
		if len(reasons) == maxMatchReasons {
			break
		}
		if !f.score.Present || f.score.Value < 70 || f.reason == "" {
			continue
		}
		reasons = append(reasons, f.reason)
	}
	return reasons
}

func intentReason(va, vb domevent.IntentVector) string {
	da, okA := va.Dominant()
	db, okB := vb.Dominant()
	if !okA || !okB {
		return ""
	}
	if da == db {
		return fmt.Sprintf("Both here for %s", da)
	}
	return fmt.Sprintf("%s ↔ %s intent match", titleIntent(da), titleIntent(db))
}

func titleIntent(in domevent.Intent) string {
	s := string(in)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func industryReason(a, b string) string {
	na, nb := normIndustry(a), normIndustry(b)
	if na == "" || nb == "" {
		return ""
	}
	if na == nb {
		return "Same industry: " + strings.TrimSpace(a)
	}
	return fmt.Sprintf("Adjacent industries: %s & %s", strings.TrimSpace(a), strings.TrimSpace(b))
}

func interestReason(shared []string) string {
	if len(shared) == 0 {
		return ""
	}
	if len(shared) == 1 {
		return "Both interested in " + shared[0]
	}
	return "Shared interests: " + strings.Join(shared[:2], ", ")
}

// SharedTags returns the sorted intersection of two normalized tag sets.
func SharedTags(a, b map[string]struct{}) []string {
	var out []string
	for t := range a {
		if _, ok := b[t]; ok {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// AggregateScore folds the present factors with their configured weights,
// renormalizing over the present weight mass, then rounds to an integer
// percentage. A factor configured with zero weight contributes nothing, which
// makes zero-weight and absent handling equivalent.
func AggregateScore(rules *domevent.MatchingRules, intent, industry, interest, comp, embed FactorScore) (float64, bool) {
	type weighted struct {
		f FactorScore
		w float64
	}
	parts := []weighted{
		{intent, rules.IntentWeight},
		{industry, rules.IndustryWeight},
		{interest, rules.InterestWeight},
		{comp, rules.ComplementarityWeight},
		{embed, rules.EmbeddingWeight},
	}
	var num, den float64
	for _, p := range parts {
		if !p.f.Present || p.w <= 0 {
			continue
		}
		num += p.w * p.f.Value
		den += p.w
	}
	if den == 0 {
		return 0, false
	}
	return roundScore(num / den), true
}

func roundScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return float64(int(v + 0.5))
}

const priorityBoost = 5.0

// ApplyPriorityBoost adds a bounded fixed boost per enabled designation held
// by either participant. The component scores are left untouched so the
// stored explanation stays honest.
func ApplyPriorityBoost(rules *domevent.MatchingRules, a, b *domevent.Participant, score float64) float64 {
	if rules.PrioritizeSponsors && (a.Sponsor || b.Sponsor) {
		score += priorityBoost
	}
	if rules.PrioritizeVIP && (a.VIP || b.VIP) {
		score += priorityBoost
	}
	if score > 100 {
		return 100
	}
	return score
}
