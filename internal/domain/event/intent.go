package event

// Intent is one of the fixed networking goals a participant can declare at
// registration (at most three).
type Intent string

const (
	IntentBuying     Intent = "buying"
	IntentSelling    Intent = "selling"
	IntentInvesting  Intent = "investing"
	IntentPartnering Intent = "partnering"
	IntentLearning   Intent = "learning"
	IntentNetworking Intent = "networking"
)

// MaxDeclaredIntents caps how many intents registration accepts.
const MaxDeclaredIntents = 3

func AllIntents() []Intent {
	return []Intent{
		IntentBuying,
		IntentSelling,
		IntentInvesting,
		IntentPartnering,
		IntentLearning,
		IntentNetworking,
	}
}

func ParseIntent(s string) (Intent, bool) {
	switch Intent(s) {
	case IntentBuying, IntentSelling, IntentInvesting, IntentPartnering, IntentLearning, IntentNetworking:
		return Intent(s), true
	}
	return "", false
}

// IntentVector is a distribution over the intent enum. Weights are in [0,1]
// and sum to at most 1. An empty vector means "no signal", which downstream
// scoring must treat as unknown rather than zero affinity.
type IntentVector map[Intent]float64

func (v IntentVector) Empty() bool {
	if len(v) == 0 {
		return true
	}
	for _, w := range v {
		if w > 0 {
			return false
		}
	}
	return true
}

// Dominant returns the highest-weighted intent, breaking ties by enum order
// so the result is stable across runs.
func (v IntentVector) Dominant() (Intent, bool) {
	best := Intent("")
	bestW := 0.0
	for _, in := range AllIntents() {
		if w, ok := v[in]; ok && w > bestW {
			best = in
			bestW = w
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}
