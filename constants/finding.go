package constants

// FindingKind is the canonical kind for emitted findings.
type FindingKind string

// Stable values (serialized on the wire and in exports).
const (
	FindingExactDuplicate     FindingKind = "EXACT_DUPLICATE"
	FindingProbableDuplicate  FindingKind = "PROBABLE_DUPLICATE"
	FindingPriceIncrease      FindingKind = "PRICE_INCREASE"
	FindingSubscriptionSprawl FindingKind = "SUBSCRIPTION_SPRAWL"
)

var allFindingKinds = []FindingKind{
	FindingExactDuplicate,
	FindingProbableDuplicate,
	FindingPriceIncrease,
	FindingSubscriptionSprawl,
}

// AllFindingKinds returns every kind in presentation order.
func AllFindingKinds() []FindingKind {
	out := make([]FindingKind, len(allFindingKinds))
	copy(out, allFindingKinds)
	return out
}
