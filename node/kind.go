package node

// Kind is the variant of a node, fixed at construction.
type Kind int

const (
	// KindAlgorithm transforms data.
	KindAlgorithm Kind = iota + 1
	// KindProbeInjector observes data and discards the result.
	KindProbeInjector
	// KindProbeCollector observes data, stores the result in context under
	// its keyword and records it in the probe ledger.
	KindProbeCollector
	// KindContextOnly rewrites context records and never touches data.
	KindContextOnly
)

func (k Kind) String() string {
	switch k {
	case KindAlgorithm:
		return "Algorithm"
	case KindProbeInjector:
		return "ProbeInjector"
	case KindProbeCollector:
		return "ProbeCollector"
	case KindContextOnly:
		return "ContextOnly"
	default:
		return "Unknown"
	}
}

// IsProbe reports whether k is one of the probe variants.
func (k Kind) IsProbe() bool {
	return k == KindProbeInjector || k == KindProbeCollector
}
