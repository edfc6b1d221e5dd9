package ldma

// AnySignal matches every signal number of a source in a PullRule.
const AnySignal = 0xFF

// PullRule classifies the given signals of the given sources. Pulled request
// lines are level-sensitive: while asserted they're serviced periodically by
// the channel pull timer, instead of once per rising edge.
type PullRule struct {
	Sources []uint8
	Signals []uint8
	Pull    bool
}

// PullTable is the static request line classification of a family.
type PullTable struct {
	rules map[uint16]bool
}

func pullKey(source, signal uint8) uint16 {
	return uint16(source)<<8 | uint16(signal)
}

func NewPullTable(rules ...PullRule) *PullTable {
	pt := &PullTable{rules: make(map[uint16]bool)}
	for _, r := range rules {
		for _, src := range r.Sources {
			for _, sig := range r.Signals {
				pt.rules[pullKey(src, sig)] = r.Pull
			}
		}
	}
	return pt
}

// Classify tells whether the (source, signal) pair is pulled. known is false
// when the pair isn't a valid request line of the family.
func (pt *PullTable) Classify(source, signal uint8) (pull, known bool) {
	if pull, ok := pt.rules[pullKey(source, signal)]; ok {
		return pull, true
	}
	pull, known = pt.rules[pullKey(source, AnySignal)]
	return pull, known
}

// Len returns the number of rules in the table.
func (pt *PullTable) Len() int {
	return len(pt.rules)
}

func sources(srcs ...uint8) []uint8 { return srcs }
func signals(sigs ...uint8) []uint8 { return sigs }
