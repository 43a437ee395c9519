// Package integrity compares an archive's actual size against the size the
// registry declared for it.
package integrity

// DefaultTamperThreshold is the byte delta above which a size mismatch stops
// looking like cosmetic repackaging and starts looking like tampering. The
// value is a policy constant; config may override it per run.
const DefaultTamperThreshold int64 = 1024

type Status int

const (
	Verified Status = iota
	Modified
	Tampered
)

func (s Status) String() string {
	switch s {
	case Verified:
		return "verified"
	case Modified:
		return "modified"
	case Tampered:
		return "tampered"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of one size audit. Delta is actual minus expected.
type Verdict struct {
	ExpectedSize int64  `json:"expectedSize"`
	ActualSize   int64  `json:"actualSize"`
	Delta        int64  `json:"delta"`
	Status       Status `json:"status"`
}

// Audit classifies the deviation between actual and expected size. An
// expected size of zero means the registry did not declare one; that is
// never flagged. threshold <= 0 selects DefaultTamperThreshold.
func Audit(actual, expected, threshold int64) Verdict {
	if threshold <= 0 {
		threshold = DefaultTamperThreshold
	}
	v := Verdict{ExpectedSize: expected, ActualSize: actual, Delta: actual - expected}
	if expected <= 0 || v.Delta == 0 {
		v.Status = Verified
		if expected <= 0 {
			v.Delta = 0
		}
		return v
	}
	if abs(v.Delta) > threshold {
		v.Status = Tampered
	} else {
		v.Status = Modified
	}
	return v
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
