package model

import "fmt"

type Enforcement string

const (
	Lenient Enforcement = "lenient"
	Strict  Enforcement = "strict"
)

func ParseEnforcement(value string) (Enforcement, error) {
	switch Enforcement(value) {
	case "", Lenient:
		return Lenient, nil
	case Strict:
		return Strict, nil
	}
	return "", fmt.Errorf("invalid enforcement \"%v\": expected \"lenient\" or \"strict\"", value)
}

// Policy decides whether soft constraints may be broken when nothing else fills a slot.
//
// BackToBack: lenient places a back-to-back candidate when no substitute exists and records a BACK_TO_BACK
// violation; strict never places one and leaves the position unfilled.
//
// QuotaOverrun: lenient lets faculty exceed their designation's target with a warning; strict excludes faculty
// who already reached their target for the role.
type Policy struct {
	BackToBack   Enforcement `json:"backToBack" yaml:"backToBack"`
	QuotaOverrun Enforcement `json:"quotaOverrun" yaml:"quotaOverrun"`
}

func DefaultPolicy() Policy {
	return Policy{BackToBack: Lenient, QuotaOverrun: Lenient}
}

func (policy Policy) StrictBackToBack() bool {
	return policy.BackToBack == Strict
}

func (policy Policy) StrictQuota() bool {
	return policy.QuotaOverrun == Strict
}
