package escalation

import "fmt"

type Reason string

const (
	ReasonSLABreach          Reason = "sla_breach"
	ReasonManual             Reason = "manual"
	ReasonCapacityExhaustion Reason = "capacity_exhaustion"
)

func (r Reason) String() string {
	return string(r)
}

func (r Reason) IsValid() bool {
	switch r {
	case ReasonSLABreach, ReasonManual, ReasonCapacityExhaustion:
		return true
	}
	return false
}

func NewReason(s string) (Reason, error) {
	r := Reason(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid escalation reason: %s", s)
	}
	return r, nil
}
