package domain

// PlanPro is the only paid plan.
const PlanPro = "pro"

// Subscription is the entitlement state of an identity.
// Plan is empty when the subscription is inactive.
type Subscription struct {
	Active bool
	Plan   string
}

// ActiveSubscription returns the state of a paying identity.
func ActiveSubscription() Subscription {
	return Subscription{Active: true, Plan: PlanPro}
}
