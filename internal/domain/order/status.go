package order

// FulfillmentType is how the customer receives the order
type FulfillmentType string

const (
	FulfillmentDelivery FulfillmentType = "delivery"
	FulfillmentPickup   FulfillmentType = "pickup"
)

// IsValid reports whether f is a known fulfillment type
func (f FulfillmentType) IsValid() bool {
	return f == FulfillmentDelivery || f == FulfillmentPickup
}

// Status is the lifecycle state of an order
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusPickedUp       Status = "picked_up"
	StatusCancelled      Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReady},
	StatusReady:          {StatusOutForDelivery, StatusPickedUp},
	StatusOutForDelivery: {StatusDelivered},
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusPickedUp, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether next follows s in the status machine
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from s for a fulfillment type
func (s Status) NextStatuses(f FulfillmentType) []Status {
	out := make([]Status, 0, 2)
	for _, t := range transitions[s] {
		if allowedFor(t, f) {
			out = append(out, t)
		}
	}
	return out
}

func allowedFor(s Status, f FulfillmentType) bool {
	switch s {
	case StatusOutForDelivery, StatusDelivered:
		return f == FulfillmentDelivery
	case StatusPickedUp:
		return f == FulfillmentPickup
	}
	return true
}
