package enums

import "fmt"

// SessionState is the navigation state of one user's storefront session.
type SessionState string

const (
	SessionStateIdle          SessionState = "idle"
	SessionStateBrowsing      SessionState = "browsing"
	SessionStateViewingCart   SessionState = "viewing_cart"
	SessionStateViewingOrders SessionState = "viewing_orders"
)

var validSessionStates = []SessionState{
	SessionStateIdle,
	SessionStateBrowsing,
	SessionStateViewingCart,
	SessionStateViewingOrders,
}

// String implements fmt.Stringer.
func (s SessionState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SessionState.
func (s SessionState) IsValid() bool {
	for _, candidate := range validSessionStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSessionState converts raw input into a SessionState.
func ParseSessionState(value string) (SessionState, error) {
	for _, candidate := range validSessionStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid session state %q", value)
}
