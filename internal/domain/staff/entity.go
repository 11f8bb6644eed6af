package staff

// Entitlement is the yearly leave allowance in days per leave type.
type Entitlement struct {
	Annual  float64 `json:"annual"`
	Casual  float64 `json:"casual"`
	Medical float64 `json:"medical"`
	Other   float64 `json:"other"`
}

// DefaultEntitlement applies to staff without a per-person override.
var DefaultEntitlement = Entitlement{Annual: 14, Casual: 7, Medical: 21, Other: 0}

// Staff is the directory's view of a staff member. The ledger reads it and
// never writes it back.
type Staff struct {
	ID            string
	DisplayName   string
	ContactHandle string
	Entitlement   *Entitlement
}

// Allocation returns the staff override when present, the default otherwise.
func (s Staff) Allocation() Entitlement {
	if s.Entitlement == nil {
		return DefaultEntitlement
	}
	return *s.Entitlement
}
