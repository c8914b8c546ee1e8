package lending

// Policy is the lending policy: loan period, renewal rules, fines and
// membership extension. It is loaded by the configuration layer and handed
// to the components that need it; nothing reads it from global state.
type Policy struct {
	// LoanDays is the default loan period.
	LoanDays int `mapstructure:"loan_days" default:"14"`
	// RenewalDays is how far one renewal pushes the due date out.
	RenewalDays int `mapstructure:"renewal_days" default:"7"`
	// MaxRenewals caps renewals per loan.
	MaxRenewals int `mapstructure:"max_renewals" default:"2"`
	// FinePerDay is the fine accrued per whole overdue day.
	FinePerDay float64 `mapstructure:"fine_per_day" default:"1.0"`
	// MembershipMonths is the default membership extension period.
	MembershipMonths int `mapstructure:"membership_months" default:"12"`
}

// DefaultPolicy returns the standard policy.
func DefaultPolicy() Policy {
	return Policy{
		LoanDays:         14,
		RenewalDays:      7,
		MaxRenewals:      2,
		FinePerDay:       1.0,
		MembershipMonths: 12,
	}
}

// OrDefaults fills zero-valued fields from the default policy, so a partial
// policy (common in tests) still behaves sensibly.
func (p Policy) OrDefaults() Policy {
	def := DefaultPolicy()
	if p.LoanDays <= 0 {
		p.LoanDays = def.LoanDays
	}
	if p.RenewalDays <= 0 {
		p.RenewalDays = def.RenewalDays
	}
	if p.MaxRenewals <= 0 {
		p.MaxRenewals = def.MaxRenewals
	}
	if p.FinePerDay <= 0 {
		p.FinePerDay = def.FinePerDay
	}
	if p.MembershipMonths <= 0 {
		p.MembershipMonths = def.MembershipMonths
	}
	return p
}
