package guard

import (
	"github.com/biznex/bizconsole/src/auth"
	"github.com/biznex/bizconsole/src/bizurl"
	"github.com/biznex/bizconsole/src/models"
)

// Target is a protected destination: a console page or a CLI command.
type Target struct {
	Name string
	Path string
	// Empty means any authenticated user.
	Role models.Role
}

type Outcome int

const (
	OutcomeAllow Outcome = iota
	OutcomeLoading
	OutcomeRedirect
	OutcomeNotAuthorized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeNotAuthorized:
		return "not-authorized"
	default:
		return "allow"
	}
}

type Decision struct {
	Outcome Outcome
	// Set when Outcome is OutcomeRedirect.
	Route string
}

func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

// Check decides what happens when the current session visits target. The
// rules apply in order: loading, then authentication and expiry, then role,
// then a pending forced password change.
func Check(state *auth.State, target Target) Decision {
	return CheckSnapshot(state.Snapshot(), target)
}

func CheckSnapshot(snap auth.Snapshot, target Target) Decision {
	if snap.Loading {
		return Decision{Outcome: OutcomeLoading}
	}
	if !snap.IsAuthenticated() || snap.IsExpired() {
		return Decision{Outcome: OutcomeRedirect, Route: bizurl.PathLogin}
	}
	if target.Role != "" && !snap.HasRole(target.Role) {
		return Decision{Outcome: OutcomeNotAuthorized}
	}
	if snap.MustChangePassword() && target.Path != bizurl.PathForcePassword {
		return Decision{Outcome: OutcomeRedirect, Route: bizurl.PathForcePassword}
	}
	return Decision{Outcome: OutcomeAllow}
}

// Protected route targets.
var (
	Dashboard   = Target{Name: "Dashboard", Path: bizurl.PathDashboard}
	Customers   = Target{Name: "Customers", Path: bizurl.PathCustomers}
	Products    = Target{Name: "Products", Path: bizurl.PathProducts}
	Billing     = Target{Name: "Billing", Path: bizurl.PathBilling}
	Credits     = Target{Name: "Credits", Path: bizurl.PathCredits}
	BillHistory = Target{Name: "Bill History", Path: bizurl.PathBillHistory}
	Register    = Target{Name: "Register User", Path: bizurl.PathRegister, Role: models.RoleAdmin}
	AdminUsers  = Target{Name: "Manage Users", Path: bizurl.PathAdminUsers, Role: models.RoleAdmin}

	// The password change route itself; exempt from the forced redirect.
	ForcePassword = Target{Name: "Change Password", Path: bizurl.PathForcePassword}
)
