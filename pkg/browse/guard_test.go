package browse

import "testing"

func TestResolveGuestRedirectedFromGatedPages(t *testing.T) {
	guest := Guest()

	if got := Resolve(guest, PageAdmin); got != PageHome {
		t.Fatalf("guest reached %q", got)
	}
	if got := Resolve(guest, PagePortfolio); got != PageHome {
		t.Fatalf("guest reached %q", got)
	}
	if got := Resolve(guest, PageHome); got != PageHome {
		t.Fatalf("guest redirected away from home to %q", got)
	}
}

func TestResolveAdminWithoutPortfolioCapability(t *testing.T) {
	admin := Actor{Username: "admin", Role: RoleAdmin}

	if got := Resolve(admin, PageAdmin); got != PageAdmin {
		t.Fatalf("admin redirected to %q", got)
	}
	if got := Resolve(admin, PagePortfolio); got != PageHome {
		t.Fatalf("admin without the capability reached %q", got)
	}
}

func TestResolveAdminWithPortfolioCapability(t *testing.T) {
	admin := Actor{Username: "admin", Role: RoleAdmin, CanAccessPortfolio: true}

	if got := Resolve(admin, PagePortfolio); got != PagePortfolio {
		t.Fatalf("admin with the capability redirected to %q", got)
	}
}
