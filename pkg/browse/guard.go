package browse

type Page string

const (
	PageHome      Page = "home"
	PageAdmin     Page = "admin"
	PagePortfolio Page = "portfolio"
)

// Resolve gates navigation. An actor lacking the required role or
// capability is sent home instead of the requested page; no error is
// surfaced.
func Resolve(actor Actor, target Page) Page {
	switch target {
	case PageAdmin:
		if actor.Role != RoleAdmin {
			return PageHome
		}
	case PagePortfolio:
		if actor.Role != RoleAdmin || !actor.CanAccessPortfolio {
			return PageHome
		}
	}
	return target
}
