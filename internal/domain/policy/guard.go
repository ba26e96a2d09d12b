package policy

import (
	"fmt"

	"eatery/internal/domain/entity"
	domainerrors "eatery/internal/domain/errors"

	"github.com/pkg/errors"
)

// Guard evaluates principals against an injected permission table.
type Guard struct {
	table Table
}

// NewGuard is the constructor for Guard.
func NewGuard(table Table) *Guard {
	return &Guard{table: table}
}

// Authorize fails with Unauthenticated when no active principal is present and with
// Forbidden when the role lacks the capability.
func (g *Guard) Authorize(p *entity.Principal, action Action, res Resource) error {
	if p == nil {
		return errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	if !p.IsActive {
		return errors.WithStack(domainerrors.ErrAccountInactive)
	}

	if !g.table.Allows(p.Role, res, action) {
		return errors.WithStack(domainerrors.ErrForbidden.WithDetails(fmt.Sprintf("%s:%s", res, action)))
	}

	return nil
}

// AuthorizeAny succeeds when the role holds at least one of the actions on res.
func (g *Guard) AuthorizeAny(p *entity.Principal, res Resource, actions ...Action) error {
	var lastErr error
	for _, action := range actions {
		err := g.Authorize(p, action, res)
		if err == nil {
			return nil
		}
		if domainerrors.KindOf(err) == domainerrors.KindUnauthenticated {
			return err
		}
		lastErr = err
	}

	if lastErr == nil {
		return errors.WithStack(domainerrors.ErrForbidden)
	}

	return lastErr
}

// Capabilities lists what an active principal may do, keyed by resource. Resources
// without any grant are left out. Nil and inactive principals hold nothing.
func (g *Guard) Capabilities(p *entity.Principal) map[Resource][]Action {
	caps := make(map[Resource][]Action)
	if p == nil || !p.IsActive {
		return caps
	}

	for _, res := range Resources() {
		if actions := g.table.Actions(p.Role, res); len(actions) > 0 {
			caps[res] = actions
		}
	}

	return caps
}
