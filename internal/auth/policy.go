package auth

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Capability is an (object, action) pair granted to roles.
type Capability struct {
	Object string
	Action string
}

var (
	CapSeeAllTickets    = Capability{"ticket", "see_all"}
	CapWorkTickets      = Capability{"ticket", "work"}
	CapManageCompanies  = Capability{"company", "manage"}
	CapViewCompanies    = Capability{"company", "view"}
	CapManageMachines   = Capability{"machine", "manage"}
	CapViewMachines     = Capability{"machine", "view"}
	CapManageSolutions  = Capability{"solution", "manage"}
	CapRegisterAnyUser  = Capability{"user", "register_any"}
	CapRegisterOwnUsers = Capability{"user", "register_own"}
	CapViewUsers        = Capability{"user", "view"}
)

const policyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

const defaultPolicy = `
p, viscon, ticket, see_all
p, viscon, ticket, work
p, viscon, company, view
p, viscon, machine, view
p, viscon, solution, manage
p, VisconAdmin, company, manage
p, VisconAdmin, machine, manage
p, VisconAdmin, user, register_any
p, viscon, user, view
p, CustomerAdmin, user, register_own
p, CustomerAdmin, user, view
g, VisconAdmin, viscon
g, VisconEmployee, viscon
`

// Policy answers which capabilities a role holds.
type Policy struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
}

// NewPolicy loads the built-in role policy.
func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse policy model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, stringadapter.NewAdapter(defaultPolicy))
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Policy{enforcer: enforcer}, nil
}

// MustNewPolicy panics if the built-in policy does not load.
func MustNewPolicy() *Policy {
	p, err := NewPolicy()
	if err != nil {
		panic(err)
	}
	return p
}

// Allows reports whether role holds capability. Enforcement errors deny.
func (p *Policy) Allows(role domain.Role, capability Capability) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	allowed, err := p.enforcer.Enforce(string(role), capability.Object, capability.Action)
	return err == nil && allowed
}

func (p *Policy) CanSeeAllTickets(role domain.Role) bool { return p.Allows(role, CapSeeAllTickets) }

func (p *Policy) CanWorkTickets(role domain.Role) bool { return p.Allows(role, CapWorkTickets) }

func (p *Policy) CanManageCompanies(role domain.Role) bool { return p.Allows(role, CapManageCompanies) }

func (p *Policy) CanManageMachines(role domain.Role) bool { return p.Allows(role, CapManageMachines) }

// CanRegisterUsers reports whether role may register users in any company
// or only its own.
func (p *Policy) CanRegisterUsers(role domain.Role) (anyCompany, ownCompany bool) {
	anyCompany = p.Allows(role, CapRegisterAnyUser)
	return anyCompany, anyCompany || p.Allows(role, CapRegisterOwnUsers)
}
