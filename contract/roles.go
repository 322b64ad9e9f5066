package contract

import (
	"strings"

	"acdm_platform/sdk"
)

// Role is a capability bitmask attached to an address.
type Role uint8

const (
	// RoleAdmin grants/revokes roles and withdraws protocol revenue.
	RoleAdmin Role = 1 << iota
	// RoleConfigurator runs the setters and convertAndBurn.
	RoleConfigurator
	// RoleChairperson adds proposals.
	RoleChairperson
)

func (r Role) String() string {
	var parts []string
	if r&RoleAdmin != 0 {
		parts = append(parts, "admin")
	}
	if r&RoleConfigurator != 0 {
		parts = append(parts, "configurator")
	}
	if r&RoleChairperson != 0 {
		parts = append(parts, "chairperson")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

func getRoles(st sdk.State, a sdk.Address) Role {
	ptr := st.Get(rolesKey(a))
	if ptr == nil || len(*ptr) == 0 {
		return 0
	}
	return Role((*ptr)[0])
}

func setRoles(st sdk.State, a sdk.Address, r Role) {
	if r == 0 {
		st.Delete(rolesKey(a))
		return
	}
	st.Set(rolesKey(a), string([]byte{byte(r)}))
}

// requireRole fails unless the sender holds every bit of r.
func (c *callCtx) requireRole(r Role) error {
	if getRoles(c.st, c.sender())&r != r {
		return ErrUnauthorized.with(" (%s lacks %s)", c.sender().Hex(), r)
	}
	return nil
}

func grantRole(c *callCtx, who sdk.Address, r Role) {
	setRoles(c.st, who, getRoles(c.st, who)|r)
	emitRoleChanged(c, true, who, r)
}

func revokeRole(c *callCtx, who sdk.Address, r Role) {
	setRoles(c.st, who, getRoles(c.st, who)&^r)
	emitRoleChanged(c, false, who, r)
}

// GrantRole adds r to who. Admin only.
func (p *Platform) GrantRole(env sdk.Env, who sdk.Address, r Role) error {
	return p.exec("grantRole", env, false, func(c *callCtx) error {
		if err := c.requireRole(RoleAdmin); err != nil {
			return err
		}
		if sdk.IsZero(who) {
			return ErrInvalidAddress
		}
		grantRole(c, who, r)
		return nil
	})
}

// RevokeRole removes r from who. Admin only.
func (p *Platform) RevokeRole(env sdk.Env, who sdk.Address, r Role) error {
	return p.exec("revokeRole", env, false, func(c *callCtx) error {
		if err := c.requireRole(RoleAdmin); err != nil {
			return err
		}
		revokeRole(c, who, r)
		return nil
	})
}

// HasRole reports whether who holds every bit of r.
func (p *Platform) HasRole(who sdk.Address, r Role) (bool, error) {
	var ok bool
	err := p.view(func(st sdk.State) error {
		ok = getRoles(st, who)&r == r
		return nil
	})
	return ok, err
}
