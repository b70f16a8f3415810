// Package format discovers which columns of a brokerage export hold which
// ledger fields, scoring the header row against known synonym tables.
package format

import (
	"fmt"
	"strings"
)

// Role is a logical column of a transaction export
type Role int

const (
	RoleTicker Role = iota
	RoleOperation
	RoleQuantity
	RolePrice
	RoleDate
	RoleFees
	RoleNotes

	numRoles
)

var roleNames = [numRoles]string{"ticker", "operation", "quantity", "price", "date", "fees", "notes"}

// RequiredRoles must all resolve for a format to qualify.
var RequiredRoles = []Role{RoleTicker, RoleOperation, RoleQuantity, RolePrice, RoleDate}

// AllRoles lists every role in declaration order.
func AllRoles() []Role {
	roles := make([]Role, numRoles)
	for i := range roles {
		roles[i] = Role(i)
	}
	return roles
}

func (r Role) String() string {
	if !r.valid() {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

func (r Role) valid() bool {
	return r >= 0 && r < numRoles
}

// Mapping is a resolved role to column index table. Unresolved roles hold -1.
type Mapping struct {
	columns [numRoles]int
}

// NewMapping returns a mapping with no role resolved.
func NewMapping() Mapping {
	var m Mapping
	for i := range m.columns {
		m.columns[i] = -1
	}
	return m
}

// Set assigns a column to a role.
func (m *Mapping) Set(r Role, column int) {
	m.columns[r] = column
}

// Column returns the column index for a role.
func (m Mapping) Column(r Role) (int, bool) {
	if !r.valid() || m.columns[r] < 0 {
		return -1, false
	}
	return m.columns[r], true
}

// Has reports whether a role resolved.
func (m Mapping) Has(r Role) bool {
	_, ok := m.Column(r)
	return ok
}

// Len returns the number of resolved roles.
func (m Mapping) Len() int {
	n := 0
	for _, c := range m.columns {
		if c >= 0 {
			n++
		}
	}
	return n
}

// Missing returns the required roles that did not resolve.
func (m Mapping) Missing() []Role {
	var missing []Role
	for _, r := range RequiredRoles {
		if !m.Has(r) {
			missing = append(missing, r)
		}
	}
	return missing
}

// Value returns the trimmed cell for a role, or "" when the role is unmapped
// or the record is too short.
func (m Mapping) Value(record []string, r Role) string {
	idx, ok := m.Column(r)
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// String renders the mapping as "ticker=0, operation=1, ...".
func (m Mapping) String() string {
	var parts []string
	for _, r := range AllRoles() {
		if idx, ok := m.Column(r); ok {
			parts = append(parts, fmt.Sprintf("%s=%d", r, idx))
		}
	}
	return strings.Join(parts, ", ")
}
