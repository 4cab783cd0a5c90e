package family

// Scope is the resolved tenancy of one request: either a single family
// picked explicitly, or every family the principal can access. Handlers
// and repositories consume FamilyIDs and never re-derive admin/staff
// branching themselves.
type Scope struct {
	ids []string
	all bool
}

// SingleScope scopes a request to one family.
func SingleScope(familyID string) Scope {
	return Scope{ids: []string{familyID}}
}

// AllScope scopes a request to every accessible family. The id list may be
// empty, in which case reads yield empty results.
func AllScope(familyIDs []string) Scope {
	return Scope{ids: familyIDs, all: true}
}

// FamilyIDs returns the families this scope covers.
func (s Scope) FamilyIDs() []string {
	return s.ids
}

// IsAll reports whether the scope was resolved without an explicit selector.
func (s Scope) IsAll() bool {
	return s.all
}

// IsEmpty reports whether the scope covers no family at all.
func (s Scope) IsEmpty() bool {
	return len(s.ids) == 0
}

// Single returns the scoped family id when the scope covers exactly one
// family. Writes that need a concrete owner use this.
func (s Scope) Single() (string, bool) {
	if len(s.ids) == 1 {
		return s.ids[0], true
	}
	return "", false
}

// Contains reports whether familyID is inside the scope.
func (s Scope) Contains(familyID string) bool {
	for _, id := range s.ids {
		if id == familyID {
			return true
		}
	}
	return false
}
