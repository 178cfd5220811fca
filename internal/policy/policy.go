package policy

import (
	"fmt"
	"log"
	"sort"
)

// RoleAnonymous is the role used when a request carries no identity.
const RoleAnonymous = "anonymous"

// Store maps role names to the set of action names that role may invoke.
// It is built once at startup and immutable afterwards.
type Store struct {
	roles map[string]map[string]bool
}

// New builds a Store from a role → permitted-actions table.
func New(table map[string][]string) *Store {
	roles := make(map[string]map[string]bool, len(table))
	for role, actions := range table {
		permitted := make(map[string]bool, len(actions))
		for _, action := range actions {
			permitted[action] = true
		}
		roles[role] = permitted
	}
	return &Store{roles: roles}
}

// ValidateActions checks every action name the policy references against
// the registered set. A policy naming an unregistered action is a
// configuration error, caught at startup rather than at request time.
func (s *Store) ValidateActions(registered func(name string) bool) error {
	for role, permitted := range s.roles {
		names := make([]string, 0, len(permitted))
		for name := range permitted {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if !registered(name) {
				return fmt.Errorf("policy for role %q references unregistered action %q", role, name)
			}
		}
	}
	return nil
}

// IsPermitted reports whether the role may invoke the action. An
// unrecognized role is a denial; it is also logged, since it means a user
// record references a role absent from the policy configuration.
func (s *Store) IsPermitted(role, action string) bool {
	permitted, ok := s.roles[role]
	if !ok {
		log.Printf("policy: unknown role %q, denying action %q", role, action)
		return false
	}
	return permitted[action]
}
