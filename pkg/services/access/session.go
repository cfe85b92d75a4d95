package access

import (
	"sync"

	"github.com/de-tools/finops-dashboard/pkg/models/domain"
)

// DefaultRole is the role every new session starts with.
const DefaultRole = domain.RoleSquadLead

var capabilities = map[domain.Role][]domain.Action{
	domain.RoleSquadLead: {domain.ActionWrite, domain.ActionAnnotate, domain.ActionChargeback},
	domain.RoleFinOps:    {domain.ActionWrite, domain.ActionAnnotate, domain.ActionChargeback, domain.ActionAdmin},
	domain.RoleViewer:    {},
}

// Capabilities returns the actions a role may perform. Unknown roles get none.
func Capabilities(role domain.Role) []domain.Action {
	actions := capabilities[role]
	res := make([]domain.Action, len(actions))
	copy(res, actions)
	return res
}

// Allowed reports whether role grants action.
func Allowed(role domain.Role, action domain.Action) bool {
	for _, a := range capabilities[role] {
		if a == action {
			return true
		}
	}
	return false
}

// Session holds the acting role of one user. It is safe for concurrent use.
type Session struct {
	id string

	mu   sync.RWMutex
	role domain.Role
}

func NewSession(id string) *Session {
	return &Session{id: id, role: DefaultRole}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Role() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// SetRole replaces the current role; the next Can call observes it.
func (s *Session) SetRole(role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = role
}

func (s *Session) Can(action domain.Action) bool {
	return Allowed(s.Role(), action)
}

// Require returns domain.ErrPermissionDenied when the current role lacks action.
func (s *Session) Require(action domain.Action) error {
	role := s.Role()
	if !Allowed(role, action) {
		return &DeniedError{Role: role, Action: action}
	}
	return nil
}

type DeniedError struct {
	Role   domain.Role
	Action domain.Action
}

func (e *DeniedError) Error() string {
	return "role " + string(e.Role) + " cannot " + string(e.Action) + ": " + domain.ErrPermissionDenied.Error()
}

func (e *DeniedError) Unwrap() error {
	return domain.ErrPermissionDenied
}
