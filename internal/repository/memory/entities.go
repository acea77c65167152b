package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.ID = newID()
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return errNotFound
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, errNotFound
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, user := range r.s.users {
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, errNotFound
}

func (r *userRepository) ListByCompany(_ context.Context, companyID string) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sortedUsers(func(u domain.User) bool { return u.CompanyID == companyID }), nil
}

func (r *userRepository) ListByRoles(_ context.Context, roles []domain.Role, activeOnly bool) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sortedUsers(func(u domain.User) bool {
		if activeOnly && !u.IsActive {
			return false
		}
		for _, role := range roles {
			if u.Role == role {
				return true
			}
		}
		return false
	}), nil
}

func (s *Store) sortedUsers(keep func(domain.User) bool) []domain.User {
	result := []domain.User{}
	for _, user := range s.users {
		if keep(user) {
			result = append(result, user)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].LastName != result[j].LastName {
			return result[i].LastName < result[j].LastName
		}
		return result[i].FirstName < result[j].FirstName
	})
	return result
}

type companyRepository struct {
	s *Store
}

func (r *companyRepository) Create(_ context.Context, company *domain.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	company.ID = newID()
	r.s.companies[company.ID] = *company
	return nil
}

func (r *companyRepository) Update(_ context.Context, company *domain.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[company.ID]; !ok {
		return errNotFound
	}
	r.s.companies[company.ID] = *company
	return nil
}

func (r *companyRepository) GetByID(_ context.Context, id string) (*domain.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	company, ok := r.s.companies[id]
	if !ok {
		return nil, errNotFound
	}
	return &company, nil
}

func (r *companyRepository) List(_ context.Context) ([]domain.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]domain.Company, 0, len(r.s.companies))
	for _, company := range r.s.companies {
		result = append(result, company)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type machineRepository struct {
	s *Store
}

func (r *machineRepository) Create(_ context.Context, machine *domain.Machine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	machine.ID = newID()
	r.s.machines[machine.ID] = *machine
	return nil
}

func (r *machineRepository) GetByID(_ context.Context, id string) (*domain.Machine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	machine, ok := r.s.machines[id]
	if !ok {
		return nil, errNotFound
	}
	return &machine, nil
}

func (r *machineRepository) List(_ context.Context) ([]domain.Machine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sortedMachines(func(domain.Machine) bool { return true }), nil
}

func (r *machineRepository) ListByCompany(_ context.Context, companyID string) ([]domain.Machine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sortedMachines(func(m domain.Machine) bool {
		_, ok := r.s.links[domain.CompanyMachine{CompanyID: companyID, MachineID: m.ID}]
		return ok
	}), nil
}

func (r *machineRepository) LinkCompany(_ context.Context, link domain.CompanyMachine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[link.CompanyID]; !ok {
		return errNotFound
	}
	if _, ok := r.s.machines[link.MachineID]; !ok {
		return errNotFound
	}
	r.s.links[link] = struct{}{}
	return nil
}

func (r *machineRepository) IsLinked(_ context.Context, companyID, machineID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.links[domain.CompanyMachine{CompanyID: companyID, MachineID: machineID}]
	return ok, nil
}

func (s *Store) sortedMachines(keep func(domain.Machine) bool) []domain.Machine {
	result := []domain.Machine{}
	for _, machine := range s.machines {
		if keep(machine) {
			result = append(result, machine)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

type solutionRepository struct {
	s *Store
}

func (r *solutionRepository) Create(_ context.Context, solution *domain.Solution) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	solution.ID = newID()
	r.s.solutions[solution.ID] = *solution
	return nil
}

func (r *solutionRepository) ListByMachine(_ context.Context, machineID, language string) ([]domain.Solution, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.Solution{}
	for _, solution := range r.s.solutions {
		if solution.MachineID != machineID {
			continue
		}
		if language != "" && solution.Language != language {
			continue
		}
		result = append(result, solution)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Issue < result[j].Issue })
	return result, nil
}

type notificationRepository struct {
	s *Store
}

func (r *notificationRepository) Create(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = newID()
	r.s.notifications[n.ID] = *n
	return nil
}

func (r *notificationRepository) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return nil, errNotFound
	}
	return &n, nil
}

func (r *notificationRepository) ListByUser(_ context.Context, userID string, limit int) ([]domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if limit <= 0 {
		limit = 50
	}
	result := []domain.Notification{}
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *notificationRepository) CountUnread(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return errNotFound
	}
	n.IsRead = true
	r.s.notifications[id] = n
	return nil
}

type tokenDenylist struct {
	s *Store
}

func (d *tokenDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	d.s.revoked[tokenID] = d.s.now().Add(ttl)
	return nil
}

func (d *tokenDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	expires, ok := d.s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !d.s.now().Before(expires) {
		delete(d.s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
