package database

import (
	"sort"
	"sync"
	"time"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used for local development without
// Postgres and as the test harness for the workflow state machine. A
// single mutex gives it the same effective semantics as the database's
// row-level conditional updates.
type MemoryStore struct {
	mu sync.Mutex

	users        map[string]*models.User
	properties   map[string]*models.Property
	slots        map[string]*models.ViewingSlot
	viewings     map[string]*models.Viewing
	invites      map[string]*models.ApplicationInvite
	applications map[string]*models.Application
	screening    map[string]*models.ScreeningProfile
	tenancies    map[string]*models.Tenancy
	payments     map[string]*models.PaymentRecord
	heartbeats   map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]*models.User),
		properties:   make(map[string]*models.Property),
		slots:        make(map[string]*models.ViewingSlot),
		viewings:     make(map[string]*models.Viewing),
		invites:      make(map[string]*models.ApplicationInvite),
		applications: make(map[string]*models.Application),
		screening:    make(map[string]*models.ScreeningProfile),
		tenancies:    make(map[string]*models.Tenancy),
		payments:     make(map[string]*models.PaymentRecord),
		heartbeats:   make(map[string]time.Time),
	}
}

// ================= Users =================

func (m *MemoryStore) CreateUser(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetUserByID(id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// ================= Properties =================

func (m *MemoryStore) CreateProperty(p *models.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.properties[p.ID] = &cp
	return nil
}

func (m *MemoryStore) GetProperty(id string) (*models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.properties[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) ListPropertiesByLandlord(landlordID string) ([]models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []models.Property
	for _, p := range m.properties {
		if p.LandlordID == landlordID {
			list = append(list, *p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// ================= Viewing slots =================

func (m *MemoryStore) CreateSlot(sl *models.ViewingSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sl.ID = uuid.NewString()
	sl.Status = models.SlotAvailable
	sl.CreatedAt = time.Now()
	sl.UpdatedAt = sl.CreatedAt
	cp := *sl
	m.slots[sl.ID] = &cp
	return nil
}

func (m *MemoryStore) GetSlot(id string) (*models.ViewingSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sl, ok := m.slots[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sl
	return &cp, nil
}

func (m *MemoryStore) ListAvailableSlots(propertyID string, after time.Time) ([]models.ViewingSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []models.ViewingSlot
	for _, sl := range m.slots {
		if sl.PropertyID == propertyID && sl.Status == models.SlotAvailable && sl.StartTime.After(after) {
			list = append(list, *sl)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].StartTime.Before(list[j].StartTime) })
	return list, nil
}

func (m *MemoryStore) bookLocked(slotID, tenantID string) bool {
	sl, ok := m.slots[slotID]
	if !ok || sl.Status != models.SlotAvailable {
		return false
	}
	tid := tenantID
	sl.Status = models.SlotBooked
	sl.BookedByTenantID = &tid
	sl.UpdatedAt = time.Now()
	return true
}

func (m *MemoryStore) releaseLocked(slotID, tenantID string) bool {
	sl, ok := m.slots[slotID]
	if !ok || sl.Status != models.SlotBooked || sl.BookedByTenantID == nil || *sl.BookedByTenantID != tenantID {
		return false
	}
	sl.Status = models.SlotAvailable
	sl.BookedByTenantID = nil
	sl.UpdatedAt = time.Now()
	return true
}

func (m *MemoryStore) BookSlot(slotID, tenantID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookLocked(slotID, tenantID), nil
}

func (m *MemoryStore) ReleaseSlot(slotID, tenantID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releaseLocked(slotID, tenantID), nil
}

func (m *MemoryStore) RescheduleSlot(tenantID, oldSlotID, newSlotID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.bookLocked(newSlotID, tenantID) {
		return false, nil
	}
	if !m.releaseLocked(oldSlotID, tenantID) {
		// roll the claim back; all-or-nothing
		m.releaseLocked(newSlotID, tenantID)
		return false, nil
	}
	return true, nil
}

func (m *MemoryStore) FindActiveBooking(tenantID, propertyID string) (*models.ViewingSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.ViewingSlot
	for _, sl := range m.slots {
		if sl.PropertyID == propertyID && sl.Status == models.SlotBooked &&
			sl.BookedByTenantID != nil && *sl.BookedByTenantID == tenantID {
			if best == nil || sl.StartTime.Before(best.StartTime) {
				best = sl
			}
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

// ================= Viewings =================

func (m *MemoryStore) CreateViewing(v *models.Viewing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.ID = uuid.NewString()
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	cp := *v
	m.viewings[v.ID] = &cp
	return nil
}

func (m *MemoryStore) GetViewing(id string) (*models.Viewing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.viewings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *MemoryStore) FindViewingForPair(propertyID, tenantID string) (*models.Viewing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.Viewing
	for _, v := range m.viewings {
		if v.PropertyID == propertyID && v.TenantID == tenantID && v.Status != models.ViewingCancelled {
			if latest == nil || v.CreatedAt.After(latest.CreatedAt) {
				latest = v
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (m *MemoryStore) listViewings(match func(*models.Viewing) bool) []models.Viewing {
	var list []models.Viewing
	for _, v := range m.viewings {
		if match(v) {
			list = append(list, *v)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (m *MemoryStore) ListViewingsByTenant(tenantID string) ([]models.Viewing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listViewings(func(v *models.Viewing) bool { return v.TenantID == tenantID }), nil
}

func (m *MemoryStore) ListViewingsByLandlord(landlordID string) ([]models.Viewing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listViewings(func(v *models.Viewing) bool { return v.LandlordID == landlordID }), nil
}

func (m *MemoryStore) SetViewingScheduled(id string, date time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.viewings[id]
	if !ok || (v.Status != models.ViewingRequested && v.Status != models.ViewingScheduled) {
		return false, nil
	}
	d := date
	v.Status = models.ViewingScheduled
	v.ScheduledDate = &d
	v.UpdatedAt = time.Now()
	return true, nil
}

func (m *MemoryStore) CompleteViewing(id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.viewings[id]
	if !ok || (v.Status != models.ViewingRequested && v.Status != models.ViewingScheduled) {
		return false, nil
	}
	t := at
	v.Status = models.ViewingCompleted
	v.CompletedAt = &t
	v.UpdatedAt = time.Now()
	return true, nil
}

func (m *MemoryStore) ConfirmViewing(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.viewings[id]
	if !ok || v.Status != models.ViewingCompleted {
		return false, nil
	}
	v.Confirmed = true
	v.UpdatedAt = time.Now()
	return true, nil
}

func (m *MemoryStore) MarkApplicationSent(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.viewings[id]
	if !ok || !v.Confirmed {
		return false, nil
	}
	v.ApplicationSent = true
	v.UpdatedAt = time.Now()
	return true, nil
}

func (m *MemoryStore) CancelViewing(id, tenantID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.viewings[id]
	if !ok || v.TenantID != tenantID ||
		(v.Status != models.ViewingRequested && v.Status != models.ViewingScheduled) {
		return false, nil
	}
	v.Status = models.ViewingCancelled
	v.UpdatedAt = time.Now()
	return true, nil
}

// ================= Application invites =================

func (m *MemoryStore) CreateInvite(inv *models.ApplicationInvite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv.ID = uuid.NewString()
	inv.Status = models.InviteInvited
	inv.CreatedAt = time.Now()
	cp := *inv
	m.invites[inv.ID] = &cp
	return nil
}

func (m *MemoryStore) GetInviteByToken(token string) (*models.ApplicationInvite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invites {
		if inv.Token == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) GetInvite(id string) (*models.ApplicationInvite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invites[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *MemoryStore) FindLiveInvite(propertyID, tenantID string, now time.Time) (*models.ApplicationInvite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.ApplicationInvite
	for _, inv := range m.invites {
		if inv.PropertyID == propertyID && inv.TenantID == tenantID && inv.Live(now) {
			if latest == nil || inv.CreatedAt.After(latest.CreatedAt) {
				latest = inv
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (m *MemoryStore) ExpireLiveInvites(propertyID, tenantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invites {
		if inv.PropertyID == propertyID && inv.TenantID == tenantID && inv.Status == models.InviteInvited {
			inv.Status = models.InviteExpired
		}
	}
	return nil
}

func (m *MemoryStore) ConsumeInvite(id string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invites[id]
	if !ok || inv.Status != models.InviteInvited {
		return false, nil
	}
	t := at
	inv.Status = models.InviteUsed
	inv.UsedAt = &t
	return true, nil
}

// ================= Applications =================

func (m *MemoryStore) GetApplication(id string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) FindApplicationForPair(tenantID, propertyID string) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.applications {
		if a.TenantID == tenantID && a.PropertyID == propertyID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) listApplications(match func(*models.Application) bool) []models.Application {
	var list []models.Application
	for _, a := range m.applications {
		if match(a) {
			list = append(list, *a)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (m *MemoryStore) ListApplicationsByLandlord(landlordID string) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listApplications(func(a *models.Application) bool { return a.LandlordID == landlordID }), nil
}

func (m *MemoryStore) ListApplicationsByTenant(tenantID string) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listApplications(func(a *models.Application) bool { return a.TenantID == tenantID }), nil
}

func (m *MemoryStore) ReplaceApplication(app *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.applications {
		if a.TenantID == app.TenantID && a.PropertyID == app.PropertyID {
			delete(m.applications, id)
		}
	}
	app.ID = uuid.NewString()
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	cp := *app
	m.applications[app.ID] = &cp
	return nil
}

func (m *MemoryStore) AdvanceApplication(id string, from, to models.ApplicationStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	return true, nil
}

func (m *MemoryStore) DecideApplication(id, landlordID string, to models.ApplicationStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok || a.LandlordID != landlordID || a.Status.Terminal() {
		return false, nil
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	return true, nil
}

// ================= Screening =================

func (m *MemoryStore) UpsertScreeningProfile(p *models.ScreeningProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.UpdatedAt = time.Now()
	cp := *p
	m.screening[p.TenantID] = &cp
	return nil
}

func (m *MemoryStore) GetScreeningProfile(tenantID string) (*models.ScreeningProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.screening[tenantID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// ================= Tenancies =================

func (m *MemoryStore) CreateTenancy(t *models.Tenancy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = uuid.NewString()
	t.LeaseStatus = models.LeaseDraft
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	m.tenancies[t.ID] = &cp
	return nil
}

func (m *MemoryStore) GetTenancy(id string) (*models.Tenancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenancies[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MemoryStore) FindTenancyForTriple(landlordID, tenantID, propertyID string) (*models.Tenancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenancies {
		if t.LandlordID == landlordID && t.TenantID == tenantID && t.PropertyID == propertyID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) listTenancies(match func(*models.Tenancy) bool) []models.Tenancy {
	var list []models.Tenancy
	for _, t := range m.tenancies {
		if match(t) {
			list = append(list, *t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func (m *MemoryStore) ListTenanciesByLandlord(landlordID string) ([]models.Tenancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listTenancies(func(t *models.Tenancy) bool { return t.LandlordID == landlordID }), nil
}

func (m *MemoryStore) ListTenanciesByTenant(tenantID string) ([]models.Tenancy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listTenancies(func(t *models.Tenancy) bool { return t.TenantID == tenantID }), nil
}

func (m *MemoryStore) AttachLeaseDocument(id, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenancies[id]
	if !ok || t.LeaseStatus != models.LeaseDraft {
		return false, nil
	}
	p := path
	t.LeaseDocumentPath = &p
	t.LeaseStatus = models.LeaseAwaitingTenantSignature
	t.UpdatedAt = time.Now()
	return true, nil
}

func (m *MemoryStore) TenantSignLease(id, tenantID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenancies[id]
	if !ok || t.TenantID != tenantID || t.LeaseStatus != models.LeaseAwaitingTenantSignature {
		return false, nil
	}
	ts := at
	t.TenantSignedAt = &ts
	t.LeaseStatus = models.LeaseAwaitingLandlordSignature
	t.UpdatedAt = time.Now()
	return true, nil
}

func (m *MemoryStore) LandlordSignLease(id, landlordID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenancies[id]
	if !ok || t.LandlordID != landlordID || t.LeaseStatus != models.LeaseAwaitingLandlordSignature {
		return false, nil
	}
	ts := at
	t.LandlordSignedAt = &ts
	t.LeaseStatus = models.LeaseCompleted
	t.UpdatedAt = time.Now()
	return true, nil
}

// ================= Payments =================

func (m *MemoryStore) CreatePaymentRecord(p *models.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	cp := *p
	m.payments[p.Reference] = &cp
	return nil
}

func (m *MemoryStore) GetPaymentByReference(reference string) (*models.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[reference]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryStore) MarkPaymentPaid(reference string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[reference]
	if !ok || p.PaidAt != nil {
		return false, nil
	}
	t := at
	p.PaidAt = &t
	return true, nil
}

// ================= Presence =================

func (m *MemoryStore) UpsertHeartbeat(userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.heartbeats[userID] = at
	return nil
}

func (m *MemoryStore) GetHeartbeat(userID string) (*models.Heartbeat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.heartbeats[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &models.Heartbeat{UserID: userID, LastSeen: at}, nil
}

func (m *MemoryStore) HealthCheck() error { return nil }

func (m *MemoryStore) Close() error { return nil }
