package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/pkg/database"

	"github.com/google/uuid"
)

// memStore is shared in-memory state backing the fake repositories. All
// access goes through one mutex, mirroring the serialization the real store
// provides inside a transaction.
type memStore struct {
	mu sync.Mutex

	courts    map[uuid.UUID]*entity.Court
	equipment map[uuid.UUID]*entity.Equipment
	coaches   map[uuid.UUID]*entity.Coach
	windows   []*entity.CoachAvailability
	rules     map[uuid.UUID]*entity.PricingRule
	users     map[uuid.UUID]*entity.User
	sessions  map[string]*entity.Session
	bookings  map[uuid.UUID]*entity.Booking
	waitlist  map[uuid.UUID]*entity.WaitlistEntry
	nextSeq   int64
}

func newMemStore() *memStore {
	return &memStore{
		courts:    make(map[uuid.UUID]*entity.Court),
		equipment: make(map[uuid.UUID]*entity.Equipment),
		coaches:   make(map[uuid.UUID]*entity.Coach),
		rules:     make(map[uuid.UUID]*entity.PricingRule),
		users:     make(map[uuid.UUID]*entity.User),
		sessions:  make(map[string]*entity.Session),
		bookings:  make(map[uuid.UUID]*entity.Booking),
		waitlist:  make(map[uuid.UUID]*entity.WaitlistEntry),
		nextSeq:   1,
	}
}

func newMemRepository(store *memStore) *repository.Repository {
	return &repository.Repository{
		User:        &memUserRepo{store},
		Session:     &memSessionRepo{store},
		Court:       &memCourtRepo{store},
		Equipment:   &memEquipmentRepo{store},
		Coach:       &memCoachRepo{store},
		PricingRule: &memPricingRuleRepo{store},
		Booking:     &memBookingRepo{store},
		Waitlist:    &memWaitlistRepo{store},
	}
}

func sameSlot(date time.Time, start, end int, slot entity.SlotKey) bool {
	return date.Equal(slot.Date) && start == slot.StartMinute && end == slot.EndMinute
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// memTxManager serializes callbacks per court with a keyed mutex, matching
// the court-row lock semantics of the real manager.
type memTxManager struct {
	store *memStore

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newMemTxManager(store *memStore) database.TxManager {
	return &memTxManager{store: store, locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (m *memTxManager) WithinCourtLock(ctx context.Context, courtID uuid.UUID, fn func(ctx context.Context, q database.Querier) error) error {
	m.store.mu.Lock()
	_, exists := m.store.courts[courtID]
	m.store.mu.Unlock()
	if !exists {
		return database.ErrCourtNotFound
	}

	m.mu.Lock()
	lock, ok := m.locks[courtID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[courtID] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(ctx, nil)
}

// ---------- courts ----------

type memCourtRepo struct{ store *memStore }

func (r *memCourtRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Court, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.courts[id], nil
}

func (r *memCourtRepo) FindAllActive(ctx context.Context) ([]*entity.Court, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var courts []*entity.Court
	for _, court := range r.store.courts {
		if court.IsActive {
			courts = append(courts, court)
		}
	}
	sort.Slice(courts, func(i, j int) bool { return courts[i].Name < courts[j].Name })
	return courts, nil
}

// ---------- equipment ----------

type memEquipmentRepo struct{ store *memStore }

func (r *memEquipmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Equipment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.equipment[id], nil
}

func (r *memEquipmentRepo) FindAll(ctx context.Context) ([]*entity.Equipment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var items []*entity.Equipment
	for _, item := range r.store.equipment {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *memEquipmentRepo) BookedQuantityTx(ctx context.Context, q database.Querier, equipmentID uuid.UUID, date time.Time, startMinute, endMinute int) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	total := 0
	for _, booking := range r.store.bookings {
		if booking.Status != entity.BookingStatusConfirmed ||
			!booking.Date.Equal(date) ||
			!overlaps(booking.StartMinute, booking.EndMinute, startMinute, endMinute) {
			continue
		}
		for _, line := range booking.Equipment {
			if line.EquipmentID == equipmentID {
				total += line.Quantity
			}
		}
	}
	return total, nil
}

func (r *memEquipmentRepo) BookedQuantity(ctx context.Context, equipmentID uuid.UUID, date time.Time, startMinute, endMinute int) (int, error) {
	return r.BookedQuantityTx(ctx, nil, equipmentID, date, startMinute, endMinute)
}

// ---------- coaches ----------

type memCoachRepo struct{ store *memStore }

func (r *memCoachRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Coach, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.coaches[id], nil
}

func (r *memCoachRepo) FindAllActive(ctx context.Context) ([]*entity.Coach, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var coaches []*entity.Coach
	for _, coach := range r.store.coaches {
		if coach.IsActive {
			coaches = append(coaches, coach)
		}
	}
	sort.Slice(coaches, func(i, j int) bool { return coaches[i].Name < coaches[j].Name })
	return coaches, nil
}

func (r *memCoachRepo) FindAvailability(ctx context.Context, coachID uuid.UUID) ([]*entity.CoachAvailability, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var windows []*entity.CoachAvailability
	for _, window := range r.store.windows {
		if window.CoachID == coachID {
			windows = append(windows, window)
		}
	}
	return windows, nil
}

func (r *memCoachRepo) FindAvailabilityForDay(ctx context.Context, dayOfWeek int) ([]*entity.CoachAvailability, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var windows []*entity.CoachAvailability
	for _, window := range r.store.windows {
		if window.DayOfWeek == dayOfWeek {
			windows = append(windows, window)
		}
	}
	return windows, nil
}

// ---------- pricing rules ----------

type memPricingRuleRepo struct{ store *memStore }

func (r *memPricingRuleRepo) Create(ctx context.Context, rule *entity.PricingRule) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.rules[rule.ID] = rule
	return nil
}

func (r *memPricingRuleRepo) Update(ctx context.Context, rule *entity.PricingRule) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.rules[rule.ID]; !ok {
		return fmt.Errorf("pricing rule %s not found", rule.ID.String())
	}
	r.store.rules[rule.ID] = rule
	return nil
}

func (r *memPricingRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.rules, id)
	return nil
}

func (r *memPricingRuleRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.PricingRule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.rules[id], nil
}

func (r *memPricingRuleRepo) FindAll(ctx context.Context) ([]*entity.PricingRule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var rules []*entity.PricingRule
	for _, rule := range r.store.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority < rules[j].Priority
		}
		return rules[i].ID.String() < rules[j].ID.String()
	})
	return rules, nil
}

func (r *memPricingRuleRepo) FindEnabled(ctx context.Context) ([]*entity.PricingRule, error) {
	all, _ := r.FindAll(ctx)
	var rules []*entity.PricingRule
	for _, rule := range all {
		if rule.IsEnabled {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

// ---------- users ----------

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.ID] = user
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.users[id], nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

// ---------- sessions ----------

type memSessionRepo struct{ store *memStore }

func (r *memSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sessions[session.Token.String()] = session
	return nil
}

func (r *memSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	session := r.store.sessions[token]
	if session == nil || session.RevokedAt != nil || session.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	return session, nil
}

func (r *memSessionRepo) Revoke(ctx context.Context, token string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	session := r.store.sessions[token]
	if session == nil {
		return fmt.Errorf("session not found")
	}
	now := time.Now()
	session.RevokedAt = &now
	return nil
}

// ---------- bookings ----------

type memBookingRepo struct{ store *memStore }

func (r *memBookingRepo) CreateTx(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *booking
	r.store.bookings[booking.ID] = &copied
	return nil
}

func (r *memBookingRepo) FindConfirmedOverlapTx(ctx context.Context, q database.Querier, courtID uuid.UUID, date time.Time, startMinute, endMinute int) ([]*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var found []*entity.Booking
	for _, booking := range r.store.bookings {
		if booking.Status == entity.BookingStatusConfirmed &&
			booking.CourtID == courtID &&
			booking.Date.Equal(date) &&
			overlaps(booking.StartMinute, booking.EndMinute, startMinute, endMinute) {
			found = append(found, booking)
		}
	}
	return found, nil
}

func (r *memBookingRepo) FindByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.bookings[id], nil
}

func (r *memBookingRepo) UpdateStatusTx(ctx context.Context, q database.Querier, id uuid.UUID, status entity.BookingStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	booking, ok := r.store.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s not found", id.String())
	}
	booking.Status = status
	return nil
}

func (r *memBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.FindByIDTx(ctx, nil, id)
}

func (r *memBookingRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var found []*entity.Booking
	for _, booking := range r.store.bookings {
		if booking.UserID == userID {
			found = append(found, booking)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].CreatedAt.After(found[j].CreatedAt) })
	if offset >= len(found) {
		return nil, nil
	}
	end := offset + limit
	if end > len(found) {
		end = len(found)
	}
	return found[offset:end], nil
}

func (r *memBookingRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, booking := range r.store.bookings {
		if booking.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *memBookingRepo) FindEquipmentByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingEquipment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	booking, ok := r.store.bookings[bookingID]
	if !ok {
		return nil, nil
	}
	var lines []*entity.BookingEquipment
	for i := range booking.Equipment {
		lines = append(lines, &booking.Equipment[i])
	}
	return lines, nil
}

func (r *memBookingRepo) FindBookedCourtIDs(ctx context.Context, date time.Time, startMinute, endMinute int) ([]uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, booking := range r.store.bookings {
		if booking.Status == entity.BookingStatusConfirmed &&
			booking.Date.Equal(date) &&
			overlaps(booking.StartMinute, booking.EndMinute, startMinute, endMinute) &&
			!seen[booking.CourtID] {
			seen[booking.CourtID] = true
			ids = append(ids, booking.CourtID)
		}
	}
	return ids, nil
}

func (r *memBookingRepo) CoachIsBookedTx(ctx context.Context, q database.Querier, coachID uuid.UUID, date time.Time, startMinute, endMinute int) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, booking := range r.store.bookings {
		if booking.Status == entity.BookingStatusConfirmed &&
			booking.CoachID != nil && *booking.CoachID == coachID &&
			booking.Date.Equal(date) &&
			overlaps(booking.StartMinute, booking.EndMinute, startMinute, endMinute) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) CoachIsBooked(ctx context.Context, coachID uuid.UUID, date time.Time, startMinute, endMinute int) (bool, error) {
	return r.CoachIsBookedTx(ctx, nil, coachID, date, startMinute, endMinute)
}

// ---------- waitlist ----------

type memWaitlistRepo struct{ store *memStore }

func (r *memWaitlistRepo) CreateTx(ctx context.Context, q database.Querier, entry *entity.WaitlistEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	entry.Seq = r.store.nextSeq
	r.store.nextSeq++
	copied := *entry
	r.store.waitlist[entry.ID] = &copied
	return nil
}

func (r *memWaitlistRepo) FindLiveByUserAndSlotTx(ctx context.Context, q database.Querier, userID uuid.UUID, slot entity.SlotKey) (*entity.WaitlistEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, entry := range r.store.waitlist {
		if entry.UserID == userID && entry.CourtID == slot.CourtID &&
			sameSlot(entry.Date, entry.StartMinute, entry.EndMinute, slot) &&
			(entry.Status == entity.WaitlistStatusWaiting || entry.Status == entity.WaitlistStatusNotified) {
			return entry, nil
		}
	}
	return nil, nil
}

func (r *memWaitlistRepo) CountWaitingAheadTx(ctx context.Context, q database.Querier, target *entity.WaitlistEntry) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ahead := 0
	for _, entry := range r.store.waitlist {
		if entry.CourtID == target.CourtID &&
			sameSlot(entry.Date, entry.StartMinute, entry.EndMinute, target.Slot()) &&
			entry.Status == entity.WaitlistStatusWaiting &&
			beforeInQueue(entry, target) {
			ahead++
		}
	}
	return ahead, nil
}

func (r *memWaitlistRepo) CountWaitingAhead(ctx context.Context, entry *entity.WaitlistEntry) (int, error) {
	return r.CountWaitingAheadTx(ctx, nil, entry)
}

func beforeInQueue(a, b *entity.WaitlistEntry) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.Seq < b.Seq
}

func (r *memWaitlistRepo) FindNextWaitingTx(ctx context.Context, q database.Querier, slot entity.SlotKey) (*entity.WaitlistEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var next *entity.WaitlistEntry
	for _, entry := range r.store.waitlist {
		if entry.CourtID != slot.CourtID ||
			!sameSlot(entry.Date, entry.StartMinute, entry.EndMinute, slot) ||
			entry.Status != entity.WaitlistStatusWaiting {
			continue
		}
		if next == nil || beforeInQueue(entry, next) {
			next = entry
		}
	}
	return next, nil
}

func (r *memWaitlistRepo) MarkNotifiedTx(ctx context.Context, q database.Querier, id uuid.UUID, notifiedAt time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	entry, ok := r.store.waitlist[id]
	if !ok || entry.Status != entity.WaitlistStatusWaiting {
		return false, nil
	}
	entry.Status = entity.WaitlistStatusNotified
	entry.NotifiedAt = &notifiedAt
	return true, nil
}

func (r *memWaitlistRepo) MarkExpiredTx(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	entry, ok := r.store.waitlist[id]
	if !ok || entry.Status != entity.WaitlistStatusNotified {
		return false, nil
	}
	entry.Status = entity.WaitlistStatusExpired
	return true, nil
}

func (r *memWaitlistRepo) DeleteTx(ctx context.Context, q database.Querier, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.waitlist[id]; !ok {
		return fmt.Errorf("waitlist entry %s not found", id.String())
	}
	delete(r.store.waitlist, id)
	return nil
}

func (r *memWaitlistRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.WaitlistEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.waitlist[id], nil
}

func (r *memWaitlistRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.WaitlistEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var entries []*entity.WaitlistEntry
	for _, entry := range r.store.waitlist {
		if entry.UserID == userID &&
			(entry.Status == entity.WaitlistStatusWaiting || entry.Status == entity.WaitlistStatusNotified) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return beforeInQueue(entries[i], entries[j]) })
	return entries, nil
}

func (r *memWaitlistRepo) FindStaleNotified(ctx context.Context, cutoff time.Time) ([]*entity.WaitlistEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var entries []*entity.WaitlistEntry
	for _, entry := range r.store.waitlist {
		if entry.Status == entity.WaitlistStatusNotified &&
			entry.NotifiedAt != nil && entry.NotifiedAt.Before(cutoff) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].NotifiedAt.Before(*entries[j].NotifiedAt) })
	return entries, nil
}
