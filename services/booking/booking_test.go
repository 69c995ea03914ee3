// File: services/booking/booking_test.go
package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingRepo "barberbook/database/repository/booking"
	slotRepo "barberbook/database/repository/slot"
	userRepo "barberbook/database/repository/user"
	"barberbook/models"
	"barberbook/utils"
)

// fakeSlots covers the slot repository surface the booking service touches,
// with the same compare-and-swap semantics as the mongo implementation.
// Unused interface methods come from the embedded nil interface.
type fakeSlots struct {
	slotRepo.SlotRepository

	mu    sync.Mutex
	slots map[string]models.Slot
}

func newFakeSlots() *fakeSlots {
	return &fakeSlots{slots: make(map[string]models.Slot)}
}

func (f *fakeSlots) add(s models.Slot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[s.ID] = s
}

func (f *fakeSlots) GetByID(_ context.Context, slotID string) (*models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[slotID]
	if !ok {
		return nil, slotRepo.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSlots) GetByIDs(_ context.Context, slotIDs []string) ([]models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Slot
	for _, id := range slotIDs {
		if s, ok := f.slots[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlots) GetByBarberAndDate(_ context.Context, barberID, date string) ([]models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Slot
	for _, s := range f.slots {
		if s.BarberID == barberID && s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlots) Reserve(_ context.Context, slotID, customerID string, now time.Time) (*models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[slotID]
	if !ok || s.IsBooked || !s.StartTime().After(now) {
		return nil, slotRepo.ErrSlotTaken
	}
	s.IsBooked = true
	s.BookedBy = customerID
	f.slots[slotID] = s
	return &s, nil
}

func (f *fakeSlots) Release(_ context.Context, slotID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[slotID]
	if !ok {
		return slotRepo.ErrNotFound
	}
	s.IsBooked = false
	s.BookedBy = ""
	f.slots[slotID] = s
	return nil
}

func (f *fakeSlots) Reassign(_ context.Context, oldSlotID, newSlotID, customerID string, now time.Time) (*models.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	newSlot, ok := f.slots[newSlotID]
	if !ok || newSlot.IsBooked || !newSlot.StartTime().After(now) {
		return nil, slotRepo.ErrSlotTaken
	}
	oldSlot, ok := f.slots[oldSlotID]
	if !ok || !oldSlot.IsBooked {
		return nil, slotRepo.ErrNotFound
	}
	newSlot.IsBooked = true
	newSlot.BookedBy = customerID
	oldSlot.IsBooked = false
	oldSlot.BookedBy = ""
	f.slots[newSlotID] = newSlot
	f.slots[oldSlotID] = oldSlot
	return &newSlot, nil
}

// fakeBookings is an in-memory BookingRepository.
type fakeBookings struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
	seq      int
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{bookings: make(map[string]models.Booking)}
}

func (f *fakeBookings) Create(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == "" {
		f.seq++
		b.ID = fmt.Sprintf("booking-%d", f.seq)
	}
	if b.BookedAt.IsZero() {
		b.BookedAt = time.Now().UTC()
	}
	f.bookings[b.ID] = *b
	return nil
}

func (f *fakeBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	return &b, nil
}

func (f *fakeBookings) GetOwnedByCustomer(_ context.Context, id, customerID string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.CustomerID != customerID {
		return nil, bookingRepo.ErrNotFound
	}
	return &b, nil
}

func (f *fakeBookings) GetBySlotID(_ context.Context, slotID string, statuses []string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.SlotID == slotID && statusIn(b.Status, statuses) {
			return &b, nil
		}
	}
	return nil, bookingRepo.ErrNotFound
}

func statusIn(status string, statuses []string) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (f *fakeBookings) ListByCustomer(_ context.Context, customerID string, statuses []string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.CustomerID == customerID && statusIn(b.Status, statuses) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) ListBySlotIDs(_ context.Context, slotIDs []string, statuses []string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make(map[string]bool, len(slotIDs))
	for _, id := range slotIDs {
		ids[id] = true
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if ids[b.SlotID] && statusIn(b.Status, statuses) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) UpdateSchedule(_ context.Context, id, newSlotID string, specialRequests *string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	b.SlotID = newSlotID
	if specialRequests != nil {
		b.SpecialRequests = *specialRequests
	}
	b.UpdatedAt = &at
	f.bookings[id] = b
	return nil
}

func (f *fakeBookings) SetStatus(_ context.Context, id, status string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = &at
	switch status {
	case models.BookingCompleted:
		b.CompletedAt = &at
	case models.BookingCancelled, models.BookingNoShow:
		b.CancelledAt = &at
	}
	f.bookings[id] = b
	return nil
}

func (f *fakeBookings) Cancel(_ context.Context, id, reason string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	b.Status = models.BookingCancelled
	b.CancellationReason = reason
	b.CancelledAt = &at
	b.UpdatedAt = &at
	f.bookings[id] = b
	return nil
}

func (f *fakeBookings) SetRating(_ context.Context, id string, rating int, review string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	b.Rating = &rating
	b.ReviewText = review
	b.UpdatedAt = &at
	f.bookings[id] = b
	return nil
}

// fakeUsers is an in-memory UserRepository.
type fakeUsers struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[string]models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Insert(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.PhoneNumber == phone {
			return &u, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return userRepo.ErrNotFound
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeUsers) SetNotificationsEnabled(_ context.Context, id string, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return userRepo.ErrNotFound
	}
	u.NotificationsEnabled = enabled
	f.users[id] = u
	return nil
}

// recordingNotifier captures booking events for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	received  []string
	confirmed []string
	cancelled []string
}

func (r *recordingNotifier) BookingReceived(_ context.Context, barberID string, _ *models.Booking, _ *models.Slot, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, barberID)
}

func (r *recordingNotifier) BookingConfirmed(_ context.Context, customerID string, _ *models.Booking, _ *models.Slot, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmed = append(r.confirmed, customerID)
}

func (r *recordingNotifier) BookingCancelled(_ context.Context, recipientID string, _ *models.Booking, _ *models.Slot, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, recipientID)
}

var (
	barber   = models.Identity{ID: "barber-1", Role: models.RoleBarber}
	customer = models.Identity{ID: "customer-1", Role: models.RoleCustomer}
)

type env struct {
	slots    *fakeSlots
	bookings *fakeBookings
	users    *fakeUsers
	notifier *recordingNotifier
	svc      *DefaultBookingService
}

func newEnv() *env {
	slots := newFakeSlots()
	bookings := newFakeBookings()
	users := newFakeUsers(
		models.User{ID: barber.ID, FirstName: "Sam", Role: models.RoleBarber, ShopName: "Fade Factory"},
		models.User{ID: customer.ID, FirstName: "Alex", LastName: "Reed", Role: models.RoleCustomer},
	)
	notifier := &recordingNotifier{}
	return &env{
		slots:    slots,
		bookings: bookings,
		users:    users,
		notifier: notifier,
		svc:      NewBookingService(bookings, slots, users, notifier),
	}
}

// slotAt fabricates a slot starting at the given instant.
func slotAt(id string, at time.Time) models.Slot {
	return models.Slot{
		ID:       id,
		BarberID: barber.ID,
		Date:     at.Format("2006-01-02"),
		Start:    at.Hour()*60 + at.Minute(),
		End:      at.Hour()*60 + at.Minute() + 60,
	}
}

func TestBookHappyPath(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.slots.add(slotAt("slot-1", time.Now().UTC().Add(72*time.Hour)))

	details, err := e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-1", SpecialRequests: "skin fade"})
	require.NoError(t, err)

	assert.Equal(t, models.BookingPending, details.Booking.Status)
	assert.Equal(t, "skin fade", details.Booking.SpecialRequests)
	assert.True(t, details.CanModify)
	assert.False(t, details.IsPast)

	got, err := e.slots.GetByID(ctx, "slot-1")
	require.NoError(t, err)
	assert.True(t, got.IsBooked)
	assert.Equal(t, customer.ID, got.BookedBy)

	assert.Equal(t, []string{barber.ID}, e.notifier.received)
}

func TestBookBarberForbidden(t *testing.T) {
	e := newEnv()
	e.slots.add(slotAt("slot-1", time.Now().UTC().Add(72*time.Hour)))

	_, err := e.svc.Book(context.Background(), barber, models.BookRequest{SlotID: "slot-1"})
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, utils.CodeOf(err))
}

func TestBookUnknownSlot(t *testing.T) {
	e := newEnv()

	_, err := e.svc.Book(context.Background(), customer, models.BookRequest{SlotID: "nope"})
	require.Error(t, err)
	assert.Equal(t, utils.CodeNotFound, utils.CodeOf(err))
}

func TestBookTakenSlot(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.slots.add(slotAt("slot-1", time.Now().UTC().Add(72*time.Hour)))

	_, err := e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-1"})
	require.NoError(t, err)

	other := models.Identity{ID: "customer-2", Role: models.RoleCustomer}
	_, err = e.svc.Book(ctx, other, models.BookRequest{SlotID: "slot-1"})
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, utils.CodeOf(err))
}

func TestBookPastSlot(t *testing.T) {
	e := newEnv()
	e.slots.add(slotAt("slot-1", time.Now().UTC().Add(-2*time.Hour)))

	_, err := e.svc.Book(context.Background(), customer, models.BookRequest{SlotID: "slot-1"})
	require.Error(t, err)
	assert.Equal(t, utils.CodeValidation, utils.CodeOf(err))
}

func TestBookDuplicateTimeAcrossCapacity(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	at := time.Now().UTC().Add(72 * time.Hour)
	// Three chairs for the same time range.
	e.slots.add(slotAt("slot-1", at))
	e.slots.add(slotAt("slot-2", at))
	e.slots.add(slotAt("slot-3", at))

	_, err := e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-1"})
	require.NoError(t, err)

	// Same customer, different capacity unit, same time: refused.
	_, err = e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-2"})
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, utils.CodeOf(err))

	// A different customer takes the second chair fine.
	other := models.Identity{ID: "customer-2", Role: models.RoleCustomer}
	_, err = e.svc.Book(ctx, other, models.BookRequest{SlotID: "slot-2"})
	require.NoError(t, err)
}

func TestBookOverlappingTimeRefused(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	day := time.Now().UTC().Add(72 * time.Hour)
	base := time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.UTC)

	// A 90-minute cut straddling two of the barber's hour slots.
	held := slotAt("slot-long", base)
	held.End = held.Start + 90
	e.slots.add(held)
	e.slots.add(slotAt("slot-overlap", base.Add(30*time.Minute)))
	e.slots.add(slotAt("slot-next", base.Add(90*time.Minute)))

	_, err := e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-long"})
	require.NoError(t, err)

	// Partial overlap with the held range: refused even though the start differs.
	_, err = e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-overlap"})
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, utils.CodeOf(err))

	// Back-to-back is fine: the held range ends exactly where this one starts.
	_, err = e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-next"})
	require.NoError(t, err)
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.slots.add(slotAt("slot-1", time.Now().UTC().Add(72*time.Hour)))

	const attempts = 12
	var wg sync.WaitGroup
	var mu sync.Mutex
	var successes, conflicts int
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			who := models.Identity{ID: fmt.Sprintf("customer-%d", n), Role: models.RoleCustomer}
			_, err := e.svc.Book(ctx, who, models.BookRequest{SlotID: "slot-1"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if utils.CodeOf(err) == utils.CodeConflict {
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestReschedule(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.slots.add(slotAt("slot-1", time.Now().UTC().Add(72*time.Hour)))
	e.slots.add(slotAt("slot-2", time.Now().UTC().Add(96*time.Hour)))

	booked, err := e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-1"})
	require.NoError(t, err)

	details, err := e.svc.Reschedule(ctx, customer, booked.Booking.ID, models.UpdateBookingRequest{NewSlotID: "slot-2"})
	require.NoError(t, err)
	assert.Equal(t, "slot-2", details.Booking.SlotID)

	oldSlot, err := e.slots.GetByID(ctx, "slot-1")
	require.NoError(t, err)
	assert.False(t, oldSlot.IsBooked)

	newSlot, err := e.slots.GetByID(ctx, "slot-2")
	require.NoError(t, err)
	assert.True(t, newSlot.IsBooked)
	assert.Equal(t, customer.ID, newSlot.BookedBy)
}

func TestRescheduleCutoff(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.slots.add(slotAt("soon", time.Now().UTC().Add(time.Hour)))
	e.slots.add(slotAt("later", time.Now().UTC().Add(72*time.Hour)))

	// Book the imminent slot directly through the repo so the booking exists.
	_, err := e.slots.Reserve(ctx, "soon", customer.ID, time.Now().UTC())
	require.NoError(t, err)
	b := &models.Booking{CustomerID: customer.ID, SlotID: "soon", Status: models.BookingPending}
	require.NoError(t, e.bookings.Create(ctx, b))

	_, err = e.svc.Reschedule(ctx, customer, b.ID, models.UpdateBookingRequest{NewSlotID: "later"})
	require.Error(t, err)
	assert.Equal(t, utils.CodeCutoffExceeded, utils.CodeOf(err))
}

func TestRescheduleToImminentSlot(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.slots.add(slotAt("slot-1", time.Now().UTC().Add(72*time.Hour)))
	e.slots.add(slotAt("soon", time.Now().UTC().Add(time.Hour)))

	booked, err := e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-1"})
	require.NoError(t, err)

	_, err = e.svc.Reschedule(ctx, customer, booked.Booking.ID, models.UpdateBookingRequest{NewSlotID: "soon"})
	require.Error(t, err)
	assert.Equal(t, utils.CodeCutoffExceeded, utils.CodeOf(err))
}

func TestRescheduleSpecialRequestsOnly(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.slots.add(slotAt("slot-1", time.Now().UTC().Add(72*time.Hour)))

	booked, err := e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-1"})
	require.NoError(t, err)

	notes := "beard trim too"
	details, err := e.svc.Reschedule(ctx, customer, booked.Booking.ID, models.UpdateBookingRequest{SpecialRequests: &notes})
	require.NoError(t, err)
	assert.Equal(t, "slot-1", details.Booking.SlotID)
	assert.Equal(t, notes, details.Booking.SpecialRequests)
}

func TestCancelByCustomer(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.slots.add(slotAt("slot-1", time.Now().UTC().Add(72*time.Hour)))

	booked, err := e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-1"})
	require.NoError(t, err)

	err = e.svc.Cancel(ctx, customer, booked.Booking.ID, models.CancelBookingRequest{Reason: "plans changed"})
	require.NoError(t, err)

	got, err := e.bookings.GetByID(ctx, booked.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status)
	assert.Equal(t, "plans changed", got.CancellationReason)

	slot, err := e.slots.GetByID(ctx, "slot-1")
	require.NoError(t, err)
	assert.False(t, slot.IsBooked)

	// The barber hears about it.
	assert.Equal(t, []string{barber.ID}, e.notifier.cancelled)

	// Terminal bookings are frozen.
	err = e.svc.Cancel(ctx, customer, booked.Booking.ID, models.CancelBookingRequest{})
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, utils.CodeOf(err))
}

func TestCancelCutoffBindsOnlyCustomers(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.slots.add(slotAt("soon", time.Now().UTC().Add(time.Hour)))

	_, err := e.slots.Reserve(ctx, "soon", customer.ID, time.Now().UTC())
	require.NoError(t, err)
	b := &models.Booking{CustomerID: customer.ID, SlotID: "soon", Status: models.BookingConfirmed}
	require.NoError(t, e.bookings.Create(ctx, b))

	err = e.svc.Cancel(ctx, customer, b.ID, models.CancelBookingRequest{})
	require.Error(t, err)
	assert.Equal(t, utils.CodeCutoffExceeded, utils.CodeOf(err))

	// The slot's barber is not bound by the cutoff.
	err = e.svc.Cancel(ctx, barber, b.ID, models.CancelBookingRequest{Reason: "closing early"})
	require.NoError(t, err)
	assert.Equal(t, []string{customer.ID}, e.notifier.cancelled)
}

func TestCancelStrangerForbidden(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.slots.add(slotAt("slot-1", time.Now().UTC().Add(72*time.Hour)))

	booked, err := e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-1"})
	require.NoError(t, err)

	stranger := models.Identity{ID: "customer-9", Role: models.RoleCustomer}
	err = e.svc.Cancel(ctx, stranger, booked.Booking.ID, models.CancelBookingRequest{})
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, utils.CodeOf(err))
}

func TestSetStatusLifecycle(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.slots.add(slotAt("slot-1", time.Now().UTC().Add(72*time.Hour)))

	booked, err := e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-1"})
	require.NoError(t, err)
	id := booked.Booking.ID

	_, err = e.svc.SetStatus(ctx, customer, models.SetBookingStatusRequest{BookingID: id, NewStatus: models.BookingConfirmed})
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, utils.CodeOf(err))

	_, err = e.svc.SetStatus(ctx, barber, models.SetBookingStatusRequest{BookingID: id, NewStatus: "done"})
	require.Error(t, err)
	assert.Equal(t, utils.CodeValidation, utils.CodeOf(err))

	updated, err := e.svc.SetStatus(ctx, barber, models.SetBookingStatusRequest{BookingID: id, NewStatus: models.BookingConfirmed})
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.Status)
	assert.Equal(t, []string{customer.ID}, e.notifier.confirmed)

	updated, err = e.svc.SetStatus(ctx, barber, models.SetBookingStatusRequest{BookingID: id, NewStatus: models.BookingCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, updated.Status)

	got, err := e.bookings.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.CompletedAt)

	// Completed is terminal.
	_, err = e.svc.SetStatus(ctx, barber, models.SetBookingStatusRequest{BookingID: id, NewStatus: models.BookingInProgress})
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, utils.CodeOf(err))
}

func TestSetStatusOtherBarberForbidden(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.slots.add(slotAt("slot-1", time.Now().UTC().Add(72*time.Hour)))

	booked, err := e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-1"})
	require.NoError(t, err)

	rival := models.Identity{ID: "barber-2", Role: models.RoleBarber}
	_, err = e.svc.SetStatus(ctx, rival, models.SetBookingStatusRequest{BookingID: booked.Booking.ID, NewStatus: models.BookingConfirmed})
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, utils.CodeOf(err))
}

func TestRate(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.slots.add(slotAt("slot-1", time.Now().UTC().Add(72*time.Hour)))

	booked, err := e.svc.Book(ctx, customer, models.BookRequest{SlotID: "slot-1"})
	require.NoError(t, err)
	id := booked.Booking.ID

	err = e.svc.Rate(ctx, customer, id, models.RateBookingRequest{Rating: 5})
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, utils.CodeOf(err))

	_, err = e.svc.SetStatus(ctx, barber, models.SetBookingStatusRequest{BookingID: id, NewStatus: models.BookingCompleted})
	require.NoError(t, err)

	err = e.svc.Rate(ctx, customer, id, models.RateBookingRequest{Rating: 6})
	require.Error(t, err)
	assert.Equal(t, utils.CodeValidation, utils.CodeOf(err))

	err = e.svc.Rate(ctx, customer, id, models.RateBookingRequest{Rating: 5, ReviewText: "great fade"})
	require.NoError(t, err)

	err = e.svc.Rate(ctx, customer, id, models.RateBookingRequest{Rating: 4})
	require.Error(t, err)
	assert.Equal(t, utils.CodeConflict, utils.CodeOf(err))
}

func TestMyBookingsAndUpcoming(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	e.slots.add(slotAt("near", time.Now().UTC().Add(24*time.Hour)))
	e.slots.add(slotAt("far", time.Now().UTC().Add(120*time.Hour)))

	first, err := e.svc.Book(ctx, customer, models.BookRequest{SlotID: "far"})
	require.NoError(t, err)
	_, err = e.svc.Book(ctx, customer, models.BookRequest{SlotID: "near"})
	require.NoError(t, err)

	active, err := e.svc.MyBookings(ctx, customer, false)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	require.NoError(t, e.svc.Cancel(ctx, customer, first.Booking.ID, models.CancelBookingRequest{}))

	active, err = e.svc.MyBookings(ctx, customer, false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := e.svc.MyBookings(ctx, customer, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	upcoming, err := e.svc.Upcoming(ctx, customer)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "near", upcoming[0].Slot.ID)
}

func TestBarberSchedule(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	// Pin to mid-morning so both slots land on the same date.
	base := time.Now().UTC().AddDate(0, 0, 3)
	base = time.Date(base.Year(), base.Month(), base.Day(), 10, 0, 0, 0, time.UTC)
	early := slotAt("early", base)
	late := slotAt("late", base.Add(2*time.Hour))
	e.slots.add(early)
	e.slots.add(late)

	_, err := e.svc.Book(ctx, customer, models.BookRequest{SlotID: "late"})
	require.NoError(t, err)
	other := models.Identity{ID: "customer-2", Role: models.RoleCustomer}
	_, err = e.svc.Book(ctx, other, models.BookRequest{SlotID: "early"})
	require.NoError(t, err)

	schedule, err := e.svc.BarberSchedule(ctx, barber, early.Date)
	require.NoError(t, err)
	require.Len(t, schedule, 2)
	assert.Equal(t, "early", schedule[0].Slot.ID)
	assert.Equal(t, "late", schedule[1].Slot.ID)

	_, err = e.svc.BarberSchedule(ctx, customer, early.Date)
	require.Error(t, err)
	assert.Equal(t, utils.CodeForbidden, utils.CodeOf(err))
}
