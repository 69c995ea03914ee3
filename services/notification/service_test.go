// File: services/notification/service_test.go
package notification

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deviceRepo "barberbook/database/repository/device"
	notificationRepo "barberbook/database/repository/notification"
	userRepo "barberbook/database/repository/user"
	"barberbook/models"
)

// fakeNotificationRepo is an in-memory NotificationRepository.
type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]models.Notification
	seq           int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[string]models.Notification)}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	n.ID = fmt.Sprintf("notif-%d", f.seq)
	n.CreatedAt = time.Now().UTC()
	f.notifications[n.ID] = *n
	return nil
}

func (f *fakeNotificationRepo) SetPushCounts(_ context.Context, id string, success, failure int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok {
		return notificationRepo.ErrNotFound
	}
	n.PushSuccessCount = success
	n.PushFailureCount = failure
	f.notifications[id] = n
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, limit, offset int64) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok || n.UserID != userID {
		return notificationRepo.ErrNotFound
	}
	n.IsRead = true
	f.notifications[id] = n
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, v := range f.notifications {
		if v.UserID == userID && !v.IsRead {
			v.IsRead = true
			f.notifications[id] = v
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, v := range f.notifications {
		if v.UserID == userID && !v.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) CountSince(_ context.Context, userID string, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, v := range f.notifications {
		if v.UserID == userID && v.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) Count(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, v := range f.notifications {
		if v.UserID == userID {
			n++
		}
	}
	return n, nil
}

// fakeDevices covers the device repository surface the notification service
// touches; the rest comes from the embedded nil interface.
type fakeDevices struct {
	deviceRepo.DeviceRepository

	mu      sync.Mutex
	devices map[string]models.Device
}

func newFakeDevices(devices ...models.Device) *fakeDevices {
	f := &fakeDevices{devices: make(map[string]models.Device)}
	for _, d := range devices {
		f.devices[d.ID] = d
	}
	return f
}

func (f *fakeDevices) ListActiveByUser(_ context.Context, userID string, platform models.Platform) ([]models.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Device
	for _, d := range f.devices {
		if d.UserID == userID && d.IsActive && (platform == "" || d.Platform == platform) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDevices) CountActiveByUser(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, d := range f.devices {
		if d.UserID == userID && d.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeDevices) DeactivateByIDs(_ context.Context, ids []string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, id := range ids {
		if d, ok := f.devices[id]; ok && d.IsActive {
			d.IsActive = false
			f.devices[id] = d
			n++
		}
	}
	return n, nil
}

// fakeUsers covers the user repository surface the notification service
// touches.
type fakeUsers struct {
	userRepo.UserRepository

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

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	return &u, nil
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

// scriptedTransport maps push tokens to outcomes. Unknown tokens deliver.
type scriptedTransport struct {
	mu       sync.Mutex
	outcomes map[string]DeliveryOutcome
	sent     []string
}

func (t *scriptedTransport) Send(_ context.Context, msg PushMessage) DeliveryOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, msg.Token)
	if o, ok := t.outcomes[msg.Token]; ok {
		return o
	}
	return Delivered
}

// blockingTransport never returns before the delivery context expires.
type blockingTransport struct{}

func (blockingTransport) Send(ctx context.Context, _ PushMessage) DeliveryOutcome {
	<-ctx.Done()
	return TransientFailure
}

func device(id, userID, token string) models.Device {
	return models.Device{
		ID: id, UserID: userID, Platform: models.PlatformAndroid,
		PushToken: token, IsActive: true,
	}
}

func enabledUser(id string) models.User {
	return models.User{ID: id, FirstName: "Alex", NotificationsEnabled: true}
}

func TestNotifyFanOutCounts(t *testing.T) {
	repo := newFakeNotificationRepo()
	devices := newFakeDevices(
		device("d-1", "user-1", "tok-ok-1"),
		device("d-2", "user-1", "tok-ok-2"),
		device("d-3", "user-1", "tok-flaky"),
		device("d-4", "user-1", "tok-dead"),
	)
	users := newFakeUsers(enabledUser("user-1"))
	transport := &scriptedTransport{outcomes: map[string]DeliveryOutcome{
		"tok-flaky": TransientFailure,
		"tok-dead":  PermanentFailure,
	}}
	svc := NewNotificationService(repo, devices, users, transport, 3, time.Second)

	n, err := svc.Notify(context.Background(), "user-1", "Booking confirmed", "See you at 2pm", models.NotificationBookingConfirmed, "booking-1", nil)
	require.NoError(t, err)

	// Delivered + failed always covers every device attempted.
	assert.Equal(t, 2, n.PushSuccessCount)
	assert.Equal(t, 2, n.PushFailureCount)
	assert.Len(t, transport.sent, 4)

	// The provider rejected tok-dead outright, so that device is retired.
	active, err := devices.ListActiveByUser(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.Len(t, active, 3)

	got, err := repo.ListByUser(context.Background(), "user-1", false, 50, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].PushSuccessCount)
	assert.Equal(t, 2, got[0].PushFailureCount)
}

func TestNotifyDisabledUserKeepsRecord(t *testing.T) {
	repo := newFakeNotificationRepo()
	devices := newFakeDevices(device("d-1", "user-1", "tok-1"))
	users := newFakeUsers(models.User{ID: "user-1", NotificationsEnabled: false})
	transport := &scriptedTransport{}
	svc := NewNotificationService(repo, devices, users, transport, 2, time.Second)

	n, err := svc.Notify(context.Background(), "user-1", "Hello", "World", models.NotificationBookingReceived, "", nil)
	require.NoError(t, err)
	require.NotEmpty(t, n.ID)

	// No push went out, but the in-app record exists and stays unread.
	assert.Empty(t, transport.sent)
	unread, err := svc.UnreadCount(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestNotifyNoDevices(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, newFakeDevices(), newFakeUsers(enabledUser("user-1")), &scriptedTransport{}, 2, time.Second)

	n, err := svc.Notify(context.Background(), "user-1", "Hello", "World", models.NotificationBookingReceived, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n.PushSuccessCount)
	assert.Equal(t, 0, n.PushFailureCount)
}

func TestNotifyNilTransport(t *testing.T) {
	repo := newFakeNotificationRepo()
	devices := newFakeDevices(device("d-1", "user-1", "tok-1"))
	svc := NewNotificationService(repo, devices, newFakeUsers(enabledUser("user-1")), nil, 2, time.Second)

	n, err := svc.Notify(context.Background(), "user-1", "Hello", "World", models.NotificationBookingReceived, "", nil)
	require.NoError(t, err)
	require.NotEmpty(t, n.ID)
	assert.Equal(t, 0, n.PushSuccessCount)
}

func TestNotifySlowProviderTimesOut(t *testing.T) {
	repo := newFakeNotificationRepo()
	devices := newFakeDevices(device("d-1", "user-1", "tok-1"))
	users := newFakeUsers(enabledUser("user-1"))
	svc := NewNotificationService(repo, devices, users, blockingTransport{}, 1, 20*time.Millisecond)

	n, err := svc.Notify(context.Background(), "user-1", "Hello", "World", models.NotificationBookingReceived, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n.PushSuccessCount)
	assert.Equal(t, 1, n.PushFailureCount)

	// Timeouts are transient, the device survives.
	active, err := devices.ListActiveByUser(context.Background(), "user-1", "")
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestSendTestPlatformFilter(t *testing.T) {
	repo := newFakeNotificationRepo()
	devices := newFakeDevices(
		device("d-1", "user-1", "tok-android"),
		models.Device{ID: "d-2", UserID: "user-1", Platform: models.PlatformIOS, PushToken: "tok-ios", IsActive: true},
	)
	users := newFakeUsers(enabledUser("user-1"))
	transport := &scriptedTransport{}
	svc := NewNotificationService(repo, devices, users, transport, 2, time.Second)

	me := models.Identity{ID: "user-1", Role: models.RoleCustomer}
	n, err := svc.SendTest(context.Background(), me, models.TestNotificationRequest{Platform: models.PlatformIOS})
	require.NoError(t, err)
	assert.Equal(t, models.NotificationTest, n.Type)
	assert.Equal(t, "Test notification", n.Title)
	assert.Equal(t, []string{"tok-ios"}, transport.sent)

	_, err = svc.SendTest(context.Background(), me, models.TestNotificationRequest{Platform: "pager"})
	require.Error(t, err)
}

func TestMarkReadAndStats(t *testing.T) {
	repo := newFakeNotificationRepo()
	devices := newFakeDevices(device("d-1", "user-1", "tok-1"))
	users := newFakeUsers(enabledUser("user-1"))
	svc := NewNotificationService(repo, devices, users, &scriptedTransport{}, 2, time.Second)
	ctx := context.Background()

	first, err := svc.Notify(ctx, "user-1", "One", "first", models.NotificationBookingReceived, "", nil)
	require.NoError(t, err)
	_, err = svc.Notify(ctx, "user-1", "Two", "second", models.NotificationBookingConfirmed, "", nil)
	require.NoError(t, err)

	// Reading someone else's notification fails.
	err = svc.MarkRead(ctx, "user-2", first.ID)
	require.Error(t, err)

	require.NoError(t, svc.MarkRead(ctx, "user-1", first.ID))

	unread, err := svc.UnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	stats, err := svc.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Unread)
	assert.Equal(t, int64(2), stats.Recent)
	assert.Equal(t, int64(1), stats.ActiveDevices)

	marked, err := svc.MarkAllRead(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	unread, err = svc.UnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestSetEnabled(t *testing.T) {
	users := newFakeUsers(enabledUser("user-1"))
	svc := NewNotificationService(newFakeNotificationRepo(), newFakeDevices(), users, nil, 1, time.Second)
	ctx := context.Background()

	require.NoError(t, svc.SetEnabled(ctx, "user-1", false))
	u, err := users.GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, u.NotificationsEnabled)

	err = svc.SetEnabled(ctx, "ghost", true)
	require.Error(t, err)
}
