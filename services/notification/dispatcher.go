// File: services/notification/dispatcher.go
package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"barberbook/models"
	"barberbook/utils"
)

// DispatchResult tallies one fan-out. Attempted always equals
// Delivered + TransientFailures + PermanentFailures.
type DispatchResult struct {
	Attempted            int
	Delivered            int
	TransientFailures    int
	PermanentFailures    int
	DeactivatedDeviceIDs []string
}

// dispatcher pushes one message to many devices through a bounded worker
// pool, with a per-device delivery timeout.
type dispatcher struct {
	transport PushTransport
	workers   int
	timeout   time.Duration
}

type delivery struct {
	deviceID string
	outcome  DeliveryOutcome
}

// FanOut delivers the message to every device and tallies the outcomes.
// A device whose token the provider rejected ends up in
// DeactivatedDeviceIDs; the caller decides what to do with those records.
func (d *dispatcher) FanOut(ctx context.Context, devices []models.Device, title, body string, data map[string]string) DispatchResult {
	result := DispatchResult{Attempted: len(devices)}
	if len(devices) == 0 || d.transport == nil {
		result.Attempted = 0
		return result
	}

	workers := d.workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(devices) {
		workers = len(devices)
	}

	jobs := make(chan models.Device)
	outcomes := make(chan delivery, len(devices))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for device := range jobs {
				outcomes <- delivery{
					deviceID: device.ID,
					outcome:  d.sendOne(ctx, device, title, body, data),
				}
			}
		}()
	}

	for _, device := range devices {
		jobs <- device
	}
	close(jobs)
	wg.Wait()
	close(outcomes)

	for o := range outcomes {
		switch o.outcome {
		case Delivered:
			result.Delivered++
		case PermanentFailure:
			result.PermanentFailures++
			result.DeactivatedDeviceIDs = append(result.DeactivatedDeviceIDs, o.deviceID)
		default:
			result.TransientFailures++
		}
	}
	return result
}

func (d *dispatcher) sendOne(ctx context.Context, device models.Device, title, body string, data map[string]string) DeliveryOutcome {
	timeout := d.timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	outcome := d.transport.Send(sendCtx, PushMessage{
		Token: device.PushToken,
		Title: title,
		Body:  body,
		Data:  data,
	})
	if outcome != Delivered {
		utils.GetLogger().Debug("Push delivery failed",
			zap.String("deviceId", device.ID),
			zap.String("platform", string(device.Platform)),
			zap.String("outcome", outcome.String()))
	}
	return outcome
}
