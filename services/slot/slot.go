// File: services/slot/slot.go
package slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	slotRepo "barberbook/database/repository/slot"
	"barberbook/models"
	"barberbook/utils"
)

const minutesPerDay = 24 * 60

// templateWindowDays is the span a schedule template expands over.
const templateWindowDays = 7

// SlotService manages a barber's bookable slots.
type SlotService interface {
	CreateSlot(ctx context.Context, barber models.Identity, req models.CreateSlotRequest) (*models.Slot, error)
	CreateSlotsBulk(ctx context.Context, barber models.Identity, req models.CreateSlotsBulkRequest) ([]models.Slot, error)
	CreateSlotsFromTemplate(ctx context.Context, barber models.Identity, req models.SlotTemplateRequest) (*models.SlotTemplateResult, error)
	MySlots(ctx context.Context, barber models.Identity, date string) ([]models.Slot, error)
	AvailableSlots(ctx context.Context, barberID, fromDate, toDate string) ([]models.Slot, error)
	AvailabilityByStart(ctx context.Context, barberID, date string) ([]models.SlotBucketCount, error)
	DeleteSlot(ctx context.Context, barber models.Identity, slotID string) error
	DeleteSlotsBulk(ctx context.Context, barber models.Identity, req models.BulkDeleteSlotsRequest) (int64, error)
}

// DefaultSlotService is the production SlotService.
type DefaultSlotService struct {
	Repo slotRepo.SlotRepository
}

// NewSlotService wires a SlotService over the given repository.
func NewSlotService(repo slotRepo.SlotRepository) *DefaultSlotService {
	return &DefaultSlotService{Repo: repo}
}

func validDate(date string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, utils.Errf(utils.CodeValidation, "invalid date %q, want YYYY-MM-DD", date)
	}
	return day, nil
}

// validCreateDate parses a creation date and refuses anything before today
// (UTC). Dates in YYYY-MM-DD order lexicographically, same as the mongo
// availability filter.
func validCreateDate(date string) (time.Time, error) {
	day, err := validDate(date)
	if err != nil {
		return time.Time{}, err
	}
	if date < time.Now().UTC().Format("2006-01-02") {
		return time.Time{}, utils.Errf(utils.CodeValidation, "date %s is in the past", date)
	}
	return day, nil
}

func validRange(start, end int) error {
	if start < 0 || end > minutesPerDay || start >= end {
		return utils.Errf(utils.CodeValidation, "invalid time range %d-%d", start, end)
	}
	return nil
}

func (s *DefaultSlotService) CreateSlot(ctx context.Context, barber models.Identity, req models.CreateSlotRequest) (*models.Slot, error) {
	if !barber.IsBarber() {
		return nil, utils.Errf(utils.CodeForbidden, "only barbers can create slots")
	}
	if _, err := validCreateDate(req.Date); err != nil {
		return nil, err
	}
	if err := validRange(req.Start, req.End); err != nil {
		return nil, err
	}

	slot := models.Slot{
		BarberID: barber.ID,
		Date:     req.Date,
		Start:    req.Start,
		End:      req.End,
	}
	created, err := s.Repo.CreateMany(ctx, []models.Slot{slot})
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not create slot")
	}
	utils.GetLogger().Info("Slot created",
		zap.String("barberId", barber.ID),
		zap.String("date", req.Date),
		zap.Int("start", req.Start))
	return &created[0], nil
}

func (s *DefaultSlotService) CreateSlotsBulk(ctx context.Context, barber models.Identity, req models.CreateSlotsBulkRequest) ([]models.Slot, error) {
	if !barber.IsBarber() {
		return nil, utils.Errf(utils.CodeForbidden, "only barbers can create slots")
	}
	if _, err := validCreateDate(req.Date); err != nil {
		return nil, err
	}
	if len(req.Entries) == 0 {
		return nil, utils.Errf(utils.CodeValidation, "no slot entries given")
	}

	slots, err := expandEntries(barber.ID, req.Date, req.Entries, 0)
	if err != nil {
		return nil, err
	}
	created, err := s.Repo.CreateMany(ctx, slots)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not create slots")
	}
	utils.GetLogger().Info("Slots created in bulk",
		zap.String("barberId", barber.ID),
		zap.String("date", req.Date),
		zap.Int("count", len(created)))
	return created, nil
}

// expandEntries turns time-range entries into individual slot rows. Each
// entry's Count (default 1, or defaultCount when positive) becomes that many
// identical rows: parallel capacity for the same time range.
func expandEntries(barberID, date string, entries []models.BulkSlotEntry, defaultCount int) ([]models.Slot, error) {
	var slots []models.Slot
	for _, e := range entries {
		if err := validRange(e.Start, e.End); err != nil {
			return nil, err
		}
		count := e.Count
		if count <= 0 {
			count = defaultCount
		}
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			slots = append(slots, models.Slot{
				BarberID: barberID,
				Date:     date,
				Start:    e.Start,
				End:      e.End,
			})
		}
	}
	return slots, nil
}

func (s *DefaultSlotService) CreateSlotsFromTemplate(ctx context.Context, barber models.Identity, req models.SlotTemplateRequest) (*models.SlotTemplateResult, error) {
	if !barber.IsBarber() {
		return nil, utils.Errf(utils.CodeForbidden, "only barbers can create slots")
	}
	startDay, err := validCreateDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	if len(req.TimeRanges) == 0 {
		return nil, utils.Errf(utils.CodeValidation, "no time ranges given")
	}

	var all []models.Slot
	var lastDate string
	for d := 0; d < templateWindowDays; d++ {
		day := startDay.AddDate(0, 0, d)
		if req.ExcludeWeekends {
			if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
		}
		date := day.Format("2006-01-02")
		slots, err := expandEntries(barber.ID, date, req.TimeRanges, req.SlotsPerRange)
		if err != nil {
			return nil, err
		}
		all = append(all, slots...)
		lastDate = date
	}
	if len(all) == 0 {
		return &models.SlotTemplateResult{FromDate: req.StartDate, ToDate: req.StartDate}, nil
	}

	created, err := s.Repo.CreateMany(ctx, all)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not create slots from template")
	}
	utils.GetLogger().Info("Slot template expanded",
		zap.String("barberId", barber.ID),
		zap.String("fromDate", req.StartDate),
		zap.Int("slotsCreated", len(created)))
	return &models.SlotTemplateResult{
		SlotsCreated: len(created),
		FromDate:     req.StartDate,
		ToDate:       lastDate,
	}, nil
}

func (s *DefaultSlotService) MySlots(ctx context.Context, barber models.Identity, date string) ([]models.Slot, error) {
	if !barber.IsBarber() {
		return nil, utils.Errf(utils.CodeForbidden, "only barbers can list their slots")
	}
	if _, err := validDate(date); err != nil {
		return nil, err
	}
	slots, err := s.Repo.GetByBarberAndDate(ctx, barber.ID, date)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not list slots")
	}
	return slots, nil
}

func (s *DefaultSlotService) AvailableSlots(ctx context.Context, barberID, fromDate, toDate string) ([]models.Slot, error) {
	if fromDate != "" {
		if _, err := validDate(fromDate); err != nil {
			return nil, err
		}
	}
	if toDate != "" {
		if _, err := validDate(toDate); err != nil {
			return nil, err
		}
	}
	slots, err := s.Repo.FindAvailable(ctx, barberID, fromDate, toDate)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not list available slots")
	}
	return slots, nil
}

// AvailabilityByStart collapses duplicate-capacity slots into per-start counts,
// the shape a day-view calendar renders from.
func (s *DefaultSlotService) AvailabilityByStart(ctx context.Context, barberID, date string) ([]models.SlotBucketCount, error) {
	if _, err := validDate(date); err != nil {
		return nil, err
	}
	buckets, err := s.Repo.CountAvailableByStart(ctx, barberID, date)
	if err != nil {
		return nil, utils.WrapErr(utils.CodeInternal, err, "could not aggregate availability")
	}
	return buckets, nil
}

func (s *DefaultSlotService) DeleteSlot(ctx context.Context, barber models.Identity, slotID string) error {
	if !barber.IsBarber() {
		return utils.Errf(utils.CodeForbidden, "only barbers can delete slots")
	}
	err := s.Repo.DeleteByID(ctx, barber.ID, slotID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, slotRepo.ErrNotFound):
		return utils.Errf(utils.CodeNotFound, "slot not found")
	case errors.Is(err, slotRepo.ErrSlotBooked):
		return utils.Errf(utils.CodeConflict, "slot has an active booking")
	default:
		return utils.WrapErr(utils.CodeInternal, err, "could not delete slot")
	}
}

func (s *DefaultSlotService) DeleteSlotsBulk(ctx context.Context, barber models.Identity, req models.BulkDeleteSlotsRequest) (int64, error) {
	if !barber.IsBarber() {
		return 0, utils.Errf(utils.CodeForbidden, "only barbers can delete slots")
	}
	if _, err := validDate(req.Date); err != nil {
		return 0, err
	}
	if req.Start != nil && req.End != nil {
		if err := validRange(*req.Start, *req.End); err != nil {
			return 0, err
		}
	}
	deleted, err := s.Repo.DeleteMany(ctx, barber.ID, req.Date, req.Start, req.End, req.UnbookedOnly)
	switch {
	case err == nil:
		utils.GetLogger().Info("Slots deleted in bulk",
			zap.String("barberId", barber.ID),
			zap.String("date", req.Date),
			zap.Int64("deleted", deleted))
		return deleted, nil
	case errors.Is(err, slotRepo.ErrSlotBooked):
		return 0, utils.Errf(utils.CodeConflict, "range contains booked slots")
	default:
		return 0, utils.WrapErr(utils.CodeInternal, err, fmt.Sprintf("could not delete slots for %s", req.Date))
	}
}
