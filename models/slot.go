package models

import "time"

// Slot is a bookable time unit offered by a barber for one date and time range.
// Start and End are minutes from midnight (e.g., 540 for 9:00 AM). Several
// slots may share the same (barber, date, start, end): each row is one
// independent unit of capacity, e.g. one chair.
type Slot struct {
	ID        string    `bson:"id" json:"id"`
	BarberID  string    `bson:"barberId" json:"barberId"`
	Date      string    `bson:"date" json:"date"` // "2006-01-02"
	Start     int       `bson:"start" json:"start"`
	End       int       `bson:"end" json:"end"`
	IsBooked  bool      `bson:"isBooked" json:"isBooked"`
	BookedBy  string    `bson:"bookedBy,omitempty" json:"bookedBy,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// StartTime combines Date and Start into an absolute UTC instant.
func (s Slot) StartTime() time.Time {
	day, err := time.Parse("2006-01-02", s.Date)
	if err != nil {
		return time.Time{}
	}
	return day.Add(time.Duration(s.Start) * time.Minute)
}

// CreateSlotRequest creates a single slot.
type CreateSlotRequest struct {
	Date  string `json:"date" binding:"required"`
	Start int    `json:"start"` // 0 is a legal midnight start
	End   int    `json:"end" binding:"required"`
}

// BulkSlotEntry is one time range within a bulk creation request. Count
// expands into that many independent slot rows.
type BulkSlotEntry struct {
	Start int `json:"start"` // 0 is a legal midnight start
	End   int `json:"end" binding:"required"`
	Count int `json:"count"`
}

// CreateSlotsBulkRequest creates several slots for one date in a single call.
type CreateSlotsBulkRequest struct {
	Date    string          `json:"date" binding:"required"`
	Entries []BulkSlotEntry `json:"entries" binding:"required"`
}

// SlotTemplateRequest expands time ranges over a 7-day window starting at
// StartDate, optionally skipping weekends.
type SlotTemplateRequest struct {
	StartDate       string          `json:"startDate" binding:"required"`
	TimeRanges      []BulkSlotEntry `json:"timeRanges" binding:"required"`
	SlotsPerRange   int             `json:"slotsPerRange"`
	ExcludeWeekends bool            `json:"excludeWeekends"`
}

// SlotTemplateResult reports what a template expansion produced.
type SlotTemplateResult struct {
	SlotsCreated int    `json:"slotsCreated"`
	FromDate     string `json:"fromDate"`
	ToDate       string `json:"toDate"`
}

// BulkDeleteSlotsRequest deletes a barber's slots for one date, optionally
// narrowed to a time range. With UnbookedOnly the booked ones are skipped;
// without it a single booked match fails the whole request.
type BulkDeleteSlotsRequest struct {
	Date         string `json:"date" binding:"required"`
	Start        *int   `json:"start,omitempty"`
	End          *int   `json:"end,omitempty"`
	UnbookedOnly bool   `json:"unbookedOnly"`
}

// SlotBucketCount is the number of free slots sharing one start time.
type SlotBucketCount struct {
	Start     int `bson:"_id" json:"start"`
	Available int `bson:"available" json:"available"`
}
