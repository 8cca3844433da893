package reservation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/cache"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/errors"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/logger"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/metrics"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/utils"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// daySlotsCacheTTL keeps the public time picker fresh without hitting
// the database on every request.
const daySlotsCacheTTL = 30 * time.Second

// DaySlot is one entry of the public time picker.
type DaySlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DaySlotsRequest selects the day and the scope of the picker.
type DaySlotsRequest struct {
	Date     time.Time
	Guests   int
	TableID  *int64
	SaloonID *int64
	AreaID   *int64
}

func (r *DaySlotsRequest) cacheKey() string {
	key := fmt.Sprintf("day_slots:%s:%d", utils.FormatDate(r.Date), r.Guests)
	if r.TableID != nil {
		key += fmt.Sprintf(":t%d", *r.TableID)
	}
	if r.SaloonID != nil {
		key += fmt.Sprintf(":s%d", *r.SaloonID)
	}
	if r.AreaID != nil {
		key += fmt.Sprintf(":a%d", *r.AreaID)
	}
	return key
}

// invalidateDaySlots drops every cached picker for a date after a
// reservation write touches it.
func (s *Service) invalidateDaySlots(ctx context.Context, date time.Time) {
	if cache.GetClient() == nil {
		return
	}
	pattern := fmt.Sprintf("day_slots:%s:*", utils.FormatDate(date))
	if err := cache.DeleteByPattern(ctx, pattern); err != nil {
		logger.Warn("Failed to invalidate day slot cache",
			zap.String("pattern", pattern), zap.Error(err))
	}
}

// ListDaySlots builds the time picker for a day: every slot start at
// the configured interval inside the candidate tables' windows, each
// flagged available. Slots outside the portal booking window read as
// unavailable. Results are cached briefly in redis.
func (s *Service) ListDaySlots(ctx context.Context, req *DaySlotsRequest) ([]DaySlot, error) {
	key := req.cacheKey()
	if cache.GetClient() != nil {
		var cached []DaySlot
		if err := cache.Get(ctx, key, &cached); err == nil {
			metrics.GetMetrics().RecordCacheHit("day_slots")
			return cached, nil
		}
		metrics.GetMetrics().RecordCacheMiss("day_slots")
	}

	slots, err := s.buildDaySlots(ctx, req)
	if err != nil {
		return nil, err
	}

	if cache.GetClient() != nil {
		_ = cache.Set(ctx, key, slots, daySlotsCacheTTL)
	}
	return slots, nil
}

func (s *Service) buildDaySlots(ctx context.Context, req *DaySlotsRequest) ([]DaySlot, error) {
	var candidates []*models.DiningTable
	if req.TableID != nil {
		table, err := s.tableRepo.GetByID(ctx, *req.TableID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrTableNotFound
			}
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		candidates = []*models.DiningTable{table}
	} else {
		var err error
		candidates, err = s.tableRepo.ListBookable(ctx, req.Guests, req.SaloonID, req.AreaID)
		if err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
	}

	duration := s.cfg.DefaultDuration
	weekday := int(req.Date.Weekday())
	starts := make(map[string][]*models.DiningTable)

	for _, table := range candidates {
		windows, err := s.availability.ListWindows(ctx, table.ID)
		if err != nil {
			return nil, err
		}
		for _, w := range windows {
			if !w.IsActive || w.Weekday != weekday {
				continue
			}
			for _, start := range slotStarts(w.StartTime, w.EndTime, s.cfg.Interval, duration) {
				starts[start] = append(starts[start], table)
			}
		}
	}

	times := make([]string, 0, len(starts))
	for t := range starts {
		times = append(times, t)
	}
	sort.Strings(times)

	slots := make([]DaySlot, 0, len(times))
	for _, start := range times {
		slot := DaySlot{Time: start}
		if s.withinBookingWindow(req.Date, start) {
			for _, table := range starts[start] {
				ok, err := s.IsTableAvailable(ctx, table.ID, req.Date, start, duration, 0)
				if err != nil {
					return nil, err
				}
				if ok {
					slot.Available = true
					break
				}
			}
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// slotStarts enumerates slot start times inside a window at the given
// interval. The full duration must fit: the last slot ends exactly at
// the window's closing time.
func slotStarts(windowStart, windowEnd string, interval, duration int) []string {
	startMin, err := utils.TimeToMinutes(windowStart)
	if err != nil {
		return nil
	}
	endMin, err := utils.TimeToMinutes(windowEnd)
	if err != nil {
		return nil
	}

	var starts []string
	for t := startMin; t+duration <= endMin; t += interval {
		s, err := utils.MinutesToTime(t)
		if err != nil {
			break
		}
		starts = append(starts, s)
	}
	return starts
}

func (s *Service) withinBookingWindow(date time.Time, startTime string) bool {
	start, err := utils.CombineDateTime(date, startTime)
	if err != nil {
		return false
	}
	now := s.now()

	if s.cfg.MinAdvanceHours > 0 {
		if start.Before(now.Add(time.Duration(s.cfg.MinAdvanceHours) * time.Hour)) {
			return false
		}
	} else if !start.After(now) {
		return false
	}
	if s.cfg.MaxAdvanceDays > 0 && start.After(now.AddDate(0, 0, s.cfg.MaxAdvanceDays)) {
		return false
	}
	return true
}
