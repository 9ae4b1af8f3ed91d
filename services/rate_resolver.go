package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fieldserve-backend/models"
	"fieldserve-backend/utils/logger"
)

// HolidayCalendar answers whether a given day is a public holiday. The engine
// never reads holiday data itself; the calendar is an injected collaborator.
type HolidayCalendar interface {
	IsHoliday(t time.Time) bool
}

// ConfigHolidayCalendar is a calendar backed by the configured holiday dates.
type ConfigHolidayCalendar struct {
	days map[string]struct{}
}

func NewConfigHolidayCalendar(dates []string) *ConfigHolidayCalendar {
	days := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		days[d] = struct{}{}
	}
	return &ConfigHolidayCalendar{days: days}
}

func (c *ConfigHolidayCalendar) IsHoliday(t time.Time) bool {
	_, ok := c.days[t.Format("2006-01-02")]
	return ok
}

// RateResolver derives the effective hourly rate from a contract rate row and
// the time/priority context. It holds no mutable state; the same inputs
// always resolve to the same rate.
type RateResolver struct {
	calendar       HolidayCalendar
	nightStartHour int
	nightEndHour   int
	logger         logger.Logger
}

func NewRateResolver(calendar HolidayCalendar, cfg *models.Config, log logger.Logger) *RateResolver {
	return &RateResolver{
		calendar:       calendar,
		nightStartHour: cfg.NightStartHour,
		nightEndHour:   cfg.NightEndHour,
		logger:         log,
	}
}

// Resolve returns the effective hourly rate for the category at the given
// instant. Time multipliers (night, weekend, holiday) never stack: the single
// highest applicable one wins. Only the emergency multiplier is applied
// multiplicatively on top of that result.
func (r *RateResolver) Resolve(contract *models.Contract, category models.ServiceCategory, at time.Time, priority models.Priority) (models.Money, error) {
	rate, ok := contract.RateFor(category)
	if !ok {
		return models.Money{}, NewEngineError(KindNoRateForCategory,
			"contract has no rate for category",
			"contractID", contract.ContractID,
			"category", string(category))
	}

	multiplier := decimal.NewFromInt(1)

	if r.isNight(at) {
		multiplier = decimal.Max(multiplier, rate.NightMultiplier.Decimal)
	}
	if isWeekend(at) {
		multiplier = decimal.Max(multiplier, rate.WeekendMultiplier.Decimal)
	}
	if r.calendar != nil && r.calendar.IsHoliday(at) {
		multiplier = decimal.Max(multiplier, rate.HolidayMultiplier.Decimal)
	}

	if priority == models.PriorityEmergency && rate.EmergencyMultiplier.IsPositive() {
		multiplier = multiplier.Mul(rate.EmergencyMultiplier.Decimal)
	}

	effective := rate.HourlyRate.Mul(multiplier)
	r.logger.Debugf("Resolved rate for contract %s category %s at %s: %s (multiplier %s)",
		contract.ContractID, category, at.Format(time.RFC3339), effective.String(), multiplier.String())

	return models.MoneyFromDecimal(effective), nil
}

func (r *RateResolver) isNight(at time.Time) bool {
	hour := at.Hour()
	return hour < r.nightEndHour || hour >= r.nightStartHour
}

func isWeekend(at time.Time) bool {
	switch at.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return false
}
