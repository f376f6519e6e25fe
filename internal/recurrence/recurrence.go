// Package recurrence computes the next occurrence for a recurring task.
package recurrence

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/taskflow/eventcore/internal/domain"
)

const day = 24 * time.Hour

// cronParser uses the standard 5-field expectation (minute hour dom month
// dow) — no seconds field, no descriptors.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Next returns the next occurrence of rule strictly after base. daily,
// weekly, and monthly use fixed-duration math; monthly is a documented
// 30-day approximation, not calendar-accurate. custom parses
// rule.CronExpression and returns its next firing strictly after base.
func Next(rule domain.RecurrenceRule, base time.Time) (time.Time, error) {
	if rule.Interval < 1 {
		return time.Time{}, domain.ErrInvalidInterval
	}

	switch rule.Frequency {
	case domain.FrequencyDaily:
		return base.Add(time.Duration(rule.Interval) * day), nil
	case domain.FrequencyWeekly:
		return base.Add(time.Duration(rule.Interval) * 7 * day), nil
	case domain.FrequencyMonthly:
		return base.Add(time.Duration(rule.Interval) * 30 * day), nil
	case domain.FrequencyCustom:
		return nextCustom(rule.CronExpression, base)
	default:
		return time.Time{}, domain.ErrInvalidFrequency
	}
}

func nextCustom(expr *string, base time.Time) (time.Time, error) {
	if expr == nil || *expr == "" {
		return time.Time{}, domain.ErrCronRequired
	}
	sched, err := cronParser.Parse(*expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrInvalidCron, err)
	}
	// cron.Schedule.Next is strictly-after by construction: it never
	// returns base itself.
	return sched.Next(base), nil
}
