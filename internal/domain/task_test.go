package domain_test

import (
	"testing"

	"github.com/taskflow/eventcore/internal/domain"
)

func TestPriority_IsValid(t *testing.T) {
	valid := []domain.Priority{domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh, domain.PriorityUrgent}
	for _, p := range valid {
		if !p.IsValid() {
			t.Errorf("expected %q to be valid", p)
		}
	}
	if domain.Priority("critical").IsValid() {
		t.Error("expected unknown priority to be invalid")
	}
}

func TestFrequency_IsValid(t *testing.T) {
	valid := []domain.Frequency{domain.FrequencyDaily, domain.FrequencyWeekly, domain.FrequencyMonthly, domain.FrequencyCustom}
	for _, f := range valid {
		if !f.IsValid() {
			t.Errorf("expected %q to be valid", f)
		}
	}
	if domain.Frequency("yearly").IsValid() {
		t.Error("expected unknown frequency to be invalid")
	}
}

func TestNotificationType_IsValid(t *testing.T) {
	valid := []domain.NotificationType{domain.NotificationEmail, domain.NotificationPush, domain.NotificationInApp}
	for _, n := range valid {
		if !n.IsValid() {
			t.Errorf("expected %q to be valid", n)
		}
	}
	if domain.NotificationType("fax").IsValid() {
		t.Error("expected unknown notification type to be invalid")
	}
}
