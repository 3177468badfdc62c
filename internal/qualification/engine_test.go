package qualification

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

var businessHours = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

var afterHours = time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)

func defaultSettings() Settings {
	return Settings{
		ServiceArea:       "Amsterdam",
		Location:          "Amsterdam",
		PreferredServices: []string{"Boiler Repair", "Plumbing"},
	}
}

func TestQualify_IsDeterministic(t *testing.T) {
	engine := New()
	in := Input{
		Name:        "Jane Smith",
		Email:       "jane@example.com",
		Phone:       "0612345678",
		ServiceType: "Plumbing",
		Location:    "Amsterdam",
		Message:     "Please call me asap about a leaking pipe under the kitchen sink, it has been dripping for two days now.",
	}

	first := engine.Qualify(in, defaultSettings(), businessHours)
	second := engine.Qualify(in, defaultSettings(), businessHours)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestQualify_PriorityThresholds(t *testing.T) {
	cases := []struct {
		score    int
		priority string
	}{
		{59, PriorityLow},
		{60, PriorityMedium},
		{79, PriorityMedium},
		{80, PriorityHigh},
	}

	for _, tc := range cases {
		if got := priorityForScore(tc.score); got != tc.priority {
			t.Fatalf("score %d: expected %s, got %s", tc.score, tc.priority, got)
		}
	}
}

func TestQualify_EmergencyForcesAutoContact(t *testing.T) {
	engine := New()

	// 50 + 30 - 10 = 70: medium priority, so only the emergency tag can
	// force auto-contact here.
	result := engine.Qualify(Input{
		ServiceType: "Emergency Pipe Burst",
		Message:     "price is my main concern, looking for the cheapest option",
	}, Settings{}, businessHours)

	if !hasTag(result.Tags, TagEmergency) {
		t.Fatalf("expected emergency tag, got %v", result.Tags)
	}
	if !result.ShouldAutoContact {
		t.Fatalf("expected auto-contact for emergency lead, result: %+v", result)
	}
}

func TestQualify_EmptySettingsSkipsBusinessAdjustments(t *testing.T) {
	engine := New()

	result := engine.Qualify(Input{
		ServiceType: "Plumbing",
		Location:    "Amsterdam",
	}, Settings{}, businessHours)

	if hasTag(result.Tags, TagPreferredService) {
		t.Fatalf("no preferred services configured, got tag anyway: %v", result.Tags)
	}
	if hasTag(result.Tags, TagLocal) || hasTag(result.Tags, TagOutOfArea) {
		t.Fatalf("no service area configured, got location tag anyway: %v", result.Tags)
	}
	if result.Score != baseScore {
		t.Fatalf("expected untouched base score %d, got %d", baseScore, result.Score)
	}
	if result.Priority != PriorityLow {
		t.Fatalf("expected low priority, got %s", result.Priority)
	}
}

func TestQualify_FullScoreBreakdown(t *testing.T) {
	engine := New()
	in := Input{
		Name:        "Jane Smith",
		Email:       "jane@example.com",
		Phone:       "0612345678",
		ServiceType: "Plumbing",
		Location:    "Amsterdam Noord",
		Message: "We need someone urgent: the bathroom pipe is leaking and the floor is soaked. " +
			"Please reach out today, we are home all afternoon.",
	}

	// 50 base + 20 preferred + 15 urgency + 10 detailed + 15 contact + 20 local = 130
	result := engine.Qualify(in, defaultSettings(), businessHours)

	if result.Score != 130 {
		t.Fatalf("expected score 130, got %d (notes: %s)", result.Score, result.Notes)
	}
	if result.Priority != PriorityHigh {
		t.Fatalf("expected high priority, got %s", result.Priority)
	}
	if !result.ShouldAutoContact {
		t.Fatalf("expected auto-contact for high priority lead")
	}
	for _, tag := range []string{TagPreferredService, TagUrgent, TagDetailed, TagCompleteContact, TagLocal, TagBusinessHours, "high-priority"} {
		if !hasTag(result.Tags, tag) {
			t.Fatalf("expected tag %s, got %v", tag, result.Tags)
		}
	}
}

func TestQualify_AfterHoursBonus(t *testing.T) {
	engine := New()
	in := Input{ServiceType: "Plumbing"}

	day := engine.Qualify(in, Settings{}, businessHours)
	night := engine.Qualify(in, Settings{}, afterHours)

	if night.Score != day.Score+5 {
		t.Fatalf("expected +5 after hours, got day=%d night=%d", day.Score, night.Score)
	}
	if !hasTag(night.Tags, TagAfterHours) {
		t.Fatalf("expected after-hours tag, got %v", night.Tags)
	}
	if !hasTag(day.Tags, TagBusinessHours) {
		t.Fatalf("expected business-hours tag, got %v", day.Tags)
	}
}

func TestQualify_PriceSensitivityPenalty(t *testing.T) {
	engine := New()

	result := engine.Qualify(Input{
		ServiceType: "Plumbing",
		Message:     "looking for the cheapest quote",
	}, Settings{}, businessHours)

	if result.Score != baseScore-10 {
		t.Fatalf("expected %d, got %d", baseScore-10, result.Score)
	}
	if !hasTag(result.Tags, TagPriceSensitive) {
		t.Fatalf("expected price-sensitive tag, got %v", result.Tags)
	}
}

func TestQualify_OutOfAreaPenalty(t *testing.T) {
	engine := New()

	result := engine.Qualify(Input{
		ServiceType: "Tiling",
		Location:    "Groningen",
	}, defaultSettings(), businessHours)

	if !hasTag(result.Tags, TagOutOfArea) {
		t.Fatalf("expected out-of-area tag, got %v", result.Tags)
	}
	if result.Score != baseScore-15 {
		t.Fatalf("expected %d, got %d", baseScore-15, result.Score)
	}
}

func TestQualify_NotesExplainEveryAdjustment(t *testing.T) {
	engine := New()

	result := engine.Qualify(Input{
		ServiceType: "Emergency Boiler",
		Message:     "please come today",
	}, Settings{}, businessHours)

	for _, fragment := range []string{"Emergency", "urgency", "Final score"} {
		if !strings.Contains(result.Notes, fragment) {
			t.Fatalf("expected notes to mention %q, got: %s", fragment, result.Notes)
		}
	}
}
