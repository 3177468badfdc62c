// Package qualification turns a raw intake submission into a score, a
// priority, and a tag set. The engine is a pure function over its inputs:
// it performs no I/O, never fails, and degrades gracefully when business
// settings are missing.
package qualification

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Base score - leads start at 50 and factors add/subtract from this.
	baseScore = 50

	// Priority thresholds. The raw score is stored unclamped for analytics;
	// only these relative cutoffs matter downstream.
	mediumThreshold = 60
	highThreshold   = 80
)

// Priority buckets derived from the score.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Tags stamped onto leads by the engine.
const (
	TagPreferredService = "preferred-service"
	TagEmergency        = "emergency"
	TagUrgent           = "urgent"
	TagDetailed         = "detailed"
	TagPriceSensitive   = "price-sensitive"
	TagCompleteContact  = "complete-contact"
	TagLocal            = "local"
	TagOutOfArea        = "out-of-area"
	TagAfterHours       = "after-hours"
	TagBusinessHours    = "business-hours"
)

var urgencyKeywords = []string{"urgent", "asap", "immediate", "today", "tomorrow", "now"}

var priceKeywords = []string{"free", "cheap", "lowest", "budget", "price"}

// Input carries the raw intake fields the engine evaluates.
type Input struct {
	Name        string
	Email       string
	Phone       string
	ServiceType string
	Location    string
	Message     string
}

// Settings is the read-only per-business configuration. Any field may be
// empty; the corresponding adjustments are simply skipped.
type Settings struct {
	ServiceArea         string
	Location            string
	PreferredServices   []string
	BlacklistedKeywords []string
}

// Result is the qualification outcome stamped onto the lead.
type Result struct {
	Score             int
	Priority          string
	Tags              []string
	Notes             string
	ShouldAutoContact bool
}

// Engine scores and classifies leads.
type Engine struct{}

// New creates a qualification engine.
func New() *Engine {
	return &Engine{}
}

// Qualify scores the lead against the business settings. The caller supplies
// the evaluation time so the after-hours adjustment stays deterministic.
func (e *Engine) Qualify(in Input, settings Settings, now time.Time) Result {
	score := baseScore
	var tags []string
	var notes []string

	addTag := func(tag string) {
		for _, existing := range tags {
			if existing == tag {
				return
			}
		}
		tags = append(tags, tag)
	}

	serviceType := strings.ToLower(strings.TrimSpace(in.ServiceType))
	message := strings.ToLower(in.Message)

	if matchesPreferredService(serviceType, settings.PreferredServices) {
		score += 20
		addTag(TagPreferredService)
		notes = append(notes, "Service type matches a preferred service (+20)")
	}

	if strings.Contains(serviceType, "emergency") {
		score += 30
		addTag(TagEmergency)
		notes = append(notes, "Emergency service request (+30)")
	}

	if containsAny(message, urgencyKeywords) {
		score += 15
		addTag(TagUrgent)
		notes = append(notes, "Message signals urgency (+15)")
	}

	if len(in.Message) > 100 {
		score += 10
		addTag(TagDetailed)
		notes = append(notes, "Detailed message provided (+10)")
	}

	if containsAny(message, priceKeywords) {
		score -= 10
		addTag(TagPriceSensitive)
		notes = append(notes, "Message signals price sensitivity (-10)")
	}

	if hasCompleteContact(in) {
		score += 15
		addTag(TagCompleteContact)
		notes = append(notes, "Complete contact details provided (+15)")
	}

	if settings.ServiceArea != "" && settings.Location != "" && in.Location != "" {
		if locationOverlaps(in.Location, settings) {
			score += 20
			addTag(TagLocal)
			notes = append(notes, "Lead is inside the service area (+20)")
		} else {
			score -= 15
			addTag(TagOutOfArea)
			notes = append(notes, "Lead is outside the service area (-15)")
		}
	}

	if hour := now.Hour(); hour < 9 || hour >= 17 {
		score += 5
		addTag(TagAfterHours)
		notes = append(notes, "Submitted outside business hours (+5)")
	} else {
		addTag(TagBusinessHours)
	}

	priority := priorityForScore(score)
	addTag(priority + "-priority")
	notes = append(notes, fmt.Sprintf("Final score %d => %s priority", score, priority))

	return Result{
		Score:             score,
		Priority:          priority,
		Tags:              tags,
		Notes:             strings.Join(notes, "; "),
		ShouldAutoContact: priority == PriorityHigh || hasTag(tags, TagEmergency),
	}
}

func priorityForScore(score int) string {
	switch {
	case score >= highThreshold:
		return PriorityHigh
	case score >= mediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func matchesPreferredService(serviceType string, preferred []string) bool {
	if serviceType == "" {
		return false
	}
	for _, p := range preferred {
		if strings.EqualFold(strings.TrimSpace(p), serviceType) {
			return true
		}
	}
	return false
}

func hasCompleteContact(in Input) bool {
	return len(strings.TrimSpace(in.Name)) > 2 &&
		strings.Contains(in.Email, "@") &&
		len(strings.TrimSpace(in.Phone)) >= 10 &&
		len(strings.TrimSpace(in.Location)) > 2
}

// locationOverlaps does a loose textual match between the lead's location
// and the business's configured area. Either side containing the other
// counts as overlap.
func locationOverlaps(leadLocation string, settings Settings) bool {
	loc := strings.ToLower(strings.TrimSpace(leadLocation))
	if loc == "" {
		return false
	}

	for _, area := range []string{settings.ServiceArea, settings.Location} {
		area = strings.ToLower(strings.TrimSpace(area))
		if area == "" {
			continue
		}
		if strings.Contains(loc, area) || strings.Contains(area, loc) {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
