package repository

import (
	"strings"
	"testing"
)

func TestListDueQueryClaimsOldestScheduledFirst(t *testing.T) {
	query := strings.ToLower(listDueExecutionsQuery)

	requiredFragments := []string{
		"from followup_executions",
		"where status = $1 and scheduled_for <= $2",
		"order by scheduled_for asc",
		"limit $3",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected due-execution query fragment %q to be present", fragment)
		}
	}
}

func TestListDueQueryOrdersBeforeCapping(t *testing.T) {
	query := strings.ToLower(listDueExecutionsQuery)

	orderBy := strings.Index(query, "order by scheduled_for asc")
	limit := strings.Index(query, "limit $3")
	if orderBy < 0 || limit < 0 || orderBy > limit {
		t.Fatal("batch cap must apply to the oldest-first ordering, not an arbitrary subset")
	}
}
