package notification

import (
	"strings"
	"testing"
)

func TestListUnreadQueryRanksPriorityThenRecency(t *testing.T) {
	query := strings.ToLower(listUnreadQuery)

	orderBy := strings.Index(query, "order by")
	if orderBy < 0 {
		t.Fatal("expected the unread listing to carry an order by clause")
	}
	ordering := query[orderBy:]

	rankedFragments := []string{
		"when 'urgent' then 0",
		"when 'high' then 1",
		"when 'medium' then 2",
		"when 'low' then 3",
		"else 4",
		"created_at desc",
	}

	previous := -1
	for _, fragment := range rankedFragments {
		position := strings.Index(ordering, fragment)
		if position < 0 {
			t.Fatalf("expected ordering fragment %q to be present", fragment)
		}
		if position < previous {
			t.Fatalf("ordering fragment %q out of rank order", fragment)
		}
		previous = position
	}
}

func TestListUnreadQueryIsBusinessAndStatusScoped(t *testing.T) {
	query := strings.ToLower(listUnreadQuery)

	requiredFragments := []string{
		"where business_id = $1",
		"and status = $2",
		"and ($3::uuid is null or user_id = $3)",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected scoped query fragment %q to be present", fragment)
		}
	}
}
