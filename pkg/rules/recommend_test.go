package rules

import (
	"strings"
	"testing"
)

// TestRecommendedActions_Contract verifies the ordering and count of
// actions per violation type, which downstream consumers rely on.
func TestRecommendedActions_Contract(t *testing.T) {
	tests := []struct {
		violationType ViolationType
		wantCount     int
		wantFirst     string
	}{
		{ViolationEncroachment, 5, "Conduct field inspection within 24-48 hours"},
		{ViolationIllegalConstruction, 6, "Schedule field verification within 1 week"},
		{ViolationSuspiciousChange, 6, "Review historical satellite imagery"},
		{ViolationUnusedLand, 7, "Verify lease/allotment status and terms"},
		{ViolationCompliant, 1, "Continue routine monitoring as per schedule"},
	}

	for _, tt := range tests {
		t.Run(string(tt.violationType), func(t *testing.T) {
			actions := RecommendedActions(tt.violationType)

			if len(actions) != tt.wantCount {
				t.Errorf("len(actions) = %d, want %d", len(actions), tt.wantCount)
			}
			if len(actions) > 0 && actions[0] != tt.wantFirst {
				t.Errorf("actions[0] = %q, want %q", actions[0], tt.wantFirst)
			}
		})
	}
}

// TestRecommendedActions_ReturnsCopy verifies callers can mutate the
// returned slice without corrupting later lookups.
func TestRecommendedActions_ReturnsCopy(t *testing.T) {
	first := RecommendedActions(ViolationEncroachment)
	first[0] = "mutated"

	second := RecommendedActions(ViolationEncroachment)
	if second[0] == "mutated" {
		t.Error("RecommendedActions() shares backing storage between calls")
	}
}

// TestRecommendedActions_UnknownType verifies unknown types get no actions.
func TestRecommendedActions_UnknownType(t *testing.T) {
	if actions := RecommendedActions(ViolationType("bogus")); actions != nil {
		t.Errorf("RecommendedActions(bogus) = %v, want nil", actions)
	}
}

// TestJoinActions verifies the newline-joined presentation block.
func TestJoinActions(t *testing.T) {
	joined := JoinActions(RecommendedActions(ViolationUnusedLand))

	lines := strings.Split(joined, "\n")
	if len(lines) != 7 {
		t.Errorf("len(lines) = %d, want 7", len(lines))
	}
	if lines[6] != "Continue quarterly monitoring" {
		t.Errorf("lines[6] = %q", lines[6])
	}
}
