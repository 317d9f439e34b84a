package rules

import "strings"

// recommendedActions maps each violation type to its fixed ordered
// remediation list. Both the ordering and the count of actions per type
// are part of the engine's output contract; callers may localize the
// text but must not reorder it.
var recommendedActions = map[ViolationType][]string{
	ViolationEncroachment: {
		"Conduct field inspection within 24-48 hours",
		"Issue notice to plot owner/lessee",
		"Verify actual boundary markers on ground",
		"Initiate encroachment removal proceedings if confirmed",
		"Coordinate with local authorities for enforcement",
	},
	ViolationIllegalConstruction: {
		"Schedule field verification within 1 week",
		"Review approved building plans and permits",
		"Measure actual built-up area on site",
		"If confirmed, issue show-cause notice",
		"Assess for zoning/FAR violations",
		"Consider penalties or demolition if unapproved",
	},
	ViolationSuspiciousChange: {
		"Review historical satellite imagery",
		"Compare with approved development timeline",
		"Schedule routine inspection within 2 weeks",
		"Verify if changes align with approved plans",
		"Check for permit applications or modifications",
		"Monitor for further changes",
	},
	ViolationUnusedLand: {
		"Verify lease/allotment status and terms",
		"Check compliance with development timeline",
		"Send reminder notice to plot owner",
		"Review industrial activity reports",
		"Consider penalties for prolonged non-utilization",
		"Evaluate for re-allotment if abandoned",
		"Continue quarterly monitoring",
	},
	ViolationCompliant: {
		"Continue routine monitoring as per schedule",
	},
}

// RecommendedActions returns the fixed ordered action list for a
// violation type. The returned slice is a copy; callers may mutate it
// without affecting later lookups. Unknown types get an empty list.
func RecommendedActions(t ViolationType) []string {
	actions, ok := recommendedActions[t]
	if !ok {
		return nil
	}
	out := make([]string, len(actions))
	copy(out, actions)
	return out
}

// JoinActions renders an action list as the single newline-joined text
// block the presentation layer serializes.
func JoinActions(actions []string) string {
	return strings.Join(actions, "\n")
}
