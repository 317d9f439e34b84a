// Landguard is a monitoring daemon for industrial land plot compliance.
//
// It evaluates per-plot detection signals (encroachment, built-up area,
// thermal activity, temporal change) against configurable regulatory
// thresholds, classifies violations by type and severity, and persists
// the resulting records for enforcement follow-up.
//
// Usage:
//
//	# Start the monitoring daemon
//	landguard run --config /etc/landguard/config.yaml
//
//	# Evaluate a single plot's signals
//	landguard evaluate --signals plot-42.json
//
//	# Validate configuration and thresholds
//	landguard validate --config config.yaml
//
//	# Query stored violation records
//	landguard records query --type encroachment --limit 20
//
//	# Show version information
//	landguard version
package main

func main() {
	Execute()
}
