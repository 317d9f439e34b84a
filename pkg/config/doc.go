// Package config defines the daemon configuration, loaded from a YAML
// file with optional environment variable overrides.
//
// The loading sequence is fixed: parse the YAML file, apply defaults for
// omitted fields, apply LANDGUARD_* environment overrides, then validate
// the final result. Validation collects every field error before
// returning, so a misconfigured file reports all problems at once.
//
// Environment variables follow the LANDGUARD_SECTION_FIELD convention,
// for example LANDGUARD_MONITORING_SCHEDULE or LANDGUARD_POLICY_MODE.
package config
