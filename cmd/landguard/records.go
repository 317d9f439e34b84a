package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"landguard-hq/landguard/pkg/records"
	"landguard-hq/landguard/pkg/rules"
)

var recordsQueryFlags struct {
	plotID        string
	violationType string
	severity      string
	since         string
	until         string
	limit         int
	offset        int
	format        string
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Work with stored violation records",
}

var recordsQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query stored violation records",
	Long: `Query the violation store with optional filters. Results are
returned newest first.

Examples:
  # Latest violations
  landguard records query --limit 20

  # All encroachments on one plot
  landguard records query --plot-id PLOT-042 --type encroachment

  # High severity findings since a date
  landguard records query --severity high --since 2026-01-01T00:00:00Z`,
	RunE: queryRecords,
}

var recordsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show violation counts by type",
	RunE:  statsRecords,
}

func init() {
	rootCmd.AddCommand(recordsCmd)
	recordsCmd.AddCommand(recordsQueryCmd)
	recordsCmd.AddCommand(recordsStatsCmd)

	recordsQueryCmd.Flags().StringVar(&recordsQueryFlags.plotID, "plot-id", "", "filter by plot ID")
	recordsQueryCmd.Flags().StringVar(&recordsQueryFlags.violationType, "type", "", "filter by violation type")
	recordsQueryCmd.Flags().StringVar(&recordsQueryFlags.severity, "severity", "", "filter by severity")
	recordsQueryCmd.Flags().StringVar(&recordsQueryFlags.since, "since", "", "records detected at or after (RFC3339)")
	recordsQueryCmd.Flags().StringVar(&recordsQueryFlags.until, "until", "", "records detected before (RFC3339)")
	recordsQueryCmd.Flags().IntVar(&recordsQueryFlags.limit, "limit", records.DefaultQueryLimit, "maximum records to return")
	recordsQueryCmd.Flags().IntVar(&recordsQueryFlags.offset, "offset", 0, "records to skip")
	recordsQueryCmd.Flags().StringVar(&recordsQueryFlags.format, "format", "table", "output format: table, json")
}

func buildQuery() (*records.Query, error) {
	q := &records.Query{
		PlotID: recordsQueryFlags.plotID,
		Limit:  recordsQueryFlags.limit,
		Offset: recordsQueryFlags.offset,
	}

	if recordsQueryFlags.violationType != "" {
		vt := rules.ViolationType(recordsQueryFlags.violationType)
		if !vt.Valid() {
			return nil, fmt.Errorf("unknown violation type %q", recordsQueryFlags.violationType)
		}
		q.ViolationType = vt
	}
	if recordsQueryFlags.severity != "" {
		sev := rules.Severity(recordsQueryFlags.severity)
		if !sev.Valid() {
			return nil, fmt.Errorf("unknown severity %q", recordsQueryFlags.severity)
		}
		q.Severity = sev
	}
	if recordsQueryFlags.since != "" {
		ts, err := time.Parse(time.RFC3339, recordsQueryFlags.since)
		if err != nil {
			return nil, fmt.Errorf("invalid --since value: %w", err)
		}
		q.Since = ts
	}
	if recordsQueryFlags.until != "" {
		ts, err := time.Parse(time.RFC3339, recordsQueryFlags.until)
		if err != nil {
			return nil, fmt.Errorf("invalid --until value: %w", err)
		}
		q.Until = ts
	}
	return q, nil
}

func queryRecords(cmd *cobra.Command, args []string) error {
	query, err := buildQuery()
	if err != nil {
		return err
	}

	cfg, err := loadDaemonConfig()
	if err != nil {
		return err
	}
	storage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	violations, err := storage.Query(cmd.Context(), query)
	if err != nil {
		return err
	}

	switch recordsQueryFlags.format {
	case "json":
		views := make([]*records.View, 0, len(violations))
		for _, v := range violations {
			views = append(views, v.Presentation())
		}
		out, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DETECTED\tPLOT\tTYPE\tSEVERITY\tCONF\tPRIORITY")
		for _, v := range violations {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%d\n",
				v.DetectedAt.UTC().Format(time.RFC3339),
				v.PlotID,
				v.ViolationType,
				v.Severity,
				v.Confidence,
				v.Priority,
			)
		}
		w.Flush()
		fmt.Printf("\n%d record(s)\n", len(violations))
	default:
		return fmt.Errorf("unknown format %q (expected table or json)", recordsQueryFlags.format)
	}
	return nil
}

func statsRecords(cmd *cobra.Command, args []string) error {
	cfg, err := loadDaemonConfig()
	if err != nil {
		return err
	}
	storage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	counts, err := storage.CountByType(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tCOUNT")
	var total int64
	for _, vt := range rules.ViolationTypes {
		if n, ok := counts[vt]; ok {
			fmt.Fprintf(w, "%s\t%d\n", vt, n)
			total += n
		}
	}
	w.Flush()
	fmt.Printf("\ntotal: %d\n", total)
	return nil
}
