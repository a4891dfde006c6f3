package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/sattutor/internal/store"
	"github.com/spf13/cobra"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect recorded backend and gateway requests",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent request events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		source, _ := cmd.Flags().GetString("source")
		failed, _ := cmd.Flags().GetBool("failed")

		events, err := queryRequests(cmd, store.QueryOpts{Limit: limit})
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No request events found.")
			return nil
		}

		fmt.Printf("%-6s  %-19s  %-8s  %-30s  %-6s  %-7s  %s\n",
			"Seq", "Timestamp", "Source", "Operation", "Status", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range events {
			if source != "" && e.Source != source {
				continue
			}
			if failed && e.Success {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗ " + e.ErrorMessage
			}
			fmt.Printf("%-6d  %-19s  %-8s  %-30s  %-6d  %-7d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Source,
				truncate(e.Operation, 30),
				e.StatusCode,
				e.LatencyMs,
				truncate(ok, 40),
			)
		}
		return nil
	},
}

// operationStats aggregates request events for one operation.
type operationStats struct {
	Operation string
	Calls     int
	Failures  int
	TotalMs   int64
}

func (s operationStats) avgMs() int64 {
	if s.Calls == 0 {
		return 0
	}
	return s.TotalMs / int64(s.Calls)
}

func aggregateRequests(events []store.RequestEventRecord) []operationStats {
	byOp := make(map[string]*operationStats)
	for _, e := range events {
		st, ok := byOp[e.Operation]
		if !ok {
			st = &operationStats{Operation: e.Operation}
			byOp[e.Operation] = st
		}
		st.Calls++
		st.TotalMs += e.LatencyMs
		if !e.Success {
			st.Failures++
		}
	}
	out := make([]operationStats, 0, len(byOp))
	for _, st := range byOp {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Calls != out[j].Calls {
			return out[i].Calls > out[j].Calls
		}
		return out[i].Operation < out[j].Operation
	})
	return out
}

var requestsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show call counts, failure rates and latency per operation",
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := queryRequests(cmd, store.QueryOpts{})
		if err != nil {
			return err
		}
		stats := aggregateRequests(events)
		if len(stats) == 0 {
			fmt.Println("No requests recorded yet.")
			return nil
		}

		fmt.Println("Requests by Operation")
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-32s  %6s  %8s  %8s  %8s\n", "Operation", "Calls", "Failed", "Fail %", "Avg Ms")
		fmt.Println(strings.Repeat("─", 72))

		var totalCalls, totalFailures int
		for _, st := range stats {
			fmt.Printf("%-32s  %6d  %8d  %7.1f%%  %8d\n",
				truncate(st.Operation, 32), st.Calls, st.Failures,
				float64(st.Failures)/float64(st.Calls)*100, st.avgMs())
			totalCalls += st.Calls
			totalFailures += st.Failures
		}
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-32s  %6d  %8d\n", "TOTAL", totalCalls, totalFailures)
		return nil
	},
}

func queryRequests(cmd *cobra.Command, opts store.QueryOpts) ([]store.RequestEventRecord, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	events, err := s.EventRepo().QueryRequestEvents(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return events, nil
}

func init() {
	requestsListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	requestsListCmd.Flags().StringP("source", "s", "", "Filter by source (client or gateway)")
	requestsListCmd.Flags().Bool("failed", false, "Only show failed requests")

	requestsCmd.AddCommand(requestsListCmd)
	requestsCmd.AddCommand(requestsStatsCmd)
}
