package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/acedrill/internal/llm"
	"github.com/abhisek/acedrill/internal/store"
)

const stampLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged question-generation requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		since, _ := cmd.Flags().GetDuration("since")

		events, err := queryEvents(cmd, store.QueryOpts{Limit: limit, Purpose: purpose}, since)
		if err != nil {
			return err
		}
		printEventList(cmd.OutOrStdout(), events)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ev, err := e.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if ev == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printEvent(cmd.OutOrStdout(), ev)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		since, _ := cmd.Flags().GetDuration("since")
		events, err := queryEvents(cmd, store.QueryOpts{}, since)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}
		printUsage(out, usageBy(events, func(r store.LLMRequestEventRecord) string { return r.Purpose }))
		fmt.Fprintln(out)
		printCost(out, usageBy(events, func(r store.LLMRequestEventRecord) string { return r.Model }))
		return nil
	},
}

func queryEvents(cmd *cobra.Command, opts store.QueryOpts, since time.Duration) ([]store.LLMRequestEventRecord, error) {
	if since > 0 {
		opts.From = time.Now().Add(-since)
	}
	e, err := openEnv(cmd)
	if err != nil {
		return nil, err
	}
	defer e.Close()

	events, err := e.store.EventRepo().QueryLLMEvents(cmd.Context(), opts)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return events, nil
}

func rule(out io.Writer, n int) {
	fmt.Fprintln(out, strings.Repeat("─", n))
}

func printEventList(out io.Writer, events []store.LLMRequestEventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(out, "No LLM events found.")
		return
	}
	fmt.Fprintf(out, "%-5s  %-19s  %-10s  %-18s  %-24s  %6s  %6s  %6s  %s\n",
		"ID", "Time", "Provider", "Purpose", "Model", "In", "Out", "Ms", "OK")
	rule(out, 112)
	for _, ev := range events {
		ok := "✓"
		if !ev.Success {
			ok = "✗"
		}
		fmt.Fprintf(out, "%-5d  %-19s  %-10s  %-18s  %-24s  %6d  %6d  %6d  %s\n",
			ev.ID, ev.Timestamp.Local().Format(stampLayout),
			truncate(ev.Provider, 10), truncate(ev.Purpose, 18), truncate(ev.Model, 24),
			ev.InputTokens, ev.OutputTokens, ev.LatencyMs, ok)
	}
}

func printEvent(out io.Writer, ev *store.LLMRequestEventRecord) {
	fields := [][2]string{
		{"ID", strconv.Itoa(ev.ID)},
		{"Time", ev.Timestamp.Local().Format(stampLayout)},
		{"Provider", ev.Provider},
		{"Model", ev.Model},
		{"Purpose", ev.Purpose},
		{"Tokens", fmt.Sprintf("%d in / %d out", ev.InputTokens, ev.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", ev.LatencyMs)},
		{"Success", strconv.FormatBool(ev.Success)},
	}
	if ev.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", ev.ErrorMessage})
	}
	for _, f := range fields {
		fmt.Fprintf(out, "%-10s %s\n", f[0]+":", f[1])
	}

	for _, body := range [][2]string{{"REQUEST", ev.RequestBody}, {"RESPONSE", ev.ResponseBody}} {
		fmt.Fprintln(out)
		rule(out, 60)
		fmt.Fprintln(out, body[0])
		rule(out, 60)
		if body[1] == "" {
			fmt.Fprintln(out, "(not captured)")
		} else {
			fmt.Fprintln(out, body[1])
		}
	}
}

func printUsage(out io.Writer, rows []usage) {
	fmt.Fprintln(out, "Usage by purpose")
	rule(out, 72)
	fmt.Fprintf(out, "%-16s  %6s  %10s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Total", "Avg ms")
	rule(out, 72)
	var sum usage
	for _, u := range rows {
		fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			truncate(u.Key, 16), u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		sum.Calls += u.Calls
		sum.InputTokens += u.InputTokens
		sum.OutputTokens += u.OutputTokens
	}
	rule(out, 72)
	fmt.Fprintf(out, "%-16s  %6d  %10d  %10d  %10d\n",
		"TOTAL", sum.Calls, sum.InputTokens, sum.OutputTokens, sum.InputTokens+sum.OutputTokens)
}

func printCost(out io.Writer, rows []usage) {
	fmt.Fprintln(out, "Estimated cost (USD)")
	rule(out, 72)
	fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %9s\n", "Model", "Calls", "Input", "Output", "Cost")
	rule(out, 72)

	var total float64
	var unpriced []string
	for _, u := range rows {
		cost := "?"
		if p := llm.LookupCost(u.Key); p != nil {
			c := p.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, u.Key)
		}
		fmt.Fprintf(out, "%-32s  %6d  %10d  %10d  %9s\n", truncate(u.Key, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
	}
	rule(out, 72)

	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(out, "%-32s  %6s  %10s  %10s  %9s\n", label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(out, "\nNo pricing for: %s\n", strings.Join(unpriced, ", "))
	}
}

// usage aggregates token counts per key.
type usage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// usageBy groups events by key, busiest first.
func usageBy(events []store.LLMRequestEventRecord, key func(store.LLMRequestEventRecord) string) []usage {
	byKey := map[string]*usage{}
	latency := map[string]int64{}
	for _, ev := range events {
		k := key(ev)
		u, ok := byKey[k]
		if !ok {
			u = &usage{Key: k}
			byKey[k] = u
		}
		u.Calls++
		u.InputTokens += ev.InputTokens
		u.OutputTokens += ev.OutputTokens
		latency[k] += ev.LatencyMs
	}

	out := make([]usage, 0, len(byKey))
	for k, u := range byKey {
		u.AvgLatencyMs = latency[k] / int64(u.Calls)
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Calls != out[j].Calls {
			return out[i].Calls > out[j].Calls
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "only events with this purpose")
	llmListCmd.Flags().Duration("since", 0, "only events newer than this (e.g. 24h)")
	llmStatsCmd.Flags().Duration("since", 0, "only events newer than this (e.g. 168h)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
