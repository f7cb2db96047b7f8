package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/models"
	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/pipeline"
)

func newMonthsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List months with data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			months := ds.Months()
			if len(months) == 0 {
				fmt.Fprintln(out, "no data")
				return nil
			}
			for _, m := range months {
				fmt.Fprintf(out, "%d\n", m)
			}
			return nil
		},
	}
}

func newSummaryCmd(opts *options) *cobra.Command {
	var month int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print pump runtime and flow per channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRequest(cmd, month, "")
			if err != nil {
				return err
			}
			ds, err := loadDataset(cmd.Context(), opts)
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), ds.Run(req))
			return nil
		},
	}
	cmd.Flags().IntVarP(&month, "month", "m", 0, "month filter (1-12)")
	return cmd
}

func newSeriesCmd(opts *options) *cobra.Command {
	var (
		month   int
		metrics string
	)

	cmd := &cobra.Command{
		Use:   "series",
		Short: "Print the EC/PH series and extrema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRequest(cmd, month, metrics)
			if err != nil {
				return err
			}
			ds, err := loadDataset(cmd.Context(), opts)
			if err != nil {
				return err
			}
			writeSeries(cmd.OutOrStdout(), ds.Run(req).Chart)
			return nil
		},
	}
	cmd.Flags().IntVarP(&month, "month", "m", 0, "month filter (1-12)")
	cmd.Flags().StringVar(&metrics, "metrics", "EC,PH", "enabled metrics")
	return cmd
}

func buildRequest(cmd *cobra.Command, month int, metrics string) (pipeline.Request, error) {
	req := pipeline.Request{Metrics: models.NewMetricSet(models.AllMetrics...)}

	if cmd.Flags().Changed("month") {
		if err := pipeline.ValidateMonth(month); err != nil {
			return req, err
		}
		req.Month = &month
	}

	if f := cmd.Flags().Lookup("metrics"); f != nil {
		set, err := models.ParseMetrics(metrics)
		if err != nil {
			return req, err
		}
		req.Metrics = set
	}
	return req, nil
}

func writeSummary(out io.Writer, res pipeline.Result) {
	if res.Empty() {
		fmt.Fprintln(out, "no data")
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHANNEL\tRUNTIME\tHOURS\tFLOW (L)")
	for _, ch := range res.Display.Channels {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n", ch.Channel, ch.Runtime, ch.RuntimeHours, ch.Flow)
	}
	fmt.Fprintf(w, "total\t%s\t%.2f\t%s\n", res.Display.Runtime, res.Display.RuntimeHours, res.Display.Flow)
	w.Flush()
}

func writeSeries(out io.Writer, chart models.ChartSeries) {
	if chart.Empty() {
		fmt.Fprintln(out, "no data")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tMETRIC\tVALUE")
	for _, p := range chart.Points {
		if !p.Visible {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Timestamp.Format(time.DateTime), p.Metric, formatValue(p.Value))
	}
	w.Flush()

	if len(chart.Annotations) == 0 {
		return
	}
	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tKIND\tTIMESTAMP\tVALUE")
	for _, a := range chart.Annotations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n", a.Metric, strings.ToUpper(string(a.Kind)), a.Timestamp.Format(time.DateTime), a.Value)
	}
	w.Flush()
}

func formatValue(v *float64) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%.3f", *v)
}
