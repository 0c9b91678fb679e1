package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/chris-regnier/agendactl/internal/dateutil"
	"github.com/chris-regnier/agendactl/internal/log"
	"github.com/chris-regnier/agendactl/internal/shell"
	"github.com/spf13/cobra"
)

// statusData holds the template data for status formatting.
type statusData struct {
	Icon       string
	TodayCount int
	Next       string
	NextTime   string
	NextIn     string
	Backend    string
}

var (
	statusEnv     bool
	statusRefresh bool
	statusFormat  string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show agenda prompt status",
	Long: `Show agenda status for shell prompt integration.

Outputs the number of events today and the next event to start.
Reads from cache when fresh, queries storage when stale.

Use --env to output shell environment variable assignments.
Use --refresh to force a cache refresh.
Use --format with a Go template for custom output.`,
	Example: `  agendactl status
  agendactl status --env
  agendactl status --refresh
  agendactl status --format "{{.Icon}} {{.TodayCount}} {{.Next}}"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := promptStatus(statusRefresh)
		if err != nil {
			return err
		}
		data := buildStatusData(cache, now())

		switch {
		case statusEnv:
			return outputEnv(os.Stdout, data)
		case statusFormat != "":
			return outputTemplate(os.Stdout, data, statusFormat)
		default:
			return outputDefault(os.Stdout, data)
		}
	},
}

// promptStatus returns the cached status, recomputing it when the cache is
// stale or refresh is set.
func promptStatus(refresh bool) (*shell.Snapshot, error) {
	ttl, err := time.ParseDuration(appConfig.Shell.CacheTTL)
	if err != nil {
		ttl = 5 * time.Minute
	}

	t := now()
	snap := shell.Load(appConfig.DataDir)
	if !refresh && snap.Valid(t, ttl) {
		return snap, nil
	}

	st, err := shell.ComputeStatus(store, t)
	if err != nil {
		return nil, fmt.Errorf("computing status: %w", err)
	}
	snap = shell.Take(st, appConfig.Storage, t)
	if err := shell.Save(appConfig.DataDir, snap); err != nil {
		log.Debug("writing prompt cache", "err", err)
	}
	return snap, nil
}

func buildStatusData(snap *shell.Snapshot, t time.Time) statusData {
	data := statusData{
		Icon:       appConfig.Shell.FreeIcon,
		TodayCount: snap.Events,
		Backend:    snap.Backend,
	}
	if snap.Events > 0 {
		data.Icon = appConfig.Shell.EventIcon
	}
	if snap.Next != nil {
		data.Next = snap.Next.Title
		data.NextTime = dateutil.ClockString(snap.Next.Start.In(t.Location()))
		data.NextIn = untilString(snap.Next.Start.Sub(t))
	}
	return data
}

// untilString renders a short countdown such as "25m" or "3h 10m".
func untilString(d time.Duration) string {
	if d < time.Minute {
		return "now"
	}
	return dateutil.DurationString(d.Truncate(time.Minute))
}

func outputEnv(w io.Writer, data statusData) error {
	fmt.Fprintf(w, "export AGENDACTL_ICON=%q\n", data.Icon)
	fmt.Fprintf(w, "export AGENDACTL_TODAY=%q\n", fmt.Sprintf("%d", data.TodayCount))
	if data.Next != "" {
		fmt.Fprintf(w, "export AGENDACTL_NEXT=%q\n", data.Next)
		fmt.Fprintf(w, "export AGENDACTL_NEXT_IN=%q\n", data.NextIn)
	} else {
		fmt.Fprintln(w, "unset AGENDACTL_NEXT AGENDACTL_NEXT_IN")
	}
	if data.Backend != "" {
		fmt.Fprintf(w, "export AGENDACTL_BACKEND=%q\n", data.Backend)
	}
	return nil
}

func outputTemplate(w io.Writer, data statusData, format string) error {
	tmpl, err := template.New("status").Parse(format)
	if err != nil {
		return fmt.Errorf("invalid format template: %w", err)
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("executing format template: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

func outputDefault(w io.Writer, data statusData) error {
	parts := []string{fmt.Sprintf("%s %d", data.Icon, data.TodayCount)}

	if appConfig.Shell.ShowNext && data.Next != "" {
		parts = append(parts, fmt.Sprintf("next: %s in %s", data.Next, data.NextIn))
	}

	fmt.Fprintln(w, strings.Join(parts, " "))
	return nil
}

func init() {
	statusCmd.Flags().BoolVar(&statusEnv, "env", false, "output shell environment variable assignments")
	statusCmd.Flags().BoolVar(&statusRefresh, "refresh", false, "force cache refresh")
	statusCmd.Flags().StringVar(&statusFormat, "format", "", "Go template format string")
	rootCmd.AddCommand(statusCmd)
}
