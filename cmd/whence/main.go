// Command whence parses a datetime string of any recognized format and
// shows it across a configurable list of time zones.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mgutz/ansi"
	"github.com/scylladb/termtables"
	"github.com/spf13/cobra"

	"github.com/whencehq/whence"
	"github.com/whencehq/whence/internal/config"
)

var short bool

var rootCmd = &cobra.Command{
	Use:   "whence [TIME]",
	Short: "Show a point in time across your time zones",
	Long: `whence parses a datetime string of almost any commonly used format
and shows it in every configured time zone. Without an argument it
shows the current time.

Examples:
  whence
  whence "1511648546"
  whence "May 26, 2021, 12:49 AM PDT"
  whence --short "2021-05-01T01:17:02Z"
  whence config --add Asia/Tokyo`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ts := time.Now().UTC()
		if len(args) > 0 {
			var err error
			ts, err = whence.ParseIn(args[0], time.Local)
			if err != nil {
				return err
			}
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return show(ts, cfg)
	},
}

func show(ts time.Time, cfg *config.Config) error {
	local := ts.In(time.Local)
	if short {
		fmt.Println(local.Format("2006-01-02 15:04:05 -0700"))
		return nil
	}

	table := termtables.CreateTable()
	table.AddHeaders("Zone", "Date & Time")
	table.AddRow("Local", fmt.Sprintf("%s\n%d", local.Format("2006-01-02 15:04:05 -0700"), local.Unix()))
	for _, name := range cfg.Timezones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return err
		}
		dtz := ts.In(loc)
		table.AddRow(name, fmt.Sprintf("%s\n%s", dtz.Format("2006-01-02 15:04:05 -0700"), dtz.Format("2006-01-02 15:04 MST")))
	}
	fmt.Print(table.Render())
	return nil
}

var (
	configList   bool
	configReset  bool
	configAdd    string
	configDelete string
)

var configCmd = &cobra.Command{
	Use:           "config",
	Short:         "Configure the time zones list",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		switch {
		case configList:
			fmt.Println(ansi.Color(cfg.Path(), "cyan+b"))
		case configReset:
			if err := cfg.Reset(); err != nil {
				return err
			}
			fmt.Println(ansi.Color("Config has been reset to default.", "green+b"))
		case configAdd != "":
			if err := cfg.Add(configAdd); err != nil {
				return err
			}
			fmt.Println(ansi.Color(fmt.Sprintf("Added %q to config.", configAdd), "green+b"))
		case configDelete != "":
			if err := cfg.Delete(configDelete); err != nil {
				return err
			}
			fmt.Println(ansi.Color(fmt.Sprintf("Deleted %q from config.", configDelete), "green+b"))
		default:
			// bare "whence config" with no flag does nothing
			return nil
		}
		return listZones(cfg)
	},
}

func listZones(cfg *config.Config) error {
	now := time.Now()
	table := termtables.CreateTable()
	table.AddHeaders("Zone", "Abbr.", "Offset")
	for _, name := range cfg.Timezones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return err
		}
		abbr, offset := now.In(loc).Zone()
		label := "0 hour"
		if hours := offset / 3600; hours != 0 {
			label = fmt.Sprintf("%d hours", hours)
		}
		table.AddRow(name, abbr, label)
	}
	fmt.Print(table.Render())
	return nil
}

func main() {
	rootCmd.Flags().BoolVarP(&short, "short", "s", false, "only print the local rendering")

	configCmd.Flags().BoolVarP(&configList, "list", "l", false, "list configured time zones")
	configCmd.Flags().BoolVarP(&configReset, "reset", "r", false, "reset to the default time zones")
	configCmd.Flags().StringVarP(&configAdd, "add", "a", "", "add a time zone to the list")
	configCmd.Flags().StringVarP(&configDelete, "delete", "d", "", "delete a time zone from the list")
	rootCmd.AddCommand(configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ansi.Color(err.Error(), "red+b"))
		os.Exit(1)
	}
}
