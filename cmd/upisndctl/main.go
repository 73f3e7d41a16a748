// Package main provides upisndctl, a command line frontend for the
// pisound-micro element tree.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/BertoldVdb/go-upisnd/logconfig"
	"github.com/BertoldVdb/go-upisnd/upisnd"
)

var (
	flagSysfs    string
	flagLogLevel int

	log *logrus.Entry
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "upisndctl",
	Short: "Control pisound-micro elements",
	Long: `upisndctl claims and inspects pisound-micro elements through the
driver's sysfs tree. Elements set up by this tool stay claimed after it
exits; use the unsetup command to release them.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logconfig.GetLogger(logrus.Level(flagLogLevel))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSysfs, "sysfs", upisnd.DefaultSysfsPath, "sysfs root of the pisound-micro driver")
	rootCmd.PersistentFlags().IntVar(&flagLogLevel, "loglevel", int(logrus.InfoLevel), "loglevel to use, 0 to 6, higher values output more information")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(unsetupCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(attrsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(randomNameCmd)
}

// initContext attaches to the driver tree for the session. Setup commands
// deliberately never call Uninit: a teardown would force-release the element
// that was just claimed.
func initContext() (*upisnd.Context, error) {
	ctx, err := upisnd.InitOptions(upisnd.ContextOptions{
		SysfsPath: flagSysfs,
		Logger:    log,
	})
	if err != nil {
		return nil, fmt.Errorf("init context: %w", err)
	}
	return ctx, nil
}

func parsePin(s string) (upisnd.Pin, error) {
	pin := upisnd.PinFromString(s)
	if pin == upisnd.PinInvalid {
		return pin, fmt.Errorf("unknown pin %q", s)
	}
	return pin, nil
}

func parsePull(s string) (upisnd.PinPull, error) {
	pull := upisnd.PinPullFromString(s)
	if pull == upisnd.PinPullInvalid {
		return pull, fmt.Errorf("unknown pull %q (valid: pull_none, pull_up, pull_down)", s)
	}
	return pull, nil
}
