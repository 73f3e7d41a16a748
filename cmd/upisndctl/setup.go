package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/BertoldVdb/go-upisnd/upisnd"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Claim an element",
}

func init() {
	setupCmd.AddCommand(setupGpioInputCmd)
	setupCmd.AddCommand(setupGpioOutputCmd)
	setupCmd.AddCommand(setupEncoderCmd)
	setupCmd.AddCommand(setupAnalogInCmd)
	setupCmd.AddCommand(setupActivityCmd)
}

func reportSetup(name string, existed bool) {
	if existed {
		fmt.Printf("%s (already existed)\n", name)
	} else {
		fmt.Println(name)
	}
}

var setupGpioInputCmd = &cobra.Command{
	Use:   "gpio-input <name> <pin> <pull>",
	Short: "Claim a GPIO input element",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, err := parsePin(args[1])
		if err != nil {
			return err
		}
		pull, err := parsePull(args[2])
		if err != nil {
			return err
		}

		ctx, err := initContext()
		if err != nil {
			return err
		}

		_, existed, err := ctx.SetupGpioInput(args[0], pin, pull)
		if err != nil {
			return fmt.Errorf("setup %s: %w", args[0], err)
		}
		reportSetup(args[0], existed)
		return nil
	},
}

var setupGpioOutputCmd = &cobra.Command{
	Use:   "gpio-output <name> <pin> <0|1>",
	Short: "Claim a GPIO output element",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, err := parsePin(args[1])
		if err != nil {
			return err
		}
		level, err := strconv.Atoi(args[2])
		if err != nil || level < 0 || level > 1 {
			return fmt.Errorf("invalid level %q (valid: 0, 1)", args[2])
		}

		ctx, err := initContext()
		if err != nil {
			return err
		}

		_, existed, err := ctx.SetupGpioOutput(args[0], pin, level == 1)
		if err != nil {
			return fmt.Errorf("setup %s: %w", args[0], err)
		}
		reportSetup(args[0], existed)
		return nil
	},
}

var setupEncoderCmd = &cobra.Command{
	Use:   "encoder <name> <pinA> <pullA> <pinB> <pullB>",
	Short: "Claim a rotary encoder element",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		pinA, err := parsePin(args[1])
		if err != nil {
			return err
		}
		pullA, err := parsePull(args[2])
		if err != nil {
			return err
		}
		pinB, err := parsePin(args[3])
		if err != nil {
			return err
		}
		pullB, err := parsePull(args[4])
		if err != nil {
			return err
		}

		ctx, err := initContext()
		if err != nil {
			return err
		}

		_, existed, err := ctx.SetupEncoder(args[0], pinA, pullA, pinB, pullB)
		if err != nil {
			return fmt.Errorf("setup %s: %w", args[0], err)
		}
		reportSetup(args[0], existed)
		return nil
	},
}

var setupAnalogInCmd = &cobra.Command{
	Use:   "analog-in <name> <pin>",
	Short: "Claim an analog input element",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, err := parsePin(args[1])
		if err != nil {
			return err
		}

		ctx, err := initContext()
		if err != nil {
			return err
		}

		_, existed, err := ctx.SetupAnalogInput(args[0], pin)
		if err != nil {
			return fmt.Errorf("setup %s: %w", args[0], err)
		}
		reportSetup(args[0], existed)
		return nil
	},
}

var setupActivityCmd = &cobra.Command{
	Use:   "activity <name> <pin> <midi_in|midi_out>",
	Short: "Claim an activity indicator element",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, err := parsePin(args[1])
		if err != nil {
			return err
		}
		activity := upisnd.ActivityTypeFromString(args[2])
		if activity == upisnd.ActivityInvalid {
			return fmt.Errorf("unknown activity %q (valid: midi_in, midi_out)", args[2])
		}

		ctx, err := initContext()
		if err != nil {
			return err
		}

		_, existed, err := ctx.SetupActivity(args[0], pin, activity)
		if err != nil {
			return fmt.Errorf("setup %s: %w", args[0], err)
		}
		reportSetup(args[0], existed)
		return nil
	},
}

var unsetupCmd = &cobra.Command{
	Use:   "unsetup <name>",
	Short: "Release a claimed element",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := initContext()
		if err != nil {
			return err
		}
		defer ctx.Uninit()

		if err := ctx.Unsetup(args[0]); err != nil {
			return fmt.Errorf("unsetup %s: %w", args[0], err)
		}
		return nil
	},
}

var randomNameCmd = &cobra.Command{
	Use:   "random-name [prefix]",
	Short: "Generate a random element name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}

		ctx, err := initContext()
		if err != nil {
			return err
		}
		defer ctx.Uninit()

		name, err := ctx.GenerateRandomName(prefix)
		if err != nil {
			return err
		}
		fmt.Println(name)
		return nil
	},
}
