package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

// The inspection commands read the element tree directly instead of going
// through a context: they must also work on elements claimed by another
// process, which a context registry never sees.

func attrPath(name, attr string) string {
	return filepath.Join(flagSysfs, "elements", name, attr)
}

func readAttr(name, attr string) (string, error) {
	data, err := os.ReadFile(attrPath(name, attr))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

var getCmd = &cobra.Command{
	Use:   "get <name> [attribute]",
	Short: "Read an element attribute (default: value)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		attr := "value"
		if len(args) == 2 {
			attr = args[1]
		}

		value, err := readAttr(args[0], attr)
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Write an element value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("invalid value %q", args[1])
		}
		return os.WriteFile(attrPath(args[0], "value"), []byte(args[1]), 0644)
	},
}

var attrsCmd = &cobra.Command{
	Use:   "attrs <name>",
	Short: "Dump all attributes of an element",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := filepath.Join(flagSysfs, "elements", args[0])
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)

		for _, attr := range names {
			value, err := readAttr(args[0], attr)
			if err != nil {
				value = "<" + err.Error() + ">"
			}
			fmt.Printf("%-16s %s\n", attr, value)
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <name>",
	Short: "Print the element value on every change",
	Long: `Watch polls the value attribute of the element and prints each new
value on its own line. sysfs signals attribute changes as exceptional poll
conditions, so the value is read once up front and then after every
notification. Interrupt to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fd, err := unix.Open(attrPath(args[0], "value"), unix.O_RDONLY|unix.O_CLOEXEC, 0)
		if err != nil {
			return err
		}
		defer unix.Close(fd)

		for {
			var buf [15]byte
			if _, err := unix.Seek(fd, 0, 0); err != nil {
				return err
			}
			n, err := unix.Read(fd, buf[:])
			if err != nil {
				return err
			}
			fmt.Println(strings.TrimSpace(string(buf[:n])))

			fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLPRI | unix.POLLERR}}
			if _, err := unix.Poll(fds, -1); err != nil {
				if err == unix.EINTR {
					continue
				}
				return err
			}
		}
	},
}
