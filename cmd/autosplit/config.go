package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chained-autosplit/internal/config"
)

var flagForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or edit the settings file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default settings file",
	Long: `Write the default settings, with every checkpoint enabled, to
~/.autosplit/settings.yaml or the given path.

Examples:
  autosplit config init
  autosplit config init ./configs/settings.yaml --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show which settings file is in use",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configToggleCmd = &cobra.Command{
	Use:   "toggle <checkpoint> on|off",
	Short: "Enable or disable a checkpoint",
	Long: `Enable or disable one checkpoint by its key. Run 'autosplit checkpoints'
to list keys. A running splitter picks the change up on its next tick.

Examples:
  autosplit config toggle underworld off
  autosplit config toggle the_sun on`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigToggle,
}

func init() {
	configInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configToggleCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.UserConfigPath()
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("cannot determine home directory; pass a path")
	}
	if err := config.WriteDefault(path, flagForce); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	if s.path == "" {
		fmt.Println("(embedded defaults)")
		return nil
	}
	fmt.Println(s.path)
	return nil
}

func runConfigToggle(cmd *cobra.Command, args []string) error {
	key, value := args[0], strings.ToLower(args[1])

	var enabled bool
	switch value {
	case "on", "true", "yes", "1":
		enabled = true
	case "off", "false", "no", "0":
		enabled = false
	default:
		return fmt.Errorf("invalid value %q (want on or off)", args[1])
	}

	s, err := loadSettings()
	if err != nil {
		return err
	}
	route := s.game.Route()
	i, ok := route.Lookup(key)
	if !ok {
		return fmt.Errorf("unknown checkpoint %q (run 'autosplit checkpoints' to list keys)", key)
	}

	s.toggles.Set(key, enabled)
	if err := s.save(s.toggles.Snapshot()); err != nil {
		return err
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Printf("%s %s in %s\n", route.At(i).Name, state, s.path)
	fmt.Printf("First split is now: %s\n", route.At(route.FirstEnabled(s.toggles)).Name)
	return nil
}
