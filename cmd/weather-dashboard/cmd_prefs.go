package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Read and change preferences",
}

var listPrefsCmd = &cobra.Command{
	Use:   "list",
	Short: "List every preference",
	Args:  cobra.NoArgs,
	RunE:  runListPrefs,
}

var getPrefCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one preference",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetPref,
}

var setPrefCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a preference",
	Long: `Change a preference. The value is JSON; bare words are taken as strings,
so "prefs set units imperial" and "prefs set autoRefreshMinutes 15" both work.`,
	Args: cobra.ExactArgs(2),
	RunE: runSetPref,
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(listPrefsCmd, getPrefCmd, setPrefCmd)
}

func runListPrefs(cmd *cobra.Command, args []string) error {
	prefs, err := deps.ctrl.Preferences(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read preferences: %w", err)
	}
	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-22s %s\n", k, prefs[k])
	}
	return nil
}

func runGetPref(cmd *cobra.Command, args []string) error {
	value, err := deps.ctrl.Preference(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Println(string(value))
	return nil
}

func runSetPref(cmd *cobra.Command, args []string) error {
	key, raw := args[0], preferenceValue(args[1])
	if err := deps.ctrl.SetPreference(cmd.Context(), key, raw); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", key, raw)
	return nil
}

// preferenceValue reads arg as JSON, falling back to a JSON string.
func preferenceValue(arg string) json.RawMessage {
	if json.Valid([]byte(arg)) {
		return json.RawMessage(arg)
	}
	quoted, _ := json.Marshal(arg)
	return quoted
}
