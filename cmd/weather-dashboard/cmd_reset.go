package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all stored data",
	Long: `Erase preferences, favorites, the weather cache and the last known
location. Asks for confirmation unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "do not ask for confirmation")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetYes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("refusing to erase data without --yes when stdin is not a terminal")
		}

		fmt.Print("This erases all preferences, favorites and cached weather. Type \"yes\" to continue: ")
		answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if strings.TrimSpace(strings.ToLower(answer)) != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := deps.ctrl.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reset: %w", err)
	}
	fmt.Println("All data erased.")
	return nil
}
