package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"centavo/internal/cli"
	"centavo/internal/credential"
)

// readPin reads a PIN, preferring the flag and falling back to a hidden
// terminal prompt.
func readPin(flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read pin: %w", err)
	}
	return string(raw), nil
}

func registerCmd() *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create a new user account",
		Long: `Register a user with a numeric PIN (4-8 digits). The account gets the
default preferences and the starter category catalog.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			pinValue, err := readPin(pin, "Choose a PIN")
			if err != nil {
				return err
			}
			if strength := credential.EvaluatePin(pinValue); strength == credential.StrengthWeak {
				fmt.Println(cli.FormatWarning("that PIN is easy to guess; consider six or more varied digits"))
			}

			user, err := a.auth.Register(cmd.Context(), args[0], pinValue)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("registered %s (user %d)", user.Username, user.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "PIN (prompted if omitted)")
	return cmd
}

func loginCmd() *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Verify a username and PIN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			pinValue, err := readPin(pin, "PIN")
			if err != nil {
				return err
			}

			user, err := a.auth.Login(cmd.Context(), args[0], pinValue)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("welcome back, %s", user.Username)))
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "PIN (prompted if omitted)")
	return cmd
}

func pinCmd() *cobra.Command {
	var (
		userID     int64
		currentPin string
		newPin     string
	)

	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Change a user's PIN",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			current, err := readPin(currentPin, "Current PIN")
			if err != nil {
				return err
			}
			next, err := readPin(newPin, "New PIN")
			if err != nil {
				return err
			}

			if err := a.auth.ChangePin(cmd.Context(), userID, current, next); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("PIN updated"))
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 1, "user id")
	cmd.Flags().StringVar(&currentPin, "current", "", "current PIN (prompted if omitted)")
	cmd.Flags().StringVar(&newPin, "new", "", "new PIN (prompted if omitted)")
	return cmd
}
