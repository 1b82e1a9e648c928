package main

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/vytor/karrito/internal/errors"
	"github.com/vytor/karrito/internal/models"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "List, create and manage launcher profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		profiles, err := a.profiles.GetAllProfiles(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), profiles)
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [id|name]",
	Short: "Show one profile, or the active profile when no argument is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if len(args) == 0 {
			active := a.profiles.GetActiveProfile()
			if active == nil {
				return errors.NewNotFoundError("profile", "active")
			}
			return printResult(cmd.OutOrStdout(), active)
		}

		var p *models.Profile
		if id, convErr := strconv.ParseInt(args[0], 10, 64); convErr == nil {
			p, err = a.profiles.GetProfile(cmd.Context(), id)
		} else {
			p, err = a.profiles.GetProfileByName(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), p)
	},
}

var (
	flagDisplayName string
	flagKind        string
)

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a profile and its game directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		display := flagDisplayName
		if display == "" {
			display = args[0]
		}
		p, err := a.profiles.CreateProfile(cmd.Context(), args[0], display, models.ProfileKind(flagKind)).Wait(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), p)
	},
}

var profileActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Make a profile the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProfileID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		p, err := a.profiles.SetActiveProfile(cmd.Context(), id).Wait(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), p)
	},
}

var (
	flagNewDisplayName string
	flagNewKind        string
	flagJavaPath       string
	flagJavaArgs       string
	flagMinMemory      int
	flagMaxMemory      int
	flagUsername       string
)

var profileUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the editable fields of a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProfileID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		p, err := a.profiles.GetProfile(cmd.Context(), id)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("display-name") {
			p.DisplayName = flagNewDisplayName
		}
		if flags.Changed("type") {
			p.Kind = models.ProfileKind(flagNewKind)
		}
		if flags.Changed("java-path") {
			p.JavaPath = flagJavaPath
		}
		if flags.Changed("java-args") {
			p.JavaArgs = flagJavaArgs
		}
		if flags.Changed("min-memory") {
			p.MinMemoryMB = flagMinMemory
		}
		if flags.Changed("max-memory") {
			p.MaxMemoryMB = flagMaxMemory
		}
		if flags.Changed("username") {
			p.MinecraftUsername = flagUsername
		}

		updated, err := a.profiles.UpdateProfile(cmd.Context(), *p).Wait(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), updated)
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a profile and its game directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProfileID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		deleted, err := a.profiles.DeleteProfile(cmd.Context(), id).Wait(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), map[string]any{"id": id, "deleted": deleted})
	},
}

var profileDuplicateCmd = &cobra.Command{
	Use:   "duplicate <id> <new-name>",
	Short: "Copy a profile's settings and config files under a new name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProfileID(args[0])
		if err != nil {
			return err
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		display := flagDisplayName
		if display == "" {
			display = args[1]
		}
		p, err := a.profiles.DuplicateProfile(cmd.Context(), id, args[1], display).Wait(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), p)
	},
}

func parseProfileID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewBadRequestError("invalid profile id: " + s)
	}
	return id, nil
}

func init() {
	profileCreateCmd.Flags().StringVar(&flagDisplayName, "display-name", "", "display name (default: the profile name)")
	profileCreateCmd.Flags().StringVar(&flagKind, "type", string(models.KindOffline), "profile type: offline, microsoft or mojang")

	profileUpdateCmd.Flags().StringVar(&flagNewDisplayName, "display-name", "", "display name")
	profileUpdateCmd.Flags().StringVar(&flagNewKind, "type", "", "profile type: offline, microsoft or mojang")
	profileUpdateCmd.Flags().StringVar(&flagJavaPath, "java-path", "", "java executable")
	profileUpdateCmd.Flags().StringVar(&flagJavaArgs, "java-args", "", "extra JVM arguments")
	profileUpdateCmd.Flags().IntVar(&flagMinMemory, "min-memory", 0, "minimum memory in MB")
	profileUpdateCmd.Flags().IntVar(&flagMaxMemory, "max-memory", 0, "maximum memory in MB")
	profileUpdateCmd.Flags().StringVar(&flagUsername, "username", "", "linked game username")

	profileDuplicateCmd.Flags().StringVar(&flagDisplayName, "display-name", "", "display name (default: the new name)")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileActivateCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileDuplicateCmd)
}
