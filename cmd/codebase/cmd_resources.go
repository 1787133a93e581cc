package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resourcesCmd groups the enabled-set mutation commands.
var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List and toggle context resources for a session",
	Long: `Manages which registered resources contribute to context assembly.

Names may be exact ("repoMap/source") or wildcard patterns ("repoMap/*",
expanding to every registered name under that prefix). Mutations are
atomic: if any name fails to resolve, nothing changes.`,
}

var resourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered resources and their enabled state",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup()
		if err != nil {
			return err
		}
		defer app.close()

		for _, name := range app.registry.ListAvailable() {
			res, _ := app.registry.Get(name)
			marker := " "
			if app.sess.Has(name) {
				marker = "*"
			}
			fmt.Printf("%s %-40s %s\n", marker, name, res.Kind)
		}
		return nil
	},
}

var resourcesEnableCmd = &cobra.Command{
	Use:   "enable [name|pattern]...",
	Short: "Enable resources in the session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateSession(args, "enable")
	},
}

var resourcesDisableCmd = &cobra.Command{
	Use:   "disable [name|pattern]...",
	Short: "Disable resources in the session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateSession(args, "disable")
	},
}

var resourcesSetCmd = &cobra.Command{
	Use:   "set [name|pattern]...",
	Short: "Replace the session's enabled set with exactly these resources",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateSession(args, "set")
	},
}

// mutateSession applies one enabled-set mutation and persists the result
// under the named session.
func mutateSession(patterns []string, op string) error {
	app, err := setup()
	if err != nil {
		return err
	}
	defer app.close()

	switch op {
	case "enable":
		err = app.registry.Enable(patterns, app.sess)
	case "disable":
		err = app.registry.Disable(patterns, app.sess)
	case "set":
		err = app.registry.SetEnabled(patterns, app.sess)
	}
	if err != nil {
		return err
	}

	if err := app.snapshots.SaveSnapshot(sessionName, app.sess.Snapshot()); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}

	logger.Debug("session mutated",
		zap.String("op", op),
		zap.Strings("patterns", patterns),
		zap.Int("enabled", len(app.sess.Enabled())))

	for _, name := range app.sess.Enabled() {
		fmt.Println(name)
	}
	return nil
}

func init() {
	resourcesCmd.AddCommand(resourcesListCmd)
	resourcesCmd.AddCommand(resourcesEnableCmd)
	resourcesCmd.AddCommand(resourcesDisableCmd)
	resourcesCmd.AddCommand(resourcesSetCmd)
}
