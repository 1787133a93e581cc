package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tokenring-ai/codebase/internal/assembler"
	"github.com/tokenring-ai/codebase/internal/matcher"
	"github.com/tokenring-ai/codebase/internal/repomap"
	"github.com/tokenring-ai/codebase/internal/resource"
)

var watchContext bool

// contextCmd runs the full three-phase assembly and prints every item.
// With --watch it keeps running and reassembles whenever the workspace
// changes on disk.
var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Assemble and print the full context stream",
	Long: `Runs the three assembly phases over the session's enabled resources:
a sorted directory listing, a symbol-level repo map, and whole file
contents, in that order.

With --watch the command stays running, reassembling and reprinting the
context each time the workspace changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup()
		if err != nil {
			return err
		}
		defer app.close()

		if err := printContext(cmd.Context(), app); err != nil {
			return err
		}
		if !watchContext {
			return nil
		}

		watcher := matcher.NewWatcher(app.cfg.Workspace, app.matchers...)
		if err := watcher.Start(cmd.Context()); err != nil {
			return fmt.Errorf("watching workspace: %w", err)
		}
		for {
			select {
			case <-cmd.Context().Done():
				return nil
			case <-watcher.Changes():
				fmt.Println("\n--- workspace changed ---")
				if err := printContext(cmd.Context(), app); err != nil {
					return err
				}
			}
		}
	},
}

// printContext assembles the session's context and prints every item.
func printContext(ctx context.Context, a *app) error {
	asm := assembler.New(a.registry, accessorFor(a.cfg), nil)
	stream := asm.Assemble(ctx, a.sess)
	n := 0
	for {
		item, ok, err := stream.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if n > 0 {
			fmt.Println()
		}
		fmt.Println(item.Content)
		n++
	}
	if n == 0 {
		fmt.Println("(no context: no enabled resources matched any files)")
	}
	return nil
}

// repomapCmd prints only the repo-map block for the enabled repo-map
// resources.
var repomapCmd = &cobra.Command{
	Use:   "repomap",
	Short: "Print the symbol-level repo map for enabled repoMap resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setup()
		if err != nil {
			return err
		}
		defer app.close()

		files := resource.NewFileSet()
		for _, res := range app.registry.GetEnabledResources(app.sess) {
			if res.Kind != resource.KindRepoMap {
				continue
			}
			if err := res.Enumerator.AddFilesToSet(cmd.Context(), files); err != nil {
				return fmt.Errorf("enumerating resource %q: %w", res.Name, err)
			}
		}
		if files.Len() == 0 {
			fmt.Println("(no repoMap resources enabled, or none matched any files)")
			return nil
		}

		synth := repomap.NewSynthesizer(nil)
		text, present := synth.Generate(cmd.Context(), files, accessorFor(app.cfg))
		if !present {
			fmt.Println("(no symbols found)")
			return nil
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	contextCmd.Flags().BoolVar(&watchContext, "watch", false, "keep running and reassemble on workspace changes")
}
