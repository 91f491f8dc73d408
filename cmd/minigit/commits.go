package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commitMessage string

var commitCmd = &cobra.Command{
	Use:   "commit [repo]",
	Short: "Create a commit in a repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := cmdContext()
		defer cancel()

		id, err := newClient().Commit(ctx, args[0], commitMessage)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Created commit %s\n", id)
	},
}

var logCount int

var logCmd = &cobra.Command{
	Use:   "log [repo]",
	Short: "Show the most recent commits, newest first",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := cmdContext()
		defer cancel()

		history, err := newClient().History(ctx, args[0], logCount)
		if err != nil {
			fail(err)
		}
		if history == "" {
			fmt.Println("No commits")
			return
		}
		fmt.Println(history)
	},
}

var dropCmd = &cobra.Command{
	Use:   "drop [repo] [commit-id]",
	Short: "Remove a commit from a repository's history",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := cmdContext()
		defer cancel()

		dropped, err := newClient().Drop(ctx, args[0], args[1])
		if err != nil {
			fail(err)
		}
		if !dropped {
			fmt.Printf("Commit %s not found in %s\n", args[1], args[0])
			return
		}
		fmt.Printf("Dropped commit %s\n", args[1])
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync [target] [source]",
	Short: "Move all commits from source into target, leaving source empty",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := cmdContext()
		defer cancel()

		resp, err := newClient().Synchronize(ctx, args[0], args[1])
		if err != nil {
			fail(err)
		}
		fmt.Printf("Synchronized %s into %s (%d commits)\n", resp.Source, resp.Target, resp.Size)
	},
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message")
	commitCmd.MarkFlagRequired("message")

	logCmd.Flags().IntVarP(&logCount, "number", "n", 10, "Number of commits to show")
}
