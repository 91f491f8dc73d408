package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bellarboulter/MiniGit/api"
	"github.com/bellarboulter/MiniGit/client"
	"github.com/bellarboulter/MiniGit/config"
)

var (
	serverURL string

	rootCmd = &cobra.Command{
		Use:   "minigit",
		Short: "MiniGit - an in-memory commit history ledger",
		Long: `minigit manages named repositories of commit metadata on a running
minigit server. Repositories live in server memory only; nothing is
persisted across restarts.`,
		Version: api.Version,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the minigit server")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(serveCmd)
}

// newClient builds a client for the configured server, exiting on error.
func newClient() *client.Client {
	c, err := client.NewClient(serverURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return c
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new empty repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := cmdContext()
		defer cancel()

		repo, err := newClient().CreateRepo(ctx, args[0])
		if err != nil {
			fail(err)
		}
		fmt.Printf("Created repository %s\n", repo.Name)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all repositories",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := cmdContext()
		defer cancel()

		names, err := newClient().ListRepos(ctx)
		if err != nil {
			fail(err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a repository's head, size, and description",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := cmdContext()
		defer cancel()

		repo, err := newClient().GetRepo(ctx, args[0])
		if err != nil {
			fail(err)
		}
		fmt.Println(repo.Description)
		fmt.Printf("Commits: %d\n", repo.Size)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := cmdContext()
		defer cancel()

		if err := newClient().DeleteRepo(ctx, args[0]); err != nil {
			fail(err)
		}
		fmt.Printf("Deleted repository %s\n", args[0])
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a minigit server",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			fail(err)
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Server.Port = port
		}

		if err := api.NewServer(cfg).Start(); err != nil {
			fail(err)
		}
	},
}

func init() {
	serveCmd.Flags().String("config", "", "Path to yaml config file")
	serveCmd.Flags().Int("port", 0, "Server port (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
