// Command portfolioctl edits the portfolio catalog from the terminal.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/portfolio-dev/portfolio/internal/client"
	"github.com/portfolio-dev/portfolio/internal/ordering"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	serverURL string
	asJSON    bool
}

func (a *app) client() *client.Client {
	return client.New(a.serverURL)
}

// notifier prints operation outcomes to w.
func notifier(w io.Writer) ordering.Notifier {
	return ordering.NotifierFunc(func(n ordering.Notification) {
		fmt.Fprintf(w, "%s: %s\n", n.Title, n.Description)
	})
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "portfolioctl",
		Short: "Manage portfolio projects, categories and skills",
		Long: `portfolioctl talks to the portfolio API and edits the ordered catalog.

Examples:
  # List skills in display order
  portfolioctl list skills

  # Move a category one place up
  portfolioctl move categories 7f6c... up

  # Use a different server
  portfolioctl list projects --server http://localhost:9000`,
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&a.serverURL, "server", "http://localhost:8080", "portfolio API URL")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Output results as JSON")

	root.AddCommand(
		a.listCmd(),
		a.filterCmd(),
		a.addCmd(),
		a.editCmd(),
		a.moveCmd(),
		a.removeCmd(),
		a.uploadCVCmd(),
		a.importCmd(),
	)
	return root
}
