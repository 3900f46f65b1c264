package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmey/backmey/internal/output"
	"github.com/backmey/backmey/internal/store"
)

var (
	templateName    string
	templateArchive string
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage templates",
	Long: `Templates are named archives kept outside the versioned store, meant
to seed fresh machines with a known-good setup.`,
}

var templatesRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register an archive as a template",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := store.NewTemplateRegistry(templateDir())
		if err != nil {
			return err
		}
		dest, err := registry.Register(templateName, expandUser(templateArchive))
		if err != nil {
			return err
		}
		output.Info("Registered template %q at %s", templateName, dest)
		return nil
	},
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := &store.TemplateRegistry{Root: templateDir()}
		templates, err := registry.List()
		if err != nil {
			return err
		}
		if len(templates) == 0 {
			output.Warn("No templates found in %s", templateDir())
			return nil
		}
		output.Info("Templates in %s:", templateDir())
		for _, tpl := range templates {
			output.Plain("  - %s", store.TemplateName(tpl))
		}
		return nil
	},
}

func init() {
	templatesRegisterCmd.Flags().StringVar(&templateName, "name", "", "template name")
	templatesRegisterCmd.Flags().StringVar(&templateArchive, "archive", "", "path to archive to register")
	templatesRegisterCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if templateName == "" || templateArchive == "" {
			return fmt.Errorf("--name and --archive are required")
		}
		return nil
	}

	templatesCmd.AddCommand(templatesRegisterCmd)
	templatesCmd.AddCommand(templatesListCmd)
}
