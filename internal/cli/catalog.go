package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomeditor/pkg/catalog"
)

// catalogCommand creates the catalog command for browsing furniture templates.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the furniture catalog",
		Long: `Browse the furniture catalog.

The built-in catalog is used unless catalog.path in the config file points
to a TOML catalog of your own.`,
	}

	cmd.AddCommand(c.catalogListCommand())
	cmd.AddCommand(c.catalogShowCommand())
	cmd.AddCommand(c.catalogCategoriesCommand())

	return cmd
}

func (c *CLI) catalogListCommand() *cobra.Command {
	var (
		category string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List furniture templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.catalog()
			if err != nil {
				return err
			}
			templates := cat.List(category)
			if asJSON {
				return writeJSON(cmd, templates)
			}
			if len(templates) == 0 {
				printWarning("No templates in category %q", category)
				printDetail("Available: %s", strings.Join(cat.Categories(), ", "))
				return nil
			}

			rows := make([][]string, 0, len(templates))
			for _, t := range templates {
				rows = append(rows, []string{t.ID, t.Name, t.Category, formatFootprint(t.Footprint), placementSummary(t.Placement)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Name", "Category", "W × D × H", "Placement"}, rows))
			printNextStep("Place one", "roomeditor place "+templates[0].ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only list templates in this category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print templates as JSON")
	_ = cmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cat, err := c.catalog()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return cat.Categories(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) catalogShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "show <template-id>",
		Short:             "Show one furniture template",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeTemplateIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.catalog()
			if err != nil {
				return err
			}
			t, err := cat.Lookup(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, t)
			}

			fmt.Println(StyleTitle.Render(t.Name))
			printKeyValue("ID", t.ID)
			category := t.Category
			if t.Subcategory != "" {
				category += " / " + t.Subcategory
			}
			printKeyValue("Category", category)
			printKeyValue("Footprint", formatFootprint(t.Footprint))
			printKeyValue("Placement", placementSummary(t.Placement))
			if t.Brand != "" {
				printKeyValue("Brand", t.Brand)
			}
			if t.Price > 0 {
				printKeyValue("Price", fmt.Sprintf("%.2f", t.Price))
			}
			if len(t.Tags) > 0 {
				printKeyValue("Tags", strings.Join(t.Tags, ", "))
			}
			if t.Description != "" {
				printDetail("%s", t.Description)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the template as JSON")
	return cmd
}

func (c *CLI) catalogCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.catalog()
			if err != nil {
				return err
			}
			for _, name := range cat.Categories() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, StyleDim.Render(fmt.Sprintf("(%d)", len(cat.List(name)))))
			}
			return nil
		},
	}
}

// placementSummary describes where a template may be placed.
func placementSummary(p catalog.Placement) string {
	var parts []string
	switch {
	case p.WallOnly:
		parts = append(parts, fmt.Sprintf("wall at %s", formatMetres(p.WallHeight)))
	case p.FloorOffset > 0:
		parts = append(parts, fmt.Sprintf("floor +%s", formatMetres(p.FloorOffset)))
	default:
		parts = append(parts, "floor")
	}
	if !p.CanRotate {
		parts = append(parts, "fixed rotation")
	}
	if p.CanScale {
		parts = append(parts, "scalable")
	}
	return strings.Join(parts, ", ")
}

// writeJSON writes v as indented JSON to the command's output.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
