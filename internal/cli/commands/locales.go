package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chatmill/chatmill/pkg/locale"
)

// NewLocalesCommand creates the locales command.
func NewLocalesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List registered export locales",
		Long: `List the registered export format locales with example header lines.

New locales are added by registering a locale profile; the parser and
generator pick them up without changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range locale.Locales() {
				p, err := locale.Get(key)
				if err != nil {
					return err
				}
				fmt.Printf("%s\n", p.Locale)
				fmt.Printf("  Resolution: %s\n", p.Resolution)
				fmt.Printf("  Media types: %d\n", len(p.MediaTypes()))
				for _, ex := range p.Examples {
					fmt.Printf("  Example: %s\n", ex)
				}
				fmt.Println()
			}
			return nil
		},
	}
}
