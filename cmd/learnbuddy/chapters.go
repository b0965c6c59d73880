package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func chaptersCmd(flags *rootFlags) *cobra.Command {
	var book string

	cmd := &cobra.Command{
		Use:   "chapters",
		Short: "List available books and chapters",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()
			out := cmd.OutOrStdout()

			if book != "" {
				chapters, err := a.store.ListChapters(cmd.Context(), book)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Chapters in %s:\n", book)
				for _, ch := range chapters {
					fmt.Fprintf(out, "- %s\n", ch)
				}
				return nil
			}

			books, err := a.store.ListBooks(cmd.Context())
			if err != nil {
				return err
			}
			if len(books) == 0 {
				fmt.Fprintf(out, "No books found in %s\n", a.cfg.Library.DataDir)
				return nil
			}
			fmt.Fprintln(out, "Available books:")
			for _, b := range books {
				fmt.Fprintf(out, "- %s\n", b)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&book, "book", "", "List chapters of this book")

	return cmd
}
