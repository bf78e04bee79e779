package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/portfolio-dev/portfolio/internal/client"
)

func (a *app) uploadCVCmd() *cobra.Command {
	var activate bool
	cmd := &cobra.Command{
		Use:   "upload-cv <file.pdf|file.docx>",
		Short: "Upload a CV, optionally making it the public one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()
			st, err := f.Stat()
			if err != nil {
				return fmt.Errorf("stat %s: %w", args[0], err)
			}

			api := a.client()
			cv, err := api.UploadCV(cmd.Context(), client.File{Name: st.Name(), Size: st.Size(), Body: f})
			if err != nil {
				return err
			}
			if activate {
				if cv, err = api.ActivateCV(cmd.Context(), cv.ID); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tactive=%t\n", cv.ID, cv.URL, cv.IsActive)
			return nil
		},
	}
	cmd.Flags().BoolVar(&activate, "activate", false, "Make the uploaded CV the active one")
	return cmd
}
