package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dp-catalog/internal/config"
	"dp-catalog/internal/enquiry"
	"dp-catalog/internal/logging"
	"dp-catalog/internal/rejections"
)

func newFailedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "failed",
		Short: "Inspect and resend enquiries whose mails could not be delivered",
	}

	var limit, offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "Print stored failed enquiries as JSON, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			recs, err := rejections.NewStore(cfg.Enquiry.FailedDir).List(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum number of records")
	list.Flags().IntVar(&offset, "offset", 0, "records to skip")

	replay := &cobra.Command{
		Use:   "replay <enquiry-id>",
		Short: "Submit a stored failed enquiry again through the mail relay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.Production())
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			stack := newEnquiryStack(cfg, logger)
			defer stack.Close()

			rec, err := stack.store.Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			req, err := enquiry.FromPayload(rec.Enquiry)
			if err != nil {
				return err
			}

			out := stack.svc.Submit(cmd.Context(), req)
			logger.Info("replayed enquiry",
				zap.String("original_id", rec.EnquiryID),
				zap.String("enquiry_id", out.ID),
				zap.Stringer("state", out.State))
			if out.State != enquiry.Sent {
				return fmt.Errorf("replay %s: %s: %w", rec.EnquiryID, out.State, out.Err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s resent as %s\n", rec.EnquiryID, out.ID)
			return nil
		},
	}

	cmd.AddCommand(list, replay)
	return cmd
}
