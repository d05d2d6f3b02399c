package main

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"dp-catalog/internal/config"
	"dp-catalog/internal/policy"
)

func newSenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sender",
		Short: "Manage the enquiry sender allow/deny list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <email> <allowed|denied>",
		Short: "Record a sender policy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := policy.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return withSenders(func(s *policy.Senders) error {
				if err := s.Set(cmd.Context(), args[0], status); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], status)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check <email>",
		Short: "Show the policy recorded for a sender",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSenders(func(s *policy.Senders) error {
				status, err := s.Check(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], status)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear <email>",
		Short: "Remove the policy recorded for a sender",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSenders(func(s *policy.Senders) error {
				return s.Clear(cmd.Context(), args[0])
			})
		},
	})
	return cmd
}

func withSenders(fn func(*policy.Senders) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Redis.Addr == "" {
		return errors.New("sender policy needs REDIS_ADDR")
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer rdb.Close()
	return fn(policy.NewSenders(rdb))
}
