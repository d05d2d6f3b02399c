package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"dp-catalog/internal/config"
	"dp-catalog/internal/enquiry"
	"dp-catalog/internal/kstream"
	"dp-catalog/internal/mailer"
	"dp-catalog/internal/notify"
	"dp-catalog/internal/policy"
	"dp-catalog/internal/rejections"
)

// enquiryStack is the enquiry pipeline with every configured collaborator.
// Shared by serve and failed replay.
type enquiryStack struct {
	opts    enquiry.Options
	svc     *enquiry.Service
	store   *rejections.Store
	rdb     *redis.Client // nil without REDIS_ADDR
	closers []func() error
}

func newEnquiryStack(cfg *config.Config, logger *zap.Logger) *enquiryStack {
	st := &enquiryStack{store: rejections.NewStore(cfg.Enquiry.FailedDir)}
	st.opts = enquiry.Options{
		BusinessEmail: cfg.Enquiry.BusinessEmail,
		Brand:         cfg.Enquiry.Brand,
		Failed:        st.store,
		Logger:        logger,
	}

	if wh := notify.NewWebhook(cfg.Webhook.URL, cfg.Webhook.Phone, cfg.Webhook.Timeout); wh != nil {
		st.opts.Notifier = wh
	} else {
		logger.Info("whatsapp webhook not configured")
	}
	if producer := kstream.NewProducer(cfg.Kafka.Broker); producer != nil {
		st.opts.Events = producer
		st.closers = append(st.closers, producer.Close)
	}
	if cfg.Redis.Addr != "" {
		st.rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		st.opts.Senders = policy.NewSenders(st.rdb)
		st.closers = append(st.closers, st.rdb.Close)
	}

	st.svc = enquiry.NewService(mailer.NewSMTP(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		Timeout:  cfg.SMTP.Timeout,
	}), st.opts)
	return st
}

// Close flushes the producer and closes Redis, in that order.
func (st *enquiryStack) Close() {
	for _, c := range st.closers {
		_ = c()
	}
}

// consumeEnquiryStream runs the stats projector until ctx ends. A reader
// failure only stops the projections; it is logged and never returned, so the
// HTTP API keeps serving.
func consumeEnquiryStream(ctx context.Context, reader kstream.MessageReader, handle kstream.HandlerFunc, logger *zap.Logger) error {
	if err := kstream.ConsumeEnquiries(ctx, reader, handle, logger); err != nil {
		logger.Error("enquiry consumer stopped, stats will not update", zap.Error(err))
	}
	return nil
}
