package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"wrfcloud/internal/actions"
	"wrfcloud/internal/api"
	"wrfcloud/internal/audit"
	"wrfcloud/internal/auth"
	"wrfcloud/internal/cluster"
	"wrfcloud/internal/config"
	"wrfcloud/internal/policy"
	"wrfcloud/internal/repository/dynamo"
	"wrfcloud/internal/storage/s3"
	transport "wrfcloud/internal/transport/echo"
	"wrfcloud/pkg/mailer"
	"wrfcloud/pkg/mailer/providers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	secret := []byte(cfg.JWT.Secret)
	if len(secret) == 0 {
		secret, err = auth.GenerateEphemeralSecret()
		if err != nil {
			log.Fatalf("Failed to generate ephemeral signing key: %v", err)
		}
		log.Println("WARNING: using an ephemeral signing key; all sessions will be invalidated on restart")
	}
	tokens := auth.NewTokenService(secret, cfg.JWT.ExpiryDuration, cfg.JWT.RefreshExpiry)

	dynamoSvc, err := dynamo.NewService(dynamo.Config{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.Dynamo.Endpoint,
	})
	if err != nil {
		log.Fatalf("Failed to create DynamoDB client: %v", err)
	}

	storageClient, err := s3.NewClient(s3.Config{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
	})
	if err != nil {
		log.Fatalf("Failed to create S3 client: %v", err)
	}

	mailService, err := buildMailer(cfg)
	if err != nil {
		log.Fatalf("Failed to create email service: %v", err)
	}

	hub := transport.NewHub()

	deps := &actions.Deps{
		Users:        dynamo.NewUserRepo(dynamoSvc, cfg.Dynamo.UserTable),
		Jobs:         dynamo.NewJobRepo(dynamoSvc, cfg.Dynamo.JobTable),
		ModelConfigs: dynamo.NewModelConfigRepo(dynamoSvc, cfg.Dynamo.ModelConfigTable),
		Tokens:       tokens,
		Mail:         mailService,
		Storage:      storageClient,
		Cluster:      cluster.NewClient(cfg.Cluster.Endpoint, cfg.Cluster.APIKey),
		Notifier:     hub,
		Bucket:       cfg.S3.DataBucket,
		AppURL:       cfg.App.URL,
	}

	registry := api.NewRegistry()
	actions.Register(registry, deps)

	dispatcher, err := api.NewDispatcher(tokens, policy.New(policy.Default()), registry)
	if err != nil {
		log.Fatalf("Failed to create dispatcher: %v", err)
	}

	if cfg.Dynamo.AuditTable != "" {
		auditLogger := audit.NewLogger(dynamoSvc, cfg.Dynamo.AuditTable)
		defer auditLogger.Close()
		dispatcher.SetAuditSink(auditLogger)
	}

	server := transport.NewServer(transport.Config{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, dispatcher, hub)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.Start(); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

func buildMailer(cfg *config.Config) (*mailer.EmailService, error) {
	if cfg.Mail.Provider == "console" {
		return mailer.NewEmailService(cfg.Mail.Sender, providers.NewConsoleProvider())
	}

	ses, err := providers.NewSESProvider(providers.SESConfig{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
	})
	if err != nil {
		return nil, err
	}

	// SES first, console as a last-resort failover so operators still see
	// activation and reset links in the logs if SES rejects the send.
	return mailer.NewEmailService(cfg.Mail.Sender, ses, providers.NewConsoleProvider())
}
