package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/lmittmann/tint"
	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"

	"github.com/coderzclub/harness/api"
	"github.com/coderzclub/harness/internal/backend"
	"github.com/coderzclub/harness/internal/environment"
	"github.com/coderzclub/harness/internal/harness"
	"github.com/coderzclub/harness/internal/judge"
	"github.com/coderzclub/harness/internal/natsgath"
	"github.com/coderzclub/harness/sqsgath"
)

const consumerCount = 2

// queueMsg is the request-queue envelope. Mode selects between run and
// submit orchestration for the embedded request.
type queueMsg struct {
	Mode    string     `json:"mode"`
	Request api.RunReq `json:"request"`
}

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: slog.LevelInfo,
	})))

	envCfg := environment.ReadEnvConfig()
	if err := envCfg.Validate(true, false); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if envCfg.SubmReqQueueUrl == "" {
		slog.Error("SUBM_REQ_QUEUE_URL is not set")
		os.Exit(1)
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(envCfg.AwsRegion))
	if err != nil {
		slog.Error("unable to load SDK config", "error", err)
		os.Exit(1)
	}
	sqsClient := sqs.NewFromConfig(awsCfg)

	var nc *nats.Conn
	if envCfg.NatsUrl != "" {
		nc, err = nats.Connect(envCfg.NatsUrl)
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer nc.Close()
	}

	var bk *backend.Client
	if envCfg.BackendBaseUrl != "" {
		bk = backend.NewClient(envCfg.BackendBaseUrl, envCfg.BackendToken)
	}
	h := harness.New(judge.NewClient(envCfg.JudgeBaseUrl, envCfg.JudgeApiKey, envCfg.JudgeApiHost), bk)
	// queued runs belong to many users; per-problem supersession would let
	// them silence one another
	h.ScopeSessionsByRun()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < consumerCount; i++ {
		g.Go(func() error {
			return consume(ctx, sqsClient, envCfg, h, nc)
		})
	}
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		slog.Error("worker stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("worker shut down")
}

func consume(ctx context.Context, sqsClient *sqs.Client, cfg *environment.EnvConfig, h *harness.Harness, nc *nats.Conn) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		output, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(cfg.SubmReqQueueUrl),
			MaxNumberOfMessages: 1,
			WaitTimeSeconds:     5,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Warn("failed to receive messages", "error", err)
			time.Sleep(1 * time.Second)
			continue
		}

		for _, message := range output.Messages {
			if err := handle(ctx, cfg, h, nc, message); err != nil {
				slog.Error("failed to process message", "error", err)
				continue
			}

			_, err = sqsClient.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      aws.String(cfg.SubmReqQueueUrl),
				ReceiptHandle: message.ReceiptHandle,
			})
			if err != nil {
				slog.Warn("failed to delete message", "error", err)
			}
		}
	}
}

func handle(ctx context.Context, cfg *environment.EnvConfig, h *harness.Harness, nc *nats.Conn, message sqstypes.Message) error {
	var qMsg queueMsg
	if err := json.Unmarshal([]byte(*message.Body), &qMsg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}
	req := &qMsg.Request

	var gath harness.RunResGatherer
	if nc != nil {
		gath = natsgath.New(nc, req.RunUuid, "runs."+req.RunUuid)
	} else {
		gath = sqsgath.NewSqsResponseQueueGatherer(req.RunUuid, cfg.SubmResultQueueUrl, cfg.AwsRegion)
	}

	slog.Info("processing run", "run", req.RunUuid, "problem", req.ProblemId, "mode", qMsg.Mode)

	var err error
	switch qMsg.Mode {
	case string(harness.ModeSubmit):
		_, err = h.Submit(ctx, gath, req)
	default:
		_, err = h.RunAll(ctx, gath, req)
	}
	return err
}
