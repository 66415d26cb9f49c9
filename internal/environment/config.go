package environment

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type EnvConfig struct {
	JudgeBaseUrl string
	JudgeApiKey  string
	JudgeApiHost string

	BackendBaseUrl string
	BackendToken   string

	AwsRegion          string
	SubmReqQueueUrl    string
	SubmResultQueueUrl string

	NatsUrl string
}

func ReadEnvConfig() *EnvConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	result := &EnvConfig{}

	result.JudgeBaseUrl = os.Getenv("JUDGE_BASE_URL")
	if result.JudgeBaseUrl == "" {
		result.JudgeBaseUrl = "https://judge0-ce.p.rapidapi.com"
	}
	result.JudgeApiKey = os.Getenv("JUDGE_API_KEY")
	result.JudgeApiHost = os.Getenv("JUDGE_API_HOST")
	if result.JudgeApiHost == "" {
		result.JudgeApiHost = "judge0-ce.p.rapidapi.com"
	}

	result.BackendBaseUrl = os.Getenv("BACKEND_BASE_URL")
	result.BackendToken = os.Getenv("BACKEND_TOKEN")

	result.AwsRegion = os.Getenv("AWS_REGION")
	if result.AwsRegion == "" {
		result.AwsRegion = "eu-central-1"
	}
	result.SubmReqQueueUrl = os.Getenv("SUBM_REQ_QUEUE_URL")
	result.SubmResultQueueUrl = os.Getenv("SUBM_RESULT_QUEUE_URL")

	result.NatsUrl = os.Getenv("NATS_URL")

	return result
}

// Validate checks the subset of fields a command actually needs.
func (c *EnvConfig) Validate(needJudge, needBackend bool) error {
	if needJudge && c.JudgeApiKey == "" {
		return fmt.Errorf("JUDGE_API_KEY is not set")
	}
	if needBackend && c.BackendBaseUrl == "" {
		return fmt.Errorf("BACKEND_BASE_URL is not set")
	}
	return nil
}
