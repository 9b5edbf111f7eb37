package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/loanx-agent/server/internal/agent/graph/tools"
	"github.com/loanx-agent/server/internal/agent/model"
	"github.com/loanx-agent/server/internal/agent/repo"
	"github.com/loanx-agent/server/internal/quote"
	"github.com/loanx-agent/server/internal/rates"
	logx "github.com/loanx-agent/server/pkg/logger"
	pkgredis "github.com/loanx-agent/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the quote engine,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

	// Rate source
	Rates rates.Config

	// Quote cache
	QuoteTTL string `envconfig:"QUOTE_TTL" default:"1h"`
}

func main() {
	fmt.Println("Testing mortgage quote tool...")
	ctx := context.Background()
	logx.Init()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	// Quote cache is optional; skip it when no Redis URL is configured.
	var quoteCache model.QuoteRepository
	if envCfg.Redis.Enabled() {
		rdb, err := envCfg.Redis.New()
		if err != nil {
			log.Fatalf("Failed to initialise Redis client: %v", err)
		}
		defer rdb.Close()

		ttl, err := time.ParseDuration(envCfg.QuoteTTL)
		if err != nil {
			log.Fatalf("Invalid QUOTE_TTL '%s': %v", envCfg.QuoteTTL, err)
		}

		quoteCache = repo.NewRedisQuoteRepository(rdb, ttl)
		fmt.Println("Connected to Redis successfully")
	}

	calc := quote.NewCalculator(quote.DefaultTables(), rates.New(envCfg.Rates))

	businessTools := tools.GetQueryTools(calc, quoteCache)
	getRate, ok := businessTools[0].(tool.InvokableTool)
	if !ok {
		log.Fatalf("get_rate tool is not invokable")
	}

	testQueries := []struct {
		description string
		args        string
	}{
		{
			description: "Standard conventional purchase",
			args:        `{"home_price": "500k", "down_payment": "20%", "annual_interest_rate": 7.0}`,
		},
		{
			description: "FHA with minimum down",
			args:        `{"home_price": "$400,000", "down_payment": "3.5%", "loan_type": "fha"}`,
		},
		{
			description: "VA with no down payment",
			args:        `{"home_price": "650000", "down_payment": "0", "loan_type": "va"}`,
		},
		{
			description: "Piggyback second lien to avoid PMI",
			args:        `{"home_price": "750k", "down_payment": "10%", "second_lien_amount": "10%"}`,
		},
		{
			description: "Unparsable amount",
			args:        `{"home_price": "a nice house"}`,
		},
	}

	for i, test := range testQueries {
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("Args: %s\n", test.args)

		out, err := getRate.InvokableRun(ctx, test.args)
		if err != nil {
			log.Fatalf("Failed to invoke tool for test %d: %v", i+1, err)
		}

		fmt.Printf("Result %d:\n%s\n", i+1, out)
		fmt.Println("────────────────────────────────────────────────")
	}

	fmt.Println("All quote tests completed!")
}
