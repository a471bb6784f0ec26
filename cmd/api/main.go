package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/dripstore/fulfillment/internal/awsx"
	"github.com/dripstore/fulfillment/internal/catalog"
	"github.com/dripstore/fulfillment/internal/fulfillment"
	"github.com/dripstore/fulfillment/internal/handlers"
	"github.com/dripstore/fulfillment/internal/supplier"
	"github.com/dripstore/fulfillment/internal/token"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterFulfillmentRoutes(r, cfg)

	return r
}

func main() {
	ctx := context.Background()

	clients, err := awsx.NewAWSClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	client := supplier.NewClient(supplier.Config{
		BaseURL: os.Getenv("SUPPLIER_BASE_URL"),
		APIKey:  os.Getenv("SUPPLIER_API_KEY"),
	})

	// Token cache: DynamoDB when a table is configured (shared across
	// instances), otherwise a local file.
	var store token.Store
	if table := os.Getenv("TOKEN_TABLE"); table != "" {
		store = token.NewDynamoStore(clients.DynamoDB, table)
	} else {
		path := os.Getenv("TOKEN_CACHE_FILE")
		if path == "" {
			path = ".supplier-token-cache.json"
		}
		store = token.NewFileStore(path)
	}
	client.SetTokenSource(token.NewManager(store, client))

	builderCfg := fulfillment.DefaultBuilderConfig()
	if remark := os.Getenv("STORE_REMARK"); remark != "" {
		builderCfg.StoreRemark = remark
	}
	if cc := os.Getenv("DEFAULT_COUNTRY_CODE"); cc != "" {
		builderCfg.DefaultCountryCode = cc
	}

	orch := fulfillment.NewOrchestrator(
		catalog.NewResolver(catalog.DefaultMappings()),
		fulfillment.NewBuilder(builderCfg),
		client,
	)
	if queueURL := os.Getenv("MANUAL_QUEUE_URL"); queueURL != "" {
		orch.WithFailureQueue(awsx.NewPublisher(clients.SQS, queueURL))
	}
	if ns := os.Getenv("METRICS_NAMESPACE"); ns != "" {
		orch.WithMetrics(awsx.NewMetrics(clients.CloudWatch, ns))
	}

	r := setupRouter(handlers.HandlerConfig{
		Orchestrator: orch,
		Supplier:     client,
	})

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
