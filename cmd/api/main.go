// @title           FinDoc Analysis API
// @version         1.0
// @description     This API handles asynchronous financial document analysis
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/johanvictor/FinDocAPI/internal/analysis"
	"github.com/johanvictor/FinDocAPI/internal/analysis/assemble"
	"github.com/johanvictor/FinDocAPI/internal/analysis/extract"
	"github.com/johanvictor/FinDocAPI/internal/analysis/llm"
	"github.com/johanvictor/FinDocAPI/internal/analysis/llm/gemini"
	"github.com/johanvictor/FinDocAPI/internal/analysis/llm/openai"
	"github.com/johanvictor/FinDocAPI/internal/analysis/scr"
	"github.com/johanvictor/FinDocAPI/internal/config"
	"github.com/johanvictor/FinDocAPI/internal/data/redisStore"
	"github.com/johanvictor/FinDocAPI/internal/data/store"
	jobmodel "github.com/johanvictor/FinDocAPI/internal/domain/jobModel"
	"github.com/johanvictor/FinDocAPI/internal/handlers"
	"github.com/johanvictor/FinDocAPI/internal/job"
	"github.com/johanvictor/FinDocAPI/internal/server"
	"github.com/johanvictor/FinDocAPI/internal/worker"
	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init stores - one redis probe decides redis vs in-memory for all three
	var jobStore jobmodel.JobStore
	var reportStore jobmodel.ReportStore
	var creditStore jobmodel.CreditStore
	if redisStore.GetRedisStore(serviceContext, config.RedisJobStore) != nil {
		jobStore = store.GetRedisJobStore(serviceContext)
		reportStore = store.GetRedisReportStore(serviceContext)
		creditStore = store.GetRedisCreditStore(serviceContext)
	} else {
		logger.Error("Redis stores are offline")
		jobStore = store.InitInMemoryJobStore()
		reportStore = store.InitInMemoryReportStore()
		creditStore = store.InitInMemoryCreditStore()
	}

	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
	}
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	//llm providers - openai always backs the vision collaborator
	openAIClient := openai.GetOpenAIClient(serviceContext)
	if openAIClient == nil {
		logger.Error("OpenAI client failed to initialize. Shutting down.")
		return
	}

	var llmProvider llm.Provider = openAIClient
	if config.AnalysisProvider == "gemini" {
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiAnalysisModel)
	}
	if llmProvider == nil {
		logger.Error("Analysis provider failed to initialize. Shutting down.")
		logger.Debug("Configured provider : ", "provider", config.AnalysisProvider)
		return
	}

	//extraction pipeline
	runner := extract.ExecRunner{}
	textExtractor := extract.NewService(runner, openAIClient)
	scrProcessor := scr.NewProcessor(runner, textExtractor)

	tokenizer, err := assemble.NewModelTokenizer()
	if err != nil {
		logger.Error("Tokenizer failed to initialize. Shutting down.", "error", err)
		return
	}
	assembler := assemble.NewAssembler(tokenizer, config.PromptTokenBudget)

	analysisService := analysis.NewService(
		textExtractor,
		scrProcessor,
		llmProvider,
		assembler,
		reportStore,
		creditStore,
		llm.LoadSystemPrompt(),
	)

	handlers.InitJobHandler(service)

	//init worker pool
	worker.InitServices(service, analysisService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
