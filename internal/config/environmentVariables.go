package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	NoAuthBypass = true
	AuthToken    = ""

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 15 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//one analysis can need several model calls, give it room
	AnalysisJobTimeout = 5 * time.Minute

	//uploads
	MaxUploadSize   = 32 << 20 //32mb
	UploadDirectory = "temporary_data"

	//llm
	AnalysisProvider            = "openai" //"openai" or "gemini"
	OpenAIAnalysisModel         = "gpt-4o-mini"
	OpenAIVisionModel           = "gpt-4o"
	GeminiAnalysisModel         = "gemini-2.5-flash-lite-preview-09-2025"
	ModelTemperature    float64 = 0.3
	AnalysisMaxTokens   int64   = 2000
	VisionMaxTokens     int64   = 4000

	//token budget: prompt side of the context window, completion side is reserved separately
	TokenizerModel    = "gpt-4o-mini"
	PromptTokenBudget = 12000

	PromptFileName = "prompt.txt"

	//external binaries for OCR / rasterization / table detection
	TesseractBinary     = "tesseract"
	TesseractLanguage   = "por"
	PdfToPpmBinary      = "pdftoppm"
	VisionRenderDPI     = 150
	TableDetectorBinary = "tabular-detect"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore    = 0
	RedisReportStore = 1
	RedisCreditStore = 2

	//redis timeouts
	RedisJobStoreTTL    = 24 * time.Hour
	RedisReportStoreTTL = 30 * 24 * time.Hour
)
