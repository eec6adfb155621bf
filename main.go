package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prdconsole/database"
	_ "prdconsole/docs" // Swagger 문서
	"prdconsole/handlers"
	"prdconsole/logger"
	"prdconsole/middleware"
	"prdconsole/scheduler"
	"prdconsole/services"
	"prdconsole/utils"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Desktop Asset Console API
// @version 1.0
// @description 데스크톱 자산 키/스킨 매트릭스 관리 콘솔
// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT 토큰을 입력하세요. 형식: Bearer {token}

func main() {
	// 로거 초기화
	logConfig := logger.Config{
		Level:    logger.INFO, // 운영: INFO, 개발: DEBUG
		LogDir:   "./logs",
		MaxSize:  10 * 1024 * 1024, // 10MB
		MaxAge:   7,                // 7일
		UseColor: true,
		Prefix:   "",
	}

	if err := logger.Initialize(logConfig); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}

	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Info("🚀 Desktop Asset Console Starting")
	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	// 데이터베이스 초기화
	// DB_TYPE=mysql이면 DB_DSN 형식: "user:password@tcp(host:port)/dbname"
	dbType := utils.GetEnv("DB_TYPE", "sqlite")
	dbDSN := utils.GetEnv("DB_DSN", "./console.db")
	if err := database.Initialize(dbType, dbDSN); err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// 서비스 계층 초기화
	storageDir := utils.GetEnv("ASSET_STORAGE_DIR", "data/assets")
	hiddenKeys := utils.GetEnvList("HIDDEN_ASSET_KEYS")

	sqlExecutor := services.NewSQLExecutor(database.DB)
	assetService := services.NewAssetService(sqlExecutor, storageDir)
	brandingService := services.NewBrandingService(sqlExecutor)
	consoleState := services.NewConsoleState()

	handlers.Configure(assetService, brandingService, consoleState, hiddenKeys)

	// 스케줄러 시작 (고아 자산 파일 정리)
	scheduler.StartScheduler(storageDir)

	// 라우터 설정
	mux := http.NewServeMux()

	// 정적 파일 서빙 (웹 프론트엔드)
	fs := http.FileServer(http.Dir("./web"))
	mux.Handle("/web/", http.StripPrefix("/web/", fs))

	// Swagger 문서
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Public 엔드포인트
	mux.HandleFunc("/", homeHandler)
	mux.HandleFunc("/health", healthHandler)

	// 인증 API (관리자)
	mux.HandleFunc("/api/admin/login",
		middleware.ChainMiddleware(
			handlers.Login,
			middleware.LoggingMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/admin/me",
		middleware.ChainMiddleware(
			handlers.GetMe,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	// 스킨 관리 API (인증 필요)
	mux.HandleFunc("/api/admin/desktop/skins",
		middleware.ChainMiddleware(
			skinHandler,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	// 자산 매트릭스 API (인증 필요)
	mux.HandleFunc("/api/admin/desktop/assets/matrix",
		middleware.ChainMiddleware(
			handlers.GetAssetsMatrix,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/admin/desktop/assets/keys",
		middleware.ChainMiddleware(
			assetKeyHandler,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/admin/desktop/assets/keys/",
		middleware.ChainMiddleware(
			assetKeyDetailHandler,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/admin/desktop/assets/upload",
		middleware.ChainMiddleware(
			handlers.UploadAsset,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/admin/desktop/assets/singleton",
		middleware.ChainMiddleware(
			handlers.UploadSingletonAsset,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/admin/desktop/assets/broken",
		middleware.ChainMiddleware(
			handlers.MarkBrokenCell,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	// 브랜딩 API (인증 필요)
	mux.HandleFunc("/api/admin/desktop/branding",
		middleware.ChainMiddleware(
			brandingHandler,
			middleware.LoggingMiddleware,
			middleware.AuthMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	// 데스크톱 클라이언트 API (인증 불필요)
	mux.HandleFunc("/api/desktop/skins",
		middleware.ChainMiddleware(
			handlers.GetDesktopSkins,
			middleware.LoggingMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/desktop/branding",
		middleware.ChainMiddleware(
			handlers.GetDesktopBranding,
			middleware.LoggingMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/desktop/assets/",
		middleware.ChainMiddleware(
			handlers.DownloadAsset,
			middleware.LoggingMiddleware,
			middleware.CORSMiddleware,
		))

	// 서버 설정
	port := ":" + utils.GetEnv("PORT", "8080")
	server := &http.Server{
		Addr:         port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown 설정
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Warn("Received shutdown signal")
		database.Close()
		os.Exit(0)
	}()

	logger.Info("Server listening on http://localhost%s", port)
	logger.Info("Admin Panel: http://localhost%s/web/", port)
	logger.Info("Swagger UI: http://localhost%s/swagger/index.html", port)
	logger.Info("Asset storage: %s", storageDir)
	logger.Info("Database: %s - %s", dbType, dbDSN)
	logger.Info("Default admin - username: admin, password: admin123")
	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Server failed to start: %v", err)
	}
}

// homeHandler 루트 핸들러
func homeHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"success","message":"Desktop Asset Console","version":"1.0.0"}`))
}

// healthHandler 헬스체크 핸들러
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"success","message":"Server is healthy"}`))
}

// skinHandler 스킨 목록/생성 핸들러
func skinHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		handlers.GetSkins(w, r)
	case http.MethodPost:
		handlers.CreateSkin(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// assetKeyHandler 자산 키 생성 핸들러
func assetKeyHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		handlers.CreateAssetKey(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// assetKeyDetailHandler 자산 키 삭제 핸들러
func assetKeyDetailHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodDelete:
		handlers.DeleteAssetKey(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// brandingHandler 브랜딩 조회/수정 핸들러
func brandingHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		handlers.GetBranding(w, r)
	case http.MethodPut:
		handlers.UpdateBranding(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
