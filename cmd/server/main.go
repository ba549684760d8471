// Package main provides a local HTTP server for development and testing.
// It serves the questionnaire API used by the frontend: single
// recommendations, CSV batch uploads, stored results and notifications.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"mountain-recommendation-engine/internal/config"
	"mountain-recommendation-engine/internal/handlers"
	"mountain-recommendation-engine/internal/metrics"
	"mountain-recommendation-engine/internal/models"
	"mountain-recommendation-engine/internal/services/database"
	"mountain-recommendation-engine/internal/services/resolver"
	s3service "mountain-recommendation-engine/internal/services/s3"
	"mountain-recommendation-engine/internal/services/ses"
	"mountain-recommendation-engine/internal/utils"
	"mountain-recommendation-engine/internal/validation"
)

const maxUploadBytes = 10 << 20

// submissionRepo is the storage the server needs on top of the Lambda handlers.
type submissionRepo interface {
	handlers.SubmissionStore
	ListByBatch(ctx context.Context, batchID string, limit int) ([]*models.Submission, error)
	Summary(ctx context.Context, batchID string) (*models.BatchSummary, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// uploadStore keeps a copy of every CSV upload. *s3service.Service satisfies it.
type uploadStore interface {
	UploadFile(ctx context.Context, key string, data []byte, contentType string) error
}

// Server holds all dependencies
type Server struct {
	repo        submissionRepo
	mailer      handlers.Mailer
	uploads     uploadStore
	health      *handlers.HealthHandler
	recommender *handlers.Recommender
	config      *config.Config
	logger      *zap.Logger
}

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewServer wires a server. repo and mailer may be nil.
func NewServer(cfg *config.Config, repo submissionRepo, pinger handlers.Pinger, mailer handlers.Mailer) *Server {
	s := &Server{
		repo:   repo,
		mailer: mailer,
		health: handlers.NewHealthHandlerWith(pinger, cfg.ServiceVersion, cfg.Stage),
		config: cfg,
		logger: utils.GetLogger(),
	}

	s.recommender = &handlers.Recommender{DashboardURL: cfg.DashboardURL}
	if repo != nil {
		s.recommender.Store = repo
	}
	if mailer != nil && cfg.NotifyOnRecommend {
		s.recommender.Mailer = mailer
	}

	return s
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer utils.Sync()
	logger := utils.GetLogger()

	var (
		repo   submissionRepo
		pinger handlers.Pinger
		mailer handlers.Mailer
	)

	if cfg.DatabaseConfigured() {
		db, err := database.New(cfg)
		if err != nil {
			logger.Warn("Could not connect to database, running without storage", zap.Error(err))
		} else {
			defer db.Close()
			if err := db.EnsureSchema(context.Background()); err != nil {
				logger.Warn("Could not apply schema", zap.Error(err))
			}
			repo = database.NewSubmissionRepository(db)
			pinger = db
		}
	}

	if cfg.SESSenderEmail != "" {
		svc, err := ses.NewService(context.Background(), cfg)
		if err != nil {
			logger.Warn("Could not initialize SES, notifications disabled", zap.Error(err))
		} else {
			mailer = svc
		}
	}

	server := NewServer(cfg, repo, pinger, mailer)

	if cfg.UploadBucketConfigured() {
		svc, err := s3service.NewService(context.Background(), cfg)
		if err != nil {
			logger.Warn("Could not initialize S3, uploads will not be kept", zap.Error(err))
		} else {
			server.uploads = svc
		}
	}

	addr := "0.0.0.0:" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Mountain Recommendation Engine API Server",
			zap.String("addr", addr),
			zap.Bool("database", repo != nil),
			zap.Bool("email", mailer != nil),
			zap.Bool("uploadBucket", server.uploads != nil))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// Routes returns the HTTP handler with every API route, CORS and request metrics.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/api/health", s.healthHandler)
	mux.HandleFunc("/api/recommend", s.recommendHandler)
	mux.HandleFunc("/api/destinations", s.destinationsHandler)
	mux.HandleFunc("/api/upload", s.uploadHandler)
	mux.HandleFunc("/api/submissions", s.submissionsHandler)
	mux.HandleFunc("/api/stats", s.statsHandler)
	mux.HandleFunc("/api/notify", s.notifyHandler)
	mux.HandleFunc("/api/clear-data", s.clearDataHandler)
	mux.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(instrument(mux))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument counts requests by registered route pattern.
func instrument(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		mux.ServeHTTP(rec, r)

		_, pattern := mux.Handler(r)
		if pattern == "" || pattern == "/metrics" {
			return
		}
		metrics.RecordRequest(pattern, rec.status)
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := s.health.Check(r.Context())

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Mountain Recommendation Engine API is running",
		Data:    health,
	})
}

func (s *Server) recommendHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Failed to read request body"})
		return
	}

	req, err := handlers.ParseRecommendRequest(body)
	if err != nil {
		resp := Response{Success: false, Error: "Invalid questionnaire"}
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			resp.Data = verr.Errors
		} else {
			resp.Message = err.Error()
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	result, err := s.recommender.Recommend(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrInvalidEmail) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, Response{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// DestinationInfo describes one rule of the resolver and its destination.
type DestinationInfo struct {
	Rule            int    `json:"rule"`
	RuleName        string `json:"rule_name"`
	DestinationName string `json:"destination_name"`
	Rationale       string `json:"rationale"`
}

func (s *Server) destinationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rules := resolver.Rules()
	out := make([]DestinationInfo, len(rules))
	for i, rule := range rules {
		out[i] = DestinationInfo{
			Rule:            rule.Number,
			RuleName:        rule.Name,
			DestinationName: rule.Recommendation.DestinationName,
			Rationale:       rule.Recommendation.Rationale,
		}
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: out})
}

func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	var (
		content  []byte
		filename string
		err      error
	)

	switch r.Method {
	case http.MethodPost:
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Failed to parse form: " + err.Error()})
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "No file provided"})
			return
		}
		defer file.Close()

		filename = header.Filename
		content, err = io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to read file"})
			return
		}
	case http.MethodPut:
		// Raw body, as a presigned S3 PUT would send it.
		filename = r.URL.Query().Get("filename")
		if filename == "" {
			filename = "upload.csv"
		}
		content, err = io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to read body"})
			return
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Only CSV files are allowed"})
		return
	}

	s.logger.Info("Processing CSV upload",
		zap.String("filename", filename),
		zap.Int("bytes", len(content)))

	report, err := utils.ValidateCSVStructure(string(content))
	if err != nil || !report.Valid {
		resp := Response{Success: false, Error: "Invalid questionnaire CSV", Data: report}
		if err != nil {
			resp.Message = err.Error()
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	sourceKey := s.keepUpload(r.Context(), filename, content)

	var store handlers.SubmissionStore
	if s.repo != nil {
		store = s.repo
	}

	result, err := handlers.ImportCSV(r.Context(), store, string(content), handlers.GenerateBatchID(filename))
	if err != nil {
		s.logger.Error("CSV import failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}
	result.SourceKey = sourceKey

	writeJSON(w, http.StatusOK, Response{
		Success: result.Parsed > 0,
		Message: result.Message,
		Data:    result,
	})
}

// keepUpload stores the raw upload when a bucket is configured and returns its
// key. Failures are logged; the import goes ahead without a copy.
func (s *Server) keepUpload(ctx context.Context, filename string, content []byte) string {
	if s.uploads == nil {
		return ""
	}

	key, err := s3service.UploadKey(filename, time.Now())
	if err == nil {
		err = s.uploads.UploadFile(ctx, key, content, "text/csv")
	}
	if err != nil {
		s.logger.Warn("Could not keep upload", zap.String("filename", filename), zap.Error(err))
		return ""
	}
	return key
}

func (s *Server) submissionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.repo == nil {
		writeJSON(w, http.StatusOK, Response{Success: true, Data: []models.Submission{}})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	submissions, err := s.repo.ListByBatch(r.Context(), r.URL.Query().Get("batch_id"), limit)
	if err != nil {
		s.logger.Error("Failed to list submissions", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to fetch submissions"})
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: submissions})
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	batchID := r.URL.Query().Get("batch_id")
	if s.repo == nil {
		writeJSON(w, http.StatusOK, Response{
			Success: true,
			Data:    &models.BatchSummary{BatchID: batchID, ByDestination: []models.DestinationCount{}},
		})
		return
	}

	start := time.Now()
	summary, err := s.repo.Summary(r.Context(), batchID)
	if err != nil {
		s.logger.Error("Failed to summarize submissions", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to fetch stats"})
		return
	}
	summary.ProcessingSeconds = time.Since(start).Seconds()

	writeJSON(w, http.StatusOK, Response{Success: true, Data: summary})
}

func (s *Server) notifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req handlers.NotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BatchID == "" {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Missing required field: batch_id"})
		return
	}

	if s.repo == nil || s.mailer == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "Notifications need both a database and SES_SENDER_EMAIL",
		})
		return
	}

	notifier := &handlers.Notifier{Store: s.repo, Mailer: s.mailer, DashboardURL: s.config.DashboardURL}
	result, err := notifier.NotifyBatch(r.Context(), req.BatchID)
	if err != nil {
		s.logger.Error("Failed to notify batch", zap.String("batchID", req.BatchID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: result.Failed == 0,
		Message: result.Message,
		Data:    result,
	})
}

func (s *Server) clearDataHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Database not available"})
		return
	}

	deleted, err := s.repo.DeleteAll(r.Context())
	if err != nil {
		s.logger.Error("Failed to clear submissions", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to clear submissions: " + err.Error()})
		return
	}

	s.logger.Info("All submissions cleared", zap.Int64("deleted", deleted))

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "All data cleared successfully",
		Data:    map[string]int64{"deleted": deleted},
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
