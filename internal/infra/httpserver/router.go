package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apppred "github.com/bryanwahyu/cancer-predict/internal/application/predictions"
	domain "github.com/bryanwahyu/cancer-predict/internal/domain/predictions"
	"github.com/bryanwahyu/cancer-predict/internal/middleware"
	"github.com/bryanwahyu/cancer-predict/internal/zlog"
)

const (
	welcomeText = "Welcome to the Cancer Prediction Server"

	msgPredicted       = "Model is predicted successfully"
	msgPredictFailed   = "Terjadi kesalahan dalam melakukan prediksi"
	msgHistoryFailed   = "Terjadi kesalahan dalam mengambil riwayat prediksi"
	msgPayloadTooLarge = "Payload content length greater than maximum allowed: 1000000"

	// ruang untuk boundary dan header multipart di atas batas file
	multipartOverhead = 64 << 10
)

// Options carries the health checkers exposed under /health.
type Options struct {
	Health map[string]middleware.HealthChecker // GET /health
	Ready  map[string]middleware.HealthChecker // GET /health/ready
}

type Router struct {
	predictSvc *apppred.Service
}

func NewRouter(predictSvc *apppred.Service, opts Options) http.Handler {
	r := &Router{predictSvc: predictSvc}
	mux := chi.NewRouter()

	mux.Use(chimw.Recoverer)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	mux.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(welcomeText))
	})

	mux.Get("/health", middleware.HealthHandler(opts.Health))
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/health/ready", middleware.ReadinessHandler(opts.Ready))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Post("/predict", r.wrap(msgPredictFailed, r.handlePredict))
	mux.Get("/predict/histories", r.wrap(msgHistoryFailed, r.handleHistories))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// wrap maps domain errors to status codes; failMsg is what the client sees.
func (r *Router) wrap(failMsg string, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		status := http.StatusInternalServerError
		msg := failMsg
		switch {
		case errors.Is(err, domain.ErrOversizeUpload):
			status, msg = http.StatusRequestEntityTooLarge, msgPayloadTooLarge
		case errors.Is(err, domain.ErrMissingUpload), errors.Is(err, domain.ErrPreprocessing):
			status = http.StatusBadRequest
		}
		if status == http.StatusInternalServerError {
			zlog.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
		}
		writeJSON(w, status, envelope{Status: "fail", Message: msg})
	}
}

// POST /predict (multipart, field "image")
func (r *Router) handlePredict(w http.ResponseWriter, req *http.Request) error {
	upload, err := readUpload(w, req)
	if err != nil {
		middleware.RecordPredictionFailure()
		return err
	}

	rec, err := r.predictSvc.Predict(req.Context(), upload)
	if err != nil {
		middleware.RecordPredictionFailure()
		return err
	}
	middleware.RecordPrediction(rec.Result == domain.LabelCancer)

	writeJSON(w, http.StatusCreated, envelope{
		Status:  "success",
		Message: msgPredicted,
		Data:    rec,
	})
	return nil
}

// GET /predict/histories
func (r *Router) handleHistories(w http.ResponseWriter, req *http.Request) error {
	list, err := r.predictSvc.Histories(req.Context())
	if err != nil {
		return err
	}
	// data selalu dikirim, walaupun kosong
	writeJSON(w, http.StatusOK, struct {
		Status string                     `json:"status"`
		Data   []*domain.PredictionRecord `json:"data"`
	}{Status: "success", Data: list})
	return nil
}

// readUpload pulls the "image" part out of the request, enforcing the size cap.
func readUpload(w http.ResponseWriter, req *http.Request) (*domain.RawUpload, error) {
	req.Body = http.MaxBytesReader(w, req.Body, domain.MaxUploadBytes+multipartOverhead)

	if err := req.ParseMultipartForm(domain.MaxUploadBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.ErrOversizeUpload
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrMissingUpload, err)
	}
	defer req.MultipartForm.RemoveAll()

	f, header, err := req.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMissingUpload, err)
	}
	defer f.Close()

	if header.Size > domain.MaxUploadBytes {
		return nil, domain.ErrOversizeUpload
	}
	data, err := io.ReadAll(io.LimitReader(f, domain.MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}

	return &domain.RawUpload{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    middleware.SanitizeFilename(header.Filename),
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Warn("write response failed", zap.Error(err))
	}
}
