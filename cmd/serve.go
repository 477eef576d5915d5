package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/sds-assess/internal/document"
	"github.com/sells-group/sds-assess/internal/metrics"
	"github.com/sells-group/sds-assess/internal/model"
	"github.com/sells-group/sds-assess/internal/pipeline"
	"github.com/sells-group/sds-assess/internal/store"
)

// maxUploadBytes caps POST /documents bodies.
const maxUploadBytes = 32 << 20

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assessment HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(&server{assess: env.Pipeline.Run, store: env.Store, outputDir: cfg.Output.Dir}, cfg.Server.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), 30*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// server holds the dependencies of the HTTP handlers.
type server struct {
	assess    assessFunc
	store     store.Store // nil when the ledger is disabled
	outputDir string
}

func newRouter(s *server, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Post("/documents", s.handleDocument)
	r.Get("/artifacts/{name}", s.handleArtifact)
	r.Get("/runs", s.handleRuns)
	return r
}

type documentResponse struct {
	assessmentSummary
	Artifact string `json:"artifact"`
}

// handleDocument accepts a multipart "file" field or a raw body with an
// id query parameter and runs the pipeline before responding.
func (s *server) handleDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	id, data, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	doc, err := document.Parse(id, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.assess(r.Context(), doc)
	if err != nil {
		zap.L().Error("serve: assessment failed", zap.String("document", doc.ID), zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrBaseline) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, documentResponse{
		assessmentSummary: summarize(result),
		Artifact:          "/artifacts/" + url.PathEscape(filepath.Base(result.ArtifactPath)),
	})
}

func readUpload(r *http.Request) (string, []byte, error) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return "", nil, eris.Wrap(err, "serve: read file field")
		}
		defer f.Close() //nolint:errcheck
		if id == "" {
			id = filepath.Base(hdr.Filename)
		}
		data, err := io.ReadAll(f)
		if err != nil {
			return "", nil, eris.Wrap(err, "serve: read upload")
		}
		return id, data, nil
	}

	if id == "" {
		return "", nil, eris.New("serve: id query parameter is required")
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, eris.Wrap(err, "serve: read body")
	}
	if len(data) == 0 {
		return "", nil, eris.New("serve: empty body")
	}
	return id, data, nil
}

func (s *server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" || filepath.Base(name) != name || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		writeError(w, http.StatusBadRequest, eris.Errorf("serve: invalid artifact name %q", name))
		return
	}

	path := filepath.Join(s.outputDir, name)
	f, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusNotFound, eris.Errorf("serve: artifact %q not found", name))
		return
	}
	defer f.Close() //nolint:errcheck

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, eris.Wrap(err, "serve: stat artifact"))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (s *server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, eris.New("serve: run ledger disabled"))
		return
	}

	q := r.URL.Query()
	filter := store.RunFilter{
		Status:     model.RunStatus(q.Get("status")),
		DocumentID: q.Get("document_id"),
	}
	for key, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, eris.Errorf("serve: invalid %s %q", key, raw))
			return
		}
		*dst = n
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
