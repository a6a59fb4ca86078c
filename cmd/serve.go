package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/passivepilot/leadgen-cli/internal/model"
	"github.com/passivepilot/leadgen-cli/internal/scoring"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lead pipeline HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/providers/status", func(w http.ResponseWriter, req *http.Request) {
			type status struct {
				Name       string   `json:"name"`
				Configured bool     `json:"configured"`
				Missing    []string `json:"missing"`
			}
			var out []status
			for _, p := range env.Registry.All() {
				ok, missing := p.Configured()
				if missing == nil {
					missing = []string{}
				}
				out = append(out, status{Name: p.Name(), Configured: ok, Missing: missing})
			}
			writeJSON(w, http.StatusOK, out)
		})

		r.Post("/campaigns/{campaignID}/populate", func(w http.ResponseWriter, req *http.Request) {
			campaignID, err := strconv.ParseInt(chi.URLParam(req, "campaignID"), 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid campaign id")
				return
			}
			var body struct {
				Provider string `json:"provider"`
				Zipcode  string `json:"zipcode"`
				Limit    int    `json:"limit"`
				Filters  string `json:"filters"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if body.Provider == "" {
				writeError(w, http.StatusBadRequest, "provider is required")
				return
			}
			limit := body.Limit
			if limit == 0 {
				limit = cfg.Populate.DefaultLimit
			}

			created, err := runPopulate(req.Context(), env, campaignID, body.Provider, body.Zipcode, limit, body.Filters)
			if err != nil {
				zap.L().Error("populate request failed",
					zap.Int64("campaign_id", campaignID),
					zap.String("provider", body.Provider),
					zap.Error(err),
				)
				writeError(w, http.StatusInternalServerError, "populate failed")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"created_leads": created,
				"provider":      body.Provider,
			})
		})

		r.Post("/deals/analyze", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Lead              model.ProviderLead `json:"lead"`
				AskingPrice       *float64           `json:"asking_price"`
				ConditionOverride string             `json:"condition_override"`
				AssignmentFee     *float64           `json:"assignment_fee"`
				ClosingCosts      *float64           `json:"closing_costs"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}

			analysis, err := env.Scoring.Analyze(&body.Lead, scoring.AnalyzeOptions{
				AskingPrice:       body.AskingPrice,
				ConditionOverride: body.ConditionOverride,
				MAO: scoring.MAOOptions{
					AssignmentFee: body.AssignmentFee,
					ClosingCosts:  body.ClosingCosts,
				},
			})
			if err != nil {
				if eris.Is(err, scoring.ErrInsufficientData) {
					writeError(w, http.StatusUnprocessableEntity, "insufficient data: no value anchor (estimated, assessed, or last sale)")
					return
				}
				writeError(w, http.StatusInternalServerError, "analysis failed")
				return
			}
			writeJSON(w, http.StatusOK, analysis)
		})

		r.Get("/campaigns/{campaignID}/summary", func(w http.ResponseWriter, req *http.Request) {
			campaignID, err := strconv.ParseInt(chi.URLParam(req, "campaignID"), 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid campaign id")
				return
			}
			summary, err := env.Analyzer.CampaignSummary(req.Context(), campaignID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "summary failed")
				return
			}
			writeJSON(w, http.StatusOK, summary)
		})

		r.Get("/campaigns/{campaignID}/zip-breakdown", func(w http.ResponseWriter, req *http.Request) {
			campaignID, err := strconv.ParseInt(chi.URLParam(req, "campaignID"), 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid campaign id")
				return
			}
			breakdown, err := env.Analyzer.CampaignZipBreakdown(req.Context(), campaignID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "breakdown failed")
				return
			}
			writeJSON(w, http.StatusOK, breakdown)
		})

		r.Get("/geocode", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query().Get("q")
			if q == "" {
				writeError(w, http.StatusBadRequest, "q is required")
				return
			}
			res, err := env.Geocoder.Lookup(req.Context(), q)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "geocode failed")
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
