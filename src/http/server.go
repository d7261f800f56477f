// MIT License
//
// # Copyright (c) 2024 hypercube-core
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// go/src/http/server.go
package http

import (
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kasperdi/SPHINCSPLUS-golang/sphincs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hypercube-core/go/src/common"
	sign "github.com/hypercube-core/go/src/core/attest/sign/backend"
	"github.com/hypercube-core/go/src/core/hasher"
	"github.com/hypercube-core/go/src/core/types"
	"github.com/hypercube-core/go/src/core/verify"
	"github.com/hypercube-core/go/src/store"
)

// AttestSigner bundles the attestation manager with the server's receipt
// signing key pair.
type AttestSigner struct {
	Manager *sign.AttestManager
	SK      *sphincs.SPHINCS_SK
	PK      *sphincs.SPHINCS_PK
}

// Server handles HTTP verification requests.
type Server struct {
	cfg      Config
	router   *gin.Engine
	log      *zap.Logger
	cache    *store.OutcomeCache
	attester *AttestSigner
	metrics  *Metrics
}

// NewServer creates a new HTTP verification server. cache and attester may be
// nil, disabling outcome caching and receipt endpoints respectively.
func NewServer(cfg Config, logger *zap.Logger, cache *store.OutcomeCache, attester *AttestSigner) *Server {
	r := gin.Default()
	s := &Server{
		cfg:      cfg,
		router:   r,
		log:      logger,
		cache:    cache,
		attester: attester,
		metrics:  NewMetrics(),
	}
	if err := s.metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Warn("metrics registration failed", zap.Error(err))
	}
	s.setupRoutes()
	return s
}

// setupRoutes defines HTTP endpoints.
func (s *Server) setupRoutes() {
	s.router.POST("/verify", s.handleVerify)
	s.router.GET("/receipt/:commitment", s.handleGetReceipt)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// handleVerify decodes and verifies a batch, serving a cached outcome when
// the same batch bytes were verified recently. The cache key hashes the full
// encoding, not just the statement: two batches can share a statement while
// carrying different signatures, and their outcomes differ.
func (s *Server) handleVerify(c *gin.Context) {
	start := time.Now()
	s.metrics.RequestCount.WithLabelValues("verify").Inc()
	defer func() {
		s.metrics.RequestLatency.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	}()

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.metrics.ErrorCount.WithLabelValues("verify").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Nonce != "" {
		if err := common.ValidateNonceFormat(req.Nonce); err != nil {
			s.metrics.ErrorCount.WithLabelValues("verify").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	raw, err := common.Hex2Bytes(req.Batch)
	if err != nil {
		s.metrics.ErrorCount.WithLabelValues("verify").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "batch is not valid hex"})
		return
	}

	batch, err := types.DecodeBatch(raw)
	if err != nil {
		s.metrics.ErrorCount.WithLabelValues("verify").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	commitment := batch.Statement.Commitment()
	cacheKey := hasher.Sum256(raw)
	if s.cache != nil {
		if outcome, ok := s.cache.Get(cacheKey); ok {
			s.metrics.CacheHits.Inc()
			c.JSON(http.StatusOK, s.response(outcome, true, req.Nonce))
			return
		}
	}

	outcome, err := verify.VerifyBatchParallel(c.Request.Context(), batch, s.cfg.Workers)
	if err != nil {
		s.metrics.ErrorCount.WithLabelValues("verify").Inc()
		s.log.Info("batch rejected",
			zap.String("commitment", common.FormatHash(commitment[:])),
			zap.String("nonce", req.Nonce),
			zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	s.metrics.SignaturesVerified.Add(float64(batch.Statement.K))

	if s.cache != nil {
		s.cache.Put(cacheKey, outcome, s.cfg.CacheTTLSeconds)
	}

	if req.Attest && s.attester != nil {
		if _, err := s.attester.Manager.AttestOutcome(outcome, s.attester.SK, s.attester.PK); err != nil {
			s.log.Warn("attestation failed",
				zap.String("commitment", common.FormatHash(commitment[:])),
				zap.Error(err))
		}
	}

	s.log.Info("batch verified",
		zap.String("commitment", common.FormatHash(outcome.Commitment[:])),
		zap.String("nonce", req.Nonce),
		zap.Bool("all_valid", outcome.AllValid),
		zap.Uint32("verified_count", outcome.VerifiedCount))
	c.JSON(http.StatusOK, s.response(outcome, false, req.Nonce))
}

// handleGetReceipt retrieves a stored attestation receipt by commitment.
func (s *Server) handleGetReceipt(c *gin.Context) {
	s.metrics.RequestCount.WithLabelValues("receipt").Inc()
	if s.attester == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "attestation not configured"})
		return
	}

	commitment, err := hex.DecodeString(c.Param("commitment"))
	if err != nil || len(commitment) != 32 {
		s.metrics.ErrorCount.WithLabelValues("receipt").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid commitment"})
		return
	}

	receipt, err := s.attester.Manager.LoadReceipt(commitment)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "receipt not found"})
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) response(outcome *types.Outcome, cached bool, nonce string) VerifyResponse {
	return VerifyResponse{
		AllValid:      outcome.AllValid,
		VerifiedCount: outcome.VerifiedCount,
		Commitment:    hex.EncodeToString(outcome.Commitment[:]),
		PublicWords:   outcome.PublicWords(),
		Cached:        cached,
		Nonce:         nonce,
	}
}

// Start runs the HTTP server, with the Prometheus endpoint also exposed on
// its own listener when MetricsAddress is set.
func (s *Server) Start() error {
	if s.cfg.MetricsAddress != "" {
		go func() {
			r := gin.Default()
			r.GET("/metrics", gin.WrapH(promhttp.Handler()))
			if err := r.Run(s.cfg.MetricsAddress); err != nil {
				s.log.Error("metrics server failed", zap.Error(err))
			}
		}()
	}
	return s.router.Run(s.cfg.Address)
}
