package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/potent-zedlee/templar-archives/internal/analyzer"
	"github.com/potent-zedlee/templar-archives/internal/hand"
	"github.com/potent-zedlee/templar-archives/internal/observability"
	"github.com/potent-zedlee/templar-archives/internal/pipeline"
)

const serviceLabel = "HAE Analysis API"

type analyzeRequest struct {
	YoutubeURL string                  `json:"youtubeUrl"`
	Segments   []pipeline.SegmentInput `json:"segments"`
	Platform   string                  `json:"platform"`
}

type analyzeResponse struct {
	Success bool              `json:"success"`
	Results []analyzer.Result `json:"results"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": serviceLabel,
		"version": observability.Version,
	})
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.YoutubeURL == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "youtubeUrl is required"})
		return
	}
	if len(req.Segments) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "segments is required"})
		return
	}

	results := s.pipeline.Analyze(c.Request.Context(), pipeline.AnalyzeOptions{
		SourceURL: req.YoutubeURL,
		Segments:  req.Segments,
		Platform:  analyzer.ParsePlatform(req.Platform),
	})

	c.JSON(http.StatusOK, analyzeResponse{Success: true, Results: results})
}

func (s *Server) summary(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if !json.Valid(raw) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body: malformed JSON"})
		return
	}

	// a hand shape the model invented is a failed summary, not a bad request
	h, err := hand.Parse(raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("hand record not understood")
		c.JSON(http.StatusOK, gin.H{"summary": analyzer.MsgSummaryFailed})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": s.analyzer.Summarize(c.Request.Context(), h)})
}
