package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bridgeskills/bridgeskills/internal/extraction"
	"github.com/bridgeskills/bridgeskills/internal/jobboard"
	"github.com/bridgeskills/bridgeskills/internal/logger"
	"github.com/bridgeskills/bridgeskills/internal/profile"
	"github.com/bridgeskills/bridgeskills/internal/recommend"
	"github.com/bridgeskills/bridgeskills/internal/savedmatch"
	"github.com/bridgeskills/bridgeskills/internal/storage"
	"github.com/bridgeskills/bridgeskills/internal/vocabulary"
)

const resumeField = "resume"

type errorBody struct {
	Error  string               `json:"error"`
	Fields []profile.FieldError `json:"fields,omitempty"`
}

type documentMetadata struct {
	Pages    int    `json:"pages,omitempty"`
	MIME     string `json:"mime"`
	FilePath string `json:"filePath,omitempty"`
}

type documentData struct {
	Text     string           `json:"text"`
	Metadata documentMetadata `json:"metadata"`
}

type uploadResponse struct {
	Success bool         `json:"success"`
	Data    documentData `json:"data"`
}

type processRequest struct {
	FilePath string `json:"filePath" binding:"required"`
}

type processResponse struct {
	Success bool                  `json:"success"`
	Data    profile.ExtractedData `json:"data"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) vocabulary(c *gin.Context) {
	c.JSON(http.StatusOK, vocabulary.All())
}

func (s *Server) careerMapping(c *gin.Context) {
	s.mapping(c, s.deps.Recommender.Recommend)
}

func (s *Server) demoMapping(c *gin.Context) {
	s.mapping(c, s.deps.Recommender.Demo)
}

func (s *Server) mapping(c *gin.Context, run func(context.Context, profile.ExtractedData) (recommend.Response, error)) {
	var data profile.ExtractedData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, recommend.InvalidResponse(s.now(), "invalid request body", nil))
		return
	}

	resp, err := run(c.Request.Context(), data)
	if err != nil {
		var verr *profile.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, recommend.InvalidResponse(s.now(), verr.Error(), verr.Fields))
			return
		}
		s.fail(c, "career mapping failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// fail logs err and answers with the generic failure envelope.
func (s *Server) fail(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	s.log.Error(msg, zap.Error(err), logger.RequestID(c.GetString(requestIDKey)))
	c.JSON(http.StatusInternalServerError, recommend.FailureResponse(s.now()))
}

func (s *Server) uploadResume(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes+(1<<20))

	file, header, err := c.Request.FormFile(resumeField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no resume file provided"})
		return
	}
	defer file.Close()

	if header.Size > s.cfg.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": extraction.ErrDocumentTooLarge.Error()})
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not read resume file"})
		return
	}

	mimeType := extraction.DetectMIME(header.Header.Get("Content-Type"), header.Filename, data)
	doc, err := extraction.DocumentText(mimeType, data)
	if err != nil {
		s.documentError(c, err)
		return
	}

	meta := documentMetadata{Pages: doc.Pages, MIME: doc.MIME}
	if s.deps.Documents != nil {
		key := "resumes/" + uuid.NewString() + strings.ToLower(path.Ext(header.Filename))
		if err := s.deps.Documents.Put(c.Request.Context(), key, data, mimeType); err != nil {
			s.log.Warn("store uploaded resume", zap.Error(err))
		} else {
			meta.FilePath = key
		}
	}

	c.JSON(http.StatusOK, uploadResponse{
		Success: true,
		Data:    documentData{Text: doc.Text, Metadata: meta},
	})
}

func (s *Server) documentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extraction.ErrUnsupportedDocument),
		errors.Is(err, extraction.ErrEmptyDocument),
		errors.Is(err, extraction.ErrDocumentTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	default:
		_ = c.Error(err)
		s.log.Error("extract document text", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to process resume"})
	}
}

func (s *Server) processResume(c *gin.Context) {
	if s.deps.Documents == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "document storage is not configured"})
		return
	}

	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "filePath is required"})
		return
	}

	ctx := c.Request.Context()
	data, err := s.deps.Documents.Get(ctx, req.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "resume not found"})
			return
		}
		if errors.Is(err, storage.ErrTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": extraction.ErrDocumentTooLarge.Error()})
			return
		}
		_ = c.Error(err)
		s.log.Error("download resume", zap.Error(err), zap.String("key", req.FilePath))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to download resume"})
		return
	}

	doc, err := extraction.DocumentText(extraction.DetectMIME("", req.FilePath, data), data)
	if err != nil {
		s.documentError(c, err)
		return
	}

	extracted := s.extract(c, doc.Text)
	extracted.ResumeText = doc.Text
	c.JSON(http.StatusOK, processResponse{Success: true, Data: extracted})
}

// extract prefers the oracle extractor and falls back to keyword heuristics.
func (s *Server) extract(c *gin.Context, text string) profile.ExtractedData {
	if s.deps.Extractor != nil {
		data, err := s.deps.Extractor.Extract(c.Request.Context(), text)
		if err == nil {
			return data
		}
		s.log.Warn("resume extraction failed, using keyword extraction", zap.Error(err))
	}
	return extraction.FromText(text)
}

func (s *Server) searchJobs(c *gin.Context) {
	if s.deps.Jobs == nil {
		c.JSON(http.StatusServiceUnavailable, errorBody{Error: "job search is not configured"})
		return
	}

	var req jobboard.Request
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Role.Title) == "" {
		c.JSON(http.StatusBadRequest, errorBody{Error: "role title is required"})
		return
	}

	res, err := s.deps.Jobs.Search(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		s.log.Error("job search", zap.Error(err))
		c.JSON(http.StatusInternalServerError, jobboard.Result{Jobs: []jobboard.Job{}, Sources: []string{}})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) savedStore(c *gin.Context) (savedmatch.Store, bool) {
	if s.deps.Saved == nil {
		c.JSON(http.StatusServiceUnavailable, errorBody{Error: "saved matches are not configured"})
		return nil, false
	}
	return s.deps.Saved, true
}

func (s *Server) listSaved(c *gin.Context) {
	store, ok := s.savedStore(c)
	if !ok {
		return
	}
	matches, err := store.List(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		_ = c.Error(err)
		s.log.Error("list saved matches", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody{Error: "failed to load saved matches"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (s *Server) saveMatch(c *gin.Context) {
	store, ok := s.savedStore(c)
	if !ok {
		return
	}
	var rec recommend.JobRecommendation
	if err := c.ShouldBindJSON(&rec); err != nil || strings.TrimSpace(rec.Title) == "" {
		c.JSON(http.StatusBadRequest, errorBody{Error: "recommendation title is required"})
		return
	}
	match, err := store.Save(c.Request.Context(), c.GetString(userIDKey), rec)
	if err != nil {
		_ = c.Error(err)
		s.log.Error("save match", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody{Error: "failed to save match"})
		return
	}
	c.JSON(http.StatusCreated, match)
}

func (s *Server) deleteSaved(c *gin.Context) {
	store, ok := s.savedStore(c)
	if !ok {
		return
	}
	err := store.Delete(c.Request.Context(), c.GetString(userIDKey), c.Param("id"))
	switch {
	case errors.Is(err, savedmatch.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: err.Error()})
	case err != nil:
		_ = c.Error(err)
		s.log.Error("delete saved match", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody{Error: "failed to delete match"})
	default:
		c.Status(http.StatusNoContent)
	}
}
