package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/quizforge/quizforge/internal/batch"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/db/repository"
	"github.com/quizforge/quizforge/internal/detect"
	"github.com/quizforge/quizforge/internal/export"
	"github.com/quizforge/quizforge/internal/merge"
	"github.com/quizforge/quizforge/internal/quiz"
	"github.com/quizforge/quizforge/internal/review"
	httperrors "github.com/quizforge/quizforge/pkg/http/errors"
)

// QuizStore is the persistence surface the handlers need for quizzes.
// *repository.QuizRepository satisfies it.
type QuizStore interface {
	Create(ctx context.Context, q quiz.Quiz) (repository.StoredQuiz, error)
	Get(ctx context.Context, id string) (repository.StoredQuiz, error)
	List(ctx context.Context, limit int32) ([]repository.StoredQuiz, error)
	Update(ctx context.Context, id string, questions []quiz.Question) error
	Delete(ctx context.Context, id string) error
}

// BatchStore records batch runs. *repository.BatchRepository satisfies it.
type BatchStore interface {
	Record(ctx context.Context, quizID string, result batch.Result) (string, error)
	Get(ctx context.Context, id string) (repository.BatchSummary, error)
}

// Handlers carries the HTTP layer's dependencies.
type Handlers struct {
	pipeline *batch.Service
	quizzes  QuizStore
	batches  BatchStore
	cfg      *config.App
	logger   zerolog.Logger
}

func NewHandlers(pipeline *batch.Service, quizzes QuizStore, batches BatchStore, cfg *config.App, logger zerolog.Logger) *Handlers {
	return &Handlers{
		pipeline: pipeline,
		quizzes:  quizzes,
		batches:  batches,
		cfg:      cfg,
		logger:   logger,
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Detect runs format detection over raw text, optionally with custom
// templates.
func (h *Handlers) Detect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text      string            `json:"text"`
		Templates []detect.Template `json:"templates,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	respondJSON(w, http.StatusOK, detect.DetectWithTemplates(req.Text, req.Templates))
}

type extractResponse struct {
	File       batch.FileResult      `json:"file"`
	Questions  []quiz.Question       `json:"questions"`
	Validation quiz.ValidationReport `json:"validation"`
}

// Extract runs the full pipeline over one uploaded document and returns
// the extracted questions without persisting anything.
func (h *Handlers) Extract(w http.ResponseWriter, r *http.Request) {
	files, opts, ok := h.readUpload(w, r, 1)
	if !ok {
		return
	}

	result, err := h.pipeline.ProcessFiles(r.Context(), files, opts)
	if err != nil {
		httperrors.RespondError(w, http.StatusUnprocessableEntity, httperrors.ErrCodeExtractionFailed, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, extractResponse{
		File:       result.Files[0],
		Questions:  result.Questions,
		Validation: quiz.Validate(quiz.Quiz{Questions: result.Questions}),
	})
}

type batchResponse struct {
	BatchID    string                `json:"batchId"`
	QuizID     string                `json:"quizId"`
	Result     batch.Result          `json:"result"`
	Validation quiz.ValidationReport `json:"validation"`
}

// CreateBatch processes a multi-file upload, persists the merged quiz,
// and records the batch for auditing.
func (h *Handlers) CreateBatch(w http.ResponseWriter, r *http.Request) {
	files, opts, ok := h.readUpload(w, r, h.cfg.Ingest.MaxBatchSize)
	if !ok {
		return
	}

	result, err := h.pipeline.ProcessFiles(r.Context(), files, opts)
	if err != nil {
		httperrors.RespondError(w, http.StatusUnprocessableEntity, httperrors.ErrCodeBatchFailed, err.Error())
		return
	}

	q := result.MergedQuiz
	stored, err := h.quizzes.Create(r.Context(), q)
	if err != nil {
		h.logger.Error().Err(err).Msg("quiz persist failed")
		httperrors.RespondInternalError(w, "failed to store quiz")
		return
	}

	batchID, err := h.batches.Record(r.Context(), stored.ID, result)
	if err != nil {
		h.logger.Error().Err(err).Str("quiz_id", stored.ID).Msg("batch record failed")
		httperrors.RespondInternalError(w, "failed to record batch")
		return
	}

	respondJSON(w, http.StatusCreated, batchResponse{
		BatchID:    batchID,
		QuizID:     stored.ID,
		Result:     result,
		Validation: quiz.Validate(q),
	})
}

// GetBatch returns a stored batch summary.
func (h *Handlers) GetBatch(w http.ResponseWriter, r *http.Request) {
	summary, err := h.batches.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "batch not found")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// ListQuizzes returns stored quiz metadata, newest first.
func (h *Handlers) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	limit := int64(50)
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 32)
		if err != nil || parsed <= 0 {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	quizzes, err := h.quizzes.List(r.Context(), int32(limit))
	if err != nil {
		h.logger.Error().Err(err).Msg("quiz list failed")
		httperrors.RespondInternalError(w, "failed to list quizzes")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"quizzes": quizzes})
}

// GetQuiz returns one quiz with its questions.
func (h *Handlers) GetQuiz(w http.ResponseWriter, r *http.Request) {
	stored, err := h.quizzes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "quiz not found")
		return
	}
	respondJSON(w, http.StatusOK, stored)
}

// DeleteQuiz removes a quiz and its questions.
func (h *Handlers) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.quizzes.Delete(r.Context(), r.PathValue("id")); err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "quiz not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportQuiz serializes a stored quiz in the requested format and
// serves it as a download.
func (h *Handlers) ExportQuiz(w http.ResponseWriter, r *http.Request) {
	stored, err := h.quizzes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "quiz not found")
		return
	}

	query := r.URL.Query()
	format := query.Get("format")
	if format == "" {
		format = string(export.FormatJSON)
	}
	opts := export.Options{
		Format:          export.Format(format),
		IncludeMetadata: query.Get("includeMetadata") != "false",
		IncludeAnswers:  query.Get("includeAnswers") == "true",
		IncludePoints:   query.Get("includePoints") == "true",
	}

	var artifact export.Artifact
	if body := query.Get("template"); body != "" {
		artifact, err = export.ExportTemplate(stored.Quiz, export.Template{Body: body}, opts)
	} else {
		artifact, err = export.Export(stored.Quiz, opts)
	}
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUnknownFormat, err.Error())
		return
	}

	w.Header().Set("Content-Type", artifact.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(artifact.Size))
	_, _ = w.Write(artifact.Content)
}

// SearchQuiz finds occurrences of a term in a quiz's questions.
func (h *Handlers) SearchQuiz(w http.ResponseWriter, r *http.Request) {
	stored, err := h.quizzes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "quiz not found")
		return
	}
	term := r.URL.Query().Get("q")
	if term == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "query parameter q is required", "q")
		return
	}
	field := review.Field(r.URL.Query().Get("field"))
	if field == "" {
		field = review.FieldAll
	}
	matches := review.Search(stored.Quiz.Questions, term, field)
	respondJSON(w, http.StatusOK, map[string]any{"matches": matches, "count": len(matches)})
}

// ReplaceInQuiz substitutes a term across a quiz's questions and
// persists the updated set.
func (h *Handlers) ReplaceInQuiz(w http.ResponseWriter, r *http.Request) {
	stored, err := h.quizzes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "quiz not found")
		return
	}

	var req struct {
		Search  string       `json:"search"`
		Replace string       `json:"replace"`
		Field   review.Field `json:"field,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	if req.Search == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "search term is required", "search")
		return
	}
	if req.Field == "" {
		req.Field = review.FieldAll
	}

	updated, replaced := review.ReplaceAll(stored.Quiz.Questions, req.Search, req.Replace, req.Field)
	if replaced > 0 {
		if err := h.quizzes.Update(r.Context(), stored.ID, updated); err != nil {
			h.logger.Error().Err(err).Str("quiz_id", stored.ID).Msg("quiz update failed")
			httperrors.RespondInternalError(w, "failed to update quiz")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"replaced": replaced, "questions": updated})
}

// readUpload parses a multipart upload into pipeline inputs. It writes
// the error response itself when the upload is unusable.
func (h *Handlers) readUpload(w http.ResponseWriter, r *http.Request, maxFiles int) ([]batch.FileInput, batch.ProcessOptions, bool) {
	if err := r.ParseMultipartForm(h.cfg.Ingest.MaxFileBytes); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUploadFailed, "invalid multipart upload")
		return nil, batch.ProcessOptions{}, false
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["files"]
		if len(headers) == 0 {
			headers = r.MultipartForm.File["file"]
		}
	}
	if len(headers) == 0 {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "at least one file is required", "files")
		return nil, batch.ProcessOptions{}, false
	}
	if maxFiles > 0 && len(headers) > maxFiles {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeTooManyFiles,
			fmt.Sprintf("at most %d files per request", maxFiles))
		return nil, batch.ProcessOptions{}, false
	}

	files := make([]batch.FileInput, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeUploadFailed, "failed to read upload")
			return nil, batch.ProcessOptions{}, false
		}
		data, err := io.ReadAll(io.LimitReader(f, h.cfg.Ingest.MaxFileBytes+1))
		f.Close()
		if err != nil {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeUploadFailed, "failed to read upload")
			return nil, batch.ProcessOptions{}, false
		}
		if int64(len(data)) > h.cfg.Ingest.MaxFileBytes {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeFileTooLarge,
				fmt.Sprintf("%s exceeds the %d byte limit", header.Filename, h.cfg.Ingest.MaxFileBytes))
			return nil, batch.ProcessOptions{}, false
		}
		files = append(files, batch.FileInput{Filename: header.Filename, Data: data})
	}

	opts := batch.ProcessOptions{
		Strategy:            merge.Strategy(r.FormValue("strategy")),
		ExpectedOptionCount: h.cfg.Pipeline.ExpectedOptionCount,
		SimilarityThreshold: h.cfg.Pipeline.SimilarityThreshold,
		Title:               r.FormValue("title"),
		Description:         r.FormValue("description"),
		Subject:             r.FormValue("subject"),
	}
	if v := r.FormValue("similarityThreshold"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 || parsed >= 1 {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed,
				"similarityThreshold must be between 0 and 1", "similarityThreshold")
			return nil, batch.ProcessOptions{}, false
		}
		opts.SimilarityThreshold = parsed
	}
	if v := r.FormValue("expectedOptionCount"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 2 {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed,
				"expectedOptionCount must be at least 2", "expectedOptionCount")
			return nil, batch.ProcessOptions{}, false
		}
		opts.ExpectedOptionCount = parsed
	}
	if v := r.FormValue("templates"); v != "" {
		if err := json.Unmarshal([]byte(v), &opts.Templates); err != nil {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed,
				"templates must be a JSON array", "templates")
			return nil, batch.ProcessOptions{}, false
		}
	}
	return files, opts, true
}
