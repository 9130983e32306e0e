package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/smbreplay/pkg/convert"
	"github.com/ssargent/smbreplay/pkg/storage"
)

// Server holds the API server state
type Server struct {
	library   ReplayLibrary
	converter ReplayConverter
	config    ServerConfig
	metrics   *Metrics
	logger    *slog.Logger
}

// NewServer creates a new API server
func NewServer(library ReplayLibrary, converter ReplayConverter, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		library:   library,
		converter: converter,
		config:    config,
		metrics:   metrics,
		logger:    logger,
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleConvert godoc
//
//	@Summary		Convert a replay
//	@Description	Convert a replay between binary, json, yaml and gci
//	@Tags			convert
//	@Accept			octet-stream,json
//	@Produce		octet-stream,json
//	@Param			from	query		string	true	"Input format"
//	@Param			to		query		string	true	"Output format"
//	@Param			body	body		[]byte	true	"Replay"
//	@Success		200		{file}		binary
//	@Failure		400		{object}	APIResponse
//	@Failure		422		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/convert [post]
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	from, err := formatParam(r, "from", "")
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := formatParam(r, "to", "")
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	out, err := s.converter.Convert(body, from, to)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to convert replay: %v", err), http.StatusUnprocessableEntity)
		return
	}

	sendReplay(w, out, to.ContentType(), "replay"+to.Extension())
}

// handleImport godoc
//
//	@Summary		Import a replay
//	@Description	Decode a replay and store it in the library
//	@Tags			replays
//	@Accept			octet-stream,json
//	@Produce		json
//	@Param			format	query		string	false	"Input format (default binary)"
//	@Param			body	body		[]byte	true	"Replay"
//	@Success		200		{object}	ImportResponse
//	@Failure		400		{object}	APIResponse
//	@Failure		422		{object}	APIResponse
//	@Failure		500		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/replays [post]
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	format, err := formatParam(r, "format", convert.FormatBinary.String())
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := s.converter.Decode(body, format)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to decode replay: %v", err), http.StatusUnprocessableEntity)
		return
	}

	id, err := s.library.Put(rec)
	s.metrics.RecordLibraryOperation("put", err == nil, time.Since(start))
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to store replay: %v", err), http.StatusInternalServerError)
		return
	}

	s.logger.Info("imported replay", "id", id, "format", format,
		"level", rec.Header.LevelID, "floor", rec.Header.LevelFloor)
	s.refreshLibraryGauge()
	sendSuccess(w, ImportResponse{ID: id.String(), Format: format.String()})
}

// handleList godoc
//
//	@Summary		List replays
//	@Description	List every replay in the library with its header
//	@Tags			replays
//	@Produce		json
//	@Success		200	{object}	ListResponse
//	@Failure		500	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/replays [get]
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entries, err := s.library.List()
	s.metrics.RecordLibraryOperation("list", err == nil, time.Since(start))
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to list replays: %v", err), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []storage.Entry{}
	}

	sendSuccess(w, ListResponse{Replays: entries, Count: len(entries)})
}

// handleExport godoc
//
//	@Summary		Export a replay
//	@Description	Fetch a stored replay encoded in the requested format
//	@Tags			replays
//	@Produce		octet-stream,json
//	@Param			id		path		string	true	"Replay id"
//	@Param			format	query		string	false	"Output format (default json)"
//	@Success		200		{file}		binary
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Failure		500		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/replays/{id} [get]
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := replayID(w, r)
	if !ok {
		return
	}
	format, err := formatParam(r, "format", convert.FormatJSON.String())
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := s.library.Get(id)
	s.metrics.RecordLibraryOperation("get", err == nil, time.Since(start))
	if err != nil {
		s.sendLibraryError(w, "get", err)
		return
	}

	out, err := s.converter.Encode(rec, format)
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to encode replay: %v", err), http.StatusInternalServerError)
		return
	}

	sendReplay(w, out, format.ContentType(), id.String()+format.Extension())
}

// handleDelete godoc
//
//	@Summary		Delete a replay
//	@Description	Remove a replay from the library
//	@Tags			replays
//	@Produce		json
//	@Param			id	path		string	true	"Replay id"
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/replays/{id} [delete]
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := replayID(w, r)
	if !ok {
		return
	}

	err := s.library.Delete(id)
	s.metrics.RecordLibraryOperation("delete", err == nil, time.Since(start))
	if err != nil {
		s.sendLibraryError(w, "delete", err)
		return
	}

	s.refreshLibraryGauge()
	sendSuccess(w, map[string]string{"deleted": id.String()})
}

func (s *Server) sendLibraryError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, storage.ErrReplayNotFound) {
		sendError(w, "Replay not found", http.StatusNotFound)
		return
	}
	s.logger.Error("library operation failed", "operation", op, "error", err)
	sendError(w, fmt.Sprintf("Failed to %s replay: %v", op, err), http.StatusInternalServerError)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(body) == 0 {
		return nil, errors.New("request body is empty")
	}
	return body, nil
}

// refreshLibraryGauge updates the stored replay gauge from the library
func (s *Server) refreshLibraryGauge() {
	n, err := s.library.Count()
	if err != nil {
		s.logger.Warn("failed to count replays", "error", err)
		return
	}
	s.metrics.SetLibraryReplays(n)
}

func formatParam(r *http.Request, name, fallback string) (convert.Format, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		value = fallback
	}
	if value == "" {
		return convert.FormatUnknown, fmt.Errorf("query parameter %q is required", name)
	}
	return convert.ParseFormat(value)
}

func replayID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid replay id", http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}
