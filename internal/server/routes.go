package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lazypower/chatlog/internal/store"
	"github.com/lazypower/chatlog/internal/transcript"
)

type importResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ImportedAt   int64  `json:"imported_at"`
	MessageCount int    `json:"message_count"`
	WarningCount int    `json:"warning_count"`
	FirstDate    string `json:"first_date,omitempty"`
	LastDate     string `json:"last_date,omitempty"`
}

func toImportResponse(imp store.Import) importResponse {
	return importResponse{
		ID:           imp.ID,
		Name:         imp.Name,
		ImportedAt:   imp.ImportedAt,
		MessageCount: imp.MessageCount,
		WarningCount: imp.WarningCount,
		FirstDate:    imp.FirstDate,
		LastDate:     imp.LastDate,
	}
}

type warningResponse struct {
	Line  int    `json:"line"`
	Raw   string `json:"raw"`
	Error string `json:"error"`
}

type messageResponse struct {
	Seq     int                `json:"seq"`
	Message transcript.Message `json:"message"`
}

func lineWarnings(ws []*transcript.LineError) []warningResponse {
	out := make([]warningResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, warningResponse{Line: w.Line, Raw: w.Raw, Error: w.Err.Error()})
	}
	return out
}

// readTranscript reads the raw transcript text from the request body.
func readTranscript(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "transcript too large")
			return "", false
		}
		writeError(w, http.StatusBadRequest, "read body failed")
		return "", false
	}
	return string(body), true
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	text, ok := readTranscript(w, r)
	if !ok {
		return
	}

	res := transcript.Parse(text)
	for _, lw := range res.Warnings {
		log.Printf("parse: %v", lw)
	}

	w.Header().Set("X-Parse-Warnings", strconv.Itoa(len(res.Warnings)))
	w.Header().Set("Content-Type", "application/json")
	if err := transcript.WriteJSON(w, res.Messages); err != nil {
		log.Printf("parse: write response: %v", err)
	}
}

func (s *Server) handleCreateImport(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload"
	}

	text, ok := readTranscript(w, r)
	if !ok {
		return
	}

	res := transcript.Parse(text)
	imp, err := s.db.SaveImport(name, res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"import":   toImportResponse(*imp),
		"warnings": lineWarnings(res.Warnings),
	})
}

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	imps, err := s.db.ListImports(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]importResponse, 0, len(imps))
	for _, imp := range imps {
		out = append(out, toImportResponse(imp))
	}
	writeJSON(w, http.StatusOK, map[string]any{"imports": out})
}

// lookupImport resolves {importID}, writing a 404 when it does not exist.
func (s *Server) lookupImport(w http.ResponseWriter, r *http.Request) (*store.Import, bool) {
	imp, err := s.db.GetImport(chi.URLParam(r, "importID"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "import not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return imp, true
}

func (s *Server) handleGetImport(w http.ResponseWriter, r *http.Request) {
	imp, ok := s.lookupImport(w, r)
	if !ok {
		return
	}

	ws, err := s.db.ImportWarnings(imp.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	warnings := make([]warningResponse, 0, len(ws))
	for _, sw := range ws {
		warnings = append(warnings, warningResponse{Line: sw.Line, Raw: sw.Raw, Error: sw.Error})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"import":   toImportResponse(*imp),
		"warnings": warnings,
	})
}

func (s *Server) handleDeleteImport(w http.ResponseWriter, r *http.Request) {
	err := s.db.DeleteImport(chi.URLParam(r, "importID"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "import not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	imp, ok := s.lookupImport(w, r)
	if !ok {
		return
	}

	limit, err := intParam(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := intParam(r, "offset")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	msgs, err := s.db.ListMessages(imp.ID, store.MessageQuery{
		Date:   q.Get("date"),
		Sender: q.Get("sender"),
		Query:  q.Get("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageResponse{Seq: m.Seq, Message: m.Message})
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}

func (s *Server) handleImportDates(w http.ResponseWriter, r *http.Request) {
	imp, ok := s.lookupImport(w, r)
	if !ok {
		return
	}

	dates, err := s.db.ImportDates(imp.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type dateResponse struct {
		Date  string `json:"date"`
		Label string `json:"label"`
		Count int    `json:"count"`
	}
	now := s.now()
	out := make([]dateResponse, 0, len(dates))
	for _, d := range dates {
		out = append(out, dateResponse{Date: d.Date, Label: transcript.DateLabel(d.Date, now), Count: d.Count})
	}
	writeJSON(w, http.StatusOK, map[string]any{"dates": out})
}

func (s *Server) handleImportSenders(w http.ResponseWriter, r *http.Request) {
	imp, ok := s.lookupImport(w, r)
	if !ok {
		return
	}

	senders, err := s.db.ImportSenders(imp.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if senders == nil {
		senders = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"senders": senders})
}

// intParam parses an optional non-negative integer query parameter.
func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}
