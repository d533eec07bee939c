package rampa

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/de-tools/rampa-irr/pkg/adapters"
	"github.com/de-tools/rampa-irr/pkg/models/api"
	"github.com/de-tools/rampa-irr/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	fileField       = "file"
	dateParam       = "date"
	dateLayout      = "2006-01-02"
	defaultMaxBytes = 32 << 20
)

type Decoder interface {
	Decode(ctx context.Context, data []byte) ([]domain.InputRecord, error)
}

type ReportBuilder interface {
	Build(ctx context.Context, records []domain.InputRecord, reference time.Time) (*domain.Report, error)
}

type Options struct {
	MaxUploadBytes int64
	Location       *time.Location
	// Now defaults to time.Now.
	Now      func() time.Time
	Settings api.RampaSettings
}

type Handler struct {
	decoder  Decoder
	builder  ReportBuilder
	maxBytes int64
	location *time.Location
	now      func() time.Time
	settings api.RampaSettings
}

func NewHandler(decoder Decoder, builder ReportBuilder, opts Options) *Handler {
	h := &Handler{
		decoder:  decoder,
		builder:  builder,
		maxBytes: opts.MaxUploadBytes,
		location: opts.Location,
		now:      opts.Now,
		settings: opts.Settings,
	}
	if h.maxBytes <= 0 {
		h.maxBytes = defaultMaxBytes
	}
	if h.location == nil {
		h.location = time.UTC
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// CreateReport reads the uploaded spreadsheet and responds with the projection
// for the month of the reference date.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	reference := h.now().In(h.location)
	if value := r.URL.Query().Get(dateParam); value != "" {
		parsed, err := time.ParseInLocation(dateLayout, value, h.location)
		if err != nil {
			writeJSON(ctx, w, http.StatusBadRequest, api.ErrorResponse{
				Error: "invalid 'date' format. Expected format: YYYY-MM-DD",
			})
			return
		}
		reference = parsed
	}

	data, name, err := h.readUpload(w, r)
	if err != nil {
		logger.Warn().Err(err).Msg("rejected upload")
		writeJSON(ctx, w, http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	uploadLogger := logger.With().
		Str("file", name).
		Int("size", len(data)).
		Time("reference", reference).
		Logger()

	records, err := h.decoder.Decode(ctx, data)
	if err != nil {
		h.handleFailure(ctx, w, uploadLogger, err)
		return
	}

	report, err := h.builder.Build(ctx, records, reference)
	if err != nil {
		h.handleFailure(ctx, w, uploadLogger, err)
		return
	}

	uploadLogger.Info().
		Int("records", len(records)).
		Int("locations", len(report.Locations)).
		Msg("rampa report generated")

	writeJSON(ctx, w, http.StatusOK, adapters.MapReportDomainToApi(*report))
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.settings)
}

var (
	errNoFile      = errors.New("no file uploaded")
	errUploadLimit = errors.New("upload exceeds the size limit")
	errUnreadable  = errors.New("could not read uploaded file")
)

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", errUploadLimit
		}
		return nil, "", errNoFile
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile(fileField)
	if err != nil {
		return nil, "", errNoFile
	}
	defer file.Close()

	data, err := readFile(r.Context(), file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

// readFile reads an uploaded part. Only the sentinel upload errors leave this
// function; the underlying cause is logged.
func readFile(ctx context.Context, file io.Reader) ([]byte, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to read uploaded file")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errUploadLimit
		}
		return nil, errUnreadable
	}
	if len(data) == 0 {
		return nil, errNoFile
	}
	return data, nil
}

func (h *Handler) handleFailure(ctx context.Context, w http.ResponseWriter, logger zerolog.Logger, err error) {
	stage := domain.Stage(err)

	switch {
	case errors.Is(err, domain.ErrInputMissing):
		logger.Warn().Err(err).Msg("empty upload")
		writeJSON(ctx, w, http.StatusBadRequest, api.ErrorResponse{Error: errNoFile.Error()})
	case errors.Is(err, domain.ErrParseFailure):
		logger.Error().Err(err).Str("stage", stage).Msg("failed to parse spreadsheet")
		writeJSON(ctx, w, http.StatusInternalServerError, api.ErrorResponse{
			Error: "could not read spreadsheet",
			Stage: stage,
		})
	default:
		logger.Error().Err(err).Str("stage", stage).Msg("failed to compute rampa report")
		writeJSON(ctx, w, http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
