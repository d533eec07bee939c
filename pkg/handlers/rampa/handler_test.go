package rampa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/de-tools/rampa-irr/pkg/models/api"
	"github.com/de-tools/rampa-irr/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDecoder struct {
	mock.Mock
}

func (m *mockDecoder) Decode(ctx context.Context, data []byte) ([]domain.InputRecord, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InputRecord), args.Error(1)
}

type mockBuilder struct {
	mock.Mock
}

func (m *mockBuilder) Build(
	ctx context.Context,
	records []domain.InputRecord,
	reference time.Time,
) (*domain.Report, error) {
	args := m.Called(ctx, records, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

var fixedNow = time.Date(2025, time.September, 16, 12, 0, 0, 0, time.UTC)

func upload(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if field != "" {
		part, err := writer.CreateFormFile(field, "rampa.xlsx")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreateReport(t *testing.T) {
	records := []domain.InputRecord{{LocationName: "A", TreatmentOutcome: "R30"}}
	report := &domain.Report{
		ReferenceDate:   fixedNow,
		MonthName:       "Setembro",
		DaysInMonth:     30,
		LastDayWithData: 1,
		DayHeaders:      []string{"METRIC", "TOTAL"},
		Locations: []domain.LocationSeries{{
			Name:   "A",
			Days:   []domain.DayMetrics{{Day: 1, Observed: true, Repairs: 1, QualifyingOutcomes: 1, RatePercent: decimal.NewFromInt(100)}},
			Totals: domain.LocationTotals{Repairs: 1, QualifyingOutcomes: 1, RatePercent: decimal.NewFromInt(100)},
		}},
	}
	pinned := time.Date(2025, time.August, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		query          string
		field          string
		content        []byte
		setupMocks     func(*mockDecoder, *mockBuilder)
		expectedStatus int
		expectedError  *api.ErrorResponse
	}{
		{
			name:    "success",
			field:   fileField,
			content: []byte("sheet"),
			setupMocks: func(d *mockDecoder, b *mockBuilder) {
				d.On("Decode", mock.Anything, []byte("sheet")).Return(records, nil)
				b.On("Build", mock.Anything, records, fixedNow).Return(report, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "pinned reference date",
			query:   "?date=2025-08-03",
			field:   fileField,
			content: []byte("sheet"),
			setupMocks: func(d *mockDecoder, b *mockBuilder) {
				d.On("Decode", mock.Anything, []byte("sheet")).Return(records, nil)
				b.On("Build", mock.Anything, records, pinned).Return(report, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid date",
			query:          "?date=03/08/2025",
			field:          fileField,
			content:        []byte("sheet"),
			setupMocks:     func(*mockDecoder, *mockBuilder) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  &api.ErrorResponse{Error: "invalid 'date' format. Expected format: YYYY-MM-DD"},
		},
		{
			name:           "missing file",
			field:          "",
			setupMocks:     func(*mockDecoder, *mockBuilder) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  &api.ErrorResponse{Error: "no file uploaded"},
		},
		{
			name:           "wrong field",
			field:          "attachment",
			content:        []byte("sheet"),
			setupMocks:     func(*mockDecoder, *mockBuilder) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  &api.ErrorResponse{Error: "no file uploaded"},
		},
		{
			name:           "empty file",
			field:          fileField,
			content:        []byte{},
			setupMocks:     func(*mockDecoder, *mockBuilder) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  &api.ErrorResponse{Error: "no file uploaded"},
		},
		{
			name:           "too large",
			field:          fileField,
			content:        bytes.Repeat([]byte("x"), 4096),
			setupMocks:     func(*mockDecoder, *mockBuilder) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  &api.ErrorResponse{Error: "upload exceeds the size limit"},
		},
		{
			name:    "parse failure",
			field:   fileField,
			content: []byte("sheet"),
			setupMocks: func(d *mockDecoder, b *mockBuilder) {
				err := domain.NewStageError("header", fmt.Errorf("%w: missing columns CLUSTER", domain.ErrParseFailure))
				d.On("Decode", mock.Anything, []byte("sheet")).Return(nil, err)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  &api.ErrorResponse{Error: "could not read spreadsheet", Stage: "header"},
		},
		{
			name:    "computation failure",
			field:   fileField,
			content: []byte("sheet"),
			setupMocks: func(d *mockDecoder, b *mockBuilder) {
				d.On("Decode", mock.Anything, []byte("sheet")).Return(records, nil)
				b.On("Build", mock.Anything, records, fixedNow).
					Return(nil, fmt.Errorf("%w: boom", domain.ErrComputationFailure))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  &api.ErrorResponse{Error: "internal error"},
		},
		{
			name:    "unexpected error",
			field:   fileField,
			content: []byte("sheet"),
			setupMocks: func(d *mockDecoder, b *mockBuilder) {
				d.On("Decode", mock.Anything, []byte("sheet")).Return(nil, errors.New("unexpected"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  &api.ErrorResponse{Error: "internal error"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decoder := new(mockDecoder)
			builder := new(mockBuilder)
			tc.setupMocks(decoder, builder)

			handler := NewHandler(decoder, builder, Options{
				MaxUploadBytes: 1024,
				Location:       time.UTC,
				Now:            func() time.Time { return fixedNow },
			})

			body, contentType := upload(t, tc.field, tc.content)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/rampa/report"+tc.query, body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			handler.CreateReport(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tc.expectedError != nil {
				var actual api.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&actual))
				assert.Equal(t, *tc.expectedError, actual)
			} else {
				var actual api.RampaReport
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&actual))
				assert.Equal(t, "Setembro", actual.MonthName)
				require.Len(t, actual.Locations, 1)
				assert.Equal(t, "100.0%", actual.Locations[0].Totals[api.MetricCumulativeRatePercent])
			}

			decoder.AssertExpectations(t)
			builder.AssertExpectations(t)
		})
	}
}

func TestCreateReport_NotMultipart(t *testing.T) {
	handler := NewHandler(new(mockDecoder), new(mockBuilder), Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rampa/report", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.CreateReport(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSettings(t *testing.T) {
	settings := api.RampaSettings{
		RepeatCap:         0.32,
		QualifyingOutcome: "R30",
		Locale:            "pt-BR",
		Timezone:          "America/Sao_Paulo",
		Columns:           api.Columns{OpeningDate: "DATA_ABERTURA", Location: "CLUSTER", Outcome: "TRATATIVA"},
	}
	handler := NewHandler(new(mockDecoder), new(mockBuilder), Options{Settings: settings})

	rec := httptest.NewRecorder()
	handler.GetSettings(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rampa/settings", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var actual api.RampaSettings
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&actual))
	assert.Equal(t, settings, actual)
}

func TestReadFile(t *testing.T) {
	tests := []struct {
		name        string
		reader      io.Reader
		expected    []byte
		expectedErr error
	}{
		{
			name:     "content",
			reader:   strings.NewReader("sheet"),
			expected: []byte("sheet"),
		},
		{
			name:        "empty",
			reader:      strings.NewReader(""),
			expectedErr: errNoFile,
		},
		{
			name:        "read failure",
			reader:      iotest.ErrReader(errors.New("tmp file vanished: /var/tmp/multipart-123")),
			expectedErr: errUnreadable,
		},
		{
			name:        "size limit",
			reader:      iotest.ErrReader(&http.MaxBytesError{Limit: 1024}),
			expectedErr: errUploadLimit,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := readFile(context.Background(), tc.reader)

			if tc.expectedErr != nil {
				require.Error(t, err)
				assert.Equal(t, tc.expectedErr, err)
				assert.NotContains(t, err.Error(), "/var/tmp")
				assert.Nil(t, data)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, data)
		})
	}
}
