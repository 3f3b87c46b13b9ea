package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hostel-core-api/internal/models"
	appErrors "github.com/noah-isme/hostel-core-api/pkg/errors"
	"github.com/noah-isme/hostel-core-api/pkg/export"
	"github.com/noah-isme/hostel-core-api/pkg/storage"
)

// ReportFormat selects the rendered export type.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

type blockListReader interface {
	List(ctx context.Context, filter models.BlockFilter) ([]models.BlockDetail, int, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type csvRenderer interface {
	Render(table export.Table) ([]byte, error)
}

type pdfRenderer interface {
	Render(table export.Table, title string) ([]byte, error)
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string       `json:"path"`
	Token        string       `json:"token"`
	URL          string       `json:"url"`
	Format       ReportFormat `json:"format"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
}

// ExportService renders block occupancy reports and persists them behind
// signed download URLs.
type ExportService struct {
	blocks  blockListReader
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.Signer
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(blocks blockListReader, files fileStorage, signer *storage.Signer, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVRenderer()
	}
	if pdf == nil {
		pdf = export.NewPDFRenderer()
	}
	return &ExportService{blocks: blocks, storage: files, csv: csv, pdf: pdf, signer: signer, logger: logger, cfg: cfg}
}

// GenerateOccupancyReport renders the per-block occupancy table and stores
// the file for signed download.
func (s *ExportService) GenerateOccupancyReport(ctx context.Context, format ReportFormat) (*ExportResult, error) {
	blocks, _, err := s.blocks.List(ctx, models.BlockFilter{PageSize: 100})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load blocks")
	}

	table := export.Table{
		Headers: []string{"Block", "School", "Floors", "Rooms", "Beds", "Occupied", "Free", "Occupancy %"},
	}
	for _, block := range blocks {
		table.Rows = append(table.Rows, []string{
			block.Name,
			block.SchoolID,
			fmt.Sprintf("%d", block.TotalFloors),
			fmt.Sprintf("%d", block.TotalRooms),
			fmt.Sprintf("%d", block.TotalBeds),
			fmt.Sprintf("%d", block.OccupiedBeds),
			fmt.Sprintf("%d", block.TotalBeds-block.OccupiedBeds),
			fmt.Sprintf("%.1f", block.OccupancyRate()),
		})
	}

	var payload []byte
	switch format {
	case ReportFormatCSV:
		payload, err = s.csv.Render(table)
	case ReportFormatPDF:
		payload, err = s.pdf.Render(table, "Hostel Occupancy Report")
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	filename := fmt.Sprintf("occupancy/%s.%s", time.Now().UTC().Format("20060102-150405"), format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	token, expiresAt, err := s.signer.Sign(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign report url")
	}

	prefix := strings.TrimSuffix(s.cfg.APIPrefix, "/")
	result := &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/exports/download?token=%s", prefix, token),
		Format:       format,
		ExpiresAt:    expiresAt,
	}
	s.logger.Sugar().Infow("generated occupancy report", "path", relPath, "format", format)
	return result, nil
}

// OpenDownload verifies a signed token and opens the stored file.
func (s *ExportService) OpenDownload(token string) (*os.File, error) {
	relPath, err := s.signer.Verify(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report no longer available")
	}
	return file, nil
}
