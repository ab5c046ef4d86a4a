package service

import (
	"context"
	"fmt"
	"time"

	"github.com/linchh/campus-carpool/internal/model"
)

// PDFGenerator renders the fare schedule as a printable document.
type PDFGenerator interface {
	Generate(entries []model.FareEntry) ([]byte, error)
}

type FareService struct {
	fares FareStore
	pdf   PDFGenerator
}

func NewFareService(fares FareStore, pdf PDFGenerator) *FareService {
	return &FareService{fares: fares, pdf: pdf}
}

func (s *FareService) Places(ctx context.Context) ([]model.Place, error) {
	return s.fares.ListPlaces(ctx)
}

func (s *FareService) List(ctx context.Context) ([]model.FareEntry, error) {
	return s.fares.ListFareEntries(ctx)
}

// ExportSchedule renders the full price list as a PDF.
func (s *FareService) ExportSchedule(ctx context.Context) (*ExportResult, error) {
	entries, err := s.fares.ListFareEntries(ctx)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Generate(entries)
	if err != nil {
		return nil, err
	}
	fileName := fmt.Sprintf("fare-schedule-%s.pdf", time.Now().UTC().Format("20060102"))
	return &ExportResult{FileName: fileName, Content: content}, nil
}
