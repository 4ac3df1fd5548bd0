package workbook

import (
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ErrNotOpen is returned when a session is used before Open or after Close.
var ErrNotOpen = errors.New("workbook session not open")

// Session is an explicitly opened connection to a workbook.
type Session interface {
	Open() error
	Close() error
	Write(writes []CellWrite) error
	Read(sheet, cell string) (string, error)
}

// XLSXSession reads and writes an .xlsx file. Changes are saved on Close.
type XLSXSession struct {
	path   string
	logger *zap.Logger
	file   *excelize.File
}

// NewXLSXSession prepares a session for path. Nothing is opened yet.
func NewXLSXSession(path string, logger *zap.Logger) *XLSXSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &XLSXSession{path: path, logger: logger}
}

// Open loads the workbook, or starts a new one if path does not exist.
func (s *XLSXSession) Open() error {
	if s.file != nil {
		return nil
	}
	f, err := excelize.OpenFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.logger.Info("creating workbook", zap.String("path", s.path))
		f = excelize.NewFile()
	case err != nil:
		return fmt.Errorf("opening workbook %s: %w", s.path, err)
	}
	s.file = f
	return nil
}

// Close saves and releases the workbook.
func (s *XLSXSession) Close() error {
	if s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil

	saveErr := f.SaveAs(s.path)
	closeErr := f.Close()
	if saveErr != nil {
		return fmt.Errorf("saving workbook %s: %w", s.path, saveErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing workbook %s: %w", s.path, closeErr)
	}
	s.logger.Info("workbook saved", zap.String("path", s.path))
	return nil
}

// Write applies writes in order. A range is written at its top-left
// cell. Missing sheets are created.
func (s *XLSXSession) Write(writes []CellWrite) error {
	if s.file == nil {
		return ErrNotOpen
	}
	for _, cw := range writes {
		if err := s.ensureSheet(cw.Sheet); err != nil {
			return err
		}
		cell := TopLeft(cw.Range)
		if err := s.file.SetCellValue(cw.Sheet, cell, cw.Value); err != nil {
			return fmt.Errorf("writing %s!%s: %w", cw.Sheet, cell, err)
		}
	}
	s.logger.Debug("cells written", zap.Int("count", len(writes)))
	return nil
}

// Read returns the formatted value of one cell.
func (s *XLSXSession) Read(sheet, cell string) (string, error) {
	if s.file == nil {
		return "", ErrNotOpen
	}
	v, err := s.file.GetCellValue(sheet, TopLeft(cell))
	if err != nil {
		return "", fmt.Errorf("reading %s!%s: %w", sheet, cell, err)
	}
	return v, nil
}

func (s *XLSXSession) ensureSheet(name string) error {
	idx, err := s.file.GetSheetIndex(name)
	if err != nil {
		return fmt.Errorf("sheet %q: %w", name, err)
	}
	if idx >= 0 {
		return nil
	}
	if _, err := s.file.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %q: %w", name, err)
	}
	s.logger.Debug("sheet created", zap.String("sheet", name))
	return nil
}

// MemorySession records writes in memory. It stands in for a workbook in
// dry runs and tests.
type MemorySession struct {
	open   bool
	Writes []CellWrite
	cells  map[string]string
}

func (m *MemorySession) Open() error {
	m.open = true
	if m.cells == nil {
		m.cells = map[string]string{}
	}
	return nil
}

func (m *MemorySession) Close() error {
	m.open = false
	return nil
}

func (m *MemorySession) Write(writes []CellWrite) error {
	if !m.open {
		return ErrNotOpen
	}
	for _, cw := range writes {
		m.cells[cw.Sheet+"!"+TopLeft(cw.Range)] = fmt.Sprint(cw.Value)
	}
	m.Writes = append(m.Writes, writes...)
	return nil
}

func (m *MemorySession) Read(sheet, cell string) (string, error) {
	if !m.open {
		return "", ErrNotOpen
	}
	return m.cells[sheet+"!"+TopLeft(cell)], nil
}
