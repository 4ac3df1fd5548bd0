package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/ChicagoDave/phppkit/internal/logging"
	"github.com/ChicagoDave/phppkit/internal/takeoff"
	"github.com/ChicagoDave/phppkit/pkg/metadata"
	"github.com/ChicagoDave/phppkit/pkg/spec"
	"github.com/ChicagoDave/phppkit/pkg/workbook"
)

type exportOptions struct {
	workbook string
	layout   string
	dryRun   bool
	store    bool
}

// run loads the project and executes the pipeline.
func (a *app) run(projectPath, layoutPath string) (*takeoff.Result, error) {
	p, err := spec.LoadProject(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	layout, err := a.layout(layoutPath)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := takeoff.Run(p, takeoff.Options{Layout: layout})
	a.metrics.ObserveRun(res.Validation, res.Cells, time.Since(start))
	logging.Report(a.logger, res.Validation)
	return res, nil
}

// layout resolves the flag, then the environment, then the default.
func (a *app) layout(flag string) (*workbook.Layout, error) {
	path := flag
	if path == "" {
		path = a.cfg.Workbook.Layout
	}
	if path == "" {
		return nil, nil
	}
	l, err := workbook.LoadLayout(path)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// store picks Redis when an address is configured and memory otherwise.
// store opens the configured metadata store. The returned func releases
// its connection and must be called once the store is no longer used.
func (a *app) store() (metadata.Store, func() error) {
	rc := a.cfg.Redis
	if rc.Addr == "" {
		return metadata.NewMemoryStore(), func() error { return nil }
	}
	client := redis.NewClient(&redis.Options{Addr: rc.Addr, DB: rc.DB})
	return metadata.NewRedisStore(client, rc.Prefix, rc.Timeout, a.logger), client.Close
}

func (a *app) runTakeoff(projectPath string, asJSON bool) error {
	res, err := a.run(projectPath, "")
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(os.Stdout, res)
	}
	printTakeoff(os.Stdout, res)
	fmt.Println()
	printValidationReport(os.Stdout, res.Validation)
	return nil
}

func (a *app) runValidate(projectPath string) error {
	res, err := a.run(projectPath, "")
	if err != nil {
		return err
	}

	printValidationReport(os.Stdout, res.Validation)

	if !res.Validation.Valid {
		os.Exit(1)
	}
	return nil
}

func (a *app) runCells(projectPath, layoutPath string) error {
	res, err := a.run(projectPath, layoutPath)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, res.Cells)
}

func (a *app) runExport(projectPath string, opts exportOptions) error {
	res, err := a.run(projectPath, opts.layout)
	if err != nil {
		return err
	}
	if !res.Validation.Valid {
		printValidationReport(os.Stdout, res.Validation)
		return fmt.Errorf("project has validation errors; fix before exporting")
	}

	path := opts.workbook
	if path == "" {
		path = a.cfg.Workbook.Path
	}
	var session workbook.Session
	switch {
	case opts.dryRun:
		session = &workbook.MemorySession{}
	case path == "":
		return fmt.Errorf("no workbook: pass --workbook or set PHPPKIT_WORKBOOK")
	default:
		session = workbook.NewXLSXSession(path, a.logger)
	}

	if err := export(session, res.Cells); err != nil {
		return err
	}
	if ms, ok := session.(*workbook.MemorySession); ok {
		if err := writeJSON(os.Stdout, ms.Writes); err != nil {
			return err
		}
	} else {
		fmt.Printf("Wrote %d cells to %s (%s)\n", len(res.Cells), path, res.Validation.Summary)
	}

	if opts.store {
		store, closeStore := a.store()
		defer func() {
			if err := closeStore(); err != nil {
				a.logger.Warn("closing metadata store", zap.Error(err))
			}
		}()
		keys, err := takeoff.Save(context.Background(), store, res)
		if err != nil {
			return err
		}
		a.logger.Info("metadata stored", zap.Strings("keys", keys))
	}
	return nil
}

// export writes cells through an explicitly opened session. The session is
// closed even when a write fails.
func export(s workbook.Session, cells []workbook.CellWrite) (err error) {
	if err := s.Open(); err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return s.Write(cells)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
