package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Storage uploads finished sweep results to a libsql database so runs from
// different hosts land in one place. It is opt-in: an empty Url disables it.
type Storage struct {
	Url       string
	AuthToken string
}

func (s *Storage) Connect() (*sql.DB, error) {
	url := s.Url
	if s.AuthToken != "" {
		url = fmt.Sprintf("%v?authToken=%v", s.Url, s.AuthToken)
	}
	return sql.Open("libsql", url)
}

func (s *Storage) InitResultsDb(db *sql.DB, meta map[string]any) error {
	_, err := db.Exec("CREATE TABLE IF NOT EXISTS parameters (name TEXT PRIMARY KEY, value)")
	if err != nil {
		return err
	}
	parameters := make([]any, 0)
	parameters = append(parameters, "time", time.Now().Format("2006-01-02 15:04:05"))
	for key, value := range meta {
		parameters = append(parameters, key, fmt.Sprintf("%v", value))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("(?, ?), ", len(parameters)/2), ", ")
	_, err = db.Exec(
		fmt.Sprintf("INSERT INTO parameters VALUES %v ON CONFLICT DO NOTHING", placeholders),
		parameters...,
	)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS measurements (
		compiler TEXT,
		suite TEXT,
		dtype TEXT,
		device TEXT,
		mode TEXT,
		name TEXT,
		speedup REAL,
		PRIMARY KEY (compiler, suite, dtype, device, mode, name)
	)`)
	if err != nil {
		return err
	}
	Logger.Infof("initialized results database with meta %v", meta)
	return nil
}

func (s *Storage) UploadMeasurements(db *sql.DB, measurements []Measurement) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	for _, m := range measurements {
		_, err = tx.Exec(
			"INSERT INTO measurements VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT DO UPDATE SET speedup = excluded.speedup",
			m.Compiler,
			m.Suite,
			m.Dtype,
			m.Device,
			m.Mode,
			m.Name,
			m.Speedup,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UploadResults is the single entry point used after a sweep: connect,
// ensure the schema, and push everything in one transaction.
func (s *Storage) UploadResults(info SysInfo, measurements []Measurement) error {
	db, err := s.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to results db: %w", err)
	}
	defer db.Close()

	err = s.InitResultsDb(db, map[string]any{
		"arch":     info.Arch,
		"hostname": info.Hostname,
		"platform": info.Platform,
		"ram":      info.RAM,
		"cpu":      info.CPUCount,
		"freq":     info.CPUFreq,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize results db: %w", err)
	}
	err = s.UploadMeasurements(db, measurements)
	if err != nil {
		return fmt.Errorf("failed to upload %v measurements: %w", len(measurements), err)
	}
	Logger.Infof("uploaded %v measurements", len(measurements))
	return nil
}
