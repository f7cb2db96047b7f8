package feed

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/IrriGate2020/Verdureira-IrrigaPro-DashBoard/services/api/models"
)

// Source yields the raw table of one feed.
type Source interface {
	Name() string
	Load(ctx context.Context) (Table, error)
}

// ParseFunc converts a raw table into readings.
type ParseFunc func(Table) ([]models.Reading, error)

// FileSource reads a feed from a delimited file on disk.
type FileSource struct {
	Path string
}

// Name returns the file path.
func (s FileSource) Name() string {
	return s.Path
}

// Load opens and reads the file.
func (s FileSource) Load(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return Table{}, fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()
	return ReadTable(s.Path, f)
}

// LoadFeed loads and parses one feed. Any load or parse failure is logged and
// an empty feed is returned instead.
func LoadFeed(ctx context.Context, src Source, parse ParseFunc) []models.Reading {
	table, err := src.Load(ctx)
	if err != nil {
		log.Printf("feed %s: load failed, using empty dataset: %v", src.Name(), err)
		return nil
	}
	if table.Name == "" {
		table.Name = src.Name()
	}
	readings, err := parse(table)
	if err != nil {
		log.Printf("feed %s: parse failed, using empty dataset: %v", src.Name(), err)
		return nil
	}
	log.Printf("feed %s: parsed %d readings", src.Name(), len(readings))
	return readings
}
