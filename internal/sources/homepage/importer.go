package homepage

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
	"github.com/MrSnakeDoc/linkbot/internal/store"
)

// ResourceWriter is the subset of the store an import needs
type ResourceWriter interface {
	FindDuplicate(ctx context.Context, rawURL string) (*domain.Resource, bool, error)
	AddResource(ctx context.Context, in store.AddResourceInput) (store.AddResult, error)
}

// Report summarises an import run
type Report struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Invalid int `json:"invalid"`
}

// Importer loads a Homepage file and submits every entry to the store
type Importer struct {
	loader *Loader
	format Format
	mapper *Mapper
	store  ResourceWriter
	logger logger.Logger

	// Overwrite resubmits links already stored; otherwise they are skipped
	Overwrite bool
}

// NewImporter creates an importer for one file
func NewImporter(path string, format Format, w ResourceWriter, log logger.Logger) *Importer {
	return &Importer{
		loader: NewLoader(path),
		format: format,
		mapper: NewMapper("homepage"),
		store:  w,
		logger: log,
	}
}

// Import reads the file and submits its entries.
// Invalid entries are counted and logged; store I/O errors abort the run.
func (im *Importer) Import(ctx context.Context) (Report, error) {
	inputs, err := im.load()
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, in := range inputs {
		if !im.Overwrite {
			_, exists, err := im.store.FindDuplicate(ctx, in.URL)
			if err != nil {
				return report, err
			}
			if exists {
				report.Skipped++
				continue
			}
		}

		res, err := im.store.AddResource(ctx, in)
		if errors.Is(err, domain.ErrValidation) {
			report.Invalid++
			im.logger.Warn("skipping invalid homepage entry",
				logger.String("url", in.URL),
				logger.Error(err))
			continue
		}
		if err != nil {
			return report, err
		}

		if res.Action == store.ActionAdded {
			report.Added++
		} else {
			report.Updated++
		}
	}

	im.logger.Info("homepage import completed",
		logger.String("file", im.loader.Path()),
		logger.Int("added", report.Added),
		logger.Int("updated", report.Updated),
		logger.Int("skipped", report.Skipped),
		logger.Int("invalid", report.Invalid))
	return report, nil
}

func (im *Importer) load() ([]store.AddResourceInput, error) {
	switch im.format {
	case FormatServices:
		config, err := im.loader.LoadServices()
		if err != nil {
			return nil, err
		}
		return im.mapper.MapServices(config)
	case FormatBookmarks:
		config, err := im.loader.LoadBookmarks()
		if err != nil {
			return nil, err
		}
		return im.mapper.MapBookmarks(config)
	default:
		return nil, fmt.Errorf("unknown homepage format %q", im.format)
	}
}
