package schwab

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
)

// SourcePaths are the files of the three broker exports. An empty path is an absent export.
type SourcePaths struct {
	Individual string
	Plan       string
	Realized   string
}

// LoadSources reads and decodes the exports found at paths.
//
// A missing file is an absent source, only logged. Any other error aborts the load.
func LoadSources(paths SourcePaths, log *zerolog.Logger) (Sources, error) {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	var src Sources
	var err error
	if src.Individual, err = loadFile(paths.Individual, IndividualSource, log, DecodeIndividual); err != nil {
		return Sources{}, err
	}
	if src.Plan, err = loadFile(paths.Plan, PlanSource, log, DecodePlan); err != nil {
		return Sources{}, err
	}
	if src.Realized, err = loadFile(paths.Realized, RealizedSource, log, DecodeRealizedGains); err != nil {
		return Sources{}, err
	}
	return src, nil
}

// loadFile decodes the file at path, or returns nil if it does not exist.
func loadFile[T any](path string, src Source, log *zerolog.Logger, decode func(io.Reader) ([]T, error)) ([]T, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("source", string(src)).Str("path", path).Msg("source file not found")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load error: could not open %q: %w", path, err)
	}
	defer f.Close()

	rows, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("load error: %q: %w", path, err)
	}
	if rows == nil {
		rows = []T{}
	}
	log.Debug().Str("source", string(src)).Str("path", path).Int("rows", len(rows)).Msg("source loaded")
	return rows, nil
}
