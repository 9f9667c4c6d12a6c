package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"go.uber.org/zap"

	"github.com/goliatone/go-barber/pkg/model"
)

// Option configures LoadFS.
type Option func(*config)

type config struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// LoadFS walks fsys in lexical order and returns the document copies
// declared by every .yaml, .yml, .json and .hcl file. Other files are
// ignored. A copy model declared twice fails with both file names.
func LoadFS(fsys fs.FS, opts ...Option) ([]model.DocumentCopy, error) {
	cfg := config{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if fsys == nil {
		return nil, nil
	}

	var (
		copies []model.DocumentCopy
		origin = make(map[model.TypeID]string)
		parser = hclparse.NewParser()
	)

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		format := formatOf(path)
		if format == "" {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("loader: read %s: %w", path, err)
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			return fmt.Errorf("loader: file %s is empty", path)
		}

		var doc manifest
		if format == "hcl" {
			doc, err = parseHCL(parser, path, data)
		} else {
			doc, err = parseYAML(path, data)
		}
		if err != nil {
			return err
		}
		if err := checkVersion(path, doc.APIVersion); err != nil {
			return err
		}

		found := doc.documentCopies(path)
		for _, dc := range found {
			if prior, exists := origin[dc.Source]; exists {
				return fmt.Errorf("loader: copy model %q declared in %s and %s", dc.Source, prior, path)
			}
			origin[dc.Source] = path
		}
		copies = append(copies, found...)

		cfg.logger.Debug("loaded document copies",
			zap.String("file", path),
			zap.String("format", format),
			zap.Int("copies", len(found)),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copies, nil
}

// LoadDir is LoadFS over a directory on disk.
func LoadDir(dir string, opts ...Option) ([]model.DocumentCopy, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("loader: %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir), opts...)
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".hcl":
		return "hcl"
	default:
		return ""
	}
}
