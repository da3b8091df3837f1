package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"positive-area/internal/logger"
	"positive-area/internal/models"
	"positive-area/internal/pyramid"
	"positive-area/internal/workbook"
)

const missingTissueChannel = "Channel #2 is required for tissue region definition but not found in 'Thresholds' sheet"

// Validator checks a specification workbook and the image it references.
// Checks run in dependency order and stop at the first class of problem
// that makes later checks meaningless.
type Validator struct {
	Level      int
	ReaderName string
	Openers    *pyramid.Registry
	logger     logger.Logger
}

func NewValidator(level int, readerName string, openers *pyramid.Registry, log logger.Logger) *Validator {
	return &Validator{
		Level:      level,
		ReaderName: readerName,
		Openers:    openers,
		logger:     log,
	}
}

// Validate returns user-facing problem descriptions; an empty list means
// the specification can be processed. Host failures are folded into the
// list.
func (v *Validator) Validate(path string) []string {
	problems, err := v.ValidateE(path)
	if err != nil {
		v.logger.Error("SpecValidator", err, map[string]interface{}{
			"path": path,
		})
		problems = append(problems, fmt.Sprintf("Unexpected error: %v", err))
	}
	return problems
}

// ValidateE is Validate with unexpected host failures, such as permission
// errors, returned separately.
func (v *Validator) ValidateE(path string) ([]string, error) {
	v.logger.Debug("SpecValidator", "validation started", map[string]interface{}{
		"path": path,
	})

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{fmt.Sprintf("File does not exist: %s", path)}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	wb, err := workbook.Open(path)
	if err != nil {
		return []string{fmt.Sprintf("Cannot read Excel file: %v", err)}, nil
	}
	defer wb.Close()

	doc, problems := readSheets(wb)
	if len(problems) > 0 {
		return problems, nil
	}

	slide, problems := parseSlide(doc.files, path)
	if len(problems) > 0 {
		return problems, nil
	}
	if _, err := os.Stat(slide.ImagePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{fmt.Sprintf("Image file does not exist: %s", slide.ImagePath)}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", slide.ImagePath, err)
	}

	open, err := v.Openers.Opener(v.ReaderName)
	if err != nil {
		return []string{fmt.Sprintf("Cannot load image reader '%s': %v", v.ReaderName, err)}, nil
	}
	reader, err := open(slide.ImagePath)
	if err != nil {
		return []string{fmt.Sprintf("Cannot read image file: %v", err)}, nil
	}
	defer reader.Close()

	parsed := parseThresholds(doc.thresholds)
	problems = parsed.problems
	if parsed.table == nil {
		return problems, nil
	}
	if !slices.Contains(parsed.channels, models.TissueChannel) {
		return append(problems, missingTissueChannel), nil
	}

	n, err := reader.ChannelCount(v.Level)
	if err != nil {
		if errors.Is(err, pyramid.ErrLevelUnavailable) {
			return append(problems, fmt.Sprintf("Image does not have pyramid level %d", v.Level)), nil
		}
		return append(problems, fmt.Sprintf("Cannot read image file: %v", err)), nil
	}
	for _, c := range parsed.channels {
		if c < 1 || c > n {
			problems = append(problems, fmt.Sprintf("Channel # %d is invalid (image has %d channels: 1-%d)", c, n, n))
		}
	}

	v.logger.Debug("SpecValidator", "validation finished", map[string]interface{}{
		"path":     path,
		"problems": len(problems),
		"channels": n,
	})
	return problems, nil
}
