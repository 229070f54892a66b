package profile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Emitter serializes the validated dataset into the pretty and minified
// JSON files. Output is all-or-nothing: Cleanup removes the previous run's
// files before the crawl starts, and Emit only runs after validation
// succeeds, so a failed run never leaves stale output that claims success.
type Emitter struct {
	jsonPath    string
	minJSONPath string
	logger      *zap.Logger
}

// NewEmitter returns an emitter writing to the given file paths.
func NewEmitter(jsonPath, minJSONPath string, logger *zap.Logger) *Emitter {
	return &Emitter{
		jsonPath:    jsonPath,
		minJSONPath: minJSONPath,
		logger:      logger,
	}
}

// Cleanup removes any output left over from a previous run.
func (e *Emitter) Cleanup() error {
	for _, path := range []string{e.jsonPath, e.minJSONPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove stale output %s: %w", path, err)
		}
	}
	return nil
}

// Emit writes both encodings. Keys come out sorted because the record
// structs declare their fields in tag order; non-ASCII text is preserved
// literally.
func (e *Emitter) Emit(p *Profiles) error {
	pretty, err := encodeProfiles(p, "  ")
	if err != nil {
		return err
	}
	minified, err := encodeProfiles(p, "")
	if err != nil {
		return err
	}
	if err := os.WriteFile(e.jsonPath, pretty, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", e.jsonPath, err)
	}
	if err := os.WriteFile(e.minJSONPath, minified, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", e.minJSONPath, err)
	}
	e.logger.Info("Dataset written",
		zap.String("json", e.jsonPath),
		zap.String("min_json", e.minJSONPath),
		zap.Int("idols", len(p.Idols)),
		zap.Int("groups", len(p.Groups)),
	)
	return nil
}

func encodeProfiles(p *Profiles, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encode profiles: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
