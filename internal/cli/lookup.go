package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/runnerr0/badman-archive/internal/archive"
)

// Execute implements the go-flags Commander interface for CiteCommand.
func (c *CiteCommand) Execute(args []string) error {
	if c.Key == "" {
		return fmt.Errorf("--key is required")
	}
	return withEnv(c.globals, c.executeWith)
}

func (c *CiteCommand) executeWith(_ context.Context, e *env) error {
	key, err := strconv.Atoi(c.Key)
	if err != nil {
		return fmt.Errorf("--key must be an integer, got %q", c.Key)
	}
	f, err := e.citationFormat(c.Format)
	if err != nil {
		return err
	}

	cit, found := e.svc.LookupCitation(key)
	out := citationJSON{Key: key, Found: found, Text: e.renderer.Citation(cit, found, f, c.Full)}

	if jsonOutput(c.globals) {
		return printJSON(out)
	}
	fmt.Println(out.Text)
	return nil
}

type scoreJSON struct {
	Total      int      `json:"total"`
	Max        int      `json:"max"`
	OutOfRange []string `json:"out_of_range,omitempty"`
}

// Execute implements the go-flags Commander interface for ScoreCommand.
// It needs no archive data, so no environment is opened.
func (c *ScoreCommand) Execute(args []string) error {
	if c.File == "" {
		return fmt.Errorf("--file is required")
	}
	return c.run()
}

func (c *ScoreCommand) run() error {
	rec, err := c.readRecord()
	if err != nil {
		return err
	}

	total, err := archive.ComputeBadmanScore(rec)
	if err != nil {
		var missing *archive.MissingCriterionError
		if errors.As(err, &missing) && jsonOutput(c.globals) {
			_ = printJSON(map[string]string{"error": err.Error(), "criterion": missing.Criterion})
		}
		return err
	}
	outOfRange := rec.OutOfRange()

	if jsonOutput(c.globals) {
		return printJSON(scoreJSON{Total: total, Max: archive.MaxBadmanScore, OutOfRange: outOfRange})
	}

	fmt.Printf("Badman score: %d/%d\n", total, archive.MaxBadmanScore)
	if len(outOfRange) > 0 {
		fmt.Printf("Warning: outside 0-%d: %s\n", archive.MaxCriterionScore, strings.Join(outOfRange, ", "))
	}
	return nil
}

// readRecord decodes the score record from --file. Files ending in .yaml
// or .yml are read as YAML, everything else (stdin included) as JSON.
func (c *ScoreCommand) readRecord() (archive.ScoreRecord, error) {
	var rec archive.ScoreRecord

	var data []byte
	var err error
	if c.File == "-" {
		in := c.stdin
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(c.File)
	}
	if err != nil {
		return rec, fmt.Errorf("read score record: %w", err)
	}

	switch strings.ToLower(filepath.Ext(c.File)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &rec)
	default:
		err = json.Unmarshal(data, &rec)
	}
	if err != nil {
		return rec, fmt.Errorf("decode score record: %w", err)
	}
	return rec, nil
}

// Execute implements the go-flags Commander interface for ColorCommand.
func (c *ColorCommand) Execute(args []string) error {
	if c.Modality == "" {
		return fmt.Errorf("--modality is required")
	}
	color := archive.ResolveModalityColor(c.Modality)
	if jsonOutput(c.globals) {
		return printJSON(map[string]string{"modality": c.Modality, "color": color})
	}
	fmt.Println(color)
	return nil
}

// Execute implements the go-flags Commander interface for LabelCommand.
func (c *LabelCommand) Execute(args []string) error {
	if c.Type == "" && !c.Meta {
		return fmt.Errorf("--type is required")
	}
	label := archive.FormatFigureType(c.Type, c.Meta)
	if jsonOutput(c.globals) {
		return printJSON(map[string]string{"type": c.Type, "label": label})
	}
	fmt.Println(label)
	return nil
}
