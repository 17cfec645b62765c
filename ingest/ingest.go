// Package ingest turns external data into layout scenarios
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/TFMV/forcegraph/models"
)

// ErrInvalidScenario is returned for input that cannot form a simple graph
var ErrInvalidScenario = errors.New("invalid scenario")

// DataProcessor defines the interface that all data processors must implement
type DataProcessor interface {
	// ProcessData takes raw data bytes and returns a scenario
	ProcessData(data []byte) (*models.Scenario, error)

	// GetName returns the name of the processor
	GetName() string
}

// JSONProcessor handles JSON data
type JSONProcessor struct{}

// NewJSONProcessor creates a new JSON processor
func NewJSONProcessor() *JSONProcessor {
	return &JSONProcessor{}
}

// GetName returns the name of the processor
func (p *JSONProcessor) GetName() string {
	return "JSON Processor"
}

// ProcessData processes JSON data. Edge weights are accepted and ignored
func (p *JSONProcessor) ProcessData(data []byte) (*models.Scenario, error) {
	var graphData struct {
		Name  string `json:"name"`
		Nodes []struct {
			ID string   `json:"id"`
			X  *float64 `json:"x"`
			Y  *float64 `json:"y"`
		} `json:"nodes"`
		Edges []struct {
			Source string  `json:"source"`
			Target string  `json:"target"`
			Weight float64 `json:"weight"`
		} `json:"edges"`
	}

	// Parse JSON data
	if err := json.Unmarshal(data, &graphData); err != nil {
		return nil, fmt.Errorf("%w: error parsing JSON: %v", ErrInvalidScenario, err)
	}

	name := graphData.Name
	if name == "" {
		name = "JSON Import"
	}
	scenario := models.NewScenario(name)

	for _, n := range graphData.Nodes {
		if err := scenario.AddNode(n.ID); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
		}
		switch {
		case n.X != nil && n.Y != nil:
			if err := scenario.SetPosition(n.ID, *n.X, *n.Y); err != nil {
				return nil, err
			}
		case n.X != nil || n.Y != nil:
			return nil, fmt.Errorf("%w: node %s has only one coordinate", ErrInvalidScenario, n.ID)
		}
	}

	for _, e := range graphData.Edges {
		if err := scenario.AddEdge(e.Source, e.Target); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
		}
	}

	if err := Validate(scenario); err != nil {
		return nil, err
	}
	return scenario, nil
}

// CSVProcessor handles CSV edge lists
type CSVProcessor struct{}

// NewCSVProcessor creates a new CSV processor
func NewCSVProcessor() *CSVProcessor {
	return &CSVProcessor{}
}

// GetName returns the name of the processor
func (p *CSVProcessor) GetName() string {
	return "CSV Processor"
}

// ProcessData processes CSV data. Nodes are created on first sight, in row order
func (p *CSVProcessor) ProcessData(data []byte) (*models.Scenario, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	// Find source and target columns
	sourceIdx, targetIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "source", "from", "src":
			sourceIdx = i
		case "target", "to", "dst":
			targetIdx = i
		}
	}

	if sourceIdx == -1 || targetIdx == -1 {
		return nil, fmt.Errorf("%w: CSV must contain source and target columns", ErrInvalidScenario)
	}

	scenario := models.NewScenario("CSV Import")

	// Process rows
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}
		line++

		if sourceIdx >= len(row) || targetIdx >= len(row) {
			return nil, fmt.Errorf("%w: row %d is missing source or target", ErrInvalidScenario, line)
		}
		if err := addLink(scenario, strings.TrimSpace(row[sourceIdx]), strings.TrimSpace(row[targetIdx])); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidScenario, line, err)
		}
	}

	if err := Validate(scenario); err != nil {
		return nil, err
	}
	return scenario, nil
}

// LogProcessor handles log data
type LogProcessor struct{}

// NewLogProcessor creates a new log processor
func NewLogProcessor() *LogProcessor {
	return &LogProcessor{}
}

// GetName returns the name of the processor
func (p *LogProcessor) GetName() string {
	return "Log Processor"
}

// Separators recognized between two node ids on a log line, tried in order
var logSeparators = []string{
	" -> ",
	" => ",
	" connected to ",
	" connects to ",
	" links to ",
	" linked to ",
	" - ",
}

// ProcessData processes log data.
// Each line is expected to hold one relationship, e.g. "A -> B" or
// "X connected to Y". Lines matching no pattern are skipped
func (p *LogProcessor) ProcessData(data []byte) (*models.Scenario, error) {
	scenario := models.NewScenario("Log Import")

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var sourceID, targetID string
		var found bool
		for _, sep := range logSeparators {
			parts := strings.Split(line, sep)
			if len(parts) == 2 {
				sourceID = strings.TrimSpace(parts[0])
				targetID = strings.TrimSpace(parts[1])
				found = sourceID != "" && targetID != ""
				break
			}
		}
		if !found {
			continue
		}

		if err := addLink(scenario, sourceID, targetID); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidScenario, i+1, err)
		}
	}

	if err := Validate(scenario); err != nil {
		return nil, err
	}
	return scenario, nil
}

// addLink creates missing endpoints, then links them
func addLink(s *models.Scenario, source, target string) error {
	for _, id := range []string{source, target} {
		if !s.HasNode(id) {
			if err := s.AddNode(id); err != nil {
				return err
			}
		}
	}
	return s.AddEdge(source, target)
}

// GetProcessor returns the appropriate processor for the given format
func GetProcessor(format string) (DataProcessor, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONProcessor(), nil
	case "csv":
		return NewCSVProcessor(), nil
	case "log", "txt":
		return NewLogProcessor(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// ProcessFile reads a file and picks a processor from its extension. The
// scenario is named after the file
func ProcessFile(path string) (*models.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	processor, err := GetProcessor(ext)
	if err != nil {
		return nil, err
	}

	scenario, err := processor.ProcessData(data)
	if err != nil {
		return nil, fmt.Errorf("error processing %s: %w", path, err)
	}
	scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return scenario, nil
}
