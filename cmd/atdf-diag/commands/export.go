package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/chipdesc/atdf-go/pkg/log"
)

// jsonEvent is the JSONL shape of an event, with enums as names.
type jsonEvent struct {
	Timestamp string `json:"timestamp"`
	SessionID string `json:"session_id,omitempty"`
	Severity  string `json:"severity"`
	Stage     string `json:"stage"`
	Source    string `json:"source,omitempty"`
	Element   string `json:"element,omitempty"`
	Path      string `json:"path,omitempty"`
	Line      int    `json:"line,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Message   string `json:"message"`
}

func toJSONEvent(e log.Event) jsonEvent {
	j := jsonEvent{
		Timestamp: e.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		SessionID: e.SessionID,
		Severity:  e.Severity.String(),
		Stage:     e.Stage.String(),
		Source:    e.Source,
		Attribute: e.Attribute,
		Kind:      e.Kind,
		Message:   e.Message,
	}
	if e.Element != nil {
		j.Element = e.Element.Name
		j.Path = e.Element.Path
		j.Line = e.Element.Line
	}
	return j
}

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toJSONEvent(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "session_id", "severity", "stage", "source", "path", "line", "attribute", "kind", "message"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		j := toJSONEvent(event)
		line := ""
		if j.Line > 0 {
			line = strconv.Itoa(j.Line)
		}
		row := []string{j.Timestamp, j.SessionID, j.Severity, j.Stage, j.Source, j.Path, line, j.Attribute, j.Kind, j.Message}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
