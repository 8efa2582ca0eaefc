package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/logger"
	"github.com/Yash-Thio/IETE-ToDo/internal/ports"
)

// ImportDocument is the YAML layout accepted by the importer.
//
//	lists:
//	  - name: Groceries
//	    tasks:
//	      - title: milk
//	        due_date: 2024-05-01
//	        flagged: true
type ImportDocument struct {
	Lists []ImportList `yaml:"lists"`
}

type ImportList struct {
	Name  string       `yaml:"name"`
	Tasks []ImportTask `yaml:"tasks"`
}

type ImportTask struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	DueDate     string `yaml:"due_date"`
	Flagged     bool   `yaml:"flagged"`
	Completed   bool   `yaml:"completed"`
}

// Importer bulk-loads lists and tasks from a YAML document
type Importer struct {
	lists      *ListService
	aggregator *TaskAggregator
	logger     *logger.Logger
}

// NewImporter creates a new importer
func NewImporter(lists *ListService, aggregator *TaskAggregator, logger *logger.Logger) *Importer {
	return &Importer{
		lists:      lists,
		aggregator: aggregator,
		logger:     logger.WithComponent("importer"),
	}
}

// ErrMultipleDocuments is returned when an import stream holds more than one
// YAML document.
var ErrMultipleDocuments = errors.New("import must contain a single YAML document")

// ImportYAML validates the whole document, then creates every list and task
// in it. Nothing is written when any entry is invalid.
func (i *Importer) ImportYAML(ctx context.Context, userID string, r io.Reader) (*ports.ImportResult, error) {
	if userID == "" {
		return nil, entities.ErrNotAuthenticated
	}

	var doc ImportDocument
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	switch err := dec.Decode(&doc); {
	case errors.Is(err, io.EOF):
	case err != nil:
		return nil, fmt.Errorf("failed to parse import document: %w", err)
	default:
		// Anything after a "---" separator would otherwise be dropped unread.
		var extra yaml.Node
		if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
			return nil, ErrMultipleDocuments
		}
	}

	dueDates, err := i.validate(doc)
	if err != nil {
		return nil, err
	}

	result := &ports.ImportResult{}
	for li, l := range doc.Lists {
		list, err := i.lists.CreateList(ctx, userID, l.Name)
		if err != nil {
			return result, fmt.Errorf("list %q: %w", l.Name, err)
		}
		result.Lists++

		for ti, t := range l.Tasks {
			id, err := i.aggregator.CreateTask(ctx, userID, ports.CreateTaskRequest{
				ListID:      list.ID,
				Title:       t.Title,
				Description: t.Description,
				DueDate:     dueDates[li][ti],
				Flagged:     t.Flagged,
			})
			if err != nil {
				return result, fmt.Errorf("list %q task %q: %w", l.Name, t.Title, err)
			}
			if t.Completed {
				if err := i.aggregator.SetTaskCompletion(ctx, userID, id, true); err != nil {
					return result, fmt.Errorf("list %q task %q: %w", l.Name, t.Title, err)
				}
			}
			result.Tasks++
		}
	}

	i.logger.LogUserAction(userID, "import", map[string]interface{}{
		"lists": result.Lists,
		"tasks": result.Tasks,
	})
	return result, nil
}

func (i *Importer) validate(doc ImportDocument) ([][]*time.Time, error) {
	loc := i.aggregator.Location()
	dueDates := make([][]*time.Time, len(doc.Lists))

	for li, l := range doc.Lists {
		if strings.TrimSpace(l.Name) == "" {
			return nil, fmt.Errorf("list %d: name is required", li+1)
		}
		dueDates[li] = make([]*time.Time, len(l.Tasks))
		for ti, t := range l.Tasks {
			if strings.TrimSpace(t.Title) == "" {
				return nil, fmt.Errorf("list %q task %d: %w", l.Name, ti+1, entities.ErrEmptyTitle)
			}
			due, err := parseDueDate(t.DueDate, loc)
			if err != nil {
				return nil, fmt.Errorf("list %q task %q: %w", l.Name, t.Title, err)
			}
			dueDates[li][ti] = due
		}
	}
	return dueDates, nil
}

// parseDueDate accepts YYYY-MM-DD (midnight in loc) or RFC 3339.
func parseDueDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return &t, nil
}
