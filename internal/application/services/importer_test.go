package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Yash-Thio/IETE-ToDo/internal/domain/entities"
	"github.com/Yash-Thio/IETE-ToDo/internal/infrastructure/logger"
	"github.com/Yash-Thio/IETE-ToDo/internal/testutil"
)

func newTestImporter(gw *testutil.FakeGateway) *Importer {
	agg := newTestAggregator(gw)
	return NewImporter(NewListService(gw.Lists(), logger.NewNop()), agg, logger.NewNop())
}

const sampleImport = `
lists:
  - name: Groceries
    tasks:
      - title: milk
        due_date: 2024-03-15
        flagged: true
      - title: eggs
        completed: true
  - name: Work
    tasks:
      - title: report
        description: quarterly numbers
        due_date: "2024-03-20T09:00:00Z"
`

func TestImportYAML(t *testing.T) {
	gw := testutil.NewFakeGateway()
	imp := newTestImporter(gw)
	ctx := context.Background()

	result, err := imp.ImportYAML(ctx, testUser, strings.NewReader(sampleImport))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Lists != 2 || result.Tasks != 3 {
		t.Fatalf("result = %+v", result)
	}

	byTitle := map[string]entities.Task{}
	for _, task := range gw.AllTasks() {
		byTitle[task.Title] = task
	}

	milk := byTitle["milk"]
	if !milk.Flagged || milk.DueDate == nil || !milk.DueDate.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected milk: %+v", milk)
	}
	if !byTitle["eggs"].Completed {
		t.Fatal("eggs should be completed")
	}
	report := byTitle["report"]
	if report.Description != "quarterly numbers" || report.DueDate == nil || report.DueDate.Hour() != 9 {
		t.Fatalf("unexpected report: %+v", report)
	}

	counts, err := newTestAggregator(gw).ComputeSummaryCounts(ctx, testUser, nil)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	want := entities.SummaryCounts{Today: 1, Scheduled: 2, All: 2, Flagged: 1, Completed: 1}
	if counts != want {
		t.Fatalf("counts = %+v, want %+v", counts, want)
	}
}

func TestImportYAML_RejectsBeforeWriting(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "empty title",
			doc:     "lists:\n  - name: A\n    tasks:\n      - title: ok\n      - title: \"  \"\n",
			wantErr: entities.ErrEmptyTitle,
		},
		{
			name: "bad due date",
			doc:  "lists:\n  - name: A\n    tasks:\n      - title: ok\n        due_date: tomorrow\n",
		},
		{
			name: "missing list name",
			doc:  "lists:\n  - tasks:\n      - title: ok\n",
		},
		{
			name: "unknown field",
			doc:  "lists:\n  - name: A\n    colour: red\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := testutil.NewFakeGateway()
			imp := newTestImporter(gw)

			_, err := imp.ImportYAML(context.Background(), testUser, strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if gw.Calls() != 0 {
				t.Fatalf("expected no gateway calls, got %d", gw.Calls())
			}
		})
	}
}

func TestImportYAML_RejectsMultipleDocuments(t *testing.T) {
	gw := testutil.NewFakeGateway()
	imp := newTestImporter(gw)

	doc := `lists:
  - name: Groceries
    tasks:
      - title: milk
---
lists:
  - name: Hidden
    tasks:
      - title: never imported
`
	_, err := imp.ImportYAML(context.Background(), testUser, strings.NewReader(doc))
	if !errors.Is(err, ErrMultipleDocuments) {
		t.Fatalf("expected ErrMultipleDocuments, got %v", err)
	}
	if gw.Calls() != 0 {
		t.Fatalf("expected no writes, got %d gateway calls", gw.Calls())
	}

	// A leading document marker is still a single document.
	result, err := imp.ImportYAML(context.Background(), testUser, strings.NewReader("---\n"+strings.SplitN(doc, "---\n", 2)[0]))
	if err != nil {
		t.Fatalf("single document with marker: %v", err)
	}
	if result.Lists != 1 || result.Tasks != 1 {
		t.Fatalf("result = %+v", result)
	}
}

func TestImportYAML_EmptyDocument(t *testing.T) {
	gw := testutil.NewFakeGateway()
	imp := newTestImporter(gw)

	result, err := imp.ImportYAML(context.Background(), testUser, strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Lists != 0 || result.Tasks != 0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestImportYAML_NotAuthenticated(t *testing.T) {
	imp := newTestImporter(testutil.NewFakeGateway())
	if _, err := imp.ImportYAML(context.Background(), "", strings.NewReader(sampleImport)); !errors.Is(err, entities.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
