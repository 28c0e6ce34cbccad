package view

import (
	"strconv"

	"github.com/ping-crm/dashboard/internal/models"
)

// Column describes one table column. Render, when set, replaces the default
// cell text (the record's JSON field named Key).
type Column[T any] struct {
	Key    string
	Label  string
	Render func(T) string
}

// TableConfig is the static description of a list page.
// Search is forwarded upstream by the caller; the table never filters rows.
// SearchKeys only document which fields the upstream search covers.
type TableConfig[T any] struct {
	Title             string
	Columns           []Column[T]
	SearchKeys        []string
	SearchPlaceholder string
	CreateLabel       string
	CreateHref        string
	BasePath          string
	RowHref           func(T) string
}

// TableState is the per-request input of a table.
type TableState struct {
	Search  string
	Loading bool
	Error   string
}

// TableMode is the mutually exclusive render state of a table.
type TableMode string

const (
	TableError   TableMode = "error"
	TableLoading TableMode = "loading"
	TableEmpty   TableMode = "empty"
	TableRows    TableMode = "rows"
)

// Row is one rendered record.
type Row struct {
	ID    int
	Href  string
	Cells []string
}

// Table is the template model of a list view.
type Table struct {
	Title             string
	Headers           []string
	Rows              []Row
	Mode              TableMode
	Error             string
	EmptyMessage      string
	Search            string
	SearchPlaceholder string
	SearchKeys        []string
	SearchAction      string
	ResetHref         string
	CreateLabel       string
	CreateHref        string
}

// NewTable renders items in input order. Error takes priority over loading,
// and loading over data: in either state no row is rendered.
func NewTable[T models.Entity](cfg TableConfig[T], items []T, state TableState) *Table {
	t := &Table{
		Title:             cfg.Title,
		Search:            state.Search,
		SearchPlaceholder: cfg.SearchPlaceholder,
		SearchKeys:        cfg.SearchKeys,
		SearchAction:      cfg.BasePath,
		ResetHref:         cfg.BasePath,
		CreateLabel:       cfg.CreateLabel,
		CreateHref:        cfg.CreateHref,
	}
	if t.SearchPlaceholder == "" {
		t.SearchPlaceholder = "Search..."
	}
	for _, c := range cfg.Columns {
		t.Headers = append(t.Headers, c.Label)
	}

	switch {
	case state.Error != "":
		t.Mode = TableError
		t.Error = state.Error
		return t
	case state.Loading:
		t.Mode = TableLoading
		return t
	case len(items) == 0:
		t.Mode = TableEmpty
		t.EmptyMessage = "No data available."
		if state.Search != "" {
			t.EmptyMessage = "No results found."
		}
		return t
	}

	rows := make([]Row, 0, len(items))
	for _, item := range items {
		row := Row{ID: item.GetID()}
		if cfg.RowHref != nil {
			row.Href = cfg.RowHref(item)
		}
		var values map[string]string
		for _, c := range cfg.Columns {
			if c.Render != nil {
				row.Cells = append(row.Cells, c.Render(item))
				continue
			}
			if values == nil {
				v, err := Values(item)
				if err != nil {
					// A row that cannot be encoded fails the table rather than rendering blank cells.
					t.Mode = TableError
					t.Error = Message(err)
					return t
				}
				values = v
			}
			row.Cells = append(row.Cells, values[c.Key])
		}
		rows = append(rows, row)
	}
	t.Mode = TableRows
	t.Rows = rows
	return t
}

// DetailHref returns base/id, the usual row link.
func DetailHref(base string, id int) string {
	return base + "/" + strconv.Itoa(id)
}
