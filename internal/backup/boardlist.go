package backup

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/hoshizora/mirovault/internal/domain"
)

// Board list CSV columns. The backup step only requires board_id; name is
// used for nicer progress logging when present.
const (
	colName      = "name"
	colBoardID   = "board_id"
	colCreatedAt = "created_at"
	colViewLink  = "view_link"
)

// ErrNoBoardIDColumn is returned for CSV files missing the board_id column.
var ErrNoBoardIDColumn = errors.New("backup: board list has no board_id column")

// BoardListEntry is one row read from a board list CSV.
type BoardListEntry struct {
	BoardID string
	Name    string
}

func (e BoardListEntry) displayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.BoardID
}

// Lister writes the board listing CSV consumed by the backup step.
type Lister struct {
	source BoardSource
	log    zerolog.Logger
}

// NewLister creates a lister over the given API source.
func NewLister(source BoardSource, log zerolog.Logger) *Lister {
	return &Lister{source: source, log: log}
}

// Run fetches all reachable boards and writes them to path, sorted by
// name. It returns the number of boards written.
func (l *Lister) Run(ctx context.Context, path string) (int, error) {
	boards, err := l.source.ListBoards(ctx)
	if err != nil {
		return 0, fmt.Errorf("backup.Lister.Run: %w", err)
	}

	summaries := make([]domain.BoardSummary, 0, len(boards))
	for _, b := range boards {
		summaries = append(summaries, domain.BoardSummary{
			ID:        b.ID,
			Name:      b.Name,
			CreatedAt: b.CreatedAt,
			ViewLink:  b.ViewLink,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })

	if err := WriteBoardList(path, summaries); err != nil {
		return 0, fmt.Errorf("backup.Lister.Run: %w", err)
	}

	l.log.Info().Int("boards", len(summaries)).Str("path", path).Msg("board list written")
	return len(summaries), nil
}

// WriteBoardList writes board summaries as a CSV with a header row.
func WriteBoardList(path string, boards []domain.BoardSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("backup.WriteBoardList: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{colName, colBoardID, colCreatedAt, colViewLink}); err != nil {
		return fmt.Errorf("backup.WriteBoardList: header: %w", err)
	}
	for _, b := range boards {
		createdAt := ""
		if !b.CreatedAt.IsZero() {
			createdAt = b.CreatedAt.Format(time.RFC3339)
		}
		if err := w.Write([]string{b.Name, b.ID, createdAt, b.ViewLink}); err != nil {
			return fmt.Errorf("backup.WriteBoardList: row %s: %w", b.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("backup.WriteBoardList: flush: %w", err)
	}
	return f.Close()
}

// ReadBoardList parses a board list CSV. The board_id column is required,
// name is optional, all other columns are ignored. Rows with an empty
// board_id are dropped.
func ReadBoardList(path string) ([]BoardListEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("backup.ReadBoardList: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("backup.ReadBoardList: parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("backup.ReadBoardList: %s: %w", path, ErrNoBoardIDColumn)
	}

	idCol, nameCol := -1, -1
	for i, h := range records[0] {
		switch h {
		case colBoardID:
			idCol = i
		case colName:
			nameCol = i
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("backup.ReadBoardList: %s: %w", path, ErrNoBoardIDColumn)
	}

	entries := make([]BoardListEntry, 0, len(records)-1)
	for _, rec := range records[1:] {
		if idCol >= len(rec) || rec[idCol] == "" {
			continue
		}
		e := BoardListEntry{BoardID: rec[idCol]}
		if nameCol >= 0 && nameCol < len(rec) {
			e.Name = rec[nameCol]
		}
		entries = append(entries, e)
	}

	return entries, nil
}
