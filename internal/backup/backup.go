// Package backup orchestrates the two steps of the tool: listing boards
// into a CSV, and turning each listed board into one validated JSON
// archive document.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hoshizora/mirovault/internal/domain"
)

// BoardSource is the read surface of the remote API the backup needs.
type BoardSource interface {
	ListBoards(ctx context.Context) ([]domain.Board, error)
	GetBoard(ctx context.Context, boardID string) (*domain.Board, error)
	ListItems(ctx context.Context, boardID string) ([]domain.Item, error)
	ListConnectors(ctx context.Context, boardID string) ([]domain.Connector, error)
}

// Archive is a sink for finished backup documents. Store returns a
// human-readable location (file path, object URL).
type Archive interface {
	Store(ctx context.Context, name string, data []byte) (string, error)
}

// DocumentValidator is the schema gate applied to serialized documents.
type DocumentValidator interface {
	Validate(doc []byte) error
}

// Service backs up boards one at a time. Every document passes snapshot
// validation and the schema gate before it reaches any archive.
type Service struct {
	source    BoardSource
	archives  []Archive
	validator DocumentValidator
	now       func() time.Time
	log       zerolog.Logger
}

// NewService wires a backup service. At least one archive is required.
func NewService(source BoardSource, validator DocumentValidator, archives []Archive, log zerolog.Logger) (*Service, error) {
	if len(archives) == 0 {
		return nil, fmt.Errorf("backup.NewService: no archive configured")
	}
	return &Service{
		source:    source,
		archives:  archives,
		validator: validator,
		now:       time.Now,
		log:       log,
	}, nil
}

// BackupBoard fetches one board with its items and connectors, assembles
// the snapshot document, and stores it in every configured archive.
// It returns the location reported by the first archive.
func (s *Service) BackupBoard(ctx context.Context, boardID, boardName string) (string, error) {
	board, err := s.source.GetBoard(ctx, boardID)
	if err != nil {
		return "", fmt.Errorf("backup.Service.BackupBoard: board info: %w", err)
	}
	if boardName == "" {
		boardName = board.Name
	}
	s.log.Info().Str("board", boardName).Str("board_id", boardID).Msg("board info fetched")

	items, err := s.source.ListItems(ctx, boardID)
	if err != nil {
		return "", fmt.Errorf("backup.Service.BackupBoard: items: %w", err)
	}
	s.log.Info().Str("board_id", boardID).Int("items", len(items)).Msg("items fetched")

	connectors, err := s.source.ListConnectors(ctx, boardID)
	if err != nil {
		return "", fmt.Errorf("backup.Service.BackupBoard: connectors: %w", err)
	}
	s.log.Info().Str("board_id", boardID).Int("connectors", len(connectors)).Msg("connectors fetched")

	at := s.now()
	snap := domain.NewSnapshot(*board, items, connectors, at)
	if err := snap.Validate(); err != nil {
		return "", fmt.Errorf("backup.Service.BackupBoard: snapshot invalid: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("backup.Service.BackupBoard: encode: %w", err)
	}

	if s.validator != nil {
		if err := s.validator.Validate(data); err != nil {
			return "", fmt.Errorf("backup.Service.BackupBoard: schema: %w", err)
		}
	}

	name := ArchiveName(boardID, at)

	var first string
	for _, a := range s.archives {
		loc, err := a.Store(ctx, name, data)
		if err != nil {
			return "", fmt.Errorf("backup.Service.BackupBoard: %w", err)
		}
		if first == "" {
			first = loc
		}
	}

	s.log.Info().Str("board_id", boardID).Str("location", first).Msg("backup complete")
	return first, nil
}

// Run backs up every listed board sequentially, sleeping interval between
// boards (but not after the last). A failing board is logged and skipped;
// Run reports how many boards succeeded and fails only when the context is
// canceled.
func (s *Service) Run(ctx context.Context, entries []BoardListEntry, interval time.Duration) (int, error) {
	runID := uuid.New()
	log := s.log.With().Stringer("run_id", runID).Logger()
	log.Info().Int("boards", len(entries)).Msg("backup run started")

	done := 0
	for i, e := range entries {
		log.Info().
			Str("board", e.displayName()).
			Str("progress", fmt.Sprintf("%d/%d", i+1, len(entries))).
			Msg("backing up board")

		if _, err := s.BackupBoard(ctx, e.BoardID, e.Name); err != nil {
			if ctx.Err() != nil {
				return done, fmt.Errorf("backup.Service.Run: %w", ctx.Err())
			}
			log.Error().Err(err).Str("board", e.displayName()).Msg("board backup failed, skipping")
			continue
		}
		done++

		if i < len(entries)-1 && interval > 0 {
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return done, fmt.Errorf("backup.Service.Run: %w", ctx.Err())
			}
		}
	}

	log.Info().Int("succeeded", done).Int("boards", len(entries)).Msg("backup run finished")
	return done, nil
}

// ArchiveName builds the document file name, backup_<boardID>_<timestamp>.json.
// Board identifiers may contain characters unfit for file names; those are
// replaced before use.
func ArchiveName(boardID string, at time.Time) string {
	return fmt.Sprintf("backup_%s_%s.json", sanitizeID(boardID), at.Format("20060102_150405"))
}

func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '=' || r == '.':
			return r
		default:
			return '-'
		}
	}, id)
}
