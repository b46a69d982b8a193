package domain

import (
	"fmt"
	"time"
)

// Metadata is the consistency record written alongside the captured arrays.
type Metadata struct {
	BackupDate      time.Time `json:"backup_date"`
	TotalItems      int       `json:"total_items"`
	TotalConnectors int       `json:"total_connectors"`
}

// Snapshot is the complete write-once backup document for one board.
type Snapshot struct {
	BoardInfo  Board       `json:"board_info"`
	Items      []Item      `json:"items"`
	Connectors []Connector `json:"connectors"`
	Metadata   Metadata    `json:"metadata"`
}

// NewSnapshot assembles a snapshot and fills metadata from the array
// lengths. Nil slices are normalized to empty so the document always
// serializes with JSON arrays.
func NewSnapshot(board Board, items []Item, connectors []Connector, at time.Time) *Snapshot {
	if items == nil {
		items = []Item{}
	}
	if connectors == nil {
		connectors = []Connector{}
	}
	return &Snapshot{
		BoardInfo:  board,
		Items:      items,
		Connectors: connectors,
		Metadata: Metadata{
			BackupDate:      at,
			TotalItems:      len(items),
			TotalConnectors: len(connectors),
		},
	}
}

// Validate checks the snapshot's internal consistency: metadata counts match
// the arrays, fixed type fields hold their declared values, and every
// connector endpoint resolves to an item captured in the same snapshot.
func (s *Snapshot) Validate() error {
	if s.BoardInfo.ID == "" {
		return fmt.Errorf("board_info: %w", ErrMissingBoard)
	}
	if s.BoardInfo.Type != TypeBoard {
		return fmt.Errorf("board_info.type %q: %w", s.BoardInfo.Type, ErrUnexpectedType)
	}
	if err := checkUserRefs(s.BoardInfo.CreatedBy, s.BoardInfo.ModifiedBy, s.BoardInfo.Owner); err != nil {
		return fmt.Errorf("board_info: %w", err)
	}

	if s.Metadata.TotalItems != len(s.Items) {
		return fmt.Errorf("total_items %d != %d items: %w",
			s.Metadata.TotalItems, len(s.Items), ErrCountMismatch)
	}
	if s.Metadata.TotalConnectors != len(s.Connectors) {
		return fmt.Errorf("total_connectors %d != %d connectors: %w",
			s.Metadata.TotalConnectors, len(s.Connectors), ErrCountMismatch)
	}

	itemIDs := make(map[string]struct{}, len(s.Items))
	for i, item := range s.Items {
		if item.ID == "" {
			return fmt.Errorf("items[%d]: %w", i, ErrMissingID)
		}
		if item.Type != TypeCard {
			return fmt.Errorf("items[%d].type %q: %w", i, item.Type, ErrUnexpectedType)
		}
		if err := checkUserRefs(item.CreatedBy, item.ModifiedBy); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
		itemIDs[item.ID] = struct{}{}
	}

	for i, c := range s.Connectors {
		if c.ID == "" {
			return fmt.Errorf("connectors[%d]: %w", i, ErrMissingID)
		}
		if err := checkUserRefs(c.CreatedBy, c.ModifiedBy); err != nil {
			return fmt.Errorf("connectors[%d]: %w", i, err)
		}
		for _, end := range []*Endpoint{c.StartItem, c.EndItem} {
			if end == nil {
				continue
			}
			if end.ID == "" {
				return fmt.Errorf("connectors[%d] endpoint: %w", i, ErrMissingID)
			}
			if _, ok := itemIDs[end.ID]; !ok {
				return fmt.Errorf("connectors[%d] -> item %q: %w", i, end.ID, ErrDanglingEndpoint)
			}
		}
	}

	return nil
}

func checkUserRefs(refs ...*UserRef) error {
	for _, r := range refs {
		if r == nil {
			continue
		}
		if r.Type != TypeUser {
			return fmt.Errorf("user ref type %q: %w", r.Type, ErrUnexpectedType)
		}
	}
	return nil
}
