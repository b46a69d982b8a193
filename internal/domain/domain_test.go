package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoshizora/mirovault/internal/domain"
)

func validBoard() domain.Board {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return domain.Board{
		ID:         "uXjVK0A4Zq8=",
		Type:       domain.TypeBoard,
		Name:       "Sprint planning",
		CreatedAt:  now,
		CreatedBy:  &domain.UserRef{ID: "u1", Type: domain.TypeUser, Name: "mika"},
		ModifiedAt: now,
		ModifiedBy: &domain.UserRef{ID: "u1", Type: domain.TypeUser, Name: "mika"},
	}
}

func validItem(id string) domain.Item {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return domain.Item{
		ID:         id,
		Type:       domain.TypeCard,
		Data:       &domain.ItemData{Title: "card " + id},
		Position:   &domain.Position{X: 10, Y: 20, Origin: "center"},
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

func validConnector(id, from, to string) domain.Connector {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return domain.Connector{
		ID:         id,
		StartItem:  &domain.Endpoint{ID: from},
		EndItem:    &domain.Endpoint{ID: to, Position: &domain.RelativePosition{X: "50%", Y: "0%"}},
		Shape:      "curved",
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// ---------------------------------------------------------------------------
// 1. NewSnapshot — metadata derivation and slice normalization.
// ---------------------------------------------------------------------------

func TestNewSnapshot_CountsMatchArrays(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	items := []domain.Item{validItem("i1"), validItem("i2")}
	connectors := []domain.Connector{validConnector("c1", "i1", "i2")}

	snap := domain.NewSnapshot(validBoard(), items, connectors, at)

	assert.Equal(t, 2, snap.Metadata.TotalItems)
	assert.Equal(t, 1, snap.Metadata.TotalConnectors)
	assert.Equal(t, at, snap.Metadata.BackupDate)
	assert.Len(t, snap.Items, snap.Metadata.TotalItems)
	assert.Len(t, snap.Connectors, snap.Metadata.TotalConnectors)
}

func TestNewSnapshot_NilSlicesBecomeEmpty(t *testing.T) {
	t.Parallel()

	snap := domain.NewSnapshot(validBoard(), nil, nil, time.Now())

	require.NotNil(t, snap.Items)
	require.NotNil(t, snap.Connectors)
	assert.Zero(t, snap.Metadata.TotalItems)
	assert.Zero(t, snap.Metadata.TotalConnectors)
}

// ---------------------------------------------------------------------------
// 2. Snapshot.Validate — invariants.
// ---------------------------------------------------------------------------

func TestSnapshot_Validate(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(s *domain.Snapshot)
		wantErr error
	}{
		{
			name:   "valid with one item and no connectors",
			mutate: func(s *domain.Snapshot) { s.Connectors = nil; s.Metadata.TotalConnectors = 0; s.Items = s.Items[:1]; s.Metadata.TotalItems = 1 },
		},
		{
			name:   "valid with two items and one connector",
			mutate: func(s *domain.Snapshot) {},
		},
		{
			name:    "empty board id",
			mutate:  func(s *domain.Snapshot) { s.BoardInfo.ID = "" },
			wantErr: domain.ErrMissingBoard,
		},
		{
			name:    "wrong board type",
			mutate:  func(s *domain.Snapshot) { s.BoardInfo.Type = "frame" },
			wantErr: domain.ErrUnexpectedType,
		},
		{
			name:    "wrong owner ref type",
			mutate:  func(s *domain.Snapshot) { s.BoardInfo.Owner = &domain.UserRef{ID: "u9", Type: "team"} },
			wantErr: domain.ErrUnexpectedType,
		},
		{
			name:    "item count mismatch",
			mutate:  func(s *domain.Snapshot) { s.Metadata.TotalItems++ },
			wantErr: domain.ErrCountMismatch,
		},
		{
			name:    "connector count mismatch",
			mutate:  func(s *domain.Snapshot) { s.Metadata.TotalConnectors-- },
			wantErr: domain.ErrCountMismatch,
		},
		{
			name:    "item with empty id",
			mutate:  func(s *domain.Snapshot) { s.Items[0].ID = "" },
			wantErr: domain.ErrMissingID,
		},
		{
			name:    "item with wrong type",
			mutate:  func(s *domain.Snapshot) { s.Items[1].Type = "sticky_note" },
			wantErr: domain.ErrUnexpectedType,
		},
		{
			name:    "connector start references missing item",
			mutate:  func(s *domain.Snapshot) { s.Connectors[0].StartItem.ID = "ghost" },
			wantErr: domain.ErrDanglingEndpoint,
		},
		{
			name:    "connector end references missing item",
			mutate:  func(s *domain.Snapshot) { s.Connectors[0].EndItem.ID = "ghost" },
			wantErr: domain.ErrDanglingEndpoint,
		},
		{
			name:    "connector endpoint with empty id",
			mutate:  func(s *domain.Snapshot) { s.Connectors[0].EndItem.ID = "" },
			wantErr: domain.ErrMissingID,
		},
		{
			name:    "connector created_by with wrong type",
			mutate:  func(s *domain.Snapshot) { s.Connectors[0].CreatedBy = &domain.UserRef{ID: "u2", Type: "bot"} },
			wantErr: domain.ErrUnexpectedType,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			items := []domain.Item{validItem("i1"), validItem("i2")}
			connectors := []domain.Connector{validConnector("c1", "i1", "i2")}
			snap := domain.NewSnapshot(validBoard(), items, connectors, at)
			tt.mutate(snap)

			err := snap.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSnapshot_Validate_ConnectorWithoutEndpoints(t *testing.T) {
	t.Parallel()

	// The API can return connectors whose ends were detached; those carry no
	// endpoint references and must still be accepted.
	c := validConnector("c1", "", "")
	c.StartItem = nil
	c.EndItem = nil

	snap := domain.NewSnapshot(validBoard(), []domain.Item{validItem("i1")}, []domain.Connector{c}, time.Now())

	assert.NoError(t, snap.Validate())
}
