package domain

import "time"

// TypeCard is the only item type this backup captures.
const TypeCard = "card"

// ItemData is the content payload of a card.
type ItemData struct {
	Title   string `json:"title,omitempty"`
	DueDate string `json:"dueDate,omitempty"`
}

// ItemStyle is the visual theme of a card.
type ItemStyle struct {
	CardTheme string `json:"cardTheme,omitempty"`
}

// Geometry is an item's width and height on the canvas.
type Geometry struct {
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Position locates an item on the canvas. Origin says which point of the
// item x/y refer to; RelativeTo says which coordinate space they live in.
type Position struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Origin     string  `json:"origin,omitempty"`
	RelativeTo string  `json:"relativeTo,omitempty"`
}

// Item is one card captured from a board.
type Item struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Data       *ItemData  `json:"data,omitempty"`
	Style      *ItemStyle `json:"style,omitempty"`
	Geometry   *Geometry  `json:"geometry,omitempty"`
	Position   *Position  `json:"position,omitempty"`
	Links      *Links     `json:"links,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	CreatedBy  *UserRef   `json:"createdBy,omitempty"`
	ModifiedAt time.Time  `json:"modifiedAt"`
	ModifiedBy *UserRef   `json:"modifiedBy,omitempty"`
}
