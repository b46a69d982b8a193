package domain

import "time"

// RelativePosition pins a connector end to a point on the target item,
// expressed as percentages of the item's bounding box ("50%", "0%").
type RelativePosition struct {
	X string `json:"x,omitempty"`
	Y string `json:"y,omitempty"`
}

// Endpoint is one end of a connector: the item it attaches to and,
// optionally, where on that item it is pinned.
type Endpoint struct {
	ID       string            `json:"id"`
	Position *RelativePosition `json:"position,omitempty"`
}

// ConnectorStyle is the stroke and caption styling of a connector.
type ConnectorStyle struct {
	Color           string `json:"color,omitempty"`
	EndStrokeCap    string `json:"endStrokeCap,omitempty"`
	FontSize        string `json:"fontSize,omitempty"`
	StartStrokeCap  string `json:"startStrokeCap,omitempty"`
	StrokeColor     string `json:"strokeColor,omitempty"`
	StrokeStyle     string `json:"strokeStyle,omitempty"`
	StrokeWidth     string `json:"strokeWidth,omitempty"`
	TextOrientation string `json:"textOrientation,omitempty"`
}

// Connector is a directed link between two items on the same board.
type Connector struct {
	ID         string          `json:"id"`
	StartItem  *Endpoint       `json:"startItem,omitempty"`
	EndItem    *Endpoint       `json:"endItem,omitempty"`
	Shape      string          `json:"shape,omitempty"`
	Style      *ConnectorStyle `json:"style,omitempty"`
	Links      *Links          `json:"links,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	CreatedBy  *UserRef        `json:"createdBy,omitempty"`
	ModifiedAt time.Time       `json:"modifiedAt"`
	ModifiedBy *UserRef        `json:"modifiedBy,omitempty"`
}
