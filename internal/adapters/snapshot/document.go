// Package snapshot reads and writes the JSON document a simulation is saved as. The same
// reader also accepts the initial configuration dialect: no roads, sources as plain names and
// optional coordinates.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the persisted state of a simulation
type Document struct {
	RequestID int           `json:"requestId"`
	Cycle     int           `json:"cycle"`
	Recipes   []RecipeDoc   `json:"recipes"`
	Types     []TypeDoc     `json:"types"`
	Buildings []BuildingDoc `json:"buildings"`
	Requests  []RequestDoc  `json:"requests,omitempty"`

	// Policies buildings start on until one is set on them; empty means the configured default
	DefaultRequestPolicy string `json:"defaultRequestPolicy,omitempty"`
	DefaultSourcePolicy  string `json:"defaultSourcePolicy,omitempty"`

	// Roads is nil for an initial configuration
	Roads []RoadDoc `json:"roads"`
}

// Initial reports whether the document is a hand-written initial configuration rather than a
// saved simulation
func (d *Document) Initial() bool {
	return d.Roads == nil
}

type RecipeDoc struct {
	Output      string      `json:"output"`
	Latency     int         `json:"latency"`
	Ingredients Ingredients `json:"ingredients"`
	Waste       *string     `json:"waste,omitempty"`
	WasteAmount int         `json:"wasteAmount,omitempty"`
}

type TypeDoc struct {
	Name    string   `json:"name"`
	Recipes []string `json:"recipes"`
}

// BuildingDoc holds every building variant. The variant is told apart by which of type, mine,
// stores or wasteTypes is present; a document with none of them is a drone port.
type BuildingDoc struct {
	Name       string `json:"name"`
	RemoveMark bool   `json:"removeMark,omitempty"`

	// factory
	Type           *string     `json:"type,omitempty"`
	Wastes         []WasteDoc  `json:"wastes,omitempty"`
	WasteDisposals []SourceDoc `json:"wasteDisposals,omitempty"`

	// mine
	Mine *string `json:"mine,omitempty"`

	// storage
	Stores    *string  `json:"stores,omitempty"`
	Priority  *float64 `json:"priority,omitempty"`
	Frequency *int     `json:"frequency,omitempty"`
	Remain    *int     `json:"remain,omitempty"`
	Amount    *int     `json:"amount,omitempty"`

	// storage and waste disposal
	Capacity *int `json:"capacity,omitempty"`

	// waste disposal
	WasteTypes      []string `json:"wasteTypes,omitempty"`
	DisposeAmount   *int     `json:"disposeAmount,omitempty"`
	DisposeInterval *int     `json:"disposeInterval,omitempty"`
	Interval        *int     `json:"interval,omitempty"`
	CurrentAmount   *int     `json:"currentAmount,omitempty"`
	PredictedAmount *int     `json:"predictedAmount,omitempty"`

	// drone port
	Drones []DroneDoc `json:"drones,omitempty"`

	Sources []SourceDoc `json:"sources,omitempty"`

	Coordinate           []int          `json:"coordinate,omitempty"`
	Inventory            map[string]int `json:"inventory,omitempty"`
	Requests             []int          `json:"requests,omitempty"`
	CurrReq              *int           `json:"currReq,omitempty"`
	Time                 *int           `json:"time,omitempty"`
	Deliveries           []DeliveryDoc  `json:"deliveries,omitempty"`
	RequestPolicy        string         `json:"requestPolicy,omitempty"`
	SourcePolicy         string         `json:"sourcePolicy,omitempty"`
	DefaultRequestPolicy *bool          `json:"defaultRequestPolicy,omitempty"`
	DefaultSourcePolicy  *bool          `json:"defaultSourcePolicy,omitempty"`
}

type DeliveryDoc struct {
	RequestID  int    `json:"requestID"`
	TimeLeft   int    `json:"timeleft"`
	Requester  string `json:"requester"`
	Coordinate []int  `json:"coordinate,omitempty"`
}

type DroneDoc struct {
	InUse      bool  `json:"inUse"`
	Speed      int   `json:"speed,omitempty"`
	Source     []int `json:"source,omitempty"`
	RequestID  *int  `json:"requestID,omitempty"`
	CurrTime   int   `json:"currTime,omitempty"`
	Coordinate []int `json:"coordinate,omitempty"`
}

type RequestDoc struct {
	ID            int    `json:"id"`
	Recipe        string `json:"recipe,omitempty"`
	Amount        *int   `json:"amount,omitempty"`
	Requester     string `json:"requester,omitempty"`
	State         string `json:"state"`
	IsUserRequest bool   `json:"isUserRequest"`
	SubRequests   []int  `json:"subRequests,omitempty"`
}

type RoadDoc struct {
	Coordinate []int `json:"coordinate"`
	Direction  []int `json:"direction,omitempty"`
}

// Ingredient is one entry of a recipe's ingredient object
type Ingredient struct {
	Name     string
	Quantity int
}

// Ingredients is a JSON object whose key order is significant: it is the order sub-requests
// are placed in
type Ingredients []Ingredient

func (in Ingredients) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, ing := range in {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(ing.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", ing.Quantity)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (in *Ingredients) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*in = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("ingredients must be an object, got %v", tok)
	}
	var out Ingredients
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		var qty int
		if err := dec.Decode(&qty); err != nil {
			return fmt.Errorf("ingredient '%v': %w", keyTok, err)
		}
		out = append(out, Ingredient{Name: keyTok.(string), Quantity: qty})
	}
	*in = out
	return nil
}

// SourceDoc is a connection to another building. It is written as
// [name, secondRow, secondCol, secondLastRow, secondLastCol], the first and last interior
// squares of the route, and may be read back from a bare name in an initial configuration.
type SourceDoc struct {
	Name       string
	Second     [2]int
	SecondLast [2]int
	HasPath    bool
}

func (s SourceDoc) MarshalJSON() ([]byte, error) {
	if !s.HasPath {
		return json.Marshal(s.Name)
	}
	return json.Marshal([]interface{}{s.Name, s.Second[0], s.Second[1], s.SecondLast[0], s.SecondLast[1]})
}

func (s *SourceDoc) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = SourceDoc{Name: name}
		return nil
	}
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil || len(tuple) != 5 {
		return fmt.Errorf("each source must be an array of 5 elements")
	}
	if err := json.Unmarshal(tuple[0], &s.Name); err != nil {
		return fmt.Errorf("source name must be a string: %w", err)
	}
	coords := make([]int, 4)
	for i := range coords {
		if err := json.Unmarshal(tuple[i+1], &coords[i]); err != nil {
			return fmt.Errorf("source '%s' coordinate %d: %w", s.Name, i, err)
		}
	}
	s.Second = [2]int{coords[0], coords[1]}
	s.SecondLast = [2]int{coords[2], coords[3]}
	s.HasPath = true
	return nil
}

// WasteDoc is a [item, amount] pair
type WasteDoc struct {
	Item   string
	Amount int
}

func (w WasteDoc) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{w.Item, w.Amount})
}

func (w *WasteDoc) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil || len(pair) != 2 {
		return fmt.Errorf("each waste must be an [item, amount] pair")
	}
	if err := json.Unmarshal(pair[0], &w.Item); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &w.Amount)
}

// Parse decodes a document
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse simulation document: %w", err)
	}
	return &doc, nil
}

// Marshal encodes a document with indentation
func Marshal(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
