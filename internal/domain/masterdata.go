package domain

import (
	"fmt"
	"slices"
)

// Category is a clothing category. Parent categories have no ParentID;
// every child category points at a parent.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
	IsParent bool   `json:"is_parent"`
}

// Equal compares categories by value, including the parent reference
func (c Category) Equal(other Category) bool {
	if c.ID != other.ID || c.Name != other.Name || c.IsParent != other.IsParent {
		return false
	}
	if c.ParentID == nil || other.ParentID == nil {
		return c.ParentID == nil && other.ParentID == nil
	}
	return *c.ParentID == *other.ParentID
}

type Color struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex,omitempty"`
}

type Material struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Pattern struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Occasion struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// MasterData is the server-provided reference taxonomy shared by all users
type MasterData struct {
	Categories []Category `json:"Categories"`
	Colors     []Color    `json:"Colors"`
	Materials  []Material `json:"Materials"`
	Patterns   []Pattern  `json:"Patterns"`
	Occasions  []Occasion `json:"Occasions"`
}

// Equal reports structural equality. Collections are compared in order and
// a nil collection equals an empty one.
func (m *MasterData) Equal(other *MasterData) bool {
	if m == nil || other == nil {
		return m == other
	}
	return slices.EqualFunc(m.Categories, other.Categories, Category.Equal) &&
		slices.Equal(m.Colors, other.Colors) &&
		slices.Equal(m.Materials, other.Materials) &&
		slices.Equal(m.Patterns, other.Patterns) &&
		slices.Equal(m.Occasions, other.Occasions)
}

// Validate checks the two-level category invariant
func (m *MasterData) Validate() error {
	if m == nil {
		return nil
	}
	parents := make(map[int64]bool, len(m.Categories))
	for _, c := range m.Categories {
		if c.IsParent {
			if c.ParentID != nil {
				return fmt.Errorf("%w: parent category %d has parent %d", ErrInvalidTaxonomy, c.ID, *c.ParentID)
			}
			parents[c.ID] = true
		}
	}
	for _, c := range m.Categories {
		if c.IsParent {
			continue
		}
		if c.ParentID == nil {
			return fmt.Errorf("%w: category %d has no parent", ErrInvalidTaxonomy, c.ID)
		}
		if !parents[*c.ParentID] {
			return fmt.Errorf("%w: category %d points at %d which is not a parent", ErrInvalidTaxonomy, c.ID, *c.ParentID)
		}
	}
	return nil
}

// ParentCategories returns the top-level categories in server order
func (m *MasterData) ParentCategories() []Category {
	if m == nil {
		return nil
	}
	var out []Category
	for _, c := range m.Categories {
		if c.IsParent {
			out = append(out, c)
		}
	}
	return out
}

// Subcategories returns the children of the given parent category
func (m *MasterData) Subcategories(parentID int64) []Category {
	if m == nil {
		return nil
	}
	var out []Category
	for _, c := range m.Categories {
		if !c.IsParent && c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out
}

// Occasion looks up an occasion by ID
func (m *MasterData) Occasion(id int64) (Occasion, bool) {
	if m == nil {
		return Occasion{}, false
	}
	for _, o := range m.Occasions {
		if o.ID == id {
			return o, true
		}
	}
	return Occasion{}, false
}

// Clone returns a copy that shares no slices with m
func (m *MasterData) Clone() *MasterData {
	if m == nil {
		return nil
	}
	out := &MasterData{
		Categories: slices.Clone(m.Categories),
		Colors:     slices.Clone(m.Colors),
		Materials:  slices.Clone(m.Materials),
		Patterns:   slices.Clone(m.Patterns),
		Occasions:  slices.Clone(m.Occasions),
	}
	for i, c := range out.Categories {
		if c.ParentID != nil {
			id := *c.ParentID
			out.Categories[i].ParentID = &id
		}
	}
	return out
}
