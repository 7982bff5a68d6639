package catalog

import (
	"fmt"
)

// MaxRows is the WhatsApp interactive-list ceiling; the Graph API rejects
// lists with more rows.
const MaxRows = 10

// ControlTag identifies a selection id with fixed engine-level meaning
// instead of a catalog lookup target.
type ControlTag string

const (
	// ControlBackHome resets the session and re-shows the root menu.
	ControlBackHome ControlTag = "BACK_HOME"
	// ControlHandoff escalates the conversation to a human operator.
	ControlHandoff ControlTag = "ATENDIMENTO_HUMANO"
	// ControlSchedule starts the scheduling flow (handled by the team, so it
	// also escalates to a human).
	ControlSchedule ControlTag = "AGENDAR_AVALIACAO"
)

// Row is one selectable option inside a menu list.
type Row struct {
	ID          string
	Title       string
	Description string
}

// MenuNode is a renderable list of selectable options.
type MenuNode struct {
	Key    string
	Header string
	Body   string
	Footer string
	Button string
	Rows   []Row
}

// DetailEntry is a static informational reply tied back to the menu it was
// selected from, so the user never dead-ends on a leaf.
type DetailEntry struct {
	Key      string
	Body     string
	BackMenu string
}

// RouteKind discriminates what a selection id resolved to.
type RouteKind int

const (
	RouteNotFound RouteKind = iota
	RouteMenu
	RouteDetail
	RouteControl
)

// Route is the resolved meaning of a selection id. Exactly one of Menu,
// Detail or Control is populated according to Kind.
type Route struct {
	Kind    RouteKind
	Menu    *MenuNode
	Detail  *DetailEntry
	Control ControlTag
}

// Catalog is a read-only tree of menus and detail entries addressed by
// stable string ids.
type Catalog struct {
	rootKey string
	menus   map[string]*MenuNode
	details map[string]*DetailEntry
}

// New builds a Catalog and validates it: every row id in every menu must
// resolve to a menu, a detail entry or a reserved control, every detail
// must point back at an existing menu, and no list may exceed MaxRows.
// A dangling id is a construction-time failure, never a runtime one.
func New(rootKey string, menus []MenuNode, details []DetailEntry) (*Catalog, error) {
	c := &Catalog{
		rootKey: rootKey,
		menus:   make(map[string]*MenuNode, len(menus)),
		details: make(map[string]*DetailEntry, len(details)),
	}
	for i := range menus {
		m := menus[i]
		if m.Key == "" {
			return nil, fmt.Errorf("catalog: menu at index %d has empty key", i)
		}
		if _, dup := c.menus[m.Key]; dup {
			return nil, fmt.Errorf("catalog: duplicate menu key %q", m.Key)
		}
		c.menus[m.Key] = &menus[i]
	}
	for i := range details {
		d := details[i]
		if d.Key == "" {
			return nil, fmt.Errorf("catalog: detail at index %d has empty key", i)
		}
		if _, dup := c.details[d.Key]; dup {
			return nil, fmt.Errorf("catalog: duplicate detail key %q", d.Key)
		}
		if _, clash := c.menus[d.Key]; clash {
			return nil, fmt.Errorf("catalog: key %q is both a menu and a detail", d.Key)
		}
		c.details[d.Key] = &details[i]
	}

	if _, ok := c.menus[rootKey]; !ok {
		return nil, fmt.Errorf("catalog: root menu %q not defined", rootKey)
	}

	for _, m := range c.menus {
		if len(m.Rows) == 0 {
			return nil, fmt.Errorf("catalog: menu %q has no rows", m.Key)
		}
		if len(m.Rows) > MaxRows {
			return nil, fmt.Errorf("catalog: menu %q has %d rows, max is %d", m.Key, len(m.Rows), MaxRows)
		}
		for _, row := range m.Rows {
			if row.ID == "" {
				return nil, fmt.Errorf("catalog: menu %q has a row with empty id", m.Key)
			}
			if c.Resolve(row.ID).Kind == RouteNotFound {
				return nil, fmt.Errorf("catalog: menu %q row %q does not resolve", m.Key, row.ID)
			}
		}
	}
	for _, d := range c.details {
		if _, ok := c.menus[d.BackMenu]; !ok {
			return nil, fmt.Errorf("catalog: detail %q back-references unknown menu %q", d.Key, d.BackMenu)
		}
	}
	return c, nil
}

// Root returns the root menu.
func (c *Catalog) Root() *MenuNode {
	return c.menus[c.rootKey]
}

// Menu returns a menu by key, or nil.
func (c *Catalog) Menu(key string) *MenuNode {
	return c.menus[key]
}

// Resolve maps a selection id to its Route. O(1) lookup, no side effects.
func (c *Catalog) Resolve(id string) Route {
	switch ControlTag(id) {
	case ControlBackHome, ControlHandoff, ControlSchedule:
		return Route{Kind: RouteControl, Control: ControlTag(id)}
	}
	if m, ok := c.menus[id]; ok {
		return Route{Kind: RouteMenu, Menu: m}
	}
	if d, ok := c.details[id]; ok {
		return Route{Kind: RouteDetail, Detail: d}
	}
	return Route{Kind: RouteNotFound}
}
